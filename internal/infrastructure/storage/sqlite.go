// Package storage is the optional SQLite audit journal for reconcile runs.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

const timeLayout = time.RFC3339Nano

// Storage provides database access for the audit journal
type Storage struct {
	db  *sql.DB
	now func() time.Time
}

// Compile-time check that Storage implements Repository
var _ Repository = (*Storage)(nil)

// NewStorage creates a new storage instance with SQLite database
func NewStorage(dbPath string) (*Storage, error) {
	// Foreign keys are a per-connection setting, so enable them in the DSN
	// rather than with a one-off PRAGMA
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	if err := runMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Storage{db: db, now: time.Now}, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	return s.db.Close()
}

// StartRun records the start of a run
func (s *Storage) StartRun(start RunStart) (int64, error) {
	mode := start.Mode
	if mode == "" {
		mode = "reconcile"
	}

	query := `
		INSERT INTO reconcile_runs (run_uuid, budget, account, statement_path, mode, dry_run, started_at, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.Exec(query,
		uuid.NewString(),
		start.Budget,
		start.Account,
		start.StatementPath,
		mode,
		start.DryRun,
		s.now().UTC().Format(timeLayout),
		RunStatusRunning,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to start run: %w", err)
	}

	return result.LastInsertId()
}

// CompleteRun records the outcome of a run
func (s *Storage) CompleteRun(runID int64, summary RunSummary) error {
	query := `
		UPDATE reconcile_runs
		SET completed_at = ?,
		    statement_count = ?,
		    ledger_count = ?,
		    reconciled_count = ?,
		    unmatched_statement = ?,
		    unmatched_ledger = ?,
		    difference = ?,
		    status_class = ?,
		    added = ?,
		    add_failed = ?,
		    deleted = ?,
		    delete_failed = ?,
		    status = ?
		WHERE id = ?
	`

	difference := summary.Difference
	if difference == "" {
		difference = "0"
	}

	result, err := s.db.Exec(query,
		s.now().UTC().Format(timeLayout),
		summary.StatementCount,
		summary.LedgerCount,
		summary.ReconciledCount,
		summary.UnmatchedStatement,
		summary.UnmatchedLedger,
		difference,
		summary.StatusClass,
		summary.Added,
		summary.AddFailed,
		summary.Deleted,
		summary.DeleteFailed,
		summary.status(),
		runID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run %d: %w", runID, err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("run %d not found", runID)
	}
	return nil
}

const runColumns = `
	id, run_uuid, budget, account, statement_path, mode, dry_run, started_at, completed_at,
	statement_count, ledger_count, reconciled_count, unmatched_statement, unmatched_ledger,
	difference, status_class, added, add_failed, deleted, delete_failed, status`

// ListRuns returns recent runs
func (s *Storage) ListRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(`SELECT `+runColumns+` FROM reconcile_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	runs := make([]Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *run)
	}
	return runs, rows.Err()
}

// GetRun retrieves a run by ID
func (s *Storage) GetRun(runID int64) (*Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM reconcile_runs WHERE id = ?`, runID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return run, err
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(sc scanner) (*Run, error) {
	var run Run
	var startedAt string
	var completedAt sql.NullString

	err := sc.Scan(
		&run.ID, &run.UUID, &run.Budget, &run.Account, &run.StatementPath, &run.Mode, &run.DryRun,
		&startedAt, &completedAt,
		&run.StatementCount, &run.LedgerCount, &run.ReconciledCount,
		&run.UnmatchedStatement, &run.UnmatchedLedger,
		&run.Difference, &run.StatusClass,
		&run.Added, &run.AddFailed, &run.Deleted, &run.DeleteFailed,
		&run.Status,
	)
	if err != nil {
		return nil, err
	}

	if run.StartedAt, err = time.Parse(timeLayout, startedAt); err != nil {
		return nil, fmt.Errorf("run %d has invalid started_at: %w", run.ID, err)
	}
	if completedAt.Valid {
		t, err := time.Parse(timeLayout, completedAt.String)
		if err != nil {
			return nil, fmt.Errorf("run %d has invalid completed_at: %w", run.ID, err)
		}
		run.CompletedAt = &t
	}
	return &run, nil
}

// LogAPICall logs an API call to the database
func (s *Storage) LogAPICall(call *APICall) error {
	query := `
		INSERT INTO api_calls
		(run_id, method, transaction_ref, request_json, response_json, error, duration_ms, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	createdAt := call.CreatedAt
	if createdAt.IsZero() {
		createdAt = s.now()
	}

	result, err := s.db.Exec(query,
		call.RunID,
		call.Method,
		call.TransactionRef,
		call.RequestJSON,
		call.ResponseJSON,
		call.Error,
		call.DurationMs,
		createdAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return err
	}

	call.ID, _ = result.LastInsertId()
	return nil
}

// GetAPICallsByRunID retrieves all API calls for a specific run
func (s *Storage) GetAPICallsByRunID(runID int64) ([]APICall, error) {
	query := `
		SELECT id, run_id, method, transaction_ref, request_json, response_json, error, duration_ms, created_at
		FROM api_calls
		WHERE run_id = ?
		ORDER BY id ASC
	`

	rows, err := s.db.Query(query, runID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	calls := make([]APICall, 0)
	for rows.Next() {
		var call APICall
		var createdAt string
		err := rows.Scan(
			&call.ID,
			&call.RunID,
			&call.Method,
			&call.TransactionRef,
			&call.RequestJSON,
			&call.ResponseJSON,
			&call.Error,
			&call.DurationMs,
			&createdAt,
		)
		if err != nil {
			return nil, err
		}
		if call.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
			return nil, fmt.Errorf("api call %d has invalid created_at: %w", call.ID, err)
		}
		calls = append(calls, call)
	}

	return calls, rows.Err()
}
