package reconcile

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/eshaffer321/ynab-reconcile/internal/adapters/ynab"
	"github.com/eshaffer321/ynab-reconcile/internal/domain/transactions"
	"github.com/eshaffer321/ynab-reconcile/internal/infrastructure/storage"
)

// MaxPayeeLength bounds the payee name derived from a statement description
const MaxPayeeLength = 50

// Mutator applies approved creates and deletes to the ledger one at a time.
// A failed item is logged and counted; it never stops the rest of the batch.
type Mutator struct {
	client LedgerWriter
	logger *slog.Logger
	store  storage.Repository
	runID  int64
	dryRun bool
	now    func() time.Time
}

// NewMutator creates a new mutator. store may be nil.
func NewMutator(client LedgerWriter, logger *slog.Logger, store storage.Repository, runID int64, dryRun bool) *Mutator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mutator{
		client: client,
		logger: logger.With(slog.String("component", "mutator")),
		store:  store,
		runID:  runID,
		dryRun: dryRun,
		now:    time.Now,
	}
}

// BuildNewTransaction maps a statement row to a create payload
func (m *Mutator) BuildNewTransaction(accountID string, row transactions.StatementTransaction) ynab.NewTransaction {
	return ynab.NewTransaction{
		AccountID: accountID,
		Date:      row.Date,
		Amount:    row.Amount,
		PayeeName: truncate(row.Description, MaxPayeeLength),
		Memo:      fmt.Sprintf("Added from bank statement on %s", m.now().Format("2006-01-02")),
		Cleared:   string(transactions.Cleared),
		Approved:  true,
	}
}

// ApplyCreates creates the given statement rows, oldest first
func (m *Mutator) ApplyCreates(ctx context.Context, budgetID, accountID string, rows []transactions.StatementTransaction) PhaseResult {
	sorted := append([]transactions.StatementTransaction(nil), rows...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	result := PhaseResult{Errors: make([]error, 0)}

	for _, row := range sorted {
		if err := ctx.Err(); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("create phase stopped: %w", err))
			break
		}

		tx := m.BuildNewTransaction(accountID, row)
		fields := []any{
			"date", row.Date.Format("2006-01-02"),
			"amount", row.Amount.StringFixed(2),
			"payee", tx.PayeeName,
		}

		if m.dryRun {
			m.logger.Info("[DRY RUN] Would create transaction", fields...)
			result.Skipped++
			continue
		}

		result.Attempted++
		start := time.Now()
		id, err := m.client.CreateTransaction(ctx, budgetID, tx)
		m.logAPICall("CreateTransaction", row.GetMatchingKey(), tx, map[string]string{"id": id}, err, time.Since(start))

		if err != nil {
			m.logger.Error("Failed to create transaction", append(fields, "error", err)...)
			result.Failed++
			result.Errors = append(result.Errors, fmt.Errorf("create %s %s %q: %w",
				row.Date.Format("2006-01-02"), row.Amount.StringFixed(2), tx.PayeeName, err))
			continue
		}

		m.logger.Info("Created transaction", append(fields, "transaction_id", id)...)
		result.Succeeded++
	}

	return result
}

// ApplyDeletes deletes the given ledger transactions by ID, oldest first
func (m *Mutator) ApplyDeletes(ctx context.Context, budgetID string, txns []transactions.LedgerTransaction) PhaseResult {
	sorted := append([]transactions.LedgerTransaction(nil), txns...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	result := PhaseResult{Errors: make([]error, 0)}

	for _, tx := range sorted {
		if err := ctx.Err(); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("delete phase stopped: %w", err))
			break
		}

		fields := []any{
			"transaction_id", tx.ID,
			"date", tx.Date.Format("2006-01-02"),
			"amount", tx.Amount.StringFixed(2),
			"payee", tx.Payee,
		}

		if m.dryRun {
			m.logger.Info("[DRY RUN] Would delete transaction", fields...)
			result.Skipped++
			continue
		}

		result.Attempted++
		start := time.Now()
		err := m.client.DeleteTransaction(ctx, budgetID, tx.ID)
		m.logAPICall("DeleteTransaction", tx.ID, map[string]string{"transaction_id": tx.ID}, nil, err, time.Since(start))

		if err != nil {
			m.logger.Error("Failed to delete transaction", append(fields, "error", err)...)
			result.Failed++
			result.Errors = append(result.Errors, fmt.Errorf("delete %s (%s %q): %w",
				tx.ID, tx.Date.Format("2006-01-02"), tx.Payee, err))
			continue
		}

		m.logger.Info("Deleted transaction", fields...)
		result.Succeeded++
	}

	return result
}

// logAPICall writes one mutation to the audit journal
func (m *Mutator) logAPICall(method, ref string, request, response interface{}, err error, duration time.Duration) {
	if m.store == nil || m.runID == 0 {
		return
	}

	requestJSON, marshalErr := json.Marshal(request)
	if marshalErr != nil {
		requestJSON = []byte(fmt.Sprintf(`{"error": "failed to marshal: %v"}`, marshalErr))
	}

	responseJSON := []byte("")
	if response != nil && err == nil {
		if b, marshalErr := json.Marshal(response); marshalErr == nil {
			responseJSON = b
		}
	}

	errStr := ""
	if err != nil {
		errStr = err.Error()
	}

	call := &storage.APICall{
		RunID:          m.runID,
		Method:         method,
		TransactionRef: ref,
		RequestJSON:    string(requestJSON),
		ResponseJSON:   string(responseJSON),
		Error:          errStr,
		DurationMs:     duration.Milliseconds(),
	}
	if logErr := m.store.LogAPICall(call); logErr != nil {
		m.logger.Warn("Failed to log API call", "method", method, "error", logErr)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
