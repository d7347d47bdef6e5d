package dto

import (
	"time"

	"github.com/eshaffer321/ynab-reconcile/internal/infrastructure/storage"
)

const timeLayout = time.RFC3339

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Journal   bool   `json:"journal"`
	Compare   bool   `json:"compare"`
}

// NewHealthResponse creates a health response with current timestamp.
func NewHealthResponse() HealthResponse {
	return HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(timeLayout),
	}
}

// RunResponse represents a reconcile run in API responses.
type RunResponse struct {
	ID                 int64  `json:"id"`
	UUID               string `json:"uuid"`
	Budget             string `json:"budget"`
	Account            string `json:"account"`
	StatementPath      string `json:"statement_path,omitempty"`
	Mode               string `json:"mode"`
	DryRun             bool   `json:"dry_run"`
	StartedAt          string `json:"started_at"`
	CompletedAt        string `json:"completed_at,omitempty"`
	StatementCount     int    `json:"statement_count"`
	LedgerCount        int    `json:"ledger_count"`
	ReconciledCount    int    `json:"reconciled_count"`
	UnmatchedStatement int    `json:"unmatched_statement"`
	UnmatchedLedger    int    `json:"unmatched_ledger"`
	Difference         string `json:"difference"`
	StatusClass        string `json:"status_class,omitempty"`
	Added              int    `json:"added"`
	AddFailed          int    `json:"add_failed"`
	Deleted            int    `json:"deleted"`
	DeleteFailed       int    `json:"delete_failed"`
	Status             string `json:"status"`
}

// RunListResponse is returned when listing runs.
type RunListResponse struct {
	Runs  []RunResponse `json:"runs"`
	Count int           `json:"count"`
}

// NewRunResponse converts a stored run.
func NewRunResponse(run storage.Run) RunResponse {
	resp := RunResponse{
		ID:                 run.ID,
		UUID:               run.UUID,
		Budget:             run.Budget,
		Account:            run.Account,
		StatementPath:      run.StatementPath,
		Mode:               run.Mode,
		DryRun:             run.DryRun,
		StartedAt:          run.StartedAt.UTC().Format(timeLayout),
		StatementCount:     run.StatementCount,
		LedgerCount:        run.LedgerCount,
		ReconciledCount:    run.ReconciledCount,
		UnmatchedStatement: run.UnmatchedStatement,
		UnmatchedLedger:    run.UnmatchedLedger,
		Difference:         run.Difference,
		StatusClass:        run.StatusClass,
		Added:              run.Added,
		AddFailed:          run.AddFailed,
		Deleted:            run.Deleted,
		DeleteFailed:       run.DeleteFailed,
		Status:             run.Status,
	}
	if run.CompletedAt != nil {
		resp.CompletedAt = run.CompletedAt.UTC().Format(timeLayout)
	}
	return resp
}

// APICallResponse is one journaled create or delete.
type APICallResponse struct {
	ID             int64  `json:"id"`
	Method         string `json:"method"`
	TransactionRef string `json:"transaction_ref"`
	RequestJSON    string `json:"request_json,omitempty"`
	ResponseJSON   string `json:"response_json,omitempty"`
	Error          string `json:"error,omitempty"`
	DurationMs     int64  `json:"duration_ms"`
	CreatedAt      string `json:"created_at"`
}

// APICallListResponse is returned when listing the calls of a run.
type APICallListResponse struct {
	RunID int64             `json:"run_id"`
	Calls []APICallResponse `json:"calls"`
	Count int               `json:"count"`
}

// NewAPICallResponse converts a stored call.
func NewAPICallResponse(call storage.APICall) APICallResponse {
	return APICallResponse{
		ID:             call.ID,
		Method:         call.Method,
		TransactionRef: call.TransactionRef,
		RequestJSON:    call.RequestJSON,
		ResponseJSON:   call.ResponseJSON,
		Error:          call.Error,
		DurationMs:     call.DurationMs,
		CreatedAt:      call.CreatedAt.UTC().Format(timeLayout),
	}
}
