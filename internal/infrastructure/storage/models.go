package storage

import "time"

// Run statuses
const (
	RunStatusRunning             = "running"
	RunStatusCompleted           = "completed"
	RunStatusCompletedWithErrors = "completed_with_errors"
	RunStatusFailed              = "failed"
)

// RunStart describes a run as it begins
type RunStart struct {
	Budget        string
	Account       string
	StatementPath string
	Mode          string // "reconcile" or "compare"
	DryRun        bool
}

// RunSummary is what a run found and did. An empty Status is derived from
// the failure counts.
type RunSummary struct {
	StatementCount     int
	LedgerCount        int
	ReconciledCount    int
	UnmatchedStatement int
	UnmatchedLedger    int
	Difference         string
	StatusClass        string
	Added              int
	AddFailed          int
	Deleted            int
	DeleteFailed       int
	Status             string
}

// Run is a journaled reconcile run
type Run struct {
	ID            int64      `json:"id"`
	UUID          string     `json:"run_uuid"`
	Budget        string     `json:"budget"`
	Account       string     `json:"account"`
	StatementPath string     `json:"statement_path"`
	Mode          string     `json:"mode"`
	DryRun        bool       `json:"dry_run"`
	StartedAt     time.Time  `json:"started_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`

	StatementCount     int    `json:"statement_count"`
	LedgerCount        int    `json:"ledger_count"`
	ReconciledCount    int    `json:"reconciled_count"`
	UnmatchedStatement int    `json:"unmatched_statement"`
	UnmatchedLedger    int    `json:"unmatched_ledger"`
	Difference         string `json:"difference"`
	StatusClass        string `json:"status_class"`
	Added              int    `json:"added"`
	AddFailed          int    `json:"add_failed"`
	Deleted            int    `json:"deleted"`
	DeleteFailed       int    `json:"delete_failed"`
	Status             string `json:"status"`
}

// APICall represents a logged ledger mutation
type APICall struct {
	ID             int64     `json:"id"`
	RunID          int64     `json:"run_id"`
	Method         string    `json:"method"`
	TransactionRef string    `json:"transaction_ref"`
	RequestJSON    string    `json:"request_json,omitempty"`
	ResponseJSON   string    `json:"response_json,omitempty"`
	Error          string    `json:"error,omitempty"`
	DurationMs     int64     `json:"duration_ms"`
	CreatedAt      time.Time `json:"created_at"`
}

func (s RunSummary) status() string {
	if s.Status != "" {
		return s.Status
	}
	if s.AddFailed > 0 || s.DeleteFailed > 0 {
		return RunStatusCompletedWithErrors
	}
	return RunStatusCompleted
}
