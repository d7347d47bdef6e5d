package storage

// Repository defines the complete storage interface for the audit journal.
// The journal records what a reconcile run saw and did. Nothing reads it
// back to decide anything.
type Repository interface {
	RunRepository
	APICallRepository
	Close() error
}

// RunRepository handles reconcile run tracking
type RunRepository interface {
	// StartRun records the start of a run and returns its ID
	StartRun(start RunStart) (int64, error)

	// CompleteRun records the outcome of a run
	CompleteRun(runID int64, summary RunSummary) error

	// ListRuns returns the most recent runs, newest first
	ListRuns(limit int) ([]Run, error)

	// GetRun retrieves a run by ID. Returns nil, nil when it does not exist.
	GetRun(runID int64) (*Run, error)
}

// APICallRepository handles ledger mutation logging
type APICallRepository interface {
	// LogAPICall logs one create or delete call
	LogAPICall(call *APICall) error

	// GetAPICallsByRunID retrieves all API calls for a run in the order they were made
	GetAPICallsByRunID(runID int64) ([]APICall, error)
}
