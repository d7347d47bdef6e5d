package storage

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockRepository is an in-memory implementation of Repository for testing.
// It stores all data in maps and slices, making tests fast and isolated.
type MockRepository struct {
	mu        sync.Mutex
	runs      map[int64]*Run
	apiCalls  []APICall
	nextRunID int64
	nextCall  int64

	// Hooks for test assertions
	StartRunCalled    bool
	CompleteRunCalled bool
	LogAPICallCalled  bool
	LastSummary       *RunSummary

	// Error injection for testing error paths
	StartRunErr    error
	CompleteRunErr error
	LogAPICallErr  error
	ListRunsErr    error
}

// NewMockRepository creates a new mock repository for testing
func NewMockRepository() *MockRepository {
	return &MockRepository{
		runs:      make(map[int64]*Run),
		apiCalls:  make([]APICall, 0),
		nextRunID: 1,
		nextCall:  1,
	}
}

// Compile-time check that MockRepository implements Repository
var _ Repository = (*MockRepository)(nil)

// Close does nothing for mock
func (m *MockRepository) Close() error {
	return nil
}

// StartRun creates a run in memory
func (m *MockRepository) StartRun(start RunStart) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.StartRunCalled = true
	if m.StartRunErr != nil {
		return 0, m.StartRunErr
	}

	id := m.nextRunID
	m.nextRunID++
	mode := start.Mode
	if mode == "" {
		mode = "reconcile"
	}
	m.runs[id] = &Run{
		ID:            id,
		UUID:          uuid.NewString(),
		Budget:        start.Budget,
		Account:       start.Account,
		StatementPath: start.StatementPath,
		Mode:          mode,
		DryRun:        start.DryRun,
		StartedAt:     time.Now().UTC(),
		Difference:    "0",
		Status:        RunStatusRunning,
	}
	return id, nil
}

// CompleteRun copies the summary onto the stored run
func (m *MockRepository) CompleteRun(runID int64, summary RunSummary) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CompleteRunCalled = true
	m.LastSummary = &summary
	if m.CompleteRunErr != nil {
		return m.CompleteRunErr
	}

	run, ok := m.runs[runID]
	if !ok {
		return fmt.Errorf("run %d not found", runID)
	}

	now := time.Now().UTC()
	run.CompletedAt = &now
	run.StatementCount = summary.StatementCount
	run.LedgerCount = summary.LedgerCount
	run.ReconciledCount = summary.ReconciledCount
	run.UnmatchedStatement = summary.UnmatchedStatement
	run.UnmatchedLedger = summary.UnmatchedLedger
	run.Difference = summary.Difference
	if run.Difference == "" {
		run.Difference = "0"
	}
	run.StatusClass = summary.StatusClass
	run.Added = summary.Added
	run.AddFailed = summary.AddFailed
	run.Deleted = summary.Deleted
	run.DeleteFailed = summary.DeleteFailed
	run.Status = summary.status()
	return nil
}

// ListRuns returns runs newest first
func (m *MockRepository) ListRuns(limit int) ([]Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.ListRunsErr != nil {
		return nil, m.ListRunsErr
	}
	if limit <= 0 {
		limit = 20
	}

	runs := make([]Run, 0, len(m.runs))
	for _, r := range m.runs {
		runs = append(runs, *r)
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].ID > runs[j].ID })
	if len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// GetRun returns a copy of a run, or nil if absent
func (m *MockRepository) GetRun(runID int64) (*Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.runs[runID]
	if !ok {
		return nil, nil
	}
	copied := *r
	return &copied, nil
}

// LogAPICall appends to the in-memory call list
func (m *MockRepository) LogAPICall(call *APICall) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LogAPICallCalled = true
	if m.LogAPICallErr != nil {
		return m.LogAPICallErr
	}
	call.ID = m.nextCall
	m.nextCall++
	if call.CreatedAt.IsZero() {
		call.CreatedAt = time.Now().UTC()
	}
	m.apiCalls = append(m.apiCalls, *call)
	return nil
}

// GetAPICallsByRunID filters logged calls by run
func (m *MockRepository) GetAPICallsByRunID(runID int64) ([]APICall, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	calls := make([]APICall, 0)
	for _, c := range m.apiCalls {
		if c.RunID == runID {
			calls = append(calls, c)
		}
	}
	return calls, nil
}

// APICalls returns every logged call (test helper)
func (m *MockRepository) APICalls() []APICall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]APICall(nil), m.apiCalls...)
}
