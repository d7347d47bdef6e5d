package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runRepositoryContract exercises a Repository implementation; both the
// SQLite store and the mock must behave the same
func runRepositoryContract(t *testing.T, repo Repository) {
	t.Run("start and complete run", func(t *testing.T) {
		id, err := repo.StartRun(RunStart{
			Budget:        "Household",
			Account:       "Checking",
			StatementPath: "/tmp/chase.csv",
			DryRun:        true,
		})
		require.NoError(t, err)

		run, err := repo.GetRun(id)
		require.NoError(t, err)
		require.NotNil(t, run)
		assert.Equal(t, RunStatusRunning, run.Status)
		assert.Equal(t, "reconcile", run.Mode)
		assert.True(t, run.DryRun)
		assert.NotEmpty(t, run.UUID)
		assert.Nil(t, run.CompletedAt)

		err = repo.CompleteRun(id, RunSummary{
			StatementCount:     40,
			LedgerCount:        38,
			ReconciledCount:    5,
			UnmatchedStatement: 3,
			UnmatchedLedger:    1,
			Difference:         "50.00",
			StatusClass:        "ledger_higher",
			Added:              2,
			AddFailed:          1,
		})
		require.NoError(t, err)

		run, err = repo.GetRun(id)
		require.NoError(t, err)
		assert.Equal(t, RunStatusCompletedWithErrors, run.Status)
		assert.Equal(t, "50.00", run.Difference)
		assert.Equal(t, 40, run.StatementCount)
		assert.Equal(t, 1, run.AddFailed)
		require.NotNil(t, run.CompletedAt)
	})

	t.Run("explicit status wins", func(t *testing.T) {
		id, err := repo.StartRun(RunStart{Budget: "b", Account: "a", Mode: "compare"})
		require.NoError(t, err)
		require.NoError(t, repo.CompleteRun(id, RunSummary{Status: RunStatusFailed}))

		run, err := repo.GetRun(id)
		require.NoError(t, err)
		assert.Equal(t, RunStatusFailed, run.Status)
		assert.Equal(t, "compare", run.Mode)
	})

	t.Run("missing run", func(t *testing.T) {
		run, err := repo.GetRun(424242)
		assert.NoError(t, err)
		assert.Nil(t, run)
		assert.Error(t, repo.CompleteRun(424242, RunSummary{}))
	})

	t.Run("list newest first with limit", func(t *testing.T) {
		runs, err := repo.ListRuns(1)
		require.NoError(t, err)
		require.Len(t, runs, 1)
		assert.Equal(t, "compare", runs[0].Mode)
	})

	t.Run("api calls by run", func(t *testing.T) {
		id, err := repo.StartRun(RunStart{Budget: "b", Account: "a"})
		require.NoError(t, err)

		created := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
		require.NoError(t, repo.LogAPICall(&APICall{
			RunID:          id,
			Method:         "CreateTransaction",
			TransactionRef: "row:3",
			RequestJSON:    `{"amount":-42500}`,
			ResponseJSON:   `{"id":"new-1"}`,
			DurationMs:     120,
			CreatedAt:      created,
		}))
		require.NoError(t, repo.LogAPICall(&APICall{
			RunID:          id,
			Method:         "DeleteTransaction",
			TransactionRef: "t-9",
			Error:          "YNAB API error 404",
		}))

		calls, err := repo.GetAPICallsByRunID(id)
		require.NoError(t, err)
		require.Len(t, calls, 2)
		assert.Equal(t, "CreateTransaction", calls[0].Method)
		assert.Equal(t, "row:3", calls[0].TransactionRef)
		assert.True(t, created.Equal(calls[0].CreatedAt))
		assert.Equal(t, "YNAB API error 404", calls[1].Error)

		other, err := repo.GetAPICallsByRunID(id + 1000)
		require.NoError(t, err)
		assert.Empty(t, other)
	})
}

func TestStorage_Repository(t *testing.T) {
	store, err := NewStorage(createTempDB(t))
	require.NoError(t, err)
	defer store.Close()

	runRepositoryContract(t, store)
}

func TestMockRepository_Repository(t *testing.T) {
	runRepositoryContract(t, NewMockRepository())
}

func TestMockRepository_ErrorInjection(t *testing.T) {
	mock := NewMockRepository()
	mock.StartRunErr = assert.AnError
	mock.LogAPICallErr = assert.AnError

	_, err := mock.StartRun(RunStart{})
	assert.ErrorIs(t, err, assert.AnError)
	assert.ErrorIs(t, mock.LogAPICall(&APICall{}), assert.AnError)
	assert.True(t, mock.StartRunCalled)
	assert.True(t, mock.LogAPICallCalled)
}
