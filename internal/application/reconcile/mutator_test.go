package reconcile

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eshaffer321/ynab-reconcile/internal/adapters/ynab"
	"github.com/eshaffer321/ynab-reconcile/internal/domain/transactions"
	"github.com/eshaffer321/ynab-reconcile/internal/infrastructure/logging"
	"github.com/eshaffer321/ynab-reconcile/internal/infrastructure/storage"
)

func newTestMutator(ledger *fakeLedger, store storage.Repository, dryRun bool) *Mutator {
	m := NewMutator(ledger, logging.Discard(), store, 7, dryRun)
	m.now = func() time.Time { return time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC) }
	return m
}

func TestMutator_BuildNewTransaction(t *testing.T) {
	m := newTestMutator(newFakeLedger(), nil, false)
	row := stmtRow(4, "2024-03-01", "12.345", strings.Repeat("é", 60), "0")

	tx := m.BuildNewTransaction("a-1", row)

	assert.Equal(t, "a-1", tx.AccountID)
	assert.Equal(t, int64(12345), ynab.ToMilliunits(tx.Amount), "truncating milliunit conversion")
	assert.Equal(t, 50, len([]rune(tx.PayeeName)), "payee is truncated by rune, not byte")
	assert.Equal(t, "Added from bank statement on 2024-03-15", tx.Memo)
	assert.Equal(t, "cleared", tx.Cleared)
	assert.True(t, tx.Approved)
}

func TestMutator_ApplyCreates_SortedAndIsolated(t *testing.T) {
	// Arrange: middle item fails
	ledger := newFakeLedger()
	ledger.createErrs["Broken"] = errRemote
	store := storage.NewMockRepository()
	m := newTestMutator(ledger, store, false)

	rows := []transactions.StatementTransaction{
		stmtRow(1, "2024-03-10", "-30.00", "Late", "0"),
		stmtRow(2, "2024-03-05", "-20.00", "Broken", "0"),
		stmtRow(3, "2024-03-01", "-10.00", "Early", "0"),
	}

	// Act
	result := m.ApplyCreates(context.Background(), "b-1", "a-1", rows)

	// Assert
	assert.Equal(t, 3, result.Attempted)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Errors, 1)
	assert.ErrorIs(t, result.Errors[0], errRemote)
	assert.Contains(t, result.Errors[0].Error(), "Broken")

	require.Len(t, ledger.created, 2)
	assert.Equal(t, "Early", ledger.created[0].PayeeName)
	assert.Equal(t, "Late", ledger.created[1].PayeeName)

	calls := store.APICalls()
	require.Len(t, calls, 3)
	assert.Equal(t, "row:3", calls[0].TransactionRef)
	assert.Equal(t, "row:2", calls[1].TransactionRef)
	assert.Equal(t, errRemote.Error(), calls[1].Error)
	assert.Equal(t, int64(7), calls[2].RunID)
}

func TestMutator_ApplyDeletes_SortedAndIsolated(t *testing.T) {
	ledger := newFakeLedger()
	ledger.deleteErrs["t-2"] = errRemote
	m := newTestMutator(ledger, nil, false)

	txns := []transactions.LedgerTransaction{
		ledgerTx("t-3", "2024-03-09", "-3", "c", transactions.Cleared),
		ledgerTx("t-2", "2024-03-08", "-2", "b", transactions.Cleared),
		ledgerTx("t-1", "2024-03-07", "-1", "a", transactions.Uncleared),
	}

	result := m.ApplyDeletes(context.Background(), "b-1", txns)

	assert.Equal(t, 3, result.Attempted)
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	assert.Equal(t, []string{"t-1", "t-3"}, ledger.deleted)
}

func TestMutator_DryRun(t *testing.T) {
	ledger := newFakeLedger()
	store := storage.NewMockRepository()
	m := newTestMutator(ledger, store, true)

	adds := m.ApplyCreates(context.Background(), "b-1", "a-1", []transactions.StatementTransaction{
		stmtRow(1, "2024-03-01", "-10.00", "x", "0"),
	})
	deletes := m.ApplyDeletes(context.Background(), "b-1", []transactions.LedgerTransaction{
		ledgerTx("t-1", "2024-03-01", "-1", "a", transactions.Cleared),
	})

	assert.Equal(t, 1, adds.Skipped)
	assert.Equal(t, 0, adds.Attempted)
	assert.Equal(t, 1, deletes.Skipped)
	assert.Empty(t, ledger.created)
	assert.Empty(t, ledger.deleted)
	assert.False(t, store.LogAPICallCalled)
}

func TestMutator_StopsWhenCanceled(t *testing.T) {
	ledger := newFakeLedger()
	m := newTestMutator(ledger, nil, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := m.ApplyCreates(ctx, "b-1", "a-1", []transactions.StatementTransaction{
		stmtRow(1, "2024-03-01", "-10.00", "x", "0"),
	})

	assert.Equal(t, 0, result.Attempted)
	require.Len(t, result.Errors, 1)
	assert.ErrorIs(t, result.Errors[0], context.Canceled)
	assert.Empty(t, ledger.created)
}

func TestMutator_JournalFailureDoesNotStopBatch(t *testing.T) {
	ledger := newFakeLedger()
	store := storage.NewMockRepository()
	store.LogAPICallErr = errRemote
	m := newTestMutator(ledger, store, false)

	result := m.ApplyDeletes(context.Background(), "b-1", []transactions.LedgerTransaction{
		ledgerTx("t-1", "2024-03-01", "-1", "a", transactions.Cleared),
		ledgerTx("t-2", "2024-03-02", "-1", "b", transactions.Cleared),
	})

	assert.Equal(t, 2, result.Succeeded)
}
