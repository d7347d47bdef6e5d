package reconcile

import (
	"context"
	"errors"
	"time"

	"github.com/eshaffer321/ynab-reconcile/internal/adapters/ynab"
	"github.com/eshaffer321/ynab-reconcile/internal/domain/matcher"
	"github.com/eshaffer321/ynab-reconcile/internal/domain/reconciler"
	"github.com/eshaffer321/ynab-reconcile/internal/domain/transactions"
)

// ErrNoStatement is returned when the statement yields no usable rows
var ErrNoStatement = errors.New("statement contains no transactions")

// Run modes recorded in the journal
const (
	ModeReconcile = "reconcile"
	ModeCompare   = "compare"
)

// LedgerReader is the read side of the YNAB client
type LedgerReader interface {
	FindBudgetID(ctx context.Context, name string) (string, error)
	FindAccountID(ctx context.Context, budgetID, name string) (string, error)
	GetAccount(ctx context.Context, budgetID, accountID string) (*ynab.Account, error)
	GetTransactions(ctx context.Context, budgetID, accountID string, since *time.Time) ([]transactions.LedgerTransaction, error)
}

// LedgerWriter is the mutation side of the YNAB client
type LedgerWriter interface {
	CreateTransaction(ctx context.Context, budgetID string, tx ynab.NewTransaction) (string, error)
	DeleteTransaction(ctx context.Context, budgetID, transactionID string) error
}

// Ledger is everything a reconcile run needs from YNAB
type Ledger interface {
	LedgerReader
	LedgerWriter
}

// Compile-time check that the YNAB client satisfies Ledger
var _ Ledger = (*ynab.Client)(nil)

// Options holds run configuration
type Options struct {
	BudgetName    string
	AccountName   string
	StatementPath string
	DateFrom      time.Time // Zero means open
	DateTo        time.Time // Zero means open
	DryRun        bool
	Mode          string
}

// Plan is everything learned before any mutation: the inputs, the
// match result and the reconciliation decision
type Plan struct {
	BudgetID    string
	AccountID   string
	AccountName string
	Account     *ynab.Account

	Statement          []transactions.StatementTransaction
	LedgerFetched      int // Before reconciled exclusion
	Ledger             []transactions.LedgerTransaction
	ReconciledExcluded int

	Comparison *matcher.Result
	Decision   *reconciler.Decision

	RunID int64
}

// AlreadyReconciled reports whether there is nothing to do at all
func (p *Plan) AlreadyReconciled() bool {
	return p.Decision.IsBalanced() && !p.Decision.HasActions()
}

// PhaseResult tallies one mutation phase
type PhaseResult struct {
	Attempted int
	Succeeded int
	Failed    int
	Skipped   int // Dry run
	Errors    []error
}

// Result holds the outcome of applying a plan
type Result struct {
	Plan            *Plan
	Adds            PhaseResult
	Deletes         PhaseResult
	AddsDeclined    bool
	DeletesDeclined bool
	NothingToDo     bool
}

// HasFailures reports whether any single create or delete failed
func (r *Result) HasFailures() bool {
	return r.Adds.Failed > 0 || r.Deletes.Failed > 0
}
