// Package reconcile runs a reconciliation: load the statement, fetch the
// ledger, match, decide, and (after confirmation) apply creates then deletes.
//
// Example usage:
//
//	o := reconcile.NewOrchestrator(client, statement.NewParser(logger), m, confirmer, store, logger)
//	plan, err := o.Prepare(ctx, opts)
//	if err != nil {
//		return err
//	}
//	cli.PrintPlan(os.Stdout, plan)
//	result, err := o.Apply(ctx, plan, opts)
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/eshaffer321/ynab-reconcile/internal/adapters/statement"
	"github.com/eshaffer321/ynab-reconcile/internal/domain/matcher"
	"github.com/eshaffer321/ynab-reconcile/internal/domain/reconciler"
	"github.com/eshaffer321/ynab-reconcile/internal/domain/transactions"
	"github.com/eshaffer321/ynab-reconcile/internal/infrastructure/storage"
)

// Orchestrator runs the reconcile process
type Orchestrator struct {
	ledger    Ledger
	parser    *statement.Parser
	matcher   *matcher.Matcher
	confirmer Confirmer
	store     storage.Repository
	logger    *slog.Logger
}

// NewOrchestrator creates a new orchestrator. store may be nil to disable the journal.
func NewOrchestrator(
	ledger Ledger,
	parser *statement.Parser,
	m *matcher.Matcher,
	confirmer Confirmer,
	store storage.Repository,
	logger *slog.Logger,
) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if parser == nil {
		parser = statement.NewParser(logger)
	}
	if m == nil {
		m = matcher.NewMatcher(matcher.DefaultConfig())
	}
	if confirmer == nil {
		confirmer = DeclineAll{}
	}
	return &Orchestrator{
		ledger:    ledger,
		parser:    parser,
		matcher:   m,
		confirmer: confirmer,
		store:     store,
		logger:    logger.With("system", "reconcile"),
	}
}

// Prepare loads the statement file and builds a plan
func (o *Orchestrator) Prepare(ctx context.Context, opts Options) (*Plan, error) {
	if opts.StatementPath == "" {
		return nil, fmt.Errorf("%w: no statement file given", ErrNoStatement)
	}

	rows, err := o.parser.ParseFile(opts.StatementPath)
	if err != nil {
		return nil, err
	}
	return o.PrepareFromStatement(ctx, opts, rows)
}

// PrepareFromStatement builds a plan from already parsed statement rows
func (o *Orchestrator) PrepareFromStatement(ctx context.Context, opts Options, rows []transactions.StatementTransaction) (*Plan, error) {
	rows = statement.Between(rows, opts.DateFrom, opts.DateTo)
	if len(rows) == 0 {
		return nil, ErrNoStatement
	}

	earliest, latest, _ := statement.DateRange(rows)
	o.logger.Info("Loaded statement",
		"transactions", len(rows),
		"from", earliest.Format("2006-01-02"),
		"to", latest.Format("2006-01-02"),
	)

	plan := &Plan{
		Statement:   rows,
		AccountName: opts.AccountName,
	}
	plan.RunID = o.startRun(opts)

	if err := o.fetchLedger(ctx, opts, plan, earliest); err != nil {
		o.failRun(plan, err)
		return nil, err
	}

	plan.Comparison = o.matcher.Compare(plan.Statement, plan.Ledger)

	decision, err := reconciler.Decide(plan.Statement, reconciler.Balances{
		Cleared:   plan.Account.ClearedBalance,
		Working:   plan.Account.Balance,
		Uncleared: plan.Account.UnclearedBalance,
	}, plan.Comparison)
	if err != nil {
		o.failRun(plan, err)
		return nil, err
	}
	plan.Decision = decision

	o.logger.Info("Compared transactions",
		"matched", len(plan.Comparison.Matches),
		"unmatched_statement", len(plan.Comparison.UnmatchedStatement),
		"unmatched_ledger", len(plan.Comparison.UnmatchedLedger),
		"difference", decision.Difference.StringFixed(2),
		"status", decision.Status,
	)

	return plan, nil
}

// fetchLedger resolves names and reads balances and transactions. Any
// failure here is fatal for the run.
func (o *Orchestrator) fetchLedger(ctx context.Context, opts Options, plan *Plan, earliest time.Time) error {
	budgetID, err := o.ledger.FindBudgetID(ctx, opts.BudgetName)
	if err != nil {
		return err
	}
	accountID, err := o.ledger.FindAccountID(ctx, budgetID, opts.AccountName)
	if err != nil {
		return err
	}
	plan.BudgetID = budgetID
	plan.AccountID = accountID

	account, err := o.ledger.GetAccount(ctx, budgetID, accountID)
	if err != nil {
		return err
	}
	plan.Account = account
	if account.Name != "" {
		plan.AccountName = account.Name
	}

	since := earliest
	if !opts.DateFrom.IsZero() {
		since = opts.DateFrom
	}
	ledger, err := o.ledger.GetTransactions(ctx, budgetID, accountID, &since)
	if err != nil {
		return err
	}

	if !opts.DateTo.IsZero() {
		cutoff := transactions.DateOnly(opts.DateTo)
		inRange := make([]transactions.LedgerTransaction, 0, len(ledger))
		for _, tx := range ledger {
			if !transactions.DateOnly(tx.Date).After(cutoff) {
				inRange = append(inRange, tx)
			}
		}
		ledger = inRange
	}

	plan.LedgerFetched = len(ledger)
	plan.Ledger, plan.ReconciledExcluded = matcher.ExcludeReconciled(ledger)

	o.logger.Info("Fetched ledger",
		"transactions", plan.LedgerFetched,
		"unreconciled", len(plan.Ledger),
		"reconciled", plan.ReconciledExcluded,
	)
	return nil
}

// Apply asks for confirmation of each phase and runs the approved ones:
// all creates first, then all deletes
func (o *Orchestrator) Apply(ctx context.Context, plan *Plan, opts Options) (*Result, error) {
	result := &Result{Plan: plan}

	if plan.AlreadyReconciled() {
		o.logger.Info("Account already reconciled, nothing to do")
		result.NothingToDo = true
		o.Complete(plan, result)
		return result, nil
	}

	mutator := NewMutator(o.ledger, o.logger, o.store, plan.RunID, opts.DryRun)

	if toAdd := plan.Decision.ToAdd; len(toAdd) > 0 {
		ok, err := o.confirmer.Confirm(ctx, fmt.Sprintf("Add these %d transaction(s) to YNAB?", len(toAdd)))
		if err != nil {
			o.failRun(plan, err)
			return nil, fmt.Errorf("failed to confirm add phase: %w", err)
		}
		if ok {
			result.Adds = mutator.ApplyCreates(ctx, plan.BudgetID, plan.AccountID, toAdd)
		} else {
			result.AddsDeclined = true
			o.logger.Info("Skipping add phase")
		}
	}

	if toDelete := plan.Decision.ToInvestigate; len(toDelete) > 0 {
		ok, err := o.confirmer.Confirm(ctx, fmt.Sprintf("Delete these %d transaction(s) from YNAB?", len(toDelete)))
		if err != nil {
			o.failRun(plan, err)
			return nil, fmt.Errorf("failed to confirm delete phase: %w", err)
		}
		if ok {
			result.Deletes = mutator.ApplyDeletes(ctx, plan.BudgetID, toDelete)
		} else {
			result.DeletesDeclined = true
			o.logger.Info("Skipping delete phase")
		}
	}

	o.Complete(plan, result)
	return result, nil
}

// Complete writes the run outcome to the journal. result is nil for compare-only runs.
func (o *Orchestrator) Complete(plan *Plan, result *Result) {
	if o.store == nil || plan.RunID == 0 {
		return
	}

	summary := storage.RunSummary{
		StatementCount:  len(plan.Statement),
		LedgerCount:     plan.LedgerFetched,
		ReconciledCount: plan.ReconciledExcluded,
	}
	if plan.Comparison != nil {
		summary.UnmatchedStatement = len(plan.Comparison.UnmatchedStatement)
		summary.UnmatchedLedger = len(plan.Comparison.UnmatchedLedger)
	}
	if plan.Decision != nil {
		summary.Difference = plan.Decision.Difference.StringFixed(2)
		summary.StatusClass = string(plan.Decision.Status)
	}
	if result != nil {
		summary.Added = result.Adds.Succeeded
		summary.AddFailed = result.Adds.Failed
		summary.Deleted = result.Deletes.Succeeded
		summary.DeleteFailed = result.Deletes.Failed
	}

	if err := o.store.CompleteRun(plan.RunID, summary); err != nil {
		o.logger.Warn("Failed to complete run in journal", "run_id", plan.RunID, "error", err)
	}
}

func (o *Orchestrator) startRun(opts Options) int64 {
	if o.store == nil {
		return 0
	}
	mode := opts.Mode
	if mode == "" {
		mode = ModeReconcile
	}
	runID, err := o.store.StartRun(storage.RunStart{
		Budget:        opts.BudgetName,
		Account:       opts.AccountName,
		StatementPath: opts.StatementPath,
		Mode:          mode,
		DryRun:        opts.DryRun,
	})
	if err != nil {
		o.logger.Warn("Failed to start run in journal", "error", err)
		return 0
	}
	return runID
}

func (o *Orchestrator) failRun(plan *Plan, cause error) {
	if o.store == nil || plan.RunID == 0 {
		return
	}
	summary := storage.RunSummary{
		StatementCount: len(plan.Statement),
		LedgerCount:    plan.LedgerFetched,
		Status:         storage.RunStatusFailed,
	}
	if err := o.store.CompleteRun(plan.RunID, summary); err != nil {
		o.logger.Warn("Failed to record run failure", "run_id", plan.RunID, "cause", cause, "error", err)
	}
}
