package cli

import (
	"context"
	"fmt"

	"github.com/eshaffer321/ynab-reconcile/internal/application/reconcile"
	"github.com/eshaffer321/ynab-reconcile/internal/domain/matcher"
)

// RunCompare prints the comparison without offering to change anything
func RunCompare(ctx context.Context, flags *CompareFlags, s Streams) error {
	cfg, err := LoadConfig(flags.ConfigPath)
	if err != nil {
		return err
	}
	flags.ApplyTo(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}
	matchCfg, err := cfg.MatcherConfig()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg, s, "compare")
	store, closeStore, err := OpenJournal(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	o := reconcile.NewOrchestrator(
		NewYNABClient(cfg, logger),
		nil,
		matcher.NewMatcher(matchCfg),
		reconcile.DeclineAll{},
		store,
		logger,
	)

	fmt.Fprintf(s.Out, "Loading bank statement from %s...\n", flags.StatementPath)
	plan, err := o.Prepare(ctx, flags.ToOptions(cfg))
	if err != nil {
		return err
	}
	fmt.Fprintf(s.Out, "Found %d statement transactions\n", len(plan.Statement))
	fmt.Fprintf(s.Out, "Found %d YNAB transactions (%d reconciled, ignored)\n", plan.LedgerFetched, plan.ReconciledExcluded)

	PrintBalanceComparison(s.Out, plan.Decision.StatementBalance, plan.Account.Balance)
	if flags.SideBySide {
		fmt.Fprintln(s.Out)
		PrintSideBySide(s.Out, plan.Comparison, matchCfg.DateTolerance)
	} else {
		PrintUnmatched(s.Out, plan.Comparison)
	}
	PrintDecision(s.Out, plan.Decision, plan.AccountName)

	o.Complete(plan, nil)
	return nil
}
