package cli

import (
	"context"
	"fmt"

	"github.com/eshaffer321/ynab-reconcile/internal/application/reconcile"
	"github.com/eshaffer321/ynab-reconcile/internal/domain/matcher"
)

// RunReconcile is the interactive reconcile command: show the evidence,
// then ask before adding and before deleting
func RunReconcile(ctx context.Context, flags *ReconcileFlags, s Streams) error {
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

	logger := NewLogger(cfg, s, "reconcile")
	store, closeStore, err := OpenJournal(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	confirmer := ChooseConfirmer(flags.Yes, flags.DryRun, s.In, s.Out)
	if _, ok := confirmer.(reconcile.DeclineAll); ok {
		logger.Warn("Input is not a terminal; no changes will be made (use -yes to apply)")
	}

	o := reconcile.NewOrchestrator(
		NewYNABClient(cfg, logger),
		nil,
		matcher.NewMatcher(matchCfg),
		confirmer,
		store,
		logger,
	)

	PrintHeader(s.Out, flags.StatementPath, flags.DryRun)

	opts := flags.ToOptions(cfg)
	plan, err := o.Prepare(ctx, opts)
	if err != nil {
		return err
	}
	PrintPlan(s.Out, plan)

	result, err := o.Apply(ctx, plan, opts)
	if err != nil {
		return err
	}
	PrintRunSummary(s.Out, result)
	return nil
}
