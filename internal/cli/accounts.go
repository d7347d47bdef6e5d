package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/eshaffer321/ynab-reconcile/internal/adapters/ynab"
)

// PrintBudgets lists budgets by name and ID
func PrintBudgets(w io.Writer, budgets []ynab.Budget) {
	Rule(w)
	fmt.Fprintln(w, "YNAB BUDGETS")
	Rule(w)
	for _, b := range budgets {
		fmt.Fprintf(w, "- %s (ID: %s)\n", b.Name, b.ID)
	}
}

// PrintAccounts lists the accounts of one budget, marking closed ones
func PrintAccounts(w io.Writer, budgetName string, accounts []ynab.Account) {
	Section(w, fmt.Sprintf("ACCOUNTS IN '%s' BUDGET", budgetName))
	for _, a := range accounts {
		closed := ""
		if a.Closed {
			closed = " [CLOSED]"
		}
		fmt.Fprintf(w, "- %s%s (ID: %s) %s\n", a.Name, closed, a.ID, FormatMoney(a.Balance))
	}
}

// RunListAccounts prints every budget, then the accounts of the configured one
func RunListAccounts(ctx context.Context, flags *ConfigFlags, s Streams) error {
	cfg, err := LoadConfig(flags.ConfigPath)
	if err != nil {
		return err
	}
	if flags.Verbose {
		cfg.Observability.Logging.Level = "debug"
	}
	if cfg.YNAB.Token == "" {
		return errors.New("ynab token is required (YNAB_TOKEN)")
	}

	client := NewYNABClient(cfg, NewLogger(cfg, s, "accounts"))

	budgets, err := client.ListBudgets(ctx)
	if err != nil {
		return err
	}
	PrintBudgets(s.Out, budgets)

	if cfg.YNAB.BudgetName == "" {
		fmt.Fprintln(s.Out, "\nSet BUDGET_NAME to list its accounts.")
		return nil
	}

	budgetID, err := client.FindBudgetID(ctx, cfg.YNAB.BudgetName)
	if err != nil {
		return err
	}
	accounts, err := client.ListAccounts(ctx, budgetID)
	if err != nil {
		return err
	}
	PrintAccounts(s.Out, cfg.YNAB.BudgetName, accounts)
	return nil
}
