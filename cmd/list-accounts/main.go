// Command list-accounts prints YNAB budgets and the accounts of the
// configured budget, to help fill in BUDGET_NAME and ACCOUNT_NAME.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/eshaffer321/ynab-reconcile/internal/cli"
)

func main() {
	flags, err := cli.ParseConfigFlags("list-accounts", os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.RunListAccounts(ctx, flags, cli.StdStreams()); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "❌ %v\n", err)
		os.Exit(1)
	}
}
