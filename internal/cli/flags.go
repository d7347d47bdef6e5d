package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/eshaffer321/ynab-reconcile/internal/application/reconcile"
	"github.com/eshaffer321/ynab-reconcile/internal/infrastructure/config"
)

// ErrMissingStatement is returned when no statement file was given
var ErrMissingStatement = errors.New("no statement CSV file given")

const dateLayout = "2006-01-02"

// ReconcileFlags are the flags of the interactive reconcile command
type ReconcileFlags struct {
	ConfigPath    string
	StatementPath string
	ToleranceDays int
	Strategy      string
	DateFrom      time.Time
	DateTo        time.Time
	DryRun        bool
	Yes           bool
	Verbose       bool

	set map[string]bool
}

// ParseReconcileFlags parses `ynab-reconcile [flags] <statement.csv>`
func ParseReconcileFlags(args []string, stderr io.Writer) (*ReconcileFlags, error) {
	f := &ReconcileFlags{}
	var from, to string

	fs := flag.NewFlagSet("ynab-reconcile", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.ConfigPath, "config", "config.yaml", "Path to config file (falls back to environment)")
	fs.IntVar(&f.ToleranceDays, "tolerance-days", config.DefaultToleranceDays, "Days a ledger date may differ from the bank date")
	fs.StringVar(&f.Strategy, "strategy", "", "Matching strategy: first_fit or closest")
	fs.StringVar(&from, "date-from", "", "Ignore statement rows before this date (YYYY-MM-DD)")
	fs.StringVar(&to, "date-to", "", "Ignore statement and ledger rows after this date (YYYY-MM-DD)")
	fs.BoolVar(&f.DryRun, "dry-run", false, "Show what would change without calling YNAB")
	fs.BoolVar(&f.Yes, "yes", false, "Approve both phases without prompting")
	fs.BoolVar(&f.Verbose, "verbose", false, "Verbose output")
	fs.Usage = func() {
		fmt.Fprintln(fs.Output(), "Usage: ynab-reconcile [flags] <statement.csv>")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() < 1 {
		fs.Usage()
		return nil, ErrMissingStatement
	}
	f.StatementPath = fs.Arg(0)
	f.set = visited(fs)

	var err error
	if f.DateFrom, err = parseDateFlag("date-from", from); err != nil {
		return nil, err
	}
	if f.DateTo, err = parseDateFlag("date-to", to); err != nil {
		return nil, err
	}
	return f, nil
}

// ApplyTo overrides config values with flags given on the command line
func (f *ReconcileFlags) ApplyTo(cfg *config.Config) {
	if f.set["tolerance-days"] {
		cfg.Matching.ToleranceDays = f.ToleranceDays
	}
	if f.Strategy != "" {
		cfg.Matching.Strategy = f.Strategy
	}
	if f.Verbose {
		cfg.Observability.Logging.Level = "debug"
	}
}

// ToOptions converts the flags to reconcile.Options
func (f *ReconcileFlags) ToOptions(cfg *config.Config) reconcile.Options {
	return reconcile.Options{
		BudgetName:    cfg.YNAB.BudgetName,
		AccountName:   cfg.YNAB.AccountName,
		StatementPath: f.StatementPath,
		DateFrom:      f.DateFrom,
		DateTo:        f.DateTo,
		DryRun:        f.DryRun,
		Mode:          reconcile.ModeReconcile,
	}
}

// CompareFlags are the flags of the comparison-only command
type CompareFlags struct {
	ConfigPath    string
	StatementPath string
	Token         string
	Budget        string
	Account       string
	DateFrom      time.Time
	DateTo        time.Time
	ToleranceDays int
	Strategy      string
	SideBySide    bool
	Verbose       bool
}

// ParseCompareFlags parses `ynab-compare -statement FILE [flags]`
func ParseCompareFlags(args []string, stderr io.Writer) (*CompareFlags, error) {
	f := &CompareFlags{}
	var from, to string

	fs := flag.NewFlagSet("ynab-compare", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.ConfigPath, "config", "config.yaml", "Path to config file (falls back to environment)")
	fs.StringVar(&f.StatementPath, "statement", "", "Path to the bank statement CSV (required)")
	fs.StringVar(&f.Token, "token", "", "YNAB personal access token (default $YNAB_TOKEN)")
	fs.StringVar(&f.Budget, "budget", "", "YNAB budget name (default $BUDGET_NAME)")
	fs.StringVar(&f.Account, "account", "", "YNAB account name (default $ACCOUNT_NAME)")
	fs.StringVar(&from, "date-from", "", "Ignore statement rows before this date (YYYY-MM-DD)")
	fs.StringVar(&to, "date-to", "", "Ignore statement and ledger rows after this date (YYYY-MM-DD)")
	fs.IntVar(&f.ToleranceDays, "tolerance-days", 2, "Days a ledger date may differ from the bank date")
	fs.StringVar(&f.Strategy, "strategy", "", "Matching strategy: first_fit or closest")
	fs.BoolVar(&f.SideBySide, "side-by-side", false, "Show unmatched rows in two columns")
	fs.BoolVar(&f.Verbose, "verbose", false, "Verbose output")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if f.StatementPath == "" {
		fs.Usage()
		return nil, ErrMissingStatement
	}

	var err error
	if f.DateFrom, err = parseDateFlag("date-from", from); err != nil {
		return nil, err
	}
	if f.DateTo, err = parseDateFlag("date-to", to); err != nil {
		return nil, err
	}
	return f, nil
}

// ApplyTo overrides config values with flags. The compare tool always uses
// its own tolerance default.
func (f *CompareFlags) ApplyTo(cfg *config.Config) {
	if f.Token != "" {
		cfg.YNAB.Token = f.Token
	}
	if f.Budget != "" {
		cfg.YNAB.BudgetName = f.Budget
	}
	if f.Account != "" {
		cfg.YNAB.AccountName = f.Account
	}
	cfg.Matching.ToleranceDays = f.ToleranceDays
	if f.Strategy != "" {
		cfg.Matching.Strategy = f.Strategy
	}
	if f.Verbose {
		cfg.Observability.Logging.Level = "debug"
	}
}

// ToOptions converts the flags to reconcile.Options
func (f *CompareFlags) ToOptions(cfg *config.Config) reconcile.Options {
	return reconcile.Options{
		BudgetName:    cfg.YNAB.BudgetName,
		AccountName:   cfg.YNAB.AccountName,
		StatementPath: f.StatementPath,
		DateFrom:      f.DateFrom,
		DateTo:        f.DateTo,
		Mode:          reconcile.ModeCompare,
	}
}

// ConfigFlags is the flag set shared by list-accounts
type ConfigFlags struct {
	ConfigPath string
	Verbose    bool
}

// ParseConfigFlags parses flags for commands that only need configuration
func ParseConfigFlags(name string, args []string, stderr io.Writer) (*ConfigFlags, error) {
	f := &ConfigFlags{}
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.ConfigPath, "config", "config.yaml", "Path to config file (falls back to environment)")
	fs.BoolVar(&f.Verbose, "verbose", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return f, nil
}

func parseDateFlag(name, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid -%s %q: want YYYY-MM-DD", name, value)
	}
	return t, nil
}

func visited(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}
