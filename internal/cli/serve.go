package cli

import (
	"context"
	"flag"
	"io"
	"log/slog"
	"time"

	"github.com/eshaffer321/ynab-reconcile/internal/api"
	"github.com/eshaffer321/ynab-reconcile/internal/api/handlers"
	"github.com/eshaffer321/ynab-reconcile/internal/application/reconcile"
)

// ServeFlags holds the CLI flags for the serve command.
type ServeFlags struct {
	ConfigPath string
	Port       int
	Verbose    bool
}

// ParseServeFlags parses command line flags for the serve command.
// Port 0 means the configured port.
func ParseServeFlags(args []string, stderr io.Writer) (*ServeFlags, error) {
	flags := &ServeFlags{}
	fs := flag.NewFlagSet("api", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&flags.ConfigPath, "config", "config.yaml", "Path to config file (falls back to environment)")
	fs.IntVar(&flags.Port, "port", 0, "Port to listen on (default from config, 8080)")
	fs.BoolVar(&flags.Verbose, "verbose", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return flags, nil
}

// RunServe runs the API server until ctx is canceled.
func RunServe(ctx context.Context, flags *ServeFlags, s Streams) error {
	cfg, err := LoadConfig(flags.ConfigPath)
	if err != nil {
		return err
	}
	if flags.Verbose {
		cfg.Observability.Logging.Level = "debug"
	}
	if flags.Port != 0 {
		cfg.API.Port = flags.Port
	}
	logger := NewLogger(cfg, s, "api")

	store, closeStore, err := OpenJournal(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	apiCfg := api.Config{
		Port:           cfg.API.Port,
		AllowedOrigins: cfg.API.AllowedOrigins,
	}

	// The compare endpoint needs a token and names; without them the
	// server still serves the journal
	var ledger reconcile.Ledger
	if err := cfg.Validate(); err != nil {
		logger.Warn("Compare endpoint disabled", "reason", err)
	} else {
		matchCfg, _ := cfg.MatcherConfig()
		ledger = NewYNABClient(cfg, logger)
		apiCfg.Compare = handlers.CompareConfig{
			BudgetName:  cfg.YNAB.BudgetName,
			AccountName: cfg.YNAB.AccountName,
			Matching:    matchCfg,
		}
	}

	server := api.NewServer(apiCfg, store, ledger, logger)

	done := make(chan struct{})
	go func() {
		defer close(done)
		<-ctx.Done()
		logger.Info("Received shutdown signal")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", slog.Any("error", err))
		}
	}()

	// Start blocks until shutdown
	if err := server.Start(); err != nil {
		return err
	}

	<-done
	logger.Info("Server stopped")
	return nil
}
