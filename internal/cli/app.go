package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/eshaffer321/ynab-reconcile/internal/adapters/ynab"
	"github.com/eshaffer321/ynab-reconcile/internal/infrastructure/config"
	"github.com/eshaffer321/ynab-reconcile/internal/infrastructure/logging"
	"github.com/eshaffer321/ynab-reconcile/internal/infrastructure/storage"
)

// Streams are the standard streams a command uses. The report goes to
// Out, logs go to Err.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// StdStreams returns the process streams
func StdStreams() Streams {
	return Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}
}

// LoadConfig reads .env, then the config file, falling back to the environment
func LoadConfig(path string) (*config.Config, error) {
	if err := config.LoadDotEnv(); err != nil {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}
	return config.LoadOrEnv_WithPath(path), nil
}

// NewLogger builds the command logger on the error stream
func NewLogger(cfg *config.Config, s Streams, system string) *slog.Logger {
	return logging.NewLoggerWithSystem(cfg.Observability.Logging, s.Err, system)
}

// NewYNABClient builds the YNAB client from config
func NewYNABClient(cfg *config.Config, logger *slog.Logger) *ynab.Client {
	return ynab.NewClient(ynab.Config{
		Token:           cfg.YNAB.Token,
		BaseURL:         cfg.YNAB.BaseURL,
		Timeout:         cfg.YNAB.Timeout(),
		RequestsPerHour: cfg.YNAB.RequestsPerHour,
	}, logger)
}

// OpenJournal opens the audit journal. It returns a nil Repository and a
// no-op close when no database path is configured.
func OpenJournal(cfg *config.Config, logger *slog.Logger) (storage.Repository, func(), error) {
	if cfg.Storage.DatabasePath == "" {
		logger.Debug("Audit journal disabled")
		return nil, func() {}, nil
	}

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open journal %s: %w", cfg.Storage.DatabasePath, err)
	}
	logger.Debug("Audit journal enabled", "path", cfg.Storage.DatabasePath)

	return store, func() {
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close journal", "error", err)
		}
	}, nil
}
