// Package logging provides structured logging utilities.
//
// Text logs are formatted Maven-style, coloured when writing to a terminal:
// [LEVEL] [SYSTEM] [HH:MM:SS] message key=value
//
// JSON logs use slog's JSON handler unchanged.
package logging

import (
	"io"
	"log/slog"
	"strings"

	"github.com/eshaffer321/ynab-reconcile/internal/infrastructure/config"
)

// ParseLevel maps a config level name to a slog.Level. Unknown names mean info.
func ParseLevel(name string) slog.Level {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// NewLogger creates a structured logger based on config. Commands pass
// os.Stderr so logs never interleave with the report on stdout.
func NewLogger(cfg config.LoggingConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(cfg.Level),
	}

	if strings.EqualFold(cfg.Format, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(NewMavenHandler(w, opts))
}

// NewLoggerWithSystem creates a logger with a system prefix (e.g., "reconcile", "ynab", "api")
func NewLoggerWithSystem(cfg config.LoggingConfig, w io.Writer, system string) *slog.Logger {
	return NewLogger(cfg, w).With("system", system)
}

// Discard returns a logger that drops everything, for tests and optional loggers
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
