package slabarena

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with arena-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithArena adds the arena name to the logger.
func (l *Logger) WithArena(name string) *Logger {
	if name == "" {
		return l
	}
	return &Logger{
		Logger: l.Logger.With("arena", name),
	}
}

// LogCommit logs a page commit in one of the pools.
func (l *Logger) LogCommit(pool string, bytes, committed int) {
	l.Debug("pages committed",
		"pool", pool,
		"bytes", bytes,
		"committed_total", committed,
	)
}

// LogDecommit logs a hysteresis decommit in the control pool.
func (l *Logger) LogDecommit(pool string, bytes, committed int) {
	l.Debug("pages decommitted",
		"pool", pool,
		"bytes", bytes,
		"committed_total", committed,
	)
}
