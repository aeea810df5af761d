package daggo

import (
	"log/slog"
	"os"
)

// Logger wraps slog.Logger with daggo-specific context.
// The set algebra itself is pure and never logs; collaborator layers
// (store, codec) use this for structured diagnostics with consistent
// field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses a default text handler to stderr.
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

// WithIdGroup adds an id-group field to the logger.
func (l *Logger) WithIdGroup(g Group) *Logger {
	return &Logger{
		Logger: l.Logger.With("group", g.String()),
	}
}

// WithSpan adds the span bounds to the logger.
func (l *Logger) WithSpan(span Span) *Logger {
	return &Logger{
		Logger: l.Logger.With("low", span.Low.String(), "high", span.High.String()),
	}
}
