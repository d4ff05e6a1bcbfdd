package wordvec

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/hupe1980/wordvec/chunk"
)

// Logger wraps slog.Logger with wordvec-specific context.
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

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
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

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithFormat adds a format field to the logger.
func (l *Logger) WithFormat(format Format) *Logger {
	return &Logger{
		Logger: l.Logger.With("format", format.String()),
	}
}

// WithK adds a k (neighbor count) field to the logger.
func (l *Logger) WithK(k int) *Logger {
	return &Logger{
		Logger: l.Logger.With("k", k),
	}
}

// LogChunk logs a chunk read or write.
func (l *Logger) LogChunk(ctx context.Context, id chunk.Identifier, offset uint64) {
	l.DebugContext(ctx, "chunk",
		"identifier", id.String(),
		"offset", offset,
	)
}

// LogLoad logs the completion of a load.
func (l *Logger) LogLoad(ctx context.Context, format Format, words, rows, dims int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "load failed",
			"format", format.String(),
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "load completed",
		"format", format.String(),
		"words", words,
		"rows", rows,
		"dims", dims,
		"elapsed", elapsed,
	)
}

// LogQuery logs a similarity query.
func (l *Logger) LogQuery(ctx context.Context, kind string, k, results int, err error) {
	if err != nil {
		l.DebugContext(ctx, "query failed",
			"kind", kind,
			"k", k,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "query completed",
		"kind", kind,
		"k", k,
		"results", results,
	)
}
