package tensoralg

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/hupe1980/tensoralg/index"
)

// Logger wraps slog.Logger with engine-specific field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a Logger with the given handler.
// A nil handler logs text to stderr at info level.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	return &Logger{Logger: slog.New(handler)}
}

// NewJSONLogger creates a Logger that writes JSON to stderr.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that writes human-readable text to stderr.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// NoopLogger discards all output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(1000)}))
}

// WithRank adds the rank of a tensor.
func (l *Logger) WithRank(r index.Rank) *Logger {
	return &Logger{Logger: l.Logger.With("rank", r.String())}
}

// WithDimension adds a dimension field.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{Logger: l.Logger.With("dimension", dim)}
}

// LogCombination logs a contraction, addition or trace.
func (l *Logger) LogCombination(ctx context.Context, kind index.Kind, result index.Indices, err error) {
	if err != nil {
		l.ErrorContext(ctx, "combination failed",
			"kind", kind.String(),
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "combination completed",
		"kind", kind.String(),
		"indices", result.String(),
		"rank", result.Rank().String(),
	)
}

// LogRaiseLower logs moving an index with a metric.
func (l *Logger) LogRaiseLower(ctx context.Context, op, symbol string, err error) {
	if err != nil {
		l.ErrorContext(ctx, op+" failed",
			"symbol", symbol,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, op+" completed", "symbol", symbol)
}

// LogSnapshot logs saving or loading a snapshot.
func (l *Logger) LogSnapshot(ctx context.Context, op, name string, err error) {
	if err != nil {
		l.ErrorContext(ctx, "snapshot "+op+" failed",
			"name", name,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "snapshot "+op+" completed", "name", name)
}
