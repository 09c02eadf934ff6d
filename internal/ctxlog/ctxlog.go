// Package ctxlog carries the run's slog.Logger through context.Context so that
// parsing, execution and publishing code logs with the same attributes.
package ctxlog

import (
	"context"
	"log/slog"
)

type key struct{}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, key{}, logger)
}

// With returns a copy of ctx whose logger has args added to every record,
// e.g. the document being benchmarked or the runtime executing it.
func With(ctx context.Context, args ...any) context.Context {
	return WithLogger(ctx, FromContext(ctx).With(args...))
}

// FromContext returns the logger stored in ctx, or slog.Default() when the
// context carries none.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(key{}).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
