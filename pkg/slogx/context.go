package slogx

import (
	"context"
	"log/slog"
)

type ctxKey struct{}

// WithContext stores a logger in the context for downstream handlers and
// services to pick up.
func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the request-scoped logger, or the process default when
// none has been attached.
func FromContext(ctx context.Context) *slog.Logger {
	l, ok := ctx.Value(ctxKey{}).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return l
}
