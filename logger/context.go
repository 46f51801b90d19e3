package logger

import (
	"context"
	"log/slog"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const (
	LoggerKey ContextKey = "logger"
)

// FromContext retrieves the logger from the context
// If no logger is found, it returns the default logger
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// WithAccount binds the remote account handle to the logger in the context
func WithAccount(ctx context.Context, handle string) context.Context {
	l := FromContext(ctx).With("account", handle)
	return WithLogger(ctx, l)
}

// WithSubmission binds the remote submission id to the logger in the context
func WithSubmission(ctx context.Context, remoteID string) context.Context {
	l := FromContext(ctx).With("submission_id", remoteID)
	return WithLogger(ctx, l)
}
