package logging

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

const (
	// FieldComponent is the structured logging key for component names.
	FieldComponent = "component"
	// FieldRequestID correlates the log lines of one command invocation.
	FieldRequestID = "request_id"
	// FieldMethod and FieldPath describe a backend request.
	FieldMethod = "method"
	FieldPath   = "path"
	// FieldStatus is the HTTP status of a backend response.
	FieldStatus = "status"
	// FieldQueryKey identifies a query cache entry.
	FieldQueryKey = "query_key"
)

type requestIDKey struct{}

// WithRequestID stores a fresh correlation id on ctx unless one is present.
func WithRequestID(ctx context.Context) context.Context {
	if _, ok := RequestIDFromContext(ctx); ok {
		return ctx
	}
	return context.WithValue(ctx, requestIDKey{}, uuid.NewString())
}

// RequestIDFromContext returns the correlation id stored by WithRequestID.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}

// WithContext returns a logger augmented with fields derived from ctx.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	if id, ok := RequestIDFromContext(ctx); ok {
		return logger.With(String(FieldRequestID, id))
	}
	return logger
}
