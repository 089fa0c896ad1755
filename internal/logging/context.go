package logging

import (
	"context"
	"log/slog"

	"pulse/internal/services"
)

// ContextFields extracts the standardized attributes a pipeline or sales
// context carries.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 2)
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if id, ok := services.CustomerIDFromContext(ctx); ok {
		fields = append(fields, slog.Int64(FieldCustomerID, id))
	}
	return fields
}

// WithContext returns a logger augmented with the fields derived from ctx.
func WithContext(ctx context.Context, logger *slog.Logger) *slog.Logger {
	if logger == nil {
		logger = NewNop()
	}
	fields := ContextFields(ctx)
	if len(fields) == 0 {
		return logger
	}
	return logger.With(Args(fields...)...)
}
