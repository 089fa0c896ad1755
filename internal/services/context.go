package services

import "context"

type contextKey string

const (
	runIDKey      contextKey = "run_id"
	customerIDKey contextKey = "customer_id"
)

// WithRunID annotates context with the pipeline run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the pipeline run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithCustomerID annotates context with the customer being processed.
func WithCustomerID(ctx context.Context, id int64) context.Context {
	return context.WithValue(ctx, customerIDKey, id)
}

// CustomerIDFromContext extracts the customer identifier if present.
func CustomerIDFromContext(ctx context.Context) (int64, bool) {
	switch v := ctx.Value(customerIDKey).(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	default:
		return 0, false
	}
}
