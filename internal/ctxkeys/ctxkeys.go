// Package ctxkeys holds the context keys suitekit uses to correlate loads.
package ctxkeys

import "context"

// contextKey is the key type for values stored in a context.
type contextKey string

const (
	loadIDKey  contextKey = "load_id"
	batchIDKey contextKey = "batch_id"
)

// WithLoadID sets the load ID.
func WithLoadID(ctx context.Context, loadID string) context.Context {
	return context.WithValue(ctx, loadIDKey, loadID)
}

// LoadID returns the load ID.
func LoadID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(loadIDKey).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// WithBatchID sets the ID shared by every load of one LoadAll call.
func WithBatchID(ctx context.Context, batchID string) context.Context {
	return context.WithValue(ctx, batchIDKey, batchID)
}

// BatchID returns the batch ID.
func BatchID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(batchIDKey).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
