package core

import "context"

// Context keys for ingest options
type contextKey string

const syncForwardKey contextKey = "syncForward"

// WithSyncForward makes the ingest forward the payload before returning instead of in the background.
// Short-lived callers such as the CLI use it so the process does not exit mid-flight.
func WithSyncForward(ctx context.Context) context.Context {
	return context.WithValue(ctx, syncForwardKey, true)
}

// shouldSyncForward returns whether forwarding should block the ingest
func shouldSyncForward(ctx context.Context) bool {
	val := ctx.Value(syncForwardKey)
	if val == nil {
		return false // default: forward in the background
	}
	sync, ok := val.(bool)
	return ok && sync
}
