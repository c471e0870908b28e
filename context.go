package console

import "context"

type clientIDKey struct{}

// WithClient marks the context as originating from the client with the given ID.
func WithClient(parent context.Context, clientID uint64) context.Context {
	return context.WithValue(parent, clientIDKey{}, clientID)
}

// ClientIDFromContext returns the client ID that the context originates from, if any.
func ClientIDFromContext(ctx context.Context) (uint64, bool) {
	clientID, ok := ctx.Value(clientIDKey{}).(uint64)

	return clientID, ok
}
