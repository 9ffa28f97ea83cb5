// Package requestcontext holds request-scoped values set by HTTP middleware
// and read by services and loggers without importing net/http.
package requestcontext

import (
	"context"

	"jobboard/auth"
)

type (
	identityKey  struct{}
	requestIDKey struct{}
)

// Identity returns the verified caller, if any.
func Identity(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(auth.Identity)
	return id, ok
}

func WithIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// RequestID returns the correlation id or the empty string.
func RequestID(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey{}).(string); ok {
		return v
	}
	return ""
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}
