package middleware

import (
	"context"

	"github.com/bizlink/leadgen-backend/internal/access"
)

type contextKey string

const ctxActor contextKey = "actor"

// ActorFromContext returns the authenticated caller, or nil when the request
// did not pass the auth middleware.
func ActorFromContext(ctx context.Context) *access.Actor {
	if ctx == nil {
		return nil
	}
	if actor, ok := ctx.Value(ctxActor).(*access.Actor); ok {
		return actor
	}
	return nil
}

// WithActor injects the authenticated caller into the context.
func WithActor(ctx context.Context, actor *access.Actor) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxActor, actor)
}
