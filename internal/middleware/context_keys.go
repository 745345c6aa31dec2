package middleware

import (
	"context"

	"github.com/finbooks/posting-engine/internal/core/domain"
	"github.com/gin-gonic/gin"
)

// actorKey is the key used to store the authenticated actor in the request
// context.
const actorKey = contextKey("actor")

// GetActorFromContext retrieves the authenticated actor from the request
// context. The second return value is false when no actor was set.
func GetActorFromContext(c *gin.Context) (domain.Actor, bool) {
	actor, ok := c.Request.Context().Value(actorKey).(domain.Actor)
	return actor, ok
}

// WithActor returns a context carrying the given actor. Used by the auth
// middleware and by tests.
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}
