package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/tillpoint/cashdesk_backend/internal/core/domain"
)

// actorCtxKey is the key used to store the authenticated actor in the request context.
const actorCtxKey = contextKey("actor")

// GetActorFromContext retrieves the authenticated actor tuple from the Gin
// context. It returns the actor and a boolean indicating if it was found.
func GetActorFromContext(c *gin.Context) (domain.Actor, bool) {
	actorVal := c.Request.Context().Value(actorCtxKey)
	if actorVal == nil {
		return domain.Actor{}, false
	}

	actor, ok := actorVal.(domain.Actor)
	if !ok {
		// Should not happen if the auth middleware sets it correctly
		return domain.Actor{}, false
	}

	return actor, true
}
