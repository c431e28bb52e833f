package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hms/backend/internal/domain/audit"
	"github.com/hms/backend/internal/infrastructure/logger"
	"github.com/hms/backend/internal/interfaces/http/dto"
)

const (
	// UserIDHeader identifies the acting user
	UserIDHeader = "X-User-ID"
	// UserNameHeader carries the acting user's display name
	UserNameHeader = "X-User-Name"

	actorKey       = "actor"
	maxActorLength = 128
)

// RequireActor reads the acting user from the request headers. Requests
// without a user id are rejected with 401 before they reach a handler.
func RequireActor() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := audit.Actor{
			ID:   strings.TrimSpace(c.GetHeader(UserIDHeader)),
			Name: strings.TrimSpace(c.GetHeader(UserNameHeader)),
		}
		if actor.IsZero() || len(actor.ID) > maxActorLength || len(actor.Name) > 2*maxActorLength {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeUnauthorized,
				"missing or invalid "+UserIDHeader+" header",
				GetRequestID(c),
			))
			return
		}
		if actor.Name == "" {
			actor.Name = actor.ID
		}
		c.Set(actorKey, actor)
		c.Request = c.Request.WithContext(logger.WithActorID(c.Request.Context(), actor.ID))
		c.Next()
	}
}

// GetActor returns the actor stored by RequireActor
func GetActor(c *gin.Context) (audit.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return audit.Actor{}, false
	}
	actor, ok := v.(audit.Actor)
	return actor, ok
}
