package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/nexium/recipe-service/internal/model"
)

// IdentityResolver resolves the caller's provider id and names the strategy that matched
type IdentityResolver interface {
	ResolveWith(r *http.Request) (strategy string, userID string, err error)
}

// AuthMiddleware rejects requests without a resolvable identity with 401
func AuthMiddleware(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		strategy, userID, err := resolver.ResolveWith(c.Request)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, model.ErrorResponse{Error: "Unauthorized"})
			return
		}

		c.Set(UserIDKey, userID)
		c.Set(AuthStrategyKey, strategy)
		c.Next()
	}
}

// OptionalAuthMiddleware sets the caller identity when one resolves and never rejects
func OptionalAuthMiddleware(resolver IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		if strategy, userID, err := resolver.ResolveWith(c.Request); err == nil {
			c.Set(UserIDKey, userID)
			c.Set(AuthStrategyKey, strategy)
		}
		c.Next()
	}
}
