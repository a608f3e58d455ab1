package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/hakwon-labs/academy-insight-api/internal/models"
	appErrors "github.com/hakwon-labs/academy-insight-api/pkg/errors"
	"github.com/hakwon-labs/academy-insight-api/pkg/response"
)

// RequireRoles lets the request through only when the authenticated staff
// member holds one of the given roles. Must run after JWT.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *gin.Context) {
		value, exists := c.Get(ContextUserKey)
		if !exists {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims, ok := value.(*models.JWTClaims)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}
