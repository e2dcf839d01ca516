package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fcode/course-platform-backend/models"
	"github.com/fcode/course-platform-backend/utils"
)

// RequireRoles authenticates the request and admits only the given roles.
func RequireRoles(tokens *utils.JWTManager, allowed ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !authenticate(c, tokens) {
			return
		}

		actor, ok := CurrentActor(c)
		if !ok || !actor.Role.Valid() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token!"})
			return
		}
		for _, role := range allowed {
			if actor.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "You do not have permission to access this resource"})
	}
}
