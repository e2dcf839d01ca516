package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fcode/course-platform-backend/models"
	"github.com/fcode/course-platform-backend/services"
	"github.com/fcode/course-platform-backend/utils"
)

const (
	ctxUserID = "user_id"
	ctxRole   = "role"
)

// bearerToken returns the second space-separated field of the header. The
// scheme itself is not checked.
func bearerToken(header string) string {
	parts := strings.Split(header, " ")
	if len(parts) < 2 {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func identify(tokens *utils.JWTManager, tokenString string) (uuid.UUID, models.UserRole, bool) {
	claims, err := tokens.VerifyToken(tokenString)
	if err != nil {
		return uuid.Nil, "", false
	}
	id, err := claims.UserID()
	if err != nil {
		return uuid.Nil, "", false
	}
	role, ok := models.ParseRole(claims.Role)
	if !ok {
		return uuid.Nil, "", false
	}
	return id, role, true
}

// authenticate sets the caller on c or aborts. It answers 403 when the
// Authorization header is missing and 401 when the token does not verify.
// Clients depend on both codes.
func authenticate(c *gin.Context, tokens *utils.JWTManager) bool {
	header := c.GetHeader("Authorization")
	if header == "" {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "No token, access denied!"})
		return false
	}

	id, role, ok := identify(tokens, bearerToken(header))
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Invalid token!"})
		return false
	}

	c.Set(ctxUserID, id)
	c.Set(ctxRole, role)
	return true
}

func AuthMiddleware(tokens *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if authenticate(c, tokens) {
			c.Next()
		}
	}
}

// OptionalAuth sets the caller when a valid token is present and otherwise
// lets the request through anonymously.
func OptionalAuth(tokens *utils.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, role, ok := identify(tokens, bearerToken(c.GetHeader("Authorization"))); ok {
			c.Set(ctxUserID, id)
			c.Set(ctxRole, role)
		}
		c.Next()
	}
}

// CurrentActor returns the caller set by AuthMiddleware or OptionalAuth.
func CurrentActor(c *gin.Context) (services.Actor, bool) {
	id, ok := c.Get(ctxUserID)
	if !ok {
		return services.Actor{}, false
	}
	userID, ok := id.(uuid.UUID)
	if !ok {
		return services.Actor{}, false
	}
	role, _ := c.Get(ctxRole)
	r, _ := role.(models.UserRole)
	return services.Actor{ID: userID, Role: r}, true
}
