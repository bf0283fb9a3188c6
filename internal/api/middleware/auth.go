package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/medcart/pharmacy-api/internal/domain"
	"github.com/medcart/pharmacy-api/internal/service"
)

const (
	contextUserIDKey = "auth_user_id"
	contextRoleKey   = "auth_role"
)

// AuthMiddleware validates the bearer token and stores the caller's identity
// in the request context
func AuthMiddleware(jwtSecret string, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}

		token := strings.TrimPrefix(header, "Bearer ")
		userID, role, err := service.ParseToken(jwtSecret, token)
		if err != nil {
			logger.Debug("token rejected", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set(contextUserIDKey, userID)
		c.Set(contextRoleKey, role)
		c.Next()
	}
}

// RequireAdmin rejects callers without the admin role. Must run after
// AuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetRoleFromContext(c)
		if !ok || role != domain.UserRoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}
		c.Next()
	}
}

// GetUserIDFromContext returns the authenticated user's ID
func GetUserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	val, ok := c.Get(contextUserIDKey)
	if !ok {
		return uuid.Nil, false
	}
	userID, ok := val.(uuid.UUID)
	return userID, ok
}

// GetRoleFromContext returns the authenticated user's role
func GetRoleFromContext(c *gin.Context) (domain.UserRole, bool) {
	val, ok := c.Get(contextRoleKey)
	if !ok {
		return "", false
	}
	role, ok := val.(domain.UserRole)
	return role, ok
}
