package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bizledger/internal/models"
)

// roleFromContext reads the role set by AuthMiddleware.
func roleFromContext(c *gin.Context) (models.UserRole, bool) {
	v, exists := c.Get("role")
	if !exists {
		return "", false
	}
	role, ok := v.(models.UserRole)
	return role, ok
}

// RequireEditor rejects requests from users whose role may not mutate
// ledger data. Employees keep read-only access to every listing and
// report; authorization never reaches the aggregation services.
func RequireEditor() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := roleFromContext(c)
		if !ok || !role.CanEdit() {
			c.JSON(http.StatusForbidden, gin.H{
				"error": gin.H{"code": "FORBIDDEN", "message": "Your role does not permit this operation"},
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin restricts a route to administrators.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := roleFromContext(c)
		if !ok || role != models.UserRoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{
				"error": gin.H{"code": "FORBIDDEN", "message": "Administrator role required"},
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
