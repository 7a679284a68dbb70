package authz

import (
	"net/http"

	"hotel-assistant-api/internal/auth"

	"github.com/gin-gonic/gin"
)

// RequireAdmin gates the admin surface. It assumes the guard already ran and
// attached the account; a missing account is an authentication failure, a
// non-admin role an authorization one.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		a, err := auth.AccountFrom(c.Request.Context())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
			return
		}
		if !IsAdmin(a) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
			return
		}
		c.Next()
	}
}
