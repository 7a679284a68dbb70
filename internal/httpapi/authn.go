package httpapi

import (
	"context"
	"net/http"
	"strings"

	"hotel-assistant-api/internal/accounts"
	"hotel-assistant-api/internal/auth"

	"github.com/gin-gonic/gin"
)

// TokenVerifier validates an access token and returns the subject id.
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (string, error)
}

// RequireAuth is the request guard: extract the bearer token, verify it, load
// the account row, and attach it to the request context. The role is read
// from the store on every request, never from the token, so role changes and
// deletions take effect immediately.
//
// Websocket clients cannot set headers from the browser, so the token is also
// accepted as a `token` query parameter.
func RequireAuth(verifier TokenVerifier, store accounts.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
			return
		}

		subject, err := verifier.VerifyToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		account, err := store.Get(c.Request.Context(), subject)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}

		c.Request = c.Request.WithContext(auth.WithAccount(c.Request.Context(), account))
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if t, ok := strings.CutPrefix(h, "Bearer "); ok {
			return t
		}
		return ""
	}
	return c.Query("token")
}
