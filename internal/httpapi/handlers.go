package httpapi

import (
	"net/http"

	"hotel-assistant-api/internal/accounts"
	"hotel-assistant-api/internal/analytics"
	"hotel-assistant-api/internal/audit"
	"hotel-assistant-api/internal/auth"
	"hotel-assistant-api/internal/cache"
	"hotel-assistant-api/internal/identity"
	"hotel-assistant-api/internal/retry"
	"hotel-assistant-api/internal/vapi"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
// Keep these thin: parse/validate input, call internal services, return JSON.

type Handlers struct {
	Identity *identity.Provider
	Accounts *accounts.Service
	Upstream vapi.API
	Agg      *analytics.Aggregator
	Cache    cache.Store
	Audit    *audit.Service
	Retry    retry.Options
}

// mustAccount pulls the guard-attached account; the guard runs on every
// authenticated route, so a miss is a wiring bug.
func mustAccount(c *gin.Context) (accounts.Account, bool) {
	a, err := auth.AccountFrom(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
		return accounts.Account{}, false
	}
	return a, true
}
