package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"hotel-assistant-api/internal/accounts"
	"hotel-assistant-api/internal/identity"
	"hotel-assistant-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

type signupRequest struct {
	Email     string          `json:"email"`
	Password  string          `json:"password"`
	Name      string          `json:"name"`
	Questions json.RawMessage `json:"questions,omitempty"`
}

// Signup registers a credential and creates the matching account row.
// Self-service accounts are always plain users; role escalation only happens
// through the admin surface.
func (h Handlers) Signup(c *gin.Context) {
	log := logger.FromGin(c)

	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Email == "" || req.Password == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
		return
	}

	subject, err := h.Identity.Register(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, identity.ErrEmailTaken) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Email already registered"})
		return
	}
	if err != nil {
		log.Error("signup register failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign up"})
		return
	}

	account, err := h.Accounts.Signup(c.Request.Context(), subject, req.Email, req.Name, req.Questions)
	if err != nil {
		log.Error("signup account creation failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign up"})
		return
	}

	_, pair, err := h.Identity.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		log.Error("signup sign-in failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign up"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":          account,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h Handlers) Login(c *gin.Context) {
	log := logger.FromGin(c)

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	subject, pair, err := h.Identity.SignIn(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, identity.ErrInvalidCredentials) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if err != nil {
		log.Error("login failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	account, err := h.Accounts.Get(c.Request.Context(), subject)
	if errors.Is(err, accounts.ErrNotFound) {
		// Credential without an account row: deleted mid-flight.
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		log.Error("login account load failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user":          account,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (h Handlers) Refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "refresh_token required"})
		return
	}

	pair, err := h.Identity.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

// Logout is a client-side operation with stateless tokens; the endpoint
// exists so clients have a uniform call to clear their session against.
func (h Handlers) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Me returns the caller's account row, questionnaire included.
func (h Handlers) Me(c *gin.Context) {
	account, ok := mustAccount(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": account})
}
