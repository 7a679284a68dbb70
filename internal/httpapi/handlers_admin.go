package httpapi

import (
	"context"
	"errors"
	"net/http"

	"hotel-assistant-api/internal/accounts"
	"hotel-assistant-api/internal/audit"
	"hotel-assistant-api/internal/authz"
	"hotel-assistant-api/internal/identity"
	"hotel-assistant-api/internal/vapi"
	"hotel-assistant-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// adminUser is an account enriched with assistant details for the admin
// listing; the frontend renders names without extra round-trips.
type adminUser struct {
	accounts.Account

	DefaultAssistantDetails  *vapi.Assistant  `json:"defaultAssistantDetails"`
	AssignedAssistantDetails []vapi.Assistant `json:"assignedAssistantDetails"`
}

// ListUsers returns the accounts the caller may see: all of them for owners,
// own creations (plus self) for admins.
func (h Handlers) ListUsers(c *gin.Context) {
	log := logger.FromGin(c)

	actor, ok := mustAccount(c)
	if !ok {
		return
	}

	users, err := h.Accounts.List(c.Request.Context())
	if err != nil {
		log.Error("account listing failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	// Assistant enrichment is best-effort; the listing still works when the
	// upstream is down.
	assistants, err := h.Upstream.ListAssistants(c.Request.Context())
	if err != nil {
		log.Warn("assistant enrichment unavailable", "err", err)
	}
	byID := make(map[string]vapi.Assistant, len(assistants))
	for _, a := range assistants {
		byID[a.ID] = a
	}

	out := make([]adminUser, 0, len(users))
	for _, u := range users {
		if !authz.CanViewAccount(actor, u) {
			continue
		}
		out = append(out, enrichUser(u, byID))
	}

	c.JSON(http.StatusOK, gin.H{"data": out})
}

type createUserRequest struct {
	Email           string   `json:"email"`
	Password        string   `json:"password"`
	Name            string   `json:"name"`
	Role            string   `json:"role"`
	AssistantAccess string   `json:"assistantAccess"`
	AssignedVapiIDs []string `json:"assignedVapiIds"`
	Language        string   `json:"language"`
}

func (h Handlers) CreateUser(c *gin.Context) {
	log := logger.FromGin(c)

	actor, ok := mustAccount(c)
	if !ok {
		return
	}

	var req createUserRequest
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
		log.Error("admin user register failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	account, err := h.Accounts.Create(c.Request.Context(), actor.ID, accounts.CreateParams{
		ID:              subject,
		Email:           req.Email,
		Name:            req.Name,
		Role:            accounts.Role(req.Role),
		AssistantAccess: accounts.AccessMode(req.AssistantAccess),
		Assigned:        req.AssignedVapiIDs,
		AssignedNames:   h.assistantNames(c.Request.Context(), req.AssignedVapiIDs),
		Language:        req.Language,
	})
	if errors.Is(err, accounts.ErrInvalidRequest) {
		// Roll back the orphaned credential so the email can be retried.
		if derr := h.Identity.DeleteCredentials(c.Request.Context(), subject); derr != nil {
			log.Error("credential rollback failed", "subject", subject, "err", derr)
		}
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		log.Error("admin user creation failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	h.logAudit(c, audit.EventTypeAccountCreated, actor, account.ID, "account created")
	c.JSON(http.StatusOK, gin.H{"data": account})
}

type updateUserRequest struct {
	Role            string   `json:"role"`
	AssistantAccess string   `json:"assistantAccess"`
	AssignedVapiIDs []string `json:"assignedVapiIds"`
	Language        string   `json:"language"`
}

func (h Handlers) UpdateUser(c *gin.Context) {
	log := logger.FromGin(c)

	actor, ok := mustAccount(c)
	if !ok {
		return
	}
	userID := c.Param("userId")

	target, err := h.Accounts.Get(c.Request.Context(), userID)
	if errors.Is(err, accounts.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		log.Error("account load failed", "account_id", userID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}
	if !authz.CanMutateAccount(actor, target) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "no permission"})
		return
	}

	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	updated, err := h.Accounts.Update(c.Request.Context(), userID, accounts.UpdateParams{
		Role:            accounts.Role(req.Role),
		AssistantAccess: accounts.AccessMode(req.AssistantAccess),
		Assigned:        req.AssignedVapiIDs,
		AssignedNames:   h.assistantNames(c.Request.Context(), req.AssignedVapiIDs),
		Language:        req.Language,
	})
	if errors.Is(err, accounts.ErrInvalidRequest) {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		log.Error("account update failed", "account_id", userID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	h.logAudit(c, audit.EventTypeAccountUpdated, actor, userID, "account updated")
	c.JSON(http.StatusOK, gin.H{"data": updated})
}

func (h Handlers) DeleteUser(c *gin.Context) {
	log := logger.FromGin(c)

	actor, ok := mustAccount(c)
	if !ok {
		return
	}
	userID := c.Param("userId")

	target, err := h.Accounts.Get(c.Request.Context(), userID)
	if errors.Is(err, accounts.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if err != nil {
		log.Error("account load failed", "account_id", userID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}
	if !authz.CanMutateAccount(actor, target) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "no permission"})
		return
	}

	if err := h.Accounts.Delete(c.Request.Context(), userID); err != nil {
		log.Error("account delete failed", "account_id", userID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	h.logAudit(c, audit.EventTypeAccountDeleted, actor, userID, "account deleted")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// assistantNames resolves display names for assigned assistant ids; an
// unresolvable id falls back to the id itself.
func (h Handlers) assistantNames(ctx context.Context, ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	assistants, err := h.Upstream.ListAssistants(ctx)
	if err != nil {
		logger.From(ctx).Warn("assistant name resolution unavailable", "err", err)
	}
	byID := make(map[string]string, len(assistants))
	for _, a := range assistants {
		byID[a.ID] = a.Name
	}

	names := make([]string, len(ids))
	for i, id := range ids {
		if name, ok := byID[id]; ok {
			names[i] = name
		} else {
			names[i] = id
		}
	}
	return names
}

func enrichUser(u accounts.Account, byID map[string]vapi.Assistant) adminUser {
	out := adminUser{Account: u, AssignedAssistantDetails: []vapi.Assistant{}}
	if u.DefaultAssistantID != "" {
		if a, ok := byID[u.DefaultAssistantID]; ok {
			out.DefaultAssistantDetails = &a
		}
	}
	for _, id := range u.AssignedAssistants {
		if a, ok := byID[id]; ok {
			out.AssignedAssistantDetails = append(out.AssignedAssistantDetails, a)
		}
	}
	return out
}

func (h Handlers) logAudit(c *gin.Context, typ audit.EventType, actor accounts.Account, targetID, message string) {
	if err := h.Audit.Log(c.Request.Context(), typ, actor.ID, string(actor.Role), c.ClientIP(), targetID, message); err != nil {
		logger.FromGin(c).Warn("audit append failed", "err", err)
	}
}
