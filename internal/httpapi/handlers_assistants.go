package httpapi

import (
	"net/http"
	"slices"

	"hotel-assistant-api/internal/accounts"
	"hotel-assistant-api/internal/audit"
	"hotel-assistant-api/internal/authz"
	"hotel-assistant-api/internal/vapi"
	"hotel-assistant-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ListAssistants returns the assistants the caller may see: everything for
// owners, admins, and all-access accounts; the assigned subset otherwise.
// The system prompt is stripped for non-admin viewers.
func (h Handlers) ListAssistants(c *gin.Context) {
	log := logger.FromGin(c)

	account, ok := mustAccount(c)
	if !ok {
		return
	}

	all, err := h.Upstream.ListAssistants(c.Request.Context())
	if err != nil {
		log.Error("assistant listing failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch assistants"})
		return
	}

	var visible []vapi.Assistant
	switch {
	case authz.IsAdmin(account) || account.AssistantAccess == accounts.AccessAll:
		visible = all
	case len(account.AssignedAssistants) > 0 || account.DefaultAssistantID != "":
		for _, a := range all {
			if a.ID == account.DefaultAssistantID || slices.Contains(account.AssignedAssistants, a.ID) {
				visible = append(visible, a)
			}
		}
	}
	if visible == nil {
		visible = []vapi.Assistant{}
	}

	if !authz.IsAdmin(account) {
		visible = stripSystemPrompts(visible)
	}

	c.JSON(http.StatusOK, gin.H{"data": visible})
}

func (h Handlers) GetAssistant(c *gin.Context) {
	account, ok := mustAccount(c)
	if !ok {
		return
	}
	assistantID := c.Param("assistantId")
	if !authz.HasAssistantAccess(account, assistantID) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	assistant, err := h.Upstream.GetAssistant(c.Request.Context(), assistantID)
	if err != nil {
		logger.FromGin(c).Error("assistant fetch failed", "assistant_id", assistantID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch assistant"})
		return
	}

	if !authz.IsAdmin(account) {
		assistant = stripSystemPrompt(assistant)
	}
	c.JSON(http.StatusOK, gin.H{"data": assistant})
}

// DeleteAssistant removes the assistant upstream. Admin-gated in routing.
func (h Handlers) DeleteAssistant(c *gin.Context) {
	log := logger.FromGin(c)

	account, ok := mustAccount(c)
	if !ok {
		return
	}
	assistantID := c.Param("assistantId")

	if err := h.Upstream.DeleteAssistant(c.Request.Context(), assistantID); err != nil {
		log.Error("assistant delete failed", "assistant_id", assistantID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete assistant"})
		return
	}

	if err := h.Audit.Log(c.Request.Context(), audit.EventTypeAssistantDeleted,
		account.ID, string(account.Role), c.ClientIP(), assistantID, "assistant deleted"); err != nil {
		log.Warn("audit append failed", "err", err)
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// stripSystemPrompt blanks the first configured model message, which carries
// the system prompt. The message stays in place so clients keep stable
// indexes.
func stripSystemPrompt(a vapi.Assistant) vapi.Assistant {
	if a.Model == nil || len(a.Model.Messages) == 0 {
		return a
	}
	model := *a.Model
	model.Messages = slices.Clone(model.Messages)
	model.Messages[0].Content = ""
	a.Model = &model
	return a
}

func stripSystemPrompts(list []vapi.Assistant) []vapi.Assistant {
	out := make([]vapi.Assistant, len(list))
	for i, a := range list {
		out[i] = stripSystemPrompt(a)
	}
	return out
}
