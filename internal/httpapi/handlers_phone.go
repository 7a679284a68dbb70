package httpapi

import (
	"errors"
	"net/http"

	"hotel-assistant-api/internal/audit"
	"hotel-assistant-api/internal/vapi"
	"hotel-assistant-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Phone number management proxies the upstream directly. Unlike the
// analytics endpoints there is no degraded mode here: a failed mutation must
// surface, silently dropping a number change would strand live telephony.

func (h Handlers) ListPhoneNumbers(c *gin.Context) {
	numbers, err := h.Upstream.ListPhoneNumbers(c.Request.Context())
	if err != nil {
		logger.FromGin(c).Error("phone number listing failed", "err", err)
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "Failed to fetch phone numbers"})
		return
	}
	if numbers == nil {
		numbers = []vapi.PhoneNumber{}
	}
	c.JSON(http.StatusOK, gin.H{"data": numbers})
}

type phoneNumberRequest struct {
	Number      string `json:"number"`
	AssistantID string `json:"assistantId"`
}

func (h Handlers) CreatePhoneNumber(c *gin.Context) {
	actor, ok := mustAccount(c)
	if !ok {
		return
	}

	var req phoneNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Number == "" || req.AssistantID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "number and assistantId required"})
		return
	}

	pn, err := h.Upstream.CreatePhoneNumber(c.Request.Context(), req.Number, req.AssistantID)
	if err != nil {
		logger.FromGin(c).Error("phone number create failed", "number", req.Number, "err", err)
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "Failed to create phone number"})
		return
	}

	h.logAudit(c, audit.EventTypePhoneNumberCreated, actor, pn.ID, "phone number created")
	c.JSON(http.StatusOK, gin.H{"data": pn})
}

func (h Handlers) UpdatePhoneNumber(c *gin.Context) {
	actor, ok := mustAccount(c)
	if !ok {
		return
	}
	id := c.Param("id")

	var req phoneNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	pn, err := h.Upstream.UpdatePhoneNumber(c.Request.Context(), id, req.Number, req.AssistantID)
	if errors.Is(err, vapi.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Phone number not found"})
		return
	}
	if err != nil {
		logger.FromGin(c).Error("phone number update failed", "phone_number_id", id, "err", err)
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "Failed to update phone number"})
		return
	}

	h.logAudit(c, audit.EventTypePhoneNumberUpdated, actor, id, "phone number updated")
	c.JSON(http.StatusOK, gin.H{"data": pn})
}

func (h Handlers) DeletePhoneNumber(c *gin.Context) {
	actor, ok := mustAccount(c)
	if !ok {
		return
	}
	id := c.Param("id")

	err := h.Upstream.DeletePhoneNumber(c.Request.Context(), id)
	if errors.Is(err, vapi.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Phone number not found"})
		return
	}
	if err != nil {
		logger.FromGin(c).Error("phone number delete failed", "phone_number_id", id, "err", err)
		c.AbortWithStatusJSON(http.StatusBadGateway, gin.H{"error": "Failed to delete phone number"})
		return
	}

	h.logAudit(c, audit.EventTypePhoneNumberDeleted, actor, id, "phone number deleted")
	c.JSON(http.StatusOK, gin.H{"success": true})
}
