package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"hotel-assistant-api/internal/accounts"
	"hotel-assistant-api/internal/analytics"
	"hotel-assistant-api/internal/authz"
	"hotel-assistant-api/internal/cache"
	"hotel-assistant-api/internal/retry"
	"hotel-assistant-api/internal/vapi"
	"hotel-assistant-api/pkg/logger"

	"github.com/gin-gonic/gin"
)

// CallAnalytics serves the headline stats for an assistant. Aggregates are
// cached for the TTL and the upstream list is retried; when the upstream
// stays down the dashboard gets a zeroed stats object rather than an error.
func (h Handlers) CallAnalytics(c *gin.Context) {
	log := logger.FromGin(c)

	account, ok := mustAccount(c)
	if !ok {
		return
	}
	assistantID := c.Param("assistantId")
	if !authz.HasAssistantAccess(account, assistantID) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		return
	}

	stats, err := cache.GetOrFetch(c.Request.Context(), h.Cache, "calls:"+assistantID,
		func(ctx context.Context) (analytics.CallStats, error) {
			calls, err := h.listCallsWithRetry(ctx, assistantID)
			if err != nil {
				return analytics.CallStats{}, err
			}
			return h.Agg.CallStats(calls), nil
		})
	if err != nil {
		log.Error("call analytics degraded to zero stats", "assistant_id", assistantID, "err", err)
		c.JSON(http.StatusOK, h.Agg.ZeroCallStats())
		return
	}

	c.JSON(http.StatusOK, stats)
}

// Transcripts serves the flattened conversation log for an assistant's calls.
func (h Handlers) Transcripts(c *gin.Context) {
	log := logger.FromGin(c)

	account, ok := mustAccount(c)
	if !ok {
		return
	}
	assistantID := c.Param("assistantId")
	if !authz.HasAssistantAccess(account, assistantID) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	entries, err := cache.GetOrFetch(c.Request.Context(), h.Cache, "transcripts:"+assistantID,
		func(ctx context.Context) ([]analytics.TranscriptEntry, error) {
			calls, err := h.listCallsWithRetry(ctx, assistantID)
			if err != nil {
				return nil, err
			}
			details := h.fetchCallDetails(ctx, calls)
			return h.Agg.Transcripts(calls, details), nil
		})
	if err != nil {
		log.Error("transcripts fetch failed", "assistant_id", assistantID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch transcripts"})
		return
	}
	if entries == nil {
		entries = []analytics.TranscriptEntry{}
	}

	c.JSON(http.StatusOK, entries)
}

// Tickets serves the ticket view. The raw aggregate is cached once and cost
// redaction is applied per caller, so editors and owners share the same
// cache entry without leaking figures.
func (h Handlers) Tickets(c *gin.Context) {
	account, ok := mustAccount(c)
	if !ok {
		return
	}
	assistantID := c.Param("assistantId")
	if !authz.HasAssistantAccess(account, assistantID) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	stats, err := h.ticketStats(c, assistantID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch ticket analytics"})
		return
	}

	c.JSON(http.StatusOK, analytics.RedactTickets(account.Role, stats))
}

// ExportTickets streams the caller's (already redacted) ticket view as CSV.
func (h Handlers) ExportTickets(c *gin.Context) {
	account, ok := mustAccount(c)
	if !ok {
		return
	}
	assistantID := c.Param("assistantId")
	if !authz.HasAssistantAccess(account, assistantID) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Access denied"})
		return
	}

	stats, err := h.ticketStats(c, assistantID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to export tickets"})
		return
	}
	redacted := analytics.RedactTickets(account.Role, stats)
	includeCosts := account.Role == accounts.RoleAdmin || account.Role == accounts.RoleOwner

	filename := fmt.Sprintf("tickets-%s-%s.csv", assistantID, time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	if err := analytics.WriteTicketsCSV(c.Writer, redacted, includeCosts); err != nil {
		logger.FromGin(c).Error("tickets csv write failed", "assistant_id", assistantID, "err", err)
	}
}

// Recording resolves a call's recording URL. Admin-gated in routing; the
// error message tells the operator why no recording exists yet.
func (h Handlers) Recording(c *gin.Context) {
	log := logger.FromGin(c)
	callID := c.Param("callId")

	detail, err := h.Upstream.GetCall(c.Request.Context(), callID)
	if errors.Is(err, vapi.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Call not found"})
		return
	}
	if err != nil {
		log.Error("recording lookup failed", "call_id", callID, "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch call recording"})
		return
	}

	url := detail.BestRecordingURL()
	if url == "" {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": recordingUnavailableMessage(detail.Status)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": url})
}

func recordingUnavailableMessage(status string) string {
	switch status {
	case "", "created", "queued":
		return "Call has not started yet"
	case "in-progress":
		return "Call is still in progress"
	case "ended":
		return "Recording not found for completed call"
	default:
		return "Recording not available"
	}
}

func (h Handlers) ticketStats(c *gin.Context, assistantID string) (analytics.TicketStats, error) {
	stats, err := cache.GetOrFetch(c.Request.Context(), h.Cache, "tickets:"+assistantID,
		func(ctx context.Context) (analytics.TicketStats, error) {
			calls, err := h.listCallsWithRetry(ctx, assistantID)
			if err != nil {
				return analytics.TicketStats{}, err
			}
			details := h.fetchCallDetails(ctx, calls)
			return h.Agg.TicketStats(assistantID, calls, details), nil
		})
	if err != nil {
		logger.FromGin(c).Error("ticket stats fetch failed", "assistant_id", assistantID, "err", err)
		return analytics.TicketStats{}, err
	}
	return stats, nil
}

func (h Handlers) listCallsWithRetry(ctx context.Context, assistantID string) ([]vapi.Call, error) {
	return retry.Do(ctx, h.Retry, func(ctx context.Context) ([]vapi.Call, error) {
		return h.Upstream.ListCalls(ctx, assistantID)
	})
}

// fetchCallDetails resolves per-call detail records. A failed lookup only
// costs that call its summary and transcript, never the whole response.
func (h Handlers) fetchCallDetails(ctx context.Context, calls []vapi.Call) map[string]vapi.CallDetail {
	log := logger.From(ctx)
	details := make(map[string]vapi.CallDetail, len(calls))
	for _, call := range calls {
		d, err := h.Upstream.GetCall(ctx, call.ID)
		if err != nil {
			log.Warn("call detail fetch failed", "call_id", call.ID, "err", err)
			continue
		}
		details[call.ID] = d
	}
	return details
}
