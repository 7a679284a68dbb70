package realtime

import (
	"context"
	"net/http"
	"sync"
	"time"

	"hotel-assistant-api/internal/accounts"
	"hotel-assistant-api/internal/analytics"
	"hotel-assistant-api/internal/auth"
	"hotel-assistant-api/internal/authz"
	"hotel-assistant-api/internal/retry"
	"hotel-assistant-api/internal/vapi"
	"hotel-assistant-api/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type inboundMessage struct {
	Type        string `json:"type"`
	AssistantID string `json:"assistantId"`
}

type outboundMessage struct {
	Type    string              `json:"type"`
	Data    *analytics.Snapshot `json:"data,omitempty"`
	Message string              `json:"message,omitempty"`
}

// WSHandler upgrades dashboard connections and relays subscription traffic
// to the broadcaster. Authentication happens once, at upgrade time, via the
// request guard that runs before this handler.
type WSHandler struct {
	broadcaster *Broadcaster
	upstream    vapi.API
	agg         *analytics.Aggregator
	retryOpts   retry.Options
	upgrader    websocket.Upgrader
}

func NewWSHandler(b *Broadcaster, upstream vapi.API, agg *analytics.Aggregator) *WSHandler {
	return &WSHandler{
		broadcaster: b,
		upstream:    upstream,
		agg:         agg,
		// Budget kept under the tick interval so a down upstream delays the
		// next push instead of stacking attempts across ticks.
		retryOpts: retry.Options{
			MaxRetries:  2,
			Timeout:     2 * time.Second,
			BackoffBase: 500 * time.Millisecond,
		},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// The bearer token authenticates the socket; origin allow-listing
			// belongs to the edge proxy.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *WSHandler) Handle(c *gin.Context) {
	log := logger.FromGin(c)

	account, err := auth.AccountFrom(c.Request.Context())
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No token provided"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("websocket upgrade failed", "err", err)
		return
	}

	connID := uuid.NewString()
	log = log.With("conn_id", connID, "account_id", account.ID)
	log.Info("realtime connection opened")

	// The read loop below is the only reader; writes come from runner
	// goroutines and are serialized here.
	var writeMu sync.Mutex
	send := func(msg outboundMessage) {
		writeMu.Lock()
		defer writeMu.Unlock()
		if err := conn.WriteJSON(msg); err != nil {
			log.Warn("realtime write failed", "err", err)
		}
	}

	defer func() {
		h.broadcaster.DropConnection(connID)
		conn.Close()
		log.Info("realtime connection closed")
	}()

	for {
		var msg inboundMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("realtime read failed", "err", err)
			}
			return
		}

		switch msg.Type {
		case "subscribe_assistant":
			if !authz.HasAssistantAccess(account, msg.AssistantID) {
				send(outboundMessage{Type: "error", Message: "Access denied"})
				continue
			}
			fetch := h.snapshotFetcher(msg.AssistantID, account.Role)
			h.broadcaster.Subscribe(c.Request.Context(), connID, msg.AssistantID, fetch, func(snap analytics.Snapshot) {
				send(outboundMessage{Type: "assistant_data", Data: &snap})
			})
		case "unsubscribe_assistant":
			h.broadcaster.Unsubscribe(connID, msg.AssistantID)
		default:
			send(outboundMessage{Type: "error", Message: "unknown message type"})
		}
	}
}

// snapshotFetcher builds the per-subscription fetch: list the assistant's
// calls (retried within the tick budget), aggregate, and redact for the
// viewer's role.
func (h *WSHandler) snapshotFetcher(assistantID string, role accounts.Role) FetchFunc {
	return func(ctx context.Context) (analytics.Snapshot, error) {
		calls, err := retry.Do(ctx, h.retryOpts, func(ctx context.Context) ([]vapi.Call, error) {
			return h.upstream.ListCalls(ctx, assistantID)
		})
		if err != nil {
			return analytics.Snapshot{}, err
		}
		return analytics.Snapshot{
			Calls: analytics.RedactCalls(role, calls),
			Stats: h.agg.CallStats(calls),
		}, nil
	}
}
