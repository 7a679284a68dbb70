package analytics

import (
	"fmt"
	"time"

	"hotel-assistant-api/internal/vapi"
)

// TranscriptEntry is one visible conversation turn.
type TranscriptEntry struct {
	ID        string `json:"id"`
	CallID    string `json:"callId"`
	Timestamp string `json:"timestamp"`
	Content   string `json:"content"`
	Speaker   string `json:"speaker"` // "user" or "bot"
}

// Transcripts flattens the calls' conversations into display entries. Per
// call: only user/bot/assistant turns count, the first of those is dropped
// (it is the assistant's canned greeting), and assistant maps to "bot".
// A call missing from details contributes nothing.
func (a *Aggregator) Transcripts(calls []vapi.Call, details map[string]vapi.CallDetail) []TranscriptEntry {
	var out []TranscriptEntry
	for _, call := range calls {
		d, ok := details[call.ID]
		if !ok {
			a.log.Warn("transcript detail missing", "call_id", call.ID)
			continue
		}

		kept := 0
		for _, msg := range d.ConversationMessages() {
			if msg.Role != "user" && msg.Role != "bot" && msg.Role != "assistant" {
				continue
			}
			kept++
			if kept == 1 {
				continue
			}

			speaker := "bot"
			if msg.Role == "user" {
				speaker = "user"
			}
			out = append(out, TranscriptEntry{
				ID:        fmt.Sprintf("%s-%d", call.ID, int64(msg.Time)),
				CallID:    call.ID,
				Timestamp: msg.Timestamp().Format(time.RFC3339),
				Content:   msg.Text(),
				Speaker:   speaker,
			})
		}
	}
	return out
}
