package vapi

import "time"

// Assistant is the upstream voice assistant resource. Only the fields the
// dashboard surfaces are decoded; the raw payload carries much more.
type Assistant struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Language string `json:"language,omitempty"`

	Model *AssistantModel `json:"model,omitempty"`
}

type AssistantModel struct {
	Name        string             `json:"name,omitempty"`
	Temperature float64            `json:"temperature,omitempty"`
	MaxTokens   int                `json:"maxTokens,omitempty"`
	Messages    []AssistantMessage `json:"messages,omitempty"`
}

// AssistantMessage is a configured prompt message; the first one is the
// system prompt.
type AssistantMessage struct {
	Role    string `json:"role,omitempty"`
	Content string `json:"content"`
}

// CostBreakdown itemizes a call's cost. The platform share keeps the
// upstream's field name on the wire.
type CostBreakdown struct {
	Total    float64 `json:"total"`
	STT      float64 `json:"stt"`
	LLM      float64 `json:"llm"`
	TTS      float64 `json:"tts"`
	Platform float64 `json:"vapi"`
}

// Analysis is the upstream's post-call analysis block.
type Analysis struct {
	Summary           string `json:"summary,omitempty"`
	SuccessEvaluation string `json:"successEvaluation,omitempty"`
}

// Call is a single list-endpoint call record.
type Call struct {
	ID          string    `json:"id"`
	AssistantID string    `json:"assistantId,omitempty"`
	Status      string    `json:"status"`
	EndedReason string    `json:"endedReason,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	DurationMs  int64     `json:"durationMs,omitempty"`

	Summary  string         `json:"summary,omitempty"`
	Analysis *Analysis      `json:"analysis,omitempty"`
	Costs    *CostBreakdown `json:"costs,omitempty"`
}

// Message is one conversation turn. The upstream is inconsistent about
// which of message/content carries the text; Text() resolves it.
type Message struct {
	Role             string  `json:"role"`
	Time             float64 `json:"time"` // epoch milliseconds
	Message          string  `json:"message,omitempty"`
	Content          string  `json:"content,omitempty"`
	SecondsFromStart float64 `json:"secondsFromStart,omitempty"`
}

func (m Message) Text() string {
	if m.Content != "" {
		return m.Content
	}
	return m.Message
}

// Timestamp converts the epoch-millisecond message time to UTC.
func (m Message) Timestamp() time.Time {
	return time.UnixMilli(int64(m.Time)).UTC()
}

// Artifact holds post-call material attached to the detail endpoint.
type Artifact struct {
	Messages     []Message `json:"messages,omitempty"`
	Summary      string    `json:"summary,omitempty"`
	Analysis     *Analysis `json:"analysis,omitempty"`
	RecordingURL string    `json:"recordingUrl,omitempty"`

	// Some payload generations used snake_case here.
	RecordingURLLegacy string `json:"recording_url,omitempty"`
}

type Recording struct {
	URL string `json:"url,omitempty"`
}

// CallDetail is the get-endpoint call record: the list fields plus the
// conversation and recording material.
type CallDetail struct {
	Call

	Messages []Message `json:"messages,omitempty"`
	Artifact *Artifact `json:"artifact,omitempty"`

	RecordingURL       string     `json:"recordingUrl,omitempty"`
	RecordingURLLegacy string     `json:"recording_url,omitempty"`
	Recording          *Recording `json:"recording,omitempty"`
}

// ConversationMessages prefers the top-level messages and falls back to the
// artifact copy; old calls only carry the latter.
func (d CallDetail) ConversationMessages() []Message {
	if len(d.Messages) > 0 {
		return d.Messages
	}
	if d.Artifact != nil {
		return d.Artifact.Messages
	}
	return nil
}

// BestRecordingURL resolves the recording location across the payload
// generations, oldest field first.
func (d CallDetail) BestRecordingURL() string {
	if d.RecordingURLLegacy != "" {
		return d.RecordingURLLegacy
	}
	if d.RecordingURL != "" {
		return d.RecordingURL
	}
	if d.Artifact != nil {
		if d.Artifact.RecordingURLLegacy != "" {
			return d.Artifact.RecordingURLLegacy
		}
		if d.Artifact.RecordingURL != "" {
			return d.Artifact.RecordingURL
		}
	}
	if d.Recording != nil {
		return d.Recording.URL
	}
	return ""
}

// BestSummary resolves the call summary across its possible homes.
func (d CallDetail) BestSummary() string {
	if d.Summary != "" {
		return d.Summary
	}
	if d.Analysis != nil && d.Analysis.Summary != "" {
		return d.Analysis.Summary
	}
	if d.Artifact != nil {
		if d.Artifact.Summary != "" {
			return d.Artifact.Summary
		}
		if d.Artifact.Analysis != nil && d.Artifact.Analysis.Summary != "" {
			return d.Artifact.Analysis.Summary
		}
	}
	return ""
}

// PhoneNumber is an upstream telephony number bound to an assistant.
type PhoneNumber struct {
	ID          string    `json:"id"`
	Number      string    `json:"number"`
	AssistantID string    `json:"assistantId,omitempty"`
	Provider    string    `json:"provider,omitempty"`
	Status      string    `json:"status,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
}
