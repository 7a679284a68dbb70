package audit

import "time"

// Event is an immutable, append-only audit log record.
//
// Invariants:
// - Events are never updated or deleted.
// - Actor and ip capture are best-effort; do not block admin flows on audit failures.
//
// Storage recommendation (Postgres):
// - Table audit_events with an INSERT-only policy.
// - Optional: trigger to prevent UPDATE/DELETE.

type Event struct {
	ID string `json:"id" db:"id"`

	// Type indicates the business category of the audit record.
	Type EventType `json:"type" db:"type"`

	// ActorID is the authenticated account causing the event.
	ActorID   string `json:"actor_id,omitempty" db:"actor_id"`
	ActorRole string `json:"actor_role,omitempty" db:"actor_role"`

	// IPAddress should capture the original client IP when available.
	IPAddress string `json:"ip_address,omitempty" db:"ip_address"`

	// TargetID is the account, assistant, or phone number the action touched.
	TargetID string `json:"target_id,omitempty" db:"target_id"`

	// Message is a short human-readable description for internal ops.
	Message string `json:"message,omitempty" db:"message"`

	// Metadata is optional JSON for full details.
	Metadata string `json:"metadata,omitempty" db:"metadata"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

type EventType string

const (
	EventTypeAccountCreated     EventType = "account_created"
	EventTypeAccountUpdated     EventType = "account_updated"
	EventTypeAccountDeleted     EventType = "account_deleted"
	EventTypeAssistantDeleted   EventType = "assistant_deleted"
	EventTypePhoneNumberCreated EventType = "phone_number_created"
	EventTypePhoneNumberUpdated EventType = "phone_number_updated"
	EventTypePhoneNumberDeleted EventType = "phone_number_deleted"
)
