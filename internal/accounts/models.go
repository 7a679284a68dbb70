package accounts

import (
	"encoding/json"
	"time"
)

// Role is the fixed, ordered role set: owner > admin > editor > user.
// Keep these stable; they are part of the auth/authorization contracts.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
	RoleUser   Role = "user"
)

func ValidRole(r Role) bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleEditor, RoleUser:
		return true
	default:
		return false
	}
}

// AccessMode controls how many assistants an account may reach.
type AccessMode string

const (
	AccessSingle AccessMode = "single"
	AccessAll    AccessMode = "all"
)

func ValidAccessMode(m AccessMode) bool {
	return m == AccessSingle || m == AccessAll
}

// Account is a system user. The identity provider owns the credential; this
// row is the source of truth for role, assistant assignment, and ownership.
//
// Ownership invariant: an account created by a non-owner admin carries that
// admin's id in CreatedBy and is only mutable by that admin or an owner.
type Account struct {
	ID    string `json:"id" db:"id"`
	Email string `json:"email" db:"email"`
	Name  string `json:"name,omitempty" db:"name"`

	Role            Role       `json:"role" db:"role"`
	AssistantAccess AccessMode `json:"assistant_access" db:"assistant_access"`

	AssignedAssistants     []string `json:"assigned_assistants" db:"assigned_assistants"`
	AssignedAssistantNames []string `json:"assigned_assistant_names,omitempty" db:"assigned_assistant_names"`

	DefaultAssistantID   string `json:"default_assistant_id,omitempty" db:"default_assistant_id"`
	DefaultAssistantName string `json:"default_assistant_name,omitempty" db:"default_assistant_name"`

	Language string `json:"language" db:"language"`

	// Questions holds the hotel onboarding questionnaire as submitted at
	// signup (property info, amenities, contacts). Stored as JSONB.
	Questions          json.RawMessage `json:"questions,omitempty" db:"questions"`
	QuestionsSubmitted bool            `json:"qa_form_submitted" db:"qa_form_submitted"`

	// CreatedBy records the creating account for admin/owner-created rows;
	// empty for self-service signups.
	CreatedBy string `json:"created_by,omitempty" db:"created_by"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
