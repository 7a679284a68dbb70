package authz

import (
	"slices"

	"hotel-assistant-api/internal/accounts"
)

// HasAssistantAccess decides whether the account may see the assistant.
// Rules:
// - owner and admin see every assistant
// - access mode "all" sees every assistant
// - single mode matches the default assistant, then the assigned list
func HasAssistantAccess(a accounts.Account, assistantID string) bool {
	if assistantID == "" {
		return false
	}
	if a.Role == accounts.RoleOwner || a.Role == accounts.RoleAdmin {
		return true
	}
	if a.AssistantAccess == accounts.AccessAll {
		return true
	}
	if a.DefaultAssistantID != "" && a.DefaultAssistantID == assistantID {
		return true
	}
	return slices.Contains(a.AssignedAssistants, assistantID)
}

// IsAdmin reports whether the account may use the admin surface.
func IsAdmin(a accounts.Account) bool {
	return a.Role == accounts.RoleOwner || a.Role == accounts.RoleAdmin
}

// CanMutateAccount enforces the ownership rule: owners may mutate any
// account; admins only the accounts they created. Everyone else, nothing.
func CanMutateAccount(actor, target accounts.Account) bool {
	switch actor.Role {
	case accounts.RoleOwner:
		return true
	case accounts.RoleAdmin:
		return target.CreatedBy == actor.ID
	default:
		return false
	}
}

// CanViewAccount mirrors CanMutateAccount for admin listings, plus everyone
// may view themselves.
func CanViewAccount(actor, target accounts.Account) bool {
	if actor.ID == target.ID {
		return true
	}
	return CanMutateAccount(actor, target)
}
