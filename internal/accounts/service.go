package accounts

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

var (
	ErrInvalidRequest = errors.New("accounts: invalid request")
)

// CredentialDeleter is the slice of the identity provider the service needs
// for delete cascades.
type CredentialDeleter interface {
	DeleteCredentials(ctx context.Context, subject string) error
}

// Service owns the account lifecycle. Authorization (role gate, ownership
// rule) is enforced by the authz policy at the transport boundary; the
// service validates data shape and keeps the store and the identity provider
// consistent.
type Service struct {
	store Store
	creds CredentialDeleter
	log   *slog.Logger
	now   func() time.Time
}

func NewService(store Store, creds CredentialDeleter, log *slog.Logger) *Service {
	return &Service{store: store, creds: creds, log: log, now: time.Now}
}

// Signup creates the account row for a self-service registration. Role is
// always forced to user and access mode to single, regardless of input.
//
// A concurrent signup for the same subject can race on the insert; the
// duplicate-key failure is resolved by re-reading the now-existing row, since
// the end state is equivalent.
func (s *Service) Signup(ctx context.Context, id, email, name string, questions json.RawMessage) (Account, error) {
	if id == "" || email == "" {
		return Account{}, ErrInvalidRequest
	}

	now := s.now().UTC()
	a := Account{
		ID:                 id,
		Email:              email,
		Name:               name,
		Role:               RoleUser,
		AssistantAccess:    AccessSingle,
		AssignedAssistants: []string{},
		Language:           "en",
		Questions:          questions,
		QuestionsSubmitted: len(questions) > 0,
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	err := s.store.Create(ctx, a)
	if errors.Is(err, ErrDuplicate) {
		s.log.Info("concurrent account creation detected, re-reading", "account_id", id)
		return s.store.Get(ctx, id)
	}
	if err != nil {
		return Account{}, err
	}
	return a, nil
}

// CreateParams carries the admin-facing creation payload.
type CreateParams struct {
	ID              string
	Email           string
	Name            string
	Role            Role
	AssistantAccess AccessMode
	Assigned        []string
	AssignedNames   []string
	Language        string
}

// Create inserts an account on behalf of actorID (an owner or admin).
// The creator is recorded for the ownership rule. Owners may grant any role;
// the owner role itself is never grantable here.
func (s *Service) Create(ctx context.Context, actorID string, p CreateParams) (Account, error) {
	if p.ID == "" || p.Email == "" {
		return Account{}, ErrInvalidRequest
	}
	if p.Role == "" {
		p.Role = RoleUser
	}
	if !ValidRole(p.Role) || p.Role == RoleOwner {
		return Account{}, fmt.Errorf("%w: role %q not grantable", ErrInvalidRequest, p.Role)
	}
	if p.AssistantAccess == "" {
		p.AssistantAccess = AccessSingle
	}
	if !ValidAccessMode(p.AssistantAccess) {
		return Account{}, fmt.Errorf("%w: assistant_access %q", ErrInvalidRequest, p.AssistantAccess)
	}
	if err := validateAssignment(p.AssistantAccess, p.Assigned); err != nil {
		return Account{}, err
	}
	if p.Language == "" {
		p.Language = "en"
	}

	now := s.now().UTC()
	a := Account{
		ID:                     p.ID,
		Email:                  p.Email,
		Name:                   p.Name,
		Role:                   p.Role,
		AssistantAccess:        p.AssistantAccess,
		AssignedAssistants:     orEmpty(p.Assigned),
		AssignedAssistantNames: orEmpty(p.AssignedNames),
		Language:               p.Language,
		CreatedBy:              actorID,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
	a.DefaultAssistantID, a.DefaultAssistantName = defaultAssistant(a)

	if err := s.store.Create(ctx, a); err != nil {
		return Account{}, err
	}
	return a, nil
}

// UpdateParams carries mutable account fields. Nil slices mean "leave as is";
// an empty non-nil slice clears the assignment.
type UpdateParams struct {
	Role            Role
	AssistantAccess AccessMode
	Assigned        []string
	AssignedNames   []string
	Language        string
	Questions       json.RawMessage
}

func (s *Service) Update(ctx context.Context, id string, p UpdateParams) (Account, error) {
	a, err := s.store.Get(ctx, id)
	if err != nil {
		return Account{}, err
	}

	if p.Role != "" {
		if !ValidRole(p.Role) {
			return Account{}, fmt.Errorf("%w: role %q", ErrInvalidRequest, p.Role)
		}
		a.Role = p.Role
	}
	if p.AssistantAccess != "" {
		if !ValidAccessMode(p.AssistantAccess) {
			return Account{}, fmt.Errorf("%w: assistant_access %q", ErrInvalidRequest, p.AssistantAccess)
		}
		a.AssistantAccess = p.AssistantAccess
	}
	if p.Assigned != nil {
		a.AssignedAssistants = p.Assigned
		a.AssignedAssistantNames = orEmpty(p.AssignedNames)
	}
	if p.Language != "" {
		a.Language = p.Language
	}
	if p.Questions != nil {
		a.Questions = p.Questions
		a.QuestionsSubmitted = true
	}

	if err := validateAssignment(a.AssistantAccess, a.AssignedAssistants); err != nil {
		return Account{}, err
	}
	a.DefaultAssistantID, a.DefaultAssistantName = defaultAssistant(a)
	a.UpdatedAt = s.now().UTC()

	if err := s.store.Update(ctx, a); err != nil {
		return Account{}, err
	}
	return a, nil
}

// Delete removes the account row and cascades to the identity provider.
// There is no soft delete.
func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.creds.DeleteCredentials(ctx, id); err != nil {
		// The row is gone; a stale credential only blocks future logins for
		// a deleted user. Log and surface so ops can reconcile.
		s.log.Error("credential cascade failed", "account_id", id, "err", err)
		return err
	}
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (Account, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Account, error) {
	return s.store.List(ctx)
}

// validateAssignment enforces the single-mode invariant: at most one
// assistant may be assigned.
func validateAssignment(mode AccessMode, assigned []string) error {
	if mode == AccessSingle && len(assigned) > 1 {
		return fmt.Errorf("%w: single assistant access can only have one assigned assistant", ErrInvalidRequest)
	}
	return nil
}

// defaultAssistant derives the default assistant for single-mode accounts:
// the first assigned assistant. All-mode accounts have no default.
func defaultAssistant(a Account) (string, string) {
	if a.AssistantAccess != AccessSingle || len(a.AssignedAssistants) == 0 {
		return "", ""
	}
	id := a.AssignedAssistants[0]
	name := ""
	if len(a.AssignedAssistantNames) > 0 {
		name = a.AssignedAssistantNames[0]
	}
	return id, name
}
