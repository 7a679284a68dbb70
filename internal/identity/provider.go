// Package identity owns credentials and token issuance. It is the only
// package that touches passwords; everything downstream works with the
// account row attached by the request guard.
package identity

import (
	"context"
	"errors"
	"time"

	"hotel-assistant-api/internal/auth"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("identity: invalid credentials")
	ErrEmailTaken         = errors.New("identity: email already registered")
	ErrCredentialNotFound = errors.New("identity: credential not found")
)

// CredentialStore persists email/password-hash pairs keyed by subject id.
type CredentialStore interface {
	Create(ctx context.Context, subject, email, passwordHash string) error
	GetByEmail(ctx context.Context, email string) (subject, passwordHash string, err error)
	Delete(ctx context.Context, subject string) error
}

// Provider registers subjects, exchanges credentials for token pairs, and
// verifies bearer tokens.
type Provider struct {
	creds  CredentialStore
	tokens *auth.Manager
	now    func() time.Time
}

func NewProvider(creds CredentialStore, tokens *auth.Manager) *Provider {
	return &Provider{creds: creds, tokens: tokens, now: time.Now}
}

// Register creates a credential and returns the new subject id.
func (p *Provider) Register(ctx context.Context, email, password string) (string, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return "", err
	}

	subject := uuid.NewString()
	if err := p.creds.Create(ctx, subject, email, hash); err != nil {
		if errors.Is(err, ErrEmailTaken) {
			return "", ErrEmailTaken
		}
		return "", err
	}
	return subject, nil
}

// SignIn verifies the password and issues a token pair. Unknown email and
// wrong password collapse into the same error so callers cannot probe for
// registered addresses.
func (p *Provider) SignIn(ctx context.Context, email, password string) (string, auth.TokenPair, error) {
	subject, hash, err := p.creds.GetByEmail(ctx, email)
	if errors.Is(err, ErrCredentialNotFound) {
		return "", auth.TokenPair{}, ErrInvalidCredentials
	}
	if err != nil {
		return "", auth.TokenPair{}, err
	}
	if err := VerifyPassword(hash, password); err != nil {
		return "", auth.TokenPair{}, ErrInvalidCredentials
	}

	pair, err := p.tokens.IssuePair(p.now().UTC(), subject)
	if err != nil {
		return "", auth.TokenPair{}, err
	}
	return subject, pair, nil
}

// VerifyToken validates an access token and returns the subject id.
func (p *Provider) VerifyToken(ctx context.Context, token string) (string, error) {
	claims, err := p.tokens.Verify(token, auth.TokenTypeAccess, p.now().UTC())
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

// Refresh exchanges a refresh token for a fresh pair.
func (p *Provider) Refresh(ctx context.Context, refreshToken string) (auth.TokenPair, error) {
	claims, err := p.tokens.Verify(refreshToken, auth.TokenTypeRefresh, p.now().UTC())
	if err != nil {
		return auth.TokenPair{}, err
	}
	return p.tokens.IssuePair(p.now().UTC(), claims.UserID)
}

// DeleteCredentials removes the subject's credential. Missing credentials are
// not an error; the delete cascade must be idempotent.
func (p *Provider) DeleteCredentials(ctx context.Context, subject string) error {
	err := p.creds.Delete(ctx, subject)
	if errors.Is(err, ErrCredentialNotFound) {
		return nil
	}
	return err
}
