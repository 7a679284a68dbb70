package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"hotel-assistant-api/internal/auth"
	"hotel-assistant-api/internal/config"
)

func newTestProvider(t *testing.T) *Provider {
	t.Helper()
	m, err := auth.NewManager(config.AuthConfig{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
	})
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	return NewProvider(NewMemoryCredentialStore(), m)
}

func TestRegisterSignInVerifyRoundTrip(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	subject, err := p.Register(ctx, "guest@hotel.test", "hunter22")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if subject == "" {
		t.Fatal("expected subject id")
	}

	got, pair, err := p.SignIn(ctx, "guest@hotel.test", "hunter22")
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if got != subject {
		t.Fatalf("subject = %q, want %q", got, subject)
	}

	verified, err := p.VerifyToken(ctx, pair.AccessToken)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if verified != subject {
		t.Fatalf("verified subject = %q, want %q", verified, subject)
	}
}

func TestSignInWrongPassword(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	if _, err := p.Register(ctx, "guest@hotel.test", "hunter22"); err != nil {
		t.Fatal(err)
	}
	if _, _, err := p.SignIn(ctx, "guest@hotel.test", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
	// Unknown email produces the same error as a wrong password.
	if _, _, err := p.SignIn(ctx, "nobody@hotel.test", "hunter22"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("err = %v, want ErrInvalidCredentials", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	if _, err := p.Register(ctx, "guest@hotel.test", "hunter22"); err != nil {
		t.Fatal(err)
	}
	if _, err := p.Register(ctx, "guest@hotel.test", "other"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("err = %v, want ErrEmailTaken", err)
	}
}

func TestRefreshIssuesNewPair(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	subject, err := p.Register(ctx, "guest@hotel.test", "hunter22")
	if err != nil {
		t.Fatal(err)
	}
	_, pair, err := p.SignIn(ctx, "guest@hotel.test", "hunter22")
	if err != nil {
		t.Fatal(err)
	}

	fresh, err := p.Refresh(ctx, pair.RefreshToken)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	got, err := p.VerifyToken(ctx, fresh.AccessToken)
	if err != nil {
		t.Fatalf("verify refreshed: %v", err)
	}
	if got != subject {
		t.Fatalf("subject = %q, want %q", got, subject)
	}

	// An access token is not accepted where a refresh token is expected.
	if _, err := p.Refresh(ctx, pair.AccessToken); err == nil {
		t.Fatal("expected refresh with access token to fail")
	}
}

func TestDeleteCredentialsIdempotent(t *testing.T) {
	p := newTestProvider(t)
	ctx := context.Background()

	subject, err := p.Register(ctx, "guest@hotel.test", "hunter22")
	if err != nil {
		t.Fatal(err)
	}
	if err := p.DeleteCredentials(ctx, subject); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := p.DeleteCredentials(ctx, subject); err != nil {
		t.Fatalf("second delete should be a no-op: %v", err)
	}
	if _, _, err := p.SignIn(ctx, "guest@hotel.test", "hunter22"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("sign in after delete: err = %v, want ErrInvalidCredentials", err)
	}
}
