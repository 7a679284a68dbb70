package auth

import (
	"context"
	"errors"

	"hotel-assistant-api/internal/accounts"
)

type ctxKey int

const ctxAccount ctxKey = iota

// WithAccount stores the authenticated account for the request.
func WithAccount(ctx context.Context, a accounts.Account) context.Context {
	return context.WithValue(ctx, ctxAccount, a)
}

// AccountFrom returns the authenticated account, or an error when the
// request never passed the guard.
func AccountFrom(ctx context.Context) (accounts.Account, error) {
	if a, ok := ctx.Value(ctxAccount).(accounts.Account); ok && a.ID != "" {
		return a, nil
	}
	return accounts.Account{}, errors.New("account not in context")
}
