package accounts

import (
	"context"
	"errors"
)

var (
	ErrNotFound  = errors.New("accounts: not found")
	ErrDuplicate = errors.New("accounts: duplicate id or email")
)

// Store abstracts account persistence. Implementations must map their
// native duplicate-key failures to ErrDuplicate so the service can resolve
// concurrent-creation races by re-reading.
type Store interface {
	Get(ctx context.Context, id string) (Account, error)
	GetByEmail(ctx context.Context, email string) (Account, error)
	List(ctx context.Context) ([]Account, error)
	Create(ctx context.Context, a Account) error
	Update(ctx context.Context, a Account) error
	Delete(ctx context.Context, id string) error
}
