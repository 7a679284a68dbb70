package identity

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// PGCredentialStore persists credentials in Postgres.
type PGCredentialStore struct {
	db *sql.DB
}

func NewPGCredentialStore(db *sql.DB) *PGCredentialStore {
	return &PGCredentialStore{db: db}
}

func (s *PGCredentialStore) Create(ctx context.Context, subject, email, passwordHash string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credentials (subject, email, password_hash, created_at)
		VALUES ($1, $2, $3, now())`,
		subject, email, passwordHash,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrEmailTaken
	}
	if err != nil {
		return fmt.Errorf("credentials create: %w", err)
	}
	return nil
}

func (s *PGCredentialStore) GetByEmail(ctx context.Context, email string) (string, string, error) {
	var subject, hash string
	err := s.db.QueryRowContext(ctx, `
		SELECT subject, password_hash FROM credentials WHERE email = $1`,
		email,
	).Scan(&subject, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", ErrCredentialNotFound
	}
	if err != nil {
		return "", "", fmt.Errorf("credentials get: %w", err)
	}
	return subject, hash, nil
}

func (s *PGCredentialStore) Delete(ctx context.Context, subject string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM credentials WHERE subject = $1`, subject)
	if err != nil {
		return fmt.Errorf("credentials delete: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrCredentialNotFound
	}
	return nil
}
