package identity

import (
	"context"
	"sync"
)

type credential struct {
	subject string
	email   string
	hash    string
}

// MemoryCredentialStore backs tests and local development.
type MemoryCredentialStore struct {
	mu   sync.Mutex
	rows map[string]credential // keyed by subject
}

func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{rows: map[string]credential{}}
}

func (s *MemoryCredentialStore) Create(ctx context.Context, subject, email, passwordHash string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.rows {
		if c.email == email {
			return ErrEmailTaken
		}
	}
	s.rows[subject] = credential{subject: subject, email: email, hash: passwordHash}
	return nil
}

func (s *MemoryCredentialStore) GetByEmail(ctx context.Context, email string) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.rows {
		if c.email == email {
			return c.subject, c.hash, nil
		}
	}
	return "", "", ErrCredentialNotFound
}

func (s *MemoryCredentialStore) Delete(ctx context.Context, subject string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[subject]; !ok {
		return ErrCredentialNotFound
	}
	delete(s.rows, subject)
	return nil
}
