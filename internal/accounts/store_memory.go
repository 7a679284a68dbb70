package accounts

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore is a simple in-memory account repository for tests and early
// development.
type MemoryStore struct {
	mu   sync.Mutex
	rows map[string]Account
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{rows: map[string]Account{}}
}

func (s *MemoryStore) Get(ctx context.Context, id string) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.rows[id]
	if !ok {
		return Account{}, ErrNotFound
	}
	return a, nil
}

func (s *MemoryStore) GetByEmail(ctx context.Context, email string) (Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.rows {
		if a.Email == email {
			return a, nil
		}
	}
	return Account{}, ErrNotFound
}

func (s *MemoryStore) List(ctx context.Context) ([]Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Account, 0, len(s.rows))
	for _, a := range s.rows {
		out = append(out, a)
	}
	// Newest first, matching the Postgres store's ORDER BY created_at DESC.
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) Create(ctx context.Context, a Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[a.ID]; ok {
		return ErrDuplicate
	}
	for _, existing := range s.rows {
		if existing.Email == a.Email {
			return ErrDuplicate
		}
	}
	s.rows[a.ID] = a
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, a Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[a.ID]; !ok {
		return ErrNotFound
	}
	s.rows[a.ID] = a
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.rows[id]; !ok {
		return ErrNotFound
	}
	delete(s.rows, id)
	return nil
}
