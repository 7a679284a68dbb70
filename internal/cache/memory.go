package cache

import (
	"context"
	"sync"
	"time"
)

// TTL is shared by all entries.
const TTL = 30 * time.Second

type entry struct {
	payload []byte
	at      time.Time
}

// Memory is the in-process cache backend. Stale entries stay in the map until
// overwritten; there is no sweep, so cardinality is bounded by the number of
// distinct keys ever cached (fine for small assistant counts).
type Memory struct {
	mu      sync.Mutex
	entries map[string]entry
	ttl     time.Duration
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		entries: make(map[string]entry),
		ttl:     TTL,
		now:     time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if m.now().Sub(e.at) >= m.ttl {
		return nil, false
	}
	return e.payload, true
}

func (m *Memory) Set(_ context.Context, key string, payload []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry{payload: payload, at: m.now()}
}
