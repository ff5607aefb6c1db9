package admin

import (
	"context"
	"sync"
	"time"
)

// MemorySessionStore keeps sessions in process memory. Expired tokens are
// dropped lazily on lookup.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]time.Time
	now      func() time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]time.Time),
		now:      time.Now,
	}
}

var _ SessionStore = (*MemorySessionStore)(nil)

func (m *MemorySessionStore) Put(_ context.Context, token string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = expiresAt
	return nil
}

func (m *MemorySessionStore) Exists(_ context.Context, token string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	expiresAt, ok := m.sessions[token]
	if !ok {
		return false, nil
	}
	if m.now().After(expiresAt) {
		delete(m.sessions, token)
		return false, nil
	}
	return true, nil
}

func (m *MemorySessionStore) Delete(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}
