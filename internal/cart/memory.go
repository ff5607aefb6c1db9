package cart

import (
	"context"
	"sync"
)

// MemoryStorage keeps cart snapshots in process memory. Used in tests and as
// a single-node fallback when Redis is not configured.
type MemoryStorage struct {
	mu    sync.RWMutex
	carts map[string][]LineItem
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{carts: make(map[string][]LineItem)}
}

var _ Storage = (*MemoryStorage)(nil)

func (m *MemoryStorage) Save(_ context.Context, cartID string, items []LineItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	snapshot := make([]LineItem, len(items))
	copy(snapshot, items)
	m.carts[cartID] = snapshot
	return nil
}

func (m *MemoryStorage) Load(_ context.Context, cartID string) ([]LineItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	stored, ok := m.carts[cartID]
	if !ok {
		return []LineItem{}, nil
	}
	items := make([]LineItem, len(stored))
	copy(items, stored)
	return items, nil
}

func (m *MemoryStorage) Delete(_ context.Context, cartID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, cartID)
	return nil
}
