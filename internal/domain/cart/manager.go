package cart

import (
	"context"
	"sync"
)

// Manager hands out one Store per storefront session, rehydrating it from
// the persister on first use. Stores live for the session and are released
// when the session ends.
type Manager struct {
	mu        sync.Mutex
	persister Persister
	stores    map[string]*Store
}

func NewManager(p Persister) *Manager {
	return &Manager{
		persister: p,
		stores:    make(map[string]*Store),
	}
}

// Get returns the session's cart store, creating it if needed.
func (m *Manager) Get(ctx context.Context, sessionID string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()

	if s, ok := m.stores[sessionID]; ok {
		return s
	}
	s := NewStore(ctx, sessionID, m.persister)
	m.stores[sessionID] = s
	return s
}

// Release drops the in-memory store for a session. The persisted sequence is
// kept, so a returning session rehydrates where it left off.
func (m *Manager) Release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, sessionID)
}
