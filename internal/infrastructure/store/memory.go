package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/example/pizzacraft-storefront/internal/domain/cart"
)

// MemoryCartStore keeps cart sequences in process memory. It backs the
// storefront when no Redis address is configured (carts then live only as
// long as the process) and serves as the test double for the persistence
// contract. Sequences are held serialized so load/save round-trips behave
// exactly like the Redis implementation.
type MemoryCartStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryCartStore() *MemoryCartStore {
	return &MemoryCartStore{data: make(map[string][]byte)}
}

func (m *MemoryCartStore) Load(_ context.Context, sessionID string) ([]cart.Item, error) {
	m.mu.RLock()
	raw, ok := m.data[sessionID]
	m.mu.RUnlock()

	if !ok {
		return nil, cart.ErrNoSavedCart
	}

	var items []cart.Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (m *MemoryCartStore) Save(_ context.Context, sessionID string, items []cart.Item) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.data[sessionID] = raw
	m.mu.Unlock()
	return nil
}

func (m *MemoryCartStore) Delete(_ context.Context, sessionID string) error {
	m.mu.Lock()
	delete(m.data, sessionID)
	m.mu.Unlock()
	return nil
}
