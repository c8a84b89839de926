package cart

import (
	"context"
	"errors"
	"log"
	"sync"
)

// ErrNoSavedCart is returned by a Persister when nothing has been saved for
// the session yet.
var ErrNoSavedCart = errors.New("no saved cart")

// Persister durably stores the full item sequence of a session's cart. The
// sequence is written after every mutation and read once when the store is
// initialized.
type Persister interface {
	Load(ctx context.Context, sessionID string) ([]Item, error)
	Save(ctx context.Context, sessionID string, items []Item) error
	Delete(ctx context.Context, sessionID string) error
}

// Snapshot is a read-only view of a cart. TotalAmount and ItemCount are
// always consistent with Items; the invariant is re-established inside every
// mutating call before it returns.
type Snapshot struct {
	Items       []Item `json:"items"`
	TotalAmount int    `json:"total_amount"`
	ItemCount   int    `json:"item_count"`
}

// Store holds the ordered pizza items for one browser session. Insertion
// order is significant: it drives display order and index-based removal.
// The owning session is the only writer.
type Store struct {
	mu        sync.Mutex
	sessionID string
	persister Persister

	items       []Item
	totalAmount int
}

// NewStore rehydrates the session's cart from the persister. Malformed or
// absent persisted data yields an empty cart, never an error.
func NewStore(ctx context.Context, sessionID string, p Persister) *Store {
	s := &Store{sessionID: sessionID, persister: p}

	items, err := p.Load(ctx, sessionID)
	if err != nil {
		if !errors.Is(err, ErrNoSavedCart) {
			log.Printf("[Cart] Could not load cart for session %s, starting empty: %v", sessionID, err)
		}
		return s
	}

	s.items = items
	s.recompute()
	return s
}

// Add appends item to the end of the sequence. Identical configurations are
// never merged; every add is a distinct entry.
func (s *Store) Add(ctx context.Context, item Item) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = append(s.items, item)
	s.recompute()
	s.persist(ctx)
}

// Remove deletes the entry at index, preserving the relative order of the
// rest. An out-of-range index is a no-op, not an error.
func (s *Store) Remove(ctx context.Context, index int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.items) {
		return
	}

	s.items = append(s.items[:index], s.items[index+1:]...)
	s.recompute()
	s.persist(ctx)
}

// Clear empties the sequence; both derived values drop to zero.
func (s *Store) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = nil
	s.recompute()
	s.persist(ctx)
}

// Snapshot returns a copy of the cart's current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]Item, len(s.items))
	copy(items, s.items)
	return Snapshot{
		Items:       items,
		TotalAmount: s.totalAmount,
		ItemCount:   len(s.items),
	}
}

func (s *Store) recompute() {
	total := 0
	for _, item := range s.items {
		total += item.TotalPrice
	}
	s.totalAmount = total
}

// persist writes the full sequence through to the persister. A write failure
// is logged but does not fail the mutation: the in-memory cart stays the
// source of truth for the session.
func (s *Store) persist(ctx context.Context) {
	if err := s.persister.Save(ctx, s.sessionID, s.items); err != nil {
		log.Printf("[Cart] Failed to persist cart for session %s: %v", s.sessionID, err)
	}
}
