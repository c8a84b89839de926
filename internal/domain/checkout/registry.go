package checkout

import (
	"context"
	"log"
	"sync"
	"time"
)

// Registry tracks the checkout session for each storefront session and reaps
// attempts whose payment widget never called back.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

// Get returns the checkout session for a storefront session, creating an
// Idle one if needed.
func (r *Registry) Get(sessionID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[sessionID]; ok {
		return s
	}
	s := NewSession(sessionID)
	r.sessions[sessionID] = s
	return s
}

// Release drops a session's checkout state entirely.
func (r *Registry) Release(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
}

// ReapExpired returns every parked session whose payment window has passed
// to Idle, and reports how many were reaped.
func (r *Registry) ReapExpired(now time.Time) int {
	r.mu.Lock()
	sessions := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		sessions = append(sessions, s)
	}
	r.mu.Unlock()

	reaped := 0
	for _, s := range sessions {
		if s.reapIfExpired(now) {
			reaped++
		}
	}
	return reaped
}

// Sweep runs ReapExpired on a ticker until ctx is cancelled.
func (r *Registry) Sweep(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := r.ReapExpired(now); n > 0 {
				log.Printf("[Checkout] Reaped %d expired payment window(s)", n)
			}
		}
	}
}

func (s *Session) reapIfExpired(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.expired(now) {
		return false
	}
	s.reset()
	return true
}
