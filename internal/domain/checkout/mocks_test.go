package checkout

import (
	"context"
	"encoding/json"

	"github.com/example/pizzacraft-storefront/internal/client"
	"github.com/example/pizzacraft-storefront/internal/domain/cart"
)

// memPersister is an in-memory cart.Persister for wiring real cart stores
// into orchestrator tests.
type memPersister struct {
	data map[string][]byte
}

func newMemPersister() *memPersister {
	return &memPersister{data: make(map[string][]byte)}
}

func (p *memPersister) Load(_ context.Context, sessionID string) ([]cart.Item, error) {
	raw, ok := p.data[sessionID]
	if !ok {
		return nil, cart.ErrNoSavedCart
	}
	var items []cart.Item
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (p *memPersister) Save(_ context.Context, sessionID string, items []cart.Item) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	p.data[sessionID] = raw
	return nil
}

func (p *memPersister) Delete(_ context.Context, sessionID string) error {
	delete(p.data, sessionID)
	return nil
}

type mockPayments struct {
	intent    *client.PaymentIntent
	intentErr error
	paymentID string
	verifyErr error

	IntentCalls []int
	VerifyCalls []client.PaymentCallback
}

func (m *mockPayments) CreateIntent(_ context.Context, amount int, _ string) (*client.PaymentIntent, error) {
	m.IntentCalls = append(m.IntentCalls, amount)
	if m.intentErr != nil {
		return nil, m.intentErr
	}
	return m.intent, nil
}

func (m *mockPayments) Verify(_ context.Context, cb client.PaymentCallback, _ string) (string, error) {
	m.VerifyCalls = append(m.VerifyCalls, cb)
	if m.verifyErr != nil {
		return "", m.verifyErr
	}
	return m.paymentID, nil
}

type mockOrders struct {
	orderID string
	err     error

	CreateCalls []client.OrderDraft
}

func (m *mockOrders) Create(_ context.Context, draft client.OrderDraft, _ string) (string, error) {
	m.CreateCalls = append(m.CreateCalls, draft)
	if m.err != nil {
		return "", m.err
	}
	return m.orderID, nil
}

type mockProfiles struct {
	profile *client.Profile
	err     error
}

func (m *mockProfiles) Profile(_ context.Context, _ string) (*client.Profile, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.profile, nil
}

type publishedEvent struct {
	Key       string
	EventType string
	Event     any
}

type mockEvents struct {
	Published []publishedEvent
}

func (m *mockEvents) Publish(_ context.Context, key, eventType string, event any) error {
	m.Published = append(m.Published, publishedEvent{Key: key, EventType: eventType, Event: event})
	return nil
}
