package checkout

import (
	"sync"
	"time"

	"github.com/example/pizzacraft-storefront/internal/client"
)

// WidgetParams is everything the hosted payment widget is opened with.
type WidgetParams struct {
	GatewayKey string `json:"gateway_key"`
	IntentID   string `json:"intent_id"`
	Amount     int    `json:"amount"`
	Currency   string `json:"currency"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Contact    string `json:"contact"`
	ExpiresAt  int64  `json:"expires_at"`
}

// Session is one user's ephemeral checkout attempt. It is never persisted;
// abandoning the browser session abandons the state machine. The mutex
// serializes the whole attempt: only one operation runs at a time, which is
// exactly the single-flight contract.
type Session struct {
	mu sync.Mutex

	id        string
	state     State
	address   Address
	intent    client.PaymentIntent
	widget    *WidgetParams
	paymentID string
	orderID   string
	failure   string
	deadline  time.Time
}

func NewSession(id string) *Session {
	return &Session{id: id, state: StateIdle}
}

// View is the session state exposed over the API.
type View struct {
	State     State         `json:"state"`
	OrderID   string        `json:"order_id,omitempty"`
	PaymentID string        `json:"payment_id,omitempty"`
	Failure   string        `json:"failure,omitempty"`
	Widget    *WidgetParams `json:"widget,omitempty"`
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{State: s.state, OrderID: s.orderID, Failure: s.failure}
	if s.state == StateAwaitingUserPayment {
		v.Widget = s.widget
	}
	if s.state == StatePaidUnrecorded {
		v.PaymentID = s.paymentID
	}
	return v
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// expired reports whether the parked payment widget outlived its deadline.
// Callers hold s.mu.
func (s *Session) expired(now time.Time) bool {
	return s.state == StateAwaitingUserPayment && !s.deadline.IsZero() && now.After(s.deadline)
}

// transition moves the session along a legal edge. Callers hold s.mu.
func (s *Session) transition(to State) error {
	if !CanTransitionTo(s.state, to) {
		return ErrIllegalTransition
	}
	s.state = to
	return nil
}

// reset returns the session to Idle, discarding all partial state. Callers
// hold s.mu and have checked the edge is legal.
func (s *Session) reset() {
	s.state = StateIdle
	s.address = Address{}
	s.intent = client.PaymentIntent{}
	s.widget = nil
	s.paymentID = ""
	s.orderID = ""
	s.failure = ""
	s.deadline = time.Time{}
}
