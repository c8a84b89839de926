package checkout

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/example/pizzacraft-storefront/internal/client"
	"github.com/example/pizzacraft-storefront/internal/domain/cart"
)

var (
	ErrEmptyCart         = errors.New("checkout is undefined for an empty cart")
	ErrCheckoutInFlight  = errors.New("a checkout attempt is already in flight")
	ErrNoActivePayment   = errors.New("no payment is awaiting completion")
	ErrNothingToCancel   = errors.New("no checkout attempt to cancel")
	ErrWidgetExpired     = errors.New("the payment window has expired")
	ErrIllegalTransition = errors.New("illegal checkout state transition")

	// ErrPaymentUnrecorded blocks new attempts on a session holding a
	// charged payment with no order on file until it is reconciled.
	ErrPaymentUnrecorded = errors.New("a previous payment was captured but no order is on file; contact support")
)

// ValidationError carries per-field address errors. Nothing was sent over
// the network when this is returned.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "address validation failed" }

// PaymentService creates payment intents and verifies widget callbacks.
type PaymentService interface {
	CreateIntent(ctx context.Context, amount int, token string) (*client.PaymentIntent, error)
	Verify(ctx context.Context, cb client.PaymentCallback, token string) (string, error)
}

// OrderService persists verified orders.
type OrderService interface {
	Create(ctx context.Context, draft client.OrderDraft, token string) (string, error)
}

// ProfileService resolves the bearer's display identity for widget prefill.
type ProfileService interface {
	Profile(ctx context.Context, token string) (*client.Profile, error)
}

// EventPublisher publishes checkout lifecycle events for downstream
// consumers. Publishing is best-effort; a failure never fails the checkout.
type EventPublisher interface {
	Publish(ctx context.Context, key, eventType string, event any) error
}

// Result is a completed checkout.
type Result struct {
	OrderID string `json:"order_id"`
}

// Orchestrator drives the checkout state machine against the external
// collaborators. The network-bound transitions are strictly sequential: a
// step never begins before the previous step's response is observed.
type Orchestrator struct {
	payments PaymentService
	orders   OrderService
	profiles ProfileService
	events   EventPublisher // nil disables publishing

	gatewayKey string
	widgetTTL  time.Duration
}

func NewOrchestrator(
	payments PaymentService,
	orders OrderService,
	profiles ProfileService,
	events EventPublisher,
	gatewayKey string,
	widgetTTL time.Duration,
) *Orchestrator {
	return &Orchestrator{
		payments:   payments,
		orders:     orders,
		profiles:   profiles,
		events:     events,
		gatewayKey: gatewayKey,
		widgetTTL:  widgetTTL,
	}
}

// Start validates the address, requests a payment intent for the cart's
// total and parks the session awaiting the hosted widget. Any failure before
// the widget opens returns the session to Idle with no partial state.
func (o *Orchestrator) Start(ctx context.Context, sess *Session, store *cart.Store, addr Address, token string) (*WidgetParams, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.state == StatePaidUnrecorded {
		return nil, ErrPaymentUnrecorded
	}
	if sess.state.InFlight() {
		// A widget the user closed never calls back; past its deadline the
		// attempt is abandoned and a new one may start.
		if !sess.expired(time.Now()) {
			return nil, ErrCheckoutInFlight
		}
		log.Printf("[Checkout] Session %s: payment window expired, restarting", sess.id)
		sess.reset()
	}
	if sess.state == StateSucceeded || sess.state == StateFailed {
		sess.reset()
	}

	snapshot := store.Snapshot()
	if snapshot.ItemCount == 0 {
		// Empty-cart guard precedes address validation.
		return nil, ErrEmptyCart
	}

	if err := sess.transition(StateValidatingAddress); err != nil {
		return nil, err
	}
	if fieldErrs := addr.Validate(); len(fieldErrs) > 0 {
		sess.reset()
		return nil, &ValidationError{Fields: fieldErrs}
	}

	if err := sess.transition(StateAwaitingPaymentIntent); err != nil {
		return nil, err
	}
	intent, err := o.payments.CreateIntent(ctx, snapshot.TotalAmount, token)
	if err != nil {
		sess.reset()
		return nil, err
	}

	profile, err := o.profiles.Profile(ctx, token)
	if err != nil {
		sess.reset()
		return nil, err
	}

	sess.address = addr
	sess.intent = *intent
	sess.deadline = time.Now().Add(o.widgetTTL)
	sess.widget = &WidgetParams{
		GatewayKey: o.gatewayKey,
		IntentID:   intent.ID,
		Amount:     intent.Amount,
		Currency:   intent.Currency,
		Name:       profile.Name,
		Email:      profile.Email,
		Contact:    addr.Phone,
		ExpiresAt:  sess.deadline.Unix(),
	}
	if err := sess.transition(StateAwaitingUserPayment); err != nil {
		return nil, err
	}

	o.publish(ctx, sess.id, EventCheckoutStarted, CheckoutStarted{
		SessionID: sess.id,
		IntentID:  intent.ID,
		Amount:    intent.Amount,
		Currency:  intent.Currency,
		StartedAt: time.Now(),
	})
	return sess.widget, nil
}

// Complete consumes the widget's callback: verifies the payment, persists
// the order from the captured cart contents, and clears the cart. A
// verification failure halts in Failed; an order-persistence failure leaves
// the cart intact and parks the session in PaidUnrecorded.
func (o *Orchestrator) Complete(ctx context.Context, sess *Session, store *cart.Store, cb client.PaymentCallback, token string) (*Result, error) {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.state != StateAwaitingUserPayment {
		return nil, ErrNoActivePayment
	}
	if sess.expired(time.Now()) {
		sess.reset()
		return nil, ErrWidgetExpired
	}

	if err := sess.transition(StateVerifyingPayment); err != nil {
		return nil, err
	}
	paymentID, err := o.payments.Verify(ctx, cb, token)
	if err != nil {
		sess.failure = err.Error()
		if terr := sess.transition(StateFailed); terr != nil {
			return nil, terr
		}
		o.publish(ctx, sess.id, EventCheckoutFailed, CheckoutFailed{
			SessionID: sess.id,
			Stage:     StateVerifyingPayment.String(),
			Reason:    err.Error(),
			FailedAt:  time.Now(),
		})
		return nil, err
	}
	sess.paymentID = paymentID

	if err := sess.transition(StatePersistingOrder); err != nil {
		return nil, err
	}
	snapshot := store.Snapshot()
	draft := buildOrderDraft(snapshot, paymentID, sess.address)
	orderID, err := o.orders.Create(ctx, draft, token)
	if err != nil {
		// Paid but unrecorded: keep the cart so the order description is
		// not lost, and flag the payment for reconciliation.
		sess.failure = err.Error()
		if terr := sess.transition(StatePaidUnrecorded); terr != nil {
			return nil, terr
		}
		log.Printf("[Checkout] Session %s: payment %s captured but order creation failed: %v", sess.id, paymentID, err)
		o.publish(ctx, sess.id, EventPaymentUnrecorded, PaymentUnrecorded{
			SessionID:  sess.id,
			PaymentID:  paymentID,
			Amount:     snapshot.TotalAmount,
			Reason:     err.Error(),
			OccurredAt: time.Now(),
		})
		return nil, err
	}

	store.Clear(ctx)
	sess.orderID = orderID
	if err := sess.transition(StateSucceeded); err != nil {
		return nil, err
	}

	o.publish(ctx, sess.id, EventOrderPlaced, OrderPlaced{
		SessionID: sess.id,
		OrderID:   orderID,
		PaymentID: paymentID,
		Amount:    snapshot.TotalAmount,
		ItemCount: snapshot.ItemCount,
		PlacedAt:  time.Now(),
	})
	return &Result{OrderID: orderID}, nil
}

// Cancel abandons an in-flight attempt and returns the session to Idle. The
// usual caller is a user who closed the payment widget.
func (o *Orchestrator) Cancel(sess *Session) error {
	sess.mu.Lock()
	defer sess.mu.Unlock()

	switch {
	case sess.state.InFlight(), sess.state == StateFailed:
		sess.reset()
		return nil
	default:
		return ErrNothingToCancel
	}
}

func buildOrderDraft(snapshot cart.Snapshot, paymentID string, addr Address) client.OrderDraft {
	items := make([]client.OrderItem, 0, len(snapshot.Items))
	for _, item := range snapshot.Items {
		veggies := make([]client.OrderComponent, 0, len(item.Veggies))
		for _, v := range item.Veggies {
			veggies = append(veggies, orderComponent(v))
		}
		items = append(items, client.OrderItem{
			Base:    orderComponent(item.Base),
			Sauce:   orderComponent(item.Sauce),
			Cheese:  orderComponent(item.Cheese),
			Veggies: veggies,
		})
	}
	return client.OrderDraft{
		Items:       items,
		TotalAmount: snapshot.TotalAmount,
		PaymentID:   paymentID,
		Address: client.OrderAddress{
			Street:  addr.Street,
			City:    addr.City,
			State:   addr.State,
			ZipCode: addr.ZipCode,
			Phone:   addr.Phone,
		},
	}
}

func orderComponent(c cart.Component) client.OrderComponent {
	return client.OrderComponent{ID: c.ID, Name: c.Name, Price: c.Price}
}

func (o *Orchestrator) publish(ctx context.Context, sessionID, eventType string, event any) {
	if o.events == nil {
		return
	}
	if err := o.events.Publish(ctx, sessionID, eventType, event); err != nil {
		log.Printf("[Checkout] Failed to publish %s for session %s: %v", eventType, sessionID, err)
	}
}
