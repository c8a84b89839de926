package checkout

// State identifies where a checkout session is in the payment/order flow.
type State string

const (
	StateIdle                  State = "IDLE"
	StateValidatingAddress     State = "VALIDATING_ADDRESS"
	StateAwaitingPaymentIntent State = "AWAITING_PAYMENT_INTENT"
	StateAwaitingUserPayment   State = "AWAITING_USER_PAYMENT"
	StateVerifyingPayment      State = "VERIFYING_PAYMENT"
	StatePersistingOrder       State = "PERSISTING_ORDER"
	StateSucceeded             State = "SUCCEEDED"
	StateFailed                State = "FAILED"

	// StatePaidUnrecorded is entered when payment verification succeeded but
	// order creation failed: the user has been charged with no order on
	// file. It is terminal and needs manual reconciliation; the cart is
	// deliberately kept so the order description is not lost.
	StatePaidUnrecorded State = "PAID_UNRECORDED"
)

func (s State) String() string { return string(s) }

// InFlight reports whether a checkout attempt is between Idle and an
// outcome. A second submission while in flight is refused.
func (s State) InFlight() bool {
	switch s {
	case StateValidatingAddress, StateAwaitingPaymentIntent, StateAwaitingUserPayment,
		StateVerifyingPayment, StatePersistingOrder:
		return true
	}
	return false
}

// IsTerminal reports whether no further transitions leave s. Succeeded and
// Failed allow a fresh attempt (back to Idle); PaidUnrecorded does not.
func (s State) IsTerminal() bool {
	return s == StatePaidUnrecorded
}

// transitions lists the legal next states. Every pre-payment state has a
// failure edge back to Idle; once verification starts the only exits are
// Failed (verification rejected) and PaidUnrecorded (paid, order lost).
var transitions = map[State][]State{
	StateIdle:                  {StateValidatingAddress},
	StateValidatingAddress:     {StateAwaitingPaymentIntent, StateIdle},
	StateAwaitingPaymentIntent: {StateAwaitingUserPayment, StateIdle},
	StateAwaitingUserPayment:   {StateVerifyingPayment, StateIdle},
	StateVerifyingPayment:      {StatePersistingOrder, StateFailed},
	StatePersistingOrder:       {StateSucceeded, StatePaidUnrecorded},
	StateSucceeded:             {StateIdle},
	StateFailed:                {StateIdle},
	StatePaidUnrecorded:        {},
}

// CanTransitionTo reports whether from -> to is a legal edge.
func CanTransitionTo(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
