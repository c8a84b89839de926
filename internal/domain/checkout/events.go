package checkout

import "time"

const (
	EventCheckoutStarted   = "CheckoutStarted"
	EventOrderPlaced       = "OrderPlaced"
	EventCheckoutFailed    = "CheckoutFailed"
	EventPaymentUnrecorded = "PaymentUnrecorded"
)

type CheckoutStarted struct {
	SessionID string    `json:"session_id"`
	IntentID  string    `json:"intent_id"`
	Amount    int       `json:"amount"`
	Currency  string    `json:"currency"`
	StartedAt time.Time `json:"started_at"`
}

type OrderPlaced struct {
	SessionID string    `json:"session_id"`
	OrderID   string    `json:"order_id"`
	PaymentID string    `json:"payment_id"`
	Amount    int       `json:"amount"`
	ItemCount int       `json:"item_count"`
	PlacedAt  time.Time `json:"placed_at"`
}

type CheckoutFailed struct {
	SessionID string    `json:"session_id"`
	Stage     string    `json:"stage"`
	Reason    string    `json:"reason"`
	FailedAt  time.Time `json:"failed_at"`
}

// PaymentUnrecorded flags a charged payment with no order on file so a
// downstream reconciliation process can pick it up.
type PaymentUnrecorded struct {
	SessionID  string    `json:"session_id"`
	PaymentID  string    `json:"payment_id"`
	Amount     int       `json:"amount"`
	Reason     string    `json:"reason"`
	OccurredAt time.Time `json:"occurred_at"`
}
