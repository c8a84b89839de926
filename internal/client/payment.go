package client

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// PaymentIntent is the opaque handle returned when an amount is reserved for
// authorization, echoed with amount and currency.
type PaymentIntent struct {
	ID       string `json:"id"`
	Amount   int    `json:"amount"`
	Currency string `json:"currency"`
}

// PaymentCallback is what the hosted payment widget hands back after the
// user completes payment. Field names follow the gateway's callback payload.
type PaymentCallback struct {
	OrderRef   string `json:"order_id"`
	PaymentRef string `json:"payment_id"`
	Signature  string `json:"signature"`
}

type PaymentClient struct {
	http *resty.Client
}

func NewPaymentClient(baseURL string, timeout time.Duration) *PaymentClient {
	return &PaymentClient{http: newRestyClient(baseURL, timeout)}
}

// CreateIntent reserves amount with the payment gateway on behalf of the
// bearer and returns the intent handle the widget is opened with.
func (c *PaymentClient) CreateIntent(ctx context.Context, amount int, token string) (*PaymentIntent, error) {
	var intent PaymentIntent
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", bearer(token)).
		SetBody(map[string]int{"amount": amount}).
		SetResult(&intent).
		Post("/payments/create-order")
	if err != nil {
		return nil, fmt.Errorf("create payment order: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &intent, nil
}

// Verify forwards the widget's callback to the gateway's verification
// endpoint and returns the settled payment ID.
func (c *PaymentClient) Verify(ctx context.Context, cb PaymentCallback, token string) (string, error) {
	var result struct {
		PaymentID string `json:"payment_id"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", bearer(token)).
		SetBody(cb).
		SetResult(&result).
		Post("/payments/verify")
	if err != nil {
		return "", fmt.Errorf("verify payment: %w", err)
	}
	if resp.IsError() {
		return "", apiError(resp)
	}
	return result.PaymentID, nil
}
