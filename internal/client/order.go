package client

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// Order status values as reported by the backend.
const (
	OrderStatusReceived       = "received"
	OrderStatusInKitchen      = "in-kitchen"
	OrderStatusOutForDelivery = "out-for-delivery"
	OrderStatusDelivered      = "delivered"
)

// OrderComponent is one {id, name, price} tuple re-derived from a captured
// cart item, never from live catalog data.
type OrderComponent struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int    `json:"price"`
}

type OrderItem struct {
	Base    OrderComponent   `json:"base"`
	Sauce   OrderComponent   `json:"sauce"`
	Cheese  OrderComponent   `json:"cheese"`
	Veggies []OrderComponent `json:"veggies"`
}

type OrderAddress struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
	Phone   string `json:"phone"`
}

// OrderDraft is the order-creation payload. Field casing follows the
// backend API.
type OrderDraft struct {
	Items       []OrderItem  `json:"items"`
	TotalAmount int          `json:"totalAmount"`
	PaymentID   string       `json:"paymentId"`
	Address     OrderAddress `json:"address"`
}

// Order is a persisted order as the backend reports it.
type Order struct {
	ID          string      `json:"_id"`
	Items       []OrderItem `json:"items"`
	TotalAmount int         `json:"totalAmount"`
	PaymentID   string      `json:"paymentId"`
	Status      string      `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

type OrderClient struct {
	http *resty.Client
}

func NewOrderClient(baseURL string, timeout time.Duration) *OrderClient {
	return &OrderClient{http: newRestyClient(baseURL, timeout)}
}

// Create submits the order and returns its identifier.
func (c *OrderClient) Create(ctx context.Context, draft OrderDraft, token string) (string, error) {
	var created struct {
		ID string `json:"_id"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", bearer(token)).
		SetBody(draft).
		SetResult(&created).
		Post("/orders")
	if err != nil {
		return "", fmt.Errorf("create order: %w", err)
	}
	if resp.IsError() {
		return "", apiError(resp)
	}
	return created.ID, nil
}

// ListByUser returns the bearer's order history, newest first per the
// backend's ordering.
func (c *OrderClient) ListByUser(ctx context.Context, token string) ([]Order, error) {
	var orders []Order
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", bearer(token)).
		SetResult(&orders).
		Get("/orders/user")
	if err != nil {
		return nil, fmt.Errorf("fetch orders: %w", err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return orders, nil
}

// Get fetches one order for status tracking.
func (c *OrderClient) Get(ctx context.Context, orderID, token string) (*Order, error) {
	var order Order
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Authorization", bearer(token)).
		SetResult(&order).
		Get("/orders/" + orderID)
	if err != nil {
		return nil, fmt.Errorf("fetch order %s: %w", orderID, err)
	}
	if resp.IsError() {
		return nil, apiError(resp)
	}
	return &order, nil
}
