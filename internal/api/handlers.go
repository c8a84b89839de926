package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/example/pizzacraft-storefront/internal/client"
	"github.com/example/pizzacraft-storefront/internal/domain/cart"
	"github.com/example/pizzacraft-storefront/internal/domain/checkout"
)

type Handlers struct {
	carts     *cart.Manager
	checkouts *checkout.Registry
	orch      *checkout.Orchestrator
	catalog   *client.CatalogClient
	orders    *client.OrderClient
}

func NewHandlers(
	carts *cart.Manager,
	checkouts *checkout.Registry,
	orch *checkout.Orchestrator,
	catalog *client.CatalogClient,
	orders *client.OrderClient,
) *Handlers {
	return &Handlers{
		carts:     carts,
		checkouts: checkouts,
		orch:      orch,
		catalog:   catalog,
		orders:    orders,
	}
}

// Catalog Handlers

func (h *Handlers) GetCatalog(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "type")
	if !client.ValidIngredientType(kind) {
		respondError(w, http.StatusBadRequest, "unknown ingredient type")
		return
	}

	items, err := h.catalog.Ingredients(r.Context(), kind)
	if err != nil {
		respondCollaboratorError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, items)
}

// Cart Handlers

func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	store := h.carts.Get(r.Context(), SessionID(r.Context()))
	respondJSON(w, http.StatusOK, store.Snapshot())
}

func (h *Handlers) AddCartItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Base    cart.Component   `json:"base"`
		Sauce   cart.Component   `json:"sauce"`
		Cheese  cart.Component   `json:"cheese"`
		Veggies []cart.Component `json:"veggies"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	item, err := cart.NewItem(req.Base, req.Sauce, req.Cheese, req.Veggies)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	store := h.carts.Get(r.Context(), SessionID(r.Context()))
	store.Add(r.Context(), item)

	respondJSON(w, http.StatusCreated, map[string]any{
		"message": "Pizza added to cart!",
		"cart":    store.Snapshot(),
	})
}

func (h *Handlers) RemoveCartItem(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "index must be an integer")
		return
	}

	store := h.carts.Get(r.Context(), SessionID(r.Context()))
	store.Remove(r.Context(), index)

	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Item removed from cart",
		"cart":    store.Snapshot(),
	})
}

func (h *Handlers) ClearCart(w http.ResponseWriter, r *http.Request) {
	store := h.carts.Get(r.Context(), SessionID(r.Context()))
	store.Clear(r.Context())
	respondJSON(w, http.StatusOK, store.Snapshot())
}

// Checkout Handlers

func (h *Handlers) GetCheckout(w http.ResponseWriter, r *http.Request) {
	sess := h.checkouts.Get(SessionID(r.Context()))
	respondJSON(w, http.StatusOK, sess.View())
}

func (h *Handlers) StartCheckout(w http.ResponseWriter, r *http.Request) {
	var addr checkout.Address
	if err := json.NewDecoder(r.Body).Decode(&addr); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sessionID := SessionID(r.Context())
	sess := h.checkouts.Get(sessionID)
	store := h.carts.Get(r.Context(), sessionID)

	widget, err := h.orch.Start(r.Context(), sess, store, addr, Token(r.Context()))
	if err != nil {
		h.respondCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, widget)
}

func (h *Handlers) CompleteCheckout(w http.ResponseWriter, r *http.Request) {
	var cb client.PaymentCallback
	if err := json.NewDecoder(r.Body).Decode(&cb); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sessionID := SessionID(r.Context())
	sess := h.checkouts.Get(sessionID)
	store := h.carts.Get(r.Context(), sessionID)

	result, err := h.orch.Complete(r.Context(), sess, store, cb, Token(r.Context()))
	if err != nil {
		h.respondCheckoutError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

func (h *Handlers) CancelCheckout(w http.ResponseWriter, r *http.Request) {
	sess := h.checkouts.Get(SessionID(r.Context()))
	if err := h.orch.Cancel(sess); err != nil {
		respondError(w, http.StatusConflict, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, sess.View())
}

// Order Handlers

func (h *Handlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListByUser(r.Context(), Token(r.Context()))
	if err != nil {
		respondCollaboratorError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, orders)
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.orders.Get(r.Context(), chi.URLParam(r, "id"), Token(r.Context()))
	if err != nil {
		respondCollaboratorError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, order)
}

// Error mapping

func (h *Handlers) respondCheckoutError(w http.ResponseWriter, err error) {
	var verr *checkout.ValidationError
	switch {
	case errors.As(err, &verr):
		respondFieldErrors(w, verr.Fields)
	case errors.Is(err, checkout.ErrEmptyCart):
		respondJSON(w, http.StatusConflict, map[string]string{
			"error":    err.Error(),
			"redirect": "/cart",
		})
	case errors.Is(err, checkout.ErrCheckoutInFlight),
		errors.Is(err, checkout.ErrPaymentUnrecorded),
		errors.Is(err, checkout.ErrNoActivePayment):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, checkout.ErrWidgetExpired):
		respondError(w, http.StatusGone, err.Error())
	default:
		respondCollaboratorError(w, err)
	}
}

// respondCollaboratorError surfaces a collaborator's message verbatim;
// anything unexpected gets a generic notification.
func respondCollaboratorError(w http.ResponseWriter, err error) {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		respondError(w, http.StatusBadGateway, apiErr.Message)
		return
	}
	respondError(w, http.StatusBadGateway, "something went wrong, please try again")
}
