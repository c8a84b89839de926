package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

func NewRouter(h *Handlers, requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(SessionMiddleware)
		r.Use(BearerMiddleware)

		r.Get("/catalog/{type}", h.GetCatalog)

		r.Get("/cart", h.GetCart)
		r.Post("/cart/items", h.AddCartItem)
		r.Delete("/cart/items/{index}", h.RemoveCartItem)
		r.Delete("/cart", h.ClearCart)

		// Checkout and order tracking require a signed-in user.
		r.Group(func(r chi.Router) {
			r.Use(RequireToken)

			r.Get("/checkout", h.GetCheckout)
			r.Post("/checkout", h.StartCheckout)
			r.Post("/checkout/complete", h.CompleteCheckout)
			r.Post("/checkout/cancel", h.CancelCheckout)

			r.Get("/orders", h.ListOrders)
			r.Get("/orders/{id}", h.GetOrder)
		})
	})

	return r
}
