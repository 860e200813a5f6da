package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Contact  *ContactHandler
	Shipping *ShippingHandler
	Payments *PaymentHandler
	Orders   *OrdersHandler
	Cart     *CartHandler
	Checkout *CheckoutHandler
	Products *ProductsHandler
	Redirect *RedirectHandler
}

// NewRouter assembles the HTTP surface with the global middleware chain.
func NewRouter(h Handlers, requestTimeout time.Duration, maxBodySize int64) chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(middleware.Compress(5))
	r.Use(limitBody(maxBodySize))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/contact", h.Contact.Send)
		r.Post("/shipping", h.Shipping.Quote)
		r.Post("/payment-intents", h.Payments.Create)
		r.Get("/orders/{paymentRef}", h.Orders.Get)
		r.Get("/products", h.Products.List)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.Cart.Get)
			r.Delete("/", h.Cart.Clear)
			r.Post("/items", h.Cart.AddItem)
			r.Put("/items/{productID}", h.Cart.UpdateItem)
			r.Delete("/items/{productID}", h.Cart.RemoveItem)
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", h.Checkout.Begin)
			r.Route("/{sessionID}", func(r chi.Router) {
				r.Get("/", h.Checkout.Get)
				r.Post("/address", h.Checkout.ConfirmAddress)
				r.Post("/address/edit", h.Checkout.EditAddress)
				r.Post("/rate", h.Checkout.SelectRate)
				r.Post("/submit", h.Checkout.Submit)
				r.Post("/result", h.Checkout.Result)
			})
		})
	})

	r.Get("/checkout/confirmation/redirect", h.Redirect.Land)

	return r
}

func limitBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if maxBytes > 0 && r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			}
			next.ServeHTTP(w, r)
		})
	}
}
