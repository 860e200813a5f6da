package httpapi

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/csmith-03/alliger-house-of-wings/internal/events"
)

const redirectCookieAge = 30 * time.Minute

type CartClearer interface {
	Clear(ctx context.Context, cartID string) error
}

// RedirectHandler lands the payment provider's return redirect. The payment
// reference and outcome ride to the confirmation page in short-lived cookies
// so the page can render without query parameters.
type RedirectHandler struct {
	siteURL   string
	publisher events.Publisher
	carts     CartClearer
}

func NewRedirectHandler(siteURL string, publisher events.Publisher, carts CartClearer) *RedirectHandler {
	return &RedirectHandler{siteURL: siteURL, publisher: publisher, carts: carts}
}

func (h *RedirectHandler) Land(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	paymentRef := q.Get("payment_intent")
	status := q.Get("redirect_status")

	if paymentRef != "" {
		setRedirectCookie(w, "last_pi", paymentRef)
	}
	if status != "" {
		setRedirectCookie(w, "last_redirect_status", status)
	}

	if paymentRef != "" && status == "succeeded" {
		h.publisher.OrderConfirmed(r.Context(), paymentRef)

		// The paid cart is done; drop it so the next visit starts clean.
		if c, err := r.Cookie(cartCookieName); err == nil && c.Value != "" {
			if err := h.carts.Clear(r.Context(), c.Value); err != nil {
				log.Printf("clear cart after payment: %v", err)
			}
		}
	}

	http.Redirect(w, r, h.siteURL+"/checkout/confirmation", http.StatusSeeOther)
}

func setRedirectCookie(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(redirectCookieAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
