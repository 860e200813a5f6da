package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/csmith-03/alliger-house-of-wings/internal/checkout"
)

type CheckoutHandler struct {
	checkout *checkout.Service
	carts    *CartHandler
}

func NewCheckoutHandler(svc *checkout.Service, carts *CartHandler) *CheckoutHandler {
	return &CheckoutHandler{checkout: svc, carts: carts}
}

func (h *CheckoutHandler) respondCheckoutErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, checkout.ErrSessionNotFound):
		respondError(w, http.StatusNotFound, "session_not_found", "checkout session not found")
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", "cart is empty")
	case errors.Is(err, checkout.ErrIncompleteAddress):
		respondError(w, http.StatusBadRequest, "incomplete_address", "address is incomplete")
	case errors.Is(err, checkout.ErrUnknownRate):
		respondError(w, http.StatusBadRequest, "unknown_rate", "selected rate is not available")
	case errors.Is(err, checkout.ErrNoRateSelected):
		respondError(w, http.StatusBadRequest, "no_rate_selected", "no shipping rate selected")
	case errors.Is(err, checkout.ErrIllegalTransition):
		respondError(w, http.StatusConflict, "illegal_transition", "operation not allowed in current state")
	default:
		log.Printf("checkout operation failed: %v", err)
		respondError(w, http.StatusInternalServerError, "checkout_failed", "checkout operation failed")
	}
}

func (h *CheckoutHandler) Begin(w http.ResponseWriter, r *http.Request) {
	session, err := h.checkout.Begin(r.Context(), h.carts.cartID(w, r))
	if err != nil {
		h.respondCheckoutErr(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, session)
}

func (h *CheckoutHandler) Get(w http.ResponseWriter, r *http.Request) {
	session, err := h.checkout.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondCheckoutErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

func (h *CheckoutHandler) ConfirmAddress(w http.ResponseWriter, r *http.Request) {
	var dto addressDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}
	session, err := h.checkout.ConfirmAddress(r.Context(), chi.URLParam(r, "sessionID"), dto.toDomain())
	if err != nil {
		h.respondCheckoutErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

func (h *CheckoutHandler) EditAddress(w http.ResponseWriter, r *http.Request) {
	session, err := h.checkout.EditAddress(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondCheckoutErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

type selectRateRequest struct {
	RateID string `json:"rateId"`
}

func (h *CheckoutHandler) SelectRate(w http.ResponseWriter, r *http.Request) {
	var req selectRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}
	session, err := h.checkout.SelectRate(r.Context(), chi.URLParam(r, "sessionID"), req.RateID)
	if err != nil {
		h.respondCheckoutErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

func (h *CheckoutHandler) Submit(w http.ResponseWriter, r *http.Request) {
	session, err := h.checkout.Submit(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		h.respondCheckoutErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, session)
}

type resultRequest struct {
	Succeeded bool   `json:"succeeded"`
	Error     string `json:"error"`
}

// Result records the payment outcome the client observed: success finishes
// the session and clears the cart, failure returns it to PAYMENT_READY for
// another attempt.
func (h *CheckoutHandler) Result(w http.ResponseWriter, r *http.Request) {
	var req resultRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}

	id := chi.URLParam(r, "sessionID")
	var (
		session *checkout.Session
		err     error
	)
	if req.Succeeded {
		session, err = h.checkout.Succeed(r.Context(), id)
	} else {
		msg := req.Error
		if msg == "" {
			msg = "Payment failed."
		}
		session, err = h.checkout.Fail(r.Context(), id, msg)
	}
	if err != nil {
		h.respondCheckoutErr(w, err)
		return
	}
	respondJSON(w, http.StatusOK, session)
}
