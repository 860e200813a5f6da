package httpapi

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/csmith-03/alliger-house-of-wings/internal/domain"
	"github.com/csmith-03/alliger-house-of-wings/internal/payments"
)

type OrderReader interface {
	Get(ctx context.Context, paymentRef string) (*domain.Order, error)
}

type OrdersHandler struct {
	orders OrderReader
}

func NewOrdersHandler(orders OrderReader) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

func (h *OrdersHandler) Get(w http.ResponseWriter, r *http.Request) {
	paymentRef := chi.URLParam(r, "paymentRef")
	if paymentRef == "" {
		respondError(w, http.StatusBadRequest, "missing_reference", "payment reference is required")
		return
	}

	order, err := h.orders.Get(r.Context(), paymentRef)
	if err != nil {
		if errors.Is(err, payments.ErrMissingReference) {
			respondError(w, http.StatusBadRequest, "missing_reference", "payment reference is required")
			return
		}
		log.Printf("order lookup failed: %v", err)
		respondError(w, http.StatusInternalServerError, "lookup_failed", "failed to load order")
		return
	}

	respondJSON(w, http.StatusOK, order)
}
