package httpapi

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/csmith-03/alliger-house-of-wings/internal/checkout"
	"github.com/csmith-03/alliger-house-of-wings/internal/domain"
	"github.com/csmith-03/alliger-house-of-wings/internal/ordermath"
	"github.com/csmith-03/alliger-house-of-wings/internal/payments"
)

type PaymentHandler struct {
	platform payments.Client
	tax      checkout.TaxPolicy
}

func NewPaymentHandler(platform payments.Client, tax checkout.TaxPolicy) *PaymentHandler {
	return &PaymentHandler{platform: platform, tax: tax}
}

type paymentIntentRequest struct {
	Items     []map[string]any `json:"items"`
	Currency  string           `json:"currency"`
	ShipCents int64            `json:"shipCents"`
	RateID    string           `json:"rateId"`
	Address   *addressDTO      `json:"address"`
}

type snapshotEntry struct {
	ProductID string `json:"productId"`
	PriceID   string `json:"priceId,omitempty"`
	Quantity  int    `json:"quantity"`
}

func snapshotItems(lines []ordermath.Line) string {
	entries := make([]snapshotEntry, 0, len(lines))
	for _, l := range lines {
		entries = append(entries, snapshotEntry{
			ProductID: l.ID,
			PriceID:   l.PriceID,
			Quantity:  l.Qty,
		})
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return "[]"
	}
	return string(raw)
}

// Create prices the submitted items server-side and opens a payment intent.
// Totals and the cart snapshot are stamped onto the intent's metadata so
// confirmation can rebuild the order without separate storage.
func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req paymentIntentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_body", "invalid request body")
		return
	}

	lines := ordermath.Sanitize(req.Items)
	if len(lines) == 0 {
		respondError(w, http.StatusBadRequest, "empty_cart", "no items to charge")
		return
	}

	subtotal := ordermath.SubtotalFrom(lines)
	shipCents := req.ShipCents
	if shipCents <= 0 {
		shipCents = ordermath.ShippingFor(subtotal)
	}

	var to *domain.Address
	if req.Address != nil {
		addr := req.Address.toDomain()
		to = &addr
	}
	tax := ordermath.EstimateTax(ordermath.TaxInput{
		Subtotal:        subtotal,
		ShippingCents:   shipCents,
		ToAddress:       to,
		Rate:            h.tax.Rate,
		ApplyToShipping: h.tax.ApplyToShipping,
		OriginState:     h.tax.OriginState,
	})
	amount := ordermath.ClampCharge(subtotal + shipCents + tax)

	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}

	params := payments.IntentParams{
		Amount:   amount,
		Currency: currency,
		Metadata: map[string]string{
			payments.MetaSubtotal: strconv.FormatInt(subtotal, 10),
			payments.MetaShipping: strconv.FormatInt(shipCents, 10),
			payments.MetaTax:      strconv.FormatInt(tax, 10),
			payments.MetaRateID:   req.RateID,
			payments.MetaCart:     snapshotItems(lines),
		},
	}
	params.Address = to

	intent, err := h.platform.CreateIntent(r.Context(), params)
	if err != nil {
		log.Printf("create payment intent failed: %v", err)
		respondError(w, http.StatusInternalServerError, "intent_failed", "failed to start payment")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"clientSecret": intent.ClientSecret})
}
