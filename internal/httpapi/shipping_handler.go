package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/csmith-03/alliger-house-of-wings/internal/domain"
	"github.com/csmith-03/alliger-house-of-wings/internal/ordermath"
	"github.com/csmith-03/alliger-house-of-wings/internal/shipping"
)

type RateQuoter interface {
	Quote(ctx context.Context, to domain.Address, items []ordermath.Line) shipping.Result
}

type ShippingHandler struct {
	quoter RateQuoter
}

func NewShippingHandler(quoter RateQuoter) *ShippingHandler {
	return &ShippingHandler{quoter: quoter}
}

type shippingRequest struct {
	Name      string           `json:"name"`
	Address   *addressDTO      `json:"address"`
	ToAddress *addressDTO      `json:"toAddress"`
	Addr      *addressDTO      `json:"addr"`
	AddressTo *addressDTO      `json:"address_to"`
	Items     []map[string]any `json:"items"`
}

// Quote always answers 200: failures surface as a message next to an
// empty rate list so the storefront can render them inline.
func (h *ShippingHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req shippingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusOK, shipping.Result{
			Rates: []domain.ShippingRate{},
			Err:   "quote failed",
		})
		return
	}

	dto := req.Address
	for _, alt := range []*addressDTO{req.ToAddress, req.Addr, req.AddressTo} {
		if dto == nil {
			dto = alt
		}
	}
	to := dto.toDomain()
	if to.Name == "" {
		to.Name = req.Name
	}

	items := ordermath.Sanitize(req.Items)
	respondJSON(w, http.StatusOK, h.quoter.Quote(r.Context(), to, items))
}
