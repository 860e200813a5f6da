// Package ordermath holds the pure money math for the storefront.
// All amounts are integer minor currency units (cents); every function
// rounds before summing so fractional cents never accumulate.
package ordermath

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/csmith-03/alliger-house-of-wings/internal/domain"
)

const (
	// ShippingThreshold is the free-shipping floor: subtotals at or above
	// it ship free.
	ShippingThreshold int64 = 75_00

	// FlatShip is the flat shipping fee below the threshold.
	FlatShip int64 = 5_99

	// DefaultTaxRate is applied when no rate is configured.
	DefaultTaxRate = 0.08

	// MinChargeCents is the payment platform's minimum chargeable amount.
	MinChargeCents int64 = 50
)

// Line is a sanitized line item: a positive quantity and a unit price in
// cents. Produced by SanitizeLine; the totals functions assume this shape.
type Line struct {
	ID        string `json:"id"`
	PriceID   string `json:"priceId,omitempty"`
	Name      string `json:"name,omitempty"`
	Qty       int    `json:"qty"`
	UnitCents int64  `json:"unitAmount"`
}

// SanitizeLine normalizes one raw line item from an external boundary.
// Upstream payloads are inconsistent about field names, so several aliases
// are accepted for each attribute: id/productId, name/title/description,
// qty/quantity, price/unitAmount/unit_amount/amount.
//
// Price coercion is deliberately heuristic: a non-integer value, or an
// integer smaller than 100, is treated as major units (dollars) and
// multiplied by 100; anything else is taken to already be cents. A $150
// item sent as 150 will therefore be read as 150 cents. This mirrors the
// storefront's historical behavior and is documented rather than fixed.
func SanitizeLine(raw map[string]any) Line {
	line := Line{
		ID:      firstString(raw, "id", "productId", "product_id"),
		PriceID: firstString(raw, "priceId", "price_id"),
		Name:    firstString(raw, "name", "title", "description"),
	}

	qty := firstNumber(raw, "qty", "quantity")
	line.Qty = 1
	if qty != nil && *qty >= 1 {
		line.Qty = int(math.Round(*qty))
	}

	price := firstNumber(raw, "price", "unitAmount", "unit_amount", "amount")
	if price != nil && *price > 0 {
		line.UnitCents = coerceCents(*price)
	}
	return line
}

// Sanitize normalizes a whole cart payload, dropping entries that carry no
// identifier at all.
func Sanitize(raws []map[string]any) []Line {
	lines := make([]Line, 0, len(raws))
	for _, raw := range raws {
		l := SanitizeLine(raw)
		if l.ID == "" && l.Name == "" {
			continue
		}
		lines = append(lines, l)
	}
	return lines
}

// SubtotalFrom sums unit price times quantity over sanitized lines.
func SubtotalFrom(lines []Line) int64 {
	var sum int64
	for _, l := range lines {
		qty := l.Qty
		if qty < 1 {
			qty = 1
		}
		if l.UnitCents > 0 {
			sum += l.UnitCents * int64(qty)
		}
	}
	return sum
}

// ShippingFor is the flat-rate shipping rule: free for an empty cart and
// for subtotals at or above the threshold, the flat fee otherwise.
func ShippingFor(subtotal int64) int64 {
	if subtotal == 0 || subtotal >= ShippingThreshold {
		return 0
	}
	return FlatShip
}

// TaxInput is everything EstimateTax needs to know about a checkout.
type TaxInput struct {
	Subtotal      int64
	ShippingCents int64
	ToAddress     *domain.Address

	// Rate is the flat tax rate. Non-positive disables tax entirely.
	Rate float64

	// ApplyToShipping includes the shipping charge in the taxable base.
	ApplyToShipping bool

	// OriginState, when set, gates tax to destinations in that state
	// (a use-tax style approximation). Empty applies tax uniformly.
	OriginState string
}

// EstimateTax multiplies the configured flat rate against the taxable base
// and rounds to the nearest cent.
func EstimateTax(in TaxInput) int64 {
	if in.Rate <= 0 {
		return 0
	}
	if in.OriginState != "" {
		if in.ToAddress == nil || !strings.EqualFold(in.ToAddress.State, in.OriginState) {
			return 0
		}
	}
	base := in.Subtotal
	if in.ApplyToShipping {
		base += in.ShippingCents
	}
	return int64(math.Round(float64(base) * in.Rate))
}

// Breakdown computes the flat-rate totals for a cart: flat tax at the given
// rate with no destination knowledge. A zero shippingCents falls back to the
// flat shipping rule. Callers that know the destination should use
// EstimateTax for the tax figure instead.
func Breakdown(lines []Line, shippingCents int64, rate float64) domain.OrderTotals {
	subtotal := SubtotalFrom(lines)
	shipping := shippingCents
	if shipping <= 0 {
		shipping = ShippingFor(subtotal)
	}
	tax := EstimateTax(TaxInput{Subtotal: subtotal, Rate: rate})
	return domain.OrderTotals{
		Subtotal: subtotal,
		Shipping: shipping,
		Tax:      tax,
		Total:    subtotal + shipping + tax,
	}
}

// ClampCharge rounds a total up to the platform's minimum chargeable amount.
func ClampCharge(total int64) int64 {
	if total < MinChargeCents {
		return MinChargeCents
	}
	return total
}

// coerceCents converts an upstream number into integer cents. See the
// SanitizeLine doc for the major/minor unit heuristic.
func coerceCents(v float64) int64 {
	if v != math.Trunc(v) || v < 100 {
		return int64(math.Round(v * 100))
	}
	return int64(math.Round(v))
}

func firstString(raw map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := raw[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case json.Number:
			return v.String()
		}
	}
	return ""
}

func firstNumber(raw map[string]any, keys ...string) *float64 {
	for _, k := range keys {
		switch v := raw[k].(type) {
		case float64:
			return &v
		case int:
			f := float64(v)
			return &f
		case int64:
			f := float64(v)
			return &f
		case json.Number:
			if f, err := v.Float64(); err == nil {
				return &f
			}
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}
