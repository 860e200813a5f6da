// Package orders renders the normalized order view for the confirmation
// page. There is no order table: the payment intent's metadata is the order
// record, and the catalog is re-queried for authoritative names and prices.
package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/csmith-03/alliger-house-of-wings/internal/domain"
	"github.com/csmith-03/alliger-house-of-wings/internal/payments"
)

type Service struct {
	platform payments.Client
}

func NewService(platform payments.Client) *Service {
	return &Service{platform: platform}
}

// Get fetches the payment record behind a payment reference and rebuilds
// the order view from its metadata. A malformed cart snapshot yields an
// order with no line items, not a failure.
func (s *Service) Get(ctx context.Context, paymentRef string) (*domain.Order, error) {
	if paymentRef == "" {
		return nil, payments.ErrMissingReference
	}

	intent, err := s.platform.GetIntent(ctx, paymentRef)
	if err != nil {
		return nil, fmt.Errorf("lookup order %s: %w", paymentRef, err)
	}

	md := intent.Metadata
	order := &domain.Order{
		ID:            intent.ID,
		Amount:        intent.Amount,
		Currency:      intent.Currency,
		Shipping:      intent.Shipping,
		Subtotal:      metaInt(md, payments.MetaSubtotal),
		ShippingCents: metaInt(md, payments.MetaShipping),
		Tax:           metaInt(md, payments.MetaTax),
		RateID:        md[payments.MetaRateID],
		Cart:          s.rebuildCart(ctx, md[payments.MetaCart]),
		Status:        intent.Status,
	}
	return order, nil
}

type snapshotLine struct {
	ProductID string          `json:"productId"`
	ID        string          `json:"id"`
	PriceID   string          `json:"priceId"`
	Quantity  json.RawMessage `json:"quantity"`
	Qty       json.RawMessage `json:"qty"`
}

func (s *Service) rebuildCart(ctx context.Context, snapshot string) []domain.OrderItem {
	items := []domain.OrderItem{}
	if snapshot == "" {
		return items
	}

	var lines []snapshotLine
	if err := json.Unmarshal([]byte(snapshot), &lines); err != nil {
		log.Printf("unparseable cart snapshot: %v", err)
		return items
	}

	for _, line := range lines {
		productID := line.ProductID
		if productID == "" {
			productID = line.ID
		}
		if productID == "" {
			continue
		}
		qty := parseQty(line.Quantity)
		if qty == 0 {
			qty = parseQty(line.Qty)
		}
		if qty < 1 {
			qty = 1
		}
		items = append(items, s.resolveItem(ctx, productID, line.PriceID, qty))
	}
	return items
}

// resolveItem looks the product back up so the receipt shows current
// authoritative name and price rather than whatever the client sent.
func (s *Service) resolveItem(ctx context.Context, productID, priceID string, qty int) domain.OrderItem {
	item := domain.OrderItem{ID: productID, Name: productID, Quantity: qty}
	if priceID != "" {
		item.PriceID = &priceID
	}

	product, err := s.platform.GetProduct(ctx, productID)
	if err != nil {
		log.Printf("order item lookup failed for %s: %v", productID, err)
		return item
	}
	item.Name = product.Name
	if len(product.Images) > 0 {
		img := product.Images[0]
		item.Image = &img
	}

	if priceID != "" {
		if price, err := s.platform.GetPrice(ctx, priceID); err == nil && price.UnitAmount > 0 {
			item.UnitAmount = price.UnitAmount
			item.Name = variantName(product.Name, price.Nickname)
		}
	}
	if item.UnitAmount == 0 && product.DefaultPrice != nil {
		item.UnitAmount = product.DefaultPrice.UnitAmount
	}
	return item
}

// variantName suffixes the packaging for known price nicknames.
func variantName(base, nickname string) string {
	switch strings.ToLower(nickname) {
	case "single":
		return base + " (12oz)"
	case "gallon":
		return base + " (Gallon)"
	default:
		return base
	}
}

func metaInt(md map[string]string, key string) int64 {
	v, err := strconv.ParseInt(md[key], 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func parseQty(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err == nil {
		return int(f + 0.5)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int(f + 0.5)
		}
	}
	return 0
}
