// Package cart owns the shopper's current selections. The store is the only
// mutable state shared across the HTTP surface; every mutation goes through
// one of its operations and is written back to the Storage adapter, which
// holds the sole durable copy.
package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/csmith-03/alliger-house-of-wings/internal/domain"
)

// MaxQty caps a single line's quantity. The storefront never enforced an
// upper bound; 99 matches the gateway-side validation ceiling.
const MaxQty = 99

var ErrInvalidQty = errors.New("quantity must be between 1 and 99")

type Service struct {
	storage Storage
}

func NewService(storage Storage) *Service {
	return &Service{storage: storage}
}

// Get hydrates the cart for cartID. A missing or unparseable stored cart is
// an empty cart, not an error.
func (s *Service) Get(ctx context.Context, cartID string) (*domain.Cart, error) {
	cart, err := s.storage.Load(ctx, cartID)
	if errors.Is(err, ErrNotFound) {
		return &domain.Cart{ID: cartID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	return cart, nil
}

// Add upserts a line by (ProductID, PriceID): an existing variant has its
// quantity incremented, a new variant is appended.
func (s *Service) Add(ctx context.Context, cartID string, line domain.CartLine, qty int) (*domain.Cart, error) {
	if qty < 1 {
		qty = 1
	}
	cart, err := s.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}

	merged := false
	for i := range cart.Lines {
		if cart.Lines[i].SameVariant(line.ProductID, line.PriceID) {
			cart.Lines[i].Qty += qty
			if cart.Lines[i].Qty > MaxQty {
				cart.Lines[i].Qty = MaxQty
			}
			merged = true
			break
		}
	}
	if !merged {
		if qty > MaxQty {
			qty = MaxQty
		}
		line.Qty = qty
		cart.Lines = append(cart.Lines, line)
	}

	return cart, s.persist(ctx, cart)
}

// Remove drops one variant, or every variant of the product when priceID is
// nil-as-unspecified.
func (s *Service) Remove(ctx context.Context, cartID, productID string, priceID *string) (*domain.Cart, error) {
	cart, err := s.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}

	kept := cart.Lines[:0]
	for _, l := range cart.Lines {
		if priceID == nil {
			if l.ProductID == productID {
				continue
			}
		} else if l.SameVariant(productID, priceID) {
			continue
		}
		kept = append(kept, l)
	}
	cart.Lines = kept

	return cart, s.persist(ctx, cart)
}

// SetQty overwrites a line's quantity. A quantity of zero or less removes
// the line.
func (s *Service) SetQty(ctx context.Context, cartID, productID string, qty int, priceID *string) (*domain.Cart, error) {
	if qty <= 0 {
		return s.Remove(ctx, cartID, productID, priceID)
	}
	if qty > MaxQty {
		return nil, ErrInvalidQty
	}

	cart, err := s.Get(ctx, cartID)
	if err != nil {
		return nil, err
	}

	for i := range cart.Lines {
		if cart.Lines[i].ProductID != productID {
			continue
		}
		if priceID == nil || cart.Lines[i].SameVariant(productID, priceID) {
			cart.Lines[i].Qty = qty
		}
	}

	return cart, s.persist(ctx, cart)
}

// Clear empties the collection.
func (s *Service) Clear(ctx context.Context, cartID string) error {
	if err := s.storage.Delete(ctx, cartID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

func (s *Service) persist(ctx context.Context, cart *domain.Cart) error {
	if err := s.storage.Save(ctx, cart); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}
