package cart

import (
	"context"
	"errors"

	"github.com/csmith-03/alliger-house-of-wings/internal/domain"
)

// Storage is the key-value persistence adapter behind the cart store. The
// production backend is Redis; tests swap in the in-memory implementation.
type Storage interface {
	Load(ctx context.Context, cartID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
	Delete(ctx context.Context, cartID string) error
}

// ErrNotFound is returned by Load when no cart is stored under the key.
var ErrNotFound = errors.New("cart not found")
