// Package payments wraps the payment platform. The platform's intent record
// doubles as the order ledger: totals and a cart snapshot ride along as
// metadata at creation time and are read back verbatim for confirmation.
package payments

import (
	"context"
	"errors"

	"github.com/csmith-03/alliger-house-of-wings/internal/domain"
)

var ErrMissingReference = errors.New("missing payment reference")

// Metadata keys embedded on every intent.
const (
	MetaSubtotal = "subtotal"
	MetaShipping = "shipping"
	MetaTax      = "tax"
	MetaRateID   = "rate_id"
	MetaCart     = "cart"
)

// Intent is the subset of a payment intent this system reads and writes.
type Intent struct {
	ID           string
	ClientSecret string
	Amount       int64
	Currency     string
	Status       string
	Metadata     map[string]string
	Shipping     *domain.Address
}

// Price is one purchasable variant's price.
type Price struct {
	ID         string
	UnitAmount int64
	Currency   string
	Nickname   string
}

// Product is a catalog product with its optional default price expanded.
type Product struct {
	ID           string
	Name         string
	Description  string
	Images       []string
	Metadata     map[string]string
	DefaultPrice *Price
}

// IntentParams describes a payment intent to create.
type IntentParams struct {
	Amount   int64
	Currency string
	Address  *domain.Address
	Metadata map[string]string
}

// Client is the payment platform boundary. Handlers and services depend on
// this interface; production wires StripeClient, tests wire mocks.
type Client interface {
	CreateIntent(ctx context.Context, params IntentParams) (*Intent, error)
	GetIntent(ctx context.Context, id string) (*Intent, error)
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id string) (*Product, error)
	GetPrice(ctx context.Context, id string) (*Price, error)
}
