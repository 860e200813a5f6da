package payments

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/client"

	"github.com/csmith-03/alliger-house-of-wings/internal/domain"
)

// StripeClient implements Client against the Stripe API.
type StripeClient struct {
	api *client.API
}

func NewStripeClient(secretKey string) *StripeClient {
	return &StripeClient{api: client.New(secretKey, nil)}
}

func (s *StripeClient) CreateIntent(ctx context.Context, params IntentParams) (*Intent, error) {
	piParams := &stripe.PaymentIntentParams{
		Params:   stripe.Params{Context: ctx},
		Amount:   stripe.Int64(params.Amount),
		Currency: stripe.String(params.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	if params.Address != nil {
		addr := params.Address
		country := addr.Country
		if country == "" {
			country = "US"
		}
		piParams.Shipping = &stripe.ShippingDetailsParams{
			Name: stripe.String(addr.Name),
			Address: &stripe.AddressParams{
				Line1:      stripe.String(addr.Line1),
				Line2:      optString(addr.Line2),
				City:       stripe.String(addr.City),
				State:      stripe.String(addr.State),
				PostalCode: stripe.String(addr.PostalCode),
				Country:    stripe.String(country),
			},
		}
	}
	for k, v := range params.Metadata {
		piParams.AddMetadata(k, v)
	}

	pi, err := s.api.PaymentIntents.New(piParams)
	if err != nil {
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	return mapIntent(pi), nil
}

func (s *StripeClient) GetIntent(ctx context.Context, id string) (*Intent, error) {
	pi, err := s.api.PaymentIntents.Get(id, &stripe.PaymentIntentParams{
		Params: stripe.Params{Context: ctx},
	})
	if err != nil {
		return nil, fmt.Errorf("retrieve payment intent: %w", err)
	}
	return mapIntent(pi), nil
}

func (s *StripeClient) ListProducts(ctx context.Context) ([]Product, error) {
	params := &stripe.ProductListParams{
		Active: stripe.Bool(true),
	}
	params.Context = ctx
	params.Limit = stripe.Int64(100)
	params.AddExpand("data.default_price")

	var products []Product
	iter := s.api.Products.List(params)
	for iter.Next() {
		products = append(products, mapProduct(iter.Product()))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *StripeClient) GetProduct(ctx context.Context, id string) (*Product, error) {
	params := &stripe.ProductParams{Params: stripe.Params{Context: ctx}}
	params.AddExpand("default_price")
	p, err := s.api.Products.Get(id, params)
	if err != nil {
		return nil, fmt.Errorf("retrieve product %s: %w", id, err)
	}
	prod := mapProduct(p)
	return &prod, nil
}

func (s *StripeClient) GetPrice(ctx context.Context, id string) (*Price, error) {
	p, err := s.api.Prices.Get(id, &stripe.PriceParams{Params: stripe.Params{Context: ctx}})
	if err != nil {
		return nil, fmt.Errorf("retrieve price %s: %w", id, err)
	}
	return mapPrice(p), nil
}

func mapIntent(pi *stripe.PaymentIntent) *Intent {
	intent := &Intent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Amount:       pi.Amount,
		Currency:     string(pi.Currency),
		Status:       string(pi.Status),
		Metadata:     pi.Metadata,
	}
	if pi.Shipping != nil {
		addr := &domain.Address{Name: pi.Shipping.Name}
		if pi.Shipping.Address != nil {
			addr.Line1 = pi.Shipping.Address.Line1
			addr.Line2 = pi.Shipping.Address.Line2
			addr.City = pi.Shipping.Address.City
			addr.State = pi.Shipping.Address.State
			addr.PostalCode = pi.Shipping.Address.PostalCode
			addr.Country = pi.Shipping.Address.Country
		}
		intent.Shipping = addr
	}
	return intent
}

func mapProduct(p *stripe.Product) Product {
	prod := Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Images:      p.Images,
		Metadata:    p.Metadata,
	}
	if p.DefaultPrice != nil {
		prod.DefaultPrice = mapPrice(p.DefaultPrice)
	}
	return prod
}

func mapPrice(p *stripe.Price) *Price {
	return &Price{
		ID:         p.ID,
		UnitAmount: p.UnitAmount,
		Currency:   string(p.Currency),
		Nickname:   p.Nickname,
	}
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return stripe.String(s)
}
