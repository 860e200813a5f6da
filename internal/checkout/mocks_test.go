package checkout

import (
	"context"

	"github.com/csmith-03/alliger-house-of-wings/internal/domain"
	"github.com/csmith-03/alliger-house-of-wings/internal/ordermath"
	"github.com/csmith-03/alliger-house-of-wings/internal/payments"
	"github.com/csmith-03/alliger-house-of-wings/internal/shipping"
)

// cartReaderMock implements CartReader for testing.
type cartReaderMock struct {
	cart       *domain.Cart
	err        error
	clearCalls int
}

func (m *cartReaderMock) Get(_ context.Context, cartID string) (*domain.Cart, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.cart != nil {
		return m.cart, nil
	}
	return &domain.Cart{ID: cartID}, nil
}

func (m *cartReaderMock) Clear(_ context.Context, _ string) error {
	m.clearCalls++
	return nil
}

// quoterMock implements RateQuoter for testing.
type quoterMock struct {
	result   shipping.Result
	calls    int
	lastAddr domain.Address
}

func (m *quoterMock) Quote(_ context.Context, to domain.Address, _ []ordermath.Line) shipping.Result {
	m.calls++
	m.lastAddr = to
	return m.result
}

// platformMock implements payments.Client for testing.
type platformMock struct {
	intent      *payments.Intent
	err         error
	createCalls int
	lastParams  payments.IntentParams
}

func (m *platformMock) CreateIntent(_ context.Context, params payments.IntentParams) (*payments.Intent, error) {
	m.createCalls++
	m.lastParams = params
	if m.err != nil {
		return nil, m.err
	}
	if m.intent != nil {
		return m.intent, nil
	}
	return &payments.Intent{ID: "pi_test", ClientSecret: "pi_test_secret", Amount: params.Amount}, nil
}

func (m *platformMock) GetIntent(_ context.Context, _ string) (*payments.Intent, error) {
	return m.intent, m.err
}

func (m *platformMock) ListProducts(_ context.Context) ([]payments.Product, error) {
	return nil, m.err
}

func (m *platformMock) GetProduct(_ context.Context, _ string) (*payments.Product, error) {
	return nil, m.err
}

func (m *platformMock) GetPrice(_ context.Context, _ string) (*payments.Price, error) {
	return nil, m.err
}
