package orders

import (
	"context"
	"errors"

	"github.com/csmith-03/alliger-house-of-wings/internal/payments"
)

// platformMock implements payments.Client for testing.
type platformMock struct {
	intent   *payments.Intent
	products map[string]*payments.Product
	prices   map[string]*payments.Price
	err      error
}

func (m *platformMock) CreateIntent(_ context.Context, _ payments.IntentParams) (*payments.Intent, error) {
	return m.intent, m.err
}

func (m *platformMock) GetIntent(_ context.Context, _ string) (*payments.Intent, error) {
	return m.intent, m.err
}

func (m *platformMock) ListProducts(_ context.Context) ([]payments.Product, error) {
	return nil, m.err
}

func (m *platformMock) GetProduct(_ context.Context, id string) (*payments.Product, error) {
	if p, ok := m.products[id]; ok {
		return p, nil
	}
	return nil, errors.New("product not found")
}

func (m *platformMock) GetPrice(_ context.Context, id string) (*payments.Price, error) {
	if p, ok := m.prices[id]; ok {
		return p, nil
	}
	return nil, errors.New("price not found")
}
