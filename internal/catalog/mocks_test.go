package catalog

import (
	"context"

	"github.com/csmith-03/alliger-house-of-wings/internal/payments"
)

// platformMock implements payments.Client for testing.
type platformMock struct {
	products  []payments.Product
	err       error
	listCalls int
}

func (m *platformMock) CreateIntent(_ context.Context, _ payments.IntentParams) (*payments.Intent, error) {
	return nil, m.err
}

func (m *platformMock) GetIntent(_ context.Context, _ string) (*payments.Intent, error) {
	return nil, m.err
}

func (m *platformMock) ListProducts(_ context.Context) ([]payments.Product, error) {
	m.listCalls++
	return m.products, m.err
}

func (m *platformMock) GetProduct(_ context.Context, _ string) (*payments.Product, error) {
	return nil, m.err
}

func (m *platformMock) GetPrice(_ context.Context, _ string) (*payments.Price, error) {
	return nil, m.err
}
