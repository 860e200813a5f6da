package httpapi

import (
	"context"
	"errors"
	"sync"

	"github.com/csmith-03/alliger-house-of-wings/internal/domain"
	"github.com/csmith-03/alliger-house-of-wings/internal/email"
	"github.com/csmith-03/alliger-house-of-wings/internal/ordermath"
	"github.com/csmith-03/alliger-house-of-wings/internal/payments"
	"github.com/csmith-03/alliger-house-of-wings/internal/shipping"
)

type senderMock struct {
	mu   sync.Mutex
	sent []email.ContactMessage
	err  error
}

func (m *senderMock) SendContact(_ context.Context, msg email.ContactMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type quoterMock struct {
	mu     sync.Mutex
	lastTo domain.Address
	items  []ordermath.Line
	result shipping.Result
}

func (m *quoterMock) Quote(_ context.Context, to domain.Address, items []ordermath.Line) shipping.Result {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastTo = to
	m.items = items
	return m.result
}

type platformMock struct {
	mu          sync.Mutex
	createCalls int
	lastParams  payments.IntentParams
	intent      *payments.Intent
	intents     map[string]*payments.Intent
	products    []payments.Product
	err         error
}

func (m *platformMock) CreateIntent(_ context.Context, params payments.IntentParams) (*payments.Intent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	m.createCalls++
	m.lastParams = params
	if m.intent != nil {
		return m.intent, nil
	}
	return &payments.Intent{
		ID:           "pi_test",
		ClientSecret: "pi_test_secret",
		Amount:       params.Amount,
		Currency:     params.Currency,
		Status:       "requires_payment_method",
		Metadata:     params.Metadata,
	}, nil
}

func (m *platformMock) GetIntent(_ context.Context, id string) (*payments.Intent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	if in, ok := m.intents[id]; ok {
		return in, nil
	}
	return nil, errors.New("no such payment_intent: " + id)
}

func (m *platformMock) ListProducts(context.Context) ([]payments.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.products, nil
}

func (m *platformMock) GetProduct(_ context.Context, id string) (*payments.Product, error) {
	for i := range m.products {
		if m.products[i].ID == id {
			return &m.products[i], nil
		}
	}
	return nil, errors.New("no such product: " + id)
}

func (m *platformMock) GetPrice(context.Context, string) (*payments.Price, error) {
	return nil, errors.New("no such price")
}

type orderReaderMock struct {
	order *domain.Order
	err   error
}

func (m *orderReaderMock) Get(_ context.Context, paymentRef string) (*domain.Order, error) {
	if paymentRef == "" {
		return nil, payments.ErrMissingReference
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.order, nil
}

type catalogMock struct {
	products []domain.Product
	err      error
}

func (m *catalogMock) List(context.Context) ([]domain.Product, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.products, nil
}

type publisherMock struct {
	mu        sync.Mutex
	confirmed []string
}

func (m *publisherMock) OrderConfirmed(_ context.Context, paymentRef string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmed = append(m.confirmed, paymentRef)
}

func (m *publisherMock) Close() error { return nil }
