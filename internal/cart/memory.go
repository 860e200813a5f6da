package cart

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/csmith-03/alliger-house-of-wings/internal/domain"
)

// MemoryStorage is an in-process Storage for tests and local development.
type MemoryStorage struct {
	mu    sync.RWMutex
	carts map[string][]byte
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{carts: make(map[string][]byte)}
}

func (m *MemoryStorage) Load(_ context.Context, cartID string) (*domain.Cart, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.carts[cartID]
	if !ok {
		return nil, ErrNotFound
	}
	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, ErrNotFound
	}
	return &cart, nil
}

func (m *MemoryStorage) Save(_ context.Context, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[cart.ID] = data
	return nil
}

func (m *MemoryStorage) Delete(_ context.Context, cartID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, cartID)
	return nil
}
