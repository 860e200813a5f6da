package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/csmith-03/alliger-house-of-wings/internal/domain"
)

// Session is one shopper's progress through checkout. It is the only record
// of the flow; the payment platform holds the money side.
type Session struct {
	ID     string `json:"id"`
	CartID string `json:"cart_id"`
	Phase  Phase  `json:"phase"`

	Address *domain.Address `json:"address,omitempty"`

	// RateGen increases every time the address is (re)confirmed. Rate
	// responses carry the generation they were requested under; responses
	// from an older generation are discarded.
	RateGen uint64                `json:"rate_gen"`
	Rates   []domain.ShippingRate `json:"rates,omitempty"`

	SelectedRateID string `json:"selected_rate_id,omitempty"`

	IntentID     string `json:"intent_id,omitempty"`
	ClientSecret string `json:"client_secret,omitempty"`

	LastError string    `json:"last_error,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SelectedRate returns the currently selected rate option, if any.
func (s *Session) SelectedRate() *domain.ShippingRate {
	for i := range s.Rates {
		if s.Rates[i].ID == s.SelectedRateID {
			return &s.Rates[i]
		}
	}
	return nil
}

var ErrSessionNotFound = errors.New("checkout session not found")

// SessionStore persists checkout sessions between requests.
type SessionStore interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, session *Session) error
}

const sessionTTL = 2 * time.Hour

// RedisSessionStore keeps sessions in Redis with a short TTL; an abandoned
// checkout simply expires.
type RedisSessionStore struct {
	client *redis.Client
}

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client}
}

func (r *RedisSessionStore) Load(ctx context.Context, id string) (*Session, error) {
	data, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var session Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("unmarshal session failed: %w", err)
	}
	return &session, nil
}

func (r *RedisSessionStore) Save(ctx context.Context, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session failed: %w", err)
	}
	if err := r.client.Set(ctx, sessionKey(session.ID), data, sessionTTL).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func sessionKey(id string) string {
	return fmt.Sprintf("checkout:%s", id)
}

// MemorySessionStore is the in-process store for tests.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]*Session)}
}

func (m *MemorySessionStore) Load(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	session, ok := m.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (m *MemorySessionStore) Save(_ context.Context, session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *session
	m.sessions[session.ID] = &copied
	return nil
}
