package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/csmith-03/alliger-house-of-wings/internal/domain"
)

// RedisStorage persists carts as JSON under a fixed key prefix. Entries
// carry a TTL with jitter so abandoned carts age out without a sweeper.
type RedisStorage struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisStorage(client *redis.Client) *RedisStorage {
	return &RedisStorage{
		client:  client,
		baseTTL: 30 * 24 * time.Hour,
	}
}

func (r *RedisStorage) Load(ctx context.Context, cartID string) (*domain.Cart, error) {
	data, err := r.client.Get(ctx, storageKey(cartID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		// Corrupt stored state reads as no cart, never an error.
		return nil, ErrNotFound
	}
	return &cart, nil
}

func (r *RedisStorage) Save(ctx context.Context, cart *domain.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(60)) * time.Minute
	if err := r.client.Set(ctx, storageKey(cart.ID), data, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Delete(ctx context.Context, cartID string) error {
	if err := r.client.Del(ctx, storageKey(cartID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func storageKey(cartID string) string {
	return fmt.Sprintf("how_cart_v1:%s", cartID)
}
