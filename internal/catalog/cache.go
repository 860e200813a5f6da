package catalog

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

var ErrCacheMiss = errors.New("cache miss")

// Cache holds the mapped product list between upstream refreshes.
type Cache interface {
	Get(ctx context.Context) ([]domain.Product, error)
	Set(ctx context.Context, products []domain.Product) error
}

const cacheKey = "catalog:sauces"

// RedisCache caches the catalog with a jittered TTL so concurrent
// instances do not refresh in lockstep.
type RedisCache struct {
	client  *redis.Client
	baseTTL time.Duration
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{
		client:  client,
		baseTTL: 15 * time.Minute,
	}
}

func (r *RedisCache) Get(ctx context.Context) ([]domain.Product, error) {
	data, err := r.client.Get(ctx, cacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var products []domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("unmarshal catalog failed: %w", err)
	}
	return products, nil
}

func (r *RedisCache) Set(ctx context.Context, products []domain.Product) error {
	data, err := json.Marshal(products)
	if err != nil {
		return fmt.Errorf("marshal catalog failed: %w", err)
	}

	jitter := time.Duration(rand.Intn(5)) * time.Minute
	if err := r.client.Set(ctx, cacheKey, data, r.baseTTL+jitter).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}
