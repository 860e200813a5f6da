package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csmith-03/alliger-house-of-wings/internal/domain"
	"github.com/csmith-03/alliger-house-of-wings/internal/payments"
)

func setupCache(t *testing.T) *RedisCache {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCache(client)
}

func sauceProduct(id, name string) payments.Product {
	return payments.Product{
		ID:       id,
		Name:     name,
		Metadata: map[string]string{"flavor_description": name + " heat", "bar_color": "fire"},
		Images:   []string{"https://img.example/" + id + ".jpg"},
		DefaultPrice: &payments.Price{
			ID:         "price_" + id,
			UnitAmount: 899,
			Currency:   "usd",
		},
	}
}

func TestList_FetchesAndMaps(t *testing.T) {
	platform := &platformMock{products: []payments.Product{sauceProduct("prod_1", "Fire Sauce")}}
	svc := NewService(platform, setupCache(t))

	got, err := svc.List(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 1)
	p := got[0]
	assert.Equal(t, "prod_1", p.ID)
	assert.Equal(t, "Fire Sauce heat", p.Description)
	assert.Equal(t, "bg-fire", p.BarColor)
	require.NotNil(t, p.Price)
	assert.Equal(t, int64(899), *p.Price)
	assert.Equal(t, "price_prod_1", *p.PriceID)
	assert.Equal(t, "usd", *p.Currency)
}

func TestList_DefaultBarColorAndDescription(t *testing.T) {
	platform := &platformMock{products: []payments.Product{{
		ID:          "prod_2",
		Name:        "Rooster Sauce",
		Description: "plain description",
		Metadata:    map[string]string{},
	}}}
	svc := NewService(platform, setupCache(t))

	got, err := svc.List(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "plain description", got[0].Description)
	assert.Equal(t, "bg-maroon", got[0].BarColor)
	assert.Nil(t, got[0].Price)
}

func TestList_WarmCacheSkipsPlatform(t *testing.T) {
	cache := setupCache(t)
	seeded := []domain.Product{{ID: "cached_1", Name: "Cached Sauce"}}
	require.NoError(t, cache.Set(context.Background(), seeded))

	platform := &platformMock{err: errors.New("should not be called")}
	svc := NewService(platform, cache)

	got, err := svc.List(context.Background())

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "cached_1", got[0].ID)
	assert.Equal(t, 0, platform.listCalls)
}

func TestList_ColdCacheUpstreamFailure(t *testing.T) {
	platform := &platformMock{err: errors.New("stripe down")}
	svc := NewService(platform, setupCache(t))

	got, err := svc.List(context.Background())

	// Empty shelf, not an error.
	require.NoError(t, err)
	assert.Empty(t, got)
}
