// Package catalog lists the sauce products sold by the storefront. The
// payment platform's product list is the source of truth; a cache in front
// of it absorbs page-load traffic.
package catalog

import (
	"context"
	"errors"
	"log"
	"strings"

	"golang.org/x/sync/singleflight"

	"github.com/csmith-03/alliger-house-of-wings/internal/domain"
	"github.com/csmith-03/alliger-house-of-wings/internal/payments"
)

// barColors maps a product's configured bar_color tag to its display class.
var barColors = map[string]string{
	"maroon":  "bg-maroon",
	"fire":    "bg-fire",
	"rooster": "bg-rooster",
}

const defaultBarColor = "bg-maroon"

type Service struct {
	platform payments.Client
	cache    Cache
	sfg      singleflight.Group // prevents cache stampede on cold cache
}

func NewService(platform payments.Client, cache Cache) *Service {
	return &Service{platform: platform, cache: cache}
}

// List returns the mapped catalog. Cache first; on a miss, one flight per
// process refreshes from the platform. An upstream failure with a cold
// cache degrades to an empty shelf, never an error.
func (s *Service) List(ctx context.Context) ([]domain.Product, error) {
	v, err, _ := s.sfg.Do(cacheKey, func() (interface{}, error) {
		products, err := s.cache.Get(ctx)
		if err == nil {
			return products, nil
		}
		if !errors.Is(err, ErrCacheMiss) {
			log.Printf("catalog cache get error: %v", err)
		}

		fetched, fetchErr := s.platform.ListProducts(ctx)
		if fetchErr != nil {
			log.Printf("catalog list error: %v", fetchErr)
			return []domain.Product{}, nil
		}

		mapped := make([]domain.Product, 0, len(fetched))
		for _, p := range fetched {
			mapped = append(mapped, mapProduct(p))
		}

		go func() {
			if setErr := s.cache.Set(context.Background(), mapped); setErr != nil {
				log.Printf("catalog cache set error: %v", setErr)
			}
		}()

		return mapped, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Product), nil
}

func mapProduct(p payments.Product) domain.Product {
	out := domain.Product{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		BarColor:    defaultBarColor,
	}

	if desc := p.Metadata["flavor_description"]; desc != "" {
		out.Description = desc
	}
	if bar, ok := barColors[strings.ToLower(p.Metadata["bar_color"])]; ok {
		out.BarColor = bar
	}
	if len(p.Images) > 0 {
		img := p.Images[0]
		out.Image = &img
	}
	if p.DefaultPrice != nil {
		amount := p.DefaultPrice.UnitAmount
		currency := p.DefaultPrice.Currency
		priceID := p.DefaultPrice.ID
		out.Price = &amount
		out.Currency = &currency
		out.PriceID = &priceID
	}
	return out
}
