package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"outfitbot/models"
	"outfitbot/outfit"

	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	ristretto_store "github.com/eko/gocache/store/ristretto/v4"
)

const weatherCacheKey = "weather:now"

// CachedWeatherSource keeps the last reading for a short TTL so bursts of
// chat requests hit the upstream API once.
type CachedWeatherSource struct {
	cache *cache.LoadableCache[models.WeatherReading]
}

func NewCachedWeatherSource(source outfit.WeatherSource, ttl time.Duration) (*CachedWeatherSource, error) {
	ristrettoCache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1000,
		MaxCost:     100,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ristretto cache: %w", err)
	}
	ristrettoStore := ristretto_store.NewRistretto(ristrettoCache)

	loadFunction := func(ctx context.Context, key any) (models.WeatherReading, []store.Option, error) {
		log.Printf("[Weather] cache miss for %v, fetching", key)
		reading, err := source.Fetch(ctx)
		return reading, []store.Option{store.WithExpiration(ttl), store.WithCost(1)}, err
	}

	return &CachedWeatherSource{
		cache: cache.NewLoadable[models.WeatherReading](
			loadFunction,
			cache.New[models.WeatherReading](ristrettoStore),
		),
	}, nil
}

func (c *CachedWeatherSource) Fetch(ctx context.Context) (models.WeatherReading, error) {
	return c.cache.Get(ctx, weatherCacheKey)
}
