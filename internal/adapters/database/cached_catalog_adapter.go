package database

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog"
	"github.com/tripwise/backend/internal/domain/entities"
	"github.com/tripwise/backend/internal/domain/providers"
	"github.com/tripwise/backend/internal/domain/repositories"
	"github.com/tripwise/backend/internal/infrastructure/observability"
)

// DefaultCatalogTTL is used when the configured TTL is not positive (seconds)
const DefaultCatalogTTL = 120

// CachedCatalog holds what the cached hotel and restaurant adapters share
type CachedCatalog struct {
	cache   providers.CacheProvider
	ttl     int
	metrics *observability.Metrics
	logger  zerolog.Logger
}

// NewCachedCatalog creates the shared cache settings for catalog reads
func NewCachedCatalog(cache providers.CacheProvider, ttlSeconds int, metrics *observability.Metrics, logger zerolog.Logger) *CachedCatalog {
	if ttlSeconds <= 0 {
		ttlSeconds = DefaultCatalogTTL
	}
	return &CachedCatalog{
		cache:   cache,
		ttl:     ttlSeconds,
		metrics: metrics,
		logger:  logger.With().Str("component", "catalog_cache").Logger(),
	}
}

// Hotels wraps a hotel repository with read-through caching
func (c *CachedCatalog) Hotels(inner repositories.HotelRepository) repositories.HotelRepository {
	return &cachedHotelAdapter{inner: inner, catalog: c}
}

// Restaurants wraps a restaurant repository with read-through caching
func (c *CachedCatalog) Restaurants(inner repositories.RestaurantRepository) repositories.RestaurantRepository {
	return &cachedRestaurantAdapter{inner: inner, catalog: c}
}

type cachedHotelAdapter struct {
	inner   repositories.HotelRepository
	catalog *CachedCatalog
}

func (a *cachedHotelAdapter) Search(ctx context.Context, query entities.HotelQuery) ([]*entities.Hotel, error) {
	return readThrough(ctx, a.catalog, query.CacheKey(), func() ([]*entities.Hotel, error) {
		return a.inner.Search(ctx, query)
	})
}

func (a *cachedHotelAdapter) Upsert(ctx context.Context, hotels []*entities.Hotel) error {
	return a.inner.Upsert(ctx, hotels)
}

type cachedRestaurantAdapter struct {
	inner   repositories.RestaurantRepository
	catalog *CachedCatalog
}

func (a *cachedRestaurantAdapter) Search(ctx context.Context, query entities.RestaurantQuery) ([]*entities.Restaurant, error) {
	return readThrough(ctx, a.catalog, query.CacheKey(), func() ([]*entities.Restaurant, error) {
		return a.inner.Search(ctx, query)
	})
}

func (a *cachedRestaurantAdapter) Upsert(ctx context.Context, restaurants []*entities.Restaurant) error {
	return a.inner.Upsert(ctx, restaurants)
}

// readThrough serves key from the cache, falling back to fetch on a miss or
// an undecodable entry. The cache is filled in the background.
func readThrough[T any](ctx context.Context, c *CachedCatalog, key string, fetch func() ([]*T, error)) ([]*T, error) {
	if cached, err := c.cache.Get(ctx, key); err == nil {
		var items []*T
		decodeErr := json.Unmarshal(cached, &items)
		if decodeErr == nil {
			observability.RecordCacheHit(ctx, c.metrics, key)
			return items, nil
		}
		c.logger.Warn().Err(decodeErr).Str("key", key).Msg("failed to decode cached catalog batch")
	}
	observability.RecordCacheMiss(ctx, c.metrics, key)

	items, err := fetch()
	if err != nil {
		return nil, err
	}

	go func() {
		data, err := json.Marshal(items)
		if err != nil {
			return
		}
		if err := c.cache.Set(context.Background(), key, data, c.ttl); err != nil {
			c.logger.Warn().Err(err).Str("key", key).Msg("failed to cache catalog batch")
		}
	}()

	return items, nil
}
