package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/tripwise/backend/internal/domain/entities"
	"github.com/tripwise/backend/internal/domain/providers"
	"github.com/tripwise/backend/internal/domain/repositories"
)

// WarmTargets lists the catalog fetches kept warm
type WarmTargets struct {
	Cities   []string
	Airports []string
}

// CacheWarmingService refreshes the catalog cache for popular cities and
// airports so their first search does not pay for a primary store fetch.
type CacheWarmingService struct {
	hotels      repositories.HotelRepository
	restaurants repositories.RestaurantRepository
	cache       providers.CacheProvider
	ttl         int
	targets     WarmTargets
	logger      zerolog.Logger
}

// NewCacheWarmingService creates a warming service. hotels and restaurants
// must be the uncached repositories.
func NewCacheWarmingService(
	hotels repositories.HotelRepository,
	restaurants repositories.RestaurantRepository,
	cache providers.CacheProvider,
	ttlSeconds int,
	targets WarmTargets,
	logger zerolog.Logger,
) *CacheWarmingService {
	return &CacheWarmingService{
		hotels:      hotels,
		restaurants: restaurants,
		cache:       cache,
		ttl:         ttlSeconds,
		targets:     targets,
		logger:      logger.With().Str("component", "cache_warming").Logger(),
	}
}

// WarmCache fetches every target and stores it under the key the cached
// catalog reads. It returns how many entries were written.
func (s *CacheWarmingService) WarmCache(ctx context.Context) (int, error) {
	var errs []error
	warmed := 0

	if s.hotels != nil {
		for _, city := range s.targets.Cities {
			query := entities.HotelQuery{City: city}
			hotels, err := s.hotels.Search(ctx, query)
			if err != nil {
				errs = append(errs, fmt.Errorf("hotels in %s: %w", city, err))
				continue
			}
			if err := s.store(ctx, query.CacheKey(), hotels); err != nil {
				errs = append(errs, err)
				continue
			}
			warmed++
		}
	}

	if s.restaurants != nil {
		for _, airport := range s.targets.Airports {
			query := entities.RestaurantQuery{Airport: airport}
			restaurants, err := s.restaurants.Search(ctx, query)
			if err != nil {
				errs = append(errs, fmt.Errorf("restaurants at %s: %w", airport, err))
				continue
			}
			if err := s.store(ctx, query.CacheKey(), restaurants); err != nil {
				errs = append(errs, err)
				continue
			}
			warmed++
		}
	}

	s.logger.Info().Int("warmed", warmed).Int("failed", len(errs)).Msg("catalog cache warmed")
	return warmed, errors.Join(errs...)
}

func (s *CacheWarmingService) store(ctx context.Context, key string, batch interface{}) error {
	data, err := json.Marshal(batch)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.cache.Set(ctx, key, data, s.ttl); err != nil {
		return fmt.Errorf("cache %s: %w", key, err)
	}
	return nil
}

// StartPeriodicWarming warms once, then again every interval until ctx is done.
// A non-positive interval warms once only.
func (s *CacheWarmingService) StartPeriodicWarming(ctx context.Context, interval time.Duration) {
	if _, err := s.WarmCache(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("initial cache warming incomplete")
	}
	if interval <= 0 {
		s.logger.Info().Dur("interval", interval).Msg("periodic cache warming disabled")
		return
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				s.logger.Info().Msg("stopping cache warming")
				return
			case <-ticker.C:
				if _, err := s.WarmCache(ctx); err != nil {
					s.logger.Warn().Err(err).Msg("periodic cache warming incomplete")
				}
			}
		}
	}()
	s.logger.Info().Dur("interval", interval).Msg("started periodic cache warming")
}
