package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/tripwise/backend/internal/domain/entities"
	"github.com/tripwise/backend/internal/domain/providers"
)

const invalidationTimeout = 5 * time.Second

// HTTPCacheGroup returns the HTTP cache key group holding search responses of kind
func HTTPCacheGroup(kind entities.CandidateKind) string {
	switch kind {
	case entities.CandidateKindLodging:
		return "hotels"
	case entities.CandidateKindDining:
		return "restaurants"
	}
	return string(kind)
}

// InvalidationPatterns lists the cache key patterns made stale by a change to kind
func InvalidationPatterns(kind entities.CandidateKind) []string {
	return []string{
		fmt.Sprintf("catalog:%s:*", kind),
		fmt.Sprintf("http:cache:%s:*", HTTPCacheGroup(kind)),
	}
}

// CacheInvalidationService drops cached catalog batches and search responses
// when the catalog changes
type CacheInvalidationService struct {
	cache    providers.CacheProvider
	eventBus providers.EventBus
	logger   zerolog.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

// NewCacheInvalidationService creates a new cache invalidation service
func NewCacheInvalidationService(cache providers.CacheProvider, eventBus providers.EventBus, logger zerolog.Logger) *CacheInvalidationService {
	ctx, cancel := context.WithCancel(context.Background())
	return &CacheInvalidationService{
		cache:    cache,
		eventBus: eventBus,
		logger:   logger.With().Str("component", "cache_invalidation").Logger(),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins listening for catalog events
func (s *CacheInvalidationService) Start() error {
	eventChan, err := s.eventBus.Subscribe(s.ctx, providers.EventChannelCatalogUpdates)
	if err != nil {
		return fmt.Errorf("failed to subscribe to catalog updates: %w", err)
	}

	s.wg.Add(1)
	go s.processEvents(eventChan)
	s.logger.Info().Msg("cache invalidation service started")
	return nil
}

// Stop stops listening and waits for the event loop to exit
func (s *CacheInvalidationService) Stop() {
	s.cancel()
	s.wg.Wait()
	s.logger.Info().Msg("cache invalidation service stopped")
}

func (s *CacheInvalidationService) processEvents(eventChan <-chan *entities.CatalogEvent) {
	defer s.wg.Done()
	for {
		select {
		case <-s.ctx.Done():
			return
		case event, ok := <-eventChan:
			if !ok {
				return
			}
			if event == nil {
				continue
			}
			s.handleEvent(event)
		}
	}
}

func (s *CacheInvalidationService) handleEvent(event *entities.CatalogEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), invalidationTimeout)
	defer cancel()

	deleted, err := s.InvalidateKind(ctx, event.Kind)
	if err != nil {
		s.logger.Warn().Err(err).Str("event_id", event.ID).Str("kind", string(event.Kind)).Msg("cache invalidation failed")
		return
	}
	s.logger.Info().
		Str("event_id", event.ID).
		Str("kind", string(event.Kind)).
		Int("records", len(event.IDs)).
		Int("keys_deleted", deleted).
		Msg("invalidated catalog caches")
}

// InvalidateKind deletes every cached batch and search response of kind
func (s *CacheInvalidationService) InvalidateKind(ctx context.Context, kind entities.CandidateKind) (int, error) {
	total := 0
	for _, pattern := range InvalidationPatterns(kind) {
		n, err := s.cache.DeletePattern(ctx, pattern)
		total += n
		if err != nil {
			return total, fmt.Errorf("failed to invalidate pattern %s: %w", pattern, err)
		}
	}
	return total, nil
}
