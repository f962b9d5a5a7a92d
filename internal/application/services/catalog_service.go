package services

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/tripwise/backend/internal/domain/entities"
	"github.com/tripwise/backend/internal/domain/providers"
	"github.com/tripwise/backend/internal/domain/repositories"
	apperrors "github.com/tripwise/backend/pkg/errors"
)

// IngestResult reports what an ingestion run did
type IngestResult struct {
	Kind    entities.CandidateKind `json:"kind"`
	Count   int                    `json:"count"`
	Indexed bool                   `json:"indexed"`
	EventID string                 `json:"event_id,omitempty"`
}

// CatalogStores groups the repositories of one record kind.
// Index is optional.
type CatalogStores[T any] struct {
	Primary interface {
		Upsert(ctx context.Context, items []*T) error
	}
	Index interface {
		Upsert(ctx context.Context, items []*T) error
	}
}

// CatalogService writes catalog batches to the primary store and the search
// index, then announces the change on the event bus.
type CatalogService struct {
	hotels      CatalogStores[entities.Hotel]
	restaurants CatalogStores[entities.Restaurant]
	eventBus    providers.EventBus
	logger      zerolog.Logger
}

// NewCatalogService creates a catalog service. hotelIndex, restaurantIndex and eventBus may be nil.
func NewCatalogService(
	hotels repositories.HotelRepository,
	hotelIndex repositories.HotelRepository,
	restaurants repositories.RestaurantRepository,
	restaurantIndex repositories.RestaurantRepository,
	eventBus providers.EventBus,
	logger zerolog.Logger,
) *CatalogService {
	s := &CatalogService{
		hotels:      CatalogStores[entities.Hotel]{Primary: hotels},
		restaurants: CatalogStores[entities.Restaurant]{Primary: restaurants},
		eventBus:    eventBus,
		logger:      logger.With().Str("component", "catalog_service").Logger(),
	}
	if hotelIndex != nil {
		s.hotels.Index = hotelIndex
	}
	if restaurantIndex != nil {
		s.restaurants.Index = restaurantIndex
	}
	return s
}

// IngestHotels upserts a hotel batch
func (s *CatalogService) IngestHotels(ctx context.Context, hotels []*entities.Hotel) (*IngestResult, error) {
	ids, err := batchIDs(hotels, func(h *entities.Hotel) string { return h.ID })
	if err != nil {
		return nil, err
	}
	return ingest(ctx, s, entities.CandidateKindLodging, s.hotels, hotels, ids)
}

// IngestRestaurants upserts a restaurant batch
func (s *CatalogService) IngestRestaurants(ctx context.Context, restaurants []*entities.Restaurant) (*IngestResult, error) {
	ids, err := batchIDs(restaurants, func(r *entities.Restaurant) string { return r.ID })
	if err != nil {
		return nil, err
	}
	return ingest(ctx, s, entities.CandidateKindDining, s.restaurants, restaurants, ids)
}

func ingest[T any](ctx context.Context, s *CatalogService, kind entities.CandidateKind, stores CatalogStores[T], items []*T, ids []string) (*IngestResult, error) {
	result := &IngestResult{Kind: kind, Count: len(items)}
	if len(items) == 0 {
		return result, nil
	}

	if err := stores.Primary.Upsert(ctx, items); err != nil {
		return nil, err
	}

	// the index is rebuilt from the primary store, so a failure here is not fatal
	if stores.Index != nil {
		if err := stores.Index.Upsert(ctx, items); err != nil {
			s.logger.Error().Err(err).Str("kind", string(kind)).Int("count", len(items)).Msg("failed to index catalog batch")
		} else {
			result.Indexed = true
		}
	}

	if s.eventBus != nil {
		event := entities.NewCatalogEvent(kind, entities.CatalogEventTypeUpserted, ids)
		if err := s.eventBus.Publish(ctx, providers.EventChannelCatalogUpdates, event); err != nil {
			s.logger.Warn().Err(err).Str("kind", string(kind)).Msg("failed to publish catalog event")
		} else {
			result.EventID = event.ID
		}
	}

	s.logger.Info().
		Str("kind", string(kind)).
		Int("count", result.Count).
		Bool("indexed", result.Indexed).
		Msg("ingested catalog batch")

	return result, nil
}

// batchIDs rejects nil records, empty ids and duplicates
func batchIDs[T any](items []*T, id func(*T) string) ([]string, error) {
	ids := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for i, item := range items {
		if item == nil {
			return nil, apperrors.NewValidationError(fmt.Sprintf("record %d is null", i))
		}
		key := id(item)
		if key == "" {
			return nil, apperrors.NewValidationError(fmt.Sprintf("record %d has no id", i))
		}
		if _, dup := seen[key]; dup {
			return nil, apperrors.NewValidationError(fmt.Sprintf("duplicate id %q", key))
		}
		seen[key] = struct{}{}
		ids = append(ids, key)
	}
	return ids, nil
}
