package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/tripwise/backend/internal/domain/entities"
	"github.com/tripwise/backend/internal/domain/repositories"
)

const analyticsWriteTimeout = 5 * time.Second

// SearchTracker records ranked searches
type SearchTracker interface {
	TrackSearch(ctx context.Context, event *entities.SearchEvent)
}

// SearchAnalyticsService stores search events without slowing down requests
type SearchAnalyticsService struct {
	repo   repositories.SearchAnalyticsRepository
	logger zerolog.Logger
}

// NewSearchAnalyticsService creates a new analytics service
func NewSearchAnalyticsService(repo repositories.SearchAnalyticsRepository, logger zerolog.Logger) *SearchAnalyticsService {
	return &SearchAnalyticsService{repo: repo, logger: logger}
}

// TrackSearch writes the event in the background
func (s *SearchAnalyticsService) TrackSearch(ctx context.Context, event *entities.SearchEvent) {
	go func() {
		// the request context may already be cancelled
		bgCtx, cancel := context.WithTimeout(context.Background(), analyticsWriteTimeout)
		defer cancel()

		if err := s.repo.LogEvent(bgCtx, event); err != nil {
			s.logger.Warn().Err(err).Str("kind", string(event.Kind)).Msg("failed to log search event")
		}
	}()
}

// GetZeroResultQueries returns recent searches that matched nothing
func (s *SearchAnalyticsService) GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	return s.repo.GetZeroResultQueries(ctx, limit)
}
