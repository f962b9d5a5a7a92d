package repositories

import (
	"context"

	"github.com/tripwise/backend/internal/domain/entities"
)

// SearchAnalyticsRepository stores one event per ranked search
type SearchAnalyticsRepository interface {
	LogEvent(ctx context.Context, event *entities.SearchEvent) error
	GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error)
}
