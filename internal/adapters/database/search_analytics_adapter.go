package database

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"
	"github.com/tripwise/backend/internal/domain/entities"
	"github.com/tripwise/backend/internal/domain/repositories"
	"github.com/tripwise/backend/internal/infrastructure/clients/postgres"
	apperrors "github.com/tripwise/backend/pkg/errors"
)

const (
	searchAnalyticsTable   = "search_analytics"
	defaultZeroResultLimit = 100
)

// SearchAnalyticsAdapter implements SearchAnalyticsRepository
type SearchAnalyticsAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewSearchAnalyticsAdapter creates a new analytics adapter
func NewSearchAnalyticsAdapter(client *postgres.Client) repositories.SearchAnalyticsRepository {
	return &SearchAnalyticsAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// LogEvent stores one ranked search
func (a *SearchAnalyticsAdapter) LogEvent(ctx context.Context, event *entities.SearchEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	query, args, err := a.db.Insert(searchAnalyticsTable).
		Prepared(true).
		Rows(goqu.Record{
			"id":              event.ID,
			"kind":            string(event.Kind),
			"location":        event.Location,
			"query":           event.Query,
			"sort_spec":       event.SortSpec,
			"candidate_count": event.CandidateCount,
			"dropped_count":   event.DroppedCount,
			"result_count":    event.ResultCount,
			"latency_ms":      event.LatencyMs,
			"created_at":      event.CreatedAt,
		}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to log search event", err)
	}

	return nil
}

// GetZeroResultQueries returns the most recent searches that matched nothing
func (a *SearchAnalyticsAdapter) GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	if limit <= 0 {
		limit = defaultZeroResultLimit
	}

	query, args, err := a.db.Select(
		"id", "kind", "location", "query", "sort_spec", "candidate_count",
		"dropped_count", "result_count", "latency_ms", "created_at",
	).From(searchAnalyticsTable).
		Where(goqu.Ex{"result_count": 0}).
		Order(goqu.I("created_at").Desc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get zero result queries", err)
	}
	defer rows.Close()

	events := []*entities.SearchEvent{}
	for rows.Next() {
		e := &entities.SearchEvent{}
		err := rows.Scan(
			&e.ID,
			&e.Kind,
			&e.Location,
			&e.Query,
			&e.SortSpec,
			&e.CandidateCount,
			&e.DroppedCount,
			&e.ResultCount,
			&e.LatencyMs,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan search event", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to iterate search events", err)
	}

	return events, nil
}
