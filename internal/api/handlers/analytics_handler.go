package handlers

import (
	"context"
	"net/http"

	"github.com/tripwise/backend/internal/domain/entities"
	apperrors "github.com/tripwise/backend/pkg/errors"
)

const (
	defaultZeroResultLimit = 50
	maxZeroResultLimit     = 500
)

// ZeroResultReporter lists searches that returned nothing
type ZeroResultReporter interface {
	GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error)
}

// AnalyticsHandler serves search analytics
type AnalyticsHandler struct {
	reporter ZeroResultReporter
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(reporter ZeroResultReporter) *AnalyticsHandler {
	return &AnalyticsHandler{reporter: reporter}
}

// GetZeroResultQueries handles GET /api/analytics/zero-result-queries
func (h *AnalyticsHandler) GetZeroResultQueries(w http.ResponseWriter, r *http.Request) {
	params := newQueryParams(r.URL.Query())
	limit := params.intOr("limit", defaultZeroResultLimit)
	if params.err != nil {
		respondWithAppError(w, r, params.err)
		return
	}
	if limit <= 0 || limit > maxZeroResultLimit {
		respondWithAppError(w, r, apperrors.NewValidationError("limit must be between 1 and 500"))
		return
	}

	events, err := h.reporter.GetZeroResultQueries(r.Context(), limit)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	if events == nil {
		events = []*entities.SearchEvent{}
	}
	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"queries": events,
		"count":   len(events),
	})
}
