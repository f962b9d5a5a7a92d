package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/tripwise/backend/internal/application/services"
	"github.com/tripwise/backend/internal/domain/entities"
	"github.com/tripwise/backend/internal/ranking"
	apperrors "github.com/tripwise/backend/pkg/errors"
	"github.com/tripwise/backend/pkg/schema"
)

// SearchRanker is the part of the ranking service the search endpoints use
type SearchRanker interface {
	SearchHotels(ctx context.Context, req services.HotelSearchRequest) (*ranking.Result, error)
	SearchRestaurants(ctx context.Context, req services.RestaurantSearchRequest) (*ranking.Result, error)
	RankBatch(ctx context.Context, req ranking.Request) (*ranking.Result, error)
}

var rankRequestSchema = schema.MustCompile("rank request", `{
	"type": "object",
	"required": ["kind", "candidates"],
	"properties": {
		"kind": {"enum": ["lodging", "dining"]},
		"candidates": {
			"type": "array",
			"maxItems": 5000,
			"items": {
				"type": "object",
				"properties": {
					"id": {"type": "string"},
					"name": {"type": "string"},
					"price": {"type": ["number", "null"]},
					"rating": {"type": ["number", "null"]},
					"review_count": {"type": ["integer", "null"]},
					"distance_km": {"type": ["number", "null"]},
					"prep_time_minutes": {"type": ["number", "null"]},
					"is_open_now": {"type": ["boolean", "null"]},
					"amenities": {"type": ["array", "null"], "items": {"type": "string"}},
					"payment_options": {"type": ["array", "null"], "items": {"type": "string"}}
				}
			}
		},
		"constraints": {"type": "object"},
		"sort": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["key"],
				"properties": {
					"key": {"type": "string"},
					"direction": {"type": ["integer", "string"]}
				}
			}
		},
		"nights": {"type": "integer", "minimum": 0}
	}
}`)

// SearchHandler serves ranked hotel and restaurant searches
type SearchHandler struct {
	ranker SearchRanker
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(ranker SearchRanker) *SearchHandler {
	return &SearchHandler{ranker: ranker}
}

// SearchHotels handles GET /api/hotels/search
func (h *SearchHandler) SearchHotels(w http.ResponseWriter, r *http.Request) {
	params := newQueryParams(r.URL.Query())
	req := services.HotelSearchRequest{
		City:        params.str("city"),
		CheckIn:     params.str("check_in"),
		CheckOut:    params.str("check_out"),
		Limit:       params.intOr("limit", 0),
		Constraints: params.hotelConstraints(),
		Sort:        params.sort(),
	}
	if params.err != nil {
		respondWithAppError(w, r, params.err)
		return
	}
	if req.City == "" {
		respondWithAppError(w, r, apperrors.NewValidationError("city is required"))
		return
	}

	result, err := h.ranker.SearchHotels(r.Context(), req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// SearchRestaurants handles GET /api/restaurants/search
func (h *SearchHandler) SearchRestaurants(w http.ResponseWriter, r *http.Request) {
	params := newQueryParams(r.URL.Query())
	req := services.RestaurantSearchRequest{
		Query: entities.RestaurantQuery{
			Airport:  params.str("airport"),
			Terminal: params.intOr("terminal", 0),
			Category: params.str("category"),
			Cuisine:  params.str("cuisine"),
			Diet:     params.str("diet"),
			Limit:    params.intOr("limit", 0),
		},
		Constraints: params.restaurantConstraints(),
		Sort:        params.sort(),
	}
	if raw := params.str("at"); raw != "" && params.err == nil {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			params.err = apperrors.NewInvalidConstraintError("at", "must be an RFC 3339 timestamp")
		}
		req.At = at
	}
	if params.err != nil {
		respondWithAppError(w, r, params.err)
		return
	}
	if req.Query.Airport == "" {
		respondWithAppError(w, r, apperrors.NewValidationError("airport is required"))
		return
	}
	if req.Query.Terminal < 0 {
		respondWithAppError(w, r, apperrors.NewInvalidConstraintError("terminal", "must be positive"))
		return
	}

	result, err := h.ranker.SearchRestaurants(r.Context(), req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// Rank handles POST /api/rank: ranks a caller-supplied batch
func (h *SearchHandler) Rank(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	if err := rankRequestSchema.ValidateBytes(body); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	var req ranking.Request
	if err := json.Unmarshal(body, &req); err != nil {
		respondWithAppError(w, r, apperrors.NewValidationError("invalid request body: "+err.Error()))
		return
	}

	result, err := h.ranker.RankBatch(r.Context(), req)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}
