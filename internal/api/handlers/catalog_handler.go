package handlers

import (
	"context"
	"io"
	"net/http"

	"github.com/tripwise/backend/internal/adapters/catalog"
	"github.com/tripwise/backend/internal/application/services"
	"github.com/tripwise/backend/internal/domain/entities"
	apperrors "github.com/tripwise/backend/pkg/errors"
)

// CatalogIngester writes catalog batches
type CatalogIngester interface {
	IngestHotels(ctx context.Context, hotels []*entities.Hotel) (*services.IngestResult, error)
	IngestRestaurants(ctx context.Context, restaurants []*entities.Restaurant) (*services.IngestResult, error)
}

// CatalogHandler accepts hotel and restaurant feeds
type CatalogHandler struct {
	ingester CatalogIngester
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(ingester CatalogIngester) *CatalogHandler {
	return &CatalogHandler{ingester: ingester}
}

// IngestHotels handles POST /api/catalog/hotels
func (h *CatalogHandler) IngestHotels(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	hotels, err := catalog.DecodeHotels(body)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	result, err := h.ingester.IngestHotels(r.Context(), hotels)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

// IngestRestaurants handles POST /api/catalog/restaurants
func (h *CatalogHandler) IngestRestaurants(w http.ResponseWriter, r *http.Request) {
	body, ok := readBody(w, r)
	if !ok {
		return
	}
	restaurants, err := catalog.DecodeRestaurants(body)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	result, err := h.ingester.IngestRestaurants(r.Context(), restaurants)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}
	respondWithJSON(w, http.StatusOK, result)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		respondWithAppError(w, r, apperrors.NewValidationError("request body too large or unreadable"))
		return nil, false
	}
	return body, true
}
