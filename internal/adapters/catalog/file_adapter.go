package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/tripwise/backend/internal/domain/entities"
	"github.com/tripwise/backend/internal/domain/repositories"
	apperrors "github.com/tripwise/backend/pkg/errors"
	"github.com/tripwise/backend/pkg/schema"
)

// LoadHotels reads and schema-checks a JSON array of hotels
func LoadHotels(path string) ([]*entities.Hotel, error) {
	var hotels []*entities.Hotel
	if err := loadFile(path, hotelsFileSchema, &hotels); err != nil {
		return nil, err
	}
	return hotels, nil
}

// LoadRestaurants reads and schema-checks a JSON array of restaurants
func LoadRestaurants(path string) ([]*entities.Restaurant, error) {
	var restaurants []*entities.Restaurant
	if err := loadFile(path, restaurantsFileSchema, &restaurants); err != nil {
		return nil, err
	}
	return restaurants, nil
}

// DecodeHotels schema-checks and decodes a JSON array of hotels
func DecodeHotels(data []byte) ([]*entities.Hotel, error) {
	var hotels []*entities.Hotel
	if err := decode(data, hotelsFileSchema, &hotels); err != nil {
		return nil, err
	}
	return hotels, nil
}

// DecodeRestaurants schema-checks and decodes a JSON array of restaurants
func DecodeRestaurants(data []byte) ([]*entities.Restaurant, error) {
	var restaurants []*entities.Restaurant
	if err := decode(data, restaurantsFileSchema, &restaurants); err != nil {
		return nil, err
	}
	return restaurants, nil
}

func loadFile(path string, s *schema.Schema, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apperrors.NewInternalError(fmt.Sprintf("failed to read %s", path), err)
	}
	return decode(data, s, out)
}

func decode(data []byte, s *schema.Schema, out interface{}) error {
	if err := s.ValidateBytes(data); err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apperrors.NewValidationError(fmt.Sprintf("%s: %v", s.Name(), err))
	}
	return nil
}

// FileHotelAdapter serves hotels from a JSON file loaded at construction.
// It is read-only.
type FileHotelAdapter struct {
	hotels []*entities.Hotel
}

var _ repositories.HotelRepository = (*FileHotelAdapter)(nil)

// NewFileHotelAdapter loads path and returns an adapter over its contents
func NewFileHotelAdapter(path string) (*FileHotelAdapter, error) {
	hotels, err := LoadHotels(path)
	if err != nil {
		return nil, err
	}
	return NewStaticHotelAdapter(hotels), nil
}

// NewStaticHotelAdapter serves an in-memory batch
func NewStaticHotelAdapter(hotels []*entities.Hotel) *FileHotelAdapter {
	sorted := slices.Clone(hotels)
	sorted = slices.DeleteFunc(sorted, func(h *entities.Hotel) bool { return h == nil })
	slices.SortStableFunc(sorted, func(a, b *entities.Hotel) int { return strings.Compare(a.ID, b.ID) })
	return &FileHotelAdapter{hotels: sorted}
}

// Search returns hotels whose city equals the query city, ignoring case
func (a *FileHotelAdapter) Search(_ context.Context, query entities.HotelQuery) ([]*entities.Hotel, error) {
	city := strings.TrimSpace(query.City)
	limit := query.EffectiveLimit()

	out := []*entities.Hotel{}
	for _, h := range a.hotels {
		if len(out) == limit {
			break
		}
		if city != "" && !strings.EqualFold(h.City, city) {
			continue
		}
		out = append(out, h)
	}
	return out, nil
}

// Upsert is not supported on a file catalog
func (a *FileHotelAdapter) Upsert(context.Context, []*entities.Hotel) error {
	return apperrors.NewValidationError("file catalog is read-only")
}

// FileRestaurantAdapter serves restaurants from a JSON file loaded at construction
type FileRestaurantAdapter struct {
	restaurants []*entities.Restaurant
}

var _ repositories.RestaurantRepository = (*FileRestaurantAdapter)(nil)

// NewFileRestaurantAdapter loads path and returns an adapter over its contents
func NewFileRestaurantAdapter(path string) (*FileRestaurantAdapter, error) {
	restaurants, err := LoadRestaurants(path)
	if err != nil {
		return nil, err
	}
	return NewStaticRestaurantAdapter(restaurants), nil
}

// NewStaticRestaurantAdapter serves an in-memory batch
func NewStaticRestaurantAdapter(restaurants []*entities.Restaurant) *FileRestaurantAdapter {
	sorted := slices.Clone(restaurants)
	sorted = slices.DeleteFunc(sorted, func(r *entities.Restaurant) bool { return r == nil })
	slices.SortStableFunc(sorted, func(a, b *entities.Restaurant) int { return strings.Compare(a.ID, b.ID) })
	return &FileRestaurantAdapter{restaurants: sorted}
}

// Search returns restaurants matching every non-empty query field, ignoring case
func (a *FileRestaurantAdapter) Search(_ context.Context, query entities.RestaurantQuery) ([]*entities.Restaurant, error) {
	limit := query.EffectiveLimit()

	out := []*entities.Restaurant{}
	for _, r := range a.restaurants {
		if len(out) == limit {
			break
		}
		if !fieldMatches(r.Airport, query.Airport) ||
			!fieldMatches(r.Category, query.Category) ||
			!fieldMatches(r.Cuisine, query.Cuisine) ||
			!fieldMatches(r.FoodType, query.Diet) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

// Upsert is not supported on a file catalog
func (a *FileRestaurantAdapter) Upsert(context.Context, []*entities.Restaurant) error {
	return apperrors.NewValidationError("file catalog is read-only")
}

func fieldMatches(value, want string) bool {
	want = strings.TrimSpace(want)
	return want == "" || strings.EqualFold(value, want)
}
