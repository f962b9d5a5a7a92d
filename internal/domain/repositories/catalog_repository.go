package repositories

import (
	"context"

	"github.com/tripwise/backend/internal/domain/entities"
)

// HotelRepository defines the catalog operations for lodging records
type HotelRepository interface {
	// Search returns the hotels matching the primary fetch criteria
	Search(ctx context.Context, query entities.HotelQuery) ([]*entities.Hotel, error)

	// Upsert inserts or replaces hotels by id
	Upsert(ctx context.Context, hotels []*entities.Hotel) error
}

// RestaurantRepository defines the catalog operations for dining records
type RestaurantRepository interface {
	Search(ctx context.Context, query entities.RestaurantQuery) ([]*entities.Restaurant, error)
	Upsert(ctx context.Context, restaurants []*entities.Restaurant) error
}
