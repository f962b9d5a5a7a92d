package typesense

import (
	"context"
	"fmt"
	"time"

	"github.com/tripwise/backend/internal/infrastructure/observability"
	"github.com/tripwise/backend/pkg/config"
	"github.com/tripwise/backend/pkg/retry"
	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"
)

const (
	HotelsCollection      = "hotels"
	RestaurantsCollection = "restaurants"
)

// Client represents a Typesense client
type Client struct {
	client *typesense.Client
}

// NewClient creates a new Typesense client with exponential backoff retry
func NewClient(cfg *config.TypesenseConfig) (*Client, error) {
	client := typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)

	logger := observability.GetLogger()
	err := retry.Do(
		context.Background(),
		retry.DefaultConfig(),
		"Typesense",
		func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			_, err := client.Health(ctx, 2*time.Second)
			return err
		},
		retry.LogAttempts(*logger, "typesense"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Typesense after retries: %w", err)
	}

	logger.Info().Str("url", cfg.URL).Msg("connected to Typesense")
	return &Client{client: client}, nil
}

// Client returns the underlying Typesense client
func (c *Client) Client() *typesense.Client {
	return c.client
}

// InitSchema ensures the hotels and restaurants collections exist
func (c *Client) InitSchema(ctx context.Context) error {
	collections, err := c.client.Collections().Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve collections: %w", err)
	}

	existing := make(map[string]bool, len(collections))
	for _, col := range collections {
		existing[col.Name] = true
	}

	logger := observability.GetLogger()
	for _, schema := range []*api.CollectionSchema{HotelsSchema(), RestaurantsSchema()} {
		if existing[schema.Name] {
			logger.Debug().Str("collection", schema.Name).Msg("typesense collection already exists")
			continue
		}
		if _, err := c.client.Collections().Create(ctx, schema); err != nil {
			return fmt.Errorf("failed to create collection %s: %w", schema.Name, err)
		}
		logger.Info().Str("collection", schema.Name).Msg("created typesense collection")
	}

	return nil
}

// HotelsSchema describes the hotels collection
func HotelsSchema() *api.CollectionSchema {
	return &api.CollectionSchema{
		Name: HotelsCollection,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "city", Type: "string", Facet: pointer.True()},
			{Name: "city_key", Type: "string"},
			{Name: "stars", Type: "int32", Optional: pointer.True()},
			{Name: "rating", Type: "float", Optional: pointer.True()},
			{Name: "reviews_count", Type: "int32", Optional: pointer.True()},
			{Name: "distance_km_from_airport", Type: "float", Optional: pointer.True()},
			{Name: "price_per_night", Type: "float", Facet: pointer.True()},
			{Name: "amenities", Type: "string[]", Facet: pointer.True(), Optional: pointer.True()},
			{Name: "cancellation_policy", Type: "string", Facet: pointer.True()},
			{Name: "payment_options", Type: "string[]", Facet: pointer.True(), Optional: pointer.True()},
			{Name: "room_occupancy_max", Type: "int32", Optional: pointer.True()},
			{Name: "image_url", Type: "string", Optional: pointer.True()},
			{Name: "updated_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("updated_at"),
	}
}

// RestaurantsSchema describes the restaurants collection
func RestaurantsSchema() *api.CollectionSchema {
	return &api.CollectionSchema{
		Name: RestaurantsCollection,
		Fields: []api.Field{
			{Name: "id", Type: "string"},
			{Name: "name", Type: "string"},
			{Name: "airport", Type: "string", Facet: pointer.True()},
			{Name: "terminal", Type: "int32", Facet: pointer.True()},
			{Name: "category", Type: "string", Facet: pointer.True()},
			{Name: "cuisine", Type: "string", Facet: pointer.True()},
			{Name: "food_type", Type: "string", Facet: pointer.True()},
			{Name: "airport_key", Type: "string"},
			{Name: "category_key", Type: "string"},
			{Name: "cuisine_key", Type: "string"},
			{Name: "food_type_key", Type: "string"},
			{Name: "distance", Type: "float[]", Optional: pointer.True()},
			{Name: "hours", Type: "string", Optional: pointer.True()},
			{Name: "rating", Type: "float", Optional: pointer.True()},
			{Name: "prep_time", Type: "float", Optional: pointer.True()},
			{Name: "avg_meal_cost", Type: "float", Facet: pointer.True()},
			{Name: "review_count", Type: "int32", Optional: pointer.True()},
			{Name: "link", Type: "string", Optional: pointer.True()},
			{Name: "updated_at", Type: "int64"},
		},
		DefaultSortingField: pointer.String("updated_at"),
	}
}

// Upsert indexes a single document into collection
func (c *Client) Upsert(ctx context.Context, collection string, document map[string]interface{}) error {
	_, err := c.client.Collection(collection).Documents().Upsert(ctx, document)
	return err
}

// Search runs a filtered wildcard search and returns the raw documents
func (c *Client) Search(ctx context.Context, collection, filterBy string, limit int) ([]map[string]interface{}, error) {
	params := &api.SearchCollectionParams{
		Q:       pointer.String("*"),
		QueryBy: pointer.String("name"),
		PerPage: pointer.Int(limit),
		SortBy:  pointer.String("updated_at:desc"),
	}
	if filterBy != "" {
		params.FilterBy = pointer.String(filterBy)
	}

	result, err := c.client.Collection(collection).Documents().Search(ctx, params)
	if err != nil {
		return nil, err
	}
	if result.Hits == nil {
		return []map[string]interface{}{}, nil
	}

	docs := make([]map[string]interface{}, 0, len(*result.Hits))
	for _, hit := range *result.Hits {
		if hit.Document != nil {
			docs = append(docs, *hit.Document)
		}
	}
	return docs, nil
}
