package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/tripwise/backend/internal/domain/entities"
	"github.com/tripwise/backend/internal/domain/repositories"
	tsclient "github.com/tripwise/backend/internal/infrastructure/clients/typesense"
	apperrors "github.com/tripwise/backend/pkg/errors"
)

// DocumentStore is the part of the Typesense client the catalog adapters use
type DocumentStore interface {
	Upsert(ctx context.Context, collection string, document map[string]interface{}) error
	Search(ctx context.Context, collection, filterBy string, limit int) ([]map[string]interface{}, error)
}

var _ DocumentStore = (*tsclient.Client)(nil)

// TypesenseHotelAdapter implements HotelRepository on the hotels collection
type TypesenseHotelAdapter struct {
	store DocumentStore
}

var _ repositories.HotelRepository = (*TypesenseHotelAdapter)(nil)

// NewTypesenseHotelAdapter creates a new Typesense hotel adapter
func NewTypesenseHotelAdapter(store DocumentStore) *TypesenseHotelAdapter {
	return &TypesenseHotelAdapter{store: store}
}

// Search returns hotels of a city
func (a *TypesenseHotelAdapter) Search(ctx context.Context, query entities.HotelQuery) ([]*entities.Hotel, error) {
	filter := ""
	if city := strings.TrimSpace(query.City); city != "" {
		filter = exactFilter("city_key", strings.ToLower(city))
	}

	docs, err := a.store.Search(ctx, tsclient.HotelsCollection, filter, query.EffectiveLimit())
	if err != nil {
		return nil, apperrors.NewExternalError("failed to search hotels", err)
	}

	hotels := make([]*entities.Hotel, 0, len(docs))
	for _, doc := range docs {
		hotels = append(hotels, HotelFromDocument(doc))
	}
	return hotels, nil
}

// Upsert indexes every hotel, stopping at the first failure
func (a *TypesenseHotelAdapter) Upsert(ctx context.Context, hotels []*entities.Hotel) error {
	for _, h := range hotels {
		if h == nil {
			continue
		}
		if err := a.store.Upsert(ctx, tsclient.HotelsCollection, HotelDocument(h)); err != nil {
			return apperrors.NewExternalError(fmt.Sprintf("failed to index hotel %s", h.ID), err)
		}
	}
	return nil
}

// TypesenseRestaurantAdapter implements RestaurantRepository on the restaurants collection
type TypesenseRestaurantAdapter struct {
	store DocumentStore
}

var _ repositories.RestaurantRepository = (*TypesenseRestaurantAdapter)(nil)

// NewTypesenseRestaurantAdapter creates a new Typesense restaurant adapter
func NewTypesenseRestaurantAdapter(store DocumentStore) *TypesenseRestaurantAdapter {
	return &TypesenseRestaurantAdapter{store: store}
}

// Search returns restaurants matching every non-empty query field
func (a *TypesenseRestaurantAdapter) Search(ctx context.Context, query entities.RestaurantQuery) ([]*entities.Restaurant, error) {
	var clauses []string
	for _, f := range [][2]string{
		{"airport_key", query.Airport},
		{"category_key", query.Category},
		{"cuisine_key", query.Cuisine},
		{"food_type_key", query.Diet},
	} {
		if v := strings.TrimSpace(f[1]); v != "" {
			clauses = append(clauses, exactFilter(f[0], strings.ToLower(v)))
		}
	}

	docs, err := a.store.Search(ctx, tsclient.RestaurantsCollection, strings.Join(clauses, " && "), query.EffectiveLimit())
	if err != nil {
		return nil, apperrors.NewExternalError("failed to search restaurants", err)
	}

	restaurants := make([]*entities.Restaurant, 0, len(docs))
	for _, doc := range docs {
		restaurants = append(restaurants, RestaurantFromDocument(doc))
	}
	return restaurants, nil
}

// Upsert indexes every restaurant, stopping at the first failure
func (a *TypesenseRestaurantAdapter) Upsert(ctx context.Context, restaurants []*entities.Restaurant) error {
	for _, r := range restaurants {
		if r == nil {
			continue
		}
		if err := a.store.Upsert(ctx, tsclient.RestaurantsCollection, RestaurantDocument(r)); err != nil {
			return apperrors.NewExternalError(fmt.Sprintf("failed to index restaurant %s", r.ID), err)
		}
	}
	return nil
}

// exactFilter builds a Typesense exact-match clause. Backticks keep
// commas and spaces in the value from being parsed as syntax.
func exactFilter(field, value string) string {
	return fmt.Sprintf("%s:=`%s`", field, strings.ReplaceAll(value, "`", ""))
}

// HotelDocument maps a hotel to its search document. Absent optionals are left out.
func HotelDocument(h *entities.Hotel) map[string]interface{} {
	doc := map[string]interface{}{
		"id":                  h.ID,
		"name":                h.Name,
		"city":                h.City,
		"city_key":            strings.ToLower(strings.TrimSpace(h.City)),
		"price_per_night":     h.PricePerNight,
		"amenities":           nonNil(h.Amenities),
		"cancellation_policy": string(h.CancellationPolicy),
		"payment_options":     paymentStrings(h.PaymentOptions),
		"updated_at":          updatedAt(h.UpdatedAt),
	}
	putInt(doc, "stars", h.Stars)
	putFloat(doc, "rating", h.Rating)
	putInt(doc, "reviews_count", h.ReviewsCount)
	putFloat(doc, "distance_km_from_airport", h.DistanceKmFromAirport)
	putInt(doc, "room_occupancy_max", h.RoomOccupancyMax)
	if h.ImageURL != nil {
		doc["image_url"] = *h.ImageURL
	}
	return doc
}

// HotelFromDocument maps a search document back to a hotel
func HotelFromDocument(doc map[string]interface{}) *entities.Hotel {
	h := &entities.Hotel{
		ID:                    str(doc, "id"),
		Name:                  str(doc, "name"),
		City:                  str(doc, "city"),
		Stars:                 intPtr(doc, "stars"),
		Rating:                floatPtr(doc, "rating"),
		ReviewsCount:          intPtr(doc, "reviews_count"),
		DistanceKmFromAirport: floatPtr(doc, "distance_km_from_airport"),
		Amenities:             strs(doc, "amenities"),
		CancellationPolicy:    entities.CancellationPolicy(str(doc, "cancellation_policy")),
		RoomOccupancyMax:      intPtr(doc, "room_occupancy_max"),
		UpdatedAt:             unix(doc, "updated_at"),
	}
	if p := floatPtr(doc, "price_per_night"); p != nil {
		h.PricePerNight = *p
	}
	for _, m := range strs(doc, "payment_options") {
		h.PaymentOptions = append(h.PaymentOptions, entities.PaymentMethod(m))
	}
	if v, ok := doc["image_url"].(string); ok {
		h.ImageURL = &v
	}
	return h
}

// RestaurantDocument maps a restaurant to its search document
func RestaurantDocument(r *entities.Restaurant) map[string]interface{} {
	distance := r.Distance
	if distance == nil {
		distance = []float64{}
	}
	doc := map[string]interface{}{
		"id":            r.ID,
		"name":          r.Name,
		"airport":       r.Airport,
		"terminal":      r.Terminal,
		"category":      r.Category,
		"cuisine":       r.Cuisine,
		"food_type":     r.FoodType,
		"airport_key":   strings.ToLower(strings.TrimSpace(r.Airport)),
		"category_key":  strings.ToLower(strings.TrimSpace(r.Category)),
		"cuisine_key":   strings.ToLower(strings.TrimSpace(r.Cuisine)),
		"food_type_key": strings.ToLower(strings.TrimSpace(r.FoodType)),
		"distance":      distance,
		"hours":         r.Hours,
		"avg_meal_cost": r.AvgMealCost,
		"link":          r.Link,
		"updated_at":    updatedAt(r.UpdatedAt),
	}
	putFloat(doc, "rating", r.Rating)
	putFloat(doc, "prep_time", r.PrepTime)
	putInt(doc, "review_count", r.ReviewCount)
	return doc
}

// RestaurantFromDocument maps a search document back to a restaurant
func RestaurantFromDocument(doc map[string]interface{}) *entities.Restaurant {
	r := &entities.Restaurant{
		ID:          str(doc, "id"),
		Name:        str(doc, "name"),
		Airport:     str(doc, "airport"),
		Category:    str(doc, "category"),
		Cuisine:     str(doc, "cuisine"),
		FoodType:    str(doc, "food_type"),
		Hours:       str(doc, "hours"),
		Rating:      floatPtr(doc, "rating"),
		PrepTime:    floatPtr(doc, "prep_time"),
		ReviewCount: intPtr(doc, "review_count"),
		Link:        str(doc, "link"),
		UpdatedAt:   unix(doc, "updated_at"),
	}
	if t := intPtr(doc, "terminal"); t != nil {
		r.Terminal = *t
	}
	if c := floatPtr(doc, "avg_meal_cost"); c != nil {
		r.AvgMealCost = *c
	}
	switch raw := doc["distance"].(type) {
	case []float64:
		r.Distance = append([]float64{}, raw...)
	case []interface{}:
		r.Distance = make([]float64, 0, len(raw))
		for _, v := range raw {
			if f, ok := number(v); ok {
				r.Distance = append(r.Distance, f)
			}
		}
	}
	return r
}

func updatedAt(t time.Time) int64 {
	if t.IsZero() {
		return time.Now().Unix()
	}
	return t.Unix()
}

func putInt(doc map[string]interface{}, key string, v *int) {
	if v != nil {
		doc[key] = *v
	}
}

func putFloat(doc map[string]interface{}, key string, v *float64) {
	if v != nil {
		doc[key] = *v
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func paymentStrings(methods []entities.PaymentMethod) []string {
	out := make([]string, 0, len(methods))
	for _, m := range methods {
		out = append(out, string(m))
	}
	return out
}

func str(doc map[string]interface{}, key string) string {
	v, _ := doc[key].(string)
	return v
}

func strs(doc map[string]interface{}, key string) []string {
	raw, ok := doc[key].([]interface{})
	if !ok {
		if typed, ok := doc[key].([]string); ok {
			return append([]string(nil), typed...)
		}
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// number accepts the numeric shapes a decoded document can hold
func number(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

func floatPtr(doc map[string]interface{}, key string) *float64 {
	f, ok := number(doc[key])
	if !ok {
		return nil
	}
	return &f
}

func intPtr(doc map[string]interface{}, key string) *int {
	f, ok := number(doc[key])
	if !ok {
		return nil
	}
	i := int(f)
	return &i
}

func unix(doc map[string]interface{}, key string) time.Time {
	f, ok := number(doc[key])
	if !ok {
		return time.Time{}
	}
	return time.Unix(int64(f), 0).UTC()
}
