package entities

import (
	"fmt"
	"strings"
)

// DefaultCatalogLimit caps a catalog fetch when the caller gives no limit
const DefaultCatalogLimit = 500

// HotelQuery holds the primary fetch criteria for lodging.
// Everything finer grained is applied by the ranking engine.
type HotelQuery struct {
	City  string `json:"city"`
	Limit int    `json:"limit,omitempty"`
}

// EffectiveLimit returns the limit with the default applied
func (q HotelQuery) EffectiveLimit() int {
	if q.Limit <= 0 {
		return DefaultCatalogLimit
	}
	return q.Limit
}

// CacheKey identifies the fetch in the catalog cache
func (q HotelQuery) CacheKey() string {
	return fmt.Sprintf("catalog:%s:city=%s:limit=%d", CandidateKindLodging, strings.ToLower(q.City), q.EffectiveLimit())
}

// RestaurantQuery holds the primary fetch criteria for dining.
// Empty string fields match everything.
type RestaurantQuery struct {
	Airport  string `json:"airport"`
	Terminal int    `json:"terminal"`
	Category string `json:"category,omitempty"`
	Cuisine  string `json:"cuisine,omitempty"`
	Diet     string `json:"diet,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// EffectiveLimit returns the limit with the default applied
func (q RestaurantQuery) EffectiveLimit() int {
	if q.Limit <= 0 {
		return DefaultCatalogLimit
	}
	return q.Limit
}

// CacheKey identifies the fetch in the catalog cache.
// The terminal is left out since it only selects a distance at ranking time.
func (q RestaurantQuery) CacheKey() string {
	return fmt.Sprintf("catalog:%s:airport=%s:category=%s:cuisine=%s:diet=%s:limit=%d",
		CandidateKindDining,
		strings.ToLower(q.Airport),
		strings.ToLower(q.Category),
		strings.ToLower(q.Cuisine),
		strings.ToLower(q.Diet),
		q.EffectiveLimit(),
	)
}
