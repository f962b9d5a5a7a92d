package entities

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ConstraintSet is the user's filter preferences for one search.
// A nil field places no constraint.
type ConstraintSet struct {
	PriceMin     *float64 `json:"price_min,omitempty" validate:"omitempty,gte=0"`
	PriceMax     *float64 `json:"price_max,omitempty" validate:"omitempty,gte=0"`
	MinRating    *float64 `json:"min_rating,omitempty" validate:"omitempty,gte=1,lte=5"`
	MaxDistance  *float64 `json:"max_distance,omitempty" validate:"omitempty,gte=0"`
	MaxPrepTime  *float64 `json:"max_prep_time,omitempty" validate:"omitempty,gte=0"`
	WantsOpenNow *bool    `json:"wants_open_now,omitempty"`
	NameQuery    string   `json:"name_query,omitempty" validate:"max=200"`

	CancellationPolicy *CancellationPolicy `json:"cancellation_policy,omitempty" validate:"omitempty,oneof=Any 24h 48h Free"`
	PaymentMethod      *PaymentMethod      `json:"payment_method,omitempty" validate:"omitempty,oneof=Any Online In-person"`
	Travellers         *int                `json:"travellers,omitempty" validate:"omitempty,gte=1,lte=20"`
}

// SortKey names an attribute results can be ordered by
type SortKey string

const (
	SortKeyPrice    SortKey = "price"
	SortKeyDistance SortKey = "distance"
	SortKeyDuration SortKey = "duration"
	SortKeyRating   SortKey = "rating"
)

// SortDirection orders a key. SortNone leaves the key unused.
type SortDirection int

const (
	SortDescending SortDirection = -1
	SortNone       SortDirection = 0
	SortAscending  SortDirection = 1
)

// ParseSortDirection accepts "asc", "desc", "none" and their numeric forms
func ParseSortDirection(s string) (SortDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "asc", "ascending", "1":
		return SortAscending, nil
	case "desc", "descending", "-1":
		return SortDescending, nil
	case "none", "", "0":
		return SortNone, nil
	}
	return SortNone, fmt.Errorf("unknown sort direction %q", s)
}

// String returns the wire name of the direction
func (d SortDirection) String() string {
	switch d {
	case SortAscending:
		return "asc"
	case SortDescending:
		return "desc"
	case SortNone:
		return "none"
	}
	return fmt.Sprintf("SortDirection(%d)", int(d))
}

// UnmarshalJSON accepts either the numeric or the named form
func (d *SortDirection) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*d = SortDirection(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("sort direction must be a number or a string: %w", err)
	}
	parsed, err := ParseSortDirection(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// SortField is one (key, direction) entry of a SortSpec
type SortField struct {
	Key       SortKey       `json:"key" validate:"required,oneof=price distance duration rating"`
	Direction SortDirection `json:"direction" validate:"oneof=-1 0 1"`
}

// SortSpec lists sort keys in priority order
type SortSpec []SortField

// Active returns the fields whose direction is not SortNone, in order
func (s SortSpec) Active() []SortField {
	active := make([]SortField, 0, len(s))
	for _, f := range s {
		if f.Direction != SortNone {
			active = append(active, f)
		}
	}
	return active
}

// ParseSortSpec reads the query form "price:asc,rating:desc".
// A key without a direction sorts ascending.
func ParseSortSpec(s string) (SortSpec, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var spec SortSpec
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, dir, hasDir := strings.Cut(part, ":")
		field := SortField{Key: SortKey(strings.ToLower(strings.TrimSpace(key))), Direction: SortAscending}
		if hasDir {
			d, err := ParseSortDirection(dir)
			if err != nil {
				return nil, err
			}
			field.Direction = d
		}
		spec = append(spec, field)
	}
	return spec, nil
}

// String renders the active fields in the form ParseSortSpec reads
func (s SortSpec) String() string {
	parts := make([]string, 0, len(s))
	for _, f := range s.Active() {
		parts = append(parts, fmt.Sprintf("%s:%s", f.Key, f.Direction))
	}
	return strings.Join(parts, ",")
}
