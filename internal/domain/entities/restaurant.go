package entities

import (
	"strings"
	"time"
)

// Restaurant is an airport dining record as stored in the catalog.
// Distance holds one walking distance per terminal, indexed from terminal 1.
type Restaurant struct {
	ID          string    `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Airport     string    `json:"airport" db:"airport"`
	Terminal    int       `json:"terminal" db:"terminal"`
	Category    string    `json:"category" db:"category"`
	Cuisine     string    `json:"cuisine" db:"cuisine"`
	FoodType    string    `json:"food_type" db:"food_type"`
	Distance    []float64 `json:"distance" db:"-"`
	Hours       string    `json:"hours" db:"hours"`
	Rating      *float64  `json:"rating,omitempty" db:"rating"`
	PrepTime    *float64  `json:"prep_time,omitempty" db:"prep_time"`
	AvgMealCost float64   `json:"avg_meal_cost" db:"avg_meal_cost"`
	ReviewCount *int      `json:"review_count,omitempty" db:"review_count"`
	Link        string    `json:"link,omitempty" db:"link"`
	UpdatedAt   time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// Raw maps the restaurant into the ranking input shape as seen from terminal at now.
// A terminal outside the distance table yields an absent distance.
func (r *Restaurant) Raw(terminal int, now time.Time) RawCandidate {
	price := r.AvgMealCost
	raw := RawCandidate{
		ID:              r.ID,
		Kind:            CandidateKindDining,
		Name:            r.Name,
		Rating:          r.Rating,
		ReviewCount:     r.ReviewCount,
		Price:           &price,
		PrepTimeMinutes: r.PrepTime,
		IsOpenNow:       r.OpenAt(now),
		ImageURL:        r.Link,
	}
	if terminal >= 1 && terminal <= len(r.Distance) {
		d := r.Distance[terminal-1]
		raw.DistanceKm = &d
	}
	return raw
}

// OpenAt reports whether the restaurant is open at the wall-clock time of t.
// It returns nil when the opening hours cannot be read.
func (r *Restaurant) OpenAt(t time.Time) *bool {
	open, closing, ok := ParseHours(r.Hours)
	if !ok {
		return nil
	}
	minute := t.Hour()*60 + t.Minute()

	var isOpen bool
	switch {
	case open == closing:
		isOpen = true
	case open < closing:
		isOpen = open <= minute && minute <= closing
	default:
		// window wraps past midnight
		isOpen = minute >= open || minute <= closing
	}
	return &isOpen
}

// ParseHours reads an "HH:MM-HH:MM" window into minutes after midnight.
func ParseHours(hours string) (open, closing int, ok bool) {
	from, to, found := strings.Cut(strings.TrimSpace(hours), "-")
	if !found {
		return 0, 0, false
	}
	open, ok = parseClock(from)
	if !ok {
		return 0, 0, false
	}
	closing, ok = parseClock(to)
	if !ok {
		return 0, 0, false
	}
	return open, closing, true
}

func parseClock(s string) (int, bool) {
	t, err := time.Parse("15:04", strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return t.Hour()*60 + t.Minute(), true
}

// RestaurantsToRaw maps a catalog batch into ranking input for one terminal
func RestaurantsToRaw(restaurants []*Restaurant, terminal int, now time.Time) []RawCandidate {
	raws := make([]RawCandidate, 0, len(restaurants))
	for _, r := range restaurants {
		if r == nil {
			continue
		}
		raws = append(raws, r.Raw(terminal, now))
	}
	return raws
}
