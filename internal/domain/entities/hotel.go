package entities

import (
	"time"
)

// Hotel is a lodging record as stored in the catalog and exchanged with hotel feeds
type Hotel struct {
	ID                    string             `json:"id" db:"id"`
	Name                  string             `json:"name" db:"name"`
	City                  string             `json:"city" db:"city"`
	Stars                 *int               `json:"stars,omitempty" db:"stars"`
	Rating                *float64           `json:"rating,omitempty" db:"rating"`
	ReviewsCount          *int               `json:"reviewsCount,omitempty" db:"reviews_count"`
	DistanceKmFromAirport *float64           `json:"distanceKmFromAirport,omitempty" db:"distance_km_from_airport"`
	PricePerNight         float64            `json:"pricePerNight" db:"price_per_night"`
	Amenities             []string           `json:"amenities" db:"-"`
	CancellationPolicy    CancellationPolicy `json:"cancellationPolicy" db:"cancellation_policy"`
	PaymentOptions        []PaymentMethod    `json:"paymentOptions" db:"-"`
	RoomOccupancyMax      *int               `json:"roomOccupancyMax,omitempty" db:"room_occupancy_max"`
	ImageURL              *string            `json:"imageUrl,omitempty" db:"image_url"`
	UpdatedAt             time.Time          `json:"updatedAt,omitempty" db:"updated_at"`
}

// Raw maps the hotel into the ranking input shape
func (h *Hotel) Raw() RawCandidate {
	price := h.PricePerNight
	raw := RawCandidate{
		ID:                 h.ID,
		Kind:               CandidateKindLodging,
		Name:               h.Name,
		Rating:             h.Rating,
		ReviewCount:        h.ReviewsCount,
		DistanceKm:         h.DistanceKmFromAirport,
		Price:              &price,
		Amenities:          append([]string(nil), h.Amenities...),
		CancellationPolicy: h.CancellationPolicy,
		PaymentOptions:     append([]PaymentMethod(nil), h.PaymentOptions...),
		MaxOccupancy:       h.RoomOccupancyMax,
		Stars:              h.Stars,
	}
	if h.ImageURL != nil {
		raw.ImageURL = *h.ImageURL
	}
	return raw
}

// HotelsToRaw maps a catalog batch into ranking input
func HotelsToRaw(hotels []*Hotel) []RawCandidate {
	raws := make([]RawCandidate, 0, len(hotels))
	for _, h := range hotels {
		if h == nil {
			continue
		}
		raws = append(raws, h.Raw())
	}
	return raws
}
