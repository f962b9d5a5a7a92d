package entities

// CandidateKind tells the lodging and dining pipelines apart
type CandidateKind string

const (
	CandidateKindLodging CandidateKind = "lodging"
	CandidateKindDining  CandidateKind = "dining"
)

// Valid reports whether k is a known kind
func (k CandidateKind) Valid() bool {
	return k == CandidateKindLodging || k == CandidateKindDining
}

// CancellationPolicy is the refund rule attached to a lodging offer
type CancellationPolicy string

const (
	CancellationAny  CancellationPolicy = "Any"
	Cancellation24h  CancellationPolicy = "24h"
	Cancellation48h  CancellationPolicy = "48h"
	CancellationFree CancellationPolicy = "Free"
)

// PaymentMethod is a way a lodging offer can be paid for
type PaymentMethod string

const (
	PaymentAny      PaymentMethod = "Any"
	PaymentOnline   PaymentMethod = "Online"
	PaymentInPerson PaymentMethod = "In-person"
)

// RawCandidate is a search result as received from a catalog, before any validation.
// Optional values are pointers so that "absent" never collapses into zero.
type RawCandidate struct {
	ID              string        `json:"id"`
	Kind            CandidateKind `json:"kind,omitempty"`
	Name            string        `json:"name"`
	Rating          *float64      `json:"rating,omitempty"`
	ReviewCount     *int          `json:"review_count,omitempty"`
	DistanceKm      *float64      `json:"distance_km,omitempty"`
	Price           *float64      `json:"price"`
	PrepTimeMinutes *float64      `json:"prep_time_minutes,omitempty"`
	IsOpenNow       *bool         `json:"is_open_now,omitempty"`

	// Lodging attributes
	Amenities          []string           `json:"amenities,omitempty"`
	CancellationPolicy CancellationPolicy `json:"cancellation_policy,omitempty"`
	PaymentOptions     []PaymentMethod    `json:"payment_options,omitempty"`
	MaxOccupancy       *int               `json:"max_occupancy,omitempty"`
	Stars              *int               `json:"stars,omitempty"`
	ImageURL           string             `json:"image_url,omitempty"`
}

// Candidate is a validated search result. Price is always present and non-negative.
type Candidate struct {
	ID              string        `json:"id"`
	Kind            CandidateKind `json:"kind"`
	Name            string        `json:"name"`
	Rating          *float64      `json:"rating,omitempty"`
	ReviewCount     *int          `json:"review_count,omitempty"`
	DistanceKm      *float64      `json:"distance_km,omitempty"`
	Price           float64       `json:"price"`
	PrepTimeMinutes *float64      `json:"prep_time_minutes,omitempty"`
	IsOpenNow       *bool         `json:"is_open_now,omitempty"`

	// FeatureCount is the number of distinct amenities; always 0 for dining.
	FeatureCount int `json:"feature_count"`

	Amenities          []string           `json:"amenities,omitempty"`
	CancellationPolicy CancellationPolicy `json:"cancellation_policy,omitempty"`
	PaymentOptions     []PaymentMethod    `json:"payment_options,omitempty"`
	MaxOccupancy       *int               `json:"max_occupancy,omitempty"`
	Stars              *int               `json:"stars,omitempty"`
	ImageURL           string             `json:"image_url,omitempty"`
}

// AcceptsPayment reports whether m is one of the candidate's payment options
func (c *Candidate) AcceptsPayment(m PaymentMethod) bool {
	for _, opt := range c.PaymentOptions {
		if opt == m {
			return true
		}
	}
	return false
}
