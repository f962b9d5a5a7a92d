package ranking

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/tripwise/backend/internal/domain/entities"
	apperrors "github.com/tripwise/backend/pkg/errors"
	"github.com/tripwise/backend/pkg/utils"
)

// NormalizeResult is the valid part of a raw batch plus what was dropped from it
type NormalizeResult struct {
	Candidates      []entities.Candidate
	PeerMedianPrice float64
	Dropped         []*apperrors.AppError
}

// Normalize validates raw candidates of the given kind and converts them into
// canonical records. Invalid candidates are dropped and reported, never fatal.
// A raw candidate with no kind is taken to be of the batch kind.
func Normalize(kind entities.CandidateKind, raws []entities.RawCandidate) NormalizeResult {
	res := NormalizeResult{
		Candidates: make([]entities.Candidate, 0, len(raws)),
	}
	seen := make(map[string]struct{}, len(raws))

	for i := range raws {
		raw := &raws[i]
		id := strings.TrimSpace(raw.ID)
		if id == "" {
			res.Dropped = append(res.Dropped, apperrors.NewInvalidCandidateError(fmt.Sprintf("#%d", i), "id is required"))
			continue
		}
		if _, dup := seen[id]; dup {
			res.Dropped = append(res.Dropped, apperrors.NewInvalidCandidateError(id, "duplicate id in batch"))
			continue
		}
		if err := checkRaw(kind, id, raw); err != nil {
			res.Dropped = append(res.Dropped, err)
			continue
		}
		seen[id] = struct{}{}
		res.Candidates = append(res.Candidates, canonical(kind, id, raw))
	}

	res.PeerMedianPrice = PeerMedianPrice(res.Candidates)
	return res
}

func checkRaw(kind entities.CandidateKind, id string, raw *entities.RawCandidate) *apperrors.AppError {
	if raw.Kind != "" && raw.Kind != kind {
		return apperrors.NewInvalidCandidateError(id, fmt.Sprintf("kind %q does not match batch kind %q", raw.Kind, kind))
	}

	switch {
	case raw.Price == nil:
		return apperrors.NewInvalidCandidateError(id, "price is required")
	case !finite(*raw.Price):
		return apperrors.NewInvalidCandidateError(id, "price must be a finite number")
	case *raw.Price < 0:
		return apperrors.NewInvalidCandidateError(id, "price must be non-negative")
	}

	if raw.Rating != nil && (math.IsNaN(*raw.Rating) || *raw.Rating < 0 || *raw.Rating > 5) {
		return apperrors.NewInvalidCandidateError(id, "rating must be between 0 and 5")
	}
	if raw.DistanceKm != nil && (!finite(*raw.DistanceKm) || *raw.DistanceKm < 0) {
		return apperrors.NewInvalidCandidateError(id, "distance must be a non-negative number")
	}
	if raw.PrepTimeMinutes != nil && (!finite(*raw.PrepTimeMinutes) || *raw.PrepTimeMinutes < 0) {
		return apperrors.NewInvalidCandidateError(id, "prep time must be a non-negative number")
	}
	return nil
}

// canonical copies every pointer and slice so candidates never alias the caller's input.
func canonical(kind entities.CandidateKind, id string, raw *entities.RawCandidate) entities.Candidate {
	c := entities.Candidate{
		ID:                 id,
		Kind:               kind,
		Name:               strings.TrimSpace(raw.Name),
		Rating:             clone(raw.Rating),
		ReviewCount:        clone(raw.ReviewCount),
		DistanceKm:         clone(raw.DistanceKm),
		Price:              *raw.Price,
		PrepTimeMinutes:    clone(raw.PrepTimeMinutes),
		IsOpenNow:          clone(raw.IsOpenNow),
		CancellationPolicy: raw.CancellationPolicy,
		MaxOccupancy:       clone(raw.MaxOccupancy),
		Stars:              clone(raw.Stars),
		ImageURL:           raw.ImageURL,
	}
	if len(raw.Amenities) > 0 {
		c.Amenities = append([]string(nil), raw.Amenities...)
	}
	if len(raw.PaymentOptions) > 0 {
		c.PaymentOptions = append([]entities.PaymentMethod(nil), raw.PaymentOptions...)
	}
	if kind == entities.CandidateKindLodging {
		c.FeatureCount = utils.DistinctTags(c.Amenities)
	}
	return c
}

// PeerMedianPrice returns the median price of the batch, averaging the two
// middle prices for an even batch. An empty batch has median 0.
func PeerMedianPrice(cands []entities.Candidate) float64 {
	if len(cands) == 0 {
		return 0
	}
	prices := make([]float64, len(cands))
	for i := range cands {
		prices[i] = cands[i].Price
	}
	sort.Float64s(prices)

	mid := len(prices) / 2
	if len(prices)%2 == 1 {
		return prices[mid]
	}
	return (prices[mid-1] + prices[mid]) / 2
}

func clone[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
