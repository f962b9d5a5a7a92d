package ranking

import (
	"strings"

	"github.com/tripwise/backend/internal/domain/entities"
	"github.com/tripwise/backend/pkg/utils"
)

// Matches reports whether c satisfies every active constraint in k.
// An absent candidate value fails any active constraint on it.
func Matches(c *entities.Candidate, k *entities.ConstraintSet) bool {
	if k.PriceMin != nil && c.Price < *k.PriceMin {
		return false
	}
	if k.PriceMax != nil && c.Price > *k.PriceMax {
		return false
	}
	if k.MinRating != nil && (c.Rating == nil || *c.Rating < *k.MinRating) {
		return false
	}
	if k.MaxDistance != nil && (c.DistanceKm == nil || *c.DistanceKm > *k.MaxDistance) {
		return false
	}
	if k.MaxPrepTime != nil && (c.PrepTimeMinutes == nil || *c.PrepTimeMinutes > *k.MaxPrepTime) {
		return false
	}
	if k.WantsOpenNow != nil && *k.WantsOpenNow && (c.IsOpenNow == nil || !*c.IsOpenNow) {
		return false
	}
	if q := strings.TrimSpace(k.NameQuery); q != "" && !utils.ContainsFold(c.Name, q) {
		return false
	}
	if k.CancellationPolicy != nil && *k.CancellationPolicy != entities.CancellationAny &&
		c.CancellationPolicy != *k.CancellationPolicy {
		return false
	}
	if k.PaymentMethod != nil && *k.PaymentMethod != entities.PaymentAny && !c.AcceptsPayment(*k.PaymentMethod) {
		return false
	}
	if k.Travellers != nil && (c.MaxOccupancy == nil || *c.MaxOccupancy < *k.Travellers) {
		return false
	}
	return true
}

// Filter returns, in input order, the candidates that satisfy k
func Filter(cands []entities.Candidate, k entities.ConstraintSet) []entities.Candidate {
	out := make([]entities.Candidate, 0, len(cands))
	for i := range cands {
		if Matches(&cands[i], &k) {
			out = append(out, cands[i])
		}
	}
	return out
}
