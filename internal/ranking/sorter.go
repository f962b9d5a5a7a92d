package ranking

import (
	"cmp"
	"slices"
	"strings"

	"github.com/tripwise/backend/internal/domain/entities"
)

// Sort returns a new slice ordered by the active keys of spec, highest score
// first when no key is active, and by ascending id as the final tie-break.
// Candidates missing a sort value go last for that key whatever the direction.
func Sort(cands []entities.Candidate, spec entities.SortSpec, scores Scores) []entities.Candidate {
	out := slices.Clone(cands)
	if out == nil {
		out = []entities.Candidate{}
	}
	active := spec.Active()

	slices.SortFunc(out, func(a, b entities.Candidate) int {
		if len(active) == 0 {
			if c := compareScores(a.ID, b.ID, scores); c != 0 {
				return c
			}
		}
		for _, f := range active {
			if c := compareField(&a, &b, f); c != 0 {
				return c
			}
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

func compareScores(a, b string, scores Scores) int {
	sa, okA := scores[a]
	sb, okB := scores[b]
	if c := compareAbsent(okA, okB); c != 0 || !okA {
		return c
	}
	return cmp.Compare(sb, sa)
}

func compareField(a, b *entities.Candidate, f entities.SortField) int {
	va, okA := sortValue(a, f.Key)
	vb, okB := sortValue(b, f.Key)
	if c := compareAbsent(okA, okB); c != 0 || !okA {
		return c
	}
	c := cmp.Compare(va, vb)
	if f.Direction == entities.SortDescending {
		return -c
	}
	return c
}

// compareAbsent orders present before absent. Both absent compare equal.
func compareAbsent(okA, okB bool) int {
	switch {
	case okA == okB:
		return 0
	case okA:
		return -1
	default:
		return 1
	}
}

func sortValue(c *entities.Candidate, key entities.SortKey) (float64, bool) {
	switch key {
	case entities.SortKeyPrice:
		return c.Price, true
	case entities.SortKeyDistance:
		return deref(c.DistanceKm)
	case entities.SortKeyDuration:
		return deref(c.PrepTimeMinutes)
	case entities.SortKeyRating:
		return deref(c.Rating)
	}
	return 0, false
}

func deref(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}
