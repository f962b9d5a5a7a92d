package ranking

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripwise/backend/internal/domain/entities"
)

func TestFilter_NoConstraintsIsIdentity(t *testing.T) {
	cands := []entities.Candidate{lodging("a", 10), lodging("b", 20)}
	assert.Equal(t, cands, Filter(cands, entities.ConstraintSet{}))
}

func TestFilter_AbsentRatingFailsMinRating(t *testing.T) {
	rated := lodging("rated", 100)
	rated.Rating = ptr(4.2)
	unrated := lodging("unrated", 100)

	out := Filter([]entities.Candidate{rated, unrated}, entities.ConstraintSet{MinRating: ptr(4.0)})
	assert.Equal(t, []string{"rated"}, ids(out))
}

func TestFilter_OpenNow(t *testing.T) {
	open := dining("open", 10)
	open.IsOpenNow = ptr(true)
	closed := dining("closed", 10)
	closed.IsOpenNow = ptr(false)
	unknown := dining("unknown", 10)
	all := []entities.Candidate{open, closed, unknown}

	assert.Equal(t, []string{"open"}, ids(Filter(all, entities.ConstraintSet{WantsOpenNow: ptr(true)})))
	assert.Equal(t, []string{"open", "closed", "unknown"}, ids(Filter(all, entities.ConstraintSet{})))
	assert.Equal(t, []string{"open", "closed", "unknown"}, ids(Filter(all, entities.ConstraintSet{WantsOpenNow: ptr(false)})))
}

func TestFilter_DistanceAndPrepTime(t *testing.T) {
	near := dining("near", 10)
	near.DistanceKm = ptr(0.5)
	near.PrepTimeMinutes = ptr(6.0)
	far := dining("far", 10)
	far.DistanceKm = ptr(3.2)
	far.PrepTimeMinutes = ptr(20.0)
	unknown := dining("unknown", 10)
	all := []entities.Candidate{near, far, unknown}

	assert.Equal(t, []string{"near"}, ids(Filter(all, entities.ConstraintSet{MaxDistance: ptr(1.0)})))
	assert.Equal(t, []string{"near"}, ids(Filter(all, entities.ConstraintSet{MaxPrepTime: ptr(10.0)})))
	assert.Equal(t, []string{"near", "far"}, ids(Filter(all, entities.ConstraintSet{MaxDistance: ptr(3.2)})))
}

func TestFilter_PriceRangeIsInclusive(t *testing.T) {
	all := []entities.Candidate{lodging("a", 99), lodging("b", 100), lodging("c", 150), lodging("d", 151)}
	out := Filter(all, entities.ConstraintSet{PriceMin: ptr(100.0), PriceMax: ptr(150.0)})
	assert.Equal(t, []string{"b", "c"}, ids(out))
}

func TestFilter_NameQueryIsCaseInsensitiveSubstring(t *testing.T) {
	a := lodging("a", 10)
	a.Name = "Airport Inn"
	b := lodging("b", 10)
	b.Name = "Transit Lodge"

	out := Filter([]entities.Candidate{a, b}, entities.ConstraintSet{NameQuery: "  PORT "})
	assert.Equal(t, []string{"a"}, ids(out))
}

func TestFilter_CancellationAndPayment(t *testing.T) {
	free := lodging("free", 100)
	free.CancellationPolicy = entities.CancellationFree
	free.PaymentOptions = []entities.PaymentMethod{entities.PaymentOnline, entities.PaymentInPerson}
	strict := lodging("strict", 100)
	strict.CancellationPolicy = entities.Cancellation24h
	strict.PaymentOptions = []entities.PaymentMethod{entities.PaymentOnline}
	all := []entities.Candidate{free, strict}

	anyPolicy := entities.CancellationAny
	freePolicy := entities.CancellationFree
	inPerson := entities.PaymentInPerson
	anyPay := entities.PaymentAny

	assert.Equal(t, []string{"free", "strict"}, ids(Filter(all, entities.ConstraintSet{CancellationPolicy: &anyPolicy})))
	assert.Equal(t, []string{"free"}, ids(Filter(all, entities.ConstraintSet{CancellationPolicy: &freePolicy})))
	assert.Equal(t, []string{"free"}, ids(Filter(all, entities.ConstraintSet{PaymentMethod: &inPerson})))
	assert.Equal(t, []string{"free", "strict"}, ids(Filter(all, entities.ConstraintSet{PaymentMethod: &anyPay})))
}

func TestFilter_Travellers(t *testing.T) {
	small := lodging("small", 100)
	small.MaxOccupancy = ptr(2)
	big := lodging("big", 100)
	big.MaxOccupancy = ptr(4)
	unknown := lodging("unknown", 100)

	out := Filter([]entities.Candidate{small, big, unknown}, entities.ConstraintSet{Travellers: ptr(3)})
	assert.Equal(t, []string{"big"}, ids(out))
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	cands := []entities.Candidate{lodging("a", 10), lodging("b", 20), lodging("c", 30)}
	before := append([]entities.Candidate(nil), cands...)

	_ = Filter(cands, entities.ConstraintSet{PriceMax: ptr(15.0)})
	assert.Equal(t, before, cands)
}

// satisfies restates every predicate independently of Matches.
func satisfies(c entities.Candidate, k entities.ConstraintSet) bool {
	ok := true
	if k.PriceMin != nil {
		ok = ok && c.Price >= *k.PriceMin
	}
	if k.PriceMax != nil {
		ok = ok && c.Price <= *k.PriceMax
	}
	if k.MinRating != nil {
		ok = ok && c.Rating != nil && *c.Rating >= *k.MinRating
	}
	if k.MaxDistance != nil {
		ok = ok && c.DistanceKm != nil && *c.DistanceKm <= *k.MaxDistance
	}
	if k.MaxPrepTime != nil {
		ok = ok && c.PrepTimeMinutes != nil && *c.PrepTimeMinutes <= *k.MaxPrepTime
	}
	if k.WantsOpenNow != nil && *k.WantsOpenNow {
		ok = ok && c.IsOpenNow != nil && *c.IsOpenNow
	}
	if k.NameQuery != "" {
		ok = ok && strings.Contains(strings.ToLower(c.Name), strings.ToLower(k.NameQuery))
	}
	if k.CancellationPolicy != nil && *k.CancellationPolicy != entities.CancellationAny {
		ok = ok && c.CancellationPolicy == *k.CancellationPolicy
	}
	if k.PaymentMethod != nil && *k.PaymentMethod != entities.PaymentAny {
		ok = ok && slices.Contains(c.PaymentOptions, *k.PaymentMethod)
	}
	if k.Travellers != nil {
		ok = ok && c.MaxOccupancy != nil && *c.MaxOccupancy >= *k.Travellers
	}
	return ok
}

func TestFilter_Soundness(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 1))
	names := []string{"Waffle Hub", "Burger Barn", "Panda Express", "Tim Hortons", "Sushi Bar"}
	maybe := func() bool { return rng.IntN(3) > 0 }

	for round := 0; round < 300; round++ {
		cands := make([]entities.Candidate, 40)
		for i := range cands {
			c := dining(fmt.Sprintf("r%02d", i), float64(rng.IntN(60)))
			c.Name = names[rng.IntN(len(names))]
			if maybe() {
				c.Rating = ptr(float64(rng.IntN(51)) / 10)
			}
			if maybe() {
				c.DistanceKm = ptr(float64(rng.IntN(50)) / 10)
			}
			if maybe() {
				c.PrepTimeMinutes = ptr(float64(rng.IntN(30)))
			}
			if maybe() {
				c.IsOpenNow = ptr(rng.IntN(2) == 0)
			}
			cands[i] = c
		}

		var k entities.ConstraintSet
		if maybe() {
			k.PriceMin = ptr(float64(rng.IntN(30)))
		}
		if maybe() {
			k.PriceMax = ptr(float64(30 + rng.IntN(30)))
		}
		if maybe() {
			k.MinRating = ptr(float64(1 + rng.IntN(5)))
		}
		if maybe() {
			k.MaxDistance = ptr(float64(rng.IntN(5)))
		}
		if maybe() {
			k.MaxPrepTime = ptr(float64(rng.IntN(30)))
		}
		if maybe() {
			k.WantsOpenNow = ptr(rng.IntN(2) == 0)
		}
		if rng.IntN(4) == 0 {
			k.NameQuery = []string{"bar", "EXPRESS", "waffle"}[rng.IntN(3)]
		}

		got := Filter(cands, k)
		var want []string
		for _, c := range cands {
			if satisfies(c, k) {
				want = append(want, c.ID)
			}
		}
		for _, c := range got {
			require.True(t, satisfies(c, k), "kept %s which violates %+v", c.ID, k)
		}
		require.Equal(t, len(want), len(got))
		if len(want) > 0 {
			require.Equal(t, want, ids(got))
		}
	}
}

func TestFilter_SoundnessLodging(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 3))
	names := []string{"Harbour View", "Airport Inn", "Grand Hotel", "Budget Stay"}
	policies := []entities.CancellationPolicy{"", entities.Cancellation24h, entities.Cancellation48h, entities.CancellationFree}
	methods := []entities.PaymentMethod{entities.PaymentOnline, entities.PaymentInPerson}
	maybe := func() bool { return rng.IntN(3) > 0 }

	for round := 0; round < 300; round++ {
		cands := make([]entities.Candidate, 40)
		for i := range cands {
			c := lodging(fmt.Sprintf("h%02d", i), float64(50+rng.IntN(250)))
			c.Name = names[rng.IntN(len(names))]
			c.CancellationPolicy = policies[rng.IntN(len(policies))]
			for _, m := range methods {
				if rng.IntN(2) == 0 {
					c.PaymentOptions = append(c.PaymentOptions, m)
				}
			}
			if maybe() {
				c.MaxOccupancy = ptr(1 + rng.IntN(6))
			}
			if maybe() {
				c.Rating = ptr(float64(rng.IntN(51)) / 10)
			}
			if maybe() {
				c.DistanceKm = ptr(float64(rng.IntN(200)) / 10)
			}
			cands[i] = c
		}

		var k entities.ConstraintSet
		if maybe() {
			k.PriceMax = ptr(float64(100 + rng.IntN(200)))
		}
		if maybe() {
			k.MinRating = ptr(float64(1 + rng.IntN(5)))
		}
		if maybe() {
			k.MaxDistance = ptr(float64(rng.IntN(20)))
		}
		if maybe() {
			p := []entities.CancellationPolicy{
				entities.CancellationAny, entities.Cancellation24h, entities.Cancellation48h, entities.CancellationFree,
			}[rng.IntN(4)]
			k.CancellationPolicy = &p
		}
		if maybe() {
			m := []entities.PaymentMethod{entities.PaymentAny, entities.PaymentOnline, entities.PaymentInPerson}[rng.IntN(3)]
			k.PaymentMethod = &m
		}
		if maybe() {
			k.Travellers = ptr(1 + rng.IntN(6))
		}
		if rng.IntN(4) == 0 {
			k.NameQuery = []string{"inn", "GRAND", "stay"}[rng.IntN(3)]
		}

		got := Filter(cands, k)
		var want []string
		for _, c := range cands {
			if satisfies(c, k) {
				want = append(want, c.ID)
			}
		}
		for _, c := range got {
			require.True(t, satisfies(c, k), "kept %s which violates %+v", c.ID, k)
		}
		require.Equal(t, len(want), len(got))
		if len(want) > 0 {
			require.Equal(t, want, ids(got))
		}
	}
}
