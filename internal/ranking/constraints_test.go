package ranking

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tripwise/backend/internal/domain/entities"
	apperrors "github.com/tripwise/backend/pkg/errors"
)

func TestValidateConstraints_Accepts(t *testing.T) {
	free := entities.CancellationFree
	online := entities.PaymentOnline

	lodgingSet := entities.ConstraintSet{
		PriceMin:           ptr(50.0),
		PriceMax:           ptr(150.0),
		MinRating:          ptr(4.0),
		MaxDistance:        ptr(10.0),
		NameQuery:          "inn",
		CancellationPolicy: &free,
		PaymentMethod:      &online,
		Travellers:         ptr(2),
	}
	spec := entities.SortSpec{
		{Key: entities.SortKeyPrice, Direction: entities.SortAscending},
		{Key: entities.SortKeyRating, Direction: entities.SortDescending},
	}
	assert.NoError(t, ValidateConstraints(entities.CandidateKindLodging, lodgingSet, spec))

	diningSet := entities.ConstraintSet{
		PriceMax:     ptr(20.0),
		MaxPrepTime:  ptr(10.0),
		WantsOpenNow: ptr(true),
	}
	diningSpec := entities.SortSpec{{Key: entities.SortKeyDuration, Direction: entities.SortAscending}}
	assert.NoError(t, ValidateConstraints(entities.CandidateKindDining, diningSet, diningSpec))

	assert.NoError(t, ValidateConstraints(entities.CandidateKindDining, entities.ConstraintSet{}, nil))
}

func TestValidateConstraints_Rejects(t *testing.T) {
	weird := entities.CancellationPolicy("Sometimes")
	cash := entities.PaymentMethod("Cash")
	free := entities.CancellationFree

	tests := []struct {
		name  string
		kind  entities.CandidateKind
		cs    entities.ConstraintSet
		spec  entities.SortSpec
		field string
	}{
		{"unknown kind", "flights", entities.ConstraintSet{}, nil, "kind"},
		{"rating below range", entities.CandidateKindLodging, entities.ConstraintSet{MinRating: ptr(0.0)}, nil, "min_rating"},
		{"rating above range", entities.CandidateKindLodging, entities.ConstraintSet{MinRating: ptr(5.5)}, nil, "min_rating"},
		{"rating NaN", entities.CandidateKindLodging, entities.ConstraintSet{MinRating: ptr(math.NaN())}, nil, "min_rating"},
		{"negative price", entities.CandidateKindLodging, entities.ConstraintSet{PriceMax: ptr(-1.0)}, nil, "price_max"},
		{"inverted price range", entities.CandidateKindLodging, entities.ConstraintSet{PriceMin: ptr(200.0), PriceMax: ptr(100.0)}, nil, "price_min"},
		{"negative distance", entities.CandidateKindDining, entities.ConstraintSet{MaxDistance: ptr(-2.0)}, nil, "max_distance"},
		{"bad cancellation", entities.CandidateKindLodging, entities.ConstraintSet{CancellationPolicy: &weird}, nil, "cancellation_policy"},
		{"bad payment", entities.CandidateKindLodging, entities.ConstraintSet{PaymentMethod: &cash}, nil, "payment_method"},
		{"zero travellers", entities.CandidateKindLodging, entities.ConstraintSet{Travellers: ptr(0)}, nil, "travellers"},
		{"prep time on lodging", entities.CandidateKindLodging, entities.ConstraintSet{MaxPrepTime: ptr(5.0)}, nil, "max_prep_time"},
		{"open now on lodging", entities.CandidateKindLodging, entities.ConstraintSet{WantsOpenNow: ptr(true)}, nil, "wants_open_now"},
		{"cancellation on dining", entities.CandidateKindDining, entities.ConstraintSet{CancellationPolicy: &free}, nil, "cancellation_policy"},
		{"travellers on dining", entities.CandidateKindDining, entities.ConstraintSet{Travellers: ptr(2)}, nil, "travellers"},
		{"unknown sort key", entities.CandidateKindDining, entities.ConstraintSet{},
			entities.SortSpec{{Key: "colour", Direction: entities.SortAscending}}, "sort[0].key"},
		{"bad sort direction", entities.CandidateKindDining, entities.ConstraintSet{},
			entities.SortSpec{{Key: entities.SortKeyPrice, Direction: 2}}, "sort[0].direction"},
		{"duplicate sort key", entities.CandidateKindDining, entities.ConstraintSet{},
			entities.SortSpec{
				{Key: entities.SortKeyPrice, Direction: entities.SortAscending},
				{Key: entities.SortKeyPrice, Direction: entities.SortDescending},
			}, "sort[1].key"},
		{"duration on lodging", entities.CandidateKindLodging, entities.ConstraintSet{},
			entities.SortSpec{{Key: entities.SortKeyDuration, Direction: entities.SortAscending}}, "sort[0].key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConstraints(tt.kind, tt.cs, tt.spec)
			require.Error(t, err)

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, apperrors.ErrorTypeInvalidConstraint, appErr.Type)
			assert.Equal(t, tt.field, appErr.Field)
		})
	}
}

func TestValidateConstraints_AnySentinelsAllowedOnDining(t *testing.T) {
	anyPolicy := entities.CancellationAny
	anyPay := entities.PaymentAny
	cs := entities.ConstraintSet{CancellationPolicy: &anyPolicy, PaymentMethod: &anyPay}
	assert.NoError(t, ValidateConstraints(entities.CandidateKindDining, cs, nil))
}
