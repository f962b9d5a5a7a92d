package handlers

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/tripwise/backend/internal/domain/entities"
	apperrors "github.com/tripwise/backend/pkg/errors"
)

// queryParams reads typed values from a query string. The first malformed
// value is kept and later reads become no-ops.
type queryParams struct {
	values url.Values
	err    error
}

func newQueryParams(values url.Values) *queryParams {
	return &queryParams{values: values}
}

func (p *queryParams) str(name string) string {
	return strings.TrimSpace(p.values.Get(name))
}

func (p *queryParams) floatParam(name string) *float64 {
	raw := p.str(name)
	if raw == "" || p.err != nil {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		p.err = apperrors.NewInvalidConstraintError(name, "must be a number")
		return nil
	}
	return &v
}

func (p *queryParams) intParam(name string) *int {
	raw := p.str(name)
	if raw == "" || p.err != nil {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		p.err = apperrors.NewInvalidConstraintError(name, "must be an integer")
		return nil
	}
	return &v
}

func (p *queryParams) boolParam(name string) *bool {
	raw := p.str(name)
	if raw == "" || p.err != nil {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.err = apperrors.NewInvalidConstraintError(name, "must be true or false")
		return nil
	}
	return &v
}

func (p *queryParams) sort() entities.SortSpec {
	raw := p.str("sort")
	if raw == "" || p.err != nil {
		return nil
	}
	spec, err := entities.ParseSortSpec(raw)
	if err != nil {
		p.err = apperrors.NewInvalidConstraintError("sort", err.Error())
		return nil
	}
	return spec
}

// intOr returns the named integer or def when it is absent
func (p *queryParams) intOr(name string, def int) int {
	if v := p.intParam(name); v != nil {
		return *v
	}
	return def
}

// commonConstraints reads the filters shared by hotels and restaurants
func (p *queryParams) commonConstraints() entities.ConstraintSet {
	return entities.ConstraintSet{
		PriceMin:    p.floatParam("price_min"),
		PriceMax:    p.floatParam("price_max"),
		MinRating:   p.floatParam("min_rating"),
		MaxDistance: p.floatParam("max_distance"),
		NameQuery:   p.str("q"),
	}
}

func (p *queryParams) hotelConstraints() entities.ConstraintSet {
	cs := p.commonConstraints()
	cs.Travellers = p.intParam("travellers")
	if v := p.str("cancellation"); v != "" {
		policy := entities.CancellationPolicy(v)
		cs.CancellationPolicy = &policy
	}
	if v := p.str("payment"); v != "" {
		method := entities.PaymentMethod(v)
		cs.PaymentMethod = &method
	}
	return cs
}

func (p *queryParams) restaurantConstraints() entities.ConstraintSet {
	cs := p.commonConstraints()
	cs.MaxPrepTime = p.floatParam("max_prep_time")
	cs.WantsOpenNow = p.boolParam("open_now")
	return cs
}
