package ranking

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/tripwise/backend/internal/domain/entities"
	apperrors "github.com/tripwise/backend/pkg/errors"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// getValidator returns the shared validator. Field errors carry the json name of the field.
func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

var tagMessages = map[string]string{
	"required": "is required",
	"oneof":    "must be one of: %s",
	"gte":      "must be greater than or equal to %s",
	"lte":      "must be less than or equal to %s",
	"max":      "must be at most %s characters",
}

func translate(fe validator.FieldError) string {
	tmpl, ok := tagMessages[fe.Tag()]
	if !ok {
		return fmt.Sprintf("failed %s validation", fe.Tag())
	}
	if strings.Contains(tmpl, "%s") {
		return fmt.Sprintf(tmpl, fe.Param())
	}
	return tmpl
}

func structError(prefix string, err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperrors.NewInvalidConstraintError(prefix, err.Error())
	}
	fe := fieldErrs[0]
	field := fe.Field()
	if prefix != "" {
		field = prefix + "." + field
	}
	return apperrors.NewInvalidConstraintError(field, translate(fe))
}

// ValidateConstraints checks a constraint set and sort spec for the given kind.
// Out-of-domain values are rejected rather than clamped.
func ValidateConstraints(kind entities.CandidateKind, cs entities.ConstraintSet, spec entities.SortSpec) error {
	if !kind.Valid() {
		return apperrors.NewInvalidConstraintError("kind", fmt.Sprintf("unknown candidate kind %q", kind))
	}

	if err := getValidator().Struct(cs); err != nil {
		return structError("", err)
	}
	if cs.PriceMin != nil && cs.PriceMax != nil && *cs.PriceMin > *cs.PriceMax {
		return apperrors.NewInvalidConstraintError("price_min", "must not exceed price_max")
	}

	switch kind {
	case entities.CandidateKindLodging:
		if cs.MaxPrepTime != nil {
			return apperrors.NewInvalidConstraintError("max_prep_time", "only applies to dining")
		}
		if cs.WantsOpenNow != nil && *cs.WantsOpenNow {
			return apperrors.NewInvalidConstraintError("wants_open_now", "only applies to dining")
		}
	case entities.CandidateKindDining:
		if cs.CancellationPolicy != nil && *cs.CancellationPolicy != entities.CancellationAny {
			return apperrors.NewInvalidConstraintError("cancellation_policy", "only applies to lodging")
		}
		if cs.PaymentMethod != nil && *cs.PaymentMethod != entities.PaymentAny {
			return apperrors.NewInvalidConstraintError("payment_method", "only applies to lodging")
		}
		if cs.Travellers != nil {
			return apperrors.NewInvalidConstraintError("travellers", "only applies to lodging")
		}
	}

	return validateSort(kind, spec)
}

func validateSort(kind entities.CandidateKind, spec entities.SortSpec) error {
	seen := make(map[entities.SortKey]struct{}, len(spec))
	for i, f := range spec {
		if err := getValidator().Struct(f); err != nil {
			return structError(fmt.Sprintf("sort[%d]", i), err)
		}
		if _, dup := seen[f.Key]; dup {
			return apperrors.NewInvalidConstraintError(fmt.Sprintf("sort[%d].key", i), fmt.Sprintf("duplicate sort key %q", f.Key))
		}
		seen[f.Key] = struct{}{}
		if kind == entities.CandidateKindLodging && f.Key == entities.SortKeyDuration {
			return apperrors.NewInvalidConstraintError(fmt.Sprintf("sort[%d].key", i), "duration only applies to dining")
		}
	}
	return nil
}
