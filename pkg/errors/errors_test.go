package errors_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	apperrors "github.com/tripwise/backend/pkg/errors"
)

func TestAppError_Messages(t *testing.T) {
	err := apperrors.NewInvalidConstraintError("min_rating", "must be between 1 and 5")
	assert.Equal(t, "INVALID_CONSTRAINT: min_rating: must be between 1 and 5", err.Error())

	cand := apperrors.NewInvalidCandidateError("h-1", "price is required")
	assert.Equal(t, "INVALID_CANDIDATE: candidate h-1: price is required", cand.Error())

	internal := apperrors.NewInternalError("failed to query", fmt.Errorf("boom"))
	assert.Equal(t, "INTERNAL: failed to query: boom", internal.Error())
}

func TestTypeOf_UnwrapsWrappedErrors(t *testing.T) {
	base := apperrors.NewInvalidConstraintError("sort", "duplicate key")
	wrapped := fmt.Errorf("rank batch: %w", base)

	assert.Equal(t, apperrors.ErrorTypeInvalidConstraint, apperrors.TypeOf(wrapped))
	assert.True(t, apperrors.IsType(wrapped, apperrors.ErrorTypeInvalidConstraint))
	assert.False(t, apperrors.IsType(wrapped, apperrors.ErrorTypeNotFound))
	assert.False(t, apperrors.IsType(nil, apperrors.ErrorTypeNotFound))
	assert.Equal(t, apperrors.ErrorType(""), apperrors.TypeOf(fmt.Errorf("plain")))
}
