package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeNotFound indicates a resource was not found
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeValidation indicates a validation error
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeInternal indicates an internal server error
	ErrorTypeInternal ErrorType = "INTERNAL"

	// ErrorTypeExternal indicates an error from external service
	ErrorTypeExternal ErrorType = "EXTERNAL"

	// ErrorTypeInvalidCandidate marks a raw candidate that failed shape validation.
	// It is reported as a warning and never fails a ranking call.
	ErrorTypeInvalidCandidate ErrorType = "INVALID_CANDIDATE"

	// ErrorTypeInvalidConstraint marks a constraint or sort value outside its domain.
	ErrorTypeInvalidConstraint ErrorType = "INVALID_CONSTRAINT"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	// Field names the offending constraint field, when there is one.
	Field string
	// CandidateID names the offending candidate, when there is one.
	CandidateID string
	Err         error
}

// Error implements the error interface
func (e *AppError) Error() string {
	subject := e.Message
	switch {
	case e.Field != "":
		subject = fmt.Sprintf("%s: %s", e.Field, e.Message)
	case e.CandidateID != "":
		subject = fmt.Sprintf("candidate %s: %s", e.CandidateID, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, subject, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, subject)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInternal,
		Message: message,
		Err:     err,
	}
}

// NewExternalError creates a new external service error
func NewExternalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeExternal,
		Message: message,
		Err:     err,
	}
}

// NewInvalidCandidateError creates an error for a candidate dropped from a batch
func NewInvalidCandidateError(candidateID, message string) *AppError {
	return &AppError{
		Type:        ErrorTypeInvalidCandidate,
		Message:     message,
		CandidateID: candidateID,
	}
}

// NewInvalidConstraintError creates an error for an out-of-domain constraint value
func NewInvalidConstraintError(field, message string) *AppError {
	return &AppError{
		Type:    ErrorTypeInvalidConstraint,
		Message: message,
		Field:   field,
	}
}

// TypeOf returns the ErrorType carried by err, or "" when err is not an AppError.
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// IsType reports whether err wraps an AppError of the given type
func IsType(err error, t ErrorType) bool {
	return err != nil && TypeOf(err) == t
}
