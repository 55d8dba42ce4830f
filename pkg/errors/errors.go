package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorType represents different types of errors in the system
type ErrorType string

const (
	// ErrorTypeValidation indicates a local draft failed validation before any network call
	ErrorTypeValidation ErrorType = "VALIDATION"

	// ErrorTypeRejected indicates the record store refused the payload on business rules
	ErrorTypeRejected ErrorType = "VALIDATION_REJECTED"

	// ErrorTypeNotFound indicates the target record no longer exists on the store
	ErrorTypeNotFound ErrorType = "NOT_FOUND"

	// ErrorTypeTransport indicates a network or HTTP-layer failure
	ErrorTypeTransport ErrorType = "TRANSPORT"

	// ErrorTypeUnauthorized indicates the operator session is missing or refused
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"

	// ErrorTypeIndexOutOfRange indicates a field group was addressed past its bounds
	ErrorTypeIndexOutOfRange ErrorType = "INDEX_OUT_OF_RANGE"

	// ErrorTypeInFlight indicates a submission is already pending for the draft
	ErrorTypeInFlight ErrorType = "SUBMISSION_IN_FLIGHT"
)

// AppError represents an application error
type AppError struct {
	Type    ErrorType
	Message string
	// Fields lists the offending field identifiers for validation errors.
	Fields []string
	// Status is the HTTP status reported by the store, if any.
	Status int
	Err    error
}

// Error implements the error interface
func (e *AppError) Error() string {
	msg := e.Message
	if len(e.Fields) > 0 {
		msg = fmt.Sprintf("%s [%s]", msg, strings.Join(e.Fields, ", "))
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, msg)
}

// Unwrap implements the unwrap interface
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an AppError of the same type.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Type == e.Type && t.Message == "" && t.Err == nil
}

// Sentinels for use with errors.Is.
var (
	ErrValidation      = &AppError{Type: ErrorTypeValidation}
	ErrRejected        = &AppError{Type: ErrorTypeRejected}
	ErrNotFound        = &AppError{Type: ErrorTypeNotFound}
	ErrTransport       = &AppError{Type: ErrorTypeTransport}
	ErrUnauthorized    = &AppError{Type: ErrorTypeUnauthorized}
	ErrIndexOutOfRange = &AppError{Type: ErrorTypeIndexOutOfRange}
	ErrInFlight        = &AppError{Type: ErrorTypeInFlight}
)

// TypeOf returns the ErrorType of the first AppError in err's chain, or "".
func TypeOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return ""
}

// IsType reports whether err carries an AppError of the given type.
func IsType(err error, t ErrorType) bool {
	return TypeOf(err) == t
}

// NewValidationError creates a new local validation error for the given fields
func NewValidationError(message string, fields ...string) *AppError {
	return &AppError{
		Type:    ErrorTypeValidation,
		Message: message,
		Fields:  fields,
	}
}

// NewRejectedError creates an error for a store-side business rule rejection
func NewRejectedError(message string, status int) *AppError {
	if message == "" {
		message = "record store rejected the request"
	}
	return &AppError{
		Type:    ErrorTypeRejected,
		Message: message,
		Status:  status,
	}
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeNotFound,
		Message: message,
		Status:  404,
	}
}

// NewTransportError creates a new network/HTTP failure error
func NewTransportError(message string, status int, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeTransport,
		Message: message,
		Status:  status,
		Err:     err,
	}
}

// NewUnauthorizedError creates a new unauthorized error
func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Type:    ErrorTypeUnauthorized,
		Message: message,
	}
}

// NewIndexOutOfRangeError reports an out-of-bounds field group access
func NewIndexOutOfRangeError(index, length int) *AppError {
	return &AppError{
		Type:    ErrorTypeIndexOutOfRange,
		Message: fmt.Sprintf("index %d out of range [0,%d)", index, length),
	}
}

// NewInFlightError reports that a submission is already pending
func NewInFlightError() *AppError {
	return &AppError{
		Type:    ErrorTypeInFlight,
		Message: "a submission is already in progress",
	}
}
