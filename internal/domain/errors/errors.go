package errors

import (
	"errors"
	"fmt"
)

var (
	// Callback errors
	ErrAuthenticationFailed = errors.New("mac not equal")
	ErrMalformedPayload     = errors.New("malformed callback payload")

	// User errors
	ErrUserNotFound      = errors.New("user not found")
	ErrPurchaserNotFound = errors.New("purchaser not found")

	// Dispatch errors
	ErrUpstreamUnavailable     = errors.New("upstream store unavailable")
	ErrNotificationWriteFailed = errors.New("notification write failed")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrInvalidInput     = errors.New("invalid input")
)

// DomainError wraps errors with additional context
type DomainError struct {
	Code    string
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Upstream marks err as an upstream store failure while keeping the
// original cause reachable through errors.Is / errors.As.
func Upstream(message string, err error) *DomainError {
	return NewDomainError("upstream_unavailable", message, errors.Join(ErrUpstreamUnavailable, err))
}

// ValidationError represents a validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}
