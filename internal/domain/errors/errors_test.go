package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *DomainError
		expected string
	}{
		{
			name: "with wrapped error",
			err: &DomainError{
				Code:    "purchaser_not_found",
				Message: "lookup purchaser u1",
				Err:     ErrPurchaserNotFound,
			},
			expected: "lookup purchaser u1: purchaser not found",
		},
		{
			name: "without wrapped error",
			err: &DomainError{
				Code:    "malformed_payload",
				Message: "unexpected end of JSON input",
			},
			expected: "unexpected end of JSON input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestDomainError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	domainErr := NewDomainError("test", "test message", originalErr)

	assert.Equal(t, originalErr, domainErr.Unwrap())
}

func TestUpstream(t *testing.T) {
	cause := errors.New("dial tcp 127.0.0.1:5432: connection refused")
	err := Upstream("list admins", cause)

	assert.Equal(t, "upstream_unavailable", err.Code)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "list admins")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestValidationError_Error(t *testing.T) {
	err := NewValidationError("app_trans_id", "required validation failed")

	assert.Equal(t, "app_trans_id", err.Field)
	assert.Equal(t, "validation failed for field app_trans_id: required validation failed", err.Error())
}

func TestErrorUnwrapping(t *testing.T) {
	wrappedErr := NewDomainError("purchaser_not_found", "dispatch order abc", ErrPurchaserNotFound)

	assert.True(t, errors.Is(wrappedErr, ErrPurchaserNotFound))
	assert.False(t, errors.Is(wrappedErr, ErrUpstreamUnavailable))
}
