package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_IsSentinel(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"validation matches", NewValidationError("missing", "productName"), ErrValidation, true},
		{"rejected matches", NewRejectedError("duplicate name", 409), ErrRejected, true},
		{"not found matches", NewNotFoundError("product gone"), ErrNotFound, true},
		{"transport matches", NewTransportError("dial", 0, fmt.Errorf("refused")), ErrTransport, true},
		{"index matches", NewIndexOutOfRangeError(3, 1), ErrIndexOutOfRange, true},
		{"not found is not transport", NewNotFoundError("x"), ErrTransport, false},
		{"wrapped keeps type", fmt.Errorf("update: %w", NewNotFoundError("x")), ErrNotFound, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stderrors.Is(tt.err, tt.target))
		})
	}
}

func TestTypeOf(t *testing.T) {
	err := fmt.Errorf("submit: %w", NewRejectedError("", 422))
	assert.Equal(t, ErrorTypeRejected, TypeOf(err))
	assert.True(t, IsType(err, ErrorTypeRejected))
	assert.Equal(t, ErrorType(""), TypeOf(fmt.Errorf("plain")))
}

func TestAppError_Message(t *testing.T) {
	err := NewValidationError("required fields missing", "productName", "strength")
	assert.Equal(t, "VALIDATION: required fields missing [productName, strength]", err.Error())

	wrapped := NewTransportError("request failed", 502, fmt.Errorf("bad gateway"))
	assert.Equal(t, "TRANSPORT: request failed: bad gateway", wrapped.Error())
	assert.Equal(t, "bad gateway", stderrors.Unwrap(wrapped).Error())

	rejected := NewRejectedError("", 400)
	assert.Equal(t, "record store rejected the request", rejected.Message)
}
