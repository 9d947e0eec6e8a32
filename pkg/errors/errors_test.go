package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	assert.Equal(t, "NOT_FOUND: doctor 7 not found", NewNotFoundError("doctor 7 not found").Error())

	cause := errors.New("connection refused")
	err := NewExternalError("failed to fetch doctors", cause)
	assert.Equal(t, "EXTERNAL: failed to fetch doctors: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}

func TestIsType(t *testing.T) {
	wrapped := fmt.Errorf("load: %w", NewExternalError("upstream returned 502", nil))

	assert.True(t, IsType(wrapped, ErrorTypeExternal))
	assert.False(t, IsType(wrapped, ErrorTypeNotFound))
	assert.False(t, IsType(errors.New("plain"), ErrorTypeExternal))
	assert.False(t, IsType(nil, ErrorTypeExternal))
}

func TestAs(t *testing.T) {
	appErr, ok := As(fmt.Errorf("book: %w", NewValidationError("time is required")))
	require.True(t, ok)
	assert.Equal(t, ErrorTypeValidation, appErr.Type)
	assert.Equal(t, "time is required", appErr.Message)

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
}

func TestRetryable(t *testing.T) {
	assert.True(t, NewExternalError("feed down", nil).Retryable())
	assert.False(t, NewInternalError("bug", nil).Retryable())
	assert.False(t, NewValidationError("bad").Retryable())
}
