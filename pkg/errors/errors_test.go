package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("README", "README.md")

	assert.EqualError(t, err, "README not found at README.md")
	assert.True(t, stderrors.Is(err, ErrNotFound))
	assert.True(t, IsNotFound(err))
	assert.False(t, IsValidation(err))
}

func TestNotFoundErrorWithoutPath(t *testing.T) {
	err := NewNotFoundError("record", "")
	assert.EqualError(t, err, "record not found")
}

func TestValidationError(t *testing.T) {
	err := NewValidationError("page", "must be >= 1")

	assert.EqualError(t, err, "validation failed for field page: must be >= 1")
	assert.True(t, IsValidation(err))
}

func TestServiceError(t *testing.T) {
	cause := stderrors.New("dial tcp: connection refused")
	err := NewServiceError("cache", "ping failed", cause)

	assert.True(t, IsServiceUnavailable(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "cache")
}

func TestServiceErrorWithoutCause(t *testing.T) {
	err := NewServiceError("db", "disabled", nil)
	assert.EqualError(t, err, "service db: disabled")
}

func TestConfigErrorUnwrap(t *testing.T) {
	cause := stderrors.New("bad port")
	err := NewConfigError("server", "invalid listen address", cause)

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "server")
}

func TestWrappedSentinels(t *testing.T) {
	err := fmt.Errorf("outer: %w", ErrServiceUnavailable)
	assert.True(t, IsServiceUnavailable(err))
}
