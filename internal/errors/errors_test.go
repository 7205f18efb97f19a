package errors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotFoundError_Creation(t *testing.T) {
	message := "order not found"
	err := NewNotFoundError(message)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
}

func TestNotFoundError_IsNotFoundError(t *testing.T) {
	err := NewNotFoundError("test not found")

	notFoundErr, ok := IsNotFoundError(err)
	assert.True(t, ok)
	assert.NotNil(t, notFoundErr)
	assert.Equal(t, "test not found", notFoundErr.Message)
}

func TestNotFoundError_IsNotFoundError_WithOtherError(t *testing.T) {
	err := errors.New("some other error")

	notFoundErr, ok := IsNotFoundError(err)
	assert.False(t, ok)
	assert.Nil(t, notFoundErr)
}

func TestValidationError_Creation(t *testing.T) {
	message := "validation failed"
	details := []ValidationDetail{
		{Field: "phone", Message: "phone is required"},
		{Field: "items", Message: "items must not be empty"},
	}

	err := NewValidationError(message, details...)

	assert.NotNil(t, err)
	assert.Equal(t, message, err.Message)
	assert.Equal(t, message, err.Error())
	assert.Len(t, err.Details, 2)
}

func TestInsufficientStockError_Fields(t *testing.T) {
	err := NewInsufficientStockError(42, 2, 3)

	assert.Equal(t, 42, err.ProductID)
	assert.Equal(t, 2, err.Available)
	assert.Equal(t, 3, err.Requested)
	assert.Contains(t, err.Error(), "product 42")
	assert.Contains(t, err.Error(), "available 2")
	assert.Contains(t, err.Error(), "requested 3")
}

func TestInsufficientStockError_Probe(t *testing.T) {
	var err error = NewInsufficientStockError(1, 0, 1)

	ise, ok := IsInsufficientStockError(err)
	assert.True(t, ok)
	assert.Equal(t, 1, ise.ProductID)

	_, ok = IsInsufficientStockError(errors.New("other"))
	assert.False(t, ok)
}

func TestConflictError(t *testing.T) {
	err := NewConflictError("conflicting write")

	ce, ok := IsConflictError(err)
	assert.True(t, ok)
	assert.Equal(t, "conflicting write", ce.Error())
}

func TestDeadlockError(t *testing.T) {
	err := NewDeadlockError("max retries exceeded")

	de, ok := IsDeadlockError(err)
	assert.True(t, ok)
	assert.Equal(t, "max retries exceeded", de.Error())
}

func TestInternalError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := NewInternalError("wrapper", cause)

	assert.Equal(t, cause, err.Unwrap())
	assert.True(t, errors.Is(err, cause))
	assert.Contains(t, err.Error(), "wrapper")
	assert.Contains(t, err.Error(), "underlying error")
}

func TestInternalError_NilCause(t *testing.T) {
	err := NewInternalError("no cause", nil)

	assert.Equal(t, "no cause", err.Error())
	assert.Nil(t, err.Unwrap())
}
