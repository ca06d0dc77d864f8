package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	err := NewValidationError("invalid cash adjustment",
		ValidationDetail{Field: "amount", Message: "amount must be greater than zero"})

	assert.Equal(t, "invalid cash adjustment", err.Error())

	ve, ok := IsValidationError(err)
	assert.True(t, ok)
	assert.Len(t, ve.Details, 1)
	assert.Equal(t, "amount", ve.Details[0].Field)

	_, ok = IsValidationError(fmt.Errorf("other"))
	assert.False(t, ok)
}

func TestNotFoundError(t *testing.T) {
	err := NewNotFoundError("order abc not found")

	assert.Equal(t, "order abc not found", err.Error())

	_, ok := IsNotFoundError(err)
	assert.True(t, ok)

	_, ok = IsNotFoundError(NewConflictError("conflict"))
	assert.False(t, ok)
}

func TestInvalidTransitionError(t *testing.T) {
	err := NewInvalidTransitionError("order abc cannot move from PENDING to DELIVERED")

	_, ok := IsInvalidTransitionError(err)
	assert.True(t, ok)

	_, ok = IsInvalidTransitionError(NewStaleVersionError("stale"))
	assert.False(t, ok)
}

func TestStaleVersionError(t *testing.T) {
	err := NewStaleVersionError("order abc changed since it was read")

	sve, ok := IsStaleVersionError(err)
	assert.True(t, ok)
	assert.Equal(t, "order abc changed since it was read", sve.Message)
}

func TestSessionErrors(t *testing.T) {
	_, ok := IsSessionAlreadyOpenError(NewSessionAlreadyOpenError("already open"))
	assert.True(t, ok)

	_, ok = IsNoActiveSessionError(NewNoActiveSessionError("none open"))
	assert.True(t, ok)

	_, ok = IsNoActiveSessionError(NewSessionAlreadyOpenError("already open"))
	assert.False(t, ok)
}

func TestInsufficientPaymentError(t *testing.T) {
	err := NewInsufficientPaymentError("paid 20.00 but order total is 30.00")

	ipe, ok := IsInsufficientPaymentError(err)
	assert.True(t, ok)
	assert.Contains(t, ipe.Message, "30.00")
}

func TestOrderStillActiveError(t *testing.T) {
	_, ok := IsOrderStillActiveError(NewOrderStillActiveError("order is still PREPARING"))
	assert.True(t, ok)
}

func TestInternalError(t *testing.T) {
	cause := fmt.Errorf("connection refused")
	err := NewInternalError("database error", cause)

	assert.Equal(t, "database error: connection refused", err.Error())
	assert.Equal(t, cause, err.Unwrap())

	bare := NewInternalError("database error", nil)
	assert.Equal(t, "database error", bare.Error())
}
