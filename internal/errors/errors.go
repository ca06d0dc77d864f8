package errors

import "fmt"

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationError struct {
	Message string
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string, details ...ValidationDetail) *ValidationError {
	return &ValidationError{
		Message: message,
		Details: details,
	}
}

func IsValidationError(err error) (*ValidationError, bool) {
	if ve, ok := err.(*ValidationError); ok {
		return ve, true
	}
	return nil, false
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(message string) *NotFoundError {
	return &NotFoundError{Message: message}
}

func IsNotFoundError(err error) (*NotFoundError, bool) {
	if nfe, ok := err.(*NotFoundError); ok {
		return nfe, true
	}
	return nil, false
}

// ConflictError is returned when an entity is not in a state that permits
// the requested command, e.g. binding an order to an occupied table.
type ConflictError struct {
	Message string
}

func (e *ConflictError) Error() string {
	return e.Message
}

func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

func IsConflictError(err error) (*ConflictError, bool) {
	if ce, ok := err.(*ConflictError); ok {
		return ce, true
	}
	return nil, false
}

// InvalidTransitionError is returned when a requested order status is not
// reachable from the current status.
type InvalidTransitionError struct {
	Message string
}

func (e *InvalidTransitionError) Error() string {
	return e.Message
}

func NewInvalidTransitionError(message string) *InvalidTransitionError {
	return &InvalidTransitionError{Message: message}
}

func IsInvalidTransitionError(err error) (*InvalidTransitionError, bool) {
	if ite, ok := err.(*InvalidTransitionError); ok {
		return ite, true
	}
	return nil, false
}

// OrderStillActiveError is returned when a table release is attempted while
// its bound order is non-terminal.
type OrderStillActiveError struct {
	Message string
}

func (e *OrderStillActiveError) Error() string {
	return e.Message
}

func NewOrderStillActiveError(message string) *OrderStillActiveError {
	return &OrderStillActiveError{Message: message}
}

func IsOrderStillActiveError(err error) (*OrderStillActiveError, bool) {
	if oae, ok := err.(*OrderStillActiveError); ok {
		return oae, true
	}
	return nil, false
}

// SessionAlreadyOpenError is returned when opening a cash session while
// another one is still open.
type SessionAlreadyOpenError struct {
	Message string
}

func (e *SessionAlreadyOpenError) Error() string {
	return e.Message
}

func NewSessionAlreadyOpenError(message string) *SessionAlreadyOpenError {
	return &SessionAlreadyOpenError{Message: message}
}

func IsSessionAlreadyOpenError(err error) (*SessionAlreadyOpenError, bool) {
	if sae, ok := err.(*SessionAlreadyOpenError); ok {
		return sae, true
	}
	return nil, false
}

// NoActiveSessionError is returned when a ledger command requires an open
// cash session and none exists.
type NoActiveSessionError struct {
	Message string
}

func (e *NoActiveSessionError) Error() string {
	return e.Message
}

func NewNoActiveSessionError(message string) *NoActiveSessionError {
	return &NoActiveSessionError{Message: message}
}

func IsNoActiveSessionError(err error) (*NoActiveSessionError, bool) {
	if nae, ok := err.(*NoActiveSessionError); ok {
		return nae, true
	}
	return nil, false
}

// InsufficientPaymentError is returned when a cash-like settlement pays less
// than the order total.
type InsufficientPaymentError struct {
	Message string
}

func (e *InsufficientPaymentError) Error() string {
	return e.Message
}

func NewInsufficientPaymentError(message string) *InsufficientPaymentError {
	return &InsufficientPaymentError{Message: message}
}

func IsInsufficientPaymentError(err error) (*InsufficientPaymentError, bool) {
	if ipe, ok := err.(*InsufficientPaymentError); ok {
		return ipe, true
	}
	return nil, false
}

// StaleVersionError is returned when an optimistic conditional write loses a
// race: the entity changed between the read and the update.
type StaleVersionError struct {
	Message string
}

func (e *StaleVersionError) Error() string {
	return e.Message
}

func NewStaleVersionError(message string) *StaleVersionError {
	return &StaleVersionError{Message: message}
}

func IsStaleVersionError(err error) (*StaleVersionError, bool) {
	if sve, ok := err.(*StaleVersionError); ok {
		return sve, true
	}
	return nil, false
}

type InternalError struct {
	Message string
	Cause   error
}

func (e *InternalError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *InternalError) Unwrap() error {
	return e.Cause
}

func NewInternalError(message string, cause error) *InternalError {
	return &InternalError{
		Message: message,
		Cause:   cause,
	}
}
