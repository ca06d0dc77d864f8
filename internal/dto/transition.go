package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StatusChange carries one order status transition to the store. ChangedAt
// becomes the order's new version token.
type StatusChange struct {
	Status                 string
	ChangedAt              time.Time
	NextAutoTransitionTime *time.Time
}

// Settlement extends a terminal status change with the payment fields and
// the cash session attribution recorded when a table account is closed.
type Settlement struct {
	StatusChange
	PaymentMethod string
	AmountPaid    decimal.Decimal
	ChangeDue     decimal.Decimal
	SessionID     *string
}
