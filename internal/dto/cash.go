package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SessionClose carries the computed close-out reconciliation persisted when
// a cash session moves from OPEN to CLOSED.
type SessionClose struct {
	ClosedAt               time.Time
	CalculatedSales        decimal.Decimal
	ExpectedInCash         decimal.Decimal
	ClosingBalanceInformed decimal.Decimal
	Difference             decimal.Decimal
	NotesClosing           *string
}
