package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type CashRegisterSession struct {
	ID                     string
	Status                 string
	OpenedAt               time.Time
	ClosedAt               *time.Time
	OpeningBalance         decimal.Decimal
	CalculatedSales        *decimal.Decimal
	ExpectedInCash         *decimal.Decimal
	ClosingBalanceInformed *decimal.Decimal
	Difference             *decimal.Decimal
	NotesOpening           *string
	NotesClosing           *string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

const (
	CashSessionStatusOpen   = "OPEN"
	CashSessionStatusClosed = "CLOSED"
)

const (
	CashAdjustmentAdd    = "ADD"
	CashAdjustmentRemove = "REMOVE"
)

// CashAdjustment is an immutable ledger entry against an open session.
type CashAdjustment struct {
	ID         string
	SessionID  string
	Type       string
	Amount     decimal.Decimal
	Reason     string
	AdjustedAt time.Time
	CreatedAt  time.Time
}

// ExpectedInCash computes the close-out reconciliation total:
// opening balance + calculated sales + manual adds - manual removes,
// rounded to two fractional digits.
func ExpectedInCash(openingBalance, calculatedSales, adds, removes decimal.Decimal) decimal.Decimal {
	return openingBalance.Add(calculatedSales).Add(adds).Sub(removes).Round(2)
}
