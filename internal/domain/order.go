package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Order struct {
	ID                     string
	CustomerName           string
	Notes                  *string
	Status                 string
	OrderType              string
	TotalAmount            decimal.Decimal
	AutoProgress           bool
	NextAutoTransitionTime *time.Time
	LastStatusChangeTime   time.Time
	OrderTime              time.Time
	TableID                *string
	CashRegisterSessionID  *string
	PaymentMethod          *string
	AmountPaid             *decimal.Decimal
	ChangeDue              *decimal.Decimal
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

const (
	OrderStatusPending        = "PENDING"
	OrderStatusPreparing      = "PREPARING"
	OrderStatusReadyForPickup = "READY_FOR_PICKUP"
	OrderStatusOutForDelivery = "OUT_FOR_DELIVERY"
	OrderStatusDelivered      = "DELIVERED"
	OrderStatusCancelled      = "CANCELLED"
)

const (
	OrderTypeDineIn   = "DINE_IN"
	OrderTypeDelivery = "DELIVERY"
	OrderTypeCounter  = "COUNTER"
)

const (
	PaymentMethodCash       = "CASH"
	PaymentMethodDebitCard  = "DEBIT_CARD"
	PaymentMethodCreditCard = "CREDIT_CARD"
	PaymentMethodPix        = "PIX"
	PaymentMethodMultiple   = "MULTIPLE"
)

// progression holds the auto-advance sequence per order type. Dine-in stops
// at READY_FOR_PICKUP: the table account settlement produces the terminal.
var progression = map[string][]string{
	OrderTypeDineIn: {
		OrderStatusPending,
		OrderStatusPreparing,
		OrderStatusReadyForPickup,
	},
	OrderTypeDelivery: {
		OrderStatusPending,
		OrderStatusPreparing,
		OrderStatusReadyForPickup,
		OrderStatusOutForDelivery,
		OrderStatusDelivered,
	},
	OrderTypeCounter: {
		OrderStatusPending,
		OrderStatusPreparing,
		OrderStatusReadyForPickup,
		OrderStatusDelivered,
	},
}

func IsTerminalStatus(status string) bool {
	return status == OrderStatusDelivered || status == OrderStatusCancelled
}

func (o *Order) IsTerminal() bool {
	return IsTerminalStatus(o.Status)
}

// Successor returns the next status in the order type's progression, or ""
// when the order is already at its last auto-advanceable stage.
func (o *Order) Successor() string {
	seq := progression[o.OrderType]
	for i, status := range seq {
		if status == o.Status && i+1 < len(seq) {
			return seq[i+1]
		}
	}
	return ""
}

// CanTransitionTo reports whether a manual transition to target is legal:
// the immediate successor for the order's type, or CANCELLED from any
// non-terminal status.
func (o *Order) CanTransitionTo(target string) bool {
	if o.IsTerminal() {
		return false
	}
	if target == OrderStatusCancelled {
		return true
	}
	return target != "" && target == o.Successor()
}

// IsCashLike reports whether the payment method feeds the physical drawer
// (cash or instant transfer).
func IsCashLike(paymentMethod string) bool {
	return paymentMethod == PaymentMethodCash || paymentMethod == PaymentMethodPix
}

// ProgressPercent interpolates between the last status change and the next
// scheduled transition, clamped to [0,100]. Zero when no timer is active.
func (o *Order) ProgressPercent(now time.Time) int {
	if o.NextAutoTransitionTime == nil || o.IsTerminal() {
		return 0
	}
	total := o.NextAutoTransitionTime.Sub(o.LastStatusChangeTime)
	if total <= 0 {
		return 100
	}
	elapsed := now.Sub(o.LastStatusChangeTime)
	if elapsed <= 0 {
		return 0
	}
	pct := int(elapsed * 100 / total)
	if pct > 100 {
		return 100
	}
	return pct
}
