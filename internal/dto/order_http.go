package dto

import (
	"time"

	"github.com/cactus377/japede-cardapio/internal/domain"
)

type UpdateOrderStatusRequest struct {
	Status       string `json:"status"`
	ManualUpdate bool   `json:"manual_update"`
}

type CloseAccountRequest struct {
	PaymentMethod string  `json:"payment_method"`
	AmountPaid    float64 `json:"amount_paid"`
}

type OrderResponse struct {
	ID                     string     `json:"id"`
	CustomerName           string     `json:"customer_name"`
	Notes                  *string    `json:"notes,omitempty"`
	Status                 string     `json:"status"`
	OrderType              string     `json:"order_type"`
	TotalAmount            float64    `json:"total_amount"`
	AutoProgress           bool       `json:"auto_progress"`
	NextAutoTransitionTime *time.Time `json:"next_auto_transition_time,omitempty"`
	LastStatusChangeTime   time.Time  `json:"last_status_change_time"`
	OrderTime              time.Time  `json:"order_time"`
	CurrentProgressPercent int        `json:"current_progress_percent"`
	TableID                *string    `json:"table_id,omitempty"`
	CashRegisterSessionID  *string    `json:"cash_register_session_id,omitempty"`
	PaymentMethod          *string    `json:"payment_method,omitempty"`
	AmountPaid             *float64   `json:"amount_paid,omitempty"`
	ChangeDue              *float64   `json:"change_due,omitempty"`
}

func NewOrderResponse(o *domain.Order, now time.Time) OrderResponse {
	resp := OrderResponse{
		ID:                     o.ID,
		CustomerName:           o.CustomerName,
		Notes:                  o.Notes,
		Status:                 o.Status,
		OrderType:              o.OrderType,
		TotalAmount:            o.TotalAmount.InexactFloat64(),
		AutoProgress:           o.AutoProgress,
		NextAutoTransitionTime: o.NextAutoTransitionTime,
		LastStatusChangeTime:   o.LastStatusChangeTime,
		OrderTime:              o.OrderTime,
		CurrentProgressPercent: o.ProgressPercent(now),
		TableID:                o.TableID,
		CashRegisterSessionID:  o.CashRegisterSessionID,
		PaymentMethod:          o.PaymentMethod,
	}
	if o.AmountPaid != nil {
		paid := o.AmountPaid.InexactFloat64()
		resp.AmountPaid = &paid
	}
	if o.ChangeDue != nil {
		change := o.ChangeDue.InexactFloat64()
		resp.ChangeDue = &change
	}
	return resp
}

type CloseAccountResponse struct {
	Order        OrderResponse `json:"order"`
	Unattributed bool          `json:"unattributed"`
	Warnings     []string      `json:"warnings,omitempty"`
}

type CheckTransitionsResponse struct {
	UpdatedOrders []OrderResponse `json:"updated_orders"`
}
