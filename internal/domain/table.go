package domain

import "time"

type Table struct {
	ID                 string
	Name               string
	Capacity           int
	Status             string
	CurrentOrderID     *string
	ReservationDetails *ReservationDetails
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

const (
	TableStatusAvailable     = "AVAILABLE"
	TableStatusOccupied      = "OCCUPIED"
	TableStatusReserved      = "RESERVED"
	TableStatusNeedsCleaning = "NEEDS_CLEANING"
)

// ReservationDetails is informational only; it never binds an order.
type ReservationDetails struct {
	CustomerName string `json:"customerName,omitempty"`
	Time         string `json:"time,omitempty"`
	GuestCount   int    `json:"guestCount,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

// CanBindOrder reports whether a new order may occupy the table.
func (t *Table) CanBindOrder() bool {
	return t.Status == TableStatusAvailable || t.Status == TableStatusReserved
}
