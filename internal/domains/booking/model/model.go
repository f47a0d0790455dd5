package model

import (
	"pms/shared/model"
	"time"

	"github.com/shopspring/decimal"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID         = "id"
	FieldCode       = "code"
	FieldState      = "state"
	FieldCheckIn    = "checkin"
	FieldCheckOut   = "checkout"
	FieldRoomID     = "room_id"
	FieldGuests     = "guests"
	FieldCustomerID = "customer_id"
	FieldTotal      = "total"

	JoinTableRoom     = "rooms"
	JoinTableCustomer = "customers"
)

const (
	StateNew       = "NEW"
	StateCancelled = "DEL"
)

var stateLabels = map[string]string{
	StateNew:       "Nueva",
	StateCancelled: "Cancelada",
}

// StateLabel returns the display name of a booking state, or the state itself when unknown.
func StateLabel(state string) string {
	if label, ok := stateLabels[state]; ok {
		return label
	}

	return state
}

// Booking keeps its room and customer as nullable references; deleting either leaves the booking in place.
type Booking struct {
	ID            string          `db:"id"`
	Code          string          `db:"code"`
	State         string          `db:"state"`
	CheckIn       time.Time       `db:"checkin"`
	CheckOut      time.Time       `db:"checkout"`
	RoomID        *string         `db:"room_id"`
	Guests        int             `db:"guests"`
	CustomerID    *string         `db:"customer_id"`
	Total         decimal.Decimal `db:"total"`
	RoomName      *string         `db:"room_name"      table:"rooms"     column:"name"`
	CustomerName  *string         `db:"customer_name"  table:"customers" column:"name"`
	CustomerEmail *string         `db:"customer_email" table:"customers" column:"email"`
	CustomerPhone *string         `db:"customer_phone" table:"customers" column:"phone"`
	model.Metadata
}

func (Booking) GetJoinQuery() string {
	return "LEFT JOIN rooms ON rooms.id = bookings.room_id LEFT JOIN customers ON customers.id = bookings.customer_id"
}

func (b Booking) IsActive() bool {
	return b.State == StateNew
}

// DaySummary holds the booking counters of one calendar day.
type DaySummary struct {
	NewBookings     int             `db:"new_bookings"`
	IncomingGuests  int             `db:"incoming_guests"`
	OutcomingGuests int             `db:"outcoming_guests"`
	Invoiced        decimal.Decimal `db:"invoiced"`
}
