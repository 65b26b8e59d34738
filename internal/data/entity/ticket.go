package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Ticket is issued exactly once per confirmed reservation and is immutable
// after insert. Refund flows live outside this service.
type Ticket struct {
	BaseSimple
	ReservationID uuid.UUID       `db:"reservation_id"`
	SeatID        uuid.UUID       `db:"seat_id"`
	EventID       uuid.UUID       `db:"event_id"`
	HolderID      uuid.UUID       `db:"holder_id"`
	Price         decimal.Decimal `db:"price"`
	TicketNumber  string          `db:"ticket_number"`
}
