package repository

import (
	"ticket-reservation/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	Event       EventRepository
	Seat        SeatRepository
	Reservation ReservationRepository
	Ticket      TicketRepository
}

func NewRepository(db database.PgxIface, log *zap.Logger) *Repository {
	return &Repository{
		Event:       NewEventRepository(db, log),
		Seat:        NewSeatRepository(db, log),
		Reservation: NewReservationRepository(db, log),
		Ticket:      NewTicketRepository(db, log),
	}
}
