package response

import (
	"time"

	"ticket-reservation/internal/data/entity"
)

type TicketResponse struct {
	ID            string    `json:"id"`
	TicketNumber  string    `json:"ticket_number"`
	ReservationID string    `json:"reservation_id"`
	EventID       string    `json:"event_id"`
	SeatID        string    `json:"seat_id"`
	HolderID      string    `json:"holder_id"`
	Price         string    `json:"price"`
	IssuedAt      time.Time `json:"issued_at"`
}

func TicketToResponse(t *entity.Ticket) *TicketResponse {
	return &TicketResponse{
		ID:            t.ID.String(),
		TicketNumber:  t.TicketNumber,
		ReservationID: t.ReservationID.String(),
		EventID:       t.EventID.String(),
		SeatID:        t.SeatID.String(),
		HolderID:      t.HolderID.String(),
		Price:         t.Price.StringFixed(2),
		IssuedAt:      t.CreatedAt,
	}
}
