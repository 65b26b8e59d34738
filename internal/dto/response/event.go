package response

import (
	"time"

	"ticket-reservation/internal/data/entity"
)

type EventResponse struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Venue     string             `json:"venue"`
	StartsAt  time.Time          `json:"starts_at"`
	Status    entity.EventStatus `json:"status"`
	SeatCount int                `json:"seat_count,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

type SeatResponse struct {
	ID       string              `json:"id"`
	Label    string              `json:"label"`
	Row      string              `json:"row"`
	Number   int                 `json:"number"`
	Category entity.SeatCategory `json:"category"`
	Price    string              `json:"price"`
	Status   entity.SeatStatus   `json:"status"`
}

type SeatMapResponse struct {
	EventID string          `json:"event_id"`
	Seats   []*SeatResponse `json:"seats"`
}

func EventToResponse(e *entity.Event) *EventResponse {
	return &EventResponse{
		ID:        e.ID.String(),
		Name:      e.Name,
		Venue:     e.Venue,
		StartsAt:  e.StartsAt,
		Status:    e.Status,
		CreatedAt: e.CreatedAt,
	}
}

func SeatToResponse(s *entity.Seat) *SeatResponse {
	return &SeatResponse{
		ID:       s.ID.String(),
		Label:    s.Label(),
		Row:      s.SeatRow,
		Number:   s.SeatNum,
		Category: s.Category,
		Price:    s.Price.StringFixed(2),
		Status:   s.Status,
	}
}
