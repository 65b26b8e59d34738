package response

import (
	"time"

	"ticket-reservation/internal/data/entity"
)

type ReservationResponse struct {
	ID        string                   `json:"id"`
	EventID   string                   `json:"event_id"`
	SeatID    string                   `json:"seat_id"`
	HolderID  string                   `json:"holder_id"`
	Status    entity.ReservationStatus `json:"status"`
	ExpiresAt time.Time                `json:"expires_at"`
	CreatedAt time.Time                `json:"created_at"`
}

type ExtendResponse struct {
	ID           string    `json:"id"`
	NewExpiresAt time.Time `json:"new_expires_at"`
}

type CleanupResponse struct {
	ReleasedCount int `json:"released_count"`
}

func ReservationToResponse(r *entity.Reservation) *ReservationResponse {
	return &ReservationResponse{
		ID:        r.ID.String(),
		EventID:   r.EventID.String(),
		SeatID:    r.SeatID.String(),
		HolderID:  r.HolderID.String(),
		Status:    r.Status,
		ExpiresAt: r.ExpiresAt,
		CreatedAt: r.CreatedAt,
	}
}
