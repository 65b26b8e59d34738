package entity

import (
	"time"

	"github.com/google/uuid"
)

type ReservationStatus string

const (
	ReservationStatusActive    ReservationStatus = "active"
	ReservationStatusExpired   ReservationStatus = "expired"
	ReservationStatusCancelled ReservationStatus = "cancelled"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
)

// Terminal reports whether no further status transition is permitted.
func (s ReservationStatus) Terminal() bool {
	return s != ReservationStatusActive
}

type Reservation struct {
	BaseNoDelete
	EventID   uuid.UUID         `db:"event_id"`
	SeatID    uuid.UUID         `db:"seat_id"`
	HolderID  uuid.UUID         `db:"holder_id"`
	ExpiresAt time.Time         `db:"expires_at"`
	Status    ReservationStatus `db:"status"`
}

// Expired compares the deadline against the given clock. Advisory only;
// the status column is authoritative.
func (r *Reservation) Expired(now time.Time) bool {
	return !r.ExpiresAt.After(now)
}
