package repository

import "errors"

// Sentinel errors shared by the stores and the services above them. The
// adaptor layer maps these onto HTTP status codes.
var (
	ErrNotFound             = errors.New("not found")
	ErrSeatUnavailable      = errors.New("seat unavailable")
	ErrReservationNotActive = errors.New("reservation not active")
	ErrReservationExpired   = errors.New("reservation expired")
	ErrPaymentDeclined      = errors.New("payment declined")

	// ErrInventoryCorruption means the seat and ledger states disagree at
	// confirm time. Never retried, never masked.
	ErrInventoryCorruption = errors.New("inventory corruption detected")
)
