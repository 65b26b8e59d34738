package request

type HoldSeatRequest struct {
	EventID         string `json:"event_id" validate:"required,uuid4"`
	SeatID          string `json:"seat_id" validate:"required,uuid4"`
	HolderID        string `json:"holder_id" validate:"required,uuid4"`
	DurationSeconds int    `json:"duration_seconds,omitempty" validate:"omitempty,min=1"`
}

type ExtendReservationRequest struct {
	AdditionalSeconds int `json:"additional_seconds" validate:"required,min=1"`
}

type ConfirmReservationRequest struct {
	PaymentOutcome string  `json:"payment_outcome" validate:"required,oneof=captured declined"`
	PaymentRef     *string `json:"payment_ref,omitempty"`
}
