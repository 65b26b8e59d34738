package request

type SeatBlockRequest struct {
	Row      string `json:"row" validate:"required,min=1,max=4"`
	Count    int    `json:"count" validate:"required,min=1,max=200"`
	Category string `json:"category" validate:"required,oneof=vip fan-pit general balcony"`
	Price    string `json:"price" validate:"required"`
}

type CreateEventRequest struct {
	Name     string             `json:"name" validate:"required,min=2,max=120"`
	Venue    string             `json:"venue" validate:"required,min=2,max=120"`
	StartsAt string             `json:"starts_at" validate:"required"` // RFC 3339
	Seats    []SeatBlockRequest `json:"seats" validate:"required,min=1,dive"`
}
