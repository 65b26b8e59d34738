package entity

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SeatStatus string

const (
	SeatStatusAvailable SeatStatus = "available"
	SeatStatusHeld      SeatStatus = "held"
	SeatStatusSold      SeatStatus = "sold"
)

type SeatCategory string

const (
	SeatCategoryVIP     SeatCategory = "vip"
	SeatCategoryFanPit  SeatCategory = "fan-pit"
	SeatCategoryGeneral SeatCategory = "general"
	SeatCategoryBalcony SeatCategory = "balcony"
)

func ValidSeatCategory(c SeatCategory) bool {
	switch c {
	case SeatCategoryVIP, SeatCategoryFanPit, SeatCategoryGeneral, SeatCategoryBalcony:
		return true
	}
	return false
}

type Seat struct {
	BaseNoDelete
	EventID  uuid.UUID       `db:"event_id"`
	SeatRow  string          `db:"seat_row"` // A, B, C, etc.
	SeatNum  int             `db:"seat_num"` // 1, 2, 3, etc.
	Category SeatCategory    `db:"category"`
	Price    decimal.Decimal `db:"price"`
	Status   SeatStatus      `db:"status"`
	Version  int64           `db:"version"` // bumped on every status change
}

// Label returns the display position, e.g. "A1".
func (s *Seat) Label() string {
	return fmt.Sprintf("%s%d", s.SeatRow, s.SeatNum)
}
