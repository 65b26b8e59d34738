package adaptor

import (
	"ticket-reservation/internal/usecase"

	"go.uber.org/zap"
)

type Handler struct {
	Inventory   *InventoryHandler
	Reservation *ReservationHandler
}

func NewHandler(service *usecase.Service, log *zap.Logger) *Handler {
	return &Handler{
		Inventory:   NewInventoryHandler(service.Inventory, log),
		Reservation: NewReservationHandler(service.Reservation, service.Reaper, log),
	}
}
