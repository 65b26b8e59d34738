package usecase

import (
	"ticket-reservation/internal/data/repository"
	"ticket-reservation/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Inventory   InventoryService
	Reservation ReservationService
	Reaper      ReaperService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Inventory:   NewInventoryService(repo, log),
		Reservation: NewReservationService(repo, config, log),
		Reaper:      NewReaperService(repo, config, log),
	}
}
