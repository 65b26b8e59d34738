package usecase

import (
	"context"
	"time"

	"ticket-reservation/internal/data/entity"
	"ticket-reservation/internal/data/repository"
	"ticket-reservation/pkg/utils"

	"go.uber.org/zap"
)

// ReaperService reclaims seats from holds their buyers abandoned. It is the
// sole authority for clock-driven expiry; UI countdowns are advisory.
type ReaperService interface {
	// Sweep runs one pass and returns how many seats went back on the
	// market.
	Sweep(ctx context.Context) (int, error)

	// Run sweeps on the configured interval until ctx is cancelled.
	Run(ctx context.Context)
}

type reaperService struct {
	repo     *repository.Repository
	interval time.Duration
	batch    int
	log      *zap.Logger
	now      func() time.Time
}

func NewReaperService(repo *repository.Repository, config *utils.Config, log *zap.Logger) ReaperService {
	return &reaperService{
		repo:     repo,
		interval: time.Duration(config.Reaper.IntervalSeconds) * time.Second,
		batch:    config.Reaper.BatchSize,
		log:      log.With(zap.String("service", "reaper")),
		now:      time.Now,
	}
}

func (s *reaperService) Run(ctx context.Context) {
	s.log.Info("Reaper started", zap.Duration("interval", s.interval))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Reaper stopped")
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx); err != nil {
				s.log.Error("Sweep pass failed", zap.Error(err))
			}
		}
	}
}

func (s *reaperService) Sweep(ctx context.Context) (int, error) {
	released := 0

	expiring, err := s.repo.Reservation.FindExpiring(ctx, s.now(), s.batch)
	if err != nil {
		return 0, err
	}

	for _, reservation := range expiring {
		// Winning the ledger transition is the gate: a reservation that a
		// cancel or confirm already resolved between scan and update is
		// skipped, never double-released.
		ok, err := s.repo.Reservation.UpdateStatus(ctx, reservation.ID, entity.ReservationStatusActive, entity.ReservationStatusExpired)
		if err != nil {
			// One bad row must not halt the sweep.
			s.log.Error("Failed to expire reservation",
				zap.Error(err),
				zap.String("reservation_id", reservation.ID.String()),
			)
			continue
		}
		if !ok {
			continue
		}

		freed, err := s.repo.Seat.CompareAndSetStatus(ctx, reservation.EventID, reservation.SeatID, entity.SeatStatusHeld, entity.SeatStatusAvailable)
		if err != nil {
			s.log.Error("Failed to release expired seat",
				zap.Error(err),
				zap.String("seat_id", reservation.SeatID.String()),
			)
			continue
		}
		if !freed {
			s.log.Warn("Expired reservation had no held seat",
				zap.String("reservation_id", reservation.ID.String()),
				zap.String("seat_id", reservation.SeatID.String()),
			)
			continue
		}

		released++
		s.log.Info("Expired hold released",
			zap.String("reservation_id", reservation.ID.String()),
			zap.String("seat_id", reservation.SeatID.String()),
			zap.String("holder_id", reservation.HolderID.String()),
			zap.Time("expired_at", reservation.ExpiresAt),
		)
	}

	// Second pass: seats left held by a crash between a release's ledger
	// and inventory steps.
	orphans, err := s.repo.Seat.FindOrphanedHeldSeats(ctx, s.batch)
	if err != nil {
		s.log.Error("Failed to scan for orphaned seats", zap.Error(err))
		return released, nil
	}

	for _, seat := range orphans {
		freed, err := s.repo.Seat.CompareAndSetStatus(ctx, seat.EventID, seat.ID, entity.SeatStatusHeld, entity.SeatStatusAvailable)
		if err != nil {
			s.log.Error("Failed to release orphaned seat",
				zap.Error(err),
				zap.String("seat_id", seat.ID.String()),
			)
			continue
		}
		if freed {
			released++
			s.log.Warn("Orphaned held seat released",
				zap.String("seat_id", seat.ID.String()),
				zap.String("event_id", seat.EventID.String()),
			)
		}
	}

	if released > 0 {
		s.log.Info("Sweep pass complete", zap.Int("released", released))
	}

	return released, nil
}
