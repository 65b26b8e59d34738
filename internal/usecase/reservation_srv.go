package usecase

import (
	"context"
	"fmt"
	"time"

	"ticket-reservation/internal/data/entity"
	"ticket-reservation/internal/data/repository"
	"ticket-reservation/internal/dto/request"
	"ticket-reservation/internal/dto/response"
	"ticket-reservation/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const PaymentOutcomeCaptured = "captured"

type ReservationService interface {
	// Hold claims a seat for a holder for a bounded window. Exactly one of
	// any set of concurrent Hold calls on the same seat succeeds; losers
	// get ErrSeatUnavailable and are expected to re-poll the seat map.
	Hold(ctx context.Context, req *request.HoldSeatRequest) (*response.ReservationResponse, error)

	// Extend pushes the hold deadline forward while the reservation is
	// still active.
	Extend(ctx context.Context, reservationID string, req *request.ExtendReservationRequest) (*response.ExtendResponse, error)

	// Cancel releases a hold. No-op when the reservation already reached a
	// terminal state.
	Cancel(ctx context.Context, reservationID string) error

	// Confirm settles a hold after the payment collaborator reports the
	// outcome. A captured payment issues exactly one ticket; a declined
	// payment releases the seat.
	Confirm(ctx context.Context, reservationID string, req *request.ConfirmReservationRequest) (*response.TicketResponse, error)

	GetReservation(ctx context.Context, reservationID string) (*response.ReservationResponse, error)
	GetHolderTickets(ctx context.Context, holderID string) ([]*response.TicketResponse, error)
}

type reservationService struct {
	repo *repository.Repository
	hold utils.HoldConfig
	log  *zap.Logger
	now  func() time.Time
}

func NewReservationService(repo *repository.Repository, config *utils.Config, log *zap.Logger) ReservationService {
	return &reservationService{
		repo: repo,
		hold: config.Hold,
		log:  log.With(zap.String("service", "reservation")),
		now:  time.Now,
	}
}

func (s *reservationService) Hold(ctx context.Context, req *request.HoldSeatRequest) (*response.ReservationResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Hold seat validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	eventID, err := uuid.Parse(req.EventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID format %s: %w", req.EventID, err)
	}
	seatID, err := uuid.Parse(req.SeatID)
	if err != nil {
		return nil, fmt.Errorf("invalid seat ID format %s: %w", req.SeatID, err)
	}
	holderID, err := uuid.Parse(req.HolderID)
	if err != nil {
		return nil, fmt.Errorf("invalid holder ID format %s: %w", req.HolderID, err)
	}

	event, err := s.repo.Event.FindByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("event %s: %w", req.EventID, err)
	}
	if event.Status != entity.EventStatusPublished {
		return nil, fmt.Errorf("event %s is archived: %w", req.EventID, repository.ErrSeatUnavailable)
	}

	if _, err := s.repo.Seat.FindByID(ctx, eventID, seatID); err != nil {
		return nil, fmt.Errorf("seat %s: %w", req.SeatID, err)
	}

	// The compare-and-set on the seat row is the only mutual-exclusion
	// point. There is deliberately no retry here: a lost race returns
	// immediately and the caller re-polls inventory.
	ok, err := s.repo.Seat.CompareAndSetStatus(ctx, eventID, seatID, entity.SeatStatusAvailable, entity.SeatStatusHeld)
	if err != nil {
		return nil, fmt.Errorf("hold seat: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("seat %s: %w", req.SeatID, repository.ErrSeatUnavailable)
	}

	now := s.now()
	reservation := &entity.Reservation{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		EventID:   eventID,
		SeatID:    seatID,
		HolderID:  holderID,
		ExpiresAt: now.Add(s.holdDuration(req.DurationSeconds)),
		Status:    entity.ReservationStatusActive,
	}

	if err := s.repo.Reservation.Create(ctx, reservation); err != nil {
		// Put the seat back on the market; the orphan sweep covers the
		// case where this rollback is lost too.
		if _, casErr := s.repo.Seat.CompareAndSetStatus(ctx, eventID, seatID, entity.SeatStatusHeld, entity.SeatStatusAvailable); casErr != nil {
			s.log.Error("Failed to roll back seat after ledger write failure",
				zap.Error(casErr),
				zap.String("seat_id", req.SeatID),
			)
		}
		return nil, fmt.Errorf("create reservation: %w", err)
	}

	s.log.Info("Seat held",
		zap.String("reservation_id", reservation.ID.String()),
		zap.String("event_id", req.EventID),
		zap.String("seat_id", req.SeatID),
		zap.String("holder_id", req.HolderID),
		zap.Time("expires_at", reservation.ExpiresAt),
	)

	return response.ReservationToResponse(reservation), nil
}

func (s *reservationService) Extend(ctx context.Context, reservationID string, req *request.ExtendReservationRequest) (*response.ExtendResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Extend reservation validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}
	if req.AdditionalSeconds > s.hold.MaxSeconds {
		return nil, fmt.Errorf("validation failed: AdditionalSeconds: maximum is %d", s.hold.MaxSeconds)
	}

	id, err := uuid.Parse(reservationID)
	if err != nil {
		return nil, fmt.Errorf("invalid reservation ID format %s: %w", reservationID, err)
	}

	reservation, err := s.repo.Reservation.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reservation %s: %w", reservationID, err)
	}

	// The status column is authoritative, but a hold that is past its
	// deadline must not be extendable even if the reaper has not swept it
	// yet.
	if reservation.Status.Terminal() || reservation.Expired(s.now()) {
		return nil, fmt.Errorf("reservation %s: %w", reservationID, repository.ErrReservationExpired)
	}

	newExpiresAt := reservation.ExpiresAt.Add(time.Duration(req.AdditionalSeconds) * time.Second)
	ok, err := s.repo.Reservation.ExtendExpiry(ctx, id, newExpiresAt)
	if err != nil {
		return nil, fmt.Errorf("extend reservation: %w", err)
	}
	if !ok {
		// Lost the race against the reaper, a cancel, or a confirm.
		return nil, fmt.Errorf("reservation %s: %w", reservationID, repository.ErrReservationExpired)
	}

	s.log.Info("Reservation extended",
		zap.String("reservation_id", reservationID),
		zap.Time("new_expires_at", newExpiresAt),
	)

	return &response.ExtendResponse{
		ID:           reservationID,
		NewExpiresAt: newExpiresAt,
	}, nil
}

func (s *reservationService) Cancel(ctx context.Context, reservationID string) error {
	id, err := uuid.Parse(reservationID)
	if err != nil {
		return fmt.Errorf("invalid reservation ID format %s: %w", reservationID, err)
	}

	reservation, err := s.repo.Reservation.FindByID(ctx, id)
	if err != nil {
		return fmt.Errorf("reservation %s: %w", reservationID, err)
	}

	if reservation.Status.Terminal() {
		return nil
	}

	// Ledger first, inventory second. If we crash in between, the seat
	// stays held with a cancelled reservation and the sweep releases it;
	// the reverse order would free the seat while the hold is still
	// logically active.
	ok, err := s.repo.Reservation.UpdateStatus(ctx, id, entity.ReservationStatusActive, entity.ReservationStatusCancelled)
	if err != nil {
		return fmt.Errorf("cancel reservation: %w", err)
	}
	if !ok {
		// The reaper or a confirm won the transition; nothing left to do.
		return nil
	}

	s.releaseSeat(ctx, reservation)

	s.log.Info("Reservation cancelled",
		zap.String("reservation_id", reservationID),
		zap.String("seat_id", reservation.SeatID.String()),
	)

	return nil
}

func (s *reservationService) Confirm(ctx context.Context, reservationID string, req *request.ConfirmReservationRequest) (*response.TicketResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Confirm reservation validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	id, err := uuid.Parse(reservationID)
	if err != nil {
		return nil, fmt.Errorf("invalid reservation ID format %s: %w", reservationID, err)
	}

	reservation, err := s.repo.Reservation.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reservation %s: %w", reservationID, err)
	}

	if reservation.Status.Terminal() {
		return nil, fmt.Errorf("reservation %s is %s: %w", reservationID, reservation.Status, repository.ErrReservationNotActive)
	}

	// Payment must only settle against a live hold. A hold past its
	// deadline is expired here and now rather than waiting for the reaper.
	if reservation.Expired(s.now()) {
		if ok, stErr := s.repo.Reservation.UpdateStatus(ctx, id, entity.ReservationStatusActive, entity.ReservationStatusExpired); stErr == nil && ok {
			s.releaseSeat(ctx, reservation)
		}
		return nil, fmt.Errorf("reservation %s: %w", reservationID, repository.ErrReservationExpired)
	}

	if req.PaymentOutcome != PaymentOutcomeCaptured {
		if ok, stErr := s.repo.Reservation.UpdateStatus(ctx, id, entity.ReservationStatusActive, entity.ReservationStatusCancelled); stErr == nil && ok {
			s.releaseSeat(ctx, reservation)
		}
		s.log.Info("Payment declined, hold released",
			zap.String("reservation_id", reservationID),
		)
		return nil, fmt.Errorf("reservation %s: %w", reservationID, repository.ErrPaymentDeclined)
	}

	// Whoever wins this transition is the only caller allowed to mint the
	// ticket; concurrent confirms lose here and never reach the insert.
	ok, err := s.repo.Reservation.UpdateStatus(ctx, id, entity.ReservationStatusActive, entity.ReservationStatusConfirmed)
	if err != nil {
		return nil, fmt.Errorf("confirm reservation: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("reservation %s: %w", reservationID, repository.ErrReservationNotActive)
	}

	seat, err := s.repo.Seat.FindByID(ctx, reservation.EventID, reservation.SeatID)
	if err != nil {
		return nil, fmt.Errorf("seat for reservation %s: %w", reservationID, err)
	}

	sold, err := s.repo.Seat.CompareAndSetStatus(ctx, reservation.EventID, reservation.SeatID, entity.SeatStatusHeld, entity.SeatStatusSold)
	if err != nil {
		return nil, fmt.Errorf("mark seat sold: %w", err)
	}
	if !sold {
		// The held->sold transition can only fail if a second holder
		// believed they owned this seat. Surface it, never issue the
		// ticket.
		s.log.Error("Seat state disagrees with confirmed reservation",
			zap.String("reservation_id", reservationID),
			zap.String("seat_id", reservation.SeatID.String()),
			zap.String("seat_status", string(seat.Status)),
		)
		return nil, fmt.Errorf("reservation %s seat %s: %w", reservationID, reservation.SeatID, repository.ErrInventoryCorruption)
	}

	now := s.now()
	ticket := &entity.Ticket{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		ReservationID: reservation.ID,
		SeatID:        reservation.SeatID,
		EventID:       reservation.EventID,
		HolderID:      reservation.HolderID,
		Price:         seat.Price,
		TicketNumber:  utils.GenerateTicketNumber(),
	}

	if err := s.repo.Ticket.Create(ctx, ticket); err != nil {
		return nil, fmt.Errorf("issue ticket: %w", err)
	}

	s.log.Info("Reservation confirmed",
		zap.String("reservation_id", reservationID),
		zap.String("ticket_id", ticket.ID.String()),
		zap.String("ticket_number", ticket.TicketNumber),
		zap.String("seat_id", reservation.SeatID.String()),
		zap.String("holder_id", reservation.HolderID.String()),
	)

	return response.TicketToResponse(ticket), nil
}

func (s *reservationService) GetReservation(ctx context.Context, reservationID string) (*response.ReservationResponse, error) {
	id, err := uuid.Parse(reservationID)
	if err != nil {
		return nil, fmt.Errorf("invalid reservation ID format %s: %w", reservationID, err)
	}

	reservation, err := s.repo.Reservation.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reservation %s: %w", reservationID, err)
	}

	return response.ReservationToResponse(reservation), nil
}

func (s *reservationService) GetHolderTickets(ctx context.Context, holderID string) ([]*response.TicketResponse, error) {
	id, err := uuid.Parse(holderID)
	if err != nil {
		return nil, fmt.Errorf("invalid holder ID format %s: %w", holderID, err)
	}

	tickets, err := s.repo.Ticket.FindByHolderID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get holder tickets: %w", err)
	}

	ticketResponses := make([]*response.TicketResponse, len(tickets))
	for i, ticket := range tickets {
		ticketResponses[i] = response.TicketToResponse(ticket)
	}

	return ticketResponses, nil
}

// holdDuration clamps the requested duration into the configured window.
func (s *reservationService) holdDuration(requestedSeconds int) time.Duration {
	seconds := requestedSeconds
	if seconds <= 0 {
		seconds = s.hold.DefaultSeconds
	}
	if seconds > s.hold.MaxSeconds {
		seconds = s.hold.MaxSeconds
	}
	return time.Duration(seconds) * time.Second
}

// releaseSeat flips the seat back to available after the ledger transition
// already won. A failed flip is not fatal: the orphan sweep picks it up.
func (s *reservationService) releaseSeat(ctx context.Context, reservation *entity.Reservation) {
	ok, err := s.repo.Seat.CompareAndSetStatus(ctx, reservation.EventID, reservation.SeatID, entity.SeatStatusHeld, entity.SeatStatusAvailable)
	if err != nil {
		s.log.Error("Failed to release seat",
			zap.Error(err),
			zap.String("seat_id", reservation.SeatID.String()),
		)
		return
	}
	if !ok {
		s.log.Warn("Seat already released",
			zap.String("seat_id", reservation.SeatID.String()),
			zap.String("reservation_id", reservation.ID.String()),
		)
	}
}
