package repository

import (
	"context"
	"fmt"
	"time"

	"ticket-reservation/internal/data/entity"
	"ticket-reservation/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type ReservationRepository interface {
	Create(ctx context.Context, reservation *entity.Reservation) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error)
	FindActiveBySeatID(ctx context.Context, seatID uuid.UUID) (*entity.Reservation, error)

	// UpdateStatus moves the reservation out of expected into next, same
	// compare-and-set discipline as the seat store. A reservation leaves
	// "active" exactly once; whoever wins this update owns the transition.
	UpdateStatus(ctx context.Context, id uuid.UUID, expected, next entity.ReservationStatus) (bool, error)

	// ExtendExpiry pushes expires_at forward. Only legal while active and
	// only if the new deadline is strictly later than the current one.
	ExtendExpiry(ctx context.Context, id uuid.UUID, newExpiresAt time.Time) (bool, error)

	// FindExpiring returns active reservations whose deadline has passed.
	FindExpiring(ctx context.Context, now time.Time, limit int) ([]*entity.Reservation, error)
}

type reservationRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReservationRepository(db database.PgxIface, log *zap.Logger) ReservationRepository {
	return &reservationRepository{
		db:  db,
		log: log.With(zap.String("repository", "reservation")),
	}
}

func (r *reservationRepository) Create(ctx context.Context, reservation *entity.Reservation) error {
	query := `
		INSERT INTO reservations (id, event_id, seat_id, holder_id, expires_at, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		reservation.ID,
		reservation.EventID,
		reservation.SeatID,
		reservation.HolderID,
		reservation.ExpiresAt,
		reservation.Status,
		reservation.CreatedAt,
		reservation.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create reservation",
			zap.Error(err),
			zap.String("seat_id", reservation.SeatID.String()),
			zap.String("holder_id", reservation.HolderID.String()),
		)
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	return nil
}

func (r *reservationRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	query := `
		SELECT id, event_id, seat_id, holder_id, expires_at, status, created_at, updated_at
		FROM reservations
		WHERE id = $1
	`

	var reservation entity.Reservation
	err := r.db.QueryRow(ctx, query, id).Scan(
		&reservation.ID,
		&reservation.EventID,
		&reservation.SeatID,
		&reservation.HolderID,
		&reservation.ExpiresAt,
		&reservation.Status,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		r.log.Error("Failed to find reservation by ID",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
		)
		return nil, fmt.Errorf("failed to find reservation: %w", err)
	}

	return &reservation, nil
}

func (r *reservationRepository) FindActiveBySeatID(ctx context.Context, seatID uuid.UUID) (*entity.Reservation, error) {
	query := `
		SELECT id, event_id, seat_id, holder_id, expires_at, status, created_at, updated_at
		FROM reservations
		WHERE seat_id = $1 AND status = 'active'
	`

	var reservation entity.Reservation
	err := r.db.QueryRow(ctx, query, seatID).Scan(
		&reservation.ID,
		&reservation.EventID,
		&reservation.SeatID,
		&reservation.HolderID,
		&reservation.ExpiresAt,
		&reservation.Status,
		&reservation.CreatedAt,
		&reservation.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		r.log.Error("Failed to find active reservation by seat",
			zap.Error(err),
			zap.String("seat_id", seatID.String()),
		)
		return nil, fmt.Errorf("failed to find active reservation: %w", err)
	}

	return &reservation, nil
}

func (r *reservationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, expected, next entity.ReservationStatus) (bool, error) {
	query := `
		UPDATE reservations
		SET status = $3, updated_at = NOW()
		WHERE id = $1 AND status = $2
	`

	result, err := r.db.Exec(ctx, query, id, expected, next)
	if err != nil {
		r.log.Error("Failed to update reservation status",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
			zap.String("expected", string(expected)),
			zap.String("next", string(next)),
		)
		return false, fmt.Errorf("failed to update reservation status: %w", err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *reservationRepository) ExtendExpiry(ctx context.Context, id uuid.UUID, newExpiresAt time.Time) (bool, error) {
	// expires_at is monotonically non-decreasing: the guard rejects any
	// extension that would move the deadline backwards.
	query := `
		UPDATE reservations
		SET expires_at = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'active' AND expires_at < $2
	`

	result, err := r.db.Exec(ctx, query, id, newExpiresAt)
	if err != nil {
		r.log.Error("Failed to extend reservation expiry",
			zap.Error(err),
			zap.String("reservation_id", id.String()),
			zap.Time("new_expires_at", newExpiresAt),
		)
		return false, fmt.Errorf("failed to extend reservation expiry: %w", err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *reservationRepository) FindExpiring(ctx context.Context, now time.Time, limit int) ([]*entity.Reservation, error) {
	query := `
		SELECT id, event_id, seat_id, holder_id, expires_at, status, created_at, updated_at
		FROM reservations
		WHERE status = 'active' AND expires_at <= $1
		ORDER BY expires_at
		LIMIT $2
	`

	rows, err := r.db.Query(ctx, query, now, limit)
	if err != nil {
		r.log.Error("Failed to find expiring reservations", zap.Error(err))
		return nil, fmt.Errorf("failed to find expiring reservations: %w", err)
	}
	defer rows.Close()

	var reservations []*entity.Reservation
	for rows.Next() {
		var reservation entity.Reservation
		err := rows.Scan(
			&reservation.ID,
			&reservation.EventID,
			&reservation.SeatID,
			&reservation.HolderID,
			&reservation.ExpiresAt,
			&reservation.Status,
			&reservation.CreatedAt,
			&reservation.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan reservation row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		reservations = append(reservations, &reservation)
	}

	return reservations, nil
}
