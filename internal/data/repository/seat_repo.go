package repository

import (
	"context"
	"fmt"

	"ticket-reservation/internal/data/entity"
	"ticket-reservation/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type SeatRepository interface {
	Create(ctx context.Context, seat *entity.Seat) error
	CreateBatch(ctx context.Context, seats []*entity.Seat) error
	FindByID(ctx context.Context, eventID, seatID uuid.UUID) (*entity.Seat, error)
	FindByEventID(ctx context.Context, eventID uuid.UUID) ([]*entity.Seat, error)

	// CompareAndSetStatus flips the seat status only if the current status
	// matches expected. This is the single serialization point for a seat;
	// the check-and-write happens in one UPDATE so it is atomic against any
	// other writer, including other instances of this process.
	CompareAndSetStatus(ctx context.Context, eventID, seatID uuid.UUID, expected, next entity.SeatStatus) (bool, error)

	// FindOrphanedHeldSeats returns seats stuck in "held" with no active
	// reservation pointing at them. Only possible after a crash between the
	// ledger and inventory steps of a release.
	FindOrphanedHeldSeats(ctx context.Context, limit int) ([]*entity.Seat, error)
}

type seatRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewSeatRepository(db database.PgxIface, log *zap.Logger) SeatRepository {
	return &seatRepository{
		db:  db,
		log: log.With(zap.String("repository", "seat")),
	}
}

func (r *seatRepository) Create(ctx context.Context, seat *entity.Seat) error {
	query := `
		INSERT INTO seats (id, event_id, seat_row, seat_num, category, price, status, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.Exec(ctx, query,
		seat.ID,
		seat.EventID,
		seat.SeatRow,
		seat.SeatNum,
		seat.Category,
		seat.Price,
		seat.Status,
		seat.Version,
		seat.CreatedAt,
		seat.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create seat",
			zap.Error(err),
			zap.String("event_id", seat.EventID.String()),
			zap.String("seat", seat.Label()),
		)
		return fmt.Errorf("failed to create seat: %w", err)
	}

	return nil
}

func (r *seatRepository) CreateBatch(ctx context.Context, seats []*entity.Seat) error {
	if len(seats) == 0 {
		return nil
	}

	// Build batch insert
	query := `INSERT INTO seats (id, event_id, seat_row, seat_num, category, price, status, version, created_at, updated_at) VALUES `
	args := []interface{}{}

	for i, seat := range seats {
		if i > 0 {
			query += ", "
		}
		query += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			i*10+1, i*10+2, i*10+3, i*10+4, i*10+5, i*10+6, i*10+7, i*10+8, i*10+9, i*10+10)

		args = append(args,
			seat.ID,
			seat.EventID,
			seat.SeatRow,
			seat.SeatNum,
			seat.Category,
			seat.Price,
			seat.Status,
			seat.Version,
			seat.CreatedAt,
			seat.UpdatedAt,
		)
	}

	_, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to create batch seats",
			zap.Error(err),
			zap.Int("count", len(seats)),
		)
		return fmt.Errorf("failed to create batch seats: %w", err)
	}

	return nil
}

func (r *seatRepository) FindByID(ctx context.Context, eventID, seatID uuid.UUID) (*entity.Seat, error) {
	query := `
		SELECT id, event_id, seat_row, seat_num, category, price, status, version, created_at, updated_at
		FROM seats
		WHERE id = $1 AND event_id = $2
	`

	var seat entity.Seat
	err := r.db.QueryRow(ctx, query, seatID, eventID).Scan(
		&seat.ID,
		&seat.EventID,
		&seat.SeatRow,
		&seat.SeatNum,
		&seat.Category,
		&seat.Price,
		&seat.Status,
		&seat.Version,
		&seat.CreatedAt,
		&seat.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		r.log.Error("Failed to find seat by ID",
			zap.Error(err),
			zap.String("seat_id", seatID.String()),
		)
		return nil, fmt.Errorf("failed to find seat: %w", err)
	}

	return &seat, nil
}

func (r *seatRepository) FindByEventID(ctx context.Context, eventID uuid.UUID) ([]*entity.Seat, error) {
	query := `
		SELECT id, event_id, seat_row, seat_num, category, price, status, version, created_at, updated_at
		FROM seats
		WHERE event_id = $1
		ORDER BY seat_row, seat_num
	`

	rows, err := r.db.Query(ctx, query, eventID)
	if err != nil {
		r.log.Error("Failed to find seats by event ID",
			zap.Error(err),
			zap.String("event_id", eventID.String()),
		)
		return nil, fmt.Errorf("failed to find seats: %w", err)
	}
	defer rows.Close()

	var seats []*entity.Seat
	for rows.Next() {
		var seat entity.Seat
		err := rows.Scan(
			&seat.ID,
			&seat.EventID,
			&seat.SeatRow,
			&seat.SeatNum,
			&seat.Category,
			&seat.Price,
			&seat.Status,
			&seat.Version,
			&seat.CreatedAt,
			&seat.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan seat row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan seat: %w", err)
		}
		seats = append(seats, &seat)
	}

	return seats, nil
}

func (r *seatRepository) CompareAndSetStatus(ctx context.Context, eventID, seatID uuid.UUID, expected, next entity.SeatStatus) (bool, error) {
	query := `
		UPDATE seats
		SET status = $4, version = version + 1, updated_at = NOW()
		WHERE id = $1 AND event_id = $2 AND status = $3
	`

	result, err := r.db.Exec(ctx, query, seatID, eventID, expected, next)
	if err != nil {
		r.log.Error("Failed to compare-and-set seat status",
			zap.Error(err),
			zap.String("seat_id", seatID.String()),
			zap.String("expected", string(expected)),
			zap.String("next", string(next)),
		)
		return false, fmt.Errorf("failed to compare-and-set seat status: %w", err)
	}

	return result.RowsAffected() == 1, nil
}

func (r *seatRepository) FindOrphanedHeldSeats(ctx context.Context, limit int) ([]*entity.Seat, error) {
	// The updated_at guard leaves a grace window for holds that are between
	// flipping the seat and inserting their reservation row.
	query := `
		SELECT s.id, s.event_id, s.seat_row, s.seat_num, s.category, s.price, s.status, s.version, s.created_at, s.updated_at
		FROM seats s
		WHERE s.status = 'held'
		  AND s.updated_at < NOW() - INTERVAL '1 minute'
		  AND NOT EXISTS (
			SELECT 1 FROM reservations r
			WHERE r.seat_id = s.id AND r.status = 'active'
		  )
		LIMIT $1
	`

	rows, err := r.db.Query(ctx, query, limit)
	if err != nil {
		r.log.Error("Failed to find orphaned held seats", zap.Error(err))
		return nil, fmt.Errorf("failed to find orphaned held seats: %w", err)
	}
	defer rows.Close()

	var seats []*entity.Seat
	for rows.Next() {
		var seat entity.Seat
		err := rows.Scan(
			&seat.ID,
			&seat.EventID,
			&seat.SeatRow,
			&seat.SeatNum,
			&seat.Category,
			&seat.Price,
			&seat.Status,
			&seat.Version,
			&seat.CreatedAt,
			&seat.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan seat row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan seat: %w", err)
		}
		seats = append(seats, &seat)
	}

	return seats, nil
}
