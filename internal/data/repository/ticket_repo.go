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

type TicketRepository interface {
	Create(ctx context.Context, ticket *entity.Ticket) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Ticket, error)
	FindByReservationID(ctx context.Context, reservationID uuid.UUID) (*entity.Ticket, error)
	FindByHolderID(ctx context.Context, holderID uuid.UUID) ([]*entity.Ticket, error)
}

type ticketRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTicketRepository(db database.PgxIface, log *zap.Logger) TicketRepository {
	return &ticketRepository{
		db:  db,
		log: log.With(zap.String("repository", "ticket")),
	}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *entity.Ticket) error {
	// reservation_id carries a unique constraint, so a replayed confirm can
	// never mint a second ticket for the same reservation.
	query := `
		INSERT INTO tickets (id, reservation_id, seat_id, event_id, holder_id, price, ticket_number, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.Exec(ctx, query,
		ticket.ID,
		ticket.ReservationID,
		ticket.SeatID,
		ticket.EventID,
		ticket.HolderID,
		ticket.Price,
		ticket.TicketNumber,
		ticket.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create ticket",
			zap.Error(err),
			zap.String("reservation_id", ticket.ReservationID.String()),
		)
		return fmt.Errorf("failed to create ticket: %w", err)
	}

	return nil
}

func (r *ticketRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Ticket, error) {
	query := `
		SELECT id, reservation_id, seat_id, event_id, holder_id, price, ticket_number, created_at
		FROM tickets
		WHERE id = $1
	`

	var ticket entity.Ticket
	err := r.db.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.ReservationID,
		&ticket.SeatID,
		&ticket.EventID,
		&ticket.HolderID,
		&ticket.Price,
		&ticket.TicketNumber,
		&ticket.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		r.log.Error("Failed to find ticket by ID",
			zap.Error(err),
			zap.String("ticket_id", id.String()),
		)
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}

	return &ticket, nil
}

func (r *ticketRepository) FindByReservationID(ctx context.Context, reservationID uuid.UUID) (*entity.Ticket, error) {
	query := `
		SELECT id, reservation_id, seat_id, event_id, holder_id, price, ticket_number, created_at
		FROM tickets
		WHERE reservation_id = $1
	`

	var ticket entity.Ticket
	err := r.db.QueryRow(ctx, query, reservationID).Scan(
		&ticket.ID,
		&ticket.ReservationID,
		&ticket.SeatID,
		&ticket.EventID,
		&ticket.HolderID,
		&ticket.Price,
		&ticket.TicketNumber,
		&ticket.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		r.log.Error("Failed to find ticket by reservation ID",
			zap.Error(err),
			zap.String("reservation_id", reservationID.String()),
		)
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}

	return &ticket, nil
}

func (r *ticketRepository) FindByHolderID(ctx context.Context, holderID uuid.UUID) ([]*entity.Ticket, error) {
	query := `
		SELECT id, reservation_id, seat_id, event_id, holder_id, price, ticket_number, created_at
		FROM tickets
		WHERE holder_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(ctx, query, holderID)
	if err != nil {
		r.log.Error("Failed to find tickets by holder ID",
			zap.Error(err),
			zap.String("holder_id", holderID.String()),
		)
		return nil, fmt.Errorf("failed to find tickets: %w", err)
	}
	defer rows.Close()

	var tickets []*entity.Ticket
	for rows.Next() {
		var ticket entity.Ticket
		err := rows.Scan(
			&ticket.ID,
			&ticket.ReservationID,
			&ticket.SeatID,
			&ticket.EventID,
			&ticket.HolderID,
			&ticket.Price,
			&ticket.TicketNumber,
			&ticket.CreatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan ticket row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan ticket: %w", err)
		}
		tickets = append(tickets, &ticket)
	}

	return tickets, nil
}
