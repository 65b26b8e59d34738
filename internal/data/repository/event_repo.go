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

type EventRepository interface {
	Create(ctx context.Context, event *entity.Event) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error)
	FindPublished(ctx context.Context) ([]*entity.Event, error)
	Archive(ctx context.Context, id uuid.UUID) error
}

type eventRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewEventRepository(db database.PgxIface, log *zap.Logger) EventRepository {
	return &eventRepository{
		db:  db,
		log: log.With(zap.String("repository", "event")),
	}
}

func (r *eventRepository) Create(ctx context.Context, event *entity.Event) error {
	query := `
		INSERT INTO events (id, name, venue, starts_at, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		event.ID,
		event.Name,
		event.Venue,
		event.StartsAt,
		event.Status,
		event.CreatedAt,
		event.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create event",
			zap.Error(err),
			zap.String("name", event.Name),
		)
		return fmt.Errorf("failed to create event: %w", err)
	}

	return nil
}

func (r *eventRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	query := `
		SELECT id, name, venue, starts_at, status, created_at, updated_at, deleted_at
		FROM events
		WHERE id = $1 AND deleted_at IS NULL
	`

	var event entity.Event
	err := r.db.QueryRow(ctx, query, id).Scan(
		&event.ID,
		&event.Name,
		&event.Venue,
		&event.StartsAt,
		&event.Status,
		&event.CreatedAt,
		&event.UpdatedAt,
		&event.DeletedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		r.log.Error("Failed to find event by ID",
			zap.Error(err),
			zap.String("event_id", id.String()),
		)
		return nil, fmt.Errorf("failed to find event: %w", err)
	}

	return &event, nil
}

func (r *eventRepository) FindPublished(ctx context.Context) ([]*entity.Event, error) {
	query := `
		SELECT id, name, venue, starts_at, status, created_at, updated_at
		FROM events
		WHERE status = 'published' AND deleted_at IS NULL
		ORDER BY starts_at
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find published events", zap.Error(err))
		return nil, fmt.Errorf("failed to find events: %w", err)
	}
	defer rows.Close()

	var events []*entity.Event
	for rows.Next() {
		var event entity.Event
		err := rows.Scan(
			&event.ID,
			&event.Name,
			&event.Venue,
			&event.StartsAt,
			&event.Status,
			&event.CreatedAt,
			&event.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan event row", zap.Error(err))
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, &event)
	}

	return events, nil
}

func (r *eventRepository) Archive(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE events SET status = 'archived', updated_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to archive event",
			zap.Error(err),
			zap.String("event_id", id.String()),
		)
		return fmt.Errorf("failed to archive event: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	r.log.Info("Event archived", zap.String("event_id", id.String()))
	return nil
}
