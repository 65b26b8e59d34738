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
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type InventoryService interface {
	// CreateEvent sets up an event and its full seat map in one shot.
	// Capacity is fixed at creation; only seat status mutates afterwards.
	CreateEvent(ctx context.Context, req *request.CreateEventRequest) (*response.EventResponse, error)
	ListEvents(ctx context.Context) ([]*response.EventResponse, error)
	GetSeatMap(ctx context.Context, eventID string) (*response.SeatMapResponse, error)
	ArchiveEvent(ctx context.Context, eventID string) error
}

type inventoryService struct {
	repo *repository.Repository
	log  *zap.Logger
	now  func() time.Time
}

func NewInventoryService(repo *repository.Repository, log *zap.Logger) InventoryService {
	return &inventoryService{
		repo: repo,
		log:  log.With(zap.String("service", "inventory")),
		now:  time.Now,
	}
}

func (s *inventoryService) CreateEvent(ctx context.Context, req *request.CreateEventRequest) (*response.EventResponse, error) {
	// Validate request
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Create event validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return nil, fmt.Errorf("invalid starts_at format %s: %w", req.StartsAt, err)
	}

	now := s.now()
	event := &entity.Event{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:     req.Name,
		Venue:    req.Venue,
		StartsAt: startsAt,
		Status:   entity.EventStatusPublished,
	}

	var seats []*entity.Seat
	for _, block := range req.Seats {
		price, err := decimal.NewFromString(block.Price)
		if err != nil || !price.IsPositive() {
			return nil, fmt.Errorf("invalid price %q for row %s", block.Price, block.Row)
		}
		for num := 1; num <= block.Count; num++ {
			seats = append(seats, &entity.Seat{
				BaseNoDelete: entity.BaseNoDelete{
					ID:        uuid.New(),
					CreatedAt: now,
					UpdatedAt: now,
				},
				EventID:  event.ID,
				SeatRow:  block.Row,
				SeatNum:  num,
				Category: entity.SeatCategory(block.Category),
				Price:    price,
				Status:   entity.SeatStatusAvailable,
				Version:  1,
			})
		}
	}

	if err := s.repo.Event.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	if err := s.repo.Seat.CreateBatch(ctx, seats); err != nil {
		return nil, fmt.Errorf("create event seats: %w", err)
	}

	s.log.Info("Event created",
		zap.String("event_id", event.ID.String()),
		zap.String("name", event.Name),
		zap.Int("seat_count", len(seats)),
	)

	resp := response.EventToResponse(event)
	resp.SeatCount = len(seats)
	return resp, nil
}

func (s *inventoryService) ListEvents(ctx context.Context) ([]*response.EventResponse, error) {
	events, err := s.repo.Event.FindPublished(ctx)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	eventResponses := make([]*response.EventResponse, len(events))
	for i, event := range events {
		eventResponses[i] = response.EventToResponse(event)
	}

	return eventResponses, nil
}

func (s *inventoryService) GetSeatMap(ctx context.Context, eventID string) (*response.SeatMapResponse, error) {
	id, err := uuid.Parse(eventID)
	if err != nil {
		return nil, fmt.Errorf("invalid event ID format %s: %w", eventID, err)
	}

	if _, err := s.repo.Event.FindByID(ctx, id); err != nil {
		return nil, fmt.Errorf("event %s: %w", eventID, err)
	}

	// Always read through to the store; a cached seat map would reintroduce
	// the stale-status race the compare-and-set exists to prevent.
	seats, err := s.repo.Seat.FindByEventID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get seat map: %w", err)
	}

	seatResponses := make([]*response.SeatResponse, len(seats))
	for i, seat := range seats {
		seatResponses[i] = response.SeatToResponse(seat)
	}

	return &response.SeatMapResponse{
		EventID: eventID,
		Seats:   seatResponses,
	}, nil
}

func (s *inventoryService) ArchiveEvent(ctx context.Context, eventID string) error {
	id, err := uuid.Parse(eventID)
	if err != nil {
		return fmt.Errorf("invalid event ID format %s: %w", eventID, err)
	}

	if err := s.repo.Event.Archive(ctx, id); err != nil {
		return fmt.Errorf("archive event %s: %w", eventID, err)
	}

	return nil
}
