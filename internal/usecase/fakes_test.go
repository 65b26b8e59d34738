package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"ticket-reservation/internal/data/entity"
	"ticket-reservation/internal/data/repository"
	"ticket-reservation/pkg/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// testClock is a controllable clock shared by the services and fakes under
// test, so expiry scenarios don't need real sleeps.
type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func newTestClock() *testClock {
	return &testClock{t: time.Date(2026, 3, 14, 20, 0, 0, 0, time.UTC)}
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// fakeSeatRepo is a mutex-backed stand-in for the Postgres seat store. Its
// CompareAndSetStatus has the same indivisibility guarantee as the single
// UPDATE in the real implementation.
type fakeSeatRepo struct {
	mu           sync.Mutex
	seats        map[uuid.UUID]*entity.Seat
	reservations *fakeReservationRepo
	clock        *testClock
}

func newFakeSeatRepo(clock *testClock, reservations *fakeReservationRepo) *fakeSeatRepo {
	return &fakeSeatRepo{
		seats:        make(map[uuid.UUID]*entity.Seat),
		reservations: reservations,
		clock:        clock,
	}
}

func copySeat(s *entity.Seat) *entity.Seat {
	c := *s
	return &c
}

func (f *fakeSeatRepo) Create(ctx context.Context, seat *entity.Seat) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seats[seat.ID] = copySeat(seat)
	return nil
}

func (f *fakeSeatRepo) CreateBatch(ctx context.Context, seats []*entity.Seat) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, seat := range seats {
		f.seats[seat.ID] = copySeat(seat)
	}
	return nil
}

func (f *fakeSeatRepo) FindByID(ctx context.Context, eventID, seatID uuid.UUID) (*entity.Seat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seat, ok := f.seats[seatID]
	if !ok || seat.EventID != eventID {
		return nil, repository.ErrNotFound
	}
	return copySeat(seat), nil
}

func (f *fakeSeatRepo) FindByEventID(ctx context.Context, eventID uuid.UUID) ([]*entity.Seat, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var seats []*entity.Seat
	for _, seat := range f.seats {
		if seat.EventID == eventID {
			seats = append(seats, copySeat(seat))
		}
	}
	sort.Slice(seats, func(i, j int) bool {
		if seats[i].SeatRow != seats[j].SeatRow {
			return seats[i].SeatRow < seats[j].SeatRow
		}
		return seats[i].SeatNum < seats[j].SeatNum
	})
	return seats, nil
}

func (f *fakeSeatRepo) CompareAndSetStatus(ctx context.Context, eventID, seatID uuid.UUID, expected, next entity.SeatStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seat, ok := f.seats[seatID]
	if !ok || seat.EventID != eventID || seat.Status != expected {
		return false, nil
	}
	seat.Status = next
	seat.Version++
	seat.UpdatedAt = f.clock.Now()
	return true, nil
}

func (f *fakeSeatRepo) FindOrphanedHeldSeats(ctx context.Context, limit int) ([]*entity.Seat, error) {
	cutoff := f.clock.Now().Add(-time.Minute)
	f.mu.Lock()
	defer f.mu.Unlock()
	var seats []*entity.Seat
	for _, seat := range f.seats {
		if seat.Status != entity.SeatStatusHeld || !seat.UpdatedAt.Before(cutoff) {
			continue
		}
		if f.reservations.hasActiveForSeat(seat.ID) {
			continue
		}
		seats = append(seats, copySeat(seat))
		if len(seats) == limit {
			break
		}
	}
	return seats, nil
}

type fakeReservationRepo struct {
	mu           sync.Mutex
	reservations map[uuid.UUID]*entity.Reservation
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{reservations: make(map[uuid.UUID]*entity.Reservation)}
}

func copyReservation(r *entity.Reservation) *entity.Reservation {
	c := *r
	return &c
}

func (f *fakeReservationRepo) hasActiveForSeat(seatID uuid.UUID) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reservations {
		if r.SeatID == seatID && r.Status == entity.ReservationStatusActive {
			return true
		}
	}
	return false
}

func (f *fakeReservationRepo) Create(ctx context.Context, reservation *entity.Reservation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reservations {
		if r.SeatID == reservation.SeatID && r.Status == entity.ReservationStatusActive {
			return fmt.Errorf("unique violation: active reservation exists for seat %s", reservation.SeatID)
		}
	}
	f.reservations[reservation.ID] = copyReservation(reservation)
	return nil
}

func (f *fakeReservationRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reservation, ok := f.reservations[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyReservation(reservation), nil
}

func (f *fakeReservationRepo) FindActiveBySeatID(ctx context.Context, seatID uuid.UUID) (*entity.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.reservations {
		if r.SeatID == seatID && r.Status == entity.ReservationStatusActive {
			return copyReservation(r), nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeReservationRepo) UpdateStatus(ctx context.Context, id uuid.UUID, expected, next entity.ReservationStatus) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reservation, ok := f.reservations[id]
	if !ok || reservation.Status != expected {
		return false, nil
	}
	reservation.Status = next
	return true, nil
}

func (f *fakeReservationRepo) ExtendExpiry(ctx context.Context, id uuid.UUID, newExpiresAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	reservation, ok := f.reservations[id]
	if !ok || reservation.Status != entity.ReservationStatusActive || !newExpiresAt.After(reservation.ExpiresAt) {
		return false, nil
	}
	reservation.ExpiresAt = newExpiresAt
	return true, nil
}

func (f *fakeReservationRepo) FindExpiring(ctx context.Context, now time.Time, limit int) ([]*entity.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var reservations []*entity.Reservation
	for _, r := range f.reservations {
		if r.Status == entity.ReservationStatusActive && !r.ExpiresAt.After(now) {
			reservations = append(reservations, copyReservation(r))
		}
	}
	sort.Slice(reservations, func(i, j int) bool {
		return reservations[i].ExpiresAt.Before(reservations[j].ExpiresAt)
	})
	if len(reservations) > limit {
		reservations = reservations[:limit]
	}
	return reservations, nil
}

type fakeTicketRepo struct {
	mu      sync.Mutex
	tickets map[uuid.UUID]*entity.Ticket
	byRes   map[uuid.UUID]uuid.UUID
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{
		tickets: make(map[uuid.UUID]*entity.Ticket),
		byRes:   make(map[uuid.UUID]uuid.UUID),
	}
}

func copyTicket(t *entity.Ticket) *entity.Ticket {
	c := *t
	return &c
}

func (f *fakeTicketRepo) Create(ctx context.Context, ticket *entity.Ticket) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.byRes[ticket.ReservationID]; exists {
		return fmt.Errorf("unique violation: ticket exists for reservation %s", ticket.ReservationID)
	}
	f.tickets[ticket.ID] = copyTicket(ticket)
	f.byRes[ticket.ReservationID] = ticket.ID
	return nil
}

func (f *fakeTicketRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ticket, ok := f.tickets[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyTicket(ticket), nil
}

func (f *fakeTicketRepo) FindByReservationID(ctx context.Context, reservationID uuid.UUID) (*entity.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	id, ok := f.byRes[reservationID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyTicket(f.tickets[id]), nil
}

func (f *fakeTicketRepo) FindByHolderID(ctx context.Context, holderID uuid.UUID) ([]*entity.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var tickets []*entity.Ticket
	for _, ticket := range f.tickets {
		if ticket.HolderID == holderID {
			tickets = append(tickets, copyTicket(ticket))
		}
	}
	return tickets, nil
}

func (f *fakeTicketRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tickets)
}

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[uuid.UUID]*entity.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[uuid.UUID]*entity.Event)}
}

func copyEvent(e *entity.Event) *entity.Event {
	c := *e
	return &c
}

func (f *fakeEventRepo) Create(ctx context.Context, event *entity.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events[event.ID] = copyEvent(event)
	return nil
}

func (f *fakeEventRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return copyEvent(event), nil
}

func (f *fakeEventRepo) FindPublished(ctx context.Context) ([]*entity.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var events []*entity.Event
	for _, event := range f.events {
		if event.Status == entity.EventStatusPublished {
			events = append(events, copyEvent(event))
		}
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].StartsAt.Before(events[j].StartsAt)
	})
	return events, nil
}

func (f *fakeEventRepo) Archive(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	event, ok := f.events[id]
	if !ok {
		return repository.ErrNotFound
	}
	event.Status = entity.EventStatusArchived
	return nil
}

// testEnv wires the services against the fakes with a shared fake clock.
type testEnv struct {
	clock       *testClock
	repo        *repository.Repository
	seats       *fakeSeatRepo
	ledger      *fakeReservationRepo
	tickets     *fakeTicketRepo
	events      *fakeEventRepo
	reservation ReservationService
	inventory   InventoryService
	reaper      ReaperService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	clock := newTestClock()
	ledger := newFakeReservationRepo()
	seats := newFakeSeatRepo(clock, ledger)
	tickets := newFakeTicketRepo()
	events := newFakeEventRepo()

	repo := &repository.Repository{
		Event:       events,
		Seat:        seats,
		Reservation: ledger,
		Ticket:      tickets,
	}

	config := &utils.Config{
		Hold:   utils.HoldConfig{DefaultSeconds: 600, MaxSeconds: 1800},
		Reaper: utils.ReaperConfig{IntervalSeconds: 10, BatchSize: 500},
	}
	log := zap.NewNop()

	reservation := NewReservationService(repo, config, log).(*reservationService)
	reservation.now = clock.Now
	inventory := NewInventoryService(repo, log).(*inventoryService)
	inventory.now = clock.Now
	reaper := NewReaperService(repo, config, log).(*reaperService)
	reaper.now = clock.Now

	return &testEnv{
		clock:       clock,
		repo:        repo,
		seats:       seats,
		ledger:      ledger,
		tickets:     tickets,
		events:      events,
		reservation: reservation,
		inventory:   inventory,
		reaper:      reaper,
	}
}

func (e *testEnv) seedEvent(t *testing.T) *entity.Event {
	t.Helper()
	now := e.clock.Now()
	event := &entity.Event{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:     "Arena Night",
		Venue:    "Riverside Arena",
		StartsAt: now.Add(48 * time.Hour),
		Status:   entity.EventStatusPublished,
	}
	if err := e.events.Create(context.Background(), event); err != nil {
		t.Fatalf("seed event: %v", err)
	}
	return event
}

func (e *testEnv) seedSeat(t *testing.T, eventID uuid.UUID, row string, num int) *entity.Seat {
	t.Helper()
	now := e.clock.Now()
	seat := &entity.Seat{
		BaseNoDelete: entity.BaseNoDelete{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		EventID:  eventID,
		SeatRow:  row,
		SeatNum:  num,
		Category: entity.SeatCategoryGeneral,
		Price:    decimal.NewFromInt(45),
		Status:   entity.SeatStatusAvailable,
		Version:  1,
	}
	if err := e.seats.Create(context.Background(), seat); err != nil {
		t.Fatalf("seed seat: %v", err)
	}
	return seat
}
