package adaptor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ticket-reservation/internal/data/entity"
	"ticket-reservation/internal/data/repository"
	"ticket-reservation/internal/dto/request"
	"ticket-reservation/internal/dto/response"
	"ticket-reservation/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubReservationService lets each test script the engine's answer without a
// store behind it.
type stubReservationService struct {
	hold       func(ctx context.Context, req *request.HoldSeatRequest) (*response.ReservationResponse, error)
	extend     func(ctx context.Context, id string, req *request.ExtendReservationRequest) (*response.ExtendResponse, error)
	cancel     func(ctx context.Context, id string) error
	confirm    func(ctx context.Context, id string, req *request.ConfirmReservationRequest) (*response.TicketResponse, error)
	get        func(ctx context.Context, id string) (*response.ReservationResponse, error)
	getTickets func(ctx context.Context, holderID string) ([]*response.TicketResponse, error)
}

func (s *stubReservationService) Hold(ctx context.Context, req *request.HoldSeatRequest) (*response.ReservationResponse, error) {
	return s.hold(ctx, req)
}

func (s *stubReservationService) Extend(ctx context.Context, id string, req *request.ExtendReservationRequest) (*response.ExtendResponse, error) {
	return s.extend(ctx, id, req)
}

func (s *stubReservationService) Cancel(ctx context.Context, id string) error {
	return s.cancel(ctx, id)
}

func (s *stubReservationService) Confirm(ctx context.Context, id string, req *request.ConfirmReservationRequest) (*response.TicketResponse, error) {
	return s.confirm(ctx, id, req)
}

func (s *stubReservationService) GetReservation(ctx context.Context, id string) (*response.ReservationResponse, error) {
	return s.get(ctx, id)
}

func (s *stubReservationService) GetHolderTickets(ctx context.Context, holderID string) ([]*response.TicketResponse, error) {
	return s.getTickets(ctx, holderID)
}

type stubReaperService struct {
	sweep func(ctx context.Context) (int, error)
}

func (s *stubReaperService) Sweep(ctx context.Context) (int, error) { return s.sweep(ctx) }
func (s *stubReaperService) Run(ctx context.Context)                {}

func reservationRouter(service *stubReservationService, reaper *stubReaperService) *chi.Mux {
	if reaper == nil {
		reaper = &stubReaperService{sweep: func(context.Context) (int, error) { return 0, nil }}
	}
	handler := NewReservationHandler(service, reaper, zap.NewNop())

	router := chi.NewRouter()
	router.Post("/api/reservations", handler.HoldSeat)
	router.Get("/api/reservations/{id}", handler.GetReservation)
	router.Put("/api/reservations/{id}/extend", handler.ExtendReservation)
	router.Delete("/api/reservations/{id}", handler.CancelReservation)
	router.Post("/api/reservations/{id}/confirm", handler.ConfirmReservation)
	router.Post("/api/reservations/cleanup", handler.Cleanup)
	router.Get("/api/holders/{holderId}/tickets", handler.GetHolderTickets)
	return router
}

func doJSON(t *testing.T, router http.Handler, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) utils.Response {
	t.Helper()
	var envelope utils.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	return envelope
}

func validHoldBody() map[string]any {
	return map[string]any{
		"event_id":  uuid.New().String(),
		"seat_id":   uuid.New().String(),
		"holder_id": uuid.New().String(),
	}
}

func TestHoldSeat_Created(t *testing.T) {
	reservationID := uuid.New().String()
	service := &stubReservationService{
		hold: func(ctx context.Context, req *request.HoldSeatRequest) (*response.ReservationResponse, error) {
			return &response.ReservationResponse{
				ID:        reservationID,
				EventID:   req.EventID,
				SeatID:    req.SeatID,
				HolderID:  req.HolderID,
				Status:    entity.ReservationStatusActive,
				ExpiresAt: time.Now().Add(10 * time.Minute),
			}, nil
		},
	}

	rec := doJSON(t, reservationRouter(service, nil), http.MethodPost, "/api/reservations", validHoldBody())

	assert.Equal(t, http.StatusCreated, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.True(t, envelope.Status)
	data := envelope.Data.(map[string]any)
	assert.Equal(t, reservationID, data["id"])
	assert.Equal(t, "active", data["status"])
}

func TestHoldSeat_SeatTaken(t *testing.T) {
	service := &stubReservationService{
		hold: func(ctx context.Context, req *request.HoldSeatRequest) (*response.ReservationResponse, error) {
			return nil, fmt.Errorf("seat %s: %w", req.SeatID, repository.ErrSeatUnavailable)
		},
	}

	rec := doJSON(t, reservationRouter(service, nil), http.MethodPost, "/api/reservations", validHoldBody())

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.False(t, decodeEnvelope(t, rec).Status)
}

func TestHoldSeat_UnknownSeat(t *testing.T) {
	service := &stubReservationService{
		hold: func(ctx context.Context, req *request.HoldSeatRequest) (*response.ReservationResponse, error) {
			return nil, fmt.Errorf("seat %s: %w", req.SeatID, repository.ErrNotFound)
		},
	}

	rec := doJSON(t, reservationRouter(service, nil), http.MethodPost, "/api/reservations", validHoldBody())
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHoldSeat_BadBody(t *testing.T) {
	service := &stubReservationService{
		hold: func(ctx context.Context, req *request.HoldSeatRequest) (*response.ReservationResponse, error) {
			t.Fatal("service must not be reached on a bad body")
			return nil, nil
		},
	}
	router := reservationRouter(service, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/reservations", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Well-formed JSON that fails validation is rejected before the service
	// too.
	rec = doJSON(t, router, http.MethodPost, "/api/reservations", map[string]any{
		"event_id":  "not-a-uuid",
		"seat_id":   uuid.New().String(),
		"holder_id": uuid.New().String(),
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExtendReservation_OK(t *testing.T) {
	newDeadline := time.Now().Add(15 * time.Minute).UTC().Truncate(time.Second)
	service := &stubReservationService{
		extend: func(ctx context.Context, id string, req *request.ExtendReservationRequest) (*response.ExtendResponse, error) {
			assert.Equal(t, 300, req.AdditionalSeconds)
			return &response.ExtendResponse{ID: id, NewExpiresAt: newDeadline}, nil
		},
	}

	id := uuid.New().String()
	rec := doJSON(t, reservationRouter(service, nil), http.MethodPut, "/api/reservations/"+id+"/extend",
		map[string]any{"additional_seconds": 300})

	assert.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope(t, rec).Data.(map[string]any)
	assert.Equal(t, id, data["id"])
}

func TestExtendReservation_Expired(t *testing.T) {
	service := &stubReservationService{
		extend: func(ctx context.Context, id string, req *request.ExtendReservationRequest) (*response.ExtendResponse, error) {
			return nil, fmt.Errorf("reservation %s: %w", id, repository.ErrReservationExpired)
		},
	}

	rec := doJSON(t, reservationRouter(service, nil), http.MethodPut,
		"/api/reservations/"+uuid.New().String()+"/extend", map[string]any{"additional_seconds": 300})
	assert.Equal(t, http.StatusGone, rec.Code)
}

func TestCancelReservation_NoContent(t *testing.T) {
	var cancelled string
	service := &stubReservationService{
		cancel: func(ctx context.Context, id string) error {
			cancelled = id
			return nil
		},
	}

	id := uuid.New().String()
	rec := doJSON(t, reservationRouter(service, nil), http.MethodDelete, "/api/reservations/"+id, nil)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, id, cancelled)
	assert.Zero(t, rec.Body.Len())
}

func TestCancelReservation_NotFound(t *testing.T) {
	service := &stubReservationService{
		cancel: func(ctx context.Context, id string) error {
			return fmt.Errorf("reservation %s: %w", id, repository.ErrNotFound)
		},
	}

	rec := doJSON(t, reservationRouter(service, nil), http.MethodDelete,
		"/api/reservations/"+uuid.New().String(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestConfirmReservation_IssuesTicket(t *testing.T) {
	service := &stubReservationService{
		confirm: func(ctx context.Context, id string, req *request.ConfirmReservationRequest) (*response.TicketResponse, error) {
			assert.Equal(t, "captured", req.PaymentOutcome)
			return &response.TicketResponse{
				ID:            uuid.New().String(),
				TicketNumber:  "TKT-20260314-200000-7F3A",
				ReservationID: id,
				Price:         "45.00",
			}, nil
		},
	}

	id := uuid.New().String()
	rec := doJSON(t, reservationRouter(service, nil), http.MethodPost, "/api/reservations/"+id+"/confirm",
		map[string]any{"payment_outcome": "captured"})

	assert.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope(t, rec).Data.(map[string]any)
	assert.Equal(t, id, data["reservation_id"])
	assert.Equal(t, "45.00", data["price"])
}

func TestConfirmReservation_ErrorStatuses(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"expired", repository.ErrReservationExpired, http.StatusGone},
		{"not active", repository.ErrReservationNotActive, http.StatusConflict},
		{"payment declined", repository.ErrPaymentDeclined, http.StatusPaymentRequired},
		{"corruption", repository.ErrInventoryCorruption, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			service := &stubReservationService{
				confirm: func(ctx context.Context, id string, req *request.ConfirmReservationRequest) (*response.TicketResponse, error) {
					return nil, fmt.Errorf("reservation %s: %w", id, tc.err)
				},
			}

			rec := doJSON(t, reservationRouter(service, nil), http.MethodPost,
				"/api/reservations/"+uuid.New().String()+"/confirm",
				map[string]any{"payment_outcome": "captured"})
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}

func TestConfirmReservation_CorruptionHidesDetail(t *testing.T) {
	service := &stubReservationService{
		confirm: func(ctx context.Context, id string, req *request.ConfirmReservationRequest) (*response.TicketResponse, error) {
			return nil, fmt.Errorf("reservation %s seat abc: %w", id, repository.ErrInventoryCorruption)
		},
	}

	rec := doJSON(t, reservationRouter(service, nil), http.MethodPost,
		"/api/reservations/"+uuid.New().String()+"/confirm",
		map[string]any{"payment_outcome": "captured"})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "Internal server error", envelope.Message)
	assert.NotContains(t, envelope.Message, "seat")
}

func TestConfirmReservation_RejectsUnknownOutcome(t *testing.T) {
	service := &stubReservationService{
		confirm: func(ctx context.Context, id string, req *request.ConfirmReservationRequest) (*response.TicketResponse, error) {
			t.Fatal("service must not be reached on a bad outcome")
			return nil, nil
		},
	}

	rec := doJSON(t, reservationRouter(service, nil), http.MethodPost,
		"/api/reservations/"+uuid.New().String()+"/confirm",
		map[string]any{"payment_outcome": "maybe"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetReservation_OK(t *testing.T) {
	id := uuid.New().String()
	service := &stubReservationService{
		get: func(ctx context.Context, got string) (*response.ReservationResponse, error) {
			assert.Equal(t, id, got)
			return &response.ReservationResponse{ID: got, Status: entity.ReservationStatusActive}, nil
		},
	}

	rec := doJSON(t, reservationRouter(service, nil), http.MethodGet, "/api/reservations/"+id, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetHolderTickets_OK(t *testing.T) {
	service := &stubReservationService{
		getTickets: func(ctx context.Context, holderID string) ([]*response.TicketResponse, error) {
			return []*response.TicketResponse{
				{ID: uuid.New().String(), HolderID: holderID, Price: "45.00"},
				{ID: uuid.New().String(), HolderID: holderID, Price: "120.00"},
			}, nil
		},
	}

	rec := doJSON(t, reservationRouter(service, nil), http.MethodGet,
		"/api/holders/"+uuid.New().String()+"/tickets", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope(t, rec).Data.([]any)
	assert.Len(t, data, 2)
}

func TestCleanup_ReportsReleasedCount(t *testing.T) {
	reaper := &stubReaperService{
		sweep: func(ctx context.Context) (int, error) { return 7, nil },
	}
	service := &stubReservationService{}

	rec := doJSON(t, reservationRouter(service, reaper), http.MethodPost, "/api/reservations/cleanup", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	data := decodeEnvelope(t, rec).Data.(map[string]any)
	assert.Equal(t, float64(7), data["released_count"])
}
