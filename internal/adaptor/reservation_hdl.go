package adaptor

import (
	"encoding/json"
	"net/http"

	"ticket-reservation/internal/dto/request"
	"ticket-reservation/internal/usecase"
	"ticket-reservation/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReservationHandler struct {
	service usecase.ReservationService
	reaper  usecase.ReaperService
	log     *zap.Logger
}

func NewReservationHandler(service usecase.ReservationService, reaper usecase.ReaperService, log *zap.Logger) *ReservationHandler {
	return &ReservationHandler{
		service: service,
		reaper:  reaper,
		log:     log.With(zap.String("handler", "reservation")),
	}
}

// HoldSeat handles POST /api/reservations
func (h *ReservationHandler) HoldSeat(w http.ResponseWriter, r *http.Request) {
	var req request.HoldSeatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	// Validate request
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	reservation, err := h.service.Hold(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "hold seat")
		return
	}

	utils.ResponseCreated(w, "success", reservation)
}

// ExtendReservation handles PUT /api/reservations/{id}/extend
func (h *ReservationHandler) ExtendReservation(w http.ResponseWriter, r *http.Request) {
	reservationID := chi.URLParam(r, "id")

	var req request.ExtendReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	// Validate request
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	extended, err := h.service.Extend(r.Context(), reservationID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "extend reservation")
		return
	}

	utils.ResponseSuccess(w, "success", extended)
}

// CancelReservation handles DELETE /api/reservations/{id}
func (h *ReservationHandler) CancelReservation(w http.ResponseWriter, r *http.Request) {
	reservationID := chi.URLParam(r, "id")

	if err := h.service.Cancel(r.Context(), reservationID); err != nil {
		writeServiceError(w, h.log, err, "cancel reservation")
		return
	}

	utils.ResponseNoContent(w)
}

// ConfirmReservation handles POST /api/reservations/{id}/confirm (collaborator only)
func (h *ReservationHandler) ConfirmReservation(w http.ResponseWriter, r *http.Request) {
	reservationID := chi.URLParam(r, "id")

	var req request.ConfirmReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	// Validate request
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	ticket, err := h.service.Confirm(r.Context(), reservationID, &req)
	if err != nil {
		writeServiceError(w, h.log, err, "confirm reservation")
		return
	}

	utils.ResponseSuccess(w, "success", ticket)
}

// GetReservation handles GET /api/reservations/{id}
func (h *ReservationHandler) GetReservation(w http.ResponseWriter, r *http.Request) {
	reservationID := chi.URLParam(r, "id")

	reservation, err := h.service.GetReservation(r.Context(), reservationID)
	if err != nil {
		writeServiceError(w, h.log, err, "get reservation")
		return
	}

	utils.ResponseSuccess(w, "success", reservation)
}

// GetHolderTickets handles GET /api/holders/{holderId}/tickets
func (h *ReservationHandler) GetHolderTickets(w http.ResponseWriter, r *http.Request) {
	holderID := chi.URLParam(r, "holderId")

	tickets, err := h.service.GetHolderTickets(r.Context(), holderID)
	if err != nil {
		writeServiceError(w, h.log, err, "get holder tickets")
		return
	}

	utils.ResponseSuccess(w, "success", tickets)
}

// Cleanup handles POST /api/reservations/cleanup (collaborator only). The
// same sweep runs on a timer; this endpoint exists for ops and tests.
func (h *ReservationHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	released, err := h.reaper.Sweep(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "cleanup")
		return
	}

	utils.ResponseSuccess(w, "success", map[string]int{"released_count": released})
}
