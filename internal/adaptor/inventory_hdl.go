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

type InventoryHandler struct {
	service usecase.InventoryService
	log     *zap.Logger
}

func NewInventoryHandler(service usecase.InventoryService, log *zap.Logger) *InventoryHandler {
	return &InventoryHandler{
		service: service,
		log:     log.With(zap.String("handler", "inventory")),
	}
}

// CreateEvent handles POST /api/events (collaborator only)
func (h *InventoryHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req request.CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	// Validate request
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	event, err := h.service.CreateEvent(r.Context(), &req)
	if err != nil {
		writeServiceError(w, h.log, err, "create event")
		return
	}

	utils.ResponseCreated(w, "success", event)
}

// ListEvents handles GET /api/events
func (h *InventoryHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.ListEvents(r.Context())
	if err != nil {
		writeServiceError(w, h.log, err, "list events")
		return
	}

	utils.ResponseSuccess(w, "success", events)
}

// GetSeatMap handles GET /api/seatmap/{eventId}
func (h *InventoryHandler) GetSeatMap(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	seatMap, err := h.service.GetSeatMap(r.Context(), eventID)
	if err != nil {
		writeServiceError(w, h.log, err, "get seat map")
		return
	}

	utils.ResponseSuccess(w, "success", seatMap)
}

// ArchiveEvent handles DELETE /api/events/{eventId} (collaborator only)
func (h *InventoryHandler) ArchiveEvent(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")

	if err := h.service.ArchiveEvent(r.Context(), eventID); err != nil {
		writeServiceError(w, h.log, err, "archive event")
		return
	}

	utils.ResponseNoContent(w)
}
