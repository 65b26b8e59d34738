package wire

import (
	"context"
	"net/http"

	"ticket-reservation/internal/adaptor"
	"ticket-reservation/internal/data/repository"
	"ticket-reservation/internal/usecase"
	"ticket-reservation/pkg/middleware"
	"ticket-reservation/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// App holds the wired dependencies
type App struct {
	Router *chi.Mux
	Reaper usecase.ReaperService
}

// Wiring initializes all dependencies
func Wiring(repo *repository.Repository, config *utils.Config, logger *zap.Logger) *App {
	service := usecase.NewService(repo, config, logger)
	handler := adaptor.NewHandler(service, logger)

	router := setupRouter(handler, config, logger)

	return &App{
		Router: router,
		Reaper: service.Reaper,
	}
}

// StartReaper launches the background expiry sweep. It returns once the
// context is cancelled.
func (a *App) StartReaper(ctx context.Context) {
	go a.Reaper.Run(ctx)
}

// setupRouter configures the Chi router
func setupRouter(handler *adaptor.Handler, config *utils.Config, logger *zap.Logger) *chi.Mux {
	r := chi.NewRouter()

	// Apply global middleware
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS())

	collaborator := middleware.Collaborator(config.Collaborator.APIKey, logger)

	r.Route("/api", func(r chi.Router) {
		// Public: read-only inventory for the seat map UI
		r.Get("/events", handler.Inventory.ListEvents)
		r.Get("/seatmap/{eventId}", handler.Inventory.GetSeatMap)

		// Public: buyer-facing hold lifecycle
		r.Post("/reservations", handler.Reservation.HoldSeat)
		r.Get("/reservations/{id}", handler.Reservation.GetReservation)
		r.Put("/reservations/{id}/extend", handler.Reservation.ExtendReservation)
		r.Delete("/reservations/{id}", handler.Reservation.CancelReservation)
		r.Get("/holders/{holderId}/tickets", handler.Reservation.GetHolderTickets)

		// Collaborator-only: settlement and operations
		r.Group(func(r chi.Router) {
			r.Use(collaborator)
			r.Post("/events", handler.Inventory.CreateEvent)
			r.Delete("/events/{eventId}", handler.Inventory.ArchiveEvent)
			r.Post("/reservations/{id}/confirm", handler.Reservation.ConfirmReservation)
			r.Post("/reservations/cleanup", handler.Reservation.Cleanup)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	return r
}
