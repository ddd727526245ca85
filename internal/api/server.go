package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"shareit/internal/config"
	"shareit/internal/export"
	"shareit/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// HTTPServer exposes the sharing service REST API.
type HTTPServer struct {
	server   *http.Server
	logger   zerolog.Logger
	users    *service.UserService
	items    *service.ItemService
	bookings *service.BookingService
	requests *service.RequestService
	exporter *export.Service
}

func NewHTTPServer(
	cfg *config.Config,
	users *service.UserService,
	items *service.ItemService,
	bookings *service.BookingService,
	requests *service.RequestService,
	exporter *export.Service,
	logger *zerolog.Logger,
) *HTTPServer {
	srv := &HTTPServer{
		logger:   logger.With().Str("component", "http").Logger(),
		users:    users,
		items:    items,
		bookings: bookings,
		requests: requests,
		exporter: exporter,
	}

	r := chi.NewRouter()
	r.Use(requestLogger(&srv.logger))
	r.Use(newRateLimiter(cfg.RateLimit).Wrap)

	r.Get("/health", srv.handleHealth)

	r.Route("/users", func(r chi.Router) {
		r.Get("/", srv.handleGetUsers)
		r.Post("/", srv.handleCreateUser)
		r.Get("/{userId}", srv.handleGetUser)
		r.Patch("/{userId}", srv.handleUpdateUser)
		r.Delete("/{userId}", srv.handleDeleteUser)
	})

	r.Route("/items", func(r chi.Router) {
		r.Get("/", srv.handleGetUserItems)
		r.Post("/", srv.handleCreateItem)
		r.Get("/search", srv.handleSearchItems)
		r.Get("/{itemId}", srv.handleGetItem)
		r.Patch("/{itemId}", srv.handleUpdateItem)
		r.Delete("/{itemId}", srv.handleDeleteItem)
		r.Post("/{itemId}/comment", srv.handleAddComment)
	})

	r.Route("/bookings", func(r chi.Router) {
		r.Get("/", srv.handleGetUserBookings)
		r.Post("/", srv.handleCreateBooking)
		r.Get("/owner", srv.handleGetOwnerBookings)
		r.Get("/{bookingId}", srv.handleGetBooking)
		r.Patch("/{bookingId}", srv.handleSetBookingState)
	})

	r.Route("/requests", func(r chi.Router) {
		r.Get("/", srv.handleGetOwnRequests)
		r.Post("/", srv.handleCreateRequest)
		r.Get("/all", srv.handleGetAllRequests)
		r.Get("/{requestId}", srv.handleGetRequest)
	})

	r.Get("/admin/export/bookings", srv.handleExportBookings)

	srv.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSec) * time.Second,
	}
	return srv
}

// Handler returns the routed handler, mainly for tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

func (s *HTTPServer) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("http server listening")
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
