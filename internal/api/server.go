// Package api exposes the rental engine to the storefront over JSON/HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"prokat/internal/calendar"
	"prokat/internal/dateutil"
	"prokat/internal/models"
	"prokat/internal/selection"
	"prokat/internal/service"
)

// RentalService is the part of service.RentalService the handlers use.
type RentalService interface {
	Today() dateutil.Date
	Calendar(ctx context.Context, productID int64) (*calendar.Calendar, *models.Product, error)
	Quote(ctx context.Context, productID int64, rentalDates string) (*service.QuoteResult, error)
	StartSession(ctx context.Context, productID int64) (*selection.Session, error)
	Session(sessionID string) (*selection.Session, error)
	Click(sessionID string, d dateutil.Date) (selection.Outcome, error)
	ResetSession(sessionID string) error
	EndSession(sessionID string)
	AddBooking(ctx context.Context, productID int64, rentalDates, externalOrderID string) (*models.Booking, error)
	CancelBooking(ctx context.Context, externalOrderID string) error
	SetStock(ctx context.Context, productID int64, quantity int) error
}

// ReadyCheck reports whether a dependency can serve traffic.
type ReadyCheck func(ctx context.Context) error

// Options configures the HTTP server.
type Options struct {
	Port           int
	APIKeys        []string
	RateLimitRPS   float64
	RateLimitBurst int
}

// HTTPServer serves the storefront API.
type HTTPServer struct {
	server  *http.Server
	svc     RentalService
	keys    map[string]struct{}
	limiter *clientLimiter
	checks  []ReadyCheck
	logger  *zerolog.Logger
}

// NewHTTPServer builds the router. An empty key list disables authentication.
func NewHTTPServer(opts Options, svc RentalService, logger *zerolog.Logger, checks ...ReadyCheck) *HTTPServer {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	s := &HTTPServer{
		svc:     svc,
		keys:    make(map[string]struct{}, len(opts.APIKeys)),
		limiter: newClientLimiter(opts.RateLimitRPS, opts.RateLimitBurst),
		checks:  checks,
		logger:  logger,
	}
	for _, k := range opts.APIKeys {
		if k != "" {
			s.keys[k] = struct{}{}
		}
	}

	port := opts.Port
	if port <= 0 {
		port = 8080
	}
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
	}
	return s
}

func (s *HTTPServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.authenticate)
		r.Use(s.rateLimit)
		r.Use(middleware.AllowContentType("application/json"))

		r.Route("/products/{productID}", func(r chi.Router) {
			r.Get("/calendar", s.handleCalendar)
			r.Get("/calendar.xlsx", s.handleCalendarExport)
			r.Post("/quote", s.handleQuote)
			r.Post("/sessions", s.handleStartSession)
			r.Post("/bookings", s.handleAddBooking)
			r.Put("/stock", s.handleSetStock)
		})

		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleGetSession)
			r.Delete("/", s.handleEndSession)
			r.Post("/clicks", s.handleClick)
			r.Post("/reset", s.handleResetSession)
		})

		r.Delete("/bookings/{externalID}", s.handleCancelBooking)
	})

	return r
}

// Handler returns the root handler; used by tests.
func (s *HTTPServer) Handler() http.Handler {
	return s.server.Handler
}

// Start serves until Shutdown is called.
func (s *HTTPServer) Start() error {
	s.logger.Info().Str("addr", s.server.Addr).Msg("API server listening")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *HTTPServer) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	for _, check := range s.checks {
		if err := check(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("readiness check failed")
			http.Error(w, "not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
