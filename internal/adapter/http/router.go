package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/adelh/branchcash/internal/adapter/http/handler"
	"github.com/adelh/branchcash/internal/adapter/http/middleware"
	"github.com/adelh/branchcash/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	MovementHandler  *handler.MovementHandler
	DailyHandler     *handler.DailyHandler
	ReconcileHandler *handler.ReconcileHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	RateLimiter      *middleware.RateLimiter
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Movements
		r.Route("/movements", func(r chi.Router) {
			r.Post("/", cfg.MovementHandler.Record)
			r.Get("/", cfg.MovementHandler.List)
			r.Get("/{id}", cfg.MovementHandler.Get)
			r.Post("/{id}/reverse", cfg.MovementHandler.Reverse)
			r.Patch("/{id}", cfg.MovementHandler.Edit)
		})

		// Transfers
		r.Post("/transfer", cfg.MovementHandler.Transfer)

		// Daily drawer counts
		r.Post("/daily-opening", cfg.DailyHandler.Opening)
		r.Post("/daily-closing", cfg.DailyHandler.Closing)

		// Reconciliation
		r.Route("/reconcile", func(r chi.Router) {
			r.Post("/", cfg.ReconcileHandler.Run)
			r.Get("/latest", cfg.ReconcileHandler.Latest)
		})
	})

	return r
}
