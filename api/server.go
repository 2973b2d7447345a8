/*
server.go - HTTP router for the dashboard API

PURPOSE:
  Read-only JSON surface over the stats store, for the reporting
  dashboard. The aggregation itself never runs here; writes happen only
  through the batch CLI.

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       The dashboard frontend is served from another origin

ROUTES:
  /health                 Liveness probe
  /api/stats/daily        Per-day summary rows (towstat_bydate shape)
  /api/stats/ages         Per-vehicle rows (towstat_agebydate shape)
  /api/categories         The normalized category set

SEE ALSO:
  - handlers.go: Handler implementations
  - dto.go: Response shapes
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Route("/stats", func(r chi.Router) {
			r.Get("/daily", h.GetDailyStats)
			r.Get("/ages", h.GetVehicleAges)
		})
		r.Get("/categories", h.ListCategories)
	})

	return r
}
