package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/holiday-widget/internal/config"
)

// SetupRoutes configures all HTTP routes and returns the router.
//
// Route structure:
//
//	GET    /health
//	GET    /api/v1/easter/{year}
//	GET    /api/v1/holidays?year=
//	GET    /api/v1/holidays/upcoming?limit=
//	GET    /api/v1/calendar/{year}/{month}
//	GET    /api/v1/calendar/{year}/{month}/grid
//	GET    /api/v1/calendar.ics?year=
//	GET    /api/v1/days/{date}
//	GET    /api/v1/view
//	POST   /api/v1/view/{unit}?delta=     (auth)
//	GET    /api/v1/events
//	POST   /api/v1/events                 (auth)
//	DELETE /api/v1/events/{id}            (auth)
//	GET    /api/v1/weather?q= | ?lat=&lon=
//	GET    /api/v1/weather/here
//	GET    /api/v1/clock
//	POST   /api/v1/refresh                (auth)
func SetupRoutes(h *Handlers, cfg *config.Config, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(
		RecoveryMiddleware(logger),
		RequestIDMiddleware(),
		LoggingMiddleware(logger),
		CORSMiddleware(),
	)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		WriteNotFound(w, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed", "METHOD_NOT_ALLOWED")
	})

	r.Get("/health", h.HealthCheck)

	r.Route("/api/v1", func(r chi.Router) {
		// ======================================================================
		// Public routes
		// ======================================================================
		r.Get("/easter/{year}", h.GetEaster)
		r.Get("/holidays", h.GetHolidays)
		r.Get("/holidays/upcoming", h.GetUpcoming)
		r.Get("/calendar/{year}/{month}", h.GetMonth)
		r.Get("/calendar/{year}/{month}/grid", h.GetGrid)
		r.Get("/calendar.ics", h.GetICS)
		r.Get("/days/{date}", h.GetDay)
		r.Get("/view", h.GetView)
		r.Get("/events", h.ListEvents)
		r.Get("/weather", h.GetWeather)
		r.Get("/weather/here", h.GetWeatherHere)
		r.Get("/clock", h.GetClock)

		// ======================================================================
		// Mutating routes (API key when configured)
		// ======================================================================
		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(cfg, logger))

			r.Post("/view/{unit}", h.MoveView)
			r.Post("/events", h.CreateEvent)
			r.Delete("/events/{id}", h.DeleteEvent)
			r.Post("/refresh", h.Refresh)
		})
	})

	return r
}
