package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/holiday-widget/internal/calendar"
	"github.com/zapponejosh/holiday-widget/internal/config"
	"github.com/zapponejosh/holiday-widget/internal/database"
	"github.com/zapponejosh/holiday-widget/internal/export"
	"github.com/zapponejosh/holiday-widget/internal/weather"
	"github.com/zapponejosh/holiday-widget/internal/widget"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 16

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	db     *database.DB
	widget *widget.Controller
	feed   export.Feed
	cfg    *config.Config
	logger *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *database.DB, w *widget.Controller, cfg *config.Config, logger *slog.Logger) *Handlers {
	return &Handlers{
		db:     db,
		widget: w,
		cfg:    cfg,
		logger: logger,
	}
}

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Check database health
	if err := h.db.Health(ctx); err != nil {
		h.logger.Warn("health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", "HEALTH_CHECK_FAILED")
		return
	}

	WriteSuccess(w, map[string]string{
		"status": "healthy",
	})
}

// =============================================================================
// Calendar
// =============================================================================

// GetEaster handles GET /api/v1/easter/{year}
func (h *Handlers) GetEaster(w http.ResponseWriter, r *http.Request) {
	year, ok := parseYear(w, chi.URLParam(r, "year"))
	if !ok {
		return
	}

	sunday := calendar.EasterSunday(year)
	WriteSuccess(w, map[string]any{
		"year":          year,
		"easter_sunday": calendar.FormatDate(sunday),
		"good_friday":   calendar.FormatDate(calendar.EasterOffset(year, calendar.OffsetGoodFriday)),
		"easter_monday": calendar.FormatDate(calendar.EasterOffset(year, calendar.OffsetEasterMonday)),
		"ascension_day": calendar.FormatDate(calendar.EasterOffset(year, calendar.OffsetAscension)),
		"pentecost":     calendar.FormatDate(calendar.EasterOffset(year, calendar.OffsetPentecost)),
	})
}

// GetHolidays handles GET /api/v1/holidays?year=YYYY
//
// Holidays come back in dataset order; two on one date both appear.
func (h *Handlers) GetHolidays(w http.ResponseWriter, r *http.Request) {
	year := h.widget.Now().Year()
	if s := r.URL.Query().Get("year"); s != "" {
		var ok bool
		if year, ok = parseYear(w, s); !ok {
			return
		}
	}

	WriteSuccess(w, map[string]any{
		"year":     year,
		"holidays": h.widget.Holidays(year),
	})
}

// GetUpcoming handles GET /api/v1/holidays/upcoming?limit=N
func (h *Handlers) GetUpcoming(w http.ResponseWriter, r *http.Request) {
	limit := calendar.DefaultUpcomingLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > 100 {
			WriteBadRequest(w, "limit must be between 1 and 100")
			return
		}
		limit = n
	}

	WriteSuccess(w, h.widget.Upcoming(limit))
}

// GetMonth handles GET /api/v1/calendar/{year}/{month}
func (h *Handlers) GetMonth(w http.ResponseWriter, r *http.Request) {
	year, month, ok := parseYearMonth(w, r)
	if !ok {
		return
	}

	view, err := h.widget.MonthView(r.Context(), year, month)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	WriteSuccess(w, view)
}

// GetGrid handles GET /api/v1/calendar/{year}/{month}/grid
func (h *Handlers) GetGrid(w http.ResponseWriter, r *http.Request) {
	year, month, ok := parseYearMonth(w, r)
	if !ok {
		return
	}

	WriteSuccess(w, map[string]any{
		"year":     year,
		"month":    int(month),
		"weekdays": calendar.WeekdayNames,
		"cells":    calendar.MonthGrid(year, month),
	})
}

// GetDay handles GET /api/v1/days/{date}
func (h *Handlers) GetDay(w http.ResponseWriter, r *http.Request) {
	detail, err := h.widget.DayDetail(r.Context(), chi.URLParam(r, "date"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	WriteSuccess(w, detail)
}

// GetICS handles GET /api/v1/calendar.ics?year=YYYY
func (h *Handlers) GetICS(w http.ResponseWriter, r *http.Request) {
	year := h.widget.Now().Year()
	if s := r.URL.Query().Get("year"); s != "" {
		var ok bool
		if year, ok = parseYear(w, s); !ok {
			return
		}
	}

	events, err := h.widget.Events(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="holidays-%d.ics"`, year))
	if err := h.feed.Write(w, year, h.widget.Holidays(year), events); err != nil {
		h.logger.Error("failed to write calendar feed", slog.Any("error", err))
		WriteInternalError(w, "Failed to build calendar feed")
	}
}

// =============================================================================
// View navigation
// =============================================================================

// GetView handles GET /api/v1/view
func (h *Handlers) GetView(w http.ResponseWriter, r *http.Request) {
	view, err := h.widget.View(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	WriteSuccess(w, view)
}

// MoveView handles POST /api/v1/view/{unit}?delta=N, where unit is month,
// year or today.
func (h *Handlers) MoveView(w http.ResponseWriter, r *http.Request) {
	delta := 1
	if s := r.URL.Query().Get("delta"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			WriteBadRequest(w, "delta must be an integer")
			return
		}
		delta = n
	}

	switch chi.URLParam(r, "unit") {
	case "month":
		h.widget.ChangeMonth(delta)
	case "year":
		h.widget.ChangeYear(delta)
	case "today":
		h.widget.GoToToday()
	default:
		WriteNotFound(w, "unit must be one of: month, year, today")
		return
	}

	h.GetView(w, r)
}

// =============================================================================
// Events
// =============================================================================

// ListEvents handles GET /api/v1/events
func (h *Handlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	events, err := h.widget.Events(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	WriteSuccess(w, events)
}

// CreateEventRequest is the body of POST /api/v1/events.
type CreateEventRequest struct {
	Date  string `json:"date_iso"`
	Title string `json:"title"`
}

// CreateEvent handles POST /api/v1/events
func (h *Handlers) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		WriteBadRequest(w, "Invalid JSON body")
		return
	}

	ev, err := h.widget.AddEvent(r.Context(), req.Date, req.Title)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	WriteCreated(w, ev)
}

// DeleteEvent handles DELETE /api/v1/events/{id}
func (h *Handlers) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	if err := h.widget.DeleteEvent(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Weather & clock
// =============================================================================

// GetWeather handles GET /api/v1/weather?q=City or ?lat=..&lon=..
// With neither, the last report is returned, or the default city fetched.
func (h *Handlers) GetWeather(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var (
		report *weather.Report
		err    error
	)
	switch {
	case q.Has("lat") || q.Has("lon"):
		lat, errLat := strconv.ParseFloat(q.Get("lat"), 64)
		lon, errLon := strconv.ParseFloat(q.Get("lon"), 64)
		if errLat != nil || errLon != nil || lat < -90 || lat > 90 || lon < -180 || lon > 180 {
			WriteBadRequest(w, "lat and lon must be valid coordinates")
			return
		}
		report, err = h.widget.WeatherByCoords(r.Context(), lat, lon)
	case q.Has("q"):
		report, err = h.widget.WeatherByCity(r.Context(), q.Get("q"))
	default:
		if report = h.widget.Weather(); report == nil {
			report, err = h.widget.WeatherByCity(r.Context(), h.cfg.WeatherDefaultCity)
		}
	}
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	WriteSuccess(w, report)
}

// GetWeatherHere handles GET /api/v1/weather/here
func (h *Handlers) GetWeatherHere(w http.ResponseWriter, r *http.Request) {
	report, err := h.widget.WeatherHere(r.Context())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	WriteSuccess(w, report)
}

// GetClock handles GET /api/v1/clock
func (h *Handlers) GetClock(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, h.widget.Clock())
}

// Refresh handles POST /api/v1/refresh
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	if err := h.widget.Refresh(r.Context()); err != nil {
		h.logger.Warn("refresh incomplete", slog.Any("error", err))
		WriteBadGateway(w, "Refresh incomplete: "+err.Error(), "REFRESH_FAILED")
		return
	}

	WriteSuccess(w, map[string]any{
		"refreshed":   true,
		"duration_ms": time.Since(start).Milliseconds(),
	})
}

// =============================================================================
// Helper Functions
// =============================================================================

// writeDomainError maps package sentinels to HTTP statuses.
func (h *Handlers) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, database.ErrEmptyTitle),
		errors.Is(err, database.ErrInvalidDate),
		errors.Is(err, weather.ErrEmptyQuery):
		WriteBadRequest(w, err.Error())
	case database.IsNotFound(err):
		WriteNotFound(w, "Event not found")
	case errors.Is(err, widget.ErrWeatherUnavailable),
		errors.Is(err, weather.ErrMissingAPIKey):
		WriteError(w, http.StatusServiceUnavailable, "Weather is not configured", "WEATHER_UNAVAILABLE")
	case errors.Is(err, weather.ErrLocation):
		WriteBadGateway(w, "Location access denied or failed", "LOCATION_FAILED")
	case errors.Is(err, weather.ErrFetchFailed):
		WriteBadGateway(w, "Failed to fetch weather", "WEATHER_FETCH_FAILED")
	default:
		h.logger.Error("request failed",
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		WriteInternalError(w, "Internal server error")
	}
}

func parseYear(w http.ResponseWriter, s string) (int, bool) {
	year, err := strconv.Atoi(s)
	if err != nil || year < calendar.MinYear || year > calendar.MaxYear {
		WriteBadRequest(w, fmt.Sprintf("Invalid year: %s. Use %d-%d", s, calendar.MinYear, calendar.MaxYear))
		return 0, false
	}
	return year, true
}

func parseYearMonth(w http.ResponseWriter, r *http.Request) (int, time.Month, bool) {
	year, ok := parseYear(w, chi.URLParam(r, "year"))
	if !ok {
		return 0, 0, false
	}

	s := chi.URLParam(r, "month")
	month, err := strconv.Atoi(s)
	if err != nil || month < 1 || month > 12 {
		WriteBadRequest(w, fmt.Sprintf("Invalid month: %s. Use 1-12", s))
		return 0, 0, false
	}
	return year, time.Month(month), true
}
