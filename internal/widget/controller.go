// Package widget holds the calendar widget's application state and the
// operations the HTTP and terminal front ends drive it with.
package widget

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/zapponejosh/holiday-widget/internal/calendar"
	"github.com/zapponejosh/holiday-widget/internal/database"
	"github.com/zapponejosh/holiday-widget/internal/logger"
	"github.com/zapponejosh/holiday-widget/internal/weather"
)

// ErrWeatherUnavailable is returned by weather operations when no weather
// source or locator is configured.
var ErrWeatherUnavailable = errors.New("weather is not configured")

// EventStore persists user events. *database.EventStore implements it.
type EventStore interface {
	List(ctx context.Context) ([]database.UserEvent, error)
	ForDate(ctx context.Context, dateISO string) ([]database.UserEvent, error)
	InRange(ctx context.Context, start, end string) ([]database.UserEvent, error)
	Add(ctx context.Context, dateISO, title string) (*database.UserEvent, error)
	Delete(ctx context.Context, id string) error
}

// WeatherSource fetches current conditions. *weather.Client implements it.
type WeatherSource interface {
	ByCity(ctx context.Context, query string) (*weather.Report, error)
	ByCoords(ctx context.Context, lat, lon float64) (*weather.Report, error)
}

// RuleLoader fetches the holiday rule set, e.g. dataset.Load bound to a source.
type RuleLoader func(ctx context.Context) ([]calendar.HolidayRule, error)

// Options configures a Controller. Events is required; the rest are optional.
type Options struct {
	Events      EventStore
	Weather     WeatherSource
	Locator     weather.Locator
	LoadRules   RuleLoader
	DefaultCity string
	Location    *time.Location // decides "today"; nil means UTC
	Now         func() time.Time
}

// Controller owns the widget State. It is safe for concurrent use.
type Controller struct {
	mu    sync.RWMutex
	state State

	events      EventStore
	weather     WeatherSource
	locator     weather.Locator
	loadRules   RuleLoader
	defaultCity string
	loc         *time.Location
	now         func() time.Time
}

// New creates a controller viewing the current month with the given rules.
func New(opts Options, rules []calendar.HolidayRule) *Controller {
	c := &Controller{
		events:      opts.Events,
		weather:     opts.Weather,
		locator:     opts.Locator,
		loadRules:   opts.LoadRules,
		defaultCity: opts.DefaultCity,
		loc:         opts.Location,
		now:         opts.Now,
	}
	if c.loc == nil {
		c.loc = time.UTC
	}
	if c.now == nil {
		c.now = time.Now
	}

	today := c.today()
	c.state = State{
		ViewYear:  today.Year(),
		ViewMonth: today.Month(),
		Rules:     rules,
		Holidays:  calendar.Materialize(today.Year(), rules),
	}
	return c
}

// =============================================================================
// Navigation
// =============================================================================

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := c.state
	s.Rules = append([]calendar.HolidayRule(nil), c.state.Rules...)
	s.Holidays = append([]calendar.Holiday(nil), c.state.Holidays...)
	if c.state.Weather != nil {
		w := *c.state.Weather
		s.Weather = &w
	}
	return s
}

// ChangeMonth moves the view by delta months, rolling the year over.
func (c *Controller) ChangeMonth(delta int) (int, time.Month) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.setViewLocked(calendar.ShiftMonth(c.state.ViewYear, c.state.ViewMonth, delta))
	return c.state.ViewYear, c.state.ViewMonth
}

// ChangeYear moves the view by delta years, keeping the month.
func (c *Controller) ChangeYear(delta int) (int, time.Month) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.setViewLocked(c.state.ViewYear+delta, c.state.ViewMonth)
	return c.state.ViewYear, c.state.ViewMonth
}

// GoToToday moves the view to the month containing today.
func (c *Controller) GoToToday() (int, time.Month) {
	today := c.today()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.setViewLocked(today.Year(), today.Month())
	return today.Year(), today.Month()
}

// setViewLocked clamps the view to MinYear..MaxYear and re-materializes
// holidays when the year changes.
func (c *Controller) setViewLocked(year int, month time.Month) {
	year, month = calendar.ClampView(year, month)
	if year != c.state.ViewYear {
		c.state.Holidays = calendar.Materialize(year, c.state.Rules)
	}
	c.state.ViewYear = year
	c.state.ViewMonth = month
}

// =============================================================================
// Calendar
// =============================================================================

// View renders the month currently being viewed.
func (c *Controller) View(ctx context.Context) (*MonthView, error) {
	c.mu.RLock()
	y, m := c.state.ViewYear, c.state.ViewMonth
	c.mu.RUnlock()

	return c.MonthView(ctx, y, m)
}

// MonthView renders any month without moving the view.
func (c *Controller) MonthView(ctx context.Context, year int, month time.Month) (*MonthView, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("month must be between 1 and 12, got %d", month)
	}
	if year < calendar.MinYear || year > calendar.MaxYear {
		return nil, fmt.Errorf("year must be between %d and %d, got %d", calendar.MinYear, calendar.MaxYear, year)
	}

	cells := calendar.MonthGrid(year, month)
	holidays := c.Holidays(year)
	todayISO := calendar.FormatDate(c.today())

	first := calendar.FormatDate(time.Date(year, month, 1, 0, 0, 0, 0, time.UTC))
	last := calendar.FormatDate(time.Date(year, month, calendar.DaysIn(year, month), 0, 0, 0, 0, time.UTC))

	evs, err := c.events.InRange(ctx, first, last)
	if err != nil {
		logger.Error(ctx, "failed to load events for month", err,
			"year", year,
			"month", int(month),
		)
		return nil, fmt.Errorf("load events: %w", err)
	}

	byDate := make(map[string][]database.UserEvent)
	for _, ev := range evs {
		byDate[ev.Date] = append(byDate[ev.Date], ev)
	}

	view := &MonthView{
		Year:      year,
		Month:     int(month),
		MonthName: month.String(),
		Weekdays:  calendar.WeekdayNames,
		Days:      make([]DayView, len(cells)),
	}

	for i, cell := range cells {
		day := DayView{
			Date:           cell.Date,
			Day:            cell.Day,
			IsCurrentMonth: cell.IsCurrentMonth,
		}
		if cell.IsCurrentMonth {
			day.IsToday = cell.Date == todayISO
			day.IsWeekend = calendar.IsWeekend(cell.Weekday)
			day.Holidays = calendar.OnDate(holidays, cell.Date)
			day.Events = byDate[cell.Date]
			day.Emoji = dayEmoji(day.Holidays, day.IsWeekend)
		}
		view.Days[i] = day
	}

	return view, nil
}

// DayDetail returns the holidays and events on dateISO.
func (c *Controller) DayDetail(ctx context.Context, dateISO string) (*DayDetail, error) {
	d, err := calendar.ParseDate(dateISO)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", database.ErrInvalidDate, dateISO)
	}

	evs, err := c.events.ForDate(ctx, dateISO)
	if err != nil {
		logger.Error(ctx, "failed to load events for day", err, "date", dateISO)
		return nil, fmt.Errorf("load events: %w", err)
	}

	return &DayDetail{
		Date:     dateISO,
		Weekday:  d.Weekday().String(),
		Holidays: calendar.OnDate(c.Holidays(d.Year()), dateISO),
		Events:   evs,
	}, nil
}

// Holidays returns the materialized holidays of year in rule order.
func (c *Controller) Holidays(year int) []calendar.Holiday {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if year == c.state.ViewYear {
		return append([]calendar.Holiday(nil), c.state.Holidays...)
	}
	return calendar.Materialize(year, c.state.Rules)
}

// Upcoming lists holidays of the viewed year falling on or after today.
func (c *Controller) Upcoming(limit int) []calendar.Holiday {
	todayISO := calendar.FormatDate(c.today())

	c.mu.RLock()
	defer c.mu.RUnlock()

	return calendar.Upcoming(c.state.Holidays, todayISO, limit)
}

// =============================================================================
// Events
// =============================================================================

// Events returns every stored user event.
func (c *Controller) Events(ctx context.Context) ([]database.UserEvent, error) {
	return c.events.List(ctx)
}

// AddEvent stores a new event on dateISO.
func (c *Controller) AddEvent(ctx context.Context, dateISO, title string) (*database.UserEvent, error) {
	ev, err := c.events.Add(ctx, dateISO, title)
	if err != nil {
		logger.Warn(ctx, "event not added",
			"date", dateISO,
			"error", err,
		)
		return nil, err
	}

	logger.Info(ctx, "event added",
		"id", ev.ID,
		"date", ev.Date,
	)
	return ev, nil
}

// DeleteEvent removes an event by id.
func (c *Controller) DeleteEvent(ctx context.Context, id string) error {
	if err := c.events.Delete(ctx, id); err != nil {
		if !database.IsNotFound(err) {
			logger.Error(ctx, "failed to delete event", err, "id", id)
		}
		return err
	}

	logger.Info(ctx, "event deleted", "id", id)
	return nil
}

// =============================================================================
// Weather
// =============================================================================

// Weather returns the last successful report, or nil.
func (c *Controller) Weather() *weather.Report {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.state.Weather == nil {
		return nil
	}
	w := *c.state.Weather
	return &w
}

// WeatherByCity searches by place name and stores the result.
func (c *Controller) WeatherByCity(ctx context.Context, query string) (*weather.Report, error) {
	if c.weather == nil {
		return nil, ErrWeatherUnavailable
	}

	report, err := c.weather.ByCity(ctx, query)
	if err != nil {
		logger.Error(ctx, "weather search failed", err, "query", query)
		return nil, err
	}

	c.storeWeather(report, &LastLocation{Query: report.Location})
	return report, nil
}

// WeatherByCoords fetches weather at a coordinate pair and stores the result.
func (c *Controller) WeatherByCoords(ctx context.Context, lat, lon float64) (*weather.Report, error) {
	if c.weather == nil {
		return nil, ErrWeatherUnavailable
	}

	report, err := c.weather.ByCoords(ctx, lat, lon)
	if err != nil {
		logger.Error(ctx, "weather lookup by coordinates failed", err,
			"lat", lat,
			"lon", lon,
		)
		return nil, err
	}

	c.storeWeather(report, &LastLocation{Position: &weather.Position{Latitude: lat, Longitude: lon}})
	return report, nil
}

// WeatherHere geolocates the caller and fetches the weather there.
func (c *Controller) WeatherHere(ctx context.Context) (*weather.Report, error) {
	if c.locator == nil {
		return nil, ErrWeatherUnavailable
	}

	pos, err := c.locator.Locate(ctx)
	if err != nil {
		logger.Warn(ctx, "geolocation failed", "error", err)
		return nil, err
	}

	return c.WeatherByCoords(ctx, pos.Latitude, pos.Longitude)
}

// storeWeather keeps whichever report finished last.
func (c *Controller) storeWeather(report *weather.Report, last *LastLocation) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.Weather = report
	c.state.LastLocation = last
}

// =============================================================================
// Refresh
// =============================================================================

// ReloadHolidays fetches the rule set again and re-materializes the viewed
// year. On failure the previous rules stay in place.
func (c *Controller) ReloadHolidays(ctx context.Context) error {
	if c.loadRules == nil {
		return nil
	}

	rules, err := c.loadRules(ctx)
	if err != nil {
		logger.Error(ctx, "failed to reload holidays", err)
		return fmt.Errorf("reload holidays: %w", err)
	}

	c.mu.Lock()
	c.state.Rules = rules
	c.state.Holidays = calendar.Materialize(c.state.ViewYear, rules)
	c.mu.Unlock()

	logger.Info(ctx, "holidays reloaded", "rules", len(rules))
	return nil
}

// Refresh reloads holidays and repeats the last weather lookup, or fetches
// the default city when there was none. Both steps run even if one fails.
func (c *Controller) Refresh(ctx context.Context) error {
	var errs []error

	if err := c.ReloadHolidays(ctx); err != nil {
		errs = append(errs, err)
	}

	if c.weather != nil {
		c.mu.RLock()
		last := c.state.LastLocation
		c.mu.RUnlock()

		var err error
		switch {
		case last != nil && last.Position != nil:
			_, err = c.WeatherByCoords(ctx, last.Position.Latitude, last.Position.Longitude)
		case last != nil && last.Query != "":
			_, err = c.WeatherByCity(ctx, last.Query)
		case c.defaultCity != "":
			_, err = c.WeatherByCity(ctx, c.defaultCity)
		}
		if err != nil {
			errs = append(errs, fmt.Errorf("refresh weather: %w", err))
		}
	}

	return errors.Join(errs...)
}

// =============================================================================
// Clock
// =============================================================================

// Now returns the current time in the widget's time zone.
func (c *Controller) Now() time.Time {
	return c.now().In(c.loc)
}

// Countdown returns the time left until next Friday midnight.
func (c *Controller) Countdown() calendar.Countdown {
	return calendar.CountdownTo(c.Now())
}

// Clock returns the live clock line and countdown for the same instant.
func (c *Controller) Clock() Clock {
	now := c.Now()
	cd := calendar.CountdownTo(now)
	return Clock{
		Now:       now,
		Display:   calendar.ClockString(now),
		Countdown: cd,
		Label:     cd.String(),
	}
}

// today returns midnight of the current local date, expressed in UTC so it
// compares with materialized dates.
func (c *Controller) today() time.Time {
	now := c.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
