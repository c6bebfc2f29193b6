package widget

import (
	"strconv"
	"time"

	"github.com/zapponejosh/holiday-widget/internal/calendar"
	"github.com/zapponejosh/holiday-widget/internal/database"
	"github.com/zapponejosh/holiday-widget/internal/weather"
)

// WeekendEmoji marks Saturdays and Sundays that are not holidays.
const WeekendEmoji = "🕺"

// State is everything the widget shows besides user events.
// A copy is returned by Controller.State; mutate only through the controller.
type State struct {
	ViewYear  int
	ViewMonth time.Month

	Rules    []calendar.HolidayRule
	Holidays []calendar.Holiday // materialized for ViewYear

	Weather      *weather.Report
	LastLocation *LastLocation
}

// LastLocation remembers what the most recent successful weather lookup asked
// for, so a refresh can repeat it.
type LastLocation struct {
	Query    string            `json:"query,omitempty"`
	Position *weather.Position `json:"position,omitempty"`
}

// DayView is a grid cell decorated for display. Only days of the viewed
// month carry holidays, events and an emoji.
type DayView struct {
	Date           string               `json:"date_iso"`
	Day            int                  `json:"day"`
	IsCurrentMonth bool                 `json:"is_current_month"`
	IsToday        bool                 `json:"is_today"`
	IsWeekend      bool                 `json:"is_weekend"`
	Emoji          string               `json:"emoji,omitempty"`
	Holidays       []calendar.Holiday   `json:"holidays,omitempty"`
	Events         []database.UserEvent `json:"events,omitempty"`
}

// MonthView is one month laid out for rendering.
type MonthView struct {
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	MonthName string    `json:"month_name"`
	Weekdays  [7]string `json:"weekdays"`
	Days      []DayView `json:"days"`
}

// Title renders the header label, e.g. "March 2024".
func (m *MonthView) Title() string {
	return m.MonthName + " " + strconv.Itoa(m.Year)
}

// Weeks splits Days into rows of seven.
func (m *MonthView) Weeks() [][]DayView {
	weeks := make([][]DayView, 0, len(m.Days)/7)
	for i := 0; i+7 <= len(m.Days); i += 7 {
		weeks = append(weeks, m.Days[i:i+7])
	}
	return weeks
}

// DayDetail is everything known about one date.
type DayDetail struct {
	Date     string               `json:"date_iso"`
	Weekday  string               `json:"weekday"`
	Holidays []calendar.Holiday   `json:"holidays"`
	Events   []database.UserEvent `json:"events"`
}

// Clock is the live clock line plus the Friday countdown.
type Clock struct {
	Now       time.Time          `json:"now"`
	Display   string             `json:"display"`
	Countdown calendar.Countdown `json:"countdown"`
	Label     string             `json:"label"`
}

// dayEmoji picks a cell's emoji: the first holiday's, else the weekend marker.
func dayEmoji(holidays []calendar.Holiday, weekend bool) string {
	if len(holidays) > 0 {
		return holidays[0].Emoji
	}
	if weekend {
		return WeekendEmoji
	}
	return ""
}
