package calendar

import (
	"fmt"
	"time"
)

// DateLayout is the ISO 8601 calendar date layout used for every dateISO value.
const DateLayout = "2006-01-02"

// ParseDate parses a date string in YYYY-MM-DD format.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate formats a date as YYYY-MM-DD in the date's own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DaysIn returns the number of days in month of year.
func DaysIn(year int, month time.Month) int {
	// Day 0 of the following month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// IsWeekend reports whether wd is Saturday or Sunday.
func IsWeekend(wd time.Weekday) bool {
	return wd == time.Saturday || wd == time.Sunday
}

// Year bounds for views and requests. The Gregorian Easter computation
// holds from 1583 on and ISO dates carry four-digit years.
const (
	MinYear = 1583
	MaxYear = 9999
)

// ClampView limits (year, month) to January MinYear through December MaxYear.
func ClampView(year int, month time.Month) (int, time.Month) {
	switch {
	case year < MinYear:
		return MinYear, time.January
	case year > MaxYear:
		return MaxYear, time.December
	}
	return year, month
}

// ShiftMonth moves (year, month) by delta months, rolling the year over.
func ShiftMonth(year int, month time.Month, delta int) (int, time.Month) {
	idx := year*12 + int(month-1) + delta
	y := idx / 12
	m := idx % 12
	if m < 0 {
		m += 12
		y--
	}
	return y, time.Month(m + 1)
}
