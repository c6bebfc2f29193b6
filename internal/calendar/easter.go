// Package calendar provides the date arithmetic behind the widget: Easter,
// holiday materialization and month grid layout. Nothing here does I/O.
package calendar

import (
	"time"
)

// Well-known offsets from Easter Sunday, in days.
const (
	OffsetGoodFriday   = -2
	OffsetEasterMonday = 1
	OffsetAscension    = 39
	OffsetPentecost    = 49
)

// EasterSunday calculates the date of Easter Sunday for a given year
// using Gauss's method for the Gregorian calendar.
//
// The raw congruences land on April 26 or April 25 in a handful of years;
// those two cases are corrected to April 19 and April 18 respectively.
// Valid for every Gregorian year (1583 onwards). The result is midnight UTC.
func EasterSunday(year int) time.Time {
	a := year % 19
	b := year % 4
	c := year % 7
	k := year / 100
	p := (13 + 8*k) / 25
	q := k / 4
	m := (15 - p + k - q) % 30
	n := (4 + k - q) % 7
	d := (19*a + m) % 30
	e := (2*b + 4*c + 6*d + n) % 7

	if d == 29 && e == 6 {
		return time.Date(year, time.April, 19, 0, 0, 0, 0, time.UTC)
	}
	if d == 28 && e == 6 && (11*m+11)%30 < 19 {
		return time.Date(year, time.April, 18, 0, 0, 0, 0, time.UTC)
	}

	day := 22 + d + e
	if day > 31 {
		return time.Date(year, time.April, d+e-9, 0, 0, 0, 0, time.UTC)
	}
	return time.Date(year, time.March, day, 0, 0, 0, 0, time.UTC)
}

// EasterOffset returns Easter Sunday of year shifted by offset days.
// Good Friday is EasterOffset(year, -2).
func EasterOffset(year, offset int) time.Time {
	return EasterSunday(year).AddDate(0, 0, offset)
}
