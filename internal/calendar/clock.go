package calendar

import (
	"fmt"
	"time"
)

// ClockLayout renders the live date/time line, e.g. "Sat, Oct 17, 2026 • 14:03:05".
const ClockLayout = "Mon, Jan 2, 2006 • 15:04:05"

// ClockString formats now for the live clock.
func ClockString(now time.Time) string {
	return now.Format(ClockLayout)
}

// NextFridayAt returns the next Friday at hour:minute:second in now's location.
// On a Friday whose target time has already passed, the following Friday is used.
func NextFridayAt(now time.Time, hour, minute, second int) time.Time {
	daysUntil := (int(time.Friday) - int(now.Weekday()) + 7) % 7
	target := time.Date(now.Year(), now.Month(), now.Day()+daysUntil, hour, minute, second, 0, now.Location())
	if daysUntil == 0 && !now.Before(target) {
		target = target.AddDate(0, 0, 7)
	}
	return target
}

// Countdown is the time remaining until the next Friday midnight.
type Countdown struct {
	Target   time.Time `json:"target"`
	Days     int       `json:"days"`
	Hours    int       `json:"hours"`
	Minutes  int       `json:"minutes"`
	Seconds  int       `json:"seconds"`
	IsFriday bool      `json:"is_friday"`
}

// CountdownTo computes the countdown from now to the next Friday 00:00:00.
func CountdownTo(now time.Time) Countdown {
	target := NextFridayAt(now, 0, 0, 0)
	diff := target.Sub(now)
	if diff < 0 {
		diff = 0
	}

	secs := int(diff / time.Second)
	return Countdown{
		Target:   target,
		Days:     secs / 86400,
		Hours:    secs % 86400 / 3600,
		Minutes:  secs % 3600 / 60,
		Seconds:  secs % 60,
		IsFriday: now.Weekday() == time.Friday,
	}
}

// String renders the countdown the way the widget displays it. Fridays keep
// counting toward the following Friday; the celebration shows only once
// nothing is left.
func (c Countdown) String() string {
	if c.Days == 0 && c.Hours == 0 && c.Minutes == 0 && c.Seconds == 0 {
		return "It's Friday! 🎉"
	}
	return fmt.Sprintf("%dd %dh %dm %ds", c.Days, c.Hours, c.Minutes, c.Seconds)
}
