package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/zapponejosh/holiday-widget/internal/calendar"
	"github.com/zapponejosh/holiday-widget/internal/database"
	"github.com/zapponejosh/holiday-widget/internal/weather"
	"github.com/zapponejosh/holiday-widget/internal/widget"
)

// cellWidth is the printed width of one grid column.
const cellWidth = 4

// palette wraps text in ANSI attributes when enabled.
type palette struct {
	enabled bool
}

func (p palette) wrap(code, s string) string {
	if !p.enabled {
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}

func (p palette) bold(s string) string    { return p.wrap("1", s) }
func (p palette) dim(s string) string     { return p.wrap("2", s) }
func (p palette) reverse(s string) string { return p.wrap("7", s) }
func (p palette) red(s string) string     { return p.wrap("31", s) }
func (p palette) yellow(s string) string  { return p.wrap("33", s) }
func (p palette) cyan(s string) string    { return p.wrap("36", s) }

// renderMonth prints a month grid followed by the month's holidays and events.
//
// Holidays are marked "*" and days with events "+". Days of the adjacent
// months are dimmed with color and left blank without it.
func renderMonth(w io.Writer, v *widget.MonthView, p palette) {
	width := cellWidth * len(v.Weekdays)
	title := v.Title()
	pad := (width - len(title)) / 2
	if pad < 0 {
		pad = 0
	}
	fmt.Fprintln(w, strings.Repeat(" ", pad)+p.bold(title))

	var header strings.Builder
	for _, wd := range v.Weekdays {
		fmt.Fprintf(&header, "%*s", cellWidth, wd)
	}
	fmt.Fprintln(w, header.String())

	for _, week := range v.Weeks() {
		var line strings.Builder
		for _, d := range week {
			line.WriteString(renderCell(d, p))
		}
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}

	var notes []string
	for _, d := range v.Days {
		if !d.IsCurrentMonth {
			continue
		}
		for _, h := range d.Holidays {
			notes = append(notes, fmt.Sprintf("  %s  %s %s", d.Date, h.Emoji, p.red(h.Name)))
		}
		for _, ev := range d.Events {
			notes = append(notes, fmt.Sprintf("  %s  + %s", d.Date, p.yellow(ev.Title)))
		}
	}
	if len(notes) > 0 {
		fmt.Fprintln(w)
		for _, n := range notes {
			fmt.Fprintln(w, n)
		}
	}
}

func renderCell(d widget.DayView, p palette) string {
	marker := " "
	switch {
	case len(d.Holidays) > 0:
		marker = "*"
	case len(d.Events) > 0:
		marker = "+"
	}
	cell := fmt.Sprintf("%*d", cellWidth-1, d.Day) + marker

	switch {
	case !d.IsCurrentMonth:
		if !p.enabled {
			return strings.Repeat(" ", cellWidth)
		}
		return p.dim(cell)
	case d.IsToday:
		return p.reverse(cell)
	case len(d.Holidays) > 0:
		return p.red(cell)
	case d.IsWeekend:
		return p.cyan(cell)
	default:
		return cell
	}
}

// renderHolidays prints one line per holiday.
func renderHolidays(w io.Writer, holidays []calendar.Holiday, p palette) {
	if len(holidays) == 0 {
		fmt.Fprintln(w, "No upcoming holidays this year.")
		return
	}
	for _, h := range holidays {
		fmt.Fprintf(w, "%s  %s %s\n", h.Date, h.Emoji, p.bold(h.Name))
		if h.Description != "" {
			fmt.Fprintf(w, "            %s\n", p.dim(h.Description))
		}
	}
}

// renderEvents prints one line per user event.
func renderEvents(w io.Writer, events []database.UserEvent, p palette) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No events yet.")
		return
	}
	for _, ev := range events {
		fmt.Fprintf(w, "%s  %s  %s\n", ev.Date, ev.Title, p.dim(ev.ID))
	}
}

// renderWeather prints a three-line weather card.
func renderWeather(w io.Writer, r *weather.Report, p palette) {
	fmt.Fprintf(w, "%s  %s\n", r.Emoji, p.bold(r.Location))
	fmt.Fprintf(w, "    %d°C (feels like %d°C), %s\n", r.TemperatureC, r.FeelsLikeC, r.Condition)
	fmt.Fprintf(w, "    wind %.1f m/s, humidity %d%%\n", r.WindSpeed, r.Humidity)
}

// crlfWriter turns "\n" into "\r\n" for terminals in raw mode.
type crlfWriter struct {
	w io.Writer
}

func (c crlfWriter) Write(b []byte) (int, error) {
	out := strings.ReplaceAll(string(b), "\n", "\r\n")
	if _, err := io.WriteString(c.w, out); err != nil {
		return 0, err
	}
	return len(b), nil
}
