// Package export renders holidays and user events as an iCalendar feed.
package export

import (
	"bytes"
	"fmt"
	"io"
	"time"

	"github.com/emersion/go-ical"

	"github.com/zapponejosh/holiday-widget/internal/calendar"
	"github.com/zapponejosh/holiday-widget/internal/database"
)

// ProductID identifies the feed producer.
const ProductID = "-//holiday-widget//Namibia Holidays//EN"

// DefaultDomain is the UID suffix when none is configured.
const DefaultDomain = "holiday-widget.local"

// Feed builds iCalendar documents.
type Feed struct {
	Domain string    // UID suffix, e.g. "widget.example.na"
	Stamp  time.Time // DTSTAMP for every event; zero means time.Now
}

// Calendar assembles one all-day VEVENT per holiday of year and per user
// event. UIDs are stable across exports so subscribers update in place.
func (f Feed) Calendar(year int, holidays []calendar.Holiday, events []database.UserEvent) (*ical.Calendar, error) {
	domain := f.Domain
	if domain == "" {
		domain = DefaultDomain
	}
	stamp := f.Stamp
	if stamp.IsZero() {
		stamp = time.Now()
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, ProductID)
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropName, fmt.Sprintf("Namibian holidays %d", year))

	for _, h := range holidays {
		uid := fmt.Sprintf("holiday-%s-%d@%s", h.ID, year, domain)
		summary := h.Emoji + " " + h.Name
		ev, err := allDay(uid, h.Date, summary, h.Description, stamp)
		if err != nil {
			return nil, fmt.Errorf("holiday %s: %w", h.ID, err)
		}
		ev.Props.SetText(ical.PropCategories, "HOLIDAY")
		cal.Children = append(cal.Children, ev.Component)
	}

	for _, e := range events {
		uid := fmt.Sprintf("event-%s@%s", e.ID, domain)
		ev, err := allDay(uid, e.Date, e.Title, "", stamp)
		if err != nil {
			return nil, fmt.Errorf("event %s: %w", e.ID, err)
		}
		if !e.CreatedAt.IsZero() {
			ev.Props.SetDateTime(ical.PropCreated, e.CreatedAt.UTC())
		}
		cal.Children = append(cal.Children, ev.Component)
	}

	return cal, nil
}

// Write encodes the calendar to w.
func (f Feed) Write(w io.Writer, year int, holidays []calendar.Holiday, events []database.UserEvent) error {
	cal, err := f.Calendar(year, holidays, events)
	if err != nil {
		return err
	}

	// Encode into a buffer so a failure never leaves a partial feed on w.
	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return fmt.Errorf("encode calendar: %w", err)
	}
	_, err = buf.WriteTo(w)
	return err
}

func allDay(uid, dateISO, summary, description string, stamp time.Time) (*ical.Event, error) {
	d, err := calendar.ParseDate(dateISO)
	if err != nil {
		return nil, err
	}

	ev := ical.NewEvent()
	ev.Props.SetText(ical.PropUID, uid)
	ev.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
	ev.Props.SetDate(ical.PropDateTimeStart, d)
	ev.Props.SetDate(ical.PropDateTimeEnd, d.AddDate(0, 0, 1))
	ev.Props.SetText(ical.PropSummary, summary)
	if description != "" {
		ev.Props.SetText(ical.PropDescription, description)
	}
	return ev, nil
}
