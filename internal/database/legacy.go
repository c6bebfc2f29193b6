package database

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/zapponejosh/holiday-widget/internal/calendar"
)

// LegacyEvent is one entry of the browser widget's saved event list.
// CreatedAt was stored as a locale string and is kept only when it parses.
type LegacyEvent struct {
	ID        string `json:"id"`
	DateISO   string `json:"dateISO"`
	Title     string `json:"title"`
	CreatedAt string `json:"createdAt"`
}

// legacyTimeLayouts are the createdAt formats accepted on import.
var legacyTimeLayouts = []string{
	time.RFC3339Nano,
	"1/2/2006, 3:04:05 PM",
	"2/1/2006, 15:04:05",
	"02/01/2006, 15:04:05",
	"2006/01/02, 15:04:05",
}

// DecodeLegacyEvents reads a JSON array of saved events and converts it to
// UserEvents. Titles are trimmed. An entry with a blank title or an invalid
// date fails the whole decode with the entry's index.
func DecodeLegacyEvents(r io.Reader) ([]UserEvent, error) {
	var raw []LegacyEvent
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode saved events: %w", err)
	}

	events := make([]UserEvent, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for i, le := range raw {
		title := strings.TrimSpace(le.Title)
		if title == "" {
			return nil, fmt.Errorf("event %d: %w", i, ErrEmptyTitle)
		}
		if _, err := calendar.ParseDate(le.DateISO); err != nil {
			return nil, fmt.Errorf("event %d: %w: %q", i, ErrInvalidDate, le.DateISO)
		}

		// Ids from the browser are "ev_<millis>" and may collide.
		id := le.ID
		if id == "" || seen[id] {
			id = ""
		} else {
			seen[id] = true
		}

		events = append(events, UserEvent{
			ID:        id,
			Date:      le.DateISO,
			Title:     title,
			CreatedAt: parseLegacyTime(le.CreatedAt),
		})
	}
	return events, nil
}

// parseLegacyTime returns the zero time when s matches no known layout.
func parseLegacyTime(s string) time.Time {
	for _, layout := range legacyTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
