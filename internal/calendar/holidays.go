package calendar

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// RuleType distinguishes how a HolidayRule resolves to a date.
type RuleType string

const (
	RuleFixed        RuleType = "fixed"
	RuleEasterOffset RuleType = "easter_offset"
)

// DefaultEmoji is shown for holidays whose rule carries no emoji.
const DefaultEmoji = "🎉"

// DefaultUpcomingLimit is how many upcoming holidays the widget lists.
const DefaultUpcomingLimit = 6

// HolidayRule describes a public holiday independently of any year.
// Fixed rules use Month and Day; Easter-relative rules use Offset.
type HolidayRule struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Emoji       string   `json:"emoji,omitempty" yaml:"emoji,omitempty"`
	Type        RuleType `json:"type" yaml:"type"`
	Month       int      `json:"month,omitempty" yaml:"month,omitempty"`
	Day         int      `json:"day,omitempty" yaml:"day,omitempty"`
	Offset      int      `json:"offset,omitempty" yaml:"offset,omitempty"`
}

// Holiday is a HolidayRule resolved to a concrete date in one year.
type Holiday struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Emoji       string `json:"emoji"`
	Date        string `json:"date_iso"`
}

// Resolve returns the date the rule falls on in year.
// ok is false for rules of an unknown type.
func (r HolidayRule) Resolve(year int) (date time.Time, ok bool) {
	switch r.Type {
	case RuleFixed:
		// Out-of-range days normalize (Feb 29 in a common year is Mar 1).
		return time.Date(year, time.Month(r.Month), r.Day, 0, 0, 0, 0, time.UTC), true
	case RuleEasterOffset:
		return EasterOffset(year, r.Offset), true
	default:
		return time.Time{}, false
	}
}

// Materialize resolves every rule for year, keeping the input order.
// Two rules landing on the same date both appear in the output.
// Rules of unknown type are skipped.
func Materialize(year int, rules []HolidayRule) []Holiday {
	out := make([]Holiday, 0, len(rules))
	for _, r := range rules {
		date, ok := r.Resolve(year)
		if !ok {
			continue
		}
		emoji := r.Emoji
		if emoji == "" {
			emoji = DefaultEmoji
		}
		out = append(out, Holiday{
			ID:          r.ID,
			Name:        r.Name,
			Description: r.Description,
			Emoji:       emoji,
			Date:        FormatDate(date),
		})
	}
	return out
}

// ValidateRules checks a rule set loaded from a dataset.
func ValidateRules(rules []HolidayRule) error {
	var errs []error
	for i, r := range rules {
		if r.ID == "" {
			errs = append(errs, fmt.Errorf("rule %d: id is required", i))
		}
		switch r.Type {
		case RuleFixed:
			if r.Month < 1 || r.Month > 12 {
				errs = append(errs, fmt.Errorf("rule %q: month must be between 1 and 12, got %d", r.ID, r.Month))
			}
			if r.Day < 1 || r.Day > 31 {
				errs = append(errs, fmt.Errorf("rule %q: day must be between 1 and 31, got %d", r.ID, r.Day))
			}
		case RuleEasterOffset:
		default:
			errs = append(errs, fmt.Errorf("rule %q: type must be one of: fixed, easter_offset; got %q", r.ID, r.Type))
		}
	}
	return errors.Join(errs...)
}

// OnDate returns the holidays falling on dateISO, in their original order.
func OnDate(holidays []Holiday, dateISO string) []Holiday {
	var out []Holiday
	for _, h := range holidays {
		if h.Date == dateISO {
			out = append(out, h)
		}
	}
	return out
}

// Upcoming returns up to limit holidays on or after todayISO, sorted by date.
// A non-positive limit uses DefaultUpcomingLimit.
func Upcoming(holidays []Holiday, todayISO string, limit int) []Holiday {
	if limit <= 0 {
		limit = DefaultUpcomingLimit
	}

	sorted := make([]Holiday, len(holidays))
	copy(sorted, holidays)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})

	out := make([]Holiday, 0, limit)
	for _, h := range sorted {
		if h.Date < todayISO {
			continue
		}
		out = append(out, h)
		if len(out) == limit {
			break
		}
	}
	return out
}
