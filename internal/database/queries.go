package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/zapponejosh/holiday-widget/internal/calendar"
)

// =============================================================================
// Event Store
// =============================================================================

// EventStore reads and writes the user events kept under one storage key.
type EventStore struct {
	db  *DB
	key string
	now func() time.Time
}

// NewEventStore binds an event store to key.
func NewEventStore(db *DB, key string) *EventStore {
	return &EventStore{db: db, key: key, now: time.Now}
}

// Key returns the storage key the store is bound to.
func (s *EventStore) Key() string {
	return s.key
}

// List returns every event under the key, ordered by date then creation time.
func (s *EventStore) List(ctx context.Context) ([]UserEvent, error) {
	query := `
		SELECT id, storage_key, date, title, created_at
		FROM user_events
		WHERE storage_key = ?
		ORDER BY date ASC, created_at ASC, id ASC
	`
	return s.query(ctx, query, s.key)
}

// ForDate returns the events pinned to dateISO in creation order.
func (s *EventStore) ForDate(ctx context.Context, dateISO string) ([]UserEvent, error) {
	query := `
		SELECT id, storage_key, date, title, created_at
		FROM user_events
		WHERE storage_key = ? AND date = ?
		ORDER BY created_at ASC, id ASC
	`
	return s.query(ctx, query, s.key, dateISO)
}

// InRange returns the events between start and end inclusive (YYYY-MM-DD).
// Month views use it to fetch a whole grid in one query.
func (s *EventStore) InRange(ctx context.Context, start, end string) ([]UserEvent, error) {
	query := `
		SELECT id, storage_key, date, title, created_at
		FROM user_events
		WHERE storage_key = ? AND date >= ? AND date <= ?
		ORDER BY date ASC, created_at ASC, id ASC
	`
	return s.query(ctx, query, s.key, start, end)
}

// Add stores a new event. The title is trimmed; an empty title returns
// ErrEmptyTitle and a malformed date returns ErrInvalidDate.
func (s *EventStore) Add(ctx context.Context, dateISO, title string) (*UserEvent, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	if _, err := calendar.ParseDate(dateISO); err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDate, dateISO)
	}

	ev := &UserEvent{
		ID:         "ev_" + uuid.NewString(),
		StorageKey: s.key,
		Date:       dateISO,
		Title:      title,
		CreatedAt:  s.now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_events (id, storage_key, date, title, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, ev.ID, ev.StorageKey, ev.Date, ev.Title, ev.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return nil, fmt.Errorf("insert user event: %w", err)
	}

	return ev, nil
}

// Delete removes an event by id. Returns ErrNotFound if no event under the
// key has that id.
func (s *EventStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM user_events WHERE storage_key = ? AND id = ?`, s.key, id)
	if err != nil {
		return fmt.Errorf("delete user event: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}

	return nil
}

// Replace overwrites the whole event list under the key in one transaction.
// Used when importing a list exported from another widget.
func (s *EventStore) Replace(ctx context.Context, events []UserEvent) error {
	return s.db.WithTx(ctx, func(tx *Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM user_events WHERE storage_key = ?`, s.key); err != nil {
			return fmt.Errorf("clear user events: %w", err)
		}
		for _, ev := range events {
			if ev.ID == "" {
				ev.ID = "ev_" + uuid.NewString()
			}
			if ev.CreatedAt.IsZero() {
				ev.CreatedAt = s.now().UTC()
			}
			_, err := tx.ExecContext(ctx, `
				INSERT INTO user_events (id, storage_key, date, title, created_at)
				VALUES (?, ?, ?, ?, ?)
			`, ev.ID, s.key, ev.Date, ev.Title, ev.CreatedAt.UTC().Format(time.RFC3339Nano))
			if err != nil {
				return fmt.Errorf("insert user event %s: %w", ev.ID, err)
			}
		}
		return nil
	})
}

// =============================================================================
// Helper Functions
// =============================================================================

func (s *EventStore) query(ctx context.Context, query string, args ...any) ([]UserEvent, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query user events: %w", err)
	}
	defer rows.Close()

	events := []UserEvent{}
	for rows.Next() {
		var ev UserEvent
		var createdAt string
		if err := rows.Scan(&ev.ID, &ev.StorageKey, &ev.Date, &ev.Title, &createdAt); err != nil {
			return nil, fmt.Errorf("scan user event row: %w", err)
		}
		if t := parseTimestamp(createdAt); t != nil {
			ev.CreatedAt = *t
		}
		events = append(events, ev)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate user event rows: %w", err)
	}

	return events, nil
}

// parseTimestamp parses a timestamp from SQLite TEXT format.
// Tries multiple formats and returns nil if parsing fails.
func parseTimestamp(s string) *time.Time {
	if s == "" {
		return nil
	}

	for _, layout := range []string{time.RFC3339Nano, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}
