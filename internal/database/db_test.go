package database

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

// testDB creates an in-memory database for testing.
func testDB(t *testing.T) *DB {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

	cfg := Config{
		Path:            ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	}

	db, err := Open(cfg, logger)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if _, err := db.Migrate(context.Background()); err != nil {
		db.Close()
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// fixedClock returns a now func that advances one second per call.
func fixedClock(start time.Time) func() time.Time {
	cur := start
	return func() time.Time {
		t := cur
		cur = cur.Add(time.Second)
		return t
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := testDB(t)

	n, err := db.Migrate(context.Background())
	if err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
	if n != 0 {
		t.Errorf("second Migrate() applied %d migrations, want 0", n)
	}
}

func TestHealth(t *testing.T) {
	db := testDB(t)
	if err := db.Health(context.Background()); err != nil {
		t.Errorf("Health() error = %v", err)
	}
}

func TestEventStore_AddAndList(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	store := NewEventStore(db, "widget-a")
	store.now = fixedClock(time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC))

	mustAdd := func(date, title string) *UserEvent {
		t.Helper()
		ev, err := store.Add(ctx, date, title)
		if err != nil {
			t.Fatalf("Add(%q, %q) error = %v", date, title, err)
		}
		return ev
	}

	later := mustAdd("2026-12-25", "Braai at the farm")
	first := mustAdd("2026-03-21", "  Parade  ")
	second := mustAdd("2026-03-21", "Fireworks")

	if first.Title != "Parade" {
		t.Errorf("title not trimmed: %q", first.Title)
	}
	if first.ID == "" || first.ID == second.ID {
		t.Errorf("ids not unique: %q, %q", first.ID, second.ID)
	}

	events, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	wantOrder := []string{first.ID, second.ID, later.ID}
	if len(events) != len(wantOrder) {
		t.Fatalf("List() returned %d events, want %d", len(events), len(wantOrder))
	}
	for i, id := range wantOrder {
		if events[i].ID != id {
			t.Errorf("events[%d].ID = %q, want %q", i, events[i].ID, id)
		}
	}
	if !events[0].CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt round trip = %v, want %v", events[0].CreatedAt, first.CreatedAt)
	}

	onDay, err := store.ForDate(ctx, "2026-03-21")
	if err != nil {
		t.Fatalf("ForDate() error = %v", err)
	}
	if len(onDay) != 2 || onDay[0].Title != "Parade" || onDay[1].Title != "Fireworks" {
		t.Errorf("ForDate() = %+v", onDay)
	}

	inMarch, err := store.InRange(ctx, "2026-03-01", "2026-03-31")
	if err != nil {
		t.Fatalf("InRange() error = %v", err)
	}
	if len(inMarch) != 2 {
		t.Errorf("InRange() returned %d events, want 2", len(inMarch))
	}
}

func TestEventStore_AddValidation(t *testing.T) {
	store := NewEventStore(testDB(t), "widget-a")
	ctx := context.Background()

	tests := []struct {
		name    string
		date    string
		title   string
		wantErr error
	}{
		{"empty title", "2026-03-21", "", ErrEmptyTitle},
		{"whitespace title", "2026-03-21", " \t ", ErrEmptyTitle},
		{"bad date", "21/03/2026", "Parade", ErrInvalidDate},
		{"impossible date", "2026-02-30", "Parade", ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.Add(ctx, tt.date, tt.title)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Add() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	events, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(events) != 0 {
		t.Errorf("rejected events were stored: %+v", events)
	}
}

func TestEventStore_Delete(t *testing.T) {
	store := NewEventStore(testDB(t), "widget-a")
	ctx := context.Background()

	ev, err := store.Add(ctx, "2026-05-04", "Cassinga memorial")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	if err := store.Delete(ctx, ev.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	err = store.Delete(ctx, ev.ID)
	if !IsNotFound(err) {
		t.Errorf("second Delete() error = %v, want not found", err)
	}
}

func TestEventStore_KeysAreIsolated(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	a := NewEventStore(db, "widget-a")
	b := NewEventStore(db, "widget-b")

	ev, err := a.Add(ctx, "2026-08-26", "Heroes")
	if err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	got, err := b.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("widget-b sees %d events from widget-a", len(got))
	}

	if err := b.Delete(ctx, ev.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-key Delete() error = %v, want ErrNotFound", err)
	}
}

func TestEventStore_Replace(t *testing.T) {
	store := NewEventStore(testDB(t), "widget-a")
	ctx := context.Background()

	if _, err := store.Add(ctx, "2026-01-01", "Old"); err != nil {
		t.Fatalf("Add() error = %v", err)
	}

	err := store.Replace(ctx, []UserEvent{
		{ID: "ev_import_1", Date: "2026-12-10", Title: "Imported"},
		{Date: "2026-12-26", Title: "No id"},
	})
	if err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	events, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("List() returned %d events, want 2", len(events))
	}
	if events[0].ID != "ev_import_1" || events[1].ID == "" {
		t.Errorf("Replace() ids = %q, %q", events[0].ID, events[1].ID)
	}
}

func TestIsNotFound(t *testing.T) {
	if IsNotFound(errors.New("other")) {
		t.Error("IsNotFound() matched an unrelated error")
	}
	if !IsNotFound(ErrNotFound) {
		t.Error("IsNotFound(ErrNotFound) = false")
	}
}
