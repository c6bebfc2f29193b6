package database

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDecodeLegacyEvents(t *testing.T) {
	input := `[
		{"id":"ev_1700000000000","dateISO":"2024-03-21","title":"  Parade ","createdAt":"3/1/2024, 9:15:00 AM"},
		{"id":"ev_1700000000000","dateISO":"2024-05-04","title":"Cassinga","createdAt":"whenever"},
		{"dateISO":"2024-12-25","title":"Family lunch"}
	]`

	events, err := DecodeLegacyEvents(strings.NewReader(input))
	if err != nil {
		t.Fatalf("DecodeLegacyEvents() error = %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("len(events) = %d, want 3", len(events))
	}

	if events[0].ID != "ev_1700000000000" || events[0].Title != "Parade" {
		t.Errorf("events[0] = %+v", events[0])
	}
	if want := time.Date(2024, 3, 1, 9, 15, 0, 0, time.UTC); !events[0].CreatedAt.Equal(want) {
		t.Errorf("events[0].CreatedAt = %v, want %v", events[0].CreatedAt, want)
	}
	if events[1].ID != "" {
		t.Errorf("duplicate id kept: %q", events[1].ID)
	}
	if !events[1].CreatedAt.IsZero() {
		t.Errorf("unparseable createdAt = %v, want zero", events[1].CreatedAt)
	}
}

func TestDecodeLegacyEvents_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{"blank title", `[{"dateISO":"2024-03-21","title":"   "}]`, ErrEmptyTitle},
		{"bad date", `[{"dateISO":"2024-02-30","title":"x"}]`, ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeLegacyEvents(strings.NewReader(tt.input))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := DecodeLegacyEvents(strings.NewReader(`{"not":"a list"}`)); err == nil {
		t.Error("expected error for non-array input")
	}
}

func TestDecodeLegacyEvents_Replace(t *testing.T) {
	db := testDB(t)
	store := NewEventStore(db, "namibia-widget-events")
	ctx := context.Background()

	events, err := DecodeLegacyEvents(strings.NewReader(`[
		{"id":"ev_1","dateISO":"2024-08-26","title":"Heroes"},
		{"dateISO":"2024-03-21","title":"Parade"}
	]`))
	if err != nil {
		t.Fatalf("DecodeLegacyEvents() error = %v", err)
	}
	if err := store.Replace(ctx, events); err != nil {
		t.Fatalf("Replace() error = %v", err)
	}

	got, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 2 || got[0].Title != "Parade" || got[1].ID != "ev_1" {
		t.Errorf("List() = %+v", got)
	}
}

func TestDecodeLegacyEvents_ReplaceUnderTwoKeys(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	saved := `[{"id":"ev_1700000000000","dateISO":"2024-03-21","title":"Parade"}]`

	a := NewEventStore(db, "widget-a")
	b := NewEventStore(db, "widget-b")
	for _, store := range []*EventStore{a, b} {
		events, err := DecodeLegacyEvents(strings.NewReader(saved))
		if err != nil {
			t.Fatalf("DecodeLegacyEvents() error = %v", err)
		}
		if err := store.Replace(ctx, events); err != nil {
			t.Fatalf("Replace(%s) error = %v", store.Key(), err)
		}
	}

	// Deleting under one key leaves the other key's copy alone.
	if err := a.Delete(ctx, "ev_1700000000000"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	left, err := a.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(left) != 0 {
		t.Errorf("widget-a events = %+v, want none", left)
	}
	kept, err := b.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(kept) != 1 || kept[0].ID != "ev_1700000000000" || kept[0].StorageKey != "widget-b" {
		t.Errorf("widget-b events = %+v", kept)
	}
}
