package calendar

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func sampleRules() []HolidayRule {
	return []HolidayRule{
		{ID: "independence", Name: "Independence Day", Emoji: "🇳🇦", Type: RuleFixed, Month: 3, Day: 21},
		{ID: "good_friday", Name: "Good Friday", Type: RuleEasterOffset, Offset: -2},
		{ID: "new_year", Name: "New Year's Day", Description: "First day of the year", Type: RuleFixed, Month: 1, Day: 1},
		{ID: "easter_monday", Name: "Easter Monday", Type: RuleEasterOffset, Offset: 1},
	}
}

func TestMaterialize_FixedRule(t *testing.T) {
	rules := []HolidayRule{{ID: "independence", Type: RuleFixed, Month: 3, Day: 21}}
	for _, year := range []int{1990, 2024, 2025, 2100} {
		got := Materialize(year, rules)
		if len(got) != 1 {
			t.Fatalf("Materialize(%d) returned %d holidays, want 1", year, len(got))
		}
		want := fmt.Sprintf("%04d-03-21", year)
		if got[0].Date != want {
			t.Errorf("Materialize(%d) date = %s, want %s", year, got[0].Date, want)
		}
	}
}

func TestMaterialize_EasterRelative(t *testing.T) {
	rules := []HolidayRule{{ID: "good_friday", Type: RuleEasterOffset, Offset: -2}}
	for year := 1990; year <= 2040; year++ {
		got := Materialize(year, rules)
		want := FormatDate(EasterSunday(year).AddDate(0, 0, -2))
		if got[0].Date != want {
			t.Errorf("Good Friday %d = %s, want %s", year, got[0].Date, want)
		}
	}
}

func TestMaterialize_KeepsInputOrderAndDefaults(t *testing.T) {
	got := Materialize(2024, sampleRules())

	wantIDs := []string{"independence", "good_friday", "new_year", "easter_monday"}
	var ids []string
	for _, h := range got {
		ids = append(ids, h.ID)
	}
	if !reflect.DeepEqual(ids, wantIDs) {
		t.Errorf("order = %v, want %v", ids, wantIDs)
	}

	if got[1].Emoji != DefaultEmoji {
		t.Errorf("missing emoji = %q, want %q", got[1].Emoji, DefaultEmoji)
	}
	if got[0].Emoji != "🇳🇦" {
		t.Errorf("emoji = %q, want flag", got[0].Emoji)
	}
	if got[2].Description != "First day of the year" {
		t.Errorf("description = %q", got[2].Description)
	}
	if got[1].Date != "2024-03-29" || got[3].Date != "2024-04-01" {
		t.Errorf("easter dates = %s, %s", got[1].Date, got[3].Date)
	}
}

func TestMaterialize_KeepsDuplicates(t *testing.T) {
	// Independence Day and Good Friday collide in 2008.
	rules := []HolidayRule{
		{ID: "independence", Type: RuleFixed, Month: 3, Day: 21},
		{ID: "good_friday", Type: RuleEasterOffset, Offset: -2},
	}
	got := Materialize(2008, rules)
	if len(got) != 2 {
		t.Fatalf("got %d holidays, want 2", len(got))
	}
	if got[0].Date != "2008-03-21" || got[1].Date != "2008-03-21" {
		t.Errorf("dates = %s, %s, want both 2008-03-21", got[0].Date, got[1].Date)
	}
	if on := OnDate(got, "2008-03-21"); len(on) != 2 {
		t.Errorf("OnDate returned %d, want 2", len(on))
	}
}

func TestMaterialize_Deterministic(t *testing.T) {
	rules := sampleRules()
	for _, year := range []int{1999, 2024, 2031} {
		a := Materialize(year, rules)
		b := Materialize(year, rules)
		if !reflect.DeepEqual(a, b) {
			t.Errorf("Materialize(%d) not deterministic: %v vs %v", year, a, b)
		}
	}
}

func TestMaterialize_SkipsUnknownAndNormalizes(t *testing.T) {
	rules := []HolidayRule{
		{ID: "leap", Type: RuleFixed, Month: 2, Day: 29},
		{ID: "mystery", Type: "lunar"},
	}

	got := Materialize(2023, rules)
	if len(got) != 1 {
		t.Fatalf("got %d holidays, want 1", len(got))
	}
	if got[0].Date != "2023-03-01" {
		t.Errorf("Feb 29 in 2023 = %s, want 2023-03-01", got[0].Date)
	}

	if got := Materialize(2024, rules); got[0].Date != "2024-02-29" {
		t.Errorf("Feb 29 in 2024 = %s", got[0].Date)
	}
}

func TestValidateRules(t *testing.T) {
	tests := []struct {
		name    string
		rules   []HolidayRule
		wantErr string
	}{
		{name: "valid", rules: sampleRules()},
		{
			name:    "missing id",
			rules:   []HolidayRule{{Type: RuleFixed, Month: 1, Day: 1}},
			wantErr: "id is required",
		},
		{
			name:    "bad month",
			rules:   []HolidayRule{{ID: "x", Type: RuleFixed, Month: 13, Day: 1}},
			wantErr: "month must be between 1 and 12",
		},
		{
			name:    "bad day",
			rules:   []HolidayRule{{ID: "x", Type: RuleFixed, Month: 1, Day: 0}},
			wantErr: "day must be between 1 and 31",
		},
		{
			name:    "unknown type",
			rules:   []HolidayRule{{ID: "x", Type: "weekly"}},
			wantErr: "type must be one of",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRules(tt.rules)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateRules() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("ValidateRules() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestUpcoming(t *testing.T) {
	holidays := Materialize(2024, sampleRules())

	got := Upcoming(holidays, "2024-03-22", 0)
	var dates []string
	for _, h := range got {
		dates = append(dates, h.Date)
	}
	want := []string{"2024-03-29", "2024-04-01"}
	if !reflect.DeepEqual(dates, want) {
		t.Errorf("Upcoming dates = %v, want %v", dates, want)
	}

	if got := Upcoming(holidays, "2024-01-01", 2); len(got) != 2 || got[0].ID != "new_year" || got[1].ID != "independence" {
		t.Errorf("Upcoming limit 2 = %+v", got)
	}

	if got := Upcoming(holidays, "2024-12-31", 6); len(got) != 0 {
		t.Errorf("Upcoming after last holiday = %+v, want none", got)
	}

	// Upcoming must not reorder its input.
	if holidays[0].ID != "independence" {
		t.Errorf("input mutated: first = %s", holidays[0].ID)
	}
}
