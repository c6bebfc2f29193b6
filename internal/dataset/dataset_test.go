package dataset

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zapponejosh/holiday-widget/internal/calendar"
)

func TestDefault(t *testing.T) {
	rules, err := Default()
	if err != nil {
		t.Fatalf("Default() error: %v", err)
	}
	if len(rules) < 10 {
		t.Fatalf("Default() returned %d rules, want at least 10", len(rules))
	}

	holidays := calendar.Materialize(2024, rules)
	byID := make(map[string]string)
	for _, h := range holidays {
		byID[h.ID] = h.Date
	}

	want := map[string]string{
		"new_year":      "2024-01-01",
		"independence":  "2024-03-21",
		"good_friday":   "2024-03-29",
		"easter_monday": "2024-04-01",
		"ascension_day": "2024-05-09",
		"heroes_day":    "2024-08-26",
		"family_day":    "2024-12-26",
	}
	for id, date := range want {
		if byID[id] != date {
			t.Errorf("%s = %q, want %s", id, byID[id], date)
		}
	}
}

func TestLoad_EmptySourceUsesDefault(t *testing.T) {
	rules, err := Load(context.Background(), "")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	def, _ := Default()
	if len(rules) != len(def) {
		t.Errorf("Load(\"\") returned %d rules, want %d", len(rules), len(def))
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "holidays.yaml")
	content := `holidays:
  - id: independence
    name: Independence Day
    type: fixed
    month: 3
    day: 21
  - id: good_friday
    name: Good Friday
    type: easter_offset
    offset: -2
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}

	rules, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("got %d rules, want 2", len(rules))
	}
	if rules[1].Type != calendar.RuleEasterOffset || rules[1].Offset != -2 {
		t.Errorf("rule[1] = %+v", rules[1])
	}
}

func TestLoad_JSONFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "holidays.json")
	content := `{"holidays":[{"id":"x","name":"X","type":"fixed","month":7,"day":4}]}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write dataset: %v", err)
	}

	rules, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(rules) != 1 || rules[0].Month != 7 || rules[0].Day != 4 {
		t.Errorf("rules = %+v", rules)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.json")
	os.WriteFile(bad, []byte(`{"holidays": [`), 0644)

	invalid := filepath.Join(dir, "invalid.json")
	os.WriteFile(invalid, []byte(`{"holidays":[{"id":"x","type":"fixed","month":14,"day":1}]}`), 0644)

	tests := []struct {
		name    string
		source  string
		wantErr string
	}{
		{"missing file", filepath.Join(dir, "nope.json"), "read holiday dataset"},
		{"malformed", bad, "parse holiday dataset"},
		{"invalid rule", invalid, "invalid holiday dataset"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(context.Background(), tt.source)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Load(%s) error = %v, want %q", tt.source, err, tt.wantErr)
			}
		})
	}
}

func TestLoad_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.json" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"holidays":[{"id":"x","name":"X","type":"easter_offset","offset":1}]}`))
	}))
	defer srv.Close()

	rules, err := Load(context.Background(), srv.URL+"/holidays.json")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(rules) != 1 || rules[0].Offset != 1 {
		t.Errorf("rules = %+v", rules)
	}

	if _, err := Load(context.Background(), srv.URL+"/missing.json"); err == nil {
		t.Error("expected error for 404 dataset")
	}
}

func TestEncode_RoundTripYAML(t *testing.T) {
	rules, _ := Default()

	var buf bytes.Buffer
	if err := Encode(&buf, rules, FormatYAML); err != nil {
		t.Fatalf("Encode() error: %v", err)
	}

	back, err := Decode(buf.Bytes(), FormatYAML)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if len(back) != len(rules) || back[0].ID != rules[0].ID {
		t.Errorf("round trip lost rules: %d vs %d", len(back), len(rules))
	}
}
