package calendar

import (
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "2024-02-29", want: time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC)},
		{in: "9999-12-31", want: time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)},
		{in: "2026-02-30", wantErr: true},
		{in: "2025-02-29", wantErr: true},
		{in: "2024-3-21", wantErr: true},
		{in: "10026-09-27", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseDate(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseDate(%q) = %v, want error", tt.in, got)
			}
			continue
		}
		if err != nil || !got.Equal(tt.want) {
			t.Errorf("ParseDate(%q) = %v, %v; want %v", tt.in, got, err, tt.want)
		}
		if back := FormatDate(got); back != tt.in {
			t.Errorf("FormatDate(ParseDate(%q)) = %q", tt.in, back)
		}
	}
}
