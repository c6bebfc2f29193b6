package calendar

import (
	"testing"
	"time"
)

func TestMonthGrid(t *testing.T) {
	tests := []struct {
		name      string
		year      int
		month     time.Month
		wantCells int
		wantFirst string
		wantLast  string
		leading   int
	}{
		// Friday start, 31 days: 5+31 needs six rows.
		{"march 2024", 2024, time.March, 42, "2024-02-25", "2024-04-06", 5},
		// Sunday start, 28 days: exactly four rows, no spillover.
		{"february 2015", 2015, time.February, 28, "2015-02-01", "2015-02-28", 0},
		{"january 2025", 2025, time.January, 35, "2024-12-29", "2025-02-01", 3},
		{"december 2024", 2024, time.December, 35, "2024-12-01", "2025-01-04", 0},
		{"february 2024 leap", 2024, time.February, 35, "2024-01-28", "2024-03-02", 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells := MonthGrid(tt.year, tt.month)
			if len(cells) != tt.wantCells {
				t.Fatalf("len = %d, want %d", len(cells), tt.wantCells)
			}
			if cells[0].Date != tt.wantFirst {
				t.Errorf("first = %s, want %s", cells[0].Date, tt.wantFirst)
			}
			if last := cells[len(cells)-1].Date; last != tt.wantLast {
				t.Errorf("last = %s, want %s", last, tt.wantLast)
			}
			for i := 0; i < tt.leading; i++ {
				if cells[i].IsCurrentMonth {
					t.Errorf("cell %d (%s) should be spillover", i, cells[i].Date)
				}
			}
			if !cells[tt.leading].IsCurrentMonth || cells[tt.leading].Day != 1 {
				t.Errorf("cell %d = %+v, want day 1 of current month", tt.leading, cells[tt.leading])
			}
		})
	}
}

func TestMonthGrid_March2024Breakdown(t *testing.T) {
	cells := MonthGrid(2024, time.March)

	var leading, current, trailing int
	for i, c := range cells {
		switch {
		case c.IsCurrentMonth:
			current++
		case i < 5:
			leading++
		default:
			trailing++
		}
	}
	if leading != 5 || current != 31 || trailing != 6 {
		t.Errorf("leading/current/trailing = %d/%d/%d, want 5/31/6", leading, current, trailing)
	}

	// Leading days count backward from February's last day.
	for i, want := range []int{25, 26, 27, 28, 29} {
		if cells[i].Day != want {
			t.Errorf("cell %d day = %d, want %d", i, cells[i].Day, want)
		}
	}
	// Trailing days count forward from 1.
	for i := 0; i < 6; i++ {
		if cells[36+i].Day != i+1 {
			t.Errorf("trailing cell %d day = %d, want %d", i, cells[36+i].Day, i+1)
		}
	}
}

func TestMonthGrid_Properties(t *testing.T) {
	for year := 1900; year <= 2100; year++ {
		for month := time.January; month <= time.December; month++ {
			cells := MonthGrid(year, month)
			if len(cells) == 0 || len(cells)%7 != 0 {
				t.Fatalf("%d-%02d: %d cells is not a positive multiple of 7", year, month, len(cells))
			}

			firstCurrent := -1
			current := 0
			for i, c := range cells {
				if c.IsCurrentMonth {
					current++
					if firstCurrent < 0 {
						firstCurrent = i
					}
				}
			}
			if current != DaysIn(year, month) {
				t.Fatalf("%d-%02d: %d current cells, want %d", year, month, current, DaysIn(year, month))
			}
			if cells[firstCurrent].Day != 1 {
				t.Fatalf("%d-%02d: first current cell is day %d", year, month, cells[firstCurrent].Day)
			}
			if !cells[len(cells)-7].IsCurrentMonth || !cells[6].IsCurrentMonth {
				t.Fatalf("%d-%02d: grid has a row without current-month days", year, month)
			}
		}
	}
}

func TestShiftMonth(t *testing.T) {
	tests := []struct {
		year      int
		month     time.Month
		delta     int
		wantYear  int
		wantMonth time.Month
	}{
		{2024, time.January, -1, 2023, time.December},
		{2024, time.December, 1, 2025, time.January},
		{2024, time.March, -15, 2022, time.December},
		{2024, time.June, 0, 2024, time.June},
		{2024, time.June, 18, 2025, time.December},
	}

	for _, tt := range tests {
		y, m := ShiftMonth(tt.year, tt.month, tt.delta)
		if y != tt.wantYear || m != tt.wantMonth {
			t.Errorf("ShiftMonth(%d, %s, %d) = %d %s, want %d %s",
				tt.year, tt.month, tt.delta, y, m, tt.wantYear, tt.wantMonth)
		}
	}
}

func TestClampView(t *testing.T) {
	tests := []struct {
		year      int
		month     time.Month
		wantYear  int
		wantMonth time.Month
	}{
		{2024, time.March, 2024, time.March},
		{MinYear, time.January, MinYear, time.January},
		{MaxYear, time.December, MaxYear, time.December},
		{1582, time.October, MinYear, time.January},
		{10026, time.October, MaxYear, time.December},
	}

	for _, tt := range tests {
		y, m := ClampView(tt.year, tt.month)
		if y != tt.wantYear || m != tt.wantMonth {
			t.Errorf("ClampView(%d, %s) = %d %s, want %d %s",
				tt.year, tt.month, y, m, tt.wantYear, tt.wantMonth)
		}
	}
}

func TestMonthGrid_Weekday(t *testing.T) {
	for _, ym := range []struct {
		year  int
		month time.Month
	}{{2024, time.March}, {MaxYear, time.December}} {
		cells := MonthGrid(ym.year, ym.month)
		for i, c := range cells {
			if want := time.Weekday(i % 7); c.Weekday != want {
				t.Errorf("%d-%02d cell %d (%s) weekday = %s, want %s",
					ym.year, ym.month, i, c.Date, c.Weekday, want)
			}
		}
	}

	if !IsWeekend(time.Saturday) || !IsWeekend(time.Sunday) || IsWeekend(time.Friday) {
		t.Error("IsWeekend misclassifies days")
	}
}

func TestDaysIn(t *testing.T) {
	if got := DaysIn(2024, time.February); got != 29 {
		t.Errorf("DaysIn(2024, Feb) = %d", got)
	}
	if got := DaysIn(1900, time.February); got != 28 {
		t.Errorf("DaysIn(1900, Feb) = %d", got)
	}
	if got := DaysIn(2025, time.April); got != 30 {
		t.Errorf("DaysIn(2025, Apr) = %d", got)
	}
}
