package calendar

import "time"

// Cell is one position of a 7-column month grid.
type Cell struct {
	Date           string       `json:"date_iso"`
	Day            int          `json:"day"`
	IsCurrentMonth bool         `json:"is_current_month"`
	Weekday        time.Weekday `json:"weekday"`
}

// WeekdayNames are the grid column headers, Sunday first.
var WeekdayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// MonthGrid lays out month of year as whole weeks starting on Sunday.
//
// Cells before the 1st are the last days of the previous month and cells
// after the last day count up from the 1st of the next month. The cell
// count is the smallest multiple of 7 covering startWeekday+daysInMonth.
func MonthGrid(year int, month time.Month) []Cell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	start := int(first.Weekday())
	days := DaysIn(year, month)
	total := (start + days + 6) / 7 * 7

	cells := make([]Cell, total)
	for i := range cells {
		// Offsetting from the 1st lets time.Date roll into the adjacent months.
		d := first.AddDate(0, 0, i-start)
		cells[i] = Cell{
			Date:           FormatDate(d),
			Day:            d.Day(),
			IsCurrentMonth: i >= start && i < start+days,
			Weekday:        d.Weekday(),
		}
	}
	return cells
}
