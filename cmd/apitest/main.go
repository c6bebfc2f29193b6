package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// =============================================================================
// Response Types - Match the actual API response structure
// =============================================================================

type APIResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   *ErrorInfo      `json:"error,omitempty"`
}

type ErrorInfo struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type EasterResponse struct {
	Year         int    `json:"year"`
	EasterSunday string `json:"easter_sunday"`
	GoodFriday   string `json:"good_friday"`
	Pentecost    string `json:"pentecost"`
}

type Holiday struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Emoji string `json:"emoji"`
	Date  string `json:"date_iso"`
}

type HolidaysResponse struct {
	Year     int       `json:"year"`
	Holidays []Holiday `json:"holidays"`
}

type GridResponse struct {
	Year  int               `json:"year"`
	Month int               `json:"month"`
	Cells []json.RawMessage `json:"cells"`
}

type DayResponse struct {
	Date     string    `json:"date_iso"`
	Weekday  string    `json:"weekday"`
	Holidays []Holiday `json:"holidays"`
}

type Event struct {
	ID    string `json:"id"`
	Date  string `json:"date_iso"`
	Title string `json:"title"`
}

type ClockResponse struct {
	Display   string `json:"display"`
	Countdown string `json:"countdown"`
}

// =============================================================================
// Test Runner
// =============================================================================

type TestRunner struct {
	baseURL      string
	apiKey       string
	client       *http.Client
	verbose      bool
	successCount int
	errorCount   int
	errors       []string
}

func NewTestRunner(baseURL, apiKey string, verbose bool) *TestRunner {
	return &TestRunner{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		verbose: verbose,
	}
}

func (tr *TestRunner) Run() {
	fmt.Println("==============================================")
	fmt.Println("Holiday Widget API Smoke Test")
	fmt.Println("==============================================")
	fmt.Printf("Base URL: %s\n", tr.baseURL)
	fmt.Println()

	tr.testHealth()
	tr.testEaster()
	tr.testHolidays()
	tr.testCalendar()
	tr.testEvents()
	tr.testClock()
	tr.testEdgeCases()

	tr.printSummary()
}

// =============================================================================
// Test Groups
// =============================================================================

func (tr *TestRunner) testHealth() {
	tr.printSection("Health Check")

	resp, err := tr.get("/health")
	if err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	var health HealthResponse
	if err := json.Unmarshal(resp.Data, &health); err != nil {
		tr.recordError("Health", err.Error())
		return
	}

	if health.Status == "healthy" {
		tr.recordSuccess("Health check passed")
	} else {
		tr.recordError("Health", fmt.Sprintf("Unexpected status: %s", health.Status))
	}
}

func (tr *TestRunner) testEaster() {
	tr.printSection("Easter Dates")

	testCases := []struct {
		year   int
		sunday string
		friday string
	}{
		{2008, "2008-03-23", "2008-03-21"},
		{2019, "2019-04-21", "2019-04-19"},
		{2024, "2024-03-31", "2024-03-29"},
		{2025, "2025-04-20", "2025-04-18"},
		{2038, "2038-04-25", "2038-04-23"},
	}

	for _, tc := range testCases {
		name := fmt.Sprintf("Easter %d", tc.year)
		resp, err := tr.get(fmt.Sprintf("/api/v1/easter/%d", tc.year))
		if err != nil {
			tr.recordError(name, err.Error())
			continue
		}

		var data EasterResponse
		if err := json.Unmarshal(resp.Data, &data); err != nil {
			tr.recordError(name, err.Error())
			continue
		}

		if data.EasterSunday == tc.sunday && data.GoodFriday == tc.friday {
			tr.recordSuccess(fmt.Sprintf("%s: %s (Good Friday %s)", name, data.EasterSunday, data.GoodFriday))
		} else {
			tr.recordError(name, fmt.Sprintf("Expected %s/%s, got %s/%s",
				tc.sunday, tc.friday, data.EasterSunday, data.GoodFriday))
		}
	}
}

func (tr *TestRunner) testHolidays() {
	tr.printSection("Holidays")

	resp, err := tr.get("/api/v1/holidays?year=2024")
	if err != nil {
		tr.recordError("Holidays 2024", err.Error())
		return
	}

	var data HolidaysResponse
	if err := json.Unmarshal(resp.Data, &data); err != nil {
		tr.recordError("Holidays 2024", err.Error())
		return
	}

	found := false
	for _, h := range data.Holidays {
		if h.Date == "2024-03-21" && h.ID == "independence" {
			found = true
		}
		if tr.verbose {
			fmt.Printf("    %s  %s %s\n", h.Date, h.Emoji, h.Name)
		}
	}
	if found {
		tr.recordSuccess(fmt.Sprintf("Holidays 2024 returned %d entries incl. Independence Day", len(data.Holidays)))
	} else {
		tr.recordError("Holidays 2024", "Independence Day on 2024-03-21 missing")
	}

	if _, err := tr.get("/api/v1/holidays/upcoming?limit=3"); err != nil {
		tr.recordError("Upcoming", err.Error())
	} else {
		tr.recordSuccess("Upcoming holidays listed")
	}
}

func (tr *TestRunner) testCalendar() {
	tr.printSection("Calendar Grid")

	gridCases := []struct {
		path  string
		cells int
	}{
		{"/api/v1/calendar/2024/3/grid", 42},
		{"/api/v1/calendar/2024/2/grid", 35},
		{"/api/v1/calendar/2015/2/grid", 28},
	}
	for _, tc := range gridCases {
		resp, err := tr.get(tc.path)
		if err != nil {
			tr.recordError(tc.path, err.Error())
			continue
		}
		var grid GridResponse
		if err := json.Unmarshal(resp.Data, &grid); err != nil {
			tr.recordError(tc.path, err.Error())
			continue
		}
		if len(grid.Cells) == tc.cells {
			tr.recordSuccess(fmt.Sprintf("%d-%02d grid has %d cells", grid.Year, grid.Month, len(grid.Cells)))
		} else {
			tr.recordError(tc.path, fmt.Sprintf("Expected %d cells, got %d", tc.cells, len(grid.Cells)))
		}
	}

	resp, err := tr.get("/api/v1/days/2008-03-21")
	if err != nil {
		tr.recordError("Day 2008-03-21", err.Error())
		return
	}
	var day DayResponse
	if err := json.Unmarshal(resp.Data, &day); err != nil {
		tr.recordError("Day 2008-03-21", err.Error())
		return
	}
	if len(day.Holidays) == 2 {
		tr.recordSuccess(fmt.Sprintf("2008-03-21 (%s) carries %d holidays", day.Weekday, len(day.Holidays)))
	} else {
		tr.recordError("Day 2008-03-21", fmt.Sprintf("Expected 2 holidays, got %d", len(day.Holidays)))
	}

	ics, err := tr.do(http.MethodGet, "/api/v1/calendar.ics?year=2025", nil)
	if err != nil {
		tr.recordError("ICS", err.Error())
		return
	}
	defer ics.Body.Close()
	body, _ := io.ReadAll(ics.Body)
	if ics.StatusCode == http.StatusOK && bytes.Contains(body, []byte("BEGIN:VCALENDAR")) {
		tr.recordSuccess(fmt.Sprintf("ICS export returned %d bytes", len(body)))
	} else {
		tr.recordError("ICS", fmt.Sprintf("HTTP %d", ics.StatusCode))
	}
}

func (tr *TestRunner) testEvents() {
	tr.printSection("Events")

	payload, _ := json.Marshal(map[string]string{
		"date_iso": "2030-06-15",
		"title":    "apitest event",
	})
	resp, err := tr.send(http.MethodPost, "/api/v1/events", payload)
	if err != nil {
		tr.recordError("Create event", err.Error())
		return
	}
	var ev Event
	if err := json.Unmarshal(resp.Data, &ev); err != nil {
		tr.recordError("Create event", err.Error())
		return
	}
	tr.recordSuccess(fmt.Sprintf("Created %s on %s", ev.ID, ev.Date))

	if resp, err := tr.get("/api/v1/days/2030-06-15"); err != nil {
		tr.recordError("Event day", err.Error())
	} else if !bytes.Contains(resp.Data, []byte(ev.ID)) {
		tr.recordError("Event day", "Event missing from day detail")
	} else {
		tr.recordSuccess("Event shows up in day detail")
	}

	del, err := tr.do(http.MethodDelete, "/api/v1/events/"+ev.ID, nil)
	if err != nil {
		tr.recordError("Delete event", err.Error())
		return
	}
	del.Body.Close()
	if del.StatusCode == http.StatusNoContent {
		tr.recordSuccess("Deleted " + ev.ID)
	} else {
		tr.recordError("Delete event", fmt.Sprintf("HTTP %d", del.StatusCode))
	}

	invalid, _ := json.Marshal(map[string]string{"date_iso": "2030-06-15", "title": "   "})
	if r, _ := tr.do(http.MethodPost, "/api/v1/events", invalid); r != nil && r.StatusCode == http.StatusBadRequest {
		r.Body.Close()
		tr.recordSuccess("Blank title rejected")
	} else {
		tr.recordError("Blank title", "Should return 400")
	}
}

func (tr *TestRunner) testClock() {
	tr.printSection("Clock")

	resp, err := tr.get("/api/v1/clock")
	if err != nil {
		tr.recordError("Clock", err.Error())
		return
	}
	var clock ClockResponse
	if err := json.Unmarshal(resp.Data, &clock); err != nil {
		tr.recordError("Clock", err.Error())
		return
	}
	tr.recordSuccess(fmt.Sprintf("%s (%s)", clock.Display, clock.Countdown))
}

func (tr *TestRunner) testEdgeCases() {
	tr.printSection("Edge Cases")

	testCases := []struct {
		path   string
		status int
		desc   string
	}{
		{"/api/v1/easter/abc", http.StatusBadRequest, "Non-numeric year rejected"},
		{"/api/v1/easter/1200", http.StatusBadRequest, "Pre-Gregorian year rejected"},
		{"/api/v1/calendar/2024/13", http.StatusBadRequest, "Month 13 rejected"},
		{"/api/v1/days/2025-02-30", http.StatusBadRequest, "Impossible date rejected"},
		{"/api/v1/nope", http.StatusNotFound, "Unknown route returns 404"},
	}

	for _, tc := range testCases {
		resp, err := tr.do(http.MethodGet, tc.path, nil)
		if err != nil {
			tr.recordError(tc.path, err.Error())
			continue
		}
		resp.Body.Close()
		if resp.StatusCode == tc.status {
			tr.recordSuccess(tc.desc)
		} else {
			tr.recordError(tc.path, fmt.Sprintf("Expected HTTP %d, got %d", tc.status, resp.StatusCode))
		}
	}

	if resp, err := tr.get("/api/v1/days/2024-02-29"); err != nil {
		tr.recordError("Leap year", err.Error())
	} else {
		_ = resp
		tr.recordSuccess("Leap year date (2024-02-29) handled")
	}
}

// =============================================================================
// Helper Methods
// =============================================================================

func (tr *TestRunner) get(path string) (*APIResponse, error) {
	return tr.send(http.MethodGet, path, nil)
}

// send performs a request and decodes a successful envelope.
func (tr *TestRunner) send(method, path string, body []byte) (*APIResponse, error) {
	resp, err := tr.do(method, path, body)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read error: %w", err)
	}

	var apiResp APIResponse
	if err := json.Unmarshal(raw, &apiResp); err != nil {
		return nil, fmt.Errorf("parse error: %w", err)
	}

	if !apiResp.Success {
		errMsg := "unknown error"
		if apiResp.Error != nil {
			errMsg = apiResp.Error.Message
		}
		return nil, fmt.Errorf("API error: %s", errMsg)
	}

	return &apiResp, nil
}

func (tr *TestRunner) do(method, path string, body []byte) (*http.Response, error) {
	req, err := http.NewRequest(method, tr.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if tr.apiKey != "" {
		req.Header.Set("X-API-Key", tr.apiKey)
	}
	return tr.client.Do(req)
}

func (tr *TestRunner) printSection(name string) {
	fmt.Println()
	fmt.Printf("--- %s ---\n", name)
	fmt.Println()
}

func (tr *TestRunner) recordSuccess(msg string) {
	tr.successCount++
	fmt.Printf("  ✓ %s\n", msg)
}

func (tr *TestRunner) recordError(context, msg string) {
	tr.errorCount++
	errStr := fmt.Sprintf("%s: %s", context, msg)
	tr.errors = append(tr.errors, errStr)
	fmt.Printf("  ✗ %s\n", errStr)
}

func (tr *TestRunner) printSummary() {
	fmt.Println()
	fmt.Println("==============================================")
	fmt.Println("Summary")
	fmt.Println("==============================================")
	fmt.Printf("  Passed: %d\n", tr.successCount)
	fmt.Printf("  Failed: %d\n", tr.errorCount)
	fmt.Println()

	if tr.errorCount > 0 {
		fmt.Println("Failures:")
		for _, err := range tr.errors {
			fmt.Printf("  • %s\n", err)
		}
		fmt.Println()
		fmt.Printf("Tests completed with %d failure(s)\n", tr.errorCount)
		return
	}
	fmt.Println("All tests passed! ✓")
}

// =============================================================================
// Main
// =============================================================================

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the API")
	apiKey := flag.String("key", os.Getenv("API_KEY"), "API key for mutating routes")
	verbose := flag.Bool("v", false, "Verbose output (list holidays)")
	flag.Parse()

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(*baseURL + "/health")
	if err != nil {
		fmt.Printf("Error: Cannot connect to %s\n", *baseURL)
		fmt.Println("Make sure the API server is running.")
		os.Exit(1)
	}
	resp.Body.Close()

	runner := NewTestRunner(*baseURL, *apiKey, *verbose)
	runner.Run()

	if runner.errorCount > 0 {
		os.Exit(1)
	}
}
