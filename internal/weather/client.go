// Package weather fetches current conditions from an OpenWeather-compatible API.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/zapponejosh/holiday-widget/internal/logger"
)

var (
	// ErrEmptyQuery is returned when a city search has no text.
	ErrEmptyQuery = errors.New("weather search query is empty")

	// ErrMissingAPIKey is returned when no API key is configured.
	ErrMissingAPIKey = errors.New("weather API key is not configured")

	// ErrFetchFailed is returned when the API answers with a non-2xx status
	// or a body that cannot be decoded.
	ErrFetchFailed = errors.New("weather fetch failed")
)

// DefaultCountry is shown when the API omits a country code.
const DefaultCountry = "NA"

// Position is a point on the globe in decimal degrees.
type Position struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Report is the current weather at one location, ready for display.
type Report struct {
	Location     string    `json:"location"`
	TemperatureC int       `json:"temperature_c"`
	FeelsLikeC   int       `json:"feels_like_c"`
	WindSpeed    float64   `json:"wind_speed"` // m/s
	Humidity     int       `json:"humidity"`   // percent
	Condition    string    `json:"condition"`
	Code         int       `json:"code"`
	Emoji        string    `json:"emoji"`
	Position     Position  `json:"position"`
	FetchedAt    time.Time `json:"fetched_at"`
}

// Client talks to the /data/2.5/weather endpoint in metric units.
type Client struct {
	BaseURL     string
	APIKey      string
	CountryBias string // appended to searches without a country, e.g. "NA"
	HTTPClient  *http.Client

	now func() time.Time
}

// NewClient creates a client using http.DefaultClient.
func NewClient(baseURL, apiKey, countryBias string) *Client {
	return &Client{
		BaseURL:     baseURL,
		APIKey:      apiKey,
		CountryBias: countryBias,
		HTTPClient:  http.DefaultClient,
		now:         time.Now,
	}
}

// ByCity searches by free-text place name. A query without a comma gets the
// country bias appended, so "Swakopmund" becomes "Swakopmund,NA".
func (c *Client) ByCity(ctx context.Context, query string) (*Report, error) {
	q := SearchQuery(query, c.CountryBias)
	if q == "" {
		return nil, ErrEmptyQuery
	}

	params := url.Values{}
	params.Set("q", q)
	return c.fetch(ctx, params)
}

// ByCoords fetches the weather at a coordinate pair.
func (c *Client) ByCoords(ctx context.Context, lat, lon float64) (*Report, error) {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	params.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	return c.fetch(ctx, params)
}

// SearchQuery trims query and appends bias unless the query already names a
// country. Returns "" for a blank query.
func SearchQuery(query, bias string) string {
	q := strings.TrimSpace(query)
	if q == "" {
		return ""
	}
	if bias == "" || strings.Contains(q, ",") {
		return q
	}
	return q + "," + bias
}

func (c *Client) fetch(ctx context.Context, params url.Values) (*Report, error) {
	if c.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	params.Set("appid", c.APIKey)
	params.Set("units", "metric")
	reqURL := c.BaseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build weather request: %w", err)
	}

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain a little of the body so the error is useful in logs.
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", ErrFetchFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode response: %w", ErrFetchFailed, err)
	}

	now := time.Now
	if c.now != nil {
		now = c.now
	}
	report := payload.report(now())

	logger.Debug(ctx, "weather fetched",
		"location", report.Location,
		"code", report.Code,
	)

	return report, nil
}

// apiResponse is the subset of the OpenWeather payload the widget shows.
type apiResponse struct {
	Name  string `json:"name"`
	Coord struct {
		Lat float64 `json:"lat"`
		Lon float64 `json:"lon"`
	} `json:"coord"`
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Weather []struct {
		ID          int    `json:"id"`
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
}

func (r apiResponse) report(fetchedAt time.Time) *Report {
	country := r.Sys.Country
	if country == "" {
		country = DefaultCountry
	}

	rep := &Report{
		Location:     r.Name + ", " + country,
		TemperatureC: roundHalfUp(r.Main.Temp),
		FeelsLikeC:   roundHalfUp(r.Main.FeelsLike),
		WindSpeed:    r.Wind.Speed,
		Humidity:     r.Main.Humidity,
		Position:     Position{Latitude: r.Coord.Lat, Longitude: r.Coord.Lon},
		FetchedAt:    fetchedAt,
	}

	var main string
	if len(r.Weather) > 0 {
		rep.Code = r.Weather[0].ID
		rep.Condition = r.Weather[0].Description
		main = r.Weather[0].Main
	}
	rep.Emoji = Emoji(rep.Code, main)

	return rep
}

// roundHalfUp rounds .5 toward positive infinity, so -0.5 becomes 0.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
