package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrLocation is returned when the current position cannot be determined.
var ErrLocation = errors.New("location access denied or failed")

// LocateTimeout bounds a single position lookup.
const LocateTimeout = 10 * time.Second

// Locator determines the current position.
type Locator interface {
	Locate(ctx context.Context) (Position, error)
}

// IPLocator resolves the caller's position from its public IP address using
// an ip-api.com compatible JSON endpoint.
type IPLocator struct {
	URL        string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// NewIPLocator creates a locator with the default timeout.
func NewIPLocator(url string) *IPLocator {
	return &IPLocator{
		URL:        url,
		HTTPClient: http.DefaultClient,
		Timeout:    LocateTimeout,
	}
}

type ipAPIResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
	City    string  `json:"city"`
}

// Locate implements Locator. Every failure wraps ErrLocation.
func (l *IPLocator) Locate(ctx context.Context) (Position, error) {
	timeout := l.Timeout
	if timeout <= 0 {
		timeout = LocateTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.URL, nil)
	if err != nil {
		return Position{}, fmt.Errorf("%w: %w", ErrLocation, err)
	}

	httpClient := l.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return Position{}, fmt.Errorf("%w: %w", ErrLocation, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Position{}, fmt.Errorf("%w: status %d", ErrLocation, resp.StatusCode)
	}

	var body ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Position{}, fmt.Errorf("%w: decode response: %w", ErrLocation, err)
	}
	if body.Status != "" && body.Status != "success" {
		return Position{}, fmt.Errorf("%w: %s", ErrLocation, body.Message)
	}

	return Position{Latitude: body.Lat, Longitude: body.Lon}, nil
}

// StaticLocator always reports the same position. It backs a pinned
// WEATHER_POSITION, where IP lookup would locate the server instead of the
// person looking at the widget.
type StaticLocator Position

// Locate implements Locator.
func (s StaticLocator) Locate(context.Context) (Position, error) {
	return Position(s), nil
}

// PinnedOr returns a StaticLocator at (lat, lon) when pinned is true, and
// fallback otherwise.
func PinnedOr(lat, lon float64, pinned bool, fallback Locator) Locator {
	if pinned {
		return StaticLocator{Latitude: lat, Longitude: lon}
	}
	return fallback
}
