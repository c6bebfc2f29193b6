// Package config handles application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve on hosts without zoneinfo

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// Config holds all application configuration.
// Fields are populated from environment variables.
type Config struct {
	// Server settings
	Port int    // HTTP port to listen on
	Env  string // development, staging, production

	// Database
	DatabasePath string // Path to SQLite file
	EventsKey    string // Storage key user events are kept under

	// Authentication
	APIKey string // API key for mutating endpoints; empty disables auth outside production

	// Logging
	LogLevel  string // debug, info, warn, error
	LogFormat string // json, text

	// Calendar
	HolidaysPath string // File path or URL of the holiday dataset; empty uses the embedded one
	Timezone     string // IANA zone used to decide "today"

	// Weather
	WeatherAPIKey      string
	WeatherAPIBase     string
	WeatherDefaultCity string
	WeatherCountryBias string // appended to free-text searches, e.g. "NA"
	GeoAPIBase         string // IP geolocation endpoint
	WeatherPosition    string // "lat,lon" pinning "here"; empty uses IP geolocation

	// Background refresh (cron spec, empty disables)
	RefreshSchedule string
}

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

// Defaults shared with the CLI.
const (
	DefaultEventsKey      = "namibia-widget-events"
	DefaultTimezone       = "Africa/Windhoek"
	DefaultWeatherAPIBase = "https://api.openweathermap.org/data/2.5/weather"
	DefaultWeatherCity    = "Windhoek,NA"
	DefaultCountryBias    = "NA"
	DefaultGeoAPIBase     = "http://ip-api.com/json"
	DefaultRefreshSpec    = "@every 30m"
)

// Load reads configuration from environment variables.
// In development, it first loads from .env file if present.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	cfg := &Config{}

	// Server settings
	cfg.Port = getEnvInt("PORT", 8080)
	cfg.Env = getEnv("ENV", EnvDevelopment)

	// Database
	cfg.DatabasePath = getEnv("DATABASE_PATH", "./data/widget.db")
	cfg.EventsKey = getEnv("EVENTS_KEY", DefaultEventsKey)

	// Authentication
	cfg.APIKey = getEnv("API_KEY", "")

	// Logging
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")
	cfg.LogFormat = getEnv("LOG_FORMAT", "text")

	// Calendar
	cfg.HolidaysPath = getEnv("HOLIDAYS_PATH", "")
	cfg.Timezone = getEnv("TIMEZONE", DefaultTimezone)

	// Weather
	cfg.WeatherAPIKey = getEnv("WEATHER_API_KEY", "")
	cfg.WeatherAPIBase = getEnv("WEATHER_API_BASE", DefaultWeatherAPIBase)
	cfg.WeatherDefaultCity = getEnv("WEATHER_DEFAULT_CITY", DefaultWeatherCity)
	cfg.WeatherCountryBias = getEnv("WEATHER_COUNTRY_BIAS", DefaultCountryBias)
	cfg.GeoAPIBase = getEnv("GEO_API_BASE", DefaultGeoAPIBase)
	cfg.WeatherPosition = getEnv("WEATHER_POSITION", "")

	// An explicitly empty REFRESH_SCHEDULE turns the refresher off.
	cfg.RefreshSchedule = DefaultRefreshSpec
	if v, ok := os.LookupEnv("REFRESH_SCHEDULE"); ok {
		cfg.RefreshSchedule = v
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration is present and valid.
func (c *Config) Validate() error {
	var errs []error

	// Validate port range
	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be between 1 and 65535, got %d", c.Port))
	}

	// Validate environment
	switch c.Env {
	case EnvDevelopment, EnvStaging, EnvProduction:
		// Valid
	default:
		errs = append(errs, fmt.Errorf("ENV must be one of: development, staging, production; got %q", c.Env))
	}

	if c.DatabasePath == "" {
		errs = append(errs, errors.New("DATABASE_PATH is required"))
	}
	if c.EventsKey == "" {
		errs = append(errs, errors.New("EVENTS_KEY is required"))
	}

	// API key is required in production
	if c.Env == EnvProduction && c.APIKey == "" {
		errs = append(errs, errors.New("API_KEY is required in production"))
	}

	// Validate log level
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
		// Valid
	default:
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of: debug, info, warn, error; got %q", c.LogLevel))
	}

	// Validate log format
	switch c.LogFormat {
	case "json", "text":
		// Valid
	default:
		errs = append(errs, fmt.Errorf("LOG_FORMAT must be one of: json, text; got %q", c.LogFormat))
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE %q is not a known zone: %w", c.Timezone, err))
	}

	if c.WeatherAPIBase == "" {
		errs = append(errs, errors.New("WEATHER_API_BASE is required"))
	}

	if c.WeatherPosition != "" {
		if _, _, err := parsePosition(c.WeatherPosition); err != nil {
			errs = append(errs, fmt.Errorf("WEATHER_POSITION %q is invalid: %w", c.WeatherPosition, err))
		}
	}

	if c.RefreshSchedule != "" {
		if _, err := cron.ParseStandard(c.RefreshSchedule); err != nil {
			errs = append(errs, fmt.Errorf("REFRESH_SCHEDULE %q is invalid: %w", c.RefreshSchedule, err))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// Location returns the configured time zone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Position returns the pinned WEATHER_POSITION. ok is false when it is
// unset or invalid.
func (c *Config) Position() (lat, lon float64, ok bool) {
	if c.WeatherPosition == "" {
		return 0, 0, false
	}
	lat, lon, err := parsePosition(c.WeatherPosition)
	return lat, lon, err == nil
}

// parsePosition parses "lat,lon" in decimal degrees.
func parsePosition(s string) (float64, float64, error) {
	latStr, lonStr, found := strings.Cut(s, ",")
	if !found {
		return 0, 0, errors.New(`want "lat,lon"`)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil || lat < -90 || lat > 90 {
		return 0, 0, fmt.Errorf("latitude must be between -90 and 90, got %q", latStr)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil || lon < -180 || lon > 180 {
		return 0, 0, fmt.Errorf("longitude must be between -180 and 180, got %q", lonStr)
	}
	return lat, lon, nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.Env == EnvProduction
}

// getEnv reads an environment variable with a default fallback.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt reads an environment variable as an integer with a default fallback.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}
