package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/zapponejosh/holiday-widget/internal/weather"
	"github.com/zapponejosh/holiday-widget/internal/widget"
)

var (
	weatherLat  float64
	weatherLon  float64
	weatherHere bool
)

var weatherCmd = &cobra.Command{
	Use:   "weather [city]",
	Short: "Show the current weather",
	Long: `Show the current weather for a town (searched within Namibia unless a
country is given, e.g. "Cape Town,ZA"), for --lat/--lon, or for your
location with --here (WEATHER_POSITION when set, IP geolocation otherwise).
Without arguments WEATHER_DEFAULT_CITY is used.`,
	RunE: runWeather,
}

var clockCmd = &cobra.Command{
	Use:   "clock",
	Short: "Show a live clock and the Friday countdown",
	Long: `Show the date, time and countdown to Friday, updating every second
until interrupted. When stdout is not a terminal one line is printed.`,
	Args: cobra.NoArgs,
	RunE: runClock,
}

var countdownCmd = &cobra.Command{
	Use:   "countdown",
	Short: "Print the time left until Friday",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(current.out, current.ctrl.Countdown())
		return nil
	},
}

func init() {
	weatherCmd.Flags().Float64Var(&weatherLat, "lat", 0, "Latitude in decimal degrees")
	weatherCmd.Flags().Float64Var(&weatherLon, "lon", 0, "Longitude in decimal degrees")
	weatherCmd.Flags().BoolVar(&weatherHere, "here", false, "Use your approximate location")
	weatherCmd.MarkFlagsRequiredTogether("lat", "lon")
	weatherCmd.MarkFlagsMutuallyExclusive("lat", "here")
}

func runWeather(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	var (
		report *weather.Report
		err    error
	)
	switch {
	case weatherHere:
		report, err = current.ctrl.WeatherHere(ctx)
	case cmd.Flags().Changed("lat"):
		report, err = current.ctrl.WeatherByCoords(ctx, weatherLat, weatherLon)
	case len(args) > 0:
		report, err = current.ctrl.WeatherByCity(ctx, strings.Join(args, " "))
	default:
		report, err = current.ctrl.WeatherByCity(ctx, current.cfg.WeatherDefaultCity)
	}
	if err != nil {
		if errors.Is(err, widget.ErrWeatherUnavailable) {
			return fmt.Errorf("%w: set WEATHER_API_KEY", err)
		}
		return err
	}

	renderWeather(current.out, report, current.pal)
	return nil
}

func runClock(cmd *cobra.Command, args []string) error {
	line := func() string {
		c := current.ctrl.Clock()
		return fmt.Sprintf("%s  |  %s", current.pal.bold(c.Display), c.Label)
	}

	if !isTerminalWriter(current.out) {
		fmt.Fprintln(current.out, line())
		return nil
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		// Clear to end of line so a shorter label leaves no residue.
		fmt.Fprint(current.out, "\r"+line()+"\x1b[K")
		select {
		case <-cmd.Context().Done():
			fmt.Fprintln(current.out)
			return nil
		case <-ticker.C:
		}
	}
}
