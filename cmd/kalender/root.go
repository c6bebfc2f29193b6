package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/zapponejosh/holiday-widget/internal/calendar"
	"github.com/zapponejosh/holiday-widget/internal/config"
	"github.com/zapponejosh/holiday-widget/internal/database"
	"github.com/zapponejosh/holiday-widget/internal/dataset"
	"github.com/zapponejosh/holiday-widget/internal/logger"
	"github.com/zapponejosh/holiday-widget/internal/weather"
	"github.com/zapponejosh/holiday-widget/internal/widget"
)

var (
	flagVerbose bool
	flagNoColor bool
)

// app is what every subcommand runs against.
type app struct {
	cfg   *config.Config
	db    *database.DB
	ctrl  *widget.Controller
	out   io.Writer
	pal   palette
	rules []calendar.HolidayRule
}

var current *app

var rootCmd = &cobra.Command{
	Use:   "kalender",
	Short: "Namibian holiday calendar in your terminal",
	Long: `kalender shows the Namibian public holiday calendar, your own events,
the current weather and how long until Friday.

Configuration is read from the environment (and .env), the same variables
the API server uses: DATABASE_PATH, EVENTS_KEY, HOLIDAYS_PATH, TIMEZONE,
WEATHER_API_KEY, WEATHER_DEFAULT_CITY and friends.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setupApp,
	PersistentPostRunE: closeApp,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log at LOG_LEVEL instead of warnings only")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "Disable ANSI colors")

	rootCmd.AddCommand(monthCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(holidaysCmd)
	rootCmd.AddCommand(easterCmd)
	rootCmd.AddCommand(eventsCmd)
	rootCmd.AddCommand(weatherCmd)
	rootCmd.AddCommand(clockCmd)
	rootCmd.AddCommand(countdownCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(datasetCmd)
}

// setupApp loads config, opens storage and builds the controller.
// Logs go to stderr so rendered output on stdout stays clean.
func setupApp(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	level := "warn"
	if flagVerbose {
		level = cfg.LogLevel
	}
	log := logger.SetupTo(os.Stderr, level, cfg.LogFormat)

	db, err := database.Open(database.DefaultConfig(cfg.DatabasePath), log)
	if err != nil {
		return err
	}
	if _, err := db.Migrate(cmd.Context()); err != nil {
		db.Close()
		return fmt.Errorf("migrate database: %w", err)
	}

	loadRules := func(ctx context.Context) ([]calendar.HolidayRule, error) {
		return dataset.Load(ctx, cfg.HolidaysPath)
	}
	rules, err := loadRules(cmd.Context())
	if err != nil {
		log.Warn("failed to load holiday dataset, using embedded default",
			slog.String("source", cfg.HolidaysPath),
			slog.Any("error", err),
		)
		if rules, err = dataset.Default(); err != nil {
			db.Close()
			return err
		}
	}

	lat, lon, pinned := cfg.Position()
	opts := widget.Options{
		Events:      database.NewEventStore(db, cfg.EventsKey),
		Locator:     weather.PinnedOr(lat, lon, pinned, weather.NewIPLocator(cfg.GeoAPIBase)),
		LoadRules:   loadRules,
		DefaultCity: cfg.WeatherDefaultCity,
		Location:    cfg.Location(),
	}
	if cfg.WeatherAPIKey != "" {
		opts.Weather = weather.NewClient(cfg.WeatherAPIBase, cfg.WeatherAPIKey, cfg.WeatherCountryBias)
	}

	current = &app{
		cfg:   cfg,
		db:    db,
		ctrl:  widget.New(opts, rules),
		out:   cmd.OutOrStdout(),
		pal:   palette{enabled: !flagNoColor && isTerminal(os.Stdout)},
		rules: rules,
	}
	return nil
}

func closeApp(cmd *cobra.Command, args []string) error {
	if current != nil && current.db != nil {
		return current.db.Close()
	}
	return nil
}

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isTerminal(f)
}
