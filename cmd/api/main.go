// Package main is the entry point for the holiday widget API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zapponejosh/holiday-widget/internal/api"
	"github.com/zapponejosh/holiday-widget/internal/calendar"
	"github.com/zapponejosh/holiday-widget/internal/config"
	"github.com/zapponejosh/holiday-widget/internal/database"
	"github.com/zapponejosh/holiday-widget/internal/dataset"
	"github.com/zapponejosh/holiday-widget/internal/logger"
	"github.com/zapponejosh/holiday-widget/internal/scheduler"
	"github.com/zapponejosh/holiday-widget/internal/weather"
	"github.com/zapponejosh/holiday-widget/internal/widget"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	// Setup structured logging
	log := logger.Setup(cfg)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped with error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("starting holiday widget API",
		slog.String("env", cfg.Env),
		slog.Int("port", cfg.Port),
		slog.String("log_level", cfg.LogLevel),
		slog.String("timezone", cfg.Timezone),
	)

	switch {
	case cfg.APIKey == "" && cfg.IsDevelopment():
		log.Info("API_KEY not set, mutating routes are open in development")
	case cfg.APIKey == "" && !cfg.IsProduction():
		log.Warn("API_KEY not set, mutating routes accept unauthenticated requests",
			slog.String("env", cfg.Env),
		)
	}

	// Database
	db, err := database.Open(database.DefaultConfig(cfg.DatabasePath), log)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if _, err := db.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate database: %w", err)
	}

	// Holiday rules. A broken dataset source falls back to the embedded one
	// so the widget still starts.
	loadRules := func(ctx context.Context) ([]calendar.HolidayRule, error) {
		return dataset.Load(ctx, cfg.HolidaysPath)
	}
	rules, err := loadRules(ctx)
	if err != nil {
		log.Error("failed to load holiday dataset, using embedded default",
			slog.String("source", cfg.HolidaysPath),
			slog.Any("error", err),
		)
		if rules, err = dataset.Default(); err != nil {
			return fmt.Errorf("load embedded dataset: %w", err)
		}
	}

	var wx widget.WeatherSource
	if cfg.WeatherAPIKey != "" {
		wx = weather.NewClient(cfg.WeatherAPIBase, cfg.WeatherAPIKey, cfg.WeatherCountryBias)
	} else {
		log.Warn("WEATHER_API_KEY not set, weather endpoints disabled")
	}

	lat, lon, pinned := cfg.Position()
	ctrl := widget.New(widget.Options{
		Events:      database.NewEventStore(db, cfg.EventsKey),
		Weather:     wx,
		Locator:     weather.PinnedOr(lat, lon, pinned, weather.NewIPLocator(cfg.GeoAPIBase)),
		LoadRules:   loadRules,
		DefaultCity: cfg.WeatherDefaultCity,
		Location:    cfg.Location(),
	}, rules)

	// Background refresh
	var sched *scheduler.Scheduler
	if cfg.RefreshSchedule != "" {
		sched, err = scheduler.New(cfg.RefreshSchedule, ctrl, cfg.Location(), log)
		if err != nil {
			return fmt.Errorf("create scheduler: %w", err)
		}
		sched.Start()
	}

	handlers := api.NewHandlers(db, ctrl, cfg, log)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.SetupRoutes(handlers, cfg, log),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("holiday widget API ready", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if sched != nil {
		sched.Stop(shutdownCtx)
	}
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	log.Info("holiday widget API stopped")
	return nil
}
