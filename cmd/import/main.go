// Command import loads events saved by the browser widget into the SQLite
// database.
//
// Usage:
//
//	go run ./cmd/import -json events.json -db data/holiday-widget.db
//
// The input is the JSON array the browser kept under its storage key. The
// import replaces every event stored under -key in a single transaction, so
// running it twice yields the same result.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/zapponejosh/holiday-widget/internal/database"
)

func main() {
	jsonPath := flag.String("json", "events.json", "Path to saved events JSON")
	dbPath := flag.String("db", "data/holiday-widget.db", "Path to SQLite database")
	key := flag.String("key", "namibia-widget-events", "Storage key to import under")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))

	if err := run(*jsonPath, *dbPath, *key, logger); err != nil {
		logger.Error("import failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("import complete")
}

func run(jsonPath, dbPath, key string, logger *slog.Logger) error {
	ctx := context.Background()
	startTime := time.Now()

	// =========================================================================
	// Step 1: Read and parse JSON
	// =========================================================================
	logger.Info("reading JSON file", slog.String("path", jsonPath))

	f, err := os.Open(jsonPath)
	if err != nil {
		return fmt.Errorf("open JSON file: %w", err)
	}
	defer f.Close()

	events, err := database.DecodeLegacyEvents(f)
	if err != nil {
		return err
	}
	logger.Info("parsed JSON", slog.Int("events", len(events)))

	// =========================================================================
	// Step 2: Open database and run migrations
	// =========================================================================
	logger.Info("opening database", slog.String("path", dbPath))

	db, err := database.Open(database.DefaultConfig(dbPath), logger)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	migrated, err := db.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("migrations complete", slog.Int("applied", migrated))

	// =========================================================================
	// Step 3: Replace stored events
	// =========================================================================
	store := database.NewEventStore(db, key)
	if err := store.Replace(ctx, events); err != nil {
		return fmt.Errorf("import events: %w", err)
	}

	// =========================================================================
	// Step 4: Verify import
	// =========================================================================
	stored, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("list events: %w", err)
	}
	if len(stored) != len(events) {
		return fmt.Errorf("verify import: stored %d events, expected %d", len(stored), len(events))
	}

	elapsed := time.Since(startTime)
	logger.Info("import verified",
		slog.Int("events", len(stored)),
		slog.Duration("elapsed", elapsed),
	)

	fmt.Println()
	fmt.Println("=== Import Summary ===")
	fmt.Printf("Storage key:     %s\n", store.Key())
	fmt.Printf("Events imported: %d\n", len(stored))
	if len(stored) > 0 {
		fmt.Printf("Date range:      %s .. %s\n", stored[0].Date, stored[len(stored)-1].Date)
	}
	fmt.Printf("Time elapsed:    %v\n", elapsed.Round(time.Millisecond))

	return nil
}
