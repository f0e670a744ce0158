package main

// Run database migrations:
//   go run ./cmd/migrate
//   go run ./cmd/migrate -status

import (
	"context"
	"flag"
	"os"

	"agri-backend/internal/shared/config"
	"agri-backend/internal/shared/storage/db"
	"agri-backend/internal/shared/telemetry"
)

func main() {
	status := flag.Bool("status", false, "print migration status instead of applying")
	flag.Parse()

	if err := run(*status); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err})
		telemetry.Sync()
		os.Exit(1)
	}
	telemetry.Sync()
}

func run(status bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := telemetry.Init(cfg.LogLevel); err != nil {
		return err
	}
	ctx := context.Background()

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFrom(cfg.DB).ForMigrate())
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if status {
		return db.MigrationStatus(ctx, sqlDB)
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		return err
	}
	telemetry.Info("migrate.done", nil)
	return nil
}
