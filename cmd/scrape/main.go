package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/MosinFAM/social-analytics/internal/config"
	"github.com/MosinFAM/social-analytics/internal/db"
	"github.com/MosinFAM/social-analytics/internal/logging"
	"github.com/MosinFAM/social-analytics/internal/service"
	"github.com/MosinFAM/social-analytics/internal/storage"
)

// Запуск внешнего скрейпера как batch-задачи с жёстким таймаутом.
// Результат прогона попадает в execution_logs.
func main() {
	logging.InitLogger()

	if len(os.Args) < 2 {
		slog.Error("usage: scrape <command> [args...]")
		os.Exit(2)
	}

	cfg := config.Load()
	dbConn, err := db.Connect(cfg)
	if err != nil {
		slog.Error("Failed to connect to DB", "err", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	runner := service.NewJobRunner(storage.NewPostgresStorage(dbConn), cfg.JobTimeout)
	if _, err := runner.Run(context.Background(), "scrape", os.Args[1], os.Args[2:]...); err != nil {
		os.Exit(1)
	}
}
