package main

import (
	"context"
	"encoding/json"
	"flag"
	"log/slog"
	"os"
	"time"

	"github.com/MosinFAM/social-analytics/internal/config"
	"github.com/MosinFAM/social-analytics/internal/db"
	"github.com/MosinFAM/social-analytics/internal/logging"
	"github.com/MosinFAM/social-analytics/internal/models"
	"github.com/MosinFAM/social-analytics/internal/service"
	"github.com/MosinFAM/social-analytics/internal/storage"

	"github.com/google/uuid"
)

// Batch-оценка тональности: проставляет VADER-оценки постам без
// sentiment-строки и пишет итог прогона в журнал выполнения.
func main() {
	limit := flag.Int("limit", 500, "максимум постов за прогон")
	flag.Parse()

	logging.InitLogger()
	cfg := config.Load()

	dbConn, err := db.Connect(cfg)
	if err != nil {
		slog.Error("Failed to connect to DB", "err", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	store := storage.NewPostgresStorage(dbConn)
	analyzer := service.NewAnalyzerService(store)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.JobTimeout)
	defer cancel()

	started := time.Now().UTC()
	scored, runErr := analyzer.ScorePending(ctx, *limit)

	entry := &models.ExecutionLog{
		RunID:           uuid.New().String(),
		Workflow:        "analyze",
		Status:          models.ExecutionStatusSuccess,
		StartedAt:       started,
		DurationSeconds: time.Since(started).Seconds(),
	}
	meta, _ := json.Marshal(map[string]int{"scored": scored})
	entry.Metadata = meta
	if runErr != nil {
		msg := runErr.Error()
		entry.Status = models.ExecutionStatusFailed
		entry.Error = &msg
	}
	if err := store.AddExecutionLog(entry); err != nil {
		slog.Error("Failed to record execution log", "err", err)
	}

	if runErr != nil {
		slog.Error("Analyze run failed", "scored", scored, "err", runErr)
		os.Exit(1)
	}
	slog.Info("Analyze run finished", "scored", scored)
}
