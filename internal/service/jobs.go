package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"os/exec"
	"time"

	"github.com/MosinFAM/social-analytics/internal/models"
	"github.com/MosinFAM/social-analytics/internal/storage"

	"github.com/google/uuid"
)

// JobRunner запускает внешние batch-задачи (скрейпер) с жёстким
// таймаутом и записывает результат в журнал выполнения
type JobRunner struct {
	Storage storage.Storage
	Timeout time.Duration
}

func NewJobRunner(s storage.Storage, timeout time.Duration) *JobRunner {
	return &JobRunner{Storage: s, Timeout: timeout}
}

// Run выполняет команду и пишет execution_log. Таймаут и ненулевой
// код выхода - терминальный провал задачи, без ретраев.
func (r *JobRunner) Run(ctx context.Context, workflow, command string, args ...string) (*models.ExecutionLog, error) {
	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	started := time.Now().UTC()
	entry := &models.ExecutionLog{
		RunID:     uuid.New().String(),
		Workflow:  workflow,
		StartedAt: started,
	}
	meta, _ := json.Marshal(map[string]interface{}{"command": command, "args": args})
	entry.Metadata = meta

	slog.Info("Running job", "workflow", workflow, "run_id", entry.RunID, "command", command)
	runErr := exec.CommandContext(ctx, command, args...).Run()
	entry.DurationSeconds = time.Since(started).Seconds()

	if runErr != nil {
		if ctx.Err() == context.DeadlineExceeded {
			runErr = ctx.Err()
		}
		msg := runErr.Error()
		entry.Status = models.ExecutionStatusFailed
		entry.Error = &msg
		slog.Error("Job failed", "workflow", workflow, "run_id", entry.RunID, "err", runErr)
	} else {
		entry.Status = models.ExecutionStatusSuccess
	}

	if err := r.Storage.AddExecutionLog(entry); err != nil {
		return entry, err
	}
	return entry, runErr
}
