package models

import (
	"encoding/json"
	"time"
)

// Статусы записи журнала выполнения
const (
	ExecutionStatusSuccess = "success"
	ExecutionStatusFailed  = "failed"
)

// Запись аудита о прогоне batch-задачи (scrape/import/analyze)
type ExecutionLog struct {
	ID              int64           `json:"id"`
	RunID           string          `json:"run_id"`
	Workflow        string          `json:"workflow"`
	Status          string          `json:"status"`
	StartedAt       time.Time       `json:"started_at"`
	DurationSeconds float64         `json:"duration_seconds"`
	Error           *string         `json:"error,omitempty"`
	Metadata        json.RawMessage `json:"metadata,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}
