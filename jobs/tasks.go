package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskExportWarmup pre-renders chart exports into the cache.
	TaskExportWarmup = "export:warmup"
)

// ExportWarmupPayload selects what a warmup run renders. An empty Variants
// list warms every dashboard.
type ExportWarmupPayload struct {
	Variants []string `json:"variants,omitempty" validate:"dive,oneof=comparativo powerbi solar"`
	// Bump invalidates the cache before rendering.
	Bump bool `json:"bump,omitempty"`
}

// NewExportWarmupTask constructs an Asynq task.
func NewExportWarmupTask(payload ExportWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskExportWarmup, data, asynq.MaxRetry(3)), nil
}
