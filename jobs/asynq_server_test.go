package jobs

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSlogAdapterForwardsLevels(t *testing.T) {
	var buf bytes.Buffer
	adapter := slogAdapter{logger: slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))}

	adapter.Debug("lease ", "extended")
	adapter.Warn("queue paused")
	adapter.Error("dial tcp: refused")

	out := buf.String()
	assert.Contains(t, out, "level=DEBUG msg=\"lease extended\"")
	assert.Contains(t, out, "level=WARN msg=\"queue paused\"")
	assert.Contains(t, out, "level=ERROR")
}

func TestNewWorkerRejectsBadCron(t *testing.T) {
	mr := miniredis.RunT(t)
	task, err := NewExportWarmupTask(ExportWarmupPayload{})
	require.NoError(t, err)

	_, err = NewWorker(WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: mr.Addr()},
		Cron:      []CronRegistration{{Spec: "every tuesday", Task: task}},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), TaskExportWarmup)
}
