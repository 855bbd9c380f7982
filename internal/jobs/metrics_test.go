package jobmetrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestTrackerRecordsOutcome(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	assert.NoError(t, m.Track("export:warmup").End(nil))
	boom := errors.New("boom")
	assert.ErrorIs(t, m.Track("export:warmup").End(boom), boom)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("export:warmup", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.runs.WithLabelValues("export:warmup", "failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.failures.WithLabelValues("export:warmup")))
}

func TestAddWarmed(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.AddWarmed("comparativo", 6)
	m.AddWarmed("comparativo", 0)
	assert.Equal(t, 6.0, testutil.ToFloat64(m.warmed.WithLabelValues("comparativo")))

	var nilMetrics *Metrics
	nilMetrics.AddWarmed("solar", 1)
	assert.NoError(t, nilMetrics.Track("x").End(nil))
}
