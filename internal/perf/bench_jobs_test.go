package perf

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/redis/go-redis/v9"

	"github.com/energydash/energydash/internal/dashboard/export"
	"github.com/energydash/energydash/internal/dashboard/ui"
	jobmetrics "github.com/energydash/energydash/internal/jobs"
	"github.com/energydash/energydash/jobs"
)

func TestExportWarmupThroughputAndReliability(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := jobmetrics.NewMetrics(reg)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cache := export.NewCache(client, time.Hour)
	builder := ui.NewBuilder(nil, ui.SVGRenderers())
	job := jobs.NewExportWarmupJob(builder, export.NewExporter(cache, logger, nil), cache, logger, metrics)

	// The first run is cold, every later one only probes the cache.
	for i := 0; i < 20; i++ {
		if _, err := job.Run(context.Background(), jobs.ExportWarmupPayload{}); err != nil {
			t.Fatalf("warmup run %d: %v", i, err)
		}
	}

	// A single failing run must not drag the ratio below target.
	tracker := metrics.Track(jobs.TaskExportWarmup)
	if err := tracker.End(errors.New("redis timeout")); err == nil {
		t.Fatal("expected error to propagate")
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	success := metricValue(t, families, "energydash_jobs_total", map[string]string{"job": jobs.TaskExportWarmup, "status": "success"})
	failure := metricValue(t, families, "energydash_jobs_total", map[string]string{"job": jobs.TaskExportWarmup, "status": "failure"})
	if ratio := success / (success + failure); ratio < 0.9 {
		t.Fatalf("warmup success ratio too low: %f", ratio)
	}

	warmed := metricValue(t, families, "energydash_export_warmed_total", map[string]string{"variant": "comparativo"})
	if warmed != 6 {
		t.Fatalf("comparison charts warmed %v times, want 6", warmed)
	}

	mean := histogramMean(t, families, "energydash_job_duration_seconds", map[string]string{"job": jobs.TaskExportWarmup})
	if mean > 2.0 {
		t.Fatalf("warmup duration above budget: %f", mean)
	}
}

func metricValue(t *testing.T, families []*dto.MetricFamily, name string, labels map[string]string) float64 {
	t.Helper()
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		for _, metric := range fam.GetMetric() {
			if hasLabels(metric, labels) {
				if fam.GetType() == dto.MetricType_COUNTER {
					return metric.GetCounter().GetValue()
				}
				if fam.GetType() == dto.MetricType_GAUGE {
					return metric.GetGauge().GetValue()
				}
			}
		}
	}
	t.Fatalf("metric %s with labels %v not found", name, labels)
	return 0
}

func histogramMean(t *testing.T, families []*dto.MetricFamily, name string, labels map[string]string) float64 {
	t.Helper()
	for _, fam := range families {
		if fam.GetName() != name {
			continue
		}
		for _, metric := range fam.GetMetric() {
			if hasLabels(metric, labels) {
				hist := metric.GetHistogram()
				if hist == nil || hist.GetSampleCount() == 0 {
					t.Fatalf("histogram %s missing samples", name)
				}
				return hist.GetSampleSum() / float64(hist.GetSampleCount())
			}
		}
	}
	t.Fatalf("histogram %s with labels %v not found", name, labels)
	return 0
}

func hasLabels(metric *dto.Metric, labels map[string]string) bool {
	matched := 0
	for _, lp := range metric.GetLabel() {
		val, ok := labels[lp.GetName()]
		if !ok {
			continue
		}
		if lp.GetValue() != val {
			return false
		}
		matched++
	}
	return matched == len(labels)
}
