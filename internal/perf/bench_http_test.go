package perf

import (
	"bytes"
	"context"
	"sort"
	"testing"
	"time"

	"github.com/energydash/energydash/internal/dashboard/ui"
	"github.com/energydash/energydash/internal/energy"
	"github.com/energydash/energydash/internal/viewstate"
)

func TestDashboardLatencyTargets(t *testing.T) {
	builder := ui.NewBuilder(nil, ui.SVGRenderers())
	state := viewstate.Initial(builder.Catalog())

	scenarios := []struct {
		name      string
		run       func() error
		threshold time.Duration
	}{
		{
			name: "page",
			run: func() error {
				_, err := builder.Build(context.Background(), energy.VariantComparison, state, false, 0)
				return err
			},
			threshold: 500 * time.Millisecond,
		},
		{
			name: "png",
			run: func() error {
				var buf bytes.Buffer
				for _, c := range builder.Charts(energy.VariantComparison, state, false) {
					buf.Reset()
					if err := c.EncodePNG(&buf); err != nil {
						return err
					}
				}
				return nil
			},
			threshold: 2 * time.Second,
		},
	}

	for _, scenario := range scenarios {
		samples := make([]time.Duration, 0, 10)
		for i := 0; i < 10; i++ {
			start := time.Now()
			if err := scenario.run(); err != nil {
				t.Fatalf("%s: %v", scenario.name, err)
			}
			samples = append(samples, time.Since(start))
		}
		if p95 := percentile95(samples); p95 > scenario.threshold {
			t.Fatalf("%s latency regression: p95=%s threshold=%s", scenario.name, p95, scenario.threshold)
		}
	}
}

func BenchmarkBuildComparisonPage(b *testing.B) {
	builder := ui.NewBuilder(nil, ui.SVGRenderers())
	state := viewstate.Initial(builder.Catalog())
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := builder.Build(context.Background(), energy.VariantComparison, state, false, 0); err != nil {
			b.Fatal(err)
		}
	}
}

func percentile95(samples []time.Duration) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	sorted := append([]time.Duration(nil), samples...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	index := int(float64(len(sorted)-1) * 0.95)
	if index < 0 {
		index = 0
	}
	if index >= len(sorted) {
		index = len(sorted) - 1
	}
	return sorted[index]
}
