package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/energydash/energydash/internal/dashboard/export"
	"github.com/energydash/energydash/internal/dashboard/ui"
	"github.com/energydash/energydash/internal/energy"
	jobmetrics "github.com/energydash/energydash/internal/jobs"
	"github.com/energydash/energydash/internal/viewstate"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

var payloadValidator = validator.New()

// ExportWarmupJob renders the charts of every reachable default view into
// the export cache so the first download of each is served from Redis.
type ExportWarmupJob struct {
	Builder  *ui.Builder
	Exporter *export.Exporter
	Cache    *export.Cache
	Logger   *slog.Logger
	Metrics  *jobmetrics.Metrics
}

// NewExportWarmupJob wires dependencies for the warmup handler.
func NewExportWarmupJob(builder *ui.Builder, exporter *export.Exporter, cache *export.Cache, logger *slog.Logger, metrics *jobmetrics.Metrics) *ExportWarmupJob {
	return &ExportWarmupJob{
		Builder:  builder,
		Exporter: exporter,
		Cache:    cache,
		Logger:   logger,
		Metrics:  metrics,
	}
}

// Handle processes export warmup tasks.
func (j *ExportWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil {
		return errors.New("export warmup: handler not configured")
	}
	var payload ExportWarmupPayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return fmt.Errorf("export warmup: decode payload: %w", asynq.SkipRetry)
		}
	}
	if err := payloadValidator.Struct(payload); err != nil {
		return fmt.Errorf("export warmup: %v: %w", err, asynq.SkipRetry)
	}
	_, err := j.Run(ctx, payload)
	return err
}

// Run warms the selected variants concurrently and returns how many images
// were rendered.
func (j *ExportWarmupJob) Run(ctx context.Context, payload ExportWarmupPayload) (int, error) {
	if j.Builder == nil || j.Exporter == nil {
		return 0, errors.New("export warmup: builder and exporter required")
	}
	variants, err := parseVariants(payload.Variants)
	if err != nil {
		return 0, fmt.Errorf("export warmup: %v: %w", err, asynq.SkipRetry)
	}

	tracker := j.metrics().Track(TaskExportWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	start := time.Now()
	logger := j.logger()
	logger.Info("starting export warmup", slog.Int("variants", len(variants)), slog.Bool("bump", payload.Bump))

	if payload.Bump {
		if err := j.Cache.Bump(ctx); err != nil {
			resultErr = err
			logger.Error("bump export cache", slog.Any("error", err))
			return 0, resultErr
		}
	}

	var (
		mu    sync.Mutex
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(len(energy.Variants))
	for _, variant := range variants {
		g.Go(func() error {
			n, err := j.warmVariant(gctx, variant)
			if err != nil {
				return fmt.Errorf("%s: %w", variant, err)
			}
			j.metrics().AddWarmed(string(variant), n)
			mu.Lock()
			total += n
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		resultErr = err
		logger.Error("export warmup failed", slog.Any("error", err))
		return total, resultErr
	}

	logger.Info("completed export warmup", slog.Int("rendered", total), slog.Duration("duration", time.Since(start)))
	return total, resultErr
}

func (j *ExportWarmupJob) warmVariant(ctx context.Context, variant energy.Variant) (int, error) {
	rendered := 0
	for _, state := range j.defaultStates(variant) {
		n, err := j.Exporter.Warm(ctx, j.Builder.Surfaces(variant, state, false))
		rendered += n
		if err != nil {
			return rendered, err
		}
	}
	return rendered, nil
}

// defaultStates lists the initial state of a variant with each tab or
// section selected in turn.
func (j *ExportWarmupJob) defaultStates(variant energy.Variant) []viewstate.State {
	catalog := j.Builder.Catalog()
	initial := viewstate.Initial(catalog)
	limits := viewstate.LimitsFor(catalog, variant)
	states := []viewstate.State{initial}
	for i := 1; i < limits.Tabs; i++ {
		s := initial
		s.ActiveTab = i
		states = append(states, s)
	}
	for i := 1; i < limits.Sections; i++ {
		s := initial
		s.ActiveSection = i
		states = append(states, s)
	}
	return states
}

func parseVariants(raw []string) ([]energy.Variant, error) {
	if len(raw) == 0 {
		return energy.Variants, nil
	}
	out := make([]energy.Variant, 0, len(raw))
	for _, name := range raw {
		v, ok := energy.ParseVariant(name)
		if !ok {
			return nil, fmt.Errorf("unknown variant %q", name)
		}
		out = append(out, v)
	}
	return out, nil
}

func (j *ExportWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskExportWarmup))
	}
	return slog.Default().With(slog.String("job", TaskExportWarmup))
}

func (j *ExportWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}
