package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/energydash/energydash/internal/app"
	"github.com/energydash/energydash/internal/dashboard/export"
	dashboardhttp "github.com/energydash/energydash/internal/dashboard/http"
	"github.com/energydash/energydash/internal/dashboard/ui"
	"github.com/energydash/energydash/internal/energy"
	jobmetrics "github.com/energydash/energydash/internal/jobs"
	"github.com/energydash/energydash/internal/observability"
	"github.com/energydash/energydash/internal/platform/cache"
	"github.com/energydash/energydash/internal/shared"
	"github.com/energydash/energydash/internal/view"
	"github.com/energydash/energydash/internal/viewstate"
	"github.com/energydash/energydash/jobs"
	"github.com/energydash/energydash/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	catalog := energy.Default()
	if err := energy.Validate(catalog); err != nil {
		logger.Error("validate catalog", slog.Any("error", err))
		os.Exit(1)
	}

	store, err := cache.Open(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()
	if store.Embedded() {
		logger.Info("REDIS_ADDR not set, using embedded redis")
	}

	sessionManager := shared.NewSessionManager(store.Client, "energydash_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	csrfManager := shared.NewCSRFManager(cfg.CSRFSecret)

	templates, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := observability.NewMetrics()
	registry := viewstate.NewRegistry(catalog, cfg.LoadingDelay, cfg.ViewIdleTTL, logger)
	go registry.Run(ctx, cfg.ViewSweepPeriod)
	go reportMountedViews(ctx, registry, metrics)

	builder := ui.NewBuilder(catalog, ui.SVGRenderers())
	exportCache := export.NewCache(store.Client, cfg.ExportCacheTTL)
	exporter := export.NewExporter(exportCache, logger, metrics)

	reportClient := report.NewClient(cfg.GotenbergURL, report.WithLandscape())
	var pdf dashboardhttp.PDFService
	var reportHandler *report.Handler
	if reportClient.Configured() {
		pdf = &export.PDFExporter{Renderer: reportClient}
		reportHandler = report.NewHandler(reportClient, logger)
	}

	dashboardHandler := dashboardhttp.NewHandler(logger, registry, builder, exporter, pdf, templates, csrfManager)

	warmup := jobs.NewExportWarmupJob(builder, exporter, exportCache, logger, jobmetrics.NewMetrics(metrics.Registerer()))
	var inspector *asynq.Inspector
	if store.Embedded() {
		go func() {
			if _, err := warmup.Run(ctx, jobs.ExportWarmupPayload{}); err != nil {
				logger.Warn("inline export warmup", slog.Any("error", err))
			}
		}()
	} else {
		redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
		inspector = asynq.NewInspector(redisOpts)
		defer func() {
			if err := inspector.Close(); err != nil {
				logger.Warn("inspector close", slog.Any("error", err))
			}
		}()
		enqueueWarmup(ctx, redisOpts, logger)
	}
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		SessionManager:   sessionManager,
		CSRFManager:      csrfManager,
		DashboardHandler: dashboardHandler,
		ReportHandler:    reportHandler,
		JobHandler:       jobHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
	registry.Close()
}

func enqueueWarmup(ctx context.Context, redisOpts asynq.RedisClientOpt, logger *slog.Logger) {
	client, err := jobs.NewClient(redisOpts)
	if err != nil {
		logger.Warn("job client", slog.Any("error", err))
		return
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	if _, err := client.EnqueueExportWarmup(ctx, jobs.ExportWarmupPayload{}); err != nil {
		logger.Warn("enqueue export warmup", slog.Any("error", err))
	}
}

func reportMountedViews(ctx context.Context, registry *viewstate.Registry, metrics *observability.Metrics) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.SetMountedViews(registry.Len())
		}
	}
}
