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

	"github.com/dairydesk/dairydesk/internal/analytics"
	"github.com/dairydesk/dairydesk/internal/app"
	"github.com/dairydesk/dairydesk/internal/attendance"
	"github.com/dairydesk/dairydesk/internal/billing"
	jobmetrics "github.com/dairydesk/dairydesk/internal/jobs"
	"github.com/dairydesk/dairydesk/internal/platform/cache"
	"github.com/dairydesk/dairydesk/internal/platform/db"
	"github.com/dairydesk/dairydesk/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	attendanceService := attendance.NewService(attendance.NewRepository(pool))
	billingService := billing.NewService(billing.NewRepository(pool), attendanceService, logger)

	analyticsCache := analytics.NewCache(redisClient, cfg.AnalyticsCacheTTL)
	analyticsService := analytics.NewService(analytics.NewPGRepository(pool), analyticsCache)

	metrics := jobmetrics.NewMetrics(nil)
	billingJob := jobs.NewBillingGenerateJob(billingService, analyticsService, logger, metrics)
	warmupJob := jobs.NewAnalyticsWarmupJob(analyticsService, logger, metrics)

	// The cron payload carries no period, so each run bills the month that
	// just ended.
	billingTask, err := jobs.NewBillingGenerateTask(jobs.BillingGeneratePayload{})
	if err != nil {
		logger.Error("build billing task", slog.Any("error", err))
		os.Exit(1)
	}
	warmupTask := jobs.NewAnalyticsWarmupTask()

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskBillingGenerate, Handler: billingJob.Handle},
			{Type: jobs.TaskAnalyticsWarmup, Handler: warmupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.BillingCron, Task: billingTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "30 5 * * *", Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(1)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	metricsServer := &http.Server{Addr: cfg.WorkerMetricsAddr, Handler: jobmetrics.Handler()}
	go func() {
		logger.Info("starting metrics server", slog.String("addr", cfg.WorkerMetricsAddr))
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("metrics server", slog.Any("error", err))
		}
	}()

	runErr := worker.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("metrics server shutdown", slog.Any("error", err))
	}

	if runErr != nil && runErr != context.Canceled {
		logger.Error("worker run", slog.Any("error", runErr))
		os.Exit(1)
	}
}
