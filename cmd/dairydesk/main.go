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
	analytichttp "github.com/dairydesk/dairydesk/internal/analytics/http"
	"github.com/dairydesk/dairydesk/internal/app"
	"github.com/dairydesk/dairydesk/internal/attendance"
	"github.com/dairydesk/dairydesk/internal/auth"
	"github.com/dairydesk/dairydesk/internal/billing"
	"github.com/dairydesk/dairydesk/internal/customers"
	"github.com/dairydesk/dairydesk/internal/expenses"
	"github.com/dairydesk/dairydesk/internal/ledger"
	"github.com/dairydesk/dairydesk/internal/observability"
	"github.com/dairydesk/dairydesk/internal/platform/cache"
	"github.com/dairydesk/dairydesk/internal/platform/db"
	"github.com/dairydesk/dairydesk/internal/sales"
	"github.com/dairydesk/dairydesk/internal/shared"
	"github.com/dairydesk/dairydesk/jobs"
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

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	// Sessions live in Redis, so a dead Redis means nobody can log in.
	// Fail fast instead of limping along.
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

	sessionManager := shared.NewSessionManager(redisClient, "dairydesk_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())

	authRepo := auth.NewRepository(dbpool)
	authService := auth.NewService(authRepo)
	authHandler := auth.NewHandler(logger, authService, sessionManager)

	customersRepo := customers.NewRepository(dbpool)
	customersService := customers.NewService(customersRepo)
	customersHandler := customers.NewHandler(logger, customersService)

	attendanceRepo := attendance.NewRepository(dbpool)
	attendanceService := attendance.NewService(attendanceRepo)
	attendanceHandler := attendance.NewHandler(attendanceService, logger)

	billingRepo := billing.NewRepository(dbpool)
	billingService := billing.NewService(billingRepo, attendanceService, logger)
	billingHandler := billing.NewHandler(billingService, logger)

	salesRepo := sales.NewRepository(dbpool)
	salesService := sales.NewService(salesRepo)
	salesHandler := sales.NewHandler(salesService, logger)

	expensesRepo := expenses.NewRepository(dbpool)
	expensesService := expenses.NewService(expensesRepo)
	expensesHandler := expenses.NewHandler(expensesService, logger)

	ledgerRepo := ledger.NewRepository(dbpool)
	ledgerService := ledger.NewService(ledgerRepo)
	ledgerHandler := ledger.NewHandler(ledgerService, logger)

	analyticsRepo := analytics.NewPGRepository(dbpool)
	analyticsCache := analytics.NewCache(redisClient, cfg.AnalyticsCacheTTL)
	analyticsService := analytics.NewService(analyticsRepo, analyticsCache)
	analyticsHandler := analytichttp.NewHandler(logger, analyticsService)

	if err := analyticsCache.ListenForInvalidation(ctx, ""); err != nil {
		logger.Warn("cache invalidation listener", slog.Any("error", err))
	}

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:            logger,
		Config:            cfg,
		SessionManager:    sessionManager,
		AuthHandler:       authHandler,
		CustomersHandler:  customersHandler,
		AttendanceHandler: attendanceHandler,
		BillingHandler:    billingHandler,
		SalesHandler:      salesHandler,
		ExpensesHandler:   expensesHandler,
		LedgerHandler:     ledgerHandler,
		AnalyticsHandler:  analyticsHandler,
		JobHandler:        jobHandler,
		Metrics:           metrics,
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
}
