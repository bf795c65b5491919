package jobs

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/dairydesk/dairydesk/internal/jobs"
)

// DashboardWarmer precomputes the dashboard caches.
type DashboardWarmer interface {
	Warmup(ctx context.Context) error
}

// AnalyticsWarmupJob keeps the morning dashboard loads off the cold path.
type AnalyticsWarmupJob struct {
	Analytics DashboardWarmer
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
}

// NewAnalyticsWarmupJob initialises the warmup handler.
func NewAnalyticsWarmupJob(analyticsSvc DashboardWarmer, logger *slog.Logger, metrics *jobmetrics.Metrics) *AnalyticsWarmupJob {
	return &AnalyticsWarmupJob{Analytics: analyticsSvc, Logger: logger, Metrics: metrics}
}

// Handle executes one warmup pass.
func (j *AnalyticsWarmupJob) Handle(ctx context.Context, _ *asynq.Task) error {
	if j == nil || j.Analytics == nil {
		return errors.New("analytics warmup: handler not configured")
	}
	tracker := j.Metrics.Track(TaskAnalyticsWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger()
	logger.Info("starting analytics warmup")
	if err := j.Analytics.Warmup(ctx); err != nil {
		resultErr = err
		logger.Error("analytics warmup failed", slog.Any("error", err))
		return resultErr
	}
	logger.Info("completed analytics warmup")
	return resultErr
}

func (j *AnalyticsWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
