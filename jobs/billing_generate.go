package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/dairydesk/dairydesk/internal/billing"
	"github.com/dairydesk/dairydesk/internal/finance"
	jobmetrics "github.com/dairydesk/dairydesk/internal/jobs"
)

// BillingRunner generates bills for a period.
type BillingRunner interface {
	GeneratePeriod(ctx context.Context, period finance.Period) (billing.GenerateResult, error)
}

// CacheInvalidator retires cached dashboards after the books change.
type CacheInvalidator interface {
	Invalidate(ctx context.Context) error
}

// BillingGenerateJob runs the scheduled monthly billing pass.
type BillingGenerateJob struct {
	Billing   BillingRunner
	Analytics CacheInvalidator
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
	clock     func() time.Time
}

// NewBillingGenerateJob initialises the billing job handler.
func NewBillingGenerateJob(billingSvc BillingRunner, analyticsSvc CacheInvalidator, logger *slog.Logger, metrics *jobmetrics.Metrics) *BillingGenerateJob {
	return &BillingGenerateJob{
		Billing:   billingSvc,
		Analytics: analyticsSvc,
		Logger:    logger,
		Metrics:   metrics,
		clock:     time.Now,
	}
}

// Handle executes one billing run.
func (j *BillingGenerateJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Billing == nil {
		return errors.New("billing generate: handler not configured")
	}
	var payload BillingGeneratePayload
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
	}

	period, err := j.resolvePeriod(payload)
	if err != nil {
		j.logger().Error("billing generate: bad period", slog.String("period", payload.Period))
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskBillingGenerate)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.String("period", period.String()))
	logger.Info("starting billing run")

	result, err := j.Billing.GeneratePeriod(ctx, period)
	if err != nil {
		resultErr = err
		logger.Error("billing run failed", slog.Any("error", err))
		return resultErr
	}
	j.metrics().AddBills("created", result.Created)
	j.metrics().AddBills("skipped", result.Skipped)

	if j.Analytics != nil && result.Created > 0 {
		if err := j.Analytics.Invalidate(ctx); err != nil {
			logger.Warn("cache invalidation failed", slog.Any("error", err))
		}
	}

	logger.Info("completed billing run",
		slog.Int("created", result.Created),
		slog.Int("skipped", result.Skipped),
	)
	return resultErr
}

// resolvePeriod falls back to the month before the run, matching the cron
// that fires a couple of days into each month.
func (j *BillingGenerateJob) resolvePeriod(payload BillingGeneratePayload) (finance.Period, error) {
	if payload.Period != "" {
		return finance.ParsePeriod(payload.Period)
	}
	return finance.PeriodOf(j.now()).Previous(), nil
}

func (j *BillingGenerateJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now()
}

func (j *BillingGenerateJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

func (j *BillingGenerateJob) metrics() *jobmetrics.Metrics {
	return j.Metrics
}
