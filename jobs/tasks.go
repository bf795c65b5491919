package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskBillingGenerate produces the month's bills from attendance.
	TaskBillingGenerate = "billing:generate"
	// TaskAnalyticsWarmup precomputes the dashboard caches.
	TaskAnalyticsWarmup = "analytics:warmup"
)

// BillingGeneratePayload selects the period to bill. An empty period means
// the month before the run, which is what the monthly cron wants.
type BillingGeneratePayload struct {
	Period string `json:"period"`
}

// NewBillingGenerateTask constructs the billing task.
func NewBillingGenerateTask(payload BillingGeneratePayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskBillingGenerate, data), nil
}

// NewAnalyticsWarmupTask constructs the cache warmup task.
func NewAnalyticsWarmupTask() *asynq.Task {
	return asynq.NewTask(TaskAnalyticsWarmup, nil)
}
