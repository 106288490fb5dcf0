package workers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"outreach-server/internal/jobs"
	"outreach-server/internal/observability"
	"outreach-server/internal/workers/dispatch"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// runInProgressRetryDelay is how long a task that lost the run lock waits before trying again.
const runInProgressRetryDelay = time.Minute

// CampaignRunner runs the dispatch loop of a campaign
type CampaignRunner interface {
	Run(ctx context.Context, campaignID uuid.UUID) error
}

// DispatchWorker handles campaign dispatch jobs
type DispatchWorker struct {
	runner CampaignRunner
	logger *observability.Logger
}

// NewDispatchWorker creates a new dispatch worker
func NewDispatchWorker(runner CampaignRunner, logger *observability.Logger) *DispatchWorker {
	return &DispatchWorker{
		runner: runner,
		logger: logger,
	}
}

// ProcessDispatchTask processes a dispatch task (for Asynq)
func (w *DispatchWorker) ProcessDispatchTask(ctx context.Context, task *asynq.Task) error {
	payload, err := jobs.ParseDispatchPayload(task)
	if err != nil {
		w.logger.Error(ctx, "failed to unmarshal dispatch job payload", err)
		return fmt.Errorf("failed to unmarshal dispatch job payload: %v: %w", err, asynq.SkipRetry)
	}

	ctx = observability.WithFields(ctx,
		observability.Field{Key: "campaign_id", Value: payload.CampaignID.String()},
		observability.Field{Key: "task_type", Value: task.Type()},
	)

	if err := w.runner.Run(ctx, payload.CampaignID); err != nil {
		if errors.Is(err, dispatch.ErrRunInProgress) {
			w.logger.Info(ctx, "campaign is being dispatched by another worker, will retry")
			return err
		}
		w.logger.Error(ctx, "dispatch run failed", err)
		return fmt.Errorf("dispatch run failed: %w", err)
	}
	return nil
}

// RetryDelay retries lock contention on a short fixed delay and everything else with asynq's backoff
func RetryDelay(n int, err error, task *asynq.Task) time.Duration {
	if errors.Is(err, dispatch.ErrRunInProgress) {
		return runInProgressRetryDelay
	}
	return asynq.DefaultRetryDelayFunc(n, err, task)
}
