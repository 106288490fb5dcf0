package workers

import (
	"context"
	"fmt"

	"outreach-server/internal/observability"

	"github.com/hibiken/asynq"
)

// TriggerSweeper fires every campaign trigger that is due
type TriggerSweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// TriggersWorker handles the periodic trigger sweep
type TriggersWorker struct {
	sweeper TriggerSweeper
	logger  *observability.Logger
}

// NewTriggersWorker creates a new triggers worker
func NewTriggersWorker(sweeper TriggerSweeper, logger *observability.Logger) *TriggersWorker {
	return &TriggersWorker{
		sweeper: sweeper,
		logger:  logger,
	}
}

// ProcessTriggersSweepTask processes a trigger sweep task (for Asynq)
func (w *TriggersWorker) ProcessTriggersSweepTask(ctx context.Context, task *asynq.Task) error {
	ctx = observability.WithFields(ctx, observability.Field{Key: "task_type", Value: task.Type()})

	fired, err := w.sweeper.Sweep(ctx)
	if err != nil {
		w.logger.Error(ctx, "trigger sweep failed", err)
		return fmt.Errorf("trigger sweep failed: %w", err)
	}
	if fired > 0 {
		w.logger.Info(ctx, fmt.Sprintf("trigger sweep fired %d campaign triggers", fired))
	}
	return nil
}
