package jobs

import (
	"context"
	"fmt"

	"outreach-server/internal/config"
	"outreach-server/internal/observability"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// taskEnqueuer is the part of asynq.Client the job client uses
type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
	Close() error
}

// Client handles enqueueing background jobs
type Client struct {
	client taskEnqueuer
	logger *observability.Logger
}

// RedisOpt builds the asynq connection options from the Redis config
func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// NewClient creates a new job client
func NewClient(cfg config.RedisConfig, logger *observability.Logger) *Client {
	return &Client{
		client: asynq.NewClient(RedisOpt(cfg)),
		logger: logger,
	}
}

// Close closes the client connection
func (c *Client) Close() error {
	return c.client.Close()
}

// EnqueueCampaignDispatch enqueues a dispatch run for an active campaign
func (c *Client) EnqueueCampaignDispatch(ctx context.Context, campaignID uuid.UUID) error {
	ctx = observability.WithFields(ctx, observability.Field{Key: "campaign_id", Value: campaignID.String()})

	task, err := NewDispatchTask(DispatchJobPayload{CampaignID: campaignID})
	if err != nil {
		c.logger.Error(ctx, "failed to create dispatch task", err)
		return fmt.Errorf("failed to create dispatch task: %w", err)
	}

	info, err := c.client.EnqueueContext(ctx, task)
	if err != nil {
		c.logger.Error(ctx, "failed to enqueue dispatch task", err)
		return fmt.Errorf("failed to enqueue dispatch task: %w", err)
	}

	c.logger.Info(ctx, fmt.Sprintf("enqueued dispatch task: %s (queue: %s)", info.ID, info.Queue))
	return nil
}
