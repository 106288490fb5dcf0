package bootstrap

import (
	"context"
	"fmt"
	"outreach-server/internal/config"
	"outreach-server/internal/events"
	"outreach-server/internal/jobs"
	"outreach-server/internal/observability"
	"outreach-server/internal/ratelimit"
	"outreach-server/internal/store"
	"outreach-server/internal/workers/dispatch"
	"outreach-server/internal/workers/triggers"

	"outreach-server/internal/auth/handler"
	"outreach-server/internal/auth/processor"
	campaignHandler "outreach-server/internal/campaign/handler"
	campaignProcessor "outreach-server/internal/campaign/processor"
	kafkaClient "outreach-server/internal/clients/kafka"
	"outreach-server/internal/clients/mail"
	redisClient "outreach-server/internal/clients/redis"
)

// Dependencies holds all initialized application dependencies
type Dependencies struct {
	// Core
	Store  store.Store
	Logger *observability.Logger

	// Dispatch
	Publisher         *events.Publisher
	Runner            *dispatch.Runner
	CampaignProcessor *campaignProcessor.CampaignProcessor
	TriggerPoller     *triggers.Poller

	// Exactly one of JobClient and LocalEnqueuer is set, depending on whether Redis is enabled
	JobClient     *jobs.Client
	LocalEnqueuer *dispatch.LocalEnqueuer

	// Handlers
	AuthHandler     handler.Handler
	CampaignHandler campaignHandler.Handler

	// Clients (for cleanup)
	RedisClient   *redisClient.Client
	KafkaProducer *kafkaClient.Producer
}

// Initialize sets up all application dependencies
func Initialize(ctx context.Context, cfg *config.Config, logger *observability.Logger) (*Dependencies, error) {
	deps := &Dependencies{
		Logger: logger,
	}

	// Initialize database store
	connectionString := cfg.Database.ConnectionString()
	var err error
	deps.Store, err = store.New(connectionString, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Initialize clients
	sender, err := mail.New(ctx, cfg.Mail, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s mail sender: %w", cfg.Mail.Provider, err)
	}

	deps.RedisClient, err = redisClient.NewClient(cfg.Redis, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	// Events go nowhere when no brokers are configured
	var producer events.EventProducer
	if brokers := cfg.Kafka.BrokerList(); len(brokers) > 0 {
		deps.KafkaProducer = kafkaClient.NewProducer(kafkaClient.ProducerConfig{
			Brokers: brokers,
			Topic:   cfg.Kafka.Topic,
		}, logger)
		producer = deps.KafkaProducer
	} else {
		logger.Info(ctx, "Kafka brokers not configured, campaign events are disabled")
	}
	deps.Publisher = events.NewPublisher(producer, logger)

	// Initialize dispatch runner
	tracker := ratelimit.NewTracker(&deps.Store, ratelimit.LimitsFromConfig(cfg.Dispatch), logger)

	var runLock dispatch.RunLock
	if deps.RedisClient != nil {
		runLock = dispatch.NewRedisRunLock(deps.RedisClient, 0, logger)
	} else {
		runLock = dispatch.NewMemoryRunLock()
	}

	deps.Runner = dispatch.NewRunner(&deps.Store, tracker, sender, runLock, deps.Publisher, cfg.Dispatch, logger)

	var enqueuer campaignProcessor.DispatchEnqueuer
	if deps.RedisClient != nil {
		deps.JobClient = jobs.NewClient(cfg.Redis, logger)
		enqueuer = deps.JobClient
	} else {
		logger.Info(ctx, "Redis is disabled, campaigns are dispatched in-process")
		deps.LocalEnqueuer = dispatch.NewLocalEnqueuer(deps.Runner, logger)
		enqueuer = deps.LocalEnqueuer
	}

	// Initialize campaign processor and handler
	campaignProc := campaignProcessor.New(
		&deps.Store,
		enqueuer,
		tracker,
		deps.Publisher,
		cfg.Mail.SupportsAttachments(),
		logger,
	)
	deps.CampaignProcessor = &campaignProc
	deps.CampaignHandler = campaignHandler.New(deps.CampaignProcessor, cfg.Uploads, logger)

	// Initialize trigger poller
	deps.TriggerPoller = triggers.NewPoller(&deps.Store, deps.CampaignProcessor, logger, cfg.Dispatch.TriggerPollInterval)

	// Initialize auth processor and handler
	authProc := processor.New(cfg.Auth.JWTSecret, logger)
	deps.AuthHandler = handler.New(authProc, logger)

	return deps, nil
}

// InProcessDispatch reports whether dispatch runs and trigger polling happen inside this process
func (d *Dependencies) InProcessDispatch() bool {
	return d.LocalEnqueuer != nil
}

// Cleanup closes all resources that need cleanup
func (d *Dependencies) Cleanup() {
	ctx := context.Background()

	if d.LocalEnqueuer != nil {
		d.LocalEnqueuer.Shutdown()
	}
	if d.JobClient != nil {
		if err := d.JobClient.Close(); err != nil {
			d.Logger.Error(ctx, "failed to close job client", err)
		}
	}
	if d.KafkaProducer != nil {
		if err := d.KafkaProducer.Close(); err != nil {
			d.Logger.Error(ctx, "failed to close kafka producer", err)
		}
	}
	if d.RedisClient != nil {
		if err := d.RedisClient.Close(); err != nil {
			d.Logger.Error(ctx, "failed to close redis client", err)
		}
	}
	if err := d.Store.Close(); err != nil {
		d.Logger.Error(ctx, "failed to close database", err)
	}
}
