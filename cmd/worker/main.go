package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"outreach-server/internal/bootstrap"
	"outreach-server/internal/config"
	"outreach-server/internal/jobs"
	"outreach-server/internal/jobs/workers"
	"outreach-server/internal/observability"

	"github.com/hibiken/asynq"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize logger
	logger := observability.NewLogger()
	defer func() { _ = logger.Sync() }()
	ctx := context.Background()

	logger.Info(ctx, "Starting background worker server...")

	if !cfg.Redis.Enabled {
		log.Fatal("REDIS_ENABLED must be true to run the worker; without Redis the API server dispatches in-process")
	}

	deps, err := bootstrap.Initialize(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize dependencies: %v", err)
	}
	defer deps.Cleanup()

	// Initialize workers
	dispatchWorker := workers.NewDispatchWorker(deps.Runner, logger)
	triggersWorker := workers.NewTriggersWorker(deps.TriggerPoller, logger)

	redisOpt := jobs.RedisOpt(cfg.Redis)
	asynqLogger := jobs.NewAsynqLogger(logger)

	// Create Asynq server with queue configuration
	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: cfg.Worker.Concurrency,
			Queues: map[string]int{
				jobs.QueueHigh:   6,
				jobs.QueueMedium: 3,
				jobs.QueueLow:    1,
			},
			// Error handler
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				logger.Error(ctx, fmt.Sprintf("task %s failed: %v", task.Type(), err), err)
			}),
			// Retry configuration
			RetryDelayFunc: workers.RetryDelay,
			Logger:         asynqLogger,
		},
	)

	// Create task handler (mux)
	mux := asynq.NewServeMux()
	mux.HandleFunc(jobs.TypeCampaignDispatch, dispatchWorker.ProcessDispatchTask)
	mux.HandleFunc(jobs.TypeTriggersSweep, triggersWorker.ProcessTriggersSweepTask)

	// Setup periodic trigger sweep
	scheduler := asynq.NewScheduler(
		redisOpt,
		&asynq.SchedulerOpts{
			Logger: asynqLogger,
		},
	)

	cronspec := fmt.Sprintf("@every %s", cfg.Dispatch.TriggerPollInterval)
	if _, err := scheduler.Register(cronspec, jobs.NewTriggersSweepTask()); err != nil {
		log.Fatalf("Failed to register trigger sweep task: %v", err)
	}

	// Start the scheduler
	if err := scheduler.Start(); err != nil {
		log.Fatalf("Failed to start scheduler: %v", err)
	}
	defer scheduler.Shutdown()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start the server in a goroutine
	go func() {
		logger.Info(ctx, fmt.Sprintf("Worker server started on Redis: %s", cfg.Redis.Addr()))
		if err := srv.Run(mux); err != nil {
			log.Fatalf("Failed to run server: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-sigChan
	logger.Info(ctx, "Shutting down worker server...")

	// Graceful shutdown
	srv.Shutdown()
	logger.Info(ctx, "Worker server stopped")
}
