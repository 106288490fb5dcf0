package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"outreach-server/internal/config"
	"outreach-server/internal/observability"
	"outreach-server/internal/store"
	"outreach-server/internal/workers"
	"outreach-server/internal/workers/activity"
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

	logger.Info(ctx, "Starting Kafka campaign activity worker...")

	brokers := cfg.Kafka.BrokerList()
	if len(brokers) == 0 {
		log.Fatal("KAFKA_BROKERS is not set")
	}

	// Initialize store
	dataStore, err := store.New(cfg.Database.ConnectionString(), logger)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer dataStore.Close()

	// Initialize activity consumer
	consumerConfig := workers.DefaultConsumerConfig(brokers, cfg.Kafka.ConsumerGroup, cfg.Kafka.Topic)
	consumerConfig.NumWorkers = cfg.Worker.KafkaPoolSize
	activityConsumer := workers.NewConsumer(consumerConfig, activity.NewProcessor(&dataStore, logger), logger)

	logger.Info(ctx, fmt.Sprintf(`Kafka activity worker configuration:
  - Workers: %d
  - Kafka brokers: %v
  - Kafka topic: %s
  - Consumer group: %s`,
		consumerConfig.NumWorkers, brokers, cfg.Kafka.Topic, cfg.Kafka.ConsumerGroup))

	// Handle graceful shutdown
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := activityConsumer.Start(ctx); err != nil && err != context.Canceled {
			logger.Error(ctx, "Activity consumer error", err)
			cancel()
		}
	}()

	logger.Info(ctx, "Kafka activity worker started successfully")

	select {
	case <-sigChan:
		logger.Info(ctx, "Received shutdown signal, stopping workers...")
	case <-ctx.Done():
	}

	activityConsumer.Stop()
	logger.Info(ctx, "Kafka activity worker stopped")
}
