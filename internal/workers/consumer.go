package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"sync"
	"sync/atomic"
	"time"

	"outreach-server/internal/observability"

	kafkago "github.com/segmentio/kafka-go"
)

// ConsumerConfig holds configuration for the Kafka event consumer.
type ConsumerConfig struct {
	// Brokers is the list of Kafka broker addresses.
	Brokers []string

	// ConsumerGroup is the Kafka consumer group ID.
	ConsumerGroup string

	// Topic is the Kafka topic to consume from.
	Topic string

	// NumWorkers is the number of concurrent workers.
	NumWorkers int

	// QueueSize is the buffer size of each worker's queue.
	QueueSize int

	// DrainTimeout is the maximum time to wait for in-flight events during shutdown.
	DrainTimeout time.Duration
}

// DefaultConsumerConfig returns sensible defaults for a consumer.
func DefaultConsumerConfig(brokers []string, consumerGroup, topic string) ConsumerConfig {
	return ConsumerConfig{
		Brokers:       brokers,
		ConsumerGroup: consumerGroup,
		Topic:         topic,
		NumWorkers:    5,
		QueueSize:     100,
		DrainTimeout:  30 * time.Second,
	}
}

// messageReader is the part of kafka-go's Reader the consumer uses.
type messageReader interface {
	FetchMessage(ctx context.Context) (kafkago.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// eventWithMsg pairs an event with its Kafka message for offset tracking.
type eventWithMsg struct {
	event EventMessage
	msg   kafkago.Message
}

// consumer implements EventConsumer. Events of one campaign always go to the same
// worker, so they are processed in the order they were published.
type consumer struct {
	config    ConsumerConfig
	reader    messageReader
	processor EventProcessor
	logger    *observability.Logger

	queues []chan eventWithMsg

	mu          sync.Mutex
	started     bool
	cancelFetch context.CancelFunc
	doneCh      chan struct{}
	stopping    atomic.Bool
	stopOnce    sync.Once
}

// NewConsumer creates a new Kafka event consumer.
func NewConsumer(
	config ConsumerConfig,
	processor EventProcessor,
	logger *observability.Logger,
) EventConsumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:        config.Brokers,
		Topic:          config.Topic,
		GroupID:        config.ConsumerGroup,
		MinBytes:       10e3, // 10KB
		MaxBytes:       10e6, // 10MB
		StartOffset:    kafkago.FirstOffset,
		CommitInterval: 0, // Manual commit
	})
	return newConsumer(config, reader, processor, logger)
}

func newConsumer(config ConsumerConfig, reader messageReader, processor EventProcessor, logger *observability.Logger) *consumer {
	defaults := DefaultConsumerConfig(nil, "", "")
	if config.NumWorkers <= 0 {
		config.NumWorkers = defaults.NumWorkers
	}
	if config.QueueSize <= 0 {
		config.QueueSize = defaults.QueueSize
	}
	if config.DrainTimeout <= 0 {
		config.DrainTimeout = defaults.DrainTimeout
	}

	c := &consumer{
		config:    config,
		reader:    reader,
		processor: processor,
		logger:    logger,
		queues:    make([]chan eventWithMsg, config.NumWorkers),
		doneCh:    make(chan struct{}),
	}
	for i := range c.queues {
		c.queues[i] = make(chan eventWithMsg, config.QueueSize)
	}

	ctx := observability.WithFields(context.Background(),
		observability.Field{Key: "processor", Value: processor.Name()},
		observability.Field{Key: "consumer_group", Value: config.ConsumerGroup},
		observability.Field{Key: "topic", Value: config.Topic},
		observability.Field{Key: "num_workers", Value: config.NumWorkers},
	)
	logger.Info(ctx, fmt.Sprintf("Initialized consumer for %s processor", processor.Name()))

	return c
}

// Start begins consuming events and blocks until Stop is called.
func (c *consumer) Start(ctx context.Context) error {
	// Stop() is the only way out; the caller's context only carries values.
	ctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	defer cancel()

	c.mu.Lock()
	if c.stopping.Load() {
		c.mu.Unlock()
		return nil
	}
	c.started = true
	c.cancelFetch = cancel
	c.mu.Unlock()
	defer close(c.doneCh)

	ctx = observability.WithFields(ctx,
		observability.Field{Key: "consumer_group", Value: c.config.ConsumerGroup},
		observability.Field{Key: "topic", Value: c.config.Topic},
		observability.Field{Key: "processor", Value: c.processor.Name()},
	)

	c.logger.Info(ctx, fmt.Sprintf("Starting consumer for %s with %d workers",
		c.processor.Name(), c.config.NumWorkers))

	var workerWg sync.WaitGroup
	for i, queue := range c.queues {
		workerWg.Add(1)
		go c.worker(ctx, &workerWg, i, queue)
	}

	c.fetchLoop(ctx)

	for _, queue := range c.queues {
		close(queue)
	}

	done := make(chan struct{})
	go func() {
		workerWg.Wait()
		close(done)
	}()

	select {
	case <-done:
		c.logger.Info(ctx, "All workers finished processing")
	case <-time.After(c.config.DrainTimeout):
		c.logger.Warn(ctx, "Drain timeout - some events may not have completed")
	}

	if err := c.reader.Close(); err != nil {
		c.logger.Error(ctx, "Failed to close Kafka reader", err)
	}

	c.logger.Info(ctx, fmt.Sprintf("Consumer stopped for %s", c.processor.Name()))
	return nil
}

// queueFor picks the worker queue of an event by hashing its campaign.
func (c *consumer) queueFor(event EventMessage) chan eventWithMsg {
	h := fnv.New32a()
	_, _ = h.Write([]byte(event.CampaignID))
	return c.queues[h.Sum32()%uint32(len(c.queues))]
}

// fetchLoop fetches messages from Kafka until the context is cancelled.
func (c *consumer) fetchLoop(ctx context.Context) {
	for {
		if c.stopping.Load() {
			return
		}

		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if c.stopping.Load() || ctx.Err() != nil {
				return
			}
			c.logger.Error(ctx, "Failed to fetch message from Kafka", err)
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
				return
			}
			continue
		}

		var event EventMessage
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			c.logger.Error(ctx, "Failed to unmarshal event, skipping", err)
			_ = c.reader.CommitMessages(ctx, msg)
			continue
		}

		select {
		case c.queueFor(event) <- eventWithMsg{event: event, msg: msg}:
		case <-ctx.Done():
			return
		}
	}
}

// worker processes events from its queue until the queue is closed.
func (c *consumer) worker(ctx context.Context, wg *sync.WaitGroup, id int, queue <-chan eventWithMsg) {
	defer wg.Done()

	ctx = observability.WithFields(ctx,
		observability.Field{Key: "worker_id", Value: id},
	)

	for e := range queue {
		eventCtx := observability.WithFields(ctx,
			observability.Field{Key: "event_id", Value: e.event.ID},
			observability.Field{Key: "event_type", Value: e.event.Type},
			observability.Field{Key: "campaign_id", Value: e.event.CampaignID},
		)

		// Processing is not cancelled by Stop; in-flight events always complete.
		err := c.processor.Process(context.WithoutCancel(eventCtx), e.event)

		if err != nil {
			c.logger.Error(eventCtx, "Failed to process event", err)
			continue
		}
		if c.reader != nil {
			if commitErr := c.reader.CommitMessages(context.WithoutCancel(eventCtx), e.msg); commitErr != nil {
				c.logger.Error(eventCtx, "Failed to commit offset", commitErr)
			}
		}
	}
}

// Stop gracefully shuts down the consumer and returns once Start has returned.
func (c *consumer) Stop() {
	c.stopOnce.Do(func() {
		logCtx := observability.WithFields(context.Background(),
			observability.Field{Key: "processor", Value: c.processor.Name()},
		)
		c.logger.Info(logCtx, fmt.Sprintf("Stopping consumer for %s", c.processor.Name()))

		c.mu.Lock()
		c.stopping.Store(true)
		started := c.started
		if c.cancelFetch != nil {
			c.cancelFetch()
		}
		c.mu.Unlock()

		if started {
			<-c.doneCh
		}
	})
}
