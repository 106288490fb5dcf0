package workers

import (
	"context"

	kafka "outreach-server/internal/clients/kafka"
)

// EventMessage is an alias for the Kafka event message type.
// This allows worker packages to reference EventMessage without importing kafka directly.
type EventMessage = kafka.EventMessage

// EventProcessor handles events read from Kafka.
// Implementations must be idempotent: an event whose offset was not committed is redelivered.
type EventProcessor interface {
	// Process handles a single event. A returned error leaves the offset uncommitted.
	Process(ctx context.Context, event EventMessage) error

	// Name returns the processor name for logging.
	Name() string
}

// EventConsumer reads events from Kafka and hands them to a fixed set of workers.
type EventConsumer interface {
	// Start blocks until Stop is called.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the consumer, draining in-flight events.
	Stop()
}
