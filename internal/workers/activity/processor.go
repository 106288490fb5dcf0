// Package activity records campaign events in the campaign's activity log.
package activity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"outreach-server/internal/events"
	"outreach-server/internal/observability"
	"outreach-server/internal/store"
	"outreach-server/internal/workers"

	"github.com/google/uuid"
)

var knownEvents = map[string]struct{}{
	events.CampaignCreated:     {},
	events.CampaignStarted:     {},
	events.CampaignPaused:      {},
	events.CampaignQuotaPaused: {},
	events.CampaignResumed:     {},
	events.CampaignCompleted:   {},
	events.RecipientSent:       {},
	events.RecipientFailed:     {},
}

// ActivityStore defines the database operations required by Processor
type ActivityStore interface {
	InsertCampaignActivity(ctx context.Context, params store.InsertCampaignActivityParams) (bool, error)
}

// Processor stores campaign events as activity rows. Redelivered events are
// deduplicated by event id.
type Processor struct {
	store  ActivityStore
	logger *observability.Logger
}

// NewProcessor creates a new activity event processor
func NewProcessor(store ActivityStore, logger *observability.Logger) *Processor {
	return &Processor{
		store:  store,
		logger: logger,
	}
}

// Name returns the processor name for logging
func (p *Processor) Name() string {
	return "campaign_activity"
}

// Process stores one event. Malformed events and events of deleted campaigns are
// dropped without error so they are not redelivered forever.
func (p *Processor) Process(ctx context.Context, event workers.EventMessage) error {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "event_id", Value: event.ID},
		observability.Field{Key: "event_type", Value: event.Type},
		observability.Field{Key: "campaign_id", Value: event.CampaignID},
	)

	if _, ok := knownEvents[event.Type]; !ok {
		return nil
	}

	campaignID, err := uuid.Parse(event.CampaignID)
	if err != nil {
		p.logger.Error(ctx, "invalid campaign_id format, skipping event", err)
		return nil
	}
	eventID, err := uuid.Parse(event.ID)
	if err != nil {
		p.logger.Error(ctx, "invalid event id, skipping event", err)
		return nil
	}

	occurredAt, err := time.Parse(time.RFC3339Nano, event.Timestamp)
	if err != nil {
		p.logger.WarnWithError(ctx, "invalid event timestamp, using receive time", err)
		occurredAt = time.Now().UTC()
	}

	inserted, err := p.store.InsertCampaignActivity(ctx, store.InsertCampaignActivityParams{
		CampaignID: campaignID,
		EventID:    eventID,
		EventType:  event.Type,
		Data:       store.JSONB(event.Data),
		OccurredAt: occurredAt,
	})
	if errors.Is(err, store.ErrNotFound) {
		p.logger.Info(ctx, "campaign no longer exists, dropping event")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to store campaign activity: %w", err)
	}
	if !inserted {
		p.logger.Debug(ctx, "duplicate event, already recorded")
	}
	return nil
}
