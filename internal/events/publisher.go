package events

import (
	"context"
	"time"

	"outreach-server/internal/clients/kafka"
	"outreach-server/internal/observability"

	"github.com/google/uuid"
)

// Event types
const (
	CampaignCreated     = "campaign.created"
	CampaignStarted     = "campaign.started"
	CampaignPaused      = "campaign.paused"
	CampaignQuotaPaused = "campaign.quota_paused"
	CampaignResumed     = "campaign.resumed"
	CampaignCompleted   = "campaign.completed"
	RecipientSent       = "recipient.sent"
	RecipientFailed     = "recipient.failed"
)

// EventProducer writes one event to the stream.
type EventProducer interface {
	PublishEvent(ctx context.Context, event kafka.EventMessage) error
}

// Publisher handles publishing campaign events to Kafka. A Publisher without a
// producer drops every event, which is how it runs when no brokers are configured.
type Publisher struct {
	producer EventProducer
	logger   *observability.Logger
	now      func() time.Time
}

// NewPublisher creates a new event publisher. producer may be nil.
func NewPublisher(producer EventProducer, logger *observability.Logger) *Publisher {
	return &Publisher{
		producer: producer,
		logger:   logger,
		now:      time.Now,
	}
}

// Enabled reports whether events reach a broker.
func (p *Publisher) Enabled() bool {
	return p != nil && p.producer != nil
}

func (p *Publisher) publish(ctx context.Context, eventType string, campaignID, userID uuid.UUID, data map[string]interface{}) error {
	if !p.Enabled() {
		return nil
	}
	if data == nil {
		data = map[string]interface{}{}
	}
	data["campaign_id"] = campaignID.String()

	event := kafka.EventMessage{
		ID:         uuid.New().String(),
		Type:       eventType,
		UserID:     userID.String(),
		CampaignID: campaignID.String(),
		Data:       data,
		Timestamp:  p.now().UTC().Format(time.RFC3339Nano),
	}
	return p.producer.PublishEvent(ctx, event)
}

// PublishCampaignCreated publishes a campaign.created event
func (p *Publisher) PublishCampaignCreated(ctx context.Context, campaignID, userID uuid.UUID, name string, recipientCount int) error {
	return p.publish(ctx, CampaignCreated, campaignID, userID, map[string]interface{}{
		"name":            name,
		"recipient_count": recipientCount,
	})
}

// PublishCampaignStarted publishes a campaign.started event
func (p *Publisher) PublishCampaignStarted(ctx context.Context, campaignID, userID uuid.UUID) error {
	return p.publish(ctx, CampaignStarted, campaignID, userID, nil)
}

// PublishCampaignPaused publishes a campaign.paused event for a user initiated pause
func (p *Publisher) PublishCampaignPaused(ctx context.Context, campaignID, userID uuid.UUID) error {
	return p.publish(ctx, CampaignPaused, campaignID, userID, nil)
}

// PublishCampaignQuotaPaused publishes a campaign.quota_paused event
func (p *Publisher) PublishCampaignQuotaPaused(ctx context.Context, campaignID, userID uuid.UUID, resumeAt time.Time) error {
	return p.publish(ctx, CampaignQuotaPaused, campaignID, userID, map[string]interface{}{
		"resume_at": resumeAt.UTC().Format(time.RFC3339),
	})
}

// PublishCampaignResumed publishes a campaign.resumed event
func (p *Publisher) PublishCampaignResumed(ctx context.Context, campaignID, userID uuid.UUID) error {
	return p.publish(ctx, CampaignResumed, campaignID, userID, nil)
}

// PublishCampaignCompleted publishes a campaign.completed event
func (p *Publisher) PublishCampaignCompleted(ctx context.Context, campaignID, userID uuid.UUID, stats map[string]interface{}) error {
	return p.publish(ctx, CampaignCompleted, campaignID, userID, stats)
}

// PublishRecipientSent publishes a recipient.sent event
func (p *Publisher) PublishRecipientSent(ctx context.Context, campaignID, userID, recipientID uuid.UUID, email string) error {
	return p.publish(ctx, RecipientSent, campaignID, userID, map[string]interface{}{
		"recipient_id": recipientID.String(),
		"email":        email,
	})
}

// PublishRecipientFailed publishes a recipient.failed event
func (p *Publisher) PublishRecipientFailed(ctx context.Context, campaignID, userID, recipientID uuid.UUID, email, reason string) error {
	return p.publish(ctx, RecipientFailed, campaignID, userID, map[string]interface{}{
		"recipient_id": recipientID.String(),
		"email":        email,
		"error":        reason,
	})
}
