// Package triggers fires due campaign triggers: quota resumes and scheduled starts.
package triggers

import (
	"context"
	"fmt"
	"time"

	"outreach-server/internal/observability"
	"outreach-server/internal/store"

	"github.com/google/uuid"
)

// sweepBatchSize caps how many triggers a single sweep claims
const sweepBatchSize = 100

// TriggerStore lists triggers that are due
type TriggerStore interface {
	GetDueCampaignTriggers(ctx context.Context, now time.Time, limit int) ([]store.CampaignTrigger, error)
}

// TriggerFirer applies a due trigger to its campaign
type TriggerFirer interface {
	FireTrigger(ctx context.Context, campaignID uuid.UUID) error
}

// Poller periodically checks for due campaign triggers and fires them
type Poller struct {
	store         TriggerStore
	firer         TriggerFirer
	logger        *observability.Logger
	checkInterval time.Duration
	now           func() time.Time
	stopChan      chan struct{}
}

// NewPoller creates a new trigger poller
func NewPoller(store TriggerStore, firer TriggerFirer, logger *observability.Logger, checkInterval time.Duration) *Poller {
	if checkInterval <= 0 {
		checkInterval = 30 * time.Second
	}

	return &Poller{
		store:         store,
		firer:         firer,
		logger:        logger,
		checkInterval: checkInterval,
		now:           time.Now,
		stopChan:      make(chan struct{}),
	}
}

// Start begins the poller loop
func (p *Poller) Start(ctx context.Context) {
	p.logger.Info(ctx, fmt.Sprintf("Starting trigger poller with %v interval", p.checkInterval))

	ticker := time.NewTicker(p.checkInterval)
	defer ticker.Stop()

	// Run immediately on start
	p.sweep(ctx)

	for {
		select {
		case <-ctx.Done():
			p.logger.Info(ctx, "Trigger poller stopping: context cancelled")
			return
		case <-p.stopChan:
			p.logger.Info(ctx, "Trigger poller stopping: stop signal received")
			return
		case <-ticker.C:
			p.sweep(ctx)
		}
	}
}

// Stop signals the poller to stop
func (p *Poller) Stop() {
	close(p.stopChan)
}

// Sweep fires every due trigger once and reports how many were fired. A trigger whose run could
// not be queued stays stored and comes due again when its lease runs out.
func (p *Poller) Sweep(ctx context.Context) (int, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "operation", Value: "sweep_campaign_triggers"},
	)

	due, err := p.store.GetDueCampaignTriggers(ctx, p.now(), sweepBatchSize)
	if err != nil {
		return 0, fmt.Errorf("failed to get due campaign triggers: %w", err)
	}
	if len(due) == 0 {
		return 0, nil
	}

	p.logger.Info(ctx, fmt.Sprintf("Found %d due campaign triggers", len(due)))

	fired := 0
	for _, trigger := range due {
		triggerCtx := observability.WithFields(ctx,
			observability.Field{Key: "campaign_id", Value: trigger.CampaignID.String()},
			observability.Field{Key: "trigger_kind", Value: trigger.Kind},
		)

		if err := p.firer.FireTrigger(triggerCtx, trigger.CampaignID); err != nil {
			p.logger.Error(triggerCtx, "Failed to fire campaign trigger", err)
			continue
		}
		fired++
	}
	return fired, nil
}

func (p *Poller) sweep(ctx context.Context) {
	if _, err := p.Sweep(ctx); err != nil {
		p.logger.Error(ctx, "Trigger sweep failed", err)
	}
}
