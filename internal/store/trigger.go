package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// FiredTrigger is the result of claiming a due trigger
type FiredTrigger struct {
	// Trigger is the claimed row. When Dispatch is set, FireAt holds the lease deadline.
	Trigger  CampaignTrigger
	Campaign Campaign
	// Activated is true when firing moved the campaign into active.
	Activated bool
	// Dispatch is true when the campaign is active and still needs a run queued. The trigger
	// stays in place until CompleteCampaignTrigger, so a lost enqueue fires again after the lease.
	Dispatch bool
}

const triggerColumns = `campaign_id, kind, fire_at, created_at`

const sqlUpsertCampaignTrigger = `
INSERT INTO campaign_triggers (campaign_id, kind, fire_at)
VALUES ($1, $2, $3)
ON CONFLICT (campaign_id) DO UPDATE SET kind = EXCLUDED.kind, fire_at = EXCLUDED.fire_at, created_at = NOW()
`

// UpsertCampaignTrigger stores the campaign's single pending trigger, replacing any earlier one
func (s *Store) UpsertCampaignTrigger(ctx context.Context, campaignID uuid.UUID, kind string, fireAt time.Time) error {
	if _, err := s.db.ExecContext(ctx, sqlUpsertCampaignTrigger, campaignID, kind, fireAt); err != nil {
		if isForeignKeyViolation(err) {
			return ErrNotFound
		}
		s.logger.Error(ctx, "failed to upsert campaign trigger", err)
		return fmt.Errorf("failed to upsert campaign trigger: %w", err)
	}
	return nil
}

const sqlGetCampaignTrigger = `SELECT ` + triggerColumns + ` FROM campaign_triggers WHERE campaign_id = $1`

// GetCampaignTrigger retrieves the pending trigger of a campaign
func (s *Store) GetCampaignTrigger(ctx context.Context, campaignID uuid.UUID) (CampaignTrigger, error) {
	var trigger CampaignTrigger
	err := s.db.GetContext(ctx, &trigger, sqlGetCampaignTrigger, campaignID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return CampaignTrigger{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get campaign trigger", err)
		return CampaignTrigger{}, fmt.Errorf("failed to get campaign trigger: %w", err)
	}
	return trigger, nil
}

const sqlDeleteCampaignTrigger = `DELETE FROM campaign_triggers WHERE campaign_id = $1`

// DeleteCampaignTrigger drops a pending trigger. Missing triggers are not an error.
func (s *Store) DeleteCampaignTrigger(ctx context.Context, campaignID uuid.UUID) error {
	if _, err := s.db.ExecContext(ctx, sqlDeleteCampaignTrigger, campaignID); err != nil {
		s.logger.Error(ctx, "failed to delete campaign trigger", err)
		return fmt.Errorf("failed to delete campaign trigger: %w", err)
	}
	return nil
}

const sqlGetDueCampaignTriggers = `
SELECT ` + triggerColumns + `
FROM campaign_triggers
WHERE fire_at <= $1
ORDER BY fire_at ASC
LIMIT $2
`

// GetDueCampaignTriggers lists triggers whose fire time has passed, oldest first
func (s *Store) GetDueCampaignTriggers(ctx context.Context, now time.Time, limit int) ([]CampaignTrigger, error) {
	triggers := []CampaignTrigger{}
	if err := s.db.SelectContext(ctx, &triggers, sqlGetDueCampaignTriggers, now, limit); err != nil {
		s.logger.Error(ctx, "failed to get due campaign triggers", err)
		return nil, fmt.Errorf("failed to get due campaign triggers: %w", err)
	}
	return triggers, nil
}

const sqlClaimCampaignTrigger = `
SELECT ` + triggerColumns + `
FROM campaign_triggers
WHERE campaign_id = $1 AND fire_at <= $2
FOR UPDATE SKIP LOCKED
`

const sqlLeaseCampaignTrigger = `
UPDATE campaign_triggers SET fire_at = $2
WHERE campaign_id = $1
RETURNING ` + triggerColumns

// FireCampaignTrigger claims a due trigger and applies its transition in one transaction. A resume
// moves paused to active; a scheduled start moves draft to active. When the campaign ends up active
// (including a campaign an earlier firing already activated) the trigger is leased until now+lease
// instead of deleted, and the caller completes it once the run is queued. A campaign in any other
// status is left untouched and the trigger is dropped. Returns ErrNotFound when the trigger is not
// due or another worker holds it.
func (s *Store) FireCampaignTrigger(ctx context.Context, campaignID uuid.UUID, now time.Time, lease time.Duration) (FiredTrigger, error) {
	var fired FiredTrigger
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &fired.Trigger, sqlClaimCampaignTrigger, campaignID, now); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to claim campaign trigger: %w", err)
		}

		from := CampaignStatusPaused
		if fired.Trigger.Kind == TriggerKindScheduledStart {
			from = CampaignStatusDraft
		}

		err := tx.GetContext(ctx, &fired.Campaign, sqlTransitionCampaignStatus,
			campaignID, CampaignStatusActive, []string{from})
		switch {
		case err == nil:
			fired.Activated = true
		case errors.Is(err, sql.ErrNoRows):
			if err := tx.GetContext(ctx, &fired.Campaign, sqlGetCampaignByID, campaignID); err != nil {
				return fmt.Errorf("failed to get campaign: %w", err)
			}
		default:
			return fmt.Errorf("failed to activate campaign: %w", err)
		}

		if fired.Campaign.Status != CampaignStatusActive {
			if _, err := tx.ExecContext(ctx, sqlDeleteCampaignTrigger, campaignID); err != nil {
				return fmt.Errorf("failed to delete campaign trigger: %w", err)
			}
			return nil
		}

		fired.Dispatch = true
		if err := tx.GetContext(ctx, &fired.Trigger, sqlLeaseCampaignTrigger, campaignID, now.Add(lease)); err != nil {
			return fmt.Errorf("failed to lease campaign trigger: %w", err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Error(ctx, "failed to fire campaign trigger", err)
		}
		return FiredTrigger{}, err
	}
	return fired, nil
}

const sqlCompleteCampaignTrigger = `DELETE FROM campaign_triggers WHERE campaign_id = $1 AND fire_at = $2`

// CompleteCampaignTrigger deletes a trigger leased by FireCampaignTrigger. A trigger replaced since
// the lease (for example a new quota resume) has a different fire time and is kept.
func (s *Store) CompleteCampaignTrigger(ctx context.Context, trigger CampaignTrigger) error {
	if _, err := s.db.ExecContext(ctx, sqlCompleteCampaignTrigger, trigger.CampaignID, trigger.FireAt); err != nil {
		s.logger.Error(ctx, "failed to complete campaign trigger", err)
		return fmt.Errorf("failed to complete campaign trigger: %w", err)
	}
	return nil
}
