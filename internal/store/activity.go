package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// InsertCampaignActivityParams represents one lifecycle event to record
type InsertCampaignActivityParams struct {
	CampaignID uuid.UUID
	EventID    uuid.UUID
	EventType  string
	Data       JSONB
	OccurredAt time.Time
}

const sqlInsertCampaignActivity = `
INSERT INTO campaign_activity (campaign_id, event_id, event_type, data, occurred_at)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (event_id) DO NOTHING
`

// InsertCampaignActivity records an event once. It reports false when the event id was already
// stored, and ErrNotFound when the campaign no longer exists.
func (s *Store) InsertCampaignActivity(ctx context.Context, params InsertCampaignActivityParams) (bool, error) {
	res, err := s.db.ExecContext(ctx, sqlInsertCampaignActivity,
		params.CampaignID,
		params.EventID,
		params.EventType,
		params.Data,
		params.OccurredAt)
	if err != nil {
		if isForeignKeyViolation(err) {
			return false, ErrNotFound
		}
		s.logger.Error(ctx, "failed to insert campaign activity", err)
		return false, fmt.Errorf("failed to insert campaign activity: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return rows > 0, nil
}

const sqlListCampaignActivity = `
SELECT id, campaign_id, event_id, event_type, data, occurred_at, created_at
FROM campaign_activity
WHERE campaign_id = $1
ORDER BY occurred_at DESC
LIMIT $2
`

// ListCampaignActivity returns the most recent events of a campaign
func (s *Store) ListCampaignActivity(ctx context.Context, campaignID uuid.UUID, limit int) ([]CampaignActivity, error) {
	if limit <= 0 {
		limit = 100
	}
	activity := []CampaignActivity{}
	if err := s.db.SelectContext(ctx, &activity, sqlListCampaignActivity, campaignID, limit); err != nil {
		s.logger.Error(ctx, "failed to list campaign activity", err)
		return nil, fmt.Errorf("failed to list campaign activity: %w", err)
	}
	return activity, nil
}
