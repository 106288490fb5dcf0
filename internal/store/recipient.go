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

// ListRecipientOutcomesParams filters and pages the per-recipient view of a campaign
type ListRecipientOutcomesParams struct {
	CampaignID uuid.UUID
	Status     *string
	Limit      int
	Offset     int
}

const sqlGetPendingRecipients = `
SELECT o.id AS outcome_id, r.id AS recipient_id, r.position
FROM dispatch_outcomes o
JOIN recipients r ON r.id = o.recipient_id
WHERE o.campaign_id = $1 AND o.status = 'pending'
ORDER BY r.position ASC
`

// GetPendingRecipients returns the campaign's pending queue in creation order
func (s *Store) GetPendingRecipients(ctx context.Context, campaignID uuid.UUID) ([]PendingRecipient, error) {
	pending := []PendingRecipient{}
	err := s.db.SelectContext(ctx, &pending, sqlGetPendingRecipients, campaignID)
	if err != nil {
		s.logger.Error(ctx, "failed to get pending recipients", err)
		return nil, fmt.Errorf("failed to get pending recipients: %w", err)
	}
	return pending, nil
}

const sqlGetRecipientByID = `
SELECT id, campaign_id, position, company_name, recipient_email, recipient_name, role, designation, created_at
FROM recipients
WHERE id = $1
`

// GetRecipientByID retrieves a recipient by ID
func (s *Store) GetRecipientByID(ctx context.Context, recipientID uuid.UUID) (Recipient, error) {
	var recipient Recipient
	err := s.db.GetContext(ctx, &recipient, sqlGetRecipientByID, recipientID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Recipient{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get recipient by id", err)
		return Recipient{}, fmt.Errorf("failed to get recipient by id: %w", err)
	}
	return recipient, nil
}

const sqlSettleOutcome = `
UPDATE dispatch_outcomes
SET status = $2, error_message = $3, sent_at = $4, updated_at = NOW()
WHERE recipient_id = $1 AND status = 'pending'
RETURNING user_id
`

const sqlGetOutcomeStatus = `SELECT status FROM dispatch_outcomes WHERE recipient_id = $1`

const sqlTouchLastEmailSent = `
UPDATE rate_limits
SET last_email_sent = GREATEST(COALESCE(last_email_sent, $2), $2), updated_at = NOW()
WHERE user_id = $1
`

// settleOutcome moves a pending outcome to a terminal status. It reports false without error when
// the outcome already carries the same terminal status.
func settleOutcome(ctx context.Context, tx *sqlx.Tx, recipientID uuid.UUID, status string, errMsg *string, sentAt *time.Time) (uuid.UUID, bool, error) {
	var userID uuid.UUID
	err := tx.GetContext(ctx, &userID, sqlSettleOutcome, recipientID, status, errMsg, sentAt)
	if err == nil {
		return userID, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, false, fmt.Errorf("failed to settle outcome: %w", err)
	}

	var current string
	if err := tx.GetContext(ctx, &current, sqlGetOutcomeStatus, recipientID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, false, ErrNotFound
		}
		return uuid.Nil, false, fmt.Errorf("failed to get outcome status: %w", err)
	}
	if current != status {
		return uuid.Nil, false, ErrOutcomeConflict
	}
	return uuid.Nil, false, nil
}

// RecordOutcomeSent marks the recipient's outcome sent and stamps the owner's last send time.
// Repeating the call is a no-op.
func (s *Store) RecordOutcomeSent(ctx context.Context, recipientID uuid.UUID, sentAt time.Time) error {
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		userID, settled, err := settleOutcome(ctx, tx, recipientID, OutcomeStatusSent, nil, &sentAt)
		if err != nil || !settled {
			return err
		}
		if _, err := tx.ExecContext(ctx, sqlTouchLastEmailSent, userID, sentAt); err != nil {
			return fmt.Errorf("failed to update last email sent: %w", err)
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrOutcomeConflict) {
		s.logger.Error(ctx, "failed to record sent outcome", err)
	}
	return err
}

// RecordOutcomeFailed marks the recipient's outcome failed with errMsg. When refund is set, the
// capacity it reserved is given back in the same transaction, so the counters are adjusted at
// most once. Repeating the call is a no-op.
func (s *Store) RecordOutcomeFailed(ctx context.Context, recipientID uuid.UUID, errMsg string, refund *RateRefund) error {
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		_, settled, err := settleOutcome(ctx, tx, recipientID, OutcomeStatusFailed, &errMsg, nil)
		if err != nil || !settled {
			return err
		}
		if refund == nil {
			return nil
		}
		if _, err := tx.ExecContext(ctx, sqlRefundRateLimit, refund.UserID, refund.HourStart, refund.DayStart); err != nil {
			return fmt.Errorf("failed to refund rate limit: %w", err)
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrOutcomeConflict) {
		s.logger.Error(ctx, "failed to record failed outcome", err)
	}
	return err
}

const sqlCountPendingOutcomes = `
SELECT COUNT(*)::int FROM dispatch_outcomes
WHERE campaign_id = $1 AND status = 'pending' AND recipient_id IS NOT NULL
`

// CountPendingOutcomes returns how many live recipients of the campaign are still pending
func (s *Store) CountPendingOutcomes(ctx context.Context, campaignID uuid.UUID) (int, error) {
	var count int
	if err := s.db.GetContext(ctx, &count, sqlCountPendingOutcomes, campaignID); err != nil {
		s.logger.Error(ctx, "failed to count pending outcomes", err)
		return 0, fmt.Errorf("failed to count pending outcomes: %w", err)
	}
	return count, nil
}

const sqlGetCampaignStats = `
SELECT
    COUNT(*)::int AS total,
    COUNT(*) FILTER (WHERE status = 'sent')::int AS sent,
    COUNT(*) FILTER (WHERE status = 'pending')::int AS pending,
    COUNT(*) FILTER (WHERE status = 'failed')::int AS failed
FROM dispatch_outcomes
WHERE campaign_id = $1 AND recipient_id IS NOT NULL
`

// GetCampaignStats returns outcome counts of a campaign's live recipients
func (s *Store) GetCampaignStats(ctx context.Context, campaignID uuid.UUID) (CampaignStats, error) {
	var stats CampaignStats
	if err := s.db.GetContext(ctx, &stats, sqlGetCampaignStats, campaignID); err != nil {
		s.logger.Error(ctx, "failed to get campaign stats", err)
		return CampaignStats{}, fmt.Errorf("failed to get campaign stats: %w", err)
	}
	return stats, nil
}

const sqlGetUserStats = `
SELECT
    (SELECT COUNT(*)::int FROM campaigns WHERE user_id = $1) AS total_campaigns,
    (SELECT COUNT(*)::int FROM campaigns WHERE user_id = $1 AND status = 'active') AS active_campaigns,
    COUNT(o.id)::int AS total,
    COUNT(o.id) FILTER (WHERE o.status = 'sent')::int AS sent,
    COUNT(o.id) FILTER (WHERE o.status = 'pending')::int AS pending,
    COUNT(o.id) FILTER (WHERE o.status = 'failed')::int AS failed
FROM dispatch_outcomes o
WHERE o.user_id = $1 AND o.recipient_id IS NOT NULL
`

// GetUserStats returns campaign and outcome totals across all campaigns of a user
func (s *Store) GetUserStats(ctx context.Context, userID uuid.UUID) (UserStats, error) {
	var stats UserStats
	if err := s.db.GetContext(ctx, &stats, sqlGetUserStats, userID); err != nil {
		s.logger.Error(ctx, "failed to get user stats", err)
		return UserStats{}, fmt.Errorf("failed to get user stats: %w", err)
	}
	return stats, nil
}

const sqlListRecipientOutcomes = `
SELECT
    r.id, r.campaign_id, r.position, r.company_name, r.recipient_email, r.recipient_name,
    r.role, r.designation, r.created_at,
    o.status, o.error_message, o.sent_at
FROM recipients r
JOIN dispatch_outcomes o ON o.recipient_id = r.id
WHERE r.campaign_id = $1 AND ($2::text IS NULL OR o.status = $2)
ORDER BY r.position ASC
LIMIT $3 OFFSET $4
`

// ListRecipientOutcomes returns a page of recipients with their outcomes, in queue order
func (s *Store) ListRecipientOutcomes(ctx context.Context, params ListRecipientOutcomesParams) ([]RecipientOutcome, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 50
	}
	outcomes := []RecipientOutcome{}
	err := s.db.SelectContext(ctx, &outcomes, sqlListRecipientOutcomes,
		params.CampaignID, params.Status, limit, params.Offset)
	if err != nil {
		s.logger.Error(ctx, "failed to list recipient outcomes", err)
		return nil, fmt.Errorf("failed to list recipient outcomes: %w", err)
	}
	return outcomes, nil
}

const sqlDeletePendingOutcome = `
DELETE FROM dispatch_outcomes
WHERE recipient_id = $1 AND campaign_id = $2 AND status = 'pending'
`

const sqlDeleteRecipient = `DELETE FROM recipients WHERE id = $1 AND campaign_id = $2`

// DeleteRecipient removes a recipient that has not been dispatched yet, together with its outcome.
// Returns ErrOutcomeConflict when the recipient was already sent or failed.
func (s *Store) DeleteRecipient(ctx context.Context, campaignID, recipientID uuid.UUID) error {
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx, sqlDeletePendingOutcome, recipientID, campaignID)
		if err != nil {
			return fmt.Errorf("failed to delete pending outcome: %w", err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			var current string
			if err := tx.GetContext(ctx, &current, sqlGetOutcomeStatus, recipientID); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return ErrNotFound
				}
				return fmt.Errorf("failed to get outcome status: %w", err)
			}
			return ErrOutcomeConflict
		}

		res, err = tx.ExecContext(ctx, sqlDeleteRecipient, recipientID, campaignID)
		if err != nil {
			return fmt.Errorf("failed to delete recipient: %w", err)
		}
		if rows, err = res.RowsAffected(); err != nil {
			return fmt.Errorf("failed to get rows affected: %w", err)
		}
		if rows == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil && !errors.Is(err, ErrNotFound) && !errors.Is(err, ErrOutcomeConflict) {
		s.logger.Error(ctx, "failed to delete recipient", err)
	}
	return err
}
