package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
)

// CreateCampaignParams represents parameters for creating a campaign together with its recipients
type CreateCampaignParams struct {
	UserID         uuid.UUID
	Name           string
	EmailTemplate  string
	ScheduleMode   string
	ScheduledAt    *time.Time
	AttachmentPath *string
	Recipients     []CreateRecipientParams
}

// CreateRecipientParams represents one recipient row of a new campaign
type CreateRecipientParams struct {
	CompanyName    string
	RecipientEmail string
	RecipientName  string
	Role           string
	Designation    string
}

const campaignColumns = `id, user_id, name, email_template, schedule_mode, scheduled_at, attachment_path, status, created_at, updated_at`

const sqlCreateCampaign = `
INSERT INTO campaigns (user_id, name, email_template, schedule_mode, scheduled_at, attachment_path)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + campaignColumns

const sqlCreateRecipientWithOutcome = `
WITH r AS (
    INSERT INTO recipients (campaign_id, position, company_name, recipient_email, recipient_name, role, designation)
    VALUES ($1, $2, $3, $4, $5, $6, $7)
    RETURNING id, campaign_id
)
INSERT INTO dispatch_outcomes (campaign_id, recipient_id, user_id)
SELECT r.campaign_id, r.id, $8 FROM r
`

// CreateCampaignWithRecipients persists a draft campaign, its recipients and one pending
// outcome per recipient in a single transaction. Scheduled campaigns also get a
// scheduled_start trigger at ScheduledAt.
func (s *Store) CreateCampaignWithRecipients(ctx context.Context, params CreateCampaignParams) (Campaign, error) {
	var campaign Campaign
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &campaign, sqlCreateCampaign,
			params.UserID,
			params.Name,
			params.EmailTemplate,
			params.ScheduleMode,
			params.ScheduledAt,
			params.AttachmentPath)
		if err != nil {
			return fmt.Errorf("failed to create campaign: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, sqlCreateRecipientWithOutcome)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		for i, r := range params.Recipients {
			_, err := stmt.ExecContext(ctx, campaign.ID, i+1,
				r.CompanyName, r.RecipientEmail, r.RecipientName, r.Role, r.Designation,
				params.UserID)
			if err != nil {
				if isUniqueViolation(err) {
					return fmt.Errorf("%s: %w", r.RecipientEmail, ErrDuplicateEmail)
				}
				return fmt.Errorf("failed to insert recipient: %w", err)
			}
		}

		if params.ScheduleMode == ScheduleModeScheduled && params.ScheduledAt != nil {
			if _, err := tx.ExecContext(ctx, sqlUpsertCampaignTrigger,
				campaign.ID, TriggerKindScheduledStart, *params.ScheduledAt); err != nil {
				return fmt.Errorf("failed to create scheduled start trigger: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		s.logger.Error(ctx, "failed to create campaign with recipients", err)
		return Campaign{}, err
	}
	return campaign, nil
}

const sqlGetCampaignByID = `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = $1`

// GetCampaignByID retrieves a campaign by ID
func (s *Store) GetCampaignByID(ctx context.Context, campaignID uuid.UUID) (Campaign, error) {
	var campaign Campaign
	err := s.db.GetContext(ctx, &campaign, sqlGetCampaignByID, campaignID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Campaign{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get campaign by id", err)
		return Campaign{}, fmt.Errorf("failed to get campaign by id: %w", err)
	}
	return campaign, nil
}

const sqlGetCampaignForUser = `SELECT ` + campaignColumns + ` FROM campaigns WHERE id = $1 AND user_id = $2`

// GetCampaignForUser retrieves a campaign only if it belongs to the given user
func (s *Store) GetCampaignForUser(ctx context.Context, campaignID, userID uuid.UUID) (Campaign, error) {
	var campaign Campaign
	err := s.db.GetContext(ctx, &campaign, sqlGetCampaignForUser, campaignID, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Campaign{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get campaign for user", err)
		return Campaign{}, fmt.Errorf("failed to get campaign for user: %w", err)
	}
	return campaign, nil
}

const sqlGetCampaignStatus = `SELECT status FROM campaigns WHERE id = $1`

// GetCampaignStatus returns only the lifecycle status, used by the dispatch loop between sends
func (s *Store) GetCampaignStatus(ctx context.Context, campaignID uuid.UUID) (string, error) {
	var status string
	err := s.db.GetContext(ctx, &status, sqlGetCampaignStatus, campaignID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to get campaign status: %w", err)
	}
	return status, nil
}

const sqlListCampaignsByUser = `
SELECT
    c.id, c.user_id, c.name, c.email_template, c.schedule_mode, c.scheduled_at, c.attachment_path,
    c.status, c.created_at, c.updated_at,
    COUNT(o.id)::int AS total,
    COUNT(o.id) FILTER (WHERE o.status = 'sent')::int AS sent,
    COUNT(o.id) FILTER (WHERE o.status = 'pending')::int AS pending,
    COUNT(o.id) FILTER (WHERE o.status = 'failed')::int AS failed
FROM campaigns c
LEFT JOIN dispatch_outcomes o ON o.campaign_id = c.id AND o.recipient_id IS NOT NULL
WHERE c.user_id = $1
GROUP BY c.id
ORDER BY c.created_at DESC
`

// ListCampaignsByUser returns all campaigns of a user, newest first, with outcome counts
func (s *Store) ListCampaignsByUser(ctx context.Context, userID uuid.UUID) ([]CampaignSummary, error) {
	campaigns := []CampaignSummary{}
	err := s.db.SelectContext(ctx, &campaigns, sqlListCampaignsByUser, userID)
	if err != nil {
		s.logger.Error(ctx, "failed to list campaigns by user", err)
		return nil, fmt.Errorf("failed to list campaigns by user: %w", err)
	}
	return campaigns, nil
}

const sqlListActiveCampaignIDs = `
SELECT id FROM campaigns WHERE status = 'active' ORDER BY updated_at
`

// ListActiveCampaignIDs returns the ids of every active campaign, least recently updated first
func (s *Store) ListActiveCampaignIDs(ctx context.Context) ([]uuid.UUID, error) {
	ids := []uuid.UUID{}
	if err := s.db.SelectContext(ctx, &ids, sqlListActiveCampaignIDs); err != nil {
		s.logger.Error(ctx, "failed to list active campaigns", err)
		return nil, fmt.Errorf("failed to list active campaigns: %w", err)
	}
	return ids, nil
}

const sqlTransitionCampaignStatus = `
UPDATE campaigns
SET status = $2, updated_at = NOW()
WHERE id = $1 AND status = ANY($3)
RETURNING ` + campaignColumns

// TransitionCampaignStatus moves a campaign to status `to` only if its current status is one of
// `from`. Returns ErrInvalidTransition when the campaign is missing or in another status.
func (s *Store) TransitionCampaignStatus(ctx context.Context, campaignID uuid.UUID, from []string, to string) (Campaign, error) {
	var campaign Campaign
	err := s.db.GetContext(ctx, &campaign, sqlTransitionCampaignStatus, campaignID, to, from)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Campaign{}, ErrInvalidTransition
		}
		s.logger.Error(ctx, "failed to transition campaign status", err)
		return Campaign{}, fmt.Errorf("failed to transition campaign status: %w", err)
	}
	return campaign, nil
}

// PauseCampaignForQuota pauses an active campaign and records a resume trigger at resumeAt,
// atomically.
func (s *Store) PauseCampaignForQuota(ctx context.Context, campaignID uuid.UUID, resumeAt time.Time) (Campaign, error) {
	var campaign Campaign
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &campaign, sqlTransitionCampaignStatus,
			campaignID, CampaignStatusPaused, []string{CampaignStatusActive})
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrInvalidTransition
			}
			return fmt.Errorf("failed to pause campaign: %w", err)
		}
		if _, err := tx.ExecContext(ctx, sqlUpsertCampaignTrigger, campaignID, TriggerKindResume, resumeAt); err != nil {
			return fmt.Errorf("failed to schedule resume: %w", err)
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrInvalidTransition) {
			s.logger.Error(ctx, "failed to pause campaign for quota", err)
		}
		return Campaign{}, err
	}
	return campaign, nil
}

const sqlDeleteCampaign = `DELETE FROM campaigns WHERE id = $1 AND user_id = $2`

// DeleteCampaign removes a campaign. Recipients, outcomes, triggers and activity cascade.
func (s *Store) DeleteCampaign(ctx context.Context, campaignID, userID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, sqlDeleteCampaign, campaignID, userID)
	if err != nil {
		s.logger.Error(ctx, "failed to delete campaign", err)
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}
