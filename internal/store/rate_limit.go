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

const rateLimitColumns = `user_id, hour_start, emails_this_hour, day_start, emails_today, last_email_sent, updated_at`

const sqlEnsureRateLimit = `
INSERT INTO rate_limits (user_id, hour_start, day_start)
VALUES ($1, $2, $2)
ON CONFLICT (user_id) DO NOTHING
`

const sqlLockRateLimit = `SELECT ` + rateLimitColumns + ` FROM rate_limits WHERE user_id = $1 FOR UPDATE`

const sqlSaveRateLimit = `
UPDATE rate_limits
SET hour_start = $2, emails_this_hour = $3, day_start = $4, emails_today = $5, updated_at = NOW()
WHERE user_id = $1
RETURNING ` + rateLimitColumns

const sqlRefundRateLimit = `
UPDATE rate_limits
SET emails_this_hour = CASE WHEN hour_start = $2 THEN GREATEST(emails_this_hour - 1, 0) ELSE emails_this_hour END,
    emails_today = CASE WHEN day_start = $3 THEN GREATEST(emails_today - 1, 0) ELSE emails_today END,
    updated_at = NOW()
WHERE user_id = $1
`

// ReserveRateCapacity creates the user's rate row on first use, locks it, lets apply reset
// windows and charge counters on the locked copy, then writes it back. Concurrent callers for the
// same user are serialized by the row lock. The returned row is what was stored.
func (s *Store) ReserveRateCapacity(ctx context.Context, userID uuid.UUID, now time.Time, apply func(*RateLimit)) (RateLimit, error) {
	now = now.UTC().Truncate(time.Microsecond)

	var saved RateLimit
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, sqlEnsureRateLimit, userID, now); err != nil {
			return fmt.Errorf("failed to create rate limit: %w", err)
		}

		var row RateLimit
		if err := tx.GetContext(ctx, &row, sqlLockRateLimit, userID); err != nil {
			return fmt.Errorf("failed to lock rate limit: %w", err)
		}

		apply(&row)

		err := tx.GetContext(ctx, &saved, sqlSaveRateLimit,
			userID, row.HourStart, row.EmailsThisHour, row.DayStart, row.EmailsToday)
		if err != nil {
			return fmt.Errorf("failed to save rate limit: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logger.Error(ctx, "failed to reserve rate capacity", err)
		return RateLimit{}, err
	}
	return saved, nil
}

// RefundRateReservation gives back one unit of capacity when the windows it was charged against
// are still current.
func (s *Store) RefundRateReservation(ctx context.Context, refund RateRefund) error {
	_, err := s.db.ExecContext(ctx, sqlRefundRateLimit, refund.UserID, refund.HourStart, refund.DayStart)
	if err != nil {
		s.logger.Error(ctx, "failed to refund rate reservation", err)
		return fmt.Errorf("failed to refund rate reservation: %w", err)
	}
	return nil
}

const sqlGetRateLimit = `SELECT ` + rateLimitColumns + ` FROM rate_limits WHERE user_id = $1`

// GetRateLimit retrieves the stored counters of a user
func (s *Store) GetRateLimit(ctx context.Context, userID uuid.UUID) (RateLimit, error) {
	var row RateLimit
	err := s.db.GetContext(ctx, &row, sqlGetRateLimit, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return RateLimit{}, ErrNotFound
		}
		s.logger.Error(ctx, "failed to get rate limit", err)
		return RateLimit{}, fmt.Errorf("failed to get rate limit: %w", err)
	}
	return row, nil
}
