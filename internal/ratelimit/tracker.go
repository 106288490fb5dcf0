package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"outreach-server/internal/observability"
	"outreach-server/internal/store"

	"github.com/google/uuid"
)

// RateStore is the persistence the Postgres tracker needs
type RateStore interface {
	ReserveRateCapacity(ctx context.Context, userID uuid.UUID, now time.Time, apply func(*store.RateLimit)) (store.RateLimit, error)
	RefundRateReservation(ctx context.Context, refund store.RateRefund) error
	GetRateLimit(ctx context.Context, userID uuid.UUID) (store.RateLimit, error)
}

// Tracker keeps per-user counters in the rate_limits table. Every reservation is a
// read-modify-write under the user's row lock, so campaigns of the same user running in
// parallel share one consistent quota.
type Tracker struct {
	store  RateStore
	limits Limits
	logger *observability.Logger
}

// NewTracker creates a Postgres backed tracker
func NewTracker(store RateStore, limits Limits, logger *observability.Logger) *Tracker {
	return &Tracker{
		store:  store,
		limits: limits,
		logger: logger,
	}
}

// Limits returns the caps this tracker enforces
func (t *Tracker) Limits() Limits {
	return t.limits
}

// Reserve evaluates the user's quota at now and claims one unit when allowed
func (t *Tracker) Reserve(ctx context.Context, userID uuid.UUID, now time.Time) (Decision, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "user_id", Value: userID.String()},
		observability.Field{Key: "operation", Value: "reserve_capacity"},
	)

	var decision Decision
	saved, err := t.store.ReserveRateCapacity(ctx, userID, now, func(row *store.RateLimit) {
		state := State{
			HourStart:      row.HourStart,
			EmailsThisHour: row.EmailsThisHour,
			DayStart:       row.DayStart,
			EmailsToday:    row.EmailsToday,
		}
		decision = t.limits.Evaluate(&state, now)
		row.HourStart = state.HourStart
		row.EmailsThisHour = state.EmailsThisHour
		row.DayStart = state.DayStart
		row.EmailsToday = state.EmailsToday
	})
	if err != nil {
		t.logger.Error(ctx, "failed to reserve capacity", err)
		return Decision{}, fmt.Errorf("failed to reserve capacity: %w", err)
	}

	if decision.Kind == Allowed {
		decision.Reservation = Reservation{
			UserID:    userID,
			HourStart: saved.HourStart,
			DayStart:  saved.DayStart,
		}
	}
	return decision, nil
}

// Refund gives back a reservation whose send never happened
func (t *Tracker) Refund(ctx context.Context, res Reservation) error {
	refund := res.Refund()
	if refund == nil {
		return nil
	}
	if err := t.store.RefundRateReservation(ctx, *refund); err != nil {
		return fmt.Errorf("failed to refund reservation: %w", err)
	}
	return nil
}

// Snapshot returns the user's usage at now without changing anything
func (t *Tracker) Snapshot(ctx context.Context, userID uuid.UUID, now time.Time) (Usage, error) {
	row, err := t.store.GetRateLimit(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return t.limits.UsageAt(State{HourStart: now, DayStart: now}, now), nil
		}
		return Usage{}, fmt.Errorf("failed to get rate limit: %w", err)
	}

	usage := t.limits.UsageAt(State{
		HourStart:      row.HourStart,
		EmailsThisHour: row.EmailsThisHour,
		DayStart:       row.DayStart,
		EmailsToday:    row.EmailsToday,
	}, now)
	usage.LastEmailSent = row.LastEmailSent
	return usage, nil
}
