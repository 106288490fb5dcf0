package ratelimit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"outreach-server/internal/observability"
	"outreach-server/internal/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRateStore mimics the row-lock semantics of the store with a mutex.
type fakeRateStore struct {
	mu         sync.Mutex
	rows       map[uuid.UUID]store.RateLimit
	refunds    []store.RateRefund
	reserveErr error
}

func newFakeRateStore() *fakeRateStore {
	return &fakeRateStore{rows: make(map[uuid.UUID]store.RateLimit)}
}

func (f *fakeRateStore) ReserveRateCapacity(_ context.Context, userID uuid.UUID, now time.Time, apply func(*store.RateLimit)) (store.RateLimit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.reserveErr != nil {
		return store.RateLimit{}, f.reserveErr
	}
	row, ok := f.rows[userID]
	if !ok {
		row = store.RateLimit{UserID: userID, HourStart: now, DayStart: now}
	}
	apply(&row)
	f.rows[userID] = row
	return row, nil
}

func (f *fakeRateStore) RefundRateReservation(_ context.Context, refund store.RateRefund) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refunds = append(f.refunds, refund)
	return nil
}

func (f *fakeRateStore) GetRateLimit(_ context.Context, userID uuid.UUID) (store.RateLimit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[userID]
	if !ok {
		return store.RateLimit{}, store.ErrNotFound
	}
	return row, nil
}

func TestTracker_Reserve(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fs := newFakeRateStore()
	tracker := NewTracker(fs, DefaultLimits(), observability.NewNopLogger())
	userID := uuid.New()
	now := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 4; i++ {
		d, err := tracker.Reserve(ctx, userID, now.Add(time.Duration(i)*time.Second))
		require.NoError(t, err)
		require.Equal(t, Allowed, d.Kind)
		assert.Equal(t, userID, d.Reservation.UserID)
		assert.Equal(t, now, d.Reservation.HourStart)
	}

	d, err := tracker.Reserve(ctx, userID, now.Add(5*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, WaitUntil, d.Kind)
	assert.Equal(t, now.Add(time.Hour), d.Until)

	row := fs.rows[userID]
	assert.Equal(t, 4, row.EmailsThisHour)
	assert.Equal(t, 4, row.EmailsToday)
}

func TestTracker_ReserveError(t *testing.T) {
	t.Parallel()

	fs := newFakeRateStore()
	fs.reserveErr = errors.New("connection refused")
	tracker := NewTracker(fs, DefaultLimits(), observability.NewNopLogger())

	_, err := tracker.Reserve(context.Background(), uuid.New(), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestTracker_Refund(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fs := newFakeRateStore()
	tracker := NewTracker(fs, DefaultLimits(), observability.NewNopLogger())

	require.NoError(t, tracker.Refund(ctx, Reservation{}))
	assert.Empty(t, fs.refunds)

	now := time.Now()
	res := Reservation{UserID: uuid.New(), HourStart: now, DayStart: now}
	require.NoError(t, tracker.Refund(ctx, res))
	require.Len(t, fs.refunds, 1)
	assert.Equal(t, res.UserID, fs.refunds[0].UserID)
}

func TestTracker_Snapshot(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	fs := newFakeRateStore()
	tracker := NewTracker(fs, Limits{PerHour: 10, PerDay: 50, HourWindow: time.Hour, DayWindow: 24 * time.Hour}, observability.NewNopLogger())
	userID := uuid.New()
	now := time.Now()

	usage, err := tracker.Snapshot(ctx, userID, now)
	require.NoError(t, err)
	assert.Equal(t, 10, usage.HourlyRemaining)
	assert.Equal(t, 50, usage.DailyRemaining)

	last := now
	fs.rows[userID] = store.RateLimit{UserID: userID, HourStart: now, EmailsThisHour: 3, DayStart: now, EmailsToday: 7, LastEmailSent: &last}
	usage, err = tracker.Snapshot(ctx, userID, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 7, usage.HourlyRemaining)
	assert.Equal(t, 43, usage.DailyRemaining)
	assert.Equal(t, &last, usage.LastEmailSent)
}
