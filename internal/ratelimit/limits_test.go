package ratelimit

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestLimits_Evaluate(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	limits := DefaultLimits()

	tests := []struct {
		name      string
		state     State
		now       time.Time
		wantKind  Kind
		wantUntil time.Time
		wantState State
	}{
		{
			name:      "fresh state is allowed and charged",
			state:     State{HourStart: base, DayStart: base},
			now:       base.Add(time.Minute),
			wantKind:  Allowed,
			wantState: State{HourStart: base, EmailsThisHour: 1, DayStart: base, EmailsToday: 1},
		},
		{
			name:      "hourly cap reached waits for the window end",
			state:     State{HourStart: base, EmailsThisHour: 4, DayStart: base, EmailsToday: 4},
			now:       base.Add(20 * time.Minute),
			wantKind:  WaitUntil,
			wantUntil: base.Add(time.Hour),
			wantState: State{HourStart: base, EmailsThisHour: 4, DayStart: base, EmailsToday: 4},
		},
		{
			name:      "hour window resets exactly at one hour",
			state:     State{HourStart: base, EmailsThisHour: 4, DayStart: base, EmailsToday: 4},
			now:       base.Add(time.Hour),
			wantKind:  Allowed,
			wantState: State{HourStart: base.Add(time.Hour), EmailsThisHour: 1, DayStart: base, EmailsToday: 5},
		},
		{
			// Both caps exhausted: the run pauses for the day instead of first waiting out the hour.
			name:      "daily cap is checked before hourly cap",
			state:     State{HourStart: base, EmailsThisHour: 4, DayStart: base, EmailsToday: 25},
			now:       base.Add(10 * time.Minute),
			wantKind:  DailyCapExceeded,
			wantState: State{HourStart: base, EmailsThisHour: 4, DayStart: base, EmailsToday: 25},
		},
		{
			name:      "day window resets after 24 hours",
			state:     State{HourStart: base, EmailsThisHour: 3, DayStart: base, EmailsToday: 25},
			now:       base.Add(24 * time.Hour),
			wantKind:  Allowed,
			wantState: State{HourStart: base.Add(24 * time.Hour), EmailsThisHour: 1, DayStart: base.Add(24 * time.Hour), EmailsToday: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			state := tt.state
			d := limits.Evaluate(&state, tt.now)

			assert.Equal(t, tt.wantKind, d.Kind)
			assert.Equal(t, tt.wantState, state)
			if tt.wantKind == WaitUntil {
				assert.Equal(t, tt.wantUntil, d.Until)
			}
			if tt.wantKind == Allowed {
				assert.Equal(t, state.HourStart, d.Reservation.HourStart)
				assert.Equal(t, state.DayStart, d.Reservation.DayStart)
			}
		})
	}
}

func TestReservation_Refund(t *testing.T) {
	t.Parallel()

	assert.Nil(t, Reservation{}.Refund())

	now := time.Now()
	userID := uuid.New()
	refund := Reservation{UserID: userID, HourStart: now, DayStart: now}.Refund()
	if assert.NotNil(t, refund) {
		assert.Equal(t, userID, refund.UserID)
		assert.Equal(t, now, refund.HourStart)
	}
}
