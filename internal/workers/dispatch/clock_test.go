package dispatch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextResumeAt(t *testing.T) {
	t.Parallel()

	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	tests := []struct {
		name string
		now  time.Time
		hour int
		loc  *time.Location
		want time.Time
	}{
		{
			name: "afternoon pause resumes next morning",
			now:  time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC),
			hour: 9,
			loc:  time.UTC,
			want: time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "early morning pause still waits for the next day",
			now:  time.Date(2025, 3, 10, 3, 0, 0, 0, time.UTC),
			hour: 9,
			loc:  time.UTC,
			want: time.Date(2025, 3, 11, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "month rollover",
			now:  time.Date(2025, 1, 31, 22, 15, 0, 0, time.UTC),
			hour: 9,
			loc:  time.UTC,
			want: time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC),
		},
		{
			name: "calendar day of the resume location",
			now:  time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC), // 01:30 on the 11th in Kolkata
			hour: 9,
			loc:  kolkata,
			want: time.Date(2025, 3, 12, 9, 0, 0, 0, kolkata),
		},
		{
			name: "nil location is UTC",
			now:  time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC),
			hour: 7,
			want: time.Date(2025, 3, 11, 7, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := NextResumeAt(tt.now, tt.hour, tt.loc)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestRandomJitter(t *testing.T) {
	t.Parallel()

	lo, hi := 60*time.Second, 300*time.Second
	for i := 0; i < 200; i++ {
		d := RandomJitter(lo, hi)
		assert.GreaterOrEqual(t, d, lo)
		assert.LessOrEqual(t, d, hi)
	}
	assert.Equal(t, lo, RandomJitter(lo, lo))
	assert.Equal(t, time.Duration(0), RandomJitter(0, 0))
}

func TestRealClock_SleepCancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RealClock().Sleep(ctx, time.Hour)
	assert.ErrorIs(t, err, context.Canceled)
	assert.NoError(t, RealClock().Sleep(context.Background(), time.Millisecond))
}
