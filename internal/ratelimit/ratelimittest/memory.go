// Package ratelimittest provides an in-process quota tracker for tests of code built on ratelimit.
package ratelimittest

import (
	"context"
	"sync"
	"time"

	"outreach-server/internal/ratelimit"

	"github.com/google/uuid"
)

// MemoryTracker keeps counters in process memory. It gives the same decisions as
// ratelimit.Tracker without a database.
type MemoryTracker struct {
	mu     sync.Mutex
	limits ratelimit.Limits
	states map[uuid.UUID]*ratelimit.State
	last   map[uuid.UUID]time.Time
}

// NewMemoryTracker creates an empty in-memory tracker
func NewMemoryTracker(limits ratelimit.Limits) *MemoryTracker {
	return &MemoryTracker{
		limits: limits,
		states: make(map[uuid.UUID]*ratelimit.State),
		last:   make(map[uuid.UUID]time.Time),
	}
}

// Limits returns the caps this tracker enforces
func (m *MemoryTracker) Limits() ratelimit.Limits {
	return m.limits
}

// Reserve evaluates the user's quota at now and claims one unit when allowed
func (m *MemoryTracker) Reserve(_ context.Context, userID uuid.UUID, now time.Time) (ratelimit.Decision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.states[userID]
	if !ok {
		s = &ratelimit.State{HourStart: now, DayStart: now}
		m.states[userID] = s
	}

	d := m.limits.Evaluate(s, now)
	if d.Kind == ratelimit.Allowed {
		d.Reservation.UserID = userID
		m.last[userID] = now
	}
	return d, nil
}

// Refund gives back a reservation if its windows are still current
func (m *MemoryTracker) Refund(_ context.Context, res ratelimit.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.states[res.UserID]
	if !ok {
		return nil
	}
	if s.HourStart.Equal(res.HourStart) && s.EmailsThisHour > 0 {
		s.EmailsThisHour--
	}
	if s.DayStart.Equal(res.DayStart) && s.EmailsToday > 0 {
		s.EmailsToday--
	}
	return nil
}

// Snapshot returns the user's usage at now without changing anything
func (m *MemoryTracker) Snapshot(_ context.Context, userID uuid.UUID, now time.Time) (ratelimit.Usage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.states[userID]
	if !ok {
		return m.limits.UsageAt(ratelimit.State{HourStart: now, DayStart: now}, now), nil
	}
	usage := m.limits.UsageAt(*s, now)
	if last, ok := m.last[userID]; ok {
		usage.LastEmailSent = &last
	}
	return usage, nil
}

// State returns a copy of the user's counters. The second result is false for unknown users.
func (m *MemoryTracker) State(userID uuid.UUID) (ratelimit.State, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.states[userID]
	if !ok {
		return ratelimit.State{}, false
	}
	return *s, true
}
