package ratelimit

import (
	"time"

	"outreach-server/internal/config"
	"outreach-server/internal/store"

	"github.com/google/uuid"
)

// Kind is the outcome of a capacity check
type Kind int

const (
	// Allowed means one unit of hourly and daily capacity was claimed.
	Allowed Kind = iota
	// WaitUntil means the hourly cap is reached; retry at Decision.Until.
	WaitUntil
	// DailyCapExceeded means no more sends until the day window rolls over.
	DailyCapExceeded
)

func (k Kind) String() string {
	switch k {
	case Allowed:
		return "allowed"
	case WaitUntil:
		return "wait_until"
	case DailyCapExceeded:
		return "daily_cap_exceeded"
	default:
		return "unknown"
	}
}

// Decision is the result of Evaluate. Reservation is only meaningful when Kind is Allowed.
type Decision struct {
	Kind        Kind
	Until       time.Time
	Reservation Reservation
}

// Reservation records which windows a claimed unit was charged against, so a failed
// send can give it back without touching a window that has since rolled over.
type Reservation struct {
	UserID    uuid.UUID
	HourStart time.Time
	DayStart  time.Time
}

// Refund converts the reservation into the store's refund instruction
func (r Reservation) Refund() *store.RateRefund {
	if r.UserID == uuid.Nil {
		return nil
	}
	return &store.RateRefund{UserID: r.UserID, HourStart: r.HourStart, DayStart: r.DayStart}
}

// Limits are the per-user send caps and the length of their rolling windows
type Limits struct {
	PerHour    int
	PerDay     int
	HourWindow time.Duration
	DayWindow  time.Duration
}

// DefaultLimits returns 4 per hour and 25 per day
func DefaultLimits() Limits {
	return Limits{
		PerHour:    4,
		PerDay:     25,
		HourWindow: time.Hour,
		DayWindow:  24 * time.Hour,
	}
}

// LimitsFromConfig builds limits from the dispatch configuration
func LimitsFromConfig(cfg config.DispatchConfig) Limits {
	l := DefaultLimits()
	l.PerHour = cfg.MaxEmailsPerHour
	l.PerDay = cfg.MaxEmailsPerDay
	return l
}

// State is the counter state of one user
type State struct {
	HourStart      time.Time
	EmailsThisHour int
	DayStart       time.Time
	EmailsToday    int
}

// Reset starts a new window for every window whose length has elapsed at now.
func (l Limits) Reset(s *State, now time.Time) {
	if now.Sub(s.HourStart) >= l.HourWindow {
		s.HourStart = now
		s.EmailsThisHour = 0
	}
	if now.Sub(s.DayStart) >= l.DayWindow {
		s.DayStart = now
		s.EmailsToday = 0
	}
}

// Evaluate resets elapsed windows and then decides whether one more email may be sent at now.
// The daily cap is checked first so a run never waits out an hour only to find the day exhausted.
// On Allowed both counters are charged in s.
func (l Limits) Evaluate(s *State, now time.Time) Decision {
	l.Reset(s, now)

	if s.EmailsToday >= l.PerDay {
		return Decision{Kind: DailyCapExceeded}
	}
	if s.EmailsThisHour >= l.PerHour {
		return Decision{Kind: WaitUntil, Until: s.HourStart.Add(l.HourWindow)}
	}

	s.EmailsThisHour++
	s.EmailsToday++
	return Decision{
		Kind:        Allowed,
		Reservation: Reservation{HourStart: s.HourStart, DayStart: s.DayStart},
	}
}

// Usage is a read-only view of a user's quota
type Usage struct {
	HourlyLimit     int        `json:"hourly_limit"`
	SentThisHour    int        `json:"sent_this_hour"`
	HourlyRemaining int        `json:"hourly_remaining"`
	HourResetsAt    time.Time  `json:"hour_resets_at"`
	DailyLimit      int        `json:"daily_limit"`
	SentToday       int        `json:"sent_today"`
	DailyRemaining  int        `json:"daily_remaining"`
	DayResetsAt     time.Time  `json:"day_resets_at"`
	LastEmailSent   *time.Time `json:"last_email_sent,omitempty"`
}

// UsageAt reports the counters of s as they stand at now, after any window reset
func (l Limits) UsageAt(s State, now time.Time) Usage {
	l.Reset(&s, now)
	return Usage{
		HourlyLimit:     l.PerHour,
		SentThisHour:    s.EmailsThisHour,
		HourResetsAt:    s.HourStart.Add(l.HourWindow),
		DailyLimit:      l.PerDay,
		SentToday:       s.EmailsToday,
		DayResetsAt:     s.DayStart.Add(l.DayWindow),
		HourlyRemaining: max(0, l.PerHour-s.EmailsThisHour),
		DailyRemaining:  max(0, l.PerDay-s.EmailsToday),
	}
}
