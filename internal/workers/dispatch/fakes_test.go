package dispatch

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"outreach-server/internal/clients/kafka"
	"outreach-server/internal/clients/mail"
	"outreach-server/internal/ratelimit"
	"outreach-server/internal/ratelimit/ratelimittest"
	"outreach-server/internal/store"

	"github.com/google/uuid"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time

	afterSleep func(now time.Time)
}

func newFakeClock(start time.Time) *fakeClock {
	return &fakeClock{now: start}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.now = c.now.Add(d)
	now, hook := c.now, c.afterSleep
	c.mu.Unlock()
	if hook != nil {
		hook(now)
	}
	return nil
}

type fakeOutcome struct {
	status string
	errMsg string
	sentAt time.Time
}

// memQueue is an in-memory Queue holding a single campaign.
type memQueue struct {
	mu         sync.Mutex
	tracker    *ratelimittest.MemoryTracker
	campaign   store.Campaign
	order      []uuid.UUID
	recipients map[uuid.UUID]store.Recipient
	outcomes   map[uuid.UUID]*fakeOutcome
	resumeAt   *time.Time
}

func newMemQueue(tracker *ratelimittest.MemoryTracker, template string, n int) *memQueue {
	q := &memQueue{
		tracker: tracker,
		campaign: store.Campaign{
			ID:            uuid.New(),
			UserID:        uuid.New(),
			Name:          "Spring outreach",
			EmailTemplate: template,
			ScheduleMode:  store.ScheduleModeImmediate,
			Status:        store.CampaignStatusActive,
		},
		recipients: make(map[uuid.UUID]store.Recipient),
		outcomes:   make(map[uuid.UUID]*fakeOutcome),
	}
	for i := 1; i <= n; i++ {
		r := store.Recipient{
			ID:             uuid.New(),
			CampaignID:     q.campaign.ID,
			Position:       i,
			CompanyName:    fmt.Sprintf("Company %d", i),
			RecipientEmail: fmt.Sprintf("hr%d@company.test", i),
		}
		q.order = append(q.order, r.ID)
		q.recipients[r.ID] = r
		q.outcomes[r.ID] = &fakeOutcome{status: store.OutcomeStatusPending}
	}
	return q
}

func (q *memQueue) setStatus(status string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.campaign.Status = status
}

func (q *memQueue) status() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.campaign.Status
}

func (q *memQueue) removeRecipient(id uuid.UUID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.recipients, id)
}

func (q *memQueue) outcome(i int) fakeOutcome {
	q.mu.Lock()
	defer q.mu.Unlock()
	return *q.outcomes[q.order[i]]
}

func (q *memQueue) countByStatus() map[string]int {
	q.mu.Lock()
	defer q.mu.Unlock()
	counts := make(map[string]int)
	for id, o := range q.outcomes {
		if _, ok := q.recipients[id]; ok {
			counts[o.status]++
		}
	}
	return counts
}

func (q *memQueue) GetCampaignByID(_ context.Context, campaignID uuid.UUID) (store.Campaign, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if campaignID != q.campaign.ID {
		return store.Campaign{}, store.ErrNotFound
	}
	return q.campaign, nil
}

func (q *memQueue) GetCampaignStatus(ctx context.Context, campaignID uuid.UUID) (string, error) {
	c, err := q.GetCampaignByID(ctx, campaignID)
	return c.Status, err
}

func (q *memQueue) GetPendingRecipients(_ context.Context, _ uuid.UUID) ([]store.PendingRecipient, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	var out []store.PendingRecipient
	for _, id := range q.order {
		r, ok := q.recipients[id]
		if !ok || q.outcomes[id].status != store.OutcomeStatusPending {
			continue
		}
		out = append(out, store.PendingRecipient{OutcomeID: id, RecipientID: id, Position: r.Position})
	}
	return out, nil
}

func (q *memQueue) GetRecipientByID(_ context.Context, recipientID uuid.UUID) (store.Recipient, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	r, ok := q.recipients[recipientID]
	if !ok {
		return store.Recipient{}, store.ErrNotFound
	}
	return r, nil
}

func (q *memQueue) settle(recipientID uuid.UUID, status string) (bool, error) {
	if _, ok := q.recipients[recipientID]; !ok {
		return false, store.ErrNotFound
	}
	o := q.outcomes[recipientID]
	switch o.status {
	case store.OutcomeStatusPending:
		o.status = status
		return true, nil
	case status:
		return false, nil
	default:
		return false, store.ErrOutcomeConflict
	}
}

func (q *memQueue) RecordOutcomeSent(_ context.Context, recipientID uuid.UUID, sentAt time.Time) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	settled, err := q.settle(recipientID, store.OutcomeStatusSent)
	if settled {
		q.outcomes[recipientID].sentAt = sentAt
	}
	return err
}

func (q *memQueue) RecordOutcomeFailed(ctx context.Context, recipientID uuid.UUID, errMsg string, refund *store.RateRefund) error {
	q.mu.Lock()
	settled, err := q.settle(recipientID, store.OutcomeStatusFailed)
	if settled {
		q.outcomes[recipientID].errMsg = errMsg
	}
	q.mu.Unlock()
	if settled && refund != nil {
		return q.tracker.Refund(ctx, ratelimit.Reservation{UserID: refund.UserID, HourStart: refund.HourStart, DayStart: refund.DayStart})
	}
	return err
}

func (q *memQueue) CountPendingOutcomes(_ context.Context, _ uuid.UUID) (int, error) {
	return q.countByStatus()[store.OutcomeStatusPending], nil
}

func (q *memQueue) GetCampaignStats(_ context.Context, _ uuid.UUID) (store.CampaignStats, error) {
	c := q.countByStatus()
	return store.CampaignStats{
		Total:   c[store.OutcomeStatusPending] + c[store.OutcomeStatusSent] + c[store.OutcomeStatusFailed],
		Sent:    c[store.OutcomeStatusSent],
		Pending: c[store.OutcomeStatusPending],
		Failed:  c[store.OutcomeStatusFailed],
	}, nil
}

func (q *memQueue) TransitionCampaignStatus(_ context.Context, campaignID uuid.UUID, from []string, to string) (store.Campaign, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if campaignID != q.campaign.ID || !slices.Contains(from, q.campaign.Status) {
		return store.Campaign{}, store.ErrInvalidTransition
	}
	q.campaign.Status = to
	return q.campaign, nil
}

func (q *memQueue) PauseCampaignForQuota(_ context.Context, campaignID uuid.UUID, resumeAt time.Time) (store.Campaign, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if campaignID != q.campaign.ID || q.campaign.Status != store.CampaignStatusActive {
		return store.Campaign{}, store.ErrInvalidTransition
	}
	q.campaign.Status = store.CampaignStatusPaused
	q.resumeAt = &resumeAt
	return q.campaign, nil
}

// fakeSender records messages. failures maps a recipient address to the error returned for it.
type fakeSender struct {
	mu       sync.Mutex
	sent     []mail.Message
	failures map[string]error
	onSend   func(n int)
}

func (s *fakeSender) Send(_ context.Context, msg mail.Message) error {
	s.mu.Lock()
	err := s.failures[msg.To]
	if err == nil {
		s.sent = append(s.sent, msg)
	}
	n := len(s.sent)
	hook := s.onSend
	s.mu.Unlock()

	if err == nil && hook != nil {
		hook(n)
	}
	return err
}

func (s *fakeSender) recipients() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.sent))
	for i, m := range s.sent {
		out[i] = m.To
	}
	return out
}

type recordingProducer struct {
	mu     sync.Mutex
	events []kafka.EventMessage
}

func (p *recordingProducer) PublishEvent(_ context.Context, event kafka.EventMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingProducer) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.Type
	}
	return out
}

type failingLock struct{ err error }

func (l failingLock) Acquire(context.Context, uuid.UUID) (context.Context, func(), error) {
	return nil, nil, l.err
}

var errMailbox = errors.New("550 mailbox unavailable")
