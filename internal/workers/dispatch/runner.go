// Package dispatch sends a campaign's pending emails one by one within the owner's quota.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"outreach-server/internal/clients/mail"
	"outreach-server/internal/config"
	"outreach-server/internal/events"
	"outreach-server/internal/observability"
	"outreach-server/internal/ratelimit"
	"outreach-server/internal/render"
	"outreach-server/internal/store"

	"github.com/google/uuid"
)

// Queue is the campaign persistence a run needs
type Queue interface {
	GetCampaignByID(ctx context.Context, campaignID uuid.UUID) (store.Campaign, error)
	GetCampaignStatus(ctx context.Context, campaignID uuid.UUID) (string, error)
	GetPendingRecipients(ctx context.Context, campaignID uuid.UUID) ([]store.PendingRecipient, error)
	GetRecipientByID(ctx context.Context, recipientID uuid.UUID) (store.Recipient, error)
	RecordOutcomeSent(ctx context.Context, recipientID uuid.UUID, sentAt time.Time) error
	RecordOutcomeFailed(ctx context.Context, recipientID uuid.UUID, errMsg string, refund *store.RateRefund) error
	CountPendingOutcomes(ctx context.Context, campaignID uuid.UUID) (int, error)
	GetCampaignStats(ctx context.Context, campaignID uuid.UUID) (store.CampaignStats, error)
	TransitionCampaignStatus(ctx context.Context, campaignID uuid.UUID, from []string, to string) (store.Campaign, error)
	PauseCampaignForQuota(ctx context.Context, campaignID uuid.UUID, resumeAt time.Time) (store.Campaign, error)
}

// Tracker hands out per-user send capacity
type Tracker interface {
	Reserve(ctx context.Context, userID uuid.UUID, now time.Time) (ratelimit.Decision, error)
	Refund(ctx context.Context, res ratelimit.Reservation) error
}

// Runner executes dispatch runs
type Runner struct {
	queue     Queue
	tracker   Tracker
	sender    mail.Sender
	lock      RunLock
	publisher *events.Publisher
	logger    *observability.Logger

	clock  Clock
	jitter Jitter

	minDelay     time.Duration
	maxDelay     time.Duration
	pollInterval time.Duration
	resumeHour   int
	resumeLoc    *time.Location
}

// NewRunner creates a runner using the wall clock and random jitter
func NewRunner(
	queue Queue,
	tracker Tracker,
	sender mail.Sender,
	lock RunLock,
	publisher *events.Publisher,
	cfg config.DispatchConfig,
	logger *observability.Logger,
) *Runner {
	return &Runner{
		queue:        queue,
		tracker:      tracker,
		sender:       sender,
		lock:         lock,
		publisher:    publisher,
		logger:       logger,
		clock:        RealClock(),
		jitter:       RandomJitter,
		minDelay:     cfg.MinDelay,
		maxDelay:     cfg.MaxDelay,
		pollInterval: cfg.StatusPollInterval,
		resumeHour:   cfg.ResumeHour,
		resumeLoc:    cfg.ResumeLocation,
	}
}

// stopReason tells why the send loop ended early
type stopReason int

const (
	stopNone stopReason = iota
	stopInactive
	stopQuota
)

// Run sends to every pending recipient of the campaign in position order, as long as the
// campaign stays active. It returns nil when the run ends normally, whether the campaign
// completed or was paused. Errors mean the campaign is left active and the run should be
// retried; ErrRunInProgress means another run owns the campaign.
func (r *Runner) Run(ctx context.Context, campaignID uuid.UUID) error {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "campaign_id", Value: campaignID.String()},
		observability.Field{Key: "operation", Value: "dispatch_run"},
	)

	runCtx, release, err := r.lock.Acquire(ctx, campaignID)
	if err != nil {
		if errors.Is(err, ErrRunInProgress) {
			r.logger.Info(ctx, "dispatch run already in progress, skipping")
		}
		return err
	}
	defer release()

	campaign, err := r.queue.GetCampaignByID(runCtx, campaignID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			r.logger.Warn(ctx, "campaign no longer exists, nothing to dispatch")
			return nil
		}
		return fmt.Errorf("failed to get campaign: %w", err)
	}
	runCtx = observability.WithFields(runCtx,
		observability.Field{Key: "user_id", Value: campaign.UserID.String()},
	)

	if campaign.Status != store.CampaignStatusActive {
		r.logger.Info(runCtx, fmt.Sprintf("campaign is %s, nothing to dispatch", campaign.Status))
		return nil
	}

	pending, err := r.queue.GetPendingRecipients(runCtx, campaignID)
	if err != nil {
		return fmt.Errorf("failed to get pending recipients: %w", err)
	}
	r.logger.Info(runCtx, fmt.Sprintf("starting dispatch run with %d pending recipients", len(pending)))

	reason, err := r.sendAll(runCtx, campaign, pending)
	if err != nil {
		return err
	}
	if reason != stopNone {
		return nil
	}
	return r.finish(runCtx, campaign)
}

func (r *Runner) sendAll(ctx context.Context, campaign store.Campaign, pending []store.PendingRecipient) (stopReason, error) {
	for i, p := range pending {
		active, err := r.isActive(ctx, campaign.ID)
		if err != nil {
			return stopNone, err
		}
		if !active {
			r.logger.Info(ctx, "campaign is no longer active, stopping run")
			return stopInactive, nil
		}

		recipientCtx := observability.WithFields(ctx,
			observability.Field{Key: "recipient_id", Value: p.RecipientID.String()},
			observability.Field{Key: "position", Value: p.Position},
		)

		recipient, err := r.queue.GetRecipientByID(recipientCtx, p.RecipientID)
		if errors.Is(err, store.ErrNotFound) {
			r.logger.Warn(recipientCtx, "recipient vanished, skipping")
			continue
		}
		if err != nil {
			return stopNone, fmt.Errorf("failed to get recipient: %w", err)
		}

		reason, sent, err := r.sendOne(recipientCtx, campaign, recipient)
		if err != nil || reason != stopNone {
			return reason, err
		}

		if sent && i < len(pending)-1 {
			delay := r.jitter(r.minDelay, r.maxDelay)
			active, err := r.wait(ctx, campaign.ID, r.clock.Now().Add(delay))
			if err != nil {
				return stopNone, err
			}
			if !active {
				r.logger.Info(ctx, "campaign paused during delay, stopping run")
				return stopInactive, nil
			}
		}
	}
	return stopNone, nil
}

// sendOne reserves capacity for the recipient, waiting out full hours, and sends.
// sent reports whether an email went out.
func (r *Runner) sendOne(ctx context.Context, campaign store.Campaign, recipient store.Recipient) (stopReason, bool, error) {
	for {
		decision, err := r.tracker.Reserve(ctx, campaign.UserID, r.clock.Now())
		if err != nil {
			return stopNone, false, fmt.Errorf("failed to reserve capacity: %w", err)
		}

		switch decision.Kind {
		case ratelimit.WaitUntil:
			r.logger.Info(ctx, fmt.Sprintf("hourly limit reached, waiting until %s", decision.Until.Format(time.RFC3339)))
			active, err := r.wait(ctx, campaign.ID, decision.Until)
			if err != nil {
				return stopNone, false, err
			}
			if !active {
				r.logger.Info(ctx, "campaign paused during hourly wait, stopping run")
				return stopInactive, false, nil
			}
			continue

		case ratelimit.DailyCapExceeded:
			return r.pauseForQuota(ctx, campaign)

		case ratelimit.Allowed:
			sent, err := r.deliver(ctx, campaign, recipient, decision.Reservation)
			return stopNone, sent, err
		}
		return stopNone, false, fmt.Errorf("unexpected capacity decision %s", decision.Kind)
	}
}

func (r *Runner) deliver(ctx context.Context, campaign store.Campaign, recipient store.Recipient, res ratelimit.Reservation) (bool, error) {
	subject, body := render.Render(campaign.EmailTemplate, render.Fields{
		CompanyName:   recipient.CompanyName,
		RecipientName: recipient.RecipientName,
		Role:          recipient.Role,
		Designation:   recipient.Designation,
	})
	msg := mail.Message{
		To:      recipient.RecipientEmail,
		Subject: subject,
		Body:    body,
	}
	if campaign.AttachmentPath != nil {
		msg.AttachmentPath = *campaign.AttachmentPath
	}

	sendErr := r.sender.Send(ctx, msg)

	// Failures that would repeat for every recipient abort the run and leave the campaign active.
	if errors.Is(sendErr, mail.ErrTransport) || errors.Is(sendErr, mail.ErrAttachmentUnavailable) {
		if err := r.tracker.Refund(ctx, res); err != nil {
			r.logger.Error(ctx, "failed to refund reservation", err)
		}
		return false, fmt.Errorf("send aborted: %w", sendErr)
	}

	if sendErr != nil {
		r.logger.WarnWithError(ctx, "failed to send email", sendErr)
		err := r.queue.RecordOutcomeFailed(ctx, recipient.ID, sendErr.Error(), res.Refund())
		switch {
		case errors.Is(err, store.ErrNotFound):
			r.logger.Warn(ctx, "recipient vanished before the failure was recorded")
			if err := r.tracker.Refund(ctx, res); err != nil {
				r.logger.Error(ctx, "failed to refund reservation", err)
			}
			return false, nil
		case errors.Is(err, store.ErrOutcomeConflict):
			r.logger.Warn(ctx, "outcome was already settled differently, keeping it")
			return false, nil
		case err != nil:
			return false, fmt.Errorf("failed to record failed outcome: %w", err)
		}
		if err := r.publisher.PublishRecipientFailed(ctx, campaign.ID, campaign.UserID, recipient.ID, recipient.RecipientEmail, sendErr.Error()); err != nil {
			r.logger.WarnWithError(ctx, "failed to publish recipient.failed", err)
		}
		return false, nil
	}

	err := r.queue.RecordOutcomeSent(ctx, recipient.ID, r.clock.Now())
	switch {
	case errors.Is(err, store.ErrNotFound):
		r.logger.Warn(ctx, "recipient vanished after the email was sent")
		return true, nil
	case errors.Is(err, store.ErrOutcomeConflict):
		r.logger.Warn(ctx, "outcome was already settled differently, keeping it")
		return true, nil
	case err != nil:
		return true, fmt.Errorf("failed to record sent outcome: %w", err)
	}

	r.logger.Info(ctx, "email sent")
	if err := r.publisher.PublishRecipientSent(ctx, campaign.ID, campaign.UserID, recipient.ID, recipient.RecipientEmail); err != nil {
		r.logger.WarnWithError(ctx, "failed to publish recipient.sent", err)
	}
	return true, nil
}

func (r *Runner) pauseForQuota(ctx context.Context, campaign store.Campaign) (stopReason, bool, error) {
	resumeAt := NextResumeAt(r.clock.Now(), r.resumeHour, r.resumeLoc)
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "resume_at", Value: resumeAt.Format(time.RFC3339)},
	)

	_, err := r.queue.PauseCampaignForQuota(ctx, campaign.ID, resumeAt)
	if errors.Is(err, store.ErrInvalidTransition) {
		r.logger.Info(ctx, "daily limit reached but campaign is no longer active")
		return stopInactive, false, nil
	}
	if err != nil {
		return stopNone, false, fmt.Errorf("failed to pause campaign for quota: %w", err)
	}

	r.logger.Info(ctx, "daily limit reached, campaign paused until next day")
	if err := r.publisher.PublishCampaignQuotaPaused(ctx, campaign.ID, campaign.UserID, resumeAt); err != nil {
		r.logger.WarnWithError(ctx, "failed to publish campaign.quota_paused", err)
	}
	return stopQuota, false, nil
}

func (r *Runner) finish(ctx context.Context, campaign store.Campaign) error {
	remaining, err := r.queue.CountPendingOutcomes(ctx, campaign.ID)
	if err != nil {
		return fmt.Errorf("failed to count pending outcomes: %w", err)
	}
	if remaining > 0 {
		r.logger.Warn(ctx, fmt.Sprintf("run finished with %d recipients still pending", remaining))
		return nil
	}

	_, err = r.queue.TransitionCampaignStatus(ctx, campaign.ID, []string{store.CampaignStatusActive}, store.CampaignStatusCompleted)
	if errors.Is(err, store.ErrInvalidTransition) {
		r.logger.Info(ctx, "campaign left active before it could complete")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to complete campaign: %w", err)
	}

	data := map[string]interface{}{}
	if stats, err := r.queue.GetCampaignStats(ctx, campaign.ID); err == nil {
		data["total"] = stats.Total
		data["sent"] = stats.Sent
		data["failed"] = stats.Failed
	}
	r.logger.Info(ctx, "campaign completed")
	if err := r.publisher.PublishCampaignCompleted(ctx, campaign.ID, campaign.UserID, data); err != nil {
		r.logger.WarnWithError(ctx, "failed to publish campaign.completed", err)
	}
	return nil
}

func (r *Runner) isActive(ctx context.Context, campaignID uuid.UUID) (bool, error) {
	status, err := r.queue.GetCampaignStatus(ctx, campaignID)
	if errors.Is(err, store.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get campaign status: %w", err)
	}
	return status == store.CampaignStatusActive, nil
}

// wait sleeps until the given time in slices of the poll interval and reports whether
// the campaign was still active at every check.
func (r *Runner) wait(ctx context.Context, campaignID uuid.UUID, until time.Time) (bool, error) {
	for {
		remaining := until.Sub(r.clock.Now())
		if remaining <= 0 {
			return r.isActive(ctx, campaignID)
		}
		step := remaining
		if r.pollInterval > 0 && r.pollInterval < step {
			step = r.pollInterval
		}
		if err := r.clock.Sleep(ctx, step); err != nil {
			return false, err
		}
		active, err := r.isActive(ctx, campaignID)
		if err != nil || !active {
			return active, err
		}
	}
}
