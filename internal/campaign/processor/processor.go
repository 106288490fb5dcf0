package processor

//go:generate go run go.uber.org/mock/mockgen@latest -source=processor.go -destination=mocks_test.go -package=processor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"outreach-server/internal/events"
	"outreach-server/internal/ingest"
	"outreach-server/internal/observability"
	"outreach-server/internal/ratelimit"
	"outreach-server/internal/store"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CampaignStore defines the database operations required by CampaignProcessor
type CampaignStore interface {
	// Campaigns
	CreateCampaignWithRecipients(ctx context.Context, params store.CreateCampaignParams) (store.Campaign, error)
	GetCampaignForUser(ctx context.Context, campaignID, userID uuid.UUID) (store.Campaign, error)
	ListCampaignsByUser(ctx context.Context, userID uuid.UUID) ([]store.CampaignSummary, error)
	TransitionCampaignStatus(ctx context.Context, campaignID uuid.UUID, from []string, to string) (store.Campaign, error)
	DeleteCampaign(ctx context.Context, campaignID, userID uuid.UUID) error

	// Triggers
	GetCampaignTrigger(ctx context.Context, campaignID uuid.UUID) (store.CampaignTrigger, error)
	DeleteCampaignTrigger(ctx context.Context, campaignID uuid.UUID) error
	FireCampaignTrigger(ctx context.Context, campaignID uuid.UUID, now time.Time, lease time.Duration) (store.FiredTrigger, error)
	CompleteCampaignTrigger(ctx context.Context, trigger store.CampaignTrigger) error

	// Recipients and stats
	GetCampaignStats(ctx context.Context, campaignID uuid.UUID) (store.CampaignStats, error)
	GetUserStats(ctx context.Context, userID uuid.UUID) (store.UserStats, error)
	ListRecipientOutcomes(ctx context.Context, params store.ListRecipientOutcomesParams) ([]store.RecipientOutcome, error)
	DeleteRecipient(ctx context.Context, campaignID, recipientID uuid.UUID) error

	// Activity
	ListCampaignActivity(ctx context.Context, campaignID uuid.UUID, limit int) ([]store.CampaignActivity, error)
}

// DispatchEnqueuer starts a dispatch run for an active campaign
type DispatchEnqueuer interface {
	EnqueueCampaignDispatch(ctx context.Context, campaignID uuid.UUID) error
}

// QuotaReader reports a user's remaining send capacity
type QuotaReader interface {
	Snapshot(ctx context.Context, userID uuid.UUID, now time.Time) (ratelimit.Usage, error)
}

var (
	ErrCampaignNotFound          = errors.New("campaign not found")
	ErrCampaignAlreadyRunning    = errors.New("campaign is already running")
	ErrCampaignNotActive         = errors.New("campaign is not running")
	ErrCampaignCompleted         = errors.New("campaign is already completed")
	ErrRecipientNotFound         = errors.New("recipient not found")
	ErrRecipientAlreadyProcessed = errors.New("recipient was already sent or failed")
	ErrNoRecipients              = errors.New("campaign has no valid recipients")
	ErrDuplicateRecipient        = errors.New("recipient email appears more than once")
	ErrInvalidSchedule           = errors.New("invalid schedule")
	ErrInvalidTemplate           = errors.New("email template is required")
	ErrInvalidStatusFilter       = errors.New("invalid recipient status filter")
	ErrUnsupportedFile           = errors.New("invalid recipient file")
	ErrAttachmentsUnsupported    = errors.New("configured mail provider does not support attachments")
)

const (
	defaultRecipientPageSize = 50
	maxRecipientPageSize     = 500
	defaultActivityLimit     = 100
	maxActivityLimit         = 1000

	// triggerLease is how long a fired trigger waits for its run to be queued before firing again
	triggerLease = 5 * time.Minute
)

type CampaignProcessor struct {
	store                CampaignStore
	dispatcher           DispatchEnqueuer
	quota                QuotaReader
	publisher            *events.Publisher
	attachmentsSupported bool
	logger               *observability.Logger
	now                  func() time.Time
}

func New(store CampaignStore, dispatcher DispatchEnqueuer, quota QuotaReader, publisher *events.Publisher, attachmentsSupported bool, logger *observability.Logger) CampaignProcessor {
	return CampaignProcessor{
		store:                store,
		dispatcher:           dispatcher,
		quota:                quota,
		publisher:            publisher,
		attachmentsSupported: attachmentsSupported,
		logger:               logger,
		now:                  time.Now,
	}
}

// RecipientParams is one recipient supplied with a new campaign
type RecipientParams struct {
	CompanyName   string
	Email         string
	RecipientName string
	Role          string
	Designation   string
}

// CreateCampaignParams represents parameters for creating a campaign
type CreateCampaignParams struct {
	Name           string
	EmailTemplate  string
	ScheduleMode   string
	ScheduledAt    *time.Time
	AttachmentPath *string
	Recipients     []RecipientParams
}

// ImportCampaignParams creates a campaign from a recipient spreadsheet
type ImportCampaignParams struct {
	Name           string
	EmailTemplate  string
	ScheduleMode   string
	ScheduledAt    *time.Time
	AttachmentPath *string
	Filename       string
	File           io.Reader
}

// CreateResult is the outcome of Create and Import
type CreateResult struct {
	Campaign store.Campaign `json:"campaign"`
	Started  bool           `json:"started"`
	Report   ingest.Report  `json:"report"`
}

// StartResult reports a Start or Pause request. An invalid state is not an error, it comes
// back with Started false and the text of ErrCampaignCompleted, ErrCampaignAlreadyRunning or
// ErrCampaignNotActive as the message.
type StartResult struct {
	Started bool   `json:"started"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// CampaignStatus is the progress view of one campaign
type CampaignStatus struct {
	CampaignID uuid.UUID  `json:"campaign_id"`
	Status     string     `json:"status"`
	Total      int        `json:"total"`
	Sent       int        `json:"sent"`
	Pending    int        `json:"pending"`
	Failed     int        `json:"failed"`
	NextFireAt *time.Time `json:"next_fire_at,omitempty"`
	NextAction string     `json:"next_action,omitempty"`
}

// CampaignDetail is a campaign with its outcome counts
type CampaignDetail struct {
	store.Campaign
	Stats store.CampaignStats `json:"stats"`
}

// ListRecipientsParams pages the per-recipient view of a campaign
type ListRecipientsParams struct {
	Status *string
	Limit  int
	Offset int
}

// Create persists a draft campaign with its recipients. An immediate campaign goes active
// and a dispatch run is enqueued; a scheduled campaign waits for its start trigger.
func (p *CampaignProcessor) Create(ctx context.Context, userID uuid.UUID, params CreateCampaignParams) (CreateResult, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "user_id", Value: userID.String()},
		observability.Field{Key: "schedule_mode", Value: params.ScheduleMode},
	)

	records := make([]ingest.Record, len(params.Recipients))
	for i, r := range params.Recipients {
		records[i] = ingest.Record{
			CompanyName: r.CompanyName,
			Email:       r.Email,
			Name:        r.RecipientName,
			Role:        r.Role,
			Designation: r.Designation,
		}
	}
	kept, report := ingest.Clean(records)

	return p.create(ctx, userID, params, kept, report)
}

// Import reads recipients from a .csv or .xlsx file and creates the campaign the same way
// Create does.
func (p *CampaignProcessor) Import(ctx context.Context, userID uuid.UUID, params ImportCampaignParams) (CreateResult, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "user_id", Value: userID.String()},
		observability.Field{Key: "schedule_mode", Value: params.ScheduleMode},
		observability.Field{Key: "filename", Value: params.Filename},
	)

	records, report, err := ingest.Parse(params.Filename, params.File)
	if err != nil {
		p.logger.WarnWithError(ctx, "failed to parse recipient file", err)
		return CreateResult{}, fmt.Errorf("%w: %v", ErrUnsupportedFile, err)
	}

	ctx = observability.WithFields(ctx,
		observability.Field{Key: "rows_read", Value: report.RowsRead},
		observability.Field{Key: "rows_kept", Value: report.Kept},
	)
	p.logger.Info(ctx, "parsed recipient file")

	return p.create(ctx, userID, CreateCampaignParams{
		Name:           params.Name,
		EmailTemplate:  params.EmailTemplate,
		ScheduleMode:   params.ScheduleMode,
		ScheduledAt:    params.ScheduledAt,
		AttachmentPath: params.AttachmentPath,
	}, records, report)
}

func (p *CampaignProcessor) create(ctx context.Context, userID uuid.UUID, params CreateCampaignParams, records []ingest.Record, report ingest.Report) (CreateResult, error) {
	if strings.TrimSpace(params.EmailTemplate) == "" {
		return CreateResult{}, ErrInvalidTemplate
	}
	if err := validateSchedule(params.ScheduleMode, params.ScheduledAt); err != nil {
		return CreateResult{}, err
	}
	if params.AttachmentPath != nil && !p.attachmentsSupported {
		return CreateResult{}, ErrAttachmentsUnsupported
	}
	if len(records) == 0 {
		return CreateResult{}, ErrNoRecipients
	}

	recipients := make([]store.CreateRecipientParams, len(records))
	for i, r := range records {
		recipients[i] = store.CreateRecipientParams{
			CompanyName:    r.CompanyName,
			RecipientEmail: r.Email,
			RecipientName:  r.Name,
			Role:           r.Role,
			Designation:    r.Designation,
		}
	}

	campaign, err := p.store.CreateCampaignWithRecipients(ctx, store.CreateCampaignParams{
		UserID:         userID,
		Name:           params.Name,
		EmailTemplate:  params.EmailTemplate,
		ScheduleMode:   params.ScheduleMode,
		ScheduledAt:    params.ScheduledAt,
		AttachmentPath: params.AttachmentPath,
		Recipients:     recipients,
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			return CreateResult{}, ErrDuplicateRecipient
		}
		p.logger.Error(ctx, "failed to create campaign", err)
		return CreateResult{}, err
	}

	ctx = observability.WithFields(ctx, observability.Field{Key: "campaign_id", Value: campaign.ID.String()})
	p.logPublish(ctx, p.publisher.PublishCampaignCreated(ctx, campaign.ID, userID, campaign.Name, len(recipients)))

	result := CreateResult{Campaign: campaign, Report: report}
	if params.ScheduleMode == store.ScheduleModeScheduled {
		p.logger.Info(ctx, "scheduled campaign created")
		return result, nil
	}

	activated, err := p.store.TransitionCampaignStatus(ctx, campaign.ID, []string{store.CampaignStatusDraft}, store.CampaignStatusActive)
	if err != nil {
		p.logger.Error(ctx, "failed to activate campaign", err)
		return CreateResult{}, err
	}
	result.Campaign = activated

	if err := p.dispatcher.EnqueueCampaignDispatch(ctx, campaign.ID); err != nil {
		p.logger.Error(ctx, "failed to enqueue campaign dispatch", err)
		return CreateResult{}, err
	}
	result.Started = true
	p.logPublish(ctx, p.publisher.PublishCampaignStarted(ctx, campaign.ID, userID))

	p.logger.Info(ctx, "campaign created and started")
	return result, nil
}

func validateSchedule(mode string, scheduledAt *time.Time) error {
	switch mode {
	case store.ScheduleModeImmediate:
		return nil
	case store.ScheduleModeScheduled:
		if scheduledAt == nil || scheduledAt.IsZero() {
			return fmt.Errorf("%w: scheduled_at is required for scheduled campaigns", ErrInvalidSchedule)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown schedule mode %q", ErrInvalidSchedule, mode)
	}
}

// Start moves a draft or paused campaign to active and enqueues a run. Any pending trigger
// is dropped. Starting an active campaign enqueues another run, which the run lock turns
// into a no-op while the first is still going.
func (p *CampaignProcessor) Start(ctx context.Context, userID, campaignID uuid.UUID) (StartResult, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "user_id", Value: userID.String()},
		observability.Field{Key: "campaign_id", Value: campaignID.String()},
	)

	campaign, err := p.getCampaign(ctx, userID, campaignID)
	if err != nil {
		return StartResult{}, err
	}

	switch campaign.Status {
	case store.CampaignStatusCompleted:
		return StartResult{Status: campaign.Status, Message: ErrCampaignCompleted.Error()}, nil
	case store.CampaignStatusActive:
		if err := p.dispatcher.EnqueueCampaignDispatch(ctx, campaignID); err != nil {
			p.logger.Error(ctx, "failed to enqueue campaign dispatch", err)
			return StartResult{}, err
		}
		return StartResult{Status: campaign.Status, Message: ErrCampaignAlreadyRunning.Error()}, nil
	}

	activated, err := p.store.TransitionCampaignStatus(ctx, campaignID,
		[]string{store.CampaignStatusDraft, store.CampaignStatusPaused}, store.CampaignStatusActive)
	if err != nil {
		if errors.Is(err, store.ErrInvalidTransition) {
			return StartResult{Status: campaign.Status, Message: "campaign changed state, try again"}, nil
		}
		p.logger.Error(ctx, "failed to activate campaign", err)
		return StartResult{}, err
	}

	if err := p.store.DeleteCampaignTrigger(ctx, campaignID); err != nil {
		p.logger.WarnWithError(ctx, "failed to delete pending campaign trigger", err)
	}

	if err := p.dispatcher.EnqueueCampaignDispatch(ctx, campaignID); err != nil {
		p.logger.Error(ctx, "failed to enqueue campaign dispatch", err)
		return StartResult{}, err
	}

	if campaign.Status == store.CampaignStatusPaused {
		p.logPublish(ctx, p.publisher.PublishCampaignResumed(ctx, campaignID, userID))
	} else {
		p.logPublish(ctx, p.publisher.PublishCampaignStarted(ctx, campaignID, userID))
	}

	p.logger.Info(ctx, "campaign started")
	return StartResult{Started: true, Status: activated.Status, Message: "campaign started"}, nil
}

// Pause moves an active campaign to paused. The running loop notices at its next check.
func (p *CampaignProcessor) Pause(ctx context.Context, userID, campaignID uuid.UUID) (StartResult, error) {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "user_id", Value: userID.String()},
		observability.Field{Key: "campaign_id", Value: campaignID.String()},
	)

	campaign, err := p.getCampaign(ctx, userID, campaignID)
	if err != nil {
		return StartResult{}, err
	}
	if campaign.Status != store.CampaignStatusActive {
		return StartResult{Status: campaign.Status, Message: ErrCampaignNotActive.Error()}, nil
	}

	paused, err := p.store.TransitionCampaignStatus(ctx, campaignID, []string{store.CampaignStatusActive}, store.CampaignStatusPaused)
	if err != nil {
		if errors.Is(err, store.ErrInvalidTransition) {
			return StartResult{Status: campaign.Status, Message: ErrCampaignNotActive.Error()}, nil
		}
		p.logger.Error(ctx, "failed to pause campaign", err)
		return StartResult{}, err
	}

	// A trigger still leased from an interrupted firing would otherwise resume the campaign.
	if err := p.store.DeleteCampaignTrigger(ctx, campaignID); err != nil {
		p.logger.WarnWithError(ctx, "failed to delete pending campaign trigger", err)
	}

	p.logPublish(ctx, p.publisher.PublishCampaignPaused(ctx, campaignID, userID))
	p.logger.Info(ctx, "campaign paused")
	return StartResult{Started: false, Status: paused.Status, Message: "campaign paused"}, nil
}

// FireTrigger claims a due trigger of the campaign and, when the campaign is active, enqueues a
// dispatch run. The trigger is only removed once the run is queued; if enqueueing fails it fires
// again after triggerLease. A trigger that is not due or already claimed is a no-op.
func (p *CampaignProcessor) FireTrigger(ctx context.Context, campaignID uuid.UUID) error {
	ctx = observability.WithFields(ctx, observability.Field{Key: "campaign_id", Value: campaignID.String()})

	fired, err := p.store.FireCampaignTrigger(ctx, campaignID, p.now(), triggerLease)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		p.logger.Error(ctx, "failed to fire campaign trigger", err)
		return err
	}

	ctx = observability.WithFields(ctx,
		observability.Field{Key: "trigger_kind", Value: fired.Trigger.Kind},
		observability.Field{Key: "status", Value: fired.Campaign.Status},
	)
	if !fired.Dispatch {
		p.logger.Info(ctx, "campaign trigger fired without state change")
		return nil
	}

	if err := p.dispatcher.EnqueueCampaignDispatch(ctx, campaignID); err != nil {
		p.logger.Error(ctx, "failed to enqueue campaign dispatch, trigger kept for retry", err)
		return err
	}

	if err := p.store.CompleteCampaignTrigger(ctx, fired.Trigger); err != nil {
		p.logger.WarnWithError(ctx, "failed to complete campaign trigger", err)
	}

	if !fired.Activated {
		p.logger.Info(ctx, "re-enqueued dispatch for active campaign")
		return nil
	}
	if fired.Trigger.Kind == store.TriggerKindResume {
		p.logPublish(ctx, p.publisher.PublishCampaignResumed(ctx, campaignID, fired.Campaign.UserID))
	} else {
		p.logPublish(ctx, p.publisher.PublishCampaignStarted(ctx, campaignID, fired.Campaign.UserID))
	}

	p.logger.Info(ctx, "campaign trigger fired")
	return nil
}

// GetStatus returns the campaign's status with its outcome counts and pending trigger
func (p *CampaignProcessor) GetStatus(ctx context.Context, userID, campaignID uuid.UUID) (CampaignStatus, error) {
	campaign, err := p.getCampaign(ctx, userID, campaignID)
	if err != nil {
		return CampaignStatus{}, err
	}

	stats, err := p.store.GetCampaignStats(ctx, campaignID)
	if err != nil {
		p.logger.Error(ctx, "failed to get campaign stats", err)
		return CampaignStatus{}, err
	}

	status := CampaignStatus{
		CampaignID: campaignID,
		Status:     campaign.Status,
		Total:      stats.Total,
		Sent:       stats.Sent,
		Pending:    stats.Pending,
		Failed:     stats.Failed,
	}

	trigger, err := p.store.GetCampaignTrigger(ctx, campaignID)
	switch {
	case err == nil:
		fireAt := trigger.FireAt
		status.NextFireAt = &fireAt
		status.NextAction = trigger.Kind
	case !errors.Is(err, store.ErrNotFound):
		p.logger.Error(ctx, "failed to get campaign trigger", err)
		return CampaignStatus{}, err
	}

	return status, nil
}

// GetCampaign returns one campaign of the user with its outcome counts
func (p *CampaignProcessor) GetCampaign(ctx context.Context, userID, campaignID uuid.UUID) (CampaignDetail, error) {
	campaign, err := p.getCampaign(ctx, userID, campaignID)
	if err != nil {
		return CampaignDetail{}, err
	}

	stats, err := p.store.GetCampaignStats(ctx, campaignID)
	if err != nil {
		p.logger.Error(ctx, "failed to get campaign stats", err)
		return CampaignDetail{}, err
	}

	return CampaignDetail{Campaign: campaign, Stats: stats}, nil
}

// ListCampaigns returns the user's campaigns, newest first
func (p *CampaignProcessor) ListCampaigns(ctx context.Context, userID uuid.UUID) ([]store.CampaignSummary, error) {
	campaigns, err := p.store.ListCampaignsByUser(ctx, userID)
	if err != nil {
		p.logger.Error(ctx, "failed to list campaigns", err)
		return nil, err
	}
	return campaigns, nil
}

// ListRecipients pages the recipients of a campaign with their outcome, optionally filtered
// by outcome status
func (p *CampaignProcessor) ListRecipients(ctx context.Context, userID, campaignID uuid.UUID, params ListRecipientsParams) ([]store.RecipientOutcome, error) {
	if params.Status != nil && !isValidOutcomeStatus(*params.Status) {
		return nil, ErrInvalidStatusFilter
	}
	if _, err := p.getCampaign(ctx, userID, campaignID); err != nil {
		return nil, err
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultRecipientPageSize
	}
	if limit > maxRecipientPageSize {
		limit = maxRecipientPageSize
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	recipients, err := p.store.ListRecipientOutcomes(ctx, store.ListRecipientOutcomesParams{
		CampaignID: campaignID,
		Status:     params.Status,
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		p.logger.Error(ctx, "failed to list recipients", err)
		return nil, err
	}
	return recipients, nil
}

// RemoveRecipient deletes a recipient that has not been dispatched yet
func (p *CampaignProcessor) RemoveRecipient(ctx context.Context, userID, campaignID, recipientID uuid.UUID) error {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "campaign_id", Value: campaignID.String()},
		observability.Field{Key: "recipient_id", Value: recipientID.String()},
	)

	if _, err := p.getCampaign(ctx, userID, campaignID); err != nil {
		return err
	}

	err := p.store.DeleteRecipient(ctx, campaignID, recipientID)
	switch {
	case err == nil:
		p.logger.Info(ctx, "recipient removed")
		return nil
	case errors.Is(err, store.ErrNotFound):
		return ErrRecipientNotFound
	case errors.Is(err, store.ErrOutcomeConflict):
		return ErrRecipientAlreadyProcessed
	default:
		p.logger.Error(ctx, "failed to remove recipient", err)
		return err
	}
}

// DeleteCampaign removes a campaign with its recipients, outcomes, trigger and activity.
// A running loop sees the campaign gone at its next status check and stops.
func (p *CampaignProcessor) DeleteCampaign(ctx context.Context, userID, campaignID uuid.UUID) error {
	ctx = observability.WithFields(ctx,
		observability.Field{Key: "user_id", Value: userID.String()},
		observability.Field{Key: "campaign_id", Value: campaignID.String()},
	)

	if err := p.store.DeleteCampaign(ctx, campaignID, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrCampaignNotFound
		}
		p.logger.Error(ctx, "failed to delete campaign", err)
		return err
	}

	p.logger.Info(ctx, "campaign deleted")
	return nil
}

// GetDashboardStats aggregates counts across all campaigns of the user
func (p *CampaignProcessor) GetDashboardStats(ctx context.Context, userID uuid.UUID) (store.UserStats, error) {
	stats, err := p.store.GetUserStats(ctx, userID)
	if err != nil {
		p.logger.Error(ctx, "failed to get user stats", err)
		return store.UserStats{}, err
	}
	return stats, nil
}

// GetQuota returns the user's current hourly and daily usage
func (p *CampaignProcessor) GetQuota(ctx context.Context, userID uuid.UUID) (ratelimit.Usage, error) {
	usage, err := p.quota.Snapshot(ctx, userID, p.now())
	if err != nil {
		p.logger.Error(ctx, "failed to get quota usage", err)
		return ratelimit.Usage{}, err
	}
	return usage, nil
}

// ListActivity returns the campaign's recorded events, newest first
func (p *CampaignProcessor) ListActivity(ctx context.Context, userID, campaignID uuid.UUID, limit int) ([]store.CampaignActivity, error) {
	if _, err := p.getCampaign(ctx, userID, campaignID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}

	activity, err := p.store.ListCampaignActivity(ctx, campaignID, limit)
	if err != nil {
		p.logger.Error(ctx, "failed to list campaign activity", err)
		return nil, err
	}
	return activity, nil
}

func (p *CampaignProcessor) getCampaign(ctx context.Context, userID, campaignID uuid.UUID) (store.Campaign, error) {
	campaign, err := p.store.GetCampaignForUser(ctx, campaignID, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Campaign{}, ErrCampaignNotFound
		}
		p.logger.Error(ctx, "failed to get campaign", err)
		return store.Campaign{}, err
	}
	return campaign, nil
}

func (p *CampaignProcessor) logPublish(ctx context.Context, err error) {
	if err != nil {
		p.logger.WarnWithError(ctx, "failed to publish campaign event", err)
	}
}

func isValidOutcomeStatus(status string) bool {
	switch status {
	case store.OutcomeStatusPending, store.OutcomeStatusSent, store.OutcomeStatusFailed:
		return true
	default:
		return false
	}
}
