package store

// Campaign ENUMs
const (
	CampaignStatusDraft     = "draft"
	CampaignStatusActive    = "active"
	CampaignStatusPaused    = "paused"
	CampaignStatusCompleted = "completed"
)

const (
	ScheduleModeImmediate = "immediate"
	ScheduleModeScheduled = "scheduled"
)

// Dispatch Outcome ENUMs
const (
	OutcomeStatusPending = "pending"
	OutcomeStatusSent    = "sent"
	OutcomeStatusFailed  = "failed"
)

// Campaign Trigger ENUMs
const (
	TriggerKindResume         = "resume"
	TriggerKindScheduledStart = "scheduled_start"
)
