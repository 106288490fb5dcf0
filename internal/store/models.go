package store

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// JSONB is a custom type for JSONB fields
type JSONB map[string]interface{}

// Value implements the driver.Valuer interface for JSONB
func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(j)
}

// Scan implements the sql.Scanner interface for JSONB
func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("incompatible type for JSONB")
	}

	if len(bytes) == 0 || string(bytes) == "null" {
		*j = make(JSONB)
		return nil
	}

	result := make(JSONB)
	if err := json.Unmarshal(bytes, &result); err != nil {
		return err
	}
	*j = result
	return nil
}

// Campaign is a batch outreach job owned by one user
type Campaign struct {
	ID             uuid.UUID  `db:"id" json:"id"`
	UserID         uuid.UUID  `db:"user_id" json:"user_id"`
	Name           string     `db:"name" json:"name"`
	EmailTemplate  string     `db:"email_template" json:"email_template"`
	ScheduleMode   string     `db:"schedule_mode" json:"schedule_mode"`
	ScheduledAt    *time.Time `db:"scheduled_at" json:"scheduled_at,omitempty"`
	AttachmentPath *string    `db:"attachment_path" json:"attachment_path,omitempty"`
	Status         string     `db:"status" json:"status"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// Recipient is a single addressee within a campaign
type Recipient struct {
	ID             uuid.UUID `db:"id" json:"id"`
	CampaignID     uuid.UUID `db:"campaign_id" json:"campaign_id"`
	Position       int       `db:"position" json:"position"`
	CompanyName    string    `db:"company_name" json:"company_name"`
	RecipientEmail string    `db:"recipient_email" json:"recipient_email"`
	RecipientName  string    `db:"recipient_name" json:"recipient_name"`
	Role           string    `db:"role" json:"role"`
	Designation    string    `db:"designation" json:"designation"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// DispatchOutcome is the per-recipient send result
type DispatchOutcome struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	CampaignID   uuid.UUID  `db:"campaign_id" json:"campaign_id"`
	RecipientID  *uuid.UUID `db:"recipient_id" json:"recipient_id,omitempty"`
	UserID       uuid.UUID  `db:"user_id" json:"user_id"`
	Status       string     `db:"status" json:"status"`
	ErrorMessage *string    `db:"error_message" json:"error_message,omitempty"`
	SentAt       *time.Time `db:"sent_at" json:"sent_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// PendingRecipient is one entry of a campaign's pending queue snapshot
type PendingRecipient struct {
	OutcomeID   uuid.UUID `db:"outcome_id"`
	RecipientID uuid.UUID `db:"recipient_id"`
	Position    int       `db:"position"`
}

// RecipientOutcome joins a recipient with its outcome for listings
type RecipientOutcome struct {
	Recipient
	Status       string     `db:"status" json:"status"`
	ErrorMessage *string    `db:"error_message" json:"error_message,omitempty"`
	SentAt       *time.Time `db:"sent_at" json:"sent_at,omitempty"`
}

// CampaignStats aggregates outcome counts. Total always equals Sent + Pending + Failed.
type CampaignStats struct {
	Total   int `db:"total" json:"total"`
	Sent    int `db:"sent" json:"sent"`
	Pending int `db:"pending" json:"pending"`
	Failed  int `db:"failed" json:"failed"`
}

// CampaignSummary is a campaign with its outcome counts
type CampaignSummary struct {
	Campaign
	CampaignStats
}

// UserStats aggregates across all campaigns of a user
type UserStats struct {
	TotalCampaigns  int `db:"total_campaigns" json:"total_campaigns"`
	ActiveCampaigns int `db:"active_campaigns" json:"active_campaigns"`
	CampaignStats
}

// RateLimit is the per-user rolling window send counter
type RateLimit struct {
	UserID         uuid.UUID  `db:"user_id" json:"user_id"`
	HourStart      time.Time  `db:"hour_start" json:"hour_start"`
	EmailsThisHour int        `db:"emails_this_hour" json:"emails_this_hour"`
	DayStart       time.Time  `db:"day_start" json:"day_start"`
	EmailsToday    int        `db:"emails_today" json:"emails_today"`
	LastEmailSent  *time.Time `db:"last_email_sent" json:"last_email_sent,omitempty"`
	UpdatedAt      time.Time  `db:"updated_at" json:"updated_at"`
}

// RateRefund identifies the windows a reservation was charged against
type RateRefund struct {
	UserID    uuid.UUID
	HourStart time.Time
	DayStart  time.Time
}

// CampaignTrigger is a durable deferred start or resume of a campaign
type CampaignTrigger struct {
	CampaignID uuid.UUID `db:"campaign_id" json:"campaign_id"`
	Kind       string    `db:"kind" json:"kind"`
	FireAt     time.Time `db:"fire_at" json:"fire_at"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// CampaignActivity is a lifecycle event recorded for a campaign
type CampaignActivity struct {
	ID         uuid.UUID `db:"id" json:"id"`
	CampaignID uuid.UUID `db:"campaign_id" json:"campaign_id"`
	EventID    uuid.UUID `db:"event_id" json:"event_id"`
	EventType  string    `db:"event_type" json:"event_type"`
	Data       JSONB     `db:"data" json:"data"`
	OccurredAt time.Time `db:"occurred_at" json:"occurred_at"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
