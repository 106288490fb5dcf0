package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Fixtures provides factory functions for creating test data.
// All factory methods use testify/require to fail fast on errors.
type Fixtures struct {
	t      *testing.T
	testDB *TestDB
	ctx    context.Context
}

// NewFixtures creates a new Fixtures instance for test data generation.
func NewFixtures(t *testing.T, testDB *TestDB) *Fixtures {
	t.Helper()
	return &Fixtures{
		t:      t,
		testDB: testDB,
		ctx:    context.Background(),
	}
}

// --- Campaign Fixtures ---

// CampaignOpts customizes campaign creation.
type CampaignOpts struct {
	UserID         uuid.UUID
	Name           string
	Template       string
	ScheduleMode   string
	ScheduledAt    *time.Time
	AttachmentPath *string
	RecipientCount int
}

// DefaultCampaignOpts returns sensible defaults for campaign creation.
func DefaultCampaignOpts() CampaignOpts {
	return CampaignOpts{
		UserID:         uuid.New(),
		Name:           "Test Campaign",
		Template:       "Subject: Hi {company_name}\n\nDear {recipient_name},",
		ScheduleMode:   ScheduleModeImmediate,
		RecipientCount: 3,
	}
}

// CreateCampaign creates a draft campaign with RecipientCount recipients, each with a pending outcome.
func (f *Fixtures) CreateCampaign(opts ...func(*CampaignOpts)) (Campaign, []Recipient) {
	f.t.Helper()
	o := DefaultCampaignOpts()
	for _, fn := range opts {
		fn(&o)
	}

	recipients := make([]CreateRecipientParams, 0, o.RecipientCount)
	for i := 0; i < o.RecipientCount; i++ {
		recipients = append(recipients, CreateRecipientParams{
			CompanyName:    fmt.Sprintf("Company %d", i+1),
			RecipientEmail: fmt.Sprintf("hr%d-%s@example.com", i+1, uuid.New().String()[:8]),
			RecipientName:  fmt.Sprintf("Contact %d", i+1),
			Role:           "Backend Engineer",
			Designation:    "HR",
		})
	}

	campaign, err := f.testDB.Store.CreateCampaignWithRecipients(f.ctx, CreateCampaignParams{
		UserID:         o.UserID,
		Name:           o.Name,
		EmailTemplate:  o.Template,
		ScheduleMode:   o.ScheduleMode,
		ScheduledAt:    o.ScheduledAt,
		AttachmentPath: o.AttachmentPath,
		Recipients:     recipients,
	})
	require.NoError(f.t, err, "failed to create test campaign")

	var created []Recipient
	err = f.testDB.GetDB().SelectContext(f.ctx, &created,
		`SELECT id, campaign_id, position, company_name, recipient_email, recipient_name, role, designation, created_at
		 FROM recipients WHERE campaign_id = $1 ORDER BY position`, campaign.ID)
	require.NoError(f.t, err, "failed to load test recipients")
	return campaign, created
}

// SetCampaignStatus forces a status without going through a transition.
func (f *Fixtures) SetCampaignStatus(campaignID uuid.UUID, status string) {
	f.t.Helper()
	f.testDB.MustExec(f.t, `UPDATE campaigns SET status = $2 WHERE id = $1`, campaignID, status)
}

// --- Rate Limit Fixtures ---

// CreateRateLimit inserts a rate row with the given counters.
func (f *Fixtures) CreateRateLimit(userID uuid.UUID, hourStart time.Time, thisHour int, dayStart time.Time, today int) {
	f.t.Helper()
	f.testDB.MustExec(f.t,
		`INSERT INTO rate_limits (user_id, hour_start, emails_this_hour, day_start, emails_today) VALUES ($1, $2, $3, $4, $5)`,
		userID, hourStart, thisHour, dayStart, today)
}
