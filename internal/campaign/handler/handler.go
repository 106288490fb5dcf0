package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"outreach-server/internal/apierrors"
	authHandler "outreach-server/internal/auth/handler"
	"outreach-server/internal/campaign/processor"
	"outreach-server/internal/config"
	"outreach-server/internal/observability"
	"outreach-server/internal/ratelimit"
	"outreach-server/internal/store"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CampaignService is the part of the campaign processor the HTTP layer drives
type CampaignService interface {
	Create(ctx context.Context, userID uuid.UUID, params processor.CreateCampaignParams) (processor.CreateResult, error)
	Import(ctx context.Context, userID uuid.UUID, params processor.ImportCampaignParams) (processor.CreateResult, error)
	Start(ctx context.Context, userID, campaignID uuid.UUID) (processor.StartResult, error)
	Pause(ctx context.Context, userID, campaignID uuid.UUID) (processor.StartResult, error)
	GetStatus(ctx context.Context, userID, campaignID uuid.UUID) (processor.CampaignStatus, error)
	GetCampaign(ctx context.Context, userID, campaignID uuid.UUID) (processor.CampaignDetail, error)
	ListCampaigns(ctx context.Context, userID uuid.UUID) ([]store.CampaignSummary, error)
	ListRecipients(ctx context.Context, userID, campaignID uuid.UUID, params processor.ListRecipientsParams) ([]store.RecipientOutcome, error)
	RemoveRecipient(ctx context.Context, userID, campaignID, recipientID uuid.UUID) error
	DeleteCampaign(ctx context.Context, userID, campaignID uuid.UUID) error
	GetDashboardStats(ctx context.Context, userID uuid.UUID) (store.UserStats, error)
	GetQuota(ctx context.Context, userID uuid.UUID) (ratelimit.Usage, error)
	ListActivity(ctx context.Context, userID, campaignID uuid.UUID, limit int) ([]store.CampaignActivity, error)
}

type Handler struct {
	processor CampaignService
	uploads   config.UploadConfig
	logger    *observability.Logger
}

func New(processor CampaignService, uploads config.UploadConfig, logger *observability.Logger) Handler {
	return Handler{
		processor: processor,
		uploads:   uploads,
		logger:    logger,
	}
}

// RecipientRequest represents one inline recipient in HTTP request
type RecipientRequest struct {
	CompanyName   string `json:"company_name" binding:"required,max=255"`
	Email         string `json:"email" binding:"required,email"`
	RecipientName string `json:"recipient_name" binding:"max=255"`
	Role          string `json:"role" binding:"max=255"`
	Designation   string `json:"designation" binding:"max=255"`
}

// CreateCampaignRequest represents the HTTP request for creating a campaign
type CreateCampaignRequest struct {
	Name          string             `json:"name" binding:"required,min=1,max=255"`
	EmailTemplate string             `json:"email_template" binding:"required"`
	ScheduleMode  string             `json:"schedule_mode" binding:"required,oneof=immediate scheduled"`
	ScheduledAt   *time.Time         `json:"scheduled_at" binding:"required_if=ScheduleMode scheduled"`
	Recipients    []RecipientRequest `json:"recipients" binding:"required,min=1,dive"`
}

// ImportCampaignRequest represents the form fields of a multipart import
type ImportCampaignRequest struct {
	Name          string `form:"name" binding:"required,min=1,max=255"`
	EmailTemplate string `form:"email_template" binding:"required"`
	ScheduleMode  string `form:"schedule_mode" binding:"required,oneof=immediate scheduled"`
	ScheduledAt   string `form:"scheduled_at" binding:"required_if=ScheduleMode scheduled"`
}

// HandleCreateCampaign creates a campaign from a JSON body with inline recipients
func (h *Handler) HandleCreateCampaign(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := h.getUserID(c)
	if !ok {
		return
	}

	var req CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.RespondWithValidationError(c, err)
		return
	}

	recipients := make([]processor.RecipientParams, len(req.Recipients))
	for i, r := range req.Recipients {
		recipients[i] = processor.RecipientParams{
			CompanyName:   r.CompanyName,
			Email:         r.Email,
			RecipientName: r.RecipientName,
			Role:          r.Role,
			Designation:   r.Designation,
		}
	}

	result, err := h.processor.Create(ctx, userID, processor.CreateCampaignParams{
		Name:          req.Name,
		EmailTemplate: req.EmailTemplate,
		ScheduleMode:  req.ScheduleMode,
		ScheduledAt:   req.ScheduledAt,
		Recipients:    recipients,
	})
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// HandleImportCampaign creates a campaign from a multipart upload: recipients_file (.csv or
// .xlsx), an optional attachment and the campaign form fields
func (h *Handler) HandleImportCampaign(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := h.getUserID(c)
	if !ok {
		return
	}

	if h.uploads.MaxBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.uploads.MaxBytes)
	}

	var req ImportCampaignRequest
	if err := c.ShouldBind(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			apierrors.BadRequest(c, apierrors.CodeFileTooLarge, "Upload exceeds the maximum allowed size")
			return
		}
		apierrors.RespondWithValidationError(c, err)
		return
	}

	var scheduledAt *time.Time
	if req.ScheduledAt != "" {
		at, err := time.Parse(time.RFC3339, req.ScheduledAt)
		if err != nil {
			apierrors.BadRequest(c, apierrors.CodeInvalidSchedule, "scheduled_at must be an RFC 3339 timestamp")
			return
		}
		scheduledAt = &at
	}

	fileHeader, err := c.FormFile("recipients_file")
	if err != nil {
		apierrors.BadRequest(c, apierrors.CodeInvalidFile, "recipients_file is required")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		apierrors.InternalError(c, fmt.Errorf("failed to open uploaded file: %w", err))
		return
	}
	defer file.Close()

	ctx = observability.WithFields(ctx,
		observability.Field{Key: "filename", Value: fileHeader.Filename},
		observability.Field{Key: "file_size", Value: fileHeader.Size},
	)

	attachmentPath, ok := h.saveAttachment(c)
	if !ok {
		return
	}

	result, err := h.processor.Import(ctx, userID, processor.ImportCampaignParams{
		Name:           req.Name,
		EmailTemplate:  req.EmailTemplate,
		ScheduleMode:   req.ScheduleMode,
		ScheduledAt:    scheduledAt,
		AttachmentPath: attachmentPath,
		Filename:       fileHeader.Filename,
		File:           file,
	})
	if err != nil {
		if attachmentPath != nil {
			if rmErr := os.Remove(*attachmentPath); rmErr != nil {
				h.logger.WarnWithError(ctx, "failed to remove unused attachment", rmErr)
			}
		}
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// saveAttachment stores the optional attachment part under the upload folder with a
// unique name. It returns nil when the request carries no attachment.
func (h *Handler) saveAttachment(c *gin.Context) (*string, bool) {
	fileHeader, err := c.FormFile("attachment")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, true
	}
	if err != nil {
		apierrors.BadRequest(c, apierrors.CodeInvalidFile, "attachment could not be read")
		return nil, false
	}

	if err := os.MkdirAll(h.uploads.Folder, 0o750); err != nil {
		apierrors.InternalError(c, fmt.Errorf("failed to create upload folder: %w", err))
		return nil, false
	}

	name := uuid.NewString() + "_" + sanitizeFilename(fileHeader.Filename)
	dst := filepath.Join(h.uploads.Folder, name)
	if err := c.SaveUploadedFile(fileHeader, dst); err != nil {
		apierrors.InternalError(c, fmt.Errorf("failed to save attachment: %w", err))
		return nil, false
	}
	return &dst, true
}

func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" || name == "." || name == ".." {
		return "attachment"
	}
	return name
}

// HandleListCampaigns lists the user's campaigns with their counts
func (h *Handler) HandleListCampaigns(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := h.getUserID(c)
	if !ok {
		return
	}

	campaigns, err := h.processor.ListCampaigns(ctx, userID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"campaigns": campaigns})
}

// HandleGetCampaign retrieves one campaign with its counts
func (h *Handler) HandleGetCampaign(c *gin.Context) {
	userID, campaignID, ok := h.getUserAndCampaignID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	campaign, err := h.processor.GetCampaign(ctx, userID, campaignID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, campaign)
}

// HandleDeleteCampaign deletes a campaign and everything recorded for it
func (h *Handler) HandleDeleteCampaign(c *gin.Context) {
	userID, campaignID, ok := h.getUserAndCampaignID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	if err := h.processor.DeleteCampaign(ctx, userID, campaignID); err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// HandleStartCampaign starts or resumes a campaign
func (h *Handler) HandleStartCampaign(c *gin.Context) {
	userID, campaignID, ok := h.getUserAndCampaignID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	result, err := h.processor.Start(ctx, userID, campaignID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandlePauseCampaign pauses a running campaign
func (h *Handler) HandlePauseCampaign(c *gin.Context) {
	userID, campaignID, ok := h.getUserAndCampaignID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	result, err := h.processor.Pause(ctx, userID, campaignID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// HandleGetCampaignStatus returns progress counts and the next scheduled action
func (h *Handler) HandleGetCampaignStatus(c *gin.Context) {
	userID, campaignID, ok := h.getUserAndCampaignID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	status, err := h.processor.GetStatus(ctx, userID, campaignID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// HandleListRecipients pages the recipients of a campaign with their outcome
func (h *Handler) HandleListRecipients(c *gin.Context) {
	userID, campaignID, ok := h.getUserAndCampaignID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	params := processor.ListRecipientsParams{
		Limit:  queryInt(c, "limit", 0),
		Offset: queryInt(c, "offset", 0),
	}
	if status := c.Query("status"); status != "" {
		params.Status = &status
	}

	recipients, err := h.processor.ListRecipients(ctx, userID, campaignID, params)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"recipients": recipients})
}

// HandleRemoveRecipient removes a recipient that has not been sent yet
func (h *Handler) HandleRemoveRecipient(c *gin.Context) {
	userID, campaignID, ok := h.getUserAndCampaignID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	recipientID, err := uuid.Parse(c.Param("recipient_id"))
	if err != nil {
		apierrors.BadRequest(c, apierrors.CodeInvalidInput, "Invalid recipient ID format")
		return
	}

	if err := h.processor.RemoveRecipient(ctx, userID, campaignID, recipientID); err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// HandleListActivity returns the recorded events of a campaign
func (h *Handler) HandleListActivity(c *gin.Context) {
	userID, campaignID, ok := h.getUserAndCampaignID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	activity, err := h.processor.ListActivity(ctx, userID, campaignID, queryInt(c, "limit", 0))
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"activity": activity})
}

// HandleGetDashboard returns totals across the user's campaigns
func (h *Handler) HandleGetDashboard(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := h.getUserID(c)
	if !ok {
		return
	}

	stats, err := h.processor.GetDashboardStats(ctx, userID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// HandleGetQuota returns the user's hourly and daily send usage
func (h *Handler) HandleGetQuota(c *gin.Context) {
	ctx := c.Request.Context()

	userID, ok := h.getUserID(c)
	if !ok {
		return
	}

	usage, err := h.processor.GetQuota(ctx, userID)
	if err != nil {
		apierrors.RespondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, usage)
}

func (h *Handler) getUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := c.Get(authHandler.UserIDKey)
	if !exists {
		apierrors.Unauthorized(c, "User ID not found in context")
		return uuid.UUID{}, false
	}

	s, _ := userIDStr.(string)
	userID, err := uuid.Parse(s)
	if err != nil {
		apierrors.BadRequest(c, apierrors.CodeInvalidInput, "Invalid user ID format")
		return uuid.UUID{}, false
	}
	return userID, true
}

func (h *Handler) getUserAndCampaignID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	userID, ok := h.getUserID(c)
	if !ok {
		return uuid.UUID{}, uuid.UUID{}, false
	}

	campaignID, err := uuid.Parse(c.Param("campaign_id"))
	if err != nil {
		apierrors.BadRequest(c, apierrors.CodeInvalidInput, "Invalid campaign ID format")
		return uuid.UUID{}, uuid.UUID{}, false
	}

	c.Request = c.Request.WithContext(observability.WithFields(c.Request.Context(),
		observability.Field{Key: "campaign_id", Value: campaignID.String()},
	))
	return userID, campaignID, true
}

func queryInt(c *gin.Context, key string, fallback int) int {
	v := c.Query(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
