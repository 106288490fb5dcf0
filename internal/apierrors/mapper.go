package apierrors

import (
	"errors"
	"net/http"
	"outreach-server/internal/campaign/processor"
	"outreach-server/internal/clients/mail"
)

// Error codes
const (
	CodeInvalidInput          = "INVALID_INPUT"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeInternal              = "INTERNAL_ERROR"
	CodeCampaignNotFound      = "CAMPAIGN_NOT_FOUND"
	CodeRecipientNotFound     = "RECIPIENT_NOT_FOUND"
	CodeRecipientProcessed    = "RECIPIENT_ALREADY_PROCESSED"
	CodeNoRecipients          = "NO_RECIPIENTS"
	CodeDuplicateRecipient    = "DUPLICATE_RECIPIENT"
	CodeInvalidSchedule       = "INVALID_SCHEDULE"
	CodeInvalidTemplate       = "INVALID_TEMPLATE"
	CodeInvalidStatus         = "INVALID_STATUS"
	CodeInvalidFile           = "INVALID_FILE"
	CodeAttachmentUnsupported = "ATTACHMENT_UNSUPPORTED"
	CodeFileTooLarge          = "FILE_TOO_LARGE"
	CodeEmailServiceError     = "EMAIL_SERVICE_ERROR"
)

// APIError is an error with the HTTP status and client facing code it maps to
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// MapError converts processor errors to APIErrors. Unknown errors become a sanitized 500.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}

	switch {
	case errors.Is(err, processor.ErrCampaignNotFound):
		return &APIError{http.StatusNotFound, CodeCampaignNotFound, "Campaign not found"}

	case errors.Is(err, processor.ErrRecipientNotFound):
		return &APIError{http.StatusNotFound, CodeRecipientNotFound, "Recipient not found"}

	case errors.Is(err, processor.ErrRecipientAlreadyProcessed):
		return &APIError{http.StatusConflict, CodeRecipientProcessed, "Recipient was already sent or failed and cannot be removed"}

	case errors.Is(err, processor.ErrDuplicateRecipient):
		return &APIError{http.StatusConflict, CodeDuplicateRecipient, "A recipient email appears more than once in this campaign"}

	case errors.Is(err, processor.ErrNoRecipients):
		return &APIError{http.StatusBadRequest, CodeNoRecipients, "Campaign has no valid recipients"}

	case errors.Is(err, processor.ErrInvalidSchedule):
		return &APIError{http.StatusBadRequest, CodeInvalidSchedule, err.Error()}

	case errors.Is(err, processor.ErrInvalidTemplate):
		return &APIError{http.StatusBadRequest, CodeInvalidTemplate, "Email template is required"}

	case errors.Is(err, processor.ErrInvalidStatusFilter):
		return &APIError{http.StatusBadRequest, CodeInvalidStatus, "Status must be one of: pending, sent, failed"}

	case errors.Is(err, processor.ErrUnsupportedFile):
		return &APIError{http.StatusBadRequest, CodeInvalidFile, err.Error()}

	case errors.Is(err, processor.ErrAttachmentsUnsupported):
		return &APIError{http.StatusBadRequest, CodeAttachmentUnsupported, "The configured mail provider cannot send attachments"}

	case errors.Is(err, mail.ErrTransport):
		return &APIError{http.StatusServiceUnavailable, CodeEmailServiceError, "Email service is temporarily unavailable. Please try again later."}

	default:
		return &APIError{http.StatusInternalServerError, CodeInternal, "An internal error occurred. Please try again later."}
	}
}
