package apierrors

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"outreach-server/internal/campaign/processor"
	"outreach-server/internal/clients/mail"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{name: "campaign not found", err: processor.ErrCampaignNotFound, wantStatus: http.StatusNotFound, wantCode: CodeCampaignNotFound},
		{name: "wrapped schedule error", err: fmt.Errorf("%w: scheduled_at is required", processor.ErrInvalidSchedule), wantStatus: http.StatusBadRequest, wantCode: CodeInvalidSchedule},
		{name: "recipient already sent", err: processor.ErrRecipientAlreadyProcessed, wantStatus: http.StatusConflict, wantCode: CodeRecipientProcessed},
		{name: "bad file", err: fmt.Errorf("%w: missing columns", processor.ErrUnsupportedFile), wantStatus: http.StatusBadRequest, wantCode: CodeInvalidFile},
		{name: "mail transport", err: fmt.Errorf("%w: dial tcp", mail.ErrTransport), wantStatus: http.StatusServiceUnavailable, wantCode: CodeEmailServiceError},
		{name: "unknown", err: errors.New("pq: connection reset"), wantStatus: http.StatusInternalServerError, wantCode: CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			apiErr := MapError(tt.err)
			assert.Equal(t, tt.wantStatus, apiErr.StatusCode)
			assert.Equal(t, tt.wantCode, apiErr.Code)
		})
	}

	assert.Nil(t, MapError(nil))
}

func TestRespondWithError_HidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/campaigns", nil)

	RespondWithError(c, errors.New("password authentication failed for user outreach"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	assert.Contains(t, w.Body.String(), CodeInternal)
}
