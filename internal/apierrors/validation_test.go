package apierrors

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testRecipient struct {
	CompanyName string `binding:"required"`
	Email       string `binding:"required,email"`
}

type testCampaignRequest struct {
	Name         string          `binding:"required,max=10"`
	ScheduleMode string          `binding:"required,oneof=immediate scheduled"`
	ScheduledAt  *time.Time      `binding:"required_if=ScheduleMode scheduled"`
	Recipients   []testRecipient `binding:"required,min=1,dive"`
}

func validate(t *testing.T, req testCampaignRequest) error {
	t.Helper()
	v := validator.New()
	v.SetTagName("binding")
	return v.Struct(req)
}

func TestBuildValidationMessage(t *testing.T) {
	tests := []struct {
		name string
		req  testCampaignRequest
		want string
	}{
		{
			name: "nested recipient field uses request path",
			req:  testCampaignRequest{Name: "ok", ScheduleMode: "immediate", Recipients: []testRecipient{{CompanyName: "Acme", Email: "nope"}}},
			want: "recipients[0].email must be a valid email address",
		},
		{
			name: "empty recipient list",
			req:  testCampaignRequest{Name: "ok", ScheduleMode: "immediate", Recipients: []testRecipient{}},
			want: "recipients must contain at least 1 entries",
		},
		{
			name: "conditional field",
			req:  testCampaignRequest{Name: "ok", ScheduleMode: "scheduled", Recipients: []testRecipient{{CompanyName: "Acme", Email: "hr@acme.test"}}},
			want: "scheduled_at is required when schedule_mode is scheduled",
		},
		{
			name: "multiple errors are joined",
			req:  testCampaignRequest{Name: "far too long a name", ScheduleMode: "weekly", Recipients: []testRecipient{{CompanyName: "Acme", Email: "hr@acme.test"}}},
			want: "Validation failed: name must be at most 10 characters; schedule_mode must be one of: immediate scheduled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var verrs validator.ValidationErrors
			require.True(t, errors.As(validate(t, tt.req), &verrs))
			assert.Equal(t, tt.want, buildValidationMessage(verrs))
		})
	}
}

func TestRespondWithValidationError_BindingError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/campaigns", nil)

	RespondWithValidationError(c, errors.New("unexpected EOF"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, CodeInvalidInput, body.Code)
}
