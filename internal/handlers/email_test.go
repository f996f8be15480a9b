package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shimizu-Technology/exam-topics-api/internal/models"
	"github.com/Shimizu-Technology/exam-topics-api/internal/services/mail"
)

func TestSendEmail(t *testing.T) {
	validBody := `{"to":"student@example.com","from":"noreply@example.com","subject":"Hi","html":"<p>Hi</p>"}`

	tests := []struct {
		name       string
		body       string
		mailErr    error
		wantStatus int
		wantError  string
		wantCalls  int
	}{
		{
			name:       "sent",
			body:       validBody,
			wantStatus: http.StatusOK,
			wantCalls:  1,
		},
		{
			name:       "malformed json",
			body:       `{"to":`,
			wantStatus: http.StatusBadRequest,
			wantError:  "Missing required fields: to, from, subject, html",
		},
		{
			name:       "validation error",
			body:       validBody,
			mailErr:    mail.ErrUnauthorizedSender,
			wantStatus: http.StatusBadRequest,
			wantError:  `Invalid "from" email address.`,
			wantCalls:  1,
		},
		{
			name:       "provider error detail",
			body:       validBody,
			mailErr:    &mail.ExternalServiceError{StatusCode: 403, Detail: "The from address does not match a verified Sender Identity."},
			wantStatus: http.StatusInternalServerError,
			wantError:  "The from address does not match a verified Sender Identity.",
			wantCalls:  1,
		},
		{
			name:       "unknown error",
			body:       validBody,
			mailErr:    errors.New("connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to send email.",
			wantCalls:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &fakeMailer{err: tt.mailErr}
			h := newTestHandler(t, &fakeAnalyzer{}, m)

			req := httptest.NewRequest(http.MethodPost, "/api/send-email", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := serve(newTestEngine(h), req)

			require.Equal(t, tt.wantStatus, rec.Code, rec.Body.String())
			assert.Equal(t, tt.wantCalls, m.calls)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, decodeError(t, rec).Error)
				return
			}

			var resp models.MessageResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "Email sent successfully!", resp.Message)
			assert.Equal(t, "student@example.com", m.last.To)
		})
	}
}
