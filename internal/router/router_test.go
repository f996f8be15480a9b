package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shimizu-Technology/exam-topics-api/internal/handlers"
	"github.com/Shimizu-Technology/exam-topics-api/internal/logging"
	"github.com/Shimizu-Technology/exam-topics-api/internal/middleware"
	"github.com/Shimizu-Technology/exam-topics-api/internal/models"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubAnalyzer struct{}

func (stubAnalyzer) Analyze(context.Context, string) (string, error) { return "- a", nil }
func (stubAnalyzer) AnalyzeMany(context.Context, []string) (string, error) { return "- a", nil }

type stubMailer struct{}

func (stubMailer) Send(context.Context, models.EmailMessage) error { return nil }

func newTestRouter(t *testing.T, perMinute int) *gin.Engine {
	t.Helper()
	log := logging.Discard()
	h := handlers.NewHandler(stubAnalyzer{}, stubMailer{}, log, handlers.Options{UploadDir: t.TempDir()})
	return Setup(h, log, middleware.NewRateLimiter(perMinute), []string{"*"})
}

func TestSetupRoutes(t *testing.T) {
	r := newTestRouter(t, 0)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/", http.StatusOK},
		{http.MethodGet, "/api/health", http.StatusOK},
		{http.MethodGet, "/api/docs", http.StatusOK},
		{http.MethodGet, "/api/docs/openapi.yaml", http.StatusOK},
		{http.MethodPost, "/api/upload-pdf", http.StatusBadRequest},
		{http.MethodPost, "/api/upload-pdfs", http.StatusBadRequest},
		{http.MethodPost, "/api/send-email", http.StatusBadRequest},
		{http.MethodGet, "/api/v1/health", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(""))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			assert.Equal(t, tt.want, w.Code)
			assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
		})
	}
}

func TestSetupRateLimitsOnlyExternalCalls(t *testing.T) {
	r := newTestRouter(t, 1)

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/send-email", strings.NewReader("{}"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}
	require.Equal(t, http.StatusOK, post())
	assert.Equal(t, http.StatusTooManyRequests, post())

	for i := 0; i < 5; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
