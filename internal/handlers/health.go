// Package handlers contains HTTP handler functions for the API.
//
// Handlers in Gin receive a *gin.Context which provides request data,
// response methods and middleware data. Related handlers hang off one
// Handler struct that holds their shared dependencies.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Shimizu-Technology/exam-topics-api/internal/models"
)

// Version is reported by the health endpoint. cmd/server overrides it at startup.
var Version = "dev"

// TopicAnalyzer produces a topic list from exam papers on disk.
type TopicAnalyzer interface {
	Analyze(ctx context.Context, path string) (string, error)
	AnalyzeMany(ctx context.Context, paths []string) (string, error)
}

// EmailSender validates and sends one message.
type EmailSender interface {
	Send(ctx context.Context, msg models.EmailMessage) error
}

// Options holds upload limits and readiness flags for the handlers.
type Options struct {
	UploadDir        string
	MaxUploadFiles   int
	MaxUploadBytes   int64
	GeminiConfigured bool
	MailConfigured   bool
}

// Handler holds shared dependencies for all HTTP handlers.
// Dependencies are interfaces so tests can substitute fakes.
type Handler struct {
	Analyzer TopicAnalyzer
	Mailer   EmailSender
	Log      *logrus.Logger
	Opts     Options
}

// NewHandler creates a new handler with all dependencies.
func NewHandler(analyzer TopicAnalyzer, mailer EmailSender, log *logrus.Logger, opts Options) *Handler {
	if opts.MaxUploadFiles < 1 {
		opts.MaxUploadFiles = 10
	}
	if opts.MaxUploadBytes < 1 {
		opts.MaxUploadBytes = 50 << 20
	}
	return &Handler{
		Analyzer: analyzer,
		Mailer:   mailer,
		Log:      log,
		Opts:     opts,
	}
}

// Root confirms the server is up.
// GET /
func (h *Handler) Root(c *gin.Context) {
	c.String(http.StatusOK, "Backend server is running!")
}

// HealthCheck returns the API health status.
// GET /api/health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:           "ok",
		Version:          Version,
		GeminiConfigured: h.Opts.GeminiConfigured,
		MailConfigured:   h.Opts.MailConfigured,
	})
}
