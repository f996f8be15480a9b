// Package router sets up all HTTP routes for the API.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Shimizu-Technology/exam-topics-api/internal/handlers"
	"github.com/Shimizu-Technology/exam-topics-api/internal/middleware"
)

// Setup creates and configures the Gin router with all routes. Requests
// that call a paid external API go through rl.
func Setup(h *handlers.Handler, log *logrus.Logger, rl *middleware.RateLimiter, allowedOrigins []string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS(allowedOrigins))

	// --- Public Routes ---
	r.GET("/", h.Root)
	r.GET("/api/health", h.HealthCheck)

	// API Documentation
	r.GET("/api/docs", h.ServeSwaggerUI)
	r.GET("/api/docs/openapi.yaml", h.ServeOpenAPISpec)

	// --- Rate-limited Routes ---
	limited := r.Group("/api")
	limited.Use(rl.RateLimit())
	{
		limited.POST("/upload-pdf", h.UploadPDF)
		limited.POST("/upload-pdfs", h.UploadPDFs)
		limited.POST("/send-email", h.SendEmail)
	}

	return r
}
