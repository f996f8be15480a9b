// Package main is the entry point for the Exam Topics API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Shimizu-Technology/exam-topics-api/internal/config"
	"github.com/Shimizu-Technology/exam-topics-api/internal/handlers"
	"github.com/Shimizu-Technology/exam-topics-api/internal/logging"
	"github.com/Shimizu-Technology/exam-topics-api/internal/middleware"
	"github.com/Shimizu-Technology/exam-topics-api/internal/router"
	"github.com/Shimizu-Technology/exam-topics-api/internal/services/gemini"
	"github.com/Shimizu-Technology/exam-topics-api/internal/services/mail"
	"github.com/Shimizu-Technology/exam-topics-api/internal/services/pdf"
	"github.com/Shimizu-Technology/exam-topics-api/internal/services/topics"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	// Step 1: Load Configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("❌ Failed to load config: %v", err)
	}

	log := logging.New(cfg.LogLevel, cfg.LogFormat)
	log.Infof("🚀 Exam Topics API %s starting...", Version)
	log.WithFields(logrus.Fields{
		"port":       cfg.Port,
		"gin_mode":   cfg.GinMode,
		"model":      cfg.GeminiModel,
		"upload_dir": cfg.UploadDir,
	}).Info("📋 Config loaded")

	gin.SetMode(cfg.GinMode)
	handlers.Version = Version

	// Step 2: Create Services
	generator := gemini.New(gemini.Config{
		APIKey:  cfg.GeminiAPIKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
		Timeout: cfg.GeminiTimeout,
	})
	if generator.IsConfigured() {
		log.Info("✅ Gemini topic generation enabled")
	} else {
		log.Warn("⚠️  Gemini API key not set (set GEMINI_API_KEY to enable topic analysis)")
	}

	analyzer := topics.NewAnalyzer(pdf.NewExtractor(), generator,
		topics.WithLogger(log),
		topics.WithExtractConcurrency(cfg.ExtractConcurrency),
	)

	mailer := mail.NewSender(mail.Config{
		APIKey:         cfg.SendGridAPIKey,
		Host:           cfg.SendGridHost,
		Timeout:        cfg.MailTimeout,
		AllowedSenders: cfg.AllowedSenders,
	}, log)
	if mailer.IsConfigured() {
		log.WithField("allowed_senders", len(cfg.AllowedSenders)).Info("✅ SendGrid mail enabled")
	} else {
		log.Warn("⚠️  SendGrid API key not set (set SENDGRID_API_KEY to enable /api/send-email)")
	}

	// Step 3: Setup HTTP Router
	h := handlers.NewHandler(analyzer, mailer, log, handlers.Options{
		UploadDir:        cfg.UploadDir,
		MaxUploadFiles:   cfg.MaxUploadFiles,
		MaxUploadBytes:   cfg.MaxUploadBytes,
		GeminiConfigured: generator.IsConfigured(),
		MailConfigured:   mailer.IsConfigured(),
	})

	rateLimiter := middleware.NewRateLimiter(cfg.RateLimitPerMinute)
	stopCleanup := make(chan struct{})
	rateLimiter.StartCleanup(time.Minute, stopCleanup)
	defer close(stopCleanup)

	r := router.Setup(h, log, rateLimiter, cfg.AllowedOrigins)

	// Step 4: Start the HTTP Server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: cfg.GeminiTimeout + 60*time.Second, // extraction and the model call run inside the request
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("🌐 Server listening on http://localhost:%s", cfg.Port)
		log.Infof("📖 Health check: http://localhost:%s/api/health", cfg.Port)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	// Step 5: Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	log.Infof("🛑 Received signal %v, shutting down gracefully...", sig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Warnf("⚠️  Server forced to shutdown: %v", err)
	}

	log.Info("👋 Server stopped. Goodbye!")
}
