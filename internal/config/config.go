// Package config handles application configuration.
//
// Values come from environment variables (optionally seeded from a .env
// file) with sensible defaults. The resulting Config is passed explicitly
// into every service constructor, so nothing reads API keys from globals.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	// Server settings
	Port    string
	GinMode string // "debug", "release", or "test"

	// Logging
	LogLevel  string
	LogFormat string // "text" or "json"

	// Gemini generative-text API
	GeminiAPIKey  string
	GeminiModel   string
	GeminiBaseURL string
	GeminiTimeout time.Duration

	// SendGrid mail API
	SendGridAPIKey string
	SendGridHost   string
	MailTimeout    time.Duration

	// Sender addresses permitted in the "from" field of outgoing mail.
	// Empty means every sender is rejected.
	AllowedSenders []string

	// Uploads
	UploadDir          string
	MaxUploadFiles     int
	MaxUploadBytes     int64
	ExtractConcurrency int

	// Requests per minute per client IP (0 disables rate limiting)
	RateLimitPerMinute int

	// CORS
	AllowedOrigins []string
}

// Load reads configuration from the environment with sensible defaults.
// A .env file in the working directory is loaded first if present;
// variables already set in the process environment win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	cfg := &Config{
		Port:    v.GetString("PORT"),
		GinMode: v.GetString("GIN_MODE"),

		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),

		GeminiAPIKey:  v.GetString("GEMINI_API_KEY"),
		GeminiModel:   v.GetString("GEMINI_MODEL"),
		GeminiBaseURL: strings.TrimRight(v.GetString("GEMINI_BASE_URL"), "/"),
		GeminiTimeout: v.GetDuration("GEMINI_TIMEOUT"),

		SendGridAPIKey: v.GetString("SENDGRID_API_KEY"),
		SendGridHost:   strings.TrimRight(v.GetString("SENDGRID_HOST"), "/"),
		MailTimeout:    v.GetDuration("MAIL_TIMEOUT"),

		AllowedSenders: splitList(v.GetString("MAIL_ALLOWED_SENDERS")),

		UploadDir:          v.GetString("UPLOAD_DIR"),
		MaxUploadFiles:     v.GetInt("MAX_UPLOAD_FILES"),
		MaxUploadBytes:     v.GetInt64("MAX_UPLOAD_BYTES"),
		ExtractConcurrency: v.GetInt("EXTRACT_CONCURRENCY"),

		RateLimitPerMinute: v.GetInt("RATE_LIMIT_PER_MINUTE"),

		AllowedOrigins: splitList(v.GetString("CORS_ORIGIN")),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3001")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")

	v.SetDefault("GEMINI_MODEL", "gemini-2.0-flash")
	v.SetDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com")
	v.SetDefault("GEMINI_TIMEOUT", 30*time.Second)

	v.SetDefault("SENDGRID_HOST", "https://api.sendgrid.com")
	v.SetDefault("MAIL_TIMEOUT", 30*time.Second)

	v.SetDefault("UPLOAD_DIR", filepath.Join(os.TempDir(), "exam-topics-uploads"))
	v.SetDefault("MAX_UPLOAD_FILES", 10)
	v.SetDefault("MAX_UPLOAD_BYTES", int64(50<<20))
	v.SetDefault("EXTRACT_CONCURRENCY", 4)

	v.SetDefault("RATE_LIMIT_PER_MINUTE", 30)

	// The browser upload form is served from a different origin; allow all
	// origins unless told otherwise.
	v.SetDefault("CORS_ORIGIN", "*")
}

func (c *Config) validate() error {
	switch c.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("GIN_MODE must be debug, release or test, got %q", c.GinMode)
	}
	if c.MaxUploadFiles < 1 {
		return fmt.Errorf("MAX_UPLOAD_FILES must be at least 1, got %d", c.MaxUploadFiles)
	}
	if c.MaxUploadBytes < 1 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.MaxUploadBytes)
	}
	if c.ExtractConcurrency < 1 {
		c.ExtractConcurrency = 1
	}
	if c.GeminiTimeout <= 0 || c.MailTimeout <= 0 {
		return fmt.Errorf("GEMINI_TIMEOUT and MAIL_TIMEOUT must be positive durations")
	}

	// Release mode refuses to start without the key the core feature needs.
	if c.GinMode == "release" && c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY must be set in production")
	}
	return nil
}

// splitList turns a comma separated value into a trimmed, non-empty list.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
