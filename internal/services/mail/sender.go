// Package mail validates and sends transactional email through SendGrid.
//
// Validation runs before any network call. The "from" address is checked
// against an allow-list supplied by configuration; a mismatch is logged
// separately from ordinary validation failures because it may indicate an
// attempt to spoof the sending identity.
package mail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/Shimizu-Technology/exam-topics-api/internal/models"
)

const (
	// DefaultHost is the public SendGrid API host.
	DefaultHost = "https://api.sendgrid.com"

	sendEndpoint = "/v3/mail/send"

	maxSubjectLength = 255
	maxHTMLLength    = 10000

	genericFailure = "Failed to send email."
)

// Kind classifies a validation failure.
type Kind string

const (
	KindMissingField       Kind = "missing_field"
	KindInvalidRecipient   Kind = "invalid_recipient"
	KindUnauthorizedSender Kind = "unauthorized_sender"
	KindSubjectTooLong     Kind = "subject_too_long"
	KindBodyTooLong        Kind = "body_too_long"
)

// ValidationError is a client-fixable problem with the message envelope.
type ValidationError struct {
	Kind    Kind
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validation failures, in the order they are checked.
var (
	ErrMissingField       = &ValidationError{KindMissingField, "Missing required fields: to, from, subject, html"}
	ErrInvalidRecipient   = &ValidationError{KindInvalidRecipient, `Invalid "to" email format.`}
	ErrUnauthorizedSender = &ValidationError{KindUnauthorizedSender, `Invalid "from" email address.`}
	ErrSubjectTooLong     = &ValidationError{KindSubjectTooLong, "Subject is too long."}
	ErrBodyTooLong        = &ValidationError{KindBodyTooLong, "HTML content is too long."}
)

// ExternalServiceError is a failure reported by, or reaching, the mail API.
// Detail is safe to return to the caller.
type ExternalServiceError struct {
	StatusCode int // 0 when the request never got a response
	Detail     string
	Err        error
}

func (e *ExternalServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("mail API failed: %s: %v", e.Detail, e.Err)
	}
	return fmt.Sprintf("mail API returned %d: %s", e.StatusCode, e.Detail)
}

func (e *ExternalServiceError) Unwrap() error { return e.Err }

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Config configures a Sender.
type Config struct {
	APIKey         string
	Host           string
	Timeout        time.Duration
	AllowedSenders []string
}

// Sender validates messages and forwards them to SendGrid.
type Sender struct {
	apiKey  string
	host    string
	timeout time.Duration
	allowed map[string]struct{}
	log     *logrus.Logger
}

// NewSender creates a Sender. An empty AllowedSenders list rejects every
// "from" address.
func NewSender(cfg Config, log *logrus.Logger) *Sender {
	host := cfg.Host
	if host == "" {
		host = DefaultHost
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	allowed := make(map[string]struct{}, len(cfg.AllowedSenders))
	for _, s := range cfg.AllowedSenders {
		allowed[s] = struct{}{}
	}
	return &Sender{
		apiKey:  cfg.APIKey,
		host:    host,
		timeout: timeout,
		allowed: allowed,
		log:     log,
	}
}

// IsConfigured reports whether an API key is present.
func (s *Sender) IsConfigured() bool {
	return s.apiKey != ""
}

// Validate checks msg and returns the first failure as a *ValidationError.
func (s *Sender) Validate(msg models.EmailMessage) error {
	if msg.To == "" || msg.From == "" || msg.Subject == "" || msg.HTML == "" {
		return ErrMissingField
	}
	if !emailPattern.MatchString(msg.To) {
		return ErrInvalidRecipient
	}
	if _, ok := s.allowed[msg.From]; !ok {
		s.log.WithFields(logrus.Fields{
			"suspicious_sender": msg.From,
			"to":                msg.To,
		}).Warn("⚠️  Suspicious 'from' address rejected")
		return ErrUnauthorizedSender
	}
	if utf16Len(msg.Subject) > maxSubjectLength {
		return ErrSubjectTooLong
	}
	if utf16Len(msg.HTML) > maxHTMLLength {
		return ErrBodyTooLong
	}
	return nil
}

// Send validates msg and, if valid, hands it to SendGrid unchanged.
func (s *Sender) Send(ctx context.Context, msg models.EmailMessage) error {
	if err := s.Validate(msg); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	m := sgmail.NewV3MailInit(
		sgmail.NewEmail("", msg.From),
		msg.Subject,
		sgmail.NewEmail("", msg.To),
		sgmail.NewContent("text/html", msg.HTML),
	)

	request := sendgrid.GetRequest(s.apiKey, sendEndpoint, s.host)
	request.Method = "POST"
	request.Body = sgmail.GetRequestBody(m)

	resp, err := sendgrid.MakeRequestWithContext(ctx, request)
	if err != nil {
		s.log.WithError(err).Error("❌ Error sending email")
		return &ExternalServiceError{Detail: genericFailure, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		detail := genericFailure
		if joined := joinAPIErrors(resp.Body); joined != nil {
			detail = joined.Error()
		}
		s.log.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"body":   resp.Body,
		}).Error("❌ Error sending email")
		return &ExternalServiceError{StatusCode: resp.StatusCode, Detail: detail}
	}

	s.log.WithField("to", msg.To).Info("📧 Email sent")
	return nil
}

// sendGridErrors is the error body returned by the v3 API.
type sendGridErrors struct {
	Errors []struct {
		Message string `json:"message"`
		Field   string `json:"field,omitempty"`
	} `json:"errors"`
}

// joinAPIErrors combines every errors[].message in body. The combined
// error's text joins messages with "; ". Nil means no messages were found.
func joinAPIErrors(body string) error {
	var parsed sendGridErrors
	if err := json.Unmarshal([]byte(body), &parsed); err != nil {
		return nil
	}
	var combined error
	for _, e := range parsed.Errors {
		if msg := strings.TrimSpace(e.Message); msg != "" {
			combined = multierr.Append(combined, errors.New(msg))
		}
	}
	return combined
}

// utf16Len counts UTF-16 code units, which is how browsers measure length.
func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}
