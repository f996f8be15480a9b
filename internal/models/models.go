// Package models defines the request and response shapes of the HTTP API.
//
// Nothing here is persisted; every value lives for one request.
package models

// EmailMessage is the JSON body for POST /api/send-email.
type EmailMessage struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// TopicsResponse is returned by the PDF upload endpoints.
type TopicsResponse struct {
	Message string `json:"message"`
	Topics  string `json:"topics"`
}

// MessageResponse is a plain success acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the error format for all API errors.
// Retryable is set when repeating the same request later may succeed.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      int    `json:"code"`
	Retryable bool   `json:"retryable,omitempty"`
}

// HealthResponse is returned by the health check endpoint.
type HealthResponse struct {
	Status           string `json:"status"`
	Version          string `json:"version"`
	GeminiConfigured bool   `json:"gemini_configured"`
	MailConfigured   bool   `json:"mail_configured"`
}
