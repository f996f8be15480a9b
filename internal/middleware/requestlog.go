// Package middleware provides HTTP middleware for the API.
//
// Middleware in Gin is a gin.HandlerFunc that calls c.Next() to continue
// the chain, or c.Abort() to stop processing.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// RequestIDHeader carries the per-request id in both directions.
const RequestIDHeader = "X-Request-ID"

const requestIDKey = "request_id"

// RequestLogger assigns every request an id (reusing a well-formed incoming
// X-Request-ID) and logs one line per request once the handler returns.
func RequestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)

		c.Next()

		status := c.Writer.Status()
		entry := log.WithFields(logrus.Fields{
			"request_id": id,
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     status,
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		})
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			entry.Error("request failed")
		case status >= 400:
			entry.Warn("request rejected")
		default:
			entry.Info("request completed")
		}
	}
}

// RequestID returns the id assigned by RequestLogger, or "" outside it.
func RequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// Logger returns a log entry tagged with the request id.
func Logger(c *gin.Context, log *logrus.Logger) *logrus.Entry {
	return log.WithField("request_id", RequestID(c))
}
