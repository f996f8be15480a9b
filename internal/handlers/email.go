package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/exam-topics-api/internal/middleware"
	"github.com/Shimizu-Technology/exam-topics-api/internal/models"
	"github.com/Shimizu-Technology/exam-topics-api/internal/services/mail"
)

// SendEmail validates and sends a transactional email.
// POST /api/send-email
func (h *Handler) SendEmail(c *gin.Context) {
	var msg models.EmailMessage
	if err := c.ShouldBindJSON(&msg); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: mail.ErrMissingField.Message,
			Code:  http.StatusBadRequest,
		})
		return
	}

	err := h.Mailer.Send(c.Request.Context(), msg)
	if err == nil {
		c.JSON(http.StatusOK, models.MessageResponse{Message: "Email sent successfully!"})
		return
	}

	var verr *mail.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: verr.Message, Code: http.StatusBadRequest})
		return
	}

	detail := "Failed to send email."
	var serr *mail.ExternalServiceError
	if errors.As(err, &serr) {
		detail = serr.Detail
	}
	middleware.Logger(c, h.Log).WithError(err).Error("❌ Error sending email")
	c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: detail, Code: http.StatusInternalServerError})
}
