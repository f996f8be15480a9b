// topics.go handles exam paper upload and topic analysis endpoints.
//
// POST /api/upload-pdf   one PDF in multipart field "pdf"
// POST /api/upload-pdfs  up to MaxUploadFiles PDFs in multipart field "pdfs"
//
// Processing is synchronous: the response carries the topic list.
package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Shimizu-Technology/exam-topics-api/internal/middleware"
	"github.com/Shimizu-Technology/exam-topics-api/internal/models"
	"github.com/Shimizu-Technology/exam-topics-api/internal/services/topics"
)

const (
	msgNoFile          = "No file uploaded."
	msgNoFiles         = "No files uploaded."
	msgAnalyzeFailed   = "Failed to analyze PDF."
	msgAnalyzeManyFail = "Failed to analyze PDFs."
	msgTooLarge        = "Upload is too large."
)

// UploadPDF analyzes a single exam paper.
// POST /api/upload-pdf
func (h *Handler) UploadPDF(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Opts.MaxUploadBytes)

	file, err := c.FormFile("pdf")
	if err != nil {
		h.rejectUpload(c, err, msgNoFile)
		return
	}

	h.analyze(c, []*multipart.FileHeader{file}, false)
}

// UploadPDFs analyzes several exam papers together.
// POST /api/upload-pdfs
func (h *Handler) UploadPDFs(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Opts.MaxUploadBytes)

	form, err := c.MultipartForm()
	if err != nil {
		h.rejectUpload(c, err, msgNoFiles)
		return
	}
	files := form.File["pdfs"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msgNoFiles, Code: http.StatusBadRequest})
		return
	}
	if len(files) > h.Opts.MaxUploadFiles {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: fmt.Sprintf("Too many files uploaded. Maximum is %d.", h.Opts.MaxUploadFiles),
			Code:  http.StatusBadRequest,
		})
		return
	}

	h.analyze(c, files, true)
}

// rejectUpload answers a request whose multipart body could not be read.
func (h *Handler) rejectUpload(c *gin.Context, err error, msg string) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
			Error: msgTooLarge,
			Code:  http.StatusRequestEntityTooLarge,
		})
		return
	}
	c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: msg, Code: http.StatusBadRequest})
}

// analyze spools the uploads, runs the analyzer and writes the response.
// Uploaded files are removed before the handler returns.
func (h *Handler) analyze(c *gin.Context, files []*multipart.FileHeader, multiple bool) {
	failMsg, okMsg := msgAnalyzeFailed, "PDF uploaded and analyzed successfully!"
	if multiple {
		failMsg, okMsg = msgAnalyzeManyFail, "PDFs uploaded and analyzed successfully!"
	}
	log := middleware.Logger(c, h.Log).WithField("files", len(files))

	spool, err := h.spoolUploads(c, files)
	if err != nil {
		log.WithError(err).Error("❌ Failed to store upload")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: failMsg, Code: http.StatusInternalServerError})
		return
	}
	defer h.cleanup(c, spool)

	log.Info("📄 Analyzing exam papers")
	start := time.Now()

	var topicList string
	if multiple {
		topicList, err = h.Analyzer.AnalyzeMany(c.Request.Context(), spool.paths)
	} else {
		topicList, err = h.Analyzer.Analyze(c.Request.Context(), spool.paths[0])
	}
	if err != nil {
		var aerr *topics.AnalysisError
		retryable := errors.As(err, &aerr) && aerr.Retryable()
		log.WithError(err).WithField("retryable", retryable).Error("❌ Error processing PDF or Gemini API")
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{
			Error:     failMsg,
			Code:      http.StatusInternalServerError,
			Retryable: retryable,
		})
		return
	}

	log.WithFields(logrus.Fields{
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("✅ Topics generated")

	c.JSON(http.StatusOK, models.TopicsResponse{Message: okMsg, Topics: topicList})
}
