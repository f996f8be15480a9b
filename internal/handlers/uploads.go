package handlers

import (
	"errors"
	"fmt"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/Shimizu-Technology/exam-topics-api/internal/middleware"
)

// spooled is a set of uploaded files written to the upload directory for
// the lifetime of one request.
type spooled struct {
	paths []string
}

// spoolUploads writes every file to the upload dir under a uuid-prefixed
// name so concurrent uploads with the same filename never collide. On
// error, anything already written is removed.
func (h *Handler) spoolUploads(c *gin.Context, files []*multipart.FileHeader) (*spooled, error) {
	if err := os.MkdirAll(h.Opts.UploadDir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}

	s := &spooled{paths: make([]string, 0, len(files))}
	for _, file := range files {
		name := uuid.NewString() + "-" + filepath.Base(file.Filename)
		dst := filepath.Join(h.Opts.UploadDir, name)
		if err := c.SaveUploadedFile(file, dst); err != nil {
			err = fmt.Errorf("failed to save %q: %w", file.Filename, err)
			return nil, multierr.Append(err, s.remove())
		}
		s.paths = append(s.paths, dst)
	}
	return s, nil
}

// remove deletes every spooled file, combining all failures.
func (s *spooled) remove() error {
	var errs error
	for _, p := range s.paths {
		if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = multierr.Append(errs, err)
		}
	}
	s.paths = nil
	return errs
}

// cleanup removes the spooled files and logs anything that could not be removed.
func (h *Handler) cleanup(c *gin.Context, s *spooled) {
	count := len(s.paths)
	if err := s.remove(); err != nil {
		middleware.Logger(c, h.Log).WithError(err).
			WithField("files", count).
			Warn("⚠️  Failed to remove uploaded files")
	}
}
