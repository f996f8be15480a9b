// Package topics turns exam paper PDFs into a normalized "top 10 topics"
// Markdown list using a generative-text model.
//
// The flow for one request is: extract text from every PDF, build a single
// prompt, make one model call, and normalize the reply.
package topics

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Shimizu-Technology/exam-topics-api/internal/services/gemini"
	"github.com/Shimizu-Technology/exam-topics-api/internal/services/pdf"
)

// NoTopicsFound is analyzed in place of a model reply that carries no text.
const NoTopicsFound = "No topics found."

var (
	// ErrAnalysisFailed matches every error returned by Analyze and AnalyzeMany.
	ErrAnalysisFailed = errors.New("analysis failed")
	// ErrNoDocuments is returned when AnalyzeMany gets an empty path list.
	ErrNoDocuments = errors.New("no documents to analyze")
)

// AnalysisError is the single error shape callers see. Err carries the
// detail for logs; callers should show only a generic message.
type AnalysisError struct {
	Stage string // "extract", "generate"
	Err   error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis failed during %s: %v", e.Stage, e.Err)
}

func (e *AnalysisError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrAnalysisFailed) true for every AnalysisError.
func (e *AnalysisError) Is(target error) bool { return target == ErrAnalysisFailed }

// Retryable reports whether the failure was a model call timeout.
func (e *AnalysisError) Retryable() bool {
	return errors.Is(e.Err, gemini.ErrTimeout)
}

// TextExtractor pulls text out of a PDF on disk.
type TextExtractor interface {
	ExtractFile(path string) (*pdf.ExtractionResult, error)
}

// Generator sends a prompt to the generative-text model.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (*gemini.Response, error)
}

// Analyzer coordinates extraction, prompting, the model call and
// normalization for one analysis request. It holds no per-request state and
// is safe for concurrent use.
type Analyzer struct {
	extractor   TextExtractor
	generator   Generator
	log         *logrus.Logger
	concurrency int
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the logger used for raw replies and timings.
func WithLogger(log *logrus.Logger) Option {
	return func(a *Analyzer) { a.log = log }
}

// WithExtractConcurrency bounds how many PDFs AnalyzeMany extracts at once.
// Values below 1 mean sequential extraction.
func WithExtractConcurrency(n int) Option {
	return func(a *Analyzer) {
		if n < 1 {
			n = 1
		}
		a.concurrency = n
	}
}

// NewAnalyzer creates an Analyzer.
func NewAnalyzer(extractor TextExtractor, generator Generator, opts ...Option) *Analyzer {
	a := &Analyzer{
		extractor:   extractor,
		generator:   generator,
		log:         logrus.StandardLogger(),
		concurrency: 1,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze returns the topic list for a single exam paper.
func (a *Analyzer) Analyze(ctx context.Context, path string) (string, error) {
	result, err := a.extractor.ExtractFile(path)
	if err != nil {
		return "", &AnalysisError{Stage: "extract", Err: fmt.Errorf("%s: %w", path, err)}
	}
	a.logExtraction(path, result)
	return a.generate(ctx, BuildPrompt(result.Text, false))
}

// AnalyzeMany returns one topic list for several exam papers analyzed
// together. Texts are joined with a newline in the order of paths.
func (a *Analyzer) AnalyzeMany(ctx context.Context, paths []string) (string, error) {
	if len(paths) == 0 {
		return "", &AnalysisError{Stage: "extract", Err: ErrNoDocuments}
	}

	texts, err := a.extractAll(ctx, paths)
	if err != nil {
		return "", &AnalysisError{Stage: "extract", Err: err}
	}
	return a.generate(ctx, BuildPrompt(strings.Join(texts, "\n"), true))
}

// extractAll extracts every path, at most a.concurrency at a time. The
// result slice is indexed like paths so the concatenation order never
// depends on scheduling.
func (a *Analyzer) extractAll(ctx context.Context, paths []string) ([]string, error) {
	texts := make([]string, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			result, err := a.extractor.ExtractFile(path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			a.logExtraction(path, result)
			texts[i] = result.Text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return texts, nil
}

func (a *Analyzer) logExtraction(path string, result *pdf.ExtractionResult) {
	a.log.WithFields(logrus.Fields{
		"file":  filepath.Base(path),
		"pages": result.PageCount,
		"words": result.WordCount,
	}).Debug("📄 Extracted text")
}

// generate makes the single model call and normalizes its reply.
func (a *Analyzer) generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	resp, err := a.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return "", &AnalysisError{Stage: "generate", Err: err}
	}

	raw, ok := resp.FirstText()
	if !ok {
		raw = NoTopicsFound
	}

	a.log.WithFields(logrus.Fields{
		"prompt_chars": len(prompt),
		"reply_chars":  len(raw),
		"duration_ms":  time.Since(start).Milliseconds(),
	}).Info("🤖 Gemini replied")
	a.log.WithField("raw", raw).Debug("Gemini raw response")

	return Normalize(raw), nil
}
