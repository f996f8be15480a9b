// Package pdf provides PDF text extraction.
//
// We use the ledongthuc/pdf library for text extraction.
// It is pure Go and needs no CGO.
package pdf

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ExtractionResult holds the output from a PDF text extraction.
type ExtractionResult struct {
	Text      string // Extracted text content
	PageCount int    // Number of pages
	WordCount int    // Word count
}

// Extractor reads PDFs from disk. It has no state; the zero value is ready to use.
type Extractor struct{}

// NewExtractor returns a PDF extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractFile reads the PDF at path and extracts its text.
func (e *Extractor) ExtractFile(path string) (*ExtractionResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read PDF: %w", err)
	}
	return Extract(data)
}

// Extract reads a PDF held in memory and extracts all text content.
// Pages are separated by a newline. Pages without a text layer are skipped.
func Extract(data []byte) (result *ExtractionResult, err error) {
	// The parser panics on some malformed cross-reference tables.
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("failed to parse PDF: %v", r)
		}
	}()

	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	pageCount := pdfReader.NumPage()
	if pageCount == 0 {
		return &ExtractionResult{}, nil
	}

	pages := make([]string, 0, pageCount)
	for i := 1; i <= pageCount; i++ {
		page := pdfReader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			// Image-only pages have nothing to contribute
			continue
		}
		if text = strings.TrimSpace(text); text != "" {
			pages = append(pages, text)
		}
	}

	extractedText := strings.Join(pages, "\n")
	return &ExtractionResult{
		Text:      extractedText,
		PageCount: pageCount,
		WordCount: countWords(extractedText),
	}, nil
}

// countWords counts the number of words in a text string.
func countWords(text string) int {
	return len(strings.Fields(text))
}
