package ingest

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/dslipak/pdf"
	"github.com/lu4p/cat"
	"github.com/tsawler/tabula/pptx"

	"github.com/akolanti/StudyRAG/pkg/logger_i"
)

// extractPDF returns one entry per page. Pages that fail or time out are kept empty so numbering stays aligned.
func extractPDF(ctx context.Context, path string, pageTimeout time.Duration, log *logger_i.Logger) ([]string, error) {
	f, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}

	numPages := f.NumPage()
	log.Debug("extractPDF", "number of pages", numPages)
	pages := make([]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := f.Page(i)
		if page.V.IsNull() {
			pages = append(pages, "")
			continue
		}

		content, err := protectExtract(page, pageTimeout)
		if err != nil {
			log.Warn("Error parsing page content", "page", i, "error", err)
			content = ""
		}
		pages = append(pages, content)
	}
	return pages, nil
}

// extractPPTX returns the text of each slide, one page per slide.
func extractPPTX(ctx context.Context, path string) ([]string, error) {
	r, err := pptx.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pptx: %w", err)
	}
	defer r.Close()

	pages := make([]string, 0, r.SlideCount())
	for i := 0; i < r.SlideCount(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		slide, err := r.Slide(i)
		if err != nil {
			return nil, fmt.Errorf("slide %d: %w", i+1, err)
		}
		pages = append(pages, slide.GetText())
	}
	return pages, nil
}

// extractFlowText reads a .odt, .docx or .rtf file. These formats carry no page structure.
func extractFlowText(path string) (string, error) {
	text, err := cat.File(path)
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %w", err)
	}
	return text, nil
}

// extractPlainText needs no parsing beyond UTF-8 validation.
func extractPlainText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read text file: %w", err)
	}
	return strings.ToValidUTF8(string(data), "\uFFFD"), nil
}

// protectExtract bounds a single page's text extraction, which can spin on malformed content streams.
func protectExtract(page pdf.Page, timeout time.Duration) (string, error) {
	type result struct {
		content string
		err     error
	}
	resChan := make(chan result, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				resChan <- result{err: fmt.Errorf("pdf page panic: %v", r)}
			}
		}()
		content, err := page.GetPlainText(nil)
		resChan <- result{content, err}
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case r := <-resChan:
		return r.content, r.err
	case <-timer.C:
		return "", errors.New("page extraction timed out")
	}
}
