package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/tsawler/tabula"
	"github.com/tsawler/tabula/pptx"

	"github.com/akolanti/StudyRAG/internal/domain/commonModels"
)

const (
	unitPoints = "pt"
	unitEMU    = "emu"
)

// LayoutReader reads positioned text blocks from the stored original of a paged document.
type LayoutReader struct{}

func NewLayoutReader() *LayoutReader {
	return &LayoutReader{}
}

// PageBlocks returns the text blocks of a 1-based page.
func (l *LayoutReader) PageBlocks(ctx context.Context, path string, format commonModels.DocType, page int) ([]commonModels.TextBlock, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch format {
	case commonModels.PDF:
		return pdfBlocks(path, page)
	case commonModels.PPTX:
		return slideBlocks(path, page)
	default:
		return nil, fmt.Errorf("%w: %s has no page layout", commonModels.ErrUnsupportedFormat, format)
	}
}

func pdfBlocks(path string, page int) ([]commonModels.TextBlock, error) {
	blocks, err := tabula.Open(path).Pages(page).Blocks()
	if err != nil {
		return nil, fmt.Errorf("reading layout of page %d: %w", page, err)
	}
	out := make([]commonModels.TextBlock, 0, len(blocks))
	for i := range blocks {
		b := &blocks[i]
		text := strings.TrimSpace(b.GetText())
		if text == "" {
			continue
		}
		out = append(out, commonModels.TextBlock{
			Text:   text,
			X:      b.BBox.X,
			Y:      b.BBox.Y,
			Width:  b.BBox.Width,
			Height: b.BBox.Height,
			Unit:   unitPoints,
		})
	}
	return out, nil
}

func slideBlocks(path string, page int) ([]commonModels.TextBlock, error) {
	r, err := pptx.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pptx: %w", err)
	}
	defer r.Close()

	slide, err := r.Slide(page - 1)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", commonModels.ErrNotFound, err)
	}
	out := make([]commonModels.TextBlock, 0, len(slide.Content))
	for _, tb := range slide.Content {
		text := strings.TrimSpace(tb.Text)
		if text == "" {
			continue
		}
		out = append(out, commonModels.TextBlock{
			Text:   text,
			X:      float64(tb.X),
			Y:      float64(tb.Y),
			Width:  float64(tb.Width),
			Height: float64(tb.Height),
			Unit:   unitEMU,
		})
	}
	return out, nil
}
