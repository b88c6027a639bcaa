// Package correlator maps answer sources back onto the part of the document being viewed.
package correlator

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/akolanti/StudyRAG/internal/config"
	"github.com/akolanti/StudyRAG/internal/domain/commonModels"
	"github.com/akolanti/StudyRAG/internal/domain/qaModel"
	"github.com/akolanti/StudyRAG/pkg/logger_i"
)

// BlockSource reads the positioned text blocks of one page of a stored original.
type BlockSource interface {
	PageBlocks(ctx context.Context, path string, format commonModels.DocType, page int) ([]commonModels.TextBlock, error)
}

// Window is a half-open rune range [Start, End) of the raw text.
type Window struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (w Window) Len() int { return w.End - w.Start }

// Highlight is a source clipped to the visible window. Start and End are relative to the window.
type Highlight struct {
	Id    string `json:"id"`
	Start int    `json:"start"`
	End   int    `json:"end"`
	Color string `json:"color"`
}

// Segment is one run of window text, highlighted when HighlightId is set.
type Segment struct {
	Text        string `json:"text"`
	HighlightId string `json:"highlight_id,omitempty"`
	Color       string `json:"color,omitempty"`
}

type TextView struct {
	Window     Window      `json:"window"`
	Highlights []Highlight `json:"highlights"`
	Segments   []Segment   `json:"segments"`
}

// BoxHighlight marks one matching text block on a page.
type BoxHighlight struct {
	Id      string                 `json:"id"`
	Page    int                    `json:"page_number"`
	Color   string                 `json:"color"`
	Opacity float64                `json:"opacity"`
	Box     commonModels.TextBlock `json:"box"`
}

type PageView struct {
	Page       int            `json:"page_number"`
	Highlights []BoxHighlight `json:"highlights"`
}

// Target is where the viewer should move to show a source: a page for paged formats, a window otherwise.
type Target struct {
	Page   int     `json:"page_number,omitempty"`
	Window *Window `json:"window,omitempty"`
}

type Correlator struct {
	blocks     BlockSource
	windowSize int
	logger     *logger_i.Logger
}

func New(blocks BlockSource, windowSize int) *Correlator {
	if windowSize <= 0 {
		windowSize = config.DefaultWindowSize
	}
	return &Correlator{
		blocks:     blocks,
		windowSize: windowSize,
		logger:     logger_i.NewLogger("correlator"),
	}
}

func (c *Correlator) WindowSize() int { return c.windowSize }

// CorrelateText clips sources to window and splits the window text into plain and highlighted runs.
// Overlapping highlights are trimmed so each rune belongs to at most one.
func CorrelateText(rawText string, window Window, sources []qaModel.SourceReference) (TextView, error) {
	runes := []rune(rawText)
	window.Start = max(window.Start, 0)
	window.End = min(window.End, len(runes))
	if window.End <= window.Start {
		return TextView{}, fmt.Errorf("%w: empty window [%d, %d)", commonModels.ErrValidation, window.Start, window.End)
	}

	highlights := make([]Highlight, 0, len(sources))
	for _, s := range sources {
		if s.EndIndex <= window.Start || s.StartIndex >= window.End {
			continue
		}
		start := max(0, s.StartIndex-window.Start)
		end := min(window.Len(), s.EndIndex-window.Start)
		if start >= end {
			continue
		}
		highlights = append(highlights, Highlight{Id: s.Id, Start: start, End: end, Color: ColorFor(s.Id)})
	}
	slices.SortStableFunc(highlights, func(a, b Highlight) int {
		if a.Start != b.Start {
			return a.Start - b.Start
		}
		return strings.Compare(a.Id, b.Id)
	})

	trimmed := highlights[:0]
	prevEnd := 0
	for _, h := range highlights {
		h.Start = max(h.Start, prevEnd)
		if h.Start >= h.End {
			continue
		}
		trimmed = append(trimmed, h)
		prevEnd = h.End
	}

	visible := runes[window.Start:window.End]
	segments := make([]Segment, 0, 2*len(trimmed)+1)
	pos := 0
	for _, h := range trimmed {
		if h.Start > pos {
			segments = append(segments, Segment{Text: string(visible[pos:h.Start])})
		}
		segments = append(segments, Segment{Text: string(visible[h.Start:h.End]), HighlightId: h.Id, Color: h.Color})
		pos = h.End
	}
	if pos < len(visible) {
		segments = append(segments, Segment{Text: string(visible[pos:])})
	}

	return TextView{Window: window, Highlights: trimmed, Segments: segments}, nil
}

// CorrelatePage draws a box around every text block of page that matches a source starting on that page.
// Matching is a normalized prefix or containment test and can pick the wrong block when phrasing repeats.
func (c *Correlator) CorrelatePage(ctx context.Context, doc commonModels.Document, page int, sources []qaModel.SourceReference) (PageView, error) {
	view := PageView{Page: page, Highlights: []BoxHighlight{}}
	if !doc.ContentType.IsPaged() {
		return view, fmt.Errorf("%w: %s documents have no pages", commonModels.ErrValidation, doc.ContentType)
	}
	if _, ok := doc.Structure.PageByNumber(page); !ok {
		return view, fmt.Errorf("%w: page %d of %s", commonModels.ErrNotFound, page, doc.Id)
	}

	onPage := make([]qaModel.SourceReference, 0, len(sources))
	for _, s := range sources {
		if p, ok := pageOf(doc.Structure, s.StartIndex); ok && p.PageNumber == page {
			onPage = append(onPage, s)
		}
	}
	if len(onPage) == 0 {
		return view, nil
	}
	if doc.SourcePath == "" {
		return view, fmt.Errorf("%w: original of %s is not stored", commonModels.ErrNotFound, doc.Id)
	}

	blocks, err := c.blocks.PageBlocks(ctx, doc.SourcePath, doc.ContentType, page)
	if err != nil {
		return view, err
	}
	normalizedBlocks := make([]string, len(blocks))
	for i, b := range blocks {
		normalizedBlocks[i] = normalize(b.Text)
	}

	for _, s := range onPage {
		text := normalize(s.Text)
		prefix := truncateRunes(text, config.HighlightPrefixLength)
		if prefix == "" {
			continue
		}
		color := ColorFor(s.Id)
		for i, nb := range normalizedBlocks {
			if !blockMatches(nb, text, prefix) {
				continue
			}
			view.Highlights = append(view.Highlights, BoxHighlight{
				Id:      s.Id,
				Page:    page,
				Color:   color,
				Opacity: config.HighlightOpacity,
				Box:     blocks[i],
			})
		}
	}
	c.logger.WithTrace(ctx).Debug("Page correlated", "documentId", doc.Id, "page", page, "sources", len(onPage), "boxes", len(view.Highlights))
	return view, nil
}

// Navigate returns the page or window holding startIndex.
func (c *Correlator) Navigate(doc commonModels.Document, startIndex int) (Target, error) {
	length := doc.TextLength()
	if startIndex < 0 || startIndex >= length {
		return Target{}, fmt.Errorf("%w: start_index %d outside [0, %d)", commonModels.ErrValidation, startIndex, length)
	}
	if doc.ContentType.IsPaged() {
		if p, ok := pageOf(doc.Structure, startIndex); ok {
			return Target{Page: p.PageNumber}, nil
		}
	}
	start := startIndex / c.windowSize * c.windowSize
	return Target{Window: &Window{Start: start, End: min(start+c.windowSize, length)}}, nil
}

// pageOf finds the page containing offset. Offsets in the separator between pages belong to the next page.
func pageOf(s commonModels.Structure, offset int) (commonModels.PageSpan, bool) {
	if p, ok := s.PageAt(offset); ok {
		return p, true
	}
	for _, p := range s.Pages {
		if p.StartIndex >= offset {
			return p, true
		}
	}
	return commonModels.PageSpan{}, false
}

func blockMatches(block, source, prefix string) bool {
	if block == "" {
		return false
	}
	if strings.Contains(block, prefix) {
		return true
	}
	return utf8.RuneCountInString(block) >= config.MinBlockMatchLength && strings.Contains(source, block)
}

// normalize lower-cases s and collapses whitespace runs to single spaces.
func normalize(s string) string {
	return strings.Join(strings.FieldsFunc(strings.ToLower(s), unicode.IsSpace), " ")
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
