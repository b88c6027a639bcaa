// Package chunker splits extracted document text into overlapping, offset-addressed chunks.
package chunker

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/akolanti/StudyRAG/internal/config"
	"github.com/akolanti/StudyRAG/internal/domain/commonModels"
)

const (
	StrategyFixedSize    = "fixed_size"
	StrategyFullDocument = "full_document"
)

// Chunker produces chunks whose offsets are rune indices into the raw text.
type Chunker struct {
	chunkSize              int
	overlap                int
	largeDocumentThreshold int
	snapTolerance          int
}

type Option func(*Chunker)

func WithChunkSize(size int) Option {
	return func(c *Chunker) { c.chunkSize = size }
}

func WithOverlap(overlap int) Option {
	return func(c *Chunker) { c.overlap = overlap }
}

// WithLargeDocumentThreshold sets the length at or below which a document stays a single chunk.
func WithLargeDocumentThreshold(threshold int) Option {
	return func(c *Chunker) { c.largeDocumentThreshold = threshold }
}

// WithSnapTolerance sets how far a split point may move to land on whitespace.
func WithSnapTolerance(tolerance int) Option {
	return func(c *Chunker) {
		if tolerance >= 0 {
			c.snapTolerance = tolerance
		}
	}
}

func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize:              config.DefaultChunkSize,
		overlap:                config.DefaultChunkOverlap,
		largeDocumentThreshold: config.DefaultLargeDocumentThreshold,
		snapTolerance:          config.DefaultSnapTolerance,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FromConfig builds a chunker from the application config.
func FromConfig(cfg config.ChunkerConfig) *Chunker {
	return New(
		WithChunkSize(cfg.ChunkSize),
		WithOverlap(cfg.Overlap),
		WithLargeDocumentThreshold(cfg.LargeDocumentThreshold),
		WithSnapTolerance(cfg.SnapTolerance),
	)
}

func (c *Chunker) validate() error {
	if c.chunkSize <= 0 || c.overlap < 0 || c.overlap >= c.chunkSize {
		return fmt.Errorf("%w (chunk_size=%d, overlap=%d)", commonModels.ErrInvalidChunkingConfig, c.chunkSize, c.overlap)
	}
	return nil
}

// Chunk splits rawText. Every returned chunk satisfies
// Text == string([]rune(rawText)[StartOffset:EndOffset]).
func (c *Chunker) Chunk(documentId string, rawText string, structure commonModels.Structure) ([]commonModels.Chunk, string, error) {
	if err := c.validate(); err != nil {
		return nil, "", err
	}
	if strings.TrimSpace(rawText) == "" {
		return nil, "", commonModels.ErrEmptyDocument
	}

	runes := []rune(rawText)
	n := len(runes)

	if n <= c.largeDocumentThreshold {
		return []commonModels.Chunk{
			c.newChunk(documentId+"_full", documentId, runes, 0, n, 0, structure),
		}, StrategyFullDocument, nil
	}

	chunks := make([]commonModels.Chunk, 0, n/(c.chunkSize-c.overlap)+1)
	start := 0
	for seq := 0; ; seq++ {
		end := start + c.chunkSize
		if end >= n {
			end = n
		} else {
			end = c.snap(runes, start, end)
		}

		id := fmt.Sprintf("%s_%d", documentId, seq)
		chunks = append(chunks, c.newChunk(id, documentId, runes, start, end, seq, structure))

		if end == n {
			break
		}
		start = end - c.overlap
	}
	return chunks, StrategyFixedSize, nil
}

// snap moves a split point to the nearest word boundary within the tolerance window.
// The result always leaves more than overlap runes in the chunk so the next start advances.
func (c *Chunker) snap(runes []rune, start, end int) int {
	minEnd := start + c.overlap + 1
	for d := 0; d <= c.snapTolerance; d++ {
		if p := end - d; p >= minEnd && isBoundary(runes, p) {
			return p
		}
		if p := end + d; d > 0 && p < len(runes) && isBoundary(runes, p) {
			return p
		}
	}
	return end
}

// isBoundary is true when cutting before runes[p] does not split a word.
func isBoundary(runes []rune, p int) bool {
	return unicode.IsSpace(runes[p]) || unicode.IsSpace(runes[p-1])
}

func (c *Chunker) newChunk(id, documentId string, runes []rune, start, end, seq int, structure commonModels.Structure) commonModels.Chunk {
	chunk := commonModels.Chunk{
		Id:            id,
		DocumentId:    documentId,
		Text:          string(runes[start:end]),
		StartOffset:   start,
		EndOffset:     end,
		SequenceIndex: seq,
	}
	if page, ok := structure.PageAt(start); ok {
		chunk.PageNumber = page.PageNumber
	}
	return chunk
}
