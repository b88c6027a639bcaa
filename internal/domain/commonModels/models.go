package commonModels

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

type DocType string

const (
	PDF  DocType = "PDF"
	DOCX DocType = "DOCX"
	ODT  DocType = "ODT"
	RTF  DocType = "RTF"
	TXT  DocType = "TXT"
	PPTX DocType = "PPTX"
	ERR  DocType = "ERROR"
)

// IsPaged reports whether the format has a page structure the viewer navigates by.
func (d DocType) IsPaged() bool {
	return d == PDF || d == PPTX
}

type StudyMode string

const (
	StudyModeQA         StudyMode = "qa"
	StudyModeQuiz       StudyMode = "quiz"
	StudyModeFlashcards StudyMode = "flashcards"
)

func ParseStudyMode(s string) (StudyMode, error) {
	switch mode := StudyMode(strings.ToLower(strings.TrimSpace(s))); mode {
	case StudyModeQA, StudyModeQuiz, StudyModeFlashcards:
		return mode, nil
	case "":
		return StudyModeQA, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStudyMode, s)
	}
}

// RequiresRetrieval is true only for modes that embed and store vectors.
func (m StudyMode) RequiresRetrieval() bool {
	return m == StudyModeQA
}

type ProcessingState string

const (
	StateExtracted ProcessingState = "Extracted"
	StateChunked   ProcessingState = "Chunked"
	StateEmbedding ProcessingState = "Embedding"
	StateStored    ProcessingState = "Stored"
	StateReady     ProcessingState = "Ready"
	StateFailed    ProcessingState = "Failed"
	StateDeleting  ProcessingState = "Deleting"
)

type PageSpan struct {
	PageNumber int `json:"page_number"`
	StartIndex int `json:"start_index"`
	EndIndex   int `json:"end_index"`
}

type SectionSpan struct {
	Index      int    `json:"index"`
	Title      string `json:"title,omitempty"`
	StartIndex int    `json:"start_index"`
	EndIndex   int    `json:"end_index"`
}

// Structure holds page and section spans as rune offsets into the raw text.
// Pages are disjoint and sorted by StartIndex.
type Structure struct {
	Pages    []PageSpan    `json:"pages"`
	Sections []SectionSpan `json:"sections"`
}

// PageAt returns the page whose span contains offset.
func (s Structure) PageAt(offset int) (PageSpan, bool) {
	i := sort.Search(len(s.Pages), func(i int) bool {
		return s.Pages[i].EndIndex > offset
	})
	if i == len(s.Pages) || offset < s.Pages[i].StartIndex {
		return PageSpan{}, false
	}
	return s.Pages[i], true
}

// PageByNumber looks a page up by its 1-based number.
func (s Structure) PageByNumber(number int) (PageSpan, bool) {
	for _, p := range s.Pages {
		if p.PageNumber == number {
			return p, true
		}
	}
	return PageSpan{}, false
}

type Document struct {
	Id                  string            `json:"id"`
	Name                string            `json:"name"`
	ContentType         DocType           `json:"format"`
	RawText             string            `json:"raw_text"`
	Structure           Structure         `json:"structure"`
	StudyMode           StudyMode         `json:"study_mode"`
	State               ProcessingState   `json:"processing_state"`
	SourcePath          string            `json:"source_path,omitempty"`
	ChunkCount          int               `json:"chunk_count"`
	VectorCount         int               `json:"vector_count"`
	CreatedAt           time.Time         `json:"created_at"`
	LastIngestTimestamp time.Time         `json:"ingested_at"`
	Report              *ProcessingReport `json:"report,omitempty"`
}

// TextLength is the length of the raw text in runes, the unit every offset uses.
func (d Document) TextLength() int {
	return utf8.RuneCountInString(d.RawText)
}

// Searchable is true once the document has vectors and is not being torn down.
func (d Document) Searchable() bool {
	return d.State == StateReady && d.VectorCount > 0
}

type Chunk struct {
	Id            string `json:"chunk_id"`
	DocumentId    string `json:"document_id"`
	Text          string `json:"text"`
	StartOffset   int    `json:"start_index"`
	EndOffset     int    `json:"end_index"`
	SequenceIndex int    `json:"sequence_index"`
	PageNumber    int    `json:"page_number,omitempty"`
}

// ExtractedDocument is what a DocumentExtractor hands to the pipeline.
type ExtractedDocument struct {
	RawText   string
	Structure Structure
	Format    DocType
}

// TextBlock is a positioned run of text on one page of a paged document.
// Coordinates are in the source format's native unit (PDF points, PPTX EMUs).
type TextBlock struct {
	Text   string  `json:"text"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Unit   string  `json:"unit"`
}

// IngestRequest names an uploaded file waiting to go through the pipeline.
type IngestRequest struct {
	DocumentId string
	Name       string
	SourcePath string
	StudyMode  StudyMode
}
