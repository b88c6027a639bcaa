package ingest

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/akolanti/StudyRAG/internal/domain/commonModels"
	"github.com/akolanti/StudyRAG/internal/metrics"
	"github.com/akolanti/StudyRAG/pkg/logger_i"
)

const defaultPageTimeout = 10 * time.Second

var formatsByExtension = map[string]commonModels.DocType{
	".pdf":  commonModels.PDF,
	".docx": commonModels.DOCX,
	".odt":  commonModels.ODT,
	".rtf":  commonModels.RTF,
	".txt":  commonModels.TXT,
	".pptx": commonModels.PPTX,
}

// SupportedExtensions lists accepted upload extensions in a stable order.
func SupportedExtensions() []string {
	return []string{".pdf", ".docx", ".odt", ".rtf", ".txt", ".pptx"}
}

// DetectFormat maps a file name to its format by extension, ERR when unsupported.
func DetectFormat(name string) commonModels.DocType {
	if t, ok := formatsByExtension[strings.ToLower(filepath.Ext(name))]; ok {
		return t
	}
	return commonModels.ERR
}

type Extractor struct {
	pageTimeout time.Duration
	logger      *logger_i.Logger
}

func NewExtractor() *Extractor {
	return &Extractor{
		pageTimeout: defaultPageTimeout,
		logger:      logger_i.NewLogger("document_extractor"),
	}
}

// Extract reads the file at path. Paged formats get one PageSpan per page; every format gets paragraph sections.
func (e *Extractor) Extract(ctx context.Context, path string) (commonModels.ExtractedDocument, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("extraction", time.Since(start)) }()
	log := e.logger.WithTrace(ctx)

	format := DetectFormat(path)
	log.Debug("Extracting document", "path", path, "format", format)

	var (
		rawText string
		pages   []commonModels.PageSpan
	)
	switch format {
	case commonModels.PDF:
		texts, err := extractPDF(ctx, path, e.pageTimeout, log)
		if err != nil {
			return commonModels.ExtractedDocument{}, err
		}
		rawText, pages = joinPages(texts)
	case commonModels.PPTX:
		texts, err := extractPPTX(ctx, path)
		if err != nil {
			return commonModels.ExtractedDocument{}, err
		}
		rawText, pages = joinPages(texts)
	case commonModels.TXT:
		text, err := extractPlainText(path)
		if err != nil {
			return commonModels.ExtractedDocument{}, err
		}
		rawText = text
	case commonModels.DOCX, commonModels.ODT, commonModels.RTF:
		text, err := extractFlowText(path)
		if err != nil {
			return commonModels.ExtractedDocument{}, err
		}
		rawText = text
	default:
		return commonModels.ExtractedDocument{}, fmt.Errorf("%w: %s", commonModels.ErrUnsupportedFormat, filepath.Ext(path))
	}

	if strings.TrimSpace(rawText) == "" {
		return commonModels.ExtractedDocument{}, commonModels.ErrEmptyDocument
	}

	return commonModels.ExtractedDocument{
		RawText: rawText,
		Format:  format,
		Structure: commonModels.Structure{
			Pages:    pages,
			Sections: buildSections(rawText),
		},
	}, nil
}
