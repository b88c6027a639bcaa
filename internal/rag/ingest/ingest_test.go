package ingest

import (
	"context"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/akolanti/StudyRAG/internal/domain/commonModels"
	"github.com/akolanti/StudyRAG/internal/domain/jobModel"
)

type mockPipeline struct {
	ingestFunc func(ctx context.Context, req commonModels.IngestRequest) (commonModels.ProcessingReport, error)
}

func (m *mockPipeline) IngestFile(ctx context.Context, req commonModels.IngestRequest) (commonModels.ProcessingReport, error) {
	return m.ingestFunc(ctx, req)
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		path     string
		expected commonModels.DocType
	}{
		{"test.pdf", commonModels.PDF},
		{"DOC.DOCX", commonModels.DOCX},
		{"notes.txt", commonModels.TXT},
		{"essay.odt", commonModels.ODT},
		{"letter.rtf", commonModels.RTF},
		{"deck.pptx", commonModels.PPTX},
		{"image.png", commonModels.ERR},
		{"no-extension", commonModels.ERR},
	}

	for _, tt := range tests {
		if got := DetectFormat(tt.path); got != tt.expected {
			t.Errorf("DetectFormat(%s) = %v; want %v", tt.path, got, tt.expected)
		}
	}
}

func TestJoinPages(t *testing.T) {
	text, spans := joinPages([]string{"héllo", "", "world"})

	if text != "héllo\n\n\n\nworld" {
		t.Fatalf("unexpected joined text %q", text)
	}
	want := []commonModels.PageSpan{
		{PageNumber: 1, StartIndex: 0, EndIndex: 5},
		{PageNumber: 2, StartIndex: 7, EndIndex: 7},
		{PageNumber: 3, StartIndex: 9, EndIndex: 14},
	}
	for i, s := range spans {
		if s != want[i] {
			t.Errorf("span %d = %+v; want %+v", i, s, want[i])
		}
	}
	runes := []rune(text)
	if string(runes[spans[2].StartIndex:spans[2].EndIndex]) != "world" {
		t.Errorf("page 3 span does not address its text")
	}
}

func TestBuildSections(t *testing.T) {
	text := "  Introduction\nCells are small.\n\n \nChapter Ünïcode\nbody text\n\n"

	sections := buildSections(text)

	if len(sections) != 2 {
		t.Fatalf("expected 2 sections, got %d: %+v", len(sections), sections)
	}
	runes := []rune(text)
	first := string(runes[sections[0].StartIndex:sections[0].EndIndex])
	if first != "Introduction\nCells are small." {
		t.Errorf("first section = %q", first)
	}
	if sections[0].Title != "Introduction" {
		t.Errorf("first title = %q", sections[0].Title)
	}
	second := string(runes[sections[1].StartIndex:sections[1].EndIndex])
	if second != "Chapter Ünïcode\nbody text" {
		t.Errorf("second section = %q", second)
	}
	if sections[1].Index != 1 {
		t.Errorf("second index = %d", sections[1].Index)
	}
}

func TestSectionTitleIsCapped(t *testing.T) {
	title := sectionTitle(strings.Repeat("a", 120) + "\nrest")
	if len([]rune(title)) != maxTitleLength {
		t.Errorf("title length = %d; want %d", len([]rune(title)), maxTitleLength)
	}
}

func TestExtract_PlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("Mitosis.\n\nMeiosis."), 0o600); err != nil {
		t.Fatal(err)
	}

	doc, err := NewExtractor().Extract(context.Background(), path)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if doc.Format != commonModels.TXT {
		t.Errorf("format = %s", doc.Format)
	}
	if !strings.Contains(doc.RawText, "Meiosis.") {
		t.Errorf("raw text = %q", doc.RawText)
	}
	if len(doc.Structure.Pages) != 0 {
		t.Errorf("plain text should have no pages, got %d", len(doc.Structure.Pages))
	}
	if len(doc.Structure.Sections) != 2 {
		t.Errorf("expected 2 sections, got %d", len(doc.Structure.Sections))
	}
}

func TestExtract_Errors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.txt")
	if err := os.WriteFile(empty, []byte(" \n\t"), 0o600); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{"unsupported", filepath.Join(dir, "image.png"), commonModels.ErrUnsupportedFormat},
		{"whitespace only", empty, commonModels.ErrEmptyDocument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewExtractor().Extract(context.Background(), tt.path)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v; want %v", err, tt.wantErr)
			}
		})
	}
}

func TestProcessDocumentIngestion(t *testing.T) {
	var got commonModels.IngestRequest
	pipeline := &mockPipeline{ingestFunc: func(ctx context.Context, req commonModels.IngestRequest) (commonModels.ProcessingReport, error) {
		got = req
		return commonModels.ProcessingReport{DocumentId: req.DocumentId, State: commonModels.StateReady, ChunkCount: 8}, nil
	}}
	job := jobModel.Job{Id: "job-1", JobPayload: jobModel.JobPayload{
		DocumentId: "doc-1", IngestFileName: "bio.pdf", SourcePath: "/tmp/bio.pdf", StudyMode: commonModels.StudyModeQA,
	}}

	out := ProcessDocumentIngestion(context.Background(), job, pipeline)

	if out.Status != jobModel.JobStatusComplete || out.CurrentStep != jobModel.Complete {
		t.Errorf("status = %s/%s", out.Status, out.CurrentStep)
	}
	if out.JobPayload.Report == nil || out.JobPayload.Report.ChunkCount != 8 {
		t.Errorf("report not attached: %+v", out.JobPayload.Report)
	}
	if got.SourcePath != "/tmp/bio.pdf" || got.StudyMode != commonModels.StudyModeQA || got.Name != "bio.pdf" {
		t.Errorf("request = %+v", got)
	}
}

func TestProcessDocumentIngestion_Error(t *testing.T) {
	pipeline := &mockPipeline{ingestFunc: func(ctx context.Context, req commonModels.IngestRequest) (commonModels.ProcessingReport, error) {
		return commonModels.ProcessingReport{}, commonModels.ErrUnsupportedFormat
	}}

	out := ProcessDocumentIngestion(context.Background(), jobModel.Job{Id: "job-2"}, pipeline)

	if out.Status != jobModel.JobStatusError {
		t.Errorf("status = %s", out.Status)
	}
	if out.Error.Code != http.StatusBadRequest || out.Error.Retry {
		t.Errorf("error = %+v", out.Error)
	}
	if out.JobPayload.Report != nil {
		t.Errorf("empty report should not be attached")
	}
}
