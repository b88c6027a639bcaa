package rag_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/akolanti/StudyRAG/internal/data/store"
	"github.com/akolanti/StudyRAG/internal/domain/commonModels"
	"github.com/akolanti/StudyRAG/internal/rag"
	"github.com/akolanti/StudyRAG/internal/rag/embedding"
	"github.com/akolanti/StudyRAG/internal/rag/vectorDB"
)

type fixture struct {
	svc        rag.Service
	documents  *store.InMemoryDocumentStore
	vectors    *MockVectorStore
	embeddings *MockEmbeddings
}

func newFixture() *fixture {
	f := &fixture{
		documents:  store.NewInMemoryDocumentStore(),
		vectors:    NewMockVectorStore(),
		embeddings: &MockEmbeddings{},
	}
	f.svc = rag.NewService(rag.Dependencies{
		Documents:  f.documents,
		Vectors:    f.vectors,
		Embeddings: f.embeddings,
	}, rag.Options{})
	return f
}

func sixThousandChars() commonModels.ExtractedDocument {
	return commonModels.ExtractedDocument{RawText: strings.Repeat("lorem ", 1000), Format: commonModels.TXT}
}

func (f *fixture) ingest(t *testing.T, id string, mode commonModels.StudyMode) commonModels.ProcessingReport {
	t.Helper()
	report, err := f.svc.IngestDocument(context.Background(), commonModels.IngestRequest{
		DocumentId: id, Name: id + ".txt", StudyMode: mode,
	}, sixThousandChars())
	if err != nil {
		t.Fatalf("IngestDocument returned error: %v", err)
	}
	return report
}

func TestIngestDocument_Scenarios(t *testing.T) {
	tests := []struct {
		name          string
		mode          commonModels.StudyMode
		setupMocks    func(f *fixture)
		expectedState commonModels.ProcessingState
		expectedVecs  int
		expectedStage commonModels.Stage
		rolledBack    bool
	}{
		{
			name:          "Success_Full_Flow",
			mode:          commonModels.StudyModeQA,
			expectedState: commonModels.StateReady,
			expectedVecs:  8,
		},
		{
			name: "Partial_Embedding_Failure",
			mode: commonModels.StudyModeQA,
			setupMocks: func(f *fixture) {
				f.embeddings.OnEmbedChunks = func(ctx context.Context, chunks []commonModels.Chunk) embedding.Result {
					res := embedAll(chunks, map[int]bool{2: true, 5: true})
					res.Errors = []error{commonModels.ErrTransientProvider}
					return res
				}
			},
			expectedState: commonModels.StateReady,
			expectedVecs:  6,
			expectedStage: commonModels.StageEmbedding,
		},
		{
			name:          "Quiz_Skips_Retrieval",
			mode:          commonModels.StudyModeQuiz,
			expectedState: commonModels.StateReady,
			expectedVecs:  0,
		},
		{
			name: "No_Chunk_Embedded",
			mode: commonModels.StudyModeQA,
			setupMocks: func(f *fixture) {
				f.embeddings.OnEmbedChunks = func(ctx context.Context, chunks []commonModels.Chunk) embedding.Result {
					all := make(map[int]bool)
					for _, c := range chunks {
						all[c.SequenceIndex] = true
					}
					return embedAll(chunks, all)
				}
			},
			expectedState: commonModels.StateFailed,
			expectedStage: commonModels.StageEmbedding,
		},
		{
			name: "Storage_Failure_Rolls_Back",
			mode: commonModels.StudyModeQA,
			setupMocks: func(f *fixture) {
				f.vectors.OnUpsert = func(ctx context.Context, records ...vectorDB.Record) error {
					return commonModels.ErrStorageUnavailable
				}
			},
			expectedState: commonModels.StateFailed,
			expectedStage: commonModels.StageVectorStorage,
			rolledBack:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			if tt.setupMocks != nil {
				tt.setupMocks(f)
			}

			report := f.ingest(t, "doc-1", tt.mode)

			if report.State != tt.expectedState {
				t.Errorf("expected state %s, got %s", tt.expectedState, report.State)
			}
			if report.ChunkCount != 8 {
				t.Errorf("expected 8 chunks, got %d", report.ChunkCount)
			}
			if report.VectorCount != tt.expectedVecs {
				t.Errorf("expected %d vectors, got %d", tt.expectedVecs, report.VectorCount)
			}
			if tt.mode.RequiresRetrieval() && report.EmbeddingSuccessCount+report.EmbeddingFailureCount != report.ChunkCount {
				t.Errorf("success %d + failure %d != chunks %d", report.EmbeddingSuccessCount, report.EmbeddingFailureCount, report.ChunkCount)
			}
			if n, _ := f.vectors.CountByDocument(context.Background(), "doc-1"); n != tt.expectedVecs {
				t.Errorf("vector store holds %d vectors, want %d", n, tt.expectedVecs)
			}
			if report.VectorStorage.RolledBack != tt.rolledBack {
				t.Errorf("rolled back = %v", report.VectorStorage.RolledBack)
			}
			if tt.expectedStage != "" && (len(report.StageErrors) == 0 || report.StageErrors[0].Stage != tt.expectedStage) {
				t.Errorf("expected stage error at %s, got %+v", tt.expectedStage, report.StageErrors)
			}

			doc, err := f.svc.GetDocument(context.Background(), "doc-1")
			if err != nil {
				t.Fatalf("document not persisted: %v", err)
			}
			if doc.State != tt.expectedState || doc.Report == nil {
				t.Errorf("persisted document state %s, report %v", doc.State, doc.Report)
			}
			chunks, _ := f.svc.GetChunks(context.Background(), "doc-1")
			if len(chunks) != 8 {
				t.Errorf("chunks should be retained, got %d", len(chunks))
			}
		})
	}
}

func TestIngestDocument_EmptyText(t *testing.T) {
	f := newFixture()
	report, err := f.svc.IngestDocument(context.Background(), commonModels.IngestRequest{DocumentId: "empty"},
		commonModels.ExtractedDocument{RawText: "  \n ", Format: commonModels.TXT})

	if !errors.Is(err, commonModels.ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
	if report.State != commonModels.StateFailed {
		t.Errorf("expected Failed, got %s", report.State)
	}
}

func TestIngestFile_ExtractionError(t *testing.T) {
	f := newFixture()
	svc := rag.NewService(rag.Dependencies{
		Documents:  f.documents,
		Vectors:    f.vectors,
		Embeddings: f.embeddings,
		Extractor: &MockExtractor{OnExtract: func(ctx context.Context, path string) (commonModels.ExtractedDocument, error) {
			return commonModels.ExtractedDocument{}, commonModels.ErrUnsupportedFormat
		}},
	}, rag.Options{})

	_, err := svc.IngestFile(context.Background(), commonModels.IngestRequest{DocumentId: "d", Name: "x.png"})
	if !errors.Is(err, commonModels.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestSearch(t *testing.T) {
	f := newFixture()
	f.ingest(t, "doc-1", commonModels.StudyModeQA)
	f.ingest(t, "doc-2", commonModels.StudyModeQA)
	f.ingest(t, "quiz", commonModels.StudyModeQuiz)
	ctx := context.Background()

	t.Run("Scoped_To_Document", func(t *testing.T) {
		results, err := f.svc.Search(ctx, "lorem", 3, "doc-2")
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if len(results) != 3 {
			t.Fatalf("expected 3 results, got %d", len(results))
		}
		for _, r := range results {
			if r.Metadata.DocumentId != "doc-2" {
				t.Errorf("result from %s leaked into doc-2 search", r.Metadata.DocumentId)
			}
		}
	})

	t.Run("All_Documents", func(t *testing.T) {
		results, err := f.svc.Search(ctx, "lorem", 50, "")
		if err != nil || len(results) != 16 {
			t.Errorf("expected 16 results, got %d (%v)", len(results), err)
		}
	})

	t.Run("Errors", func(t *testing.T) {
		tests := []struct {
			query, documentId string
			wantErr           error
		}{
			{"  ", "doc-1", commonModels.ErrValidation},
			{"lorem", "ghost", commonModels.ErrNotFound},
			{"lorem", "quiz", commonModels.ErrDocumentNotReady},
		}
		for _, tt := range tests {
			if _, err := f.svc.Search(ctx, tt.query, 5, tt.documentId); !errors.Is(err, tt.wantErr) {
				t.Errorf("Search(%q, %q) = %v; want %v", tt.query, tt.documentId, err, tt.wantErr)
			}
		}
	})

	t.Run("K_Is_Clamped", func(t *testing.T) {
		var gotK []int
		f.vectors.OnSearch = func(ctx context.Context, v []float32, k int, documentId string) ([]vectorDB.SimilarityResult, error) {
			gotK = append(gotK, k)
			return nil, nil
		}
		defer func() { f.vectors.OnSearch = nil }()
		_, _ = f.svc.Search(ctx, "lorem", 0, "doc-1")
		_, _ = f.svc.Search(ctx, "lorem", 500, "doc-1")
		if len(gotK) != 2 || gotK[0] != 5 || gotK[1] != 50 {
			t.Errorf("unexpected k values %v", gotK)
		}
	})

	t.Run("Embedding_Failure_Propagates", func(t *testing.T) {
		f.embeddings.OnEmbedQuery = func(ctx context.Context, text string) ([]float32, error) {
			return nil, commonModels.ErrTransientProvider
		}
		defer func() { f.embeddings.OnEmbedQuery = nil }()
		_, err := f.svc.Search(ctx, "lorem", 5, "doc-1")
		if !commonModels.IsRetryable(err) {
			t.Errorf("expected retryable error, got %v", err)
		}
	})
}

func TestGetChunk(t *testing.T) {
	f := newFixture()
	f.ingest(t, "doc-1", commonModels.StudyModeQA)

	chunk, err := f.svc.GetChunk(context.Background(), "doc-1", 3)
	if err != nil || chunk.SequenceIndex != 3 {
		t.Fatalf("GetChunk = %+v, %v", chunk, err)
	}
	if _, err := f.svc.GetChunk(context.Background(), "doc-1", 8); !errors.Is(err, commonModels.ErrNotFound) {
		t.Errorf("expected ErrNotFound for out of range chunk, got %v", err)
	}
}

func TestDeleteDocument(t *testing.T) {
	f := newFixture()
	source := filepath.Join(t.TempDir(), "doc-1.txt")
	if err := os.WriteFile(source, []byte("lorem"), 0o600); err != nil {
		t.Fatal(err)
	}
	_, err := f.svc.IngestDocument(context.Background(), commonModels.IngestRequest{
		DocumentId: "doc-1", Name: "doc-1.txt", SourcePath: source, StudyMode: commonModels.StudyModeQA,
	}, sixThousandChars())
	if err != nil {
		t.Fatal(err)
	}

	report, err := f.svc.DeleteDocument(context.Background(), "doc-1")
	if err != nil {
		t.Fatalf("DeleteDocument failed: %v", err)
	}
	if !report.VectorStoreDeleted || !report.DocumentDeleted || report.VectorsRemoved != 8 {
		t.Errorf("unexpected report %+v", report)
	}
	if _, err := f.svc.GetDocument(context.Background(), "doc-1"); !errors.Is(err, commonModels.ErrNotFound) {
		t.Errorf("document still present: %v", err)
	}
	if _, err := os.Stat(source); !os.IsNotExist(err) {
		t.Errorf("stored original not removed")
	}
	if _, err := f.svc.DeleteDocument(context.Background(), "doc-1"); !errors.Is(err, commonModels.ErrNotFound) {
		t.Errorf("second delete = %v; want ErrNotFound", err)
	}
}

func TestDeleteDocument_VectorFailureLeavesDeleting(t *testing.T) {
	f := newFixture()
	f.ingest(t, "doc-1", commonModels.StudyModeQA)
	f.vectors.OnDeleteByDocument = func(ctx context.Context, documentId string) (int, error) {
		return 0, commonModels.ErrStorageUnavailable
	}

	report, err := f.svc.DeleteDocument(context.Background(), "doc-1")
	if !errors.Is(err, commonModels.ErrStorageUnavailable) {
		t.Fatalf("expected storage error, got %v", err)
	}
	if report.VectorStoreDeleted || report.DocumentDeleted || report.Error == "" {
		t.Errorf("unexpected report %+v", report)
	}

	doc, err := f.svc.GetDocument(context.Background(), "doc-1")
	if err != nil || doc.State != commonModels.StateDeleting {
		t.Fatalf("document should remain in Deleting, got %s (%v)", doc.State, err)
	}
	if _, _, err := f.svc.AcquireDocument(context.Background(), "doc-1"); !errors.Is(err, commonModels.ErrDocumentDeleting) {
		t.Errorf("expected ErrDocumentDeleting, got %v", err)
	}
}

func TestDeleteDocument_WaitsForReaders(t *testing.T) {
	f := newFixture()
	f.ingest(t, "doc-1", commonModels.StudyModeQA)
	ctx := context.Background()

	_, release, err := f.svc.AcquireDocument(ctx, "doc-1")
	if err != nil {
		t.Fatalf("AcquireDocument failed: %v", err)
	}

	done := make(chan commonModels.DeleteReport, 1)
	go func() {
		report, _ := f.svc.DeleteDocument(ctx, "doc-1")
		done <- report
	}()

	deadline := time.Now().Add(2 * time.Second)
	for {
		doc, err := f.documents.GetDocument(ctx, "doc-1")
		if err == nil && doc.State == commonModels.StateDeleting {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("document never entered Deleting")
		}
		time.Sleep(5 * time.Millisecond)
	}

	if _, _, err := f.svc.AcquireDocument(ctx, "doc-1"); !errors.Is(err, commonModels.ErrDocumentDeleting) {
		t.Errorf("new readers should be refused, got %v", err)
	}
	select {
	case <-done:
		t.Fatal("delete finished while a reader held the document")
	case <-time.After(50 * time.Millisecond):
	}

	release()
	select {
	case report := <-done:
		if !report.DocumentDeleted {
			t.Errorf("unexpected report %+v", report)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("delete did not finish after release")
	}
}

func TestDeleteDocument_RefusedWhileIngesting(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	var deleteErr error
	var deleteReport commonModels.DeleteReport
	f.embeddings.OnEmbedChunks = func(ctx context.Context, chunks []commonModels.Chunk) embedding.Result {
		deleteReport, deleteErr = f.svc.DeleteDocument(ctx, "doc-1")
		return embedAll(chunks, nil)
	}
	report := f.ingest(t, "doc-1", commonModels.StudyModeQA)

	if !errors.Is(deleteErr, commonModels.ErrDocumentIngesting) {
		t.Fatalf("delete during ingestion = %v; want ErrDocumentIngesting", deleteErr)
	}
	if deleteReport.VectorStoreDeleted || deleteReport.DocumentDeleted {
		t.Errorf("nothing should have been deleted, got %+v", deleteReport)
	}
	if report.State != commonModels.StateReady {
		t.Fatalf("ingestion should finish undisturbed, got %s", report.State)
	}
	chunks, err := f.svc.GetChunks(ctx, "doc-1")
	if err != nil || len(chunks) != 8 {
		t.Fatalf("chunks after refused delete: %d (%v)", len(chunks), err)
	}

	f.embeddings.OnEmbedChunks = nil
	if _, err := f.svc.DeleteDocument(ctx, "doc-1"); err != nil {
		t.Fatalf("delete after ingestion failed: %v", err)
	}
	if _, err := f.svc.GetDocument(ctx, "doc-1"); !errors.Is(err, commonModels.ErrNotFound) {
		t.Errorf("document should be gone, got %v", err)
	}
	if n, _ := f.vectors.CountByDocument(ctx, "doc-1"); n != 0 {
		t.Errorf("vectors left behind: %d", n)
	}
}

func TestIngestDocument_RefusedWhileDeleting(t *testing.T) {
	f := newFixture()
	f.ingest(t, "doc-1", commonModels.StudyModeQA)
	ctx := context.Background()

	_, release, err := f.svc.AcquireDocument(ctx, "doc-1")
	if err != nil {
		t.Fatal(err)
	}
	done := make(chan struct{})
	go func() {
		_, _ = f.svc.DeleteDocument(ctx, "doc-1")
		close(done)
	}()
	deadline := time.Now().Add(2 * time.Second)
	for {
		doc, err := f.documents.GetDocument(ctx, "doc-1")
		if err == nil && doc.State == commonModels.StateDeleting {
			break
		}
		if time.Now().After(deadline) {
			t.Fatal("document never entered Deleting")
		}
		time.Sleep(5 * time.Millisecond)
	}

	_, err = f.svc.IngestDocument(ctx, commonModels.IngestRequest{
		DocumentId: "doc-1", Name: "doc-1.txt", StudyMode: commonModels.StudyModeQA,
	}, sixThousandChars())
	if !errors.Is(err, commonModels.ErrDocumentDeleting) {
		t.Errorf("ingest during delete = %v; want ErrDocumentDeleting", err)
	}

	release()
	<-done
	if _, err := f.svc.GetDocument(ctx, "doc-1"); !errors.Is(err, commonModels.ErrNotFound) {
		t.Errorf("document should be gone, got %v", err)
	}
}

func TestHealth(t *testing.T) {
	f := newFixture()
	f.vectors.OnHealth = func(ctx context.Context) error { return commonModels.ErrStorageUnavailable }

	report := f.svc.Health(context.Background())
	if report.Healthy || report.StoreError == "" || report.EmbedError != "" {
		t.Errorf("unexpected health report %+v", report)
	}
}
