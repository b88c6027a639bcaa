package rag

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/akolanti/StudyRAG/internal/config"
	"github.com/akolanti/StudyRAG/internal/domain/commonModels"
	"github.com/akolanti/StudyRAG/internal/metrics"
	"github.com/akolanti/StudyRAG/internal/rag/chunker"
	"github.com/akolanti/StudyRAG/internal/rag/embedding"
	"github.com/akolanti/StudyRAG/internal/rag/vectorDB"
	"github.com/akolanti/StudyRAG/pkg/logger_i"
)

/*
ARCHITECTURE NOTE: OPAQUE INTERFACE PATTERN
---------------------------------------------------------
Service is the public contract handlers, workers, the QA manager and the MCP
tools call. service is the private implementation holding the stores and
providers, so nobody outside this package reaches the vector store or the
embedder directly. NewService wires the dependencies; tests swap them for mocks.
*/

// Service drives documents through the pipeline and answers retrieval queries.
type Service interface {
	// IngestFile extracts the stored file then runs IngestDocument.
	IngestFile(ctx context.Context, req commonModels.IngestRequest) (commonModels.ProcessingReport, error)
	// IngestDocument chunks already extracted text and, for qa, embeds and stores it.
	// Embedding and storage failures degrade the document to Failed and are reported, not returned.
	IngestDocument(ctx context.Context, req commonModels.IngestRequest, extracted commonModels.ExtractedDocument) (commonModels.ProcessingReport, error)

	Search(ctx context.Context, query string, k int, documentId string) ([]vectorDB.SimilarityResult, error)
	// AcquireDocument takes the document's read guard once it is searchable. release must be called.
	AcquireDocument(ctx context.Context, documentId string) (doc commonModels.Document, release func(), err error)
	// Retrieve searches without taking the guard; callers hold it through AcquireDocument.
	Retrieve(ctx context.Context, query string, k int, documentId string) ([]vectorDB.SimilarityResult, error)

	DeleteDocument(ctx context.Context, documentId string) (commonModels.DeleteReport, error)
	GetDocument(ctx context.Context, documentId string) (commonModels.Document, error)
	ListDocuments(ctx context.Context) ([]commonModels.Document, error)
	GetChunks(ctx context.Context, documentId string) ([]commonModels.Chunk, error)
	GetChunk(ctx context.Context, documentId string, sequence int) (commonModels.Chunk, error)

	Health(ctx context.Context) HealthReport
}

// Embeddings is the slice of the embedding service the pipeline needs.
type Embeddings interface {
	EmbedChunks(ctx context.Context, chunks []commonModels.Chunk) embedding.Result
	EmbedQuery(ctx context.Context, text string) ([]float32, error)
	ModelName() string
}

type Dependencies struct {
	Documents  commonModels.DocumentStore
	Vectors    vectorDB.Store
	Embeddings Embeddings
	Chunker    *chunker.Chunker
	Extractor  commonModels.DocumentExtractor
}

type Options struct {
	DefaultK int
	MaxK     int
}

type service struct {
	documents  commonModels.DocumentStore
	vectors    vectorDB.Store
	embeddings Embeddings
	chunker    *chunker.Chunker
	extractor  commonModels.DocumentExtractor
	guards     *documentGuards
	opts       Options
	logger     *logger_i.Logger
}

// NewService constructor
func NewService(deps Dependencies, opts Options) Service {
	if opts.DefaultK <= 0 {
		opts.DefaultK = config.DefaultSearchK
	}
	if opts.MaxK <= 0 {
		opts.MaxK = config.MaxSearchK
	}
	if deps.Chunker == nil {
		deps.Chunker = chunker.New()
	}
	return &service{
		documents:  deps.Documents,
		vectors:    deps.Vectors,
		embeddings: deps.Embeddings,
		chunker:    deps.Chunker,
		extractor:  deps.Extractor,
		guards:     newDocumentGuards(),
		opts:       opts,
		logger:     logger_i.NewLogger("rag_service"),
	}
}

func (s *service) IngestFile(ctx context.Context, req commonModels.IngestRequest) (commonModels.ProcessingReport, error) {
	if s.extractor == nil {
		return commonModels.ProcessingReport{}, errors.New("no document extractor configured")
	}
	extracted, err := s.extractor.Extract(ctx, req.SourcePath)
	if err != nil {
		s.logger.WithTrace(ctx).Warn("Extraction failed", "documentId", req.DocumentId, "error", err)
		return commonModels.ProcessingReport{}, fmt.Errorf("extracting %s: %w", req.Name, err)
	}
	return s.IngestDocument(ctx, req, extracted)
}

func (s *service) IngestDocument(ctx context.Context, req commonModels.IngestRequest, extracted commonModels.ExtractedDocument) (commonModels.ProcessingReport, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("document_ingestion", time.Since(start)) }()
	log := s.logger.WithTrace(ctx).With("documentId", req.DocumentId)

	release, err := s.guards.begin(req.DocumentId, ingesting)
	if err != nil {
		return commonModels.ProcessingReport{}, err
	}
	defer release()

	mode := req.StudyMode
	if mode == "" {
		mode = commonModels.StudyModeQA
	}
	now := time.Now().UTC()
	doc := commonModels.Document{
		Id:                  req.DocumentId,
		Name:                req.Name,
		ContentType:         extracted.Format,
		RawText:             extracted.RawText,
		Structure:           extracted.Structure,
		StudyMode:           mode,
		SourcePath:          req.SourcePath,
		CreatedAt:           now,
		LastIngestTimestamp: now,
	}
	report := &commonModels.ProcessingReport{
		DocumentId:   doc.Id,
		DocumentName: doc.Name,
		Format:       doc.ContentType,
		StudyMode:    mode,
	}
	finish := func() commonModels.ProcessingReport {
		report.State = doc.State
		report.ProcessingTimeSeconds = time.Since(start).Seconds()
		doc.Report = report
		if err := s.documents.SaveDocument(ctx, doc); err != nil {
			log.Error("Failed to persist final document state", "error", err)
		}
		metrics.RecordDocumentState(string(doc.State))
		return *report
	}

	if err := s.transition(ctx, &doc, commonModels.StateExtracted); err != nil {
		return *report, err
	}

	chunks, err := s.executeChunkingStep(ctx, log, &doc, report)
	if err != nil {
		report.AddStageError(commonModels.StageChunking, err)
		doc.State = commonModels.StateFailed
		finish()
		return *report, err
	}

	if !mode.RequiresRetrieval() {
		doc.State = commonModels.StateReady
		log.Info("Document ready without retrieval", "mode", mode, "chunks", len(chunks))
		return finish(), nil
	}

	if err := s.transition(ctx, &doc, commonModels.StateEmbedding); err != nil {
		return *report, err
	}
	result := s.executeEmbeddingStep(ctx, log, chunks, report)
	if result.SuccessCount == 0 {
		report.AddStageError(commonModels.StageEmbedding, noEmbeddingsError(result))
		doc.State = commonModels.StateFailed
		log.Warn("No chunk could be embedded", "chunks", len(chunks))
		return finish(), nil
	}
	if result.FailureCount > 0 {
		report.AddStageError(commonModels.StageEmbedding, result.Err())
	}

	stored, err := s.executeStorageStep(ctx, log, &doc, chunks, result, report)
	if err != nil {
		report.AddStageError(commonModels.StageVectorStorage, err)
		doc.State = commonModels.StateFailed
		return finish(), nil
	}

	doc.VectorCount = stored
	report.VectorCount = stored
	doc.State = commonModels.StateStored
	if err := s.documents.UpdateState(ctx, doc.Id, doc.State); err != nil {
		log.Warn("Failed to record Stored state", "error", err)
	}
	doc.State = commonModels.StateReady
	log.Info("Document ready", "chunks", len(chunks), "vectors", stored, "failedChunks", result.FailureCount)
	return finish(), nil
}

// transition persists the document in its next state.
func (s *service) transition(ctx context.Context, doc *commonModels.Document, state commonModels.ProcessingState) error {
	doc.State = state
	if err := s.documents.SaveDocument(ctx, *doc); err != nil {
		return fmt.Errorf("saving document in state %s: %w", state, err)
	}
	return nil
}

func (s *service) Search(ctx context.Context, query string, k int, documentId string) ([]vectorDB.SimilarityResult, error) {
	if documentId == "" {
		return s.Retrieve(ctx, query, k, "")
	}
	_, release, err := s.AcquireDocument(ctx, documentId)
	if err != nil {
		return nil, err
	}
	defer release()
	return s.Retrieve(ctx, query, k, documentId)
}

func (s *service) AcquireDocument(ctx context.Context, documentId string) (commonModels.Document, func(), error) {
	doc, err := s.documents.GetDocument(ctx, documentId)
	if err != nil {
		return commonModels.Document{}, nil, err
	}
	if doc.State == commonModels.StateDeleting {
		return commonModels.Document{}, nil, commonModels.ErrDocumentDeleting
	}

	guard := s.guards.get(documentId)
	guard.RLock()

	// deletion may have run while we waited for the guard
	doc, err = s.documents.GetDocument(ctx, documentId)
	switch {
	case err != nil:
		guard.RUnlock()
		return commonModels.Document{}, nil, err
	case doc.State == commonModels.StateDeleting:
		guard.RUnlock()
		return commonModels.Document{}, nil, commonModels.ErrDocumentDeleting
	case !doc.Searchable():
		guard.RUnlock()
		return commonModels.Document{}, nil, fmt.Errorf("%w: %s is %s with %d vectors", commonModels.ErrDocumentNotReady, documentId, doc.State, doc.VectorCount)
	}
	return doc, guard.RUnlock, nil
}

func (s *service) Retrieve(ctx context.Context, query string, k int, documentId string) ([]vectorDB.SimilarityResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("%w: query is empty", commonModels.ErrValidation)
	}
	k = s.clampK(k)

	vector, err := s.embeddings.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	results, err := s.vectors.Search(ctx, vector, k, documentId)
	metrics.CaptureExecutionMetrics("vector_search", time.Since(start))
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *service) clampK(k int) int {
	if k <= 0 {
		return s.opts.DefaultK
	}
	return min(k, s.opts.MaxK)
}

func (s *service) DeleteDocument(ctx context.Context, documentId string) (commonModels.DeleteReport, error) {
	log := s.logger.WithTrace(ctx).With("documentId", documentId)
	report := commonModels.DeleteReport{DocumentId: documentId}

	release, err := s.guards.begin(documentId, deleting)
	if err != nil {
		return report, err
	}
	defer release()

	doc, err := s.documents.GetDocument(ctx, documentId)
	if err != nil {
		return report, err
	}
	if err := s.documents.UpdateState(ctx, documentId, commonModels.StateDeleting); err != nil {
		return report, fmt.Errorf("marking %s as deleting: %w", documentId, err)
	}

	guard := s.guards.get(documentId)
	guard.Lock()
	defer guard.Unlock()

	removed, err := s.vectors.DeleteByDocument(ctx, documentId)
	if err != nil {
		log.Error("Vector deletion failed, document stays in Deleting", "error", err)
		report.Error = err.Error()
		return report, err
	}
	report.VectorStoreDeleted = true
	report.VectorsRemoved = removed

	if err := s.documents.DeleteDocument(ctx, documentId); err != nil {
		log.Error("Document record deletion failed", "error", err)
		report.Error = err.Error()
		return report, err
	}
	report.DocumentDeleted = true

	if doc.SourcePath != "" {
		if err := os.Remove(doc.SourcePath); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn("Error removing stored original", "path", doc.SourcePath, "error", err)
		}
	}
	s.guards.forget(documentId)
	log.Info("Document deleted", "vectorsRemoved", removed)
	return report, nil
}

func (s *service) GetDocument(ctx context.Context, documentId string) (commonModels.Document, error) {
	return s.documents.GetDocument(ctx, documentId)
}

func (s *service) ListDocuments(ctx context.Context) ([]commonModels.Document, error) {
	return s.documents.ListDocuments(ctx)
}

func (s *service) GetChunks(ctx context.Context, documentId string) ([]commonModels.Chunk, error) {
	if _, err := s.documents.GetDocument(ctx, documentId); err != nil {
		return nil, err
	}
	return s.documents.GetChunks(ctx, documentId)
}

func (s *service) GetChunk(ctx context.Context, documentId string, sequence int) (commonModels.Chunk, error) {
	chunks, err := s.GetChunks(ctx, documentId)
	if err != nil {
		return commonModels.Chunk{}, err
	}
	if sequence < 0 || sequence >= len(chunks) {
		return commonModels.Chunk{}, fmt.Errorf("%w: chunk %d of %s", commonModels.ErrNotFound, sequence, documentId)
	}
	return chunks[sequence], nil
}
