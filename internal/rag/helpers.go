package rag

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/akolanti/StudyRAG/internal/domain/commonModels"
	"github.com/akolanti/StudyRAG/internal/metrics"
	"github.com/akolanti/StudyRAG/internal/rag/chunker"
	"github.com/akolanti/StudyRAG/internal/rag/embedding"
	"github.com/akolanti/StudyRAG/internal/rag/vectorDB"
	"github.com/akolanti/StudyRAG/pkg/logger_i"
)

type HealthReport struct {
	Healthy     bool   `json:"healthy"`
	VectorStore string `json:"vector_store"`
	StoreError  string `json:"store_error,omitempty"`
	Embeddings  string `json:"embedding_model"`
	EmbedError  string `json:"embedding_error,omitempty"`
}

func logStep(log *logger_i.Logger, state commonModels.ProcessingState) {
	log.Debug("IngestDocument", "Current State", state)
}

func (s *service) executeChunkingStep(ctx context.Context, log *logger_i.Logger, doc *commonModels.Document, report *commonModels.ProcessingReport) ([]commonModels.Chunk, error) {
	start := time.Now()
	defer func() {
		elapsed := time.Since(start)
		report.PerStageElapsedTime.Chunking = elapsed.Seconds()
		report.Chunking.ElapsedSeconds = elapsed.Seconds()
		metrics.CaptureExecutionMetrics("chunking", elapsed)
	}()

	chunks, strategy, err := s.chunker.Chunk(doc.Id, doc.RawText, doc.Structure)
	if err != nil {
		return nil, err
	}
	if err := s.documents.SaveChunks(ctx, doc.Id, chunks); err != nil {
		return nil, fmt.Errorf("saving chunks: %w", err)
	}
	report.Chunking = chunker.Stats(chunks, strategy)
	report.ChunkCount = len(chunks)
	doc.ChunkCount = len(chunks)

	if err := s.transition(ctx, doc, commonModels.StateChunked); err != nil {
		return nil, err
	}
	logStep(log, doc.State)
	return chunks, nil
}

func (s *service) executeEmbeddingStep(ctx context.Context, log *logger_i.Logger, chunks []commonModels.Chunk, report *commonModels.ProcessingReport) embedding.Result {
	logStep(log, commonModels.StateEmbedding)

	result := s.embeddings.EmbedChunks(ctx, chunks)
	report.PerStageElapsedTime.Embedding = result.Elapsed.Seconds()
	report.Embedding = result.Stats(s.embeddings.ModelName())
	report.EmbeddingSuccessCount = result.SuccessCount
	report.EmbeddingFailureCount = result.FailureCount
	metrics.CaptureExecutionMetrics("embedding", result.Elapsed)
	return result
}

// executeStorageStep upserts every embedded chunk. A failed upsert is rolled back so no partial vector set survives.
func (s *service) executeStorageStep(ctx context.Context, log *logger_i.Logger, doc *commonModels.Document, chunks []commonModels.Chunk, result embedding.Result, report *commonModels.ProcessingReport) (int, error) {
	logStep(log, commonModels.StateStored)
	start := time.Now()
	report.VectorStorage.Enabled = true
	defer func() {
		elapsed := time.Since(start)
		report.PerStageElapsedTime.VectorStorage = elapsed.Seconds()
		report.VectorStorage.ElapsedSeconds = elapsed.Seconds()
		metrics.CaptureExecutionMetrics("vector_storage", elapsed)
	}()

	ingestedAt := time.Now().UTC()
	model := s.embeddings.ModelName()
	records := make([]vectorDB.Record, 0, result.SuccessCount)
	for _, c := range chunks {
		vec, ok := result.Vectors[c.Id]
		if !ok {
			continue
		}
		records = append(records, vectorDB.Record{
			ChunkId: c.Id,
			Vector:  vec,
			Metadata: vectorDB.ChunkMetadata{
				DocumentId:    doc.Id,
				SequenceIndex: c.SequenceIndex,
				StartIndex:    c.StartOffset,
				EndIndex:      c.EndOffset,
				PageNumber:    c.PageNumber,
				Text:          c.Text,
				ModelName:     model,
				IngestedAt:    ingestedAt,
			},
		})
	}

	if err := s.vectors.Upsert(ctx, records...); err != nil {
		log.Error("Vector upsert failed, rolling back", "error", err)
		if _, rbErr := s.vectors.DeleteByDocument(ctx, doc.Id); rbErr != nil {
			log.Error("Rollback failed", "error", rbErr)
			return 0, errors.Join(err, rbErr)
		}
		report.VectorStorage.RolledBack = true
		return 0, err
	}

	report.VectorStorage.Success = true
	report.VectorStorage.VectorsStored = len(records)
	return len(records), nil
}

func noEmbeddingsError(result embedding.Result) error {
	if err := result.Err(); err != nil {
		return fmt.Errorf("no chunk could be embedded: %w", err)
	}
	return fmt.Errorf("%w: no chunk could be embedded", commonModels.ErrTransientProvider)
}

// Health probes the vector store and the embedding provider.
func (s *service) Health(ctx context.Context) HealthReport {
	report := HealthReport{
		Healthy:     true,
		VectorStore: s.vectors.Name(),
		Embeddings:  s.embeddings.ModelName(),
	}
	if err := s.vectors.Health(ctx); err != nil {
		report.Healthy = false
		report.StoreError = err.Error()
	}
	if _, err := s.embeddings.EmbedQuery(ctx, "health check"); err != nil {
		report.Healthy = false
		report.EmbedError = err.Error()
	}
	return report
}
