package rag_test

import (
	"context"
	"sync"

	"github.com/akolanti/StudyRAG/internal/domain/commonModels"
	"github.com/akolanti/StudyRAG/internal/rag/embedding"
	"github.com/akolanti/StudyRAG/internal/rag/vectorDB"
)

// MockVectorStore implements vectorDB.Store and keeps upserted records in memory.
type MockVectorStore struct {
	mu      sync.Mutex
	Records map[string]vectorDB.Record

	OnUpsert           func(ctx context.Context, records ...vectorDB.Record) error
	OnSearch           func(ctx context.Context, vector []float32, k int, documentId string) ([]vectorDB.SimilarityResult, error)
	OnDeleteByDocument func(ctx context.Context, documentId string) (int, error)
	OnHealth           func(ctx context.Context) error
}

func NewMockVectorStore() *MockVectorStore {
	return &MockVectorStore{Records: make(map[string]vectorDB.Record)}
}

func (m *MockVectorStore) Upsert(ctx context.Context, records ...vectorDB.Record) error {
	if m.OnUpsert != nil {
		if err := m.OnUpsert(ctx, records...); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range records {
		m.Records[r.ChunkId] = r
	}
	return nil
}

func (m *MockVectorStore) Search(ctx context.Context, vector []float32, k int, documentId string) ([]vectorDB.SimilarityResult, error) {
	if m.OnSearch != nil {
		return m.OnSearch(ctx, vector, k, documentId)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []vectorDB.SimilarityResult
	for id, r := range m.Records {
		if documentId != "" && r.Metadata.DocumentId != documentId {
			continue
		}
		out = append(out, vectorDB.SimilarityResult{ChunkId: id, Score: 0.5, Text: r.Metadata.Text, Metadata: r.Metadata})
	}
	return vectorDB.SortResults(out, k), nil
}

func (m *MockVectorStore) DeleteByDocument(ctx context.Context, documentId string) (int, error) {
	if m.OnDeleteByDocument != nil {
		return m.OnDeleteByDocument(ctx, documentId)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, r := range m.Records {
		if r.Metadata.DocumentId == documentId {
			delete(m.Records, id)
			removed++
		}
	}
	return removed, nil
}

func (m *MockVectorStore) CountByDocument(ctx context.Context, documentId string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, r := range m.Records {
		if r.Metadata.DocumentId == documentId {
			n++
		}
	}
	return n, nil
}

func (m *MockVectorStore) Health(ctx context.Context) error {
	if m.OnHealth != nil {
		return m.OnHealth(ctx)
	}
	return nil
}

func (m *MockVectorStore) Name() string { return "mock" }

// MockEmbeddings implements rag.Embeddings. By default every chunk succeeds.
type MockEmbeddings struct {
	OnEmbedChunks func(ctx context.Context, chunks []commonModels.Chunk) embedding.Result
	OnEmbedQuery  func(ctx context.Context, text string) ([]float32, error)
}

func (m *MockEmbeddings) EmbedChunks(ctx context.Context, chunks []commonModels.Chunk) embedding.Result {
	if m.OnEmbedChunks != nil {
		return m.OnEmbedChunks(ctx, chunks)
	}
	return embedAll(chunks, nil)
}

func (m *MockEmbeddings) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if m.OnEmbedQuery != nil {
		return m.OnEmbedQuery(ctx, text)
	}
	return []float32{0.1, 0.2}, nil
}

func (m *MockEmbeddings) ModelName() string { return "mock-embedding" }

// embedAll embeds every chunk except those whose sequence index is in fail.
func embedAll(chunks []commonModels.Chunk, fail map[int]bool) embedding.Result {
	res := embedding.Result{Vectors: make(map[string][]float32), Batches: 1}
	for _, c := range chunks {
		if fail[c.SequenceIndex] {
			res.FailureCount++
			res.FailedChunkIds = append(res.FailedChunkIds, c.Id)
			continue
		}
		res.Vectors[c.Id] = []float32{float32(c.SequenceIndex), 1}
		res.SuccessCount++
	}
	return res
}

// MockExtractor implements commonModels.DocumentExtractor.
type MockExtractor struct {
	OnExtract func(ctx context.Context, path string) (commonModels.ExtractedDocument, error)
}

func (m *MockExtractor) Extract(ctx context.Context, path string) (commonModels.ExtractedDocument, error) {
	return m.OnExtract(ctx, path)
}
