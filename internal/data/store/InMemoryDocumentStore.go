package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/akolanti/StudyRAG/internal/domain/commonModels"
)

type InMemoryDocumentStore struct {
	mu        sync.RWMutex
	documents map[string]commonModels.Document
	chunks    map[string][]commonModels.Chunk
}

func NewInMemoryDocumentStore() *InMemoryDocumentStore {
	return &InMemoryDocumentStore{
		documents: make(map[string]commonModels.Document),
		chunks:    make(map[string][]commonModels.Chunk),
	}
}

func (s *InMemoryDocumentStore) SaveDocument(ctx context.Context, doc commonModels.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.documents[doc.Id] = doc
	return nil
}

func (s *InMemoryDocumentStore) GetDocument(ctx context.Context, id string) (commonModels.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.documents[id]
	if !ok {
		return commonModels.Document{}, documentNotFound(id)
	}
	return doc, nil
}

func (s *InMemoryDocumentStore) ListDocuments(ctx context.Context) ([]commonModels.Document, error) {
	s.mu.RLock()
	docs := make([]commonModels.Document, 0, len(s.documents))
	for _, d := range s.documents {
		docs = append(docs, d)
	}
	s.mu.RUnlock()
	sortDocuments(docs)
	return docs, nil
}

func (s *InMemoryDocumentStore) UpdateState(ctx context.Context, id string, state commonModels.ProcessingState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.documents[id]
	if !ok {
		return documentNotFound(id)
	}
	doc.State = state
	s.documents[id] = doc
	return nil
}

func (s *InMemoryDocumentStore) SaveChunks(ctx context.Context, documentId string, chunks []commonModels.Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks[documentId] = slices.Clone(chunks)
	return nil
}

func (s *InMemoryDocumentStore) GetChunks(ctx context.Context, documentId string) ([]commonModels.Chunk, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.chunks[documentId]), nil
}

func (s *InMemoryDocumentStore) DeleteDocument(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.documents, id)
	delete(s.chunks, id)
	return nil
}

func documentNotFound(id string) error {
	return fmt.Errorf("%w: document %s", commonModels.ErrNotFound, id)
}

// sortDocuments lists newest first.
func sortDocuments(docs []commonModels.Document) {
	slices.SortFunc(docs, func(a, b commonModels.Document) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		if a.Id < b.Id {
			return -1
		}
		if a.Id > b.Id {
			return 1
		}
		return 0
	})
}
