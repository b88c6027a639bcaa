package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/akolanti/StudyRAG/internal/config"
	"github.com/akolanti/StudyRAG/internal/data/redisStore"
	"github.com/akolanti/StudyRAG/internal/domain/commonModels"
	"github.com/akolanti/StudyRAG/pkg/logger_i"
)

const documentIndexKey = "documents"

// RedisDocumentStore keeps each document as JSON, its chunks under a sibling key and every id in a set.
type RedisDocumentStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisDocumentStore(ctx context.Context, cfg config.RedisConfig) (*RedisDocumentStore, error) {
	s, err := redisStore.GetRedisStore(ctx, cfg, config.RedisDocumentStore)
	if err != nil {
		return nil, err
	}
	return NewRedisDocumentStore(s), nil
}

func NewRedisDocumentStore(s *redisStore.Store) *RedisDocumentStore {
	return &RedisDocumentStore{
		store:  s,
		logger: logger_i.NewLogger("document_store"),
	}
}

func (s *RedisDocumentStore) SaveDocument(ctx context.Context, doc commonModels.Document) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	err = s.store.Atomic(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, documentKey(doc.Id), data, 0)
		pipe.SAdd(ctx, documentIndexKey, doc.Id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("saving document %s: %w", doc.Id, err)
	}
	s.logger.WithTrace(ctx).Debug("Saved document", "documentId", doc.Id, "state", doc.State)
	return nil
}

func (s *RedisDocumentStore) GetDocument(ctx context.Context, id string) (commonModels.Document, error) {
	var doc commonModels.Document
	val, err := s.store.Get(ctx, documentKey(id))
	if s.store.IsNil(err) {
		return doc, documentNotFound(id)
	} else if err != nil {
		return doc, fmt.Errorf("reading document %s: %w", id, err)
	}
	if err := json.Unmarshal([]byte(val), &doc); err != nil {
		return doc, fmt.Errorf("decoding document %s: %w", id, err)
	}
	return doc, nil
}

func (s *RedisDocumentStore) ListDocuments(ctx context.Context) ([]commonModels.Document, error) {
	ids, err := s.store.SetMembers(ctx, documentIndexKey)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	docs := make([]commonModels.Document, 0, len(ids))
	for _, id := range ids {
		doc, err := s.GetDocument(ctx, id)
		if err != nil {
			// index entry outlived its document
			s.logger.WithTrace(ctx).Warn("Skipping unreadable document", "documentId", id, "error", err)
			continue
		}
		docs = append(docs, doc)
	}
	sortDocuments(docs)
	return docs, nil
}

func (s *RedisDocumentStore) UpdateState(ctx context.Context, id string, state commonModels.ProcessingState) error {
	doc, err := s.GetDocument(ctx, id)
	if err != nil {
		return err
	}
	doc.State = state
	return s.SaveDocument(ctx, doc)
}

func (s *RedisDocumentStore) SaveChunks(ctx context.Context, documentId string, chunks []commonModels.Chunk) error {
	data, err := json.Marshal(chunks)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, chunksKey(documentId), data, 0)
}

func (s *RedisDocumentStore) GetChunks(ctx context.Context, documentId string) ([]commonModels.Chunk, error) {
	val, err := s.store.Get(ctx, chunksKey(documentId))
	if s.store.IsNil(err) {
		return []commonModels.Chunk{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("reading chunks of %s: %w", documentId, err)
	}
	var chunks []commonModels.Chunk
	if err := json.Unmarshal([]byte(val), &chunks); err != nil {
		return nil, fmt.Errorf("decoding chunks of %s: %w", documentId, err)
	}
	return chunks, nil
}

func (s *RedisDocumentStore) DeleteDocument(ctx context.Context, id string) error {
	return s.store.Atomic(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, documentKey(id), chunksKey(id))
		pipe.SRem(ctx, documentIndexKey, id)
		return nil
	})
}

func documentKey(id string) string {
	return "document:" + id
}

func chunksKey(id string) string {
	return "document:" + id + ":chunks"
}
