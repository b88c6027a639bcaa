package vectorDB

import (
	"context"
	"sort"
	"time"
)

// Store persists chunk vectors and answers similarity queries scoped to one document.
type Store interface {
	// Upsert is idempotent per ChunkId: re-inserting replaces the previous vector and metadata.
	Upsert(ctx context.Context, records ...Record) error
	// Search returns at most k results, best first. Ties break by sequence then chunk id.
	// An empty documentId searches every document.
	Search(ctx context.Context, vector []float32, k int, documentId string) ([]SimilarityResult, error)
	// DeleteByDocument removes every vector of a document and reports how many were removed.
	DeleteByDocument(ctx context.Context, documentId string) (int, error)
	CountByDocument(ctx context.Context, documentId string) (int, error)
	Health(ctx context.Context) error
	Name() string
}

type ChunkMetadata struct {
	DocumentId    string    `json:"document_id"`
	SequenceIndex int       `json:"sequence_index"`
	StartIndex    int       `json:"start_index"`
	EndIndex      int       `json:"end_index"`
	PageNumber    int       `json:"page_number,omitempty"`
	Text          string    `json:"text"`
	ModelName     string    `json:"model_name"`
	IngestedAt    time.Time `json:"ingested_at"`
}

type Record struct {
	ChunkId  string
	Vector   []float32
	Metadata ChunkMetadata
}

type SimilarityResult struct {
	ChunkId  string        `json:"chunk_id"`
	Score    float64       `json:"similarity_score"`
	Text     string        `json:"content"`
	Metadata ChunkMetadata `json:"metadata"`
}

// SortResults orders by descending score, then ascending sequence index and chunk id, and keeps the first k.
func SortResults(results []SimilarityResult, k int) []SimilarityResult {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Metadata.SequenceIndex != b.Metadata.SequenceIndex {
			return a.Metadata.SequenceIndex < b.Metadata.SequenceIndex
		}
		return a.ChunkId < b.ChunkId
	})
	if k >= 0 && len(results) > k {
		results = results[:k]
	}
	return results
}
