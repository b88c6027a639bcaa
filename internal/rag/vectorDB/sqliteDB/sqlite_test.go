package sqliteDB

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akolanti/StudyRAG/internal/domain/commonModels"
	"github.com/akolanti/StudyRAG/internal/rag/vectorDB"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "vectors.db"))
	require.NoError(t, err)
	t.Cleanup(func() { assert.NoError(t, store.Close()) })
	return store
}

func record(doc string, seq int, vector ...float32) vectorDB.Record {
	id := fmt.Sprintf("%s_%d", doc, seq)
	return vectorDB.Record{
		ChunkId: id,
		Vector:  vector,
		Metadata: vectorDB.ChunkMetadata{
			DocumentId:    doc,
			SequenceIndex: seq,
			StartIndex:    seq * 800,
			EndIndex:      seq*800 + 1000,
			PageNumber:    seq + 1,
			Text:          "text of " + id,
			ModelName:     "test-model",
			IngestedAt:    time.Unix(1700000000, 0).UTC(),
		},
	}
}

func TestSearch_RanksWithinDocument(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx,
		record("doc-a", 0, 1, 0),
		record("doc-a", 1, 0.7, 0.7),
		record("doc-a", 2, 0, 1),
		record("doc-b", 0, 1, 0),
	))

	results, err := store.Search(ctx, []float32{1, 0}, 2, "doc-a")
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "doc-a_0", results[0].ChunkId)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
	assert.Equal(t, "doc-a_1", results[1].ChunkId)
	assert.Equal(t, "text of doc-a_1", results[1].Text)
	assert.Equal(t, 800, results[1].Metadata.StartIndex)
	assert.Equal(t, 2, results[1].Metadata.PageNumber)
	for _, r := range results {
		assert.Equal(t, "doc-a", r.Metadata.DocumentId)
	}
}

func TestSearch_TiesBreakBySequence(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, record("doc", 2, 1, 0), record("doc", 0, 1, 0), record("doc", 1, 1, 0)))

	results, err := store.Search(ctx, []float32{1, 0}, 3, "doc")
	require.NoError(t, err)

	assert.Equal(t, "doc_0", results[0].ChunkId)
	assert.Equal(t, "doc_1", results[1].ChunkId)
	assert.Equal(t, "doc_2", results[2].ChunkId)
}

func TestUpsert_IsIdempotent(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, record("doc", 0, 1, 0)))
	require.NoError(t, store.Upsert(ctx, record("doc", 0, 0, 1)))

	count, err := store.CountByDocument(ctx, "doc")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	results, err := store.Search(ctx, []float32{0, 1}, 1, "doc")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, results[0].Score, 1e-6)
}

func TestUpsert_RejectsEmptyVector(t *testing.T) {
	store := setupTestStore(t)

	err := store.Upsert(context.Background(), record("doc", 0))
	assert.ErrorIs(t, err, commonModels.ErrValidation)
}

func TestDeleteByDocument(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, record("doc-a", 0, 1, 0), record("doc-a", 1, 0, 1), record("doc-b", 0, 1, 1)))

	removed, err := store.DeleteByDocument(ctx, "doc-a")
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	results, err := store.Search(ctx, []float32{1, 0}, 5, "doc-a")
	require.NoError(t, err)
	assert.Empty(t, results)

	count, err := store.CountByDocument(ctx, "doc-b")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	removed, err = store.DeleteByDocument(ctx, "doc-a")
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}

func TestHealth(t *testing.T) {
	assert.NoError(t, setupTestStore(t).Health(context.Background()))
}

func TestCosine(t *testing.T) {
	assert.InDelta(t, 1.0, cosine([]float32{2, 0}, []float32{5, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosine([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.InDelta(t, -1.0, cosine([]float32{1, 0}, []float32{-1, 0}), 1e-9)
	assert.Equal(t, 0.0, cosine([]float32{1}, []float32{1, 2}))
	assert.Equal(t, 0.0, cosine([]float32{0, 0}, []float32{1, 2}))
}

func TestFloat32Encoding(t *testing.T) {
	in := []float32{0.25, -1.5, 3}
	assert.Equal(t, in, bytesToFloat32Slice(float32SliceToBytes(in)))
}

func TestSearch_WithoutDocumentFilter(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Upsert(ctx, record("doc-a", 0, 1, 0), record("doc-b", 0, 0.9, 0.1)))

	results, err := store.Search(ctx, []float32{1, 0}, 5, "")
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "doc-a_0", results[0].ChunkId)
	assert.Equal(t, "doc-b_0", results[1].ChunkId)
}
