package mcpserver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akolanti/StudyRAG/internal/domain/commonModels"
	"github.com/akolanti/StudyRAG/internal/domain/qaModel"
	"github.com/akolanti/StudyRAG/internal/rag/vectorDB"
)

type mockSearcher struct {
	results   []vectorDB.SimilarityResult
	err       error
	lastK     int
	lastScope string
}

func (m *mockSearcher) Search(ctx context.Context, query string, k int, documentId string) ([]vectorDB.SimilarityResult, error) {
	m.lastK, m.lastScope = k, documentId
	return m.results, m.err
}

func (m *mockSearcher) GetDocument(ctx context.Context, documentId string) (commonModels.Document, error) {
	if documentId != "doc-1" {
		return commonModels.Document{}, commonModels.ErrNotFound
	}
	return commonModels.Document{Id: "doc-1", Name: "bio.pdf", ContentType: commonModels.PDF, RawText: "héllo", State: commonModels.StateReady, VectorCount: 8}, nil
}

type mockAsker struct {
	created []string
	askedIn string
	askErr  error
}

func (m *mockAsker) CreateSession(ctx context.Context, documentId string) (qaModel.Session, error) {
	m.created = append(m.created, documentId)
	return qaModel.Session{Id: "sess-new", DocumentId: documentId}, nil
}

func (m *mockAsker) Ask(ctx context.Context, sessionId, question string) (qaModel.AskResult, error) {
	m.askedIn = sessionId
	if m.askErr != nil {
		return qaModel.AskResult{}, m.askErr
	}
	return qaModel.AskResult{SessionId: sessionId, Answer: "answer to " + question}, nil
}

func TestNewServer_RequiresServices(t *testing.T) {
	_, err := NewServer(nil, &mockAsker{})
	assert.Error(t, err)
}

func TestHandleSearch(t *testing.T) {
	searcher := &mockSearcher{results: []vectorDB.SimilarityResult{{
		ChunkId: "doc-1_2", Score: 0.8, Text: "chlorophyll",
		Metadata: vectorDB.ChunkMetadata{DocumentId: "doc-1", StartIndex: 1600, EndIndex: 2600, PageNumber: 3},
	}}}
	s, err := NewServer(searcher, &mockAsker{})
	require.NoError(t, err)

	_, out, err := s.handleSearch(context.Background(), nil, SearchInput{Query: "q", DocumentId: "doc-1", K: 3})
	require.NoError(t, err)
	assert.Equal(t, 1, out.Count)
	assert.Equal(t, SearchHit{ChunkId: "doc-1_2", DocumentId: "doc-1", Text: "chlorophyll", Score: 0.8, StartIndex: 1600, EndIndex: 2600, PageNumber: 3}, out.Results[0])
	assert.Equal(t, 3, searcher.lastK)
	assert.Equal(t, "doc-1", searcher.lastScope)

	searcher.err = commonModels.ErrDocumentNotReady
	_, _, err = s.handleSearch(context.Background(), nil, SearchInput{Query: "q", DocumentId: "doc-1"})
	assert.ErrorIs(t, err, commonModels.ErrConflict)
}

func TestHandleAsk(t *testing.T) {
	asker := &mockAsker{}
	s, err := NewServer(&mockSearcher{}, asker)
	require.NoError(t, err)

	t.Run("opens a session when none is given", func(t *testing.T) {
		_, out, err := s.handleAsk(context.Background(), nil, AskInput{Question: "why?", DocumentId: "doc-1"})
		require.NoError(t, err)
		assert.Equal(t, []string{"doc-1"}, asker.created)
		assert.Equal(t, "sess-new", out.SessionId)
		assert.Equal(t, "answer to why?", out.Answer)
	})

	t.Run("continues an existing session", func(t *testing.T) {
		_, _, err := s.handleAsk(context.Background(), nil, AskInput{Question: "and?", SessionId: "sess-7"})
		require.NoError(t, err)
		assert.Equal(t, "sess-7", asker.askedIn)
		assert.Len(t, asker.created, 1)
	})

	t.Run("surfaces ask errors", func(t *testing.T) {
		asker.askErr = commonModels.ErrEmptyQuestion
		_, _, err := s.handleAsk(context.Background(), nil, AskInput{SessionId: "sess-7"})
		assert.ErrorIs(t, err, commonModels.ErrValidation)
	})
}

func TestHandleGetDocument(t *testing.T) {
	s, err := NewServer(&mockSearcher{}, &mockAsker{})
	require.NoError(t, err)

	_, out, err := s.handleGetDocument(context.Background(), nil, DocumentInput{DocumentId: "doc-1"})
	require.NoError(t, err)
	assert.Equal(t, "bio.pdf", out.Name)
	assert.Equal(t, 5, out.TextLength)
	assert.Equal(t, 8, out.VectorCount)

	_, _, err = s.handleGetDocument(context.Background(), nil, DocumentInput{DocumentId: "ghost"})
	assert.ErrorIs(t, err, commonModels.ErrNotFound)
}
