package openaiEmbedding

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akolanti/StudyRAG/internal/domain/commonModels"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestBatchEmbedding_OrdersByIndex(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/embeddings", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "text-embedding-3-small", body["model"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","model":"text-embedding-3-small",
			"data":[{"object":"embedding","index":1,"embedding":[0.3,0.4]},{"object":"embedding","index":0,"embedding":[0.1,0.2]}],
			"usage":{"prompt_tokens":4,"total_tokens":4}}`))
	})

	e := New("sk-test", "text-embedding-3-small", 2, srv.Client(), option.WithBaseURL(srv.URL+"/"))
	vectors, err := e.BatchEmbedding(context.Background(), []string{"first", "second"})
	require.NoError(t, err)

	require.Len(t, vectors, 2)
	assert.InDelta(t, 0.1, vectors[0][0], 1e-6)
	assert.InDelta(t, 0.3, vectors[1][0], 1e-6)
	assert.Equal(t, "text-embedding-3-small", e.ModelName())
}

func TestBatchEmbedding_RateLimitIsTransient(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"requests"}}`))
	})

	e := New("sk-test", "text-embedding-3-small", 2, srv.Client(), option.WithBaseURL(srv.URL+"/"))
	_, err := e.BatchEmbedding(context.Background(), []string{"a"})

	assert.ErrorIs(t, err, commonModels.ErrTransientProvider)
}

func TestBatchEmbedding_BadRequestIsPermanent(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"bad input","type":"invalid_request_error"}}`))
	})

	e := New("sk-test", "text-embedding-3-small", 2, srv.Client(), option.WithBaseURL(srv.URL+"/"))
	_, err := e.BatchEmbedding(context.Background(), []string{"a"})

	require.Error(t, err)
	assert.NotErrorIs(t, err, commonModels.ErrTransientProvider)
}
