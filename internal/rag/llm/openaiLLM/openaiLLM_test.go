package openaiLLM

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
	"github.com/akolanti/StudyRAG/internal/rag/llm"
)

func TestGenerate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o-mini", body.Model)
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0].Role)
		assert.Contains(t, body.Messages[1].Content, "Cells divide by mitosis.")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"By mitosis."}}]}`))
	}))
	t.Cleanup(srv.Close)

	p := New("sk-test", "gpt-4o-mini", 0.2, srv.Client(), option.WithBaseURL(srv.URL+"/"))
	answer, err := p.Generate(context.Background(), "How do cells divide?", []string{"Cells divide by mitosis."}, nil)

	require.NoError(t, err)
	assert.Equal(t, "By mitosis.", answer)
}

func TestGenerate_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o-mini","choices":[]}`))
	}))
	t.Cleanup(srv.Close)

	p := New("sk-test", "gpt-4o-mini", 0.2, srv.Client(), option.WithBaseURL(srv.URL+"/"))
	_, err := p.Generate(context.Background(), "q", nil, nil)

	assert.ErrorIs(t, err, llm.ErrEmptyAnswer)
	assert.ErrorIs(t, err, commonModels.ErrTransientProvider)
}
