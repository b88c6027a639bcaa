package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/akolanti/StudyRAG/internal/adapter/utils"
	"github.com/akolanti/StudyRAG/internal/api"
	"github.com/akolanti/StudyRAG/internal/correlator"
	"github.com/akolanti/StudyRAG/internal/data/store"
	"github.com/akolanti/StudyRAG/internal/domain/commonModels"
	"github.com/akolanti/StudyRAG/internal/domain/jobModel"
	"github.com/akolanti/StudyRAG/internal/domain/qaModel"
	"github.com/akolanti/StudyRAG/internal/handlers"
	"github.com/akolanti/StudyRAG/internal/job"
	"github.com/akolanti/StudyRAG/internal/qa"
	"github.com/akolanti/StudyRAG/internal/rag"
	"github.com/akolanti/StudyRAG/internal/rag/llm/templateLLM"
	mocks "github.com/akolanti/StudyRAG/internal/rag/rag_test"
)

var clientCounter int64

type testAPI struct {
	router     *chi.Mux
	vectors    *mocks.MockVectorStore
	embeddings *mocks.MockEmbeddings
	jobs       *job.Service
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	ta := &testAPI{
		router:     utils.NewRouter(),
		vectors:    mocks.NewMockVectorStore(),
		embeddings: &mocks.MockEmbeddings{},
	}
	extractor := &mocks.MockExtractor{OnExtract: func(ctx context.Context, path string) (commonModels.ExtractedDocument, error) {
		return commonModels.ExtractedDocument{RawText: strings.Repeat("lorem ", 1000), Format: commonModels.TXT}, nil
	}}
	documents := rag.NewService(rag.Dependencies{
		Documents:  store.NewInMemoryDocumentStore(),
		Vectors:    ta.vectors,
		Embeddings: ta.embeddings,
		Extractor:  extractor,
	}, rag.Options{})
	ta.jobs = job.InitJobService(job.ServiceConfig{
		JobChannel:        make(chan jobModel.Job, 10),
		DispatcherChannel: make(chan bool, 10),
		JobStore:          store.InitInMemoryJobStore(),
	})
	handlers.InitHandler(handlers.Dependencies{
		Documents:  documents,
		QA:         qa.NewManager(store.NewInMemorySessionStore(), documents, templateLLM.New(), qa.Options{}),
		Correlator: correlator.New(nil, 3000),
		Jobs:       ta.jobs,
		UploadDir:  t.TempDir(),
	})
	RegisterRoutes(ta.router, nil)
	return ta
}

// do sends the request from a fresh client address so the per-IP limiter stays out of the way.
func (ta *testAPI) do(req *http.Request) *httptest.ResponseRecorder {
	n := atomic.AddInt64(&clientCounter, 1)
	req.RemoteAddr = fmt.Sprintf("10.0.%d.%d:4000", n/250, n%250+1)
	rec := httptest.NewRecorder()
	ta.router.ServeHTTP(rec, req)
	return rec
}

func (ta *testAPI) doJSON(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return ta.do(req)
}

func (ta *testAPI) upload(t *testing.T, filename, mode, query string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("document", filename)
	if err != nil {
		t.Fatal(err)
	}
	_, _ = fw.Write([]byte("irrelevant, the extractor is mocked"))
	if mode != "" {
		_ = mw.WriteField("study_mode", mode)
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/documents"+query, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return ta.do(req)
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decoding %T: %v (body %q)", out, err, rec.Body.String())
	}
	return out
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("expected status %d, got %d: %s", want, rec.Code, rec.Body.String())
	}
}

func TestDocumentLifecycle(t *testing.T) {
	ta := newTestAPI(t)

	rec := ta.upload(t, "biology.txt", "qa", "")
	expectStatus(t, rec, http.StatusCreated)
	if rec.Header().Get("X-Trace-Id") == "" {
		t.Error("expected a trace id on the response")
	}
	report := decode[commonModels.ProcessingReport](t, rec)
	if report.State != commonModels.StateReady || report.ChunkCount != 8 || report.VectorCount != 8 {
		t.Fatalf("unexpected report %+v", report)
	}
	id := report.DocumentId

	t.Run("list and get", func(t *testing.T) {
		rec := ta.doJSON(http.MethodGet, "/documents", nil)
		expectStatus(t, rec, http.StatusOK)
		if docs := decode[[]api.DocumentSummary](t, rec); len(docs) != 1 || docs[0].Name != "biology.txt" {
			t.Errorf("unexpected listing %+v", docs)
		}

		rec = ta.doJSON(http.MethodGet, "/documents/"+id+"/content", nil)
		expectStatus(t, rec, http.StatusOK)
		content := decode[api.DocumentContent](t, rec)
		if len(content.FullText) != 6000 || content.DocumentStructure.Pages == nil {
			t.Errorf("unexpected content: %d runes, pages %v", len(content.FullText), content.DocumentStructure.Pages)
		}
	})

	t.Run("chunks", func(t *testing.T) {
		rec := ta.doJSON(http.MethodGet, "/documents/"+id+"/chunks/3", nil)
		expectStatus(t, rec, http.StatusOK)
		if chunk := decode[commonModels.Chunk](t, rec); chunk.SequenceIndex != 3 {
			t.Errorf("expected chunk 3, got %d", chunk.SequenceIndex)
		}
		expectStatus(t, ta.doJSON(http.MethodGet, "/documents/"+id+"/chunks/x", nil), http.StatusBadRequest)
		expectStatus(t, ta.doJSON(http.MethodGet, "/documents/"+id+"/chunks/99", nil), http.StatusNotFound)
	})

	t.Run("search", func(t *testing.T) {
		rec := ta.doJSON(http.MethodPost, "/search", api.SearchRequest{Query: "lorem", K: 3, DocumentId: id})
		expectStatus(t, rec, http.StatusOK)
		if res := decode[api.SearchResponse](t, rec); len(res.Results) != 3 {
			t.Errorf("expected 3 results, got %d", len(res.Results))
		}
		expectStatus(t, ta.doJSON(http.MethodPost, "/search", api.SearchRequest{Query: "lorem", DocumentId: "ghost"}), http.StatusNotFound)
	})

	t.Run("ask", func(t *testing.T) {
		rec := ta.doJSON(http.MethodPost, "/qa/sessions", api.CreateSessionRequest{DocumentId: id})
		expectStatus(t, rec, http.StatusCreated)
		session := decode[qaModel.Session](t, rec)

		rec = ta.doJSON(http.MethodPost, "/qa/ask", api.AskRequest{Question: "What is lorem?", SessionId: session.Id})
		expectStatus(t, rec, http.StatusOK)
		result := decode[qaModel.AskResult](t, rec)
		if result.Answer == "" || len(result.Sources) != 5 {
			t.Errorf("unexpected ask result %+v", result)
		}

		rec = ta.doJSON(http.MethodPost, "/qa/ask", api.AskRequest{Question: "  ", SessionId: session.Id})
		expectStatus(t, rec, http.StatusBadRequest)
		if body := decode[api.ErrorResponse](t, rec); body.Kind != "ValidationError" || body.Error.Retry {
			t.Errorf("unexpected error body %+v", body)
		}

		rec = ta.doJSON(http.MethodGet, "/qa/sessions/"+session.Id+"/messages", nil)
		expectStatus(t, rec, http.StatusOK)
		if messages := decode[[]qaModel.Message](t, rec); len(messages) != 2 {
			t.Errorf("expected 2 messages, got %d", len(messages))
		}

		expectStatus(t, ta.doJSON(http.MethodDelete, "/qa/sessions/"+session.Id, nil), http.StatusNoContent)
		expectStatus(t, ta.doJSON(http.MethodGet, "/qa/sessions/"+session.Id, nil), http.StatusNotFound)
	})

	t.Run("highlights and navigation", func(t *testing.T) {
		rec := ta.doJSON(http.MethodPost, "/documents/"+id+"/highlights", api.HighlightRequest{
			Window:  &correlator.Window{Start: 0, End: 100},
			Sources: []qaModel.SourceReference{{Id: "s1", StartIndex: 10, EndIndex: 20}},
		})
		expectStatus(t, rec, http.StatusOK)
		view := decode[api.HighlightResponse](t, rec)
		if view.Text == nil || len(view.Text.Highlights) != 1 {
			t.Fatalf("unexpected highlight view %+v", view)
		}

		rec = ta.doJSON(http.MethodPost, "/documents/"+id+"/highlights", api.HighlightRequest{Page: 1})
		expectStatus(t, rec, http.StatusBadRequest)

		rec = ta.doJSON(http.MethodGet, "/documents/"+id+"/navigate?start_index=3500", nil)
		expectStatus(t, rec, http.StatusOK)
		target := decode[correlator.Target](t, rec)
		if target.Window == nil || *target.Window != (correlator.Window{Start: 3000, End: 6000}) {
			t.Errorf("unexpected target %+v", target)
		}
		expectStatus(t, ta.doJSON(http.MethodGet, "/documents/"+id+"/navigate?start_index=abc", nil), http.StatusBadRequest)
	})

	t.Run("delete", func(t *testing.T) {
		rec := ta.doJSON(http.MethodDelete, "/documents/"+id, nil)
		expectStatus(t, rec, http.StatusOK)
		deleted := decode[commonModels.DeleteReport](t, rec)
		if !deleted.VectorStoreDeleted || !deleted.DocumentDeleted || deleted.VectorsRemoved != 8 {
			t.Errorf("unexpected delete report %+v", deleted)
		}
		expectStatus(t, ta.doJSON(http.MethodGet, "/documents/"+id, nil), http.StatusNotFound)
	})
}

func TestUploadValidation(t *testing.T) {
	ta := newTestAPI(t)

	tests := []struct {
		name     string
		filename string
		mode     string
		want     int
	}{
		{"unsupported extension", "virus.exe", "qa", http.StatusBadRequest},
		{"unknown study mode", "notes.txt", "cramming", http.StatusBadRequest},
		{"quiz mode stops after chunking", "notes.txt", "quiz", http.StatusCreated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectStatus(t, ta.upload(t, tt.filename, tt.mode, ""), tt.want)
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/documents", strings.NewReader("not multipart"))
	expectStatus(t, ta.do(req), http.StatusBadRequest)
}

func TestAsyncUpload(t *testing.T) {
	ta := newTestAPI(t)

	rec := ta.upload(t, "notes.txt", "", "?async=true")
	expectStatus(t, rec, http.StatusAccepted)
	accepted := decode[api.InitJobResponse](t, rec)
	if accepted.StatusURL != "status/"+accepted.Id || accepted.DocumentId == "" {
		t.Fatalf("unexpected accept body %+v", accepted)
	}

	queued := <-ta.jobs.JobChannel
	if queued.JobPayload.StudyMode != commonModels.StudyModeQA || !strings.HasSuffix(queued.JobPayload.SourcePath, ".txt") {
		t.Errorf("unexpected queued payload %+v", queued.JobPayload)
	}

	rec = ta.doJSON(http.MethodGet, "/status/"+accepted.Id, nil)
	expectStatus(t, rec, http.StatusOK)
	if status := decode[api.JobResponse](t, rec); status.Result.Status != string(jobModel.JobStatusQueued) {
		t.Errorf("expected queued job, got %+v", status)
	}
	expectStatus(t, ta.doJSON(http.MethodGet, "/status/ghost", nil), http.StatusNotFound)
}

func TestProviderOutageIsRetryable(t *testing.T) {
	ta := newTestAPI(t)
	ta.embeddings.OnEmbedQuery = func(ctx context.Context, text string) ([]float32, error) {
		return nil, fmt.Errorf("%w: quota exceeded", commonModels.ErrTransientProvider)
	}

	rec := ta.doJSON(http.MethodPost, "/search", api.SearchRequest{Query: "lorem"})
	expectStatus(t, rec, http.StatusServiceUnavailable)
	if body := decode[api.ErrorResponse](t, rec); !body.Error.Retry || body.Error.Code != http.StatusServiceUnavailable {
		t.Errorf("expected a retryable 503 envelope, got %+v", body)
	}

	rec = ta.doJSON(http.MethodGet, "/health", nil)
	expectStatus(t, rec, http.StatusServiceUnavailable)
	if health := decode[rag.HealthReport](t, rec); health.Healthy || health.EmbedError == "" {
		t.Errorf("unexpected health %+v", health)
	}
}

func TestRateLimiter(t *testing.T) {
	ta := newTestAPI(t)

	last := 0
	for i := 0; i < 20; i++ {
		req := httptest.NewRequest(http.MethodGet, "/formats", nil)
		req.RemoteAddr = "203.0.113.9:5000"
		rec := httptest.NewRecorder()
		ta.router.ServeHTTP(rec, req)
		last = rec.Code
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("expected the burst to be exhausted, last status %d", last)
	}
}

func TestMetricsUseRoutePatterns(t *testing.T) {
	ta := newTestAPI(t)
	ta.do(httptest.NewRequest(http.MethodGet, "/documents/unknown-doc", nil))

	rec := ta.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `path="/documents/{id}"`) {
		t.Error("request counter should be labelled with the route pattern")
	}
	if strings.Contains(body, "unknown-doc") {
		t.Error("raw ids must not leak into metric labels")
	}
}
