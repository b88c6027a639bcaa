// Package qa runs question-answer sessions over a single document.
package qa

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/akolanti/StudyRAG/internal/config"
	"github.com/akolanti/StudyRAG/internal/domain/commonModels"
	"github.com/akolanti/StudyRAG/internal/domain/qaModel"
	"github.com/akolanti/StudyRAG/internal/metrics"
	"github.com/akolanti/StudyRAG/internal/rag/llm"
	"github.com/akolanti/StudyRAG/internal/rag/vectorDB"
	"github.com/akolanti/StudyRAG/pkg/logger_i"
)

// Retriever is the part of the RAG service an ask needs.
type Retriever interface {
	GetDocument(ctx context.Context, documentId string) (commonModels.Document, error)
	AcquireDocument(ctx context.Context, documentId string) (commonModels.Document, func(), error)
	Retrieve(ctx context.Context, query string, k int, documentId string) ([]vectorDB.SimilarityResult, error)
}

type Options struct {
	SearchK           int
	HistoryLimit      int
	GenerationTimeout time.Duration
}

type Manager struct {
	sessions  qaModel.SessionStore
	retriever Retriever
	generator llm.Provider
	opts      Options
	locks     *sessionLocks
	logger    *logger_i.Logger
	now       func() time.Time
}

func NewManager(sessions qaModel.SessionStore, retriever Retriever, generator llm.Provider, opts Options) *Manager {
	if opts.SearchK <= 0 {
		opts.SearchK = config.DefaultSearchK
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = config.DefaultHistoryLimit
	}
	if opts.GenerationTimeout <= 0 {
		opts.GenerationTimeout = config.GenerationTimeout
	}
	return &Manager{
		sessions:  sessions,
		retriever: retriever,
		generator: generator,
		opts:      opts,
		locks:     newSessionLocks(),
		logger:    logger_i.NewLogger("qa_manager"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (m *Manager) CreateSession(ctx context.Context, documentId string) (qaModel.Session, error) {
	doc, err := m.retriever.GetDocument(ctx, documentId)
	if err != nil {
		return qaModel.Session{}, err
	}
	now := m.now()
	session := qaModel.Session{
		Id:           uuid.NewString(),
		DocumentId:   doc.Id,
		DocumentName: doc.Name,
		CreatedAt:    now,
		LastActivity: now,
		Messages:     []qaModel.Message{},
	}
	if err := m.sessions.CreateSession(ctx, session); err != nil {
		return qaModel.Session{}, err
	}
	m.logger.WithTrace(ctx).Info("Session created", "sessionId", session.Id, "documentId", doc.Id)
	return session, nil
}

func (m *Manager) GetSession(ctx context.Context, sessionId string) (qaModel.Session, error) {
	return m.sessions.GetSession(ctx, sessionId)
}

func (m *Manager) GetMessages(ctx context.Context, sessionId string) ([]qaModel.Message, error) {
	session, err := m.sessions.GetSession(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	return session.Messages, nil
}

func (m *Manager) ListSessions(ctx context.Context) ([]qaModel.SessionSummary, error) {
	return m.sessions.ListSessions(ctx)
}

// DeleteSession removes the session. Unknown ids are not an error.
func (m *Manager) DeleteSession(ctx context.Context, sessionId string) error {
	return m.sessions.DeleteSession(ctx, sessionId)
}

// Ask answers question from the session's document and records the exchange.
// History is only written when every step succeeds, so a failed ask can be repeated as is.
func (m *Manager) Ask(ctx context.Context, sessionId, question string) (qaModel.AskResult, error) {
	start := time.Now()
	log := m.logger.WithTrace(ctx).With("sessionId", sessionId)

	result, err := m.ask(ctx, log, sessionId, question)
	metrics.CaptureExecutionMetrics("qa_ask", time.Since(start))
	if err != nil {
		metrics.RecordAsk(commonModels.ErrorKind(err))
		log.Warn("Ask failed", "error", err)
		return qaModel.AskResult{}, err
	}
	result.ProcessingTime = time.Since(start).Seconds()
	metrics.RecordAsk("success")
	log.Info("Ask answered", "sources", len(result.Sources), "elapsed", result.ProcessingTime)
	return result, nil
}

func (m *Manager) ask(ctx context.Context, log *logger_i.Logger, sessionId, question string) (qaModel.AskResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return qaModel.AskResult{}, commonModels.ErrEmptyQuestion
	}

	unlock, ok := m.locks.tryLock(sessionId)
	if !ok {
		return qaModel.AskResult{}, commonModels.ErrAskInProgress
	}
	defer unlock()

	session, err := m.sessions.GetSession(ctx, sessionId)
	if err != nil {
		return qaModel.AskResult{}, err
	}

	_, release, err := m.retriever.AcquireDocument(ctx, session.DocumentId)
	if err != nil {
		return qaModel.AskResult{}, err
	}
	defer release()

	results, err := m.retriever.Retrieve(ctx, question, m.opts.SearchK, session.DocumentId)
	if err != nil {
		return qaModel.AskResult{}, fmt.Errorf("retrieving context: %w", err)
	}
	results = dedupe(results)
	log.Debug("Context retrieved", "documentId", session.DocumentId, "chunks", len(results))

	recent, err := m.sessions.RecentMessages(ctx, sessionId, m.opts.HistoryLimit)
	if err != nil {
		return qaModel.AskResult{}, err
	}

	answer, err := m.generate(ctx, question, results, recent)
	if err != nil {
		return qaModel.AskResult{}, err
	}

	asked := m.now()
	sources := toSources(results)
	user := qaModel.Message{Id: uuid.NewString(), Role: qaModel.RoleUser, Content: question, Timestamp: asked}
	assistant := qaModel.Message{Id: uuid.NewString(), Role: qaModel.RoleAssistant, Content: answer, Timestamp: asked, Sources: sources}
	if err := m.sessions.AppendMessages(ctx, sessionId, user, assistant); err != nil {
		return qaModel.AskResult{}, fmt.Errorf("recording exchange: %w", err)
	}

	return qaModel.AskResult{
		MessageId: assistant.Id,
		SessionId: sessionId,
		Answer:    answer,
		Sources:   sources,
	}, nil
}

func (m *Manager) generate(ctx context.Context, question string, results []vectorDB.SimilarityResult, recent []qaModel.Message) (string, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("llm_generation", time.Since(start)) }()

	genCtx, cancel := context.WithTimeout(ctx, m.opts.GenerationTimeout)
	defer cancel()

	contexts := make([]string, len(results))
	for i, r := range results {
		contexts[i] = r.Text
	}
	history := make([]string, len(recent))
	for i, msg := range recent {
		history[i] = fmt.Sprintf("%s: %s", msg.Role, msg.Content)
	}

	answer, err := m.generator.Generate(genCtx, question, contexts, history)
	switch {
	case errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil:
		return "", fmt.Errorf("%w: generation timed out after %s", commonModels.ErrTransientProvider, m.opts.GenerationTimeout)
	case err != nil:
		return "", fmt.Errorf("generating answer: %w", err)
	case strings.TrimSpace(answer) == "":
		return "", llm.ErrEmptyAnswer
	}
	return answer, nil
}

// dedupe keeps the first result per chunk id, preserving order.
func dedupe(results []vectorDB.SimilarityResult) []vectorDB.SimilarityResult {
	seen := make(map[string]struct{}, len(results))
	out := results[:0:0]
	for _, r := range results {
		if _, dup := seen[r.ChunkId]; dup {
			continue
		}
		seen[r.ChunkId] = struct{}{}
		out = append(out, r)
	}
	return out
}

func toSources(results []vectorDB.SimilarityResult) []qaModel.SourceReference {
	sources := make([]qaModel.SourceReference, 0, len(results))
	for _, r := range results {
		sources = append(sources, qaModel.SourceReference{
			Id:         uuid.NewString(),
			ChunkId:    r.ChunkId,
			Text:       r.Text,
			StartIndex: r.Metadata.StartIndex,
			EndIndex:   r.Metadata.EndIndex,
			PageNumber: r.Metadata.PageNumber,
			Confidence: min(max(r.Score, 0), 1),
		})
	}
	return sources
}
