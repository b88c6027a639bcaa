package store

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/akolanti/StudyRAG/internal/domain/commonModels"
	"github.com/akolanti/StudyRAG/internal/domain/qaModel"
)

type InMemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]qaModel.Session
}

func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{sessions: make(map[string]qaModel.Session)}
}

func (s *InMemorySessionStore) CreateSession(ctx context.Context, session qaModel.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.sessions[session.Id]; exists {
		return fmt.Errorf("%w: session %s already exists", commonModels.ErrConflict, session.Id)
	}
	session.Messages = slices.Clone(session.Messages)
	s.sessions[session.Id] = session
	return nil
}

func (s *InMemorySessionStore) GetSession(ctx context.Context, id string) (qaModel.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return qaModel.Session{}, sessionNotFound(id)
	}
	session.Messages = slices.Clone(session.Messages)
	return session, nil
}

func (s *InMemorySessionStore) AppendMessages(ctx context.Context, id string, messages ...qaModel.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return sessionNotFound(id)
	}
	session.Messages = append(session.Messages, messages...)
	if n := len(messages); n > 0 {
		session.LastActivity = messages[n-1].Timestamp
	}
	s.sessions[id] = session
	return nil
}

func (s *InMemorySessionStore) RecentMessages(ctx context.Context, id string, limit int) ([]qaModel.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return nil, sessionNotFound(id)
	}
	msgs := session.Messages
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}
	return slices.Clone(msgs), nil
}

func (s *InMemorySessionStore) ListSessions(ctx context.Context) ([]qaModel.SessionSummary, error) {
	s.mu.RLock()
	out := make([]qaModel.SessionSummary, 0, len(s.sessions))
	for _, session := range s.sessions {
		out = append(out, session.Summary())
	}
	s.mu.RUnlock()
	sortSummaries(out)
	return out, nil
}

func (s *InMemorySessionStore) DeleteSession(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func sessionNotFound(id string) error {
	return fmt.Errorf("%w: session %s", commonModels.ErrNotFound, id)
}

// sortSummaries lists the most recently active session first.
func sortSummaries(out []qaModel.SessionSummary) {
	slices.SortFunc(out, func(a, b qaModel.SessionSummary) int {
		if c := b.LastActivity.Compare(a.LastActivity); c != 0 {
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
