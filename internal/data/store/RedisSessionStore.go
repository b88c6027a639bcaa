package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/akolanti/StudyRAG/internal/config"
	"github.com/akolanti/StudyRAG/internal/data/redisStore"
	"github.com/akolanti/StudyRAG/internal/domain/commonModels"
	"github.com/akolanti/StudyRAG/internal/domain/qaModel"
	"github.com/akolanti/StudyRAG/pkg/logger_i"
)

const sessionIndexKey = "sessions"

// RedisSessionStore keeps session metadata as JSON and the conversation as a list of JSON messages.
type RedisSessionStore struct {
	store  *redisStore.Store
	logger *logger_i.Logger

	beforeAppendCommit func()
}

func GetRedisSessionStore(ctx context.Context, cfg config.RedisConfig) (*RedisSessionStore, error) {
	s, err := redisStore.GetRedisStore(ctx, cfg, config.RedisSessionStore)
	if err != nil {
		return nil, err
	}
	return NewRedisSessionStore(s), nil
}

func NewRedisSessionStore(s *redisStore.Store) *RedisSessionStore {
	return &RedisSessionStore{
		store:  s,
		logger: logger_i.NewLogger("session_store"),
	}
}

func (s *RedisSessionStore) CreateSession(ctx context.Context, session qaModel.Session) error {
	exists, err := s.store.Exists(ctx, sessionKey(session.Id))
	if err != nil {
		return fmt.Errorf("checking session %s: %w", session.Id, err)
	}
	if exists {
		return fmt.Errorf("%w: session %s already exists", commonModels.ErrConflict, session.Id)
	}

	messages := session.Messages
	session.Messages = nil
	meta, err := json.Marshal(session)
	if err != nil {
		return err
	}
	encoded, err := encodeMessages(messages)
	if err != nil {
		return err
	}
	err = s.store.Atomic(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(session.Id), meta, 0)
		pipe.SAdd(ctx, sessionIndexKey, session.Id)
		if len(encoded) > 0 {
			pipe.RPush(ctx, messagesKey(session.Id), encoded...)
		}
		return nil
	})
	if err == nil {
		s.logger.WithTrace(ctx).Debug("Created session", "sessionId", session.Id, "documentId", session.DocumentId)
	}
	return err
}

func (s *RedisSessionStore) GetSession(ctx context.Context, id string) (qaModel.Session, error) {
	session, err := s.getMeta(ctx, id)
	if err != nil {
		return session, err
	}
	session.Messages, err = s.readMessages(ctx, id, 0)
	return session, err
}

// AppendMessages pushes every message and bumps last activity in one transaction.
// The session key is watched, so a session deleted before the commit stays deleted.
func (s *RedisSessionStore) AppendMessages(ctx context.Context, id string, messages ...qaModel.Message) error {
	if len(messages) == 0 {
		_, err := s.getMeta(ctx, id)
		return err
	}
	encoded, err := encodeMessages(messages)
	if err != nil {
		return err
	}
	return s.store.Watched(ctx, func(tx *redis.Tx) error {
		val, err := tx.Get(ctx, sessionKey(id)).Result()
		if s.store.IsNil(err) {
			return sessionNotFound(id)
		} else if err != nil {
			return fmt.Errorf("reading session %s: %w", id, err)
		}
		session, err := decodeSession(id, val)
		if err != nil {
			return err
		}
		session.LastActivity = messages[len(messages)-1].Timestamp
		meta, err := json.Marshal(session)
		if err != nil {
			return err
		}
		if s.beforeAppendCommit != nil {
			s.beforeAppendCommit()
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.RPush(ctx, messagesKey(id), encoded...)
			pipe.Set(ctx, sessionKey(id), meta, 0)
			return nil
		})
		return err
	}, sessionKey(id))
}

func (s *RedisSessionStore) RecentMessages(ctx context.Context, id string, limit int) ([]qaModel.Message, error) {
	if _, err := s.getMeta(ctx, id); err != nil {
		return nil, err
	}
	return s.readMessages(ctx, id, limit)
}

func (s *RedisSessionStore) ListSessions(ctx context.Context) ([]qaModel.SessionSummary, error) {
	ids, err := s.store.SetMembers(ctx, sessionIndexKey)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	out := make([]qaModel.SessionSummary, 0, len(ids))
	for _, id := range ids {
		session, err := s.getMeta(ctx, id)
		if err != nil {
			s.logger.WithTrace(ctx).Warn("Skipping unreadable session", "sessionId", id, "error", err)
			continue
		}
		count, err := s.store.ListLen(ctx, messagesKey(id))
		if err != nil {
			return nil, err
		}
		summary := session.Summary()
		summary.MessageCount = int(count)
		out = append(out, summary)
	}
	sortSummaries(out)
	return out, nil
}

func (s *RedisSessionStore) DeleteSession(ctx context.Context, id string) error {
	return s.store.Atomic(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, sessionKey(id), messagesKey(id))
		pipe.SRem(ctx, sessionIndexKey, id)
		return nil
	})
}

func (s *RedisSessionStore) getMeta(ctx context.Context, id string) (qaModel.Session, error) {
	var session qaModel.Session
	val, err := s.store.Get(ctx, sessionKey(id))
	if s.store.IsNil(err) {
		return session, sessionNotFound(id)
	} else if err != nil {
		return session, fmt.Errorf("reading session %s: %w", id, err)
	}
	return decodeSession(id, val)
}

func decodeSession(id, val string) (qaModel.Session, error) {
	var session qaModel.Session
	if err := json.Unmarshal([]byte(val), &session); err != nil {
		return session, fmt.Errorf("decoding session %s: %w", id, err)
	}
	return session, nil
}

func (s *RedisSessionStore) readMessages(ctx context.Context, id string, limit int) ([]qaModel.Message, error) {
	raw, err := s.store.ListTail(ctx, messagesKey(id), limit)
	if err != nil {
		return nil, fmt.Errorf("reading messages of %s: %w", id, err)
	}
	messages := make([]qaModel.Message, 0, len(raw))
	for _, r := range raw {
		var m qaModel.Message
		if err := json.Unmarshal([]byte(r), &m); err != nil {
			return nil, fmt.Errorf("decoding message of %s: %w", id, err)
		}
		messages = append(messages, m)
	}
	return messages, nil
}

func encodeMessages(messages []qaModel.Message) ([]interface{}, error) {
	out := make([]interface{}, 0, len(messages))
	for _, m := range messages {
		data, err := json.Marshal(m)
		if err != nil {
			return nil, err
		}
		out = append(out, data)
	}
	return out, nil
}

func sessionKey(id string) string {
	return "session:" + id
}

func messagesKey(id string) string {
	return "session:" + id + ":messages"
}
