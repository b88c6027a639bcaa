package qaModel

import (
	"context"
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// SourceReference ties part of an answer back to a span of the document text.
type SourceReference struct {
	Id         string  `json:"id"`
	ChunkId    string  `json:"chunk_id"`
	Text       string  `json:"text"`
	StartIndex int     `json:"start_index"`
	EndIndex   int     `json:"end_index"`
	PageNumber int     `json:"page_number,omitempty"`
	Confidence float64 `json:"confidence"`
}

type Message struct {
	Id        string            `json:"id"`
	Role      Role              `json:"role"`
	Content   string            `json:"content"`
	Timestamp time.Time         `json:"timestamp"`
	Sources   []SourceReference `json:"sources,omitempty"`
}

type Session struct {
	Id           string    `json:"id"`
	DocumentId   string    `json:"document_id"`
	DocumentName string    `json:"document_name"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	Messages     []Message `json:"messages"`
}

type SessionSummary struct {
	Id           string    `json:"id"`
	DocumentId   string    `json:"document_id"`
	DocumentName string    `json:"document_name"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	MessageCount int       `json:"message_count"`
}

func (s Session) Summary() SessionSummary {
	return SessionSummary{
		Id:           s.Id,
		DocumentId:   s.DocumentId,
		DocumentName: s.DocumentName,
		CreatedAt:    s.CreatedAt,
		LastActivity: s.LastActivity,
		MessageCount: len(s.Messages),
	}
}

// SessionStore persists sessions. Unknown ids return commonModels.ErrNotFound.
type SessionStore interface {
	CreateSession(ctx context.Context, session Session) error
	GetSession(ctx context.Context, id string) (Session, error)
	// AppendMessages stores all messages or none of them.
	AppendMessages(ctx context.Context, id string, messages ...Message) error
	RecentMessages(ctx context.Context, id string, limit int) ([]Message, error)
	ListSessions(ctx context.Context) ([]SessionSummary, error)
	DeleteSession(ctx context.Context, id string) error
}

// AskResult is the assistant turn produced by one successful ask.
type AskResult struct {
	MessageId      string            `json:"message_id"`
	SessionId      string            `json:"session_id"`
	Answer         string            `json:"answer"`
	Sources        []SourceReference `json:"sources"`
	ProcessingTime float64           `json:"processing_time"`
}
