package mcpserver

import (
	"context"
	"errors"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/akolanti/StudyRAG/internal/domain/commonModels"
	"github.com/akolanti/StudyRAG/internal/domain/qaModel"
	"github.com/akolanti/StudyRAG/internal/rag/vectorDB"
	"github.com/akolanti/StudyRAG/pkg/logger_i"
)

const Version = "1.0.0"

type Searcher interface {
	Search(ctx context.Context, query string, k int, documentId string) ([]vectorDB.SimilarityResult, error)
	GetDocument(ctx context.Context, documentId string) (commonModels.Document, error)
}

type Asker interface {
	CreateSession(ctx context.Context, documentId string) (qaModel.Session, error)
	Ask(ctx context.Context, sessionId, question string) (qaModel.AskResult, error)
}

// Server exposes document search and question answering as MCP tools.
type Server struct {
	documents Searcher
	qa        Asker
	server    *mcp.Server
	logger    *logger_i.Logger
}

func NewServer(documents Searcher, asker Asker) (*Server, error) {
	if documents == nil || asker == nil {
		return nil, errors.New("mcp server needs a document service and a qa manager")
	}
	s := &Server{
		documents: documents,
		qa:        asker,
		server:    mcp.NewServer(&mcp.Implementation{Name: "studyrag", Version: Version}, nil),
		logger:    logger_i.NewLogger("mcp_server"),
	}
	s.registerTools()
	return s, nil
}

// Handler serves the tools over streamable HTTP, mounted at /mcp.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)
}
