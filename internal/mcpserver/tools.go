package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/akolanti/StudyRAG/internal/domain/commonModels"
	"github.com/akolanti/StudyRAG/internal/domain/qaModel"
)

type SearchInput struct {
	Query      string `json:"query" jsonschema:"what to look for"`
	DocumentId string `json:"document_id,omitempty" jsonschema:"restrict the search to one document"`
	K          int    `json:"k,omitempty" jsonschema:"maximum number of chunks to return (default 5)"`
}

type SearchHit struct {
	ChunkId    string  `json:"chunk_id"`
	DocumentId string  `json:"document_id"`
	Text       string  `json:"text"`
	Score      float64 `json:"score"`
	StartIndex int     `json:"start_index"`
	EndIndex   int     `json:"end_index"`
	PageNumber int     `json:"page_number,omitempty"`
}

type SearchOutput struct {
	Results []SearchHit `json:"results"`
	Count   int         `json:"count"`
}

type AskInput struct {
	Question   string `json:"question" jsonschema:"the question to answer from the document"`
	DocumentId string `json:"document_id,omitempty" jsonschema:"document to ask about when no session is given"`
	SessionId  string `json:"session_id,omitempty" jsonschema:"continue an existing conversation"`
}

type DocumentInput struct {
	DocumentId string `json:"document_id" jsonschema:"the document id"`
}

type DocumentOutput struct {
	Id          string                       `json:"id"`
	Name        string                       `json:"name"`
	Format      commonModels.DocType         `json:"format"`
	StudyMode   commonModels.StudyMode       `json:"study_mode"`
	State       commonModels.ProcessingState `json:"processing_state"`
	ChunkCount  int                          `json:"chunk_count"`
	VectorCount int                          `json:"vector_count"`
	TextLength  int                          `json:"text_length"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_document",
		Description: "Semantic search over uploaded study documents",
	}, s.handleSearch)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "ask_question",
		Description: "Answer a question from a document, citing the passages used",
	}, s.handleAsk)
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_document",
		Description: "Describe a document and its processing state",
	}, s.handleGetDocument)
}

func (s *Server) handleSearch(ctx context.Context, _ *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	results, err := s.documents.Search(ctx, input.Query, input.K, input.DocumentId)
	if err != nil {
		return nil, SearchOutput{}, err
	}
	out := SearchOutput{Results: make([]SearchHit, len(results)), Count: len(results)}
	for i, r := range results {
		out.Results[i] = SearchHit{
			ChunkId:    r.ChunkId,
			DocumentId: r.Metadata.DocumentId,
			Text:       r.Text,
			Score:      r.Score,
			StartIndex: r.Metadata.StartIndex,
			EndIndex:   r.Metadata.EndIndex,
			PageNumber: r.Metadata.PageNumber,
		}
	}
	return nil, out, nil
}

// handleAsk opens a session on document_id when none is given.
func (s *Server) handleAsk(ctx context.Context, _ *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, qaModel.AskResult, error) {
	sessionId := input.SessionId
	if sessionId == "" {
		session, err := s.qa.CreateSession(ctx, input.DocumentId)
		if err != nil {
			return nil, qaModel.AskResult{}, err
		}
		sessionId = session.Id
		s.logger.Debug("Opened session for tool call", "sessionId", sessionId, "documentId", input.DocumentId)
	}
	result, err := s.qa.Ask(ctx, sessionId, input.Question)
	if err != nil {
		return nil, qaModel.AskResult{}, err
	}
	return nil, result, nil
}

func (s *Server) handleGetDocument(ctx context.Context, _ *mcp.CallToolRequest, input DocumentInput) (*mcp.CallToolResult, DocumentOutput, error) {
	doc, err := s.documents.GetDocument(ctx, input.DocumentId)
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	return nil, DocumentOutput{
		Id:          doc.Id,
		Name:        doc.Name,
		Format:      doc.ContentType,
		StudyMode:   doc.StudyMode,
		State:       doc.State,
		ChunkCount:  doc.ChunkCount,
		VectorCount: doc.VectorCount,
		TextLength:  doc.TextLength(),
	}, nil
}
