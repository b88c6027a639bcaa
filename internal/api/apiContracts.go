package api

import (
	"time"

	"github.com/akolanti/StudyRAG/internal/correlator"
	"github.com/akolanti/StudyRAG/internal/domain/commonModels"
	"github.com/akolanti/StudyRAG/internal/domain/qaModel"
)

type JobResponse struct {
	Id        string            `json:"id" example:"job_cz109"`
	Result    Result            `json:"result"`
	Error     *JobOutgoingError `json:"error,omitempty"`
	StartTime time.Time         `json:"start_time"`
	EndTime   time.Time         `json:"end_time,omitempty"`
}

type JobOutgoingError struct {
	Code    int    `json:"code" example:"400"`
	Message string `json:"message" example:"Job not found"`
	Retry   bool   `json:"can_retry" example:"false"`
}

type Result struct {
	Status     string                         `json:"status"`
	DocumentId string                         `json:"document_id,omitempty"`
	Report     *commonModels.ProcessingReport `json:"report,omitempty"`
}

type InitJobResponse struct {
	Id         string `json:"id"`
	DocumentId string `json:"document_id"`
	StatusURL  string `json:"status_url"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error JobOutgoingError `json:"error"`
	Kind  string           `json:"kind,omitempty" example:"ValidationError"`
}

// requests---------------------

type SearchRequest struct {
	Query      string `json:"query" example:"What is mitosis?"`
	K          int    `json:"k,omitempty" example:"5"`
	DocumentId string `json:"document_id,omitempty"`
}

type CreateSessionRequest struct {
	DocumentId string `json:"document_id"`
}

type AskRequest struct {
	Question  string `json:"question" example:"What is X?"`
	SessionId string `json:"session_id"`
}

type HighlightRequest struct {
	Window  *correlator.Window        `json:"window,omitempty"`
	Page    int                       `json:"page,omitempty"`
	Sources []qaModel.SourceReference `json:"sources"`
}

// responses---------------------

type SearchResult struct {
	Text     string                 `json:"text"`
	Score    float64                `json:"score"`
	Metadata map[string]interface{} `json:"metadata"`
}

type SearchResponse struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
}

type DocumentSummary struct {
	Id          string                       `json:"id"`
	Name        string                       `json:"name"`
	Format      commonModels.DocType         `json:"format"`
	StudyMode   commonModels.StudyMode       `json:"study_mode"`
	State       commonModels.ProcessingState `json:"processing_state"`
	ChunkCount  int                          `json:"chunk_count"`
	VectorCount int                          `json:"vector_count"`
	TextLength  int                          `json:"text_length"`
	CreatedAt   time.Time                    `json:"created_at"`
}

type DocumentDetail struct {
	DocumentSummary
	Report *commonModels.ProcessingReport `json:"report,omitempty"`
}

type DocumentContent struct {
	Id                string                 `json:"id"`
	FullText          string                 `json:"full_text"`
	Format            commonModels.DocType   `json:"format"`
	DocumentStructure commonModels.Structure `json:"document_structure"`
}

type ChunksResponse struct {
	DocumentId string               `json:"document_id"`
	Chunks     []commonModels.Chunk `json:"chunks"`
}

type FormatsResponse struct {
	Extensions []string                 `json:"extensions"`
	StudyModes []commonModels.StudyMode `json:"study_modes"`
}

type HighlightResponse struct {
	Text *correlator.TextView `json:"text,omitempty"`
	Page *correlator.PageView `json:"page,omitempty"`
}
