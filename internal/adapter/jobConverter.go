package adapter

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/akolanti/StudyRAG/internal/api"
	"github.com/akolanti/StudyRAG/internal/domain/commonModels"
	"github.com/akolanti/StudyRAG/internal/domain/jobModel"
	"github.com/akolanti/StudyRAG/internal/rag/ingest"
	"github.com/akolanti/StudyRAG/internal/rag/vectorDB"
)

func ToInitJobResponse(id, documentId string) api.InitJobResponse {
	return api.InitJobResponse{
		Id:         id,
		DocumentId: documentId,
		StatusURL:  fmt.Sprintf("status/%s", id),
	}
}

func ToAPIResponse(job jobModel.Job) api.JobResponse {
	var errorPtr *api.JobOutgoingError
	if job.Error.Message != "" || job.Error.Code != 0 {
		errorPtr = &api.JobOutgoingError{
			Code:    job.Error.Code,
			Message: job.Error.Message,
			Retry:   job.Error.Retry,
		}
	}

	return api.JobResponse{
		Id:        job.Id,
		StartTime: job.CreatedTime,
		EndTime:   job.EndTime,
		Error:     errorPtr,
		Result: api.Result{
			Status:     string(job.Status),
			DocumentId: job.JobPayload.DocumentId,
			Report:     job.JobPayload.Report,
		},
	}
}

// ToErrorResponse maps err onto the HTTP status and body the API returns for it.
func ToErrorResponse(err error) (int, api.ErrorResponse) {
	code := StatusFor(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		message = "Internal Server Error"
	}
	return code, api.ErrorResponse{
		Kind: commonModels.ErrorKind(err),
		Error: api.JobOutgoingError{
			Code:    code,
			Message: message,
			Retry:   commonModels.IsRetryable(err),
		},
	}
}

func StatusFor(err error) int {
	switch commonModels.ErrorKind(err) {
	case "ValidationError":
		return http.StatusBadRequest
	case "NotFoundError":
		return http.StatusNotFound
	case "ConflictError":
		return http.StatusConflict
	case "TransientProviderError", "StorageError":
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func BadRequest(message string, code int) api.ErrorResponse {
	return api.ErrorResponse{
		Error: api.JobOutgoingError{Code: code, Message: message},
	}
}

func ToSearchResponse(query string, results []vectorDB.SimilarityResult) api.SearchResponse {
	out := api.SearchResponse{Query: query, Results: make([]api.SearchResult, 0, len(results))}
	for _, r := range results {
		out.Results = append(out.Results, api.SearchResult{
			Text:  r.Text,
			Score: r.Score,
			Metadata: map[string]interface{}{
				"chunk_id":       r.ChunkId,
				"document_id":    r.Metadata.DocumentId,
				"sequence_index": r.Metadata.SequenceIndex,
				"start_index":    r.Metadata.StartIndex,
				"end_index":      r.Metadata.EndIndex,
				"page_number":    r.Metadata.PageNumber,
				"model_name":     r.Metadata.ModelName,
			},
		})
	}
	return out
}

func ToDocumentSummary(doc commonModels.Document) api.DocumentSummary {
	return api.DocumentSummary{
		Id:          doc.Id,
		Name:        doc.Name,
		Format:      doc.ContentType,
		StudyMode:   doc.StudyMode,
		State:       doc.State,
		ChunkCount:  doc.ChunkCount,
		VectorCount: doc.VectorCount,
		TextLength:  doc.TextLength(),
		CreatedAt:   doc.CreatedAt,
	}
}

func ToDocumentDetail(doc commonModels.Document) api.DocumentDetail {
	return api.DocumentDetail{DocumentSummary: ToDocumentSummary(doc), Report: doc.Report}
}

func ToDocumentContent(doc commonModels.Document) api.DocumentContent {
	structure := doc.Structure
	if structure.Pages == nil {
		structure.Pages = []commonModels.PageSpan{}
	}
	if structure.Sections == nil {
		structure.Sections = []commonModels.SectionSpan{}
	}
	return api.DocumentContent{
		Id:                doc.Id,
		FullText:          doc.RawText,
		Format:            doc.ContentType,
		DocumentStructure: structure,
	}
}

func ToFormatsResponse() api.FormatsResponse {
	exts := ingest.SupportedExtensions()
	for i, e := range exts {
		exts[i] = strings.TrimPrefix(e, ".")
	}
	return api.FormatsResponse{
		Extensions: exts,
		StudyModes: []commonModels.StudyMode{commonModels.StudyModeQA, commonModels.StudyModeQuiz, commonModels.StudyModeFlashcards},
	}
}
