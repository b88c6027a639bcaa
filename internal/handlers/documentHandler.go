package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/akolanti/StudyRAG/internal/adapter"
	"github.com/akolanti/StudyRAG/internal/adapter/utils"
	"github.com/akolanti/StudyRAG/internal/api"
	"github.com/akolanti/StudyRAG/internal/correlator"
	"github.com/akolanti/StudyRAG/internal/domain/commonModels"
)

// ListDocumentsHandler godoc
// @Summary      List documents
// @Tags         Documents
// @Produce      json
// @Success      200  {array}   api.DocumentSummary
// @Router       /documents [get]
func ListDocumentsHandler(w http.ResponseWriter, r *http.Request) {
	docs, err := handlerInstance.documents.ListDocuments(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]api.DocumentSummary, 0, len(docs))
	for _, d := range docs {
		out = append(out, adapter.ToDocumentSummary(d))
	}
	writeJsonResponse(w, http.StatusOK, out)
}

// GetDocumentHandler godoc
// @Summary      Get document
// @Tags         Documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  api.DocumentDetail
// @Failure      404  {object}  api.ErrorResponse
// @Router       /documents/{id} [get]
func GetDocumentHandler(w http.ResponseWriter, r *http.Request) {
	doc, err := handlerInstance.documents.GetDocument(r.Context(), utils.GetChiURLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToDocumentDetail(doc))
}

// GetDocumentContentHandler godoc
// @Summary      Get document text and structure
// @Description  Returns the full extracted text with page and section spans. All offsets are code point indices.
// @Tags         Documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  api.DocumentContent
// @Failure      404  {object}  api.ErrorResponse
// @Router       /documents/{id}/content [get]
func GetDocumentContentHandler(w http.ResponseWriter, r *http.Request) {
	doc, err := handlerInstance.documents.GetDocument(r.Context(), utils.GetChiURLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToDocumentContent(doc))
}

// GetChunksHandler godoc
// @Summary      List document chunks
// @Tags         Documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  api.ChunksResponse
// @Failure      404  {object}  api.ErrorResponse
// @Router       /documents/{id}/chunks [get]
func GetChunksHandler(w http.ResponseWriter, r *http.Request) {
	id := utils.GetChiURLParam(r, "id")
	chunks, err := handlerInstance.documents.GetChunks(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if chunks == nil {
		chunks = []commonModels.Chunk{}
	}
	writeJsonResponse(w, http.StatusOK, api.ChunksResponse{DocumentId: id, Chunks: chunks})
}

// GetChunkHandler godoc
// @Summary      Get one chunk
// @Tags         Documents
// @Produce      json
// @Param        id        path      string  true  "Document ID"
// @Param        sequence  path      int     true  "Chunk sequence index"
// @Success      200       {object}  commonModels.Chunk
// @Failure      400       {object}  api.ErrorResponse
// @Failure      404       {object}  api.ErrorResponse
// @Router       /documents/{id}/chunks/{sequence} [get]
func GetChunkHandler(w http.ResponseWriter, r *http.Request) {
	sequence, err := strconv.Atoi(utils.GetChiURLParam(r, "sequence"))
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: sequence must be an integer", commonModels.ErrValidation))
		return
	}
	chunk, err := handlerInstance.documents.GetChunk(r.Context(), utils.GetChiURLParam(r, "id"), sequence)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, chunk)
}

// DeleteDocumentHandler godoc
// @Summary      Delete document
// @Description  Removes the vectors, chunks, record and stored original of a document.
// @Description  vector_store_deleted and document_deleted are reported independently; a partial delete returns 503 and can be retried.
// @Tags         Documents
// @Produce      json
// @Param        id   path      string  true  "Document ID"
// @Success      200  {object}  commonModels.DeleteReport
// @Failure      404  {object}  api.ErrorResponse
// @Failure      409  {object}  api.ErrorResponse  "Document is still being ingested"
// @Failure      503  {object}  commonModels.DeleteReport
// @Router       /documents/{id} [delete]
func DeleteDocumentHandler(w http.ResponseWriter, r *http.Request) {
	report, err := handlerInstance.documents.DeleteDocument(r.Context(), utils.GetChiURLParam(r, "id"))
	if err != nil {
		if report.Error == "" {
			writeError(w, r, err)
			return
		}
		logRH.WithTrace(r.Context()).Error("Partial delete", "documentId", report.DocumentId, "error", err)
		writeJsonResponse(w, adapter.StatusFor(err), report)
		return
	}
	writeJsonResponse(w, http.StatusOK, report)
}

// PostHighlightsHandler godoc
// @Summary      Correlate sources with the document
// @Description  With page set, returns colored bounding boxes on that page of a PDF or PPTX.
// @Description  Otherwise returns the text window split into plain and highlighted segments.
// @Tags         Documents
// @Accept       json
// @Produce      json
// @Param        id       path      string                true  "Document ID"
// @Param        request  body      api.HighlightRequest  true  "Window or page plus the sources to show"
// @Success      200      {object}  api.HighlightResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /documents/{id}/highlights [post]
func PostHighlightsHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	h := handlerInstance
	var req api.HighlightRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	doc, err := h.documents.GetDocument(r.Context(), utils.GetChiURLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	if req.Page > 0 {
		view, err := h.correlator.CorrelatePage(r.Context(), doc, req.Page, req.Sources)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJsonResponse(w, http.StatusOK, api.HighlightResponse{Page: &view})
		return
	}

	window := correlator.Window{Start: 0, End: min(h.correlator.WindowSize(), doc.TextLength())}
	if req.Window != nil {
		window = *req.Window
	}
	view, err := correlator.CorrelateText(doc.RawText, window, req.Sources)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, api.HighlightResponse{Text: &view})
}

// NavigateHandler godoc
// @Summary      Locate an offset
// @Description  Returns the page (PDF, PPTX) or the fixed-size text window containing start_index.
// @Tags         Documents
// @Produce      json
// @Param        id           path      string  true  "Document ID"
// @Param        start_index  query     int     true  "Code point offset into the document text"
// @Success      200          {object}  correlator.Target
// @Failure      400          {object}  api.ErrorResponse
// @Failure      404          {object}  api.ErrorResponse
// @Router       /documents/{id}/navigate [get]
func NavigateHandler(w http.ResponseWriter, r *http.Request) {
	start, err := strconv.Atoi(r.URL.Query().Get("start_index"))
	if err != nil {
		writeError(w, r, fmt.Errorf("%w: start_index must be an integer", commonModels.ErrValidation))
		return
	}
	doc, err := handlerInstance.documents.GetDocument(r.Context(), utils.GetChiURLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	target, err := handlerInstance.correlator.Navigate(doc, start)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, target)
}
