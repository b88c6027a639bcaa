package handlers

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/akolanti/StudyRAG/internal/adapter"
	"github.com/akolanti/StudyRAG/internal/adapter/utils"
	"github.com/akolanti/StudyRAG/internal/api"
	"github.com/akolanti/StudyRAG/internal/config"
	"github.com/akolanti/StudyRAG/internal/domain/commonModels"
	"github.com/akolanti/StudyRAG/internal/domain/jobModel"
	"github.com/akolanti/StudyRAG/internal/rag/ingest"
)

func GetHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// PostDocumentHandler handles the upload of a document for ingestion.
// @Summary      Upload a document
// @Description  Receives a file via multipart/form-data and runs it through extraction, chunking and, for qa, embedding and vector storage.
// @Description  With async=true the ingestion is queued and a job id is returned instead of the report.
// @Tags         Documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        document       formData  file    true   "PDF, DOCX, ODT, RTF, TXT or PPTX file"
// @Param        study_mode     formData  string  false  "qa (default), quiz or flashcards"
// @Param        document_name  formData  string  false  "Display name, defaults to the file name"
// @Param        async          query     bool    false  "Queue the ingestion and return a job id"
// @Success      201  {object}  commonModels.ProcessingReport  "Processing report"
// @Success      202  {object}  api.InitJobResponse            "Accepted - returns the job id"
// @Failure      400  {object}  api.ErrorResponse              "Missing file, unsupported format or invalid study mode"
// @Failure      500  {object}  api.ErrorResponse              "Storage or write error"
// @Router       /documents [post]
func PostDocumentHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	h := handlerInstance
	log := logRH.WithTrace(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, config.MaxUploadSize)
	if err := r.ParseMultipartForm(config.MaxUploadSize); err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "File too large or bad request")
		return
	}

	fileReader, fileMetadata, err := r.FormFile("document")
	if err != nil {
		WriteErrorResponse(w, http.StatusBadRequest, "Could not retrieve file")
		return
	}
	defer fileReader.Close()

	mode, err := commonModels.ParseStudyMode(r.FormValue("study_mode"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if ingest.DetectFormat(fileMetadata.Filename) == commonModels.ERR {
		writeError(w, r, commonModels.ErrUnsupportedFormat)
		return
	}
	docName := strings.TrimSpace(r.FormValue("document_name"))
	if docName == "" {
		docName = fileMetadata.Filename
	}

	targetDir, err := getTargetDirectory(h.uploadDir)
	if err != nil {
		log.Error("Couldn't get target directory", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "Storage error")
		return
	}
	documentId := utils.GetNewUUID()
	path, err := saveUpload(fileReader, targetDir, documentId, strings.ToLower(filepath.Ext(fileMetadata.Filename)))
	if err != nil {
		log.Error("Couldn't store upload", "error", err)
		WriteErrorResponse(w, http.StatusInternalServerError, "Write error")
		return
	}

	req := commonModels.IngestRequest{DocumentId: documentId, Name: docName, SourcePath: path, StudyMode: mode}
	if async, _ := strconv.ParseBool(r.URL.Query().Get("async")); async {
		jobId := utils.GetNewUUID()
		_, err := h.jobs.EnqueueIngest(r.Context(), jobId, jobModel.JobPayload{
			DocumentId:     documentId,
			IngestFileName: docName,
			SourcePath:     path,
			StudyMode:      mode,
		})
		if err != nil {
			removeUpload(path)
			writeError(w, r, err)
			return
		}
		writeJsonResponse(w, http.StatusAccepted, adapter.ToInitJobResponse(jobId, documentId))
		return
	}

	report, err := h.documents.IngestFile(r.Context(), req)
	if err != nil {
		// nothing references the upload when extraction never produced a document
		if report.DocumentId == "" {
			removeUpload(path)
		}
		writeError(w, r, err)
		return
	}
	log.Info("Document processed", "documentId", documentId, "state", report.State)
	writeJsonResponse(w, http.StatusCreated, report)
}

// SearchHandler godoc
// @Summary      Semantic search
// @Description  Embeds the query and returns the k most similar chunks, best first. document_id scopes the search to one Ready document.
// @Tags         Search
// @Accept       json
// @Produce      json
// @Param        request  body      api.SearchRequest   true  "Query, k and optional document id"
// @Success      200      {object}  api.SearchResponse
// @Failure      400      {object}  api.ErrorResponse   "Empty query"
// @Failure      404      {object}  api.ErrorResponse   "Unknown document"
// @Failure      409      {object}  api.ErrorResponse   "Document not ready or being deleted"
// @Failure      503      {object}  api.ErrorResponse   "Embedding provider or vector store unavailable"
// @Router       /search [post]
func SearchHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	var req api.SearchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	results, err := handlerInstance.documents.Search(r.Context(), req.Query, req.K, req.DocumentId)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToSearchResponse(req.Query, results))
}

// HealthHandler godoc
// @Summary      Health check
// @Description  Probes the vector store and the embedding provider.
// @Tags         System
// @Produce      json
// @Success      200  {object}  rag.HealthReport
// @Failure      503  {object}  rag.HealthReport
// @Router       /health [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	report := handlerInstance.documents.Health(r.Context())
	code := http.StatusOK
	if !report.Healthy {
		code = http.StatusServiceUnavailable
	}
	writeJsonResponse(w, code, report)
}

// FormatsHandler godoc
// @Summary      Supported formats
// @Tags         System
// @Produce      json
// @Success      200  {object}  api.FormatsResponse
// @Router       /formats [get]
func FormatsHandler(w http.ResponseWriter, r *http.Request) {
	writeJsonResponse(w, http.StatusOK, adapter.ToFormatsResponse())
}
