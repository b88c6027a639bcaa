package handlers

import (
	"net/http"

	"github.com/akolanti/StudyRAG/internal/adapter"
	"github.com/akolanti/StudyRAG/internal/adapter/utils"
	"github.com/akolanti/StudyRAG/internal/correlator"
	"github.com/akolanti/StudyRAG/internal/job"
	"github.com/akolanti/StudyRAG/internal/qa"
	"github.com/akolanti/StudyRAG/internal/rag"
	"github.com/akolanti/StudyRAG/pkg/logger_i"
)

var (
	handlerInstance *Handler
	logRH           *logger_i.Logger
)

type Dependencies struct {
	Documents  rag.Service
	QA         *qa.Manager
	Correlator *correlator.Correlator
	Jobs       *job.Service
	UploadDir  string
}

type Handler struct {
	documents  rag.Service
	qa         *qa.Manager
	correlator *correlator.Correlator
	jobs       *job.Service
	uploadDir  string
}

// InitHandler wires the services every route handler calls.
func InitHandler(deps Dependencies) *Handler {
	logRH = logger_i.NewLogger("RequestHandler")
	handlerInstance = &Handler{
		documents:  deps.Documents,
		qa:         deps.QA,
		correlator: deps.Correlator,
		jobs:       deps.Jobs,
		uploadDir:  deps.UploadDir,
	}
	logRH.Info("Starting request handlers")
	return handlerInstance
}

// GetStatusHandler godoc
// @Summary      Get job status
// @Description  Retrieves the current status of an asynchronous ingestion job, with its processing report once complete.
// @Tags         Job Status
// @Produce      json
// @Param        id   path      string  true  "Job ID"
// @Success      200  {object}  api.JobResponse    "The current status of the job"
// @Failure      404  {object}  api.ErrorResponse  "Job not found"
// @Router       /status/{id} [get]
func GetStatusHandler(w http.ResponseWriter, r *http.Request) {
	if !validateContext(r.Context()) {
		return
	}
	id := utils.GetChiURLParam(r, "id")
	logRH.Debug("Get Status Request", "URL path", r.URL.Path)

	result, err := handlerInstance.jobs.GetJob(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJsonResponse(w, http.StatusOK, adapter.ToAPIResponse(result))
}
