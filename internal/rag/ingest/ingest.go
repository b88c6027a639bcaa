package ingest

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/akolanti/StudyRAG/internal/domain/commonModels"
	"github.com/akolanti/StudyRAG/internal/domain/jobModel"
	"github.com/akolanti/StudyRAG/pkg/logger_i"
)

// Pipeline runs an uploaded file through extraction, chunking and, for qa, embedding and storage.
type Pipeline interface {
	IngestFile(ctx context.Context, req commonModels.IngestRequest) (commonModels.ProcessingReport, error)
}

var logger = logger_i.NewLogger("document_ingestion")

// ProcessDocumentIngestion runs a queued ingest job and returns it with its final status and report.
func ProcessDocumentIngestion(ctx context.Context, job jobModel.Job, pipeline Pipeline) jobModel.Job {
	log := logger.WithTrace(ctx).With("jobId", job.Id, "documentId", job.JobPayload.DocumentId)
	log.Debug("Processing document", "filename", job.JobPayload.IngestFileName, "path", job.JobPayload.SourcePath)

	job.CurrentStep = jobModel.IngestProcessing
	report, err := pipeline.IngestFile(ctx, commonModels.IngestRequest{
		DocumentId: job.JobPayload.DocumentId,
		Name:       job.JobPayload.IngestFileName,
		SourcePath: job.JobPayload.SourcePath,
		StudyMode:  job.JobPayload.StudyMode,
	})
	job.EndTime = time.Now()
	if report.DocumentId != "" {
		job.JobPayload.Report = &report
	}

	if err != nil {
		log.Error("Error processing document", "error", err)
		job.Status = jobModel.JobStatusError
		job.CurrentStep = jobModel.Error
		job.Error = jobModel.JobError{
			Code:    statusFor(err),
			Message: err.Error(),
			Retry:   commonModels.IsRetryable(err),
		}
		return job
	}

	job.Status = jobModel.JobStatusComplete
	job.CurrentStep = jobModel.Complete
	log.Info("Document ingested", "state", report.State, "chunks", report.ChunkCount, "vectors", report.VectorCount)
	return job
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, commonModels.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, commonModels.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, commonModels.ErrConflict):
		return http.StatusConflict
	case commonModels.IsRetryable(err):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
