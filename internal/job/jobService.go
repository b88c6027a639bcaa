package job

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/akolanti/StudyRAG/internal/config"
	"github.com/akolanti/StudyRAG/internal/domain/commonModels"
	"github.com/akolanti/StudyRAG/internal/domain/jobModel"
	"github.com/akolanti/StudyRAG/internal/metrics"
	"github.com/akolanti/StudyRAG/pkg/logger_i"
)

type Service struct {
	JobChannel        chan jobModel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
	logger            *logger_i.Logger
}

type ServiceConfig struct {
	JobChannel        chan jobModel.Job
	RequestCount      int64
	DispatcherChannel chan bool
	JobStore          jobModel.JobStore
}

func InitJobService(cfg ServiceConfig) *Service {
	return &Service{
		JobChannel:        cfg.JobChannel,
		RequestCount:      cfg.RequestCount,
		DispatcherChannel: cfg.DispatcherChannel,
		JobStore:          cfg.JobStore,
		logger:            logger_i.NewLogger("job_service"),
	}
}

// EnqueueIngest records a queued ingest job and hands it to the worker pool.
// The send blocks while the queue is full so uploads slow down instead of piling up.
func (s *Service) EnqueueIngest(ctx context.Context, id string, payload jobModel.JobPayload) (jobModel.Job, error) {
	job := jobModel.Job{
		Id:          id,
		TraceId:     logger_i.TraceID(ctx),
		JobPayload:  payload,
		CreatedTime: time.Now(),
		Status:      jobModel.JobStatusQueued,
		CurrentStep: jobModel.IngestInit,
	}
	if err := s.JobStore.SaveJob(ctx, job); err != nil {
		return job, fmt.Errorf("saving job %s: %w", id, err)
	}

	metrics.IncrementJobsInQueue()
	select {
	case s.JobChannel <- job:
	case <-ctx.Done():
		metrics.DecrementJobsInQueue()
		return job, ctx.Err()
	}
	s.logger.WithTrace(ctx).Info("Queued ingest job", "jobId", id, "documentId", payload.DocumentId)

	// ingestion is slow, so every ingest job asks for another worker; the pool retires idle ones
	count := atomic.AddInt64(&s.RequestCount, 1)
	select {
	case s.DispatcherChannel <- true:
		metrics.StartDispatcherSignalCount()
		s.logger.Debug("Requested worker", "requestCount", count)
	default:
	}
	return job, nil
}

func (s *Service) GetJob(ctx context.Context, id string) (jobModel.Job, error) {
	job, found := s.JobStore.GetJob(ctx, id)
	if !found {
		return job, fmt.Errorf("%w: job %s", commonModels.ErrNotFound, id)
	}
	return job, nil
}

// DefaultChannels builds the buffered queue and dispatcher signal channel.
func DefaultChannels() (chan jobModel.Job, chan bool) {
	return make(chan jobModel.Job, config.BufferLimit), make(chan bool, 1)
}
