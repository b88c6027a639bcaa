package store

import (
	"context"
	"sync"
	"time"

	"github.com/akolanti/StudyRAG/internal/config"
	"github.com/akolanti/StudyRAG/internal/domain/jobModel"
	"github.com/akolanti/StudyRAG/pkg/logger_i"
)

var inMemLogger = logger_i.NewLogger("in_memory_store")

type storedJob struct {
	job       jobModel.Job
	expiresAt time.Time
}

// InMemoryJobStore keeps ingestion jobs for the same retention the redis store applies.
type InMemoryJobStore struct {
	mu        sync.RWMutex
	jobs      map[string]storedJob
	retention time.Duration
	now       func() time.Time
}

func InitInMemoryJobStore() *InMemoryJobStore {
	return NewInMemoryJobStore(config.RedisJobStoreTTL)
}

func NewInMemoryJobStore(retention time.Duration) *InMemoryJobStore {
	return &InMemoryJobStore{
		jobs:      make(map[string]storedJob),
		retention: retention,
		now:       time.Now,
	}
}

func (s *InMemoryJobStore) SaveJob(ctx context.Context, job jobModel.Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	s.jobs[job.Id] = storedJob{job: job, expiresAt: now.Add(s.retention)}
	s.pruneLocked(now)
	inMemLogger.WithTrace(ctx).Debug("Saved ingest job", "jobId", job.Id, "status", job.Status, "step", job.CurrentStep)
	return nil
}

func (s *InMemoryJobStore) GetJob(_ context.Context, jobId string) (jobModel.Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, found := s.jobs[jobId]
	if !found || s.now().After(entry.expiresAt) {
		return jobModel.Job{}, false
	}
	return entry.job, true
}

func (s *InMemoryJobStore) DeleteJob(_ context.Context, jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, jobID)
}

// pruneLocked drops expired jobs. Caller holds the write lock.
func (s *InMemoryJobStore) pruneLocked(now time.Time) {
	for id, entry := range s.jobs {
		if now.After(entry.expiresAt) {
			delete(s.jobs, id)
		}
	}
}
