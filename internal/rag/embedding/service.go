package embedding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/akolanti/StudyRAG/internal/config"
	"github.com/akolanti/StudyRAG/internal/domain/commonModels"
	"github.com/akolanti/StudyRAG/internal/metrics"
	"github.com/akolanti/StudyRAG/internal/rag/retry"
	"github.com/akolanti/StudyRAG/pkg/logger_i"
)

type Config struct {
	BatchSize   int
	Workers     int
	CallTimeout time.Duration
	Policy      retry.Policy
}

func ConfigFrom(cfg *config.AppConfig) Config {
	return Config{
		BatchSize:   cfg.Embedding.BatchSize,
		Workers:     cfg.Embedding.Workers,
		CallTimeout: cfg.Embedding.CallTimeout,
		Policy:      retry.FromConfig(cfg.Retry),
	}
}

// Service batches chunk texts, retries each batch independently and reports partial failure.
type Service struct {
	embedder Embedder
	cfg      Config
	logger   *logger_i.Logger
}

// Result maps chunk ids to vectors. Chunks in a batch that exhausted its retries are listed in FailedChunkIds.
type Result struct {
	Vectors        map[string][]float32
	SuccessCount   int
	FailureCount   int
	FailedChunkIds []string
	Batches        int
	FailedBatches  int
	Attempts       int
	Errors         []error
	Elapsed        time.Duration
}

func (r Result) Stats(model string) commonModels.EmbeddingStats {
	return commonModels.EmbeddingStats{
		Enabled:        true,
		ModelName:      model,
		TotalChunks:    r.SuccessCount + r.FailureCount,
		SuccessCount:   r.SuccessCount,
		FailureCount:   r.FailureCount,
		FailedChunkIds: r.FailedChunkIds,
		Batches:        r.Batches,
		FailedBatches:  r.FailedBatches,
		Attempts:       r.Attempts,
		ElapsedSeconds: r.Elapsed.Seconds(),
	}
}

// Err summarises batch failures, nil when every batch succeeded.
func (r Result) Err() error {
	return errors.Join(r.Errors...)
}

func NewService(embedder Embedder, cfg Config) *Service {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = config.DefaultEmbeddingBatchSize
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = config.DefaultEmbeddingCallTimeout
	}
	if cfg.Policy.Retryable == nil {
		cfg.Policy.Retryable = func(err error) bool {
			return errors.Is(err, commonModels.ErrTransientProvider)
		}
	}
	return &Service{
		embedder: embedder,
		cfg:      cfg,
		logger:   logger_i.NewLogger("embedding_service"),
	}
}

func (s *Service) ModelName() string {
	return s.embedder.ModelName()
}

type batchOutcome struct {
	vectors  [][]float32
	attempts int
	err      error
}

// EmbedChunks embeds chunks in batches of BatchSize with at most Workers batches in flight.
// A failing batch never cancels its siblings.
func (s *Service) EmbedChunks(ctx context.Context, chunks []commonModels.Chunk) Result {
	start := time.Now()
	log := s.logger.WithTrace(ctx)

	batches := splitBatches(chunks, s.cfg.BatchSize)
	outcomes := make([]batchOutcome, len(batches))

	var g errgroup.Group
	g.SetLimit(s.cfg.Workers)
	for i, batch := range batches {
		texts := make([]string, len(batch))
		for j, ch := range batch {
			texts[j] = ch.Text
		}
		g.Go(func() error {
			vectors, res := s.call(ctx, len(texts), "embedding_batch", func(callCtx context.Context) ([][]float32, error) {
				return s.embedder.BatchEmbedding(callCtx, texts)
			})
			outcomes[i] = batchOutcome{vectors: vectors, attempts: res.Attempts, err: res.Err}
			metrics.RecordEmbeddingBatch(res.Err == nil)
			return nil
		})
	}
	_ = g.Wait()

	result := Result{
		Vectors: make(map[string][]float32, len(chunks)),
		Batches: len(batches),
	}
	for i, batch := range batches {
		out := outcomes[i]
		result.Attempts += out.attempts
		if out.err != nil {
			log.Warn("embedding batch failed", "batch", i, "size", len(batch), "attempts", out.attempts, "error", out.err)
			result.FailedBatches++
			result.Errors = append(result.Errors, fmt.Errorf("batch %d: %w", i, out.err))
			for _, ch := range batch {
				result.FailedChunkIds = append(result.FailedChunkIds, ch.Id)
			}
			result.FailureCount += len(batch)
			continue
		}
		for j, ch := range batch {
			result.Vectors[ch.Id] = out.vectors[j]
		}
		result.SuccessCount += len(batch)
	}
	result.Elapsed = time.Since(start)
	metrics.CaptureExecutionMetrics("embedding", result.Elapsed)

	log.Debug("embedded chunks", "chunks", len(chunks), "success", result.SuccessCount, "failed", result.FailureCount)
	return result
}

// EmbedQuery embeds a question as a single-item batch under the same retry policy.
func (s *Service) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	start := time.Now()
	defer func() { metrics.CaptureExecutionMetrics("query_embedding", time.Since(start)) }()

	vectors, res := s.call(ctx, 1, "embedding_query", func(callCtx context.Context) ([][]float32, error) {
		v, err := s.embedder.GetEmbedding(callCtx, text)
		if err != nil {
			return nil, err
		}
		return [][]float32{v}, nil
	})
	if res.Err != nil {
		return nil, fmt.Errorf("embedding question after %d attempts: %w", res.Attempts, res.Err)
	}
	return vectors[0], nil
}

// call runs one provider request per attempt under CallTimeout and checks the response shape.
// All attempts together, backoff included, stay within the policy budget.
func (s *Service) call(ctx context.Context, want int, operation string, fn func(context.Context) ([][]float32, error)) ([][]float32, retry.Result) {
	policy := s.cfg.Policy
	if budget := policy.Budget(); budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, budget)
		defer cancel()
	}
	policy.OnRetry = func(attempt int, delay time.Duration, err error) {
		metrics.RecordRetry(operation)
		s.logger.WithTrace(ctx).Debug("retrying provider call", "operation", operation, "attempt", attempt, "delay", delay, "error", err)
	}

	return retry.Do(ctx, policy, func(ctx context.Context) ([][]float32, error) {
		callCtx, cancel := context.WithTimeout(ctx, s.cfg.CallTimeout)
		defer cancel()

		vectors, err := fn(callCtx)
		if err != nil {
			if errors.Is(callCtx.Err(), context.DeadlineExceeded) && !errors.Is(err, commonModels.ErrTransientProvider) {
				return nil, fmt.Errorf("%w: %s timed out: %w", commonModels.ErrTransientProvider, operation, err)
			}
			return nil, err
		}
		if len(vectors) != want {
			return nil, fmt.Errorf("%w: provider returned %d vectors for %d texts", commonModels.ErrTransientProvider, len(vectors), want)
		}
		for i, v := range vectors {
			if len(v) == 0 {
				return nil, fmt.Errorf("%w: provider returned an empty vector at %d", commonModels.ErrTransientProvider, i)
			}
		}
		return vectors, nil
	})
}

func splitBatches(chunks []commonModels.Chunk, size int) [][]commonModels.Chunk {
	batches := make([][]commonModels.Chunk, 0, (len(chunks)+size-1)/size)
	for i := 0; i < len(chunks); i += size {
		end := min(i+size, len(chunks))
		batches = append(batches, chunks[i:end])
	}
	return batches
}
