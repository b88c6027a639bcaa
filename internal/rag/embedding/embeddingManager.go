package embedding

import "context"

// Embedder is the provider capability the Service batches and retries over.
// Implementations classify retryable failures with commonModels.ErrTransientProvider.
type Embedder interface {
	// GetEmbedding embeds a search query.
	GetEmbedding(ctx context.Context, query string) ([]float32, error)
	// BatchEmbedding embeds document chunks, returning one vector per text in order.
	BatchEmbedding(ctx context.Context, texts []string) ([][]float32, error)
	ModelName() string
}
