package commonModels

type Stage string

const (
	StageExtraction    Stage = "extraction"
	StageChunking      Stage = "chunking"
	StageEmbedding     Stage = "embedding"
	StageVectorStorage Stage = "vector_storage"
)

type SizeDistribution struct {
	Small  int `json:"small"`
	Medium int `json:"medium"`
	Large  int `json:"large"`
}

type ChunkingStats struct {
	Strategy         string           `json:"strategy"`
	TotalChunks      int              `json:"total_chunks"`
	TotalCharacters  int              `json:"total_characters"`
	AverageChunkSize float64          `json:"average_chunk_size"`
	MinChunkSize     int              `json:"min_chunk_size"`
	MaxChunkSize     int              `json:"max_chunk_size"`
	SizeDistribution SizeDistribution `json:"size_distribution"`
	ElapsedSeconds   float64          `json:"elapsed_seconds"`
}

type EmbeddingStats struct {
	Enabled        bool     `json:"enabled"`
	ModelName      string   `json:"model_name,omitempty"`
	TotalChunks    int      `json:"total_chunks"`
	SuccessCount   int      `json:"success_count"`
	FailureCount   int      `json:"failure_count"`
	FailedChunkIds []string `json:"failed_chunk_ids,omitempty"`
	Batches        int      `json:"batches"`
	FailedBatches  int      `json:"failed_batches"`
	Attempts       int      `json:"attempts"`
	ElapsedSeconds float64  `json:"elapsed_seconds"`
}

type VectorStorageStats struct {
	Enabled        bool    `json:"enabled"`
	Success        bool    `json:"success"`
	VectorsStored  int     `json:"vectors_stored"`
	RolledBack     bool    `json:"rolled_back"`
	ElapsedSeconds float64 `json:"elapsed_seconds"`
}

type StageElapsed struct {
	Chunking      float64 `json:"chunking"`
	Embedding     float64 `json:"embedding"`
	VectorStorage float64 `json:"vector_storage"`
}

type StageError struct {
	Stage   Stage  `json:"stage"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ProcessingReport summarises one pass of a document through the pipeline.
type ProcessingReport struct {
	DocumentId            string             `json:"document_id"`
	DocumentName          string             `json:"document_name"`
	Format                DocType            `json:"format"`
	StudyMode             StudyMode          `json:"study_mode"`
	State                 ProcessingState    `json:"state"`
	ProcessingTimeSeconds float64            `json:"processing_time_seconds"`
	ChunkCount            int                `json:"chunk_count"`
	EmbeddingSuccessCount int                `json:"embedding_success_count"`
	EmbeddingFailureCount int                `json:"embedding_failure_count"`
	VectorCount           int                `json:"vector_count"`
	PerStageElapsedTime   StageElapsed       `json:"per_stage_elapsed_time"`
	Chunking              ChunkingStats      `json:"chunking"`
	Embedding             EmbeddingStats     `json:"embedding"`
	VectorStorage         VectorStorageStats `json:"vector_storage"`
	StageErrors           []StageError       `json:"stage_errors,omitempty"`
}

func (r *ProcessingReport) AddStageError(stage Stage, err error) {
	r.StageErrors = append(r.StageErrors, StageError{
		Stage:   stage,
		Kind:    ErrorKind(err),
		Message: err.Error(),
	})
}

// DeleteReport keeps the two halves of a delete visible independently.
type DeleteReport struct {
	DocumentId         string `json:"document_id"`
	VectorStoreDeleted bool   `json:"vector_store_deleted"`
	DocumentDeleted    bool   `json:"document_deleted"`
	VectorsRemoved     int    `json:"vectors_removed"`
	Error              string `json:"error,omitempty"`
}
