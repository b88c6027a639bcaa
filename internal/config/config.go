package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	UploadDir  string `yaml:"upload_dir"`
}

// ChunkerConfig configures how extracted text is split into chunks.
type ChunkerConfig struct {
	ChunkSize              int `yaml:"chunk_size"`
	Overlap                int `yaml:"overlap"`
	LargeDocumentThreshold int `yaml:"large_document_threshold"`
	SnapTolerance          int `yaml:"snap_tolerance"`
}

// EmbeddingConfig selects the embedding provider and its batching.
type EmbeddingConfig struct {
	Provider    string        `yaml:"provider"`
	Model       string        `yaml:"model"`
	Dimension   int32         `yaml:"dimension"`
	BatchSize   int           `yaml:"batch_size"`
	Workers     int           `yaml:"workers"`
	CallTimeout time.Duration `yaml:"call_timeout"`
}

// RetryConfig is the backoff policy applied to provider calls.
type RetryConfig struct {
	MaxRetries int           `yaml:"max_retries"`
	BaseDelay  time.Duration `yaml:"base_delay"`
	MaxDelay   time.Duration `yaml:"max_delay"`
	Multiplier float64       `yaml:"multiplier"`
}

type QdrantConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	UseTLS     bool   `yaml:"use_tls"`
	APIKey     string `yaml:"api_key"`
	Collection string `yaml:"collection"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// VectorStoreConfig selects the vector store backend.
type VectorStoreConfig struct {
	Type   string       `yaml:"type"`
	Qdrant QdrantConfig `yaml:"qdrant"`
	SQLite SQLiteConfig `yaml:"sqlite"`
}

// LLMConfig selects the answer generator.
type LLMConfig struct {
	Provider    string        `yaml:"provider"`
	Model       string        `yaml:"model"`
	Temperature float32       `yaml:"temperature"`
	Timeout     time.Duration `yaml:"timeout"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	Disabled bool   `yaml:"disabled"`
}

type QAConfig struct {
	SearchK      int `yaml:"search_k"`
	HistoryLimit int `yaml:"history_limit"`
}

type CorrelatorConfig struct {
	WindowSize int `yaml:"window_size"`
}

// AppConfig is the root application configuration.
type AppConfig struct {
	Server      ServerConfig      `yaml:"server"`
	Chunker     ChunkerConfig     `yaml:"chunker"`
	Embedding   EmbeddingConfig   `yaml:"embedding"`
	Retry       RetryConfig       `yaml:"retry"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	LLM         LLMConfig         `yaml:"llm"`
	Redis       RedisConfig       `yaml:"redis"`
	QA          QAConfig          `yaml:"qa"`
	Correlator  CorrelatorConfig  `yaml:"correlator"`

	// secrets only come from the environment
	GoogleAPIKey string `yaml:"-"`
	OpenAIAPIKey string `yaml:"-"`
}

// Load reads the config at path. A missing file yields defaults.
// Environment variables override file values.
func Load(path string) (*AppConfig, error) {
	cfg := &AppConfig{}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}
	applyEnvOverrides(cfg)
	applyConfigDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in configuration without reading files or the environment.
func Default() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

// Validate rejects settings the pipeline cannot run with.
func (c *AppConfig) Validate() error {
	if c.Chunker.ChunkSize <= 0 {
		return fmt.Errorf("chunker.chunk_size must be positive, got %d", c.Chunker.ChunkSize)
	}
	if c.Chunker.Overlap < 0 || c.Chunker.Overlap >= c.Chunker.ChunkSize {
		return fmt.Errorf("chunker.overlap must be in [0, chunk_size), got %d", c.Chunker.Overlap)
	}
	if c.Embedding.BatchSize <= 0 {
		return fmt.Errorf("embedding.batch_size must be positive, got %d", c.Embedding.BatchSize)
	}
	if c.Retry.MaxRetries <= 0 {
		return fmt.Errorf("retry.max_retries must be positive, got %d", c.Retry.MaxRetries)
	}
	switch c.VectorStore.Type {
	case VectorStoreQdrant, VectorStoreSQLite:
	default:
		return fmt.Errorf("unknown vector_store.type %q", c.VectorStore.Type)
	}
	return nil
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ServerListenAddr
	}
	if cfg.Server.UploadDir == "" {
		cfg.Server.UploadDir = UploadDir
	}

	if cfg.Chunker.ChunkSize == 0 {
		cfg.Chunker.ChunkSize = DefaultChunkSize
	}
	if cfg.Chunker.Overlap == 0 {
		cfg.Chunker.Overlap = DefaultChunkOverlap
	}
	if cfg.Chunker.LargeDocumentThreshold == 0 {
		cfg.Chunker.LargeDocumentThreshold = DefaultLargeDocumentThreshold
	}
	if cfg.Chunker.SnapTolerance == 0 {
		cfg.Chunker.SnapTolerance = DefaultSnapTolerance
	}

	if cfg.Embedding.Provider == "" {
		cfg.Embedding.Provider = ProviderGoogle
	}
	if cfg.Embedding.Model == "" {
		if cfg.Embedding.Provider == ProviderOpenAI {
			cfg.Embedding.Model = OpenAIEmbeddingModel
		} else {
			cfg.Embedding.Model = GoogleEmbeddingModel
		}
	}
	if cfg.Embedding.Dimension == 0 {
		cfg.Embedding.Dimension = EmbeddingOutputDimensionality
	}
	if cfg.Embedding.BatchSize == 0 {
		cfg.Embedding.BatchSize = DefaultEmbeddingBatchSize
	}
	if cfg.Embedding.Workers == 0 {
		cfg.Embedding.Workers = DefaultEmbeddingWorkers
	}
	if cfg.Embedding.CallTimeout == 0 {
		cfg.Embedding.CallTimeout = DefaultEmbeddingCallTimeout
	}

	if cfg.Retry.MaxRetries == 0 {
		cfg.Retry.MaxRetries = DefaultMaxRetries
	}
	if cfg.Retry.BaseDelay == 0 {
		cfg.Retry.BaseDelay = DefaultRetryBaseDelay
	}
	if cfg.Retry.MaxDelay == 0 {
		cfg.Retry.MaxDelay = DefaultRetryMaxDelay
	}
	if cfg.Retry.Multiplier == 0 {
		cfg.Retry.Multiplier = DefaultRetryMultiplier
	}

	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = VectorStoreQdrant
	}
	if cfg.VectorStore.Qdrant.Host == "" {
		cfg.VectorStore.Qdrant.Host = QdrantHost
	}
	if cfg.VectorStore.Qdrant.Port == 0 {
		cfg.VectorStore.Qdrant.Port = QdrantGrpcPort
	}
	if cfg.VectorStore.Qdrant.Collection == "" {
		cfg.VectorStore.Qdrant.Collection = EmbeddingDBName
	}
	if cfg.VectorStore.SQLite.Path == "" {
		cfg.VectorStore.SQLite.Path = SQLitePath
	}

	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = ProviderGoogle
	}
	if cfg.LLM.Model == "" {
		if cfg.LLM.Provider == ProviderOpenAI {
			cfg.LLM.Model = OpenAIModelName
		} else {
			cfg.LLM.Model = GeminiModelName
		}
	}
	if cfg.LLM.Temperature == 0 {
		cfg.LLM.Temperature = ModelTemperature
	}
	if cfg.LLM.Timeout == 0 {
		cfg.LLM.Timeout = GenerationTimeout
	}

	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = RedisAddr
	}

	if cfg.QA.SearchK == 0 {
		cfg.QA.SearchK = DefaultSearchK
	}
	if cfg.QA.HistoryLimit == 0 {
		cfg.QA.HistoryLimit = DefaultHistoryLimit
	}

	if cfg.Correlator.WindowSize == 0 {
		cfg.Correlator.WindowSize = DefaultWindowSize
	}
}

func applyEnvOverrides(cfg *AppConfig) {
	cfg.GoogleAPIKey = firstNonEmpty(os.Getenv("GOOGLE_API_KEY"), os.Getenv("GEMINI_API_KEY"))
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")

	if v := os.Getenv("QDRANT_HOST"); v != "" {
		cfg.VectorStore.Qdrant.Host = v
	}
	if v, err := strconv.Atoi(os.Getenv("QDRANT_PORT")); err == nil {
		cfg.VectorStore.Qdrant.Port = v
	}
	if v := os.Getenv("QDRANT_API_KEY"); v != "" {
		cfg.VectorStore.Qdrant.APIKey = v
	}
	if v := os.Getenv("VECTOR_STORE"); v != "" {
		cfg.VectorStore.Type = strings.ToLower(v)
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.VectorStore.SQLite.Path = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = strings.ToLower(v)
	}
	if v := os.Getenv("EMBEDDING_PROVIDER"); v != "" {
		cfg.Embedding.Provider = strings.ToLower(v)
	}
	if v := os.Getenv("UPLOAD_DIR"); v != "" {
		cfg.Server.UploadDir = v
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
