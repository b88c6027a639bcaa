// @title           StudyRAG API
// @version         1.0
// @description     Document ingestion, retrieval-augmented question answering and source highlighting for study material.
// @termsOfService  http://swagger.io/terms/

// @license.name    Apache 2.0
// @license.url     http://www.apache.org/licenses/LICENSE-2.0.html

// @host      localhost:3000
// @BasePath  /
// @schemes   http https
package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/akolanti/StudyRAG/internal/config"
	"github.com/akolanti/StudyRAG/internal/correlator"
	"github.com/akolanti/StudyRAG/internal/customHttpClient"
	"github.com/akolanti/StudyRAG/internal/data/store"
	"github.com/akolanti/StudyRAG/internal/domain/commonModels"
	"github.com/akolanti/StudyRAG/internal/domain/jobModel"
	"github.com/akolanti/StudyRAG/internal/domain/qaModel"
	"github.com/akolanti/StudyRAG/internal/handlers"
	"github.com/akolanti/StudyRAG/internal/job"
	"github.com/akolanti/StudyRAG/internal/mcpserver"
	"github.com/akolanti/StudyRAG/internal/qa"
	"github.com/akolanti/StudyRAG/internal/rag"
	"github.com/akolanti/StudyRAG/internal/rag/chunker"
	"github.com/akolanti/StudyRAG/internal/rag/embedding"
	"github.com/akolanti/StudyRAG/internal/rag/embedding/googleEmbedding"
	"github.com/akolanti/StudyRAG/internal/rag/embedding/openaiEmbedding"
	"github.com/akolanti/StudyRAG/internal/rag/ingest"
	"github.com/akolanti/StudyRAG/internal/rag/llm"
	"github.com/akolanti/StudyRAG/internal/rag/llm/gemini"
	"github.com/akolanti/StudyRAG/internal/rag/llm/openaiLLM"
	"github.com/akolanti/StudyRAG/internal/rag/llm/templateLLM"
	"github.com/akolanti/StudyRAG/internal/rag/vectorDB"
	"github.com/akolanti/StudyRAG/internal/rag/vectorDB/qdrantDB"
	"github.com/akolanti/StudyRAG/internal/rag/vectorDB/sqliteDB"
	"github.com/akolanti/StudyRAG/internal/server"
	"github.com/akolanti/StudyRAG/internal/worker"
	"github.com/akolanti/StudyRAG/pkg/logger_i"
)

var (
	listenAddr        string
	configPath        string
	stopWorkerChannel chan bool
	workerWaitGroup   sync.WaitGroup
	logger            *logger_i.Logger
)

func main() {
	_ = godotenv.Load()
	logger_i.Init()
	logger = logger_i.NewLogger("main")

	flag.StringVar(&listenAddr, "listen-addr", "", "server listen address (overrides config)")
	flag.StringVar(&configPath, "config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}
	if listenAddr == "" {
		listenAddr = cfg.Server.ListenAddr
	}

	serviceContext, closeExternalServices := context.WithCancel(context.Background())
	defer closeExternalServices()

	jobStore, documentStore, sessionStore := initStores(serviceContext, cfg)

	vectors, err := initVectorStore(serviceContext, cfg)
	if err != nil {
		logger.Error("No vector store available. Shutting down.", "error", err)
		return
	}
	embedder, err := initEmbedder(serviceContext, cfg)
	if err != nil {
		logger.Error("No embedding provider available. Shutting down.", "error", err)
		return
	}
	generator := initGenerator(serviceContext, cfg)
	logger.Info("Services ready", "vectorStore", vectors.Name(), "embeddingModel", embedder.ModelName(), "generator", generator.Name())

	layout := ingest.NewLayoutReader()
	ragService := rag.NewService(rag.Dependencies{
		Documents:  documentStore,
		Vectors:    vectors,
		Embeddings: embedding.NewService(embedder, embedding.ConfigFrom(cfg)),
		Chunker:    chunker.FromConfig(cfg.Chunker),
		Extractor:  ingest.NewExtractor(),
	}, rag.Options{MaxK: config.MaxSearchK})

	qaManager := qa.NewManager(sessionStore, ragService, generator, qa.Options{
		SearchK:           cfg.QA.SearchK,
		HistoryLimit:      cfg.QA.HistoryLimit,
		GenerationTimeout: cfg.LLM.Timeout,
	})

	jobChannel, dispatcherChannel := job.DefaultChannels()
	jobService := job.InitJobService(job.ServiceConfig{
		JobChannel:        jobChannel,
		DispatcherChannel: dispatcherChannel,
		JobStore:          jobStore,
	})

	handlers.InitHandler(handlers.Dependencies{
		Documents:  ragService,
		QA:         qaManager,
		Correlator: correlator.New(layout, cfg.Correlator.WindowSize),
		Jobs:       jobService,
		UploadDir:  cfg.Server.UploadDir,
	})

	var mcpHandler http.Handler
	if tools, err := mcpserver.NewServer(ragService, qaManager); err != nil {
		logger.Warn("MCP tools disabled", "error", err)
	} else {
		mcpHandler = tools.Handler()
	}

	//init worker pool
	stopWorkerChannel = make(chan bool, 1)
	worker.InitServices(jobService, ragService)
	worker.InitWorkerPool(stopWorkerChannel, &workerWaitGroup)

	//server handling
	gracefulShutdown := make(chan os.Signal, 1)
	signal.Notify(gracefulShutdown, syscall.SIGINT, syscall.SIGTERM)
	stopExecution := make(chan bool, 1)

	shutdownParams := server.ShutdownParams{
		GracefulShutdown: gracefulShutdown,
		StopExecution:    stopExecution,
		WorkerStop:       stopWorkerChannel,
		Group:            &workerWaitGroup,
		CloseServices:    closeExternalServices,
	}
	go server.CreateServer(listenAddr, mcpHandler)
	go server.ShutDownHandler(shutdownParams)

	<-stopExecution
	logger.Info("Server stopped")
}

// initStores prefers Redis and falls back to process memory when it is disabled or unreachable.
func initStores(ctx context.Context, cfg *config.AppConfig) (jobModel.JobStore, commonModels.DocumentStore, qaModel.SessionStore) {
	if !cfg.Redis.Disabled {
		jobs, errJ := store.GetRedisJobStore(ctx, cfg.Redis)
		documents, errD := store.GetRedisDocumentStore(ctx, cfg.Redis)
		sessions, errS := store.GetRedisSessionStore(ctx, cfg.Redis)
		if errJ == nil && errD == nil && errS == nil {
			logger.Info("Using redis stores", "addr", cfg.Redis.Addr)
			return jobs, documents, sessions
		}
		logger.Error("Redis stores are offline, using in-memory stores", "jobs", errJ, "documents", errD, "sessions", errS)
	}
	return store.InitInMemoryJobStore(), store.NewInMemoryDocumentStore(), store.NewInMemorySessionStore()
}

// initVectorStore connects to Qdrant when configured and falls back to the embedded SQLite store.
func initVectorStore(ctx context.Context, cfg *config.AppConfig) (vectorDB.Store, error) {
	if cfg.VectorStore.Type == config.VectorStoreQdrant {
		holder, err := qdrantDB.GetQuadrantClient(ctx, cfg.VectorStore.Qdrant, uint64(cfg.Embedding.Dimension))
		if err == nil {
			return holder, nil
		}
		logger.Error("Qdrant unavailable, falling back to sqlite", "error", err, "path", cfg.VectorStore.SQLite.Path)
	}
	sqliteStore, err := sqliteDB.Open(cfg.VectorStore.SQLite.Path)
	if err != nil {
		return nil, err
	}
	go func() {
		<-ctx.Done()
		if err := sqliteStore.Close(); err != nil {
			logger.Error("Error closing sqlite", "error", err)
		}
	}()
	return sqliteStore, nil
}

// initEmbedder uses the configured provider, or the other one when only its key is set.
func initEmbedder(ctx context.Context, cfg *config.AppConfig) (embedding.Embedder, error) {
	provider := cfg.Embedding.Provider
	switch {
	case provider == config.ProviderOpenAI && cfg.OpenAIAPIKey == "" && cfg.GoogleAPIKey != "":
		provider = config.ProviderGoogle
	case provider == config.ProviderGoogle && cfg.GoogleAPIKey == "" && cfg.OpenAIAPIKey != "":
		provider = config.ProviderOpenAI
	}
	if provider != cfg.Embedding.Provider {
		logger.Warn("Embedding provider has no key, switching", "configured", cfg.Embedding.Provider, "using", provider)
		cfg.Embedding.Model = ""
		if provider == config.ProviderOpenAI {
			cfg.Embedding.Model = config.OpenAIEmbeddingModel
		} else {
			cfg.Embedding.Model = config.GoogleEmbeddingModel
		}
	}

	if provider == config.ProviderOpenAI {
		return openaiEmbedding.New(cfg.OpenAIAPIKey, cfg.Embedding.Model, cfg.Embedding.Dimension, customHttpClient.GetClient()), nil
	}
	return googleEmbedding.GetGoogleEmbeddingClient(ctx, cfg.Embedding.Model, cfg.GoogleAPIKey, cfg.Embedding.Dimension, customHttpClient.GetClient())
}

// initGenerator falls back to the extractive template answerer when the provider has no key.
func initGenerator(ctx context.Context, cfg *config.AppConfig) llm.Provider {
	switch {
	case cfg.LLM.Provider == config.ProviderOpenAI && cfg.OpenAIAPIKey != "":
		return openaiLLM.New(cfg.OpenAIAPIKey, cfg.LLM.Model, cfg.LLM.Temperature, customHttpClient.GetClient())
	case cfg.LLM.Provider == config.ProviderGoogle && cfg.GoogleAPIKey != "":
		provider, err := gemini.GetGeminiClient(ctx, cfg.LLM.Model, cfg.GoogleAPIKey, cfg.LLM.Temperature, customHttpClient.GetClient())
		if err == nil {
			return provider
		}
		logger.Error("Gemini unavailable, using template answers", "error", err)
	default:
		logger.Warn("No generation key configured, using template answers", "provider", cfg.LLM.Provider)
	}
	return templateLLM.New()
}
