package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"

	"github.com/akolanti/StudyRAG/internal/adapter/utils"
	"github.com/akolanti/StudyRAG/internal/config"
	"github.com/akolanti/StudyRAG/internal/middleware"
	"github.com/akolanti/StudyRAG/pkg/logger_i"
	"github.com/go-chi/chi/v5"
)

var (
	server  *http.Server
	_logger *logger_i.Logger
)

type ShutdownParams struct {
	GracefulShutdown chan os.Signal
	StopExecution    chan bool
	WorkerStop       chan bool
	Group            *sync.WaitGroup
	CloseServices    context.CancelFunc
}

// RegisterRoutes mounts every API route on r. mcp may be nil.
func RegisterRoutes(r chi.Router, mcp http.Handler) {
	r.Get("/", middleware.GetHandler)
	r.Get("/health", middleware.HealthHandler)
	r.Get("/formats", middleware.FormatsHandler)
	r.Get("/status/{id}", middleware.GetStatusHandler)

	r.Route("/documents", func(r chi.Router) {
		r.Post("/", middleware.PostDocumentHandler)
		r.Get("/", middleware.ListDocumentsHandler)
		r.Get("/{id}", middleware.GetDocumentHandler)
		r.Delete("/{id}", middleware.DeleteDocumentHandler)
		r.Get("/{id}/content", middleware.GetDocumentContentHandler)
		r.Get("/{id}/chunks", middleware.GetChunksHandler)
		r.Get("/{id}/chunks/{sequence}", middleware.GetChunkHandler)
		r.Post("/{id}/highlights", middleware.PostHighlightsHandler)
		r.Get("/{id}/navigate", middleware.NavigateHandler)
	})
	r.Post("/search", middleware.SearchHandler)

	r.Route("/qa", func(r chi.Router) {
		r.Post("/sessions", middleware.CreateSessionHandler)
		r.Get("/sessions", middleware.ListSessionsHandler)
		r.Get("/sessions/{id}", middleware.GetSessionHandler)
		r.Get("/sessions/{id}/messages", middleware.GetSessionMessagesHandler)
		r.Delete("/sessions/{id}", middleware.DeleteSessionHandler)
		r.Post("/ask", middleware.AskHandler)
	})

	if mcp != nil {
		r.Handle("/mcp", mcp)
	}
}

func CreateServer(listenAddr string, mcp http.Handler) {
	_logger = logger_i.NewLogger("Server")

	r := utils.NewRouter()
	RegisterRoutes(r, mcp)

	server = &http.Server{
		Addr:         listenAddr,
		Handler:      r,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
		IdleTimeout:  config.IdleTimeout,
	}

	_logger.Info("Server is listening at", "address", listenAddr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		_logger.Error("Server crashed", "error", err.Error(), "addr", listenAddr)
	}
}

func ShutDownHandler(shutdownParams ShutdownParams) {
	state := <-shutdownParams.GracefulShutdown
	_logger.Info("Server is shutting down", "signal", state.String())

	ctx, cancel := context.WithTimeout(context.Background(), config.ShutdownContextTimeout)
	defer cancel()

	done := make(chan struct{})

	go func() {
		server.SetKeepAlivesEnabled(false)

		if err := server.Shutdown(ctx); err != nil {
			_logger.Error("Could not shutdown gracefully", "error", err)
		}

		//close workers
		close(shutdownParams.WorkerStop)
		shutdownParams.Group.Wait()
		shutdownParams.CloseServices()
		close(shutdownParams.StopExecution)
		close(done)
	}()

	select {
	case <-done:
		_logger.Info("Graceful shutdown complete")
	case <-ctx.Done():
		_logger.Info("Force Shut down")
		os.Exit(1)
	}
}
