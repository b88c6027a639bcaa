package middleware

import (
	"net/http"
	"strconv"

	"github.com/akolanti/StudyRAG/internal/adapter/utils"
	"github.com/akolanti/StudyRAG/internal/handlers"
	"github.com/akolanti/StudyRAG/internal/metrics"
	"github.com/akolanti/StudyRAG/pkg/logger_i"
)

type requestResponseStruct struct {
	writer     http.ResponseWriter
	req        *http.Request
	badRequest failureStruct
	logger     *logger_i.Logger
}

type failureStruct struct {
	isBadRequest bool
	httpCode     int
	errorMessage string
}

var GetHandler = Wrap(handlers.GetHandler)
var GetStatusHandler = Wrap(handlers.GetStatusHandler)
var HealthHandler = Wrap(handlers.HealthHandler)
var FormatsHandler = Wrap(handlers.FormatsHandler)

var PostDocumentHandler = Wrap(handlers.PostDocumentHandler)
var ListDocumentsHandler = Wrap(handlers.ListDocumentsHandler)
var GetDocumentHandler = Wrap(handlers.GetDocumentHandler)
var GetDocumentContentHandler = Wrap(handlers.GetDocumentContentHandler)
var GetChunksHandler = Wrap(handlers.GetChunksHandler)
var GetChunkHandler = Wrap(handlers.GetChunkHandler)
var DeleteDocumentHandler = Wrap(handlers.DeleteDocumentHandler)
var PostHighlightsHandler = Wrap(handlers.PostHighlightsHandler)
var NavigateHandler = Wrap(handlers.NavigateHandler)
var SearchHandler = Wrap(handlers.SearchHandler)

var CreateSessionHandler = Wrap(handlers.CreateSessionHandler)
var ListSessionsHandler = Wrap(handlers.ListSessionsHandler)
var GetSessionHandler = Wrap(handlers.GetSessionHandler)
var GetSessionMessagesHandler = Wrap(handlers.GetSessionMessagesHandler)
var DeleteSessionHandler = Wrap(handlers.DeleteSessionHandler)
var AskHandler = Wrap(handlers.AskHandler)

// Wrap runs the trace and rate-limit steps before next and counts the response by route.
func Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &metrics.HttpStatusRecorder{ResponseWriter: w, Status: http.StatusOK} //metrics
		re := processRequest(requestResponseStruct{req: r, writer: rec})

		if !re.badRequest.isBadRequest {
			next(rec, re.req)
		}

		metrics.HttpRequestsTotal.WithLabelValues(utils.GetRoutePattern(r), strconv.Itoa(rec.Status)).Inc() //metrics
	}
}

func processRequest(re requestResponseStruct) requestResponseStruct {
	re.logger = logger_i.NewLogger("middleware")
	re = injectTrace(re)
	if re.badRequest.isBadRequest {
		handleBadRequest(re)
		return re
	}
	re.logger.Info("New request received", "method", re.req.Method, "path", re.req.URL.Path)

	re = rateLimiter(re)
	if re.badRequest.isBadRequest {
		handleBadRequest(re)
		return re //stop here if rate limit fails
	}
	return re
}
