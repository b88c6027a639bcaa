package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/akolanti/StudyRAG/internal/adapter"
	"github.com/akolanti/StudyRAG/internal/domain/commonModels"
	"github.com/akolanti/StudyRAG/pkg/logger_i"
)

func writeJsonResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but can't send a clean status code now
		logRH.Error("Error encoding response", "error", err)
	}
}

func validateContext(ctx context.Context) bool {
	if ctx.Err() != nil {
		logRH.Warn("context error", "traceId", logger_i.TraceID(ctx), "error", ctx.Err())
		return false
	}
	return true
}

// WriteErrorResponse writes the error envelope with an explicit status.
func WriteErrorResponse(w http.ResponseWriter, httpCode int, message string) {
	writeJsonResponse(w, httpCode, adapter.BadRequest(message, httpCode))
}

// writeError maps a service error onto its status code and envelope.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	code, body := adapter.ToErrorResponse(err)
	log := logRH.WithTrace(r.Context())
	if code >= http.StatusInternalServerError {
		log.Error("Request failed", "path", r.URL.Path, "kind", body.Kind, "error", err)
	} else {
		log.Warn("Request rejected", "path", r.URL.Path, "kind", body.Kind, "error", err)
	}
	writeJsonResponse(w, code, body)
}

func decodeJSON(r *http.Request, dst interface{}) error {
	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			logRH.Error("Couldn't close the request body", "error", err)
		}
	}(r.Body)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", commonModels.ErrValidation, err)
	}
	return nil
}

func getTargetDirectory(dir string) (string, error) {
	if !filepath.IsAbs(dir) {
		root, err := os.Getwd()
		if err != nil {
			return "", err
		}
		dir = filepath.Join(root, dir)
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", err
	}
	return dir, nil
}

// saveUpload copies the uploaded file to dir under a name derived from the document id.
func saveUpload(src io.Reader, dir, documentId, ext string) (string, error) {
	path := filepath.Join(dir, documentId+ext)
	dst, err := os.Create(path)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(path)
		return "", err
	}
	return path, nil
}

func removeUpload(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		logRH.Warn("Error removing upload", "path", path, "error", err)
	}
}
