package commonModels

import (
	"errors"
	"fmt"
)

// Validation errors are rejected immediately and never retried.
var (
	ErrValidation            = errors.New("validation error")
	ErrUnsupportedFormat     = fmt.Errorf("%w: unsupported file type", ErrValidation)
	ErrEmptyDocument         = fmt.Errorf("%w: document has no text", ErrValidation)
	ErrInvalidChunkingConfig = fmt.Errorf("%w: overlap must be smaller than chunk size", ErrValidation)
	ErrEmptyQuestion         = fmt.Errorf("%w: question is empty", ErrValidation)
	ErrInvalidStudyMode      = fmt.Errorf("%w: invalid study mode", ErrValidation)
)

var (
	// ErrTransientProvider marks embedding/generation failures worth retrying.
	ErrTransientProvider = errors.New("transient provider error")

	// ErrStorageUnavailable is raised when the vector store cannot be reached.
	ErrStorageUnavailable = errors.New("vector store unavailable")

	ErrNotFound = errors.New("not found")
)

var (
	ErrConflict          = errors.New("conflict")
	ErrAskInProgress     = fmt.Errorf("%w: an ask is already in flight for this session", ErrConflict)
	ErrDocumentNotReady  = fmt.Errorf("%w: document has no searchable vectors", ErrConflict)
	ErrDocumentDeleting  = fmt.Errorf("%w: document is being deleted", ErrConflict)
	ErrDocumentIngesting = fmt.Errorf("%w: document is still being ingested", ErrConflict)
)

// ErrorKind names the taxonomy bucket of err for reports and API bodies.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return "ValidationError"
	case errors.Is(err, ErrTransientProvider):
		return "TransientProviderError"
	case errors.Is(err, ErrStorageUnavailable):
		return "StorageError"
	case errors.Is(err, ErrNotFound):
		return "NotFoundError"
	case errors.Is(err, ErrConflict):
		return "ConflictError"
	default:
		return "InternalError"
	}
}

// IsRetryable reports whether the caller may retry the same request later.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransientProvider) || errors.Is(err, ErrStorageUnavailable)
}
