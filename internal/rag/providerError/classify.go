// Package providerError maps SDK failures from the model providers onto the pipeline's error taxonomy.
package providerError

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/openai/openai-go"
	"google.golang.org/genai"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/akolanti/StudyRAG/internal/domain/commonModels"
)

// FromGoogle wraps err with ErrTransientProvider when a retry could succeed.
func FromGoogle(operation string, err error) error {
	if err == nil {
		return nil
	}
	if s, ok := status.FromError(err); ok && s.Code() != codes.Unknown {
		switch s.Code() {
		case codes.ResourceExhausted, codes.Unavailable, codes.DeadlineExceeded, codes.Aborted, codes.Internal:
			return transient(operation, err)
		default:
			return fmt.Errorf("%s: %w", operation, err)
		}
	}

	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return byStatus(operation, apiErr.Code, err)
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return byStatus(operation, apiErrPtr.Code, err)
	}
	return fallback(operation, err)
}

// FromOpenAI wraps err with ErrTransientProvider when a retry could succeed.
func FromOpenAI(operation string, err error) error {
	if err == nil {
		return nil
	}
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return byStatus(operation, apiErr.StatusCode, err)
	}
	return fallback(operation, err)
}

// IsTransientStatus reports whether an HTTP status is worth retrying.
func IsTransientStatus(code int) bool {
	return code == http.StatusTooManyRequests || code == http.StatusRequestTimeout || code >= http.StatusInternalServerError
}

func byStatus(operation string, code int, err error) error {
	if IsTransientStatus(code) {
		return transient(operation, err)
	}
	return fmt.Errorf("%s failed with status %d: %w", operation, code, err)
}

// fallback treats transport errors as transient but leaves caller cancellation alone.
func fallback(operation string, err error) error {
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", operation, err)
	}
	return transient(operation, err)
}

func transient(operation string, err error) error {
	return fmt.Errorf("%w: %s: %w", commonModels.ErrTransientProvider, operation, err)
}
