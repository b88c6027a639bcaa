package llm

import (
	"context"
	"fmt"

	"github.com/akolanti/StudyRAG/internal/domain/commonModels"
)

// Provider turns retrieved passages into an answer.
// contexts are ordered by relevance; history holds prior turns, oldest first.
type Provider interface {
	Generate(ctx context.Context, question string, contexts []string, history []string) (string, error)
	Name() string
}

// ErrEmptyAnswer is returned when a model responds without any text.
var ErrEmptyAnswer = fmt.Errorf("%w: model returned an empty answer", commonModels.ErrTransientProvider)
