// Package templateLLM answers from retrieved passages without calling a model.
// It is selected when no provider key is configured.
package templateLLM

import (
	"context"
	"fmt"
	"strings"

	"github.com/akolanti/StudyRAG/internal/config"
	"github.com/akolanti/StudyRAG/internal/rag/llm"
)

const (
	maxExcerpts      = 3
	maxExcerptLength = 200
	noContextAnswer  = "I couldn't find specific information in the document that directly answers your question."
)

type provider struct{}

func New() llm.Provider {
	return provider{}
}

func (provider) Name() string {
	return config.ProviderTemplate
}

func (provider) Generate(ctx context.Context, question string, contexts []string, _ []string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(contexts) == 0 {
		return noContextAnswer, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Based on the document content, here's what I found regarding your question: %q\n\n", question)
	b.WriteString("Relevant information from the document:\n")
	for i, c := range contexts[:min(maxExcerpts, len(contexts))] {
		fmt.Fprintf(&b, "%d. %s\n", i+1, excerpt(strings.TrimSpace(c)))
	}
	fmt.Fprintf(&b, "\nThis information is drawn from %d relevant sections of your document.", len(contexts))
	return b.String(), nil
}

func excerpt(s string) string {
	r := []rune(s)
	if len(r) <= maxExcerptLength {
		return s
	}
	return string(r[:maxExcerptLength]) + "..."
}
