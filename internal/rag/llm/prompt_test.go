package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt(t *testing.T) {
	prompt := BuildPrompt("What is ATP?", []string{" ATP stores energy. ", "Mitochondria make ATP."}, []string{"user: hi", "assistant: hello"})

	assert.Contains(t, prompt, "[1] ATP stores energy.\n")
	assert.Contains(t, prompt, "[2] Mitochondria make ATP.\n")
	assert.Contains(t, prompt, "user: hi\nassistant: hello\n")
	assert.True(t, strings.HasSuffix(prompt, "User Question: What is ATP?"))
	assert.Less(t, strings.Index(prompt, "assistant: hello"), strings.Index(prompt, "Context:"))
}

func TestBuildPrompt_NoContext(t *testing.T) {
	prompt := BuildPrompt("q", nil, nil)

	assert.Contains(t, prompt, "(no passages matched)")
	assert.NotContains(t, prompt, "Conversation so far")
}
