package llm

import (
	"fmt"
	"strings"
)

// BuildPrompt renders the user turn sent to a chat model.
func BuildPrompt(question string, contexts []string, history []string) string {
	var b strings.Builder

	if len(history) > 0 {
		b.WriteString("Conversation so far (user turns are questions, assistant turns are your earlier answers):\n")
		for _, h := range history {
			b.WriteString(h)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}

	b.WriteString("Context:\n")
	if len(contexts) == 0 {
		b.WriteString("(no passages matched)\n")
	}
	for i, c := range contexts {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, strings.TrimSpace(c))
	}

	fmt.Fprintf(&b, "\nUser Question: %s", question)
	return b.String()
}
