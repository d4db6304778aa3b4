package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/evidencegraph/forensic/llm"
)

// generateAnswer calls the injected LLM with strict system/user
// prompts. If no provider is configured, or the call fails, it falls
// back to a deterministic stub that lists available sources without
// inventing content — never a silent empty answer.
func generateAnswer(ctx context.Context, provider llm.Provider, model, question, context_ string, limitations []string) string {
	userPrompt := buildUserPrompt(question, context_, limitations)

	if provider != nil {
		resp, err := provider.Chat(ctx, llm.ChatRequest{
			Model: model,
			Messages: []llm.Message{
				{Role: "system", Content: systemPrompt},
				{Role: "user", Content: userPrompt},
			},
		})
		if err == nil && resp != nil && resp.Content != "" {
			return resp.Content
		}
	}

	return stubAnswer(context_, limitations)
}

// stubAnswer produces a template answer that only ever references
// sources already present in the context — it never fabricates
// content when no LLM is available.
func stubAnswer(context_ string, limitations []string) string {
	if context_ == "" || context_ == "No relevant evidence found." {
		return "The available evidence does not contain sufficient information to answer this question."
	}

	sourceCount := strings.Count(context_, "[Source ")
	if sourceCount == 0 {
		return "The available evidence does not contain sufficient information to answer this question."
	}

	lines := []string{
		fmt.Sprintf("Based on the available evidence (%d source(s) reviewed):", sourceCount),
		"",
		"The evidence shows the following relevant information:",
	}

	refs := sourceCount
	if refs > 3 {
		refs = 3
	}
	for i := 1; i <= refs; i++ {
		lines = append(lines, fmt.Sprintf("- See [Source %d] for details.", i))
	}

	if len(limitations) > 0 {
		n := len(limitations)
		if n > 2 {
			n = 2
		}
		lines = append(lines, "", "Note: "+strings.Join(limitations[:n], "; "))
	}

	return strings.Join(lines, "\n")
}
