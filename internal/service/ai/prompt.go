package ai

import (
	"strings"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

const ragSystemPrompt = `You are a helpful assistant for InfinitePay, a financial services company in Brazil.
Use the following pieces of context to answer the question at the end.
If you don't know the answer, just say that you don't know, don't try to make up an answer.`

// newRAGTemplate expects the "context" and "question" variables.
func newRAGTemplate() prompt.ChatTemplate {
	return prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(ragSystemPrompt),
		schema.UserMessage("{context}\n\nQuestion: {question}"),
	)
}

// buildPromptInput stuffs every retrieved chunk into a single context block.
func buildPromptInput(question string, docs []*schema.Document) map[string]any {
	parts := make([]string, 0, len(docs))
	for _, doc := range docs {
		if content := strings.TrimSpace(doc.Content); content != "" {
			parts = append(parts, content)
		}
	}

	return map[string]any{
		"context":  strings.Join(parts, "\n\n"),
		"question": question,
	}
}
