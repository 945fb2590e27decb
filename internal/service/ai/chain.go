package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
)

// Chain answers a question from the knowledge base.
type Chain interface {
	Query(ctx context.Context, question string) (string, error)
}

// RAGChain retrieves the closest chunks for a question and lets the chat
// model answer from them.
type RAGChain struct {
	runnable compose.Runnable[string, *schema.Message]
}

var _ Chain = (*RAGChain)(nil)

// NewRAGChain compiles retrieve -> prompt -> chat model.
func NewRAGChain(ctx context.Context, r retriever.Retriever, chatModel model.BaseChatModel, topK int) (*RAGChain, error) {
	retrieve := compose.InvokableLambda(func(ctx context.Context, question string) (map[string]any, error) {
		docs, err := r.Retrieve(ctx, question, retriever.WithTopK(topK))
		if err != nil {
			return nil, fmt.Errorf("failed to retrieve context: %w", err)
		}
		return buildPromptInput(question, docs), nil
	})

	chain := compose.NewChain[string, *schema.Message]()
	chain.AppendLambda(retrieve)
	chain.AppendChatTemplate(newRAGTemplate())
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile knowledge chain: %w", err)
	}

	return &RAGChain{runnable: runnable}, nil
}

// Query implements Chain.
func (c *RAGChain) Query(ctx context.Context, question string) (string, error) {
	msg, err := c.runnable.Invoke(ctx, question)
	if err != nil {
		return "", fmt.Errorf("failed to run knowledge chain: %w", err)
	}
	if msg == nil {
		return "", nil
	}
	return strings.TrimSpace(msg.Content), nil
}
