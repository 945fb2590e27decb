package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/agent-swarm/backend/internal/config"
)

func testPipeline(t *testing.T, loader *mapLoader, urls []string, chatModel *fakeChatModel) *Pipeline {
	t.Helper()
	store, err := NewMemoryIndex(&keywordEmbedder{}, 2)
	require.NoError(t, err)
	return &Pipeline{
		Loader:      loader,
		Splitter:    NewSplitter(200, 20),
		Store:       store,
		ChatModel:   chatModel,
		URLs:        urls,
		TopK:        2,
		Concurrency: 2,
	}
}

func TestPipelineBuildSkipsFailedPages(t *testing.T) {
	loader := &mapLoader{
		pages: map[string]string{
			"https://a.example": "Pix is free for individuals.",
			"https://c.example": "The card machine has low fees.",
		},
		failing: map[string]error{"https://b.example": errors.New("timeout")},
	}
	urls := []string{"https://a.example", "https://b.example", "https://c.example"}
	chatModel := &fakeChatModel{reply: "Pix is free."}

	chain, report, err := testPipeline(t, loader, urls, chatModel).Build(context.Background())
	require.NoError(t, err)
	require.NotNil(t, chain)

	require.Len(t, report.Pages, 3)
	for i, page := range report.Pages {
		assert.Equal(t, urls[i], page.URL)
	}
	assert.Equal(t, "success", report.Pages[0].Status())
	assert.Equal(t, "error", report.Pages[1].Status())
	assert.Equal(t, 2, report.Chunks)

	answer, err := chain.Query(context.Background(), "is pix free?")
	require.NoError(t, err)
	assert.Equal(t, "Pix is free.", answer)
}

func TestPipelineBuildWithoutDocuments(t *testing.T) {
	loader := &mapLoader{failing: map[string]error{"https://a.example": errors.New("dns")}}

	chain, report, err := testPipeline(t, loader, []string{"https://a.example"}, &fakeChatModel{}).Build(context.Background())
	require.ErrorIs(t, err, ErrNoDocuments)
	assert.Nil(t, chain)
	require.Len(t, report.Pages, 1)
	assert.Error(t, report.Pages[0].Err)
}

func TestNewPipelineWithoutCredentials(t *testing.T) {
	cfg := &config.Config{Embedding: config.EmbeddingConfig{Model: "text-embedding-3-small"}}

	_, err := NewPipeline(context.Background(), cfg, nil)
	require.ErrorIs(t, err, ErrChainUnavailable)
	require.ErrorIs(t, err, ErrEmbeddingUnavailable)

	cfg.Embedding.APIKey = "sk-test"
	_, err = NewPipeline(context.Background(), cfg, nil)
	require.ErrorIs(t, err, ErrChainUnavailable)
}
