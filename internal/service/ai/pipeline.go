package ai

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/cloudwego/eino/components/document"
	"github.com/cloudwego/eino/components/indexer"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/zhouzirui/agent-swarm/backend/internal/config"
)

var (
	// ErrChainUnavailable means the generation or embedding backend is not configured.
	ErrChainUnavailable = errors.New("knowledge chain unavailable")
	// ErrNoDocuments means none of the knowledge pages could be loaded.
	ErrNoDocuments = errors.New("no knowledge documents could be loaded")
)

// VectorStore both indexes and retrieves chunks.
type VectorStore interface {
	indexer.Indexer
	retriever.Retriever
}

// PageResult is the load outcome for one knowledge URL.
type PageResult struct {
	URL string
	Err error
}

// Status returns "success" or "error".
func (r PageResult) Status() string {
	if r.Err != nil {
		return "error"
	}
	return "success"
}

// Report summarises an index build.
type Report struct {
	Pages  []PageResult
	Chunks int
}

// Pipeline loads, splits and indexes the knowledge pages, then compiles a
// RAGChain over the resulting index.
type Pipeline struct {
	Loader      document.Loader
	Splitter    document.Transformer
	Store       VectorStore
	ChatModel   model.BaseChatModel
	URLs        []string
	TopK        int
	Concurrency int
}

// NewPipeline wires the production collaborators from cfg. A missing
// credential yields an error wrapping ErrChainUnavailable.
func NewPipeline(ctx context.Context, cfg *config.Config, client *http.Client) (*Pipeline, error) {
	embedder, err := NewOpenAIEmbedder(cfg.Embedding)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrChainUnavailable, err)
	}

	chatModel, err := cfg.AI.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrChainUnavailable, err)
	}

	store, err := NewMemoryIndex(embedder, cfg.Knowledge.TopK)
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		Loader:      NewWebLoader(client),
		Splitter:    NewSplitter(cfg.Knowledge.ChunkSize, cfg.Knowledge.ChunkOverlap),
		Store:       store,
		ChatModel:   chatModel,
		URLs:        cfg.Knowledge.URLs,
		TopK:        cfg.Knowledge.TopK,
		Concurrency: cfg.Knowledge.FetchConcurrency,
	}, nil
}

// Build fetches every page, indexes the chunks and compiles the chain. Pages
// that fail to load are reported and skipped.
func (p *Pipeline) Build(ctx context.Context) (*RAGChain, Report, error) {
	pages, docs := p.load(ctx)
	report := Report{Pages: pages}
	if len(docs) == 0 {
		return nil, report, ErrNoDocuments
	}

	chunks, err := p.Splitter.Transform(ctx, docs)
	if err != nil {
		return nil, report, fmt.Errorf("failed to split documents: %w", err)
	}

	ids, err := p.Store.Store(ctx, chunks)
	if err != nil {
		return nil, report, fmt.Errorf("failed to index documents: %w", err)
	}
	report.Chunks = len(ids)

	chain, err := NewRAGChain(ctx, p.Store, p.ChatModel, p.TopK)
	if err != nil {
		return nil, report, err
	}

	log.Info().
		Str("component", "knowledge").
		Int("pages", len(pages)).
		Int("chunks", report.Chunks).
		Msg("knowledge index built")
	return chain, report, nil
}

func (p *Pipeline) load(ctx context.Context) ([]PageResult, []*schema.Document) {
	results := make([]PageResult, len(p.URLs))
	perPage := make([][]*schema.Document, len(p.URLs))

	var g errgroup.Group
	g.SetLimit(max(1, p.Concurrency))
	for i, url := range p.URLs {
		g.Go(func() error {
			docs, err := p.Loader.Load(ctx, document.Source{URI: url})
			results[i] = PageResult{URL: url, Err: err}
			if err != nil {
				log.Warn().Err(err).Str("component", "knowledge").Str("url", url).Msg("failed to load knowledge page")
				return nil
			}
			perPage[i] = docs
			return nil
		})
	}
	// Load errors stay in results, so the group itself never fails.
	g.Wait()

	var docs []*schema.Document
	for _, pageDocs := range perPage {
		for _, doc := range pageDocs {
			if doc != nil && doc.Content != "" {
				docs = append(docs, doc)
			}
		}
	}
	return results, docs
}
