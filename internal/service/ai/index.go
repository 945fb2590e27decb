package ai

import (
	"context"
	"fmt"
	"maps"
	"runtime"
	"sync"

	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/indexer"
	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	chromem "github.com/philippgille/chromem-go"
)

const collectionName = "knowledge"

// MemoryIndex stores embedded chunks in an in-memory chromem collection and
// answers queries by cosine similarity.
//
// It is safe for concurrent use.
type MemoryIndex struct {
	embedder   embedding.Embedder
	topK       int
	collection *chromem.Collection

	mu   sync.RWMutex
	docs map[string]*schema.Document
}

var (
	_ indexer.Indexer     = (*MemoryIndex)(nil)
	_ retriever.Retriever = (*MemoryIndex)(nil)
)

// NewMemoryIndex creates an index returning topK documents per query by default.
func NewMemoryIndex(embedder embedding.Embedder, topK int) (*MemoryIndex, error) {
	if topK < 1 {
		topK = 1
	}
	m := &MemoryIndex{embedder: embedder, topK: topK, docs: make(map[string]*schema.Document)}

	collection, err := chromem.NewDB().CreateCollection(collectionName, nil, m.embedOne)
	if err != nil {
		return nil, fmt.Errorf("failed to create knowledge collection: %w", err)
	}
	m.collection = collection
	return m, nil
}

// embedOne adapts the eino embedder to chromem.EmbeddingFunc.
func (m *MemoryIndex) embedOne(ctx context.Context, text string) ([]float32, error) {
	vectors, err := m.embedder.EmbedStrings(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("embedder returned %d vectors for one text", len(vectors))
	}
	return toFloat32(vectors[0]), nil
}

// Store implements indexer.Indexer. Documents without an ID get a random one.
// Chunks whose embedding is all zeros are kept but can never be retrieved.
func (m *MemoryIndex) Store(ctx context.Context, docs []*schema.Document, _ ...indexer.Option) ([]string, error) {
	if len(docs) == 0 {
		return nil, nil
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
	}

	vectors, err := m.embedder.EmbedStrings(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("failed to embed documents: %w", err)
	}
	if len(vectors) != len(docs) {
		return nil, fmt.Errorf("embedder returned %d vectors for %d documents", len(vectors), len(docs))
	}

	ids := make([]string, len(docs))
	entries := make([]chromem.Document, 0, len(docs))
	for i, doc := range docs {
		if doc.ID == "" {
			doc.ID = uuid.NewString()
		}
		ids[i] = doc.ID

		vec := toFloat32(vectors[i])
		if isZero(vec) {
			continue
		}
		entries = append(entries, chromem.Document{
			ID:        doc.ID,
			Content:   doc.Content,
			Embedding: vec,
			Metadata:  stringMetadata(doc.MetaData),
		})
	}

	if len(entries) > 0 {
		if err := m.collection.AddDocuments(ctx, entries, runtime.NumCPU()); err != nil {
			return nil, fmt.Errorf("failed to index documents: %w", err)
		}
	}

	m.mu.Lock()
	for _, doc := range docs {
		m.docs[doc.ID] = doc
	}
	m.mu.Unlock()

	return ids, nil
}

// Retrieve implements retriever.Retriever, honouring the TopK and
// ScoreThreshold options. Returned documents carry their similarity score.
func (m *MemoryIndex) Retrieve(ctx context.Context, query string, opts ...retriever.Option) ([]*schema.Document, error) {
	topK := m.topK
	options := retriever.GetCommonOptions(&retriever.Options{TopK: &topK}, opts...)
	if options.TopK != nil {
		topK = *options.TopK
	}

	queryVec, err := m.embedOne(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}

	// chromem rejects nResults outside [1, Count()].
	n := min(topK, m.collection.Count())
	if n < 1 || isZero(queryVec) {
		return nil, nil
	}

	results, err := m.collection.QueryEmbedding(ctx, queryVec, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to query index: %w", err)
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]*schema.Document, 0, len(results))
	for _, r := range results {
		score := float64(r.Similarity)
		if options.ScoreThreshold != nil && score < *options.ScoreThreshold {
			continue
		}
		stored, ok := m.docs[r.ID]
		if !ok {
			continue
		}
		cp := *stored
		cp.MetaData = maps.Clone(stored.MetaData)
		docs = append(docs, cp.WithScore(score))
	}
	return docs, nil
}

// Len returns the number of stored chunks.
func (m *MemoryIndex) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(x)
	}
	return out
}

func isZero(v []float32) bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// stringMetadata keeps the string-valued metadata chromem can filter on.
func stringMetadata(meta map[string]any) map[string]string {
	out := make(map[string]string, len(meta))
	for k, v := range meta {
		if s, ok := v.(string); ok {
			out[k] = s
		}
	}
	return out
}
