package ai

import (
	"context"
	"fmt"
	"maps"
	"unicode/utf8"

	"github.com/cloudwego/eino/components/document"
	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"
	"github.com/tmc/langchaingo/textsplitter"
)

// MetaChunkIndex is the position of a chunk within its source document.
const MetaChunkIndex = "chunk_index"

var defaultSeparators = []string{"\n\n", "\n", " ", ""}

// Splitter cuts documents into overlapping chunks, preferring paragraph,
// then line, then word boundaries.
type Splitter struct {
	splitter textsplitter.RecursiveCharacter
}

var _ document.Transformer = (*Splitter)(nil)

// NewSplitter returns a splitter producing chunks of at most chunkSize runes.
func NewSplitter(chunkSize, overlap int) *Splitter {
	if chunkSize < 1 {
		chunkSize = 1
	}
	if overlap < 0 || overlap >= chunkSize {
		overlap = 0
	}
	return &Splitter{splitter: textsplitter.NewRecursiveCharacter(
		textsplitter.WithChunkSize(chunkSize),
		textsplitter.WithChunkOverlap(overlap),
		textsplitter.WithSeparators(defaultSeparators),
		textsplitter.WithLenFunc(utf8.RuneCountInString),
	)}
}

// Transform implements document.Transformer. Chunks inherit the metadata of
// their source document.
func (s *Splitter) Transform(_ context.Context, docs []*schema.Document, _ ...document.TransformerOption) ([]*schema.Document, error) {
	var out []*schema.Document
	for _, doc := range docs {
		chunks, err := s.SplitText(doc.Content)
		if err != nil {
			return nil, fmt.Errorf("failed to split %v: %w", doc.MetaData[MetaSource], err)
		}
		for i, chunk := range chunks {
			meta := make(map[string]any, len(doc.MetaData)+1)
			maps.Copy(meta, doc.MetaData)
			meta[MetaChunkIndex] = i

			out = append(out, &schema.Document{
				ID:       uuid.NewString(),
				Content:  chunk,
				MetaData: meta,
			})
		}
	}
	return out, nil
}

// SplitText splits text into chunks.
func (s *Splitter) SplitText(text string) ([]string, error) {
	return s.splitter.SplitText(text)
}
