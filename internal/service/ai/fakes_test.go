package ai

import (
	"context"
	"strings"
	"sync"

	"github.com/cloudwego/eino/components/document"
	"github.com/cloudwego/eino/components/embedding"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

var vocabulary = []string{"pix", "card", "loan", "fees"}

// keywordEmbedder maps text to keyword counts over a tiny vocabulary.
type keywordEmbedder struct {
	mu    sync.Mutex
	calls int
}

func (e *keywordEmbedder) EmbedStrings(_ context.Context, texts []string, _ ...embedding.Option) ([][]float64, error) {
	e.mu.Lock()
	e.calls++
	e.mu.Unlock()

	out := make([][]float64, len(texts))
	for i, text := range texts {
		lower := strings.ToLower(text)
		vec := make([]float64, len(vocabulary))
		for j, word := range vocabulary {
			vec[j] = float64(strings.Count(lower, word))
		}
		out[i] = vec
	}
	return out, nil
}

type fakeChatModel struct {
	mu     sync.Mutex
	reply  string
	err    error
	inputs [][]*schema.Message
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.mu.Lock()
	f.inputs = append(f.inputs, input)
	f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.reply, nil), nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := f.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (f *fakeChatModel) lastInput() []*schema.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.inputs) == 0 {
		return nil
	}
	return f.inputs[len(f.inputs)-1]
}

// mapLoader serves canned pages; URLs listed in failing return their error.
type mapLoader struct {
	pages   map[string]string
	failing map[string]error
}

func (l *mapLoader) Load(_ context.Context, src document.Source, _ ...document.LoaderOption) ([]*schema.Document, error) {
	if err, ok := l.failing[src.URI]; ok {
		return nil, err
	}
	return []*schema.Document{{
		Content:  l.pages[src.URI],
		MetaData: map[string]any{MetaSource: src.URI},
	}}, nil
}
