package ai

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/document"
	"github.com/cloudwego/eino/schema"
	"golang.org/x/net/html"
)

const (
	// MetaSource is the document metadata key holding the page URL.
	MetaSource = "source"
	// MetaTitle holds the page <title>, when present.
	MetaTitle = "title"

	maxPageBytes   = 2 << 20
	defaultTimeout = 30 * time.Second
	userAgent      = "Mozilla/5.0 (compatible; agent-swarm/1.0)"
)

var (
	multiNewlinePattern = regexp.MustCompile(`\n{3,}`)
	multiSpacePattern   = regexp.MustCompile(`[ \t]{2,}`)
)

// WebLoader fetches a page and turns its visible text into one document.
type WebLoader struct {
	client *http.Client
}

var _ document.Loader = (*WebLoader)(nil)

// NewWebLoader returns a loader using client, or a client with a 30s timeout when nil.
func NewWebLoader(client *http.Client) *WebLoader {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &WebLoader{client: client}
}

// Load implements document.Loader.
func (l *WebLoader) Load(ctx context.Context, src document.Source, _ ...document.LoaderOption) ([]*schema.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URI, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", src.URI, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: HTTP %d", src.URI, resp.StatusCode)
	}

	node, err := html.Parse(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", src.URI, err)
	}

	var (
		sb    strings.Builder
		title string
	)
	extractText(node, &sb, &title)

	return []*schema.Document{{
		Content: cleanText(sb.String()),
		MetaData: map[string]any{
			MetaSource: src.URI,
			MetaTitle:  title,
		},
	}}, nil
}

func extractText(n *html.Node, sb *strings.Builder, title *string) {
	switch n.Type {
	case html.TextNode:
		if text := strings.TrimSpace(n.Data); text != "" {
			sb.WriteString(text)
			sb.WriteString(" ")
		}
		return
	case html.ElementNode:
		switch n.Data {
		case "script", "style", "noscript", "iframe", "svg", "nav", "footer", "header":
			return
		case "title":
			if n.FirstChild != nil && *title == "" {
				*title = strings.TrimSpace(n.FirstChild.Data)
			}
			return
		case "p", "div", "section", "article", "h1", "h2", "h3", "h4", "h5", "h6", "ul", "ol", "table":
			sb.WriteString("\n\n")
		case "br", "li", "tr":
			sb.WriteString("\n")
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		extractText(c, sb, title)
	}
}

func cleanText(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(multiSpacePattern.ReplaceAllString(line, " "))
	}
	text = strings.Join(lines, "\n")
	text = multiNewlinePattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
