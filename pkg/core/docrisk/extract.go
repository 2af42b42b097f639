// Package docrisk is the independent document branch: extract text from
// an uploaded financial document, run one risk-analysis completion, and
// attach file metadata the model cannot touch.
package docrisk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"
)

// Extractor turns raw document bytes into plain text.
type Extractor interface {
	Extract(ctx context.Context, data []byte) (string, error)
}

// Registry maps file extensions (without dot, lower case) to extractors.
// A missing extractor is recoverable: callers fall back to a best-effort
// raw decode.
type Registry struct {
	extractors map[string]Extractor
}

func NewRegistry() *Registry {
	return &Registry{extractors: map[string]Extractor{
		"txt":  PlainTextExtractor{},
		"md":   MarkdownExtractor{},
		"html": HTMLExtractor{},
		"htm":  HTMLExtractor{},
	}}
}

// Register adds or replaces the extractor for an extension.
func (r *Registry) Register(ext string, e Extractor) {
	r.extractors[strings.ToLower(strings.TrimPrefix(ext, "."))] = e
}

// Extract dispatches on extension, falling back to a raw decode when no
// extractor is registered or the registered one fails.
func (r *Registry) Extract(ctx context.Context, ext string, data []byte) string {
	key := strings.ToLower(strings.TrimPrefix(ext, "."))
	if e, ok := r.extractors[key]; ok {
		if text, err := e.Extract(ctx, data); err == nil {
			return text
		}
	}
	return rawDecode(data)
}

// rawDecode keeps printable text and drops everything else.
func rawDecode(data []byte) string {
	if !utf8.Valid(data) {
		data = bytes.ToValidUTF8(data, nil)
	}
	var b strings.Builder
	b.Grow(len(data))
	for _, r := range string(data) {
		if r == '\n' || r == '\t' || (r >= 0x20 && r != 0x7f) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PlainTextExtractor decodes the bytes as UTF-8 text.
type PlainTextExtractor struct{}

func (PlainTextExtractor) Extract(_ context.Context, data []byte) (string, error) {
	return rawDecode(data), nil
}

// MarkdownExtractor walks the goldmark AST and keeps only text nodes.
type MarkdownExtractor struct{}

func (MarkdownExtractor) Extract(_ context.Context, data []byte) (string, error) {
	doc := goldmark.DefaultParser().Parse(gmtext.NewReader(data))
	var b strings.Builder
	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if t, ok := n.(*ast.Text); ok {
			b.Write(t.Segment.Value(data))
			if t.SoftLineBreak() || t.HardLineBreak() {
				b.WriteByte('\n')
			}
		}
		if _, ok := n.(*ast.Paragraph); ok {
			b.WriteByte('\n')
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return "", err
	}
	return b.String(), nil
}

// HTMLExtractor strips markup with goquery.
type HTMLExtractor struct{}

func (HTMLExtractor) Extract(_ context.Context, data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parsing html: %w", err)
	}
	doc.Find("script, style, noscript").Remove()
	return doc.Text(), nil
}

// RemoteExtractor delegates PDF/DOCX extraction to an external service
// that posts back {"text": "..."}.
type RemoteExtractor struct {
	ServiceURL string
	Ext        string
	Client     *http.Client
}

func NewRemoteExtractor(serviceURL, ext string) *RemoteExtractor {
	return &RemoteExtractor{
		ServiceURL: serviceURL,
		Ext:        strings.TrimPrefix(ext, "."),
		Client:     &http.Client{Timeout: 60 * time.Second},
	}
}

func (e *RemoteExtractor) Extract(ctx context.Context, data []byte) (string, error) {
	url := fmt.Sprintf("%s/extract?ext=%s", e.ServiceURL, e.Ext)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("creating extractor request: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")

	resp, err := e.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling extractor service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("extractor service returned status %d: %s", resp.StatusCode, string(body))
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decoding extractor response: %w", err)
	}
	return parsed.Text, nil
}
