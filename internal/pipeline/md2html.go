package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// ErrRender is wrapped by chapter rendering failures.
var ErrRender = errors.New("chapter rendering failed")

// DefaultCodeStyle is the chroma style applied to fenced code blocks.
const DefaultCodeStyle = "github"

// ChapterRenderer turns one chapter's Markdown into an XHTML fragment.
type ChapterRenderer interface {
	Render(ctx context.Context, markdown string) (string, error)
}

// Goldmark renders chapters with goldmark. Code is highlighted with inline
// styles since ebook readers receive no stylesheet.
type Goldmark struct {
	md goldmark.Markdown
}

// Compile-time interface check.
var _ ChapterRenderer = (*Goldmark)(nil)

// NewGoldmark creates a renderer using the given chroma style, or
// DefaultCodeStyle when style is empty. Raw HTML in chapters is kept.
func NewGoldmark(style string) *Goldmark {
	if style == "" {
		style = DefaultCodeStyle
	}
	return &Goldmark{md: goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Footnote,
			highlighting.NewHighlighting(
				highlighting.WithStyle(style),
				highlighting.WithFormatOptions(chromahtml.WithClasses(false)),
			),
		),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithXHTML(), html.WithUnsafe()),
	)}
}

// Render converts markdown. goldmark has no cancellation hook, so the
// conversion runs in its own goroutine and ctx only bounds the wait.
func (g *Goldmark) Render(ctx context.Context, markdown string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var (
		buf  bytes.Buffer
		errc = make(chan error, 1)
	)
	go func() { errc <- g.md.Convert([]byte(markdown), &buf) }()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case err := <-errc:
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrRender, err)
		}
		return buf.String(), nil
	}
}
