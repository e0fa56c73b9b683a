package toolchain

import (
	"context"
	"fmt"
	"strings"
)

// Executable names of the external tools.
const (
	ToolPandoc       = "pandoc"
	ToolXeLaTeX      = "xelatex"
	ToolEbookConvert = "ebook-convert"
	ToolDia          = "dia"
	ToolEpsToPDF     = "epstopdf"
)

// Pandoc converts Markdown to LaTeX by piping it through pandoc.
type Pandoc struct {
	Runner CommandRunner
	Binary string // defaults to "pandoc"
}

// NewPandoc creates a Pandoc converter using runner.
func NewPandoc(runner CommandRunner) *Pandoc {
	return &Pandoc{Runner: runner, Binary: ToolPandoc}
}

// ToLaTeX converts markdown and returns the LaTeX fragment pandoc writes to
// stdout. Tabs are preserved so tab-delimited blocks survive as tables.
func (p *Pandoc) ToLaTeX(ctx context.Context, markdown string) (string, error) {
	if strings.TrimSpace(markdown) == "" {
		return "", ErrEmptyContent
	}

	binary := p.Binary
	if binary == "" {
		binary = ToolPandoc
	}

	stdout, stderr, err := p.Runner.Run(ctx, Command{
		Name:  binary,
		Args:  []string{"--preserve-tabs", "--wrap=none", "-f", "markdown", "-t", "latex"},
		Stdin: markdown,
	})
	if err != nil {
		if msg := strings.TrimSpace(stderr); msg != "" {
			return "", fmt.Errorf("pandoc conversion: %w: %s", err, msg)
		}
		return "", fmt.Errorf("pandoc conversion: %w", err)
	}
	return stdout, nil
}
