// Package latex renders the complete LaTeX document around the converted
// book body.
package latex

import (
	"bytes"
	"errors"
	"fmt"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"github.com/alnah/go-md2book/internal/config"
)

// Template delimiters; LaTeX source is full of braces.
const (
	LeftDelim  = "<%"
	RightDelim = "%>"
)

// Sentinel errors for template rendering.
var (
	ErrTemplateParse  = errors.New("failed to parse document template")
	ErrTemplateRender = errors.New("failed to render document template")
)

// Data is the value the document template is executed with.
type Data struct {
	Settings config.Settings
	Lang     string
	Body     string
}

// Renderer executes a parsed document template.
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses source. Missing keys are errors, so a misspelled
// setting never renders as "<no value>".
func NewRenderer(name, source string) (*Renderer, error) {
	tmpl, err := template.New(name).
		Delims(LeftDelim, RightDelim).
		Funcs(sprig.FuncMap()).
		Option("missingkey=error").
		Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateParse, name, err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render returns the document for data. Values are inserted as they are;
// configuration strings are LaTeX already.
func (r *Renderer) Render(data Data) (string, error) {
	buf := new(bytes.Buffer)
	if err := r.tmpl.Execute(buf, data); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTemplateRender, err)
	}
	return buf.String(), nil
}
