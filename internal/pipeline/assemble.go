package pipeline

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// XHTMLNamespace is declared on the root element of the assembled book.
const XHTMLNamespace = "http://www.w3.org/1999/xhtml"

// ErrAssemble indicates a fragment could not be parsed or the book rendered.
var ErrAssemble = errors.New("book assembly failed")

// Fragment is the HTML rendering of one source file.
type Fragment struct {
	HTML string
	Dir  string // directory of the source file; empty skips link rebasing
}

// AssembleBook joins fragments, in order, into one XHTML document titled
// title. Relative links are rebased onto outputDir, where the document is
// written.
func AssembleBook(title, outputDir string, fragments []Fragment) (string, error) {
	root := element(atom.Html)
	root.Attr = []html.Attribute{{Key: "xmlns", Val: XHTMLNamespace}}

	head := element(atom.Head)
	titleNode := element(atom.Title)
	titleNode.AppendChild(&html.Node{Type: html.TextNode, Data: title})
	head.AppendChild(titleNode)
	root.AppendChild(head)

	body := element(atom.Body)
	root.AppendChild(body)

	for i, f := range fragments {
		nodes, err := html.ParseFragment(strings.NewReader(f.HTML), element(atom.Body))
		if err != nil {
			return "", fmt.Errorf("%w: fragment %d: %v", ErrAssemble, i, err)
		}
		rebase := f.Dir != "" && outputDir != "" && filepath.Clean(f.Dir) != filepath.Clean(outputDir)
		for _, n := range nodes {
			if rebase {
				rebaseNode(n, f.Dir, outputDir)
			}
			body.AppendChild(n)
		}
	}

	var buf strings.Builder
	if err := html.Render(&buf, root); err != nil {
		return "", fmt.Errorf("%w: %v", ErrAssemble, err)
	}
	return buf.String(), nil
}

func element(a atom.Atom) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
}
