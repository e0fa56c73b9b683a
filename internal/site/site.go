// Package site writes the Jekyll pages of the book: one page per chapter
// and an index page holding the outline.
package site

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alnah/go-md2book/internal/chapters"
	"github.com/alnah/go-md2book/internal/yamlutil"
)

// Layout names expected by the Jekyll theme.
const (
	ChapterLayout = "chapter"
	IndexLayout   = "bookTOC"
	IndexTitle    = "Index"
	IndexFile     = "index.md"
)

// ErrPageWrite is returned when a page cannot be written.
var ErrPageWrite = errors.New("failed to write site page")

// FrontMatter is the header of every generated page.
type FrontMatter struct {
	Layout string `yaml:"layout"`
	Title  string `yaml:"title"`
}

// WriteChapter writes <dir>/<basename>.md with chapter front matter followed
// by the unmodified chapter body, and returns the written path.
func WriteChapter(dir string, c chapters.Chapter) (string, error) {
	path := filepath.Join(dir, c.Basename()+".md")
	return path, writePage(path, FrontMatter{Layout: ChapterLayout, Title: c.Title()}, c.Markdown)
}

// WriteIndex writes <dir>/index.md holding the outline of the whole book.
func WriteIndex(dir string, outline chapters.Outline) (string, error) {
	path := filepath.Join(dir, IndexFile)
	return path, writePage(path, FrontMatter{Layout: IndexLayout, Title: IndexTitle}, outline.Markdown())
}

func writePage(path string, fm FrontMatter, body string) error {
	header, err := yamlutil.FrontMatter(fm)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrPageWrite, filepath.Base(path), err)
	}
	if err := os.WriteFile(path, []byte(header+body), 0o644); err != nil { // #nosec G306 -- site pages are public
		return fmt.Errorf("%w: %v", ErrPageWrite, err)
	}
	return nil
}
