// Package chapters discovers chapter source files and extracts their outline.
package chapters

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"unicode/utf8"

	"github.com/maruel/natural"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Sentinel errors for chapter collection.
var (
	ErrNoChapters   = errors.New("no chapter files found")
	ErrChapterRead  = errors.New("failed to read chapter")
	ErrNotDirectory = errors.New("chapter directory is not a directory")
)

// chapterFilePattern matches "<two-digit-index>-<slug>.md".
var chapterFilePattern = regexp.MustCompile(`^([0-9]{2})-(.+)\.md$`)

var (
	upperCaser = cases.Upper(language.Und)
	lowerCaser = cases.Lower(language.Und)
)

// Chapter is one source Markdown file of the book.
type Chapter struct {
	Number   string // two-digit index, e.g. "01"
	Slug     string // name after the index, e.g. "intro"
	Path     string
	Markdown string
}

// Basename returns the file name without the .md extension.
func (c Chapter) Basename() string {
	return c.Number + "-" + c.Slug
}

// HTMLFile returns the name of the page the site generator renders.
func (c Chapter) HTMLFile() string {
	return c.Basename() + ".html"
}

// Title returns the slug with its first letter upper-cased and the rest
// lower-cased ("getting-started" -> "Getting-started").
func (c Chapter) Title() string {
	if c.Slug == "" {
		return ""
	}
	_, size := utf8.DecodeRuneInString(c.Slug)
	return upperCaser.String(c.Slug[:size]) + lowerCaser.String(c.Slug[size:])
}

// ParseName splits a chapter file name into its index and slug.
// ok is false when name does not follow the chapter naming convention.
func ParseName(name string) (number, slug string, ok bool) {
	m := chapterFilePattern.FindStringSubmatch(name)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// Collect reads every chapter file directly under dir, ordered by file name.
func Collect(dir string) ([]Chapter, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrChapterRead, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrChapterRead, err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !chapterFilePattern.MatchString(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoChapters, dir)
	}
	slices.SortFunc(names, compareNatural)

	chapters := make([]Chapter, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path) // #nosec G304 -- path comes from directory listing
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrChapterRead, name, err)
		}
		number, slug, _ := ParseName(name)
		chapters = append(chapters, Chapter{
			Number:   number,
			Slug:     slug,
			Path:     path,
			Markdown: string(data),
		})
	}
	return chapters, nil
}

// SortPaths orders paths the way chapters are ordered.
func SortPaths(paths []string) {
	slices.SortFunc(paths, compareNatural)
}

func compareNatural(a, b string) int {
	switch {
	case natural.Less(a, b):
		return -1
	case natural.Less(b, a):
		return 1
	default:
		return 0
	}
}
