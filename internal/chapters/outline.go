package chapters

import (
	"regexp"
	"strings"

	"github.com/gosimple/slug"
)

// headingPattern matches an ATX heading line; group 1 holds the markers.
var headingPattern = regexp.MustCompile(`^(#{1,6})[ \t]+(.*?)(?:[ \t]+#+)?[ \t]*$`)

// TocEntry is one heading of the outline.
type TocEntry struct {
	Level  int
	Title  string
	Anchor string
}

// Outline is the ordered list of headings of one or more chapters.
type Outline []TocEntry

// ExtractOutline returns one entry per heading of markdown, skipping fenced
// code blocks and headings containing any of the exclude substrings.
// Anchors point at siteURL+htmlFile with the slugified title as fragment.
func ExtractOutline(markdown, siteURL, htmlFile string, exclude []string) Outline {
	var (
		outline Outline
		fence   string
	)

	for _, line := range strings.Split(normalizeNewlines(markdown), "\n") {
		trimmed := strings.TrimLeft(line, " ")
		if marker := fenceMarker(trimmed); marker != "" {
			switch {
			case fence == "":
				fence = marker
			case strings.HasPrefix(marker, fence[:1]) && len(marker) >= len(fence):
				fence = ""
			}
			continue
		}
		if fence != "" {
			continue
		}

		m := headingPattern.FindStringSubmatch(line)
		if m == nil || containsAny(line, exclude) {
			continue
		}
		title := strings.TrimSpace(m[2])
		if title == "" {
			continue
		}
		outline = append(outline, TocEntry{
			Level:  len(m[1]),
			Title:  title,
			Anchor: siteURL + htmlFile + "#" + slug.Make(title),
		})
	}
	return outline
}

// Markdown renders the outline as a nested Markdown list, four spaces of
// indentation per level below the first.
func (o Outline) Markdown() string {
	var sb strings.Builder
	for _, e := range o {
		sb.WriteString(strings.Repeat("    ", max(e.Level-1, 0)))
		sb.WriteString("* [")
		sb.WriteString(e.Title)
		sb.WriteString("](")
		sb.WriteString(e.Anchor)
		sb.WriteString(")\n")
	}
	return sb.String()
}

// fenceMarker returns the run of backticks or tildes opening line when it is
// a code fence, or "".
func fenceMarker(line string) string {
	for _, c := range []byte{'`', '~'} {
		n := 0
		for n < len(line) && line[n] == c {
			n++
		}
		if n >= 3 {
			return line[:n]
		}
	}
	return ""
}

func containsAny(s string, substrings []string) bool {
	for _, sub := range substrings {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
