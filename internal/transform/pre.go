package transform

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/alnah/go-md2book/internal/config"
)

// Markers emitted before conversion and consumed by Post.
const (
	ParagraphMarker     = "PARAGRAPH: "
	SubsubsectionMarker = "SUBSUBSECTION: "
	FigureMarker        = "FIG: "
)

// Table layout of the converter's simple table syntax.
const (
	tableFirstColumn = 20
	tableHeaderRule  = 18
)

const urlChars = `[A-Za-z0-9/%&=\-_\\.()#~?:+@]+`

var (
	// Longest marker run first; the character after the run must be blank so
	// a 5-hash heading is never taken for a 4-hash one.
	paragraphHeading     = regexp.MustCompile(`(?m)^#{5}[ \t]+(.+?)(?:[ \t]+#+)?[ \t]*$`)
	subsubsectionHeading = regexp.MustCompile(`(?m)^#{4}[ \t]+(.+?)(?:[ \t]+#+)?[ \t]*$`)

	codeURL       = regexp.MustCompile("`(https?://" + urlChars + ")`")
	standaloneURL = regexp.MustCompile(`(\n\n)\t(https?://` + urlChars + `)\n([^\t]|\t\n)`)

	tabTable    = regexp.MustCompile(`(\n(\n\t([^\t\n]+)\t([^\t\n]+))+\n\n)`)
	tabTableRow = regexp.MustCompile(`(\n?)\n\t([^\t\n]+)\t([^\t\n]+)`)
)

// Pre returns the rewrites applied to raw Markdown before conversion:
// deep headings become markers, URLs become autolinks, tab-separated blocks
// become tables and the figure idiom becomes a FIG: marker.
func Pre(s config.Settings) (Pipeline, error) {
	figure, err := s.FigureRegexp()
	if err != nil {
		return nil, fmt.Errorf("pre-processing rules: %w", err)
	}
	caption := figure.SubexpIndex(config.GroupCaption)

	return Pipeline{
		{Name: "line-endings", Apply: NormalizeLineEndings},
		Chain("deep-headings",
			Replace("paragraph-headings", paragraphHeading, ParagraphMarker+"${1}"),
			Replace("subsubsection-headings", subsubsectionHeading, SubsubsectionMarker+"${1}"),
		),
		Chain("autolinks",
			Replace("code-urls", codeURL, "<${1}>"),
			ReplaceFunc("standalone-urls", standaloneURL, standaloneURLRepl),
		),
		ReplaceFunc("tab-tables", tabTable, tabTableRepl),
		ReplaceFunc("figures", figure, func(m []string) string {
			return FigureMarker + m[caption]
		}),
	}, nil
}

// standaloneURLRepl keeps the character following the URL line, which the
// match consumes.
func standaloneURLRepl(m []string) string {
	return m[1] + "<" + m[2] + ">" + "\n\n" + strings.TrimPrefix(m[3], "\n")
}

// tabTableRepl rewrites a block of "\tcol1\tcol2" lines into a simple table.
// The first line is the header; the following lines render their first
// column as inline code.
func tabTableRepl(m []string) string {
	out := replaceSubmatchFunc(tabTableRow, m[0], func(row []string) string {
		lead, first, second := row[1], row[2], row[3]
		var sb strings.Builder
		sb.WriteString(lead)
		if lead == "\n" {
			sb.WriteString("\n ")
			sb.WriteString(first)
			sb.WriteString(padding(tableFirstColumn - runeLen(first)))
			sb.WriteString(second)
			sb.WriteString("\n ")
			sb.WriteString(strings.Repeat("-", tableHeaderRule))
			sb.WriteString("  ")
			sb.WriteString(strings.Repeat("-", runeLen(second)))
			return sb.String()
		}
		sb.WriteString("\n `")
		sb.WriteString(first)
		sb.WriteString("`")
		sb.WriteString(padding(tableFirstColumn - runeLen(first) - 2))
		sb.WriteString(second)
		return sb.String()
	})
	return out + "\n"
}

// padding returns n spaces, at least one so the columns stay separated.
func padding(n int) string {
	return strings.Repeat(" ", max(n, 1))
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
