package transform

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/alnah/go-md2book/internal/config"
)

var (
	subsubsectionTag = regexp.MustCompile(`SUBSUBSECTION: (.*)`)
	paragraphTag     = regexp.MustCompile(`PARAGRAPH: (.*)`)
	figureTag        = regexp.MustCompile(`FIG: (.*)`)

	smartQuotes = regexp.MustCompile("``" + `(.*?)''`)
	powerOfTen  = regexp.MustCompile(`\sx\s10\\\^\{\}(\d+)`)

	ctableStyle    = regexp.MustCompile(`ctable\[pos = H, center, botcap\]\{..\}`)
	longtableStyle = regexp.MustCompile(`longtable\}\[c\]\{@\{\}ll@\{\}\}`)

	verbatimBlock = regexp.MustCompile(`(?s)(\\begin\{shaded\}\s*)?(\\begin\{verbatim\}.*?\\end\{verbatim\})(\s*\\end\{shaded\})?`)
)

const (
	chapterMacro = `\chap{`

	// ShiftedMark is appended to output whose sectioning was shifted but
	// which holds no \chap, so a later pass can tell it was converted.
	ShiftedMark = "% sections shifted"

	ctableStyled    = `ctable[pos = ht!, caption = ~ ,width = 130mm, center, botcap]{lX}`
	longtableStyled = "longtable}[c]{@{}lp{10cm}@{}}\n\\caption{~}\\\\"
)

// Post returns the rewrites applied to the converter's LaTeX output to fit
// the book template: chapter-level sectioning, marker expansion, cross
// references, typographic fixes, verbatim styling and table styling.
//
// Applying the pipeline to its own output leaves the text unchanged.
func Post(s config.Settings) Pipeline {
	p := Pipeline{
		{Name: "section-levels", Apply: shiftSectionLevels},
		Chain("markers",
			Replace("subsubsection-markers", subsubsectionTag, `\subsubsection{${1}}`),
			Replace("paragraph-markers", paragraphTag, `\paragraph{${1}}`),
		),
		{Name: "shifted-mark", Apply: markShifted},
	}

	var refs []Rule
	if s.Fig != "" {
		refs = append(refs, Replace("figure-refs",
			regexp.MustCompile(labelPattern(s.Fig)+`\s*(\d+)\-\-(\d+)`), `\imgref{${1}.${2}}`))
	}
	if s.Tab != "" {
		refs = append(refs, Replace("table-refs",
			regexp.MustCompile(labelPattern(s.Tab)+`\s*(\d+)\-\-(\d+)`), `\tabref{${1}.${2}}`))
	}
	if s.PreChap != "" || s.PostChap != "" {
		refs = append(refs, Replace("chapter-refs",
			regexp.MustCompile(labelPattern(s.PreChap)+`\s*(\d+)(\s*)`+labelPattern(s.PostChap)), `\chapref{${1}}${2}`))
	}
	if len(refs) > 0 {
		p = append(p, Chain("cross-references", refs...))
	}

	var math []Rule
	for _, fix := range s.MathFixes {
		math = append(math, ReplaceString("math-fix", fix.From, fix.To))
	}
	math = append(math, Replace("power-of-ten", powerOfTen, `\e{${1}}`))

	dql, dqr := s.DQL, s.DQR

	return append(p,
		Chain("figures-and-lists",
			Replace("figure-markers", figureTag, `\img{${1}}`),
			ReplaceString("enumerate", `\begin{enumerate}[1.]`, `\begin{enumerate}`),
		),
		Rule{Name: "word-dashes", Apply: collapseWordDashes},
		ReplaceFunc("smart-quotes", smartQuotes, func(m []string) string {
			return dql + m[1] + dqr
		}),
		Chain("math", math...),
		Rule{Name: "inline-verbatim", Apply: InlineVerbatimToTexttt},
		Chain("table-style",
			ReplaceLiteral("ctable-style", ctableStyle, ctableStyled),
			ReplaceLiteral("longtable-style", longtableStyle, longtableStyled),
		),
		ReplaceFunc("shaded-verbatim", verbatimBlock, shadeVerbatim),
	)
}

// shiftSectionLevels moves every sectioning command one level up so a
// Markdown level-1 heading opens a chapter. Text already using \chap or
// carrying ShiftedMark is left alone.
func shiftSectionLevels(s string) string {
	if isShifted(s) {
		return s
	}
	s = strings.ReplaceAll(s, `\section`, `\chap`)
	return strings.ReplaceAll(s, `\sub`, `\`)
}

// markShifted appends ShiftedMark when shiftSectionLevels would still
// change s, which happens when no level-1 heading produced a \chap.
func markShifted(s string) string {
	if isShifted(s) || !strings.Contains(s, `\section`) && !strings.Contains(s, `\sub`) {
		return s
	}
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s + ShiftedMark + "\n"
}

func isShifted(s string) bool {
	return strings.Contains(s, chapterMacro) || strings.Contains(s, ShiftedMark)
}

// collapseWordDashes turns "--" between two word characters into "-".
// Chained ranges such as 1--2--3 collapse in a single pass.
func collapseWordDashes(s string) string {
	if !strings.Contains(s, "--") {
		return s
	}
	var sb strings.Builder
	sb.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '-' && i > 0 && i+2 < len(s) && s[i+1] == '-' &&
			isWordByte(s[i-1]) && isWordByte(s[i+2]) {
			sb.WriteByte('-')
			i++
			continue
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}

func isWordByte(b byte) bool {
	return b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

func shadeVerbatim(m []string) string {
	if m[1] != "" && m[3] != "" {
		return m[0]
	}
	return m[1] + `\begin{shaded}` + m[2] + `\end{shaded}` + m[3]
}

// labelPattern quotes label for use in a pattern; any whitespace in the
// label matches any single whitespace character.
func labelPattern(label string) string {
	var sb strings.Builder
	for _, r := range label {
		if unicode.IsSpace(r) {
			sb.WriteString(`\s`)
			continue
		}
		sb.WriteString(regexp.QuoteMeta(string(r)))
	}
	return sb.String()
}
