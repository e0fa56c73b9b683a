package transform

import "strings"

const verbCommand = `\verb`

var verbatimEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`~`, `\textasciitilde{}`,
	`{`, `\{`,
	`}`, `\}`,
	`&`, `\&`,
	`$`, `\${}`,
	`#`, `\#{}`,
	`_`, `\_{}`,
	`^`, `\textasciicircum{}`,
	`%`, `\%{}`,
)

// InlineVerbatimToTexttt rewrites \verb<d>...<d> spans into \texttt{...}.
// The delimiter d is any non-word character other than a newline, and the
// span must close on the same line; unterminated spans are left alone.
// Span content is escaped so it typesets literally inside \texttt. The
// caret becomes \textasciicircum{} so no math rule matches it later.
func InlineVerbatimToTexttt(s string) string {
	if !strings.Contains(s, verbCommand) {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))
	for {
		i := strings.Index(s, verbCommand)
		if i < 0 {
			sb.WriteString(s)
			return sb.String()
		}
		open := i + len(verbCommand)
		if open >= len(s) || isWordByte(s[open]) || s[open] == '\n' || s[open] >= 0x80 {
			sb.WriteString(s[:open])
			s = s[open:]
			continue
		}

		delim := s[open]
		rest := s[open+1:]
		end := strings.IndexByte(rest, delim)
		if nl := strings.IndexByte(rest, '\n'); end < 0 || (nl >= 0 && nl < end) {
			sb.WriteString(s[:open])
			s = s[open:]
			continue
		}

		sb.WriteString(s[:i])
		sb.WriteString(`\texttt{`)
		sb.WriteString(verbatimEscaper.Replace(rest[:end]))
		sb.WriteString(`}`)
		s = rest[end+1:]
	}
}
