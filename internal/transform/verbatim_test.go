package transform

import "testing"

func TestInlineVerbatimToTexttt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "bang delimiter", input: `\verb!git add!`, want: `\texttt{git add}`},
		{name: "pipe delimiter", input: `use \verb|git log| here`, want: `use \texttt{git log} here`},
		{name: "several spans", input: `\verb!a! and \verb+b+`, want: `\texttt{a} and \texttt{b}`},
		{name: "special characters", input: `\verb!a_b$c#d^e%f&g!`, want: `\texttt{a\_{}b\${}c\#{}d\textasciicircum{}e\%{}f\&g}`},
		{name: "backslash and tilde", input: `\verb!C:\dir~1!`, want: `\texttt{C:\textbackslash{}dir\textasciitilde{}1}`},
		{name: "braces", input: `\verb!{x}!`, want: `\texttt{\{x\}}`},
		{name: "empty span", input: `\verb!!`, want: `\texttt{}`},
		{name: "word after verb untouched", input: `\verbatiminput{x}`, want: `\verbatiminput{x}`},
		{name: "unterminated span untouched", input: `\verb!open`, want: `\verb!open`},
		{name: "span across lines untouched", input: "\\verb!open\nclose!", want: "\\verb!open\nclose!"},
		{name: "verb at end", input: `text \verb`, want: `text \verb`},
		{name: "environment untouched", input: `\begin{verbatim}`, want: `\begin{verbatim}`},
		{
			name:  "unterminated then valid",
			input: "\\verb!x\n\\verb|y|",
			want:  "\\verb!x\n\\texttt{y}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := InlineVerbatimToTexttt(tt.input); got != tt.want {
				t.Errorf("InlineVerbatimToTexttt(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
