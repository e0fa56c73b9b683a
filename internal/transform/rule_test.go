package transform

import (
	"regexp"
	"slices"
	"strings"
	"testing"
)

func TestPipeline_Apply(t *testing.T) {
	t.Parallel()

	p := Pipeline{
		ReplaceString("a-to-b", "a", "b"),
		ReplaceString("b-to-c", "b", "c"),
	}
	if got := p.Apply("ab"); got != "cc" {
		t.Errorf("Apply() = %q, want %q", got, "cc")
	}

	reversed := Pipeline{p[1], p[0]}
	if got := reversed.Apply("ab"); got != "bc" {
		t.Errorf("reversed Apply() = %q, want %q", got, "bc")
	}

	if got := Pipeline(nil).Apply("x"); got != "x" {
		t.Errorf("empty Apply() = %q, want %q", got, "x")
	}
}

func TestPipeline_Names(t *testing.T) {
	t.Parallel()

	p := Pipeline{ReplaceString("one", "", ""), ReplaceString("two", "", "")}
	if got := p.Names(); !slices.Equal(got, []string{"one", "two"}) {
		t.Errorf("Names() = %v", got)
	}
}

func TestReplace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		rule  Rule
		input string
		want  string
	}{
		{
			name:  "expands groups",
			rule:  Replace("swap", regexp.MustCompile(`(\w+)=(\w+)`), "${2}=${1}"),
			input: "a=b c=d",
			want:  "b=a d=c",
		},
		{
			name:  "literal keeps dollar signs",
			rule:  ReplaceLiteral("dollar", regexp.MustCompile(`x`), "$1"),
			input: "axb",
			want:  "a$1b",
		},
		{
			name:  "string replacement",
			rule:  ReplaceString("plain", `\sub`, `\`),
			input: `\subsubsection`,
			want:  `\subsection`,
		},
		{
			name: "func receives unmatched groups as empty",
			rule: ReplaceFunc("func", regexp.MustCompile(`(a)?(b)`), func(m []string) string {
				return "[" + m[1] + "|" + m[2] + "]"
			}),
			input: "ab b",
			want:  "[a|b] [|b]",
		},
		{
			name: "func without match returns input",
			rule: ReplaceFunc("none", regexp.MustCompile(`z`), func(m []string) string {
				return "never"
			}),
			input: "abc",
			want:  "abc",
		},
		{
			name:  "chain applies in order",
			rule:  Chain("chain", ReplaceString("1", "a", "b"), ReplaceString("2", "b", "c")),
			input: "a",
			want:  "c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.rule.Apply(tt.input); got != tt.want {
				t.Errorf("Apply(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeLineEndings(t *testing.T) {
	t.Parallel()

	got := NormalizeLineEndings("a\r\nb\rc\n")
	if got != "a\nb\nc\n" {
		t.Errorf("NormalizeLineEndings() = %q", got)
	}
	if strings.ContainsRune(NormalizeLineEndings("\r\r\n"), '\r') {
		t.Error("carriage return left behind")
	}
}
