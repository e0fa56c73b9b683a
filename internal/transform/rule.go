// Package transform holds the ordered text rewrites bracketing the
// Markdown to LaTeX conversion, plus the figure rewrite used for ebooks.
//
// Every rule is a pure string -> string function. A Pipeline applies its rules
// left to right; order is significant because some rules emit markers
// (FIG:, SUBSUBSECTION:, PARAGRAPH:) that later rules consume verbatim.
package transform

import (
	"regexp"
	"strings"
)

// Rule is one named rewrite.
type Rule struct {
	Name  string
	Apply func(string) string
}

// Pipeline is an ordered list of rules.
type Pipeline []Rule

// Apply runs every rule in order, feeding each the previous output.
func (p Pipeline) Apply(text string) string {
	for _, r := range p {
		text = r.Apply(text)
	}
	return text
}

// Names returns the rule names in application order.
func (p Pipeline) Names() []string {
	names := make([]string, len(p))
	for i, r := range p {
		names[i] = r.Name
	}
	return names
}

// Rule constructors.

// Replace returns a rule expanding repl ($1, ${name}) for every match of re.
func Replace(name string, re *regexp.Regexp, repl string) Rule {
	return Rule{Name: name, Apply: func(s string) string {
		return re.ReplaceAllString(s, repl)
	}}
}

// ReplaceLiteral returns a rule substituting repl verbatim for every match of re.
func ReplaceLiteral(name string, re *regexp.Regexp, repl string) Rule {
	return Rule{Name: name, Apply: func(s string) string {
		return re.ReplaceAllLiteralString(s, repl)
	}}
}

// ReplaceString returns a rule substituting new for every occurrence of old.
func ReplaceString(name, old, new string) Rule {
	return Rule{Name: name, Apply: func(s string) string {
		return strings.ReplaceAll(s, old, new)
	}}
}

// ReplaceFunc returns a rule replacing every match of re with fn(submatches),
// where submatches[0] is the whole match and unmatched groups are "".
func ReplaceFunc(name string, re *regexp.Regexp, fn func(m []string) string) Rule {
	return Rule{Name: name, Apply: func(s string) string {
		return replaceSubmatchFunc(re, s, fn)
	}}
}

// Chain returns a rule applying rules in order under a single name.
func Chain(name string, rules ...Rule) Rule {
	p := Pipeline(rules)
	return Rule{Name: name, Apply: p.Apply}
}

func replaceSubmatchFunc(re *regexp.Regexp, s string, fn func(m []string) string) string {
	matches := re.FindAllStringSubmatchIndex(s, -1)
	if matches == nil {
		return s
	}

	var sb strings.Builder
	sb.Grow(len(s))
	last := 0
	for _, loc := range matches {
		sb.WriteString(s[last:loc[0]])
		groups := make([]string, len(loc)/2)
		for i := range groups {
			if start, end := loc[2*i], loc[2*i+1]; start >= 0 {
				groups[i] = s[start:end]
			}
		}
		sb.WriteString(fn(groups))
		last = loc[1]
	}
	sb.WriteString(s[last:])
	return sb.String()
}

// NormalizeLineEndings converts CRLF and lone CR line endings to LF.
func NormalizeLineEndings(s string) string {
	if !strings.ContainsRune(s, '\r') {
		return s
	}
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}
