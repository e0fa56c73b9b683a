package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"golang.org/x/text/language"

	"github.com/alnah/go-md2book/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound   = errors.New("config file not found")
	ErrConfigParse      = errors.New("failed to parse config")
	ErrMissingDefault   = errors.New("config has no 'default' section")
	ErrFieldTooLong     = errors.New("field exceeds maximum length")
	ErrFieldRequired    = errors.New("required field is empty")
	ErrInvalidLanguage  = errors.New("invalid language tag")
	ErrInvalidFormat    = errors.New("unsupported ebook format")
	ErrInvalidPattern   = errors.New("invalid pattern")
	ErrInvalidFileName  = errors.New("invalid book file name")
	ErrDuplicateEntries = errors.New("duplicate entries")
)

// DefaultSectionKey is the top-level YAML key holding the book configuration.
const DefaultSectionKey = "default"

// DefaultFileNames are tried in the book root when no config path is given.
var DefaultFileNames = []string{"book.yml", "book.yaml"}

// Field length limits.
const (
	MaxTitleLength    = 200
	MaxAuthorLength   = 200
	MaxFileNameLength = 100
	MaxURLLength      = 2048
	MaxCommentsLength = 4000
	MaxTokenLength    = 500 // typographic tokens and labels
	MaxPatternLength  = 500
)

// Named groups the figure patterns must expose.
const (
	GroupChapter = "chapter"
	GroupOrdinal = "ordinal"
	GroupCaption = "caption"
)

// Legacy figure conventions: "Insert 18333fig0101.png" followed by a
// "Figure 1-1. Caption" line, image files named 18333fig0101-tn.png and
// diagrams named 18333fig0101.dia.
const (
	DefaultFigurePattern      = `Insert\s18333fig\d+(?:-tn)?\.png\s*\n.*?(?P<chapter>\d{1,2})-(?P<ordinal>\d{1,2})\. (?P<caption>.*)`
	DefaultFigureFilePattern  = `18333fig0(?P<chapter>\d)0?(?P<ordinal>\d+)-tn`
	DefaultDiagramFilePattern = `fig0(?P<chapter>\d)0?(?P<ordinal>\d+)\.dia$`
)

// SupportedFormats lists the ebook formats passed to ebook-convert.
var SupportedFormats = []string{"epub", "mobi", "azw3", "fb2"}

// Substitution is a literal from/to rewrite applied to converter output.
type Substitution struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// DefaultMathFixes typeset the two hand-written math expressions of the book.
var DefaultMathFixes = []Substitution{
	{From: `\verb!p = (n(n-1)/2) * (1/2^160))!`, To: `$p = \frac{n(n-1)}{2} \times \frac{1}{2^{160}}$)`},
	{From: `2\^{}80`, To: `$2^{80}$`},
}

// DefaultTOCExclude lists heading substrings that never reach the outline.
var DefaultTOCExclude = []string{"Table of contents", "define", "pragma"}

// Settings holds the book configuration for one language.
type Settings struct {
	BookTitle      string   `yaml:"bookTitle"`
	BookShortTitle string   `yaml:"bookShortTitle"`
	BookAuthor     string   `yaml:"bookAuthor"`
	BookFileName   string   `yaml:"bookFileName"`
	BookSiteURL    string   `yaml:"bookSiteUrl"`
	BookCover      string   `yaml:"bookCover"`
	BookComments   string   `yaml:"bookComments"`
	BookLanguages  []string `yaml:"bookLanguages"`
	BookFormats    []string `yaml:"bookFormats"`
	SourceLanguage string   `yaml:"sourceLanguage"`

	// Typography
	Font     string `yaml:"font"`
	Bold     string `yaml:"bold"`
	Mono     string `yaml:"mono"`
	LangRule string `yaml:"langrule"`
	Indent   string `yaml:"indent"`
	Thanks   string `yaml:"thanks"`

	// Labels used by the template macros and cross-reference rewrites
	PreChap  string `yaml:"prechap"`
	PostChap string `yaml:"postchap"`
	PreSect  string `yaml:"presect"`
	PostSect string `yaml:"postsect"`
	Fig      string `yaml:"fig"`
	Tab      string `yaml:"tab"`
	Con      string `yaml:"con"`
	DQL      string `yaml:"dql"`
	DQR      string `yaml:"dqr"`

	FigurePattern      string         `yaml:"figurePattern"`
	FigureFilePattern  string         `yaml:"figureFilePattern"`
	DiagramFilePattern string         `yaml:"diagramFilePattern"`
	MathFixes          []Substitution `yaml:"mathFixes"`
	TexTemplate        string         `yaml:"texTemplate"`
	TOCExclude         []string       `yaml:"tocExclude"`
}

// Config is the loaded configuration file: the default section and the
// per-language overrides keyed by language tag.
type Config struct {
	Default   Settings
	Overrides map[string]Settings
}

// DefaultSettings returns English defaults for everything except the book
// metadata, which the config file must provide.
func DefaultSettings() Settings {
	return Settings{
		SourceLanguage:     "en",
		Font:               "DejaVu Serif",
		Bold:               "DejaVu Serif Bold",
		Mono:               "DejaVu Sans Mono",
		Indent:             "MM",
		PreChap:            "Chapter ",
		PreSect:            "Section ",
		Fig:                "Figure ",
		Tab:                "Table ",
		Con:                "Contents",
		DQL:                "``",
		DQR:                "''",
		FigurePattern:      DefaultFigurePattern,
		FigureFilePattern:  DefaultFigureFilePattern,
		DiagramFilePattern: DefaultDiagramFilePattern,
		MathFixes:          slices.Clone(DefaultMathFixes),
		TexTemplate:        "book",
		TOCExclude:         slices.Clone(DefaultTOCExclude),
	}
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Resolve returns the config path to load. An explicit path is returned as is
// (relative paths are taken from the book root); otherwise DefaultFileNames are
// tried in root.
func Resolve(root, path string) (string, error) {
	if path != "" {
		if filepath.IsAbs(path) {
			return path, nil
		}
		return filepath.Join(root, path), nil
	}

	tried := make([]string, 0, len(DefaultFileNames))
	for _, name := range DefaultFileNames {
		candidate := filepath.Join(root, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
		tried = append(tried, candidate)
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}

// Parse decodes and validates configuration data.
func Parse(data []byte) (*Config, error) {
	var raw map[string]Settings
	if err := yamlutil.UnmarshalStrict(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	def, ok := raw[DefaultSectionKey]
	if !ok {
		return nil, ErrMissingDefault
	}

	cfg := &Config{
		Default:   merge(DefaultSettings(), def),
		Overrides: make(map[string]Settings, len(raw)-1),
	}
	for key, over := range raw {
		if key == DefaultSectionKey {
			continue
		}
		if _, err := language.Parse(key); err != nil {
			return nil, fmt.Errorf("%w: section %q: %v", ErrInvalidLanguage, key, err)
		}
		cfg.Overrides[key] = over
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the default section and every language view of it.
func (c *Config) Validate() error {
	if err := c.Default.Validate(); err != nil {
		return err
	}
	for lang := range c.Overrides {
		s := c.ForLanguage(lang)
		if err := s.Validate(); err != nil {
			return fmt.Errorf("section %q: %w", lang, err)
		}
	}
	return nil
}

// ForLanguage returns the default settings with the overrides for lang applied.
func (c *Config) ForLanguage(lang string) Settings {
	over, ok := c.Overrides[lang]
	if !ok {
		return c.Default
	}
	return merge(c.Default, over)
}

// Languages returns the configured target languages.
func (c *Config) Languages() []string {
	return c.Default.BookLanguages
}

// Formats returns the configured ebook formats.
func (c *Config) Formats() []string {
	return c.Default.BookFormats
}

// ShortTitle returns bookShortTitle, falling back to bookTitle.
func (s *Settings) ShortTitle() string {
	if s.BookShortTitle != "" {
		return s.BookShortTitle
	}
	return s.BookTitle
}

// FigureRegexp compiles the figure idiom pattern.
func (s *Settings) FigureRegexp() (*regexp.Regexp, error) {
	return compileWithGroups("figurePattern", s.FigurePattern, GroupChapter, GroupOrdinal, GroupCaption)
}

// FigureFileRegexp compiles the legacy figure image name pattern.
func (s *Settings) FigureFileRegexp() (*regexp.Regexp, error) {
	return compileWithGroups("figureFilePattern", s.FigureFilePattern, GroupChapter, GroupOrdinal)
}

// DiagramFileRegexp compiles the diagram file name pattern.
func (s *Settings) DiagramFileRegexp() (*regexp.Regexp, error) {
	return compileWithGroups("diagramFilePattern", s.DiagramFilePattern, GroupChapter, GroupOrdinal)
}

// Validate checks required fields, lengths, language tags, formats and patterns.
func (s *Settings) Validate() error {
	required := []struct{ name, value string }{
		{"bookTitle", s.BookTitle},
		{"bookAuthor", s.BookAuthor},
		{"bookFileName", s.BookFileName},
		{"sourceLanguage", s.SourceLanguage},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%w: %s", ErrFieldRequired, r.name)
		}
	}
	if len(s.BookLanguages) == 0 {
		return fmt.Errorf("%w: bookLanguages", ErrFieldRequired)
	}

	lengths := []struct {
		name  string
		value string
		max   int
	}{
		{"bookTitle", s.BookTitle, MaxTitleLength},
		{"bookShortTitle", s.BookShortTitle, MaxTitleLength},
		{"bookAuthor", s.BookAuthor, MaxAuthorLength},
		{"bookFileName", s.BookFileName, MaxFileNameLength},
		{"bookSiteUrl", s.BookSiteURL, MaxURLLength},
		{"bookCover", s.BookCover, MaxURLLength},
		{"bookComments", s.BookComments, MaxCommentsLength},
		{"font", s.Font, MaxTokenLength},
		{"bold", s.Bold, MaxTokenLength},
		{"mono", s.Mono, MaxTokenLength},
		{"langrule", s.LangRule, MaxTokenLength},
		{"indent", s.Indent, MaxTokenLength},
		{"thanks", s.Thanks, MaxTokenLength},
		{"prechap", s.PreChap, MaxTokenLength},
		{"postchap", s.PostChap, MaxTokenLength},
		{"presect", s.PreSect, MaxTokenLength},
		{"postsect", s.PostSect, MaxTokenLength},
		{"fig", s.Fig, MaxTokenLength},
		{"tab", s.Tab, MaxTokenLength},
		{"con", s.Con, MaxTokenLength},
		{"dql", s.DQL, MaxTokenLength},
		{"dqr", s.DQR, MaxTokenLength},
		{"figurePattern", s.FigurePattern, MaxPatternLength},
		{"figureFilePattern", s.FigureFilePattern, MaxPatternLength},
		{"diagramFilePattern", s.DiagramFilePattern, MaxPatternLength},
		{"texTemplate", s.TexTemplate, MaxURLLength},
	}
	for _, l := range lengths {
		if err := validateFieldLength(l.name, l.value, l.max); err != nil {
			return err
		}
	}

	if strings.ContainsAny(s.BookFileName, "/\\\x00") {
		return fmt.Errorf("%w: %q", ErrInvalidFileName, s.BookFileName)
	}

	if _, err := language.Parse(s.SourceLanguage); err != nil {
		return fmt.Errorf("%w: sourceLanguage %q", ErrInvalidLanguage, s.SourceLanguage)
	}
	for _, lang := range s.BookLanguages {
		if _, err := language.Parse(lang); err != nil {
			return fmt.Errorf("%w: bookLanguages %q", ErrInvalidLanguage, lang)
		}
	}
	if dup := firstDuplicate(s.BookLanguages); dup != "" {
		return fmt.Errorf("%w: bookLanguages %q", ErrDuplicateEntries, dup)
	}

	for _, format := range s.BookFormats {
		if !slices.Contains(SupportedFormats, strings.ToLower(format)) {
			return fmt.Errorf("%w: %q (supported: %s)", ErrInvalidFormat, format, strings.Join(SupportedFormats, ", "))
		}
	}
	if dup := firstDuplicate(s.BookFormats); dup != "" {
		return fmt.Errorf("%w: bookFormats %q", ErrDuplicateEntries, dup)
	}

	if _, err := s.FigureRegexp(); err != nil {
		return err
	}
	if _, err := s.FigureFileRegexp(); err != nil {
		return err
	}
	if _, err := s.DiagramFileRegexp(); err != nil {
		return err
	}

	for i, fix := range s.MathFixes {
		if fix.From == "" {
			return fmt.Errorf("%w: mathFixes[%d].from", ErrFieldRequired, i)
		}
	}

	return nil
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// compileWithGroups compiles pattern and checks that it names every group.
func compileWithGroups(field, pattern string, groups ...string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, fmt.Errorf("%w: %s is empty", ErrInvalidPattern, field)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidPattern, field, err)
	}
	for _, g := range groups {
		if re.SubexpIndex(g) < 0 {
			return nil, fmt.Errorf("%w: %s has no (?P<%s>...) group", ErrInvalidPattern, field, g)
		}
	}
	return re, nil
}

func firstDuplicate(values []string) string {
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		key := strings.ToLower(v)
		if seen[key] {
			return v
		}
		seen[key] = true
	}
	return ""
}

// merge returns base with every non-empty field of over applied.
func merge(base, over Settings) Settings {
	out := base

	pick := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	pick(&out.BookTitle, over.BookTitle)
	pick(&out.BookShortTitle, over.BookShortTitle)
	pick(&out.BookAuthor, over.BookAuthor)
	pick(&out.BookFileName, over.BookFileName)
	pick(&out.BookSiteURL, over.BookSiteURL)
	pick(&out.BookCover, over.BookCover)
	pick(&out.BookComments, over.BookComments)
	pick(&out.SourceLanguage, over.SourceLanguage)
	pick(&out.Font, over.Font)
	pick(&out.Bold, over.Bold)
	pick(&out.Mono, over.Mono)
	pick(&out.LangRule, over.LangRule)
	pick(&out.Indent, over.Indent)
	pick(&out.Thanks, over.Thanks)
	pick(&out.PreChap, over.PreChap)
	pick(&out.PostChap, over.PostChap)
	pick(&out.PreSect, over.PreSect)
	pick(&out.PostSect, over.PostSect)
	pick(&out.Fig, over.Fig)
	pick(&out.Tab, over.Tab)
	pick(&out.Con, over.Con)
	pick(&out.DQL, over.DQL)
	pick(&out.DQR, over.DQR)
	pick(&out.FigurePattern, over.FigurePattern)
	pick(&out.FigureFilePattern, over.FigureFilePattern)
	pick(&out.DiagramFilePattern, over.DiagramFilePattern)
	pick(&out.TexTemplate, over.TexTemplate)

	if over.BookLanguages != nil {
		out.BookLanguages = slices.Clone(over.BookLanguages)
	}
	if over.BookFormats != nil {
		out.BookFormats = slices.Clone(over.BookFormats)
	}
	if over.MathFixes != nil {
		out.MathFixes = slices.Clone(over.MathFixes)
	}
	if over.TOCExclude != nil {
		out.TOCExclude = slices.Clone(over.TOCExclude)
	}
	return out
}
