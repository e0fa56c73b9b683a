package md2book

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/alnah/go-md2book/internal/assets"
	"github.com/alnah/go-md2book/internal/chapters"
	"github.com/alnah/go-md2book/internal/config"
	"github.com/alnah/go-md2book/internal/fileutil"
	"github.com/alnah/go-md2book/internal/latex"
	"github.com/alnah/go-md2book/internal/pipeline"
	"github.com/alnah/go-md2book/internal/toolchain"
	"github.com/alnah/go-md2book/internal/transform"
)

// Builder runs the site, PDF and ebook stages for one book.
// Create with NewBuilder and call Build once.
type Builder struct {
	root      string
	outputDir string
	cfg       *config.Config
	logger    *zap.Logger
	runner    toolchain.CommandRunner
	assetPath string
	lookPath  toolchain.LookPathFunc
	getenv    func(string) string
	skipSite  bool
	skipPDF   bool
	skipEbook bool

	pandoc *toolchain.Pandoc
	tex    *toolchain.TeXEngine
	html   pipeline.ChapterRenderer
}

// languagePlan holds everything prepared for one language before any file
// is written.
type languagePlan struct {
	lang     string
	settings config.Settings
	pre      transform.Pipeline
	post     transform.Pipeline
	ebook    transform.Pipeline
	renderer *latex.Renderer
}

// NewBuilder creates a Builder for the book rooted at root.
func NewBuilder(root string, cfg *config.Config, opts ...Option) (*Builder, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving book root: %w", err)
	}

	b := &Builder{
		root:      absRoot,
		outputDir: DefaultOutputDir,
		cfg:       cfg,
		logger:    zap.NewNop(),
		runner:    &toolchain.ExecRunner{},
		lookPath:  exec.LookPath,
		getenv:    os.Getenv,
	}
	for _, opt := range opts {
		opt(b)
	}

	if !filepath.IsAbs(b.outputDir) {
		b.outputDir = filepath.Join(b.root, b.outputDir)
	}
	b.outputDir = filepath.Clean(b.outputDir)
	if isWithin(b.root, b.outputDir) {
		return nil, fmt.Errorf("%w: %s", ErrUnsafeOutputDir, b.outputDir)
	}

	b.pandoc = toolchain.NewPandoc(b.runner)
	b.tex = toolchain.NewTeXEngine(b.runner, b.logger)
	b.html = pipeline.NewGoldmark(pipeline.DefaultCodeStyle)
	return b, nil
}

// OutputDir returns the absolute output directory.
func (b *Builder) OutputDir() string {
	return b.outputDir
}

// Build checks the external tools, then writes the site pages, one PDF per
// language and one ebook per language and format, and finally moves the
// source-language outputs into the output directory.
//
// A TeX error or a failed conversion for one language is recorded in the
// Report and the build goes on with the next one. The returned error is
// reserved for problems that stop the whole build: missing tools, invalid
// templates or patterns, unreadable chapters, output directory failures and
// cancellation.
func (b *Builder) Build(ctx context.Context) (*Report, error) {
	ebookBinary, err := b.probe()
	if err != nil {
		return nil, err
	}

	plans, err := b.plan()
	if err != nil {
		return nil, err
	}

	chs, err := chapters.Collect(b.root)
	if err != nil {
		return nil, err
	}

	if err := b.prepareOutputDir(); err != nil {
		return nil, err
	}

	rep := &Report{}

	if !b.skipSite {
		if err := b.buildSite(chs, rep); err != nil {
			return rep, err
		}
	}

	if !b.skipPDF {
		for _, p := range plans {
			if err := ctx.Err(); err != nil {
				return rep, err
			}
			if err := b.buildPDF(ctx, p, chs, rep); err != nil {
				if ctx.Err() != nil {
					return rep, ctx.Err()
				}
				b.logger.Error("PDF failed", zap.String("lang", p.lang), zap.Error(err))
				rep.fail(StagePDF, p.lang, "", err)
			}
		}
	}

	if b.ebooksEnabled() {
		for _, p := range plans {
			if err := ctx.Err(); err != nil {
				return rep, err
			}
			if err := b.buildEbooks(ctx, p, chs, ebookBinary, rep); err != nil {
				if ctx.Err() != nil {
					return rep, ctx.Err()
				}
				b.logger.Error("ebooks failed", zap.String("lang", p.lang), zap.Error(err))
				rep.fail(StageEbook, p.lang, "", err)
			}
		}
	}

	b.finalize(rep)
	return rep, nil
}

// RequiredTools lists the executables the enabled stages need.
func (b *Builder) RequiredTools() []string {
	var tools []string
	if !b.skipPDF {
		tools = append(tools, toolchain.ToolPandoc, toolchain.ToolXeLaTeX)
	}
	if b.ebooksEnabled() {
		tools = append(tools, toolchain.ToolEbookConvert)
	}
	return tools
}

func (b *Builder) ebooksEnabled() bool {
	return !b.skipEbook && len(b.cfg.Formats()) > 0
}

// probe checks the required tools and returns the ebook-convert binary.
func (b *Builder) probe() (string, error) {
	var missing []string
	if !b.skipPDF {
		missing = toolchain.Missing(b.lookPath, toolchain.ToolPandoc, toolchain.ToolXeLaTeX)
	}

	var ebookBinary string
	if b.ebooksEnabled() {
		ebookBinary = toolchain.ResolveEbookConvert(b.getenv, b.lookPath, fileutil.FileExists)
		if ebookBinary == "" {
			missing = append(missing, toolchain.ToolEbookConvert)
		}
	}

	if len(missing) > 0 {
		return "", &toolchain.MissingError{Names: missing}
	}
	return ebookBinary, nil
}

// plan compiles the rewrite rules and document template of every language.
func (b *Builder) plan() ([]languagePlan, error) {
	resolver, err := assets.NewAssetResolver(b.assetPath, b.root)
	if err != nil {
		return nil, err
	}

	langs := b.cfg.Languages()
	plans := make([]languagePlan, 0, len(langs))
	for _, lang := range langs {
		s := b.cfg.ForLanguage(lang)
		p := languagePlan{lang: lang, settings: s, post: transform.Post(s)}

		if p.pre, err = transform.Pre(s); err != nil {
			return nil, fmt.Errorf("language %s: %w", lang, err)
		}
		if p.ebook, err = transform.Ebook(s); err != nil {
			return nil, fmt.Errorf("language %s: %w", lang, err)
		}

		if !b.skipPDF {
			source, err := resolver.Resolve(s.TexTemplate)
			if err != nil {
				return nil, fmt.Errorf("language %s: template %q: %w", lang, s.TexTemplate, err)
			}
			if p.renderer, err = latex.NewRenderer(s.TexTemplate, source); err != nil {
				return nil, fmt.Errorf("language %s: %w", lang, err)
			}
		}
		plans = append(plans, p)
	}
	return plans, nil
}

// prepareOutputDir removes and recreates the output directory.
func (b *Builder) prepareOutputDir() error {
	if err := os.RemoveAll(b.outputDir); err != nil {
		return fmt.Errorf("%w: %v", ErrOutputDir, err)
	}
	if err := os.MkdirAll(b.outputDir, 0o750); err != nil {
		return fmt.Errorf("%w: %v", ErrOutputDir, err)
	}
	return nil
}

// translationExt names translated chapter files.
const translationExt = ".markdown"

// source is one Markdown input of a language.
type source struct {
	path string
	text string
}

// sources returns the Markdown inputs of lang in book order: the chapter
// files for the source language, <root>/<lang>/*/*.markdown otherwise.
// With nested set, translations are searched at any depth under <root>/<lang>.
func (b *Builder) sources(lang string, chs []chapters.Chapter, nested bool) ([]source, error) {
	if lang == b.cfg.Default.SourceLanguage {
		out := make([]source, len(chs))
		for i, c := range chs {
			out[i] = source{path: c.Path, text: c.Markdown}
		}
		return out, nil
	}

	var (
		paths []string
		err   error
	)
	if nested {
		paths, err = fileutil.FindFiles(filepath.Join(b.root, lang), translationExt)
	} else {
		paths, err = fileutil.Glob(filepath.Join(b.root, lang, "*", "*"+translationExt))
	}
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoSources, lang)
	}
	chapters.SortPaths(paths)

	out := make([]source, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path) // #nosec G304 -- path comes from a glob under the book root
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrSourceRead, err)
		}
		out = append(out, source{path: path, text: string(data)})
	}
	return out, nil
}

// outputName returns <root>/<bookFileName>.<lang>.<ext>.
func (b *Builder) outputName(lang, ext string) string {
	return filepath.Join(b.root, b.cfg.Default.BookFileName+"."+lang+"."+ext)
}

// isWithin reports whether path is dir or lies under it.
func isWithin(path, dir string) bool {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}
