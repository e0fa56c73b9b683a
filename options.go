package md2book

import (
	"go.uber.org/zap"

	"github.com/alnah/go-md2book/internal/toolchain"
)

// DefaultOutputDir is where pages and final outputs go, relative to the
// book root.
const DefaultOutputDir = "target"

// Option configures a Builder.
type Option func(*Builder)

// WithOutputDir sets the output directory. Relative paths are taken from
// the book root.
func WithOutputDir(dir string) Option {
	return func(b *Builder) {
		b.outputDir = dir
	}
}

// WithLogger sets the logger used for progress and warnings.
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithRunner sets the runner for every external tool.
func WithRunner(r toolchain.CommandRunner) Option {
	return func(b *Builder) {
		b.runner = r
	}
}

// WithAssetPath sets a directory searched for templates/<name>.tex before
// the embedded templates.
func WithAssetPath(path string) Option {
	return func(b *Builder) {
		b.assetPath = path
	}
}

// WithLookPath replaces exec.LookPath for dependency probing.
func WithLookPath(fn toolchain.LookPathFunc) Option {
	return func(b *Builder) {
		b.lookPath = fn
	}
}

// WithGetenv replaces os.Getenv for the ebook_convert_path lookup.
func WithGetenv(fn func(string) string) Option {
	return func(b *Builder) {
		b.getenv = fn
	}
}

// WithSkipSite disables the Jekyll pages.
func WithSkipSite() Option {
	return func(b *Builder) { b.skipSite = true }
}

// WithSkipPDF disables typesetting.
func WithSkipPDF() Option {
	return func(b *Builder) { b.skipPDF = true }
}

// WithSkipEbook disables ebook conversion.
func WithSkipEbook() Option {
	return func(b *Builder) { b.skipEbook = true }
}
