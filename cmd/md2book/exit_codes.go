package main

import (
	"errors"
	"os"

	flag "github.com/spf13/pflag"

	md2book "github.com/alnah/go-md2book"
	"github.com/alnah/go-md2book/internal/assets"
	"github.com/alnah/go-md2book/internal/chapters"
	"github.com/alnah/go-md2book/internal/config"
	"github.com/alnah/go-md2book/internal/figures"
	"github.com/alnah/go-md2book/internal/latex"
	"github.com/alnah/go-md2book/internal/site"
	"github.com/alnah/go-md2book/internal/toolchain"
)

// Exit codes for md2book CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess    = 0 // Build completed
	ExitGeneral    = 1 // General/unexpected error
	ExitUsage      = 2 // Invalid flags, config, or template
	ExitIO         = 3 // Missing sources, unwritable output
	ExitDependency = 4 // External tool not installed or not runnable
	ExitTypeset    = 5 // TeX engine stopped on an error
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
// A typesetting abort wins over any other failure of the same build.
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	if errors.Is(err, toolchain.ErrTypesetting) {
		return ExitTypeset
	}

	if errors.Is(err, toolchain.ErrMissingDependency) ||
		errors.Is(err, toolchain.ErrCommandStart) {
		return ExitDependency
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUsage) ||
		errors.Is(err, flag.ErrHelp) ||
		errors.Is(err, config.ErrConfigNotFound) ||
		errors.Is(err, config.ErrConfigParse) ||
		errors.Is(err, config.ErrMissingDefault) ||
		errors.Is(err, config.ErrFieldTooLong) ||
		errors.Is(err, config.ErrFieldRequired) ||
		errors.Is(err, config.ErrInvalidLanguage) ||
		errors.Is(err, config.ErrInvalidFormat) ||
		errors.Is(err, config.ErrInvalidPattern) ||
		errors.Is(err, config.ErrInvalidFileName) ||
		errors.Is(err, config.ErrDuplicateEntries) ||
		errors.Is(err, assets.ErrTemplateNotFound) ||
		errors.Is(err, assets.ErrInvalidAssetName) ||
		errors.Is(err, assets.ErrInvalidBasePath) ||
		errors.Is(err, assets.ErrPathTraversal) ||
		errors.Is(err, latex.ErrTemplateParse) ||
		errors.Is(err, latex.ErrTemplateRender) ||
		errors.Is(err, md2book.ErrNilConfig) ||
		errors.Is(err, md2book.ErrUnsafeOutputDir) {
		return ExitUsage
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrLogFile) ||
		errors.Is(err, chapters.ErrNoChapters) ||
		errors.Is(err, chapters.ErrChapterRead) ||
		errors.Is(err, chapters.ErrNotDirectory) ||
		errors.Is(err, site.ErrPageWrite) ||
		errors.Is(err, figures.ErrStage) ||
		errors.Is(err, assets.ErrAssetRead) ||
		errors.Is(err, md2book.ErrOutputDir) ||
		errors.Is(err, md2book.ErrNoSources) ||
		errors.Is(err, md2book.ErrSourceRead) ||
		errors.Is(err, md2book.ErrWriteDocument) ||
		errors.Is(err, md2book.ErrMoveOutput) {
		return ExitIO
	}

	return ExitGeneral
}
