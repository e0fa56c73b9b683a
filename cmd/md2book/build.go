package main

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	md2book "github.com/alnah/go-md2book"
	"github.com/alnah/go-md2book/internal/assets"
	"github.com/alnah/go-md2book/internal/config"
	"github.com/alnah/go-md2book/internal/hints"
	"github.com/alnah/go-md2book/internal/logging"
	"github.com/alnah/go-md2book/internal/toolchain"
)

// runBuildCmd parses the build arguments and runs the build.
func runBuildCmd(ctx context.Context, args []string, deps *Dependencies) error {
	f, positional, err := parseBuildFlags(args, deps.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}

	switch {
	case len(positional) > 1:
		return fmt.Errorf("%w: too many arguments: %s", ErrUsage, strings.Join(positional, " "))
	case len(positional) == 1:
		if f.root != "" && f.root != positional[0] {
			return fmt.Errorf("%w: book root given twice (%s and --root %s)", ErrUsage, positional[0], f.root)
		}
		f.root = positional[0]
	}

	applyEnv(f, deps.Getenv)
	if deps.Environ != nil {
		warnUnknownEnvVars(deps.Stderr, deps.Environ())
	}
	if f.root == "" {
		f.root = "."
	}
	return runBuild(ctx, f, deps)
}

// runBuild loads the configuration and builds the book.
func runBuild(ctx context.Context, f *buildFlags, deps *Dependencies) (err error) {
	logger, closeLog, err := logging.New(logging.Options{
		Verbosity: f.verbosity(),
		Stdout:    deps.Stdout,
		Stderr:    deps.Stderr,
		LogFile:   f.logFile,
	})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrLogFile, err)
	}
	defer func() {
		err = multierr.Append(err, closeLog())
	}()

	// Error ignored: Set only fails on an invalid GOMAXPROCS, where the
	// runtime default applies.
	undo, _ := maxprocs.Set(maxprocs.Logger(logger.Sugar().Debugf))
	defer undo()

	cfg, err := loadConfig(f.root, f.config)
	if err != nil {
		return err
	}

	opts := []md2book.Option{
		md2book.WithLogger(logger),
		md2book.WithRunner(deps.Runner),
		md2book.WithLookPath(deps.LookPath),
		md2book.WithGetenv(deps.Getenv),
		md2book.WithAssetPath(f.assetPath),
	}
	if f.output != "" {
		opts = append(opts, md2book.WithOutputDir(f.output))
	}
	if f.skipSite {
		opts = append(opts, md2book.WithSkipSite())
	}
	if f.skipPDF {
		opts = append(opts, md2book.WithSkipPDF())
	}
	if f.skipEbook {
		opts = append(opts, md2book.WithSkipEbook())
	}

	b, err := md2book.NewBuilder(f.root, cfg, opts...)
	if err != nil {
		return err
	}

	start := time.Now()
	rep, err := b.Build(ctx)
	if err != nil {
		return withHint(err, buildHint(err))
	}

	logger.Info("build finished",
		zap.Int("pages", len(rep.Pages)),
		zap.Int("pdfs", len(rep.PDFs)),
		zap.Int("ebooks", len(rep.Ebooks)),
		zap.Int("failures", len(rep.Failures)),
		zap.Duration("elapsed", time.Since(start).Round(time.Millisecond)))
	for _, path := range rep.Final {
		logger.Debug("output", zap.String("file", path))
	}

	if rep.OK() {
		return nil
	}
	var hint string
	if aborted := rep.Aborted(); len(aborted) > 0 {
		hint = hints.ForTypesetting(b.DocumentPath(aborted[0]))
	}
	return withHint(rep.Err(), hint)
}

// loadConfig resolves and loads the book configuration.
func loadConfig(root, path string) (*config.Config, error) {
	resolved, err := config.Resolve(root, path)
	if err != nil {
		return nil, withHint(err, hints.ForConfigNotFound(defaultConfigPaths(root)))
	}
	cfg, err := config.Load(resolved)
	if err != nil {
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, withHint(err, hints.ForConfigNotFound(nil))
		}
		return nil, fmt.Errorf("loading %s: %w", resolved, err)
	}
	return cfg, nil
}

func defaultConfigPaths(root string) []string {
	paths := make([]string, len(config.DefaultFileNames))
	for i, name := range config.DefaultFileNames {
		paths[i] = filepath.Join(root, name)
	}
	return paths
}

// buildHint returns the hint for an error that stopped the build.
func buildHint(err error) string {
	var missing *toolchain.MissingError
	switch {
	case errors.As(err, &missing):
		return hints.ForMissingTools(missing.Names)
	case errors.Is(err, assets.ErrTemplateNotFound):
		return hints.ForTemplateNotFound(assets.TemplateNames())
	case errors.Is(err, md2book.ErrOutputDir):
		return hints.ForOutputDirectory()
	}
	return ""
}
