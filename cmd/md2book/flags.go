package main

import (
	"io"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-md2book/internal/logging"
)

// buildFlags holds the flags of the build command.
type buildFlags struct {
	config    string
	root      string
	output    string
	assetPath string
	logFile   string
	skipSite  bool
	skipPDF   bool
	skipEbook bool
	quiet     bool
	verbose   bool
}

// verbosity maps -q and -v to a console level. Quiet wins.
func (f *buildFlags) verbosity() logging.Verbosity {
	switch {
	case f.quiet:
		return logging.Quiet
	case f.verbose:
		return logging.Verbose
	default:
		return logging.Normal
	}
}

func newBuildFlagSet(f *buildFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)

	fs.StringVarP(&f.config, "config", "c", "", "config file (default: book.yml in the book root)")
	fs.StringVarP(&f.root, "root", "r", "", "book root directory (default: current directory)")
	fs.StringVarP(&f.output, "output", "o", "", "output directory, relative to the root (default: target)")
	fs.StringVar(&f.assetPath, "asset-path", "", "directory searched for templates/<name>.tex")

	fs.BoolVar(&f.skipSite, "skip-site", false, "do not write the Jekyll pages")
	fs.BoolVar(&f.skipPDF, "skip-pdf", false, "do not typeset PDFs")
	fs.BoolVar(&f.skipEbook, "skip-ebook", false, "do not convert ebooks")

	fs.StringVar(&f.logFile, "log-file", "", "also write a debug log to this file")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug output")

	fs.SortFlags = false
	return fs
}

// parseBuildFlags parses build flags and returns the positional arguments.
func parseBuildFlags(args []string, stderr io.Writer) (*buildFlags, []string, error) {
	f := &buildFlags{}
	fs := newBuildFlagSet(f)
	fs.SetOutput(stderr)
	fs.Usage = func() { printBuildUsage(stderr) }

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}
