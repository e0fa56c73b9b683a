package main

import (
	"errors"
	"io"
	"slices"
	"testing"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-md2book/internal/logging"
)

func TestParseBuildFlags(t *testing.T) {
	t.Parallel()

	f, positional, err := parseBuildFlags([]string{
		"book", "-c", "cfg.yml", "--output", "_site", "--asset-path", "tpl",
		"--skip-site", "--skip-ebook", "--log-file", "build.log", "-v",
	}, io.Discard)
	if err != nil {
		t.Fatalf("parseBuildFlags() error = %v", err)
	}

	if !slices.Equal(positional, []string{"book"}) {
		t.Errorf("positional = %v, want [book]", positional)
	}
	if f.config != "cfg.yml" || f.output != "_site" || f.assetPath != "tpl" || f.logFile != "build.log" {
		t.Errorf("string flags = %+v", f)
	}
	if !f.skipSite || f.skipPDF || !f.skipEbook {
		t.Errorf("skip flags = site %v, pdf %v, ebook %v", f.skipSite, f.skipPDF, f.skipEbook)
	}
	if f.verbosity() != logging.Verbose {
		t.Errorf("verbosity() = %v, want Verbose", f.verbosity())
	}
}

func TestParseBuildFlags_Errors(t *testing.T) {
	t.Parallel()

	if _, _, err := parseBuildFlags([]string{"--pages", "3"}, io.Discard); err == nil {
		t.Error("unknown flag accepted")
	}
	if _, _, err := parseBuildFlags([]string{"-h"}, io.Discard); !errors.Is(err, flag.ErrHelp) {
		t.Errorf("-h error = %v, want ErrHelp", err)
	}
}

func TestBuildFlags_Verbosity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		flags buildFlags
		want  logging.Verbosity
	}{
		{"default", buildFlags{}, logging.Normal},
		{"quiet", buildFlags{quiet: true}, logging.Quiet},
		{"verbose", buildFlags{verbose: true}, logging.Verbose},
		{"quiet wins", buildFlags{quiet: true, verbose: true}, logging.Quiet},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.flags.verbosity(); got != tt.want {
				t.Errorf("verbosity() = %v, want %v", got, tt.want)
			}
		})
	}
}
