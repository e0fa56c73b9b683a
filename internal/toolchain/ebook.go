package toolchain

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

// EbookConvertEnv names the environment variable overriding the
// ebook-convert location.
const EbookConvertEnv = "ebook_convert_path"

// MacOSEbookConvert is where the calibre app bundle keeps its converter.
const MacOSEbookConvert = "/Applications/calibre.app/Contents/MacOS/ebook-convert"

// LookPathFunc resolves an executable name, as exec.LookPath does.
type LookPathFunc func(file string) (string, error)

// ResolveEbookConvert returns the ebook-convert binary to use: the
// environment override, then the executable on PATH, then the macOS bundle.
// It returns "" when none is available.
func ResolveEbookConvert(getenv func(string) string, lookPath LookPathFunc, exists func(string) bool) string {
	if getenv != nil {
		if p := getenv(EbookConvertEnv); p != "" {
			return p
		}
	}
	if lookPath != nil {
		if p, err := lookPath(ToolEbookConvert); err == nil {
			return p
		}
	}
	if exists != nil && exists(MacOSEbookConvert) {
		return MacOSEbookConvert
	}
	return ""
}

// EbookMetadata is passed to ebook-convert. Empty fields are omitted.
type EbookMetadata struct {
	Cover    string
	Authors  string
	Comments string
	Language string
}

// EbookConverter wraps calibre's ebook-convert.
type EbookConverter struct {
	Runner CommandRunner
	Binary string
}

// NewEbookConverter creates a converter running binary.
func NewEbookConverter(runner CommandRunner, binary string) *EbookConverter {
	return &EbookConverter{Runner: runner, Binary: binary}
}

// Args builds the ebook-convert argument list. The output format follows
// the extension of output.
func (c *EbookConverter) Args(input, output string, meta EbookMetadata) []string {
	args := []string{input, output}
	add := func(flag, value string) {
		if value != "" {
			args = append(args, flag, value)
		}
	}
	add("--cover", meta.Cover)
	add("--authors", meta.Authors)
	add("--comments", meta.Comments)
	args = append(args,
		"--level1-toc", "//h:h1",
		"--level2-toc", "//h:h2",
		"--level3-toc", "//h:h3",
	)
	add("--language", meta.Language)
	return args
}

// Convert turns the HTML book input into output.
func (c *EbookConverter) Convert(ctx context.Context, input, output string, meta EbookMetadata) error {
	binary := c.Binary
	if binary == "" {
		binary = ToolEbookConvert
	}
	_, stderr, err := c.Runner.Run(ctx, Command{
		Name: binary,
		Args: c.Args(input, output, meta),
		Dir:  filepath.Dir(input),
	})
	if err != nil {
		if msg := strings.TrimSpace(stderr); msg != "" {
			return fmt.Errorf("converting %s: %w: %s", filepath.Base(output), err, lastLine(msg))
		}
		return fmt.Errorf("converting %s: %w", filepath.Base(output), err)
	}
	return nil
}

func lastLine(s string) string {
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
