package main

// Notes:
// - runMain is driven end to end with stubRunner in place of the external
//   tools; builds run in t.TempDir() roots.
// - Real signal handling is covered in signal_test.go only.

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/alnah/go-md2book/internal/toolchain"
)

// stubRunner answers --version calls from versions and emulates pandoc and
// xelatex for build runs.
type stubRunner struct {
	mu       sync.Mutex
	versions map[string]string
	fatal    bool // xelatex reports a TeX error
	calls    []toolchain.Command
}

func (s *stubRunner) Run(_ context.Context, cmd toolchain.Command) (string, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, cmd)

	name := filepath.Base(cmd.Name)
	if len(cmd.Args) == 1 && cmd.Args[0] == "--version" {
		v, ok := s.versions[name]
		if !ok {
			return "", "unknown option", toolchain.ErrCommandFailed
		}
		return v + "\nCopyright notice\n", "", nil
	}
	if name == toolchain.ToolPandoc {
		return "\\section{Intro}\n", "", nil
	}
	return "", "", nil
}

func (s *stubRunner) Stream(_ context.Context, cmd toolchain.Command, onLine func(string) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, cmd)

	if s.fatal {
		onLine("! Emergency stop.")
		return nil
	}
	for _, a := range cmd.Args {
		if dir, ok := strings.CutPrefix(a, "-output-directory="); ok {
			return os.WriteFile(filepath.Join(dir, "main.pdf"), []byte("%PDF-1.5"), 0o644)
		}
	}
	return nil
}

func lookIn(found ...string) toolchain.LookPathFunc {
	return func(name string) (string, error) {
		for _, f := range found {
			if f == name {
				return "/usr/bin/" + name, nil
			}
		}
		return "", exec.ErrNotFound
	}
}

func testDeps(runner toolchain.CommandRunner, lookPath toolchain.LookPathFunc, env map[string]string) (*Dependencies, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	return &Dependencies{
		Stdout:   &stdout,
		Stderr:   &stderr,
		Getenv:   func(key string) string { return env[key] },
		Environ:  func() []string { return nil },
		LookPath: lookPath,
		Runner:   runner,
	}, &stdout, &stderr
}

const bookYAML = `default:
  bookTitle: Pro Git
  bookAuthor: Scott Chacon
  bookFileName: progit
  bookLanguages: [en]
`

func newBook(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"book.yml":    bookYAML,
		"01-intro.md": "# Intro\n\nText.\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(root, name), []byte(content), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", name, err)
		}
	}
	return root
}

// ---------------------------------------------------------------------------
// TestRunMain_Commands - help, version and argument errors
// ---------------------------------------------------------------------------

func TestRunMain_Commands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"version", []string{"version"}, ExitSuccess, "md2book dev", ""},
		{"help", []string{"help"}, ExitSuccess, "Commands:", ""},
		{"help build", []string{"help", "build"}, ExitSuccess, "--skip-pdf", ""},
		{"help doctor", []string{"help", "doctor"}, ExitSuccess, "--json", ""},
		{"help unknown", []string{"help", "publish"}, ExitUsage, "", "Unknown command: publish"},
		{"build -h", []string{"build", "-h"}, ExitSuccess, "", "Usage: md2book build"},
		{"unknown flag", []string{"--pages=3"}, ExitUsage, "", "error: invalid usage"},
		{"too many args", []string{"a", "b"}, ExitUsage, "", "too many arguments"},
		{"root twice", []string{"a", "--root", "b"}, ExitUsage, "", "book root given twice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			deps, stdout, stderr := testDeps(&stubRunner{}, lookIn(), nil)
			code := runMain(append([]string{"md2book"}, tt.args...), deps)

			if code != tt.wantCode {
				t.Errorf("runMain() = %d, want %d (stderr: %s)", code, tt.wantCode, stderr)
			}
			if !strings.Contains(stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want %q", stdout, tt.wantStdout)
			}
			if !strings.Contains(stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want %q", stderr, tt.wantStderr)
			}
		})
	}
}

func TestIsCommand(t *testing.T) {
	t.Parallel()

	for _, arg := range []string{"build", "doctor", "version", "help"} {
		if !isCommand(arg) {
			t.Errorf("isCommand(%q) = false", arg)
		}
	}
	for _, arg := range []string{"", "book", "--help", "Build"} {
		if isCommand(arg) {
			t.Errorf("isCommand(%q) = true", arg)
		}
	}
}

// ---------------------------------------------------------------------------
// TestRunMain_Build - Build command end to end
// ---------------------------------------------------------------------------

func TestRunMain_BuildSiteOnly(t *testing.T) {
	t.Parallel()

	root := newBook(t)
	runner := &stubRunner{}
	deps, _, stderr := testDeps(runner, lookIn(), nil)

	code := runMain([]string{"md2book", "build", root, "--skip-pdf", "--skip-ebook", "-q"}, deps)
	if code != ExitSuccess {
		t.Fatalf("runMain() = %d, stderr: %s", code, stderr)
	}
	if _, err := os.Stat(filepath.Join(root, "target", "index.md")); err != nil {
		t.Errorf("index.md not written: %v", err)
	}
	if len(runner.calls) != 0 {
		t.Errorf("external tools called: %v", runner.calls)
	}
}

func TestRunMain_BuildPDF(t *testing.T) {
	t.Parallel()

	root := newBook(t)
	deps, _, stderr := testDeps(&stubRunner{}, lookIn("pandoc", "xelatex"), map[string]string{EnvOutputDir: "out"})

	code := runMain([]string{"md2book", "--root", root}, deps)
	if code != ExitSuccess {
		t.Fatalf("runMain() = %d, stderr: %s", code, stderr)
	}
	if _, err := os.Stat(filepath.Join(root, "out", "progit.pdf")); err != nil {
		t.Errorf("PDF not moved to the output dir: %v", err)
	}
}

func TestRunMain_BuildErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		setup      func(t *testing.T) string
		runner     *stubRunner
		lookPath   toolchain.LookPathFunc
		wantCode   int
		wantStderr []string
	}{
		{
			name:       "missing config",
			setup:      func(t *testing.T) string { return t.TempDir() },
			runner:     &stubRunner{},
			lookPath:   lookIn("pandoc", "xelatex"),
			wantCode:   ExitUsage,
			wantStderr: []string{"config file not found", "hint: use --config"},
		},
		{
			name:       "missing tools",
			setup:      newBook,
			runner:     &stubRunner{},
			lookPath:   lookIn("pandoc"),
			wantCode:   ExitDependency,
			wantStderr: []string{"missing dependency: xelatex", "hint:"},
		},
		{
			name:       "TeX error",
			setup:      newBook,
			runner:     &stubRunner{fatal: true},
			lookPath:   lookIn("pandoc", "xelatex"),
			wantCode:   ExitTypeset,
			wantStderr: []string{"Emergency stop", "main.log"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			root := tt.setup(t)
			deps, _, stderr := testDeps(tt.runner, tt.lookPath, nil)

			code := runMain([]string{"md2book", root, "-q"}, deps)
			if code != tt.wantCode {
				t.Errorf("runMain() = %d, want %d (stderr: %s)", code, tt.wantCode, stderr)
			}
			for _, want := range tt.wantStderr {
				if !strings.Contains(stderr.String(), want) {
					t.Errorf("stderr = %q, want %q", stderr, want)
				}
			}
		})
	}
}
