package main

import (
	"io"
	"os"
	"os/exec"

	"github.com/alnah/go-md2book/internal/toolchain"
)

// Dependencies holds injectable dependencies for testability.
type Dependencies struct {
	Stdout   io.Writer
	Stderr   io.Writer
	Getenv   func(string) string
	Environ  func() []string
	LookPath toolchain.LookPathFunc
	Runner   toolchain.CommandRunner
}

// DefaultDeps returns production dependencies.
func DefaultDeps() *Dependencies {
	return &Dependencies{
		Stdout:   os.Stdout,
		Stderr:   os.Stderr,
		Getenv:   os.Getenv,
		Environ:  os.Environ,
		LookPath: exec.LookPath,
		Runner:   &toolchain.ExecRunner{},
	}
}
