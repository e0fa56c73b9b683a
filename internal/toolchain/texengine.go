package toolchain

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// ErrTypesetting is wrapped by every FatalError.
var ErrTypesetting = errors.New("typesetting failed")

// DefaultPasses is the number of TeX engine runs needed to settle
// cross-references and the table of contents.
const DefaultPasses = 3

// fatalPrefix starts every TeX error line.
const fatalPrefix = "! "

// FatalError reports the first TeX error line seen during a pass.
type FatalError struct {
	Pass int
	Line string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("%v on pass %d: %s", ErrTypesetting, e.Pass, e.Line)
}

func (e *FatalError) Unwrap() error { return ErrTypesetting }

// TeXEngine runs xelatex over a generated document.
type TeXEngine struct {
	Runner CommandRunner
	Binary string // defaults to "xelatex"
	Passes int    // defaults to DefaultPasses
	Logger *zap.Logger
}

// NewTeXEngine creates a TeXEngine with the default binary and pass count.
func NewTeXEngine(runner CommandRunner, logger *zap.Logger) *TeXEngine {
	return &TeXEngine{Runner: runner, Binary: ToolXeLaTeX, Passes: DefaultPasses, Logger: logger}
}

// Typeset runs the engine over texPath from workDir, writing its output next
// to texPath. The first line starting with "! " stops the current pass, kills
// the engine and skips the remaining passes; a *FatalError is returned.
// A non-zero exit without such a line is only logged.
func (e *TeXEngine) Typeset(ctx context.Context, workDir, texPath string) error {
	binary := e.Binary
	if binary == "" {
		binary = ToolXeLaTeX
	}
	passes := e.Passes
	if passes <= 0 {
		passes = DefaultPasses
	}
	logger := e.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cmd := Command{
		Name: binary,
		Args: []string{"-file-line-error", "-output-directory=" + filepath.Dir(texPath), texPath},
		Dir:  workDir,
	}

	for pass := 1; pass <= passes; pass++ {
		logger.Debug("TeX pass", zap.Int("pass", pass), zap.String("file", texPath))

		var fatal string
		err := e.Runner.Stream(ctx, cmd, func(line string) bool {
			if strings.HasPrefix(line, fatalPrefix) {
				fatal = line
				return false
			}
			return true
		})
		if fatal != "" {
			return &FatalError{Pass: pass, Line: fatal}
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return ctxErr
			}
			if errors.Is(err, ErrCommandStart) {
				return err
			}
			logger.Warn("TeX engine exited with an error", zap.Int("pass", pass), zap.Error(err))
		}
	}
	return nil
}
