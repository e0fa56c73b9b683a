// Package toolchain runs the external programs the book build depends on:
// pandoc, the TeX engine, calibre's ebook-convert and the figure tools.
package toolchain

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/alnah/go-md2book/internal/process"
)

// Sentinel errors for subprocess execution.
var (
	ErrCommandStart  = errors.New("failed to start command")
	ErrCommandFailed = errors.New("command failed")
	ErrEmptyContent  = errors.New("input content cannot be empty")
)

// maxLineSize bounds one line of streamed output; TeX logs can carry long
// overfull-box lines.
const maxLineSize = 1 << 20

// waitDelay bounds how long Wait blocks on output pipes after cancellation.
const waitDelay = 5 * time.Second

// Command describes one subprocess invocation.
type Command struct {
	Name  string
	Args  []string
	Dir   string // working directory; empty means the current one
	Stdin string // piped to the process; empty means the null device
}

func (c Command) String() string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

// CommandRunner abstracts command execution to enable testing without real subprocesses.
type CommandRunner interface {
	// Run executes cmd and returns its standard output and standard error.
	Run(ctx context.Context, cmd Command) (stdout, stderr string, err error)

	// Stream executes cmd and calls onLine for each line of its combined
	// output. When onLine returns false, reading stops and the process
	// group is killed; Stream then returns nil.
	Stream(ctx context.Context, cmd Command, onLine func(line string) bool) error
}

// ExecRunner implements CommandRunner using os/exec. Every command runs in
// its own process group, killed as a whole on cancellation.
type ExecRunner struct{}

func (r *ExecRunner) command(ctx context.Context, cmd Command) *exec.Cmd {
	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...) // #nosec G204 -- tool names are fixed or configured by the user
	c.Dir = cmd.Dir
	if cmd.Stdin != "" {
		c.Stdin = strings.NewReader(cmd.Stdin)
	}
	process.SetProcessGroup(c)
	c.Cancel = func() error {
		process.KillProcessGroup(c.Process.Pid)
		return c.Process.Kill()
	}
	c.WaitDelay = waitDelay
	return c
}

func (r *ExecRunner) Run(ctx context.Context, cmd Command) (string, string, error) {
	c := r.command(ctx, cmd)

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	if err := c.Start(); err != nil {
		return "", "", fmt.Errorf("%w: %s: %v", ErrCommandStart, cmd.Name, err)
	}
	if err := c.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return stdout.String(), stderr.String(), ctxErr
		}
		return stdout.String(), stderr.String(), fmt.Errorf("%w: %s: %v", ErrCommandFailed, cmd.Name, err)
	}
	return stdout.String(), stderr.String(), nil
}

func (r *ExecRunner) Stream(ctx context.Context, cmd Command, onLine func(line string) bool) error {
	c := r.command(ctx, cmd)

	pr, pw, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("creating output pipe: %w", err)
	}
	defer func() { _ = pr.Close() }()
	c.Stdout = pw
	c.Stderr = pw

	if err := c.Start(); err != nil {
		_ = pw.Close()
		return fmt.Errorf("%w: %s: %v", ErrCommandStart, cmd.Name, err)
	}
	// Only the child holds the write end now, so EOF means it exited.
	_ = pw.Close()

	scanner := bufio.NewScanner(pr)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	stopped := false
	for scanner.Scan() {
		if !onLine(scanner.Text()) {
			stopped = true
			break
		}
	}
	scanErr := scanner.Err()

	if stopped || scanErr != nil {
		process.KillProcessGroup(c.Process.Pid)
		_ = c.Process.Kill()
		_ = c.Wait()
		if scanErr != nil {
			return fmt.Errorf("reading %s output: %w", cmd.Name, scanErr)
		}
		return nil
	}

	if err := c.Wait(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %s: %v", ErrCommandFailed, cmd.Name, err)
	}
	return nil
}

// Compile-time interface check.
var _ CommandRunner = (*ExecRunner)(nil)
