package main

import (
	"context"
	"errors"
	"fmt"
	"slices"

	flag "github.com/spf13/pflag"
)

// Command names.
const (
	cmdBuild   = "build"
	cmdDoctor  = "doctor"
	cmdVersion = "version"
	cmdHelp    = "help"
)

var commands = []string{cmdBuild, cmdDoctor, cmdVersion, cmdHelp}

// Sentinel errors for CLI operations.
var (
	ErrUsage   = errors.New("invalid usage")
	ErrLogFile = errors.New("failed to open log file")
)

func isCommand(arg string) bool {
	return slices.Contains(commands, arg)
}

// runMain dispatches args (program name first) and returns the exit code.
// Without a command name, build runs.
func runMain(args []string, deps *Dependencies) int {
	var rest []string
	if len(args) > 1 {
		rest = args[1:]
	}

	cmd := cmdBuild
	if len(rest) > 0 && isCommand(rest[0]) {
		cmd, rest = rest[0], rest[1:]
	}

	switch cmd {
	case cmdHelp:
		return runHelp(rest, deps)
	case cmdVersion:
		fmt.Fprintf(deps.Stdout, "md2book %s\n", Version)
		return ExitSuccess
	}

	ctx, stop := notifyContext(context.Background())
	defer stop()

	if cmd == cmdDoctor {
		return runDoctorCmd(ctx, rest, deps)
	}

	if err := runBuildCmd(ctx, rest, deps); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return exitCodeFor(err)
	}
	return ExitSuccess
}

// withHint appends hint to the error message, keeping err in the chain.
func withHint(err error, hint string) error {
	if err == nil || hint == "" {
		return err
	}
	return fmt.Errorf("%w%s", err, hint)
}
