package toolchain

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrMissingDependency is wrapped by MissingError.
var ErrMissingDependency = errors.New("missing dependency")

// MissingError lists the executables that could not be found.
type MissingError struct {
	Names []string
}

func (e *MissingError) Error() string {
	return fmt.Sprintf("%v: %s", ErrMissingDependency, strings.Join(e.Names, ", "))
}

func (e *MissingError) Unwrap() error { return ErrMissingDependency }

// Missing returns the names lookPath cannot resolve, in the given order.
func Missing(lookPath LookPathFunc, names ...string) []string {
	var missing []string
	for _, name := range names {
		if _, err := lookPath(name); err != nil {
			missing = append(missing, name)
		}
	}
	return missing
}

// Probe returns a *MissingError when any of names cannot be resolved.
func Probe(lookPath LookPathFunc, names ...string) error {
	if missing := Missing(lookPath, names...); len(missing) > 0 {
		return &MissingError{Names: missing}
	}
	return nil
}

// Version runs "<name> --version" and returns the first output line.
func Version(ctx context.Context, runner CommandRunner, name string) (string, error) {
	stdout, _, err := runner.Run(ctx, Command{Name: name, Args: []string{"--version"}})
	if err != nil {
		return "", err
	}
	first, _, _ := strings.Cut(strings.TrimSpace(stdout), "\n")
	return strings.TrimSpace(first), nil
}
