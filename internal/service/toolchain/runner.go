package toolchain

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner abstracts external command execution so services can be tested
// without a live interpreter on the machine.
type Runner interface {
	// LookPath resolves an executable on PATH.
	LookPath(file string) (string, error)
	// Run executes a command and returns an error carrying its combined
	// output on non-zero exit.
	Run(ctx context.Context, name string, args ...string) error
	// Output executes a command and returns its standard output.
	Output(ctx context.Context, name string, args ...string) (string, error)
}

// execRunner is the production Runner backed by os/exec.
type execRunner struct{}

// NewRunner returns a Runner that executes real processes.
//
//nolint:ireturn,nolintlint // Returning the interface keeps call sites swappable in tests.
func NewRunner() Runner {
	return execRunner{}
}

func (execRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (execRunner) Run(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s %s: %w: %s",
			name, strings.Join(args, " "), err, strings.TrimSpace(string(output)))
	}

	return nil
}

func (execRunner) Output(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)

	output, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}

	return string(output), nil
}
