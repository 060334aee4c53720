package toolchain

import (
	"context"
	"fmt"
	"strings"
)

// FakeRunner is an in-memory Runner for unit tests. It records every
// invocation and never spawns a process.
type FakeRunner struct {
	// Paths maps executable names to resolved paths for LookPath.
	Paths map[string]string
	// Outputs maps full command lines to canned standard output.
	Outputs map[string]string
	// Fail maps full command lines to forced errors.
	Fail map[string]error
	// OnRun, when set, is invoked for every Run call and may simulate the
	// command's side effects on disk.
	OnRun func(name string, args []string) error
	// Commands records every executed command line in order.
	Commands []string
}

// NewFakeRunner returns a FakeRunner that resolves every executable.
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		Paths:   map[string]string{},
		Outputs: map[string]string{},
		Fail:    map[string]error{},
	}
}

func (f *FakeRunner) LookPath(file string) (string, error) {
	if path, ok := f.Paths[file]; ok {
		return path, nil
	}

	return "", fmt.Errorf("%s: executable file not found in $PATH", file)
}

func (f *FakeRunner) Run(_ context.Context, name string, args ...string) error {
	line := commandLine(name, args)
	f.Commands = append(f.Commands, line)

	if err, ok := f.Fail[line]; ok {
		return err
	}

	if f.OnRun != nil {
		return f.OnRun(name, args)
	}

	return nil
}

func (f *FakeRunner) Output(_ context.Context, name string, args ...string) (string, error) {
	line := commandLine(name, args)
	f.Commands = append(f.Commands, line)

	if err, ok := f.Fail[line]; ok {
		return "", err
	}

	return f.Outputs[line], nil
}

// Ran reports whether a command line containing the fragment was executed.
func (f *FakeRunner) Ran(fragment string) bool {
	for _, line := range f.Commands {
		if strings.Contains(line, fragment) {
			return true
		}
	}

	return false
}

func commandLine(name string, args []string) string {
	return strings.Join(append([]string{name}, args...), " ")
}
