package toolchain

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/predator-app/predator-builder/internal/config"
	"github.com/predator-app/predator-builder/internal/logger"
)

var (
	// ErrInterpreterNotFound indicates the configured interpreter is not on PATH.
	// The pipeline must abort before attempting any installation.
	ErrInterpreterNotFound = errors.New("interpreter not found on PATH")

	// errNoDependencySource indicates there is neither a requirements file
	// nor a fixed dependency list to install from.
	errNoDependencySource = errors.New("no requirements file and no dependency list configured")
)

// Toolchain drives the interpreter and its package manager.
type Toolchain struct {
	cfg    *config.Config
	runner Runner
}

// New creates a Toolchain for the given configuration. A nil runner
// defaults to the real process runner.
func New(cfg *config.Config, runner Runner) *Toolchain {
	if runner == nil {
		runner = NewRunner()
	}

	return &Toolchain{cfg: cfg, runner: runner}
}

// Runner exposes the underlying runner for stages that share it.
//
//nolint:ireturn,nolintlint // Returning the interface keeps call sites swappable in tests.
func (t *Toolchain) Runner() Runner {
	return t.runner
}

// LocateInterpreter resolves the configured interpreter on PATH.
func (t *Toolchain) LocateInterpreter(ctx context.Context) (string, error) {
	path, err := t.runner.LookPath(t.cfg.Interpreter)
	if err != nil {
		return "", fmt.Errorf("%q: %w", t.cfg.Interpreter, ErrInterpreterNotFound)
	}

	logger.InfoKV(ctx, "Interpreter located", "interpreter", t.cfg.Interpreter, "path", path)

	return path, nil
}

// InstallDependencies installs the application's third-party packages,
// preferring the requirements file and falling back to the fixed list.
func (t *Toolchain) InstallDependencies(ctx context.Context) error {
	args := []string{"-m", "pip", "install"}

	if _, err := os.Stat(t.cfg.RequirementsFile); err == nil {
		logger.InfoKV(ctx, "Installing dependencies", "requirements", t.cfg.RequirementsFile)
		args = append(args, "-r", t.cfg.RequirementsFile)
	} else if len(t.cfg.Dependencies) > 0 {
		logger.InfoKV(ctx, "Installing dependencies", "packages", t.cfg.Dependencies)
		args = append(args, t.cfg.Dependencies...)
	} else {
		return errNoDependencySource
	}

	if err := t.run(ctx, args...); err != nil {
		return fmt.Errorf("install dependencies: %w", err)
	}

	return nil
}

// InstallBundler installs or upgrades the bundler tool itself.
func (t *Toolchain) InstallBundler(ctx context.Context) error {
	logger.InfoKV(ctx, "Installing bundler", "package", t.cfg.BundlerPackage)

	if err := t.run(ctx, "-m", "pip", "install", "--upgrade", t.cfg.BundlerPackage); err != nil {
		return fmt.Errorf("install bundler: %w", err)
	}

	return nil
}

// Bundle invokes the bundler module with the prepared argument vector.
func (t *Toolchain) Bundle(ctx context.Context, bundlerArgs []string) error {
	args := append([]string{"-m", "PyInstaller"}, bundlerArgs...)

	if err := t.run(ctx, args...); err != nil {
		return fmt.Errorf("bundle: %w", err)
	}

	return nil
}

// PackageManagerVersion reports the pip version, used by environment checks.
func (t *Toolchain) PackageManagerVersion(ctx context.Context) (string, error) {
	output, err := t.runner.Output(ctx, t.cfg.Interpreter, "-m", "pip", "--version")
	if err != nil {
		return "", fmt.Errorf("package manager unavailable: %w", err)
	}

	return output, nil
}

// run executes the interpreter with the given arguments under the configured timeout.
func (t *Toolchain) run(ctx context.Context, args ...string) error {
	ctx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()

	return t.runner.Run(ctx, t.cfg.Interpreter, args...)
}
