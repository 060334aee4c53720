package doctor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/predator-app/predator-builder/internal/config"
	"github.com/predator-app/predator-builder/internal/service/toolchain"
)

// TestRunEmptyEnvironment reports every missing prerequisite at once.
func TestRunEmptyEnvironment(t *testing.T) {
	dir := t.TempDir()
	prevDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))

	t.Cleanup(func() {
		_ = os.Chdir(prevDir)
	})

	cfg := config.Default()
	cfg.Dependencies = nil
	require.NoError(t, config.Validate(cfg))

	runner := toolchain.NewFakeRunner()

	err = Run(context.Background(), cfg, runner)
	require.Error(t, err)

	// Interpreter, entry script, two data dirs, requirements: all reported together.
	msg := err.Error()
	require.Contains(t, msg, "interpreter not found")
	require.Contains(t, msg, "entry script app.py not found")
	require.Contains(t, msg, "src/config")
	require.Contains(t, msg, "requirements file")
}

// TestRunHealthyEnvironment passes when all prerequisites are present.
func TestRunHealthyEnvironment(t *testing.T) {
	dir := t.TempDir()
	prevDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))

	t.Cleanup(func() {
		_ = os.Chdir(prevDir)
	})

	cfg := config.Default()
	require.NoError(t, config.Validate(cfg))

	require.NoError(t, os.MkdirAll(filepath.Join("src", "config"), 0o755))
	require.NoError(t, os.MkdirAll("data", 0o755))
	require.NoError(t, os.WriteFile("app.py", []byte("print()\n"), 0o644))
	require.NoError(t, os.WriteFile("requirements.txt", []byte("PyQt6\n"), 0o644))

	runner := toolchain.NewFakeRunner()
	runner.Paths[cfg.Interpreter] = "/usr/bin/python3"
	runner.Outputs[cfg.Interpreter+" -m pip --version"] = "pip 25.0"

	require.NoError(t, Run(context.Background(), cfg, runner))
}

// TestRunMissingPip reports the package manager separately from the interpreter.
func TestRunMissingPip(t *testing.T) {
	dir := t.TempDir()
	prevDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))

	t.Cleanup(func() {
		_ = os.Chdir(prevDir)
	})

	cfg := config.Default()
	require.NoError(t, config.Validate(cfg))

	require.NoError(t, os.MkdirAll(filepath.Join("src", "config"), 0o755))
	require.NoError(t, os.MkdirAll("data", 0o755))
	require.NoError(t, os.WriteFile("app.py", nil, 0o644))
	require.NoError(t, os.WriteFile("requirements.txt", nil, 0o644))

	runner := toolchain.NewFakeRunner()
	runner.Paths[cfg.Interpreter] = "/usr/bin/python3"
	runner.Fail[cfg.Interpreter+" -m pip --version"] = os.ErrNotExist

	err = Run(context.Background(), cfg, runner)
	require.Error(t, err)
	require.Contains(t, err.Error(), "package manager unavailable")
}
