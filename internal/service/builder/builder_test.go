package builder

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/predator-app/predator-builder/internal/config"
	"github.com/predator-app/predator-builder/internal/fsutil"
	"github.com/predator-app/predator-builder/internal/service/bundler"
	"github.com/predator-app/predator-builder/internal/service/toolchain"
)

// newTestBuilder wires a Builder with a fake runner in a temporary project tree.
func newTestBuilder(t *testing.T) (*Builder, *toolchain.FakeRunner, *config.Config) {
	t.Helper()

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
	require.NoError(t, os.WriteFile("app.py", []byte("print('hi')\n"), 0o644))
	require.NoError(t, os.WriteFile(
		filepath.Join("src", "config", "firebase_config.json"), []byte("{}"), 0o600))

	runner := toolchain.NewFakeRunner()
	b := New(cfg, toolchain.New(cfg, runner))
	b.goos = "linux"

	return b, runner, cfg
}

// TestRunHappyPath builds, verifies output, and cleans staged configs.
func TestRunHappyPath(t *testing.T) {
	b, runner, cfg := newTestBuilder(t)

	// Simulate the bundler dropping the executable into dist.
	runner.OnRun = func(_ string, _ []string) error {
		if err := os.MkdirAll(cfg.DistDir, 0o755); err != nil {
			return err
		}

		return os.WriteFile(bundler.OutputPath(cfg, "linux"), []byte("binary"), 0o755)
	}

	// Stale artifacts from a previous run must be wiped.
	require.NoError(t, os.MkdirAll(filepath.Join(cfg.BuildDir, "stale"), 0o755))

	outputPath, err := b.Run(context.Background())
	require.NoError(t, err)
	require.Equal(t, filepath.Join("dist", "PREDATOR"), outputPath)

	require.True(t, runner.Ran("-m PyInstaller"))
	require.True(t, runner.Ran("--add-data=src/config:config"))

	// Staged config copy is gone after the build.
	require.False(t, fsutil.Exists("firebase_config.json"))

	// The stale build directory was removed before bundling.
	require.False(t, fsutil.Exists(filepath.Join(cfg.BuildDir, "stale")))
}

// TestRunMissingDataSource stops before invoking the bundler.
func TestRunMissingDataSource(t *testing.T) {
	b, runner, _ := newTestBuilder(t)
	require.NoError(t, os.RemoveAll("data"))

	_, err := b.Run(context.Background())
	require.Error(t, err)
	require.False(t, runner.Ran("PyInstaller"))
}

// TestRunBundlerFailure surfaces the bundler error and still removes the
// staged config copies.
func TestRunBundlerFailure(t *testing.T) {
	b, runner, _ := newTestBuilder(t)

	forced := errors.New("exit status 1")
	runner.OnRun = func(_ string, _ []string) error { return forced }

	_, err := b.Run(context.Background())
	require.ErrorIs(t, err, forced)
	require.False(t, fsutil.Exists("firebase_config.json"))
}

// TestRunMissingOutput fails when the bundler exits zero without producing
// the executable.
func TestRunMissingOutput(t *testing.T) {
	b, _, _ := newTestBuilder(t)

	_, err := b.Run(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "missing")
}

// TestClean removes working directories, staged copies and the spec file.
func TestClean(t *testing.T) {
	_, _, cfg := newTestBuilder(t)

	require.NoError(t, os.MkdirAll(cfg.BuildDir, 0o755))
	require.NoError(t, os.MkdirAll(cfg.DistDir, 0o755))
	require.NoError(t, os.WriteFile("firebase_config.json", []byte("{}"), 0o600))
	require.NoError(t, os.WriteFile(cfg.AppName+".spec", []byte("# spec"), 0o644))

	require.NoError(t, Clean(context.Background(), cfg))

	for _, path := range []string{cfg.BuildDir, cfg.DistDir, "firebase_config.json", cfg.AppName + ".spec"} {
		require.False(t, fsutil.Exists(path), path)
	}
}

// TestIgnoredPath filters the tool's own outputs from watch events.
func TestIgnoredPath(t *testing.T) {
	b, _, cfg := newTestBuilder(t)

	require.True(t, b.ignoredPath(filepath.Join(cfg.BuildDir, "x")))
	require.True(t, b.ignoredPath(filepath.Join(cfg.DistDir, "PREDATOR")))
	require.True(t, b.ignoredPath("PREDATOR.spec"))
	require.True(t, b.ignoredPath("firebase_config.json"))

	require.False(t, b.ignoredPath("app.py"))
	require.False(t, b.ignoredPath(filepath.Join("src", "config", "app_config.json")))
}
