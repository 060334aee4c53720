package deploy

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/predator-app/predator-builder/internal/config"
	"github.com/predator-app/predator-builder/internal/service/release"
)

// newTestDeployer prepares a packaged release with a valid manifest.
func newTestDeployer(t *testing.T, payload []byte) (*Deployer, *config.Config, string) {
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

	require.NoError(t, os.MkdirAll(cfg.ReleaseDir, 0o755))

	exePath := filepath.Join(cfg.ReleaseDir, "PREDATOR")
	require.NoError(t, os.WriteFile(exePath, payload, 0o755))

	checksum, err := release.FileChecksum(exePath)
	require.NoError(t, err)

	manifest := release.NewManifest()
	manifest.Files["PREDATOR"] = base64.StdEncoding.EncodeToString(checksum)
	require.NoError(t, manifest.Save(filepath.Join(cfg.ReleaseDir, release.ManifestFilename)))

	target := filepath.Join(dir, "install")

	d := New(cfg, target)
	d.goos = "linux"

	return d, cfg, target
}

// TestRunInstallsExecutable applies the packaged file into the target directory.
func TestRunInstallsExecutable(t *testing.T) {
	payload := []byte("fresh binary")
	d, _, target := newTestDeployer(t, payload)

	require.NoError(t, d.Run(context.Background()))

	installed, err := os.ReadFile(filepath.Join(target, "PREDATOR"))
	require.NoError(t, err)
	require.Equal(t, payload, installed)

	// No .old leftovers.
	_, err = os.Stat(filepath.Join(target, "PREDATOR.old"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestRunReplacesExisting overwrites a previously installed copy.
func TestRunReplacesExisting(t *testing.T) {
	payload := []byte("version two")
	d, _, target := newTestDeployer(t, payload)

	require.NoError(t, os.MkdirAll(target, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(target, "PREDATOR"), []byte("version one"), 0o755))

	require.NoError(t, d.Run(context.Background()))

	installed, err := os.ReadFile(filepath.Join(target, "PREDATOR"))
	require.NoError(t, err)
	require.Equal(t, payload, installed)
}

// TestRunChecksumMismatch refuses to install a tampered package.
func TestRunChecksumMismatch(t *testing.T) {
	d, cfg, target := newTestDeployer(t, []byte("original"))

	// Corrupt the packaged executable after the manifest was written.
	require.NoError(t, os.WriteFile(
		filepath.Join(cfg.ReleaseDir, "PREDATOR"), []byte("tampered"), 0o755))

	err := d.Run(context.Background())
	require.Error(t, err)

	// Nothing was installed.
	_, err = os.Stat(filepath.Join(target, "PREDATOR"))
	if err == nil {
		data, readErr := os.ReadFile(filepath.Join(target, "PREDATOR"))
		require.NoError(t, readErr)
		require.Empty(t, data)
	}
}

// TestRunWithoutManifest requires a packaged release.
func TestRunWithoutManifest(t *testing.T) {
	d, cfg, _ := newTestDeployer(t, []byte("x"))
	require.NoError(t, os.Remove(filepath.Join(cfg.ReleaseDir, release.ManifestFilename)))

	err := d.Run(context.Background())
	require.ErrorIs(t, err, errManifestMissing)
}

// TestRunWithoutTarget validates input.
func TestRunWithoutTarget(t *testing.T) {
	d, _, _ := newTestDeployer(t, []byte("x"))
	d.targetDir = ""

	err := d.Run(context.Background())
	require.ErrorIs(t, err, errTargetRequired)
}
