package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestCopyFile preserves contents and mode.
func TestCopyFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "src.bin")
	dst := filepath.Join(dir, "dst.bin")

	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o755))
	require.NoError(t, CopyFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	require.Equal(t, "payload", string(data))

	info, err := os.Stat(dst)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o755), info.Mode().Perm())
}

// TestCopyTree copies nested directories.
func TestCopyTree(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	src := filepath.Join(dir, "bundle.app")
	require.NoError(t, os.MkdirAll(filepath.Join(src, "Contents", "MacOS"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "Contents", "MacOS", "app"), []byte("bin"), 0o755))

	dst := filepath.Join(dir, "out", "bundle.app")
	require.NoError(t, CopyTree(src, dst))

	data, err := os.ReadFile(filepath.Join(dst, "Contents", "MacOS", "app"))
	require.NoError(t, err)
	require.Equal(t, "bin", string(data))
}

// TestExists covers files, directories and missing paths.
func TestExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.True(t, Exists(dir))
	require.True(t, IsDir(dir))

	file := filepath.Join(dir, "f")
	require.NoError(t, os.WriteFile(file, nil, 0o600))
	require.True(t, Exists(file))
	require.False(t, IsDir(file))

	require.False(t, Exists(filepath.Join(dir, "missing")))
}
