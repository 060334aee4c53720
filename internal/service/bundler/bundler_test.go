package bundler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/predator-app/predator-builder/internal/config"
)

// TestArguments pins the argument vector for both path-separator families.
func TestArguments(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	require.NoError(t, config.Validate(cfg))

	linuxArgs := Arguments(cfg, "linux")
	require.Equal(t, "--name=PREDATOR", linuxArgs[0])
	require.Contains(t, linuxArgs, "--onefile")
	require.Contains(t, linuxArgs, "--windowed")
	require.Contains(t, linuxArgs, "--clean")
	require.Contains(t, linuxArgs, "--noconfirm")
	require.Contains(t, linuxArgs, "--add-data=src/config:config")
	require.Contains(t, linuxArgs, "--add-data=data:data")
	require.Contains(t, linuxArgs, "--hidden-import=firebase_admin")
	require.Contains(t, linuxArgs, "--exclude-module=tkinter")
	require.Equal(t, "app.py", linuxArgs[len(linuxArgs)-1])

	windowsArgs := Arguments(cfg, "windows")
	require.Contains(t, windowsArgs, "--add-data=src/config;config")
	require.Contains(t, windowsArgs, "--add-data=data;data")

	// Console build without cache cleaning.
	cfg.Windowed = false
	cfg.CleanCache = false
	cfg.UPX = false

	consoleArgs := Arguments(cfg, "linux")
	require.Contains(t, consoleArgs, "--console")
	require.NotContains(t, consoleArgs, "--windowed")
	require.NotContains(t, consoleArgs, "--clean")
	require.Contains(t, consoleArgs, "--noupx")
}

// TestArgumentsIcon includes the icon flag only when the file exists.
func TestArgumentsIcon(t *testing.T) {
	dir := t.TempDir()
	prevDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))

	t.Cleanup(func() {
		_ = os.Chdir(prevDir)
	})

	cfg := config.Default()
	require.NoError(t, config.Validate(cfg))

	args := Arguments(cfg, "windows")
	require.NotContains(t, args, "--icon=assets/icon.ico")

	require.NoError(t, os.MkdirAll("assets", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("assets", "icon.ico"), []byte{0}, 0o644))

	args = Arguments(cfg, "windows")
	require.Contains(t, args, "--icon=assets/icon.ico")
}

// TestExecutableName appends .exe only on Windows.
func TestExecutableName(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	require.Equal(t, "PREDATOR.exe", ExecutableName(cfg, "windows"))
	require.Equal(t, "PREDATOR", ExecutableName(cfg, "linux"))
	require.Equal(t, "PREDATOR", ExecutableName(cfg, "darwin"))
}

// TestCheckDataSources fails when a declared source directory is absent.
func TestCheckDataSources(t *testing.T) {
	dir := t.TempDir()
	prevDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))

	t.Cleanup(func() {
		_ = os.Chdir(prevDir)
	})

	cfg := config.Default()
	require.NoError(t, config.Validate(cfg))

	err = CheckDataSources(cfg)
	require.ErrorIs(t, err, errDataSourceMissing)

	require.NoError(t, os.MkdirAll(filepath.Join("src", "config"), 0o755))
	require.NoError(t, os.MkdirAll("data", 0o755))

	require.NoError(t, CheckDataSources(cfg))
}

// TestVerifyOutput requires the executable under the dist directory.
func TestVerifyOutput(t *testing.T) {
	dir := t.TempDir()
	prevDir, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))

	t.Cleanup(func() {
		_ = os.Chdir(prevDir)
	})

	cfg := config.Default()
	require.NoError(t, config.Validate(cfg))

	_, err = VerifyOutput(context.Background(), cfg, "linux")
	require.ErrorIs(t, err, errOutputMissing)

	require.NoError(t, os.MkdirAll(cfg.DistDir, 0o755))
	require.NoError(t, os.WriteFile(OutputPath(cfg, "linux"), []byte("binary"), 0o755))

	path, err := VerifyOutput(context.Background(), cfg, "linux")
	require.NoError(t, err)
	require.Equal(t, filepath.Join("dist", "PREDATOR"), path)
}
