package bundler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/predator-app/predator-builder/internal/config"
	"github.com/predator-app/predator-builder/internal/fsutil"
	"github.com/predator-app/predator-builder/internal/logger"
)

var (
	// errDataSourceMissing indicates a declared data mapping has no
	// directory on disk; bundling must not start in that case.
	errDataSourceMissing = errors.New("data source directory missing")

	// errOutputMissing indicates the bundler reported success but the
	// expected executable is not where it should be.
	errOutputMissing = errors.New("expected output executable missing")
)

// DataSeparator returns the separator used inside --add-data values:
// ";" on Windows, ":" elsewhere. The bundler parses the value itself, so
// the separator follows the target platform, not this process.
func DataSeparator(goos string) string {
	if goos == "windows" {
		return ";"
	}

	return ":"
}

// ExecutableName returns the platform-specific name of the produced executable.
func ExecutableName(cfg *config.Config, goos string) string {
	if goos == "windows" {
		return cfg.AppName + ".exe"
	}

	return cfg.AppName
}

// OutputPath returns where the bundler leaves the finished executable.
func OutputPath(cfg *config.Config, goos string) string {
	return filepath.Join(cfg.DistDir, ExecutableName(cfg, goos))
}

// AppBundlePath returns the darwin application bundle directory, which the
// bundler produces alongside the plain executable for windowed builds.
func AppBundlePath(cfg *config.Config) string {
	return filepath.Join(cfg.DistDir, cfg.AppName+".app")
}

// Arguments assembles the bundler argument vector for the target platform.
// The entry script is always last.
func Arguments(cfg *config.Config, goos string) []string {
	args := []string{"--name=" + cfg.AppName}

	if cfg.OneFile {
		args = append(args, "--onefile")
	} else {
		args = append(args, "--onedir")
	}

	if cfg.Windowed {
		args = append(args, "--windowed")
	} else {
		args = append(args, "--console")
	}

	if cfg.CleanCache {
		args = append(args, "--clean")
	}

	// Never stall an unattended build on a confirmation prompt.
	args = append(args, "--noconfirm")

	if !cfg.UPX {
		args = append(args, "--noupx")
	}

	separator := DataSeparator(goos)
	for _, mapping := range cfg.Data {
		args = append(args, "--add-data="+mapping.Source+separator+mapping.Target)
	}

	for _, module := range cfg.HiddenImports {
		args = append(args, "--hidden-import="+module)
	}

	for _, module := range cfg.ExcludeModules {
		args = append(args, "--exclude-module="+module)
	}

	if icon := iconFor(cfg, goos); icon != "" && fsutil.Exists(icon) {
		args = append(args, "--icon="+icon)
	}

	return append(args, cfg.EntryScript)
}

// CheckDataSources verifies every declared data mapping has a source
// directory on disk before the bundler is invoked.
func CheckDataSources(cfg *config.Config) error {
	for _, mapping := range cfg.Data {
		if !fsutil.IsDir(mapping.Source) {
			return fmt.Errorf("%s: %w", mapping.Source, errDataSourceMissing)
		}
	}

	return nil
}

// VerifyOutput ensures the built executable exists and reports its size.
// On darwin it additionally logs the application bundle when present.
func VerifyOutput(ctx context.Context, cfg *config.Config, goos string) (string, error) {
	outputPath := OutputPath(cfg, goos)

	info, err := os.Stat(outputPath)
	if err != nil {
		return "", fmt.Errorf("%s: %w", outputPath, errOutputMissing)
	}

	logger.InfoKV(ctx, "Bundle produced",
		"path", outputPath,
		"size", humanize.Bytes(uint64(info.Size())))

	if goos == "darwin" {
		if bundle := AppBundlePath(cfg); fsutil.IsDir(bundle) {
			logger.InfoKV(ctx, "Application bundle produced", "path", bundle)
		}
	}

	return outputPath, nil
}

// iconFor picks the platform icon path, empty when the platform has none.
func iconFor(cfg *config.Config, goos string) string {
	switch goos {
	case "windows":
		return cfg.Icons.Windows
	case "darwin":
		return cfg.Icons.Darwin
	default:
		return ""
	}
}
