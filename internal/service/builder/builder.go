package builder

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/predator-app/predator-builder/internal/config"
	"github.com/predator-app/predator-builder/internal/fsutil"
	"github.com/predator-app/predator-builder/internal/logger"
	"github.com/predator-app/predator-builder/internal/service/bundler"
	"github.com/predator-app/predator-builder/internal/service/toolchain"
)

// Builder runs the build stage: clean, stage temporary configs, bundle,
// verify the output.
type Builder struct {
	cfg  *config.Config
	tc   *toolchain.Toolchain
	goos string
}

// New creates a Builder for the host platform.
func New(cfg *config.Config, tc *toolchain.Toolchain) *Builder {
	return &Builder{cfg: cfg, tc: tc, goos: runtime.GOOS}
}

// Run executes one build from a clean slate and returns the path of the
// produced executable.
func (b *Builder) Run(ctx context.Context) (string, error) {
	ctx = logger.WithName(ctx, "build")

	if err := b.cleanArtifacts(ctx); err != nil {
		return "", fmt.Errorf("clean previous build: %w", err)
	}

	copied, err := b.stageTempConfigs(ctx)

	// Temporary copies never survive the build, even a failed one.
	defer b.removeTempConfigs(ctx, copied)

	if err != nil {
		return "", fmt.Errorf("stage config files: %w", err)
	}

	if err = bundler.CheckDataSources(b.cfg); err != nil {
		return "", err
	}

	args := bundler.Arguments(b.cfg, b.goos)
	logger.DebugKV(ctx, "Invoking bundler", "args", args)

	if err = b.tc.Bundle(ctx, args); err != nil {
		return "", err
	}

	outputPath, err := bundler.VerifyOutput(ctx, b.cfg, b.goos)
	if err != nil {
		return "", err
	}

	return outputPath, nil
}

// cleanArtifacts removes stale bundler directories so a re-run never leaks
// artifacts from a previous build.
func (b *Builder) cleanArtifacts(ctx context.Context) error {
	for _, dir := range []string{b.cfg.BuildDir, b.cfg.DistDir} {
		if !fsutil.Exists(dir) {
			continue
		}

		logger.InfoKV(ctx, "Removing stale directory", "path", dir)

		if err := os.RemoveAll(dir); err != nil {
			return err
		}
	}

	return nil
}

// stageTempConfigs copies configured files next to the entry script for the
// duration of the build. Missing files are skipped with a warning.
func (b *Builder) stageTempConfigs(ctx context.Context) ([]string, error) {
	copied := make([]string, 0, len(b.cfg.TempConfigs))

	for _, source := range b.cfg.TempConfigs {
		if !fsutil.Exists(source) {
			logger.WarnKV(ctx, "Config file not found, skipping", "path", source)
			continue
		}

		target := filepath.Base(source)
		if err := fsutil.CopyFile(source, target); err != nil {
			return copied, err
		}

		copied = append(copied, target)
		logger.InfoKV(ctx, "Staged config file", "source", source, "target", target)
	}

	return copied, nil
}

// removeTempConfigs deletes the staged copies. Best-effort cleanup.
func (b *Builder) removeTempConfigs(ctx context.Context, copied []string) {
	for _, target := range copied {
		if err := os.Remove(target); err != nil {
			logger.WarnKV(ctx, "Unable to remove staged config file", "path", target, "error", err)
			continue
		}

		logger.DebugKV(ctx, "Removed staged config file", "path", target)
	}
}

// Clean removes the bundler working directories and any staged config
// copies left behind by an interrupted build.
func Clean(ctx context.Context, cfg *config.Config) error {
	for _, dir := range []string{cfg.BuildDir, cfg.DistDir} {
		if !fsutil.Exists(dir) {
			continue
		}

		if err := os.RemoveAll(dir); err != nil {
			return err
		}

		logger.InfoKV(ctx, "Removed directory", "path", dir)
	}

	for _, source := range cfg.TempConfigs {
		target := filepath.Base(source)
		if !fsutil.Exists(target) {
			continue
		}

		if err := os.Remove(target); err != nil {
			return err
		}

		logger.InfoKV(ctx, "Removed staged config file", "path", target)
	}

	// The bundler writes a generated spec file next to the entry script.
	specFile := cfg.AppName + ".spec"
	if fsutil.Exists(specFile) {
		if err := os.Remove(specFile); err != nil {
			return err
		}

		logger.InfoKV(ctx, "Removed generated spec file", "path", specFile)
	}

	return nil
}
