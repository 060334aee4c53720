package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/predator-app/predator-builder/internal/config"
	"github.com/predator-app/predator-builder/internal/logger"
	"github.com/predator-app/predator-builder/internal/service/builder"
	"github.com/predator-app/predator-builder/internal/service/bundler"
	"github.com/predator-app/predator-builder/internal/service/doctor"
	"github.com/predator-app/predator-builder/internal/service/release"
	"github.com/predator-app/predator-builder/internal/service/toolchain"
)

// errAppRunning indicates the produced application is currently running and
// would hold the executable open during the build.
var errAppRunning = errors.New("application is running, close it before building")

// Options are inputs accepted by the pipeline entry point.
type Options struct {
	// ConfigPath is the optional path to the build configuration YAML.
	ConfigPath string
	// SkipDeps skips dependency and bundler installation.
	SkipDeps bool
	// Runner overrides the command runner; nil selects the real one.
	Runner toolchain.Runner
}

// Run executes the full pipeline: environment checks, dependency
// installation, build, and release packaging. Any failing step halts the
// pipeline immediately; there are no retries and no rollback.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "predator-builder")

	if IsBuildRunningNow(ctx) {
		return errBuildAlreadyRunning
	}

	if err := createMarker(); err != nil {
		return fmt.Errorf("claim build marker: %w", err)
	}

	defer removeMarker()

	cfg, err := config.LoadOrDefault(opts.ConfigPath)
	if err != nil {
		return err
	}

	if err = ensureAppNotRunning(cfg); err != nil {
		return err
	}

	logger.InfoKV(ctx, "Starting build pipeline", "app", cfg.AppName)

	if err = doctor.Run(ctx, cfg, opts.Runner); err != nil {
		return fmt.Errorf("environment check: %w", err)
	}

	tc := toolchain.New(cfg, opts.Runner)

	if _, err = tc.LocateInterpreter(ctx); err != nil {
		return err
	}

	if !opts.SkipDeps {
		if err = tc.InstallDependencies(ctx); err != nil {
			return err
		}

		if err = tc.InstallBundler(ctx); err != nil {
			return err
		}
	} else {
		logger.Info(ctx, "Skipping dependency installation")
	}

	outputPath, err := builder.New(cfg, tc).Run(ctx)
	if err != nil {
		return err
	}

	archivePath, err := release.NewPackager(cfg).Run(ctx)
	if err != nil {
		return err
	}

	printSummary(ctx, cfg, outputPath, archivePath)

	return nil
}

// Clean removes every artifact the pipeline can produce.
func Clean(ctx context.Context, configPath string) error {
	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return err
	}

	if err = builder.Clean(ctx, cfg); err != nil {
		return err
	}

	if err = release.NewPackager(cfg).Clean(ctx); err != nil {
		return err
	}

	removeMarker()

	logger.Info(ctx, "Cleaned build artifacts")

	return nil
}

// ensureAppNotRunning refuses to build over an executable that is in use.
func ensureAppNotRunning(cfg *config.Config) error {
	exeName := bundler.ExecutableName(cfg, runtime.GOOS)

	running, err := isProcessRunning(exeName)
	if err != nil {
		return fmt.Errorf("scan processes: %w", err)
	}

	if running {
		return fmt.Errorf("%s: %w", exeName, errAppRunning)
	}

	return nil
}

// printSummary reports the absolute paths of everything the pipeline produced.
func printSummary(ctx context.Context, cfg *config.Config, outputPath, archivePath string) {
	absOutput, err := filepath.Abs(outputPath)
	if err != nil {
		absOutput = outputPath
	}

	absRelease, err := filepath.Abs(cfg.ReleaseDir)
	if err != nil {
		absRelease = cfg.ReleaseDir
	}

	absArchive, err := filepath.Abs(archivePath)
	if err != nil {
		absArchive = archivePath
	}

	logger.InfoKV(ctx, "Build pipeline completed",
		"executable", absOutput,
		"release", absRelease,
		"archive", absArchive)
}
