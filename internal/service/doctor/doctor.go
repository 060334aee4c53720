package doctor

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/predator-app/predator-builder/internal/config"
	"github.com/predator-app/predator-builder/internal/fsutil"
	"github.com/predator-app/predator-builder/internal/logger"
	"github.com/predator-app/predator-builder/internal/service/toolchain"
)

// Run checks the build environment and returns every problem found,
// aggregated, so the operator can fix them all in one pass.
func Run(ctx context.Context, cfg *config.Config, runner toolchain.Runner) error {
	ctx = logger.WithName(ctx, "doctor")
	tc := toolchain.New(cfg, runner)

	var result *multierror.Error

	interpreterPath, err := tc.LocateInterpreter(ctx)
	if err != nil {
		result = multierror.Append(result, err)
	} else {
		logger.InfoKV(ctx, "Interpreter OK", "path", interpreterPath)

		// Checking pip without an interpreter would only duplicate the failure.
		pipVersion, pipErr := tc.PackageManagerVersion(ctx)
		if pipErr != nil {
			result = multierror.Append(result, pipErr)
		} else {
			logger.InfoKV(ctx, "Package manager OK", "version", strings.TrimSpace(pipVersion))
		}
	}

	if !fsutil.Exists(cfg.EntryScript) {
		result = multierror.Append(result, fmt.Errorf("entry script %s not found", cfg.EntryScript))
	} else {
		logger.InfoKV(ctx, "Entry script OK", "path", cfg.EntryScript)
	}

	for _, mapping := range cfg.Data {
		if !fsutil.IsDir(mapping.Source) {
			result = multierror.Append(result,
				fmt.Errorf("data source directory %s not found", mapping.Source))
			continue
		}

		logger.InfoKV(ctx, "Data source OK", "path", mapping.Source)
	}

	if !fsutil.Exists(cfg.RequirementsFile) {
		if len(cfg.Dependencies) == 0 {
			result = multierror.Append(result, fmt.Errorf(
				"requirements file %s not found and no fallback dependencies configured",
				cfg.RequirementsFile))
		} else {
			logger.WarnKV(ctx, "Requirements file not found, fixed dependency list will be used",
				"path", cfg.RequirementsFile)
		}
	}

	for _, icon := range []string{cfg.Icons.Windows, cfg.Icons.Darwin} {
		if icon != "" && !fsutil.Exists(icon) {
			logger.WarnKV(ctx, "Icon not found, builds will proceed without it", "path", icon)
		}
	}

	if err := result.ErrorOrNil(); err != nil {
		return err
	}

	logger.Info(ctx, "Environment is ready for building")

	return nil
}
