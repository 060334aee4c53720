package cmd

import (
	"github.com/spf13/cobra"

	"github.com/predator-app/predator-builder/internal/config"
	"github.com/predator-app/predator-builder/internal/service/builder"
	"github.com/predator-app/predator-builder/internal/service/toolchain"
)

var (
	// buildWatch rebuilds on source changes instead of building once.
	buildWatch bool
	// buildSkipDeps skips dependency installation before the build.
	buildSkipDeps bool

	// buildCmd bundles the application into a standalone executable.
	buildCmd = &cobra.Command{
		Use:   "build",
		Short: "Bundle the application into a standalone executable",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signalContext()
			defer stop()

			cfg, err := config.LoadOrDefault(configPath)
			if err != nil {
				return err
			}

			tc := toolchain.New(cfg, nil)

			if _, err = tc.LocateInterpreter(ctx); err != nil {
				return err
			}

			if !buildSkipDeps {
				if err = tc.InstallDependencies(ctx); err != nil {
					return err
				}

				if err = tc.InstallBundler(ctx); err != nil {
					return err
				}
			}

			b := builder.New(cfg, tc)

			if buildWatch {
				return b.Watch(ctx)
			}

			_, err = b.Run(ctx)

			return err
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	buildCmd.Flags().BoolVarP(&buildWatch, "watch", "w", false, "rebuild automatically when sources change")
	buildCmd.Flags().BoolVar(&buildSkipDeps, "skip-deps", false, "skip dependency and bundler installation")

	rootCmd.AddCommand(buildCmd)
}
