package cmd

import (
	"github.com/spf13/cobra"

	"github.com/predator-app/predator-builder/internal/service/pipeline"
)

var (
	// allSkipDeps skips dependency installation during the full pipeline.
	allSkipDeps bool

	// allCmd runs the full pipeline from environment check to archive.
	allCmd = &cobra.Command{
		Use:   "all",
		Short: "Run the full pipeline: check, install, build, release",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signalContext()
			defer stop()

			options := &pipeline.Options{
				ConfigPath: configPath,
				SkipDeps:   allSkipDeps,
			}

			return pipeline.Run(ctx, options)
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	allCmd.Flags().BoolVar(&allSkipDeps, "skip-deps", false, "skip dependency and bundler installation")

	rootCmd.AddCommand(allCmd)
}
