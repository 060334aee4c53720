package cmd

import (
	"github.com/spf13/cobra"

	"github.com/predator-app/predator-builder/internal/service/pipeline"
)

// cleanCmd removes build, release and archive artifacts.
var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove build, release and archive artifacts",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		// Setup graceful shutdown handling.
		ctx, stop := signalContext()
		defer stop()

		return pipeline.Clean(ctx, configPath)
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(cleanCmd)
}
