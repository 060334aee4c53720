package cmd

import (
	"github.com/spf13/cobra"

	"github.com/predator-app/predator-builder/internal/config"
	"github.com/predator-app/predator-builder/internal/service/release"
)

// releaseCmd assembles the release folder and the distribution archive
// from an existing build output.
var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Assemble the release folder and distribution archive",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		// Setup graceful shutdown handling.
		ctx, stop := signalContext()
		defer stop()

		cfg, err := config.LoadOrDefault(configPath)
		if err != nil {
			return err
		}

		_, err = release.NewPackager(cfg).Run(ctx)

		return err
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(releaseCmd)
}
