package cmd

import (
	"github.com/spf13/cobra"

	"github.com/predator-app/predator-builder/internal/config"
	"github.com/predator-app/predator-builder/internal/service/deploy"
)

// deployCmd installs the packaged executable into a target directory with
// checksum verification against the release manifest.
var deployCmd = &cobra.Command{
	Use:   "deploy [target-folder]",
	Short: "Install the packaged executable into a target folder",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		// Setup graceful shutdown handling.
		ctx, stop := signalContext()
		defer stop()

		cfg, err := config.LoadOrDefault(configPath)
		if err != nil {
			return err
		}

		return deploy.New(cfg, args[0]).Run(ctx)
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(deployCmd)
}
