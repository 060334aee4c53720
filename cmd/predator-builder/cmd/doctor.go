package cmd

import (
	"github.com/spf13/cobra"

	"github.com/predator-app/predator-builder/internal/config"
	"github.com/predator-app/predator-builder/internal/logger"
	"github.com/predator-app/predator-builder/internal/service/doctor"
)

// doctorCmd checks the environment and reports every problem at once.
var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the build environment and report problems",
	Args:  cobra.NoArgs,
	RunE: func(_ *cobra.Command, _ []string) error {
		// Setup graceful shutdown handling.
		ctx, stop := signalContext()
		defer stop()

		cfg, err := config.LoadOrDefault(configPath)
		if err != nil {
			return err
		}

		if err = doctor.Run(ctx, cfg, nil); err != nil {
			return err
		}

		logger.Info(ctx, "Environment is ready to build")

		return nil
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(doctorCmd)
}
