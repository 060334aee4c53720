package cmd

import (
	"github.com/spf13/cobra"

	"github.com/predator-app/predator-builder/internal/config"
	"github.com/predator-app/predator-builder/internal/service/toolchain"
)

// depsCmd installs the application dependencies and the bundler.
var depsCmd = &cobra.Command{
	Use:   "deps",
	Short: "Install application dependencies and the bundler",
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

		if err = tc.InstallDependencies(ctx); err != nil {
			return err
		}

		return tc.InstallBundler(ctx)
	},
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	rootCmd.AddCommand(depsCmd)
}
