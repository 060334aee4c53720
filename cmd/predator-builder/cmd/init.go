package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/predator-app/predator-builder/internal/config"
	"github.com/predator-app/predator-builder/internal/fsutil"
	"github.com/predator-app/predator-builder/internal/logger"
)

var (
	// initForce overwrites an existing configuration file.
	initForce bool

	// initCmd writes a default configuration file for editing.
	initCmd = &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if fsutil.Exists(configPath) && !initForce {
				return fmt.Errorf("%s already exists, use --force to overwrite", configPath)
			}

			if err := config.Save(configPath, config.Default()); err != nil {
				return err
			}

			logger.InfoKV(cmd.Context(), "Wrote default configuration", "path", configPath)

			return nil
		},
	}
)

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing configuration file")

	rootCmd.AddCommand(initCmd)
}
