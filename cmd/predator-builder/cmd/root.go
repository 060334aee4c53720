package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/predator-app/predator-builder/internal/config"
	"github.com/predator-app/predator-builder/internal/logger"
	"github.com/predator-app/predator-builder/internal/version"
)

var (
	// configPath to the build configuration YAML file.
	configPath string
	// logLevel of the application logger.
	logLevel string

	// rootCmd represents the base command for the build tool.
	rootCmd = &cobra.Command{
		Use:   "predator-builder",
		Short: "Build, package and deploy the PREDATOR desktop application",
		Long: `predator-builder turns a Python desktop application into a distributable
standalone executable.

It verifies the environment, installs dependencies, bundles the application
with PyInstaller, assembles a release folder with a version manifest, and
packs it into a distribution archive. Run "predator-builder all" for the
full pipeline or individual subcommands for single stages.`,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}
		},
	}
)

// Execute runs the predator-builder CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// signalContext returns a context cancelled by SIGTERM or SIGINT.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.PersistentFlags().
		StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.PersistentFlags().
		StringVarP(&logLevel, "log-level", "l", "info", "logging level (debug, info, warn, error)")
}
