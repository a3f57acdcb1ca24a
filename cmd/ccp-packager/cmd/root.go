package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/oshokin/ccp-packager/internal/config"
	"github.com/oshokin/ccp-packager/internal/logger"
	"github.com/oshokin/ccp-packager/internal/service/packager"
	"github.com/oshokin/ccp-packager/internal/version"
)

var (
	// configPath stores the path to the configuration YAML file.
	configPath string
	// packagesRoot overrides the configured package source root.
	packagesRoot string
	// poolDir overrides the configured output pool directory.
	poolDir string
	// logLevel sets the minimum level for console output.
	logLevel string

	// rootCmd represents the base command for building package archives.
	rootCmd = &cobra.Command{
		Use:   "ccp-packager",
		Short: "Build versioned package archives and the pool index.",
		Long: `Batch build tool for distributable package archives.

Reads every package directory under the packages root, combines its manifest
with the digested contents of its source tree, and writes the result as a
compressed, base64-encoded .ccp archive into the pool directory. The pool
index is rebuilt from scratch at the end of every run.

Packages without a manifest are skipped and left out of the index; any other
failure aborts the whole run. The pool directory must exist beforehand.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			options := &packager.Options{
				ConfigPath:   configPath,
				PackagesRoot: packagesRoot,
				PoolDir:      poolDir,
			}

			return packager.Run(ctx, options)
		},
	}
)

// Execute runs the ccp-packager CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVar(&packagesRoot, "packages-root", "", "override the package source root directory")
	rootCmd.Flags().StringVar(&poolDir, "pool-dir", "", "override the output pool directory")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "minimum log level (debug, info, warn, error, fatal)")
}
