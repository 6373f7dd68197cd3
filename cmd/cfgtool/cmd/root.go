package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dynguide/cfg-engine/pkg/config"
	"github.com/dynguide/cfg-engine/pkg/telemetry"
	"github.com/dynguide/cfg-engine/pkg/utils"
)

var (
	// Global flags
	verbose    bool
	configPath string
	logger     utils.Logger
	appConfig  *config.Config

	// telemetryShutdown flushes and stops the TracerProvider installed by
	// PersistentPreRunE. Defaults to a no-op so PersistentPostRunE is safe
	// to call even if PersistentPreRunE never ran (e.g. subcommand tests
	// that invoke RunE directly).
	telemetryShutdown telemetry.ShutdownFunc = func(context.Context) error { return nil }
)

// rootCmd represents the base command.
var rootCmd = &cobra.Command{
	Use:   "cfgtool",
	Short: "Inspect a directed-guidance CFG construction payload",
	Long: `cfgtool loads a CFG construction payload (edges, targets, id mapping,
callsite dominators) from local disk or object storage, builds the
control-flow graph engine from it, and runs read-only queries against
the result: distance-to-target scores, reachability, and callsite
dominator sets.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logLevel := utils.LevelInfo
		if verbose {
			logLevel = utils.LevelDebug
		}
		logger = utils.NewDefaultLogger(logLevel, os.Stdout)

		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		appConfig = loaded

		shutdown, err := telemetry.InitWithConfig(cmd.Context(), &appConfig.Telemetry)
		if err != nil {
			logger.Warn("failed to initialize telemetry, continuing without tracing", "error", err)
		} else {
			telemetryShutdown = shutdown
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return telemetryShutdown(cmd.Context())
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file (yaml/json/toml)")

	binName := BinName()
	rootCmd.Example = `  # Build the graph from a local payload and print summary stats
  ` + binName + ` load ./testdata/payload.json

  # Query a BB's distance-to-target score
  ` + binName + ` score ./testdata/payload.json 30

  # List the comparisons that dominate a callsite's indirect dispatch
  ` + binName + ` dominators ./testdata/payload.json 5`
}

// BinName returns the base name of the current executable.
func BinName() string {
	return filepath.Base(os.Args[0])
}

// GetLogger returns the configured logger.
func GetLogger() utils.Logger {
	return logger
}
