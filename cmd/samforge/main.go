// samforge builds and tears down the Simulated Asset Management demo
// environment: structured market data, a hydrated document corpus, search
// services, semantic views, and the scenario agents, all in an embedded
// SQLite warehouse.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"samforge/internal/config"
	"samforge/internal/logging"
	"samforge/internal/warehouse"
)

var (
	// Global flags
	verbose   bool
	workspace string

	// Loaded in PersistentPreRunE, shared by every command
	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "samforge",
	Short: "Simulated Asset Management demo environment builder",
	Long: `samforge builds a self-contained asset management demo environment:
deterministic market and portfolio data, a hydrated document corpus,
search services, analyst semantic views, and per-scenario agents.

Everything lives in an embedded SQLite warehouse under .samforge/ in the
workspace, so builds are reproducible and disposable.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if workspace == "" {
			var err error
			workspace, err = os.Getwd()
			if err != nil {
				return err
			}
		}

		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.Load(workspace)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := cfg.WriteLoggingMirror(workspace); err != nil {
			logger.Warn("Could not write logging mirror", zap.Error(err))
		}
		if err := logging.Initialize(workspace); err != nil {
			return fmt.Errorf("failed to initialize category logs: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// openStore opens the demo warehouse in the current workspace.
func openStore() (*warehouse.Store, error) {
	store, err := warehouse.Open(workspace, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open warehouse: %w", err)
	}
	return store, nil
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", "", "Workspace directory (default: current)")

	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(teardownCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(hydrateCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(simulateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
