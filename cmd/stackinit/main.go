// Package main implements the stackinit CLI: a one-shot, idempotent
// bootstrap for the Python backend / frontend workspace skeleton.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"stackinit/cmd/stackinit/ui"
	"stackinit/internal/config"
)

var (
	// Global flags
	verbose   bool
	workspace string
	planFile  string
	timeout   time.Duration

	// Logger
	logger *zap.Logger

	styles = ui.DefaultStyles()
)

// rootCmd represents the base command. Running it without a subcommand
// performs the full bootstrap, matching the original single-purpose script.
var rootCmd = &cobra.Command{
	Use:   "stackinit",
	Short: "stackinit - idempotent workspace bootstrap",
	Long: `stackinit bootstraps a full-stack workspace in one pass:

  1. Checks that a Python runtime is available (the only fatal step)
  2. Creates the backend/frontend directory skeleton
  3. Creates the Python package marker files
  4. Provisions an isolated virtual environment
  5. Installs any dependency manifests that exist
  6. Seeds .env from .env.example, once
  7. Verifies the interpreter and installed packages

Every step is safe to repeat; re-running the whole command is the
recovery path after a partial failure.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := zap.NewProductionConfig()
		if verbose {
			cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = cfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runUp,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&workspace, "workspace", "w", ".",
		"workspace root to bootstrap")
	rootCmd.PersistentFlags().StringVar(&planFile, "plan", config.DefaultPlanFile,
		"plan override file, relative to the workspace")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 15*time.Minute,
		"per-subprocess timeout")

	rootCmd.AddCommand(upCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(planCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styles.Error.Render("✗ "+err.Error()))
		os.Exit(1)
	}
}
