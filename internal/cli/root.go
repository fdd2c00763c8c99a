package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"backupwatch/internal/config"
	"backupwatch/internal/logging"
)

var (
	// Version is set at build time
	Version = "0.1.0"

	// App state
	cfg     *config.Config
	cfgErr  error
	cfgDir  string
	verbose bool
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "backupwatch",
	Short: "Statistical health checks for backup directories",
	Long: `Backupwatch inspects directories of backup artifacts and flags
anomalies in backup cadence and size. Thresholds are derived from each
path's own history (median interval, median size), so nightly and
hourly jobs are both modeled correctly without per-path tuning.`,
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// SetVersion sets the version string
func SetVersion(v string) {
	Version = v
	rootCmd.Version = v
}

func init() {
	cobra.OnInitialize(initLogging, initConfig)
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&cfgDir, "config", "", "config directory (default ~/.backupwatch)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func initLogging() {
	logCfg := logging.DefaultConfig()
	if verbose {
		logCfg.Level = "debug"
	}
	_ = logging.Init(logCfg)
}

func initConfig() {
	cfg, cfgErr = config.Load(cfgDir)
}

// configDir returns the effective config directory.
func configDir() string {
	if cfgDir != "" {
		return cfgDir
	}
	return config.DefaultConfigDir()
}

// RequireConfig returns an error if config is not loaded
func RequireConfig() error {
	if cfgErr != nil {
		return fmt.Errorf("%w - run 'backupwatch init' first", cfgErr)
	}
	if cfg == nil {
		return fmt.Errorf("backupwatch not initialized - run 'backupwatch init' first")
	}
	return nil
}
