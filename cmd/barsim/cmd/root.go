package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "barsim",
	Short: "A bar-driven single-instrument backtesting engine",
	Long: `Barsim replays OHLC bars through a trading strategy and simulates
order placement, fill matching, position tracking and cash accounting.

It provides tools for:
  - Backtesting built-in strategies against a bar CSV
  - Sweeping strategy parameters concurrently
  - Journaling fills and equity to CSV or SQLite
  - Generating and checking run configuration files`,
	SilenceUsage: true,
}

var (
	cfgFile  string
	logLevel string
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "run config file (YAML or JSON); defaults are used when empty")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
}
