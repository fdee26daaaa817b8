// runner is a headless endless-runner simulator. It generates tracks, lets a
// bot play them and adapts the difficulty to the saved run history.
//
// Usage:
//
//	runner simulate          - Play one or more runs with the bot
//	runner history           - Show saved runs and the difficulty state
//	runner reset             - Delete saved runs
//	runner config            - Print the effective configuration
//
// Global flags:
//
//	--seed <value>       - Set RNG seed for reproducible tracks
//	--db <path>          - Set database path (default: ~/.runner/runner.db)
//	--config <path>      - Use a custom config YAML
//	--tick-rate <rate>   - Override the simulation tick rate
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagTickRate int
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "runner",
	Short: "Runner - headless endless-runner track generator",
	Long: `Runner generates endless-runner tracks and lets a bot play them.
Each finished run is saved, and the saved history tunes the speed and
obstacle density of the next run.

Available commands:
  simulate - Play runs with the bot
  history  - Show saved runs and the difficulty state
  reset    - Delete saved runs
  config   - Print the effective configuration

Examples:
  runner simulate --runs 10
  runner simulate --seed 42 --difficulty hard
  runner history
  runner config > configs/runner.yaml`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.runner/runner.db", "Path to runner database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom runner config YAML")
	rootCmd.PersistentFlags().IntVar(&flagTickRate, "tick-rate", 0, "Simulation ticks per second (0 = from config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(configCmd)
}
