// clawround is a terminal claw machine: grab balls, drop them in the chute
// and reach the round's target score before the grabs run out.
//
// Usage:
//
//	clawround rounds          - List authored rounds
//	clawround balls           - List the ball catalog
//	clawround play [round]    - Play a round (menu when no round is given)
//	clawround sim <round>     - Run a round headless with the autopilot
//	clawround results [round] - Show stored results
//	clawround config          - Print the effective configuration
//	clawround serve           - Start SSH server for remote play
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 60)
//	--seed <value>       - Six-character seed for a reproducible first round
//	--db <path>          - Set database path (default: ~/.clawround/results.db)
//	--config <path>      - Custom configuration YAML
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/clawround/internal/config"
	"github.com/vovakirdan/clawround/internal/storage"
)

var (
	// Global flags
	flagFPS      int
	flagSeed     string
	flagDBPath   string
	flagConfig   string
	flagLogLevel string
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "clawround",
})

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "clawround",
	Short: "Claw Round - a claw machine in your terminal",
	Long: `Claw Round is a terminal claw machine. Steer the claw over the pile,
drop it, and carry what it grabs over the partition into the chute.
Balls that settle in the chute score; reach the target before the
grabs run out to win the round.

Available commands:
  rounds   - Show authored rounds
  balls    - Show the ball catalog
  play     - Play a round
  sim      - Run a round headless with the autopilot
  results  - View stored results
  config   - Print the effective configuration
  serve    - Start SSH server for remote play

Examples:
  clawround play
  clawround play classic --preset easy
  clawround sim warmup --seed ABC123
  clawround results classic
  clawround serve --ssh :2222`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		level, err := log.ParseLevel(flagLogLevel)
		if err != nil {
			return fmt.Errorf("invalid --log-level: %w", err)
		}
		logger.SetLevel(level)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().StringVar(&flagSeed, "seed", "", "Seed for the first round (empty = random)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.clawround/results.db", "Path to results database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom configuration YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "warn", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(roundsCmd)
	rootCmd.AddCommand(ballsCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(resultsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig loads the configuration selected by --config.
func loadConfig() (*config.File, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return nil, err
	}
	logger.Debug("configuration loaded", "source", cfg.Source)
	return &cfg, nil
}

// openStore opens the results database, or returns nil with a warning so
// play continues without persistence.
func openStore() *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open results database", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}
