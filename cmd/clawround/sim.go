package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/clawround/internal/cabinet"
	"github.com/vovakirdan/clawround/internal/config"
	"github.com/vovakirdan/clawround/internal/round"
	"github.com/vovakirdan/clawround/internal/storage"
)

var (
	flagSimPreset string
	flagMaxTicks  int
	flagRounds    int
	flagQuiet     bool
	flagNoSave    bool
)

var simCmd = &cobra.Command{
	Use:   "sim <round>",
	Short: "Run a round headless with the autopilot",
	Long: `Run rounds without a screen, with the autopilot steering the claw.
The event log and outcome are printed, and results are stored unless
--no-save is given. The same seed always replays the same round.

Examples:
  clawround sim warmup
  clawround sim classic --seed ABC123
  clawround sim classic --rounds 10 --quiet`,
	Args: cobra.ExactArgs(1),
	RunE: runSim,
}

func init() {
	simCmd.Flags().StringVar(&flagSimPreset, "preset", "normal", "Preset: easy, normal, hard, fixed")
	simCmd.Flags().IntVar(&flagMaxTicks, "max-ticks", 60*600, "Give up on a round after this many ticks")
	simCmd.Flags().IntVar(&flagRounds, "rounds", 1, "Number of rounds to play")
	simCmd.Flags().BoolVar(&flagQuiet, "quiet", false, "Print only the outcome of each round")
	simCmd.Flags().BoolVar(&flagNoSave, "no-save", false, "Do not store results")
}

func runSim(_ *cobra.Command, args []string) error {
	file, err := loadConfig()
	if err != nil {
		return err
	}
	preset, err := config.ParsePreset(flagSimPreset)
	if err != nil {
		return err
	}

	cab, err := cabinet.New(file, cabinet.Options{
		Round:  args[0],
		Preset: preset,
		Seed:   flagSeed,
		Auto:   true,
		Step:   1 / float64(max(flagFPS, 1)),
		Logger: logger,
	})
	if err != nil {
		return err
	}
	defer cab.Close()

	var store *storage.Store
	if !flagNoSave {
		store = openStore()
		if store != nil {
			defer store.Close()
		}
	}
	cab.OnResult(func(r round.Result) {
		if store == nil {
			return
		}
		if _, err := store.SaveResult(storage.Entry(r, string(preset))); err != nil {
			logger.Warn("could not save result", "error", err)
		}
	})

	won := 0
	for i := 0; i < flagRounds; i++ {
		if err := cab.Start(); err != nil {
			return err
		}
		if !cab.RunToEnd(flagMaxTicks) {
			st := cab.Status()
			return fmt.Errorf("round %s (seed %s) did not finish in %d ticks, state %s", st.Round, st.Seed, flagMaxTicks, st.State)
		}

		if !flagQuiet {
			for _, e := range cab.Entries() {
				fmt.Printf("%6d  %s\n", e.Tick, e.Text)
			}
		}

		res := *cab.Status().Result
		outcome := "LOST"
		if res.Success {
			outcome = "WON"
			won++
		}
		fmt.Printf("%s %s seed %s: %d/%d in %d grabs (%d ticks)\n",
			outcome, res.Round, res.Seed, res.Total, res.Target, res.GrabsUsed, res.Ticks)
	}

	if flagRounds > 1 {
		fmt.Printf("\nwon %d of %d\n", won, flagRounds)
	}
	return nil
}
