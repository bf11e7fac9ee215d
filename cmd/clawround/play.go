package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/clawround/internal/cabinet"
	"github.com/vovakirdan/clawround/internal/config"
	"github.com/vovakirdan/clawround/internal/core"
	"github.com/vovakirdan/clawround/internal/platform/tui"
)

var (
	flagPreset string
	flagAuto   bool
)

var playCmd = &cobra.Command{
	Use:   "play [round]",
	Short: "Play a round",
	Long: `Play a round on a local cabinet. Without a round name a menu lets you
pick the round and preset, and browse stored results.

Controls:
  Left/Right/A/D - Steer the claw
  Space/Enter    - Drop the claw
  P              - Pause
  R              - Next round (after a round ends)
  Tab            - Toggle autopilot
  Esc            - Back to menu (paused or between rounds)
  Q/Ctrl+C       - Quit

Presets:
  easy   - Two extra grabs, target lowered by a fifth
  normal - The round as authored
  hard   - One grab fewer, target raised by a quarter
  fixed  - As authored, every round on the same seed

Examples:
  clawround play
  clawround play classic
  clawround play classic --preset hard
  clawround play warmup --seed ABC123 --auto`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagPreset, "preset", "normal", "Preset: easy, normal, hard, fixed")
	playCmd.Flags().BoolVar(&flagAuto, "auto", false, "Start with the autopilot playing")
}

func runPlay(_ *cobra.Command, args []string) error {
	file, err := loadConfig()
	if err != nil {
		return err
	}
	preset, err := config.ParsePreset(flagPreset)
	if err != nil {
		return err
	}

	width, height := 80, 24
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	cfg := core.DefaultConfig()
	cfg.ScreenW = width
	cfg.ScreenH = height
	cfg.TickRate = flagFPS
	cfg.Seed = flagSeed
	cfg.Preset = string(preset)
	cfg.Auto = flagAuto

	store := openStore()
	if store != nil {
		defer store.Close()
	}

	if len(args) == 0 {
		return tui.RunSession(file, store, cfg, logger)
	}

	cfg.Round = args[0]
	cab, err := cabinet.New(file, cabinet.Options{
		Round:  cfg.Round,
		Preset: preset,
		Seed:   cfg.Seed,
		Auto:   cfg.Auto,
		Step:   cfg.Step(),
		Logger: logger,
	})
	if err != nil {
		return err
	}
	defer cab.Close()

	return tui.Run(cab, store, cfg, logger)
}
