package core

import "time"

// RuntimeConfig contains what a frontend needs to run rounds.
type RuntimeConfig struct {
	ScreenW  int    // Screen width in characters
	ScreenH  int    // Screen height in characters
	TickRate int    // Simulation ticks per second (default 60)
	Seed     string // Run seed; empty means generate one
	Round    string // Authored round to play
	Preset   string // Difficulty preset name
	Auto     bool   // Let the pilot play
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
		Round:    "classic",
		Preset:   "normal",
	}
}

// Step returns the fixed simulation step in seconds.
func (c RuntimeConfig) Step() float64 {
	if c.TickRate <= 0 {
		return 1.0 / 60.0
	}
	return 1 / float64(c.TickRate)
}

// Interval returns the wall-clock time between ticks.
func (c RuntimeConfig) Interval() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / 60
	}
	return time.Second / time.Duration(c.TickRate)
}
