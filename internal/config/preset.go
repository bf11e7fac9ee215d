package config

import (
	"fmt"
	"math"
	"strings"
)

// Preset is a named difficulty adjustment applied to an authored round.
type Preset string

const (
	PresetEasy   Preset = "easy"
	PresetNormal Preset = "normal"
	PresetHard   Preset = "hard"
	PresetFixed  Preset = "fixed"
)

// FixedSeed is the seed every round uses under PresetFixed.
const FixedSeed = "FIXED0"

// Presets lists the presets in display order.
func Presets() []Preset {
	return []Preset{PresetEasy, PresetNormal, PresetHard, PresetFixed}
}

// ParsePreset parses a preset name. An empty name is PresetNormal.
func ParsePreset(s string) (Preset, error) {
	switch p := Preset(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PresetNormal, nil
	case PresetEasy, PresetNormal, PresetHard, PresetFixed:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown preset %q", s)
	}
}

// Apply adjusts grabs and target for the preset. Easy gives two extra grabs
// and a lower target; hard takes a grab away (never below one) and raises the
// target. Normal and fixed play the round as authored.
func (p Preset) Apply(r RoundConfig) RoundConfig {
	switch p {
	case PresetEasy:
		r.Grabs += 2
		r.Target = scaleTarget(r.Target, 0.8)
	case PresetHard:
		if r.Grabs > 1 {
			r.Grabs--
		}
		r.Target = scaleTarget(r.Target, 1.25)
	}
	return r
}

// Seed returns the seed a preset pins, or "" when the run seed is free.
func (p Preset) Seed() string {
	if p == PresetFixed {
		return FixedSeed
	}
	return ""
}

func scaleTarget(target int, f float64) int {
	return int(math.Round(float64(target) * f))
}
