package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/vovakirdan/clawround/internal/ball"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEmbeddedMatchesDefault(t *testing.T) {
	cfg, err := parse(defaultYAML, "embedded")
	if err != nil {
		t.Fatalf("parse embedded: %v", err)
	}
	cfg.Source = ""
	if want := Default(); !reflect.DeepEqual(cfg, want) {
		t.Errorf("embedded yaml differs from Default()\n got: %+v\nwant: %+v", cfg, want)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	path := writeFile(t, t.TempDir(), "custom.yaml", `
rounds:
  - name: tiny
    target: 5
    grabs: 1
    pool:
      - {ball: red, count: 2}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Source != path {
		t.Errorf("Source = %q, expected %q", cfg.Source, path)
	}
	if got := cfg.RoundNames(); !reflect.DeepEqual(got, []string{"tiny"}) {
		t.Errorf("RoundNames() = %v", got)
	}
	if len(cfg.Balls) != len(Default().Balls) {
		t.Errorf("balls should keep defaults, got %d", len(cfg.Balls))
	}
	if cfg.Machine.Width != 27 {
		t.Errorf("machine width = %v, expected default 27", cfg.Machine.Width)
	}
}

func TestLoadMissingCustomPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing custom config")
	}
}

func TestLoadUserDirectory(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeFile(t, home, filepath.Join(".clawround", FileName), "settle:\n  clear_delay: 3\n")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Settle.ClearDelay != 3 {
		t.Errorf("ClearDelay = %v, expected 3", cfg.Settle.ClearDelay)
	}
	if !strings.Contains(cfg.Source, ".clawround") {
		t.Errorf("Source = %q, expected user config path", cfg.Source)
	}
}

func TestLoadFallsBackToEmbedded(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Source != "embedded" {
		t.Errorf("Source = %q, expected embedded", cfg.Source)
	}
}

func TestLoadInvalid(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.yaml", `
rounds:
  - name: broken
    grabs: -1
    pool:
      - {ball: ghost, count: 1}
`)
	_, err := Load(path)
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, want := range []string{"grabs must not be negative", `unknown ball "ghost"`} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %q", err, want)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(f *File)
		want   string
	}{
		{"duplicate ball", func(f *File) { f.Balls = append(f.Balls, f.Balls[0]) }, "duplicate archetype"},
		{"empty ball id", func(f *File) { f.Balls[0].ID = "" }, "empty id"},
		{"zero radius", func(f *File) { f.Balls[1].Radius = 0 }, "radius must be positive"},
		{"missing gravity scale", func(f *File) { f.Balls[2].GravityScale = 0 }, "gravity_scale must be positive"},
		{"negative gravity scale", func(f *File) { f.Balls[4].GravityScale = -1 }, "gravity_scale must be positive"},
		{"duplicate round", func(f *File) { f.Rounds = append(f.Rounds, f.Rounds[0]) }, "duplicate round"},
		{"empty round name", func(f *File) { f.Rounds[0].Name = "" }, "empty name"},
		{"negative count", func(f *File) { f.Inventory[0].Count = -2 }, "negative count"},
		{"unknown inventory ball", func(f *File) { f.Inventory[0].Ball = "ghost" }, "inventory: unknown ball"},
		{"empty spawn", func(f *File) { f.Spawn.MaxX = f.Spawn.MinX }, "spawn"},
		{"claw floor above ceiling", func(f *File) { f.Claw.Floor = 20 }, "floor must be below ceiling"},
		{"zero poll interval", func(f *File) { f.Settle.PollInterval = 0 }, "poll_interval"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Default()
			tt.modify(&f)
			err := f.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error %q does not mention %q", err, tt.want)
			}
		})
	}
}

func TestParsePreset(t *testing.T) {
	tests := []struct {
		in      string
		want    Preset
		wantErr bool
	}{
		{"", PresetNormal, false},
		{"easy", PresetEasy, false},
		{" HARD ", PresetHard, false},
		{"fixed", PresetFixed, false},
		{"nightmare", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePreset(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePreset(%q) error = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePreset(%q) = %q, expected %q", tt.in, got, tt.want)
		}
	}
}

func TestPresetApply(t *testing.T) {
	base := RoundConfig{Name: "r", Target: 80, Grabs: 4}
	tests := []struct {
		preset    Preset
		grabs     int
		target    int
		fixedSeed bool
	}{
		{PresetEasy, 6, 64, false},
		{PresetNormal, 4, 80, false},
		{PresetHard, 3, 100, false},
		{PresetFixed, 4, 80, true},
	}
	for _, tt := range tests {
		got := tt.preset.Apply(base)
		if got.Grabs != tt.grabs || got.Target != tt.target {
			t.Errorf("%s: grabs %d target %d, expected %d %d", tt.preset, got.Grabs, got.Target, tt.grabs, tt.target)
		}
		if (tt.preset.Seed() != "") != tt.fixedSeed {
			t.Errorf("%s: Seed() = %q", tt.preset, tt.preset.Seed())
		}
	}

	one := PresetHard.Apply(RoundConfig{Grabs: 1, Target: 10})
	if one.Grabs != 1 {
		t.Errorf("hard preset must keep at least one grab, got %d", one.Grabs)
	}
}

func TestResolve(t *testing.T) {
	f := Default()
	cfg, inv, err := f.Resolve("classic", PresetEasy)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if cfg.Name != "classic" || cfg.GrabCount != 6 || cfg.TargetScore != 64 {
		t.Errorf("Resolve() = %+v", cfg)
	}
	if got := len(ball.Expand(cfg.DefaultPool)); got != 19 {
		t.Errorf("pool expands to %d balls, expected 19", got)
	}
	if len(inv.Owned) != 1 || inv.Owned[0].Archetype.ID != "blue" || inv.Owned[0].Count != 2 {
		t.Errorf("inventory = %+v", inv.Owned)
	}

	if _, _, err := f.Resolve("missing", PresetNormal); !errors.Is(err, ErrUnknownRound) {
		t.Errorf("Resolve(missing) error = %v, expected ErrUnknownRound", err)
	}
}

func TestSettingsAndPhysics(t *testing.T) {
	f := Default()
	s := f.Settings()
	if s.Claw.DropX != 24 || s.GrabRadius != 1.6 || s.SpawnPerTick != 4 {
		t.Errorf("Settings() = %+v", s)
	}
	if s.Arena.Max.X() != 19.5 || s.Arena.Max.Y() != 7 {
		t.Errorf("arena = %+v", s.Arena)
	}
	p := f.Physics()
	if p.PartitionX != 20.5 || p.ZoneMin.X() != 21 || p.ZoneMax.Y() != 6 || p.Iterations != 3 {
		t.Errorf("Physics() = %+v", p)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	data, err := Marshal(Default())
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), "category: multiplier") {
		t.Errorf("categories should marshal as names:\n%s", data)
	}
}
