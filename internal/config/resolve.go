package config

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/clawround/internal/ball"
	"github.com/vovakirdan/clawround/internal/claw"
	"github.com/vovakirdan/clawround/internal/physics"
	"github.com/vovakirdan/clawround/internal/placement"
	"github.com/vovakirdan/clawround/internal/round"
	"github.com/vovakirdan/clawround/internal/settle"
)

// ErrUnknownRound is returned by Resolve for a round name not in the file.
var ErrUnknownRound = errors.New("config: unknown round")

// Validate checks the document and reports every problem found.
func (f *File) Validate() error {
	var errs []error

	if _, err := f.Catalog(); err != nil {
		errs = append(errs, err)
	}
	for _, b := range f.Balls {
		if b.ID == "" {
			errs = append(errs, errors.New("ball with empty id"))
		}
		if b.Radius <= 0 {
			errs = append(errs, fmt.Errorf("ball %q: radius must be positive", b.ID))
		}
		if b.GravityScale <= 0 {
			errs = append(errs, fmt.Errorf("ball %q: gravity_scale must be positive", b.ID))
		}
		if b.Value < 0 {
			errs = append(errs, fmt.Errorf("ball %q: value must not be negative", b.ID))
		}
	}

	seen := make(map[string]bool, len(f.Rounds))
	for _, r := range f.Rounds {
		if r.Name == "" {
			errs = append(errs, errors.New("round with empty name"))
		}
		if seen[r.Name] {
			errs = append(errs, fmt.Errorf("duplicate round %q", r.Name))
		}
		seen[r.Name] = true
		if r.Grabs < 0 {
			errs = append(errs, fmt.Errorf("round %q: grabs must not be negative", r.Name))
		}
		if r.Target < 0 {
			errs = append(errs, fmt.Errorf("round %q: target must not be negative", r.Name))
		}
		errs = append(errs, f.checkPool("round "+r.Name, r.Pool)...)
	}
	errs = append(errs, f.checkPool("inventory", f.Inventory)...)

	if f.Spawn.MaxX <= f.Spawn.MinX || f.Spawn.MaxY <= f.Spawn.MinY {
		errs = append(errs, errors.New("spawn: empty rectangle"))
	}
	if f.Claw.MinX > f.Claw.MaxX {
		errs = append(errs, errors.New("claw: min_x greater than max_x"))
	}
	if f.Claw.Floor >= f.Claw.Ceiling {
		errs = append(errs, errors.New("claw: floor must be below ceiling"))
	}
	if f.Settle.PollInterval <= 0 || f.Settle.WaitDuration <= 0 {
		errs = append(errs, errors.New("settle: poll_interval and wait_duration must be positive"))
	}

	return errors.Join(errs...)
}

func (f *File) checkPool(owner string, pool []PoolEntry) []error {
	ids := make(map[string]bool, len(f.Balls))
	for _, b := range f.Balls {
		ids[b.ID] = true
	}
	var errs []error
	for _, e := range pool {
		if !ids[e.Ball] {
			errs = append(errs, fmt.Errorf("%s: unknown ball %q", owner, e.Ball))
		}
		if e.Count < 0 {
			errs = append(errs, fmt.Errorf("%s: negative count for %q", owner, e.Ball))
		}
	}
	return errs
}

// Catalog builds the ball catalog.
func (f *File) Catalog() (*ball.Catalog, error) {
	archetypes := make([]*ball.Archetype, 0, len(f.Balls))
	for _, b := range f.Balls {
		archetypes = append(archetypes, &ball.Archetype{
			ID:           b.ID,
			Kind:         b.Category,
			Amount:       b.Value,
			Radius:       b.Radius,
			Mass:         b.Mass,
			Drag:         b.Drag,
			GravityScale: b.GravityScale,
			Visual:       b.Visual,
		})
	}
	return ball.NewCatalog(archetypes...)
}

// Resolve turns an authored round, adjusted by preset, into the values the
// orchestrator consumes. The file's inventory becomes the player inventory.
func (f *File) Resolve(name string, preset Preset) (round.Configuration, round.Inventory, error) {
	rc, ok := f.Round(name)
	if !ok {
		return round.Configuration{}, round.Inventory{}, fmt.Errorf("%w: %q", ErrUnknownRound, name)
	}
	catalog, err := f.Catalog()
	if err != nil {
		return round.Configuration{}, round.Inventory{}, err
	}

	rc = preset.Apply(rc)
	pool, err := requests(catalog, rc.Pool)
	if err != nil {
		return round.Configuration{}, round.Inventory{}, fmt.Errorf("round %q: %w", name, err)
	}
	owned, err := requests(catalog, f.Inventory)
	if err != nil {
		return round.Configuration{}, round.Inventory{}, fmt.Errorf("inventory: %w", err)
	}

	cfg := round.Configuration{
		Name:        rc.Name,
		TargetScore: rc.Target,
		GrabCount:   rc.Grabs,
		DefaultPool: pool,
	}
	return cfg, round.Inventory{Owned: owned}, nil
}

func requests(catalog *ball.Catalog, pool []PoolEntry) ([]ball.SpawnRequest, error) {
	out := make([]ball.SpawnRequest, 0, len(pool))
	for _, e := range pool {
		a, ok := catalog.Lookup(e.Ball)
		if !ok {
			return nil, fmt.Errorf("unknown ball %q", e.Ball)
		}
		out = append(out, ball.SpawnRequest{Archetype: a, Count: e.Count})
	}
	return out, nil
}

// Settings returns orchestrator settings.
func (f *File) Settings() round.Settings {
	c := f.Claw
	return round.Settings{
		Arena: placement.Arena{
			Min: mgl64.Vec2{f.Spawn.MinX, f.Spawn.MinY},
			Max: mgl64.Vec2{f.Spawn.MaxX, f.Spawn.MaxY},
		},
		Claw: claw.Config{
			HomeX:        c.HomeX,
			MinX:         c.MinX,
			MaxX:         c.MaxX,
			Floor:        c.Floor,
			Ceiling:      c.Ceiling,
			DropX:        c.DropX,
			Tolerance:    c.Tolerance,
			MoveSpeed:    c.MoveSpeed,
			DescendSpeed: c.DescendSpeed,
			AscendSpeed:  c.AscendSpeed,
			ReturnSpeed:  c.ReturnSpeed,
			GrabDwell:    c.GrabDwell,
			JawOpen:      c.JawOpen,
			JawClosed:    c.JawClosed,
			SwingMax:     c.SwingMax,
			Smoothing:    c.Smoothing,
		},
		Settle: settle.Config{
			PollInterval:      f.Settle.PollInterval,
			VelocityThreshold: f.Settle.VelocityThreshold,
			WaitDuration:      f.Settle.WaitDuration,
			ArrivalGrace:      f.Settle.ArrivalGrace,
		},
		MaxRetries:   f.Spawn.MaxRetries,
		SpawnPerTick: f.Spawn.PerTick,
		ClearDelay:   f.Settle.ClearDelay,
		GrabRadius:   c.GrabRadius,
		MaxCarry:     c.MaxCarry,
		CarrySpacing: c.CarrySpacing,
		ReleasePush:  c.ReleasePush,
	}
}

// Physics returns the physics world configuration.
func (f *File) Physics() physics.Config {
	m := f.Machine
	return physics.Config{
		Width:           m.Width,
		Height:          m.Height,
		PartitionX:      m.PartitionX,
		PartitionTop:    m.PartitionTop,
		ZoneMin:         mgl64.Vec2{m.ZoneMinX, m.ZoneMinY},
		ZoneMax:         mgl64.Vec2{m.ZoneMaxX, m.ZoneMaxY},
		Gravity:         m.Gravity,
		Restitution:     m.Restitution,
		Friction:        m.Friction,
		ContactFriction: m.ContactFriction,
		RestSpeed:       m.RestSpeed,
		SleepSpeed:      m.SleepSpeed,
		SleepTime:       m.SleepTime,
		WakeSpeed:       m.WakeSpeed,
		MaxSpeed:        m.MaxSpeed,
		Iterations:      m.Iterations,
	}
}
