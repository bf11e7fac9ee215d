// Package pilot plays a round without a human: it aims the claw at the
// densest cluster of free balls and triggers a grab once lined up.
package pilot

import (
	"io"
	"math"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/clawround/internal/claw"
	"github.com/vovakirdan/clawround/internal/rng"
	"github.com/vovakirdan/clawround/internal/round"
)

// View is what the pilot reads from a running round.
type View interface {
	State() round.State
	Claw() *claw.Machine
	Arena() *round.Arena
	Settings() round.Settings
}

// Pilot produces claw input from the round state. Aim jitter comes from a
// seeded stream, so a seeded run replays identically.
type Pilot struct {
	stream *rng.Stream
	logger *log.Logger

	Jitter   float64 // Maximum random aim offset
	Deadband float64 // Alignment tolerance before grabbing

	target float64
	aiming bool
}

// New creates a pilot drawing jitter from stream. A nil stream aims exactly.
func New(stream *rng.Stream, logger *log.Logger) *Pilot {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Pilot{
		stream:   stream,
		logger:   logger.WithPrefix("pilot"),
		Jitter:   0.3,
		Deadband: 0.1,
	}
}

// Input returns this tick's input.
func (p *Pilot) Input(v View) claw.Input {
	if v.State() != round.StatePlaying {
		p.aiming = false
		return claw.Input{}
	}
	m := v.Claw()
	if m.State() != claw.StateIdle {
		p.aiming = false
		return claw.Input{}
	}

	if !p.aiming {
		x, ok := p.pick(v)
		if !ok {
			// Nothing left to aim at; grab where we are.
			return claw.Input{Activate: true}
		}
		p.target = x
		p.aiming = true
		p.logger.Debug("aiming", "x", x)
	}

	dx := p.target - m.Position().X()
	if math.Abs(dx) <= p.Deadband {
		p.aiming = false
		return claw.Input{Activate: true}
	}
	// Ease in over the last unit so the claw does not overshoot.
	return claw.Input{Axis: mgl64.Clamp(dx, -1, 1)}
}

// pick returns the x with the most free balls within grab reach.
func (p *Pilot) pick(v View) (float64, bool) {
	cfg := v.Claw().Config()
	reach := v.Settings().GrabRadius
	arena := v.Arena()

	var xs []float64
	for _, b := range arena.Balls() {
		if b.Grabbed || b.Settling {
			continue
		}
		pos, ok := arena.Position(b.Handle)
		if !ok || pos.X() < cfg.MinX-reach || pos.X() > cfg.MaxX+reach {
			continue
		}
		xs = append(xs, pos.X())
	}
	if len(xs) == 0 {
		return 0, false
	}

	best, bestCount := xs[0], 0
	for _, x := range xs {
		count := 0
		for _, other := range xs {
			if math.Abs(other-x) <= reach {
				count++
			}
		}
		if count > bestCount {
			best, bestCount = x, count
		}
	}

	if p.stream != nil && p.Jitter > 0 {
		best += p.stream.Range(-p.Jitter, p.Jitter)
	}
	return mgl64.Clamp(best, cfg.MinX, cfg.MaxX), true
}
