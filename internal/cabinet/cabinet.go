// Package cabinet runs one claw machine: the event bus, the seeded random
// registry, the physics world, the round orchestrator and an optional pilot.
// Frontends step it at a fixed rate and draw it into a core.Screen; the
// headless simulator steps it in a loop.
package cabinet

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/clawround/internal/ball"
	"github.com/vovakirdan/clawround/internal/claw"
	"github.com/vovakirdan/clawround/internal/config"
	"github.com/vovakirdan/clawround/internal/core"
	"github.com/vovakirdan/clawround/internal/event"
	"github.com/vovakirdan/clawround/internal/grab"
	"github.com/vovakirdan/clawround/internal/physics"
	"github.com/vovakirdan/clawround/internal/pilot"
	"github.com/vovakirdan/clawround/internal/rng"
	"github.com/vovakirdan/clawround/internal/round"
	"github.com/vovakirdan/clawround/internal/score"
	"github.com/vovakirdan/clawround/internal/settle"
)

// steerHold is how long a steering key press keeps the claw moving.
const steerHold = 0.12

// Options select what a cabinet plays.
type Options struct {
	Round  string
	Preset config.Preset
	Seed   string // First round seed; empty generates one
	Auto   bool   // Let the pilot play
	Step   float64
	Logger *log.Logger
}

// Entry is one line of the round's event log.
type Entry struct {
	Tick int
	Text string
}

// Status is a snapshot for HUDs and callers.
type Status struct {
	Round     string
	Preset    config.Preset
	Seed      string
	State     round.State
	Claw      claw.State
	Total     int
	Target    int
	Remaining int
	Rounds    int // Rounds started on this cabinet
	Paused    bool
	Auto      bool
	Result    *round.Result // Outcome of the last finished round
}

// Cabinet owns one running machine.
type Cabinet struct {
	file   *config.File
	opts   Options
	logger *log.Logger

	bus      *event.Bus
	reg      *rng.Registry
	world    *physics.World
	orch     *round.Orchestrator
	pilot    *pilot.Pilot
	steering *core.Steering
	subs     event.Group

	rounds   int
	paused   bool
	auto     bool
	entries  []Entry
	onResult []func(round.Result)
}

// New builds a cabinet for the configured round. The round is not started
// until Start.
func New(file *config.File, opts Options) (*Cabinet, error) {
	if file == nil {
		d := config.Default()
		file = &d
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	if opts.Step <= 0 {
		opts.Step = 1.0 / 60.0
	}
	if opts.Preset == "" {
		opts.Preset = config.PresetNormal
	}
	if opts.Seed != "" && !rng.ValidSeed(opts.Seed) {
		return nil, fmt.Errorf("cabinet: invalid seed %q", opts.Seed)
	}
	if _, _, err := file.Resolve(opts.Round, opts.Preset); err != nil {
		return nil, fmt.Errorf("cabinet: %w", err)
	}

	c := &Cabinet{
		file:     file,
		opts:     opts,
		logger:   opts.Logger.WithPrefix("cabinet"),
		bus:      event.NewBus(),
		reg:      rng.NewRegistry(),
		steering: core.NewSteering(steerHold),
		auto:     opts.Auto,
	}
	// Subscribed ahead of the orchestrator so the log reads in causal order.
	c.subs.Add(
		event.Subscribe(c.bus, c.onRoundState),
		event.Subscribe(c.bus, c.onSpawnCompleted),
		event.Subscribe(c.bus, c.onCount),
		event.Subscribe(c.bus, c.onGrabbed),
		event.Subscribe(c.bus, c.onDropped),
		event.Subscribe(c.bus, c.onBatch),
		event.Subscribe(c.bus, c.onScore),
		event.Subscribe(c.bus, c.onResultEvent),
	)
	c.world = physics.New(file.Physics(), opts.Logger)
	c.orch = round.New(file.Settings(), c.bus, c.reg, c.world, opts.Logger)
	return c, nil
}

// OnResult registers fn to run for every finished round.
func (c *Cabinet) OnResult(fn func(round.Result)) {
	c.onResult = append(c.onResult, fn)
}

// Start begins the next round. The first round uses the configured seed;
// later rounds draw a fresh one unless the preset pins a seed.
func (c *Cabinet) Start() error {
	if c.orch.State() != round.StateIdle {
		return fmt.Errorf("cabinet: round already %s", c.orch.State())
	}
	cfg, inv, err := c.file.Resolve(c.opts.Round, c.opts.Preset)
	if err != nil {
		return fmt.Errorf("cabinet: %w", err)
	}

	seed := c.opts.Preset.Seed()
	if seed == "" && c.rounds == 0 {
		seed = c.opts.Seed
	}
	seed = c.reg.Initialize(seed)
	c.pilot = pilot.New(c.reg.Stream(rng.StreamPilot), c.opts.Logger)
	c.steering.Release()
	c.entries = nil
	c.paused = false

	if !c.orch.StartRound(cfg, inv) {
		return fmt.Errorf("cabinet: round %q rejected", cfg.Name)
	}
	c.rounds++
	c.logger.Debug("round started", "round", cfg.Name, "seed", seed, "preset", c.opts.Preset)
	return nil
}

// Step advances the machine by one fixed tick using this frame's actions.
func (c *Cabinet) Step(in core.InputFrame) {
	if in.Has(core.ActionPause) && c.orch.State() != round.StateIdle {
		c.paused = !c.paused
		c.steering.Release()
	}
	if in.Has(core.ActionAuto) {
		c.auto = !c.auto
		c.steering.Release()
	}
	if in.Has(core.ActionRestart) && c.orch.State() == round.StateIdle {
		if err := c.Start(); err != nil {
			c.logger.Error("restart failed", "error", err)
		}
		return
	}
	if c.paused {
		return
	}

	var ci claw.Input
	if c.auto && c.pilot != nil {
		ci = c.pilot.Input(c.orch)
	} else {
		ci = c.steering.Advance(in, c.opts.Step)
	}
	c.orch.Tick(c.opts.Step, ci)
}

// RunToEnd steps the current round until it finishes or maxTicks elapse.
// It reports whether the round finished.
func (c *Cabinet) RunToEnd(maxTicks int) bool {
	empty := core.NewInputFrame()
	for i := 0; i < maxTicks; i++ {
		if c.orch.State() == round.StateIdle {
			return true
		}
		c.Step(empty)
	}
	return c.orch.State() == round.StateIdle
}

// Status returns a snapshot of the machine.
func (c *Cabinet) Status() Status {
	st := Status{
		Round:     c.opts.Round,
		Preset:    c.opts.Preset,
		State:     c.orch.State(),
		Claw:      c.orch.Claw().State(),
		Total:     c.orch.Score().Total(),
		Target:    c.orch.Score().Target(),
		Remaining: c.orch.Budget().Remaining(),
		Rounds:    c.rounds,
		Paused:    c.paused,
		Auto:      c.auto,
	}
	if c.reg.Initialized() {
		st.Seed = c.reg.Seed()
	}
	if res, ok := c.orch.LastResult(); ok {
		st.Result = &res
		if st.State == round.StateIdle {
			st.Total, st.Target = res.Total, res.Target
		}
	}
	return st
}

// Entries returns the current round's event log.
func (c *Cabinet) Entries() []Entry {
	return c.entries
}

// Orchestrator exposes the round state machine.
func (c *Cabinet) Orchestrator() *round.Orchestrator { return c.orch }

// World exposes the physics world.
func (c *Cabinet) World() *physics.World { return c.world }

// Close releases every subscription.
func (c *Cabinet) Close() {
	c.subs.Cancel()
	c.orch.Close()
}

func (c *Cabinet) logf(format string, args ...any) {
	c.entries = append(c.entries, Entry{Tick: c.orch.Ticks(), Text: fmt.Sprintf(format, args...)})
}

func (c *Cabinet) ballName(h ball.Handle) string {
	if b, ok := c.orch.Arena().Ball(h); ok {
		return b.Archetype.ID
	}
	return "ball"
}

func (c *Cabinet) onRoundState(e round.StateChanged) {
	c.logf("round %s -> %s", e.From, e.To)
}

func (c *Cabinet) onSpawnCompleted(e round.SpawnCompleted) {
	if e.Skipped > 0 {
		c.logf("spawned %d balls, %d did not fit", e.Count, e.Skipped)
		return
	}
	c.logf("spawned %d balls", e.Count)
}

func (c *Cabinet) onCount(e grab.CountChanged) {
	if c.orch.State() != round.StatePlaying {
		return
	}
	c.logf("grabs left: %d", e.Remaining)
}

func (c *Cabinet) onGrabbed(e round.BallGrabbed) {
	c.logf("grabbed %s #%d", c.ballName(e.Handle), e.Handle)
}

func (c *Cabinet) onDropped(e round.BallDropped) {
	c.logf("dropped %s #%d", c.ballName(e.Handle), e.Handle)
}

func (c *Cabinet) onBatch(e settle.BatchSettled) {
	c.logf("batch settled: %d balls", len(e.Bodies))
}

func (c *Cabinet) onScore(e score.Changed) {
	c.logf("score +%d = %d", e.Delta, e.Total)
}

func (c *Cabinet) onResultEvent(r round.Result) {
	outcome := "lost"
	if r.Success {
		outcome = "won"
	}
	c.logf("round %s: %d/%d in %d grabs", outcome, r.Total, r.Target, r.GrabsUsed)
	for _, fn := range c.onResult {
		fn(r)
	}
}
