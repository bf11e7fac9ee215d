package round

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/clawround/internal/ball"
	"github.com/vovakirdan/clawround/internal/claw"
	"github.com/vovakirdan/clawround/internal/event"
	"github.com/vovakirdan/clawround/internal/grab"
	"github.com/vovakirdan/clawround/internal/placement"
	"github.com/vovakirdan/clawround/internal/rng"
	"github.com/vovakirdan/clawround/internal/score"
	"github.com/vovakirdan/clawround/internal/settle"
)

// Orchestrator is the round lifecycle state machine.
type Orchestrator struct {
	settings Settings
	bus      *event.Bus
	rng      *rng.Registry
	physics  Physics
	logger   *log.Logger

	arena    *Arena
	claw     *claw.Machine
	budget   *grab.Budget
	detector *settle.Detector
	score    *score.Aggregator
	placer   *placement.Engine
	subs     event.Group

	state     State
	config    *Configuration
	inventory *Inventory

	// Starting
	pending []placement.Placement
	spawned int
	skipped int

	// Playing
	awaitingFinal bool
	clearPending  bool
	clearTimer    float64
	grabsUsed     int

	// Ending
	endingTicks int
	success     bool

	ticks      int // Ticks since StartRound
	lastResult *Result
}

// New builds an orchestrator and every component it sequences. The
// registry must be initialized before StartRound.
func New(settings Settings, bus *event.Bus, reg *rng.Registry, physics Physics, logger *log.Logger) *Orchestrator {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if physics == nil {
		physics = nopPhysics{}
	}
	o := &Orchestrator{
		settings: settings,
		bus:      bus,
		rng:      reg,
		physics:  physics,
		logger:   logger.WithPrefix("round"),
	}

	o.arena = NewArena(physics, settings.CarrySpacing)
	o.claw = claw.New(settings.Claw, bus, logger)
	o.budget = grab.NewBudget(bus, logger)
	o.detector = settle.NewDetector(settings.Settle, bus, o.arena, o.arena, logger)
	o.score = score.NewAggregator(bus, logger)
	o.placer = placement.NewEngine(settings.MaxRetries, logger)

	o.subs.Add(
		event.Subscribe(bus, o.onGrabStarted),
		event.Subscribe(bus, o.onJawClosed),
		event.Subscribe(bus, o.onGrabReleased),
		event.Subscribe(bus, o.onCountChanged),
		event.Subscribe(bus, o.onBatchSettled),
		event.Subscribe(bus, o.onScoreChanged),
	)
	return o
}

// Close releases the orchestrator's subscriptions.
func (o *Orchestrator) Close() {
	o.subs.Cancel()
}

// StartRound begins a round. Rejected unless Idle.
func (o *Orchestrator) StartRound(cfg Configuration, inv Inventory) bool {
	if o.state != StateIdle {
		o.logger.Error("start rejected, round already active", "state", o.state, "round", cfg.Name)
		return false
	}

	o.config = &cfg
	o.inventory = &inv
	o.ticks = 0
	o.grabsUsed = 0
	o.awaitingFinal = false
	o.clearPending = false
	o.lastResult = nil
	o.setState(StateStarting)

	o.score.Reset(cfg.TargetScore)
	o.budget.Initialize(cfg.GrabCount)

	pool := ball.Expand(ball.Merge(cfg.DefaultPool, inv.Owned))
	res := o.placer.Place(o.settings.Arena, pool, o.rng.Stream(rng.StreamPlacement))
	o.pending = res.Placed
	o.spawned = 0
	o.skipped = res.Skipped

	o.logger.Info("round starting",
		"round", cfg.Name,
		"seed", o.rng.Seed(),
		"target", cfg.TargetScore,
		"grabs", cfg.GrabCount,
		"balls", len(res.Placed),
		"skipped", res.Skipped,
	)
	return true
}

// EndRound finishes a playing round. Rejected unless Playing.
func (o *Orchestrator) EndRound(success bool) bool {
	if o.state != StatePlaying {
		o.logger.Debug("end rejected", "state", o.state)
		return false
	}
	o.success = success
	o.setState(StateEnding)

	o.claw.Disable()
	o.arena.Clear()
	o.detector.Discard()
	o.clearPending = false
	o.awaitingFinal = false
	o.endingTicks = 0

	o.logger.Info("round ending", "success", success, "total", o.score.Total(), "target", o.score.Target())
	return true
}

// Tick advances the round by dt seconds.
func (o *Orchestrator) Tick(dt float64, in claw.Input) {
	if o.state == StateIdle {
		return
	}
	o.ticks++

	switch o.state {
	case StateStarting:
		o.spawnStep()
	case StatePlaying:
		o.clearStep(dt)
	}

	o.physics.Step(dt)
	o.routeZoneEvents()
	o.detector.Update(dt)

	if o.state == StatePlaying {
		o.claw.Update(dt, in)
		o.arena.Carry(o.claw.Position())
	}

	if o.state == StateEnding {
		if o.endingTicks > 0 {
			o.finish()
			return
		}
		o.endingTicks++
	}
}

func (o *Orchestrator) spawnStep() {
	n := o.settings.SpawnPerTick
	if n <= 0 {
		n = len(o.pending)
	}
	for i := 0; i < n && o.spawned < len(o.pending); i++ {
		p := o.pending[o.spawned]
		o.arena.Spawn(p.Archetype, p.Position, true)
		o.spawned++
	}
	if o.spawned < len(o.pending) {
		return
	}

	o.arena.Activate()
	o.pending = nil
	o.bus.Publish(SpawnCompleted{Count: o.spawned, Skipped: o.skipped})
	o.claw.Enable()
	o.setState(StatePlaying)

	switch {
	case o.score.Reached():
		o.EndRound(true)
	case o.budget.Remaining() == 0:
		o.logger.Warn("round has no grabs")
		o.EndRound(false)
	}
}

func (o *Orchestrator) clearStep(dt float64) {
	if !o.clearPending {
		return
	}
	o.clearTimer += dt
	if o.clearTimer < o.settings.ClearDelay {
		return
	}
	o.clearPending = false
	o.detector.Clear()
	o.claw.SettlementComplete()
}

func (o *Orchestrator) routeZoneEvents() {
	entered, exited := o.physics.DrainZoneEvents()
	for _, h := range entered {
		if o.state != StatePlaying {
			break
		}
		if b, ok := o.arena.Ball(h); ok && !b.Grabbed {
			o.arena.SetSettling(h, true)
			o.detector.Enter(h)
		}
	}
	for _, h := range exited {
		o.arena.SetSettling(h, false)
		o.detector.Exit(h)
	}
}

func (o *Orchestrator) finish() {
	res := Result{
		Seed:      o.rng.Seed(),
		Success:   o.success,
		Total:     o.score.Total(),
		Target:    o.score.Target(),
		GrabsUsed: o.grabsUsed,
		Ticks:     o.ticks,
	}
	if o.config != nil {
		res.Round = o.config.Name
	}
	o.lastResult = &res
	o.config = nil
	o.inventory = nil
	o.score.Reset(0)
	o.budget.Initialize(0)
	o.setState(StateIdle)

	o.logger.Info("round finished", "success", res.Success, "total", res.Total, "grabs", res.GrabsUsed)
	o.bus.Publish(res)
}

func (o *Orchestrator) setState(to State) {
	if to == o.state {
		return
	}
	from := o.state
	o.state = to
	o.logger.Debug("state changed", "from", from, "to", to)
	o.bus.Publish(StateChanged{From: from, To: to})
}

func (o *Orchestrator) onGrabStarted(claw.GrabStarted) {
	if o.state != StatePlaying {
		return
	}
	if o.budget.Consume() {
		o.grabsUsed++
	}
}

func (o *Orchestrator) onJawClosed(e claw.JawClosed) {
	if o.state != StatePlaying {
		return
	}
	at := mgl64.Vec2{e.X, e.Y}
	for _, h := range o.arena.Grab(at, o.settings.GrabRadius, o.settings.MaxCarry) {
		o.bus.Publish(BallGrabbed{Handle: h})
	}
}

func (o *Orchestrator) onGrabReleased(claw.GrabReleased) {
	if o.state != StatePlaying {
		return
	}
	for _, h := range o.arena.Drop(o.settings.ReleasePush) {
		o.bus.Publish(BallDropped{Handle: h})
	}
	o.detector.Expect()
}

func (o *Orchestrator) onCountChanged(e grab.CountChanged) {
	if o.state != StatePlaying {
		return
	}
	// The in-flight grab still gets scored.
	o.awaitingFinal = e.Remaining == 0
}

func (o *Orchestrator) onBatchSettled(e settle.BatchSettled) {
	if o.state != StatePlaying {
		return
	}
	o.score.Apply(o.arena.Valued(e.Bodies))
	if o.state != StatePlaying {
		return
	}

	if o.awaitingFinal {
		// Final batch scored nothing or fell short; no further score event
		// can arrive.
		o.EndRound(false)
		return
	}
	o.clearPending = true
	o.clearTimer = 0
}

func (o *Orchestrator) onScoreChanged(e score.Changed) {
	if o.state != StatePlaying {
		return
	}
	if e.Total >= o.score.Target() {
		o.EndRound(true)
		return
	}
	if o.awaitingFinal {
		o.EndRound(false)
	}
}

// State returns the current round state.
func (o *Orchestrator) State() State { return o.state }

// Config returns the active round configuration, or nil when Idle.
func (o *Orchestrator) Config() *Configuration { return o.config }

// Inventory returns the active inventory, or nil when Idle.
func (o *Orchestrator) Inventory() *Inventory { return o.inventory }

// LastResult returns the most recent round result, if any.
func (o *Orchestrator) LastResult() (Result, bool) {
	if o.lastResult == nil {
		return Result{}, false
	}
	return *o.lastResult, true
}

// AwaitingFinal reports whether the budget is spent and the last batch is
// still outstanding.
func (o *Orchestrator) AwaitingFinal() bool { return o.awaitingFinal }

// Ticks returns ticks elapsed since the round started.
func (o *Orchestrator) Ticks() int { return o.ticks }

// Seed returns the run seed.
func (o *Orchestrator) Seed() string { return o.rng.Seed() }

// Arena returns the live ball owner.
func (o *Orchestrator) Arena() *Arena { return o.arena }

// Claw returns the claw state machine.
func (o *Orchestrator) Claw() *claw.Machine { return o.claw }

// Budget returns the grab budget.
func (o *Orchestrator) Budget() *grab.Budget { return o.budget }

// Detector returns the settlement detector.
func (o *Orchestrator) Detector() *settle.Detector { return o.detector }

// Score returns the score aggregator.
func (o *Orchestrator) Score() *score.Aggregator { return o.score }

// Settings returns the orchestrator settings.
func (o *Orchestrator) Settings() Settings { return o.settings }
