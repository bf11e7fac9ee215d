package round

import (
	"slices"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/clawround/internal/ball"
	"github.com/vovakirdan/clawround/internal/claw"
	"github.com/vovakirdan/clawround/internal/event"
	"github.com/vovakirdan/clawround/internal/rng"
)

const dt = 1.0 / 60.0

type stubBody struct {
	pos       mgl64.Vec2
	speed     float64
	kinematic bool
	inZone    bool
}

// stubPhysics teleports nothing and integrates nothing: bodies stay where
// they are put. The zone is an x-range checked for dynamic bodies only.
type stubPhysics struct {
	bodies   map[ball.Handle]*stubBody
	zoneMinX float64
	zoneMaxX float64
	entered  []ball.Handle
	exited   []ball.Handle
	forces   int
	removed  []ball.Handle
}

func newStubPhysics() *stubPhysics {
	return &stubPhysics{
		bodies:   make(map[ball.Handle]*stubBody),
		zoneMinX: 22,
		zoneMaxX: 26,
	}
}

func (p *stubPhysics) Spawn(h ball.Handle, _ *ball.Archetype, pos mgl64.Vec2) {
	p.bodies[h] = &stubBody{pos: pos}
}

func (p *stubPhysics) Remove(h ball.Handle) {
	delete(p.bodies, h)
	p.removed = append(p.removed, h)
}

func (p *stubPhysics) Position(h ball.Handle) (mgl64.Vec2, bool) {
	b, ok := p.bodies[h]
	if !ok {
		return mgl64.Vec2{}, false
	}
	return b.pos, true
}

func (p *stubPhysics) Speed(h ball.Handle) (float64, bool) {
	b, ok := p.bodies[h]
	if !ok {
		return 0, false
	}
	return b.speed, true
}

func (p *stubPhysics) ApplyForce(ball.Handle, mgl64.Vec2) { p.forces++ }

func (p *stubPhysics) SetKinematic(h ball.Handle, on bool) {
	if b, ok := p.bodies[h]; ok {
		b.kinematic = on
	}
}

func (p *stubPhysics) MoveTo(h ball.Handle, pos mgl64.Vec2) {
	if b, ok := p.bodies[h]; ok {
		b.pos = pos
	}
}

func (p *stubPhysics) Step(float64) {
	handles := make([]ball.Handle, 0, len(p.bodies))
	for h := range p.bodies {
		handles = append(handles, h)
	}
	slices.Sort(handles)

	for _, h := range handles {
		b := p.bodies[h]
		if b.kinematic {
			continue
		}
		in := b.pos.X() >= p.zoneMinX && b.pos.X() <= p.zoneMaxX
		switch {
		case in && !b.inZone:
			p.entered = append(p.entered, h)
		case !in && b.inZone:
			p.exited = append(p.exited, h)
		}
		b.inZone = in
	}
}

func (p *stubPhysics) DrainZoneEvents() (entered, exited []ball.Handle) {
	entered, exited = p.entered, p.exited
	p.entered, p.exited = nil, nil
	return entered, exited
}

var (
	redBall  = &ball.Archetype{ID: "red", Kind: ball.CategoryScore, Amount: 10, Radius: 0.5}
	goldBall = &ball.Archetype{ID: "gold", Kind: ball.CategoryMultiplier, Amount: 3, Radius: 0.5}
)

func testSettings() Settings {
	s := DefaultSettings()
	s.Arena.Min = mgl64.Vec2{0.5, 0.5}
	s.Arena.Max = mgl64.Vec2{8, 3}
	s.SpawnPerTick = 0
	s.GrabRadius = 100
	s.MaxCarry = 0
	s.ClearDelay = 0.5
	return s
}

func scenarioConfig(target, grabs int) Configuration {
	return Configuration{
		Name:        "test",
		TargetScore: target,
		GrabCount:   grabs,
		DefaultPool: []ball.SpawnRequest{
			{Archetype: redBall, Count: 2},
			{Archetype: goldBall, Count: 1},
		},
	}
}

type fixture struct {
	o       *Orchestrator
	phys    *stubPhysics
	results []Result
	states  []State
	spawned []SpawnCompleted
	grabbed int
	dropped int
}

func newFixture(t *testing.T, s Settings) *fixture {
	t.Helper()
	bus := event.NewBus()
	reg := rng.NewRegistry()
	reg.Initialize("ABC123")

	f := &fixture{phys: newStubPhysics()}
	event.Subscribe(bus, func(e Result) { f.results = append(f.results, e) })
	event.Subscribe(bus, func(e StateChanged) { f.states = append(f.states, e.To) })
	event.Subscribe(bus, func(e SpawnCompleted) { f.spawned = append(f.spawned, e) })
	event.Subscribe(bus, func(BallGrabbed) { f.grabbed++ })
	event.Subscribe(bus, func(BallDropped) { f.dropped++ })

	f.o = New(s, bus, reg, f.phys, nil)
	t.Cleanup(f.o.Close)
	return f
}

// tickUntil ticks with empty input until cond holds.
func (f *fixture) tickUntil(t *testing.T, cond func() bool) {
	t.Helper()
	for i := 0; i < 20000; i++ {
		if cond() {
			return
		}
		f.o.Tick(dt, claw.Input{})
	}
	t.Fatalf("condition not met; round %v, claw %v", f.o.State(), f.o.Claw().State())
}

// grab triggers one grab cycle from an idle claw.
func (f *fixture) grab(t *testing.T) {
	t.Helper()
	f.tickUntil(t, func() bool { return f.o.Claw().State() == claw.StateIdle })
	f.o.Tick(dt, claw.Input{Activate: true})
}

func TestEndToEndScenario(t *testing.T) {
	f := newFixture(t, testSettings())
	if !f.o.StartRound(scenarioConfig(50, 1), Inventory{}) {
		t.Fatal("StartRound rejected from Idle")
	}

	f.tickUntil(t, func() bool { return f.o.State() == StatePlaying })
	if len(f.spawned) != 1 || f.spawned[0].Count != 3 || f.spawned[0].Skipped != 0 {
		t.Fatalf("spawn = %+v, expected 3 placed", f.spawned)
	}

	f.grab(t)
	f.tickUntil(t, func() bool { return f.o.State() == StateIdle })

	if len(f.results) != 1 {
		t.Fatalf("results = %d, expected 1", len(f.results))
	}
	res := f.results[0]
	if !res.Success || res.Total != 60 || res.Target != 50 {
		t.Errorf("result = %+v, expected success with total 60", res)
	}
	if res.GrabsUsed != 1 || res.Seed != "ABC123" || res.Round != "test" {
		t.Errorf("result = %+v", res)
	}
	if f.grabbed != 3 || f.dropped != 3 {
		t.Errorf("grabbed %d, dropped %d, expected 3 each", f.grabbed, f.dropped)
	}

	expected := []State{StateStarting, StatePlaying, StateEnding, StateIdle}
	if !slices.Equal(f.states, expected) {
		t.Errorf("states = %v, expected %v", f.states, expected)
	}
}

func TestFinalBatchBelowTargetFails(t *testing.T) {
	f := newFixture(t, testSettings())
	f.o.StartRound(scenarioConfig(100, 1), Inventory{})
	f.tickUntil(t, func() bool { return f.o.State() == StatePlaying })

	f.grab(t)
	if !f.o.AwaitingFinal() {
		t.Error("spending the last grab should await the final settlement")
	}
	if f.o.State() != StatePlaying {
		t.Fatal("round ended before the in-flight grab was scored")
	}

	f.tickUntil(t, func() bool { return f.o.State() == StateIdle })
	res, ok := f.o.LastResult()
	if !ok || res.Success || res.Total != 60 {
		t.Errorf("result = %+v, expected failure with total 60", res)
	}
}

func TestEmptyFinalBatchFails(t *testing.T) {
	s := testSettings()
	s.GrabRadius = 0.01
	f := newFixture(t, s)
	f.o.StartRound(scenarioConfig(50, 1), Inventory{})
	f.tickUntil(t, func() bool { return f.o.State() == StatePlaying })

	f.grab(t)
	f.tickUntil(t, func() bool { return f.o.State() == StateIdle })

	if f.grabbed != 0 {
		t.Fatalf("grabbed %d balls, expected none", f.grabbed)
	}
	res, _ := f.o.LastResult()
	if res.Success || res.Total != 0 {
		t.Errorf("result = %+v, expected failure with zero total", res)
	}
}

func TestRewardGrabKeepsRoundAlive(t *testing.T) {
	tests := []struct {
		name       string
		grabRadius float64
		target     int
		total      int
	}{
		{"empty batch", 0.01, 50, 0},
		{"below target", 100, 100, 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSettings()
			s.GrabRadius = tt.grabRadius
			f := newFixture(t, s)
			f.o.StartRound(scenarioConfig(tt.target, 1), Inventory{})
			f.tickUntil(t, func() bool { return f.o.State() == StatePlaying })

			f.grab(t)
			if !f.o.AwaitingFinal() {
				t.Fatal("spending the last grab should await the final settlement")
			}
			f.o.Budget().Add(1)
			if f.o.AwaitingFinal() {
				t.Fatal("a rewarded grab should stop awaiting the final settlement")
			}

			flushes := f.o.Detector().Flushes()
			f.tickUntil(t, func() bool { return f.o.Detector().Flushes() > flushes })
			if f.o.State() != StatePlaying || len(f.results) != 0 {
				t.Fatalf("state = %v, results = %d; batch ended the round despite the reward", f.o.State(), len(f.results))
			}
			if got := f.o.Score().Total(); got != tt.total {
				t.Errorf("total = %d, expected %d", got, tt.total)
			}

			// The rewarded grab is now the last one.
			f.grab(t)
			f.tickUntil(t, func() bool { return f.o.State() == StateIdle })
			res, ok := f.o.LastResult()
			if !ok || res.Success || res.Total != tt.total {
				t.Errorf("result = %+v, expected failure with total %d", res, tt.total)
			}
		})
	}
}

func TestZeroGrabsFailsImmediately(t *testing.T) {
	f := newFixture(t, testSettings())
	f.o.StartRound(scenarioConfig(50, 0), Inventory{})
	f.tickUntil(t, func() bool { return f.o.State() == StateIdle })

	res, ok := f.o.LastResult()
	if !ok || res.Success {
		t.Errorf("result = %+v, expected failure", res)
	}
}

func TestZeroTargetSucceedsImmediately(t *testing.T) {
	f := newFixture(t, testSettings())
	f.o.StartRound(scenarioConfig(0, 3), Inventory{})
	f.tickUntil(t, func() bool { return f.o.State() == StateIdle })

	res, _ := f.o.LastResult()
	if !res.Success || res.GrabsUsed != 0 {
		t.Errorf("result = %+v, expected success without grabs", res)
	}
}

func TestStartRoundRejectedWhileActive(t *testing.T) {
	f := newFixture(t, testSettings())
	f.o.StartRound(scenarioConfig(50, 1), Inventory{})

	for _, want := range []State{StateStarting, StatePlaying} {
		f.tickUntil(t, func() bool { return f.o.State() == want })
		if f.o.StartRound(scenarioConfig(10, 5), Inventory{}) {
			t.Errorf("StartRound accepted in %v", want)
		}
		if f.o.State() != want || f.o.Config().TargetScore != 50 {
			t.Errorf("rejected start changed state: %v, target %d", f.o.State(), f.o.Config().TargetScore)
		}
	}
}

func TestEndRoundRejectedUnlessPlaying(t *testing.T) {
	f := newFixture(t, testSettings())
	if f.o.EndRound(true) {
		t.Error("EndRound accepted while Idle")
	}

	f.o.StartRound(scenarioConfig(50, 1), Inventory{})
	if f.o.EndRound(true) {
		t.Error("EndRound accepted while Starting")
	}

	f.tickUntil(t, func() bool { return f.o.State() == StatePlaying })
	if !f.o.EndRound(false) {
		t.Fatal("EndRound rejected while Playing")
	}
	if f.o.EndRound(true) {
		t.Error("EndRound accepted while Ending")
	}
}

func TestEndingWaitsOneFullTick(t *testing.T) {
	f := newFixture(t, testSettings())
	f.o.StartRound(scenarioConfig(50, 1), Inventory{})
	f.tickUntil(t, func() bool { return f.o.State() == StatePlaying })

	f.o.EndRound(false)
	if f.o.Claw().State() != claw.StateDisabled {
		t.Error("claw should be disabled on Ending")
	}
	if f.o.Arena().Len() != 0 || len(f.phys.bodies) != 0 {
		t.Error("Ending should destroy every ball")
	}

	f.o.Tick(dt, claw.Input{})
	if f.o.State() != StateEnding || len(f.results) != 0 {
		t.Fatal("result published before a full tick elapsed")
	}
	f.o.Tick(dt, claw.Input{})
	if f.o.State() != StateIdle || len(f.results) != 1 {
		t.Fatalf("state %v with %d results after the full tick", f.o.State(), len(f.results))
	}
	if f.o.Config() != nil || f.o.Inventory() != nil {
		t.Error("Idle should drop the round config and inventory")
	}
}

func TestFullCycleReadiesNextRound(t *testing.T) {
	f := newFixture(t, testSettings())
	f.o.StartRound(scenarioConfig(50, 1), Inventory{})
	f.tickUntil(t, func() bool { return f.o.State() == StatePlaying })
	f.grab(t)
	f.tickUntil(t, func() bool { return f.o.State() == StateIdle })

	if f.o.Arena().Len() != 0 {
		t.Errorf("Arena().Len() = %d, expected 0", f.o.Arena().Len())
	}
	if f.o.Budget().Remaining() != 0 || f.o.Score().Total() != 0 {
		t.Errorf("remaining %d, total %d, expected zeros", f.o.Budget().Remaining(), f.o.Score().Total())
	}
	if f.o.Detector().Resident() != 0 || f.o.Detector().Polling() {
		t.Error("detector should be empty and idle")
	}

	if !f.o.StartRound(scenarioConfig(50, 2), Inventory{}) {
		t.Fatal("second StartRound rejected")
	}
	if f.o.Budget().Remaining() != 2 {
		t.Errorf("Remaining() = %d, expected 2", f.o.Budget().Remaining())
	}
}

func TestClearDelayReturnsClaw(t *testing.T) {
	f := newFixture(t, testSettings())
	f.o.StartRound(scenarioConfig(1000, 2), Inventory{})
	f.tickUntil(t, func() bool { return f.o.State() == StatePlaying })

	f.grab(t)
	f.tickUntil(t, func() bool { return f.o.Score().Total() == 60 })

	// Scored balls stay visible for the clear delay.
	if f.o.Claw().State() != claw.StateReleasing {
		t.Fatalf("claw %v, expected to hold in Releasing", f.o.Claw().State())
	}
	if f.o.Arena().Len() != 3 {
		t.Fatalf("Arena().Len() = %d before clear, expected 3", f.o.Arena().Len())
	}

	f.tickUntil(t, func() bool { return f.o.Claw().State() == claw.StateIdle })
	if f.o.Arena().Len() != 0 || len(f.phys.removed) != 3 {
		t.Errorf("clear removed %d balls, %d left", len(f.phys.removed), f.o.Arena().Len())
	}
	if f.o.State() != StatePlaying || f.o.Budget().Remaining() != 1 {
		t.Errorf("round %v, remaining %d", f.o.State(), f.o.Budget().Remaining())
	}

	// The second grab is empty and final.
	f.grab(t)
	f.tickUntil(t, func() bool { return f.o.State() == StateIdle })
	res, _ := f.o.LastResult()
	if res.Success || res.Total != 60 || res.GrabsUsed != 2 {
		t.Errorf("result = %+v", res)
	}
}

func TestProgressiveSpawnHoldsBallsKinematic(t *testing.T) {
	s := testSettings()
	s.SpawnPerTick = 1
	f := newFixture(t, s)

	inv := Inventory{Owned: []ball.SpawnRequest{{Archetype: redBall, Count: 1}}}
	f.o.StartRound(scenarioConfig(50, 1), inv)

	f.o.Tick(dt, claw.Input{})
	f.o.Tick(dt, claw.Input{})
	if f.o.State() != StateStarting || f.o.Arena().Len() != 2 {
		t.Fatalf("state %v with %d balls after two ticks", f.o.State(), f.o.Arena().Len())
	}
	for h, b := range f.phys.bodies {
		if !b.kinematic {
			t.Errorf("ball %d dynamic before spawning completed", h)
		}
	}

	f.tickUntil(t, func() bool { return f.o.State() == StatePlaying })
	if f.o.Arena().Len() != 4 {
		t.Errorf("Arena().Len() = %d, expected 4 with inventory merged", f.o.Arena().Len())
	}
	for h, b := range f.phys.bodies {
		if b.kinematic {
			t.Errorf("ball %d still kinematic after spawning", h)
		}
	}
}

func TestSamePlacementForSameSeed(t *testing.T) {
	positions := func() []mgl64.Vec2 {
		f := newFixture(t, testSettings())
		f.o.StartRound(scenarioConfig(50, 1), Inventory{})
		f.tickUntil(t, func() bool { return f.o.State() == StatePlaying })
		var out []mgl64.Vec2
		for _, b := range f.o.Arena().Balls() {
			p, _ := f.o.Arena().Position(b.Handle)
			out = append(out, p)
		}
		return out
	}

	a, b := positions(), positions()
	if !slices.Equal(a, b) {
		t.Errorf("placements differ for the same seed:\n%v\n%v", a, b)
	}
}

func TestNilPhysicsDisablesBodies(t *testing.T) {
	reg := rng.NewRegistry()
	reg.Initialize("ABC123")
	o := New(testSettings(), event.NewBus(), reg, nil, nil)
	defer o.Close()

	o.StartRound(scenarioConfig(50, 1), Inventory{})
	o.Tick(dt, claw.Input{})
	if o.State() != StatePlaying {
		t.Fatalf("State() = %v, expected Playing", o.State())
	}
	o.Tick(dt, claw.Input{Activate: true})
	if o.Budget().Remaining() != 0 {
		t.Error("grab should still spend the budget")
	}
}
