package claw

import (
	"io"
	"math"

	"github.com/charmbracelet/log"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/clawround/internal/event"
)

// Config holds claw geometry and tuning. Distances are world units, speeds
// are units per second, durations are seconds, angles are degrees.
type Config struct {
	HomeX     float64 // Start and return x
	MinX      float64 // Left bound for player movement
	MaxX      float64 // Right bound for player movement
	Floor     float64 // Lowest y of the descent
	Ceiling   float64 // Travel height
	DropX     float64 // X above the settlement zone
	Tolerance float64 // Arrival tolerance for horizontal moves

	MoveSpeed    float64
	DescendSpeed float64
	AscendSpeed  float64
	ReturnSpeed  float64
	GrabDwell    float64

	JawOpen   float64 // Jaw angle when fully open
	JawClosed float64 // Jaw angle when fully closed
	SwingMax  float64 // Maximum cosmetic swing angle
	Smoothing float64 // Low-pass rate for cosmetic angles (per second)
}

// DefaultConfig returns tuning that fits the default machine layout.
func DefaultConfig() Config {
	return Config{
		HomeX:        2,
		MinX:         1,
		MaxX:         19,
		Floor:        1,
		Ceiling:      10,
		DropX:        24,
		Tolerance:    0.05,
		MoveSpeed:    8,
		DescendSpeed: 6,
		AscendSpeed:  6,
		ReturnSpeed:  10,
		GrabDwell:    0.5,
		JawOpen:      60,
		JawClosed:    5,
		SwingMax:     12,
		Smoothing:    8,
	}
}

// Input is one tick of player intent.
type Input struct {
	Axis     float64 // Horizontal axis in [-1, 1]
	Activate bool    // Edge-triggered action button
}

// Machine is the claw state machine. It advances only through Update.
type Machine struct {
	cfg    Config
	bus    *event.Bus
	logger *log.Logger

	state State
	pos   mgl64.Vec2
	dwell float64

	// Cosmetic, never consulted by transitions.
	jaw   float64
	swing float64
	axis  float64
}

// New creates a disabled claw at its home position.
func New(cfg Config, bus *event.Bus, logger *log.Logger) *Machine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	m := &Machine{
		cfg:    cfg,
		bus:    bus,
		logger: logger.WithPrefix("claw"),
		state:  StateDisabled,
	}
	m.home()
	return m
}

// Config returns the claw configuration.
func (m *Machine) Config() Config { return m.cfg }

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Position returns the claw tip position.
func (m *Machine) Position() mgl64.Vec2 { return m.pos }

// JawAngle returns the cosmetic jaw angle.
func (m *Machine) JawAngle() float64 { return m.jaw }

// SwingAngle returns the cosmetic swing angle.
func (m *Machine) SwingAngle() float64 { return m.swing }

// Enable moves a disabled claw to Idle at its home position.
func (m *Machine) Enable() {
	if m.state != StateDisabled {
		return
	}
	m.home()
	m.transition(StateIdle)
}

// Disable stops the claw from any state.
func (m *Machine) Disable() {
	m.transition(StateDisabled)
}

// Descend triggers a grab from Idle. Ignored in any other state.
func (m *Machine) Descend() bool {
	if m.state != StateIdle {
		return false
	}
	m.transition(StateDescending)
	return true
}

// SettlementComplete lets a releasing claw return home.
func (m *Machine) SettlementComplete() bool {
	if m.state != StateReleasing {
		return false
	}
	m.transition(StateReturning)
	return true
}

// Update advances the claw by dt seconds.
func (m *Machine) Update(dt float64, in Input) {
	if m.state == StateDisabled {
		return
	}
	m.axis = 0

	switch m.state {
	case StateIdle:
		m.axis = mgl64.Clamp(in.Axis, -1, 1)
		x := m.pos.X() + m.axis*m.cfg.MoveSpeed*dt
		m.pos[0] = mgl64.Clamp(x, m.cfg.MinX, m.cfg.MaxX)
		if in.Activate {
			m.transition(StateDescending)
		}

	case StateDescending:
		m.pos[1] -= m.cfg.DescendSpeed * dt
		if m.pos.Y() <= m.cfg.Floor {
			m.pos[1] = m.cfg.Floor
			m.transition(StateGrabbing)
		}

	case StateGrabbing:
		m.dwell += dt
		if m.dwell >= m.cfg.GrabDwell {
			m.transition(StateAscending)
		}

	case StateAscending:
		m.pos[1] += m.cfg.AscendSpeed * dt
		if m.pos.Y() >= m.cfg.Ceiling {
			m.pos[1] = m.cfg.Ceiling
			m.transition(StateMovingToDrop)
		}

	case StateMovingToDrop:
		if m.moveToward(m.cfg.DropX, m.cfg.MoveSpeed*dt) {
			m.transition(StateReleasing)
		}

	case StateReleasing:
		// Held until SettlementComplete.

	case StateReturning:
		if m.moveToward(m.cfg.HomeX, m.cfg.ReturnSpeed*dt) {
			m.transition(StateIdle)
		}
	}

	m.updateCosmetics(dt)
}

// moveToward steps x toward target and reports arrival within tolerance.
func (m *Machine) moveToward(target, step float64) bool {
	dx := target - m.pos.X()
	if math.Abs(dx) <= step {
		m.pos[0] = target
	} else {
		m.pos[0] += math.Copysign(step, dx)
		m.axis = math.Copysign(1, dx)
	}
	return math.Abs(target-m.pos.X()) <= m.cfg.Tolerance
}

func (m *Machine) transition(to State) {
	if to == m.state {
		return
	}
	from := m.state
	m.state = to
	m.enter(to)

	m.logger.Debug("state changed", "from", from, "to", to, "x", m.pos.X(), "y", m.pos.Y())
	m.bus.Publish(StateChanged{From: from, To: to})

	switch to {
	case StateDescending:
		m.bus.Publish(GrabStarted{X: m.pos.X(), Y: m.pos.Y()})
	case StateGrabbing:
		m.bus.Publish(JawClosed{X: m.pos.X(), Y: m.pos.Y()})
	case StateReleasing:
		m.bus.Publish(GrabReleased{X: m.pos.X(), Y: m.pos.Y()})
	}
}

func (m *Machine) enter(s State) {
	switch s {
	case StateDescending:
		m.jaw = m.cfg.JawOpen
	case StateGrabbing:
		m.dwell = 0
	case StateReleasing:
		m.jaw = m.cfg.JawOpen
	case StateDisabled:
		m.axis = 0
	}
}

func (m *Machine) home() {
	m.pos = mgl64.Vec2{m.cfg.HomeX, m.cfg.Ceiling}
	m.dwell = 0
	m.jaw = m.cfg.JawOpen
	m.swing = 0
	m.axis = 0
}

// jawTarget is the resting jaw angle for a state.
func (m *Machine) jawTarget() float64 {
	switch m.state {
	case StateGrabbing, StateAscending, StateMovingToDrop:
		return m.cfg.JawClosed
	default:
		return m.cfg.JawOpen
	}
}

// updateCosmetics low-pass filters swing and jaw toward their targets.
func (m *Machine) updateCosmetics(dt float64) {
	alpha := mgl64.Clamp(m.cfg.Smoothing*dt, 0, 1)
	swingTarget := -m.axis * m.cfg.SwingMax
	m.swing += (swingTarget - m.swing) * alpha
	m.jaw += (m.jawTarget() - m.jaw) * alpha
}
