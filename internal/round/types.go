// Package round sequences one claw-machine round: placement, play, scoring,
// and the success/failure decision.
//
// The Orchestrator owns every core component for the lifetime of a session
// and wires them together through a single event bus. Nothing here blocks;
// all waits are accumulators advanced by Tick.
package round

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/clawround/internal/ball"
	"github.com/vovakirdan/clawround/internal/claw"
	"github.com/vovakirdan/clawround/internal/event"
	"github.com/vovakirdan/clawround/internal/placement"
	"github.com/vovakirdan/clawround/internal/settle"
)

// State is the round lifecycle state.
type State int

const (
	StateIdle State = iota
	StateStarting
	StatePlaying
	StateEnding
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateStarting:
		return "Starting"
	case StatePlaying:
		return "Playing"
	case StateEnding:
		return "Ending"
	default:
		return "Unknown"
	}
}

// Configuration is the round's fixed parameters. Supplied already validated.
type Configuration struct {
	Name        string
	TargetScore int
	GrabCount   int
	DefaultPool []ball.SpawnRequest
}

// Inventory is the player's owned balls, added to the default pool.
type Inventory struct {
	Owned []ball.SpawnRequest
}

// Settings tunes the orchestrator and the components it builds.
type Settings struct {
	Arena  placement.Arena // Spawn rectangle
	Claw   claw.Config
	Settle settle.Config

	MaxRetries   int     // Placement draws per ball
	SpawnPerTick int     // Balls spawned per tick while Starting; <= 0 spawns all at once
	ClearDelay   float64 // Seconds between a scored batch and its removal
	GrabRadius   float64 // Reach of a closed jaw
	MaxCarry     int     // Balls one grab can hold; <= 0 is unlimited
	CarrySpacing float64 // Slot spacing for carried balls
	ReleasePush  float64 // Downward force applied to dropped balls
}

// DefaultSettings returns settings matching the default machine layout.
func DefaultSettings() Settings {
	return Settings{
		Arena: placement.Arena{
			Min: mgl64.Vec2{0.5, 0.5},
			Max: mgl64.Vec2{19.5, 7},
		},
		Claw:         claw.DefaultConfig(),
		Settle:       settle.DefaultConfig(),
		MaxRetries:   placement.DefaultMaxRetries,
		SpawnPerTick: 4,
		ClearDelay:   1.5,
		GrabRadius:   1.6,
		MaxCarry:     6,
		CarrySpacing: 1.0,
		ReleasePush:  2,
	}
}

// Event topics published by the orchestrator and its arena.
const (
	TopicStateChanged   event.Topic = "round.state_changed"
	TopicResult         event.Topic = "round.result"
	TopicSpawnCompleted event.Topic = "round.spawn_completed"
	TopicBallGrabbed    event.Topic = "round.ball_grabbed"
	TopicBallDropped    event.Topic = "round.ball_dropped"
)

// StateChanged is published on every round state transition.
type StateChanged struct {
	From State
	To   State
}

// Topic implements event.Event.
func (StateChanged) Topic() event.Topic { return TopicStateChanged }

// Result is the terminal outcome of a round.
type Result struct {
	Round     string
	Seed      string
	Success   bool
	Total     int
	Target    int
	GrabsUsed int
	Ticks     int
}

// Topic implements event.Event.
func (Result) Topic() event.Topic { return TopicResult }

// SpawnCompleted is published once every placed ball is live.
type SpawnCompleted struct {
	Count   int
	Skipped int
}

// Topic implements event.Event.
func (SpawnCompleted) Topic() event.Topic { return TopicSpawnCompleted }

// BallGrabbed is published per ball attached to the closing jaw.
type BallGrabbed struct {
	Handle ball.Handle
}

// Topic implements event.Event.
func (BallGrabbed) Topic() event.Topic { return TopicBallGrabbed }

// BallDropped is published per ball let go over the settlement zone.
type BallDropped struct {
	Handle ball.Handle
}

// Topic implements event.Event.
func (BallDropped) Topic() event.Topic { return TopicBallDropped }
