// Package claw implements the claw state machine: horizontal aiming, the
// descend/grab/ascend cycle, the move to the drop zone, release, and return.
package claw

import "github.com/vovakirdan/clawround/internal/event"

// State is the claw's logical state. Exactly one is active at a time.
type State int

const (
	StateDisabled State = iota
	StateIdle
	StateDescending
	StateGrabbing
	StateAscending
	StateMovingToDrop
	StateReleasing
	StateReturning
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateDisabled:
		return "Disabled"
	case StateIdle:
		return "Idle"
	case StateDescending:
		return "Descending"
	case StateGrabbing:
		return "Grabbing"
	case StateAscending:
		return "Ascending"
	case StateMovingToDrop:
		return "MovingToDrop"
	case StateReleasing:
		return "Releasing"
	case StateReturning:
		return "Returning"
	default:
		return "Unknown"
	}
}

// Busy reports whether a grab cycle is in progress.
func (s State) Busy() bool {
	return s != StateDisabled && s != StateIdle
}

// Event topics published by the claw.
const (
	TopicStateChanged event.Topic = "claw.state_changed"
	TopicGrabStarted  event.Topic = "claw.grab_started"
	TopicJawClosed    event.Topic = "claw.jaw_closed"
	TopicGrabReleased event.Topic = "claw.grab_released"
)

// StateChanged is published on every real transition.
type StateChanged struct {
	From State
	To   State
}

// Topic implements event.Event.
func (StateChanged) Topic() event.Topic { return TopicStateChanged }

// GrabStarted is published when the claw starts descending.
// One grab attempt is spent per event.
type GrabStarted struct {
	X, Y float64
}

// Topic implements event.Event.
func (GrabStarted) Topic() event.Topic { return TopicGrabStarted }

// JawClosed is published when the jaw closes at the bottom of the descent.
// Whoever owns the balls decides what is inside the jaw.
type JawClosed struct {
	X, Y float64
}

// Topic implements event.Event.
func (JawClosed) Topic() event.Topic { return TopicJawClosed }

// GrabReleased is published when the jaw opens over the drop zone.
type GrabReleased struct {
	X, Y float64
}

// Topic implements event.Event.
func (GrabReleased) Topic() event.Topic { return TopicGrabReleased }
