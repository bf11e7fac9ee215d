package core

import "github.com/vovakirdan/clawround/internal/claw"

// Action represents a semantic action, abstracted from physical key presses.
type Action int

const (
	ActionNone     Action = iota
	ActionLeft            // A, Left arrow - steer the claw left
	ActionRight           // D, Right arrow - steer the claw right
	ActionActivate        // Space, Enter - drop the claw
	ActionPause           // P - pause/unpause the simulation
	ActionRestart         // R - start the next round
	ActionAuto            // Tab - toggle the pilot
	ActionQuit            // Q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionLeft:
		return "Left"
	case ActionRight:
		return "Right"
	case ActionActivate:
		return "Activate"
	case ActionPause:
		return "Pause"
	case ActionRestart:
		return "Restart"
	case ActionAuto:
		return "Auto"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// InputFrame represents the actions triggered during one simulation tick.
type InputFrame struct {
	Actions map[Action]bool
}

// NewInputFrame creates an empty input frame.
func NewInputFrame() InputFrame {
	return InputFrame{
		Actions: make(map[Action]bool),
	}
}

// Set marks an action as triggered for this frame.
func (f *InputFrame) Set(a Action) {
	if f.Actions == nil {
		f.Actions = make(map[Action]bool)
	}
	f.Actions[a] = true
}

// Has returns true if the given action was triggered this frame.
func (f InputFrame) Has(a Action) bool {
	if f.Actions == nil {
		return false
	}
	return f.Actions[a]
}

// Clear resets all actions for the next frame.
func (f *InputFrame) Clear() {
	clear(f.Actions)
}

// Steering turns discrete key presses into a held axis. Terminals report key
// repeats but never releases, so a direction stays held for Hold seconds
// after its last press.
type Steering struct {
	Hold float64

	axis float64
	left float64
}

// NewSteering returns a steering latch that holds each press for hold seconds.
func NewSteering(hold float64) *Steering {
	return &Steering{Hold: hold}
}

// Advance applies this frame's presses and returns claw input for a step of dt.
func (s *Steering) Advance(f InputFrame, dt float64) claw.Input {
	left, right := f.Has(ActionLeft), f.Has(ActionRight)
	switch {
	case left && !right:
		s.axis, s.left = -1, s.Hold
	case right && !left:
		s.axis, s.left = 1, s.Hold
	case left && right:
		s.axis, s.left = 0, 0
	}

	in := claw.Input{Axis: s.axis, Activate: f.Has(ActionActivate)}

	s.left -= dt
	if s.left <= 0 {
		s.axis, s.left = 0, 0
	}
	return in
}

// Release drops any held direction.
func (s *Steering) Release() {
	s.axis, s.left = 0, 0
}
