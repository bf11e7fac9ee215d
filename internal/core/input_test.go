package core

import "testing"

func frame(actions ...Action) InputFrame {
	f := NewInputFrame()
	for _, a := range actions {
		f.Set(a)
	}
	return f
}

func TestInputFrame(t *testing.T) {
	f := frame(ActionLeft, ActionActivate)
	if !f.Has(ActionLeft) || !f.Has(ActionActivate) || f.Has(ActionRight) {
		t.Errorf("frame actions = %v", f.Actions)
	}
	f.Clear()
	if f.Has(ActionLeft) {
		t.Error("Clear should drop all actions")
	}

	var zero InputFrame
	if zero.Has(ActionQuit) {
		t.Error("zero frame should have no actions")
	}
}

func TestSteeringHoldsDirection(t *testing.T) {
	s := NewSteering(0.1)
	const dt = 0.05

	if in := s.Advance(frame(ActionRight), dt); in.Axis != 1 {
		t.Fatalf("Axis = %v after right press, expected 1", in.Axis)
	}
	if in := s.Advance(frame(), dt); in.Axis != 1 {
		t.Errorf("Axis = %v while held, expected 1", in.Axis)
	}
	if in := s.Advance(frame(), dt); in.Axis != 0 {
		t.Errorf("Axis = %v after hold expired, expected 0", in.Axis)
	}
}

func TestSteeringOpposingKeysCancel(t *testing.T) {
	s := NewSteering(1)
	s.Advance(frame(ActionLeft), 0.01)

	if in := s.Advance(frame(ActionLeft, ActionRight), 0.01); in.Axis != 0 {
		t.Errorf("Axis = %v, expected opposing presses to cancel", in.Axis)
	}
}

func TestSteeringActivateIsEdge(t *testing.T) {
	s := NewSteering(1)
	if in := s.Advance(frame(ActionActivate), 0.01); !in.Activate {
		t.Error("Activate should pass through on the pressed frame")
	}
	if in := s.Advance(frame(), 0.01); in.Activate {
		t.Error("Activate must not repeat on the next frame")
	}

	s.Advance(frame(ActionLeft), 0.01)
	s.Release()
	if in := s.Advance(frame(), 0.01); in.Axis != 0 {
		t.Errorf("Axis = %v after Release, expected 0", in.Axis)
	}
}

func TestActionString(t *testing.T) {
	if ActionActivate.String() != "Activate" || Action(99).String() != "Unknown" {
		t.Error("unexpected action names")
	}
}
