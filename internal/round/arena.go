package round

import (
	"slices"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/clawround/internal/ball"
)

// Arena owns the live balls of a session and mirrors them into physics.
// Handles are never reused within a session.
type Arena struct {
	physics Physics
	balls   *orderedmap.OrderedMap[ball.Handle, *ball.Ball]
	carried []ball.Handle
	next    ball.Handle
	spacing float64
}

// NewArena creates an empty arena. A nil physics disables bodies.
func NewArena(p Physics, carrySpacing float64) *Arena {
	if p == nil {
		p = nopPhysics{}
	}
	if carrySpacing <= 0 {
		carrySpacing = 1
	}
	return &Arena{
		physics: p,
		balls:   orderedmap.NewOrderedMap[ball.Handle, *ball.Ball](),
		spacing: carrySpacing,
	}
}

// Spawn creates a ball at pos, optionally held kinematic.
func (a *Arena) Spawn(arch *ball.Archetype, pos mgl64.Vec2, kinematic bool) *ball.Ball {
	a.next++
	b := &ball.Ball{Handle: a.next, Archetype: arch}
	a.balls.Set(b.Handle, b)
	a.physics.Spawn(b.Handle, arch, pos)
	if kinematic {
		a.physics.SetKinematic(b.Handle, true)
	}
	return b
}

// Activate makes every non-carried ball dynamic.
func (a *Arena) Activate() {
	for el := a.balls.Front(); el != nil; el = el.Next() {
		if !el.Value.Grabbed {
			a.physics.SetKinematic(el.Key, false)
		}
	}
}

// Ball returns the live ball with the given handle.
func (a *Arena) Ball(h ball.Handle) (*ball.Ball, bool) {
	return a.balls.Get(h)
}

// Balls returns live balls in spawn order.
func (a *Arena) Balls() []*ball.Ball {
	out := make([]*ball.Ball, 0, a.balls.Len())
	for el := a.balls.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}
	return out
}

// Len returns the number of live balls.
func (a *Arena) Len() int { return a.balls.Len() }

// Position returns a ball's current position from physics.
func (a *Arena) Position(h ball.Handle) (mgl64.Vec2, bool) {
	if _, ok := a.balls.Get(h); !ok {
		return mgl64.Vec2{}, false
	}
	return a.physics.Position(h)
}

// Speed implements settle.SpeedSource. Removed balls report ok == false.
func (a *Arena) Speed(h ball.Handle) (float64, bool) {
	if _, ok := a.balls.Get(h); !ok {
		return 0, false
	}
	return a.physics.Speed(h)
}

// Remove implements settle.Remover.
func (a *Arena) Remove(h ball.Handle) {
	if !a.balls.Delete(h) {
		return
	}
	a.carried = slices.DeleteFunc(a.carried, func(c ball.Handle) bool { return c == h })
	a.physics.Remove(h)
}

// Clear removes every ball.
func (a *Arena) Clear() {
	for _, h := range a.balls.Keys() {
		a.physics.Remove(h)
	}
	a.balls = orderedmap.NewOrderedMap[ball.Handle, *ball.Ball]()
	a.carried = nil
}

// Grab attaches free balls within radius of at, nearest first, up to max
// (max <= 0 is unlimited). Grabbed balls turn kinematic.
func (a *Arena) Grab(at mgl64.Vec2, radius float64, max int) []ball.Handle {
	type candidate struct {
		h    ball.Handle
		dist float64
	}
	var found []candidate
	for el := a.balls.Front(); el != nil; el = el.Next() {
		b := el.Value
		if b.Grabbed || b.Settling {
			continue
		}
		pos, ok := a.physics.Position(b.Handle)
		if !ok {
			continue
		}
		if d := pos.Sub(at).Len(); d <= radius {
			found = append(found, candidate{h: b.Handle, dist: d})
		}
	}
	slices.SortStableFunc(found, func(x, y candidate) int {
		switch {
		case x.dist < y.dist:
			return -1
		case x.dist > y.dist:
			return 1
		}
		return 0
	})
	if max > 0 && len(found) > max {
		found = found[:max]
	}

	grabbed := make([]ball.Handle, 0, len(found))
	for _, c := range found {
		b, _ := a.balls.Get(c.h)
		b.Grabbed = true
		a.physics.SetKinematic(c.h, true)
		a.carried = append(a.carried, c.h)
		grabbed = append(grabbed, c.h)
	}
	return grabbed
}

// Carry moves carried balls to their slots under the claw tip. Slots fill
// rows of three, centered, each row one spacing lower.
func (a *Arena) Carry(tip mgl64.Vec2) {
	for i, h := range a.carried {
		a.physics.MoveTo(h, tip.Add(a.slot(i)))
	}
}

func (a *Arena) slot(i int) mgl64.Vec2 {
	col := float64(i%3 - 1)
	row := float64(i / 3)
	return mgl64.Vec2{col * a.spacing, -row*a.spacing - a.spacing/2}
}

// Drop lets go of every carried ball, pushing it down with force push.
func (a *Arena) Drop(push float64) []ball.Handle {
	dropped := a.carried
	a.carried = nil
	for _, h := range dropped {
		b, ok := a.balls.Get(h)
		if !ok {
			continue
		}
		b.Grabbed = false
		a.physics.SetKinematic(h, false)
		if push > 0 {
			a.physics.ApplyForce(h, mgl64.Vec2{0, -push})
		}
	}
	return dropped
}

// Carried returns the handles currently held by the claw.
func (a *Arena) Carried() []ball.Handle {
	return slices.Clone(a.carried)
}

// SetSettling flags a ball as inside or outside the settlement zone.
func (a *Arena) SetSettling(h ball.Handle, in bool) bool {
	b, ok := a.balls.Get(h)
	if !ok {
		return false
	}
	b.Settling = in
	return true
}

// Valued resolves handles to scorable balls. Removed handles resolve to nil.
func (a *Arena) Valued(handles []ball.Handle) []ball.Valued {
	out := make([]ball.Valued, 0, len(handles))
	for _, h := range handles {
		if b, ok := a.balls.Get(h); ok {
			out = append(out, b)
		} else {
			out = append(out, nil)
		}
	}
	return out
}
