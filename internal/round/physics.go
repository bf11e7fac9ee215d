package round

import (
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/clawround/internal/ball"
)

// Physics is the rigid-body collaborator. The round never integrates motion
// itself; it spawns bodies, toggles them kinematic, moves carried bodies, and
// reads back position and speed.
//
// Zone events report dynamic bodies crossing the settlement zone boundary.
// Kinematic bodies do not trigger the zone; a body switched back to dynamic
// inside the zone is reported as entering on the next Step.
type Physics interface {
	Spawn(h ball.Handle, a *ball.Archetype, pos mgl64.Vec2)
	Remove(h ball.Handle)
	Position(h ball.Handle) (mgl64.Vec2, bool)
	Speed(h ball.Handle) (float64, bool)
	ApplyForce(h ball.Handle, f mgl64.Vec2)
	SetKinematic(h ball.Handle, on bool)
	MoveTo(h ball.Handle, pos mgl64.Vec2)
	Step(dt float64)
	DrainZoneEvents() (entered, exited []ball.Handle)
}

// nopPhysics stands in when no physics collaborator is wired. Bodies have no
// position, so nothing is grabbed and nothing settles.
type nopPhysics struct{}

func (nopPhysics) Spawn(ball.Handle, *ball.Archetype, mgl64.Vec2)   {}
func (nopPhysics) Remove(ball.Handle)                               {}
func (nopPhysics) Position(ball.Handle) (mgl64.Vec2, bool)          { return mgl64.Vec2{}, false }
func (nopPhysics) Speed(ball.Handle) (float64, bool)                { return 0, false }
func (nopPhysics) ApplyForce(ball.Handle, mgl64.Vec2)               {}
func (nopPhysics) SetKinematic(ball.Handle, bool)                   {}
func (nopPhysics) MoveTo(ball.Handle, mgl64.Vec2)                   {}
func (nopPhysics) Step(float64)                                     {}
func (nopPhysics) DrainZoneEvents() (entered, exited []ball.Handle) { return nil, nil }
