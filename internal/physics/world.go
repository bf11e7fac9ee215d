// Package physics is a small deterministic circle world used as the round's
// physics collaborator: gravity, drag, walls, a partition between the play
// field and the settlement zone, and pairwise circle separation.
//
// It is intentionally simple. Bodies are stepped in handle order so a seeded
// run replays identically.
package physics

import (
	"io"
	"math"

	"github.com/charmbracelet/log"
	"github.com/elliotchance/orderedmap/v2"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/vovakirdan/clawround/internal/ball"
)

// Config describes the machine cabinet and solver tuning. Coordinates are
// y-up world units with the floor at y = 0.
type Config struct {
	Width        float64 // Right wall x; the left wall is x = 0
	Height       float64 // Ceiling y
	PartitionX   float64 // X of the wall between play field and zone
	PartitionTop float64 // Height of that wall
	ZoneMin      mgl64.Vec2
	ZoneMax      mgl64.Vec2

	Gravity         float64 // Downward acceleration
	Restitution     float64 // Bounce factor for walls and contacts
	Friction        float64 // Horizontal damping per second while on the floor
	ContactFriction float64 // Share of tangential velocity removed per contact
	RestSpeed       float64 // Impacts slower than this do not bounce
	SleepSpeed      float64 // Bodies slower than this for SleepTime fall asleep
	SleepTime       float64
	WakeSpeed       float64 // Contact speed that wakes a sleeping body
	MaxSpeed        float64
	Iterations      int // Contact resolution passes per step
}

// DefaultConfig returns the default cabinet layout.
func DefaultConfig() Config {
	return Config{
		Width:           27,
		Height:          12,
		PartitionX:      20.5,
		PartitionTop:    7.5,
		ZoneMin:         mgl64.Vec2{21, 0},
		ZoneMax:         mgl64.Vec2{27, 6},
		Gravity:         20,
		Restitution:     0.3,
		Friction:        4,
		ContactFriction: 0.3,
		RestSpeed:       1.5,
		SleepSpeed:      0.25,
		SleepTime:       0.5,
		WakeSpeed:       2,
		MaxSpeed:        30,
		Iterations:      3,
	}
}

// Body is one circle in the world.
type Body struct {
	Handle       ball.Handle
	Pos          mgl64.Vec2
	Vel          mgl64.Vec2
	Radius       float64
	Mass         float64
	Drag         float64
	GravityScale float64
	Kinematic    bool
	Visual       string

	impulse mgl64.Vec2
	inZone  bool
	asleep  bool
	still   float64 // Time spent below SleepSpeed
}

// Asleep reports whether the body is resting and excluded from integration.
func (b *Body) Asleep() bool { return b.asleep }

func (b *Body) wake() {
	b.asleep = false
	b.still = 0
}

// static reports whether the solver treats the body as immovable.
func (b *Body) static() bool { return b.Kinematic || b.asleep }

func (b *Body) invMass() float64 {
	if b.static() || b.Mass <= 0 {
		return 0
	}
	return 1 / b.Mass
}

// World holds every body and the zone membership state.
type World struct {
	cfg     Config
	bodies  *orderedmap.OrderedMap[ball.Handle, *Body]
	entered []ball.Handle
	exited  []ball.Handle
	steps   int
	logger  *log.Logger
}

// New creates an empty world.
func New(cfg Config, logger *log.Logger) *World {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = 1
	}
	return &World{
		cfg:    cfg,
		bodies: orderedmap.NewOrderedMap[ball.Handle, *Body](),
		logger: logger.WithPrefix("physics"),
	}
}

// Config returns the world configuration.
func (w *World) Config() Config { return w.cfg }

// Steps returns the number of steps taken.
func (w *World) Steps() int { return w.steps }

// Spawn adds a body built from an archetype. A duplicate handle replaces
// the existing body. Unset mass and gravity scale default to 1.
func (w *World) Spawn(h ball.Handle, a *ball.Archetype, pos mgl64.Vec2) {
	b := &Body{
		Handle:       h,
		Pos:          pos,
		Radius:       0.5,
		Mass:         1,
		GravityScale: 1,
	}
	if a != nil {
		b.Radius = a.Radius
		b.Mass = a.Mass
		b.Drag = a.Drag
		b.GravityScale = a.GravityScale
		b.Visual = a.Visual
	}
	if b.Mass <= 0 {
		b.Mass = 1
	}
	if b.GravityScale <= 0 {
		b.GravityScale = 1
	}
	w.bodies.Set(h, b)
}

// Remove deletes a body. A body inside the zone is reported as exiting.
// Everything else wakes, since the removed body may have been a support.
func (w *World) Remove(h ball.Handle) {
	b, ok := w.bodies.Get(h)
	if !ok {
		return
	}
	if b.inZone {
		w.exited = append(w.exited, h)
	}
	w.bodies.Delete(h)
	w.wakeAll()
}

func (w *World) wakeAll() {
	for el := w.bodies.Front(); el != nil; el = el.Next() {
		el.Value.wake()
	}
}

// Body returns a body by handle.
func (w *World) Body(h ball.Handle) (*Body, bool) {
	return w.bodies.Get(h)
}

// Bodies returns every body in handle order.
func (w *World) Bodies() []*Body {
	out := make([]*Body, 0, w.bodies.Len())
	for el := w.bodies.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}
	return out
}

// Len returns the number of bodies.
func (w *World) Len() int { return w.bodies.Len() }

// Position returns a body's center.
func (w *World) Position(h ball.Handle) (mgl64.Vec2, bool) {
	b, ok := w.bodies.Get(h)
	if !ok {
		return mgl64.Vec2{}, false
	}
	return b.Pos, true
}

// Speed returns a body's speed.
func (w *World) Speed(h ball.Handle) (float64, bool) {
	b, ok := w.bodies.Get(h)
	if !ok {
		return 0, false
	}
	return b.Vel.Len(), true
}

// ApplyForce queues an impulse, applied as a velocity change of f/mass on
// the next step. Kinematic bodies ignore it.
func (w *World) ApplyForce(h ball.Handle, f mgl64.Vec2) {
	if b, ok := w.bodies.Get(h); ok && !b.Kinematic {
		b.impulse = b.impulse.Add(f)
		b.wake()
	}
}

// SetKinematic freezes or releases a body. Either way it starts at rest.
func (w *World) SetKinematic(h ball.Handle, on bool) {
	b, ok := w.bodies.Get(h)
	if !ok {
		return
	}
	b.Kinematic = on
	b.Vel = mgl64.Vec2{}
	b.impulse = mgl64.Vec2{}
	if on {
		// Lifting a body can pull support from under others.
		w.wakeAll()
	}
	b.wake()
}

// MoveTo teleports a body.
func (w *World) MoveTo(h ball.Handle, pos mgl64.Vec2) {
	if b, ok := w.bodies.Get(h); ok {
		b.Pos = pos
		b.wake()
	}
}

// DrainZoneEvents returns and forgets zone crossings since the last call.
func (w *World) DrainZoneEvents() (entered, exited []ball.Handle) {
	entered, exited = w.entered, w.exited
	w.entered, w.exited = nil, nil
	return entered, exited
}

// Step advances the world by dt seconds.
func (w *World) Step(dt float64) {
	if dt <= 0 {
		return
	}
	w.steps++
	bodies := w.Bodies()

	for _, b := range bodies {
		if b.static() {
			continue
		}
		w.integrate(b, dt)
	}

	for i := 0; i < w.cfg.Iterations; i++ {
		w.resolveContacts(bodies)
		for _, b := range bodies {
			if !b.static() {
				w.resolveWalls(b)
			}
		}
	}

	for _, b := range bodies {
		if !b.static() {
			w.updateSleep(b, dt)
		}
	}

	w.updateZone(bodies)
}

func (w *World) updateSleep(b *Body, dt float64) {
	if w.cfg.SleepTime <= 0 || b.Vel.Len() >= w.cfg.SleepSpeed {
		b.still = 0
		return
	}
	b.still += dt
	if b.still >= w.cfg.SleepTime {
		b.asleep = true
		b.Vel = mgl64.Vec2{}
	}
}

func (w *World) integrate(b *Body, dt float64) {
	b.Vel = b.Vel.Add(b.impulse.Mul(b.invMass()))
	b.impulse = mgl64.Vec2{}

	b.Vel[1] -= w.cfg.Gravity * b.GravityScale * dt
	if b.Drag > 0 {
		b.Vel = b.Vel.Mul(1 / (1 + b.Drag*dt))
	}
	if b.onFloor() && w.cfg.Friction > 0 {
		b.Vel[0] /= 1 + w.cfg.Friction*dt
	}

	if speed := b.Vel.Len(); w.cfg.MaxSpeed > 0 && speed > w.cfg.MaxSpeed {
		b.Vel = b.Vel.Mul(w.cfg.MaxSpeed / speed)
	}
	b.Pos = b.Pos.Add(b.Vel.Mul(dt))
}

func (b *Body) onFloor() bool {
	return b.Pos.Y()-b.Radius <= 1e-6
}

// bounce reflects a velocity component hitting a surface, killing slow
// impacts entirely so resting bodies stay at rest.
func (w *World) bounce(v float64) float64 {
	if math.Abs(v) < w.cfg.RestSpeed {
		return 0
	}
	return -v * w.cfg.Restitution
}

func (w *World) resolveWalls(b *Body) {
	r := b.Radius

	if b.Pos.Y()-r < 0 {
		b.Pos[1] = r
		if b.Vel.Y() < 0 {
			b.Vel[1] = w.bounce(b.Vel.Y())
		}
	}
	if b.Pos.Y()+r > w.cfg.Height {
		b.Pos[1] = w.cfg.Height - r
		if b.Vel.Y() > 0 {
			b.Vel[1] = w.bounce(b.Vel.Y())
		}
	}
	if b.Pos.X()-r < 0 {
		b.Pos[0] = r
		if b.Vel.X() < 0 {
			b.Vel[0] = w.bounce(b.Vel.X())
		}
	}
	if b.Pos.X()+r > w.cfg.Width {
		b.Pos[0] = w.cfg.Width - r
		if b.Vel.X() > 0 {
			b.Vel[0] = w.bounce(b.Vel.X())
		}
	}

	w.resolvePartition(b)
}

// resolvePartition treats the partition as a thin vertical segment from the
// floor to PartitionTop, with a rounded cap.
func (w *World) resolvePartition(b *Body) {
	px, top := w.cfg.PartitionX, w.cfg.PartitionTop
	if top <= 0 {
		return
	}
	closest := mgl64.Vec2{px, mgl64.Clamp(b.Pos.Y(), 0, top)}
	d := b.Pos.Sub(closest)
	dist := d.Len()
	if dist >= b.Radius {
		return
	}

	var n mgl64.Vec2
	if dist > 1e-9 {
		n = d.Mul(1 / dist)
	} else if b.Pos.X() < px {
		n = mgl64.Vec2{-1, 0}
	} else {
		n = mgl64.Vec2{1, 0}
	}
	b.Pos = closest.Add(n.Mul(b.Radius))

	if vn := b.Vel.Dot(n); vn < 0 {
		b.Vel = b.Vel.Sub(n.Mul(vn - w.bounce(vn)))
	}
}

// resolveContacts separates overlapping pairs, splitting the correction by
// inverse mass. Kinematic and sleeping bodies push but are never pushed.
func (w *World) resolveContacts(bodies []*Body) {
	for i := 0; i < len(bodies); i++ {
		a := bodies[i]
		for j := i + 1; j < len(bodies); j++ {
			b := bodies[j]
			if a.static() && b.static() {
				continue
			}

			d := b.Pos.Sub(a.Pos)
			dist := d.Len()
			overlap := a.Radius + b.Radius - dist
			if overlap <= 0 {
				continue
			}

			var n mgl64.Vec2
			if dist > 1e-9 {
				n = d.Mul(1 / dist)
			} else {
				n = mgl64.Vec2{1, 0}
			}

			// A hard hit wakes a sleeping body.
			if math.Abs(b.Vel.Sub(a.Vel).Dot(n)) > w.cfg.WakeSpeed {
				if a.asleep {
					a.wake()
				}
				if b.asleep {
					b.wake()
				}
			}
			ia, ib := a.invMass(), b.invMass()
			if ia+ib == 0 {
				continue
			}

			share := overlap / (ia + ib)
			a.Pos = a.Pos.Sub(n.Mul(share * ia))
			b.Pos = b.Pos.Add(n.Mul(share * ib))

			// Relative velocity along the normal; negative means approaching.
			vn := b.Vel.Sub(a.Vel).Dot(n)
			if vn >= 0 {
				continue
			}
			imp := -(vn - w.bounce(vn)) / (ia + ib)
			a.Vel = a.Vel.Sub(n.Mul(imp * ia))
			b.Vel = b.Vel.Add(n.Mul(imp * ib))

			// Contact friction along the tangent.
			t := mgl64.Vec2{-n.Y(), n.X()}
			vt := b.Vel.Sub(a.Vel).Dot(t)
			jt := -vt * w.cfg.ContactFriction / (ia + ib)
			a.Vel = a.Vel.Sub(t.Mul(jt * ia))
			b.Vel = b.Vel.Add(t.Mul(jt * ib))
		}
	}
}

func (w *World) updateZone(bodies []*Body) {
	for _, b := range bodies {
		in := !b.Kinematic && w.InZone(b.Pos)
		switch {
		case in && !b.inZone:
			w.entered = append(w.entered, b.Handle)
		case !in && b.inZone:
			w.exited = append(w.exited, b.Handle)
		}
		b.inZone = in
	}
}

// InZone reports whether a point lies in the settlement zone.
func (w *World) InZone(p mgl64.Vec2) bool {
	return p.X() >= w.cfg.ZoneMin.X() && p.X() <= w.cfg.ZoneMax.X() &&
		p.Y() >= w.cfg.ZoneMin.Y() && p.Y() <= w.cfg.ZoneMax.Y()
}
