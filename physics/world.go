package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/smasonuk/portalgun"
	"go.uber.org/zap"
)

const (
	DefaultGravity = -19.81
	contactSlop    = 1e-6
)

// Body is an upright kinematic body. Its collision shape is the box around
// a capsule of the given radius and height, centred on Position.
type Body struct {
	Position        mgl64.Vec3
	Orientation     mgl64.Quat
	Velocity        mgl64.Vec3
	AngularVelocity mgl64.Vec3

	Radius       float64
	Height       float64
	GravityScale float64

	// OnGround is set by Step when the body lands on a static box.
	OnGround bool
}

func (b *Body) bounds() AABB {
	half := mgl64.Vec3{b.Radius, b.Height / 2, b.Radius}
	return AABB{Min: b.Position.Sub(half), Max: b.Position.Add(half)}
}

// ApplyImpulse adds a velocity change. Bodies have unit mass.
func (b *Body) ApplyImpulse(impulse mgl64.Vec3) {
	b.Velocity = b.Velocity.Add(impulse)
}

// World steps bodies under gravity against static boxes.
type World struct {
	Gravity mgl64.Vec3

	bodies  map[portalgun.BodyID]*Body
	statics []AABB
	nextID  portalgun.BodyID
	logger  *zap.Logger
}

func NewWorld(logger *zap.Logger) *World {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &World{
		Gravity: mgl64.Vec3{0, DefaultGravity, 0},
		bodies:  make(map[portalgun.BodyID]*Body),
		nextID:  1,
		logger:  logger.Named("physics"),
	}
}

// AddBody creates an upright body at pos.
func (w *World) AddBody(radius, height float64, pos mgl64.Vec3) portalgun.BodyID {
	id := w.nextID
	w.nextID++
	w.bodies[id] = &Body{
		Position:     pos,
		Orientation:  mgl64.QuatIdent(),
		Radius:       radius,
		Height:       height,
		GravityScale: 1,
	}
	w.logger.Debug("body added",
		zap.Int("id", int(id)),
		zap.Float64("radius", radius),
		zap.Float64("height", height),
	)
	return id
}

// Body returns nil for unknown ids.
func (w *World) Body(id portalgun.BodyID) *Body {
	return w.bodies[id]
}

func (w *World) AddStatic(box AABB) {
	w.statics = append(w.statics, box)
}

// Step advances every body by dt, split into substeps. Each substep moves one
// axis at a time and pushes the body out of any static box it entered.
func (w *World) Step(dt float64, substeps int) {
	if dt <= 0 {
		return
	}
	if substeps < 1 {
		substeps = 1
	}
	h := dt / float64(substeps)
	for _, b := range w.bodies {
		b.OnGround = false
		for i := 0; i < substeps; i++ {
			w.integrate(b, h)
		}
	}
}

func (w *World) integrate(b *Body, h float64) {
	b.Velocity = b.Velocity.Add(w.Gravity.Mul(h * b.GravityScale))

	if b.AngularVelocity.Len() > 0 {
		angle := b.AngularVelocity.Len() * h
		spin := mgl64.QuatRotate(angle, b.AngularVelocity.Normalize())
		b.Orientation = spin.Mul(b.Orientation).Normalize()
	}

	for axis := 0; axis < 3; axis++ {
		move := b.Velocity[axis] * h
		if move == 0 {
			continue
		}
		b.Position[axis] += move
		w.resolve(b, axis, move)
	}
}

// resolve pushes b back along axis out of every static box it overlaps.
// Contacts shallower than contactSlop are ignored so a body resting on a
// floor can slide along it.
func (w *World) resolve(b *Body, axis int, move float64) {
	half := mgl64.Vec3{b.Radius, b.Height / 2, b.Radius}
	for _, s := range w.statics {
		if !b.bounds().penetrates(s, contactSlop) {
			continue
		}
		if move > 0 {
			b.Position[axis] = s.Min[axis] - half[axis]
		} else {
			b.Position[axis] = s.Max[axis] + half[axis]
			if axis == 1 {
				b.OnGround = true
			}
		}
		b.Velocity[axis] = 0
	}
}

// RaycastDown casts straight down from origin against the static boxes and
// returns the distance to the first surface within maxDist.
func (w *World) RaycastDown(origin mgl64.Vec3, maxDist float64) (float64, bool) {
	return w.Raycast(origin, mgl64.Vec3{0, -1, 0}, maxDist)
}

// Raycast finds the nearest static box along a unit direction.
func (w *World) Raycast(origin, dir mgl64.Vec3, maxDist float64) (float64, bool) {
	best := math.Inf(1)
	for _, s := range w.statics {
		if t, ok := s.Raycast(origin, dir); ok && t <= maxDist && t < best {
			best = t
		}
	}
	return best, !math.IsInf(best, 1)
}

// BodyTransform returns a zero snapshot for unknown ids.
func (w *World) BodyTransform(id portalgun.BodyID) portalgun.BodySnapshot {
	b, ok := w.bodies[id]
	if !ok {
		return portalgun.BodySnapshot{Orientation: mgl64.QuatIdent()}
	}
	return portalgun.BodySnapshot{
		Position:    b.Position,
		Orientation: b.Orientation,
		Velocity:    b.Velocity,
	}
}

// SetBodyTransform writes position, orientation and velocity together and
// stops any spin.
func (w *World) SetBodyTransform(id portalgun.BodyID, s portalgun.BodySnapshot) {
	b, ok := w.bodies[id]
	if !ok {
		w.logger.Warn("transform for unknown body", zap.Int("id", int(id)))
		return
	}
	b.Position = s.Position
	b.Orientation = s.Orientation.Normalize()
	b.Velocity = s.Velocity
	b.AngularVelocity = mgl64.Vec3{}
	b.OnGround = false
}

func (w *World) BodyExtent(id portalgun.BodyID) portalgun.BodyExtent {
	b, ok := w.bodies[id]
	if !ok {
		return portalgun.BodyExtent{}
	}
	return portalgun.BodyExtent{Radius: b.Radius, Height: b.Height}
}

var _ portalgun.Physics = (*World)(nil)
