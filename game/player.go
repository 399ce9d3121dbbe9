package game

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/smasonuk/portalgun"
	"github.com/smasonuk/portalgun/physics"
)

const (
	MouseSensitivity = 0.002
	WalkSpeed        = 5.0
	SprintSpeed      = 10.0
	JumpStrength     = 8.0

	PlayerRadius = 0.5
	PlayerHeight = 2.0

	// eyeOffset lifts the camera from the body centre to head height.
	eyeOffset = 0.6

	groundProbe = 0.1
)

// Input is one frame of player controls.
type Input struct {
	Forward, Back, Left, Right bool
	Sprint, Jump               bool
	MouseDX, MouseDY           float64
	FireA, FireB               bool
}

// Player is the first person controller driving one physics body.
type Player struct {
	Body       portalgun.BodyID
	Yaw, Pitch float64

	grounded bool
	jumping  bool
}

func NewPlayer(body portalgun.BodyID) *Player {
	return &Player{Body: body}
}

// Look turns the view by a mouse movement. Pitch stops at straight up and
// straight down.
func (p *Player) Look(dx, dy float64) {
	p.Yaw -= dx * MouseSensitivity
	p.Pitch -= dy * MouseSensitivity
	p.Pitch = mgl64.Clamp(p.Pitch, -math.Pi/2, math.Pi/2)
}

// Turn adds a yaw change, as handed out by a teleport.
func (p *Player) Turn(delta float64) {
	p.Yaw = math.Remainder(p.Yaw+delta, 2*math.Pi)
}

// Orientation is yaw about +Y followed by pitch about +X.
func (p *Player) Orientation() mgl64.Quat {
	yaw := mgl64.QuatRotate(p.Yaw, mgl64.Vec3{0, 1, 0})
	pitch := mgl64.QuatRotate(p.Pitch, mgl64.Vec3{1, 0, 0})
	return yaw.Mul(pitch)
}

// Camera sits at head height on the body.
func (p *Player) Camera(w *physics.World) portalgun.Camera {
	pos := w.BodyTransform(p.Body).Position
	return portalgun.Camera{
		Position:    pos.Add(mgl64.Vec3{0, eyeOffset, 0}),
		Orientation: p.Orientation(),
	}
}

// Grounded reports the result of the last ground probe.
func (p *Player) Grounded() bool {
	return p.grounded
}

// Drive probes for ground, then sets the body velocity from the input. It
// must run before the physics step.
func (p *Player) Drive(w *physics.World, in Input) {
	b := w.Body(p.Body)
	if b == nil {
		return
	}

	// Cast from just inside the body bottom to a little below it.
	from := b.Position.Sub(mgl64.Vec3{0, b.Radius * 0.9, 0})
	reach := b.Height/2 + groundProbe - b.Radius*0.9
	_, p.grounded = w.RaycastDown(from, reach)
	if p.grounded {
		p.jumping = false
	}

	dir := moveDirection(in, p.Yaw)
	speed := WalkSpeed
	if in.Sprint {
		speed = SprintSpeed
	}

	b.Velocity = mgl64.Vec3{dir.X() * speed, b.Velocity.Y(), dir.Z() * speed}
	if in.Jump && p.grounded && !p.jumping {
		p.jumping = true
		b.Velocity[1] = 0
		b.ApplyImpulse(mgl64.Vec3{0, JumpStrength, 0})
	}
}

// moveDirection is the unit walking direction in the world, or zero.
func moveDirection(in Input, yaw float64) mgl64.Vec3 {
	var d mgl64.Vec3
	if in.Forward {
		d[2]--
	}
	if in.Back {
		d[2]++
	}
	if in.Left {
		d[0]--
	}
	if in.Right {
		d[0]++
	}
	if d.Len() == 0 {
		return d
	}
	return mgl64.QuatRotate(yaw, mgl64.Vec3{0, 1, 0}).Rotate(d).Normalize()
}
