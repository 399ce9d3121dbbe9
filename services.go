package portalgun

import (
	"image"
	"image/color"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

// ObjectID identifies renderable scene geometry returned by a raycast.
type ObjectID int

// SceneHit is the first surface struck by a scene raycast. Normal is already
// in world space.
type SceneHit struct {
	Point    mgl64.Vec3
	Normal   mgl64.Vec3
	Distance float64
	Object   ObjectID
}

// SceneRaycaster casts rays against all collidable scene geometry.
type SceneRaycaster interface {
	Raycast(ray Ray) (SceneHit, bool)
}

// Camera is a view pose. Cameras look down their local -Z axis.
type Camera struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat
}

// Forward is the direction the camera looks.
func (c Camera) Forward() mgl64.Vec3 {
	return c.Orientation.Rotate(ForwardAxis.Mul(-1))
}

// Target is an offscreen image a view is rendered into. *ebiten.Image
// satisfies it.
type Target interface {
	Bounds() image.Rectangle
}

// ViewRenderer draws the full scene from a camera into an offscreen target.
type ViewRenderer interface {
	RenderView(cam Camera, dst Target)
}

// Surface is the inner disc of a portal. It shows either a flat colour or the
// image held by a target.
type Surface interface {
	ShowFallback(c color.RGBA)
	ShowTarget(t Target)
}

// BodyID identifies a rigid body owned by the physics service.
type BodyID int

// BodySnapshot is the transform of a body as read from, or written to, the
// physics service.
type BodySnapshot struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat
	Velocity    mgl64.Vec3
}

// BodyExtent is the capsule size used by portal entry tests.
type BodyExtent struct {
	Radius float64
	Height float64
}

// Physics is the part of the physics service the subsystem uses.
// SetBodyTransform must apply position, orientation and velocity as one
// update and zero the angular velocity.
type Physics interface {
	BodyTransform(id BodyID) BodySnapshot
	SetBodyTransform(id BodyID, s BodySnapshot)
	BodyExtent(id BodyID) BodyExtent
}

// CuePlayer plays one-shot audio cues. Unknown cues are ignored and report a
// zero duration.
type CuePlayer interface {
	PlayCue(name string, volume float64)
	CueDuration(name string) time.Duration
}

type nopCues struct{}

func (nopCues) PlayCue(string, float64) {}
func (nopCues) CueDuration(string) time.Duration { return 0 }

type nopSurface struct{}

func (nopSurface) ShowFallback(color.RGBA) {}
func (nopSurface) ShowTarget(Target) {}
