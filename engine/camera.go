package engine

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/smasonuk/portalgun"
)

const (
	defaultFOV  = 75.0
	defaultNear = 0.1
)

// Camera projects world points onto a target image. In camera space +Z runs
// into the screen and +Y runs down it, so a point projects to
// (cx + f*x/z, cy + f*y/z).
type Camera struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat

	// FOV is the vertical field of view in degrees.
	FOV  float64
	Near float64

	view mgl64.Mat4
}

func NewCamera(pose portalgun.Camera) *Camera {
	c := &Camera{FOV: defaultFOV, Near: defaultNear}
	c.SetPose(pose)
	return c
}

// SetPose moves the camera and rebuilds its view matrix.
func (c *Camera) SetPose(pose portalgun.Camera) {
	c.Position = pose.Position
	c.Orientation = pose.Orientation.Normalize()

	flip := mgl64.Scale3D(1, -1, -1)
	rot := c.Orientation.Conjugate().Mat4()
	trans := mgl64.Translate3D(-c.Position[0], -c.Position[1], -c.Position[2])
	c.view = flip.Mul4(rot).Mul4(trans)
}

// ToCamera maps a world point into camera space.
func (c *Camera) ToCamera(p mgl64.Vec3) mgl64.Vec3 {
	return c.view.Mul4x1(p.Vec4(1)).Vec3()
}

// ToCameraDir maps a world direction into camera space.
func (c *Camera) ToCameraDir(d mgl64.Vec3) mgl64.Vec3 {
	return c.view.Mul4x1(d.Vec4(0)).Vec3()
}

// focal is the projection factor for a target of the given height.
func (c *Camera) focal(height float64) float64 {
	fov := c.FOV
	if fov <= 0 || fov >= 180 {
		fov = defaultFOV
	}
	return (height / 2) / math.Tan(mgl64.DegToRad(fov)/2)
}

// ConvertToScreen projects a camera space point. z must be positive.
func (c *Camera) ConvertToScreen(width, height float64, p mgl64.Vec3) Point {
	f := c.focal(height)
	return Point{
		X: float32(width/2 + f*p.X()/p.Z()),
		Y: float32(height/2 + f*p.Y()/p.Z()),
	}
}

// ConvertFromScreen is the inverse of ConvertToScreen at depth z.
func (c *Camera) ConvertFromScreen(width, height float64, sx, sy, z float64) (float64, float64) {
	f := c.focal(height)
	return (sx - width/2) * z / f, (sy - height/2) * z / f
}
