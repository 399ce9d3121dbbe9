package portalgun

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var (
	// ForwardAxis is the canonical facing of a portal surface before it is
	// rotated onto a wall.
	ForwardAxis = mgl64.Vec3{0, 0, 1}
	UpAxis      = mgl64.Vec3{0, 1, 0}
	rightAxis   = mgl64.Vec3{1, 0, 0}
)

// Ray is a half line used for aiming.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// Pose is a world transform: translation, rotation and non-uniform scale.
type Pose struct {
	Position    mgl64.Vec3
	Orientation mgl64.Quat
	Scale       mgl64.Vec3
}

// NewPose creates a pose with unit scale.
func NewPose(position mgl64.Vec3, orientation mgl64.Quat) Pose {
	return Pose{
		Position:    position,
		Orientation: orientation,
		Scale:       mgl64.Vec3{1, 1, 1},
	}
}

// Matrix composes the pose as T * R * S.
func (p Pose) Matrix() mgl64.Mat4 {
	translate := mgl64.Translate3D(p.Position.Elem())
	rotate := p.Orientation.Normalize().Mat4()
	scale := mgl64.Scale3D(p.Scale.Elem())
	return translate.Mul4(rotate).Mul4(scale)
}

// InverseMatrix is inv(S) * inv(R) * inv(T). A zero scale component is
// treated as unit scale so the inverse always exists.
func (p Pose) InverseMatrix() mgl64.Mat4 {
	invScale := mgl64.Scale3D(safeInv(p.Scale[0]), safeInv(p.Scale[1]), safeInv(p.Scale[2]))
	invRotate := p.Orientation.Normalize().Conjugate().Mat4()
	invTranslate := mgl64.Translate3D(-p.Position[0], -p.Position[1], -p.Position[2])
	return invScale.Mul4(invRotate).Mul4(invTranslate)
}

func safeInv(v float64) float64 {
	if v == 0 {
		return 1
	}
	return 1 / v
}

// ToLocal expresses a world point in the pose's local frame.
func (p Pose) ToLocal(world mgl64.Vec3) mgl64.Vec3 {
	return p.InverseMatrix().Mul4x1(world.Vec4(1)).Vec3()
}

// ToWorld maps a local point back into world space.
func (p Pose) ToWorld(local mgl64.Vec3) mgl64.Vec3 {
	return p.Matrix().Mul4x1(local.Vec4(1)).Vec3()
}

// Normal is the outward facing direction of the pose's surface.
func (p Pose) Normal() mgl64.Vec3 {
	return p.Orientation.Rotate(ForwardAxis).Normalize()
}

// Right and Up are the in-plane axes of the pose's surface.
func (p Pose) Right() mgl64.Vec3 {
	return p.Orientation.Rotate(rightAxis).Normalize()
}

func (p Pose) Up() mgl64.Vec3 {
	return p.Orientation.Rotate(UpAxis).Normalize()
}

// Plane returns the plane through the pose's origin facing along Normal.
func (p Pose) Plane() Plane {
	return NewPlaneFromPoint(p.Position, p.Normal())
}

// Plane is n.x*x + n.y*y + n.z*z + D = 0 with a unit normal.
type Plane struct {
	Normal mgl64.Vec3
	D      float64
}

func NewPlaneFromPoint(point, normal mgl64.Vec3) Plane {
	n := normal.Normalize()
	return Plane{Normal: n, D: -n.Dot(point)}
}

// SignedDistance is positive in front of the plane.
func (p Plane) SignedDistance(point mgl64.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Project drops the component of v along the plane normal.
func (p Plane) Project(v mgl64.Vec3) mgl64.Vec3 {
	return v.Sub(p.Normal.Mul(v.Dot(p.Normal)))
}

// OrientationFromNormal rotates ForwardAxis onto the given surface normal.
// QuatBetweenVectors snaps anything close to antiparallel onto an exact half
// turn, so normals facing back along -Z start from the half turned frame.
func OrientationFromNormal(normal mgl64.Vec3) mgl64.Quat {
	n := normal.Normalize()
	if n.Dot(ForwardAxis) < -0.99 {
		return mgl64.QuatBetweenVectors(ForwardAxis.Mul(-1), n).Mul(YawCorrection()).Normalize()
	}
	return mgl64.QuatBetweenVectors(ForwardAxis, n)
}

// RelativeRotation is to ∘ inverse(from).
func RelativeRotation(from, to mgl64.Quat) mgl64.Quat {
	return to.Mul(from.Inverse()).Normalize()
}

// YawCorrection is a half turn about the up axis. Entering one portal's front
// must leave through the partner's front, not its back.
func YawCorrection() mgl64.Quat {
	return mgl64.QuatRotate(math.Pi, UpAxis)
}

// YawOf extracts the heading of q using the Y-X-Z Euler decomposition.
func YawOf(q mgl64.Quat) float64 {
	forward := q.Rotate(ForwardAxis)
	if math.Abs(forward.Y()) < 0.9999999 {
		return math.Atan2(forward.X(), forward.Z())
	}
	right := q.Rotate(rightAxis)
	return math.Atan2(-right.Z(), right.X())
}

// SameRotation reports whether two quaternions describe the same rotation.
// q and -q are equivalent.
func SameRotation(a, b mgl64.Quat, eps float64) bool {
	return math.Abs(math.Abs(a.Normalize().Dot(b.Normalize()))-1) <= eps
}
