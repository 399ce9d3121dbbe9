package engine

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

// Face is a planar convex polygon in object space. Points wind counter
// clockwise when seen from the side the normal points to.
type Face struct {
	Points []mgl64.Vec3
	Col    color.RGBA

	normal    mgl64.Vec3
	hasNormal bool
	meRev     bool
}

const (
	FACE_NORMAL  = 0
	FACE_REVERSE = 1
)

func NewFace(pnts []mgl64.Vec3, col color.RGBA) *Face {
	return &Face{
		Points: pnts,
		Col:    col,
	}
}

func NewFaceEmpty(col color.RGBA) *Face {
	return &Face{Col: col}
}

func (f *Face) AddPoint(x, y, z float64) {
	f.Points = append(f.Points, mgl64.Vec3{x, y, z})
	f.hasNormal = false
}

// Finished fixes the winding. FACE_REVERSE flips the computed normal.
func (f *Face) Finished(reverse int) {
	f.meRev = reverse == FACE_REVERSE
	f.hasNormal = false
}

func (f *Face) Copy() *Face {
	pnts := make([]mgl64.Vec3, len(f.Points))
	copy(pnts, f.Points)
	return &Face{
		Points:    pnts,
		Col:       f.Col,
		normal:    f.normal,
		hasNormal: f.hasNormal,
		meRev:     f.meRev,
	}
}

func (f *Face) SetColor(col color.RGBA) {
	f.Col = col
}

// GetNormal returns the unit normal from the first three points.
func (f *Face) GetNormal() mgl64.Vec3 {
	if !f.hasNormal {
		f.createNormal()
	}
	return f.normal
}

func (f *Face) createNormal() {
	f.hasNormal = true
	if len(f.Points) < 3 {
		f.normal = mgl64.Vec3{0, 0, 1}
		return
	}

	u := f.Points[1].Sub(f.Points[0])
	v := f.Points[2].Sub(f.Points[1])
	n := u.Cross(v)
	if f.meRev {
		n = n.Mul(-1)
	}
	if n.Len() == 0 {
		f.normal = mgl64.Vec3{0, 0, 1}
		return
	}
	f.normal = n.Normalize()
}

// GetMidPoint is the average of the face's points.
func (f *Face) GetMidPoint() mgl64.Vec3 {
	return midPoint(f.Points)
}

func midPoint(points []mgl64.Vec3) mgl64.Vec3 {
	if len(points) == 0 {
		return mgl64.Vec3{}
	}
	var sum mgl64.Vec3
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Mul(1 / float64(len(points)))
}
