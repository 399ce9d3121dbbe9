package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// AABB is an axis aligned box.
type AABB struct {
	Min mgl64.Vec3
	Max mgl64.Vec3
}

// BoxAt builds a box from its centre and full size.
func BoxAt(center, size mgl64.Vec3) AABB {
	half := size.Mul(0.5)
	return AABB{Min: center.Sub(half), Max: center.Add(half)}
}

// Overlaps is strict: boxes that only touch do not overlap.
func (a AABB) Overlaps(other AABB) bool {
	return a.Max.X() > other.Min.X() && a.Min.X() < other.Max.X() &&
		a.Max.Y() > other.Min.Y() && a.Min.Y() < other.Max.Y() &&
		a.Max.Z() > other.Min.Z() && a.Min.Z() < other.Max.Z()
}

// penetrates is Overlaps with every axis overlapping by more than slop.
func (a AABB) penetrates(other AABB, slop float64) bool {
	s := mgl64.Vec3{slop, slop, slop}
	return AABB{Min: a.Min.Add(s), Max: a.Max.Sub(s)}.Overlaps(other)
}

// Raycast uses the slab method. dir need not be normalised; the returned
// distance is in units of dir.
func (a AABB) Raycast(origin, dir mgl64.Vec3) (float64, bool) {
	tMin, tMax := 0.0, math.Inf(1)
	for i := 0; i < 3; i++ {
		if math.Abs(dir[i]) < 1e-12 {
			if origin[i] < a.Min[i] || origin[i] > a.Max[i] {
				return 0, false
			}
			continue
		}
		t1 := (a.Min[i] - origin[i]) / dir[i]
		t2 := (a.Max[i] - origin[i]) / dir[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	return tMin, true
}
