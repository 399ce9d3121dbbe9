package engine

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const epsilon = 1e-9

// clipPolygonAgainstNearPlane keeps the part of a camera space polygon with
// z >= near. Points on the plane are kept.
func clipPolygonAgainstNearPlane(points []mgl64.Vec3, near float64) []mgl64.Vec3 {
	if len(points) == 0 {
		return []mgl64.Vec3{}
	}

	out := make([]mgl64.Vec3, 0, len(points)+2)
	for i := range points {
		cur := points[i]
		next := points[(i+1)%len(points)]
		curIn := cur.Z() >= near
		nextIn := next.Z() >= near

		switch {
		case curIn && nextIn:
			out = append(out, cur)
		case curIn && !nextIn:
			out = append(out, cur, intersectNearPlane(cur, next, near))
		case !curIn && nextIn:
			out = append(out, intersectNearPlane(cur, next, near))
		}
	}
	return out
}

// intersectNearPlane returns where the segment p1-p2 crosses z = near. A
// segment parallel to the plane returns p1.
func intersectNearPlane(p1, p2 mgl64.Vec3, near float64) mgl64.Vec3 {
	dz := p2.Z() - p1.Z()
	if math.Abs(dz) < epsilon {
		return p1
	}
	t := (near - p1.Z()) / dz
	return p1.Add(p2.Sub(p1).Mul(t))
}

// Point is a position on the target image.
type Point struct {
	X, Y float32
}

// clipPolygon clips a screen polygon to the rectangle [0,w]x[0,h], one edge
// at a time.
func clipPolygon(points []Point, w, h float32) []Point {
	inside := []func(p Point) bool{
		func(p Point) bool { return p.X >= 0 },
		func(p Point) bool { return p.X <= w },
		func(p Point) bool { return p.Y >= 0 },
		func(p Point) bool { return p.Y <= h },
	}
	cross := []func(a, b Point) Point{
		func(a, b Point) Point { return lerpAtX(a, b, 0) },
		func(a, b Point) Point { return lerpAtX(a, b, w) },
		func(a, b Point) Point { return lerpAtY(a, b, 0) },
		func(a, b Point) Point { return lerpAtY(a, b, h) },
	}

	out := points
	for edge := range inside {
		if len(out) == 0 {
			break
		}
		in := out
		out = make([]Point, 0, len(in)+2)
		for i := range in {
			cur := in[i]
			next := in[(i+1)%len(in)]
			curIn, nextIn := inside[edge](cur), inside[edge](next)
			switch {
			case curIn && nextIn:
				out = append(out, cur)
			case curIn && !nextIn:
				out = append(out, cur, cross[edge](cur, next))
			case !curIn && nextIn:
				out = append(out, cross[edge](cur, next))
			}
		}
	}
	return out
}

func lerpAtX(a, b Point, x float32) Point {
	t := (x - a.X) / (b.X - a.X)
	return Point{X: x, Y: a.Y + (b.Y-a.Y)*t}
}

func lerpAtY(a, b Point, y float32) Point {
	t := (y - a.Y) / (b.Y - a.Y)
	return Point{X: a.X + (b.X-a.X)*t, Y: y}
}

// rayIntersectsPolygon returns the distance along dir to a convex planar
// polygon, or false when the ray misses or runs parallel to it.
func rayIntersectsPolygon(origin, dir mgl64.Vec3, polygon []mgl64.Vec3, normal mgl64.Vec3) (float64, bool) {
	if len(polygon) < 3 {
		return 0, false
	}

	denom := normal.Dot(dir)
	if math.Abs(denom) < epsilon {
		return 0, false
	}
	t := normal.Dot(polygon[0].Sub(origin)) / denom
	if t < 0 {
		return 0, false
	}
	hit := origin.Add(dir.Mul(t))
	if !isPointInPolygon(hit, polygon, normal) {
		return 0, false
	}
	return t, true
}

// isPointInPolygon checks a point already on the polygon's plane, using the
// 2D projection that drops the normal's largest axis.
func isPointInPolygon(point mgl64.Vec3, polygon []mgl64.Vec3, normal mgl64.Vec3) bool {
	absX, absY, absZ := math.Abs(normal.X()), math.Abs(normal.Y()), math.Abs(normal.Z())

	u, v := 0, 1
	switch {
	case absX >= absY && absX >= absZ:
		u, v = 1, 2
	case absY >= absX && absY >= absZ:
		u, v = 0, 2
	}

	px, py := point[u], point[v]
	inside := false
	for i := range polygon {
		a := polygon[i]
		b := polygon[(i+1)%len(polygon)]
		if (a[v] > py) != (b[v] > py) {
			x := (b[u]-a[u])*(py-a[v])/(b[v]-a[v]) + a[u]
			if px < x {
				inside = !inside
			}
		}
	}
	return inside
}
