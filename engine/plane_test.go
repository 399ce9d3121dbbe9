package engine

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

const float64EqualityThreshold = 1e-6

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= float64EqualityThreshold
}

func polygonsAlmostEqual(a, b []mgl64.Vec3) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].ApproxEqualThreshold(b[i], float64EqualityThreshold) {
			return false
		}
	}
	return true
}

func TestClipPolygonAgainstNearPlane(t *testing.T) {
	const near = 10
	testCases := []struct {
		name     string
		input    []mgl64.Vec3
		expected []mgl64.Vec3
	}{
		{
			name:     "Polygon fully in front of near plane",
			input:    []mgl64.Vec3{{0, 0, 20}, {1, 0, 20}, {0, 1, 20}},
			expected: []mgl64.Vec3{{0, 0, 20}, {1, 0, 20}, {0, 1, 20}},
		},
		{
			name:     "Polygon fully behind near plane",
			input:    []mgl64.Vec3{{0, 0, 5}, {1, 0, 5}, {0, 1, 5}},
			expected: []mgl64.Vec3{},
		},
		{
			name:     "Polygon with one point in front",
			input:    []mgl64.Vec3{{0, 0, 15}, {0, 1, 5}, {1, 0, 5}},
			expected: []mgl64.Vec3{{0, 0, 15}, {0, 0.5, 10}, {0.5, 0, 10}},
		},
		{
			name:     "Polygon with two points in front",
			input:    []mgl64.Vec3{{0, 0, 5}, {0, 1, 15}, {1, 0, 15}},
			expected: []mgl64.Vec3{{0, 0.5, 10}, {0, 1, 15}, {1, 0, 15}, {0.5, 0, 10}},
		},
		{
			name:     "Empty polygon",
			input:    []mgl64.Vec3{},
			expected: []mgl64.Vec3{},
		},
		{
			name:     "Polygon on the near plane",
			input:    []mgl64.Vec3{{0, 0, 10}, {1, 0, 10}, {0, 1, 10}},
			expected: []mgl64.Vec3{{0, 0, 10}, {1, 0, 10}, {0, 1, 10}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clipped := clipPolygonAgainstNearPlane(tc.input, near)
			if !polygonsAlmostEqual(clipped, tc.expected) {
				t.Errorf("clipPolygonAgainstNearPlane() = %v, want %v", clipped, tc.expected)
			}
		})
	}
}

func TestIntersectNearPlane(t *testing.T) {
	testCases := []struct {
		name     string
		p1, p2   mgl64.Vec3
		expected mgl64.Vec3
	}{
		{"Standard intersection", mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, 20}, mgl64.Vec3{0, 0, 10}},
		{"Intersection with non-zero X and Y", mgl64.Vec3{10, 20, 0}, mgl64.Vec3{30, 40, 20}, mgl64.Vec3{20, 30, 10}},
		{"Line parallel to near plane", mgl64.Vec3{10, 10, 5}, mgl64.Vec3{20, 20, 5}, mgl64.Vec3{10, 10, 5}},
		{"Line segment on near plane", mgl64.Vec3{10, 10, 10}, mgl64.Vec3{20, 20, 10}, mgl64.Vec3{10, 10, 10}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := intersectNearPlane(tc.p1, tc.p2, 10)
			if !result.ApproxEqualThreshold(tc.expected, float64EqualityThreshold) {
				t.Errorf("intersectNearPlane() = %v, want %v", result, tc.expected)
			}
		})
	}
}

func TestClipPolygonToScreen(t *testing.T) {
	testCases := []struct {
		name  string
		input []Point
		want  int
	}{
		{"inside", []Point{{10, 10}, {20, 10}, {20, 20}}, 3},
		{"outside", []Point{{-30, -30}, {-20, -30}, {-20, -20}}, 0},
		{"corner overlap", []Point{{-10, -10}, {10, -10}, {10, 10}, {-10, 10}}, 4},
		{"straddles right edge", []Point{{90, 10}, {110, 10}, {110, 20}, {90, 20}}, 4},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := clipPolygon(tc.input, 100, 50)
			if len(got) != tc.want {
				t.Fatalf("clipPolygon() returned %d points, want %d: %v", len(got), tc.want, got)
			}
			for _, p := range got {
				if p.X < 0 || p.X > 100 || p.Y < 0 || p.Y > 50 {
					t.Errorf("point %v outside the screen", p)
				}
			}
		})
	}
}

func TestRayIntersectsPolygon(t *testing.T) {
	square := []mgl64.Vec3{{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0}}
	normal := mgl64.Vec3{0, 0, 1}

	testCases := []struct {
		name   string
		origin mgl64.Vec3
		dir    mgl64.Vec3
		hit    bool
		dist   float64
	}{
		{"straight on", mgl64.Vec3{0, 0, 5}, mgl64.Vec3{0, 0, -1}, true, 5},
		{"from behind", mgl64.Vec3{0.5, 0.5, -2}, mgl64.Vec3{0, 0, 1}, true, 2},
		{"beside", mgl64.Vec3{2, 0, 5}, mgl64.Vec3{0, 0, -1}, false, 0},
		{"pointing away", mgl64.Vec3{0, 0, 5}, mgl64.Vec3{0, 0, 1}, false, 0},
		{"parallel", mgl64.Vec3{0, 0, 5}, mgl64.Vec3{1, 0, 0}, false, 0},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d, ok := rayIntersectsPolygon(tc.origin, tc.dir, square, normal)
			if ok != tc.hit {
				t.Fatalf("hit = %v, want %v", ok, tc.hit)
			}
			if ok && !almostEqual(d, tc.dist) {
				t.Errorf("distance = %v, want %v", d, tc.dist)
			}
		})
	}
}
