package engine

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/smasonuk/portalgun"
)

// Model is a renderable object: object space faces placed in the world by
// a pose.
type Model struct {
	Name string
	Pose portalgun.Pose

	// Visible models are drawn; Collidable ones answer raycasts.
	Visible    bool
	Collidable bool

	// DrawAllFaces disables backface culling, for flat one sided shapes.
	DrawAllFaces bool

	// DepthBias pulls the model forward in painter's order so flat overlays
	// stay on top of the wall they lie on.
	DepthBias float64

	// Surface, when set, decides what the faces show instead of their colour.
	Surface *PortalSurface

	id    portalgun.ObjectID
	faces []*Face
}

func NewModel(name string, faces ...*Face) *Model {
	return &Model{
		Name:       name,
		Pose:       portalgun.NewPose(mgl64.Vec3{}, mgl64.QuatIdent()),
		Visible:    true,
		Collidable: true,
		faces:      faces,
	}
}

// ID is assigned when the model is added to a World.
func (m *Model) ID() portalgun.ObjectID {
	return m.id
}

func (m *Model) AddFace(f *Face) {
	m.faces = append(m.faces, f)
}

func (m *Model) Faces() []*Face {
	return m.faces
}

func (m *Model) SetPosition(p mgl64.Vec3) {
	m.Pose.Position = p
}

func (m *Model) SetOrientation(q mgl64.Quat) {
	m.Pose.Orientation = q
}

// worldFace is a face carried into world space.
type worldFace struct {
	points []mgl64.Vec3
	normal mgl64.Vec3
	col    color.RGBA
}

// worldFaces transforms every face with the model's pose. Normals follow the
// inverse transpose so non-uniform scale keeps them perpendicular.
func (m *Model) worldFaces() []worldFace {
	mat := m.Pose.Matrix()
	out := make([]worldFace, 0, len(m.faces))
	for _, f := range m.faces {
		pnts := make([]mgl64.Vec3, len(f.Points))
		for i, p := range f.Points {
			pnts[i] = mat.Mul4x1(p.Vec4(1)).Vec3()
		}
		out = append(out, worldFace{
			points: pnts,
			normal: m.worldNormal(f.GetNormal()),
			col:    f.Col,
		})
	}
	return out
}

func (m *Model) worldNormal(n mgl64.Vec3) mgl64.Vec3 {
	s := m.Pose.Scale
	scaled := mgl64.Vec3{safeDiv(n[0], s[0]), safeDiv(n[1], s[1]), safeDiv(n[2], s[2])}
	return m.Pose.Orientation.Rotate(scaled).Normalize()
}

func safeDiv(v, s float64) float64 {
	if s == 0 {
		return v
	}
	return v / s
}

// NewBox builds an axis aligned box centred on the origin with outward
// facing quads.
func NewBox(name string, w, h, d float64, col color.RGBA) *Model {
	return NewTiledBox(name, w, h, d, 0, col)
}

// NewTiledBox is NewBox with every side cut into cells no larger than tile,
// so painter's order holds up next to small objects lying on a big wall.
// A tile of zero or less keeps one quad per side.
func NewTiledBox(name string, w, h, d, tile float64, col color.RGBA) *Model {
	x, y, z := w/2, h/2, d/2
	m := NewModel(name)
	sides := [6][4]mgl64.Vec3{
		{{-x, -y, z}, {x, -y, z}, {x, y, z}, {-x, y, z}},     // +Z
		{{x, -y, -z}, {-x, -y, -z}, {-x, y, -z}, {x, y, -z}}, // -Z
		{{x, -y, z}, {x, -y, -z}, {x, y, -z}, {x, y, z}},     // +X
		{{-x, -y, -z}, {-x, -y, z}, {-x, y, z}, {-x, y, -z}}, // -X
		{{-x, y, z}, {x, y, z}, {x, y, -z}, {-x, y, -z}},     // +Y
		{{-x, -y, -z}, {x, -y, -z}, {x, -y, z}, {-x, -y, z}}, // -Y
	}
	for _, q := range sides {
		addTiledQuad(m, q[0], q[1].Sub(q[0]), q[3].Sub(q[0]), tile, col)
	}
	return m
}

// addTiledQuad splits the parallelogram o, o+u, o+u+v, o+v into a grid.
func addTiledQuad(m *Model, o, u, v mgl64.Vec3, tile float64, col color.RGBA) {
	nu, nv := cells(u.Len(), tile), cells(v.Len(), tile)
	at := func(i, j int) mgl64.Vec3 {
		return o.Add(u.Mul(float64(i) / float64(nu))).Add(v.Mul(float64(j) / float64(nv)))
	}
	for i := 0; i < nu; i++ {
		for j := 0; j < nv; j++ {
			m.AddFace(NewFace([]mgl64.Vec3{at(i, j), at(i+1, j), at(i+1, j+1), at(i, j+1)}, col))
		}
	}
}

func cells(length, tile float64) int {
	if tile <= 0 || length <= tile {
		return 1
	}
	return int(math.Ceil(length / tile))
}

// NewDisc builds a flat disc in the XY plane facing +Z.
func NewDisc(name string, radius float64, segments int, col color.RGBA) *Model {
	if segments < 3 {
		segments = 3
	}
	f := NewFaceEmpty(col)
	for i := 0; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		f.AddPoint(radius*math.Cos(a), radius*math.Sin(a), 0)
	}
	f.Finished(FACE_NORMAL)
	return NewModel(name, f)
}

// NewRing builds a flat annulus in the XY plane facing +Z, one quad per
// segment.
func NewRing(name string, inner, outer float64, segments int, col color.RGBA) *Model {
	if segments < 3 {
		segments = 3
	}
	m := NewModel(name)
	for i := 0; i < segments; i++ {
		a0 := 2 * math.Pi * float64(i) / float64(segments)
		a1 := 2 * math.Pi * float64(i+1) / float64(segments)
		c0, s0 := math.Cos(a0), math.Sin(a0)
		c1, s1 := math.Cos(a1), math.Sin(a1)
		m.AddFace(NewFace([]mgl64.Vec3{
			{inner * c0, inner * s0, 0},
			{outer * c0, outer * s0, 0},
			{outer * c1, outer * s1, 0},
			{inner * c1, inner * s1, 0},
		}, col))
	}
	return m
}
