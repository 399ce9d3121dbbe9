package engine

import (
	"image/color"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

// drawFace is a face ready to paint: clipped, projected and shaded.
type drawFace struct {
	model   *Model
	screen  []Point
	mid     mgl64.Vec3 // camera space
	bias    float64
	col     color.RGBA
	surface *PortalSurface
}

// FaceStore collects the faces of one frame for painter's order drawing.
type FaceStore struct {
	faces []*drawFace
}

func NewFaceStore() *FaceStore {
	return &FaceStore{faces: make([]*drawFace, 0, 64)}
}

func (fs *FaceStore) AddFace(f *drawFace) {
	fs.faces = append(fs.faces, f)
}

func (fs *FaceStore) GetFace(i int) *drawFace {
	return fs.faces[i]
}

func (fs *FaceStore) FaceCount() int {
	return len(fs.faces)
}

func (fs *FaceStore) Reset() {
	fs.faces = fs.faces[:0]
}

// SortFacesByDistance puts the faces farthest from pos first.
func (fs *FaceStore) SortFacesByDistance(pos mgl64.Vec3) {
	sort.SliceStable(fs.faces, func(i, j int) bool {
		return fs.faces[i].distance(pos) > fs.faces[j].distance(pos)
	})
}

func (f *drawFace) distance(pos mgl64.Vec3) float64 {
	return f.mid.Sub(pos).Len() - f.bias
}
