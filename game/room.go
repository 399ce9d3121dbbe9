package game

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/smasonuk/portalgun/engine"
	"github.com/smasonuk/portalgun/physics"
)

const (
	RoomSize      = 10.0
	WallHeight    = 15.0
	WallThickness = 0.1

	groundSize      = 265.0
	groundThickness = 3.0
	groundVisible   = 60.0

	wallTile   = 2.5
	groundTile = 5.0
)

var (
	wallColor    = color.RGBA{R: 0xc8, G: 0xc8, B: 0xc0, A: 0xff}
	floorColor   = color.RGBA{R: 0x90, G: 0x90, B: 0x98, A: 0xff}
	ceilingColor = color.RGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}
	groundColor  = color.RGBA{R: 0x4c, G: 0x9a, B: 0x2a, A: 0xff}
)

// Level is scene geometry plus the static boxes the player collides with.
type Level struct {
	Objects []*engine.Model
	Statics []physics.AABB
}

func (l *Level) add(name string, center, size mgl64.Vec3, tile float64, col color.RGBA) {
	m := engine.NewTiledBox(name, size.X(), size.Y(), size.Z(), tile, col)
	m.SetPosition(center)
	l.Objects = append(l.Objects, m)
	l.Statics = append(l.Statics, physics.BoxAt(center, size))
}

// Room is an open fronted box on a wide ground slab: three walls, a floor and
// a ceiling.
func Room() *Level {
	l := &Level{}
	h := WallHeight / 2
	half := RoomSize / 2

	l.add("wall front", mgl64.Vec3{0, h, half}, mgl64.Vec3{RoomSize, WallHeight, WallThickness}, wallTile, wallColor)
	l.add("wall left", mgl64.Vec3{-half, h, 0}, mgl64.Vec3{WallThickness, WallHeight, RoomSize}, wallTile, wallColor)
	l.add("wall right", mgl64.Vec3{half, h, 0}, mgl64.Vec3{WallThickness, WallHeight, RoomSize}, wallTile, wallColor)
	l.add("ceiling", mgl64.Vec3{0, WallHeight + WallThickness/2, 0}, mgl64.Vec3{RoomSize, WallThickness, RoomSize}, wallTile, ceilingColor)
	l.add("floor", mgl64.Vec3{0, WallThickness / 2, 0}, mgl64.Vec3{RoomSize, WallThickness, RoomSize}, wallTile, floorColor)

	// The visible ground leaves a hole under the room so it never paints
	// over the floor.
	edge := groundVisible / 2
	strip := edge - half
	for i, c := range []mgl64.Vec3{
		{0, 0, half + strip/2},
		{0, 0, -half - strip/2},
		{half + strip/2, 0, 0},
		{-half - strip/2, 0, 0},
	} {
		size := mgl64.Vec3{groundVisible, groundThickness, strip}
		if i >= 2 {
			size = mgl64.Vec3{strip, groundThickness, RoomSize}
		}
		ground := engine.NewTiledBox("ground", size.X(), size.Y(), size.Z(), groundTile, groundColor)
		ground.SetPosition(mgl64.Vec3{c.X(), -groundThickness / 2, c.Z()})
		l.Objects = append(l.Objects, ground)
	}
	l.Statics = append(l.Statics, physics.BoxAt(
		mgl64.Vec3{0, -groundThickness / 2, 0},
		mgl64.Vec3{groundSize, groundThickness, groundSize},
	))
	return l
}

// Build adds the level to the scene and the physics world.
func (l *Level) Build(scene *engine.World, phys *physics.World) {
	for _, m := range l.Objects {
		scene.AddObject(m)
	}
	for _, s := range l.Statics {
		phys.AddStatic(s)
	}
}
