package game

import (
	"embed"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/smasonuk/portalgun"
	"github.com/smasonuk/portalgun/engine"
)

//go:embed assets/*.ply
var assetsFS embed.FS

var handOffset = mgl64.Vec3{0.5, -0.4, -0.5}

// GunPose places the held gun in the lower right of the view, turned a
// quarter about its up axis so its +X barrel points where the camera looks.
func GunPose(cam portalgun.Camera) portalgun.Pose {
	pos := cam.Position.Add(cam.Orientation.Rotate(handOffset))
	q := cam.Orientation.Mul(mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0}))
	return portalgun.NewPose(pos, q)
}

// NewGun loads the held item. It never blocks shots.
func NewGun() (*engine.Model, error) {
	m, err := engine.LoadPLYFile(assetsFS, "assets/gun.ply", engine.FACE_NORMAL)
	if err != nil {
		return nil, err
	}
	m.Name = "portal gun"
	m.Collidable = false
	return m, nil
}
