package engine

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	ambientLight         = 0.65
	spotlightConePower   = 10.0
	spotlightLightAmount = 1.0 - ambientLight
)

// getColor darkens a colour with a headlamp light: ambient plus a spotlight
// along the view axis, scaled by how directly the face looks at the camera.
// ref and normal are in camera space.
func getColor(ref, normal mgl64.Vec3, polyColor color.RGBA) color.RGBA {
	diffuseFactor := -normal.Z()
	if diffuseFactor < 0 {
		diffuseFactor = 0
	}

	spotlightFactor := 1.0
	if l := ref.Len(); l > 0 {
		cosAngle := ref.Z() / l
		if cosAngle < 0 {
			cosAngle = 0
		}
		spotlightFactor = math.Pow(cosAngle, spotlightConePower)
	}

	brightness := ambientLight + diffuseFactor*spotlightFactor*spotlightLightAmount
	c := 240 - int(brightness*240)

	const min = 7
	return color.RGBA{
		R: uint8(clamp(int(polyColor.R)-c, min, 255)),
		G: uint8(clamp(int(polyColor.G)-c, min, 255)),
		B: uint8(clamp(int(polyColor.B)-c, min, 255)),
		A: polyColor.A,
	}
}

func clamp(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
