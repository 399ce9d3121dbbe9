package engine

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/smasonuk/portalgun"
)

// PortalSurface is the inner disc slot of a portal. It shows a flat colour
// until a rendered target is handed to it.
type PortalSurface struct {
	fallback color.RGBA
	target   *ebiten.Image
}

func NewPortalSurface(fallback color.RGBA) *PortalSurface {
	return &PortalSurface{fallback: fallback}
}

func (s *PortalSurface) ShowFallback(c color.RGBA) {
	s.fallback = c
	s.target = nil
}

// ShowTarget only accepts *ebiten.Image targets; anything else leaves the
// surface on its fallback colour.
func (s *PortalSurface) ShowTarget(t portalgun.Target) {
	img, ok := t.(*ebiten.Image)
	if !ok {
		s.target = nil
		return
	}
	s.target = img
}

// Showing returns the image to sample, or nil with the colour to fill.
func (s *PortalSurface) Showing() (*ebiten.Image, color.RGBA) {
	return s.target, s.fallback
}

var _ portalgun.Surface = (*PortalSurface)(nil)
