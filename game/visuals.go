package game

import (
	"github.com/smasonuk/portalgun"
	"github.com/smasonuk/portalgun/engine"
)

const (
	discSegments = 32
	borderWidth  = 0.1

	// portalDepthBias keeps the flat portal in front of the wall tiles
	// around it.
	portalDepthBias = 1.5
)

// portalVisual is the drawable side of one portal: the inner disc that shows
// the view and the coloured ring around it.
type portalVisual struct {
	disc    *engine.Model
	border  *engine.Model
	surface *engine.PortalSurface
}

func newPortalVisual(ch portalgun.Channel, t portalgun.Tuning) *portalVisual {
	surface := engine.NewPortalSurface(t.FallbackColors[ch].RGBA())

	disc := engine.NewDisc("portal "+ch.String(), t.InnerRadius, discSegments, t.FallbackColors[ch].RGBA())
	disc.Surface = surface

	border := engine.NewRing("portal border "+ch.String(), t.InnerRadius, t.InnerRadius+borderWidth, discSegments, ch.BorderColor())

	for _, m := range []*engine.Model{disc, border} {
		m.Collidable = false
		m.Visible = false
		m.DepthBias = portalDepthBias
	}
	return &portalVisual{disc: disc, border: border, surface: surface}
}

func (v *portalVisual) add(w *engine.World) {
	w.AddObject(v.disc)
	w.AddObject(v.border)
}

// sync copies the portal's pose and visibility onto both models.
func (v *portalVisual) sync(p *portalgun.Portal) {
	for _, m := range []*engine.Model{v.disc, v.border} {
		m.Pose = p.Pose
		m.Visible = p.Visible
	}
}
