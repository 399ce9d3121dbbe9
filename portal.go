package portalgun

import (
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// DeployState is the per-portal animation state.
type DeployState int

const (
	Idle DeployState = iota
	Deploying
	Deployed
)

func (s DeployState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Deploying:
		return "deploying"
	case Deployed:
		return "deployed"
	default:
		return "unknown"
	}
}

// Portal is one end of the pair. It is created by a successful placement,
// animated by Advance and reset by the next placement on its channel.
type Portal struct {
	Channel Channel
	Pose    Pose
	Visible bool
	State   DeployState

	// Surface is the inner disc slot the views are drawn on.
	Surface Surface

	// PlacementID changes on every placement. A deferred open cue only fires
	// for the placement that scheduled it.
	PlacementID  uuid.UUID
	OpenCueFired bool

	openCueAt  time.Duration
	openCueSet bool
	openCueFor uuid.UUID

	progress float64
	duration float64
	rate     mgl64.Vec3
	target   mgl64.Vec3
}

func newPortal(ch Channel, surface Surface) *Portal {
	if surface == nil {
		surface = nopSurface{}
	}
	return &Portal{
		Channel: ch,
		Pose:    NewPose(mgl64.Vec3{}, mgl64.QuatIdent()),
		Surface: surface,
	}
}

// Deploy restarts the animation: the scale grows linearly from start to
// target over duration seconds. Any animation in progress is discarded.
func (p *Portal) Deploy(start float64, target mgl64.Vec3, duration float64) {
	p.Pose.Scale = mgl64.Vec3{start, start, start}
	p.target = target
	p.progress = 0
	p.duration = duration
	p.rate = mgl64.Vec3{}
	if duration > 0 {
		p.rate = target.Sub(p.Pose.Scale).Mul(1 / duration)
	}
	p.Visible = true
	p.State = Deploying
	p.OpenCueFired = false
	p.openCueSet = false
}

// Advance moves a deploying portal forward by dt seconds and reports whether
// it finished on this call. Once Deployed, Advance leaves the scale untouched.
func (p *Portal) Advance(dt float64) bool {
	if p.State != Deploying {
		return false
	}
	if dt < 0 {
		dt = 0
	}

	next := p.Pose.Scale.Add(p.rate.Mul(dt))
	for i := range next {
		next[i] = clampToward(next[i], p.Pose.Scale[i], p.target[i])
	}
	p.Pose.Scale = next
	p.progress += dt

	if p.progress >= p.duration {
		p.Pose.Scale = p.target
		p.State = Deployed
		return true
	}
	return false
}

// clampToward keeps v between from and to, whichever way the scale moves.
func clampToward(v, from, to float64) float64 {
	lo, hi := from, to
	if lo > hi {
		lo, hi = hi, lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Progress is the elapsed deploy time in seconds; Duration is its total.
func (p *Portal) Progress() float64 { return p.progress }

func (p *Portal) Duration() float64 { return p.duration }

// TargetScale is the scale the portal settles at once deployed.
func (p *Portal) TargetScale() mgl64.Vec3 { return p.target }

// Active reports whether the portal can carry views and bodies.
func (p *Portal) Active() bool {
	return p.Visible && p.State == Deployed
}

// scheduleOpenCue arms the open cue for the current placement.
func (p *Portal) scheduleOpenCue(at time.Duration) {
	p.openCueAt = at
	p.openCueSet = true
	p.openCueFor = p.PlacementID
}

// openCueDue reports whether the scheduled open cue should fire at now.
func (p *Portal) openCueDue(now time.Duration) bool {
	return p.openCueSet &&
		p.openCueFor == p.PlacementID &&
		p.Visible &&
		!p.OpenCueFired &&
		now >= p.openCueAt
}

// Pair holds exactly the two portals, indexed by channel.
type Pair [2]*Portal

// Active is true only when both portals are deployed and visible.
func (p Pair) Active() bool {
	return p[ChannelA].Active() && p[ChannelB].Active()
}
