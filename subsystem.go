package portalgun

import (
	"time"

	"go.uber.org/zap"
)

// Services are the collaborators the subsystem calls into. Scene is required;
// the rest may be left nil, which disables the feature that needs them.
type Services struct {
	Scene    SceneRaycaster
	Renderer ViewRenderer
	Physics  Physics
	Cues     CuePlayer

	// Body is the teleportable body inside Physics.
	Body BodyID
	// Targets[ch] is the offscreen image shown on portal ch's surface.
	Targets [2]Target
	// Surfaces[ch] is the inner disc of portal ch.
	Surfaces [2]Surface
	// Ignore lists geometry that can never hold a portal: the viewer's own
	// body and the held gun.
	Ignore []ObjectID
	// OnTeleport mirrors a teleport into cached visual transforms.
	OnTeleport func(TeleportEvent)
}

// TickReport summarises what one tick did.
type TickReport struct {
	Skipped  bool
	Elapsed  time.Duration
	Deployed []Channel
	Rendered bool
	Teleport *TeleportEvent
}

// Subsystem owns the portal pair, the teleport cooldown and its own clock.
// All methods must be called from the tick goroutine.
type Subsystem struct {
	scene      SceneRaycaster
	renderer   ViewRenderer
	physics    Physics
	cues       CuePlayer
	body       BodyID
	targets    [2]Target
	ignore     map[ObjectID]struct{}
	onTeleport func(TeleportEvent)

	tuning   Tuning
	logger   *zap.Logger
	pair     Pair
	cooldown Cooldown
	viewer   Camera

	now       time.Duration
	paused    bool
	viewsLive bool
}

// New creates a subsystem with both portals idle.
func New(svc Services, tuning Tuning, logger *zap.Logger) *Subsystem {
	if logger == nil {
		logger = zap.NewNop()
	}
	cues := svc.Cues
	if cues == nil {
		cues = nopCues{}
	}
	s := &Subsystem{
		scene:      svc.Scene,
		renderer:   svc.Renderer,
		physics:    svc.Physics,
		cues:       cues,
		body:       svc.Body,
		targets:    svc.Targets,
		ignore:     make(map[ObjectID]struct{}, len(svc.Ignore)),
		onTeleport: svc.OnTeleport,
		logger:     logger.Named("portals"),
	}
	for _, id := range svc.Ignore {
		s.ignore[id] = struct{}{}
	}
	for _, ch := range Channels {
		s.pair[ch] = newPortal(ch, svc.Surfaces[ch])
	}
	s.SetTuning(tuning)

	// Surfaces start on their flat colour.
	s.viewsLive = true
	s.dropViews()
	return s
}

// SetTuning swaps the tuning between ticks.
func (s *Subsystem) SetTuning(t Tuning) {
	s.tuning = t
	s.cooldown.Duration = t.Cooldown
}

func (s *Subsystem) Tuning() Tuning {
	return s.tuning
}

// Portal returns the portal record of a channel.
func (s *Subsystem) Portal(ch Channel) *Portal {
	return s.pair[ch]
}

// Pair returns both portals.
func (s *Subsystem) Pair() Pair {
	return s.pair
}

// Cooldown exposes the teleport guard.
func (s *Subsystem) Cooldown() *Cooldown {
	return &s.cooldown
}

// Now is the subsystem clock: the sum of every clamped, unpaused tick.
func (s *Subsystem) Now() time.Duration {
	return s.now
}

// SetPaused stops or resumes ticking. While paused nothing advances,
// timers included.
func (s *Subsystem) SetPaused(paused bool) {
	if paused != s.paused {
		s.logger.Debug("pause changed", zap.Bool("paused", paused))
	}
	s.paused = paused
}

func (s *Subsystem) Paused() bool {
	return s.paused
}

// Tick runs one frame: open cue timers, deployment, the view pass, then the
// entry test and teleport. The physics step belongs to the caller and must
// come after Tick.
func (s *Subsystem) Tick(elapsed time.Duration) TickReport {
	if s.paused {
		return TickReport{Skipped: true}
	}
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > s.tuning.MaxTick {
		elapsed = s.tuning.MaxTick
	}
	s.now += elapsed
	s.cooldown.Update(s.now)

	report := TickReport{Elapsed: elapsed}
	for _, ch := range Channels {
		p := s.pair[ch]
		if p.openCueDue(s.now) {
			s.fireOpenCue(p, s.tuning.Volumes.OpenDelayed)
		}
		if p.Advance(elapsed.Seconds()) {
			report.Deployed = append(report.Deployed, ch)
			s.logger.Debug("portal deployed",
				zap.Stringer("channel", ch),
				zap.Stringer("placement_id", p.PlacementID),
			)
			if !p.OpenCueFired {
				s.fireOpenCue(p, s.tuning.Volumes.Open)
			}
		}
	}

	report.Rendered = s.renderViews()

	if ev, ok := s.checkTeleport(); ok {
		report.Teleport = &ev
	}
	return report
}

func (s *Subsystem) fireOpenCue(p *Portal, volume float64) {
	s.cues.PlayCue(p.Channel.OpenCue(), volume)
	p.OpenCueFired = true
}
