package portalgun

import (
	"math"
	"time"

	"go.uber.org/zap"
)

// TeleportEvent records one teleport. YawDelta is the change of heading a
// first-person host should add to its look yaw.
type TeleportEvent struct {
	From, To Channel
	Before   BodySnapshot
	After    BodySnapshot
	YawDelta float64
	At       time.Duration
}

// TeleportTransform carries a body from s to d: the position is taken into
// s's local frame and back out of d's, orientation and velocity are turned
// by the relative rotation, then the orientation gets the half turn and the
// velocity is negated. No exit offset is applied.
func TeleportTransform(s, d Pose, body BodySnapshot) BodySnapshot {
	rel := RelativeRotation(s.Orientation, d.Orientation)
	return BodySnapshot{
		Position:    d.ToWorld(s.ToLocal(body.Position)),
		Orientation: rel.Mul(body.Orientation).Mul(YawCorrection()).Normalize(),
		Velocity:    rel.Rotate(body.Velocity).Mul(-1),
	}
}

// InsidePortal is the entry test of a body against one portal. The footprint
// is an ellipse: the surface disc of radius t.InnerRadius stretched by the
// portal's scale and widened by the body's reach.
func InsidePortal(p Pose, body BodySnapshot, ext BodyExtent, t Tuning) bool {
	reach := math.Max(ext.Radius, ext.Height/2)
	plane := p.Plane()
	lateral := plane.Project(body.Position.Sub(p.Position))

	lx := lateral.Dot(p.Right())
	ly := lateral.Dot(p.Up())
	ax := t.InnerRadius*p.Scale.X() + reach
	ay := t.InnerRadius*p.Scale.Y() + reach
	if ax <= 0 || ay <= 0 {
		return false
	}
	if (lx*lx)/(ax*ax)+(ly*ly)/(ay*ay) >= 1 {
		return false
	}

	if math.Abs(plane.Normal.Dot(UpAxis)) > t.HorizontalDot {
		// Floor and ceiling portals are entered by falling through them.
		bottom := body.Position.Y() - ext.Height/2
		half := t.InnerRadius * p.Scale.Y() / 2
		return bottom >= p.Position.Y()-half && bottom <= p.Position.Y()+half
	}

	d := plane.SignedDistance(body.Position)
	return d > -t.EnterDistance && d < reach
}

// checkTeleport tests the body against A then B and teleports on the first hit.
func (s *Subsystem) checkTeleport() (TeleportEvent, bool) {
	if !s.pair.Active() || s.physics == nil {
		return TeleportEvent{}, false
	}

	body := s.physics.BodyTransform(s.body)
	ext := s.physics.BodyExtent(s.body)
	for _, ch := range Channels {
		if InsidePortal(s.pair[ch].Pose, body, ext, s.tuning) {
			return s.teleport(ch, ch.Other(), body)
		}
	}
	return TeleportEvent{}, false
}

func (s *Subsystem) teleport(from, to Channel, body BodySnapshot) (TeleportEvent, bool) {
	if !s.cooldown.Ready(s.now) {
		s.logger.Debug("teleport suppressed",
			zap.Stringer("from", from),
			zap.Bool("in_flight", s.cooldown.InFlight()),
		)
		return TeleportEvent{}, false
	}
	s.cooldown.Begin(s.now)
	s.cues.PlayCue(CueTeleport, s.tuning.Volumes.Teleport)

	src, dst := s.pair[from].Pose, s.pair[to].Pose
	after := TeleportTransform(src, dst, body)
	after.Position = after.Position.Add(dst.Normal().Mul(s.tuning.ExitOffset))
	s.physics.SetBodyTransform(s.body, after)

	ev := TeleportEvent{
		From:     from,
		To:       to,
		Before:   body,
		After:    after,
		YawDelta: YawOf(RelativeRotation(src.Orientation, dst.Orientation)) + math.Pi,
		At:       s.now,
	}
	if s.onTeleport != nil {
		s.onTeleport(ev)
	}

	s.logger.Debug("body teleported",
		zap.Stringer("from", from),
		zap.Stringer("to", to),
		zap.Float64s("position", after.Position[:]),
		zap.Float64s("velocity", after.Velocity[:]),
	)
	return ev, true
}
