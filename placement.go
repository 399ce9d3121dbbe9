package portalgun

import (
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RejectReason explains a placement that did not change any portal.
type RejectReason int

const (
	Accepted RejectReason = iota
	RejectMiss
	RejectSelfHit
	RejectOverlap
	RejectCoFacing
	RejectChannel
)

func (r RejectReason) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case RejectMiss:
		return "miss"
	case RejectSelfHit:
		return "self hit"
	case RejectOverlap:
		return "overlap"
	case RejectCoFacing:
		return "co-facing"
	case RejectChannel:
		return "invalid channel"
	default:
		return "unknown"
	}
}

// PlaceResult describes the outcome of PlacePortal.
type PlaceResult struct {
	Channel     Channel
	Reason      RejectReason
	Hit         SceneHit
	Pose        Pose
	Duration    time.Duration
	PlacementID uuid.UUID
}

func (r PlaceResult) Placed() bool {
	return r.Reason == Accepted
}

// PlacePortal fires the gun on a channel. A rejected placement is a silent
// no-op: no portal state changes.
func (s *Subsystem) PlacePortal(ch Channel, ray Ray) PlaceResult {
	res := PlaceResult{Channel: ch}
	if !ch.Valid() {
		res.Reason = RejectChannel
		return res
	}

	s.cues.PlayCue(ch.ShootCue(), s.tuning.Volumes.Shoot)

	if s.scene == nil {
		return s.reject(res, RejectMiss)
	}
	hit, ok := s.scene.Raycast(ray)
	if !ok {
		return s.reject(res, RejectMiss)
	}
	res.Hit = hit
	if _, ignored := s.ignore[hit.Object]; ignored {
		return s.reject(res, RejectSelfHit)
	}

	normal := hit.Normal.Normalize()
	pose := NewPose(hit.Point.Add(normal.Mul(s.tuning.SurfaceOffset)), OrientationFromNormal(normal))
	res.Pose = pose

	if reason := s.conflict(ch, pose); reason != Accepted {
		return s.reject(res, reason)
	}

	seconds := math.Min(s.tuning.MaxDeployDuration.Seconds(), ray.Origin.Sub(hit.Point).Len()/s.tuning.DeploySpeed)
	res.Duration = time.Duration(seconds * float64(time.Second))

	p := s.pair[ch]
	p.Pose = pose
	p.Deploy(s.tuning.StartScale, s.tuning.TargetScale, seconds)
	p.PlacementID = uuid.New()
	res.PlacementID = p.PlacementID

	lead := time.Duration(float64(s.cues.CueDuration(ch.ShootCue())) * s.tuning.OpenCueLead)
	p.scheduleOpenCue(s.now + lead)

	// The pair is no longer active; nothing may keep showing the old view.
	s.dropViews()

	s.logger.Debug("portal placed",
		zap.Stringer("channel", ch),
		zap.Stringer("placement_id", p.PlacementID),
		zap.Float64s("position", pose.Position[:]),
		zap.Float64s("normal", normal[:]),
		zap.Duration("deploy", res.Duration),
	)
	return res
}

func (s *Subsystem) reject(res PlaceResult, reason RejectReason) PlaceResult {
	res.Reason = reason
	s.logger.Debug("portal placement rejected",
		zap.Stringer("channel", res.Channel),
		zap.Stringer("reason", reason),
	)
	return res
}

// conflict applies the overlap and co-facing rules against a visible partner.
func (s *Subsystem) conflict(ch Channel, pose Pose) RejectReason {
	partner := s.pair[ch.Other()]
	if !partner.Visible {
		return Accepted
	}

	dist := pose.Position.Sub(partner.Pose.Position).Len()
	if dist < s.tuning.MinSeparation {
		return RejectOverlap
	}
	if pose.Normal().Dot(partner.Pose.Normal()) > s.tuning.CoFacingDot && dist < s.tuning.CoFacingSeparation {
		return RejectCoFacing
	}
	return Accepted
}
