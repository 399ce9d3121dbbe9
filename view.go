package portalgun

// VirtualCamera is the camera whose picture belongs on dest's surface: it
// sits on source and looks out of it. The viewer's rotation relative to dest
// is carried through to source, with a half turn about the portal's up axis
// so the picture is not mirrored.
func VirtualCamera(source, dest Pose, viewer Camera) Camera {
	q := source.Orientation.
		Mul(YawCorrection()).
		Mul(dest.Orientation.Inverse()).
		Mul(viewer.Orientation).
		Normalize()
	return Camera{Position: source.Position, Orientation: q}
}

// SetViewer records the main camera pose used for the next view pass.
func (s *Subsystem) SetViewer(cam Camera) {
	s.viewer = cam
}

// renderViews draws both portal views for this tick. It reports whether any
// view was drawn.
func (s *Subsystem) renderViews() bool {
	if !s.pair.Active() {
		s.dropViews()
		return false
	}
	if s.renderer == nil || s.targets[ChannelA] == nil || s.targets[ChannelB] == nil {
		return false
	}

	// Neither surface may sample its own unresolved image while drawing.
	for _, ch := range Channels {
		s.pair[ch].Surface.ShowFallback(s.tuning.FallbackColors[ch].RGBA())
	}

	a, b := s.pair[ChannelA].Pose, s.pair[ChannelB].Pose
	s.renderer.RenderView(VirtualCamera(b, a, s.viewer), s.targets[ChannelA])
	s.renderer.RenderView(VirtualCamera(a, b, s.viewer), s.targets[ChannelB])

	for _, ch := range Channels {
		s.pair[ch].Surface.ShowTarget(s.targets[ch])
	}
	s.viewsLive = true
	return true
}

// dropViews puts both surfaces back on their flat colour.
func (s *Subsystem) dropViews() {
	if !s.viewsLive {
		return
	}
	for _, ch := range Channels {
		s.pair[ch].Surface.ShowFallback(s.tuning.FallbackColors[ch].RGBA())
	}
	s.viewsLive = false
}
