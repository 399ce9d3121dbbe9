package portalgun

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl64"
)

const float64EqualityThreshold = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= float64EqualityThreshold
}

func vecAlmostEqual(a, b mgl64.Vec3) bool {
	return a.ApproxEqualThreshold(b, 1e-9)
}

type fakeScene struct {
	hit  SceneHit
	ok   bool
	rays []Ray
}

func (f *fakeScene) Raycast(ray Ray) (SceneHit, bool) {
	f.rays = append(f.rays, ray)
	return f.hit, f.ok
}

func (f *fakeScene) aim(point, normal mgl64.Vec3, distance float64) {
	f.hit = SceneHit{Point: point, Normal: normal, Distance: distance, Object: 7}
	f.ok = true
}

type fakePhysics struct {
	body   BodySnapshot
	extent BodyExtent
	sets   []BodySnapshot
}

func (f *fakePhysics) BodyTransform(BodyID) BodySnapshot { return f.body }

func (f *fakePhysics) SetBodyTransform(_ BodyID, s BodySnapshot) {
	f.body = s
	f.sets = append(f.sets, s)
}

func (f *fakePhysics) BodyExtent(BodyID) BodyExtent { return f.extent }

type playedCue struct {
	name   string
	volume float64
	at     time.Duration
}

type fakeCues struct {
	durations map[string]time.Duration
	played    []playedCue
	clock     func() time.Duration
}

func (f *fakeCues) PlayCue(name string, volume float64) {
	var at time.Duration
	if f.clock != nil {
		at = f.clock()
	}
	f.played = append(f.played, playedCue{name: name, volume: volume, at: at})
}

func (f *fakeCues) CueDuration(name string) time.Duration { return f.durations[name] }

func (f *fakeCues) count(name string) int {
	n := 0
	for _, c := range f.played {
		if c.name == name {
			n++
		}
	}
	return n
}

// callLog records calls from surfaces and the renderer in order.
type callLog []string

type fakeTarget struct {
	name string
}

func (t *fakeTarget) Bounds() image.Rectangle { return image.Rect(0, 0, 512, 1024) }

type fakeSurface struct {
	name    string
	log     *callLog
	showing Target
	color   color.RGBA
}

func (f *fakeSurface) ShowFallback(c color.RGBA) {
	f.showing = nil
	f.color = c
	*f.log = append(*f.log, f.name+" fallback")
}

func (f *fakeSurface) ShowTarget(t Target) {
	f.showing = t
	*f.log = append(*f.log, fmt.Sprintf("%s target %s", f.name, t.(*fakeTarget).name))
}

type renderCall struct {
	cam    Camera
	target Target
}

type fakeRenderer struct {
	log   *callLog
	calls []renderCall
}

func (f *fakeRenderer) RenderView(cam Camera, dst Target) {
	f.calls = append(f.calls, renderCall{cam: cam, target: dst})
	*f.log = append(*f.log, "render "+dst.(*fakeTarget).name)
}

// farAway keeps the body clear of every portal the tests place.
var farAway = mgl64.Vec3{0, 0, 100}

type harness struct {
	sub      *Subsystem
	scene    *fakeScene
	physics  *fakePhysics
	cues     *fakeCues
	renderer *fakeRenderer
	surfaces [2]*fakeSurface
	targets  [2]*fakeTarget
	log      *callLog
	events   []TeleportEvent
}

func newHarness(t Tuning) *harness {
	log := &callLog{}
	h := &harness{
		scene:    &fakeScene{},
		physics:  &fakePhysics{extent: BodyExtent{Radius: 0.5, Height: 2}, body: BodySnapshot{Position: farAway, Orientation: mgl64.QuatIdent()}},
		cues:     &fakeCues{durations: map[string]time.Duration{}},
		renderer: &fakeRenderer{log: log},
		targets:  [2]*fakeTarget{{name: "A"}, {name: "B"}},
		log:      log,
	}
	h.surfaces = [2]*fakeSurface{{name: "A", log: log}, {name: "B", log: log}}
	h.sub = New(Services{
		Scene:    h.scene,
		Renderer: h.renderer,
		Physics:  h.physics,
		Cues:     h.cues,
		Body:     1,
		Targets:  [2]Target{h.targets[0], h.targets[1]},
		Surfaces: [2]Surface{h.surfaces[0], h.surfaces[1]},
		Ignore:   []ObjectID{99},
		OnTeleport: func(ev TeleportEvent) {
			h.events = append(h.events, ev)
		},
	}, t, nil)
	h.cues.clock = h.sub.Now
	return h
}

// deploy puts a fully deployed portal on a channel without going through a
// placement.
func (h *harness) deploy(ch Channel, position, normal mgl64.Vec3) {
	p := h.sub.Portal(ch)
	p.Pose = NewPose(position, OrientationFromNormal(normal))
	p.Deploy(h.sub.tuning.StartScale, h.sub.tuning.TargetScale, 0)
	p.Advance(0)
}

// tickFor runs ticks of step until total has elapsed.
func (h *harness) tickFor(total, step time.Duration) []TickReport {
	var reports []TickReport
	for elapsed := time.Duration(0); elapsed < total; elapsed += step {
		reports = append(reports, h.sub.Tick(step))
	}
	return reports
}
