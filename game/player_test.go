package game

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/smasonuk/portalgun"
	"github.com/smasonuk/portalgun/physics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tick = 1.0 / 60

func standingPlayer(t *testing.T, y float64) (*Player, *physics.World) {
	t.Helper()
	w := physics.NewWorld(nil)
	w.AddStatic(physics.BoxAt(mgl64.Vec3{0, -0.5, 0}, mgl64.Vec3{20, 1, 20}))
	id := w.AddBody(PlayerRadius, PlayerHeight, mgl64.Vec3{0, y, 0})
	require.NotNil(t, w.Body(id))
	return NewPlayer(id), w
}

func TestLook(t *testing.T) {
	p := NewPlayer(1)

	p.Look(100, 0)
	assert.InDelta(t, -0.2, p.Yaw, 1e-12)

	p.Look(0, 1e6)
	assert.InDelta(t, -math.Pi/2, p.Pitch, 1e-12)

	p.Look(0, -1e7)
	assert.InDelta(t, math.Pi/2, p.Pitch, 1e-12)
}

func TestOrientationForward(t *testing.T) {
	testCases := []struct {
		name       string
		yaw, pitch float64
		want       mgl64.Vec3
	}{
		{"default", 0, 0, mgl64.Vec3{0, 0, -1}},
		{"turned left", math.Pi / 2, 0, mgl64.Vec3{-1, 0, 0}},
		{"turned around", math.Pi, 0, mgl64.Vec3{0, 0, 1}},
		{"looking up", 0, math.Pi / 2, mgl64.Vec3{0, 1, 0}},
		{"looking down while turned", math.Pi / 2, -math.Pi / 2, mgl64.Vec3{0, -1, 0}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := &Player{Yaw: tc.yaw, Pitch: tc.pitch}
			got := portalgun.Camera{Orientation: p.Orientation()}.Forward()
			assert.True(t, got.ApproxEqualThreshold(tc.want, 1e-9), "got %v, want %v", got, tc.want)
		})
	}
}

func TestTurnWraps(t *testing.T) {
	p := NewPlayer(1)
	p.Turn(3 * math.Pi)
	assert.InDelta(t, math.Pi, math.Abs(p.Yaw), 1e-9)

	p.Turn(math.Pi / 2)
	assert.LessOrEqual(t, math.Abs(p.Yaw), math.Pi)
}

func TestMoveDirection(t *testing.T) {
	r := 1 / math.Sqrt2
	testCases := []struct {
		name string
		in   Input
		yaw  float64
		want mgl64.Vec3
	}{
		{"idle", Input{}, 0, mgl64.Vec3{}},
		{"forward", Input{Forward: true}, 0, mgl64.Vec3{0, 0, -1}},
		{"back", Input{Back: true}, 0, mgl64.Vec3{0, 0, 1}},
		{"diagonal", Input{Forward: true, Right: true}, 0, mgl64.Vec3{r, 0, -r}},
		{"opposing keys", Input{Left: true, Right: true}, 0, mgl64.Vec3{}},
		{"forward turned left", Input{Forward: true}, math.Pi / 2, mgl64.Vec3{-1, 0, 0}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := moveDirection(tc.in, tc.yaw)
			assert.True(t, got.ApproxEqualThreshold(tc.want, 1e-9), "got %v, want %v", got, tc.want)
		})
	}
}

func TestDriveWalkAndSprint(t *testing.T) {
	p, w := standingPlayer(t, 1)

	p.Drive(w, Input{Forward: true})
	assert.True(t, p.Grounded())
	assert.True(t, w.Body(p.Body).Velocity.ApproxEqual(mgl64.Vec3{0, 0, -WalkSpeed}))

	p.Drive(w, Input{Forward: true, Sprint: true})
	assert.True(t, w.Body(p.Body).Velocity.ApproxEqual(mgl64.Vec3{0, 0, -SprintSpeed}))

	p.Drive(w, Input{})
	assert.Equal(t, mgl64.Vec3{}, w.Body(p.Body).Velocity)
}

func TestDriveJumpsOnlyFromGround(t *testing.T) {
	p, w := standingPlayer(t, 1)

	p.Drive(w, Input{Jump: true})
	require.Equal(t, JumpStrength, w.Body(p.Body).Velocity.Y())

	w.Step(tick, 10)
	p.Drive(w, Input{Jump: true})

	assert.False(t, p.Grounded())
	assert.Less(t, w.Body(p.Body).Velocity.Y(), JumpStrength)
}

func TestDriveAirborne(t *testing.T) {
	p, w := standingPlayer(t, 5)

	p.Drive(w, Input{Jump: true})

	assert.False(t, p.Grounded())
	assert.Equal(t, 0.0, w.Body(p.Body).Velocity.Y())
}

func TestCameraAtHead(t *testing.T) {
	p, w := standingPlayer(t, 1)
	p.Yaw = 0.4

	cam := p.Camera(w)

	assert.Equal(t, mgl64.Vec3{0, 1 + eyeOffset, 0}, cam.Position)
	assert.True(t, cam.Orientation.ApproxEqual(p.Orientation()))
}

func TestGunPose(t *testing.T) {
	testCases := []struct {
		name   string
		cam    portalgun.Camera
		pos    mgl64.Vec3
		barrel mgl64.Vec3
	}{
		{
			name:   "looking down -Z",
			cam:    portalgun.Camera{Orientation: mgl64.QuatIdent()},
			pos:    mgl64.Vec3{0.5, -0.4, -0.5},
			barrel: mgl64.Vec3{0, 0, -1},
		},
		{
			name:   "turned left",
			cam:    portalgun.Camera{Position: mgl64.Vec3{1, 2, 3}, Orientation: mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 1, 0})},
			pos:    mgl64.Vec3{0.5, 1.6, 2.5},
			barrel: mgl64.Vec3{-1, 0, 0},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			pose := GunPose(tc.cam)
			assert.True(t, pose.Position.ApproxEqualThreshold(tc.pos, 1e-9), "position %v", pose.Position)

			// The gun's long axis is +X; a quarter turn lines it up with the view.
			barrel := pose.Orientation.Rotate(mgl64.Vec3{1, 0, 0})
			assert.True(t, barrel.ApproxEqualThreshold(tc.barrel, 1e-9), "barrel %v", barrel)
		})
	}
}

func TestNewGun(t *testing.T) {
	gun, err := NewGun()
	require.NoError(t, err)

	assert.Equal(t, "portal gun", gun.Name)
	assert.False(t, gun.Collidable)
	assert.True(t, gun.Visible)
	assert.Len(t, gun.Faces(), 18)
}
