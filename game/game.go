// Package game is the playable portal gun demo: a first person player in a
// room, two portals and the glue between the engine, physics and audio.
package game

import (
	"fmt"
	"image/color"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/smasonuk/portalgun"
	"github.com/smasonuk/portalgun/engine"
	"github.com/smasonuk/portalgun/physics"
	"go.uber.org/zap"
)

const physicsSubsteps = 10

var (
	spawnPoint     = mgl64.Vec3{0, WallThickness + PlayerHeight/2 + 0.1, 0}
	crosshairColor = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xc0}
)

type Config struct {
	Width, Height int

	Tuning portalgun.Tuning
	// TuningPath, when set, is watched and reloaded on change.
	TuningPath string

	// Cues may be nil for a silent game.
	Cues portalgun.CuePlayer
}

type Game struct {
	cfg    Config
	logger *zap.Logger

	scene   *engine.World
	phys    *physics.World
	portals *portalgun.Subsystem
	player  *Player
	gun     *engine.Model
	visuals [2]*portalVisual
	targets [2]*ebiten.Image
	watcher *TuningWatcher

	last     time.Time
	captured bool
	cursorX  int
	cursorY  int
}

func New(cfg Config, logger *zap.Logger) (*Game, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid screen size %dx%d", cfg.Width, cfg.Height)
	}
	if err := cfg.Tuning.Validate(); err != nil {
		return nil, err
	}

	g := &Game{
		cfg:    cfg,
		logger: logger.Named("game"),
		scene:  engine.NewWorld(logger),
		phys:   physics.NewWorld(logger),
	}

	Room().Build(g.scene, g.phys)

	body := g.phys.AddBody(PlayerRadius, PlayerHeight, spawnPoint)
	g.player = NewPlayer(body)

	gun, err := NewGun()
	if err != nil {
		return nil, err
	}
	g.gun = gun
	g.scene.AddObject(g.gun)

	var surfaces [2]portalgun.Surface
	var targets [2]portalgun.Target
	for _, ch := range portalgun.Channels {
		g.visuals[ch] = newPortalVisual(ch, cfg.Tuning)
		g.visuals[ch].add(g.scene)
		surfaces[ch] = g.visuals[ch].surface

		g.targets[ch] = ebiten.NewImage(cfg.Width, cfg.Height)
		targets[ch] = g.targets[ch]
	}

	g.portals = portalgun.New(portalgun.Services{
		Scene:      g.scene,
		Renderer:   g.scene,
		Physics:    g.phys,
		Cues:       cfg.Cues,
		Body:       body,
		Targets:    targets,
		Surfaces:   surfaces,
		Ignore:     []portalgun.ObjectID{g.gun.ID()},
		OnTeleport: g.onTeleport,
	}, cfg.Tuning, logger)

	if cfg.TuningPath != "" {
		w, err := NewTuningWatcher(cfg.TuningPath, logger)
		if err != nil {
			g.logger.Warn("tuning hot reload disabled", zap.Error(err))
		} else {
			g.watcher = w
		}
	}

	g.placeGun()
	return g, nil
}

// Close stops the tuning watcher.
func (g *Game) Close() error {
	if g.watcher == nil {
		return nil
	}
	return g.watcher.Close()
}

func (g *Game) Update() error {
	now := time.Now()
	elapsed := time.Second / time.Duration(ebiten.TPS())
	if !g.last.IsZero() {
		elapsed = now.Sub(g.last)
	}
	g.last = now

	g.portals.SetPaused(!ebiten.IsFocused())
	g.step(g.readInput(), elapsed)
	return nil
}

// step runs one frame in order: look and shots, the portal tick, the ground
// probe and movement, then the physics step.
func (g *Game) step(in Input, elapsed time.Duration) {
	g.applyReloads()
	if g.portals.Paused() {
		return
	}

	g.player.Look(in.MouseDX, in.MouseDY)
	cam := g.player.Camera(g.phys)
	g.portals.SetViewer(cam)

	aim := portalgun.Ray{Origin: cam.Position, Direction: cam.Forward()}
	if in.FireA {
		g.portals.PlacePortal(portalgun.ChannelA, aim)
	}
	if in.FireB {
		g.portals.PlacePortal(portalgun.ChannelB, aim)
	}

	report := g.portals.Tick(elapsed)

	g.player.Drive(g.phys, in)
	g.phys.Step(report.Elapsed.Seconds(), physicsSubsteps)

	for _, ch := range portalgun.Channels {
		g.visuals[ch].sync(g.portals.Portal(ch))
	}
	g.placeGun()
}

func (g *Game) applyReloads() {
	if g.watcher == nil {
		return
	}
	select {
	case t := <-g.watcher.Updates:
		g.portals.SetTuning(t)
	default:
	}
}

func (g *Game) onTeleport(ev portalgun.TeleportEvent) {
	g.player.Turn(ev.YawDelta)
	g.logger.Debug("view turned", zap.Float64("yaw", g.player.Yaw))
}

func (g *Game) placeGun() {
	g.gun.Pose = GunPose(g.player.Camera(g.phys))
}

// readInput polls ebiten. The first click captures the cursor and does not
// fire; escape releases it.
func (g *Game) readInput() Input {
	var in Input
	if !g.captured {
		if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
			ebiten.SetCursorMode(ebiten.CursorModeCaptured)
			g.captured = true
			g.cursorX, g.cursorY = ebiten.CursorPosition()
		}
		return in
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		ebiten.SetCursorMode(ebiten.CursorModeVisible)
		g.captured = false
		return in
	}

	x, y := ebiten.CursorPosition()
	in.MouseDX, in.MouseDY = float64(x-g.cursorX), float64(y-g.cursorY)
	g.cursorX, g.cursorY = x, y

	in.Forward = ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp)
	in.Back = ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown)
	in.Left = ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	in.Right = ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight)
	in.Sprint = ebiten.IsKeyPressed(ebiten.KeyShift)
	in.Jump = ebiten.IsKeyPressed(ebiten.KeySpace)
	in.FireA = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	in.FireB = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)
	return in
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scene.Draw(screen, g.player.Camera(g.phys))

	cx, cy := float32(g.cfg.Width)/2, float32(g.cfg.Height)/2
	vector.StrokeLine(screen, cx-6, cy, cx+6, cy, 1, crosshairColor, false)
	vector.StrokeLine(screen, cx, cy-6, cx, cy+6, 1, crosshairColor, false)

	a, b := g.portals.Portal(portalgun.ChannelA), g.portals.Portal(portalgun.ChannelB)
	ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %0.2f\nblue: %s\norange: %s\nground: %v",
		ebiten.ActualFPS(), a.State, b.State, g.player.Grounded()))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.cfg.Width, g.cfg.Height
}

var _ ebiten.Game = (*Game)(nil)
