package engine

import (
	"image/color"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/smasonuk/portalgun"
	"go.uber.org/zap"
)

var outlineColor = color.RGBA{R: 50, G: 50, B: 50, A: 25}

// World holds every model of the scene. It answers raycasts and paints views
// of itself with the painter's algorithm.
type World struct {
	Background color.RGBA
	FOV        float64

	models []*Model
	nextID portalgun.ObjectID
	store  *FaceStore
	logger *zap.Logger
}

func NewWorld(logger *zap.Logger) *World {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &World{
		Background: color.RGBA{R: 0x87, G: 0xce, B: 0xeb, A: 0xff},
		FOV:        defaultFOV,
		nextID:     1,
		store:      NewFaceStore(),
		logger:     logger.Named("engine"),
	}
}

// AddObject registers a model and assigns its ID.
func (w *World) AddObject(m *Model) portalgun.ObjectID {
	m.id = w.nextID
	w.nextID++
	w.models = append(w.models, m)
	w.logger.Debug("model added",
		zap.String("name", m.Name),
		zap.Int("id", int(m.id)),
		zap.Int("faces", len(m.faces)),
	)
	return m.id
}

func (w *World) Object(id portalgun.ObjectID) *Model {
	for _, m := range w.models {
		if m.id == id {
			return m
		}
	}
	return nil
}

func (w *World) Objects() []*Model {
	return w.models
}

// Raycast returns the nearest collidable face hit by the ray. The normal is
// the face normal in world space, turned to face the ray's origin.
func (w *World) Raycast(ray portalgun.Ray) (portalgun.SceneHit, bool) {
	dir := ray.Direction.Normalize()
	best := portalgun.SceneHit{Distance: math.Inf(1)}
	found := false

	for _, m := range w.models {
		if !m.Collidable {
			continue
		}
		for _, f := range m.worldFaces() {
			t, ok := rayIntersectsPolygon(ray.Origin, dir, f.points, f.normal)
			if !ok || t >= best.Distance {
				continue
			}
			n := f.normal
			if n.Dot(dir) > 0 {
				n = n.Mul(-1)
			}
			best = portalgun.SceneHit{
				Point:    ray.Origin.Add(dir.Mul(t)),
				Normal:   n,
				Distance: t,
				Object:   m.id,
			}
			found = true
		}
	}
	return best, found
}

// RenderView paints the scene from cam into dst. Targets that are not
// *ebiten.Image are ignored.
func (w *World) RenderView(cam portalgun.Camera, dst portalgun.Target) {
	img, ok := dst.(*ebiten.Image)
	if !ok || img == nil {
		w.logger.Debug("render target is not an image", zap.Any("target", dst))
		return
	}
	w.Draw(img, cam)
}

// Draw clears dst and paints the scene from cam.
func (w *World) Draw(dst *ebiten.Image, cam portalgun.Camera) {
	dst.Fill(w.Background)

	b := dst.Bounds()
	c := NewCamera(cam)
	c.FOV = w.FOV
	w.collect(c, float64(b.Dx()), float64(b.Dy()))

	for _, f := range w.store.faces {
		xp := make([]float32, len(f.screen))
		yp := make([]float32, len(f.screen))
		for i, p := range f.screen {
			xp[i] = p.X + float32(b.Min.X)
			yp[i] = p.Y + float32(b.Min.Y)
		}

		if f.surface != nil {
			tex, fallback := f.surface.Showing()
			if tex != nil && tex != dst {
				fillTexturedPolygon(dst, xp, yp, tex)
			} else {
				fillConvexPolygon(dst, xp, yp, fallback)
			}
			continue
		}
		fillConvexPolygon(dst, xp, yp, f.col)
		drawPolygonOutline(dst, xp, yp, 1, outlineColor)
	}
}

// collect fills the face store with every visible face, clipped and sorted
// far to near.
func (w *World) collect(c *Camera, width, height float64) {
	w.store.Reset()
	for _, m := range w.models {
		if !m.Visible {
			continue
		}
		for _, f := range m.worldFaces() {
			camPoints := make([]mgl64.Vec3, len(f.points))
			for i, p := range f.points {
				camPoints[i] = c.ToCamera(p)
			}
			normal := c.ToCameraDir(f.normal)

			// Faces looking away from the camera are skipped.
			if !m.DrawAllFaces && normal.Dot(camPoints[0]) >= 0 {
				continue
			}

			clipped := clipPolygonAgainstNearPlane(camPoints, c.Near)
			if len(clipped) < 3 {
				continue
			}

			screen := make([]Point, len(clipped))
			for i, p := range clipped {
				screen[i] = c.ConvertToScreen(width, height, p)
			}
			screen = clipPolygon(screen, float32(width), float32(height))
			if len(screen) < 3 {
				continue
			}

			mid := midPoint(camPoints)
			w.store.AddFace(&drawFace{
				model:   m,
				screen:  screen,
				mid:     mid,
				bias:    m.DepthBias,
				col:     getColor(mid, normal, f.col),
				surface: m.Surface,
			})
		}
	}
	w.store.SortFacesByDistance(mgl64.Vec3{})
}

var (
	_ portalgun.SceneRaycaster = (*World)(nil)
	_ portalgun.ViewRenderer   = (*World)(nil)
)
