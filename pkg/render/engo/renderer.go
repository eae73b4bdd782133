// pkg/render/engo/renderer.go
package engo

import (
	"image/color"
	"math"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-rope/pkg/camera"
	"github.com/opd-ai/go-rope/pkg/engine"
	"github.com/opd-ai/go-rope/pkg/physics"
	"github.com/opd-ai/go-rope/pkg/render"
)

// Drawing sizes in world units
const (
	ParticleRadius   = 0.08
	SegmentThickness = 0.03
	GroundDotRadius  = 0.03
	groundExtent     = 10
	groundStep       = 2
)

// sprite is one drawable entity owned by the renderer
type sprite struct {
	ecs.BasicEntity
	common.RenderComponent
	common.SpaceComponent
}

// EngoRenderer implements render.Renderer by moving a pool of Engo
// entities: one rectangle per segment, one textured sprite per particle and
// one dot per ground grid point
type EngoRenderer struct {
	world        *ecs.World
	renderSystem *common.RenderSystem
	camera       *camera.Camera
	fov          float64

	particles []*sprite
	segments  []*sprite
	ground    []*sprite

	status engine.Stats

	assets *AssetManager
}

// NewEngoRenderer creates a renderer projecting through cam. fov is the
// camera's vertical field of view in degrees, used to size sprites.
func NewEngoRenderer(world *ecs.World, cam *camera.Camera, fov float64) *EngoRenderer {
	return &EngoRenderer{
		world:  world,
		camera: cam,
		fov:    fov,
		assets: NewAssetManager(),
	}
}

// Initialize adds the render system to the world and uploads the sprites
func (r *EngoRenderer) Initialize() error {
	r.renderSystem = &common.RenderSystem{}
	r.world.AddSystem(r.renderSystem)

	return r.assets.LoadAssets()
}

// Clear implements render.Renderer. Entities persist between frames, so
// clearing only hides everything until it is drawn again.
func (r *EngoRenderer) Clear() {
	for _, pool := range [][]*sprite{r.particles, r.segments, r.ground} {
		for _, s := range pool {
			s.Hidden = true
		}
	}
}

// RenderGround implements render.Renderer
func (r *EngoRenderer) RenderGround(y float64) {
	i := 0
	for x := -groundExtent; x <= groundExtent; x += groundStep {
		for z := -groundExtent; z <= groundExtent; z += groundStep {
			s := r.groundSprite(i)
			i++
			r.placeDisk(s, physics.Vector3{X: float64(x), Y: y, Z: float64(z)}, GroundDotRadius)
		}
	}
}

// RenderSegment implements render.Renderer
func (r *EngoRenderer) RenderSegment(index int, segment physics.Segment) {
	s := r.segmentSprite(index)

	x0, y0, _, okA := r.camera.Project(segment.A)
	x1, y1, _, okB := r.camera.Project(segment.B)
	if !okA || !okB {
		return
	}

	mid := segment.A.Add(segment.B).Scale(0.5)
	thickness := r.pixelRadius(SegmentThickness, mid) * 2
	pos, length, angle := SegmentTransform(x0, y0, x1, y1, thickness)

	s.Position = pos
	s.Width = length
	s.Height = float32(math.Max(thickness, 1))
	s.Rotation = angle
	s.Color = segmentColor(segment.Stretch())
	s.Hidden = false
}

// RenderParticle implements render.Renderer
func (r *EngoRenderer) RenderParticle(index int, particle physics.Particle, role render.Role) {
	s := r.particleSprite(index)
	s.Drawable = r.assets.GetParticleSprite(role)
	r.placeDisk(s, particle.Position, ParticleRadius)
}

// RenderStatus implements render.Renderer. The HUD reads the stored stats.
func (r *EngoRenderer) RenderStatus(stats engine.Stats) {
	r.status = stats
}

// Present implements render.Renderer. Engo's render system draws the
// entities after all systems have updated.
func (r *EngoRenderer) Present() {}

// Status returns the stats passed to the last RenderStatus
func (r *EngoRenderer) Status() engine.Stats {
	return r.status
}

// placeDisk centers a square sprite on the projection of p
func (r *EngoRenderer) placeDisk(s *sprite, p physics.Vector3, worldRadius float64) {
	x, y, _, ok := r.camera.Project(p)
	if !ok {
		return
	}
	radius := math.Max(r.pixelRadius(worldRadius, p), 1)
	s.Position = engo.Point{X: float32(x - radius), Y: float32(y - radius)}
	s.Width = float32(2 * radius)
	s.Height = float32(2 * radius)
	s.Hidden = false
}

// pixelRadius returns the on-screen size of a world length at point p
func (r *EngoRenderer) pixelRadius(worldRadius float64, p physics.Vector3) float64 {
	_, h := r.camera.Viewport()
	return PixelRadius(worldRadius, p.Distance(r.camera.Position()), r.fov, h)
}

func (r *EngoRenderer) particleSprite(i int) *sprite {
	for len(r.particles) <= i {
		r.particles = append(r.particles, r.newSprite(r.assets.GetParticleSprite(render.RoleFree), color.White))
	}
	return r.particles[i]
}

func (r *EngoRenderer) segmentSprite(i int) *sprite {
	for len(r.segments) <= i {
		r.segments = append(r.segments, r.newSprite(common.Rectangle{}, ColorSegment))
	}
	return r.segments[i]
}

func (r *EngoRenderer) groundSprite(i int) *sprite {
	for len(r.ground) <= i {
		r.ground = append(r.ground, r.newSprite(common.Circle{}, ColorGround))
	}
	return r.ground[i]
}

func (r *EngoRenderer) newSprite(drawable common.Drawable, c color.Color) *sprite {
	s := &sprite{BasicEntity: ecs.NewBasic()}
	s.Drawable = drawable
	s.Color = c
	s.Hidden = true
	r.renderSystem.Add(&s.BasicEntity, &s.RenderComponent, &s.SpaceComponent)
	return s
}

// Remove drops every entity from the render system
func (r *EngoRenderer) Remove() {
	for _, pool := range [][]*sprite{r.particles, r.segments, r.ground} {
		for _, s := range pool {
			r.renderSystem.Remove(s.BasicEntity)
		}
	}
	r.particles, r.segments, r.ground = nil, nil, nil
}

// SegmentTransform returns the placement of a rectangle of the given
// thickness drawn from (x0, y0) to (x1, y1) in window coordinates. Engo
// rotates a SpaceComponent clockwise in degrees about its position, so the
// position is offset half a thickness from the start point.
func SegmentTransform(x0, y0, x1, y1, thickness float64) (pos engo.Point, length, angle float32) {
	dx, dy := x1-x0, y1-y0
	l := math.Hypot(dx, dy)
	theta := math.Atan2(dy, dx)

	// Offset along the left normal of the direction
	ox := math.Sin(theta) * thickness / 2
	oy := -math.Cos(theta) * thickness / 2

	return engo.Point{X: float32(x0 + ox), Y: float32(y0 + oy)}, float32(l), float32(theta * 180 / math.Pi)
}

// PixelRadius converts a world length seen at distance dist into pixels for
// a viewport of the given height and vertical field of view in degrees
func PixelRadius(worldRadius, dist, fov float64, height int) float64 {
	if dist <= physics.Epsilon {
		return 0
	}
	halfHeight := dist * math.Tan(fov*math.Pi/360)
	return worldRadius / halfHeight * float64(height) / 2
}

// segmentColor shades a segment toward red as it stretches beyond its rest
// length
func segmentColor(stretch float64) color.NRGBA {
	t := math.Min(math.Max((stretch-1)/(engine.StretchWarning-1), 0), 1)
	return color.NRGBA{
		R: ColorSegment.R,
		G: uint8(float64(ColorSegment.G) * (1 - t)),
		B: uint8(float64(ColorSegment.B) * (1 - t)),
		A: 255,
	}
}
