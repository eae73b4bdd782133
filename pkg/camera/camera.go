// Package camera provides the orbiting perspective camera that looks at the
// rope. It supplies the view and projection matrices for renderers and
// implements pick.Projector so pointer positions can be cast into the scene.
package camera

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/opd-ai/go-rope/pkg/physics"
)

// Options configures an orbit camera
type Options struct {
	Radius     float64         // orbit radius around the target
	Height     float64         // eye height above the target
	OrbitSpeed float64         // radians per second while not dragging
	Target     physics.Vector3 // look-at point
	FOV        float64         // vertical field of view in degrees
	Near       float64
	Far        float64
	// PixelAspect is the width of one viewport unit divided by its height.
	// Terminal cells are roughly twice as tall as they are wide.
	PixelAspect float64
	// SpringFrequency and SpringDamping tune how quickly the orbit eases to
	// a stop when a drag starts and back up when it ends. A zero frequency
	// changes speed at once.
	SpringFrequency float64
	SpringDamping   float64
}

// DefaultOptions returns the standard orbit: radius 5 at a quarter radian
// per second with a 75 degree field of view.
func DefaultOptions() Options {
	return Options{
		Radius:          5,
		OrbitSpeed:      0.25,
		FOV:             75,
		Near:            1,
		Far:             50,
		PixelAspect:     1,
		SpringFrequency: 8,
		SpringDamping:   1,
	}
}

// Camera orbits a target on a horizontal circle
type Camera struct {
	opts Options

	angle    float64
	speed    float64
	speedVel float64
	radius   float64

	width  int
	height int
}

// New creates a camera at the start of its orbit, on the +Z side of the
// target, with a 1x1 viewport.
func New(opts Options) *Camera {
	if opts.PixelAspect <= 0 {
		opts.PixelAspect = 1
	}
	return &Camera{
		opts:   opts,
		angle:  math.Pi / 2,
		speed:  opts.OrbitSpeed,
		radius: opts.Radius,
		width:  1,
		height: 1,
	}
}

// Update advances the orbit by dt seconds. While holding is true the orbit
// eases to a stop so a dragged rope does not slide under the pointer.
func (c *Camera) Update(dt float64, holding bool) {
	target := c.opts.OrbitSpeed
	if holding {
		target = 0
	}
	if c.opts.SpringFrequency > 0 && dt > 0 {
		spring := harmonica.NewSpring(dt, c.opts.SpringFrequency, c.opts.SpringDamping)
		c.speed, c.speedVel = spring.Update(c.speed, c.speedVel, target)
	} else {
		c.speed, c.speedVel = target, 0
	}

	c.angle = math.Mod(c.angle+c.speed*dt, 2*math.Pi)
	if c.angle < 0 {
		c.angle += 2 * math.Pi
	}
}

// Angle returns the current orbit angle in radians, within [0, 2π)
func (c *Camera) Angle() float64 {
	return c.angle
}

// Speed returns the current orbit speed in radians per second
func (c *Camera) Speed() float64 {
	return c.speed
}

// Position returns the eye position
func (c *Camera) Position() physics.Vector3 {
	return c.opts.Target.Add(physics.Vector3{
		X: c.radius * math.Cos(c.angle),
		Y: c.opts.Height,
		Z: c.radius * math.Sin(c.angle),
	})
}

// LookAt returns the point the camera is aimed at
func (c *Camera) LookAt() physics.Vector3 {
	return c.opts.Target
}

// Radius returns the current orbit radius
func (c *Camera) Radius() float64 {
	return c.radius
}

// SetRadius changes the orbit radius. The eye is kept outside the near
// plane of the target and inside the far plane.
func (c *Camera) SetRadius(r float64) {
	c.radius = math.Max(c.opts.Near*1.5, math.Min(r, c.opts.Far*0.9))
}

// SetViewport sets the size of the window or terminal in its own units
func (c *Camera) SetViewport(width, height int) {
	c.width = max(width, 1)
	c.height = max(height, 1)
}

// SetPixelAspect changes the width-to-height ratio of one viewport unit
func (c *Camera) SetPixelAspect(aspect float64) {
	if aspect > 0 {
		c.opts.PixelAspect = aspect
	}
}

// Viewport returns the viewport size
func (c *Camera) Viewport() (int, int) {
	return c.width, c.height
}

// View returns the world-to-eye matrix
func (c *Camera) View() mgl64.Mat4 {
	return mgl64.LookAtV(toVec3(c.Position()), toVec3(c.opts.Target), mgl64.Vec3{0, 1, 0})
}

// Projection returns the perspective matrix for the current viewport
func (c *Camera) Projection() mgl64.Mat4 {
	aspect := float64(c.width) / float64(c.height) * c.opts.PixelAspect
	return mgl64.Perspective(mgl64.DegToRad(c.opts.FOV), aspect, c.opts.Near, c.opts.Far)
}

// Unproject returns the world point on the near clip plane under the window
// position (x, y), with y measured downward from the top edge. If the
// matrices cannot be inverted the eye position is returned.
func (c *Camera) Unproject(x, y float64) physics.Vector3 {
	win := mgl64.Vec3{x, float64(c.height) - y, 0}
	obj, err := mgl64.UnProject(win, c.View(), c.Projection(), 0, 0, c.width, c.height)
	if err != nil {
		return c.Position()
	}
	return fromVec3(obj)
}

// Project maps a world point to window coordinates with y measured downward
// and a depth in [0, 1]. ok is false for points outside the near and far
// planes.
func (c *Camera) Project(p physics.Vector3) (x, y, depth float64, ok bool) {
	view := c.View()
	eye := view.Mul4x1(toVec3(p).Vec4(1))
	dist := -eye.Z()
	if dist < c.opts.Near || dist > c.opts.Far {
		return 0, 0, 0, false
	}

	win := mgl64.Project(toVec3(p), view, c.Projection(), 0, 0, c.width, c.height)
	return win.X(), float64(c.height) - win.Y(), win.Z(), true
}

func toVec3(v physics.Vector3) mgl64.Vec3 {
	return mgl64.Vec3{v.X, v.Y, v.Z}
}

func fromVec3(v mgl64.Vec3) physics.Vector3 {
	return physics.Vector3{X: v.X(), Y: v.Y(), Z: v.Z()}
}
