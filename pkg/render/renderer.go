// pkg/render/renderer.go
package render

import (
	"context"

	"github.com/opd-ai/go-rope/pkg/engine"
	"github.com/opd-ai/go-rope/pkg/logging"
	"github.com/opd-ai/go-rope/pkg/physics"
)

// Role tells a renderer how to draw a particle
type Role int

const (
	RoleFree Role = iota
	RoleAnchor
	RoleTail
	RoleHeld
)

func (r Role) String() string {
	switch r {
	case RoleAnchor:
		return "anchor"
	case RoleTail:
		return "tail"
	case RoleHeld:
		return "held"
	default:
		return "free"
	}
}

// Renderer draws one frame of the rope scene. Calls for a frame arrive in
// the order Clear, RenderGround, RenderSegment..., RenderParticle...,
// RenderStatus, Present.
type Renderer interface {
	Clear()
	RenderGround(y float64)
	RenderSegment(index int, segment physics.Segment)
	RenderParticle(index int, particle physics.Particle, role Role)
	RenderStatus(stats engine.Stats)
	Present()
}

// ParticleRole classifies particle i of rope given the current drag
func ParticleRole(rope *physics.Rope, i int, held int, holding bool) Role {
	switch {
	case holding && i == held:
		return RoleHeld
	case rope.Particle(i).IsFixed():
		return RoleAnchor
	case i == rope.Len()-1:
		return RoleTail
	default:
		return RoleFree
	}
}

// DrawScene renders the simulation's current state as one frame
func DrawScene(r Renderer, sim *engine.Simulation) {
	rope := sim.Rope()
	held, holding := sim.Held()

	r.Clear()
	r.RenderGround(sim.Config.Display.GroundY)
	for i, seg := range rope.Segments() {
		r.RenderSegment(i, seg)
	}
	for i := 0; i < rope.Len(); i++ {
		r.RenderParticle(i, rope.Particle(i), ParticleRole(rope, i, held, holding))
	}
	r.RenderStatus(sim.Stats())
	r.Present()
}

// NullRenderer logs draw calls at debug level and draws nothing
type NullRenderer struct {
	logger *logging.Logger
}

// NewNullRenderer creates a new NullRenderer with structured logging.
func NewNullRenderer(logger *logging.Logger) *NullRenderer {
	if logger == nil {
		logger = logging.Discard()
	}
	return &NullRenderer{logger: logger}
}

// Clear implements Renderer.
func (d *NullRenderer) Clear() {
	d.logger.Debug(context.Background(), "Clear called")
}

// RenderGround implements Renderer.
func (d *NullRenderer) RenderGround(y float64) {
	d.logger.Debug(context.Background(), "RenderGround called", "y", y)
}

// RenderSegment implements Renderer.
func (d *NullRenderer) RenderSegment(index int, segment physics.Segment) {
	d.logger.Debug(context.Background(), "RenderSegment called",
		"segment", index,
		"stretch", segment.Stretch(),
	)
}

// RenderParticle implements Renderer.
func (d *NullRenderer) RenderParticle(index int, particle physics.Particle, role Role) {
	d.logger.Debug(context.Background(), "RenderParticle called",
		"particle", index,
		"role", role.String(),
		"x", particle.Position.X,
		"y", particle.Position.Y,
		"z", particle.Position.Z,
	)
}

// RenderStatus implements Renderer.
func (d *NullRenderer) RenderStatus(stats engine.Stats) {
	d.logger.Debug(context.Background(), "RenderStatus called",
		"frames", stats.Frames,
		"substeps", stats.Substeps,
		"max_stretch", stats.MaxStretch,
	)
}

// Present implements Renderer.
func (d *NullRenderer) Present() {
	d.logger.Debug(context.Background(), "Present called")
}
