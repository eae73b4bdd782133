// pkg/engine/simulation.go
package engine

import (
	"context"
	"math"

	"github.com/opd-ai/go-rope/pkg/camera"
	"github.com/opd-ai/go-rope/pkg/config"
	"github.com/opd-ai/go-rope/pkg/event"
	"github.com/opd-ai/go-rope/pkg/logging"
	"github.com/opd-ai/go-rope/pkg/physics"
	"github.com/opd-ai/go-rope/pkg/pick"
	"github.com/opd-ai/go-rope/pkg/validation"
)

// StretchWarning is the segment stretch ratio above which the simulation
// logs a warning that the solver is not keeping up
const StretchWarning = 1.5

// FrameInput is what a frontend samples once per rendered frame
type FrameInput struct {
	DeltaTime float64 // seconds since the previous frame
	Pointer   pick.Pointer
}

// Stats is a snapshot of simulation counters
type Stats struct {
	Frames        uint64
	Substeps      uint64
	SimulatedTime float64
	Particles     int
	MaxStretch    float64
	Holding       bool
	Paused        bool
	Tail          physics.Vector3
}

// Simulation owns the rope and everything that mutates it. It is not safe
// for concurrent use; frontends call it from their frame loop only.
type Simulation struct {
	Config   *config.Config
	EventBus *event.Bus

	rope       *physics.Rope
	integrator *physics.Integrator
	picker     *pick.Picker
	camera     *camera.Camera
	logger     *logging.Logger

	paused       bool
	holding      bool
	stretched    bool
	frames       uint64
	lastPlane    float64
	lastHeld     int
	frameClamped uint64
}

// NewSimulation validates cfg and builds the initial rope and camera
func NewSimulation(cfg *config.Config, logger *logging.Logger) (*Simulation, error) {
	if err := validation.ValidateConfig(cfg); err != nil {
		return nil, logging.WrapError(err, "invalid configuration")
	}
	if logger == nil {
		logger = logging.Discard()
	}

	sim := &Simulation{
		Config:     cfg,
		EventBus:   event.NewEventBus(),
		rope:       BuildRope(cfg.Rope, cfg.PhysicsParams()),
		integrator: physics.NewIntegrator(cfg.Physics.TimeStep),
		picker:     pick.NewPicker(),
		camera:     camera.New(cfg.CameraOptions(1)),
		logger:     logger,
	}
	sim.camera.SetViewport(cfg.Display.Width, cfg.Display.Height)

	return sim, nil
}

// BuildRope lays particles out from the anchor along the configured
// direction. The first particle is fixed and the last one is the tail.
func BuildRope(rc config.RopeConfig, params physics.Params) *physics.Rope {
	rope := physics.NewRope(params)
	dir := rc.Direction.Normalize()

	for i := 0; i < rc.Particles; i++ {
		mass := rc.ParticleMass
		switch {
		case i == 0:
			mass = 0
		case i == rc.Particles-1:
			mass = rc.TailMass
		}
		rope.AddParticle(rc.Anchor.Add(dir.Scale(rc.Separation*float64(i))), mass)
	}

	return rope
}

// Frame advances the simulation by one rendered frame: the camera orbits,
// the picker drags the tail, then the integrator runs the fixed substeps
// that fit. Frame times are clamped to the configured maximum. It returns
// the number of substeps run.
func (s *Simulation) Frame(ctx context.Context, in FrameInput) int {
	dt := s.clampFrameTime(ctx, in.DeltaTime)

	s.camera.Update(dt, in.Pointer.Down)
	s.picker.Pick(in.Pointer, s.camera.Position(), s.camera.LookAt(), s.camera, s.rope)
	s.publishDragTransitions(ctx)

	steps := 0
	if !s.paused {
		steps = s.integrator.Integrate(s.rope, dt)
	}
	s.frames++
	s.checkStretch(ctx)

	return steps
}

func (s *Simulation) clampFrameTime(ctx context.Context, dt float64) float64 {
	if dt <= 0 || math.IsNaN(dt) {
		return 0
	}
	if limit := s.Config.Physics.MaxFrameTime; dt > limit {
		s.frameClamped++
		s.logger.Debug(ctx, "frame time clamped", "frame_time", dt, "limit", limit)
		return limit
	}
	return dt
}

// publishDragTransitions emits grab events when the picker lock changes
func (s *Simulation) publishDragTransitions(ctx context.Context) {
	held, holding := s.picker.Held()

	switch {
	case holding && !s.holding:
		plane, _ := s.picker.PlaneDistance()
		s.lastPlane = plane
		s.lastHeld = held
		pos := s.rope.Particle(held).Position
		s.logger.Debug(ctx, "grab started", "particle", held, "plane_distance", plane)
		s.EventBus.Publish(event.NewDragEvent(event.GrabStarted, s, held, pos, plane))
	case !holding && s.holding:
		pos := s.rope.Particle(s.lastHeld).Position
		s.logger.Debug(ctx, "grab ended", "particle", s.lastHeld)
		s.EventBus.Publish(event.NewDragEvent(event.GrabEnded, s, s.lastHeld, pos, s.lastPlane))
	}

	s.holding = holding
}

func (s *Simulation) checkStretch(ctx context.Context) {
	stretch := s.rope.MaxStretch()
	over := stretch > StretchWarning
	if over && !s.stretched {
		s.logger.Warn(ctx, "rope overstretched", "max_stretch", stretch, "iterations", s.Config.Physics.Iterations)
	}
	s.stretched = over
}

// Reset rebuilds the rope from the config and drops any drag in progress
func (s *Simulation) Reset(ctx context.Context) {
	if s.holding {
		pos := s.rope.Particle(s.lastHeld).Position
		s.EventBus.Publish(event.NewDragEvent(event.GrabEnded, s, s.lastHeld, pos, s.lastPlane))
	}

	s.rope = BuildRope(s.Config.Rope, s.Config.PhysicsParams())
	s.integrator.Reset()
	s.picker.Reset()
	s.holding = false
	s.stretched = false
	s.frames = 0
	s.frameClamped = 0

	s.logger.Info(ctx, "simulation reset", "particles", s.rope.Len())
	s.EventBus.Publish(event.NewResetEvent(s, s.rope.Len()))
}

// SetPaused stops or resumes integration. Dragging still works while
// paused.
func (s *Simulation) SetPaused(ctx context.Context, paused bool) {
	if s.paused == paused {
		return
	}
	s.paused = paused
	s.logger.Info(ctx, "simulation pause toggled", "paused", paused)
	s.EventBus.Publish(event.NewPauseEvent(s, paused))
}

// TogglePause flips the paused state
func (s *Simulation) TogglePause(ctx context.Context) {
	s.SetPaused(ctx, !s.paused)
}

// Paused reports whether integration is paused
func (s *Simulation) Paused() bool {
	return s.paused
}

// Rope returns the rope for read-only use by renderers
func (s *Simulation) Rope() *physics.Rope {
	return s.rope
}

// Camera returns the simulation camera
func (s *Simulation) Camera() *camera.Camera {
	return s.camera
}

// Held returns the index of the dragged particle, if any
func (s *Simulation) Held() (int, bool) {
	return s.picker.Held()
}

// Stats returns the current counters
func (s *Simulation) Stats() Stats {
	stats := Stats{
		Frames:        s.frames,
		Substeps:      s.integrator.Steps(),
		SimulatedTime: float64(s.integrator.Steps()) * s.integrator.TimeStep(),
		Particles:     s.rope.Len(),
		MaxStretch:    s.rope.MaxStretch(),
		Holding:       s.holding,
		Paused:        s.paused,
	}
	if tail, ok := s.rope.Tail(); ok {
		stats.Tail = s.rope.Particle(tail).Position
	}
	return stats
}

// ClampedFrames returns how many frames since the last reset exceeded the
// maximum frame time
func (s *Simulation) ClampedFrames() uint64 {
	return s.frameClamped
}
