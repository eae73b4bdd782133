// Package health runs diagnostic checks against a running simulation: is
// the solver keeping segments near their rest length, is every particle
// still finite, and are frames arriving within the time budget.
package health

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/opd-ai/go-rope/pkg/engine"
	"github.com/opd-ai/go-rope/pkg/physics"
)

// Status values
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// MaxClampedRatio is the share of frames that may exceed the maximum frame
// time before the frame budget check fails
const MaxClampedRatio = 0.1

// HealthCheck defines the interface for individual health checks.
type HealthCheck interface {
	// Name returns the unique name of this health check
	Name() string
	// Check performs the health check and returns an error if unhealthy
	Check(ctx context.Context) error
}

// HealthStatus represents the overall health of a simulation.
type HealthStatus struct {
	Status string                     `json:"status"`
	Checks map[string]ComponentHealth `json:"checks"`
}

// ComponentHealth represents the result of one check.
type ComponentHealth struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Healthy reports whether every check passed
func (s HealthStatus) Healthy() bool {
	return s.Status == StatusHealthy
}

// Names returns the check names in sorted order
func (s HealthStatus) Names() []string {
	names := make([]string, 0, len(s.Checks))
	for name := range s.Checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HealthChecker manages and executes health checks.
type HealthChecker struct {
	checks map[string]HealthCheck
	mu     sync.RWMutex
}

// NewHealthChecker creates a new health checker instance.
func NewHealthChecker() *HealthChecker {
	return &HealthChecker{
		checks: make(map[string]HealthCheck),
	}
}

// ForSimulation returns a checker with the solver, state and frame budget
// checks wired to sim
func ForSimulation(sim *engine.Simulation) *HealthChecker {
	hc := NewHealthChecker()
	hc.AddCheck(NewSolverHealthCheck(func() float64 { return sim.Stats().MaxStretch }, engine.StretchWarning))
	hc.AddCheck(NewStateHealthCheck(func() []physics.Particle { return sim.Rope().Particles() }))
	hc.AddCheck(NewFrameBudgetHealthCheck(
		func() (uint64, uint64) { return sim.ClampedFrames(), sim.Stats().Frames },
		MaxClampedRatio,
	))
	return hc
}

// AddCheck registers a new health check with the health checker.
// If a check with the same name already exists, it will be replaced.
func (hc *HealthChecker) AddCheck(check HealthCheck) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	hc.checks[check.Name()] = check
}

// RemoveCheck removes a health check by name.
func (hc *HealthChecker) RemoveCheck(name string) {
	hc.mu.Lock()
	defer hc.mu.Unlock()
	delete(hc.checks, name)
}

// CheckHealth executes all registered health checks and returns the aggregated status.
// The overall status is "healthy" only if all individual checks pass.
func (hc *HealthChecker) CheckHealth(ctx context.Context) HealthStatus {
	hc.mu.RLock()
	defer hc.mu.RUnlock()

	status := HealthStatus{
		Status: StatusHealthy,
		Checks: make(map[string]ComponentHealth),
	}

	for name, check := range hc.checks {
		err := ctx.Err()
		if err == nil {
			err = check.Check(ctx)
		}
		if err != nil {
			status.Status = StatusUnhealthy
			status.Checks[name] = ComponentHealth{
				Status:  StatusUnhealthy,
				Message: err.Error(),
			}
		} else {
			status.Checks[name] = ComponentHealth{
				Status: StatusHealthy,
			}
		}
	}

	return status
}

// SolverHealthCheck fails when a segment is stretched past a limit, which
// means the relaxation iterations are not keeping up
type SolverHealthCheck struct {
	name       string
	maxStretch func() float64
	limit      float64
}

// NewSolverHealthCheck creates a new solver health check.
func NewSolverHealthCheck(maxStretch func() float64, limit float64) *SolverHealthCheck {
	return &SolverHealthCheck{
		name:       "solver",
		maxStretch: maxStretch,
		limit:      limit,
	}
}

// Name returns the name of this health check.
func (s *SolverHealthCheck) Name() string {
	return s.name
}

// Check verifies the stretch is under the limit.
func (s *SolverHealthCheck) Check(ctx context.Context) error {
	if stretch := s.maxStretch(); stretch > s.limit {
		return fmt.Errorf("segment stretched to %.3f of rest length, limit %.3f", stretch, s.limit)
	}
	return nil
}

// StateHealthCheck fails when any particle position is NaN or infinite
type StateHealthCheck struct {
	name      string
	particles func() []physics.Particle
}

// NewStateHealthCheck creates a new state health check.
func NewStateHealthCheck(particles func() []physics.Particle) *StateHealthCheck {
	return &StateHealthCheck{
		name:      "state",
		particles: particles,
	}
}

// Name returns the name of this health check.
func (s *StateHealthCheck) Name() string {
	return s.name
}

// Check verifies every particle is finite.
func (s *StateHealthCheck) Check(ctx context.Context) error {
	for i, p := range s.particles() {
		if !finite(p.Position) || !finite(p.PreviousPosition) {
			return fmt.Errorf("particle %d has a non-finite position %v", i, p.Position)
		}
	}
	return nil
}

func finite(v physics.Vector3) bool {
	for _, c := range []float64{v.X, v.Y, v.Z} {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

// FrameBudgetHealthCheck fails when too many frames had to be clamped to
// the maximum frame time, which means the simulation runs slower than real
// time
type FrameBudgetHealthCheck struct {
	name     string
	counts   func() (clamped, frames uint64)
	maxRatio float64
}

// NewFrameBudgetHealthCheck creates a new frame budget health check.
func NewFrameBudgetHealthCheck(counts func() (clamped, frames uint64), maxRatio float64) *FrameBudgetHealthCheck {
	return &FrameBudgetHealthCheck{
		name:     "frame_budget",
		counts:   counts,
		maxRatio: maxRatio,
	}
}

// Name returns the name of this health check.
func (f *FrameBudgetHealthCheck) Name() string {
	return f.name
}

// Check verifies the clamped frame ratio.
func (f *FrameBudgetHealthCheck) Check(ctx context.Context) error {
	clamped, frames := f.counts()
	if frames == 0 {
		return nil
	}
	if ratio := float64(clamped) / float64(frames); ratio > f.maxRatio {
		return fmt.Errorf("%d of %d frames exceeded the maximum frame time (%.1f%%)", clamped, frames, ratio*100)
	}
	return nil
}
