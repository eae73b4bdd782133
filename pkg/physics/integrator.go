// pkg/physics/integrator.go
package physics

import "math"

// DefaultTimeStep is the fixed simulation substep in seconds
const DefaultTimeStep = 1.0 / 60.0

// Integrator converts variable frame times into a whole number of fixed
// substeps, carrying the remainder to the next frame.
type Integrator struct {
	timeStep    float64
	accumulator float64
	steps       uint64
}

// NewIntegrator creates an integrator with the given substep length. A
// non-positive step falls back to DefaultTimeStep.
func NewIntegrator(timeStep float64) *Integrator {
	if timeStep <= 0 {
		timeStep = DefaultTimeStep
	}
	return &Integrator{timeStep: timeStep}
}

// Integrate adds frameTime to the accumulator and runs as many fixed
// substeps as fit. Each substep is a position update followed by constraint
// relaxation. It returns the number of substeps taken. Non-positive frame
// times run nothing, as do NaN and infinite ones; callers are expected to
// clamp long frames.
func (in *Integrator) Integrate(rope *Rope, frameTime float64) int {
	if !(frameTime > 0) || math.IsInf(frameTime, 1) {
		return 0
	}

	in.accumulator += frameTime
	steps := 0
	for in.accumulator >= in.timeStep {
		in.accumulator -= in.timeStep
		rope.Integrate(in.timeStep)
		rope.SolveConstraints(in.timeStep)
		steps++
	}
	in.steps += uint64(steps)
	return steps
}

// TimeStep returns the fixed substep length
func (in *Integrator) TimeStep() float64 {
	return in.timeStep
}

// Accumulator returns the time not yet consumed by a substep
func (in *Integrator) Accumulator() float64 {
	return in.accumulator
}

// Steps returns the total number of substeps run since creation or reset
func (in *Integrator) Steps() uint64 {
	return in.steps
}

// Reset clears the accumulated time and the step counter
func (in *Integrator) Reset() {
	in.accumulator = 0
	in.steps = 0
}
