// pkg/physics/integrator_test.go
package physics

import (
	"math"
	"testing"
)

func TestNewIntegrator_InvalidStep_UsesDefault(t *testing.T) {
	for _, step := range []float64{0, -1} {
		if got := NewIntegrator(step).TimeStep(); got != DefaultTimeStep {
			t.Errorf("NewIntegrator(%v).TimeStep() = %v, expected %v", step, got, DefaultTimeStep)
		}
	}
}

func TestIntegrator_Integrate_SubstepCount(t *testing.T) {
	tests := []struct {
		name      string
		frameTime float64
		expected  int
	}{
		{"negative", -1, 0},
		{"zero", 0, 0},
		{"short_frame", 0.01, 0},
		{"exact_step", DefaultTimeStep, 1},
		{"one_and_a_bit", 0.02, 1},
		{"two", 0.04, 2},
		{"six", 0.11, 6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			integrator := NewIntegrator(DefaultTimeStep)
			rope := straightRope(DefaultParams(), 3, 1)
			if got := integrator.Integrate(rope, tt.frameTime); got != tt.expected {
				t.Errorf("Integrate(%v) = %d substeps, expected %d", tt.frameTime, got, tt.expected)
			}
			if integrator.Steps() != uint64(tt.expected) {
				t.Errorf("Steps() = %d, expected %d", integrator.Steps(), tt.expected)
			}
		})
	}
}

func TestIntegrator_Integrate_CarriesRemainder(t *testing.T) {
	integrator := NewIntegrator(DefaultTimeStep)
	rope := straightRope(DefaultParams(), 3, 1)

	if got := integrator.Integrate(rope, 0.01); got != 0 {
		t.Fatalf("first frame ran %d substeps, expected 0", got)
	}
	if math.Abs(integrator.Accumulator()-0.01) > 1e-15 {
		t.Errorf("Accumulator() = %v, expected 0.01", integrator.Accumulator())
	}
	if got := integrator.Integrate(rope, 0.01); got != 1 {
		t.Errorf("second frame ran %d substeps, expected 1", got)
	}
	if acc := integrator.Accumulator(); acc < 0 || acc >= DefaultTimeStep {
		t.Errorf("Accumulator() = %v, expected within [0, step)", acc)
	}

	integrator.Reset()
	if integrator.Accumulator() != 0 || integrator.Steps() != 0 {
		t.Error("Reset() did not clear integrator state")
	}
}

func TestIntegrator_Integrate_NoStepLeavesRopeUntouched(t *testing.T) {
	integrator := NewIntegrator(DefaultTimeStep)
	rope := straightRope(DefaultParams(), 3, 1)
	before := rope.Particles()

	integrator.Integrate(rope, 0.005)

	for i, p := range rope.Particles() {
		if p != before[i] {
			t.Errorf("particle %d changed without a substep", i)
		}
	}
}

func TestIntegrator_Integrate_NonFiniteFrameTime_Ignored(t *testing.T) {
	for _, frameTime := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		integrator := NewIntegrator(DefaultTimeStep)
		rope := straightRope(DefaultParams(), 3, 1)

		if steps := integrator.Integrate(rope, frameTime); steps != 0 {
			t.Errorf("Integrate(%v) ran %d substeps, expected 0", frameTime, steps)
		}
		if acc := integrator.Accumulator(); acc != 0 {
			t.Errorf("Accumulator() = %v after Integrate(%v), expected 0", acc, frameTime)
		}
		if steps := integrator.Integrate(rope, DefaultTimeStep); steps != 1 {
			t.Errorf("Integrate() after %v ran %d substeps, expected 1", frameTime, steps)
		}
	}
}

// TestIntegrator_Determinism tests that splitting frame time differently
// produces identical states when the substep count matches
func TestIntegrator_Determinism(t *testing.T) {
	split := straightRope(DefaultParams(), 4, 1)
	whole := straightRope(DefaultParams(), 4, 1)

	a := NewIntegrator(DefaultTimeStep)
	b := NewIntegrator(DefaultTimeStep)

	stepsSplit := a.Integrate(split, 0.033) + a.Integrate(split, 0.033)
	stepsWhole := b.Integrate(whole, 0.066)

	if stepsSplit != 3 || stepsWhole != 3 {
		t.Fatalf("substeps = %d and %d, expected 3 and 3", stepsSplit, stepsWhole)
	}

	for i := 0; i < split.Len(); i++ {
		if split.Particle(i) != whole.Particle(i) {
			t.Errorf("particle %d differs: %v vs %v", i, split.Particle(i), whole.Particle(i))
		}
	}
}

func TestIntegrator_RopeSettlesBelowAnchor(t *testing.T) {
	rope := straightRope(DefaultParams(), 5, 1)
	integrator := NewIntegrator(DefaultTimeStep)

	for i := 0; i < 60*60; i++ {
		integrator.Integrate(rope, DefaultTimeStep)
	}

	tail, _ := rope.Tail()
	p := rope.Particle(tail).Position
	if p.Y > -3.5 {
		t.Errorf("tail settled at %v, expected it to hang below the anchor", p)
	}
	if s := rope.MaxStretch(); s > 1.01 {
		t.Errorf("MaxStretch() = %v after settling, expected near 1", s)
	}
}
