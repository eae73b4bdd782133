// pkg/physics/rope.go
package physics

import (
	"fmt"
	"math"
)

// Default simulation parameters
const (
	DefaultDamping    = 0.1
	DefaultIterations = 10
)

// DefaultGravity is the constant acceleration applied to free particles
var DefaultGravity = Vector3{Y: -9.8}

// Params holds the tunables shared by every particle in a rope
type Params struct {
	Gravity Vector3 `json:"gravity"`
	// Damping is the exponential velocity decay rate per second
	Damping float64 `json:"damping"`
	// Iterations is the number of relaxation passes per solve
	Iterations int `json:"iterations"`
}

// DefaultParams returns the standard rope parameters
func DefaultParams() Params {
	return Params{
		Gravity:    DefaultGravity,
		Damping:    DefaultDamping,
		Iterations: DefaultIterations,
	}
}

// Segment is a read-only view of the link between two neighbouring particles
type Segment struct {
	A    Vector3
	B    Vector3
	Rest float64
}

// Length returns the current length of the segment
func (s Segment) Length() float64 {
	return s.A.Distance(s.B)
}

// Stretch returns the ratio of current to rest length
func (s Segment) Stretch() float64 {
	if s.Rest <= Epsilon {
		return 1
	}
	return s.Length() / s.Rest
}

// Rope is an ordered chain of particles joined by distance constraints.
// Particles can only be appended at the tail; segments never break.
type Rope struct {
	particles []Particle
	params    Params
}

// NewRope creates an empty rope with the given parameters
func NewRope(params Params) *Rope {
	return &Rope{params: params}
}

// Params returns the rope's parameters
func (r *Rope) Params() Params {
	return r.params
}

// AddParticle appends a particle at the tail. A mass of zero creates a
// fixed particle. The rest distance to the current tail is captured from
// the two positions; placing a particle exactly on its predecessor, or
// passing a negative mass, panics.
func (r *Rope) AddParticle(position Vector3, mass float64) {
	if mass < 0 || math.IsNaN(mass) {
		panic(fmt.Sprintf("physics: invalid particle mass %v", mass))
	}

	rest := 0.0
	if n := len(r.particles); n > 0 {
		rest = position.Distance(r.particles[n-1].Position)
		if rest <= 0 {
			panic(fmt.Sprintf("physics: particle %d placed on its predecessor at %v", n, position))
		}
	}

	r.particles = append(r.particles, Particle{
		Position:         position,
		PreviousPosition: position,
		InverseMass:      inverseMass(mass),
		RestDistance:     rest,
	})
}

// Len returns the number of particles
func (r *Rope) Len() int {
	return len(r.particles)
}

// Particle returns a copy of the particle at index i
func (r *Rope) Particle(i int) Particle {
	return r.particles[i]
}

// Particles returns a copy of all particles in order
func (r *Rope) Particles() []Particle {
	out := make([]Particle, len(r.particles))
	copy(out, r.particles)
	return out
}

// Tail returns the index of the last particle, or false for an empty rope
func (r *Rope) Tail() (int, bool) {
	if len(r.particles) == 0 {
		return 0, false
	}
	return len(r.particles) - 1, true
}

// SetPosition moves particle i without touching its previous position, so
// the move carries into the next integration step as velocity.
func (r *Rope) SetPosition(i int, position Vector3) {
	r.particles[i].Position = position
}

// Segments returns the links between neighbouring particles in order
func (r *Rope) Segments() []Segment {
	if len(r.particles) < 2 {
		return nil
	}
	segments := make([]Segment, 0, len(r.particles)-1)
	for i := 1; i < len(r.particles); i++ {
		segments = append(segments, Segment{
			A:    r.particles[i-1].Position,
			B:    r.particles[i].Position,
			Rest: r.particles[i].RestDistance,
		})
	}
	return segments
}

// MaxStretch returns the largest current-to-rest length ratio over all
// segments, or 1 for a rope without segments.
func (r *Rope) MaxStretch() float64 {
	stretch := 1.0
	for _, s := range r.Segments() {
		stretch = math.Max(stretch, s.Stretch())
	}
	return stretch
}

// Integrate advances every free particle by one Verlet step of length dt,
// applying exponential damping and gravity.
func (r *Rope) Integrate(dt float64) {
	decay := math.Exp(-r.params.Damping * dt)
	accel := r.params.Gravity.Scale(dt * dt)

	for i := range r.particles {
		p := &r.particles[i]
		if p.IsFixed() {
			continue
		}
		velocity := p.Position.Sub(p.PreviousPosition).Scale(decay)
		p.PreviousPosition = p.Position
		p.Position = p.Position.Add(accel).Add(velocity)
	}
}

// SolveConstraints relaxes every segment towards its rest length using
// Gauss-Seidel passes in index order. Corrections are split between the
// two particles by inverse mass. The time step does not affect the result.
func (r *Rope) SolveConstraints(dt float64) {
	for iter := 0; iter < r.params.Iterations; iter++ {
		for i := 1; i < len(r.particles); i++ {
			r.relax(&r.particles[i], &r.particles[i-1])
		}
	}
}

func (r *Rope) relax(a, b *Particle) {
	total := a.InverseMass + b.InverseMass
	if total <= Epsilon {
		return
	}

	delta := a.Position.Sub(b.Position)
	length := delta.Length()
	if length <= Epsilon {
		return
	}

	displacement := length - a.RestDistance
	correction := delta.Scale(-displacement / length)

	a.Position = a.Position.Add(correction.Scale(a.InverseMass / total))
	b.Position = b.Position.Sub(correction.Scale(b.InverseMass / total))
}
