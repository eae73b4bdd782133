// pkg/physics/particle.go
package physics

// Particle is a point mass in a rope. InverseMass is zero for fixed
// particles. RestDistance is the constrained distance to the previous
// particle in the rope and is zero for the first particle.
type Particle struct {
	Position         Vector3 `json:"position"`
	PreviousPosition Vector3 `json:"previousPosition"`
	InverseMass      float64 `json:"inverseMass"`
	RestDistance     float64 `json:"restDistance"`
}

// IsFixed reports whether the particle ignores integration and corrections
func (p Particle) IsFixed() bool {
	return p.InverseMass <= 0
}

// Velocity returns the implicit per-step displacement of the particle
func (p Particle) Velocity() Vector3 {
	return p.Position.Sub(p.PreviousPosition)
}

// inverseMass converts a mass into the stored inverse mass. A zero mass
// marks the particle as fixed.
func inverseMass(mass float64) float64 {
	if mass == 0 {
		return 0
	}
	return 1 / mass
}
