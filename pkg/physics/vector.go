// pkg/physics/vector.go
package physics

import (
	"fmt"
	"math"
)

// Epsilon is the threshold below which lengths and divisors are treated as zero
const Epsilon = 1e-5

// Vector3 represents a 3D vector with x, y and z components
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns the sum of two vectors
func (v Vector3) Add(other Vector3) Vector3 {
	return Vector3{
		X: v.X + other.X,
		Y: v.Y + other.Y,
		Z: v.Z + other.Z,
	}
}

// Sub returns the difference between two vectors
func (v Vector3) Sub(other Vector3) Vector3 {
	return Vector3{
		X: v.X - other.X,
		Y: v.Y - other.Y,
		Z: v.Z - other.Z,
	}
}

// Neg returns the vector pointing the opposite way
func (v Vector3) Neg() Vector3 {
	return Vector3{X: -v.X, Y: -v.Y, Z: -v.Z}
}

// Scale multiplies the vector by a scalar value
func (v Vector3) Scale(factor float64) Vector3 {
	return Vector3{
		X: v.X * factor,
		Y: v.Y * factor,
		Z: v.Z * factor,
	}
}

// Div divides the vector by a scalar. Divisors within Epsilon of zero
// yield the zero vector.
func (v Vector3) Div(divisor float64) Vector3 {
	if math.Abs(divisor) <= Epsilon {
		return Vector3{}
	}
	return v.Scale(1 / divisor)
}

// Dot returns the dot product of two vectors
func (v Vector3) Dot(other Vector3) float64 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the right-handed cross product v x other
func (v Vector3) Cross(other Vector3) Vector3 {
	return Vector3{
		X: v.Y*other.Z - v.Z*other.Y,
		Y: v.Z*other.X - v.X*other.Z,
		Z: v.X*other.Y - v.Y*other.X,
	}
}

// LengthSquared returns magnitude squared (optimization for comparisons)
func (v Vector3) LengthSquared() float64 {
	return v.Dot(v)
}

// Length returns the magnitude of the vector
func (v Vector3) Length() float64 {
	return math.Sqrt(v.LengthSquared())
}

// Normalize returns a unit vector in the same direction, or the zero
// vector when the length is within Epsilon of zero.
func (v Vector3) Normalize() Vector3 {
	length := v.Length()
	if length <= Epsilon {
		return Vector3{}
	}
	return v.Scale(1 / length)
}

// Distance returns the distance between two points
func (v Vector3) Distance(other Vector3) float64 {
	return v.Sub(other).Length()
}

// Component returns the component at index 0 (X), 1 (Y) or 2 (Z).
// Any other index panics.
func (v Vector3) Component(i int) float64 {
	switch i {
	case 0:
		return v.X
	case 1:
		return v.Y
	case 2:
		return v.Z
	}
	panic(fmt.Sprintf("physics: vector component index %d out of range", i))
}

// WithComponent returns a copy of v with component i replaced
func (v Vector3) WithComponent(i int, value float64) Vector3 {
	switch i {
	case 0:
		v.X = value
	case 1:
		v.Y = value
	case 2:
		v.Z = value
	default:
		panic(fmt.Sprintf("physics: vector component index %d out of range", i))
	}
	return v
}

func (v Vector3) String() string {
	return fmt.Sprintf("(%.4f, %.4f, %.4f)", v.X, v.Y, v.Z)
}

// AxisAngleBetween returns the rotation taking direction a onto direction b
// as a (non-normalized) axis and an angle in radians. Both inputs are
// normalized first and the cosine is clamped so rounding cannot push acos
// out of its domain.
func AxisAngleBetween(a, b Vector3) (axis Vector3, angle float64) {
	na := a.Normalize()
	nb := b.Normalize()
	cos := math.Max(-1, math.Min(1, na.Dot(nb)))
	return na.Cross(nb), math.Acos(cos)
}
