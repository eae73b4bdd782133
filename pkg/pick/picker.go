// Package pick moves the tail of a rope to follow the pointer. The tail is
// dragged across a plane facing the camera whose distance along the view
// direction is locked when the button is pressed and released when it is
// let go.
package pick

import (
	"math"

	"github.com/opd-ai/go-rope/pkg/physics"
)

// Projector converts window coordinates into world space
type Projector interface {
	// Unproject returns the world-space point on the near clip plane under
	// the window position (x, y). Window y grows downward.
	Unproject(x, y float64) physics.Vector3
	// Viewport returns the window size in pixels (or cells)
	Viewport() (width, height int)
}

// Pointer is the pointer state sampled for one frame
type Pointer struct {
	X    float64
	Y    float64
	Down bool
}

// Picker tracks the drag plane for the rope tail between frames
type Picker struct {
	planeDistance float64
	locked        bool
	held          int
}

// NewPicker creates a picker with no active drag
func NewPicker() *Picker {
	return &Picker{}
}

// Pick updates the drag for one frame. While the pointer is down the tail
// particle is moved to where the pointer ray meets the drag plane. The plane
// distance is captured from the tail on the first pressed frame and kept
// until the pointer is released. Frames where the ray runs parallel to the
// plane leave the tail where it is.
func (pk *Picker) Pick(ptr Pointer, cameraPos, cameraLookAt physics.Vector3, proj Projector, rope *physics.Rope) {
	tail, ok := rope.Tail()
	if !ok {
		return
	}

	width, height := proj.Viewport()
	x := clamp(ptr.X, 0, float64(width))
	y := clamp(ptr.Y, 0, float64(height))

	near := proj.Unproject(x, y)
	rayDir := near.Sub(cameraPos).Normalize()
	lookDir := cameraLookAt.Sub(cameraPos).Normalize()

	tailDistance := rope.Particle(tail).Position.Dot(lookDir)
	planeDistance := tailDistance
	if pk.locked {
		planeDistance = pk.planeDistance
	}

	if !ptr.Down {
		pk.locked = false
		return
	}

	if facing := rayDir.Dot(lookDir); math.Abs(facing) > physics.Epsilon {
		t := (planeDistance - near.Dot(lookDir)) / facing
		rope.SetPosition(tail, near.Add(rayDir.Scale(t)))
	}

	if !pk.locked {
		pk.planeDistance = tailDistance
		pk.locked = true
		pk.held = tail
	}
}

// PlaneDistance returns the locked drag plane distance, if a drag is active
func (pk *Picker) PlaneDistance() (float64, bool) {
	return pk.planeDistance, pk.locked
}

// Held returns the index of the particle being dragged, if any
func (pk *Picker) Held() (int, bool) {
	if !pk.locked {
		return 0, false
	}
	return pk.held, true
}

// Reset drops any active drag
func (pk *Picker) Reset() {
	pk.locked = false
	pk.planeDistance = 0
	pk.held = 0
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
