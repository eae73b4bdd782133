// pkg/render/engo/camera.go
package engo

import (
	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-rope/pkg/camera"
)

// ZoomFactor is the relative change in orbit radius per scroll notch
const ZoomFactor = 0.1

// CameraSystem keeps the orbit camera's viewport in step with the window
// and zooms it with the mouse wheel. The orbit itself is advanced by the
// simulation.
type CameraSystem struct {
	camera *camera.Camera
}

// NewCameraSystem creates a new camera system
func NewCameraSystem(cam *camera.Camera) *CameraSystem {
	return &CameraSystem{camera: cam}
}

// Priority runs before input so picking sees the current viewport
func (cs *CameraSystem) Priority() int { return 40 }

// Remove satisfies the ecs.System interface
func (cs *CameraSystem) Remove(basic ecs.BasicEntity) {}

// Update syncs the viewport and applies scroll zoom
func (cs *CameraSystem) Update(dt float32) {
	cs.camera.SetViewport(int(engo.GameWidth()), int(engo.GameHeight()))

	if scrollY := engo.Input.Mouse.ScrollY; scrollY != 0 {
		cs.camera.SetRadius(ZoomRadius(cs.camera.Radius(), float64(scrollY)))
	}
}

// ZoomRadius returns the orbit radius after scrolling by scrollY notches.
// Scrolling up moves the camera closer.
func ZoomRadius(radius, scrollY float64) float64 {
	factor := 1 - scrollY*ZoomFactor
	if factor < ZoomFactor {
		factor = ZoomFactor
	}
	return radius * factor
}
