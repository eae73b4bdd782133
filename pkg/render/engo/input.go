// pkg/render/engo/input.go
package engo

import (
	"context"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-rope/pkg/engine"
	"github.com/opd-ai/go-rope/pkg/pick"
)

// Button names registered with engo.Input
const (
	ButtonPause = "pause"
	ButtonReset = "reset"
	ButtonQuit  = "quit"
)

// InputSystem samples the mouse and keyboard once per frame and advances
// the simulation with what it read
type InputSystem struct {
	ctx context.Context
	sim *engine.Simulation

	pointer pick.Pointer
	steps   int
	exit    func()
}

// NewInputSystem creates a new input system driving sim
func NewInputSystem(ctx context.Context, sim *engine.Simulation) *InputSystem {
	return &InputSystem{ctx: ctx, sim: sim, exit: engo.Exit}
}

// Priority runs input before the systems that draw the result
func (is *InputSystem) Priority() int { return 30 }

// Remove satisfies the ecs.System interface
func (is *InputSystem) Remove(basic ecs.BasicEntity) {}

// Update reads input and steps the simulation by dt seconds. Once ctx is
// cancelled it closes the window instead.
func (is *InputSystem) Update(dt float32) {
	if err := is.ctx.Err(); err != nil {
		is.exit()
		return
	}
	is.handleKeys()

	mouse := engo.Input.Mouse
	is.pointer = UpdatePointer(is.pointer, float64(mouse.X), float64(mouse.Y), mouse.Button, mouse.Action)

	is.steps = is.sim.Frame(is.ctx, engine.FrameInput{
		DeltaTime: float64(dt),
		Pointer:   is.pointer,
	})
}

// handleKeys processes the pause, reset and quit bindings
func (is *InputSystem) handleKeys() {
	if engo.Input.Button(ButtonPause).JustPressed() {
		is.sim.TogglePause(is.ctx)
	}
	if engo.Input.Button(ButtonReset).JustPressed() {
		is.sim.Reset(is.ctx)
	}
	if engo.Input.Button(ButtonQuit).JustPressed() {
		is.exit()
	}
}

// Pointer returns the pointer state sent with the last frame
func (is *InputSystem) Pointer() pick.Pointer {
	return is.pointer
}

// Steps returns the number of substeps the last frame ran
func (is *InputSystem) Steps() int {
	return is.steps
}

// UpdatePointer folds one mouse sample into the pointer state. Engo reports
// the left button through press and release actions, so the down flag
// persists between samples until the matching release.
func UpdatePointer(p pick.Pointer, x, y float64, button engo.MouseButton, action engo.Action) pick.Pointer {
	p.X, p.Y = x, y
	if button != engo.MouseButtonLeft {
		return p
	}
	switch action {
	case engo.Press:
		p.Down = true
	case engo.Release:
		p.Down = false
	}
	return p
}

// SetupInputBindings registers the key bindings
func SetupInputBindings() {
	engo.Input.RegisterButton(ButtonPause, engo.KeySpace)
	engo.Input.RegisterButton(ButtonReset, engo.KeyR)
	engo.Input.RegisterButton(ButtonQuit, engo.KeyEscape, engo.KeyQ)
}
