// pkg/render/engo/scene.go
package engo

import (
	"context"
	"fmt"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"
	"github.com/EngoEngine/engo/common"

	"github.com/opd-ai/go-rope/pkg/engine"
	"github.com/opd-ai/go-rope/pkg/event"
	"github.com/opd-ai/go-rope/pkg/logging"
	"github.com/opd-ai/go-rope/pkg/render"
)

// SceneType is the name Engo knows the rope scene by
const SceneType = "RopeScene"

// RopeScene runs the simulation inside an Engo window
type RopeScene struct {
	ctx    context.Context
	sim    *engine.Simulation
	logger *logging.Logger

	// Rendering components
	renderer *EngoRenderer
	camera   *CameraSystem
	input    *InputSystem
	hud      *HUDSystem

	subscriptions []*event.Subscription
}

// NewRopeScene creates a new scene for sim
func NewRopeScene(ctx context.Context, sim *engine.Simulation, logger *logging.Logger) *RopeScene {
	if logger == nil {
		logger = logging.Discard()
	}
	return &RopeScene{
		ctx:    ctx,
		sim:    sim,
		logger: logger,
	}
}

// Type returns the scene type (required by Engo)
func (scene *RopeScene) Type() string {
	return SceneType
}

// Preload is called before the scene starts (required by Engo). Sprites
// are generated in Setup once a graphics context exists.
func (scene *RopeScene) Preload() {}

// Setup is called when the scene starts (required by Engo)
func (scene *RopeScene) Setup(u engo.Updater) {
	world, ok := u.(*ecs.World)
	if !ok {
		panic(fmt.Sprintf("unexpected updater %T", u))
	}

	common.SetBackground(ColorSky)
	SetupInputBindings()

	scene.renderer = NewEngoRenderer(world, scene.sim.Camera(), scene.sim.Config.Camera.FOV)
	if err := scene.renderer.Initialize(); err != nil {
		panic("Failed to initialize renderer: " + err.Error())
	}

	scene.camera = NewCameraSystem(scene.sim.Camera())
	world.AddSystem(scene.camera)

	scene.input = NewInputSystem(scene.ctx, scene.sim)
	world.AddSystem(scene.input)

	world.AddSystem(&drawSystem{scene: scene})

	scene.hud = NewHUDSystem(scene.sim.Config.Display.Title, scene.renderer.Status)
	world.AddSystem(scene.hud)

	scene.subscribeToEvents()
	scene.logger.Info(scene.ctx, "engo scene started",
		"width", engo.GameWidth(),
		"height", engo.GameHeight(),
	)
}

// subscribeToEvents logs simulation events
func (scene *RopeScene) subscribeToEvents() {
	bus := scene.sim.EventBus
	scene.subscriptions = append(scene.subscriptions,
		bus.Subscribe(event.SimulationReset, func(e event.Event) {
			scene.logger.Info(scene.ctx, "simulation reset")
		}),
		bus.Subscribe(event.PauseToggled, func(e event.Event) {
			if pe, ok := e.(*event.PauseEvent); ok {
				scene.logger.Info(scene.ctx, "pause toggled", "paused", pe.Paused)
			}
		}),
	)
}

// Exit is called when the scene is exiting
func (scene *RopeScene) Exit() {
	for _, sub := range scene.subscriptions {
		sub.Cancel()
	}
	scene.subscriptions = nil
	if scene.renderer != nil {
		scene.renderer.Remove()
	}
	scene.logger.Info(scene.ctx, "engo scene exited", "frames", scene.sim.Stats().Frames)
}

// drawSystem redraws the rope after the input system has stepped it
type drawSystem struct {
	scene *RopeScene
}

func (d *drawSystem) Priority() int { return 10 }

func (d *drawSystem) Remove(basic ecs.BasicEntity) {}

func (d *drawSystem) Update(dt float32) {
	render.DrawScene(d.scene.renderer, d.scene.sim)
}

// RunOptions builds the Engo window options from the display settings
func RunOptions(sim *engine.Simulation) engo.RunOptions {
	display := sim.Config.Display
	return engo.RunOptions{
		Title:      display.Title,
		Width:      display.Width,
		Height:     display.Height,
		Fullscreen: display.Fullscreen,
		FPSLimit:   display.FPS,
		VSync:      true,
		MSAA:       4,
	}
}

// Run opens the window and blocks until it closes
func Run(ctx context.Context, sim *engine.Simulation, logger *logging.Logger) {
	engo.Run(RunOptions(sim), NewRopeScene(ctx, sim, logger))
}
