package main

import (
	"context"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-rope/pkg/engine"
	"github.com/opd-ai/go-rope/pkg/logging"
	"github.com/opd-ai/go-rope/pkg/pick"
	"github.com/opd-ai/go-rope/pkg/render"
)

// keyAction is what a key press asks the terminal loop to do
type keyAction int

const (
	actionNone keyAction = iota
	actionQuit
	actionPause
	actionReset
)

// runTerminal drives the simulation in the terminal until the user quits
// or ctx is cancelled
func runTerminal(ctx context.Context, sim *engine.Simulation, logger *logging.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return logging.WrapError(err, "create screen")
	}
	if err := screen.Init(); err != nil {
		return logging.WrapError(err, "init screen")
	}
	defer screen.Fini()

	screen.EnableMouse()
	screen.HideCursor()

	cam := sim.Camera()
	cam.SetPixelAspect(render.CellAspect)
	cam.SetViewport(screen.Size())
	renderer := render.NewTerminalRenderer(screen, cam)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	fps := sim.Config.Display.FPS
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	var pointer pick.Pointer
	last := time.Now()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventResize:
				screen.Sync()
				cam.SetViewport(screen.Size())
			case *tcell.EventMouse:
				pointer = terminalPointer(ev)
			case *tcell.EventKey:
				switch keyActionFor(ev) {
				case actionQuit:
					logger.Info(ctx, "quit requested")
					return nil
				case actionPause:
					sim.TogglePause(ctx)
				case actionReset:
					sim.Reset(ctx)
				}
			}

		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			sim.Frame(ctx, engine.FrameInput{DeltaTime: dt, Pointer: pointer})
			render.DrawScene(renderer, sim)
		}
	}
}

// terminalPointer converts a mouse event to a pointer at the center of the
// cell under the mouse
func terminalPointer(ev *tcell.EventMouse) pick.Pointer {
	x, y := ev.Position()
	return pick.Pointer{
		X:    float64(x) + 0.5,
		Y:    float64(y) + 0.5,
		Down: ev.Buttons()&tcell.Button1 != 0,
	}
}

// keyActionFor maps a key press to a loop action
func keyActionFor(ev *tcell.EventKey) keyAction {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return actionQuit
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			return actionQuit
		case ' ':
			return actionPause
		case 'r', 'R':
			return actionReset
		}
	}
	return actionNone
}
