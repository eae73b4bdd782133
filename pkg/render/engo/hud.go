// pkg/render/engo/hud.go
package engo

import (
	"fmt"
	"time"

	"github.com/EngoEngine/ecs"
	"github.com/EngoEngine/engo"

	"github.com/opd-ai/go-rope/pkg/engine"
)

// titleInterval limits how often the window title is rewritten
const titleInterval = 250 * time.Millisecond

// HUDSystem shows the simulation status in the window title
type HUDSystem struct {
	title    string
	stats    func() engine.Stats
	elapsed  time.Duration
	current  string
	setTitle func(string)
}

// NewHUDSystem creates a HUD prefixing the status with title. stats is read
// each time the title is refreshed.
func NewHUDSystem(title string, stats func() engine.Stats) *HUDSystem {
	return &HUDSystem{
		title:    title,
		stats:    stats,
		elapsed:  titleInterval,
		setTitle: engo.SetTitle,
	}
}

// Priority runs the HUD after the scene has been drawn
func (hud *HUDSystem) Priority() int { return 0 }

// Remove satisfies the ecs.System interface
func (hud *HUDSystem) Remove(basic ecs.BasicEntity) {}

// Update refreshes the title at most every titleInterval
func (hud *HUDSystem) Update(dt float32) {
	hud.elapsed += time.Duration(float64(dt) * float64(time.Second))
	if hud.elapsed < titleInterval {
		return
	}
	hud.elapsed = 0

	title := Title(hud.title, hud.stats())
	if title != hud.current {
		hud.current = title
		hud.setTitle(title)
	}
}

// Current returns the last title written
func (hud *HUDSystem) Current() string {
	return hud.current
}

// Title formats the window title for the given stats
func Title(prefix string, stats engine.Stats) string {
	state := "running"
	switch {
	case stats.Paused:
		state = "paused"
	case stats.Holding:
		state = "dragging"
	}
	return fmt.Sprintf("%s | %s | t=%.1fs | stretch %.3f | space: pause, r: reset",
		prefix, state, stats.SimulatedTime, stats.MaxStretch)
}
