package render

import (
	"context"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-rope/pkg/config"
	"github.com/opd-ai/go-rope/pkg/engine"
	"github.com/opd-ai/go-rope/pkg/physics"
)

// flatProjector is an orthographic projection: ten cells per unit across,
// five per unit down, with the origin at cell (40, 12). Points with
// negative Z are behind the viewer.
type flatProjector struct{}

func (flatProjector) Project(p physics.Vector3) (float64, float64, float64, bool) {
	if p.Z < 0 {
		return 0, 0, 0, false
	}
	return 40 + p.X*10, 12 - p.Y*5, 0.5, true
}

func newTestScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("screen.Init() failed: %v", err)
	}
	screen.SetSize(80, 24)
	t.Cleanup(screen.Fini)
	return screen
}

func runeAt(screen tcell.SimulationScreen, x, y int) rune {
	mainc, _, _, _ := screen.GetContent(x, y)
	return mainc
}

// TestNewTerminalRenderer tests that the renderer picks up the screen size
func TestNewTerminalRenderer_UsesScreenSize(t *testing.T) {
	screen := newTestScreen(t)
	renderer := NewTerminalRenderer(screen, flatProjector{})

	if w, h := renderer.Size(); w != 80 || h != 24 {
		t.Errorf("Size() = %d, %d, expected 80, 24", w, h)
	}

	screen.SetSize(100, 30)
	renderer.Clear()
	if w, h := renderer.Size(); w != 100 || h != 30 {
		t.Errorf("Size() after resize = %d, %d, expected 100, 30", w, h)
	}
}

func TestTerminalRenderer_RenderParticle_Glyphs(t *testing.T) {
	tests := []struct {
		name     string
		position physics.Vector3
		role     Role
		x, y     int
		expected rune
	}{
		{"free", physics.Vector3{}, RoleFree, 40, 12, GlyphFree},
		{"anchor", physics.Vector3{X: -1, Y: 1}, RoleAnchor, 30, 7, GlyphAnchor},
		{"tail", physics.Vector3{X: 2.05, Y: -1.1}, RoleTail, 60, 17, GlyphTail},
		{"held", physics.Vector3{X: 0.5}, RoleHeld, 45, 12, GlyphHeld},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			screen := newTestScreen(t)
			renderer := NewTerminalRenderer(screen, flatProjector{})
			renderer.Clear()

			renderer.RenderParticle(0, physics.Particle{Position: tt.position}, tt.role)

			if got := runeAt(screen, tt.x, tt.y); got != tt.expected {
				t.Errorf("cell (%d, %d) = %q, expected %q", tt.x, tt.y, got, tt.expected)
			}
		})
	}
}

func TestTerminalRenderer_RenderParticle_OffScreen(t *testing.T) {
	screen := newTestScreen(t)
	renderer := NewTerminalRenderer(screen, flatProjector{})
	renderer.Clear()

	renderer.RenderParticle(0, physics.Particle{Position: physics.Vector3{X: 100}}, RoleTail)
	renderer.RenderParticle(0, physics.Particle{Position: physics.Vector3{Z: -1}}, RoleTail)

	for y := 0; y < 24; y++ {
		for x := 0; x < 80; x++ {
			if got := runeAt(screen, x, y); got == GlyphTail {
				t.Fatalf("off-screen particle drawn at (%d, %d)", x, y)
			}
		}
	}
}

func TestTerminalRenderer_RenderSegment(t *testing.T) {
	screen := newTestScreen(t)
	renderer := NewTerminalRenderer(screen, flatProjector{})
	renderer.Clear()

	renderer.RenderSegment(0, physics.Segment{A: physics.Vector3{}, B: physics.Vector3{X: 1}, Rest: 1})
	for x := 40; x <= 50; x++ {
		if got := runeAt(screen, x, 12); got != '-' {
			t.Errorf("cell (%d, 12) = %q, expected '-'", x, got)
		}
	}

	renderer.RenderSegment(1, physics.Segment{A: physics.Vector3{X: -2}, B: physics.Vector3{X: -2, Y: -2}, Rest: 2})
	for y := 12; y <= 22; y++ {
		if got := runeAt(screen, 20, y); got != '|' {
			t.Errorf("cell (20, %d) = %q, expected '|'", y, got)
		}
	}

	// Segments with a hidden end are skipped
	renderer.RenderSegment(2, physics.Segment{A: physics.Vector3{Y: 2}, B: physics.Vector3{Y: 2, Z: -1}, Rest: 1})
	if got := runeAt(screen, 40, 2); got != ' ' {
		t.Errorf("hidden segment drawn: %q", got)
	}
}

func TestLineGlyph(t *testing.T) {
	tests := []struct {
		name     string
		dx, dy   float64
		expected rune
	}{
		{"right", 10, 1, '-'},
		{"left", -10, 0, '-'},
		{"down", 0, 5, '|'},
		{"up", 1, -8, '|'},
		{"down_right", 4, 4, '\\'},
		{"up_left", -4, -3, '\\'},
		{"up_right", 4, -4, '/'},
		{"down_left", -3, 4, '/'},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := lineGlyph(tt.dx, tt.dy); got != tt.expected {
				t.Errorf("lineGlyph(%v, %v) = %q, expected %q", tt.dx, tt.dy, got, tt.expected)
			}
		})
	}
}

func TestTerminalRenderer_RenderGround(t *testing.T) {
	screen := newTestScreen(t)
	renderer := NewTerminalRenderer(screen, flatProjector{})
	renderer.Clear()

	renderer.RenderGround(-1)

	if got := runeAt(screen, 40, 17); got != GlyphGround {
		t.Errorf("cell (40, 17) = %q, expected ground", got)
	}
	if got := runeAt(screen, 45, 17); got != ' ' {
		t.Errorf("cell (45, 17) = %q, expected empty between grid points", got)
	}
}

func TestTerminalRenderer_RenderStatus(t *testing.T) {
	screen := newTestScreen(t)
	renderer := NewTerminalRenderer(screen, flatProjector{})
	renderer.Clear()

	stats := engine.Stats{Particles: 10, SimulatedTime: 2.5, MaxStretch: 1.25, Paused: true}
	renderer.RenderStatus(stats)

	var row strings.Builder
	for x := 0; x < 80; x++ {
		row.WriteRune(runeAt(screen, x, 0))
	}
	if !strings.HasPrefix(row.String(), StatusLine(stats)[:40]) {
		t.Errorf("status row = %q", row.String())
	}
}

func TestStatusLine(t *testing.T) {
	tests := []struct {
		name     string
		stats    engine.Stats
		contains []string
	}{
		{"running", engine.Stats{Particles: 10, MaxStretch: 1}, []string{"10 particles", "running", "stretch=1.000"}},
		{"paused", engine.Stats{Paused: true, Holding: true}, []string{"paused"}},
		{"dragging", engine.Stats{Holding: true, SimulatedTime: 12.34}, []string{"dragging", "t=12.3s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := StatusLine(tt.stats)
			for _, s := range tt.contains {
				if !strings.Contains(line, s) {
					t.Errorf("StatusLine() = %q, expected it to contain %q", line, s)
				}
			}
		})
	}
}

// TestTerminalRenderer_DrawScene tests a full frame of the default rope seen
// through the orbit camera
func TestTerminalRenderer_DrawScene(t *testing.T) {
	screen := newTestScreen(t)

	sim, err := engine.NewSimulation(config.DefaultConfig(), nil)
	if err != nil {
		t.Fatalf("NewSimulation() failed: %v", err)
	}
	sim.Camera().SetPixelAspect(CellAspect)
	sim.Camera().SetViewport(80, 24)
	sim.Frame(context.Background(), engine.FrameInput{DeltaTime: 1.0 / 60})

	renderer := NewTerminalRenderer(screen, sim.Camera())
	DrawScene(renderer, sim)

	counts := map[rune]int{}
	for y := 0; y < 24; y++ {
		for x := 0; x < 80; x++ {
			counts[runeAt(screen, x, y)]++
		}
	}
	if counts[GlyphAnchor] != 1 {
		t.Errorf("found %d anchor glyphs, expected 1", counts[GlyphAnchor])
	}
	if counts[GlyphTail] != 1 {
		t.Errorf("found %d tail glyphs, expected 1", counts[GlyphTail])
	}
	if counts['-'] == 0 {
		t.Error("no rope segments drawn")
	}
}
