package render

import (
	"fmt"
	"math"

	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-rope/pkg/engine"
	"github.com/opd-ai/go-rope/pkg/physics"
)

// CellAspect is the width of a terminal cell relative to its height
const CellAspect = 0.5

// Projector maps world points to screen cells. y grows downward.
type Projector interface {
	Project(p physics.Vector3) (x, y, depth float64, ok bool)
}

// Particle glyphs
const (
	GlyphFree   = 'o'
	GlyphAnchor = '#'
	GlyphTail   = '@'
	GlyphHeld   = '+'
	GlyphGround = '.'
)

var (
	styleSegment = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleGround  = tcell.StyleDefault.Foreground(tcell.ColorGreen).Dim(true)
	styleStatus  = tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorWhite)
	styleRoles   = map[Role]tcell.Style{
		RoleFree:   tcell.StyleDefault.Foreground(tcell.ColorBlue),
		RoleAnchor: tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true),
		RoleTail:   tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true),
		RoleHeld:   tcell.StyleDefault.Foreground(tcell.ColorGreen).Bold(true),
	}
)

// groundExtent is the half-size of the ground grid in world units
const groundExtent = 10

// TerminalRenderer draws the scene into a tcell screen using a perspective
// projection
type TerminalRenderer struct {
	screen tcell.Screen
	proj   Projector
	width  int
	height int
}

// NewTerminalRenderer creates a renderer drawing to screen through proj
func NewTerminalRenderer(screen tcell.Screen, proj Projector) *TerminalRenderer {
	w, h := screen.Size()
	return &TerminalRenderer{
		screen: screen,
		proj:   proj,
		width:  w,
		height: h,
	}
}

// Size returns the screen size seen at the last Clear
func (r *TerminalRenderer) Size() (int, int) {
	return r.width, r.height
}

// Clear implements Renderer
func (r *TerminalRenderer) Clear() {
	r.screen.Clear()
	r.width, r.height = r.screen.Size()
}

// RenderGround implements Renderer
func (r *TerminalRenderer) RenderGround(y float64) {
	for x := -groundExtent; x <= groundExtent; x++ {
		for z := -groundExtent; z <= groundExtent; z++ {
			if cx, cy, ok := r.cell(physics.Vector3{X: float64(x), Y: y, Z: float64(z)}); ok {
				r.screen.SetContent(cx, cy, GlyphGround, nil, styleGround)
			}
		}
	}
}

// RenderSegment implements Renderer
func (r *TerminalRenderer) RenderSegment(index int, segment physics.Segment) {
	x0, y0, _, okA := r.proj.Project(segment.A)
	x1, y1, _, okB := r.proj.Project(segment.B)
	if !okA || !okB {
		return
	}
	limit := float64(4 * max(r.width, r.height))
	if math.Abs(x0) > limit || math.Abs(y0) > limit || math.Abs(x1) > limit || math.Abs(y1) > limit {
		return
	}

	glyph := lineGlyph(x1-x0, y1-y0)
	r.line(int(math.Floor(x0)), int(math.Floor(y0)), int(math.Floor(x1)), int(math.Floor(y1)), glyph)
}

// RenderParticle implements Renderer
func (r *TerminalRenderer) RenderParticle(index int, particle physics.Particle, role Role) {
	cx, cy, ok := r.cell(particle.Position)
	if !ok {
		return
	}

	glyph := GlyphFree
	switch role {
	case RoleAnchor:
		glyph = GlyphAnchor
	case RoleTail:
		glyph = GlyphTail
	case RoleHeld:
		glyph = GlyphHeld
	}
	r.screen.SetContent(cx, cy, glyph, nil, styleRoles[role])
}

// RenderStatus implements Renderer
func (r *TerminalRenderer) RenderStatus(stats engine.Stats) {
	status := StatusLine(stats)
	for x := 0; x < r.width; x++ {
		ch := ' '
		if x < len(status) {
			ch = rune(status[x])
		}
		r.screen.SetContent(x, 0, ch, nil, styleStatus)
	}
}

// Present implements Renderer
func (r *TerminalRenderer) Present() {
	r.screen.Show()
}

// StatusLine formats the one-line status shown by text frontends
func StatusLine(stats engine.Stats) string {
	state := "running"
	switch {
	case stats.Paused:
		state = "paused"
	case stats.Holding:
		state = "dragging"
	}
	return fmt.Sprintf(" rope: %d particles  t=%.1fs  stretch=%.3f  %s  [space] pause [r] reset [q] quit",
		stats.Particles, stats.SimulatedTime, stats.MaxStretch, state)
}

func (r *TerminalRenderer) cell(p physics.Vector3) (int, int, bool) {
	x, y, _, ok := r.proj.Project(p)
	if !ok {
		return 0, 0, false
	}
	cx, cy := int(math.Floor(x)), int(math.Floor(y))
	if cx < 0 || cx >= r.width || cy < 0 || cy >= r.height {
		return 0, 0, false
	}
	return cx, cy, true
}

// line draws a Bresenham line, clipped to the screen
func (r *TerminalRenderer) line(x0, y0, x1, y1 int, glyph rune) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		if x0 >= 0 && x0 < r.width && y0 >= 0 && y0 < r.height {
			r.screen.SetContent(x0, y0, glyph, nil, styleSegment)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// lineGlyph picks the character that best follows a screen direction
func lineGlyph(dx, dy float64) rune {
	ax, ay := math.Abs(dx), math.Abs(dy)
	switch {
	case ay*2 < ax:
		return '-'
	case ax*2 < ay:
		return '|'
	case dx*dy > 0:
		return '\\'
	default:
		return '/'
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
