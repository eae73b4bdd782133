package trace

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
)

// Chart dimensions in terminal cells
const (
	ChartWidth  = 60
	ChartHeight = 8
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(16)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 2)
)

// Report renders the trace as a summary table followed by a chart of the
// tail height and one of the segment stretch
func Report(t *Trace, stretchWarning float64) string {
	sum := t.Summarize()

	var s strings.Builder
	s.WriteString(headerStyle.Render(fmt.Sprintf("Rope trace: %.1fs at %d fps", t.Options.Seconds, t.Options.FPS)) + "\n")

	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Frames", fmt.Sprintf("%d", sum.Frames))
	row("Substeps", fmt.Sprintf("%d", sum.Substeps))
	row("Tail height", fmt.Sprintf("%.3f .. %.3f (final %.3f)", sum.MinTail, sum.MaxTail, sum.FinalTail))
	row("Dragged frames", fmt.Sprintf("%d", sum.HoldingFrames))

	peak := fmt.Sprintf("%.4f", sum.PeakStretch)
	if sum.PeakStretch > stretchWarning {
		peak = warnStyle.Render(peak + " (solver falling behind)")
	}
	row("Peak stretch", peak)

	if sum.Frames > 0 {
		s.WriteString(graphStyle.Render(Chart(t.TailHeights(), "tail height")) + "\n")
		s.WriteString(graphStyle.Render(Chart(t.Stretches(), "max stretch")) + "\n")
	}

	return panelStyle.Render(s.String())
}

// Chart plots series with a caption
func Chart(series []float64, caption string) string {
	return asciigraph.Plot(series,
		asciigraph.Height(ChartHeight),
		asciigraph.Width(ChartWidth),
		asciigraph.Precision(3),
		asciigraph.Caption(caption),
	)
}
