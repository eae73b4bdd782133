// Package trace runs the simulation headless for a fixed time, optionally
// with a scripted drag, and records how the rope behaves frame by frame.
package trace

import (
	"context"
	"fmt"
	"math"

	"github.com/opd-ai/go-rope/pkg/engine"
	"github.com/opd-ai/go-rope/pkg/logging"
	"github.com/opd-ai/go-rope/pkg/pick"
)

// Options configures a trace run
type Options struct {
	Seconds float64 // simulated wall time
	FPS     int     // frames per second fed to the simulation
	Drag    bool    // drag the tail around during the middle third
}

// DefaultOptions returns a ten second run at 60 frames per second
func DefaultOptions() Options {
	return Options{Seconds: 10, FPS: 60}
}

// Sample is the rope state after one frame
type Sample struct {
	Time       float64
	TailHeight float64
	MaxStretch float64
	Substeps   int
	Holding    bool
}

// Trace is the recorded run
type Trace struct {
	Options Options
	Samples []Sample
}

// Summary condenses a trace into a few numbers
type Summary struct {
	Frames        int
	Substeps      int
	MinTail       float64
	MaxTail       float64
	FinalTail     float64
	PeakStretch   float64
	HoldingFrames int
}

// Run drives sim for opts.Seconds and records a sample per frame. The
// context is checked between frames.
func Run(ctx context.Context, sim *engine.Simulation, opts Options) (*Trace, error) {
	if opts.Seconds <= 0 || math.IsNaN(opts.Seconds) {
		return nil, fmt.Errorf("trace length must be positive, got %v", opts.Seconds)
	}
	if opts.FPS <= 0 {
		return nil, fmt.Errorf("trace fps must be positive, got %d", opts.FPS)
	}

	frames := int(math.Round(opts.Seconds * float64(opts.FPS)))
	dt := 1 / float64(opts.FPS)
	width, height := sim.Camera().Viewport()

	tr := &Trace{Options: opts, Samples: make([]Sample, 0, frames)}
	for i := 0; i < frames; i++ {
		if err := ctx.Err(); err != nil {
			return tr, logging.WrapError(err, "trace interrupted at frame %d", i)
		}

		var pointer pick.Pointer
		if opts.Drag {
			pointer = DragPointer(i, frames, width, height)
		}
		steps := sim.Frame(ctx, engine.FrameInput{DeltaTime: dt, Pointer: pointer})

		stats := sim.Stats()
		tr.Samples = append(tr.Samples, Sample{
			Time:       float64(i+1) * dt,
			TailHeight: stats.Tail.Y,
			MaxStretch: stats.MaxStretch,
			Substeps:   steps,
			Holding:    stats.Holding,
		})
	}

	return tr, nil
}

// DragPointer is the scripted pointer for frame i of n: released for the
// first and last thirds, and pressed in between while tracing an ellipse
// around the middle of a width by height viewport.
func DragPointer(i, n, width, height int) pick.Pointer {
	start, end := n/3, 2*n/3
	p := pick.Pointer{X: float64(width) / 2, Y: float64(height) / 2}
	if i < start || i >= end {
		return p
	}

	s := float64(i-start) / float64(max(end-start, 1))
	p.X += 0.3 * float64(width) * math.Sin(2*math.Pi*s)
	p.Y += 0.2 * float64(height) * (1 - math.Cos(2*math.Pi*s))
	p.Down = true
	return p
}

// TailHeights returns the tail height of every sample
func (t *Trace) TailHeights() []float64 {
	out := make([]float64, len(t.Samples))
	for i, s := range t.Samples {
		out[i] = s.TailHeight
	}
	return out
}

// Stretches returns the maximum segment stretch of every sample
func (t *Trace) Stretches() []float64 {
	out := make([]float64, len(t.Samples))
	for i, s := range t.Samples {
		out[i] = s.MaxStretch
	}
	return out
}

// Summarize computes the summary of the trace
func (t *Trace) Summarize() Summary {
	sum := Summary{Frames: len(t.Samples)}
	if len(t.Samples) == 0 {
		return sum
	}

	sum.MinTail = math.Inf(1)
	sum.MaxTail = math.Inf(-1)
	for _, s := range t.Samples {
		sum.Substeps += s.Substeps
		sum.MinTail = math.Min(sum.MinTail, s.TailHeight)
		sum.MaxTail = math.Max(sum.MaxTail, s.TailHeight)
		sum.PeakStretch = math.Max(sum.PeakStretch, s.MaxStretch)
		if s.Holding {
			sum.HoldingFrames++
		}
	}
	sum.FinalTail = t.Samples[len(t.Samples)-1].TailHeight

	return sum
}
