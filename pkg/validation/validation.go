// Package validation checks simulation configuration before it reaches the
// engine, so bad values are reported together instead of surfacing as
// panics or runaway physics.
package validation

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/opd-ai/go-rope/pkg/config"
)

// Limits for configurable values
const (
	MaxParticles   = 4096
	MaxIterations  = 1000
	MaxTitleLen    = 64
	MaxFrameTime   = 1.0
	MinSampleRate  = 8000
	MaxSampleRate  = 192000
	MaxCueMillis   = 2000
	MaxFieldOfView = 179
)

// ValidateConfig checks every section of the config and returns all
// problems found joined into one error, or nil.
func ValidateConfig(cfg *config.Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	var errs []error
	errs = append(errs, validateRope(cfg.Rope)...)
	errs = append(errs, validatePhysics(cfg.Physics)...)
	errs = append(errs, validateCamera(cfg.Camera)...)
	errs = append(errs, validateDisplay(cfg.Display)...)
	if cfg.Audio.Enabled {
		errs = append(errs, validateAudio(cfg.Audio)...)
	}
	return errors.Join(errs...)
}

func validateRope(rope config.RopeConfig) []error {
	var errs []error
	if rope.Particles < 2 || rope.Particles > MaxParticles {
		errs = append(errs, fmt.Errorf("rope particles must be between 2 and %d, got %d", MaxParticles, rope.Particles))
	}
	if !positive(rope.Separation) {
		errs = append(errs, fmt.Errorf("rope separation must be positive, got %v", rope.Separation))
	}
	if rope.Direction.Length() <= 1e-5 {
		errs = append(errs, fmt.Errorf("rope direction must be non-zero, got %v", rope.Direction))
	}
	if !positive(rope.ParticleMass) {
		errs = append(errs, fmt.Errorf("particle mass must be positive, got %v", rope.ParticleMass))
	}
	if !positive(rope.TailMass) {
		errs = append(errs, fmt.Errorf("tail mass must be positive, got %v", rope.TailMass))
	}
	return errs
}

func validatePhysics(p config.PhysicsConfig) []error {
	var errs []error
	if err := ValidateIterations(p.Iterations); err != nil {
		errs = append(errs, err)
	}
	if err := ValidateTimeStep(p.TimeStep, p.MaxFrameTime); err != nil {
		errs = append(errs, err)
	}
	if p.Damping < 0 || math.IsNaN(p.Damping) || math.IsInf(p.Damping, 0) {
		errs = append(errs, fmt.Errorf("damping must be a non-negative number, got %v", p.Damping))
	}
	return errs
}

func validateCamera(c config.CameraConfig) []error {
	var errs []error
	if !positive(c.Near) {
		errs = append(errs, fmt.Errorf("camera near plane must be positive, got %v", c.Near))
	}
	if c.Far <= c.Near {
		errs = append(errs, fmt.Errorf("camera far plane (%v) must be beyond the near plane (%v)", c.Far, c.Near))
	}
	if c.FOV <= 0 || c.FOV > MaxFieldOfView {
		errs = append(errs, fmt.Errorf("camera field of view must be between 0 and %d degrees, got %v", MaxFieldOfView, c.FOV))
	}
	if c.Radius <= c.Near {
		errs = append(errs, fmt.Errorf("camera radius (%v) must be greater than the near plane (%v)", c.Radius, c.Near))
	}
	if !(c.SpringFrequency > 0) {
		errs = append(errs, fmt.Errorf("camera spring frequency must be positive, got %v", c.SpringFrequency))
	}
	if c.SpringDamping < 0 {
		errs = append(errs, fmt.Errorf("camera spring damping cannot be negative"))
	}
	return errs
}

func validateDisplay(d config.DisplayConfig) []error {
	var errs []error
	if err := ValidateRenderer(d.Renderer); err != nil {
		errs = append(errs, err)
	}
	if d.Width <= 0 || d.Height <= 0 {
		errs = append(errs, fmt.Errorf("display size must be positive, got %dx%d", d.Width, d.Height))
	}
	if d.FPS <= 0 {
		errs = append(errs, fmt.Errorf("display fps must be positive, got %d", d.FPS))
	}
	if _, err := ValidateTitle(d.Title); err != nil {
		errs = append(errs, err)
	}
	return errs
}

func validateAudio(a config.AudioConfig) []error {
	var errs []error
	if a.SampleRate < MinSampleRate || a.SampleRate > MaxSampleRate {
		errs = append(errs, fmt.Errorf("audio sample rate must be between %d and %d, got %d", MinSampleRate, MaxSampleRate, a.SampleRate))
	}
	if !positive(a.GrabFrequency) || !positive(a.ReleaseFrequency) {
		errs = append(errs, fmt.Errorf("audio cue frequencies must be positive"))
	}
	if a.CueMillis <= 0 || a.CueMillis > MaxCueMillis {
		errs = append(errs, fmt.Errorf("audio cue length must be between 1 and %d ms, got %d", MaxCueMillis, a.CueMillis))
	}
	if a.Volume < 0 || a.Volume > 1 {
		errs = append(errs, fmt.Errorf("audio volume must be between 0 and 1, got %v", a.Volume))
	}
	return errs
}

// ValidateIterations validates the number of relaxation passes
func ValidateIterations(n int) error {
	if n < 1 {
		return fmt.Errorf("solver iterations must be at least 1, got %d", n)
	}
	if n > MaxIterations {
		return fmt.Errorf("solver iterations too large: %d (max %d)", n, MaxIterations)
	}
	return nil
}

// ValidateTimeStep validates the fixed substep against the frame clamp
func ValidateTimeStep(step, maxFrame float64) error {
	if !positive(step) {
		return fmt.Errorf("time step must be positive, got %v", step)
	}
	if !positive(maxFrame) || maxFrame > MaxFrameTime {
		return fmt.Errorf("max frame time must be in (0, %v], got %v", MaxFrameTime, maxFrame)
	}
	if maxFrame < step {
		return fmt.Errorf("max frame time (%v) is shorter than the time step (%v)", maxFrame, step)
	}
	return nil
}

// ValidateRenderer checks the renderer name
func ValidateRenderer(name string) error {
	switch name {
	case config.RendererTerminal, config.RendererEngo:
		return nil
	}
	return fmt.Errorf("unknown renderer %q (must be %q or %q)", name, config.RendererTerminal, config.RendererEngo)
}

// ValidateTitle validates and trims a window title. An empty title is
// allowed.
func ValidateTitle(title string) (string, error) {
	if !utf8.ValidString(title) {
		return "", fmt.Errorf("title contains invalid UTF-8 characters")
	}

	trimmed := strings.TrimSpace(title)
	if utf8.RuneCountInString(trimmed) > MaxTitleLen {
		return "", fmt.Errorf("title too long: %d characters (max %d)", utf8.RuneCountInString(trimmed), MaxTitleLen)
	}

	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("title contains control characters")
		}
	}

	return trimmed, nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
