// pkg/config/config.go
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/opd-ai/go-rope/pkg/camera"
	"github.com/opd-ai/go-rope/pkg/physics"
)

// Renderer names accepted in DisplayConfig.Renderer
const (
	RendererTerminal = "terminal"
	RendererEngo     = "engo"
)

// Config contains configuration for a rope simulation
type Config struct {
	Rope    RopeConfig    `json:"rope"`
	Physics PhysicsConfig `json:"physics"`
	Camera  CameraConfig  `json:"camera"`
	Display DisplayConfig `json:"display"`
	Audio   AudioConfig   `json:"audio"`
}

// RopeConfig describes the rope built at start and on reset. Particles are
// laid out from Anchor along Direction, Separation apart. The first
// particle is fixed, the last one uses TailMass.
type RopeConfig struct {
	Anchor       physics.Vector3 `json:"anchor"`
	Direction    physics.Vector3 `json:"direction"`
	Particles    int             `json:"particles"`
	Separation   float64         `json:"separation"`
	ParticleMass float64         `json:"particleMass"`
	TailMass     float64         `json:"tailMass"`
}

// PhysicsConfig contains physics-related configuration
type PhysicsConfig struct {
	Gravity      physics.Vector3 `json:"gravity"`
	Damping      float64         `json:"damping"`
	TimeStep     float64         `json:"timeStep"`
	Iterations   int             `json:"iterations"`
	MaxFrameTime float64         `json:"maxFrameTime"`
}

// CameraConfig contains the orbit camera configuration
type CameraConfig struct {
	Radius          float64         `json:"radius"`
	Height          float64         `json:"height"`
	OrbitSpeed      float64         `json:"orbitSpeed"`
	Target          physics.Vector3 `json:"target"`
	FOV             float64         `json:"fov"`
	Near            float64         `json:"near"`
	Far             float64         `json:"far"`
	SpringFrequency float64         `json:"springFrequency"`
	SpringDamping   float64         `json:"springDamping"`
}

// DisplayConfig selects and sizes the frontend
type DisplayConfig struct {
	Renderer   string  `json:"renderer"`
	Title      string  `json:"title"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Fullscreen bool    `json:"fullscreen"`
	FPS        int     `json:"fps"`
	GroundY    float64 `json:"groundY"`
}

// AudioConfig contains the grab and release cue configuration
type AudioConfig struct {
	Enabled          bool    `json:"enabled"`
	SampleRate       int     `json:"sampleRate"`
	GrabFrequency    float64 `json:"grabFrequency"`
	ReleaseFrequency float64 `json:"releaseFrequency"`
	CueMillis        int     `json:"cueMillis"`
	Volume           float64 `json:"volume"`
}

// LoadConfig loads a configuration from a file. Fields missing from the
// file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *Config, path string) error {
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns the classic demo: a ten particle rope hanging from
// (0, 3, 0), stretched out along +X with a heavy tail.
func DefaultConfig() *Config {
	return &Config{
		Rope: RopeConfig{
			Anchor:       physics.Vector3{Y: 3},
			Direction:    physics.Vector3{X: 1},
			Particles:    10,
			Separation:   0.5,
			ParticleMass: 1,
			TailMass:     20,
		},
		Physics: PhysicsConfig{
			Gravity:      physics.DefaultGravity,
			Damping:      physics.DefaultDamping,
			TimeStep:     physics.DefaultTimeStep,
			Iterations:   physics.DefaultIterations,
			MaxFrameTime: 0.2,
		},
		Camera: CameraConfig{
			Radius:          5,
			OrbitSpeed:      0.25,
			FOV:             75,
			Near:            1,
			Far:             50,
			SpringFrequency: 8,
			SpringDamping:   1,
		},
		Display: DisplayConfig{
			Renderer: RendererTerminal,
			Title:    "Rope",
			Width:    800,
			Height:   600,
			FPS:      60,
			GroundY:  -5,
		},
		Audio: AudioConfig{
			Enabled:          false,
			SampleRate:       44100,
			GrabFrequency:    660,
			ReleaseFrequency: 440,
			CueMillis:        80,
			Volume:           0.3,
		},
	}
}

// PhysicsParams returns the rope parameters described by the config
func (c *Config) PhysicsParams() physics.Params {
	return physics.Params{
		Gravity:    c.Physics.Gravity,
		Damping:    c.Physics.Damping,
		Iterations: c.Physics.Iterations,
	}
}

// CameraOptions returns the camera options described by the config.
// pixelAspect is the width-to-height ratio of one viewport unit.
func (c *Config) CameraOptions(pixelAspect float64) camera.Options {
	return camera.Options{
		Radius:          c.Camera.Radius,
		Height:          c.Camera.Height,
		OrbitSpeed:      c.Camera.OrbitSpeed,
		Target:          c.Camera.Target,
		FOV:             c.Camera.FOV,
		Near:            c.Camera.Near,
		Far:             c.Camera.Far,
		PixelAspect:     pixelAspect,
		SpringFrequency: c.Camera.SpringFrequency,
		SpringDamping:   c.Camera.SpringDamping,
	}
}
