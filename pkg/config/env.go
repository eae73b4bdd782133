// pkg/config/env.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variables read by ApplyEnvOverrides
const (
	EnvIterations   = "ROPE_ITERATIONS"
	EnvDamping      = "ROPE_DAMPING"
	EnvTimeStep     = "ROPE_TIME_STEP"
	EnvMaxFrameTime = "ROPE_MAX_FRAME_TIME"
	EnvParticles    = "ROPE_PARTICLES"
	EnvRenderer     = "ROPE_RENDERER"
	EnvAudio        = "ROPE_AUDIO"
)

// ApplyEnvOverrides replaces config values with any ROPE_* environment
// variables that are set. Unset or empty variables leave the config alone.
func ApplyEnvOverrides(config *Config) error {
	var err error

	if config.Physics.Iterations, err = getEnvInt(EnvIterations, config.Physics.Iterations); err != nil {
		return err
	}
	if config.Physics.Damping, err = getEnvFloat(EnvDamping, config.Physics.Damping); err != nil {
		return err
	}
	if config.Physics.TimeStep, err = getEnvFloat(EnvTimeStep, config.Physics.TimeStep); err != nil {
		return err
	}
	if config.Physics.MaxFrameTime, err = getEnvFloat(EnvMaxFrameTime, config.Physics.MaxFrameTime); err != nil {
		return err
	}
	if config.Rope.Particles, err = getEnvInt(EnvParticles, config.Rope.Particles); err != nil {
		return err
	}
	if config.Audio.Enabled, err = getEnvBool(EnvAudio, config.Audio.Enabled); err != nil {
		return err
	}
	if v := strings.TrimSpace(os.Getenv(EnvRenderer)); v != "" {
		config.Display.Renderer = strings.ToLower(v)
	}

	return nil
}

func getEnvInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	return n, nil
}

func getEnvFloat(key string, fallback float64) (float64, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	return f, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s value %q: %w", key, v, err)
	}
	return b, nil
}
