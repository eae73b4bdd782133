// pkg/config/env_config_test.go
package config

import (
	"os"
	"testing"
)

var envVars = []string{
	EnvIterations,
	EnvDamping,
	EnvTimeStep,
	EnvMaxFrameTime,
	EnvParticles,
	EnvRenderer,
	EnvAudio,
}

// clearEnv unsets every ROPE_* variable and restores them when the test ends
func clearEnv(t *testing.T) {
	t.Helper()
	originalEnv := make(map[string]string)
	for _, key := range envVars {
		if value, ok := os.LookupEnv(key); ok {
			originalEnv[key] = value
		}
		os.Unsetenv(key)
	}
	t.Cleanup(func() {
		for _, key := range envVars {
			if value, ok := originalEnv[key]; ok {
				os.Setenv(key, value)
			} else {
				os.Unsetenv(key)
			}
		}
	})
}

func TestApplyEnvOverrides_NoVariables(t *testing.T) {
	clearEnv(t)

	config := DefaultConfig()
	if err := ApplyEnvOverrides(config); err != nil {
		t.Fatalf("ApplyEnvOverrides failed: %v", err)
	}
	if *config != *DefaultConfig() {
		t.Errorf("Config changed without environment variables: %+v", config)
	}
}

func TestApplyEnvOverrides_Values(t *testing.T) {
	clearEnv(t)

	os.Setenv(EnvIterations, "30")
	os.Setenv(EnvDamping, "0.5")
	os.Setenv(EnvTimeStep, "0.01")
	os.Setenv(EnvMaxFrameTime, " 0.1 ")
	os.Setenv(EnvParticles, "16")
	os.Setenv(EnvRenderer, "ENGO")
	os.Setenv(EnvAudio, "true")

	config := DefaultConfig()
	if err := ApplyEnvOverrides(config); err != nil {
		t.Fatalf("ApplyEnvOverrides failed: %v", err)
	}

	if config.Physics.Iterations != 30 {
		t.Errorf("Expected 30 iterations, got %d", config.Physics.Iterations)
	}
	if config.Physics.Damping != 0.5 {
		t.Errorf("Expected damping 0.5, got %f", config.Physics.Damping)
	}
	if config.Physics.TimeStep != 0.01 {
		t.Errorf("Expected time step 0.01, got %f", config.Physics.TimeStep)
	}
	if config.Physics.MaxFrameTime != 0.1 {
		t.Errorf("Expected max frame time 0.1, got %f", config.Physics.MaxFrameTime)
	}
	if config.Rope.Particles != 16 {
		t.Errorf("Expected 16 particles, got %d", config.Rope.Particles)
	}
	if config.Display.Renderer != RendererEngo {
		t.Errorf("Expected renderer %q, got %q", RendererEngo, config.Display.Renderer)
	}
	if !config.Audio.Enabled {
		t.Error("Expected audio to be enabled")
	}
}

func TestApplyEnvOverrides_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"iterations_not_int", EnvIterations, "ten"},
		{"damping_not_float", EnvDamping, "low"},
		{"time_step_not_float", EnvTimeStep, "1/60"},
		{"max_frame_time_not_float", EnvMaxFrameTime, "fast"},
		{"particles_not_int", EnvParticles, "2.5"},
		{"audio_not_bool", EnvAudio, "loud"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			os.Setenv(tt.key, tt.value)

			if err := ApplyEnvOverrides(DefaultConfig()); err == nil {
				t.Errorf("Expected error for %s=%q", tt.key, tt.value)
			}
		})
	}
}
