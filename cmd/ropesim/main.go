// cmd/ropesim/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/opd-ai/go-rope/pkg/audio"
	"github.com/opd-ai/go-rope/pkg/config"
	"github.com/opd-ai/go-rope/pkg/engine"
	"github.com/opd-ai/go-rope/pkg/health"
	"github.com/opd-ai/go-rope/pkg/logging"
	engorender "github.com/opd-ai/go-rope/pkg/render/engo"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run parses args, runs the chosen frontend and returns the process exit
// code. Deferred cleanup finishes before it returns.
func run(args []string) int {
	flags := flag.NewFlagSet("ropesim", flag.ContinueOnError)
	configPath := flags.String("config", "rope.json", "Path to configuration file")
	createDefault := flags.Bool("default", false, "Write the default configuration file and exit")
	renderer := flags.String("renderer", config.RendererTerminal, "Renderer type: 'terminal' or 'engo'")
	width := flags.Int("width", 800, "Window width (engo only)")
	height := flags.Int("height", 600, "Window height (engo only)")
	fullscreen := flags.Bool("fullscreen", false, "Run in fullscreen mode (engo only)")
	enableAudio := flags.Bool("audio", false, "Play grab and release tones")
	logFile := flags.String("log-file", "", "Write logs to this file instead of stderr")
	if err := flags.Parse(args); err != nil {
		return 2
	}

	setFlags := map[string]bool{}
	flags.Visit(func(f *flag.Flag) { setFlags[f.Name] = true })

	bootLogger := logging.NewLogger()
	ctx := logging.WithRunID(context.Background(), "")

	if *createDefault {
		if err := config.SaveConfig(config.DefaultConfig(), *configPath); err != nil {
			bootLogger.Error(ctx, "Failed to create default configuration", err, "config_path", *configPath)
			return 1
		}
		bootLogger.Info(ctx, "Created default configuration file", "config_path", *configPath)
		return 0
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		bootLogger.Error(ctx, "Failed to load configuration", err, "config_path", *configPath)
		return 1
	}

	// Flags given on the command line win over the file and environment
	if setFlags["renderer"] {
		cfg.Display.Renderer = *renderer
	}
	if setFlags["width"] {
		cfg.Display.Width = *width
	}
	if setFlags["height"] {
		cfg.Display.Height = *height
	}
	if setFlags["fullscreen"] {
		cfg.Display.Fullscreen = *fullscreen
	}
	if setFlags["audio"] {
		cfg.Audio.Enabled = *enableAudio
	}

	logOut, closeLog, err := logWriter(*logFile, cfg.Display.Renderer)
	if err != nil {
		bootLogger.Error(ctx, "Failed to open log file", err, "log_file", *logFile)
		return 1
	}
	defer closeLog()
	logger := logging.NewLoggerWithWriter(logOut)

	sim, err := engine.NewSimulation(cfg, logger)
	if err != nil {
		logger.Error(ctx, "Failed to create simulation", err)
		return 1
	}

	cues := audio.NewCues(cfg.Audio, logger)
	cues.Initialize(ctx)
	cues.Attach(sim.EventBus)
	defer cues.Close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info(ctx, "Starting simulation",
		"renderer", cfg.Display.Renderer,
		"particles", cfg.Rope.Particles,
		"iterations", cfg.Physics.Iterations,
		"audio", cues.Enabled(),
	)

	code := 0
	switch cfg.Display.Renderer {
	case config.RendererEngo:
		engorender.Run(ctx, sim, logger)
	default:
		if err := runTerminal(ctx, sim, logger); err != nil {
			logger.Error(ctx, "Terminal frontend failed", err)
			code = 1
		}
	}

	stats := sim.Stats()
	status := health.ForSimulation(sim).CheckHealth(context.Background())
	logger.Info(ctx, "Simulation stopped",
		"frames", stats.Frames,
		"substeps", stats.Substeps,
		"simulated_time", stats.SimulatedTime,
		"clamped_frames", sim.ClampedFrames(),
		"health", status.Status,
	)
	for _, name := range status.Names() {
		if check := status.Checks[name]; check.Status != health.StatusHealthy {
			logger.Warn(ctx, "Health check failed", "check", name, "message", check.Message)
		}
	}
	return code
}

// loadConfig reads path when it exists and applies ROPE_* overrides
func loadConfig(path string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if _, err := os.Stat(path); err == nil {
		if cfg, err = config.LoadConfig(path); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, logging.WrapError(err, "stat %s", path)
	}

	if err := config.ApplyEnvOverrides(cfg); err != nil {
		return nil, logging.WrapError(err, "apply environment overrides")
	}
	return cfg, nil
}

// logWriter picks where structured logs go. The terminal frontend owns the
// screen, so without a log file its logs are dropped.
func logWriter(path, renderer string) (io.Writer, func(), error) {
	if path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, func() {}, fmt.Errorf("open log file: %w", err)
		}
		return f, func() { f.Close() }, nil
	}
	if renderer == config.RendererTerminal {
		return io.Discard, func() {}, nil
	}
	return os.Stderr, func() {}, nil
}
