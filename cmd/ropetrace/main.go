// cmd/ropetrace/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/opd-ai/go-rope/pkg/config"
	"github.com/opd-ai/go-rope/pkg/engine"
	"github.com/opd-ai/go-rope/pkg/health"
	"github.com/opd-ai/go-rope/pkg/logging"
	"github.com/opd-ai/go-rope/pkg/trace"
)

func main() {
	defaults := trace.DefaultOptions()
	configPath := flag.String("config", "rope.json", "Path to configuration file")
	seconds := flag.Float64("seconds", defaults.Seconds, "Simulated seconds to trace")
	fps := flag.Int("fps", defaults.FPS, "Frames per second fed to the simulation")
	drag := flag.Bool("drag", false, "Drag the tail around during the middle third of the run")
	flag.Parse()

	logger := logging.NewLogger()
	ctx := logging.WithRunID(context.Background(), "")
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.DefaultConfig()
	if _, err := os.Stat(*configPath); err == nil {
		if cfg, err = config.LoadConfig(*configPath); err != nil {
			logger.Error(ctx, "Failed to load configuration", err, "config_path", *configPath)
			os.Exit(1)
		}
	}
	if err := config.ApplyEnvOverrides(cfg); err != nil {
		logger.Error(ctx, "Failed to apply environment configuration", err)
		os.Exit(1)
	}

	sim, err := engine.NewSimulation(cfg, logger)
	if err != nil {
		logger.Error(ctx, "Failed to create simulation", err)
		os.Exit(1)
	}

	opts := trace.Options{Seconds: *seconds, FPS: *fps, Drag: *drag}
	logger.Info(ctx, "Tracing simulation",
		"seconds", opts.Seconds,
		"fps", opts.FPS,
		"drag", opts.Drag,
	)

	tr, err := trace.Run(ctx, sim, opts)
	if err != nil {
		logger.Error(ctx, "Trace failed", err)
		os.Exit(1)
	}

	fmt.Println(trace.Report(tr, engine.StretchWarning))

	status := health.ForSimulation(sim).CheckHealth(ctx)
	for _, name := range status.Names() {
		check := status.Checks[name]
		logger.Info(ctx, "Health check",
			"check", name,
			"status", check.Status,
			"message", check.Message,
		)
	}
	if !status.Healthy() {
		os.Exit(2)
	}
}
