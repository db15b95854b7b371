// Package main runs the segment store headless with a scripted camera and
// reports pool and window statistics.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/tilestream/internal/config"
	"github.com/Faultbox/tilestream/internal/logger"
	"github.com/Faultbox/tilestream/internal/resources"
	"github.com/Faultbox/tilestream/internal/sim"
)

var (
	flagDuration = flag.Duration("duration", 10*time.Second, "How long to run")
	flagSpeedX   = flag.Float64("speed-x", 2048, "Camera speed along x in world pixels per second")
	flagSpeedY   = flag.Float64("speed-y", 1024, "Camera speed along y in world pixels per second")
	flagTextures = flag.Bool("textures", false, "Load the configured ground textures instead of swatches")
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if path := config.WriteConfigPath(); path != "" {
		if err := cfg.SaveTo(path); err != nil {
			fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config written to %s\n", path)
		return
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg); err != nil {
		logger.Error("simulation failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	var opts []resources.Option
	if !*flagTextures {
		opts = append(opts, resources.WithSwatches())
	}
	res, err := resources.New(cfg, opts...)
	if err != nil {
		return err
	}

	simOpts := sim.DefaultOptions()
	simOpts.ViewportW = cfg.Graphics.Width
	simOpts.ViewportH = cfg.Graphics.Height
	simOpts.VelocityX = float32(*flagSpeedX)
	simOpts.VelocityY = float32(*flagSpeedY)

	s, err := sim.New(cfg, res, simOpts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *flagDuration)
	defer cancel()

	logger.Info("simulation started",
		zap.Duration("duration", *flagDuration),
		zap.Duration("interval", cfg.Streaming.TickInterval),
		zap.Int("segment_size", cfg.Streaming.SegmentSize),
		zap.Int("overscan", cfg.Streaming.Overscan),
	)

	start := time.Now()
	if err := s.Run(ctx); err != nil {
		return err
	}

	r := s.Report()
	logger.Info("simulation finished",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("ticks", r.Ticks),
		zap.Stringer("window", r.Window),
		zap.Int("active", r.Active),
		zap.Int("visible", r.Visible),
		zap.Int("pooled", r.Pooled),
		zap.Int("created", r.Created),
		zap.Int("activations", r.Activations),
		zap.Int("retirements", r.Retirements),
		zap.Int("broadcasts", r.Broadcasts),
	)
	return nil
}
