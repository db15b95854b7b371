// Package sim drives the segment store without a GPU. Surfaces only record
// their state, and the camera follows a fixed velocity.
package sim

import (
	"context"
	"fmt"
	"image"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/tilestream/internal/config"
	"github.com/Faultbox/tilestream/internal/engine/camera"
	"github.com/Faultbox/tilestream/internal/logger"
	"github.com/Faultbox/tilestream/internal/resources"
	"github.com/Faultbox/tilestream/internal/stream"
)

// Options configures the scripted camera.
type Options struct {
	ViewportW, ViewportH int
	VelocityX, VelocityY float32 // World pixels per second
	Zoom                 float32
}

// DefaultOptions pans diagonally over a 720p view.
func DefaultOptions() Options {
	return Options{
		ViewportW: 1280,
		ViewportH: 720,
		VelocityX: 2048,
		VelocityY: 1024,
		Zoom:      1,
	}
}

// Simulation owns a store, its camera and the recorded surfaces.
type Simulation struct {
	store    *stream.Store
	camera   *camera.PanCamera
	surfaces []*MemorySurface
	interval time.Duration
	ticks    int
	log      *zap.Logger
}

// New builds a simulation from cfg. The atlas and blend mask are built
// eagerly so that failures surface before the first tick.
func New(cfg *config.Config, res *resources.Resources, opts Options) (*Simulation, error) {
	a, err := res.Atlas()
	if err != nil {
		return nil, err
	}
	mask, err := res.BlendMask()
	if err != nil {
		return nil, err
	}

	cam := camera.NewPanCamera(cfg.Streaming.TileSize, opts.ViewportW, opts.ViewportH)
	cam.VelocityX = opts.VelocityX
	cam.VelocityY = opts.VelocityY
	if opts.Zoom > 0 {
		cam.Zoom = opts.Zoom
	}

	s := &Simulation{
		camera:   cam,
		interval: cfg.Streaming.TickInterval,
		log:      logger.Named("sim"),
	}

	s.store, err = stream.NewStore(stream.Options{
		SegmentSize: cfg.Streaming.SegmentSize,
		Overscan:    cfg.Streaming.Overscan,
		TileSize:    cfg.Streaming.TileSize,
		Atlas:       a.Image,
		Blend:       mask.Image(),
	}, cam, res.Classifier(), s.newSurface)
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}
	return s, nil
}

func (s *Simulation) newSurface(name string) stream.Surface {
	m := NewMemorySurface(name)
	s.surfaces = append(s.surfaces, m)
	return m
}

// Tick advances the camera by one interval and updates the store.
func (s *Simulation) Tick(ctx context.Context) error {
	if s.ticks > 0 {
		s.camera.Update(float32(s.interval.Seconds()))
	}
	if err := s.store.Tick(ctx); err != nil {
		return err
	}
	s.ticks++

	st := s.store.Stats()
	w, _ := s.store.Window()
	s.log.Debug("tick",
		zap.Int("tick", s.ticks),
		zap.Stringer("window", w),
		zap.Int("active", st.Active),
		zap.Int("pooled", st.Pooled),
	)
	return nil
}

// Run ticks at the configured interval until ctx ends.
func (s *Simulation) Run(ctx context.Context) error {
	return stream.NewScheduler(s, s.interval).Run(ctx)
}

// Ticks returns the number of completed ticks.
func (s *Simulation) Ticks() int { return s.ticks }

// Store returns the simulated store.
func (s *Simulation) Store() *stream.Store { return s.store }

// Camera returns the scripted camera.
func (s *Simulation) Camera() *camera.PanCamera { return s.camera }

// Report summarises the run.
type Report struct {
	stream.Stats
	Ticks   int
	Visible int
	Window  stream.Window
	Center  image.Point
}

// Report returns the current state of the simulation.
func (s *Simulation) Report() Report {
	r := Report{
		Stats:  s.store.Stats(),
		Ticks:  s.ticks,
		Center: image.Pt(int(s.camera.CenterX), int(s.camera.CenterY)),
	}
	r.Window, _ = s.store.Window()
	for _, m := range s.surfaces {
		if m.Visible() {
			r.Visible++
		}
	}
	return r
}
