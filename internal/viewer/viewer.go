// Package viewer implements the interactive map viewer main loop.
package viewer

import (
	"context"
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/tilestream/internal/config"
	"github.com/Faultbox/tilestream/internal/engine/camera"
	"github.com/Faultbox/tilestream/internal/engine/debug"
	"github.com/Faultbox/tilestream/internal/engine/input"
	"github.com/Faultbox/tilestream/internal/engine/renderer"
	"github.com/Faultbox/tilestream/internal/engine/window"
	"github.com/Faultbox/tilestream/internal/logger"
	"github.com/Faultbox/tilestream/internal/resources"
	"github.com/Faultbox/tilestream/internal/stream"
	"github.com/Faultbox/tilestream/pkg/math"
)

const (
	title = "tilestream"

	// World pixels per second when auto-pan is toggled on
	autoPanSpeed = 1024

	screenshotDir = "screenshots"
)

// Viewer is the main viewer instance.
type Viewer struct {
	cfg     *config.Config
	running bool

	window    *window.Window
	renderer  *renderer.MapRenderer
	input     *input.Input
	camera    *camera.PanCamera
	store     *stream.Store
	scheduler *stream.Scheduler
	shots     *debug.ScreenshotCapture
	log       *zap.Logger

	// Set by F12, handled after the next frame is drawn
	wantScreenshot bool
}

// New creates the window and wires the segment store to the renderer.
// Shared textures are built first so a bad texture path fails before any
// window appears.
func New(cfg *config.Config, res *resources.Resources) (*Viewer, error) {
	v := &Viewer{
		cfg: cfg,
		log: logger.Named("viewer"),
	}

	v.log.Info("initializing viewer",
		zap.Int("width", cfg.Graphics.Width),
		zap.Int("height", cfg.Graphics.Height),
		zap.Int("segment_size", cfg.Streaming.SegmentSize),
		zap.Int("overscan", cfg.Streaming.Overscan),
	)

	a, err := res.Atlas()
	if err != nil {
		return nil, err
	}
	mask, err := res.BlendMask()
	if err != nil {
		return nil, err
	}

	// Create window (this also creates OpenGL context)
	v.window, err = window.New(window.Config{
		Title:      title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// Renderer after window, since the OpenGL context must exist
	dw, dh := v.window.DrawableSize()
	v.renderer, err = renderer.New(renderer.Config{
		Width:         dw,
		Height:        dh,
		AtlasColumns:  a.Columns,
		AtlasCellSize: a.CellSize,
	})
	if err != nil {
		v.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}

	w, h := v.window.GetSize()
	v.camera = camera.NewPanCamera(cfg.Streaming.TileSize, w, h)
	v.input = input.New()

	v.store, err = stream.NewStore(stream.Options{
		SegmentSize: cfg.Streaming.SegmentSize,
		Overscan:    cfg.Streaming.Overscan,
		TileSize:    cfg.Streaming.TileSize,
		Atlas:       a.Image,
		Blend:       mask.Image(),
	}, v.camera, res.Classifier(), v.renderer.NewSurface)
	if err != nil {
		v.Close()
		return nil, fmt.Errorf("failed to create segment store: %w", err)
	}
	v.scheduler = stream.NewScheduler(v.store, cfg.Streaming.TickInterval)
	v.shots = debug.NewScreenshotCapture(screenshotDir, title)

	v.log.Info("viewer initialized successfully")
	return v, nil
}

// Run starts the main loop. It returns when the window closes or ctx ends.
func (v *Viewer) Run(ctx context.Context) error {
	v.running = true

	lastTime := time.Now()
	frameCount := 0
	fpsTimer := time.Now()

	v.log.Info("starting main loop")

	for v.running {
		if ctx.Err() != nil {
			break
		}

		now := time.Now()
		dt := now.Sub(lastTime)
		lastTime = now

		// 1. Process input
		if v.input.Update() {
			v.running = false
			break
		}
		v.handleEvents()

		// 2. Update camera and streaming
		if err := v.update(ctx, dt); err != nil {
			return fmt.Errorf("update error: %w", err)
		}

		// 3. Render
		v.render()
		if v.wantScreenshot {
			v.wantScreenshot = false
			v.screenshot()
		}

		// 4. Present
		v.window.SwapBuffers()

		frameCount++
		if time.Since(fpsTimer) >= time.Second {
			st := v.store.Stats()
			v.window.SetTitle(fmt.Sprintf("%s | %d fps | %d segments | %d pooled",
				title, frameCount, st.Active, st.Pooled))
			v.log.Debug("fps",
				zap.Int("count", frameCount),
				zap.Int("drawn", v.renderer.DrawnLastFrame()),
				zap.Int("textures", v.renderer.Textures()),
			)
			frameCount = 0
			fpsTimer = time.Now()
		}
	}

	return nil
}

// Close cleans up viewer resources.
func (v *Viewer) Close() {
	v.log.Info("closing viewer")

	if v.renderer != nil {
		v.renderer.Close()
	}
	if v.window != nil {
		v.window.Close()
	}
}

func (v *Viewer) handleEvents() {
	for _, e := range v.input.Events() {
		switch e.Type {
		case input.EventWindowResize:
			dw, dh := v.window.DrawableSize()
			v.renderer.Resize(dw, dh)
			v.camera.SetViewport(e.Width, e.Height)

		case input.EventMouseWheel:
			v.camera.HandleZoom(e.Wheel)

		case input.EventMouseMove:
			if v.input.IsButtonDown(sdl.BUTTON_RIGHT) {
				v.camera.HandleDrag(float32(e.DeltaX), float32(e.DeltaY))
			}

		case input.EventMouseDown:
			if e.Button == sdl.BUTTON_LEFT {
				v.logTileAt(e.MouseX, e.MouseY)
			}

		case input.EventKeyDown:
			switch e.Key {
			case sdl.SCANCODE_SPACE:
				v.toggleAutoPan()
			case sdl.SCANCODE_F1:
				v.logStats()
			case sdl.SCANCODE_F12:
				v.wantScreenshot = true
			}
		}
	}
}

func (v *Viewer) update(ctx context.Context, dt time.Duration) error {
	secs := float32(dt.Seconds())

	right := v.input.Axis(sdl.SCANCODE_A, sdl.SCANCODE_D) + v.input.Axis(sdl.SCANCODE_LEFT, sdl.SCANCODE_RIGHT)
	down := v.input.Axis(sdl.SCANCODE_W, sdl.SCANCODE_S) + v.input.Axis(sdl.SCANCODE_UP, sdl.SCANCODE_DOWN)
	v.camera.HandleMovement(right, down, secs)
	v.camera.Update(secs)

	_, err := v.scheduler.Update(ctx, dt)
	return err
}

func (v *Viewer) render() {
	v.renderer.Begin()
	v.renderer.Draw(v.camera.ViewProjection())
	v.renderer.End()
}

func (v *Viewer) toggleAutoPan() {
	if v.camera.VelocityX != 0 || v.camera.VelocityY != 0 {
		v.camera.VelocityX, v.camera.VelocityY = 0, 0
	} else {
		v.camera.VelocityX, v.camera.VelocityY = autoPanSpeed, autoPanSpeed/2
	}
	v.log.Info("auto-pan",
		zap.Float32("vx", v.camera.VelocityX),
		zap.Float32("vy", v.camera.VelocityY),
	)
}

func (v *Viewer) logTileAt(sx, sy int) {
	x, y := v.camera.TileAt(float32(sx), float32(sy))
	size := v.cfg.Streaming.SegmentSize
	seg := stream.SegmentCoord{X: math.FloorDiv(x, size), Y: math.FloorDiv(y, size)}

	fields := []zap.Field{
		zap.Int("x", x),
		zap.Int("y", y),
		zap.Stringer("segment", seg),
	}
	if u, ok := v.store.Unit(seg); ok {
		fields = append(fields, zap.String("unit", u.Name()))
	}
	v.log.Info("tile", fields...)
}

func (v *Viewer) screenshot() {
	pixels, w, h := v.renderer.ReadPixels()
	name, err := v.shots.CaptureFromPixels(pixels, w, h)
	if err != nil {
		v.log.Warn("screenshot failed", zap.Error(err))
		return
	}
	v.log.Info("screenshot saved", zap.String("file", name))
}

func (v *Viewer) logStats() {
	st := v.store.Stats()
	w, _ := v.store.Window()
	v.log.Info("stream stats",
		zap.Stringer("window", w),
		zap.Int("active", st.Active),
		zap.Int("pooled", st.Pooled),
		zap.Int("created", st.Created),
		zap.Int("activations", st.Activations),
		zap.Int("retirements", st.Retirements),
		zap.Int("broadcasts", st.Broadcasts),
	)
}
