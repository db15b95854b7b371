package sim

import (
	"context"
	"testing"
	"time"

	"github.com/Faultbox/tilestream/internal/config"
	"github.com/Faultbox/tilestream/internal/engine/camera"
	"github.com/Faultbox/tilestream/internal/resources"
	"github.com/Faultbox/tilestream/internal/stream"
)

func newSim(t *testing.T, opts Options) *Simulation {
	t.Helper()
	cfg := config.Default()
	cfg.Atlas.CellSize = 4
	cfg.Blend.Repetitions = 1
	cfg.Streaming.SegmentSize = 8
	cfg.Streaming.TileSize = 4
	cfg.Streaming.Overscan = 1
	cfg.Streaming.TickInterval = 10 * time.Millisecond

	res, err := resources.New(cfg, resources.WithSwatches())
	if err != nil {
		t.Fatalf("resources.New failed: %v", err)
	}
	s, err := New(cfg, res, opts)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func TestCameraViewFeedsWindow(t *testing.T) {
	c := camera.NewPanCamera(1, 256, 256)
	c.SetCenter(128, 128)

	w := stream.ComputeVisibleWindow(c.ViewRect(), 128, 2)
	want := stream.Window{Min: stream.SegmentCoord{X: -2, Y: -2}, Max: stream.SegmentCoord{X: 4, Y: 4}}
	if w != want {
		t.Errorf("window = %v, want %v", w, want)
	}
}

func TestStepsKeepWindowRendered(t *testing.T) {
	opts := Options{ViewportW: 64, ViewportH: 48, VelocityX: 3200, VelocityY: -1600, Zoom: 1}
	s := newSim(t, opts)
	ctx := context.Background()

	for i := 0; i < 20; i++ {
		if err := s.Tick(ctx); err != nil {
			t.Fatalf("tick %d: %v", i, err)
		}

		r := s.Report()
		if r.Active != r.Window.Len() {
			t.Fatalf("tick %d: %d active, window %v holds %d", i, r.Active, r.Window, r.Window.Len())
		}
		if r.Visible != r.Active {
			t.Fatalf("tick %d: %d visible surfaces, %d active", i, r.Visible, r.Active)
		}
		if r.Active+r.Pooled != r.Created {
			t.Fatalf("tick %d: pool bookkeeping off: %+v", i, r.Stats)
		}
	}

	r := s.Report()
	if r.Ticks != 20 {
		t.Errorf("Ticks = %d, want 20", r.Ticks)
	}
	if r.Retirements == 0 {
		t.Error("camera moved but nothing retired")
	}
	// 19 camera steps of 10ms at 3200 px/s
	if abs(r.Center.X-608) > 1 || abs(r.Center.Y+304) > 1 {
		t.Errorf("camera centre = %v, want (608,-304)", r.Center)
	}
}

func TestSurfacesReceiveSharedTextures(t *testing.T) {
	s := newSim(t, DefaultOptions())
	if err := s.Tick(context.Background()); err != nil {
		t.Fatal(err)
	}

	for _, m := range s.surfaces {
		if m.Image(stream.ParamTextureAtlas) == nil || m.Image(stream.ParamBlendTexture) == nil {
			t.Fatalf("%s missing shared textures", m.Name())
		}
		if m.Scalar(stream.ParamTilesCountX) != 8 {
			t.Errorf("%s: mapTilesCountX = %v", m.Name(), m.Scalar(stream.ParamTilesCountX))
		}
		if m.Renders() != 1 {
			t.Errorf("%s rendered %d times, want 1", m.Name(), m.Renders())
		}
	}
}

func TestRunStopsWithContext(t *testing.T) {
	s := newSim(t, DefaultOptions())
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()

	if err := s.Run(ctx); err != nil {
		t.Fatalf("Run returned %v", err)
	}
	if s.Ticks() < 1 {
		t.Error("Run did not tick")
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
