package resources

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"

	"github.com/Faultbox/tilestream/internal/assets"
	"github.com/Faultbox/tilestream/internal/blend"
	"github.com/Faultbox/tilestream/internal/config"
	"github.com/Faultbox/tilestream/internal/world"
)

func smallConfig() *config.Config {
	cfg := config.Default()
	cfg.Atlas.CellSize = 8
	cfg.Blend.Repetitions = 2
	return cfg
}

func encodePNG(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestNewRejectsInvalidBlend(t *testing.T) {
	cfg := smallConfig()
	cfg.Blend.MaxEdge = 60

	if _, err := New(cfg); !errors.Is(err, blend.ErrInvalidParams) {
		t.Errorf("expected ErrInvalidParams, got %v", err)
	}
}

func TestSwatchAtlasCached(t *testing.T) {
	r, err := New(smallConfig(), WithSwatches())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	a, err := r.Atlas()
	if err != nil {
		t.Fatalf("Atlas failed: %v", err)
	}
	if a.Count() != 4 {
		t.Fatalf("expected 4 cells, got %d", a.Count())
	}
	if b := a.Image.Bounds(); b.Dx() != 32 || b.Dy() != 8 {
		t.Errorf("atlas is %dx%d, want 32x8", b.Dx(), b.Dy())
	}
	o := a.CellOrigin(int(world.Grass))
	if got := a.Image.RGBAAt(o.X+1, o.Y+1); got != swatchColors[world.Grass] {
		t.Errorf("grass cell colour = %v", got)
	}

	again, _ := r.Atlas()
	if again != a {
		t.Error("second Atlas call rebuilt the atlas")
	}
}

func TestNoTexturesFallsBackToSwatches(t *testing.T) {
	cfg := smallConfig()
	cfg.Atlas.Textures = nil

	r, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	a, err := r.Atlas()
	if err != nil {
		t.Fatalf("Atlas failed: %v", err)
	}
	if a.Count() != len(swatchColors) {
		t.Errorf("expected %d swatches, got %d", len(swatchColors), a.Count())
	}
}

func TestAtlasFromAssets(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}

	m := assets.NewManager()
	m.AddRoot(fstest.MapFS{
		"tex/red.png":  {Data: encodePNG(t, red)},
		"tex/blue.png": {Data: encodePNG(t, blue)},
	})

	cfg := smallConfig()
	cfg.Atlas.Textures = []string{"tex/red.png", "tex/blue.png"}
	r, err := New(cfg, WithAssets(m))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	a, err := r.Atlas()
	if err != nil {
		t.Fatalf("Atlas failed: %v", err)
	}
	if a.Count() != 2 {
		t.Fatalf("expected 2 cells, got %d", a.Count())
	}
	// Solid sources stay solid after resampling
	if got := a.Image.RGBAAt(4, 4); got != red {
		t.Errorf("cell 0 = %v, want %v", got, red)
	}
	if got := a.Image.RGBAAt(12, 4); got != blue {
		t.Errorf("cell 1 = %v, want %v", got, blue)
	}
}

func TestAtlasFailsOnOneBadTexture(t *testing.T) {
	m := assets.NewManager()
	m.AddRoot(fstest.MapFS{
		"tex/red.png":     {Data: encodePNG(t, color.RGBA{R: 255, A: 255})},
		"tex/corrupt.png": {Data: []byte("not a png")},
	})

	cfg := smallConfig()
	cfg.Atlas.Textures = []string{"tex/red.png", "tex/corrupt.png"}
	r, err := New(cfg, WithAssets(m))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	a, err := r.Atlas()
	if err == nil {
		t.Fatal("expected atlas build to fail")
	}
	if a != nil {
		t.Error("expected no partial atlas")
	}
}

func TestAtlasErrorCached(t *testing.T) {
	m := assets.NewManager()
	m.AddRoot(fstest.MapFS{})

	cfg := smallConfig()
	cfg.Atlas.Textures = []string{"missing.png"}
	r, err := New(cfg, WithAssets(m))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	_, err1 := r.Atlas()
	if !errors.Is(err1, assets.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err1)
	}
	_, err2 := r.Atlas()
	if err2 != err1 {
		t.Errorf("error not cached: %v then %v", err1, err2)
	}
	if _, misses := m.CacheStats(); misses != 1 {
		t.Errorf("texture looked up %d times, want 1", misses)
	}
}

func TestBlendMaskCached(t *testing.T) {
	r, err := New(smallConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	f, err := r.BlendMask()
	if err != nil {
		t.Fatalf("BlendMask failed: %v", err)
	}
	if f.Size != 128 {
		t.Errorf("mask size = %d, want 128", f.Size)
	}
	if again, _ := r.BlendMask(); again != f {
		t.Error("second BlendMask call regenerated the mask")
	}
}

func TestClassifierMatchesConfig(t *testing.T) {
	cfg := smallConfig()
	r, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	want := world.NewClassifier(cfg.World.Seed, NoiseSettings(cfg.World.Noise), cfg.World.Thresholds)
	for _, p := range []image.Point{{0, 0}, {17, -40}, {-300, 999}, {128, 128}} {
		if got, w := r.Classifier().Classify(p.X, p.Y), want.Classify(p.X, p.Y); got != w {
			t.Errorf("Classify%v = %v, want %v", p, got, w)
		}
	}
}
