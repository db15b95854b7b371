// Package resources builds the textures shared by every segment unit.
//
// The atlas and the blend mask are expensive and read-only, so each is built
// at most once, on first use, and the result (or the error) is cached.
package resources

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/tilestream/internal/assets"
	"github.com/Faultbox/tilestream/internal/atlas"
	"github.com/Faultbox/tilestream/internal/blend"
	"github.com/Faultbox/tilestream/internal/config"
	"github.com/Faultbox/tilestream/internal/engine/texture"
	"github.com/Faultbox/tilestream/internal/logger"
	"github.com/Faultbox/tilestream/internal/noise"
	"github.com/Faultbox/tilestream/internal/world"
)

// swatchColors are the placeholder ground colours, in tile type order.
var swatchColors = []color.RGBA{
	world.Water: {R: 0x2b, G: 0x5d, B: 0x9e, A: 0xff},
	world.Grass: {R: 0x4f, G: 0x8a, B: 0x3c, A: 0xff},
	world.Sand:  {R: 0xd8, G: 0xc3, B: 0x84, A: 0xff},
	world.Rock:  {R: 0x7a, G: 0x77, B: 0x72, A: 0xff},
}

// osRoot resolves relative texture paths against the working directory.
var osRoot = os.DirFS(".")

// Resources owns the shared atlas, blend mask and tile classifier.
type Resources struct {
	atlasCfg    config.AtlasConfig
	blendParams blend.Params
	assets      *assets.Manager
	swatches    bool
	log         *zap.Logger

	classifier *world.Classifier
	atlas      func() (*atlas.Atlas, error)
	blendMask  func() (*blend.Field, error)
}

// Option customises New.
type Option func(*Resources)

// WithAssets resolves texture paths through m instead of the working directory.
func WithAssets(m *assets.Manager) Option {
	return func(r *Resources) { r.assets = m }
}

// WithSwatches replaces the configured ground textures with solid colours.
func WithSwatches() Option {
	return func(r *Resources) { r.swatches = true }
}

// New prepares resources from cfg. Blend parameters are validated now; the
// textures themselves are built lazily.
func New(cfg *config.Config, opts ...Option) (*Resources, error) {
	params := BlendParams(cfg.Blend)
	if err := params.Validate(); err != nil {
		return nil, err
	}

	r := &Resources{
		atlasCfg:    cfg.Atlas,
		blendParams: params,
		log:         logger.Named("resources"),
		classifier: world.NewClassifier(
			cfg.World.Seed,
			NoiseSettings(cfg.World.Noise),
			cfg.World.Thresholds,
		),
	}
	for _, opt := range opts {
		opt(r)
	}
	if len(r.atlasCfg.Textures) == 0 {
		r.swatches = true
	}
	if r.assets == nil {
		r.assets = assets.NewManager()
		r.assets.AddRoot(osRoot)
	}

	r.atlas = sync.OnceValues(r.buildAtlas)
	r.blendMask = sync.OnceValues(r.buildBlendMask)
	return r, nil
}

// Atlas returns the ground texture atlas, building it on first call.
func (r *Resources) Atlas() (*atlas.Atlas, error) {
	return r.atlas()
}

// BlendMask returns the blend weight field, generating it on first call.
func (r *Resources) BlendMask() (*blend.Field, error) {
	return r.blendMask()
}

// Classifier returns the world tile classifier.
func (r *Resources) Classifier() *world.Classifier {
	return r.classifier
}

func (r *Resources) buildAtlas() (*atlas.Atlas, error) {
	start := time.Now()

	var (
		a   *atlas.Atlas
		err error
	)
	if r.swatches {
		images := make([]image.Image, 0, len(swatchColors))
		for _, c := range swatchColors {
			images = append(images, texture.Swatch(c, r.atlasCfg.CellSize))
		}
		a, err = atlas.Build(images, r.atlasCfg.CellSize, r.atlasCfg.Columns)
	} else {
		a, err = atlas.Load(r.assets, r.atlasCfg.Textures, r.atlasCfg.CellSize, r.atlasCfg.Columns)
	}
	if err != nil {
		return nil, fmt.Errorf("building atlas: %w", err)
	}

	r.log.Info("atlas built",
		zap.Int("textures", a.Count()),
		zap.Bool("swatches", r.swatches),
		zap.Stringer("size", a.Image.Bounds().Size()),
		zap.Duration("took", time.Since(start)),
	)
	return a, nil
}

func (r *Resources) buildBlendMask() (*blend.Field, error) {
	start := time.Now()

	f, err := blend.Generate(context.Background(), r.blendParams)
	if err != nil {
		return nil, fmt.Errorf("generating blend mask: %w", err)
	}

	r.log.Info("blend mask generated",
		zap.Int("size", f.Size),
		zap.Duration("took", time.Since(start)),
	)
	return f, nil
}

// BlendParams converts the blend config section.
func BlendParams(c config.BlendConfig) blend.Params {
	return blend.Params{
		TileSize:     c.TileSize,
		Repetitions:  c.Repetitions,
		SmoothEdge:   c.SmoothEdge,
		SmoothCorner: c.SmoothCorner,
		MaxEdge:      c.MaxEdge,
		MaxCorner:    c.MaxCorner,
		SeedX:        c.SeedX,
		SeedY:        c.SeedY,
		SeedCorner:   c.SeedCorner,
		Noise:        NoiseSettings(c.Noise),
	}
}

// NoiseSettings converts a noise config block.
func NoiseSettings(c config.NoiseConfig) noise.Settings {
	return noise.Settings{
		Frequency:  c.Frequency,
		Octaves:    c.Octaves,
		Lacunarity: c.Lacunarity,
		Gain:       c.Gain,
	}
}
