// Package blend generates the tile blend mask: a tileable texture holding, per pixel,
// how much of the horizontal, vertical and diagonal neighbour bleeds into a tile.
package blend

import (
	"errors"
	"fmt"

	"github.com/Faultbox/tilestream/internal/noise"
)

// Total is the sum of the four weights of every pixel.
const Total = 100

// ErrInvalidParams is wrapped by every validation failure.
var ErrInvalidParams = errors.New("invalid blend parameters")

// Params configures mask generation.
type Params struct {
	TileSize     int     // Pixels per tile side
	Repetitions  int     // Tiles per mask side
	SmoothEdge   float64 // Edge falloff radius in pixels
	SmoothCorner float64 // Corner falloff radius in pixels
	MaxEdge      float64 // Edge weight at the edge itself, in percent
	MaxCorner    float64 // Corner weight at the corner itself, in percent

	// Perturbation noise, one independent field per weight
	SeedX      int64
	SeedY      int64
	SeedCorner int64
	Noise      noise.Settings
}

// DefaultParams returns the stock 64px tile, 16x16 repetition mask settings.
func DefaultParams() Params {
	return Params{
		TileSize:     64,
		Repetitions:  16,
		SmoothEdge:   24,
		SmoothCorner: 16,
		MaxEdge:      50,
		MaxCorner:    25,
		SeedX:        1234,
		SeedY:        4321,
		SeedCorner:   1243,
		Noise:        noise.DefaultSettings(),
	}
}

// Validate rejects parameters that could produce negative or overflowing weights.
//
// After corner subtraction a pixel's foreign weight is at most max(2*MaxEdge, MaxCorner),
// so both must fit in Total for the self weight to stay non-negative.
func (p Params) Validate() error {
	switch {
	case p.TileSize <= 0:
		return fmt.Errorf("%w: tile size %d must be positive", ErrInvalidParams, p.TileSize)
	case p.Repetitions <= 0:
		return fmt.Errorf("%w: repetitions %d must be positive", ErrInvalidParams, p.Repetitions)
	case p.SmoothEdge <= 0 || p.SmoothEdge >= float64(p.TileSize):
		return fmt.Errorf("%w: edge radius %v must be in (0, %d)", ErrInvalidParams, p.SmoothEdge, p.TileSize)
	case p.SmoothCorner <= 0 || p.SmoothCorner >= float64(p.TileSize):
		return fmt.Errorf("%w: corner radius %v must be in (0, %d)", ErrInvalidParams, p.SmoothCorner, p.TileSize)
	case p.MaxEdge < 0 || p.MaxCorner < 0:
		return fmt.Errorf("%w: max weights must not be negative", ErrInvalidParams)
	case 2*p.MaxEdge > Total:
		return fmt.Errorf("%w: two edges at %v%% exceed %d%%", ErrInvalidParams, p.MaxEdge, Total)
	case p.MaxCorner > Total:
		return fmt.Errorf("%w: corner weight %v%% exceeds %d%%", ErrInvalidParams, p.MaxCorner, Total)
	case p.Noise.Octaves <= 0:
		return fmt.Errorf("%w: noise octaves %d must be positive", ErrInvalidParams, p.Noise.Octaves)
	}
	return nil
}
