package config

import (
	"errors"
	"fmt"
)

// Validate reports every setting that the engine cannot run with.
// Blend parameters get a second, stricter check when the generator is built.
func (c *Config) Validate() error {
	var errs []error

	s := c.Streaming
	if s.SegmentSize <= 0 || s.SegmentSize&(s.SegmentSize-1) != 0 {
		errs = append(errs, fmt.Errorf("streaming.segment_size %d is not a power of two", s.SegmentSize))
	}
	if s.Overscan < 0 {
		errs = append(errs, fmt.Errorf("streaming.overscan %d is negative", s.Overscan))
	}
	if s.TickInterval <= 0 {
		errs = append(errs, fmt.Errorf("streaming.tick_interval %v must be positive", s.TickInterval))
	}
	if s.TileSize <= 0 {
		errs = append(errs, fmt.Errorf("streaming.tile_size %d must be positive", s.TileSize))
	}

	if c.Blend.TileSize != s.TileSize {
		errs = append(errs, fmt.Errorf("blend.tile_size %d must equal streaming.tile_size %d", c.Blend.TileSize, s.TileSize))
	}

	if c.Atlas.CellSize <= 0 {
		errs = append(errs, fmt.Errorf("atlas.cell_size %d must be positive", c.Atlas.CellSize))
	}
	if c.Atlas.Columns <= 0 {
		errs = append(errs, fmt.Errorf("atlas.columns %d must be positive", c.Atlas.Columns))
	}

	if len(c.World.Thresholds) == 0 {
		errs = append(errs, errors.New("world.thresholds is empty"))
	}
	for i := 1; i < len(c.World.Thresholds); i++ {
		if c.World.Thresholds[i] <= c.World.Thresholds[i-1] {
			errs = append(errs, fmt.Errorf("world.thresholds must be ascending, got %v", c.World.Thresholds))
			break
		}
	}
	if c.World.Noise.Octaves <= 0 || c.Blend.Noise.Octaves <= 0 {
		errs = append(errs, errors.New("noise octaves must be positive"))
	}

	return errors.Join(errs...)
}
