// Package config handles configuration loading and management.
package config

import "time"

// Config holds all settings for the streaming engine and its viewers.
type Config struct {
	Graphics  GraphicsConfig  `yaml:"graphics"`
	Streaming StreamingConfig `yaml:"streaming"`
	Atlas     AtlasConfig     `yaml:"atlas"`
	Blend     BlendConfig     `yaml:"blend"`
	World     WorldConfig     `yaml:"world"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// GraphicsConfig holds display settings for the viewer.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// StreamingConfig controls segment streaming.
type StreamingConfig struct {
	SegmentSize  int           `yaml:"segment_size"` // Tiles per segment side, power of two
	Overscan     int           `yaml:"overscan"`     // Extra segments loaded around the view
	TickInterval time.Duration `yaml:"tick_interval"`
	TileSize     int           `yaml:"tile_size"` // Pixels per tile
}

// AtlasConfig controls ground texture atlas assembly.
type AtlasConfig struct {
	CellSize int      `yaml:"cell_size"` // Pixel size of one atlas cell
	Columns  int      `yaml:"columns"`
	Textures []string `yaml:"textures"` // Ground textures in tile type order
}

// BlendConfig controls blend mask generation.
type BlendConfig struct {
	TileSize     int         `yaml:"tile_size"`
	Repetitions  int         `yaml:"repetitions"`
	SmoothEdge   float64     `yaml:"smooth_edge"`
	SmoothCorner float64     `yaml:"smooth_corner"`
	MaxEdge      float64     `yaml:"max_edge"`
	MaxCorner    float64     `yaml:"max_corner"`
	SeedX        int64       `yaml:"seed_x"`
	SeedY        int64       `yaml:"seed_y"`
	SeedCorner   int64       `yaml:"seed_corner"`
	Noise        NoiseConfig `yaml:"noise"`
}

// NoiseConfig describes a fractal noise field.
type NoiseConfig struct {
	Frequency  float64 `yaml:"frequency"`
	Octaves    int     `yaml:"octaves"`
	Lacunarity float64 `yaml:"lacunarity"`
	Gain       float64 `yaml:"gain"`
}

// WorldConfig controls tile classification.
type WorldConfig struct {
	Seed       int64       `yaml:"seed"`
	Noise      NoiseConfig `yaml:"noise"`
	Thresholds []float64   `yaml:"thresholds"` // Ascending band limits
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Streaming: StreamingConfig{
			SegmentSize:  128,
			Overscan:     2,
			TickInterval: 300 * time.Millisecond,
			TileSize:     64,
		},
		Atlas: AtlasConfig{
			CellSize: 1024,
			Columns:  16,
			Textures: []string{
				"assets/textures/water.png",
				"assets/textures/grass.png",
				"assets/textures/sand.png",
				"assets/textures/rock.png",
			},
		},
		Blend: BlendConfig{
			TileSize:     64,
			Repetitions:  16,
			SmoothEdge:   24,
			SmoothCorner: 16,
			MaxEdge:      50,
			MaxCorner:    25,
			SeedX:        1234,
			SeedY:        4321,
			SeedCorner:   1243,
			Noise: NoiseConfig{
				Frequency:  0.01,
				Octaves:    3,
				Lacunarity: 2.0,
				Gain:       0.5,
			},
		},
		World: WorldConfig{
			Seed: 1337,
			Noise: NoiseConfig{
				Frequency:  0.01,
				Octaves:    3,
				Lacunarity: 2.0,
				Gain:       0.5,
			},
			Thresholds: []float64{0.01, 0.2, 0.4},
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
