// Package noise provides seeded coherent noise fields for world and texture generation.
package noise

import (
	"github.com/ojrac/opensimplex-go"
)

// Settings describes a fractal (fBm) noise field.
type Settings struct {
	Frequency  float64
	Octaves    int
	Lacunarity float64
	Gain       float64
}

// DefaultSettings returns three octaves of fBm at frequency 0.01.
func DefaultSettings() Settings {
	return Settings{
		Frequency:  0.01,
		Octaves:    3,
		Lacunarity: 2.0,
		Gain:       0.5,
	}
}

// Field samples fractal OpenSimplex noise. Sampling is read-only and safe for
// concurrent use once the field is constructed.
type Field struct {
	src      opensimplex.Noise
	settings Settings
	norm     float64
}

// New creates a noise field for the given seed.
func New(seed int64, s Settings) *Field {
	if s.Octaves < 1 {
		s.Octaves = 1
	}

	// Sum of octave amplitudes, used to keep output within [-1, 1]
	norm := 0.0
	amp := 1.0
	for i := 0; i < s.Octaves; i++ {
		norm += amp
		amp *= s.Gain
	}
	if norm == 0 {
		norm = 1
	}

	return &Field{
		src:      opensimplex.New(seed),
		settings: s,
		norm:     norm,
	}
}

// At returns the noise value at (x, y), roughly in [-1, 1].
func (f *Field) At(x, y float64) float64 {
	freq := f.settings.Frequency
	amp := 1.0
	sum := 0.0
	for i := 0; i < f.settings.Octaves; i++ {
		sum += f.src.Eval2(x*freq, y*freq) * amp
		freq *= f.settings.Lacunarity
		amp *= f.settings.Gain
	}

	v := sum / f.norm
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}
