// Package world maps integer world coordinates to ground tile types.
package world

import (
	"github.com/Faultbox/tilestream/internal/noise"
)

// TileType is a ground type id. It doubles as the atlas cell index.
type TileType uint8

// Tile types in ascending noise band order.
const (
	Water TileType = iota
	Grass
	Sand
	Rock
)

// String returns the tile type name.
func (t TileType) String() string {
	switch t {
	case Water:
		return "water"
	case Grass:
		return "grass"
	case Sand:
		return "sand"
	case Rock:
		return "rock"
	}
	return "unknown"
}

// DefaultThresholds are the band limits between water, grass, sand and rock.
var DefaultThresholds = []float64{0.01, 0.2, 0.4}

// Classifier assigns a tile type to every world coordinate from a noise field.
// It holds no mutable state: the same coordinate always yields the same type.
type Classifier struct {
	field      *noise.Field
	thresholds []float64
}

// NewClassifier creates a classifier sampling noise seeded with seed.
// thresholds must be ascending; nil selects DefaultThresholds.
func NewClassifier(seed int64, settings noise.Settings, thresholds []float64) *Classifier {
	if thresholds == nil {
		thresholds = DefaultThresholds
	}
	t := make([]float64, len(thresholds))
	copy(t, thresholds)

	return &Classifier{
		field:      noise.New(seed, settings),
		thresholds: t,
	}
}

// Classify returns the tile type at world tile (x, y).
func (c *Classifier) Classify(x, y int) TileType {
	return ClassifyValue(c.field.At(float64(x), float64(y)), c.thresholds)
}

// ClassifyValue maps a noise value to the first band whose threshold it is below.
// Values at or above the last threshold fall into the last band.
func ClassifyValue(v float64, thresholds []float64) TileType {
	for i, limit := range thresholds {
		if v < limit {
			return TileType(i)
		}
	}
	return TileType(len(thresholds))
}
