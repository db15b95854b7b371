package world

import (
	"testing"

	"github.com/Faultbox/tilestream/internal/noise"
)

func TestClassifyValue(t *testing.T) {
	tests := []struct {
		v    float64
		want TileType
	}{
		{-1, Water},
		{0.0, Water},
		{0.01, Grass},
		{0.15, Grass},
		{0.3, Sand},
		{0.4, Rock},
		{0.5, Rock},
		{1, Rock},
	}

	for _, tt := range tests {
		if got := ClassifyValue(tt.v, DefaultThresholds); got != tt.want {
			t.Errorf("ClassifyValue(%v) = %v, want %v", tt.v, got, tt.want)
		}
	}
}

func TestClassifierDeterministic(t *testing.T) {
	a := NewClassifier(1337, noise.DefaultSettings(), nil)
	b := NewClassifier(1337, noise.DefaultSettings(), nil)

	for y := -300; y < 300; y += 13 {
		for x := -300; x < 300; x += 13 {
			first := a.Classify(x, y)
			if second := a.Classify(x, y); second != first {
				t.Fatalf("Classify(%d,%d) changed between calls: %v then %v", x, y, first, second)
			}
			if other := b.Classify(x, y); other != first {
				t.Fatalf("Classify(%d,%d) differs between classifiers with one seed: %v vs %v", x, y, first, other)
			}
			if first > Rock {
				t.Fatalf("Classify(%d,%d) = %d, outside known types", x, y, first)
			}
		}
	}
}

func TestClassifierCopiesThresholds(t *testing.T) {
	thresholds := []float64{0.5}
	c := NewClassifier(1, noise.DefaultSettings(), thresholds)
	thresholds[0] = -2

	// Noise never reaches -2, so a shared slice would classify everything as band 1
	sawWater := false
	for x := 0; x < 2000 && !sawWater; x += 11 {
		sawWater = c.Classify(x, x) == Water
	}
	if !sawWater {
		t.Error("classifier was affected by mutating the caller's threshold slice")
	}
}

func TestTileTypeString(t *testing.T) {
	if Water.String() != "water" || Rock.String() != "rock" {
		t.Errorf("unexpected names %q %q", Water, Rock)
	}
	if TileType(9).String() != "unknown" {
		t.Errorf("expected unknown for out-of-range type, got %q", TileType(9))
	}
}
