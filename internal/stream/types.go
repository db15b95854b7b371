// Package stream decides which world segments are rendered around a moving view,
// recycles the units that render them and tells units when to retire.
//
// All Store methods run on one goroutine. Pixel work is deferred to the render
// phase at the end of each tick.
package stream

import (
	"fmt"
	"image"
	"math"

	"github.com/Faultbox/tilestream/internal/world"
	tsmath "github.com/Faultbox/tilestream/pkg/math"
)

// Shader parameter names bound on every unit surface.
const (
	ParamTextureAtlas = "textureAtlas"
	ParamBlendTexture = "blendTexture"
	ParamMapData      = "mapData"
	ParamTilesCountX  = "mapTilesCountX"
	ParamTilesCountY  = "mapTilesCountY"
	ParamTileSize     = "tileSizeInPixels"
	ParamHalfTileSize = "halfTileSizeInPixels"
)

// SegmentCoord identifies a square block of SegmentSize x SegmentSize tiles.
type SegmentCoord struct {
	X, Y int
}

func (c SegmentCoord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Window is a rectangle of segments. Min is inclusive and Max exclusive on both
// axes; Max is an absolute corner, not a size.
type Window struct {
	Min, Max SegmentCoord
}

// Contains reports whether c lies inside the window.
func (w Window) Contains(c SegmentCoord) bool {
	return c.X >= w.Min.X && c.X < w.Max.X &&
		c.Y >= w.Min.Y && c.Y < w.Max.Y
}

// Len returns the number of segments in the window.
func (w Window) Len() int {
	dx := w.Max.X - w.Min.X
	dy := w.Max.Y - w.Min.Y
	if dx <= 0 || dy <= 0 {
		return 0
	}
	return dx * dy
}

func (w Window) String() string {
	return fmt.Sprintf("[%v..%v)", w.Min, w.Max)
}

// ViewRect is the camera view in tile coordinates.
type ViewRect = tsmath.Rect

// ComputeVisibleWindow converts a tile-space view to the segment window,
// grown by overscan segments on every side.
func ComputeVisibleWindow(view ViewRect, segmentSize, overscan int) Window {
	s := float64(segmentSize)
	return Window{
		Min: SegmentCoord{
			X: int(math.Floor(view.X/s)) - overscan,
			Y: int(math.Floor(view.Y/s)) - overscan,
		},
		Max: SegmentCoord{
			X: int(math.Floor((view.X+view.W)/s)) + overscan,
			Y: int(math.Floor((view.Y+view.H)/s)) + overscan,
		},
	}
}

// Camera reports the current view. It is polled once per tick.
type Camera interface {
	ViewRect() ViewRect
}

// Classifier assigns tile types to world coordinates. Implementations must be
// pure: the render phase calls Classify from several goroutines.
type Classifier interface {
	Classify(x, y int) world.TileType
}

// Surface is the drawable a unit renders into.
type Surface interface {
	SetVisible(visible bool)
	SetPosition(x, y float32)
	SetScale(x, y float32)
	SetImage(name string, img image.Image)
	SetScalar(name string, v float32)
}

// SurfaceFactory creates the surface for a newly constructed unit.
type SurfaceFactory func(name string) Surface
