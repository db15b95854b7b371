// Package atlas combines ground textures into one grid texture.
package atlas

import (
	"errors"
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/Faultbox/tilestream/internal/engine/texture"
)

// DefaultColumns is the number of cells per atlas row.
const DefaultColumns = 16

// ErrNoImages is returned when an atlas is requested without sources.
var ErrNoImages = errors.New("atlas needs at least one image")

// Atlas is a single RGBA image holding every ground texture. Cell i sits at
// column i % Columns, row i / Columns.
type Atlas struct {
	Image    *image.RGBA
	CellSize int
	Columns  int
	count    int
}

// Count returns the number of textures in the atlas.
func (a *Atlas) Count() int {
	return a.count
}

// Rows returns the number of cell rows.
func (a *Atlas) Rows() int {
	return (a.count + a.Columns - 1) / a.Columns
}

// CellOrigin returns the top-left pixel of cell i.
func (a *Atlas) CellOrigin(i int) image.Point {
	return image.Pt((i%a.Columns)*a.CellSize, (i/a.Columns)*a.CellSize)
}

// CellRect returns the pixel rectangle of cell i.
func (a *Atlas) CellRect(i int) image.Rectangle {
	o := a.CellOrigin(i)
	return image.Rect(o.X, o.Y, o.X+a.CellSize, o.Y+a.CellSize)
}

// Build lays out images left to right, columns per row, top to bottom.
// Sources that are not cellSize square are resampled to fit their cell.
func Build(images []image.Image, cellSize, columns int) (*Atlas, error) {
	if len(images) == 0 {
		return nil, ErrNoImages
	}
	if cellSize <= 0 {
		return nil, fmt.Errorf("atlas cell size %d must be positive", cellSize)
	}
	if columns <= 0 {
		columns = DefaultColumns
	}

	a := &Atlas{
		CellSize: cellSize,
		Columns:  columns,
		count:    len(images),
	}

	width := cellSize * min(len(images), columns)
	height := cellSize * a.Rows()
	a.Image = image.NewRGBA(image.Rect(0, 0, width, height))

	for i, src := range images {
		dst := a.CellRect(i)
		sb := src.Bounds()
		if sb.Dx() == cellSize && sb.Dy() == cellSize {
			draw.Copy(a.Image, dst.Min, src, sb, draw.Src, nil)
			continue
		}
		draw.CatmullRom.Scale(a.Image, dst, src, sb, draw.Src, nil)
	}

	return a, nil
}

// Load decodes every path from src and builds the atlas from them in order.
// Any unreadable texture fails the whole build.
func Load(src texture.Source, paths []string, cellSize, columns int) (*Atlas, error) {
	if len(paths) == 0 {
		return nil, ErrNoImages
	}

	images := make([]image.Image, 0, len(paths))
	for _, path := range paths {
		img, err := texture.LoadFrom(src, path)
		if err != nil {
			return nil, fmt.Errorf("atlas texture %d: %w", len(images), err)
		}
		images = append(images, img)
	}

	return Build(images, cellSize, columns)
}
