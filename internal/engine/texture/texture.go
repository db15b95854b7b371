// Package texture decodes ground textures and converts them into
// the RGBA form used by the atlas and the GL uploader.
package texture

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // JPEG decoder registration
	_ "image/png"  // PNG decoder registration
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp" // BMP decoder registration
	"golang.org/x/image/draw"
)

// Decode decodes image data. TGA is selected by name since it has no magic
// number; everything else goes through the registered image decoders.
func Decode(name string, data []byte) (image.Image, error) {
	if strings.EqualFold(filepath.Ext(name), ".tga") {
		return DecodeTGA(data)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return img, nil
}

// Source supplies raw texture bytes by path.
type Source interface {
	Load(path string) ([]byte, error)
}

// LoadFrom reads path from src and decodes it.
func LoadFrom(src Source, path string) (image.Image, error) {
	data, err := src.Load(path)
	if err != nil {
		return nil, fmt.Errorf("reading texture %s: %w", path, err)
	}
	img, err := Decode(path, data)
	if err != nil {
		return nil, fmt.Errorf("decoding texture %s: %w", path, err)
	}
	return img, nil
}

// ToRGBA converts any image to *image.RGBA with its origin at (0, 0).
// An *image.RGBA already anchored at the origin is returned as is.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Rect.Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Bounds(), img, b.Min, draw.Src)
	return rgba
}

// Swatch returns a size x size image filled with c. It stands in for ground
// textures when none are configured.
func Swatch(c color.Color, size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}
