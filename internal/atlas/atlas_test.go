package atlas

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"testing"

	"github.com/Faultbox/tilestream/internal/engine/texture"
)

var palette = []color.RGBA{
	{0, 0, 255, 255},
	{0, 255, 0, 255},
	{255, 255, 0, 255},
	{128, 128, 128, 255},
}

func swatches(n, size int) []image.Image {
	images := make([]image.Image, n)
	for i := range images {
		images[i] = texture.Swatch(palette[i%len(palette)], size)
	}
	return images
}

func TestBuildFourImagesOneRow(t *testing.T) {
	a, err := Build(swatches(4, 8), 8, 16)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if got := a.Image.Bounds(); got.Dx() != 32 || got.Dy() != 8 {
		t.Fatalf("expected 32x8 atlas, got %v", got)
	}
	if a.Rows() != 1 || a.Count() != 4 {
		t.Errorf("expected 1 row of 4, got %d rows of %d", a.Rows(), a.Count())
	}

	for i := 0; i < 4; i++ {
		o := a.CellOrigin(i)
		if o != image.Pt(i*8, 0) {
			t.Errorf("cell %d origin = %v, want (%d,0)", i, o, i*8)
		}
		if got := a.Image.RGBAAt(o.X+4, o.Y+4); got != palette[i] {
			t.Errorf("cell %d colour = %v, want %v", i, got, palette[i])
		}
	}
}

func TestBuildWraps(t *testing.T) {
	a, err := Build(swatches(5, 4), 4, 2)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if got := a.Image.Bounds(); got.Dx() != 8 || got.Dy() != 12 {
		t.Fatalf("expected 8x12 atlas, got %v", got)
	}

	tests := []struct {
		cell int
		want image.Point
	}{
		{0, image.Pt(0, 0)},
		{1, image.Pt(4, 0)},
		{2, image.Pt(0, 4)},
		{4, image.Pt(0, 8)},
	}
	for _, tt := range tests {
		if got := a.CellOrigin(tt.cell); got != tt.want {
			t.Errorf("CellOrigin(%d) = %v, want %v", tt.cell, got, tt.want)
		}
	}
	if got := a.Image.RGBAAt(1, 9); got != palette[0] {
		t.Errorf("cell 4 colour = %v, want %v", got, palette[0])
	}
}

func TestBuildResamplesToCell(t *testing.T) {
	images := []image.Image{texture.Swatch(palette[1], 3)}

	a, err := Build(images, 16, 0)
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if a.Columns != DefaultColumns {
		t.Errorf("expected default columns %d, got %d", DefaultColumns, a.Columns)
	}
	if got := a.Image.RGBAAt(8, 8); !near(got, palette[1]) {
		t.Errorf("resampled centre = %v, want %v", got, palette[1])
	}
}

func TestBuildNoImages(t *testing.T) {
	if _, err := Build(nil, 8, 16); !errors.Is(err, ErrNoImages) {
		t.Errorf("expected ErrNoImages, got %v", err)
	}
}

// memSource serves encoded textures from memory.
type memSource map[string][]byte

func (m memSource) Load(path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func pngBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding: %v", err)
	}
	return buf.Bytes()
}

func TestLoad(t *testing.T) {
	src := memSource{}
	var paths []string
	for i, name := range []string{"water", "grass", "sand", "rock"} {
		path := "textures/" + name + ".png"
		src[path] = pngBytes(t, texture.Swatch(palette[i], 8))
		paths = append(paths, path)
	}

	a, err := Load(src, paths, 8, 16)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := a.Image.RGBAAt(3*8+1, 1); got != palette[3] {
		t.Errorf("rock cell colour = %v, want %v", got, palette[3])
	}
}

func TestLoadFailsOnUnreadableTexture(t *testing.T) {
	src := memSource{
		"good.png":    pngBytes(t, texture.Swatch(palette[0], 8)),
		"corrupt.png": []byte("not a png"),
	}

	tests := []struct {
		name  string
		paths []string
	}{
		{"missing", []string{"good.png", "missing.png"}},
		{"corrupt", []string{"good.png", "corrupt.png"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := Load(src, tt.paths, 8, 16)
			if err == nil {
				t.Fatal("expected error for unreadable texture")
			}
			if a != nil {
				t.Error("expected no partial atlas on failure")
			}
		})
	}

	if _, err := Load(src, []string{"missing.png"}, 8, 16); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected wrapped fs.ErrNotExist, got %v", err)
	}
}
