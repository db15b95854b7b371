package texture

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"testing"

	"golang.org/x/image/bmp"
)

// tgaHeader builds an 18 byte TGA header.
func tgaHeader(imageType byte, w, h int, bpp byte, descriptor byte) []byte {
	hdr := make([]byte, 18)
	hdr[2] = imageType
	hdr[12] = byte(w)
	hdr[13] = byte(w >> 8)
	hdr[14] = byte(h)
	hdr[15] = byte(h >> 8)
	hdr[16] = bpp
	hdr[17] = descriptor
	return hdr
}

func TestDecodeTGAUncompressedBottomUp(t *testing.T) {
	// 2x2, 24 bit, bottom-up: first row in the file is the bottom row
	data := tgaHeader(TGATypeUncompressed, 2, 2, 24, 0)
	data = append(data,
		0, 0, 255, 0, 255, 0, // bottom: red, green (BGR)
		255, 0, 0, 255, 255, 255, // top: blue, white
	)

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA failed: %v", err)
	}

	rgba := img.(*image.RGBA)
	tests := []struct {
		x, y int
		want color.RGBA
	}{
		{0, 1, color.RGBA{255, 0, 0, 255}},
		{1, 1, color.RGBA{0, 255, 0, 255}},
		{0, 0, color.RGBA{0, 0, 255, 255}},
		{1, 0, color.RGBA{255, 255, 255, 255}},
	}
	for _, tt := range tests {
		if got := rgba.RGBAAt(tt.x, tt.y); got != tt.want {
			t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}

func TestDecodeTGARLE(t *testing.T) {
	// 3x1, 32 bit, top-down; run of 2 grey pixels then one raw red pixel
	data := tgaHeader(TGATypeRLE, 3, 1, 32, 0x20)
	data = append(data,
		0x81, 128, 128, 128, 200, // run packet, count 2
		0x00, 0, 0, 255, 255, // raw packet, count 1
	)

	img, err := DecodeTGA(data)
	if err != nil {
		t.Fatalf("DecodeTGA failed: %v", err)
	}

	rgba := img.(*image.RGBA)
	grey := color.RGBA{128, 128, 128, 200}
	if rgba.RGBAAt(0, 0) != grey || rgba.RGBAAt(1, 0) != grey {
		t.Errorf("run pixels = %v %v, want %v", rgba.RGBAAt(0, 0), rgba.RGBAAt(1, 0), grey)
	}
	if got := rgba.RGBAAt(2, 0); got != (color.RGBA{255, 0, 0, 255}) {
		t.Errorf("raw pixel = %v, want red", got)
	}
}

func TestDecodeTGAErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"too short", []byte{1, 2, 3}},
		{"color mapped", func() []byte { d := tgaHeader(1, 1, 1, 24, 0); d[1] = 1; return d }()},
		{"bad depth", tgaHeader(TGATypeUncompressed, 1, 1, 16, 0)},
		{"truncated pixels", tgaHeader(TGATypeUncompressed, 4, 4, 24, 0)},
		{"truncated rle", append(tgaHeader(TGATypeRLE, 4, 1, 24, 0), 0x83)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DecodeTGA(tt.data); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

// memSource serves texture bytes from memory.
type memSource map[string][]byte

func (m memSource) Load(path string) ([]byte, error) {
	data, ok := m[path]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return data, nil
}

func encoded(t *testing.T, enc func(*bytes.Buffer) error) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := enc(&buf); err != nil {
		t.Fatalf("encoding: %v", err)
	}
	return buf.Bytes()
}

func TestLoadFromFormats(t *testing.T) {
	src := Swatch(color.RGBA{10, 20, 30, 255}, 4)
	files := memSource{
		"grass.png": encoded(t, func(b *bytes.Buffer) error { return png.Encode(b, src) }),
		"sand.bmp":  encoded(t, func(b *bytes.Buffer) error { return bmp.Encode(b, src) }),
	}

	for _, path := range []string{"grass.png", "sand.bmp"} {
		img, err := LoadFrom(files, path)
		if err != nil {
			t.Fatalf("LoadFrom(%s) failed: %v", path, err)
		}
		rgba := ToRGBA(img)
		if got := rgba.RGBAAt(3, 3); got != (color.RGBA{10, 20, 30, 255}) {
			t.Errorf("%s: pixel = %v, want {10 20 30 255}", path, got)
		}
	}
}

func TestLoadFromErrors(t *testing.T) {
	files := memSource{"garbage.png": []byte("not an image")}

	if _, err := LoadFrom(files, "missing.png"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected wrapped fs.ErrNotExist, got %v", err)
	}
	if _, err := LoadFrom(files, "garbage.png"); err == nil {
		t.Error("expected error for undecodable file")
	}
}

func TestToRGBARebasesOrigin(t *testing.T) {
	src := image.NewRGBA(image.Rect(5, 5, 7, 7))
	src.SetRGBA(5, 5, color.RGBA{1, 2, 3, 255})

	got := ToRGBA(src)
	if got.Rect.Min != (image.Point{}) {
		t.Fatalf("expected origin at (0,0), got %v", got.Rect)
	}
	if got.RGBAAt(0, 0) != (color.RGBA{1, 2, 3, 255}) {
		t.Errorf("pixel not moved to origin: %v", got.RGBAAt(0, 0))
	}

	same := image.NewRGBA(image.Rect(0, 0, 1, 1))
	if ToRGBA(same) != same {
		t.Error("expected origin-anchored RGBA to be returned unchanged")
	}
}
