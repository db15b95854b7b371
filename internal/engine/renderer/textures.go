package renderer

import (
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/tilestream/internal/engine/texture"
)

// pixelData is an image in a form OpenGL can take directly.
type pixelData struct {
	internalFormat int32
	format         uint32
	width, height  int32
	pix            []byte
	nearest        bool
}

// toPixelData picks the upload format: single channel for grayscale tile
// grids, four channels for everything else.
func toPixelData(img image.Image) pixelData {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	switch m := img.(type) {
	case *image.Gray:
		if m.Stride == w && b.Min == (image.Point{}) {
			return pixelData{gl.R8, gl.RED, int32(w), int32(h), m.Pix, true}
		}
		g := image.NewGray(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			copy(g.Pix[y*w:(y+1)*w], m.Pix[m.PixOffset(b.Min.X, b.Min.Y+y):])
		}
		return pixelData{gl.R8, gl.RED, int32(w), int32(h), g.Pix, true}
	case *image.NRGBA:
		// Straight alpha; the blend mask stores weights in all four channels
		if m.Stride == 4*w && b.Min == (image.Point{}) {
			return pixelData{gl.RGBA8, gl.RGBA, int32(w), int32(h), m.Pix, true}
		}
	case *image.RGBA:
		if m.Stride == 4*w && b.Min == (image.Point{}) {
			return pixelData{gl.RGBA8, gl.RGBA, int32(w), int32(h), m.Pix, false}
		}
	}

	rgba := texture.ToRGBA(img)
	return pixelData{gl.RGBA8, gl.RGBA, int32(w), int32(h), rgba.Pix, false}
}

// texEntry is one uploaded image and the number of bindings using it.
type texEntry struct {
	id   uint32
	refs int
}

// texturePool uploads each distinct image once and frees it when the last
// binding lets go.
type texturePool struct {
	upload  func(image.Image) uint32
	release func(uint32)
	entries map[image.Image]*texEntry
}

func newTexturePool(upload func(image.Image) uint32, release func(uint32)) *texturePool {
	return &texturePool{
		upload:  upload,
		release: release,
		entries: make(map[image.Image]*texEntry),
	}
}

func (p *texturePool) acquire(img image.Image) uint32 {
	e, ok := p.entries[img]
	if !ok {
		e = &texEntry{id: p.upload(img)}
		p.entries[img] = e
	}
	e.refs++
	return e.id
}

func (p *texturePool) put(img image.Image) {
	e, ok := p.entries[img]
	if !ok {
		return
	}
	e.refs--
	if e.refs <= 0 {
		p.release(e.id)
		delete(p.entries, img)
	}
}

// Len returns the number of live textures.
func (p *texturePool) Len() int {
	return len(p.entries)
}

func (p *texturePool) clear() {
	for img, e := range p.entries {
		p.release(e.id)
		delete(p.entries, img)
	}
}

func glUpload(img image.Image) uint32 {
	d := toPixelData(img)
	if len(d.pix) == 0 {
		return 0
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)

	// Tile grids are S+2 wide, rarely a multiple of four
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.TexImage2D(gl.TEXTURE_2D, 0, d.internalFormat, d.width, d.height,
		0, d.format, gl.UNSIGNED_BYTE, unsafe.Pointer(&d.pix[0]))
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 4)

	filter := int32(gl.LINEAR)
	if d.nearest {
		filter = gl.NEAREST
	}
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, filter)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	return id
}

func glRelease(id uint32) {
	gl.DeleteTextures(1, &id)
}
