package renderer

import (
	"image"

	"github.com/Faultbox/tilestream/internal/stream"
)

// Surface is one segment quad. It implements stream.Surface; all methods must
// be called on the GL thread.
type Surface struct {
	pool *texturePool
	name string

	visible bool
	x, y    float32
	sx, sy  float32

	images   map[string]image.Image
	textures map[string]uint32
	scalars  map[string]float32
}

var _ stream.Surface = (*Surface)(nil)

func newSurface(name string, pool *texturePool) *Surface {
	return &Surface{
		pool:     pool,
		name:     name,
		sx:       1,
		sy:       1,
		images:   make(map[string]image.Image),
		textures: make(map[string]uint32),
		scalars:  make(map[string]float32),
	}
}

// Name returns the surface name.
func (s *Surface) Name() string { return s.name }

// Visible reports whether the surface is drawn.
func (s *Surface) Visible() bool { return s.visible }

func (s *Surface) SetVisible(visible bool) { s.visible = visible }

func (s *Surface) SetPosition(x, y float32) {
	s.x, s.y = x, y
}

func (s *Surface) SetScale(x, y float32) {
	s.sx, s.sy = x, y
}

// SetImage binds img to the sampler called name, replacing (and releasing)
// the previous binding.
func (s *Surface) SetImage(name string, img image.Image) {
	if old, ok := s.images[name]; ok {
		if old == img {
			return
		}
		s.pool.put(old)
		delete(s.images, name)
		delete(s.textures, name)
	}
	if img == nil {
		return
	}
	s.images[name] = img
	s.textures[name] = s.pool.acquire(img)
}

func (s *Surface) SetScalar(name string, v float32) {
	s.scalars[name] = v
}

// release drops every texture binding.
func (s *Surface) release() {
	for name, img := range s.images {
		s.pool.put(img)
		delete(s.images, name)
		delete(s.textures, name)
	}
}
