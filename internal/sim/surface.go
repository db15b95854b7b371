package sim

import (
	"image"

	"github.com/Faultbox/tilestream/internal/stream"
)

// MemorySurface records what a unit asked to draw.
type MemorySurface struct {
	name    string
	visible bool
	pos     [2]float32
	scale   [2]float32
	images  map[string]image.Image
	scalars map[string]float32
	renders int
}

var _ stream.Surface = (*MemorySurface)(nil)

// NewMemorySurface returns a hidden surface with no bindings.
func NewMemorySurface(name string) *MemorySurface {
	return &MemorySurface{
		name:    name,
		images:  make(map[string]image.Image),
		scalars: make(map[string]float32),
	}
}

func (m *MemorySurface) SetVisible(v bool)        { m.visible = v }
func (m *MemorySurface) SetPosition(x, y float32) { m.pos = [2]float32{x, y} }
func (m *MemorySurface) SetScale(x, y float32)    { m.scale = [2]float32{x, y} }
func (m *MemorySurface) SetScalar(name string, v float32) {
	m.scalars[name] = v
}

func (m *MemorySurface) SetImage(name string, img image.Image) {
	if name == stream.ParamMapData {
		m.renders++
	}
	m.images[name] = img
}

// Name returns the surface name.
func (m *MemorySurface) Name() string { return m.name }

// Visible reports the last visibility request.
func (m *MemorySurface) Visible() bool { return m.visible }

// Position returns the last position in world pixels.
func (m *MemorySurface) Position() (float32, float32) { return m.pos[0], m.pos[1] }

// Image returns the image bound to name, or nil.
func (m *MemorySurface) Image(name string) image.Image { return m.images[name] }

// Scalar returns the scalar bound to name.
func (m *MemorySurface) Scalar(name string) float32 { return m.scalars[name] }

// Renders counts tile grid uploads.
func (m *MemorySurface) Renders() int { return m.renders }
