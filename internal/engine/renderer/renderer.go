// Package renderer draws streamed map segments with OpenGL.
package renderer

import (
	"fmt"
	"unsafe"

	"go.uber.org/zap"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/Faultbox/tilestream/internal/engine/renderer/shaders"
	"github.com/Faultbox/tilestream/internal/engine/shader"
	"github.com/Faultbox/tilestream/internal/logger"
	"github.com/Faultbox/tilestream/internal/stream"
	"github.com/Faultbox/tilestream/pkg/math"
)

// Config holds renderer configuration.
type Config struct {
	Width  int
	Height int

	// Atlas grid, shared by every segment
	AtlasColumns  int
	AtlasCellSize int
}

// Sampler texture units. Order matches the map fragment shader.
var samplers = []string{
	stream.ParamTextureAtlas,
	stream.ParamBlendTexture,
	stream.ParamMapData,
}

// MapRenderer owns the map shader and the segment surfaces.
type MapRenderer struct {
	config Config

	program uint32
	quadVAO uint32
	quadVBO uint32

	locViewProj    int32
	locOffset      int32
	locScale       int32
	locAtlasCols   int32
	locAtlasCell   int32
	uniforms       map[string]int32
	samplerUnits   map[string]int32
	textures       *texturePool
	surfaces       []*Surface
	drawnLastFrame int
}

// New creates the map renderer.
// IMPORTANT: Must be called AFTER OpenGL context is created!
func New(cfg Config) (*MapRenderer, error) {
	r := &MapRenderer{
		config:       cfg,
		uniforms:     make(map[string]int32),
		samplerUnits: make(map[string]int32),
		textures:     newTexturePool(glUpload, glRelease),
	}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	version := gl.GoStr(gl.GetString(gl.VERSION))
	rendererName := gl.GoStr(gl.GetString(gl.RENDERER))
	logger.Info("OpenGL initialized",
		zap.String("version", version),
		zap.String("renderer", rendererName),
	)

	gl.Disable(gl.DEPTH_TEST)
	gl.ClearColor(0.1, 0.1, 0.15, 1.0)

	var err error
	r.program, err = shader.CompileProgram(shaders.MapVertexShader, shaders.MapFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("failed to create map shader: %w", err)
	}
	r.locViewProj = shader.MustGetUniform(r.program, "uViewProj")
	r.locOffset = shader.GetUniform(r.program, "uOffset")
	r.locScale = shader.GetUniform(r.program, "uScale")
	r.locAtlasCols = shader.GetUniform(r.program, "uAtlasColumns")
	r.locAtlasCell = shader.GetUniform(r.program, "uAtlasCellSize")
	for unit, name := range samplers {
		r.samplerUnits[name] = int32(unit)
	}

	r.createQuad()
	r.Resize(cfg.Width, cfg.Height)

	return r, nil
}

// Close cleans up renderer resources.
func (r *MapRenderer) Close() {
	logger.Info("closing renderer")
	for _, s := range r.surfaces {
		s.release()
	}
	r.textures.clear()
	if r.quadVAO != 0 {
		gl.DeleteVertexArrays(1, &r.quadVAO)
	}
	if r.quadVBO != 0 {
		gl.DeleteBuffers(1, &r.quadVBO)
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
	}
}

// NewSurface creates a segment surface. It satisfies stream.SurfaceFactory.
func (r *MapRenderer) NewSurface(name string) stream.Surface {
	s := newSurface(name, r.textures)
	r.surfaces = append(r.surfaces, s)
	logger.Debug("surface created", zap.String("name", name))
	return s
}

// Resize handles window resize.
func (r *MapRenderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	gl.Viewport(0, 0, int32(width), int32(height))
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// Begin starts a new frame.
func (r *MapRenderer) Begin() {
	gl.Clear(gl.COLOR_BUFFER_BIT)
}

// End finishes the current frame.
func (r *MapRenderer) End() {
	gl.BindVertexArray(0)
	gl.UseProgram(0)
}

// Draw renders every visible surface with the given view-projection.
func (r *MapRenderer) Draw(viewProj math.Mat4) {
	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.locViewProj, 1, false, viewProj.Ptr())
	gl.Uniform1i(r.locAtlasCols, int32(r.config.AtlasColumns))
	gl.Uniform1f(r.locAtlasCell, float32(r.config.AtlasCellSize))
	gl.BindVertexArray(r.quadVAO)

	drawn := 0
	for _, s := range r.surfaces {
		if !s.visible {
			continue
		}
		r.bindSurface(s)
		gl.DrawArrays(gl.TRIANGLE_STRIP, 0, 4)
		drawn++
	}
	r.drawnLastFrame = drawn
}

// ReadPixels reads the current framebuffer as bottom-up RGBA rows.
func (r *MapRenderer) ReadPixels() ([]byte, int, int) {
	w, h := r.config.Width, r.config.Height
	pixels := make([]byte, w*h*4)
	if len(pixels) == 0 {
		return pixels, w, h
	}
	gl.PixelStorei(gl.PACK_ALIGNMENT, 1)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&pixels[0]))
	return pixels, w, h
}

// DrawnLastFrame returns the number of surfaces drawn by the last Draw.
func (r *MapRenderer) DrawnLastFrame() int {
	return r.drawnLastFrame
}

// Textures returns the number of live GL textures.
func (r *MapRenderer) Textures() int {
	return r.textures.Len()
}

func (r *MapRenderer) bindSurface(s *Surface) {
	gl.Uniform2f(r.locOffset, s.x, s.y)
	gl.Uniform2f(r.locScale, s.sx, s.sy)

	for name, v := range s.scalars {
		gl.Uniform1f(r.uniform(name), v)
	}
	for name, id := range s.textures {
		unit, ok := r.samplerUnits[name]
		if !ok {
			continue
		}
		gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
		gl.BindTexture(gl.TEXTURE_2D, id)
		gl.Uniform1i(r.uniform(name), unit)
	}
}

// uniform returns a cached uniform location; unknown names yield -1, which GL ignores.
func (r *MapRenderer) uniform(name string) int32 {
	loc, ok := r.uniforms[name]
	if !ok {
		loc = shader.GetUniform(r.program, name)
		r.uniforms[name] = loc
	}
	return loc
}

// createQuad creates the unit quad drawn for every segment.
func (r *MapRenderer) createQuad() {
	vertices := []float32{
		0, 0,
		1, 0,
		0, 1,
		1, 1,
	}

	gl.GenVertexArrays(1, &r.quadVAO)
	gl.BindVertexArray(r.quadVAO)

	gl.GenBuffers(1, &r.quadVBO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.quadVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, unsafe.Pointer(&vertices[0]), gl.STATIC_DRAW)

	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 2*4, nil)
	gl.EnableVertexAttribArray(0)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	logger.Debug("quad created",
		zap.Uint32("vao", r.quadVAO),
		zap.Uint32("vbo", r.quadVBO),
	)
}
