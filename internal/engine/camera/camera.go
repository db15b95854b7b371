// Package camera provides the 2D map camera.
package camera

import (
	gomath "math"

	"github.com/Faultbox/tilestream/pkg/math"
)

// PanCamera looks straight down at the map. World units are pixels with y
// growing downwards; the view is centred on (CenterX, CenterY).
type PanCamera struct {
	// Centre of the view in world pixels
	CenterX, CenterY float32

	// Viewport in screen pixels
	ViewportW, ViewportH int

	// Pixels per tile, used to convert the view to tile space
	TileSize int

	// Screen pixels per world pixel
	Zoom    float32
	MinZoom float32
	MaxZoom float32

	// Auto-pan velocity in world pixels per second
	VelocityX, VelocityY float32

	// Sensitivity
	PanSpeed        float32 // Screen pixels per second for keyboard movement
	ZoomSensitivity float32
}

// NewPanCamera creates a camera at the world origin with default settings.
func NewPanCamera(tileSize, viewportW, viewportH int) *PanCamera {
	return &PanCamera{
		ViewportW:       viewportW,
		ViewportH:       viewportH,
		TileSize:        tileSize,
		Zoom:            1.0,
		MinZoom:         0.05,
		MaxZoom:         4.0,
		PanSpeed:        800.0,
		ZoomSensitivity: 0.1,
	}
}

// SetViewport updates the screen size, e.g. after a window resize.
func (c *PanCamera) SetViewport(w, h int) {
	c.ViewportW = w
	c.ViewportH = h
}

// SetCenter moves the view centre to (x, y) in world pixels.
func (c *PanCamera) SetCenter(x, y float32) {
	c.CenterX = x
	c.CenterY = y
}

// halfExtent returns half the visible world size in pixels.
func (c *PanCamera) halfExtent() (float32, float32) {
	return float32(c.ViewportW) / (2 * c.Zoom), float32(c.ViewportH) / (2 * c.Zoom)
}

// ViewRect returns the visible area in tile coordinates.
func (c *PanCamera) ViewRect() math.Rect {
	hw, hh := c.halfExtent()
	ts := float64(c.TileSize)
	return math.Rect{
		X: float64(c.CenterX-hw) / ts,
		Y: float64(c.CenterY-hh) / ts,
		W: float64(2*hw) / ts,
		H: float64(2*hh) / ts,
	}
}

// ViewProjection maps world pixels to clip space.
func (c *PanCamera) ViewProjection() math.Mat4 {
	hw, hh := c.halfExtent()
	return math.Ortho(c.CenterX-hw, c.CenterX+hw, c.CenterY+hh, c.CenterY-hh, -1, 1)
}

// ScreenToWorld converts a screen position to world pixels.
func (c *PanCamera) ScreenToWorld(sx, sy float32) math.Vec2 {
	hw, hh := c.halfExtent()
	return math.Vec2{
		X: c.CenterX - hw + sx/c.Zoom,
		Y: c.CenterY - hh + sy/c.Zoom,
	}
}

// TileAt returns the tile under a screen position.
func (c *PanCamera) TileAt(sx, sy float32) (x, y int) {
	p := c.ScreenToWorld(sx, sy)
	ts := float64(c.TileSize)
	return int(gomath.Floor(float64(p.X) / ts)), int(gomath.Floor(float64(p.Y) / ts))
}

// HandleZoom scales the zoom by the scroll wheel delta.
func (c *PanCamera) HandleZoom(delta float32) {
	c.Zoom += delta * c.Zoom * c.ZoomSensitivity
	c.Zoom = float32(math.Clamp(float64(c.Zoom), float64(c.MinZoom), float64(c.MaxZoom)))
}

// HandleDrag pans by a mouse drag delta in screen pixels.
func (c *PanCamera) HandleDrag(deltaX, deltaY float32) {
	c.CenterX -= deltaX / c.Zoom
	c.CenterY -= deltaY / c.Zoom
}

// HandleMovement pans from keyboard input; right and down are in [-1, 1].
// Speed is constant on screen regardless of zoom.
func (c *PanCamera) HandleMovement(right, down, dt float32) {
	step := c.PanSpeed * dt / c.Zoom
	c.CenterX += right * step
	c.CenterY += down * step
}

// Update applies the auto-pan velocity for dt seconds.
func (c *PanCamera) Update(dt float32) {
	c.CenterX += c.VelocityX * dt
	c.CenterY += c.VelocityY * dt
}
