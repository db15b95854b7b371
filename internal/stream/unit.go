package stream

import (
	"errors"
	"fmt"
	"image"
)

// ErrUnitBound is returned when binding a unit that already holds a segment.
var ErrUnitBound = errors.New("unit is already bound to a segment")

// Unit renders one segment at a time. Units are created by the store on demand
// and recycled through its pool; they are never destroyed.
type Unit struct {
	handle  Handle
	name    string
	surface Surface

	segment SegmentCoord
	bound   bool

	// Set while bound
	bus     *windowBus
	mailbox *mailbox

	segmentSize int
	tileSize    int
}

// Handle returns the unit's arena index.
func (u *Unit) Handle() Handle { return u.handle }

// Name returns the unit's surface name.
func (u *Unit) Name() string { return u.name }

// Segment returns the bound segment and whether the unit is bound.
func (u *Unit) Segment() (SegmentCoord, bool) { return u.segment, u.bound }

// Surface returns the unit's drawable.
func (u *Unit) Surface() Surface { return u.surface }

// bind attaches the unit to seg and subscribes it to window changes.
// The initial render is queued by the caller, never performed here.
func (u *Unit) bind(seg SegmentCoord, bus *windowBus, mb *mailbox) error {
	if u.bound {
		return fmt.Errorf("%w: %s holds %v, asked for %v", ErrUnitBound, u.name, u.segment, seg)
	}
	u.segment = seg
	u.bound = true
	u.bus = bus
	u.mailbox = mb
	bus.subscribe(u.handle, u.onWindow)
	return nil
}

// onWindow retires the unit when its segment left the window.
func (u *Unit) onWindow(w Window) {
	if !u.bound || w.Contains(u.segment) {
		return
	}

	u.bus.unsubscribe(u.handle)
	u.bus = nil
	u.surface.SetVisible(false)
	u.mailbox.post(retirement{segment: u.segment, handle: u.handle})
	u.mailbox = nil
	u.bound = false
}

// paddedRect is the tile rectangle rendered for seg: the segment plus one tile
// of margin on every side so blending can sample across segment borders.
func paddedRect(seg SegmentCoord, segmentSize int) image.Rectangle {
	x0 := seg.X * segmentSize
	y0 := seg.Y * segmentSize
	return image.Rect(x0-1, y0-1, x0+segmentSize+1, y0+segmentSize+1)
}

// tileData classifies every tile of rect into a single-channel grid, row-major.
func tileData(rect image.Rectangle, c Classifier) *image.Gray {
	w, h := rect.Dx(), rect.Dy()
	img := image.NewGray(image.Rect(0, 0, w, h))
	i := 0
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Pix[i] = byte(c.Classify(rect.Min.X+x, rect.Min.Y+y))
			i++
		}
	}
	return img
}

// present uploads the tile grid, anchors the unit at its segment origin and shows it.
func (u *Unit) present(rect image.Rectangle, data *image.Gray) {
	u.surface.SetImage(ParamMapData, data)
	u.surface.SetPosition(
		float32((rect.Min.X+1)*u.tileSize),
		float32((rect.Min.Y+1)*u.tileSize),
	)
	u.surface.SetVisible(true)
}
