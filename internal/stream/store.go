package stream

import (
	"context"
	"fmt"
	"image"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/tilestream/internal/logger"
)

// Options configures a Store.
type Options struct {
	SegmentSize int // Tiles per segment side, power of two
	Overscan    int // Extra segments kept around the view
	TileSize    int // Pixels per tile

	// Shared read-only textures bound to every unit; either may be nil
	Atlas image.Image
	Blend image.Image
}

// Stats is a snapshot of store bookkeeping.
type Stats struct {
	Active      int // Units bound to a segment
	Pooled      int // Units waiting for reuse
	Created     int // Units ever constructed
	Activations int
	Retirements int
	Broadcasts  int
}

// Store tracks active segments, owns the unit pool and publishes the window.
type Store struct {
	opts       Options
	camera     Camera
	classifier Classifier
	newSurface SurfaceFactory
	log        *zap.Logger

	units   []*Unit // Arena; a unit's Handle is its index
	active  map[SegmentCoord]Handle
	pool    []Handle
	bus     windowBus
	mail    mailbox
	pending []pendingRender

	window    Window
	published bool

	activations int
	retirements int
	broadcasts  int
}

// NewStore creates a store polling camera and rendering with classifier.
func NewStore(opts Options, camera Camera, classifier Classifier, surfaces SurfaceFactory) (*Store, error) {
	if opts.SegmentSize <= 0 || opts.SegmentSize&(opts.SegmentSize-1) != 0 {
		return nil, fmt.Errorf("segment size %d is not a power of two", opts.SegmentSize)
	}
	if opts.Overscan < 0 {
		return nil, fmt.Errorf("overscan %d is negative", opts.Overscan)
	}
	if opts.TileSize <= 0 {
		return nil, fmt.Errorf("tile size %d must be positive", opts.TileSize)
	}
	if camera == nil || classifier == nil || surfaces == nil {
		return nil, fmt.Errorf("store needs a camera, a classifier and a surface factory")
	}

	return &Store{
		opts:       opts,
		camera:     camera,
		classifier: classifier,
		newSurface: surfaces,
		log:        logger.Named("stream"),
		active:     make(map[SegmentCoord]Handle),
	}, nil
}

// Tick runs one update: apply pending retirements, activate every segment of
// the current window, publish the window if it changed, then render the
// segments activated in this tick.
func (s *Store) Tick(ctx context.Context) error {
	s.applyRetirements()

	w := ComputeVisibleWindow(s.camera.ViewRect(), s.opts.SegmentSize, s.opts.Overscan)
	for y := w.Min.Y; y < w.Max.Y; y++ {
		for x := w.Min.X; x < w.Max.X; x++ {
			if err := s.Activate(SegmentCoord{X: x, Y: y}); err != nil {
				return err
			}
		}
	}

	if !s.published || w != s.window {
		s.window = w
		s.published = true
		s.broadcasts++
		s.log.Debug("window changed", zap.Stringer("window", w))
		s.bus.publish(w)
		s.applyRetirements()
	}

	return s.renderPending(ctx)
}

// Activate binds a unit to seg, reusing a pooled unit when one is available.
// Activating an active segment does nothing. A segment outside the window is
// accepted and retires at the next window broadcast.
func (s *Store) Activate(seg SegmentCoord) error {
	if _, ok := s.active[seg]; ok {
		return nil
	}

	var u *Unit
	if n := len(s.pool); n > 0 {
		u = s.units[s.pool[n-1]]
		s.pool = s.pool[:n-1]
	} else {
		u = s.newUnit()
	}

	if err := u.bind(seg, &s.bus, &s.mail); err != nil {
		return err
	}
	s.active[seg] = u.handle
	s.pending = append(s.pending, pendingRender{handle: u.handle, segment: seg})
	s.activations++

	s.log.Debug("segment activated",
		zap.Stringer("segment", seg),
		zap.String("unit", u.name),
	)
	return nil
}

// newUnit constructs a unit and binds the shared parameters to its surface.
func (s *Store) newUnit() *Unit {
	h := Handle(len(s.units))
	name := fmt.Sprintf("Segment%d", h+1)
	u := &Unit{
		handle:      h,
		name:        name,
		surface:     s.newSurface(name),
		segmentSize: s.opts.SegmentSize,
		tileSize:    s.opts.TileSize,
	}

	surf := u.surface
	surf.SetVisible(false)
	if s.opts.Atlas != nil {
		surf.SetImage(ParamTextureAtlas, s.opts.Atlas)
	}
	if s.opts.Blend != nil {
		surf.SetImage(ParamBlendTexture, s.opts.Blend)
	}
	size := float32(s.opts.SegmentSize)
	surf.SetScalar(ParamTilesCountX, size)
	surf.SetScalar(ParamTilesCountY, size)
	surf.SetScalar(ParamTileSize, float32(s.opts.TileSize))
	surf.SetScalar(ParamHalfTileSize, float32(s.opts.TileSize)/2)
	surf.SetScale(size, size)

	s.units = append(s.units, u)
	return u
}

// applyRetirements moves retired units from the active map to the pool.
// A retirement for a segment that is not held by the posting unit is ignored.
func (s *Store) applyRetirements() {
	for _, r := range s.mail.drain() {
		h, ok := s.active[r.segment]
		if !ok || h != r.handle {
			continue
		}
		delete(s.active, r.segment)
		s.pool = append(s.pool, r.handle)
		s.retirements++
		s.log.Debug("segment retired",
			zap.Stringer("segment", r.segment),
			zap.String("unit", s.units[r.handle].name),
		)
	}
}

// renderPending performs the initial renders queued since the last render phase.
// Classification runs in parallel; surfaces are only touched on this goroutine.
func (s *Store) renderPending(ctx context.Context) error {
	jobs := s.pending
	if len(jobs) == 0 {
		return nil
	}

	rects := make([]image.Rectangle, len(jobs))
	data := make([]*image.Gray, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, job := range jobs {
		rects[i] = paddedRect(job.segment, s.opts.SegmentSize)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data[i] = tileData(rects[i], s.classifier)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		// Jobs stay queued for the next render phase
		return fmt.Errorf("rendering segments: %w", err)
	}
	s.pending = nil

	for i, job := range jobs {
		u := s.units[job.handle]
		// The unit may have been rebound or pooled since the render was queued
		if seg, bound := u.Segment(); !bound || seg != job.segment {
			continue
		}
		u.present(rects[i], data[i])
	}
	return nil
}

// SetParameter binds a named parameter on every unit, active and pooled.
// value must be an image.Image or a number.
func (s *Store) SetParameter(name string, value any) error {
	var apply func(Surface)
	switch v := value.(type) {
	case image.Image:
		apply = func(surf Surface) { surf.SetImage(name, v) }
	case float32:
		apply = func(surf Surface) { surf.SetScalar(name, v) }
	case float64:
		apply = func(surf Surface) { surf.SetScalar(name, float32(v)) }
	case int:
		apply = func(surf Surface) { surf.SetScalar(name, float32(v)) }
	default:
		return fmt.Errorf("parameter %s: unsupported value type %T", name, value)
	}

	for _, u := range s.units {
		apply(u.surface)
	}
	return nil
}

// Window returns the last published window, and false before the first tick.
func (s *Store) Window() (Window, bool) {
	return s.window, s.published
}

// Unit returns the unit rendering seg, if any.
func (s *Store) Unit(seg SegmentCoord) (*Unit, bool) {
	h, ok := s.active[seg]
	if !ok {
		return nil, false
	}
	return s.units[h], true
}

// Units calls fn for every unit ever constructed, in handle order.
func (s *Store) Units(fn func(*Unit)) {
	for _, u := range s.units {
		fn(u)
	}
}

// Stats returns current counters.
func (s *Store) Stats() Stats {
	return Stats{
		Active:      len(s.active),
		Pooled:      len(s.pool),
		Created:     len(s.units),
		Activations: s.activations,
		Retirements: s.retirements,
		Broadcasts:  s.broadcasts,
	}
}
