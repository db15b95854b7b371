package blend

import (
	"context"
	"image"
	"image/color"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/tilestream/internal/noise"
	tsmath "github.com/Faultbox/tilestream/pkg/math"
)

// Weights are the four blend percentages of one pixel.
// X is the horizontal neighbour, Y the vertical one, Corner the diagonal one
// and Self the tile's own texture.
type Weights struct {
	X, Y, Corner, Self uint8
}

// Sum returns X + Y + Corner + Self.
func (w Weights) Sum() int {
	return int(w.X) + int(w.Y) + int(w.Corner) + int(w.Self)
}

// Field is a generated blend mask. It is read-only after Generate returns.
type Field struct {
	TileSize    int
	Repetitions int
	Size        int // Pixels per side, TileSize * Repetitions
	Pix         []Weights
}

// At returns the weights of pixel (x, y).
func (f *Field) At(x, y int) Weights {
	return f.Pix[y*f.Size+x]
}

// Image encodes the field as RGBA = (X, Y, Corner, Self). Channel bytes hold the
// raw percentage so a sampler reading value/255 gets the normalized weight.
func (f *Field) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, f.Size, f.Size))
	for i, w := range f.Pix {
		o := i * 4
		img.Pix[o] = w.X
		img.Pix[o+1] = w.Y
		img.Pix[o+2] = w.Corner
		img.Pix[o+3] = w.Self
	}
	return img
}

// NRGBAAt is a convenience for debugging single pixels.
func (f *Field) NRGBAAt(x, y int) color.NRGBA {
	w := f.At(x, y)
	return color.NRGBA{R: w.X, G: w.Y, B: w.Corner, A: w.Self}
}

// generator holds the per-run noise fields.
type generator struct {
	p                      Params
	noiseX, noiseY, noiseC *noise.Field
}

// Generate computes the blend mask. Rows are generated in parallel; the result
// does not depend on scheduling.
func Generate(ctx context.Context, p Params) (*Field, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	g := &generator{
		p:      p,
		noiseX: noise.New(p.SeedX, p.Noise),
		noiseY: noise.New(p.SeedY, p.Noise),
		noiseC: noise.New(p.SeedCorner, p.Noise),
	}

	size := p.TileSize * p.Repetitions
	field := &Field{
		TileSize:    p.TileSize,
		Repetitions: p.Repetitions,
		Size:        size,
		Pix:         make([]Weights, size*size),
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for py := 0; py < size; py++ {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			row := field.Pix[py*size : (py+1)*size]
			for px := range row {
				row[px] = g.pixel(px, py)
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return field, nil
}

// pixel computes the weights at global mask position (gx, gy).
func (g *generator) pixel(gx, gy int) Weights {
	p := g.p
	t := p.TileSize
	x := gx % t
	y := gy % t

	// Nearest edges
	xEdge, yEdge := 0, 0
	if x >= t/2 {
		xEdge = t - 1
	}
	if y >= t/2 {
		yEdge = t - 1
	}

	dx := math.Abs(float64(x - xEdge))
	dy := math.Abs(float64(y - yEdge))
	dc := math.Hypot(dx, dy)

	xs := falloff(dx, p.SmoothEdge, p.MaxEdge)
	ys := falloff(dy, p.SmoothEdge, p.MaxEdge)
	cs := falloff(dc, p.SmoothCorner, p.MaxCorner)

	// Perturbation grows towards the tile interior and vanishes on the edge itself
	fx, fy := float64(gx), float64(gy)
	xs = perturb(xs, g.noiseX.At(fx, fy)*dx/p.SmoothEdge, p.MaxEdge)
	ys = perturb(ys, g.noiseY.At(fx, fy)*dy/p.SmoothEdge, p.MaxEdge)
	cs = perturb(cs, g.noiseC.At(fx, fy)*dc/p.SmoothCorner, p.MaxCorner)

	xi := int(math.Round(xs))
	yi := int(math.Round(ys))
	ci := int(math.Round(cs))

	// Corner influence wins where it overlaps the edges
	xi = max(0, xi-ci)
	yi = max(0, yi-ci)

	return Weights{
		X:      uint8(xi),
		Y:      uint8(yi),
		Corner: uint8(ci),
		Self:   uint8(Total - xi - yi - ci),
	}
}

// falloff is the rounded percentage at distance d for a smoothstep falloff of radius r.
func falloff(d, r, maxPct float64) float64 {
	return math.Round((1 - tsmath.Smoothstep(0, r, math.Min(d, r))) * maxPct)
}

// perturb scales v by (1 - n) and clamps the result to [0, maxPct].
func perturb(v, n, maxPct float64) float64 {
	return tsmath.Clamp(v*(1-n), 0, maxPct)
}
