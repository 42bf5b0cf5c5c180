package render

import (
	"image"
	"math"

	"outbreak/internal/core"
	"outbreak/internal/layout"
	"outbreak/internal/outbreak"
)

// Canvas rasterizes a polar layout into a square grid of palette indices.
type Canvas struct {
	grid   *core.ByteGrid
	pixels []image.Point
	dot    int
	buf    []byte
}

// NewCanvas places every point of pts on a size x size grid with a margin
// of 4% on each side. dot is the half-width of each drawn marker.
func NewCanvas(size int, pts []layout.Point, dot int) *Canvas {
	if size <= 0 {
		size = 1
	}
	if dot < 0 {
		dot = 0
	}
	c := &Canvas{grid: core.NewByteGrid(size, size), dot: dot}
	half := float64(size-1) / 2
	radius := half * 0.92
	c.pixels = make([]image.Point, len(pts))
	for i, p := range pts {
		x, y := p.XY()
		c.pixels[i] = image.Point{
			X: int(math.Round(half + x*radius)),
			Y: int(math.Round(half - y*radius)),
		}
	}
	c.buf = make([]byte, 4*size*size)
	return c
}

// Size returns the side length in pixels.
func (c *Canvas) Size() int { return c.grid.W }

// Cells exposes the palette-index buffer.
func (c *Canvas) Cells() []uint8 { return c.grid.Cells() }

// PixelOf returns where individual id is drawn.
func (c *Canvas) PixelOf(id int) (image.Point, bool) {
	if id < 0 || id >= len(c.pixels) {
		return image.Point{}, false
	}
	return c.pixels[id], true
}

// Draw repaints every individual from t. Later ids paint over earlier ones
// where markers overlap.
func (c *Canvas) Draw(t *Tracker) {
	c.grid.Fill(cellBackground)
	for id, px := range c.pixels {
		v := cellValue(t.Health(outbreak.IndividualID(id)))
		for dy := -c.dot; dy <= c.dot; dy++ {
			for dx := -c.dot; dx <= c.dot; dx++ {
				c.grid.Set(px.X+dx, px.Y+dy, v)
			}
		}
	}
}

// RGBA converts the current cells to RGBA pixels. The returned slice is
// reused by the next call.
func (c *Canvas) RGBA() []byte {
	FillRGBA(c.buf, c.grid.Cells(), Palette())
	return c.buf
}

// Image returns a copy of the current frame.
func (c *Canvas) Image() *image.RGBA {
	size := c.Size()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	copy(img.Pix, c.RGBA())
	return img
}

// DotRadius picks a marker half-width for n individuals on a canvas of side
// size, so small populations stay visible without markers merging.
func DotRadius(size, n int) int {
	if n <= 0 || size <= 0 {
		return 0
	}
	r := int(float64(size) / (4 * math.Sqrt(float64(n))))
	return max(0, min(r, 6))
}
