//go:build ebiten

package render

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Painter uploads a Canvas into an ebiten image and draws it.
type Painter struct {
	size int
	img  *ebiten.Image
}

// NewPainter allocates a painter for canvases of the given side length.
func NewPainter(size int) *Painter {
	return &Painter{size: size, img: ebiten.NewImage(size, size)}
}

// Blit uploads the canvas pixels and draws them onto dst at the given offset.
func (p *Painter) Blit(dst *ebiten.Image, c *Canvas, offsetX, offsetY float64) {
	if c.Size() != p.size {
		return
	}
	p.img.WritePixels(c.RGBA())

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(offsetX, offsetY)
	dst.DrawImage(p.img, op)
}
