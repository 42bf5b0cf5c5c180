//go:build ebiten

package ui

import (
	"image/color"

	"outbreak/internal/outbreak"
	"outbreak/internal/render"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// Overlay draws the day counter and running totals over the outbreak view.
// Key 1 toggles the colour legend, key 2 the keyboard help.
type Overlay struct {
	showLegend bool
	showHelp   bool
	pixel      *ebiten.Image
}

// NewOverlay constructs a new overlay instance.
func NewOverlay() *Overlay {
	o := &Overlay{showLegend: true}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update handles the overlay toggles.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit1) {
		o.showLegend = !o.showLegend
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyDigit2) {
		o.showHelp = !o.showHelp
	}
}

// Draw renders the status lines for res onto screen. paused and done add a
// marker after the day counter.
func (o *Overlay) Draw(screen *ebiten.Image, res outbreak.DayResult, paused, done bool) {
	face := basicfont.Face7x13
	for _, line := range StatusLines(res, paused, done) {
		text.Draw(screen, line.Text, face, overlayPadding, overlayPadding+line.Row*overlayLine, line.Color)
	}
	if o.showLegend {
		o.drawLegend(screen)
	}
	if o.showHelp {
		bottom := screen.Bounds().Dy() - overlayPadding
		for i, line := range helpLines {
			y := bottom - (len(helpLines)-1-i)*overlayLine
			text.Draw(screen, line, face, overlayPadding, y, render.Dead)
		}
	}
}

func (o *Overlay) drawLegend(screen *ebiten.Image) {
	face := basicfont.Face7x13
	right := screen.Bounds().Dx() - overlayPadding
	for i, entry := range legend {
		y := overlayPadding + (i+1)*overlayLine
		x := right - legendWidth
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(swatchSize, swatchSize)
		op.GeoM.Translate(float64(x), float64(y-swatchSize))
		op.ColorScale.ScaleWithColor(entry.color)
		screen.DrawImage(o.pixel, op)
		text.Draw(screen, entry.label, face, x+swatchSize+6, y, render.Dead)
	}
}

var legend = []struct {
	label string
	color color.RGBA
}{
	{"uninfected", render.Uninfected},
	{"infected", render.Infected},
	{"recovered", render.Recovered},
	{"dead", render.Dead},
}

var helpLines = []string{
	"space pause  n step  enter resume",
	"r restart  s new seed  +/- speed",
	"q quit",
}

const (
	overlayPadding = 10
	overlayLine    = 16
	legendWidth    = 100
	swatchSize     = 10
)
