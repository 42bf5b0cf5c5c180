package render

import (
	"image/color"

	"outbreak/internal/outbreak"
)

// Cell values: 0 is background, 1+Health is an individual.
const cellBackground uint8 = 0

var (
	Background = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Uninfected = color.RGBA{R: 199, G: 199, B: 199, A: 255}
	Infected   = color.RGBA{R: 245, G: 38, B: 38, A: 255}
	Recovered  = color.RGBA{R: 0, G: 219, B: 8, A: 255}
	Dead       = color.RGBA{R: 0, G: 0, B: 0, A: 255}
)

var healthPalette = buildPalette()

// Palette maps cell values to colours.
func Palette() []color.RGBA { return healthPalette }

func buildPalette() []color.RGBA {
	palette := make([]color.RGBA, 1+outbreak.NumHealth)
	palette[cellBackground] = Background
	for h := 0; h < outbreak.NumHealth; h++ {
		palette[cellValue(outbreak.Health(h))] = ColorOf(outbreak.Health(h))
	}
	return palette
}

// ColorOf returns the display colour for h: grey uninfected, red infected,
// green recovered, black dead.
func ColorOf(h outbreak.Health) color.RGBA {
	switch h {
	case outbreak.InfectedMild, outbreak.InfectedSevere:
		return Infected
	case outbreak.Recovered:
		return Recovered
	case outbreak.Dead:
		return Dead
	default:
		return Uninfected
	}
}

func cellValue(h outbreak.Health) uint8 { return uint8(h) + 1 }
