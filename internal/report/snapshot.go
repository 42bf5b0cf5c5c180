package report

import (
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"outbreak/internal/layout"
	"outbreak/internal/outbreak"
	"outbreak/internal/render"
)

// HealthSource reports the health of individual id.
type HealthSource interface {
	Health(id outbreak.IndividualID) outbreak.Health
}

type snapshotGroup struct {
	label string
	color color.RGBA
	match func(outbreak.Health) bool
}

var snapshotGroups = []snapshotGroup{
	{"Uninfected", render.Uninfected, func(h outbreak.Health) bool { return h == outbreak.Susceptible || h == outbreak.Exposed }},
	{"Infected", render.Infected, outbreak.Health.Infected},
	{"Recovered", render.Recovered, func(h outbreak.Health) bool { return h == outbreak.Recovered }},
	{"Deaths", render.Dead, func(h outbreak.Health) bool { return h == outbreak.Dead }},
}

// WritePolarSnapshot draws every individual at its sunflower position,
// coloured by health, and writes the plot as a PNG of side inches.
func WritePolarSnapshot(w io.Writer, src HealthSource, n int, title string, side vg.Length) error {
	if side <= 0 {
		side = 6 * vg.Inch
	}
	pts := layout.Sunflower(n)

	p := plot.New()
	p.Title.Text = title
	p.HideAxes()
	p.Legend.Top = true

	for _, g := range snapshotGroups {
		var xys plotter.XYs
		for id, pt := range pts {
			if !g.match(src.Health(outbreak.IndividualID(id))) {
				continue
			}
			x, y := pt.XY()
			xys = append(xys, plotter.XY{X: x, Y: y})
		}
		if len(xys) == 0 {
			continue
		}
		s, err := plotter.NewScatter(xys)
		if err != nil {
			return fmt.Errorf("report: %s scatter: %w", g.label, err)
		}
		s.GlyphStyle.Color = g.color
		s.GlyphStyle.Radius = vg.Points(1.5)
		s.GlyphStyle.Shape = draw.CircleGlyph{}
		p.Add(s)
		p.Legend.Add(g.label, s)
	}
	p.X.Min, p.X.Max = -1.05, 1.05
	p.Y.Min, p.Y.Max = -1.05, 1.05

	wt, err := p.WriterTo(side, side, "png")
	if err != nil {
		return fmt.Errorf("report: snapshot canvas: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("report: write snapshot: %w", err)
	}
	return nil
}
