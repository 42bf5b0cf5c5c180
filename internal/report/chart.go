// Package report turns a finished or running outbreak into files: a
// time-series chart, a polar snapshot of the population and an MJPEG
// animation.
package report

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"outbreak/internal/outbreak"
	"outbreak/internal/render"
)

// ErrEmptySeries is returned when there is nothing to chart.
var ErrEmptySeries = errors.New("report: empty series")

// ChartSize is the pixel size of the series chart.
type ChartSize struct {
	Width, Height int
}

// DefaultChartSize matches a typical report figure.
var DefaultChartSize = ChartSize{Width: 960, Height: 480}

// WriteSeriesChart renders infected, recovered and dead counts against day
// as a PNG.
func WriteSeriesChart(w io.Writer, series []outbreak.SeriesPoint, size ChartSize) error {
	if len(series) == 0 {
		return ErrEmptySeries
	}
	if size.Width <= 0 || size.Height <= 0 {
		size = DefaultChartSize
	}

	days := make([]float64, len(series))
	infected := make([]float64, len(series))
	recovered := make([]float64, len(series))
	dead := make([]float64, len(series))
	yMax := 1.0
	for i, p := range series {
		days[i] = float64(p.Day)
		infected[i] = float64(p.CurrentlyInfected)
		recovered[i] = float64(p.Recovered)
		dead[i] = float64(p.Dead)
		yMax = max(yMax, infected[i], recovered[i], dead[i])
	}
	xMin := days[0]
	xMax := max(days[len(days)-1], xMin+1)

	graph := chart.Chart{
		Width:  size.Width,
		Height: size.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  "Day",
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: xMin, Max: xMax},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		YAxis: chart.YAxis{
			Name:  "Individuals",
			Style: chart.Style{FontSize: 10.0},
			Range: &chart.ContinuousRange{Min: 0, Max: yMax},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "Infected",
				XValues: days,
				YValues: infected,
				Style:   chart.Style{StrokeColor: chartColor(render.Infected), StrokeWidth: 3.0},
			},
			chart.ContinuousSeries{
				Name:    "Recovered",
				XValues: days,
				YValues: recovered,
				Style:   chart.Style{StrokeColor: chartColor(render.Recovered), StrokeWidth: 3.0},
			},
			chart.ContinuousSeries{
				Name:    "Deaths",
				XValues: days,
				YValues: dead,
				Style:   chart.Style{StrokeColor: chartColor(render.Dead), StrokeWidth: 3.0},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("report: render chart: %w", err)
	}
	return nil
}

func chartColor(c color.RGBA) drawing.Color {
	return drawing.Color{R: c.R, G: c.G, B: c.B, A: c.A}
}
