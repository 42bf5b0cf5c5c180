package ui

import (
	"fmt"
	"image/color"

	"outbreak/internal/outbreak"
	"outbreak/internal/render"
)

// StatusLine is one line of the status annotation.
type StatusLine struct {
	Row   int
	Text  string
	Color color.RGBA
}

// StatusLines formats the day and the running totals of res.
func StatusLines(res outbreak.DayResult, paused, done bool) []StatusLine {
	day := fmt.Sprintf("Day %d", res.Day)
	switch {
	case done:
		day += " (resolved)"
	case paused:
		day += " (paused)"
	}
	return []StatusLine{
		{Row: 1, Text: day, Color: render.Dead},
		{Row: 2, Text: fmt.Sprintf("Infected: %d", res.CurrentlyInfected), Color: render.Infected},
		{Row: 3, Text: fmt.Sprintf("Deaths: %d", res.TotalDead), Color: render.Dead},
		{Row: 4, Text: fmt.Sprintf("Recovered: %d", res.TotalRecovered), Color: render.Recovered},
	}
}
