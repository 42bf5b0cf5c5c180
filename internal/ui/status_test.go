package ui

import (
	"testing"

	"outbreak/internal/outbreak"
	"outbreak/internal/render"
)

func TestStatusLines(t *testing.T) {
	res := outbreak.DayResult{Day: 12, CurrentlyInfected: 40, TotalRecovered: 7, TotalDead: 1}
	lines := StatusLines(res, true, false)
	want := []string{"Day 12 (paused)", "Infected: 40", "Deaths: 1", "Recovered: 7"}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines", len(lines))
	}
	for i, line := range lines {
		if line.Text != want[i] || line.Row != i+1 {
			t.Fatalf("line %d = %+v, want %q", i, line, want[i])
		}
	}
	if lines[1].Color != render.Infected || lines[3].Color != render.Recovered {
		t.Fatal("status colours do not follow the palette")
	}
	if got := StatusLines(res, true, true)[0].Text; got != "Day 12 (resolved)" {
		t.Fatalf("resolved marker: %q", got)
	}
}
