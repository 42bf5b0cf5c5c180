package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"outbreak/internal/driver"
	"outbreak/internal/outbreak"
)

// table prints one row per delivered day.
type table struct {
	tw     *tabwriter.Writer
	header bool
}

func newTable(w io.Writer) *table {
	return &table{tw: tabwriter.NewWriter(w, 0, 8, 2, ' ', tabwriter.AlignRight)}
}

func (t *table) Consume(res outbreak.DayResult) error {
	if !t.header {
		t.header = true
		fmt.Fprintln(t.tw, "day\tnew\tinfected\trecovered\tdead\ttotal\t")
	}
	_, err := fmt.Fprintf(t.tw, "%d\t%d\t%d\t%d\t%d\t%d\t\n",
		res.Day, len(res.NewlyInfected), res.CurrentlyInfected, res.TotalRecovered, res.TotalDead, res.TotalInfected)
	if err != nil {
		return err
	}
	// Flush per day so paced runs print as they go.
	return t.tw.Flush()
}

func (t *table) Finish(driver.Summary) error { return t.tw.Flush() }

func printSummary(w io.Writer, sum driver.Summary) {
	state := "resolved"
	if !sum.Resolved {
		state = "unresolved"
	}
	fmt.Fprintf(w, "%s after %d days: %d infected, %d recovered, %d dead\n",
		state, sum.Days, sum.TotalInfected, sum.Recovered, sum.Dead)
}
