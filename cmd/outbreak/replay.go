package main

import (
	"errors"
	"io"
	"log"
	"os"

	"outbreak/internal/app"
	"outbreak/internal/daylog"
	"outbreak/internal/driver"
	"outbreak/internal/outbreak"
	"outbreak/internal/render"
	"outbreak/internal/report"
)

// replay feeds a recorded day log to the same consumers a live run has.
func replay(cfg *app.Config, logger *log.Logger) error {
	r, err := daylog.Open(cfg.Replay)
	if err != nil {
		return err
	}
	defer r.Close()
	hdr := r.Header()
	logger.Printf("replaying population %d, seed %d", hdr.Population, hdr.Seed)

	tracker := render.NewTracker(hdr.Population)
	consumers := []driver.Consumer{driver.ConsumerFunc(func(res outbreak.DayResult) error {
		tracker.Apply(res)
		return nil
	})}
	if !cfg.Quiet {
		consumers = append(consumers, newTable(os.Stdout))
	}
	if cfg.Video != "" {
		v, err := report.NewVideo(cfg.Video, hdr.Population, report.DefaultVideoOptions())
		if err != nil {
			return err
		}
		defer v.Close()
		consumers = append(consumers, v)
	}

	var series []outbreak.SeriesPoint
	var last outbreak.DayResult
	for {
		res, err := r.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		for _, c := range consumers {
			if err := c.Consume(res); err != nil {
				return err
			}
		}
		if res.Day > 0 {
			series = append(series, res.Point())
		}
		last = res
	}

	if err := writeExports(cfg, series, tracker, hdr.Population); err != nil {
		return err
	}
	printSummary(os.Stdout, driver.Summary{
		Days:          last.Day,
		TotalInfected: last.TotalInfected,
		Recovered:     last.TotalRecovered,
		Dead:          last.TotalDead,
		Resolved:      last.TotalRecovered+last.TotalDead == last.TotalInfected,
		Series:        series,
	})
	return nil
}
