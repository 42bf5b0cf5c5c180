// Package driver runs an outbreak model one day at a time and hands each
// completed day to its consumers.
package driver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"outbreak/internal/outbreak"
)

// ErrDayLimit is returned when a run hits Options.MaxDays before resolving.
var ErrDayLimit = errors.New("day limit reached")

// Stepper is the part of a model the driver needs.
type Stepper interface {
	AdvanceDay() (outbreak.DayResult, error)
	Done() bool
}

// seeder is implemented by models that can describe their starting day.
type seeder interface {
	Seed() outbreak.DayResult
}

// Consumer receives every day once all of that day's bookkeeping is done.
// Returning an error aborts the run.
type Consumer interface {
	Consume(outbreak.DayResult) error
}

// ConsumerFunc adapts a function to Consumer.
type ConsumerFunc func(outbreak.DayResult) error

// Consume calls f(r).
func (f ConsumerFunc) Consume(r outbreak.DayResult) error { return f(r) }

// Finisher is implemented by consumers that want the run summary once the
// outbreak has resolved.
type Finisher interface {
	Finish(Summary) error
}

// Options tunes a Driver. The zero value runs as fast as possible, without
// a day limit, and logs nothing.
type Options struct {
	Logger *log.Logger

	// Interval paces Run; each day waits this long after the previous one.
	Interval time.Duration

	// MaxDays stops Run with ErrDayLimit. Zero means no limit.
	MaxDays int
}

// Summary is the run-level output: final counters and the full time series.
type Summary struct {
	Days          int                    `json:"days"`
	TotalInfected int                    `json:"total_infected"`
	Recovered     int                    `json:"recovered"`
	Dead          int                    `json:"dead"`
	Resolved      bool                   `json:"resolved"`
	Series        []outbreak.SeriesPoint `json:"series"`
}

// Driver owns the day loop for one model. It is not safe for concurrent use.
type Driver struct {
	model     Stepper
	log       *log.Logger
	opts      Options
	consumers []Consumer

	series   []outbreak.SeriesPoint
	last     outbreak.DayResult
	started  bool
	finished bool
}

// New returns a driver for model.
func New(model Stepper, opts Options) *Driver {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Driver{model: model, log: logger, opts: opts}
}

// Subscribe adds c to the consumers of every following day.
func (d *Driver) Subscribe(c Consumer) {
	if c == nil {
		return
	}
	d.consumers = append(d.consumers, c)
}

// Step advances one day. It reports false once the outbreak has resolved.
// The first call also delivers the model's day-0 seed, when it has one.
func (d *Driver) Step() (outbreak.DayResult, bool, error) {
	if !d.started {
		d.started = true
		if s, ok := d.model.(seeder); ok {
			seed := s.Seed()
			d.last = seed
			if err := d.deliver(seed); err != nil {
				return outbreak.DayResult{}, false, err
			}
		}
	}
	if d.model.Done() {
		return outbreak.DayResult{}, false, d.finish()
	}
	if d.opts.MaxDays > 0 && len(d.series) >= d.opts.MaxDays {
		return outbreak.DayResult{}, false, fmt.Errorf("%w: %d days", ErrDayLimit, d.opts.MaxDays)
	}

	res, err := d.model.AdvanceDay()
	if err != nil {
		return outbreak.DayResult{}, false, err
	}
	d.series = append(d.series, res.Point())
	d.last = res
	if n := len(res.NewlyInfected); n > 0 {
		d.log.Printf("day %d: wave of %d new infections (%d ever infected)", res.Day, n, res.TotalInfected)
	}
	if err := d.deliver(res); err != nil {
		return res, true, err
	}
	if d.model.Done() {
		if err := d.finish(); err != nil {
			return res, true, err
		}
	}
	return res, true, nil
}

// Run steps until the outbreak resolves, the context is cancelled, a
// consumer fails or the day limit is hit. Cancellation is only observed
// between days.
func (d *Driver) Run(ctx context.Context) (Summary, error) {
	var tick <-chan time.Time
	if d.opts.Interval > 0 {
		ticker := time.NewTicker(d.opts.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}
	for {
		if err := ctx.Err(); err != nil {
			return d.Summary(), err
		}
		_, ok, err := d.Step()
		if err != nil {
			return d.Summary(), err
		}
		if !ok {
			return d.Summary(), nil
		}
		if tick != nil {
			select {
			case <-ctx.Done():
				return d.Summary(), ctx.Err()
			case <-tick:
			}
		}
	}
}

// Summary reports the counters and series accumulated so far.
func (d *Driver) Summary() Summary {
	return Summary{
		Days:          d.last.Day,
		TotalInfected: d.last.TotalInfected,
		Recovered:     d.last.TotalRecovered,
		Dead:          d.last.TotalDead,
		Resolved:      d.finished,
		Series:        d.Series(),
	}
}

// Series returns a copy of the time series, one point per simulated day.
func (d *Driver) Series() []outbreak.SeriesPoint {
	return append([]outbreak.SeriesPoint(nil), d.series...)
}

func (d *Driver) deliver(res outbreak.DayResult) error {
	for _, c := range d.consumers {
		if err := c.Consume(res); err != nil {
			return fmt.Errorf("day %d: %w", res.Day, err)
		}
	}
	return nil
}

func (d *Driver) finish() error {
	if d.finished {
		return nil
	}
	d.finished = true
	sum := d.Summary()
	d.log.Printf("outbreak resolved after %d days: %d infected, %d recovered, %d dead",
		sum.Days, sum.TotalInfected, sum.Recovered, sum.Dead)
	for _, c := range d.consumers {
		f, ok := c.(Finisher)
		if !ok {
			continue
		}
		if err := f.Finish(sum); err != nil {
			return err
		}
	}
	return nil
}

// Collect runs model to the end and returns every delivered day, starting
// with the day-0 seed when the model provides one.
func Collect(ctx context.Context, model Stepper, opts Options) ([]outbreak.DayResult, Summary, error) {
	var days []outbreak.DayResult
	d := New(model, opts)
	d.Subscribe(ConsumerFunc(func(r outbreak.DayResult) error {
		days = append(days, r)
		return nil
	}))
	sum, err := d.Run(ctx)
	return days, sum, err
}
