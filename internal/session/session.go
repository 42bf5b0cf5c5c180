// Package session wraps one outbreak run so interactive front ends can
// step it frame by frame, restart it and retune it between runs.
package session

import (
	"fmt"
	"io"
	"log"
	"math"
	"strconv"

	"outbreak/internal/core"
	"outbreak/internal/driver"
	"outbreak/internal/outbreak"
)

// Session owns the current model and its driver. Changing a parameter or
// resetting rebuilds both; subscribed consumers carry over.
type Session struct {
	cfg       outbreak.Config
	log       *log.Logger
	model     *outbreak.Model
	drv       *driver.Driver
	consumers []driver.Consumer
	last      outbreak.DayResult
	runs      int
}

var (
	_ core.Sim                       = (*Session)(nil)
	_ core.ParameterProvider         = (*Session)(nil)
	_ core.ParameterControlsProvider = (*Session)(nil)
	_ core.IntParameterSetter        = (*Session)(nil)
	_ core.FloatParameterSetter      = (*Session)(nil)
)

// New validates cfg and starts the first run. A nil logger discards output.
func New(cfg outbreak.Config, logger *log.Logger) (*Session, error) {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &Session{log: logger}
	if err := s.start(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// Name identifies the simulation.
func (s *Session) Name() string { return "outbreak" }

// Population returns the number of individuals in the current run.
func (s *Session) Population() int { return s.cfg.Population }

// Day returns the current simulated day.
func (s *Session) Day() int { return s.model.Day() }

// Done reports whether the current run has resolved.
func (s *Session) Done() bool { return s.model.Done() }

// Config returns the configuration of the current run.
func (s *Session) Config() outbreak.Config { return s.cfg }

// Model exposes the current run's model.
func (s *Session) Model() *outbreak.Model { return s.model }

// Last returns the most recently delivered day.
func (s *Session) Last() outbreak.DayResult { return s.last }

// Runs counts how many runs this session has started.
func (s *Session) Runs() int { return s.runs }

// Logger is the logger the session reports runs and rejected changes to.
func (s *Session) Logger() *log.Logger { return s.log }

// Summary reports the current run so far.
func (s *Session) Summary() driver.Summary { return s.drv.Summary() }

// Subscribe attaches c to the current and every later run.
func (s *Session) Subscribe(c driver.Consumer) {
	if c == nil {
		return
	}
	s.consumers = append(s.consumers, c)
	s.drv.Subscribe(c)
}

// Reset restarts the run with the same parameters and a new seed.
func (s *Session) Reset(seed int64) error {
	cfg := s.cfg
	cfg.Seed = seed
	return s.start(cfg)
}

// Step advances one day. Stepping a resolved run is a no-op.
func (s *Session) Step() error {
	res, ok, err := s.drv.Step()
	if err != nil {
		return err
	}
	if ok {
		s.last = res
	}
	return nil
}

// Parameters describes the current configuration.
func (s *Session) Parameters() core.ParameterSnapshot { return s.cfg.Parameters() }

// ParameterControls lists the values the HUD may change.
func (s *Session) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{
		{Key: "population", Label: "Population", Type: core.ParamTypeInt, Step: 500, Min: 10, HasMin: true, Max: 100000, HasMax: true},
		{Key: "r0", Label: "R0", Type: core.ParamTypeFloat, Step: 0.1, Min: 0, HasMin: true, Max: 10, HasMax: true},
		{Key: "serial_interval", Label: "Serial interval", Type: core.ParamTypeInt, Step: 1, Min: 1, HasMin: true, Max: 30, HasMax: true},
		{Key: "incubation_days", Label: "Incubation days", Type: core.ParamTypeInt, Step: 1, Min: 0, HasMin: true, Max: 30, HasMax: true},
		{Key: "percent_severe", Label: "Severe share", Type: core.ParamTypeFloat, Step: 0.05, Min: 0, HasMin: true, Max: 1, HasMax: true},
		{Key: "fatality_rate", Label: "Fatality rate", Type: core.ParamTypeFloat, Step: 0.005, Min: 0, HasMin: true, Max: 1, HasMax: true},
	}
}

// SetIntParameter restarts the run with key set to value. It reports false
// and keeps the current run when the result would be invalid.
func (s *Session) SetIntParameter(key string, value int) bool {
	switch key {
	case "population", "serial_interval", "incubation_days":
	default:
		return false
	}
	return s.retune(s.cfg.Apply(map[string]string{key: strconv.Itoa(value)}))
}

// SetFloatParameter restarts the run with key set to value. Changing the
// severe share moves the mild share with it and caps the fatality rate.
func (s *Session) SetFloatParameter(key string, value float64) bool {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return false
	}
	cfg := s.cfg
	switch key {
	case "r0":
		cfg.Params.R0 = value
	case "fatality_rate":
		cfg.Params.FatalityRate = value
	case "percent_severe":
		cfg.Params.PercentSevere = value
		cfg.Params.PercentMild = 1 - value
		if cfg.Params.FatalityRate > value {
			cfg.Params.FatalityRate = value
		}
	default:
		return false
	}
	return s.retune(cfg)
}

func (s *Session) retune(cfg outbreak.Config) bool {
	if err := s.start(cfg); err != nil {
		s.log.Printf("session: keeping current run: %v", err)
		return false
	}
	return true
}

func (s *Session) start(cfg outbreak.Config) error {
	model, err := outbreak.New(cfg)
	if err != nil {
		return fmt.Errorf("session: %w", err)
	}
	drv := driver.New(model, driver.Options{Logger: s.log})
	for _, c := range s.consumers {
		drv.Subscribe(c)
	}
	s.cfg = cfg
	s.model = model
	s.drv = drv
	s.last = model.Seed()
	s.runs++
	s.log.Printf("session: run %d, population %d, seed %d", s.runs, cfg.Population, cfg.Seed)
	return nil
}
