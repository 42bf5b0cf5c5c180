package app

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"

	"outbreak/internal/core"
	"outbreak/internal/outbreak"
)

// ErrUnknownPreset is returned for a -preset name nobody registered.
var ErrUnknownPreset = errors.New("unknown preset")

// Config represents the command-line parameters shared by the viewer and
// the headless runner.
type Config struct {
	Preset     string
	ConfigPath string
	Population int
	Seed       int64
	R0         float64
	Overrides  map[string]string

	DaysPerSecond float64
	Size          int
	HUDWidth      int
	TPS           int

	Chart    string
	Snapshot string
	Video    string
	DayLog   string
	Replay   string
	Serve    string
	Interval time.Duration
	MaxDays  int
	Quiet    bool

	seedSet bool
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Preset:        "covid19",
		R0:            -1,
		Overrides:     map[string]string{},
		DaysPerSecond: 4,
		Size:          640,
		HUDWidth:      260,
		TPS:           60,
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.Preset, "preset", c.Preset, "disease preset: "+strings.Join(core.PresetNames(), ", "))
	fs.StringVar(&c.ConfigPath, "config", c.ConfigPath, "YAML config file applied before the preset")
	fs.IntVar(&c.Population, "population", c.Population, "population size (0 keeps the configured one)")
	fs.Func("seed", "random seed", func(v string) error {
		parsed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return err
		}
		c.Seed = parsed
		c.seedSet = true
		return nil
	})
	fs.Float64Var(&c.R0, "r0", c.R0, "basic reproduction number (negative keeps the configured one)")
	fs.Func("set", "override a parameter as key=value; repeatable", func(v string) error {
		key, value, ok := strings.Cut(v, "=")
		if !ok || key == "" {
			return fmt.Errorf("expected key=value, got %q", v)
		}
		c.Overrides[strings.TrimSpace(key)] = strings.TrimSpace(value)
		return nil
	})

	fs.Float64Var(&c.DaysPerSecond, "days-per-second", c.DaysPerSecond, "viewer pacing")
	fs.IntVar(&c.Size, "size", c.Size, "viewer disc size in pixels")
	fs.IntVar(&c.HUDWidth, "hud", c.HUDWidth, "viewer parameter panel width (0 hides it)")
	fs.IntVar(&c.TPS, "tps", c.TPS, "viewer frames per second")

	fs.StringVar(&c.Chart, "chart", c.Chart, "write the time-series chart PNG here")
	fs.StringVar(&c.Snapshot, "snapshot", c.Snapshot, "write the final polar snapshot PNG here")
	fs.StringVar(&c.Video, "video", c.Video, "write an MJPEG AVI of the run here")
	fs.StringVar(&c.DayLog, "daylog", c.DayLog, "write the zstd JSONL day log here")
	fs.StringVar(&c.Replay, "replay", c.Replay, "print a recorded day log instead of running")
	fs.StringVar(&c.Serve, "serve", c.Serve, "serve observers on this address, e.g. 127.0.0.1:8080")
	fs.DurationVar(&c.Interval, "interval", c.Interval, "wait between days in headless runs")
	fs.IntVar(&c.MaxDays, "max-days", c.MaxDays, "abort after this many days (0 means no limit)")
	fs.BoolVar(&c.Quiet, "quiet", c.Quiet, "suppress the per-day table")
}

// OutbreakConfig resolves the config file, the preset and the individual
// flag overrides, in that order, into a validated run configuration.
func (c *Config) OutbreakConfig() (outbreak.Config, error) {
	cfg := outbreak.DefaultConfig()
	if c.ConfigPath != "" {
		loaded, err := outbreak.Load(c.ConfigPath)
		if err != nil {
			return outbreak.Config{}, err
		}
		cfg = loaded
	}
	if c.Preset != "" {
		preset, ok := core.LookupPreset(c.Preset)
		if !ok {
			return outbreak.Config{}, fmt.Errorf("%w %q (known: %s)", ErrUnknownPreset, c.Preset, strings.Join(core.PresetNames(), ", "))
		}
		cfg = cfg.Apply(preset.Values)
	}

	overrides := make(map[string]string, len(c.Overrides)+3)
	for k, v := range c.Overrides {
		overrides[k] = v
	}
	if c.Population > 0 {
		overrides["population"] = strconv.Itoa(c.Population)
	}
	if c.seedSet {
		overrides["seed"] = strconv.FormatInt(c.Seed, 10)
	}
	if c.R0 >= 0 {
		overrides["r0"] = strconv.FormatFloat(c.R0, 'g', -1, 64)
	}
	cfg = cfg.Apply(overrides)
	if err := cfg.Validate(); err != nil {
		return outbreak.Config{}, err
	}
	return cfg, nil
}
