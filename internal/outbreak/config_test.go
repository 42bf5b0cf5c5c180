package outbreak

import (
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"zero population", func(c *Config) { c.Population = 0 }, false},
		{"shares do not sum to one", func(c *Config) { c.Params.PercentMild = 0.7 }, false},
		{"fatality above severe share", func(c *Config) { c.Params.FatalityRate = 0.25 }, false},
		{"fatality equals severe share", func(c *Config) { c.Params.FatalityRate = 0.2 }, true},
		{"negative r0", func(c *Config) { c.Params.R0 = -1 }, false},
		{"infinite r0", func(c *Config) { c.Params.R0 = math.Inf(1) }, false},
		{"nan r0", func(c *Config) { c.Params.R0 = math.NaN() }, false},
		{"huge r0", func(c *Config) { c.Params.R0 = 1e19 }, true},
		{"zero serial interval", func(c *Config) { c.Params.SerialInterval = 0 }, false},
		{"inverted range", func(c *Config) { c.Params.SevereDeath = DayRange{Low: 10, High: 5} }, false},
		{"degenerate range", func(c *Config) { c.Params.MildRecovery = DayRange{Low: 7, High: 7} }, true},
		{"same-day transition", func(c *Config) {
			c.Params.IncubationDays = 0
			c.Params.SevereDeath = DayRange{Low: 0, High: 3}
		}, false},
		{"mild only", func(c *Config) {
			c.Params.PercentMild, c.Params.PercentSevere, c.Params.FatalityRate = 1, 0, 0
		}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrInvalidParameters) {
				t.Fatalf("expected ErrInvalidParameters, got %v", err)
			}
			if _, newErr := New(cfg); (newErr == nil) != tc.ok {
				t.Fatalf("New disagreed with Validate: %v", newErr)
			}
		})
	}
}

func TestFromMap(t *testing.T) {
	cfg := FromMap(map[string]string{
		"population":      "250",
		"r0":              "3.1",
		"mild_recovery":   "4..9",
		"serial_interval": "bogus",
		"seed":            "77",
	})
	if cfg.Population != 250 || cfg.Seed != 77 || cfg.Params.R0 != 3.1 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.Params.MildRecovery != (DayRange{Low: 4, High: 9}) {
		t.Fatalf("mild recovery = %v", cfg.Params.MildRecovery)
	}
	if cfg.Params.SerialInterval != 7 {
		t.Fatalf("bad value should keep default, got %d", cfg.Params.SerialInterval)
	}
	if FromMap(nil) != DefaultConfig() {
		t.Fatal("nil map should yield defaults")
	}
}

func TestParseDayRange(t *testing.T) {
	for _, in := range []string{"7..14", "7,14", " 7 - 14 "} {
		r, err := ParseDayRange(in)
		if err != nil || r != (DayRange{Low: 7, High: 14}) {
			t.Fatalf("ParseDayRange(%q) = %v, %v", in, r, err)
		}
	}
	if _, err := ParseDayRange("seven"); err == nil {
		t.Fatal("expected error")
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "outbreak.yaml")
	doc := `
population: 1200
seed: 5
disease:
  r0: 1.8
  mild_recovery: [6, 10]
  fatality_rate: 0.02
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Population != 1200 || cfg.Seed != 5 || cfg.Params.R0 != 1.8 || cfg.Params.FatalityRate != 0.02 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Params.MildRecovery != (DayRange{Low: 6, High: 10}) {
		t.Fatalf("mild recovery = %v", cfg.Params.MildRecovery)
	}
	if cfg.Params.SevereDeath != DefaultParams().SevereDeath || cfg.Params.IncubationDays != 5 {
		t.Fatalf("missing keys should keep defaults: %+v", cfg.Params)
	}
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"unknown key":       "population: 10\ncolour: red\n",
		"unknown disease":   "disease:\n  masks: true\n",
		"negative r0":       "disease:\n  r0: -2\n",
		"short range":       "disease:\n  severe_death: [14]\n",
		"shares off":        "disease:\n  percent_mild: 0.5\n",
		"fatal above share": "disease:\n  fatality_rate: 0.5\n",
		"empty":             "",
	}
	for name, doc := range cases {
		if _, err := Parse([]byte(doc)); !errors.Is(err, ErrInvalidParameters) {
			t.Fatalf("%s: expected ErrInvalidParameters, got %v", name, err)
		}
	}
	if _, err := Parse([]byte("population: [")); err == nil || !strings.Contains(err.Error(), "config") {
		t.Fatalf("expected yaml syntax error, got %v", err)
	}
}

func TestDayRangeJSON(t *testing.T) {
	b, err := json.Marshal(DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), `"severe_death":[14,56]`) {
		t.Fatalf("unexpected encoding %s", b)
	}
	var p Params
	if err := json.Unmarshal(b, &p); err != nil {
		t.Fatal(err)
	}
	if p != DefaultParams() {
		t.Fatalf("decoded %+v", p)
	}
}

func TestParametersSnapshot(t *testing.T) {
	snap := DefaultConfig().Parameters()
	if p, ok := snap.Find("r0"); !ok || p.Value != "2.3" {
		t.Fatalf("r0 param = %+v %v", p, ok)
	}
	if p, ok := snap.Find("severe_death"); !ok || p.Value != "14..56" {
		t.Fatalf("severe_death param = %+v %v", p, ok)
	}
}
