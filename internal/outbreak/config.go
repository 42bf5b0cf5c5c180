package outbreak

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

// DefaultPopulation is the reference population size.
const DefaultPopulation = 5000

// Config bundles everything needed to start one run.
type Config struct {
	Population int    `yaml:"population" json:"population"`
	Seed       int64  `yaml:"seed" json:"seed"`
	Params     Params `yaml:"disease" json:"disease"`
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() Config {
	return Config{
		Population: DefaultPopulation,
		Seed:       42,
		Params:     DefaultParams(),
	}
}

// Validate checks the population size and the disease parameters.
func (c Config) Validate() error {
	if c.Population <= 0 {
		return fmt.Errorf("%w: population must be > 0, got %d", ErrInvalidParameters, c.Population)
	}
	return c.Params.Validate()
}

// FromMap populates the config from a string map (flag-style key/value pairs).
func FromMap(cfg map[string]string) Config {
	return DefaultConfig().Apply(cfg)
}

// Apply returns a copy of c with the recognised keys of cfg overridden.
// Unparseable values are ignored.
func (c Config) Apply(cfg map[string]string) Config {
	if cfg == nil {
		return c
	}
	if v, ok := cfg["population"]; ok {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			c.Population = parsed
		}
	}
	if v, ok := cfg["seed"]; ok {
		if parsed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = parsed
		}
	}
	floats := map[string]*float64{
		"r0":             &c.Params.R0,
		"percent_mild":   &c.Params.PercentMild,
		"percent_severe": &c.Params.PercentSevere,
		"fatality_rate":  &c.Params.FatalityRate,
	}
	for key, dst := range floats {
		if v, ok := cfg[key]; ok {
			if parsed, err := strconv.ParseFloat(v, 64); err == nil && parsed >= 0 {
				*dst = parsed
			}
		}
	}
	ints := map[string]*int{
		"incubation_days": &c.Params.IncubationDays,
		"serial_interval": &c.Params.SerialInterval,
	}
	for key, dst := range ints {
		if v, ok := cfg[key]; ok {
			if parsed, err := strconv.Atoi(v); err == nil && parsed >= 0 {
				*dst = parsed
			}
		}
	}
	ranges := map[string]*DayRange{
		"mild_recovery":   &c.Params.MildRecovery,
		"severe_recovery": &c.Params.SevereRecovery,
		"severe_death":    &c.Params.SevereDeath,
	}
	for key, dst := range ranges {
		if v, ok := cfg[key]; ok {
			if parsed, err := ParseDayRange(v); err == nil {
				*dst = parsed
			}
		}
	}
	return c
}

// Load reads a YAML config file. Missing keys keep their defaults; unknown
// keys and out-of-range values are rejected.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	return Parse(raw)
}

// Parse decodes a YAML config document, see Load.
func Parse(raw []byte) (Config, error) {
	var doc any
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := validateDocument(doc); err != nil {
		return Config{}, fmt.Errorf("config: %w: %v", ErrInvalidParameters, err)
	}
	c := DefaultConfig()
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return c, nil
}

const configSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "population": {"type": "integer", "minimum": 1},
    "seed": {"type": "integer"},
    "disease": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "r0": {"type": "number", "minimum": 0},
        "incubation_days": {"type": "integer", "minimum": 0},
        "percent_mild": {"type": "number", "minimum": 0, "maximum": 1},
        "percent_severe": {"type": "number", "minimum": 0, "maximum": 1},
        "mild_recovery": {"$ref": "#/$defs/range"},
        "severe_recovery": {"$ref": "#/$defs/range"},
        "severe_death": {"$ref": "#/$defs/range"},
        "fatality_rate": {"type": "number", "minimum": 0, "maximum": 1},
        "serial_interval": {"type": "integer", "minimum": 1}
      }
    }
  },
  "$defs": {
    "range": {
      "type": "array",
      "items": {"type": "integer", "minimum": 0},
      "minItems": 2,
      "maxItems": 2
    }
  }
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func validateDocument(doc any) error {
	schemaOnce.Do(func() {
		compiledSchema, schemaErr = jsonschema.CompileString("outbreak-config.schema.json", configSchema)
	})
	if schemaErr != nil {
		return schemaErr
	}
	// The validator wants JSON-shaped values; YAML decodes ints and floats
	// into Go types, so round-trip through encoding/json.
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	return compiledSchema.Validate(v)
}
