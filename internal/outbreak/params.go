package outbreak

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// DayRange is an offset window, in days after incubation, in which a
// transition may fall. Low is inclusive and High exclusive; a range with
// High <= Low always yields Low.
type DayRange struct {
	Low  int
	High int
}

func (r DayRange) String() string { return fmt.Sprintf("%d..%d", r.Low, r.High) }

// ParseDayRange accepts "low..high", "low,high" or "low-high".
func ParseDayRange(s string) (DayRange, error) {
	s = strings.TrimSpace(s)
	for _, sep := range []string{"..", ",", "-"} {
		lo, hi, ok := strings.Cut(s, sep)
		if !ok {
			continue
		}
		low, err := strconv.Atoi(strings.TrimSpace(lo))
		if err != nil {
			return DayRange{}, fmt.Errorf("day range %q: %w", s, err)
		}
		high, err := strconv.Atoi(strings.TrimSpace(hi))
		if err != nil {
			return DayRange{}, fmt.Errorf("day range %q: %w", s, err)
		}
		return DayRange{Low: low, High: high}, nil
	}
	return DayRange{}, fmt.Errorf("day range %q: expected low..high", s)
}

func (r DayRange) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{r.Low, r.High})
}

func (r *DayRange) UnmarshalJSON(b []byte) error {
	var pair [2]int
	if err := json.Unmarshal(b, &pair); err != nil {
		return err
	}
	r.Low, r.High = pair[0], pair[1]
	return nil
}

func (r DayRange) MarshalYAML() (any, error) {
	return []int{r.Low, r.High}, nil
}

func (r *DayRange) UnmarshalYAML(node *yaml.Node) error {
	var pair []int
	if err := node.Decode(&pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("line %d: day range needs exactly two values, got %d", node.Line, len(pair))
	}
	r.Low, r.High = pair[0], pair[1]
	return nil
}

// Params describes one disease. Values are fixed for the duration of a run.
type Params struct {
	R0             float64  `yaml:"r0" json:"r0"`
	IncubationDays int      `yaml:"incubation_days" json:"incubation_days"`
	PercentMild    float64  `yaml:"percent_mild" json:"percent_mild"`
	PercentSevere  float64  `yaml:"percent_severe" json:"percent_severe"`
	MildRecovery   DayRange `yaml:"mild_recovery" json:"mild_recovery"`
	SevereRecovery DayRange `yaml:"severe_recovery" json:"severe_recovery"`
	SevereDeath    DayRange `yaml:"severe_death" json:"severe_death"`

	// FatalityRate is the share of all infections that end in death, not
	// just of severe cases.
	FatalityRate   float64 `yaml:"fatality_rate" json:"fatality_rate"`
	SerialInterval int     `yaml:"serial_interval" json:"serial_interval"`
}

// DefaultParams returns the COVID-19 reference parameters.
func DefaultParams() Params {
	return Params{
		R0:             2.3,
		IncubationDays: 5,
		PercentMild:    0.8,
		PercentSevere:  0.2,
		MildRecovery:   DayRange{Low: 7, High: 14},
		SevereRecovery: DayRange{Low: 21, High: 42},
		SevereDeath:    DayRange{Low: 14, High: 56},
		FatalityRate:   0.034,
		SerialInterval: 7,
	}
}

const shareEpsilon = 1e-9

// Validate reports the first inconsistency in p, wrapped in ErrInvalidParameters.
func (p Params) Validate() error {
	switch {
	case math.IsNaN(p.R0) || math.IsInf(p.R0, 0) || p.R0 < 0:
		return fmt.Errorf("%w: r0 must be finite and >= 0, got %v", ErrInvalidParameters, p.R0)
	case p.IncubationDays < 0:
		return fmt.Errorf("%w: incubation_days must be >= 0, got %d", ErrInvalidParameters, p.IncubationDays)
	case p.SerialInterval <= 0:
		return fmt.Errorf("%w: serial_interval must be > 0, got %d", ErrInvalidParameters, p.SerialInterval)
	case !unitInterval(p.PercentMild):
		return fmt.Errorf("%w: percent_mild must be in [0,1], got %v", ErrInvalidParameters, p.PercentMild)
	case !unitInterval(p.PercentSevere):
		return fmt.Errorf("%w: percent_severe must be in [0,1], got %v", ErrInvalidParameters, p.PercentSevere)
	case math.Abs(p.PercentMild+p.PercentSevere-1) > shareEpsilon:
		return fmt.Errorf("%w: percent_mild + percent_severe must equal 1, got %v", ErrInvalidParameters, p.PercentMild+p.PercentSevere)
	case !unitInterval(p.FatalityRate):
		return fmt.Errorf("%w: fatality_rate must be in [0,1], got %v", ErrInvalidParameters, p.FatalityRate)
	case p.FatalityRate > p.PercentSevere+shareEpsilon:
		return fmt.Errorf("%w: fatality_rate %v exceeds percent_severe %v", ErrInvalidParameters, p.FatalityRate, p.PercentSevere)
	}
	ranges := []struct {
		name string
		r    DayRange
	}{
		{"mild_recovery", p.MildRecovery},
		{"severe_recovery", p.SevereRecovery},
		{"severe_death", p.SevereDeath},
	}
	for _, rr := range ranges {
		if rr.r.Low < 0 || rr.r.High < rr.r.Low {
			return fmt.Errorf("%w: %s must satisfy 0 <= low <= high, got %s", ErrInvalidParameters, rr.name, rr.r)
		}
		// Transitions are resolved from the day after the wave onwards.
		if p.IncubationDays+rr.r.Low < 1 {
			return fmt.Errorf("%w: %s lands on the infection day; incubation_days + low must be >= 1", ErrInvalidParameters, rr.name)
		}
	}
	return nil
}

// SevereRecoveryShare is the fraction of severe cases that recover, chosen so
// that deaths make up FatalityRate of all infections.
func (p Params) SevereRecoveryShare() float64 {
	if p.PercentSevere <= 0 {
		return 0
	}
	return 1 - p.FatalityRate/p.PercentSevere
}

// offsetWindow converts a DayRange into absolute [lo, hi) days for a wave
// seeded on day.
func (p Params) offsetWindow(day int, r DayRange) (int, int) {
	base := day + p.IncubationDays
	return base + r.Low, base + r.High
}

func unitInterval(v float64) bool {
	return !math.IsNaN(v) && v >= 0 && v <= 1
}

// roundCount converts an expected count to a whole number of individuals.
// Halves round to even, matching the reference model.
func roundCount(v float64) int {
	if v <= 0 || math.IsNaN(v) {
		return 0
	}
	return int(math.RoundToEven(v))
}
