package outbreak

import (
	"strconv"

	"outbreak/internal/core"
)

// Parameters describes c for HUDs and CLI listings.
func (c Config) Parameters() core.ParameterSnapshot {
	p := c.Params
	groups := []core.ParameterGroup{
		{
			Name: "Population",
			Params: []core.Parameter{
				intParam("population", "Population", c.Population),
				int64Param("seed", "Seed", c.Seed),
			},
		},
		{
			Name:    "Transmission",
			Summary: "Waves every serial interval; each infects R0 x everyone ever infected.",
			Params: []core.Parameter{
				floatParam("r0", "R0", p.R0),
				intParam("serial_interval", "Serial interval", p.SerialInterval),
				intParam("incubation_days", "Incubation days", p.IncubationDays),
			},
		},
		{
			Name: "Disease course",
			Params: []core.Parameter{
				floatParam("percent_mild", "Mild share", p.PercentMild),
				floatParam("percent_severe", "Severe share", p.PercentSevere),
				floatParam("fatality_rate", "Fatality rate", p.FatalityRate),
				rangeParam("mild_recovery", "Mild recovery", p.MildRecovery),
				rangeParam("severe_recovery", "Severe recovery", p.SevereRecovery),
				rangeParam("severe_death", "Severe death", p.SevereDeath),
			},
		},
	}
	return core.ParameterSnapshot{Groups: groups}
}

// Parameters describes the model's configuration.
func (m *Model) Parameters() core.ParameterSnapshot { return m.cfg.Parameters() }

func intParam(key, label string, value int) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.Itoa(value),
	}
}

func int64Param(key, label string, value int64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeInt,
		Value: strconv.FormatInt(value, 10),
	}
}

func floatParam(key, label string, value float64) core.Parameter {
	return core.Parameter{
		Key:   key,
		Label: label,
		Type:  core.ParamTypeFloat,
		Value: strconv.FormatFloat(value, 'f', -1, 64),
	}
}

func rangeParam(key, label string, value DayRange) core.Parameter {
	return core.Parameter{
		Key:         key,
		Label:       label,
		Type:        core.ParamTypeRange,
		Value:       value.String(),
		Description: "days after incubation, high exclusive",
	}
}
