package outbreak

import "outbreak/internal/core"

func init() {
	core.RegisterPreset(core.Preset{
		Name:        "covid19",
		Description: "COVID-19 reference parameters, 5000 people",
	})
	core.RegisterPreset(core.Preset{
		Name:        "mild-only",
		Description: "every case is mild and recovers",
		Values: map[string]string{
			"percent_mild":   "1",
			"percent_severe": "0",
			"fatality_rate":  "0",
		},
	})
	core.RegisterPreset(core.Preset{
		Name:        "nonfatal",
		Description: "COVID-19 course with no deaths",
		Values: map[string]string{
			"fatality_rate": "0",
		},
	})
	core.RegisterPreset(core.Preset{
		Name:        "village",
		Description: "reference disease in a population of 10",
		Values: map[string]string{
			"population": "10",
		},
	})
}

// FromPreset applies the named preset to the default config.
func FromPreset(name string) (Config, bool) {
	p, ok := core.LookupPreset(name)
	if !ok {
		return Config{}, false
	}
	return FromMap(p.Values), true
}
