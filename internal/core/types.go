package core

import "sort"

// Sim defines the minimal contract an interactive front end drives. Step
// advances exactly one simulated day.
type Sim interface {
	Name() string
	Population() int
	Day() int
	Reset(seed int64) error
	Step() error
	Done() bool
}

// Preset is a named set of flag-style overrides applied on top of a default
// configuration.
type Preset struct {
	Name        string
	Description string
	Values      map[string]string
}

var presets = map[string]Preset{}

// RegisterPreset adds a preset under its name. Empty names are ignored.
func RegisterPreset(p Preset) {
	if p.Name == "" {
		return
	}
	presets[p.Name] = p
}

// LookupPreset returns the preset registered under name.
func LookupPreset(name string) (Preset, bool) {
	p, ok := presets[name]
	return p, ok
}

// PresetNames lists the registered presets in lexical order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
