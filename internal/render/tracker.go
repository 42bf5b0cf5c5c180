package render

import "outbreak/internal/outbreak"

// Tracker rebuilds per-individual health from delivered days, which is all
// a presentation layer sees of a run. Severity is not part of a DayResult,
// so every infection shows as InfectedMild until it resolves.
type Tracker struct {
	health []outbreak.Health
	last   outbreak.DayResult
}

// NewTracker returns a tracker for a population of n, everyone uninfected.
func NewTracker(n int) *Tracker {
	if n < 0 {
		n = 0
	}
	return &Tracker{health: make([]outbreak.Health, n)}
}

// Apply records res: its infections first, then its resolutions.
func (t *Tracker) Apply(res outbreak.DayResult) {
	t.Infect(res.NewlyInfected)
	t.Resolve(res)
}

// Infect marks ids infected without touching the counters. Viewers use it
// to reveal a wave in batches.
func (t *Tracker) Infect(ids []outbreak.IndividualID) {
	t.set(ids, outbreak.InfectedMild)
}

// Resolve applies res's recoveries and deaths and adopts its counters.
func (t *Tracker) Resolve(res outbreak.DayResult) {
	t.set(res.NewlyRecoveredMild, outbreak.Recovered)
	t.set(res.NewlyRecoveredSevere, outbreak.Recovered)
	t.set(res.NewlyDead, outbreak.Dead)
	t.last = res
}

// Health returns the tracked state of id.
func (t *Tracker) Health(id outbreak.IndividualID) outbreak.Health {
	if id < 0 || int(id) >= len(t.health) {
		return outbreak.Susceptible
	}
	return t.health[id]
}

// Len returns the population size.
func (t *Tracker) Len() int { return len(t.health) }

// Last returns the most recently resolved day.
func (t *Tracker) Last() outbreak.DayResult { return t.last }

// Reset marks everyone uninfected again.
func (t *Tracker) Reset() {
	for i := range t.health {
		t.health[i] = outbreak.Susceptible
	}
	t.last = outbreak.DayResult{}
}

func (t *Tracker) set(ids []outbreak.IndividualID, h outbreak.Health) {
	for _, id := range ids {
		if id >= 0 && int(id) < len(t.health) {
			t.health[id] = h
		}
	}
}
