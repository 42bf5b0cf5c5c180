package outbreak

import (
	"fmt"
	"math"

	pcore "outbreak/pkg/core"
)

const (
	// exposureOvershoot widens each wave's pool slice beyond the number of
	// new infections to stand in for under-ascertainment.
	exposureOvershoot = 1.1
	// saturationShare is the fraction of the untouched pool infected by the
	// wave that exhausts it.
	saturationShare = 0.9
)

// PatientZero is the individual infected when a run starts.
const PatientZero IndividualID = 0

// State holds the aggregate counters of a run.
type State struct {
	Day               int `json:"day"`
	TotalInfected     int `json:"total_infected"`
	CurrentlyInfected int `json:"currently_infected"`
	Recovered         int `json:"recovered"`
	Dead              int `json:"dead"`

	// ExposedBefore..ExposedAfter is the pool slice drawn from by the most
	// recent wave.
	ExposedBefore int `json:"exposed_before"`
	ExposedAfter  int `json:"exposed_after"`
}

// DayResult is everything that changed during one simulated day.
type DayResult struct {
	Day                  int            `json:"day"`
	TotalInfected        int            `json:"total_infected"`
	CurrentlyInfected    int            `json:"currently_infected"`
	TotalRecovered       int            `json:"total_recovered"`
	TotalDead            int            `json:"total_dead"`
	NewlyInfected        []IndividualID `json:"newly_infected,omitempty"`
	NewlyRecoveredMild   []IndividualID `json:"newly_recovered_mild,omitempty"`
	NewlyRecoveredSevere []IndividualID `json:"newly_recovered_severe,omitempty"`
	NewlyDead            []IndividualID `json:"newly_dead,omitempty"`
}

// SeriesPoint is one row of the run's time series.
type SeriesPoint struct {
	Day               int `json:"day"`
	CurrentlyInfected int `json:"currently_infected"`
	Recovered         int `json:"recovered"`
	Dead              int `json:"dead"`
}

// Point reduces r to its time-series row.
func (r DayResult) Point() SeriesPoint {
	return SeriesPoint{
		Day:               r.Day,
		CurrentlyInfected: r.CurrentlyInfected,
		Recovered:         r.TotalRecovered,
		Dead:              r.TotalDead,
	}
}

// Model advances one outbreak through a fixed population. It is not safe for
// concurrent use; a single driver owns it for the whole run.
type Model struct {
	cfg      Config
	params   Params
	n        int
	rng      *pcore.RNG
	state    State
	health   []Health
	schedule *Schedule
}

// New validates cfg and seeds the run with patient zero, a mild case that
// recovers on the earliest possible mild-recovery day.
func New(cfg Config) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	m := &Model{
		cfg:      cfg,
		params:   cfg.Params,
		n:        cfg.Population,
		rng:      pcore.NewRNG(cfg.Seed),
		health:   make([]Health, cfg.Population),
		schedule: NewSchedule(cfg.Population),
	}
	m.state = State{TotalInfected: 1, CurrentlyInfected: 1, ExposedAfter: 1}
	m.health[PatientZero] = InfectedMild
	lo, _ := m.params.offsetWindow(0, m.params.MildRecovery)
	if err := m.schedule.Add(OutcomeMildRecovery, lo, PatientZero); err != nil {
		return nil, err
	}
	return m, nil
}

// Config returns the configuration the model was built from.
func (m *Model) Config() Config { return m.cfg }

// Params returns the disease parameters.
func (m *Model) Params() Params { return m.params }

// Population returns the population size.
func (m *Model) Population() int { return m.n }

// State returns a copy of the aggregate counters.
func (m *Model) State() State { return m.state }

// Day returns the current simulated day.
func (m *Model) Day() int { return m.state.Day }

// Done reports whether every infection so far has resolved.
func (m *Model) Done() bool {
	return m.state.Recovered+m.state.Dead == m.state.TotalInfected
}

// PendingTransitions counts scheduled transitions that have not happened yet.
func (m *Model) PendingTransitions() int { return m.schedule.Pending() }

// Health returns the state of id.
func (m *Model) Health(id IndividualID) Health {
	if id < 0 || int(id) >= m.n {
		return Susceptible
	}
	return m.health[id]
}

// HealthCounts tallies individuals per Health value.
func (m *Model) HealthCounts() [NumHealth]int {
	var counts [NumHealth]int
	for _, h := range m.health {
		counts[h]++
	}
	return counts
}

// Seed describes the run's starting point as a day-0 result: patient zero
// is the only infection.
func (m *Model) Seed() DayResult {
	return DayResult{
		Day:               0,
		TotalInfected:     1,
		CurrentlyInfected: 1,
		NewlyInfected:     []IndividualID{PatientZero},
	}
}

// AdvanceDay runs one day: a new-infection wave when the serial interval
// comes round, then the clock tick, then every transition booked for the new
// day. An error leaves the model in an undefined state and ends the run.
func (m *Model) AdvanceDay() (DayResult, error) {
	var res DayResult
	st := &m.state
	st.ExposedBefore = st.ExposedAfter

	if st.Day%m.params.SerialInterval == 0 && st.ExposedBefore < m.n {
		infected, err := m.spread()
		if err != nil {
			return DayResult{}, err
		}
		res.NewlyInfected = infected
	}

	st.Day++
	m.resolve(&res)

	res.Day = st.Day
	res.TotalInfected = st.TotalInfected
	res.CurrentlyInfected = st.CurrentlyInfected
	res.TotalRecovered = st.Recovered
	res.TotalDead = st.Dead
	return res, nil
}

// spread draws the day's wave from the next untouched slice of the pool.
// Growth is proportional to everyone ever infected.
func (m *Model) spread() ([]IndividualID, error) {
	st := &m.state
	// Counts stay in float64 until the clamp has bounded them by the pool.
	expected := math.RoundToEven(m.params.R0 * float64(st.TotalInfected))
	tentative := float64(st.ExposedAfter) + math.RoundToEven(expected*exposureOvershoot)
	var newInfections int
	if tentative > float64(m.n) {
		newInfections = roundCount(float64(m.n-st.ExposedBefore) * saturationShare)
		st.ExposedAfter = m.n
	} else {
		newInfections = int(expected)
		st.ExposedAfter = int(tentative)
	}

	drawn, err := pcore.SampleRange(m.rng, st.ExposedBefore, st.ExposedAfter, newInfections)
	if err != nil {
		return nil, fmt.Errorf("day %d wave: %w", st.Day, err)
	}
	st.TotalInfected += newInfections
	st.CurrentlyInfected += newInfections

	for idx := st.ExposedBefore; idx < st.ExposedAfter; idx++ {
		m.health[idx] = Exposed
	}
	if len(drawn) == 0 {
		return nil, nil
	}
	infected := make([]IndividualID, len(drawn))
	for i, idx := range drawn {
		infected[i] = IndividualID(idx)
	}
	if err := m.assignSymptoms(infected); err != nil {
		return nil, fmt.Errorf("day %d wave: %w", st.Day, err)
	}
	return infected, nil
}

// resolve applies every transition booked for the current day.
func (m *Model) resolve(res *DayResult) {
	day := m.state.Day
	res.NewlyRecoveredMild = m.apply(OutcomeMildRecovery, day)
	res.NewlyRecoveredSevere = m.apply(OutcomeSevereRecovery, day)
	res.NewlyDead = m.apply(OutcomeDeath, day)
}

func (m *Model) apply(o Outcome, day int) []IndividualID {
	ids := m.schedule.Take(o, day)
	for _, id := range ids {
		m.health[id] = o.resolvedHealth()
		m.state.CurrentlyInfected--
		if o == OutcomeDeath {
			m.state.Dead++
		} else {
			m.state.Recovered++
		}
	}
	return ids
}
