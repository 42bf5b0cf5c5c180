package outbreak

import (
	"errors"
	"math"
	"reflect"
	"slices"
	"testing"
)

func runToEnd(t *testing.T, m *Model, check func(DayResult)) []DayResult {
	t.Helper()
	var days []DayResult
	for !m.Done() {
		res, err := m.AdvanceDay()
		if err != nil {
			t.Fatalf("day %d: %v", m.Day(), err)
		}
		if check != nil {
			check(res)
		}
		days = append(days, res)
		if len(days) > 10000 {
			t.Fatal("run did not terminate")
		}
	}
	return days
}

func checkState(t *testing.T, m *Model) {
	t.Helper()
	st := m.State()
	if st.CurrentlyInfected != st.TotalInfected-st.Recovered-st.Dead {
		t.Fatalf("day %d: currently infected %d != %d - %d - %d", st.Day, st.CurrentlyInfected, st.TotalInfected, st.Recovered, st.Dead)
	}
	if st.CurrentlyInfected < 0 || st.TotalInfected < 0 || st.Recovered < 0 || st.Dead < 0 {
		t.Fatalf("day %d: negative counter in %+v", st.Day, st)
	}
	if st.ExposedBefore < 0 || st.ExposedBefore > st.ExposedAfter || st.ExposedAfter > m.Population() {
		t.Fatalf("day %d: exposed slice out of bounds: %+v", st.Day, st)
	}
	if st.TotalInfected > m.Population() {
		t.Fatalf("day %d: %d infected in population of %d", st.Day, st.TotalInfected, m.Population())
	}
	counts := m.HealthCounts()
	if got := counts[InfectedMild] + counts[InfectedSevere]; got != st.CurrentlyInfected {
		t.Fatalf("day %d: %d individuals infected, counter says %d", st.Day, got, st.CurrentlyInfected)
	}
	if counts[Recovered] != st.Recovered || counts[Dead] != st.Dead {
		t.Fatalf("day %d: health counts %v disagree with %+v", st.Day, counts, st)
	}
}

func TestNewSeedsPatientZero(t *testing.T) {
	m, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	st := m.State()
	if st.TotalInfected != 1 || st.CurrentlyInfected != 1 || st.ExposedAfter != 1 || st.Day != 0 {
		t.Fatalf("unexpected initial state %+v", st)
	}
	if m.Health(PatientZero) != InfectedMild {
		t.Fatalf("patient zero health = %v", m.Health(PatientZero))
	}
	// incubation 5 + earliest mild recovery 7
	if got := m.schedule.lookup(OutcomeMildRecovery, 12); !slices.Equal(got, []IndividualID{PatientZero}) {
		t.Fatalf("patient zero not booked for day 12: %v", got)
	}
	if m.PendingTransitions() != 1 {
		t.Fatalf("expected one pending transition, got %d", m.PendingTransitions())
	}
	seed := m.Seed()
	if seed.Day != 0 || !slices.Equal(seed.NewlyInfected, []IndividualID{PatientZero}) {
		t.Fatalf("unexpected seed result %+v", seed)
	}
}

func TestFirstWave(t *testing.T) {
	m, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	res, err := m.AdvanceDay()
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	// round(2.3 * 1) = 2 new infections drawn from [1, 1+round(2.2)).
	if len(res.NewlyInfected) != 2 {
		t.Fatalf("expected 2 new infections, got %v", res.NewlyInfected)
	}
	for _, id := range res.NewlyInfected {
		if id < 1 || id >= 3 {
			t.Fatalf("id %d outside pool slice [1,3)", id)
		}
	}
	if res.Day != 1 || res.TotalInfected != 3 || res.CurrentlyInfected != 3 {
		t.Fatalf("unexpected day-1 result %+v", res)
	}
	st := m.State()
	if st.ExposedBefore != 1 || st.ExposedAfter != 3 {
		t.Fatalf("unexpected exposed slice %+v", st)
	}

	// No wave until the serial interval comes round.
	for day := 2; day <= 7; day++ {
		res, err := m.AdvanceDay()
		if err != nil {
			t.Fatalf("advance: %v", err)
		}
		if len(res.NewlyInfected) != 0 {
			t.Fatalf("day %d: unexpected wave %v", res.Day, res.NewlyInfected)
		}
	}
	res, err = m.AdvanceDay()
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	// Day 7 wave: round(2.3 * 3) = 7.
	if len(res.NewlyInfected) != 7 {
		t.Fatalf("expected 7 infections in second wave, got %d", len(res.NewlyInfected))
	}
}

func TestRunInvariantsAndConservation(t *testing.T) {
	m, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	infected := map[IndividualID]int{PatientZero: 1}
	resolved := map[IndividualID]int{}
	lastDay := 0
	runToEnd(t, m, func(res DayResult) {
		checkState(t, m)
		if res.Day != lastDay+1 {
			t.Fatalf("day jumped from %d to %d", lastDay, res.Day)
		}
		lastDay = res.Day
		for _, id := range res.NewlyInfected {
			infected[id]++
			if !m.schedule.booked(id) {
				t.Fatalf("newly infected %d has no scheduled outcome", id)
			}
		}
		for _, ids := range [][]IndividualID{res.NewlyRecoveredMild, res.NewlyRecoveredSevere, res.NewlyDead} {
			for _, id := range ids {
				resolved[id]++
			}
		}
	})

	st := m.State()
	if st.Recovered+st.Dead != st.TotalInfected {
		t.Fatalf("not conserved: %+v", st)
	}
	if st.CurrentlyInfected != 0 || m.PendingTransitions() != 0 {
		t.Fatalf("run ended with %d infected and %d pending", st.CurrentlyInfected, m.PendingTransitions())
	}
	if len(infected) != st.TotalInfected {
		t.Fatalf("%d distinct infected ids, counter %d", len(infected), st.TotalInfected)
	}
	for id, n := range infected {
		if n != 1 {
			t.Fatalf("individual %d infected %d times", id, n)
		}
		if resolved[id] != 1 {
			t.Fatalf("individual %d resolved %d times", id, resolved[id])
		}
	}
	if len(resolved) != len(infected) {
		t.Fatalf("%d resolved vs %d infected", len(resolved), len(infected))
	}
	if st.ExposedAfter != m.Population() {
		t.Fatalf("default run should exhaust the pool, exposed after = %d", st.ExposedAfter)
	}
	if st.Dead == 0 {
		t.Fatal("reference parameters should produce deaths")
	}
}

func TestDeterministicForSeed(t *testing.T) {
	run := func(seed int64) []DayResult {
		cfg := DefaultConfig()
		cfg.Seed = seed
		m, err := New(cfg)
		if err != nil {
			t.Fatalf("new: %v", err)
		}
		return runToEnd(t, m, nil)
	}
	a := run(9)
	b := run(9)
	if !reflect.DeepEqual(a, b) {
		t.Fatal("identical seeds produced different runs")
	}
	c := run(10)
	if reflect.DeepEqual(a, c) {
		t.Fatal("different seeds should produce different runs")
	}
}

func TestSmallPopulationTerminates(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Population = 10
	m, err := New(cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	days := runToEnd(t, m, func(DayResult) { checkState(t, m) })
	st := m.State()
	if st.Recovered+st.Dead != st.TotalInfected || st.TotalInfected > 10 {
		t.Fatalf("unexpected final state %+v", st)
	}
	if len(days) == 0 {
		t.Fatal("expected at least one day")
	}
}

func TestNoFatalityMeansNoDeaths(t *testing.T) {
	for _, seed := range []int64{1, 2, 3, 4, 5} {
		cfg := DefaultConfig()
		cfg.Seed = seed
		cfg.Params.FatalityRate = 0
		m, err := New(cfg)
		if err != nil {
			t.Fatalf("new: %v", err)
		}
		runToEnd(t, m, func(res DayResult) {
			if len(res.NewlyDead) != 0 {
				t.Fatalf("seed %d day %d: deaths %v with zero fatality rate", seed, res.Day, res.NewlyDead)
			}
		})
		if m.State().Dead != 0 {
			t.Fatalf("seed %d: %d deaths", seed, m.State().Dead)
		}
	}
}

func TestMildOnlyKeepsSevereTablesEmpty(t *testing.T) {
	cfg, ok := FromPreset("mild-only")
	if !ok {
		t.Fatal("mild-only preset missing")
	}
	m, err := New(cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	runToEnd(t, m, func(res DayResult) {
		if n := len(m.schedule.days(OutcomeSevereRecovery)) + len(m.schedule.days(OutcomeDeath)); n != 0 {
			t.Fatalf("day %d: %d severe table entries", res.Day, n)
		}
		if len(res.NewlyRecoveredSevere) != 0 || len(res.NewlyDead) != 0 {
			t.Fatalf("day %d: severe outcomes in mild-only run", res.Day)
		}
	})
	if counts := m.HealthCounts(); counts[InfectedSevere] != 0 || counts[Dead] != 0 {
		t.Fatalf("unexpected health counts %v", counts)
	}
}

func TestNearlyExhaustedPoolClamps(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Population = 100
	m, err := New(cfg)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	m.state.ExposedAfter = cfg.Population - 1

	res, err := m.AdvanceDay()
	if errors.Is(err, ErrInsufficientPool) {
		t.Fatalf("clamp failed to prevent sampling error: %v", err)
	}
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if len(res.NewlyInfected) > 1 {
		t.Fatalf("expected at most one infection from a single remaining slot, got %v", res.NewlyInfected)
	}
	if !slices.Equal(res.NewlyInfected, []IndividualID{99}) {
		t.Fatalf("expected individual 99, got %v", res.NewlyInfected)
	}
	st := m.State()
	if st.ExposedAfter != cfg.Population {
		t.Fatalf("exposed after = %d, want %d", st.ExposedAfter, cfg.Population)
	}
	checkState(t, m)

	// The pool is spent: later wave days draw nothing.
	for m.Day() < 14 {
		res, err := m.AdvanceDay()
		if err != nil {
			t.Fatalf("advance: %v", err)
		}
		if len(res.NewlyInfected) != 0 {
			t.Fatalf("day %d: wave after exhaustion %v", res.Day, res.NewlyInfected)
		}
	}
}

func TestSaturationNeverOversamples(t *testing.T) {
	for _, pop := range []int{1, 2, 3, 7, 23, 101, 997} {
		cfg := DefaultConfig()
		cfg.Population = pop
		cfg.Params.R0 = 9
		m, err := New(cfg)
		if err != nil {
			t.Fatalf("new: %v", err)
		}
		runToEnd(t, m, func(DayResult) { checkState(t, m) })
	}
}

func TestHugeR0SaturatesFirstWave(t *testing.T) {
	for _, r0 := range []float64{1e18, 1e19, 1e300, math.MaxFloat64} {
		cfg := DefaultConfig()
		cfg.Params.R0 = r0
		m, err := New(cfg)
		if err != nil {
			t.Fatalf("r0 %g: new: %v", r0, err)
		}
		res, err := m.AdvanceDay()
		if err != nil {
			t.Fatalf("r0 %g: first wave: %v", r0, err)
		}
		want := roundCount(float64(cfg.Population-1) * saturationShare)
		if len(res.NewlyInfected) != want {
			t.Fatalf("r0 %g: first wave infected %d, want %d", r0, len(res.NewlyInfected), want)
		}
		if st := m.State(); st.ExposedAfter != cfg.Population || st.TotalInfected > cfg.Population {
			t.Fatalf("r0 %g: pool not clamped: %+v", r0, st)
		}
		runToEnd(t, m, func(DayResult) { checkState(t, m) })
	}
}

func TestAssignSymptomsSplitAndWindows(t *testing.T) {
	m, err := New(DefaultConfig())
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	wave := make([]IndividualID, 100)
	for i := range wave {
		wave[i] = IndividualID(i + 1)
	}
	if err := m.assignSymptoms(wave); err != nil {
		t.Fatalf("assign: %v", err)
	}

	tally := func(o Outcome, lo, hi int) int {
		total := 0
		for _, day := range m.schedule.days(o) {
			for _, id := range m.schedule.lookup(o, day) {
				if id == PatientZero {
					continue
				}
				if day < lo || day >= hi {
					t.Fatalf("%v booked on day %d outside [%d,%d)", o, day, lo, hi)
				}
				total++
			}
		}
		return total
	}
	// mild: 80; severe: round(20 * (1 - 0.034/0.2)) = 17; death: 3.
	if got := tally(OutcomeMildRecovery, 12, 19); got != 80 {
		t.Fatalf("mild = %d, want 80", got)
	}
	if got := tally(OutcomeSevereRecovery, 26, 47); got != 17 {
		t.Fatalf("severe recovery = %d, want 17", got)
	}
	if got := tally(OutcomeDeath, 19, 61); got != 3 {
		t.Fatalf("deaths = %d, want 3", got)
	}
	for _, id := range wave {
		if !m.Health(id).Infected() {
			t.Fatalf("individual %d not infected after assignment", id)
		}
	}
}

func TestRoundCountHalfToEven(t *testing.T) {
	cases := map[float64]int{0: 0, -1: 0, 0.5: 0, 1.5: 2, 2.5: 2, 3.5: 4, 2.3: 2, 2.7: 3}
	for in, want := range cases {
		if got := roundCount(in); got != want {
			t.Fatalf("roundCount(%v) = %d, want %d", in, got, want)
		}
	}
}
