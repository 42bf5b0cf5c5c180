package outbreak

import (
	pcore "outbreak/pkg/core"
)

// assignSymptoms splits one wave into mild, severe-recovering and fatal
// cases and books each individual's transition day.
func (m *Model) assignSymptoms(infected []IndividualID) error {
	n := len(infected)
	if n == 0 {
		return nil
	}
	p := m.params

	mild, err := pcore.Sample(m.rng, infected, roundCount(p.PercentMild*float64(n)))
	if err != nil {
		return err
	}
	remaining := without(infected, mild)

	var severe, fatal []IndividualID
	if len(remaining) > 0 {
		numSevere := roundCount(p.PercentSevere * float64(n))
		numRecover := roundCount(p.SevereRecoveryShare() * float64(numSevere))
		// Rounding may leave more or fewer remaining individuals than the
		// severe count; without a fatality rate nobody may die.
		if numRecover > len(remaining) || p.FatalityRate == 0 {
			numRecover = len(remaining)
		}
		severe, err = pcore.Sample(m.rng, remaining, numRecover)
		if err != nil {
			return err
		}
		fatal = without(remaining, severe)
	}

	day := m.state.Day
	if err := m.book(OutcomeMildRecovery, mild, day, p.MildRecovery, InfectedMild); err != nil {
		return err
	}
	if err := m.book(OutcomeSevereRecovery, severe, day, p.SevereRecovery, InfectedSevere); err != nil {
		return err
	}
	return m.book(OutcomeDeath, fatal, day, p.SevereDeath, InfectedSevere)
}

func (m *Model) book(o Outcome, ids []IndividualID, day int, window DayRange, h Health) error {
	lo, hi := m.params.offsetWindow(day, window)
	for _, id := range ids {
		if err := m.schedule.Add(o, m.rng.IntBetween(lo, hi), id); err != nil {
			return err
		}
		m.health[id] = h
	}
	return nil
}

// without returns the members of all not in drop, preserving order.
func without(all, drop []IndividualID) []IndividualID {
	if len(drop) == 0 {
		return append([]IndividualID(nil), all...)
	}
	skip := make(map[IndividualID]struct{}, len(drop))
	for _, id := range drop {
		skip[id] = struct{}{}
	}
	out := make([]IndividualID, 0, len(all)-len(drop))
	for _, id := range all {
		if _, ok := skip[id]; !ok {
			out = append(out, id)
		}
	}
	return out
}
