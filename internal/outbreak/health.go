package outbreak

// IndividualID identifies one member of the population, 0..N-1.
type IndividualID int

// Health is the disease state of one individual.
type Health uint8

const (
	Susceptible Health = iota
	// Exposed marks pool members that were eligible in a wave but not drawn.
	Exposed
	InfectedMild
	InfectedSevere
	Recovered
	Dead
)

// NumHealth is the number of Health values.
const NumHealth = int(Dead) + 1

func (h Health) String() string {
	switch h {
	case Susceptible:
		return "susceptible"
	case Exposed:
		return "exposed"
	case InfectedMild:
		return "infected-mild"
	case InfectedSevere:
		return "infected-severe"
	case Recovered:
		return "recovered"
	case Dead:
		return "dead"
	default:
		return "unknown"
	}
}

// Infected reports whether h is one of the active infection states.
func (h Health) Infected() bool { return h == InfectedMild || h == InfectedSevere }

// Outcome is the way an infection resolves.
type Outcome uint8

const (
	OutcomeMildRecovery Outcome = iota
	OutcomeSevereRecovery
	OutcomeDeath
)

const numOutcomes = int(OutcomeDeath) + 1

func (o Outcome) String() string {
	switch o {
	case OutcomeMildRecovery:
		return "mild-recovery"
	case OutcomeSevereRecovery:
		return "severe-recovery"
	case OutcomeDeath:
		return "death"
	default:
		return "unknown"
	}
}

// resolvedHealth is the state an individual ends in after o.
func (o Outcome) resolvedHealth() Health {
	if o == OutcomeDeath {
		return Dead
	}
	return Recovered
}
