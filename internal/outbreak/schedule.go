package outbreak

import (
	"fmt"
	"sort"
)

// Schedule holds the three day-indexed transition tables. Tables grow on
// demand, so a transition can land on any future day. An individual may be
// scheduled at most once over the life of the schedule, even after its entry
// has been taken.
type Schedule struct {
	tables    [numOutcomes]map[int][]IndividualID
	scheduled []bool
	pending   int
}

// NewSchedule returns an empty schedule for a population of n.
func NewSchedule(n int) *Schedule {
	s := &Schedule{scheduled: make([]bool, n)}
	for i := range s.tables {
		s.tables[i] = make(map[int][]IndividualID)
	}
	return s
}

// Add books id for outcome o on day.
func (s *Schedule) Add(o Outcome, day int, id IndividualID) error {
	if int(o) >= numOutcomes {
		return fmt.Errorf("schedule: unknown outcome %d", o)
	}
	if id < 0 || int(id) >= len(s.scheduled) {
		return fmt.Errorf("schedule: individual %d outside population of %d", id, len(s.scheduled))
	}
	if s.scheduled[id] {
		return fmt.Errorf("%w: individual %d", ErrAlreadyScheduled, id)
	}
	s.scheduled[id] = true
	s.tables[o][day] = append(s.tables[o][day], id)
	s.pending++
	return nil
}

// lookup returns the ids booked for o on day without removing them.
func (s *Schedule) lookup(o Outcome, day int) []IndividualID {
	return s.tables[o][day]
}

// Take removes and returns the ids booked for o on day. A day with no
// entries yields nil.
func (s *Schedule) Take(o Outcome, day int) []IndividualID {
	ids, ok := s.tables[o][day]
	if !ok {
		return nil
	}
	delete(s.tables[o], day)
	s.pending -= len(ids)
	return ids
}

// Pending counts booked transitions that have not been taken yet.
func (s *Schedule) Pending() int { return s.pending }

// booked reports whether id has ever been booked.
func (s *Schedule) booked(id IndividualID) bool {
	return id >= 0 && int(id) < len(s.scheduled) && s.scheduled[id]
}

// days lists the days that still hold entries for o, ascending.
func (s *Schedule) days(o Outcome) []int {
	days := make([]int, 0, len(s.tables[o]))
	for day := range s.tables[o] {
		days = append(days, day)
	}
	sort.Ints(days)
	return days
}
