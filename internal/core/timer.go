package core

import "time"

// FixedStep paces simulated days against wall-clock time, independent of the
// frame rate of whatever loop polls it.
type FixedStep struct {
	step        time.Duration
	accumulator time.Duration
	last        time.Time
	now         func() time.Time
}

// NewFixedStep constructs a FixedStep controller targeting the given steps per second.
func NewFixedStep(perSecond float64) *FixedStep {
	fs := &FixedStep{now: time.Now}
	fs.SetRate(perSecond)
	fs.accumulator = fs.step
	return fs
}

// SetRate changes the step rate. Non-positive rates fall back to one step per second.
func (f *FixedStep) SetRate(perSecond float64) {
	if perSecond <= 0 {
		perSecond = 1
	}
	f.step = time.Duration(float64(time.Second) / perSecond)
}

// Rate reports the configured steps per second.
func (f *FixedStep) Rate() float64 {
	if f.step <= 0 {
		return 0
	}
	return float64(time.Second) / float64(f.step)
}

// Reset drops any accumulated time so the next step fires immediately.
func (f *FixedStep) Reset() {
	f.last = time.Time{}
	f.accumulator = f.step
}

// ShouldStep reports whether the caller should advance by one step. At most
// one step is granted per call; a slow caller does not receive a burst.
func (f *FixedStep) ShouldStep() bool {
	now := f.now()
	if f.last.IsZero() {
		f.last = now
	}
	delta := now.Sub(f.last)
	f.last = now
	f.accumulator += delta
	if f.accumulator >= f.step {
		f.accumulator -= f.step
		if f.accumulator > f.step {
			f.accumulator = f.step
		}
		return true
	}
	return false
}
