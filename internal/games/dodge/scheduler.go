package dodge

import "time"

// Trigger identifies one of the periodic round callbacks.
type Trigger int

const (
	TriggerAdvance    Trigger = iota // move enemies
	TriggerTick                      // elapsed time, score, difficulty
	TriggerSpawnCheck                // spawn if under the cap
)

// String returns the trigger name.
func (t Trigger) String() string {
	switch t {
	case TriggerAdvance:
		return "advance"
	case TriggerTick:
		return "tick"
	case TriggerSpawnCheck:
		return "spawn-check"
	default:
		return "unknown"
	}
}

// Periods are trigger intervals measured in pulses.
type Periods struct {
	Advance    int
	SpawnCheck int
	Tick       int
}

// DefaultPeriods keeps tick : spawn-check : advance at 20 : 5 : 1.
func DefaultPeriods() Periods {
	return Periods{Advance: 1, SpawnCheck: 5, Tick: 20}
}

// Handlers are the callbacks a Scheduler fires.
type Handlers struct {
	Advance    func()
	SpawnCheck func()
	Tick       func()
}

// Scheduler derives the three round triggers from a single pulse counter.
// Within one pulse the order is advance, tick, spawn-check. Once canceled,
// it fires nothing, including the rest of a pulse that is in progress.
type Scheduler struct {
	periods  Periods
	handlers Handlers
	pulses   uint64
	canceled bool
}

// NewScheduler creates a scheduler. Non-positive periods never fire.
func NewScheduler(periods Periods, handlers Handlers) *Scheduler {
	return &Scheduler{periods: periods, handlers: handlers}
}

// Pulse advances the counter by one and runs whatever is due.
// It returns the triggers that actually fired.
func (s *Scheduler) Pulse() []Trigger {
	if s.canceled {
		return nil
	}
	s.pulses++

	var fired []Trigger
	run := func(t Trigger, every int, fn func()) {
		if s.canceled || every <= 0 || s.pulses%uint64(every) != 0 {
			return
		}
		if fn != nil {
			fn()
		}
		fired = append(fired, t)
	}
	run(TriggerAdvance, s.periods.Advance, s.handlers.Advance)
	run(TriggerTick, s.periods.Tick, s.handlers.Tick)
	run(TriggerSpawnCheck, s.periods.SpawnCheck, s.handlers.SpawnCheck)
	return fired
}

// Pulses returns how many pulses this scheduler has processed.
func (s *Scheduler) Pulses() uint64 {
	return s.pulses
}

// Cancel stops the scheduler permanently.
func (s *Scheduler) Cancel() {
	s.canceled = true
}

// Canceled reports whether Cancel was called.
func (s *Scheduler) Canceled() bool {
	return s.canceled
}

// Clock turns wall-clock durations into whole pulses, carrying the remainder.
type Clock struct {
	pulse time.Duration
	acc   time.Duration
}

// NewClock creates a clock with the given pulse length.
func NewClock(pulse time.Duration) *Clock {
	return &Clock{pulse: pulse}
}

// Advance adds d and returns the number of pulses now due.
func (c *Clock) Advance(d time.Duration) int {
	if d <= 0 || c.pulse <= 0 {
		return 0
	}
	c.acc += d
	n := int(c.acc / c.pulse)
	c.acc -= time.Duration(n) * c.pulse
	return n
}

// Reset drops any carried remainder.
func (c *Clock) Reset() {
	c.acc = 0
}
