// Package switches turns raw contact samples into debounced transitions and
// arbitrates the two-switch chord gestures on the right-hand switches.
package switches

import "time"

const (
	Count = 6

	DefaultSettle      = 35 * time.Millisecond
	DefaultChordWindow = 120 * time.Millisecond
)

// Transition is a debounced edge of one switch.
type Transition struct {
	Switch  int
	Pressed bool
}

type contact struct {
	raw        bool
	stable     bool
	lastChange time.Time
}

// Debouncer promotes a raw sample to the stable state once it has not
// changed for the settle duration.
type Debouncer struct {
	Settle   time.Duration
	contacts [Count]contact
}

func NewDebouncer(settle time.Duration) *Debouncer {
	if settle <= 0 {
		settle = DefaultSettle
	}
	return &Debouncer{Settle: settle}
}

// Reset seeds raw and stable state from a first sample without emitting
// anything.
func (d *Debouncer) Reset(samples [Count]bool, now time.Time) {
	for i, s := range samples {
		d.contacts[i] = contact{raw: s, stable: s, lastChange: now}
	}
}

// Update feeds one sample for switch i and reports a transition when the
// stable state changes.
func (d *Debouncer) Update(i int, sample bool, now time.Time) (Transition, bool) {
	c := &d.contacts[i]
	if sample != c.raw {
		c.raw = sample
		c.lastChange = now
	}
	if c.stable != c.raw && now.Sub(c.lastChange) >= d.Settle {
		c.stable = c.raw
		return Transition{Switch: i, Pressed: c.stable}, true
	}
	return Transition{}, false
}

// Stable returns the debounced state of switch i.
func (d *Debouncer) Stable(i int) bool {
	return d.contacts[i].stable
}
