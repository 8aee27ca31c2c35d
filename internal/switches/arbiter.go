package switches

import "time"

// Chord identifies one of the two-switch gestures.
type Chord int

const (
	NoChord Chord = iota
	ChordBankDown
	ChordBankUp
)

func (c Chord) String() string {
	switch c {
	case ChordBankDown:
		return "bank-down"
	case ChordBankUp:
		return "bank-up"
	}
	return "none"
}

type EventKind int

const (
	Press EventKind = iota
	Release
	ChordFired
)

// Event is what the arbiter hands on to the action executor.
type Event struct {
	Kind   EventKind
	Switch int
	Chord  Chord
}

type phase int

const (
	idle phase = iota
	// pressed, waiting for release, partner or window expiry
	pending
	// press forwarded, release will be forwarded
	committed
	// swallowed by a chord, nothing is emitted until the switch is released
	suppressed
)

type arbitrated struct {
	phase phase
	since time.Time
}

type chordPair struct {
	a, b  int
	chord Chord
}

var chordPairs = [...]chordPair{
	{3, 4, ChordBankDown},
	{4, 5, ChordBankUp},
}

// FirstChordSwitch is the lowest switch index taking part in chords. Lower
// switches are passed straight through.
const FirstChordSwitch = 3

// Arbiter delays single presses on the chord switches long enough to tell a
// tap, a held press and a chord apart.
type Arbiter struct {
	Window time.Duration

	sw      [Count]arbitrated
	latched [len(chordPairs)]bool
}

func NewArbiter(window time.Duration) *Arbiter {
	if window <= 0 {
		window = DefaultChordWindow
	}
	return &Arbiter{Window: window}
}

// Reset forgets all pending presses and latches. Switches already held are
// treated as suppressed so their release does not produce a bare release.
func (a *Arbiter) Reset(stable [Count]bool) {
	for i := range a.sw {
		a.sw[i] = arbitrated{}
		if i >= FirstChordSwitch && stable[i] {
			a.sw[i].phase = suppressed
		}
	}
	for i := range a.latched {
		a.latched[i] = stable[chordPairs[i].a] && stable[chordPairs[i].b]
	}
}

// Step runs one poll worth of arbitration: debounced transitions first, then
// chord resolution against the stable states, then window timeouts.
func (a *Arbiter) Step(ts []Transition, stable [Count]bool, now time.Time) []Event {
	var out []Event
	for _, t := range ts {
		out = append(out, a.Transition(t, now)...)
	}
	out = append(out, a.ResolveChords(stable)...)
	out = append(out, a.ResolveTimeouts(now)...)
	return out
}

// Transition handles a single debounced edge.
func (a *Arbiter) Transition(t Transition, now time.Time) []Event {
	if t.Switch < FirstChordSwitch {
		if t.Pressed {
			return []Event{{Kind: Press, Switch: t.Switch}}
		}
		return []Event{{Kind: Release, Switch: t.Switch}}
	}

	s := &a.sw[t.Switch]
	if t.Pressed {
		if s.phase == idle {
			s.phase = pending
			s.since = now
		}
		return nil
	}

	prev := s.phase
	*s = arbitrated{}
	switch prev {
	case pending:
		if a.ChordActive() {
			return nil
		}
		return []Event{
			{Kind: Press, Switch: t.Switch},
			{Kind: Release, Switch: t.Switch},
		}
	case committed:
		return []Event{{Kind: Release, Switch: t.Switch}}
	}
	return nil
}

// ResolveChords latches newly formed chords and releases broken ones. A newly
// latched chord swallows all individual bookkeeping of the chord switches.
func (a *Arbiter) ResolveChords(stable [Count]bool) []Event {
	var out []Event
	for i, p := range chordPairs {
		both := stable[p.a] && stable[p.b]
		switch {
		case both && !a.latched[i]:
			a.latched[i] = true
			a.suppress(stable)
			out = append(out, Event{Kind: ChordFired, Chord: p.chord})
		case !both && a.latched[i]:
			a.latched[i] = false
		}
	}
	return out
}

func (a *Arbiter) suppress(stable [Count]bool) {
	for i := FirstChordSwitch; i < Count; i++ {
		if stable[i] {
			a.sw[i] = arbitrated{phase: suppressed}
		} else {
			a.sw[i] = arbitrated{}
		}
	}
}

// ResolveTimeouts commits pending presses whose window has expired. Nothing
// is committed while a chord is held.
func (a *Arbiter) ResolveTimeouts(now time.Time) []Event {
	if a.ChordActive() {
		return nil
	}
	var out []Event
	for i := FirstChordSwitch; i < Count; i++ {
		s := &a.sw[i]
		if s.phase == pending && now.Sub(s.since) >= a.Window {
			s.phase = committed
			out = append(out, Event{Kind: Press, Switch: i})
		}
	}
	return out
}

// ChordActive reports whether any chord is currently latched.
func (a *Arbiter) ChordActive() bool {
	for _, l := range a.latched {
		if l {
			return true
		}
	}
	return false
}
