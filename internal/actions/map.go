package actions

import "errors"

var ErrIndex = errors.New("bank or switch out of range")

// Map is the bank x switch configuration grid together with the transient
// toggle bit of every slot. Banks and switches are zero based here.
type Map struct {
	slots   [Banks][Switches]Slot
	toggles [Banks][Switches]bool
}

// DefaultSlots is the factory layout: every bank has bank-down on switch 5
// and bank-up on switch 6, everything else inert.
func DefaultSlots() (g [Banks][Switches]Slot) {
	for b := range g {
		for sw := range g[b] {
			g[b][sw] = NewSlot("----", int(None), 1, 0, 0, 0)
		}
		g[b][4] = NewSlot("BNK-", int(BankDown), 1, 0, 0, 0)
		g[b][5] = NewSlot("BNK+", int(BankUp), 1, 0, 0, 0)
	}
	return g
}

func NewMap() *Map {
	m := &Map{}
	m.Reset()
	return m
}

// Reset restores the factory layout and clears all toggles.
func (m *Map) Reset() {
	m.Replace(DefaultSlots())
}

func valid(bank, sw int) bool {
	return bank >= 0 && bank < Banks && sw >= 0 && sw < Switches
}

func (m *Map) Slot(bank, sw int) (Slot, error) {
	if !valid(bank, sw) {
		return Slot{}, ErrIndex
	}
	return m.slots[bank][sw], nil
}

// Set stores a sanitized copy of s and clears that slot's toggle bit.
func (m *Map) Set(bank, sw int, s Slot) error {
	if !valid(bank, sw) {
		return ErrIndex
	}
	m.slots[bank][sw] = s.Sanitize()
	m.toggles[bank][sw] = false
	return nil
}

// Replace overwrites the whole grid and clears every toggle bit.
func (m *Map) Replace(g [Banks][Switches]Slot) {
	for b := range g {
		for sw := range g[b] {
			m.slots[b][sw] = g[b][sw].Sanitize()
		}
	}
	m.toggles = [Banks][Switches]bool{}
}

// Slots returns a copy of the grid.
func (m *Map) Slots() [Banks][Switches]Slot {
	return m.slots
}

// Labels returns the six labels of one bank.
func (m *Map) Labels(bank int) (l [Switches]string) {
	if bank < 0 || bank >= Banks {
		return l
	}
	for sw, s := range m.slots[bank] {
		l[sw] = s.LabelString()
	}
	return l
}

// Toggle flips the toggle bit of a slot and returns its new value.
func (m *Map) Toggle(bank, sw int) bool {
	if !valid(bank, sw) {
		return false
	}
	m.toggles[bank][sw] = !m.toggles[bank][sw]
	return m.toggles[bank][sw]
}

func (m *Map) Toggled(bank, sw int) bool {
	return valid(bank, sw) && m.toggles[bank][sw]
}
