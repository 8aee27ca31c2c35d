package actions

import "strings"

// ActionType selects what a switch does when it is pressed or released.
type ActionType uint8

const (
	None ActionType = iota
	ControlChange
	ProgramChange
	BankUp
	BankDown
	ControlChangeToggle
	ControlChangeOneShot

	typeCount
)

func (t ActionType) String() string {
	switch t {
	case None:
		return "none"
	case ControlChange:
		return "cc"
	case ProgramChange:
		return "pc"
	case BankUp:
		return "bank-up"
	case BankDown:
		return "bank-down"
	case ControlChangeToggle:
		return "cc-toggle"
	case ControlChangeOneShot:
		return "cc-oneshot"
	}
	return "invalid"
}

const (
	Banks     = 4
	Switches  = 6
	LabelSize = 4
)

// Slot is one switch binding within a bank.
type Slot struct {
	Label        [LabelSize]byte
	Type         ActionType
	Channel      uint8
	Number       uint8
	PressValue   uint8
	ReleaseValue uint8
}

// LabelString returns the four display characters.
func (s Slot) LabelString() string { return string(s.Label[:]) }

// LabelByte maps c to a byte a label may hold. Anything outside printable
// ASCII becomes a space, as do the comma and the underscore, which the
// protocol uses as field separator and escaped blank.
func LabelByte(c byte) byte {
	if c < 0x20 || c > 0x7E || c == ',' || c == '_' {
		return ' '
	}
	return c
}

// MakeLabel pads or truncates name to four characters. Underscores become
// spaces so labels with blanks survive the comma separated protocol. Each
// non-ASCII character takes one cell and shows as a space.
func MakeLabel(name string) (l [LabelSize]byte) {
	for i := range l {
		l[i] = ' '
	}
	i := 0
	for _, r := range name {
		if i == LabelSize {
			break
		}
		if r > 0x7E {
			r = ' '
		}
		l[i] = LabelByte(byte(r))
		i++
	}
	return l
}

// EscapeLabel is the inverse of MakeLabel.
func EscapeLabel(l [LabelSize]byte) string {
	return strings.ReplaceAll(string(l[:]), " ", "_")
}

// ClampType maps anything outside the known variants to None.
func ClampType(v int) ActionType {
	if v < 0 || v >= int(typeCount) {
		return None
	}
	return ActionType(v)
}

// ClampChannel forces v into the MIDI channel range 1-16.
func ClampChannel(v int) uint8 {
	if v < 1 {
		return 1
	}
	if v > 16 {
		return 16
	}
	return uint8(v)
}

// Clamp7 forces v into the 7-bit MIDI data range.
func Clamp7(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 127 {
		return 127
	}
	return uint8(v)
}

// NewSlot builds a slot from unchecked values, clamping every field.
func NewSlot(label string, typ, channel, number, press, release int) Slot {
	return Slot{
		Label:        MakeLabel(label),
		Type:         ClampType(typ),
		Channel:      ClampChannel(channel),
		Number:       Clamp7(number),
		PressValue:   Clamp7(press),
		ReleaseValue: Clamp7(release),
	}
}

// Sanitize returns a copy of s with every field forced into range.
func (s Slot) Sanitize() Slot {
	for i, c := range s.Label {
		s.Label[i] = LabelByte(c)
	}
	s.Type = ClampType(int(s.Type))
	s.Channel = ClampChannel(int(s.Channel))
	s.Number = Clamp7(int(s.Number))
	s.PressValue = Clamp7(int(s.PressValue))
	s.ReleaseValue = Clamp7(int(s.ReleaseValue))
	return s
}
