package actions

import (
	log "github.com/sirupsen/logrus"
)

// Sink receives the MIDI messages produced by switch actions. Channels are
// 1-16 as configured.
type Sink interface {
	SendControlChange(channel, number, value uint8) error
	SendProgramChange(channel, number uint8) error
}

// Display renders bank information for the player.
type Display interface {
	ShowBankSplash(bank int)
	DrawLabels(bank int, labels [Switches]string)
}

// Executor applies switch events to the active bank of a Map. Banks are
// reported 1-based to the outside.
type Executor struct {
	m       *Map
	sink    Sink
	display Display
	bank    int
}

func NewExecutor(m *Map, sink Sink, display Display) *Executor {
	return &Executor{m: m, sink: sink, display: display, bank: 1}
}

// Bank returns the active bank, 1-4.
func (e *Executor) Bank() int { return e.bank }

// Refresh redraws the labels of the active bank.
func (e *Executor) Refresh() {
	e.display.DrawLabels(e.bank, e.m.Labels(e.bank-1))
}

func (e *Executor) BankUp() {
	e.bank = e.bank%Banks + 1
	e.bankChanged()
}

func (e *Executor) BankDown() {
	e.bank = (e.bank+Banks-2)%Banks + 1
	e.bankChanged()
}

func (e *Executor) bankChanged() {
	log.WithField("Bank", e.bank).Infoln("bank changed")
	e.display.ShowBankSplash(e.bank)
	e.Refresh()
}

// Handle runs the action bound to switch sw (0-5) in the active bank.
func (e *Executor) Handle(sw int, pressed bool) {
	s, err := e.m.Slot(e.bank-1, sw)
	if err != nil {
		log.WithField("Switch", sw).Warnln("handle:", err)
		return
	}

	switch s.Type {
	case BankUp:
		if pressed {
			e.BankUp()
		}
	case BankDown:
		if pressed {
			e.BankDown()
		}
	case ProgramChange:
		if pressed {
			e.report(sw, s, e.sink.SendProgramChange(s.Channel, s.Number))
		}
	case ControlChange:
		val := s.ReleaseValue
		if pressed {
			val = s.PressValue
		}
		e.sendCC(sw, s, val)
	case ControlChangeToggle:
		if pressed {
			var val uint8
			if e.m.Toggle(e.bank-1, sw) {
				val = s.PressValue
			}
			e.sendCC(sw, s, val)
		}
	case ControlChangeOneShot:
		if pressed {
			e.sendCC(sw, s, s.PressValue)
		}
	}
}

func (e *Executor) sendCC(sw int, s Slot, val uint8) {
	e.report(sw, s, e.sink.SendControlChange(s.Channel, s.Number, val))
}

func (e *Executor) report(sw int, s Slot, err error) {
	lg := log.WithFields(log.Fields{
		"Bank":    e.bank,
		"Switch":  sw + 1,
		"Type":    s.Type,
		"Channel": s.Channel,
		"Number":  s.Number,
	})
	if err != nil {
		lg.Warnln("midi send:", err)
		return
	}
	lg.Debugln("midi sent")
}
