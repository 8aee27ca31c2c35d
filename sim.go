package main

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mastercactapus/stompctl/internal/actions"
	"github.com/mastercactapus/stompctl/internal/controller"
	"github.com/mastercactapus/stompctl/internal/hw"
	"github.com/mastercactapus/stompctl/internal/hw/midiport"
	"github.com/mastercactapus/stompctl/internal/store"
	"github.com/mastercactapus/stompctl/internal/switches"
)

const (
	simPoll    = 2 * time.Millisecond
	simLogSize = 8
)

// simSwitches is a latching contact per switch. Terminals deliver key presses
// but not key releases, so each key flips its contact.
type simSwitches struct {
	mx     sync.Mutex
	closed [actions.Switches]bool
}

func (s *simSwitches) SampleSwitch(i int) bool {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.closed[i]
}

func (s *simSwitches) flip(idx ...int) {
	s.mx.Lock()
	for _, i := range idx {
		s.closed[i] = !s.closed[i]
	}
	s.mx.Unlock()
}

func (s *simSwitches) state() [actions.Switches]bool {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.closed
}

// lineLog keeps the last few lines written to it.
type lineLog struct {
	max   int
	lines []string
	part  string
}

func (l *lineLog) add(line string) {
	l.lines = append(l.lines, line)
	if len(l.lines) > l.max {
		l.lines = l.lines[len(l.lines)-l.max:]
	}
}

func (l *lineLog) Write(p []byte) (int, error) {
	l.part += string(p)
	for {
		idx := strings.IndexByte(l.part, '\n')
		if idx == -1 {
			break
		}
		l.add(strings.TrimRight(l.part[:idx], "\r"))
		l.part = l.part[idx+1:]
	}
	return len(p), nil
}

func (l *lineLog) String() string { return strings.Join(l.lines, "\n") }

// simSink records outgoing messages and optionally forwards them to a real port.
type simSink struct {
	log  *lineLog
	port actions.Sink
}

func (s *simSink) SendControlChange(channel, number, value uint8) error {
	s.log.add(fmt.Sprintf("CC  ch=%-2d cc=%-3d val=%d", channel, number, value))
	if s.port != nil {
		return s.port.SendControlChange(channel, number, value)
	}
	return nil
}

func (s *simSink) SendProgramChange(channel, number uint8) error {
	s.log.add(fmt.Sprintf("PC  ch=%-2d pgm=%d", channel, number))
	if s.port != nil {
		return s.port.SendProgramChange(channel, number)
	}
	return nil
}

// simDisplay holds the splash without blocking the poll loop.
type simDisplay struct {
	splash time.Duration
	until  time.Time
}

func (d *simDisplay) ShowBankSplash(bank int) { d.until = time.Now().Add(d.splash) }
func (d *simDisplay) DrawLabels(bank int, labels [actions.Switches]string) {}

type tickMsg time.Time

func simTick() tea.Cmd {
	return tea.Tick(simPoll, func(t time.Time) tea.Msg { return tickMsg(t) })
}

var (
	simTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	simHead  = lipgloss.NewStyle().Underline(true)
	simHelp  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type simModel struct {
	ctrl    *controller.Controller
	pedal   *simSwitches
	display *simDisplay
	midi    *lineLog
	console *lineLog

	typing bool
	cmd    string
}

func (m simModel) Init() tea.Cmd { return simTick() }

func (m simModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.ctrl.Poll(time.Time(msg))
		return m, simTick()
	case tea.KeyMsg:
		if m.typing {
			switch msg.Type {
			case tea.KeyEnter:
				m.console.add("> " + m.cmd)
				m.ctrl.Feed([]byte(m.cmd + "\n"))
				m.typing, m.cmd = false, ""
			case tea.KeyEsc:
				m.typing, m.cmd = false, ""
			case tea.KeyBackspace:
				if len(m.cmd) > 0 {
					m.cmd = m.cmd[:len(m.cmd)-1]
				}
			case tea.KeySpace:
				m.cmd += " "
			case tea.KeyRunes:
				m.cmd += string(msg.Runes)
			case tea.KeyCtrlC:
				return m, tea.Quit
			}
			return m, nil
		}
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case ":":
			m.typing = true
		case "1", "2", "3", "4", "5", "6":
			m.pedal.flip(int(msg.String()[0] - '1'))
		case "d":
			m.pedal.flip(3, 4)
		case "u":
			m.pedal.flip(4, 5)
		}
	}
	return m, nil
}

func (m simModel) View() string {
	var b strings.Builder
	b.WriteString(simTitle.Render("stompctl sim") + "\n\n")
	splash := time.Now().Before(m.display.until)
	b.WriteString(hw.RenderPanel(m.ctrl.Bank(), m.ctrl.Labels(), m.pedal.state(), splash))
	b.WriteString("\n\n" + simHead.Render("MIDI") + "\n" + m.midi.String() + "\n")
	b.WriteString("\n" + simHead.Render("Console") + "\n" + m.console.String() + "\n")
	if m.typing {
		b.WriteString("\n: " + m.cmd + "_\n")
	} else {
		b.WriteString("\n" + simHelp.Render("1-6 flip a switch  d/u flip 4+5 or 5+6  : console command  q quit") + "\n")
	}
	return b.String()
}

func runSim(cmd *cobra.Command, args []string) {
	logFile, err := os.OpenFile("stompctl-sim.log", os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		log.Fatalln("open log:", err)
	}
	defer logFile.Close()
	log.SetOutput(logFile)

	midiLog := &lineLog{max: simLogSize}
	sink := &simSink{log: midiLog}
	if simMIDIPort != "" {
		port, err := midiport.Open(simMIDIPort)
		if err != nil {
			log.Fatalln("open midi:", err)
		}
		defer port.Close()
		sink.port = port
	}

	m := simModel{
		pedal:   &simSwitches{},
		display: &simDisplay{splash: hw.DefaultSplash},
		midi:    midiLog,
		console: &lineLog{max: simLogSize},
	}
	m.ctrl = controller.New(controller.Options{
		Source:      m.pedal,
		Sink:        sink,
		Display:     m.display,
		EEPROM:      store.NewFile(simEEPROM),
		Console:     m.console,
		Settle:      switches.DefaultSettle,
		ChordWindow: switches.DefaultChordWindow,
	})
	m.ctrl.Start(time.Now())
	log.WithFields(log.Fields{"Session": m.ctrl.Session(), "EEPROM": simEEPROM}).Infoln("simulator started")

	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatalln("sim:", err)
	}
}
