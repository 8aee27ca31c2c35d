// Package midiport sends switch actions to a system MIDI port through rtmidi.
// It is kept apart from package hw because the rtmidi driver needs cgo.
package midiport

import (
	"fmt"

	log "github.com/sirupsen/logrus"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register rtmidi driver

	"github.com/mastercactapus/stompctl/internal/hw"
)

// Sink sends MIDI to a named output port.
type Sink struct {
	out  drivers.Out
	send func(midi.Message) error
}

func Open(name string) (*Sink, error) {
	out, err := midi.FindOutPort(name)
	if err != nil {
		return nil, fmt.Errorf("output port not found: %s: %w", name, err)
	}
	send, err := midi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("failed to create sender: %w", err)
	}
	log.WithField("Port", out.String()).Infoln("midi port opened")
	return &Sink{out: out, send: send}, nil
}

// List returns the names of the available output ports.
func List() []string {
	outs := midi.GetOutPorts()
	names := make([]string, 0, len(outs))
	for _, out := range outs {
		names = append(names, out.String())
	}
	return names
}

func (s *Sink) SendControlChange(channel, number, value uint8) error {
	return s.send(hw.ControlChange(channel, number, value))
}

func (s *Sink) SendProgramChange(channel, number uint8) error {
	return s.send(hw.ProgramChange(channel, number))
}

func (s *Sink) Close() error {
	err := s.out.Close()
	midi.CloseDriver()
	return err
}
