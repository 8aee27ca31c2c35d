package hw

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"gitlab.com/gomidi/midi/v2"
	"go.bug.st/serial"
)

// DefaultMIDIBaud is the DIN MIDI bit rate.
const DefaultMIDIBaud = 31250

// ControlChange and ProgramChange take 1-based channels.
func ControlChange(channel, number, value uint8) midi.Message {
	return midi.ControlChange(channel-1, number, value)
}

func ProgramChange(channel, number uint8) midi.Message {
	return midi.ProgramChange(channel-1, number)
}

// WireSink writes raw MIDI bytes, e.g. to a UART driving a DIN socket.
type WireSink struct {
	w io.Writer
}

func NewWireSink(w io.Writer) *WireSink {
	return &WireSink{w: w}
}

// OpenSerialSink opens a UART for DIN MIDI output.
func OpenSerialSink(device string, baud int) (*WireSink, io.Closer, error) {
	if baud == 0 {
		baud = DefaultMIDIBaud
	}
	p, err := serial.Open(device, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, nil, fmt.Errorf("open midi uart %s: %w", device, err)
	}
	log.WithFields(log.Fields{
		"Device": device,
		"Baud":   baud,
	}).Infoln("midi uart opened")
	return NewWireSink(p), p, nil
}

func (s *WireSink) SendControlChange(channel, number, value uint8) error {
	_, err := s.w.Write(ControlChange(channel, number, value).Bytes())
	return err
}

func (s *WireSink) SendProgramChange(channel, number uint8) error {
	_, err := s.w.Write(ProgramChange(channel, number).Bytes())
	return err
}
