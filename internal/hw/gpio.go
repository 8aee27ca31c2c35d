// Package hw contains the collaborators that talk to real hardware: switch
// inputs, MIDI outputs, the display and the serial console.
package hw

import (
	"errors"
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"
	"gobot.io/x/gobot/v2/platforms/raspi"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

const (
	LOW  = 0
	HIGH = 1
)

var ErrInvalidPin = errors.New("invalid pin")

// Pin describes one switch input. By default a LOW level means the contact
// is closed.
type Pin struct {
	Name   string
	Pin    int
	Invert bool
}

// RaspiSource reads switches through the gobot Raspberry Pi adaptor. Pins
// are physical header numbers.
type RaspiSource struct {
	pins    []Pin
	adapter *raspi.Adaptor
}

func NewRaspiSource(pins []Pin) (*RaspiSource, error) {
	a := raspi.NewAdaptor()
	if err := a.Connect(); err != nil {
		return nil, fmt.Errorf("connect raspi: %w", err)
	}
	return &RaspiSource{pins: pins, adapter: a}, nil
}

func (r *RaspiSource) SampleSwitch(i int) bool {
	p := r.pins[i]
	val, err := r.adapter.DigitalRead(strconv.Itoa(p.Pin))
	if err != nil {
		log.Fatalf("read switch '%s'(Pin%d): %s", p.Name, p.Pin, err.Error())
	}
	return (val == LOW) != p.Invert
}

func (r *RaspiSource) Close() error {
	return r.adapter.Finalize()
}

// PeriphSource reads switches through periph.io. Pins are BCM GPIO numbers.
type PeriphSource struct {
	pins []Pin
	io   []gpio.PinIO
}

func NewPeriphSource(pins []Pin) (*PeriphSource, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}
	s := &PeriphSource{pins: pins}
	for _, p := range pins {
		pin := gpioreg.ByName(fmt.Sprintf("GPIO%d", p.Pin))
		if pin == nil {
			return nil, fmt.Errorf("switch '%s' GPIO%d: %w", p.Name, p.Pin, ErrInvalidPin)
		}
		pull := gpio.PullUp
		if p.Invert {
			pull = gpio.PullDown
		}
		if err := pin.In(pull, gpio.NoEdge); err != nil {
			return nil, fmt.Errorf("switch '%s' GPIO%d: %w", p.Name, p.Pin, err)
		}
		s.io = append(s.io, pin)
	}
	return s, nil
}

func (s *PeriphSource) SampleSwitch(i int) bool {
	return (s.io[i].Read() == gpio.Low) != s.pins[i].Invert
}

func (s *PeriphSource) Close() error {
	for _, p := range s.io {
		p.Halt()
	}
	return nil
}
