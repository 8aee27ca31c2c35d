package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/mastercactapus/stompctl/internal/hw"
	"github.com/mastercactapus/stompctl/internal/switches"
)

var (
	ErrSwitchCount  = errors.New("exactly six switches must be configured")
	ErrDuplicatePin = errors.New("pin used more than once")
	ErrDriver       = errors.New("unknown driver")
)

const (
	DefaultPollIntervalMs = 2
	DefaultEEPROMPath     = "/var/lib/stompctl/eeprom.bin"
)

type Switch struct {
	Name   string
	Pin    int
	Invert bool
}

type GPIOConfig struct {
	Driver string
}

type MIDIConfig struct {
	Driver string
	Port   string
	Baud   int
}

type ConsoleConfig struct {
	Port string
	Baud int
}

type Config struct {
	Switch         []Switch
	DebounceMs     int64
	ChordWindowMs  int64
	PollIntervalMs int64
	SplashMs       int64
	EEPROMPath     string

	GPIO    GPIOConfig
	MIDI    MIDIConfig
	Console ConsoleConfig
}

func LoadConfig(path string) (*Config, error) {
	var c Config
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return nil, err
	}
	return &c, c.Validate()
}

// Validate checks the switch wiring and drivers and fills in defaults for
// zero values.
func (c *Config) Validate() error {
	if len(c.Switch) != switches.Count {
		return fmt.Errorf("%d switches: %w", len(c.Switch), ErrSwitchCount)
	}
	pins := make(map[int]string, len(c.Switch))
	for i, sw := range c.Switch {
		if sw.Name == "" {
			c.Switch[i].Name = fmt.Sprintf("SW%d", i+1)
		}
		if other, ok := pins[sw.Pin]; ok {
			return fmt.Errorf("switch '%s' and '%s' on pin %d: %w", other, c.Switch[i].Name, sw.Pin, ErrDuplicatePin)
		}
		pins[sw.Pin] = c.Switch[i].Name
	}

	if c.DebounceMs == 0 {
		c.DebounceMs = int64(switches.DefaultSettle / time.Millisecond)
	}
	if c.ChordWindowMs == 0 {
		c.ChordWindowMs = int64(switches.DefaultChordWindow / time.Millisecond)
	}
	if c.PollIntervalMs == 0 {
		c.PollIntervalMs = DefaultPollIntervalMs
	}
	if c.SplashMs == 0 {
		c.SplashMs = int64(hw.DefaultSplash / time.Millisecond)
	}
	if c.EEPROMPath == "" {
		c.EEPROMPath = DefaultEEPROMPath
	}

	switch c.GPIO.Driver {
	case "":
		c.GPIO.Driver = "raspi"
	case "raspi", "periph":
	default:
		return fmt.Errorf("gpio driver %q: %w", c.GPIO.Driver, ErrDriver)
	}
	switch c.MIDI.Driver {
	case "":
		c.MIDI.Driver = "rtmidi"
	case "rtmidi", "serial":
	default:
		return fmt.Errorf("midi driver %q: %w", c.MIDI.Driver, ErrDriver)
	}
	if c.Console.Port == "" {
		c.Console.Port = "-"
	}
	return nil
}

func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMs) * time.Millisecond
}
func (c *Config) ChordWindow() time.Duration {
	return time.Duration(c.ChordWindowMs) * time.Millisecond
}
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}
func (c *Config) Splash() time.Duration {
	return time.Duration(c.SplashMs) * time.Millisecond
}

func (c *Config) Pins() []hw.Pin {
	pins := make([]hw.Pin, len(c.Switch))
	for i, sw := range c.Switch {
		pins[i] = hw.Pin{Name: sw.Name, Pin: sw.Pin, Invert: sw.Invert}
	}
	return pins
}
