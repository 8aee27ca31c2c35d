package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mastercactapus/stompctl/internal/actions"
	"github.com/mastercactapus/stompctl/internal/controller"
	"github.com/mastercactapus/stompctl/internal/hw"
	"github.com/mastercactapus/stompctl/internal/hw/midiport"
	"github.com/mastercactapus/stompctl/internal/protocol"
	"github.com/mastercactapus/stompctl/internal/store"
)

type source interface {
	controller.Source
	io.Closer
}

func openSource(c *Config) (source, error) {
	if c.GPIO.Driver == "periph" {
		return hw.NewPeriphSource(c.Pins())
	}
	return hw.NewRaspiSource(c.Pins())
}

func openSink(c *Config) (actions.Sink, io.Closer, error) {
	if c.MIDI.Driver == "serial" {
		return hw.OpenSerialSink(c.MIDI.Port, c.MIDI.Baud)
	}
	s, err := midiport.Open(c.MIDI.Port)
	if err != nil {
		return nil, nil, err
	}
	return s, s, nil
}

func runController(cmd *cobra.Command, args []string) {
	c, err := LoadConfig(configPath)
	if err != nil {
		log.Fatalln("load config:", err)
	}

	src, err := openSource(c)
	if err != nil {
		log.Fatalln("open switches:", err)
	}
	defer src.Close()

	sink, sinkCloser, err := openSink(c)
	if err != nil {
		log.Fatalln("open midi:", err)
	}
	defer sinkCloser.Close()

	con, err := hw.OpenConsole(c.Console.Port, c.Console.Baud)
	if err != nil {
		log.Fatalln("open console:", err)
	}
	defer con.Close()

	ctrl := controller.New(controller.Options{
		Source:      src,
		Sink:        sink,
		Display:     &hw.LogDisplay{Splash: c.Splash()},
		EEPROM:      store.NewFile(c.EEPROMPath),
		Console:     con,
		Settle:      c.Debounce(),
		ChordWindow: c.ChordWindow(),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	log.WithFields(log.Fields{
		"Session":  ctrl.Session(),
		"GPIO":     c.GPIO.Driver,
		"MIDI":     c.MIDI.Driver,
		"Interval": c.PollInterval().String(),
	}).Infoln("controller running")
	ctrl.Run(ctx, hw.Pump(con), c.PollInterval())
	log.Infoln("controller stopped")
}

func runDump(cmd *cobra.Command, args []string) {
	path := ""
	if len(args) == 1 {
		path = args[0]
	} else {
		c, err := LoadConfig(configPath)
		if err != nil {
			log.Fatalln("load config:", err)
		}
		path = c.EEPROMPath
	}

	err := dumpImage(os.Stdout, store.NewFile(path))
	if err != nil {
		log.Fatalln("dump:", err)
	}
}

func dumpImage(w io.Writer, mem store.EEPROM) error {
	m := actions.NewMap()
	if err := store.New(mem).Load(m); err != nil {
		return err
	}
	for _, l := range protocol.DumpLines(m.Slots()) {
		fmt.Fprintln(w, l)
	}
	return nil
}

func runPorts(cmd *cobra.Command, args []string) {
	for _, name := range midiport.List() {
		fmt.Println(name)
	}
}
