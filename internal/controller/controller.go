package controller

import (
	"context"
	"errors"
	"io"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/mastercactapus/stompctl/internal/actions"
	"github.com/mastercactapus/stompctl/internal/protocol"
	"github.com/mastercactapus/stompctl/internal/store"
	"github.com/mastercactapus/stompctl/internal/switches"
)

// Source reports whether the contact of a switch is closed.
type Source interface {
	SampleSwitch(i int) bool
}

type Options struct {
	Source  Source
	Sink    actions.Sink
	Display actions.Display
	EEPROM  store.EEPROM
	// Console receives protocol replies.
	Console io.Writer

	Settle      time.Duration
	ChordWindow time.Duration
}

// Controller owns all runtime state of the foot controller. It is driven
// from a single goroutine.
type Controller struct {
	src     Source
	m       *actions.Map
	exec    *actions.Executor
	store   *store.Store
	console *protocol.Handler
	deb     *switches.Debouncer
	arb     *switches.Arbiter
}

func New(o Options) *Controller {
	m := actions.NewMap()
	exec := actions.NewExecutor(m, o.Sink, o.Display)
	st := store.New(o.EEPROM)
	console := o.Console
	if console == nil {
		console = io.Discard
	}
	return &Controller{
		src:     o.Source,
		m:       m,
		exec:    exec,
		store:   st,
		console: protocol.NewHandler(m, st, exec, console),
		deb:     switches.NewDebouncer(o.Settle),
		arb:     switches.NewArbiter(o.ChordWindow),
	}
}

// Start loads the stored configuration if there is one, seeds the switch
// state from a first sample and draws the active bank.
func (c *Controller) Start(now time.Time) {
	err := c.store.Load(c.m)
	switch {
	case err == nil:
		log.Infoln("stored configuration loaded")
	case errors.Is(err, store.ErrNoConfig):
		log.Infoln("no stored configuration, using defaults")
	default:
		log.Warnln("load stored configuration:", err)
	}

	c.deb.Reset(c.sample(), now)
	c.arb.Reset(c.stable())
	c.exec.Refresh()
}

func (c *Controller) sample() (s [switches.Count]bool) {
	for i := range s {
		s[i] = c.src.SampleSwitch(i)
	}
	return s
}

func (c *Controller) stable() (s [switches.Count]bool) {
	for i := range s {
		s[i] = c.deb.Stable(i)
	}
	return s
}

// Feed passes console input to the command handler.
func (c *Controller) Feed(p []byte) {
	c.console.Write(p)
}

// Poll samples and debounces every switch, resolves chords and chord window
// timeouts, and runs the resulting actions.
func (c *Controller) Poll(now time.Time) {
	var ts []switches.Transition
	for i := 0; i < switches.Count; i++ {
		t, ok := c.deb.Update(i, c.src.SampleSwitch(i), now)
		if !ok {
			continue
		}
		log.WithFields(log.Fields{
			"Switch":  i + 1,
			"Pressed": t.Pressed,
		}).Debugln("switch changed")
		ts = append(ts, t)
	}

	for _, ev := range c.arb.Step(ts, c.stable(), now) {
		c.dispatch(ev)
	}
}

func (c *Controller) dispatch(ev switches.Event) {
	switch ev.Kind {
	case switches.Press:
		c.exec.Handle(ev.Switch, true)
	case switches.Release:
		c.exec.Handle(ev.Switch, false)
	case switches.ChordFired:
		log.WithField("Chord", ev.Chord).Infoln("chord")
		switch ev.Chord {
		case switches.ChordBankDown:
			c.exec.BankDown()
		case switches.ChordBankUp:
			c.exec.BankUp()
		}
	}
}

// Run polls every interval until ctx is done. Console input arriving on in
// is drained at the start of each iteration.
func (c *Controller) Run(ctx context.Context, in <-chan []byte, interval time.Duration) {
	c.Start(time.Now())

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			c.drain(in)
			c.Poll(now)
		}
	}
}

func (c *Controller) drain(in <-chan []byte) {
	for {
		select {
		case p, ok := <-in:
			if !ok {
				return
			}
			c.Feed(p)
		default:
			return
		}
	}
}

func (c *Controller) Bank() int { return c.exec.Bank() }

// Labels returns the labels of the active bank.
func (c *Controller) Labels() [actions.Switches]string {
	return c.m.Labels(c.exec.Bank() - 1)
}

// Session is the id of the console session, used in logs.
func (c *Controller) Session() string { return c.console.Session }
