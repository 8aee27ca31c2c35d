// Package protocol implements the line oriented configuration console.
//
// Every request is one line of comma separated fields, every reply is
// STATUS,DETAIL where STATUS is OK or ERR.
package protocol

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/mastercactapus/stompctl/internal/actions"
	"github.com/mastercactapus/stompctl/internal/store"
)

const (
	ErrFormat      = "FORMAT"
	ErrIndex       = "INDEX"
	ErrNoConfig    = "NO_CONFIG"
	ErrUnknown     = "UNKNOWN"
	ErrLineTooLong = "LINE_TOO_LONG"
	ErrStorage     = "STORAGE"
)

// setFields is the number of fields following the SET keyword.
const setFields = 8

// Target is the part of the controller the console needs beyond the map.
type Target interface {
	Bank() int
	Refresh()
}

// Handler executes console commands against a Map and its Store. It is not
// safe for concurrent use; lines are handled synchronously by the poll loop.
type Handler struct {
	Session string

	m      *actions.Map
	st     *store.Store
	target Target
	w      io.Writer
	lines  LineAssembler
	log    *log.Entry
}

func NewHandler(m *actions.Map, st *store.Store, target Target, w io.Writer) *Handler {
	id := uuid.New().String()
	return &Handler{
		Session: id,
		m:       m,
		st:      st,
		target:  target,
		w:       w,
		log:     log.WithField("Session", id),
	}
}

// Write feeds raw console input, handling every completed line.
func (h *Handler) Write(p []byte) (int, error) {
	for _, c := range p {
		line, st := h.lines.Feed(c)
		switch st {
		case Complete:
			h.HandleLine(line)
		case TooLong:
			h.log.Warnln("console line too long")
			h.reply("ERR", ErrLineTooLong)
		}
	}
	return len(p), nil
}

func (h *Handler) reply(status string, detail ...string) {
	fmt.Fprintln(h.w, strings.Join(append([]string{status}, detail...), ","))
}

// HandleLine executes a single command line without its terminator.
func (h *Handler) HandleLine(line string) {
	if strings.TrimSpace(line) == "" {
		return
	}
	f := Fields(line)
	lg := h.log.WithField("Command", f[0])

	switch f[0] {
	case "SET":
		h.set(lg, f[1:])
	case "SAVE":
		if err := h.st.Save(h.m); err != nil {
			lg.Errorln("save:", err)
			h.reply("ERR", ErrStorage)
			return
		}
		lg.Infoln("configuration saved")
		h.reply("OK", "SAVE")
	case "LOAD":
		err := h.st.Load(h.m)
		if errors.Is(err, store.ErrNoConfig) || errors.Is(err, store.ErrShortImage) {
			lg.Warnln("load:", err)
			h.reply("ERR", ErrNoConfig)
			return
		}
		if err != nil {
			lg.Errorln("load:", err)
			h.reply("ERR", ErrStorage)
			return
		}
		lg.Infoln("configuration loaded")
		h.target.Refresh()
		h.reply("OK", "LOAD")
	case "DUMP":
		h.dump()
	case "HELP":
		h.reply("OK", "HELP", "SET", "SAVE", "LOAD", "DUMP")
	default:
		lg.Debugln("unknown command")
		h.reply("ERR", ErrUnknown)
	}
}

func (h *Handler) set(lg *log.Entry, args []string) {
	if len(args) != setFields {
		lg.WithField("Fields", len(args)).Debugln("bad SET arity")
		h.reply("ERR", ErrFormat)
		return
	}
	bank, sw := Atoi(args[0]), Atoi(args[1])
	if bank < 1 || bank > actions.Banks || sw < 1 || sw > actions.Switches {
		h.reply("ERR", ErrIndex)
		return
	}

	slot := actions.NewSlot(args[2],
		Atoi(args[3]), Atoi(args[4]), Atoi(args[5]), Atoi(args[6]), Atoi(args[7]))
	if err := h.m.Set(bank-1, sw-1, slot); err != nil {
		h.reply("ERR", ErrIndex)
		return
	}
	lg.WithFields(log.Fields{
		"Bank":   bank,
		"Switch": sw,
		"Label":  slot.LabelString(),
		"Type":   slot.Type,
	}).Infoln("slot configured")

	if bank == h.target.Bank() {
		h.target.Refresh()
	}
	h.reply("OK", "SET")
}

// SetLine renders a slot as the SET command that recreates it.
func SetLine(bank, sw int, s actions.Slot) string {
	return fmt.Sprintf("SET,%d,%d,%s,%d,%d,%d,%d,%d",
		bank, sw, actions.EscapeLabel(s.Label), s.Type, s.Channel, s.Number, s.PressValue, s.ReleaseValue)
}

// DumpLines renders a whole grid, bank major.
func DumpLines(g [actions.Banks][actions.Switches]actions.Slot) []string {
	lines := make([]string, 0, actions.Banks*actions.Switches)
	for b := range g {
		for sw, s := range g[b] {
			lines = append(lines, SetLine(b+1, sw+1, s))
		}
	}
	return lines
}

func (h *Handler) dump() {
	for _, l := range DumpLines(h.m.Slots()) {
		fmt.Fprintln(h.w, l)
	}
	h.reply("OK", "DUMP")
}
